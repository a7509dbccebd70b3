package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call
type Kind int

const (
	KindNetworkUnreachable Kind = iota + 1
	KindValidation
	KindDuplicateOrderID
	KindNotFound
	KindServer
	KindUnknownHTTP
)

func (k Kind) String() string {
	switch k {
	case KindNetworkUnreachable:
		return "network_unreachable"
	case KindValidation:
		return "validation"
	case KindDuplicateOrderID:
		return "duplicate_order_id"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindUnknownHTTP:
		return "unknown_http"
	}
	return "unknown"
}

// User-facing messages, shared with the mock provider
const (
	MsgDuplicateOrderID  = "Duplicate order ID. A receipt with this order ID already exists."
	MsgNotFound          = "Resource not found."
	MsgServer            = "Server error. Please try again later."
	MsgTestEmailRequired = "Please enter an email address"
	msgValidationPrefix  = "Validation error: "
	msgNotConnected      = "Backend not connected. Make sure the receipt API is running at %s"
)

// Error is returned by every Source operation that fails. Message is ready to
// show to the user; Detail carries what the server said, if anything.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a client error of the given kind
func IsKind(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// NewNotConnectedError reports that baseURL could not be reached
func NewNotConnectedError(baseURL string, err error) *Error {
	return &Error{
		Kind:    KindNetworkUnreachable,
		Message: fmt.Sprintf(msgNotConnected, baseURL),
		Err:     err,
	}
}

// NewValidationError wraps a server or local validation message
func NewValidationError(detail string) *Error {
	return &Error{
		Kind:       KindValidation,
		StatusCode: 400,
		Message:    msgValidationPrefix + detail,
		Detail:     detail,
	}
}

// NewDuplicateOrderError reports a 409 on create
func NewDuplicateOrderError(detail string) *Error {
	return &Error{Kind: KindDuplicateOrderID, StatusCode: 409, Message: MsgDuplicateOrderID, Detail: detail}
}

// NewNotFoundError reports a missing resource
func NewNotFoundError(detail string) *Error {
	return &Error{Kind: KindNotFound, StatusCode: 404, Message: MsgNotFound, Detail: detail}
}

// classify maps a non-2xx status to an Error. detail is the message extracted
// from the body, or the status-line fallback when the body was not JSON.
func classify(status int, detail string) *Error {
	switch status {
	case 409:
		return NewDuplicateOrderError(detail)
	case 400:
		return NewValidationError(detail)
	case 404:
		return NewNotFoundError(detail)
	case 500:
		return &Error{Kind: KindServer, StatusCode: status, Message: MsgServer, Detail: detail}
	}
	return &Error{Kind: KindUnknownHTTP, StatusCode: status, Message: detail, Detail: detail}
}
