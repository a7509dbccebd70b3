package viewstate

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sangkips/receiptflow/internal/client"
)

var (
	ErrReceiptIDRequired = errors.New("Please enter a receipt ID")
	ErrReceiptIDInvalid  = errors.New("Please enter a valid numeric receipt ID")
)

// ParseReceiptID reads a positive numeric receipt id
func ParseReceiptID(input string) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrReceiptIDRequired
	}
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil || id < 1 {
		return 0, ErrReceiptIDInvalid
	}
	return id, nil
}

// Lookup is the search-by-id screen
type Lookup struct {
	Input   string
	ID      int64
	Receipt *client.Receipt
	Error   string
}

// Submit parses the input. On success ID is set and any previous result is
// cleared; on failure Error holds the message.
func (l Lookup) Submit(input string) Lookup {
	id, err := ParseReceiptID(input)
	if err != nil {
		return Lookup{Input: input, Error: err.Error()}
	}
	return Lookup{Input: input, ID: id}
}

// Resolve records the outcome of fetching the receipt
func (l Lookup) Resolve(r *client.Receipt, err error) Lookup {
	if err != nil {
		l.Receipt = nil
		l.Error = err.Error()
		return l
	}
	l.Receipt = r
	l.Error = ""
	return l
}
