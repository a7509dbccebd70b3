// Package events publishes receipt lifecycle events.
package events

import (
	"context"
	"time"

	"github.com/sangkips/receiptflow/internal/domain/enum"
)

// Type names an event
type Type string

const (
	TypeStatusChanged Type = "receipt.status_changed"
	TypeDeleted       Type = "receipt.deleted"
	TypeEmailResent   Type = "receipt.email_resent"
)

// Event is one lifecycle change of a receipt
type Event struct {
	Type      Type               `json:"type"`
	ReceiptID int64              `json:"receipt_id"`
	OrderID   string             `json:"order_id"`
	Status    enum.ReceiptStatus `json:"status"`
	Reason    string             `json:"reason,omitempty"`
	At        time.Time          `json:"at"`
}

// Publisher delivers events. Publishing is best effort; callers log failures.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
