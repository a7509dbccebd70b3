package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/pkg/pagination"
)

// ErrDuplicateOrderID is returned by Create when the order already has a receipt
var ErrDuplicateOrderID = errors.New("order id already has a receipt")

// ReceiptRepository defines the interface for receipt data operations.
// Lookups return nil, nil when nothing matches.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	Update(ctx context.Context, receipt *entity.Receipt) error
	ReplaceItems(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id int64) (*entity.Receipt, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Receipt, error)
	List(ctx context.Context) ([]entity.Receipt, error)
	ListPage(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, dayStart time.Time) (*ReceiptStats, error)
}

// ReceiptFilterParams contains filtering parameters for receipt queries.
// Search matches id, order id, customer name and email case-insensitively.
type ReceiptFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ReceiptStatus
}

// ReceiptStats aggregates the receipts table
type ReceiptStats struct {
	Total        int64
	Today        int64
	EmailsSent   int64
	Stored       int64
	StorageBytes int64
}
