// Package memory holds map-backed repositories used by tests and by the API
// when no database is configured.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	domainRepo "github.com/sangkips/receiptflow/internal/domain/repository"
	"github.com/sangkips/receiptflow/internal/listing"
	"github.com/sangkips/receiptflow/pkg/pagination"
)

var receiptFilter = listing.Filter[entity.Receipt]{
	Fields: func(r entity.Receipt) []string {
		return []string{strconv.FormatInt(r.ID, 10), r.OrderID, r.CustomerName, r.CustomerEmail}
	},
	Status: func(r entity.Receipt) enum.ReceiptStatus { return r.Status },
}

// ReceiptRepository keeps receipts in a map keyed by id
type ReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[int64]entity.Receipt
	nextID   int64
	nextItem int64
	now      func() time.Time
}

// NewReceiptRepository creates an empty repository
func NewReceiptRepository() *ReceiptRepository {
	return &ReceiptRepository{
		receipts: make(map[int64]entity.Receipt),
		nextID:   1,
		nextItem: 1,
		now:      time.Now,
	}
}

var _ domainRepo.ReceiptRepository = (*ReceiptRepository)(nil)

// WithClock replaces the clock used for timestamps
func (r *ReceiptRepository) WithClock(now func() time.Time) *ReceiptRepository {
	r.now = now
	return r
}

func clone(r entity.Receipt) entity.Receipt {
	r.Items = slices.Clone(r.Items)
	return r
}

func (r *ReceiptRepository) assignItems(receipt *entity.Receipt) {
	for i := range receipt.Items {
		receipt.Items[i].ID = r.nextItem
		receipt.Items[i].ReceiptID = receipt.ID
		r.nextItem++
	}
}

func (r *ReceiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.receipts {
		if existing.OrderID == receipt.OrderID {
			return fmt.Errorf("order_id %q: %w", receipt.OrderID, domainRepo.ErrDuplicateOrderID)
		}
	}

	if receipt.ReceiptNumber == "" {
		receipt.ReceiptNumber = entity.NewReceiptNumber()
	}
	now := r.now()
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = now
	}
	receipt.UpdatedAt = now
	receipt.ID = r.nextID
	r.nextID++
	r.assignItems(receipt)

	r.receipts[receipt.ID] = clone(*receipt)
	return nil
}

func (r *ReceiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.receipts[receipt.ID]
	if !ok {
		return fmt.Errorf("receipt %d does not exist", receipt.ID)
	}
	receipt.UpdatedAt = r.now()

	updated := clone(*receipt)
	updated.Items = stored.Items
	r.receipts[receipt.ID] = updated
	return nil
}

func (r *ReceiptRepository) ReplaceItems(ctx context.Context, receipt *entity.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.receipts[receipt.ID]; !ok {
		return fmt.Errorf("receipt %d does not exist", receipt.ID)
	}
	receipt.UpdatedAt = r.now()
	r.assignItems(receipt)
	r.receipts[receipt.ID] = clone(*receipt)
	return nil
}

func (r *ReceiptRepository) GetByID(ctx context.Context, id int64) (*entity.Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	receipt, ok := r.receipts[id]
	if !ok {
		return nil, nil
	}
	out := clone(receipt)
	return &out, nil
}

func (r *ReceiptRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, receipt := range r.receipts {
		if receipt.OrderID == orderID {
			out := clone(receipt)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ReceiptRepository) snapshot() []entity.Receipt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Receipt, 0, len(r.receipts))
	for _, receipt := range r.receipts {
		out = append(out, clone(receipt))
	}
	slices.SortFunc(out, func(a, b entity.Receipt) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (r *ReceiptRepository) List(ctx context.Context) ([]entity.Receipt, error) {
	return r.snapshot(), nil
}

// ListPage orders newest first like the database implementation
func (r *ReceiptRepository) ListPage(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	receipts := r.snapshot()
	slices.SortStableFunc(receipts, func(a, b entity.Receipt) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	q := listing.Query{Search: params.Search}
	if params.Status != nil {
		q.Status = params.Status.String()
	}

	p := params.Pagination
	if p == nil {
		p = pagination.DefaultPagination()
	}
	page, err := receiptFilter.Paginate(receipts, q, p.Page, p.PerPage)
	if err != nil {
		return nil, int64(len(receiptFilter.Apply(receipts, q))), err
	}
	return page.Items, int64(page.Filtered), nil
}

func (r *ReceiptRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.receipts, id)
	return nil
}

func (r *ReceiptRepository) Stats(ctx context.Context, dayStart time.Time) (*domainRepo.ReceiptStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dayEnd := dayStart.AddDate(0, 0, 1)
	stats := &domainRepo.ReceiptStats{Total: int64(len(r.receipts))}
	for _, receipt := range r.receipts {
		if !receipt.CreatedAt.Before(dayStart) && receipt.CreatedAt.Before(dayEnd) {
			stats.Today++
		}
		if receipt.Status.IsDelivered() {
			stats.EmailsSent++
		}
		if receipt.Status == enum.ReceiptStatusStored {
			stats.Stored++
			stats.StorageBytes += receipt.PDFSize
		}
	}
	return stats, nil
}
