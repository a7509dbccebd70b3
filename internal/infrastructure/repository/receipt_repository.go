package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	domainRepo "github.com/sangkips/receiptflow/internal/domain/repository"
	"github.com/sangkips/receiptflow/pkg/pagination"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	err := r.db.WithContext(ctx).Create(receipt).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateOrderID
	}
	return err
}

func (r *receiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).Omit("Items").Save(receipt).Error
}

// ReplaceItems saves the receipt and swaps its items for receipt.Items
func (r *receiptRepository) ReplaceItems(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", receipt.ID).Delete(&entity.ReceiptItem{}).Error; err != nil {
			return err
		}
		for i := range receipt.Items {
			receipt.Items[i].ID = 0
			receipt.Items[i].ReceiptID = receipt.ID
		}
		if len(receipt.Items) > 0 {
			if err := tx.Create(&receipt.Items).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Items").Save(receipt).Error
	})
}

func (r *receiptRepository) GetByID(ctx context.Context, id int64) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&receipt, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) List(ctx context.Context) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Order("id ASC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) ListPage(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Receipt{})

	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		query = query.Where(
			"CAST(id AS TEXT) ILIKE ? OR order_id ILIKE ? OR customer_name ILIKE ? OR customer_email ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	if err := params.Pagination.CheckRange(total); err != nil {
		return nil, total, err
	}

	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items", orderedItems).
		Order("created_at DESC, id DESC").
		Find(&receipts).Error

	return receipts, total, err
}

func (r *receiptRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", id).Delete(&entity.ReceiptItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Receipt{}, "id = ?", id).Error
	})
}

func (r *receiptRepository) Stats(ctx context.Context, dayStart time.Time) (*domainRepo.ReceiptStats, error) {
	var stats domainRepo.ReceiptStats
	db := r.db.WithContext(ctx).Model(&entity.Receipt{})

	if err := db.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	if err := db.Session(&gorm.Session{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayStart.AddDate(0, 0, 1)).
		Count(&stats.Today).Error; err != nil {
		return nil, err
	}

	delivered := []enum.ReceiptStatus{enum.ReceiptStatusSent, enum.ReceiptStatusStored}
	if err := db.Session(&gorm.Session{}).
		Where("status IN ?", delivered).
		Count(&stats.EmailsSent).Error; err != nil {
		return nil, err
	}

	if err := db.Session(&gorm.Session{}).
		Where("status = ?", enum.ReceiptStatusStored).
		Count(&stats.Stored).Error; err != nil {
		return nil, err
	}

	if err := db.Session(&gorm.Session{}).
		Select("COALESCE(SUM(pdf_size), 0)").
		Where("status = ?", enum.ReceiptStatusStored).
		Scan(&stats.StorageBytes).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// escapeLike escapes LIKE wildcards so the search is a plain substring match
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
