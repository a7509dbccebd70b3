package repository

import (
	"context"

	"github.com/sangkips/receiptflow/internal/domain/entity"
)

// SettingsRepository defines the interface for business settings data access
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.BusinessSettings, error)
	Save(ctx context.Context, settings *entity.BusinessSettings) error
}
