package memory

import (
	"context"
	"sync"

	"github.com/sangkips/receiptflow/internal/domain/entity"
	domainRepo "github.com/sangkips/receiptflow/internal/domain/repository"
)

// SettingsRepository keeps the business settings row in memory
type SettingsRepository struct {
	mu       sync.RWMutex
	settings *entity.BusinessSettings
}

// NewSettingsRepository creates a repository with no saved settings
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

var _ domainRepo.SettingsRepository = (*SettingsRepository)(nil)

func (r *SettingsRepository) Get(ctx context.Context) (*entity.BusinessSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return nil, nil
	}
	out := *r.settings
	return &out, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings *entity.BusinessSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings.ID = entity.BusinessSettingsID
	saved := *settings
	r.settings = &saved
	return nil
}
