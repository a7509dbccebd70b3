package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/sangkips/receiptflow/internal/domain/repository"
	"github.com/sangkips/receiptflow/pkg/apperror"
	"go.uber.org/zap"
)

// MsgTestEmailRequired is returned when no test address is given
const MsgTestEmailRequired = "Please enter an email address"

var validate = validator.New()

// SettingsService handles business settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	mailer       Mailer
	logger       *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, mailer Mailer, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		mailer:       mailer,
		logger:       logger,
	}
}

// GetSettings retrieves the business settings, falling back to the defaults
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.BusinessSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}
	if settings == nil {
		settings = entity.DefaultBusinessSettings()
	}
	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	Name    string
	Address string
	City    string
	Country string
	Phone   string
	Email   string
	LogoURL string
	TaxID   string
}

// UpdateSettings replaces the business settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.BusinessSettings, error) {
	settings := &entity.BusinessSettings{
		Name:    strings.TrimSpace(input.Name),
		Address: strings.TrimSpace(input.Address),
		City:    strings.TrimSpace(input.City),
		Country: strings.TrimSpace(input.Country),
		Phone:   strings.TrimSpace(input.Phone),
		Email:   strings.TrimSpace(input.Email),
		LogoURL: strings.TrimSpace(input.LogoURL),
		TaxID:   strings.TrimSpace(input.TaxID),
	}

	fields := map[string]string{}
	if settings.Name == "" {
		fields["name"] = "Business name is required"
	}
	if settings.Email != "" && validate.Var(settings.Email, "email") != nil {
		fields["email"] = "Invalid email address"
	}
	if settings.LogoURL != "" && validate.Var(settings.LogoURL, "url") != nil {
		fields["logo_url"] = "Invalid logo URL"
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save business settings: %w", err)
	}

	s.logger.Info("Business settings updated", zap.String("name", settings.Name))
	return settings, nil
}

// SendTestEmail mails a test message to "to" using the current settings
func (s *SettingsService) SendTestEmail(ctx context.Context, to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return apperror.NewBadRequestError(MsgTestEmailRequired)
	}
	if validate.Var(to, "email") != nil {
		return apperror.NewBadRequestError("Invalid email address")
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}

	if err := s.mailer.SendTestEmail(to, settings.Name); err != nil {
		return apperror.Wrap(500, "Failed to send test email", err)
	}

	s.logger.Info("Test email sent", zap.String("to", to))
	return nil
}
