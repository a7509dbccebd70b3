package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/sangkips/receiptflow/internal/infrastructure/memory"
	"github.com/sangkips/receiptflow/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSettingsService_DefaultsUntilSaved(t *testing.T) {
	svc := NewSettingsService(memory.NewSettingsRepository(), &fakeMailer{}, zap.NewNop())

	settings, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultBusinessSettings().Name, settings.Name)

	updated, err := svc.UpdateSettings(context.Background(), &UpdateSettingsInput{
		Name:  "  Corner Shop ",
		Email: "shop@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", updated.Name)

	settings, err = svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", settings.Name)
	assert.Equal(t, "shop@example.com", settings.Email)
}

func TestSettingsService_UpdateValidation(t *testing.T) {
	svc := NewSettingsService(memory.NewSettingsRepository(), &fakeMailer{}, zap.NewNop())

	_, err := svc.UpdateSettings(context.Background(), &UpdateSettingsInput{Email: "nope"})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, []apperror.FieldError{
		{Field: "email", Message: "Invalid email address"},
		{Field: "name", Message: "Business name is required"},
	}, appErr.Errors)
}

func TestSettingsService_SendTestEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewSettingsService(memory.NewSettingsRepository(), mailer, zap.NewNop())

	err := svc.SendTestEmail(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, MsgTestEmailRequired, apperror.GetAppError(err).Message)

	err = svc.SendTestEmail(context.Background(), "bad-address")
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	require.NoError(t, svc.SendTestEmail(context.Background(), "owner@example.com"))
	assert.Equal(t, []string{"owner@example.com|ReceiptFlow Inc."}, mailer.tests)

	mailer.err = errBoom
	err = svc.SendTestEmail(context.Background(), "owner@example.com")
	assert.Equal(t, http.StatusInternalServerError, apperror.GetAppError(err).Code)
}
