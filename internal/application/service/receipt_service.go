package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/internal/domain/repository"
	"github.com/sangkips/receiptflow/internal/infrastructure/events"
	"github.com/sangkips/receiptflow/internal/infrastructure/pdf"
	"github.com/sangkips/receiptflow/internal/infrastructure/storage"
	"github.com/sangkips/receiptflow/internal/validation"
	"github.com/sangkips/receiptflow/pkg/apperror"
	"github.com/sangkips/receiptflow/pkg/email"
	"github.com/sangkips/receiptflow/pkg/money"
	"github.com/sangkips/receiptflow/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PDFRenderer turns a receipt into PDF bytes
type PDFRenderer interface {
	Render(ctx context.Context, doc pdf.Document) ([]byte, error)
}

// Mailer delivers receipt and test emails
type Mailer interface {
	SendReceiptEmail(data email.ReceiptEmail) error
	SendTestEmail(to, businessName string) error
}

// ReceiptOptions configures the receipt pipeline
type ReceiptOptions struct {
	TaxPercent     decimal.Decimal
	CurrencySymbol string
}

// ReceiptService issues receipts: it validates orders, computes totals, renders
// and stores the PDF, emails the customer and records each step.
type ReceiptService struct {
	receiptRepo  repository.ReceiptRepository
	settingsRepo repository.SettingsRepository
	renderer     PDFRenderer
	storage      storage.Storage
	mailer       Mailer
	publisher    events.Publisher
	opts         ReceiptOptions
	logger       *zap.Logger
	now          func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	settingsRepo repository.SettingsRepository,
	renderer PDFRenderer,
	store storage.Storage,
	mailer Mailer,
	publisher events.Publisher,
	opts ReceiptOptions,
	logger *zap.Logger,
) *ReceiptService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ReceiptService{
		receiptRepo:  receiptRepo,
		settingsRepo: settingsRepo,
		renderer:     renderer,
		storage:      store,
		mailer:       mailer,
		publisher:    publisher,
		opts:         opts,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock replaces the clock, for tests
func (s *ReceiptService) WithClock(now func() time.Time) *ReceiptService {
	s.now = now
	return s
}

// StorefrontPolicy is the storefront validator with the configured tax rate
func (s *ReceiptService) StorefrontPolicy() validation.Policy {
	policy := validation.StorefrontPolicy
	policy.FixedTaxPercent = s.opts.TaxPercent
	return policy
}

// CreateReceipt handles the payment-success webhook. Tax is the configured
// rate and there is no discount.
func (s *ReceiptService) CreateReceipt(ctx context.Context, form validation.Form) (*entity.Receipt, error) {
	return s.issue(ctx, s.StorefrontPolicy(), form)
}

// GenerateReceipt handles the dashboard form, which sets its own tax
// percentage and discount.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, form validation.Form) (*entity.Receipt, error) {
	return s.issue(ctx, s.DashboardPolicy(), form)
}

// DashboardPolicy is the admin form policy bounded by the receipt column sizes
func (s *ReceiptService) DashboardPolicy() validation.Policy {
	policy := validation.DashboardPolicy
	policy.Limits = validation.ColumnLimits
	return policy
}

func (s *ReceiptService) issue(ctx context.Context, policy validation.Policy, form validation.Form) (*entity.Receipt, error) {
	payload, fieldErrs := policy.Validate(form)
	if fieldErrs != nil {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	totals, err := payload.Totals()
	if err != nil {
		return nil, apperror.NewBadRequestError(calculationMessage(err))
	}

	receipt, err := s.reserve(ctx, payload, totals)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.Int64("receipt_id", receipt.ID), zap.String("order_id", receipt.OrderID))
	log.Info("Processing receipt", zap.String("total", money.Fixed(totals.Total)))

	if err := s.process(ctx, receipt); err != nil {
		s.fail(ctx, receipt, err)
		log.Error("Receipt processing failed", zap.Error(err))
		return nil, apperror.Wrap(500, "Failed to generate receipt", err)
	}

	log.Info("Receipt stored", zap.String("pdf_url", receipt.PDFURL))
	return receipt, nil
}

func calculationMessage(err error) string {
	switch {
	case errors.Is(err, money.ErrDiscountExceedsTotal):
		return "Discount cannot exceed the order total"
	case errors.Is(err, money.ErrInvalidRate):
		return "Tax percentage must be between 0 and 100"
	}
	return err.Error()
}

// reserve persists the receipt in processing state. An order id that already
// has a receipt is a conflict unless that receipt failed, in which case it is
// reset and processed again under the same id.
func duplicateOrder(orderID string) error {
	return apperror.NewConflictError(fmt.Sprintf("A receipt for order %s already exists", orderID))
}

func (s *ReceiptService) reserve(ctx context.Context, p *validation.Payload, totals money.Totals) (*entity.Receipt, error) {
	existing, err := s.receiptRepo.GetByOrderID(ctx, p.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order %s: %w", p.OrderID, err)
	}
	if existing != nil && existing.Status != enum.ReceiptStatusFailed {
		return nil, duplicateOrder(p.OrderID)
	}

	receipt := existing
	if receipt == nil {
		receipt = &entity.Receipt{OrderID: p.OrderID}
	}
	receipt.CustomerName = p.CustomerName
	receipt.CustomerEmail = p.CustomerEmail
	receipt.BusinessStore = p.BusinessStore
	receipt.PaymentMethod = string(p.PaymentMethod)
	receipt.Status = enum.ReceiptStatusProcessing
	receipt.PDFURL = ""
	receipt.StorageID = ""
	receipt.PDFSize = 0
	receipt.FailureReason = ""
	receipt.SetTotals(totals)

	receipt.Items = make([]entity.ReceiptItem, len(p.Items))
	for i, it := range p.Items {
		line := money.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
		receipt.Items[i] = entity.ReceiptItem{
			Position:    i,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   money.ToCents(it.UnitPrice),
			Total:       money.ToCents(money.LineTotal(line)),
		}
	}

	if existing == nil {
		err := s.receiptRepo.Create(ctx, receipt)
		if errors.Is(err, repository.ErrDuplicateOrderID) {
			return nil, duplicateOrder(p.OrderID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create receipt: %w", err)
		}
	} else {
		if err := s.receiptRepo.ReplaceItems(ctx, receipt); err != nil {
			return nil, fmt.Errorf("failed to reset receipt %d: %w", receipt.ID, err)
		}
		s.logger.Info("Retrying failed receipt", zap.Int64("receipt_id", receipt.ID), zap.String("order_id", receipt.OrderID))
	}

	s.publish(ctx, receipt, events.TypeStatusChanged, "")
	return receipt, nil
}

// process runs render, upload, email and records generated, sent and stored
func (s *ReceiptService) process(ctx context.Context, receipt *entity.Receipt) error {
	settings, err := s.businessSettings(ctx)
	if err != nil {
		return err
	}

	data, err := s.renderer.Render(ctx, pdf.Document{
		Business: settings,
		Receipt:  receipt,
		Currency: s.opts.CurrencySymbol,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	file, err := s.storage.Upload(ctx, storage.FileName(receipt.ID, receipt.ReceiptNumber), data)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	receipt.PDFURL = file.URL
	receipt.StorageID = file.ID
	receipt.PDFSize = file.Size

	if err := s.transition(ctx, receipt, enum.ReceiptStatusGenerated); err != nil {
		return err
	}

	if err := s.mailer.SendReceiptEmail(s.receiptEmail(receipt)); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	if err := s.transition(ctx, receipt, enum.ReceiptStatusSent); err != nil {
		return err
	}

	return s.transition(ctx, receipt, enum.ReceiptStatusStored)
}

func (s *ReceiptService) receiptEmail(r *entity.Receipt) email.ReceiptEmail {
	return email.ReceiptEmail{
		To:            r.CustomerEmail,
		CustomerName:  r.CustomerName,
		OrderID:       r.OrderID,
		ReceiptNumber: r.ReceiptNumber,
		BusinessStore: r.BusinessStore,
		Total:         money.Format(money.FromCents(r.Total), s.opts.CurrencySymbol),
		PDFURL:        r.PDFURL,
	}
}

func (s *ReceiptService) transition(ctx context.Context, receipt *entity.Receipt, next enum.ReceiptStatus) error {
	if !receipt.Status.CanTransitionTo(next) {
		return fmt.Errorf("receipt %d cannot move from %s to %s", receipt.ID, receipt.Status, next)
	}
	receipt.Status = next
	if err := s.receiptRepo.Update(ctx, receipt); err != nil {
		return fmt.Errorf("failed to save receipt %d as %s: %w", receipt.ID, next, err)
	}
	s.publish(ctx, receipt, events.TypeStatusChanged, "")
	return nil
}

// fail records the failure even when ctx is already canceled
func (s *ReceiptService) fail(ctx context.Context, receipt *entity.Receipt, cause error) {
	ctx = context.WithoutCancel(ctx)
	if !receipt.Status.CanTransitionTo(enum.ReceiptStatusFailed) {
		return
	}
	receipt.Status = enum.ReceiptStatusFailed
	receipt.FailureReason = truncate(cause.Error(), 500)
	if err := s.receiptRepo.Update(ctx, receipt); err != nil {
		s.logger.Error("Failed to mark receipt failed", zap.Int64("receipt_id", receipt.ID), zap.Error(err))
		return
	}
	s.publish(ctx, receipt, events.TypeStatusChanged, receipt.FailureReason)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (s *ReceiptService) publish(ctx context.Context, receipt *entity.Receipt, typ events.Type, reason string) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:      typ,
		ReceiptID: receipt.ID,
		OrderID:   receipt.OrderID,
		Status:    receipt.Status,
		Reason:    reason,
		At:        s.now(),
	})
	if err != nil {
		s.logger.Warn("Failed to publish receipt event", zap.String("type", string(typ)), zap.Int64("receipt_id", receipt.ID), zap.Error(err))
	}
}

func (s *ReceiptService) businessSettings(ctx context.Context) (*entity.BusinessSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}
	if settings == nil {
		settings = entity.DefaultBusinessSettings()
	}
	return settings, nil
}

// ListReceipts returns every receipt in creation order
func (s *ReceiptService) ListReceipts(ctx context.Context) ([]entity.Receipt, error) {
	receipts, err := s.receiptRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	if receipts == nil {
		receipts = []entity.Receipt{}
	}
	return receipts, nil
}

// GetReceipt returns one receipt or a 404
func (s *ReceiptService) GetReceipt(ctx context.Context, id int64) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt %d: %w", id, err)
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceiptsInput holds the admin table query
type ListReceiptsInput struct {
	Search  string
	Status  string
	Page    int
	PerPage int
}

// ParseStatusFilter maps "", "all" or a status name to a filter
func ParseStatusFilter(status string) (*enum.ReceiptStatus, error) {
	if status == "" || status == enum.StatusAll {
		return nil, nil
	}
	parsed, err := enum.ParseReceiptStatus(status)
	if err != nil {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown status %q", status))
	}
	return &parsed, nil
}

// ListReceiptsPage filters and pages receipts, newest first
func (s *ReceiptService) ListReceiptsPage(ctx context.Context, input ListReceiptsInput) (*pagination.PaginatedResult[entity.Receipt], error) {
	status, err := ParseStatusFilter(input.Status)
	if err != nil {
		return nil, err
	}

	params := &pagination.PaginationParams{Page: input.Page, PerPage: input.PerPage}
	if params.Page == 0 {
		params.Page = 1
	}
	params.Validate()

	receipts, total, err := s.receiptRepo.ListPage(ctx, &repository.ReceiptFilterParams{
		Pagination: params,
		Search:     input.Search,
		Status:     status,
	})
	if errors.Is(err, pagination.ErrPageOutOfRange) {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Page %d does not exist", params.Page))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	if receipts == nil {
		receipts = []entity.Receipt{}
	}

	return pagination.NewPaginatedResult(receipts, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// DeleteReceipt removes the receipt and its stored PDF
func (s *ReceiptService) DeleteReceipt(ctx context.Context, id int64) error {
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return err
	}

	if receipt.StorageID != "" {
		if err := s.storage.Delete(ctx, receipt.StorageID); err != nil {
			s.logger.Warn("Failed to delete stored PDF", zap.Int64("receipt_id", id), zap.Error(err))
		}
	}

	if err := s.receiptRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete receipt %d: %w", id, err)
	}

	s.publish(ctx, receipt, events.TypeDeleted, "")
	s.logger.Info("Receipt deleted", zap.Int64("receipt_id", id), zap.String("order_id", receipt.OrderID))
	return nil
}

// ResendEmail mails the receipt link again. A receipt still in generated
// state moves on to sent.
func (s *ReceiptService) ResendEmail(ctx context.Context, id int64) (*entity.Receipt, error) {
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt.PDFURL == "" {
		return nil, apperror.NewBadRequestError("Receipt has no PDF to send yet")
	}

	if err := s.mailer.SendReceiptEmail(s.receiptEmail(receipt)); err != nil {
		return nil, apperror.Wrap(500, "Failed to send receipt email", err)
	}

	if receipt.Status == enum.ReceiptStatusGenerated {
		if err := s.transition(ctx, receipt, enum.ReceiptStatusSent); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, receipt, events.TypeEmailResent, "")
	s.logger.Info("Receipt email resent", zap.Int64("receipt_id", id), zap.String("to", receipt.CustomerEmail))
	return receipt, nil
}
