// Package mockdata is an in-memory stand-in for the receipt API. It serves the
// sample dashboard dataset with simulated latency and implements the same
// interfaces as the HTTP client.
package mockdata

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/pkg/money"
	"github.com/shopspring/decimal"
)

// Delays are the base latencies of each simulated call. Jitter is added on top.
type Delays struct {
	Fetch     time.Duration
	Delete    time.Duration
	Save      time.Duration
	TestEmail time.Duration
	// Steps are the pauses after processing, generated and sent
	Steps [3]time.Duration
}

var DefaultDelays = Delays{
	Fetch:     800 * time.Millisecond,
	Delete:    500 * time.Millisecond,
	Save:      1000 * time.Millisecond,
	TestEmail: 1500 * time.Millisecond,
	Steps:     [3]time.Duration{1500 * time.Millisecond, 1000 * time.Millisecond, 1000 * time.Millisecond},
}

// DefaultJitter is the upper bound of the random delay added to each call
const DefaultJitter = 500 * time.Millisecond

// storage estimate per stored PDF, in MB
var avgPDFSizeMB = decimal.RequireFromString("0.45")

// Provider is the mock backend
type Provider struct {
	mu       sync.RWMutex
	receipts []client.Receipt
	settings client.BusinessSettings
	nextID   int64

	delays Delays
	jitter time.Duration
	now    func() time.Time
}

type Option func(*Provider)

// WithDelays replaces the base latencies
func WithDelays(d Delays) Option {
	return func(p *Provider) { p.delays = d }
}

// WithJitter sets the random latency bound; zero disables jitter
func WithJitter(j time.Duration) Option {
	return func(p *Provider) { p.jitter = j }
}

// WithoutLatency makes every call return immediately
func WithoutLatency() Option {
	return func(p *Provider) {
		p.delays = Delays{}
		p.jitter = 0
	}
}

// WithClock replaces time.Now, used for creation times and "today"
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithReceipts replaces the sample dataset
func WithReceipts(receipts []client.Receipt) Option {
	return func(p *Provider) { p.receipts = receipts }
}

// New returns a provider seeded with the sample dataset
func New(opts ...Option) *Provider {
	p := &Provider{
		receipts: Receipts(),
		settings: DefaultSettings,
		delays:   DefaultDelays,
		jitter:   DefaultJitter,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, r := range p.receipts {
		if r.ID >= p.nextID {
			p.nextID = r.ID + 1
		}
	}
	if p.nextID == 0 {
		p.nextID = 1
	}
	return p
}

// wait sleeps base plus jitter, returning early with ctx.Err() on cancellation
func (p *Provider) wait(ctx context.Context, base time.Duration) error {
	d := base
	if p.jitter > 0 {
		d += time.Duration(rand.Int64N(int64(p.jitter)))
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func cloneReceipt(r client.Receipt) client.Receipt {
	r.Items = append([]client.Item(nil), r.Items...)
	return r
}

func (p *Provider) snapshot() []client.Receipt {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]client.Receipt, len(p.receipts))
	for i, r := range p.receipts {
		out[i] = cloneReceipt(r)
	}
	return out
}

// indexOf returns the position of id; callers hold the lock
func (p *Provider) indexOf(id int64) int {
	for i, r := range p.receipts {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (p *Provider) ListReceipts(ctx context.Context) ([]client.Receipt, error) {
	if err := p.wait(ctx, p.delays.Fetch); err != nil {
		return nil, err
	}
	return p.snapshot(), nil
}

func (p *Provider) GetReceipt(ctx context.Context, id int64) (*client.Receipt, error) {
	if err := p.wait(ctx, p.delays.Fetch); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	i := p.indexOf(id)
	if i < 0 {
		return nil, client.NewNotFoundError("Receipt not found")
	}
	r := cloneReceipt(p.receipts[i])
	return &r, nil
}

// CreateReceipt behaves like the payment-success webhook: the storefront tax
// rate applies and no discount is taken.
func (p *Provider) CreateReceipt(ctx context.Context, req client.CreateRequest) (*client.CreatedReceipt, error) {
	req.TaxPercent = decimal.NewFromInt(money.StorefrontTaxPercent)
	req.Discount = decimal.Zero

	r, err := p.GenerateReceipt(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	return &client.CreatedReceipt{
		ID:            r.ID,
		OrderID:       r.OrderID,
		ReceiptNumber: r.ReceiptNumber,
		PDFURL:        r.PDFURL,
	}, nil
}

// GenerateReceipt walks a new receipt through processing, generated, sent and
// stored, pausing between steps. An order id already used by a receipt that did
// not fail is a duplicate; a failed one is processed again. Cancelling ctx marks
// the receipt failed.
func (p *Provider) GenerateReceipt(ctx context.Context, req client.CreateRequest, progress func(enum.ReceiptStatus)) (*client.Receipt, error) {
	lines := make([]money.Line, len(req.Items))
	items := make([]client.Item, len(req.Items))
	for i, it := range req.Items {
		lines[i] = money.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
		items[i] = client.Item{ID: strconv.Itoa(i + 1), ProductName: it.ProductName, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	totals, err := money.Calculate(lines, req.TaxPercent, req.Discount)
	if err != nil {
		return nil, client.NewValidationError(err.Error())
	}

	id, err := p.insert(req, items, totals)
	if err != nil {
		return nil, err
	}

	report := func(s enum.ReceiptStatus) {
		if progress != nil {
			progress(s)
		}
	}
	report(enum.ReceiptStatusProcessing)

	next := []enum.ReceiptStatus{enum.ReceiptStatusGenerated, enum.ReceiptStatusSent, enum.ReceiptStatusStored}
	for i, status := range next {
		if err := p.wait(ctx, p.delays.Steps[i]); err != nil {
			p.transition(id, enum.ReceiptStatusFailed)
			report(enum.ReceiptStatusFailed)
			return nil, err
		}
		p.transition(id, status)
		report(status)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	i := p.indexOf(id)
	if i < 0 {
		return nil, client.NewNotFoundError("Receipt was deleted while processing")
	}
	r := cloneReceipt(p.receipts[i])
	return &r, nil
}

// insert stores a processing receipt, or restarts a failed one with the same order id
func (p *Provider) insert(req client.CreateRequest, items []client.Item, totals money.Totals) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := client.Receipt{
		OrderID:       req.OrderID,
		ReceiptNumber: uuid.NewString(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		BusinessStore: req.BusinessStore,
		PaymentMethod: req.PaymentMethod,
		Items:         items,
		Subtotal:      totals.Subtotal,
		TaxPercent:    totals.TaxPercent,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Status:        enum.ReceiptStatusProcessing,
		CreatedAt:     p.now(),
	}

	for i, existing := range p.receipts {
		if existing.OrderID != req.OrderID {
			continue
		}
		if existing.Status != enum.ReceiptStatusFailed {
			return 0, client.NewDuplicateOrderError("Receipt for order " + req.OrderID + " already exists")
		}
		r.ID, r.DisplayID = existing.ID, existing.DisplayID
		p.receipts[i] = r
		return r.ID, nil
	}

	r.ID = p.nextID
	r.DisplayID = DisplayID(r.ID)
	p.nextID++
	p.receipts = append([]client.Receipt{r}, p.receipts...)
	return r.ID, nil
}

func (p *Provider) transition(id int64, status enum.ReceiptStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 || !p.receipts[i].Status.CanTransitionTo(status) {
		return
	}
	r := &p.receipts[i]
	r.Status = status
	switch status {
	case enum.ReceiptStatusGenerated:
		r.PDFURL = pdfURL(r.DisplayID)
	case enum.ReceiptStatusStored:
		r.StorageID = storageID(r.DisplayID)
	}
}

func (p *Provider) DeleteReceipt(ctx context.Context, id int64) error {
	if err := p.wait(ctx, p.delays.Delete); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.indexOf(id)
	if i < 0 {
		return client.NewNotFoundError("Receipt not found")
	}
	p.receipts = append(p.receipts[:i], p.receipts[i+1:]...)
	return nil
}

// ResendEmail re-delivers a receipt that has a PDF. A generated receipt moves on to sent.
func (p *Provider) ResendEmail(ctx context.Context, id int64) error {
	p.mu.RLock()
	i := p.indexOf(id)
	var r client.Receipt
	if i >= 0 {
		r = p.receipts[i]
	}
	p.mu.RUnlock()

	if i < 0 {
		return client.NewNotFoundError("Receipt not found")
	}
	if r.PDFURL == "" {
		return client.NewValidationError("Receipt " + r.Identifier() + " has no PDF to send")
	}
	if err := p.wait(ctx, p.delays.TestEmail); err != nil {
		return err
	}
	if r.Status == enum.ReceiptStatusGenerated {
		p.transition(id, enum.ReceiptStatusSent)
	}
	return nil
}

func (p *Provider) Stats(ctx context.Context) (*client.Stats, error) {
	if err := p.wait(ctx, p.delays.Fetch); err != nil {
		return nil, err
	}
	stats := ComputeStats(p.snapshot(), p.now())
	return &stats, nil
}

// ComputeStats aggregates receipts as of now. "Today" is the calendar day of
// now in its own location.
func ComputeStats(receipts []client.Receipt, now time.Time) client.Stats {
	y, m, d := now.Date()
	var stats client.Stats
	stored := 0

	for _, r := range receipts {
		stats.TotalReceipts++
		ry, rm, rd := r.CreatedAt.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			stats.TodayReceipts++
		}
		if r.Status.IsDelivered() {
			stats.EmailsSent++
		}
		if r.Status == enum.ReceiptStatusStored {
			stored++
		}
	}
	stats.StorageUsedMB = avgPDFSizeMB.Mul(decimal.NewFromInt(int64(stored)))
	return stats
}

func (p *Provider) Settings(ctx context.Context) (*client.BusinessSettings, error) {
	if err := p.wait(ctx, p.delays.Fetch); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.settings
	return &s, nil
}

func (p *Provider) UpdateSettings(ctx context.Context, s client.BusinessSettings) (*client.BusinessSettings, error) {
	if err := p.wait(ctx, p.delays.Save); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = s
	return &s, nil
}

// SendTestEmail pretends to mail a sample receipt to email
func (p *Provider) SendTestEmail(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return client.NewValidationError(client.MsgTestEmailRequired)
	}
	return p.wait(ctx, p.delays.TestEmail)
}

var _ client.Dashboard = (*Provider)(nil)
