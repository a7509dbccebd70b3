// Package client talks to the receipt API and classifies its failures into the
// error kinds the front ends turn into user messages.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sangkips/receiptflow/internal/domain/enum"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 4 << 20
)

// Source is what the storefront needs from a receipt backend
type Source interface {
	CreateReceipt(ctx context.Context, req CreateRequest) (*CreatedReceipt, error)
	ListReceipts(ctx context.Context) ([]Receipt, error)
	GetReceipt(ctx context.Context, id int64) (*Receipt, error)
}

// Dashboard is what the admin dashboard needs. Both the HTTP client and the
// mock provider implement it.
type Dashboard interface {
	Source
	// GenerateReceipt creates a receipt with an adjustable tax rate and discount.
	// progress, when set, is called with each status the receipt reaches.
	GenerateReceipt(ctx context.Context, req CreateRequest, progress func(enum.ReceiptStatus)) (*Receipt, error)
	DeleteReceipt(ctx context.Context, id int64) error
	ResendEmail(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*Stats, error)
	Settings(ctx context.Context) (*BusinessSettings, error)
	UpdateSettings(ctx context.Context, s BusinessSettings) (*BusinessSettings, error)
	SendTestEmail(ctx context.Context, email string) error
}

// Client is the HTTP implementation of Dashboard
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	token   string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger logs each request at debug level
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithToken sets the bearer token sent to admin endpoints
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for baseURL, falling back to DefaultBaseURL
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateReceipt submits an order through the payment-success webhook
func (c *Client) CreateReceipt(ctx context.Context, req CreateRequest) (*CreatedReceipt, error) {
	var out createResponseWire
	if err := c.do(ctx, http.MethodPost, "/webhook/payment-success/", encodeCreateRequest(req, false), &out); err != nil {
		return nil, err
	}
	return out.normalize(), nil
}

// ListReceipts returns every receipt
func (c *Client) ListReceipts(ctx context.Context) ([]Receipt, error) {
	var out []receiptWire
	if err := c.do(ctx, http.MethodGet, "/receipts", nil, &out); err != nil {
		return nil, err
	}

	receipts := make([]Receipt, 0, len(out))
	for _, w := range out {
		r, err := w.normalize()
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, nil
}

// GetReceipt returns one receipt by numeric id
func (c *Client) GetReceipt(ctx context.Context, id int64) (*Receipt, error) {
	var out receiptWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/receipts/%d", id), nil, &out); err != nil {
		return nil, err
	}
	r, err := out.normalize()
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug("api unreachable", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return NewNotConnectedError(c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return NewNotConnectedError(c.baseURL, err)
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classify(resp.StatusCode, errorDetail(resp.StatusCode, data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// errorDetail extracts detail or message from an error body. A body that is not
// a JSON object yields "HTTP <code>: <status text>".
func errorDetail(status int, body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}
	if d := detailText(payload["detail"]); d != "" {
		return d
	}
	var message string
	if err := json.Unmarshal(payload["message"], &message); err == nil && message != "" {
		return message
	}
	return fmt.Sprintf("HTTP %d", status)
}

// detailText accepts a plain string or a list of {"msg": ...} entries
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var entries []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
