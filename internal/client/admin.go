package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sangkips/receiptflow/internal/domain/enum"
)

// envelope is the admin API response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type testEmailRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *Client) admin(ctx context.Context, method, path string, body, out interface{}) error {
	var env envelope
	if err := c.do(ctx, method, "/api/v1"+path, body, &env); err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", path, err)
	}
	return nil
}

// Login exchanges admin credentials for a token and keeps it for later calls.
// Not safe to call concurrently with other requests.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	if err := c.admin(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	c.token = out.AccessToken
	return out.AccessToken, nil
}

// GenerateReceipt creates a receipt through the admin API. The request runs the
// whole workflow server side, so progress only sees the final status.
func (c *Client) GenerateReceipt(ctx context.Context, req CreateRequest, progress func(enum.ReceiptStatus)) (*Receipt, error) {
	var out receiptWire
	if err := c.admin(ctx, http.MethodPost, "/admin/receipts", encodeCreateRequest(req, true), &out); err != nil {
		return nil, err
	}
	r, err := out.normalize()
	if err != nil {
		return nil, err
	}
	if progress != nil {
		progress(r.Status)
	}
	return &r, nil
}

func (c *Client) DeleteReceipt(ctx context.Context, id int64) error {
	return c.admin(ctx, http.MethodDelete, fmt.Sprintf("/admin/receipts/%d", id), nil, nil)
}

func (c *Client) ResendEmail(ctx context.Context, id int64) error {
	return c.admin(ctx, http.MethodPost, fmt.Sprintf("/admin/receipts/%d/resend", id), nil, nil)
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.admin(ctx, http.MethodGet, "/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Settings(ctx context.Context) (*BusinessSettings, error) {
	var out BusinessSettings
	if err := c.admin(ctx, http.MethodGet, "/admin/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, s BusinessSettings) (*BusinessSettings, error) {
	var out BusinessSettings
	if err := c.admin(ctx, http.MethodPut, "/admin/settings", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendTestEmail asks the backend to mail a sample receipt to email
func (c *Client) SendTestEmail(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return NewValidationError(MsgTestEmailRequired)
	}
	return c.admin(ctx, http.MethodPost, "/admin/settings/test-email", testEmailRequest{Email: email}, nil)
}

var _ Dashboard = (*Client)(nil)
