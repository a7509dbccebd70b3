package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func sampleRequest() CreateRequest {
	return CreateRequest{
		OrderID:       "ORD-1",
		CustomerName:  "A",
		CustomerEmail: "a@b.com",
		BusinessStore: "S",
		PaymentMethod: enum.PaymentCard,
		Items:         []CreateItem{{ProductName: "X", Quantity: 2, UnitPrice: decimal.NewFromInt(50)}},
	}
}

func TestCreateReceipt_DecodesCapitalisedPdfURL(t *testing.T) {
	var body map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/webhook/payment-success/", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7,"order_id":"ORD-1","receipt_number":"abc","Pdf_Url":"https://cdn/x.pdf"}`))
	})

	created, err := c.CreateReceipt(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, &CreatedReceipt{ID: 7, OrderID: "ORD-1", ReceiptNumber: "abc", PDFURL: "https://cdn/x.pdf"}, created)

	assert.Equal(t, "Card", body["payment_method"])
	assert.NotContains(t, body, "tax_percentage")
	items := body["items"].([]interface{})
	assert.Equal(t, float64(50), items[0].(map[string]interface{})["unit_price"])
}

func TestListReceipts_DecodesLowercasePdfURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/receipts", r.URL.Path)
		_, _ = w.Write([]byte(`[{
			"id": 1, "order_id": "ORD-1", "receipt_number": "n-1",
			"customer_name": "A", "customer_email": "a@b.com", "business_store": "S",
			"payment_method": "Card", "subtotal": 100, "tax": 10, "total": 110,
			"pdf_url": "https://cdn/1.pdf", "created_at": "2024-01-15T10:30:00",
			"items": [{"id": 3, "product_name": "X", "quantity": 2, "unit_price": 50}]
		}]`))
	})

	receipts, err := c.ListReceipts(context.Background())
	require.NoError(t, err)
	require.Len(t, receipts, 1)

	r := receipts[0]
	assert.Equal(t, "https://cdn/1.pdf", r.PDFURL)
	assert.Equal(t, "110", r.Total.String())
	assert.Equal(t, enum.ReceiptStatusStored, r.Status)
	assert.Equal(t, 2024, r.CreatedAt.Year())
	assert.Equal(t, "3", r.Items[0].ID)
	assert.Equal(t, "1", r.Identifier())
}

func TestErrors_Classification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"duplicate", http.StatusConflict, `{"detail":"exists"}`, KindDuplicateOrderID, MsgDuplicateOrderID},
		{"validation detail", http.StatusBadRequest, `{"detail":"order_id: Order ID is required"}`, KindValidation, "Validation error: order_id: Order ID is required"},
		{"validation list", http.StatusBadRequest, `{"detail":[{"msg":"field required"},{"msg":"bad email"}]}`, KindValidation, "Validation error: field required; bad email"},
		{"validation without body", http.StatusBadRequest, ``, KindValidation, "Validation error: HTTP 400: Bad Request"},
		{"not found", http.StatusNotFound, `{"detail":"Receipt not found"}`, KindNotFound, MsgNotFound},
		{"server without json", http.StatusInternalServerError, ``, KindServer, MsgServer},
		{"server with json", http.StatusInternalServerError, `{"detail":"boom"}`, KindServer, MsgServer},
		{"other with message", http.StatusTooManyRequests, `{"message":"slow down"}`, KindUnknownHTTP, "slow down"},
		{"other with empty object", http.StatusForbidden, `{}`, KindUnknownHTTP, "HTTP 403"},
		{"other with text", http.StatusBadGateway, `upstream down`, KindUnknownHTTP, "HTTP 502: Bad Gateway"},
		{"other with null", http.StatusBadGateway, `null`, KindUnknownHTTP, "HTTP 502: Bad Gateway"},
		{"other with array", http.StatusBadGateway, `[]`, KindUnknownHTTP, "HTTP 502: Bad Gateway"},
		{"other with numeric message", http.StatusForbidden, `{"message":42}`, KindUnknownHTTP, "HTTP 403"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GetReceipt(context.Background(), 1)
			require.Error(t, err)

			var ce *Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, tt.status, ce.StatusCode)
			assert.Equal(t, tt.message, ce.Error())
		})
	}
}

func TestErrors_NetworkUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url)
	_, err := c.ListReceipts(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetworkUnreachable))
	assert.Equal(t, "Backend not connected. Make sure the receipt API is running at "+url, err.Error())
}

func TestCanceledContextIsNotANetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListReceipts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsKind(err, KindNetworkUnreachable))
}

func TestAdmin_LoginThenAuthorisedCalls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"access_token":"tok","token_type":"Bearer","expires_in":3600}}`))
		case "/api/v1/admin/stats":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"message":"Unauthorized"}`))
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"total_receipts":10,"today_receipts":0,"emails_sent":8,"storage_used_mb":"2.70"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	_, err := c.Stats(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnknownHTTP))
	assert.Equal(t, "Unauthorized", err.Error())

	token, err := c.Login(context.Background(), "admin@receiptflow.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalReceipts)
	assert.Equal(t, 8, stats.EmailsSent)
	assert.Equal(t, "2.70", stats.StorageUsed())
}

func TestAdmin_GenerateSendsAdjustments(t *testing.T) {
	var body map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":2,"order_id":"ORD-1","status":"stored","total":"113.00","pdf_url":"u"}}`))
	})

	req := sampleRequest()
	req.TaxPercent = decimal.NewFromInt(8)
	req.Discount = decimal.NewFromInt(-5).Neg()

	var seen []enum.ReceiptStatus
	r, err := c.GenerateReceipt(context.Background(), req, func(s enum.ReceiptStatus) { seen = append(seen, s) })
	require.NoError(t, err)
	assert.Equal(t, float64(8), body["tax_percentage"])
	assert.Equal(t, float64(5), body["discount"])
	assert.Equal(t, []enum.ReceiptStatus{enum.ReceiptStatusStored}, seen)
	assert.Equal(t, "113", r.Total.String())
}
