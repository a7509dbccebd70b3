package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receiptflow/internal/application/service"
	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/config"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/internal/infrastructure/memory"
	"github.com/sangkips/receiptflow/internal/infrastructure/pdf"
	"github.com/sangkips/receiptflow/internal/infrastructure/storage"
	"github.com/sangkips/receiptflow/internal/presentation/http/handler"
	"github.com/sangkips/receiptflow/internal/presentation/http/middleware"
	"github.com/sangkips/receiptflow/pkg/email"
	"github.com/sangkips/receiptflow/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "correct-horse"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, doc pdf.Document) ([]byte, error) {
	return []byte("%PDF-1.4 " + doc.Receipt.OrderID), nil
}

type outbox struct {
	mu   sync.Mutex
	msgs []string
}

func (o *outbox) send(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, string(msg))
	return nil
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.msgs)
}

type testServer struct {
	router  *gin.Engine
	outbox  *outbox
	filesAt string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://files.test")
	require.NoError(t, err)

	box := &outbox{}
	mailer := email.NewEmailService(email.EmailConfig{
		SMTPHost:  "smtp.test",
		SMTPPort:  587,
		FromName:  "ReceiptFlow",
		FromEmail: "noreply@receiptflow.test",
	}).WithSendFunc(box.send)

	receiptRepo := memory.NewReceiptRepository()
	settingsRepo := memory.NewSettingsRepository()

	receiptService := service.NewReceiptService(receiptRepo, settingsRepo, stubRenderer{}, store, mailer, nil,
		service.ReceiptOptions{TaxPercent: decimal.NewFromInt(10), CurrencySymbol: "$"}, logger)
	dashboardService := service.NewDashboardService(receiptRepo)
	settingsService := service.NewSettingsService(settingsRepo, mailer, logger)

	hash, err := service.HashPassword(adminPassword)
	require.NoError(t, err)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	authService := service.NewAuthService(adminEmail, hash, jwtManager, logger)

	cfg := &config.Config{App: config.AppConfig{Name: "receiptflow"}}
	router := Setup(&Handlers{
		Receipt:      handler.NewReceiptHandler(receiptService),
		AdminReceipt: handler.NewAdminReceiptHandler(receiptService, dashboardService, logger),
		Auth:         handler.NewAuthHandler(authService),
		Settings:     handler.NewSettingsHandler(settingsService),
	}, &Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
		Logger:     logger,
		FilesDir:   dir,
	})

	return &testServer{router: router, outbox: box, filesAt: dir}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Bearer", body.Data.TokenType)
	require.NotEmpty(t, body.Data.AccessToken)
	return body.Data.AccessToken
}

func webhookBody(orderID string) map[string]any {
	return map[string]any{
		"order_id":       orderID,
		"customer_name":  "A",
		"customer_email": "a@b.com",
		"business_store": "S",
		"payment_method": "Card",
		"items": []map[string]any{
			{"product_name": "X", "quantity": 2, "unit_price": 50},
		},
	}
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func TestHealth(t *testing.T) {
	s := setupServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestWebhook_CreatesReceipt(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/webhook/payment-success/", "", webhookBody("ORD-1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, float64(1), created["id"])
	assert.Equal(t, "ORD-1", created["order_id"])
	assert.NotEmpty(t, created["receipt_number"])
	pdfURL, _ := created["Pdf_Url"].(string)
	assert.True(t, strings.HasPrefix(pdfURL, "http://files.test/files/receipt-1-"), pdfURL)
	assert.Equal(t, 1, s.outbox.count())

	w = s.do(t, http.MethodGet, "/receipts/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var receipt map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, float64(100), receipt["subtotal"])
	assert.Equal(t, float64(10), receipt["tax"])
	assert.Equal(t, float64(110), receipt["total"])
	assert.Equal(t, "stored", receipt["status"])
	assert.Equal(t, pdfURL, receipt["pdf_url"])

	w = s.do(t, http.MethodGet, "/files/"+filepath.Base(pdfURL), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestWebhook_Errors(t *testing.T) {
	s := setupServer(t)

	body := webhookBody("ORD-1")
	body["customer_name"] = ""
	w := s.do(t, http.MethodPost, "/webhook/payment-success/", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "Customer name is required")

	w = s.do(t, http.MethodPost, "/webhook/payment-success/", "", webhookBody("ORD-1"))
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/webhook/payment-success/", "", webhookBody("ORD-1"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "A receipt for order ORD-1 already exists", detail(t, w))

	w = s.do(t, http.MethodGet, "/receipts/99", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Receipt not found", detail(t, w))

	w = s.do(t, http.MethodGet, "/receipts/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReceipts_EmptyListIsArray(t *testing.T) {
	s := setupServer(t)
	w := s.do(t, http.MethodGet, "/receipts", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestClientAgainstServer(t *testing.T) {
	s := setupServer(t)
	srv := httptest.NewServer(s.router)
	t.Cleanup(srv.Close)

	api := client.New(srv.URL)
	ctx := context.Background()

	created, err := api.CreateReceipt(ctx, client.CreateRequest{
		OrderID:       "ORD-1",
		CustomerName:  "A",
		CustomerEmail: "a@b.com",
		BusinessStore: "S",
		PaymentMethod: enum.PaymentCard,
		Items:         []client.CreateItem{{ProductName: "X", Quantity: 2, UnitPrice: decimal.NewFromInt(50)}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.PDFURL)

	receipts, err := api.ListReceipts(ctx)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	r := receipts[0]
	assert.Equal(t, "100.00", r.Subtotal.StringFixed(2))
	assert.Equal(t, "10.00", r.Tax.StringFixed(2))
	assert.Equal(t, "110.00", r.Total.StringFixed(2))
	assert.Equal(t, enum.ReceiptStatusStored, r.Status)
	require.Len(t, r.Items, 1)
	assert.Equal(t, 2, r.Items[0].Quantity)

	_, err = api.CreateReceipt(ctx, client.CreateRequest{
		OrderID:       "ORD-1",
		CustomerName:  "A",
		CustomerEmail: "a@b.com",
		BusinessStore: "S",
		PaymentMethod: enum.PaymentCard,
		Items:         []client.CreateItem{{ProductName: "X", Quantity: 1, UnitPrice: decimal.NewFromInt(5)}},
	})
	assert.True(t, client.IsKind(err, client.KindDuplicateOrderID), "got %v", err)

	_, err = api.GetReceipt(ctx, 42)
	assert.True(t, client.IsKind(err, client.KindNotFound), "got %v", err)
}

func TestAdmin_RequiresToken(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/admin/receipts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/admin/receipts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    adminEmail,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_ReceiptLifecycle(t *testing.T) {
	s := setupServer(t)
	token := s.login(t)

	w := s.do(t, http.MethodPost, "/api/v1/admin/receipts", token, map[string]any{
		"order_id":       "ADM-1",
		"customer_name":  "John Smith",
		"customer_email": "john@example.com",
		"payment_method": "PayPal",
		"items": []map[string]any{
			{"product_name": "Consulting", "quantity": "1", "unit_price": "100"},
			{"product_name": "", "quantity": "", "unit_price": ""},
		},
		"tax_percentage": 8,
		"discount":       5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var generated struct {
		Success bool `json:"success"`
		Data    struct {
			ID    int64   `json:"id"`
			Total float64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generated))
	assert.True(t, generated.Success)
	assert.Equal(t, 103.0, generated.Data.Total)
	id := generated.Data.ID

	w = s.do(t, http.MethodGet, "/api/v1/admin/receipts?search=adm&status=stored&page=1&per_page=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data struct {
			Items      []map[string]any `json:"items"`
			Pagination struct {
				Total int64 `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data.Items, 1)
	assert.Equal(t, int64(1), page.Data.Pagination.Total)

	w = s.do(t, http.MethodGet, "/api/v1/admin/receipts?page=3", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/admin/receipts/1/resend", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, s.outbox.count())

	w = s.do(t, http.MethodGet, "/api/v1/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Data client.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Data.TotalReceipts)
	assert.Equal(t, 1, stats.Data.TodayReceipts)
	assert.Equal(t, 1, stats.Data.EmailsSent)

	w = s.do(t, http.MethodGet, "/api/v1/admin/receipts/export?format=csv", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipts-export-")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Receipt ID,Order ID,Customer,Email,Total,Status,Date\n"))
	assert.Contains(t, w.Body.String(), "ADM-1,John Smith,john@example.com,103.00,stored,")

	w = s.do(t, http.MethodGet, "/api/v1/admin/receipts/export?format=pdf", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/admin/receipts/1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/admin/receipts/1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(1), id)
}

func TestAdmin_Settings(t *testing.T) {
	s := setupServer(t)
	token := s.login(t)

	w := s.do(t, http.MethodGet, "/api/v1/admin/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"ReceiptFlow Inc."`)

	w = s.do(t, http.MethodPut, "/api/v1/admin/settings", token, map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Business name is required")

	w = s.do(t, http.MethodPut, "/api/v1/admin/settings", token, map[string]string{
		"name":  "Corner Shop",
		"email": "shop@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/admin/settings/test-email", token, map[string]string{"email": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgTestEmailRequired)

	w = s.do(t, http.MethodPost, "/api/v1/admin/settings/test-email", token, map[string]string{"email": "owner@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, s.outbox.count())
	assert.Contains(t, s.outbox.msgs[0], "Subject: Test email from Corner Shop")
}

func TestRateLimiter(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	t.Cleanup(limiter.Stop)

	router := Setup(&Handlers{}, &Deps{
		Cfg:         &config.Config{},
		Logger:      zap.NewNop(),
		RateLimiter: limiter,
	})

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
