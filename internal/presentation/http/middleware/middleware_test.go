package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receiptflow/pkg/utils"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_email"))
	})
	return r
}

func get(r http.Handler, header map[string]string, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.GenerateAccessToken("admin@example.com", utils.RoleAdmin)
	assert.NoError(t, err)

	r := newRouter(AuthMiddleware(jwtManager), RequireRole(utils.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, get(r, nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, map[string]string{"Authorization": "Token " + token}, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, map[string]string{"Authorization": "Bearer junk"}, "").Code)

	w := get(r, map[string]string{"Authorization": "Bearer " + token}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@example.com", w.Body.String())
}

func TestRequireRole_RejectsOtherRoles(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.GenerateAccessToken("viewer@example.com", "viewer")
	assert.NoError(t, err)

	r := newRouter(AuthMiddleware(jwtManager), RequireRole(utils.RoleAdmin))
	w := get(r, map[string]string{"Authorization": "Bearer " + token}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIPRateLimiter_PerClient(t *testing.T) {
	rl := NewIPRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
		CleanupInterval:   10 * time.Millisecond,
		EntryTTL:          time.Hour,
	})
	defer rl.Stop()

	r := newRouter(rl.Middleware())

	w := get(r, nil, "10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = get(r, nil, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get(r, nil, "10.0.0.2:1234").Code)
	assert.Equal(t, 2, rl.ActiveClients())
}

func TestIPRateLimiter_CleanupDropsStaleEntries(t *testing.T) {
	rl := NewIPRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
		CleanupInterval:   time.Hour,
		EntryTTL:          -time.Second,
	})
	defer rl.Stop()

	rl.getLimiter("10.0.0.1")
	assert.Equal(t, 1, rl.ActiveClients())

	rl.cleanup()
	assert.Equal(t, 0, rl.ActiveClients())
}

func TestLoggerMiddleware_SetsRequestID(t *testing.T) {
	r := newRouter(LoggerMiddleware(zap.NewNop()))

	w := get(r, map[string]string{"X-Request-ID": "req-123"}, "")
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	w = get(r, nil, "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}
