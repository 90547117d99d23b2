package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(max int) *gin.Engine {
	r := gin.New()
	r.Use(RateLimitMiddleware(max, time.Minute))
	r.POST("/webhook", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(r http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newLimitedRouter(2)

	first := post(r, "10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, post(r, "10.0.0.1:1234").Code)

	blocked := post(r, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("RateLimit-Remaining"))
	assert.Contains(t, blocked.Body.String(), "Too many requests")

	// Other clients keep their own budget.
	assert.Equal(t, http.StatusOK, post(r, "10.0.0.2:1234").Code)
}

func TestRateLimiterStoreSweepsIdleClients(t *testing.T) {
	store := newRateLimiterStore(5, time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	store.getLimiter("a")
	store.getLimiter("b")
	assert.Len(t, store.limiters, 2)

	now = now.Add(2 * time.Minute)
	store.getLimiter("b")
	assert.Len(t, store.limiters, 1)
	assert.Contains(t, store.limiters, "b")
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware(true))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
}

func TestRequestLoggerSetsLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	var found bool
	r.GET("/", func(c *gin.Context) {
		_, found = c.Get("logger")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, found)
}
