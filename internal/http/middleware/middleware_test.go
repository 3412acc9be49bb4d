package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cow-planmate/Ai/internal/http/middleware"
)

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.RequestID(c)})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func get(r http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInternalToken(t *testing.T) {
	r := newTestRouter(middleware.InternalToken("s3cret"))

	if w := get(r, "/test", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", w.Code)
	}
	if w := get(r, "/test", map[string]string{middleware.InternalTokenHeader: "wrong"}); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: expected 401, got %d", w.Code)
	}
	if w := get(r, "/test", map[string]string{middleware.InternalTokenHeader: "s3cret"}); w.Code != http.StatusOK {
		t.Errorf("valid token: expected 200, got %d", w.Code)
	}

	open := newTestRouter(middleware.InternalToken(""))
	if w := get(open, "/test", nil); w.Code != http.StatusOK {
		t.Errorf("disabled check: expected 200, got %d", w.Code)
	}
}

func TestLoggingRequestID(t *testing.T) {
	r := newTestRouter(middleware.Logging())

	w := get(r, "/test", nil)
	id := w.Header().Get(middleware.RequestIDHeader)
	if len(id) != 36 {
		t.Fatalf("expected a generated uuid, got %q", id)
	}

	w = get(r, "/test", map[string]string{middleware.RequestIDHeader: "caller-id"})
	if w.Header().Get(middleware.RequestIDHeader) != "caller-id" {
		t.Fatalf("caller id should be reused, got %q", w.Header().Get(middleware.RequestIDHeader))
	}
}

func TestRecovery(t *testing.T) {
	r := newTestRouter(middleware.Logging(), middleware.Recovery())
	if w := get(r, "/panic", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 2)
	r := newTestRouter(rl.Limit())

	for i := 0; i < 2; i++ {
		if w := get(r, "/test", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d within burst: expected 200, got %d", i+1, w.Code)
		}
	}
	if w := get(r, "/test", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", w.Code)
	}

	other := httptest.NewRequest(http.MethodGet, "/test", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, other)
	if w.Code != http.StatusOK {
		t.Fatalf("other clients keep their own budget, got %d", w.Code)
	}

	disabled := middleware.NewRateLimiter(0, 0)
	open := newTestRouter(disabled.Limit())
	for i := 0; i < 5; i++ {
		if w := get(open, "/test", nil); w.Code != http.StatusOK {
			t.Fatalf("disabled limiter should allow everything, got %d", w.Code)
		}
	}
}
