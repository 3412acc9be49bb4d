package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cow-planmate/Ai/internal/http/middleware"
	"github.com/cow-planmate/Ai/internal/modules/chat"
)

func do(h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServer(ServerDeps{InternalToken: "secret"}).Routes()

	rec := do(h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRoutesRequireInternalToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServer(ServerDeps{
		Chat:          chat.NewService(nil, nil, chat.Options{}),
		InternalToken: "secret",
	}).Routes()

	body := `{"planId": 1, "message": "hi"}`
	if rec := do(h, http.MethodPost, "/api/chatbot/generate", body, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", rec.Code)
	}
	rec := do(h, http.MethodPost, "/api/chatbot/generate", body, map[string]string{middleware.InternalTokenHeader: "secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("with token: status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUnconfiguredServices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServer(ServerDeps{}).Routes()

	for _, path := range []string{"/api/chatbot/generate", "/api/itinerary/auto-schedule", "/recommendations", "/price"} {
		if rec := do(h, http.MethodPost, path, `{}`, nil); rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}
	}
	// Reconciliation needs no collaborator.
	rec := do(h, http.MethodPost, "/api/itinerary/reconcile", `{"timeTables": [], "placeBlocks": []}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reconcile: status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServer(ServerDeps{AllowedOrigins: []string{"https://planmate.site"}}).Routes()

	req := httptest.NewRequest(http.MethodOptions, "/price", nil)
	req.Header.Set("Origin", "https://planmate.site")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://planmate.site" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow credentials = %q", got)
	}

	rec = do(h, http.MethodGet, "/health", "", map[string]string{"Origin": "https://evil.example"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}
