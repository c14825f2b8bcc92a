package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	if !rl.Allow("1.2.3.4") {
		t.Error("first request should pass")
	}
	if !rl.Allow("1.2.3.4") {
		t.Error("second request should pass within burst")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request should be rejected")
	}
	// A different client has its own bucket.
	if !rl.Allow("5.6.7.8") {
		t.Error("separate IP should not share the bucket")
	}
}

func TestRateLimit_Returns429Envelope(t *testing.T) {
	handler := RateLimit(0.001, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/submit-lead", nil)
	req.RemoteAddr = "10.0.0.1:52311"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Message != "Too many requests" {
		t.Errorf("unexpected message: %q", body.Message)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:34567"
	if got := clientIP(req); got != "192.168.1.10" {
		t.Errorf("expected host portion, got %q", got)
	}

	req.RemoteAddr = "no-port-here"
	if got := clientIP(req); got != "no-port-here" {
		t.Errorf("expected raw addr fallback, got %q", got)
	}
}
