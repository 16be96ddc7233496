package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrSnakeDoc/timemark/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"127.0.0.1:8787", "127.0.0.1:8787", true},
		{"127.0.0.1:8787", "127.0.0.1", true},
		{"LOCALHOST:8787", "localhost", true},
		{"localhost:9999", "localhost:8787", false},
		{"[::1]:8787", "::1", true},
		{"[::1]:8787", "[::1]", true},
		{"evil.example:8787", "localhost", false},
		{"api.timemark.test", "*.timemark.test", true},
		{"timemark.test", "*.timemark.test", false},
	}
	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"localhost", "127.0.0.1"}, logger.Nop())(okHandler)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Host = "127.0.0.1:8787"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("allowed host got %d", w.Code)
	}

	r.Host = "rebind.attacker.example:8787"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign host got %d", w.Code)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"127.0.0.1/32"}, false, logger.Nop())(okHandler)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "127.0.0.1:40000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("loopback got %d", w.Code)
	}

	r.RemoteAddr = "192.0.2.1:40000"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("remote got %d", w.Code)
	}

	pass := AllowOnlyCIDRS(nil, false, logger.Nop())(okHandler)
	w = httptest.NewRecorder()
	pass.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("empty list should pass through, got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"chrome-extension://*"})(okHandler)

	r := httptest.NewRequest(http.MethodOptions, "/api/messages", nil)
	r.Header.Set("Origin", "chrome-extension://abcdef")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "chrome-extension://abcdef" {
		t.Fatalf("Allow-Origin = %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	r.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}

func TestLogRecordsStatus(t *testing.T) {
	h := Log(logger.Nop())(okHandler)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
}
