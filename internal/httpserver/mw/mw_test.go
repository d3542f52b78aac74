package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkroll/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestLimiterRefill(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 60, now: func() time.Time { return now }})

	for i, want := range []bool{true, true, false} {
		if ok, _, _ := l.take("a"); ok != want {
			t.Fatalf("take #%d = %v, want %v", i, ok, want)
		}
	}
	if _, _, retry := l.take("a"); retry != 1 {
		t.Errorf("retryAfter = %d, want 1", retry)
	}

	// Another client has its own bucket.
	if ok, _, _ := l.take("b"); !ok {
		t.Error("client b should not be limited")
	}

	now = now.Add(time.Second)
	if ok, remaining, _ := l.take("a"); !ok || remaining != 0 {
		t.Errorf("after refill: ok=%v remaining=%d", ok, remaining)
	}
}

func TestLimiterSweepsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{Burst: 1, IdleTTL: time.Minute, SweepInterval: time.Minute, now: func() time.Time { return now }})

	l.take("a")
	now = now.Add(2 * time.Minute)
	l.take("b")

	if _, found := l.buckets["a"]; found {
		t.Error("idle bucket was not swept")
	}
}

func TestRateLimitHeaders(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1})(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/links", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("first: code=%d headers=%v", rec.Code, rec.Header())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/links", nil))
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") != "60" {
		t.Errorf("second: code=%d Retry-After=%q", rec.Code, rec.Header().Get("Retry-After"))
	}
}

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"links.domain.ext", "links.domain.ext", true},
		{"links.domain.ext:8080", "links.domain.ext", true},
		{"a.domain.ext", "*.domain.ext", true},
		{"domain.ext", "*.domain.ext", false},
		{"evildomain.ext", "*.domain.ext", false},
		{"10.70.80.2:8080", "10.70.80.2:8080", true},
		{"10.70.80.2:9090", "10.70.80.2:8080", false},
	}

	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestEnforceHostCaseInsensitive(t *testing.T) {
	h := EnforceHost([]string{"Links.Domain.Ext"}, logger.Nop())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/links", nil)
	req.Host = "LINKS.domain.ext"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"192.0.2.0/24"}, false, logger.Nop())(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/infra", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("allowed client: code = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/infra", nil)
	req.RemoteAddr = "198.51.100.1:4000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign client: code = %d, want 403", rec.Code)
	}
}
