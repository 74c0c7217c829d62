package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/platform/auth"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newClockedLimiter(cfg RateLimitConfig) (*MemoryLimiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(cfg)
	l.now = clk.now
	return l, clk
}

func TestMemoryLimiter_BurstThenRefill(t *testing.T) {
	l, clk := newClockedLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if d, _ := l.Allow(ctx, "ip:1"); !d.Allowed {
			t.Fatalf("request %d within burst was denied", i+1)
		}
	}
	d, _ := l.Allow(ctx, "ip:1")
	if d.Allowed {
		t.Fatal("third request should exceed the burst")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Second {
		t.Errorf("retry after = %s", d.RetryAfter)
	}

	clk.t = clk.t.Add(time.Second)
	if d, _ := l.Allow(ctx, "ip:1"); !d.Allowed {
		t.Error("bucket should refill after one second")
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newClockedLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	ctx := context.Background()

	l.Allow(ctx, "ip:1")
	if d, _ := l.Allow(ctx, "ip:2"); !d.Allowed {
		t.Error("a different key must have its own bucket")
	}
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	l, clk := newClockedLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	l.Allow(context.Background(), "ip:old")
	clk.t = clk.t.Add(10 * time.Minute)
	l.Allow(context.Background(), "ip:new")

	if n := l.Sweep(5 * time.Minute); n != 1 {
		t.Errorf("expected 1 stale bucket removed, got %d", n)
	}
	if _, ok := l.buckets["ip:new"]; !ok {
		t.Error("fresh bucket should survive the sweep")
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	e := echo.New()
	h := RateLimit(NewMemoryLimiter(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2}), zerolog.Nop())(
		func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "2" {
			t.Errorf("X-RateLimit-Limit = %q", rec.Header().Get("X-RateLimit-Limit"))
		}
	}

	rec := httptest.NewRecorder()
	err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("missing rate limit headers: %v", rec.Header())
	}
}

func TestRateLimit_KeysByUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := rateLimitKey(e.NewContext(req, httptest.NewRecorder())); got != "ip:192.0.2.1" {
		t.Errorf("anonymous key = %q", got)
	}
	req = req.WithContext(auth.WithIdentity(req.Context(), "u-7", []string{auth.RoleDoctor}, ""))
	if got := rateLimitKey(e.NewContext(req, httptest.NewRecorder())); got != "user:u-7" {
		t.Errorf("authenticated key = %q", got)
	}
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{}, errors.New("connection refused")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	e := echo.New()
	called := false
	h := RateLimit(brokenLimiter{}, zerolog.Nop())(func(echo.Context) error {
		called = true
		return nil
	})
	if err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("request should pass when the limiter is down")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	if got := retryAfterSeconds(0); got != 1 {
		t.Errorf("got %d, want floor of 1", got)
	}
	if got := retryAfterSeconds(2500 * time.Millisecond); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}
