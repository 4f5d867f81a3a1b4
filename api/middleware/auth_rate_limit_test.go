package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeLimiterStore struct {
	counts map[string]int64
}

func (f *fakeLimiterStore) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func rateLimitedHandler(policy AuthRateLimitPolicy, store RateLimiterStore) http.Handler {
	return AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthRateLimit_AllowsUnderLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("otp", time.Minute, 5, 3)
	handler := rateLimitedHandler(policy, &fakeLimiterStore{})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/pilot/login", strings.NewReader(`{"phone":"9876543210"}`))
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, resp.Code)
		}
	}
}

func TestAuthRateLimit_PhoneLimitTriggers(t *testing.T) {
	policy := NewAuthRateLimitPolicy("otp", time.Minute, 100, 2)
	handler := rateLimitedHandler(policy, &fakeLimiterStore{})

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/pilot/login", strings.NewReader(`{"phone":"9876543210"}`))
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		last = resp.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", last)
	}
}

func TestAuthRateLimit_IPLimitTriggers(t *testing.T) {
	policy := NewAuthRateLimitPolicy("otp", time.Minute, 1, 0)
	handler := rateLimitedHandler(policy, &fakeLimiterStore{})

	req := httptest.NewRequest(http.MethodPost, "/pilot/login", strings.NewReader(`{"phone":"9876543210"}`))
	req.RemoteAddr = "10.0.0.2:1234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("first attempt should pass, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/pilot/login", strings.NewReader(`{"phone":"9123456780"}`))
	req.RemoteAddr = "10.0.0.2:1234"
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestAuthRateLimit_DisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("otp", 0, 0, 0)
	handler := rateLimitedHandler(policy, &fakeLimiterStore{})

	req := httptest.NewRequest(http.MethodPost, "/pilot/login", strings.NewReader(`{"phone":"9876543210"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
