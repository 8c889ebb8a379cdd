package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
)

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp httputil.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	return resp.Code
}

func okHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestRequestLogging_AssignsRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))

	if seen == "" {
		t.Fatal("expected request id in context")
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("response header %q does not match context id %q", rec.Header().Get(RequestIDHeader), seen)
	}
}

func TestRequestLogging_KeepsValidIncomingID(t *testing.T) {
	const incoming = "3f0c8a64-5a7e-4c1b-9d0e-6c1f2b7a9e10"
	var seen string
	h := RequestLogging(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	req.Header.Set(RequestIDHeader, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != incoming {
		t.Errorf("expected %s, got %s", incoming, seen)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.NewNop())(okHandler(http.StatusOK, `{}`))

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, `{"a":1}`, "application/json; charset=utf-8", http.StatusOK},
		{"text post", http.MethodPost, `a=1`, "text/plain", http.StatusUnsupportedMediaType},
		{"empty action post", http.MethodPost, ``, "", http.StatusOK},
		{"get", http.MethodGet, ``, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/bookings", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewClientRateLimiter(0.001, 2, logger.NewNop())
	defer limiter.Stop()

	h := RateLimit(limiter)(okHandler(http.StatusOK, `{}`))

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		last = httptest.NewRecorder()
		h.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected status sequence %v", codes)
	}
	if code := errorCode(t, last); code != apperrors.CodeRateLimited {
		t.Errorf("expected code %s, got %s", apperrors.CodeRateLimited, code)
	}

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client should have its own bucket, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:1234"
	if got := clientIP(req); got != "192.168.1.5" {
		t.Errorf("expected remote host, got %s", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Errorf("expected first forwarded address, got %s", got)
	}
}

func TestIdempotency_ReplaysSuccess(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	h := Idempotency(store, "", logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
		req.Header.Set(DefaultIdempotencyHeader, "abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if rec.Body.String() != `{"data":{"id":"1"}}` {
			t.Fatalf("unexpected body %s", rec.Body.String())
		}
	}

	if calls != 1 {
		t.Errorf("handler should run once, ran %d times", calls)
	}

	req := httptest.NewRequest(http.MethodPost, "/guests", strings.NewReader(`{}`))
	req.Header.Set(DefaultIdempotencyHeader, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if calls != 2 {
		t.Errorf("same key on another path must not replay, calls=%d", calls)
	}
}

func TestIdempotency_DoesNotCacheFailures(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	h := Idempotency(store, "", logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusConflict)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
		req.Header.Set(DefaultIdempotencyHeader, "k")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls != 2 {
		t.Errorf("failed responses must not be cached, calls=%d", calls)
	}
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Millisecond)
	defer store.Stop()

	ctx := context.Background()
	_ = store.Set(ctx, "k", &CachedResponse{StatusCode: http.StatusOK})
	time.Sleep(5 * time.Millisecond)

	if _, found, _ := store.Get(ctx, "k"); found {
		t.Error("expired entry should not be returned")
	}
}

func TestRequestTimeout(t *testing.T) {
	h := RequestTimeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != apperrors.CodeTimeout {
		t.Errorf("expected code %s, got %s", apperrors.CodeTimeout, code)
	}
}

func TestRequestTimeout_FastHandler(t *testing.T) {
	h := RequestTimeout(time.Second)(okHandler(http.StatusAccepted, `{}`))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("handler headers should be copied through")
	}
}
