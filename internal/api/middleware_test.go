package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_CapturesStatusAndSize(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := newResponseWriter(rec)

	wrapped.WriteHeader(http.StatusTeapot)
	wrapped.Write([]byte("hello"))
	wrapped.Write([]byte(" world"))

	if wrapped.statusCode != http.StatusTeapot {
		t.Errorf("statusCode = %d, want 418", wrapped.statusCode)
	}
	if wrapped.responseSize != 11 {
		t.Errorf("responseSize = %d, want 11", wrapped.responseSize)
	}
}

func TestResponseWriter_DefaultStatus(t *testing.T) {
	wrapped := newResponseWriter(httptest.NewRecorder())

	// Writing without an explicit WriteHeader implies 200
	wrapped.Write([]byte("ok"))
	if wrapped.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want 200", wrapped.statusCode)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware("https://example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Allow-Origin = %q, want https://example.com", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Error("expected Allow-Headers to be set")
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	handler := CORSMiddleware("*")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/trades", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if called {
		t.Error("preflight requests must short-circuit before the handler")
	}
}

func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("done"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
	if rec.Body.String() != "done" {
		t.Errorf("body = %q, want done", rec.Body.String())
	}
}
