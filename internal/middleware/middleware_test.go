package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GeoMark/GM-Backend/internal/middleware"
	"github.com/GeoMark/GM-Backend/internal/utils"
)

// callWithOrigin wraps a simple 200-OK inner handler in the CORS middleware,
// optionally setting an Origin header, and returns the recorded response.
func callWithOrigin(t *testing.T, allowed []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.CORSMiddleware(allowed)(inner)
	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestCORSMiddleware_AllowedOrigin verifies that a listed origin is echoed
// back with credentials enabled.
func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	rec := callWithOrigin(t, []string{"http://localhost:5173"}, http.MethodGet, "http://localhost:5173")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected origin echoed back, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials header, got %q", got)
	}
}

// TestCORSMiddleware_UnknownOrigin verifies that an unlisted origin gets no
// Access-Control-Allow-Origin header.
func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	rec := callWithOrigin(t, []string{"http://localhost:5173"}, http.MethodGet, "https://evil.example.com")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("request itself should still pass through, got %d", rec.Code)
	}
}

// TestCORSMiddleware_Preflight verifies that OPTIONS requests short-circuit
// with 204 and never reach the inner handler.
func TestCORSMiddleware_Preflight(t *testing.T) {
	rec := callWithOrigin(t, []string{"http://localhost:5173"}, http.MethodOptions, "http://localhost:5173")

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
}

// TestRequestLogger_InjectsRequestID verifies that the logger middleware puts
// a request ID into the context before calling the inner handler.
func TestRequestLogger_InjectsRequestID(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetRequestIDFromContext(r.Context()); !ok {
			http.Error(w, "request ID not in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.RequestLogger(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
