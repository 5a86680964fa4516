package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/tphummel/pc_monitor/internal/middleware"
)

func TestRequestID(t *testing.T) {
	const clientID = "0b7a4f4e-7c1d-4a56-9d7e-2f1c3b9a8e11"

	tests := []struct {
		name   string
		header string
		reuse  bool // whether the client's value should be kept
	}{
		{name: "no header", header: "", reuse: false},
		{name: "valid uuid", header: clientID, reuse: true},
		{name: "not a uuid", header: "hello; drop table", reuse: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = middleware.RequestIDFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(middleware.RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			middleware.RequestID(next).ServeHTTP(rec, req)

			got := rec.Header().Get(middleware.RequestIDHeader)
			if got != seen {
				t.Errorf("header %q and context %q disagree", got, seen)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("request ID %q is not a UUID: %v", got, err)
			}
			if tt.reuse && got != tt.header {
				t.Errorf("request ID: got %q, want client value %q", got, tt.header)
			}
			if !tt.reuse && got == tt.header {
				t.Errorf("request ID: client value %q should have been replaced", tt.header)
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	seen := make(map[string]bool)
	for range 50 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		id := rec.Header().Get(middleware.RequestIDHeader)
		if seen[id] {
			t.Fatalf("duplicate request ID %q", id)
		}
		seen[id] = true
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := middleware.RequestIDFromContext(req.Context()); id != "" {
		t.Errorf("got %q, want empty", id)
	}
}
