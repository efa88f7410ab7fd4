package runtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthzAlwaysOK(t *testing.T) {
	mux := NewBaseMuxWithReady(ReadyCheck{Name: "db", Check: func(context.Context) error {
		return errors.New("down")
	}})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/healthz", nil)
	rw := httptest.NewRecorder()
	mux.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
}

func TestReadyzReportsEachCheck(t *testing.T) {
	mux := NewBaseMuxWithReady(
		ReadyCheck{Name: "db", Check: func(context.Context) error { return nil }},
		ReadyCheck{Name: "kafka", Check: func(context.Context) error { return errors.New("dial timeout") }},
	)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/readyz", nil)
	rw := httptest.NewRecorder()
	mux.ServeHTTP(rw, req)
	if rw.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rw.Code)
	}
	body := rw.Body.String()
	if !strings.Contains(body, "db: ok") {
		t.Fatalf("body should report the healthy check, got %q", body)
	}
	if !strings.Contains(body, "kafka: dial timeout") {
		t.Fatalf("body should name the failing check, got %q", body)
	}
}

func TestReadyzOKWhenAllChecksPass(t *testing.T) {
	mux := NewBaseMuxWithReady(ReadyCheck{Name: "db", Check: func(context.Context) error { return nil }})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/readyz", nil)
	rw := httptest.NewRecorder()
	mux.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
}

func TestReadyzNoChecks(t *testing.T) {
	mux := NewBaseMuxWithReady()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/readyz", nil)
	rw := httptest.NewRecorder()
	mux.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	if rw.Body.String() != "ok" {
		t.Fatalf("expected plain ok body, got %q", rw.Body.String())
	}
}
