package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoginValidation(t *testing.T) {
	h := NewAuthHandler(nil, "test-secret", 0, testLogger())

	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/auth/login", nil)
	rw := httptest.NewRecorder()
	h.Login(rw, req)
	if rw.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rw.Code)
	}

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{"missing email", `{"password":"secret"}`},
		{"missing password", `{"email":"staff@example.com"}`},
		{"blank email", `{"email":"   ","password":"secret"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/auth/login", strings.NewReader(tc.body))
		rw := httptest.NewRecorder()
		h.Login(rw, req)
		if rw.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rw.Code)
		}
	}
}
