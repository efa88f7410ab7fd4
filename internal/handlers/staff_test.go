package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newStaffHandlerForValidation() *StaffHandler {
	return NewStaffHandler(nil, nil, nil, nil, nil, testLogger())
}

func TestAppointmentsRejectsWrongMethod(t *testing.T) {
	h := newStaffHandlerForValidation()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/appointments", nil)
	rw := httptest.NewRecorder()
	h.Appointments(rw, req)
	if rw.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rw.Code)
	}
}

func TestAppointmentsRejectsMalformedDate(t *testing.T) {
	h := newStaffHandlerForValidation()
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/appointments?date=tomorrow", nil)
	rw := httptest.NewRecorder()
	h.Appointments(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	h := newStaffHandlerForValidation()

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{"missing id", `{"status":"CONFIRMED"}`},
		{"unknown status", `{"appointment_id":"appt-1","status":"PENDING"}`},
		{"lowercase status", `{"appointment_id":"appt-1","status":"confirmed"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/appointments/status", strings.NewReader(tc.body))
		rw := httptest.NewRecorder()
		h.UpdateStatus(rw, req)
		if rw.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rw.Code)
		}
	}
}

func TestDeleteAppointmentRequiresID(t *testing.T) {
	h := newStaffHandlerForValidation()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/admin/appointments/delete", strings.NewReader(`{}`))
	rw := httptest.NewRecorder()
	h.DeleteAppointment(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestCreateServiceValidation(t *testing.T) {
	h := newStaffHandlerForValidation()

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"duration_minutes":30}`},
		{"zero duration", `{"name":"Corte","duration_minutes":0}`},
		{"negative price", `{"name":"Corte","duration_minutes":30,"price":-5}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/services", strings.NewReader(tc.body))
		rw := httptest.NewRecorder()
		h.Services(rw, req)
		if rw.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rw.Code)
		}
	}
}

func TestCreateRuleRejectsMalformedRule(t *testing.T) {
	h := newStaffHandlerForValidation()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing service", `{"weekday":1,"slots_per_hour":2,"start_hour":"08:00","end_hour":"10:00"}`, http.StatusBadRequest},
		{"weekday out of range", `{"service_id":"svc-1","weekday":7,"slots_per_hour":2,"start_hour":"08:00","end_hour":"10:00"}`, http.StatusUnprocessableEntity},
		{"zero density", `{"service_id":"svc-1","weekday":1,"slots_per_hour":0,"start_hour":"08:00","end_hour":"10:00"}`, http.StatusUnprocessableEntity},
		{"bad clock", `{"service_id":"svc-1","weekday":1,"slots_per_hour":2,"start_hour":"8am","end_hour":"10:00"}`, http.StatusUnprocessableEntity},
		{"end before start", `{"service_id":"svc-1","weekday":1,"slots_per_hour":2,"start_hour":"10:00","end_hour":"08:00"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/services/rules", strings.NewReader(tc.body))
		rw := httptest.NewRecorder()
		h.Rules(rw, req)
		if rw.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, rw.Code)
		}
	}
}

func TestListRulesRequiresServiceID(t *testing.T) {
	h := newStaffHandlerForValidation()
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/services/rules", nil)
	rw := httptest.NewRecorder()
	h.Rules(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestDeleteRuleRequiresID(t *testing.T) {
	h := newStaffHandlerForValidation()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/services/rules/delete", strings.NewReader(`{"rule_id":""}`))
	rw := httptest.NewRecorder()
	h.DeleteRule(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}
