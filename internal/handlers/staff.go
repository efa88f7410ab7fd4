package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nahuel-dev/turnero/internal/availability"
	"github.com/nahuel-dev/turnero/internal/booking"
	"github.com/nahuel-dev/turnero/internal/model"
	"github.com/nahuel-dev/turnero/internal/outbox"
	"github.com/nahuel-dev/turnero/internal/storage"
	"github.com/nahuel-dev/turnero/libs/auth"
)

// StaffHandler serves the dashboard: day and client views of appointments,
// staff-driven status edits, and service/rule configuration.
type StaffHandler struct {
	appts      *storage.AppointmentRepository
	clients    *storage.ClientRepository
	rules      *storage.RuleRepository
	services   *storage.ServiceRepository
	outboxRepo *outbox.Repository
	logger     *slog.Logger
}

func NewStaffHandler(
	appts *storage.AppointmentRepository,
	clients *storage.ClientRepository,
	rules *storage.RuleRepository,
	services *storage.ServiceRepository,
	outboxRepo *outbox.Repository,
	logger *slog.Logger,
) *StaffHandler {
	return &StaffHandler{
		appts:      appts,
		clients:    clients,
		rules:      rules,
		services:   services,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

type appointmentItem struct {
	AppointmentID string `json:"appointment_id"`
	ClientID      string `json:"client_id"`
	ServiceID     string `json:"service_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

func toAppointmentItems(appts []model.Appointment) []appointmentItem {
	items := make([]appointmentItem, 0, len(appts))
	for _, appt := range appts {
		items = append(items, appointmentItem{
			AppointmentID: appt.ID,
			ClientID:      appt.ClientID,
			ServiceID:     appt.ServiceID,
			Date:          appt.Date.Format(dateLayout),
			StartTime:     appt.StartTime,
			EndTime:       appt.EndTime,
			Status:        string(appt.Status),
			CreatedAt:     appt.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return items
}

// Appointments lists a day's appointments (?date=YYYY-MM-DD, default today)
// or a client's history (?client_id=...).
func (h *StaffHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if clientID := strings.TrimSpace(r.URL.Query().Get("client_id")); clientID != "" {
		limit := 50
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}
		appts, err := h.appts.ListForClient(ctx, clientID, limit)
		if err != nil {
			http.Error(w, "failed to list appointments", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentItems(appts))
		return
	}

	day := time.Now().UTC()
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			http.Error(w, "invalid date (want YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		day = parsed
	}
	appts, err := h.appts.ListForDay(ctx, day)
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentItems(appts))
}

type updateStatusRequest struct {
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
}

// UpdateStatus applies a staff-driven lifecycle edit (confirm, complete,
// cancel). Terminal appointments reject any further transition.
func (h *StaffHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	target, ok := model.ParseStatus(strings.TrimSpace(req.Status))
	if req.AppointmentID == "" || !ok {
		http.Error(w, "appointment_id and a valid status are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.appts.Begin(ctx)
	if err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.appts.GetForUpdate(ctx, tx, req.AppointmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	if !booking.CanTransition(appt.Status, target) {
		http.Error(w, "invalid status transition", http.StatusConflict)
		return
	}

	if err := h.appts.UpdateStatus(ctx, tx, appt.ID, target); err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"client_id":      appt.ClientID,
		"service_id":     appt.ServiceID,
		"from":           string(appt.Status),
		"to":             string(target),
	})
	if err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventAppointmentStatusChanged,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"appointment_id": appt.ID,
		"status":         string(target),
	})
}

type deleteAppointmentRequest struct {
	AppointmentID string `json:"appointment_id"`
}

// DeleteAppointment is the admin hard-delete escape hatch. It bypasses the
// lifecycle entirely; normal flow cancels.
func (h *StaffHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req deleteAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id required", http.StatusBadRequest)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	if err := h.appts.Delete(r.Context(), req.AppointmentID); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}
	h.logger.Info("appointment hard-deleted", "appointment_id", req.AppointmentID, "by", principal.UserID)
	w.WriteHeader(http.StatusNoContent)
}

type clientItem struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
}

func (h *StaffHandler) Clients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 100
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	clients, err := h.clients.List(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to list clients", http.StatusInternalServerError)
		return
	}

	items := make([]clientItem, 0, len(clients))
	for _, c := range clients {
		items = append(items, clientItem{
			ClientID: c.ID,
			Name:     c.Name,
			Phone:    c.Phone,
			Email:    c.Email,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

type createServiceRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

func (h *StaffHandler) Services(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listServices(w, r)
	case http.MethodPost:
		h.createService(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *StaffHandler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}

	type serviceItem struct {
		ServiceID       string  `json:"service_id"`
		Name            string  `json:"name"`
		Description     string  `json:"description,omitempty"`
		DurationMinutes int     `json:"duration_minutes"`
		Price           float64 `json:"price"`
	}
	items := make([]serviceItem, 0, len(services))
	for _, svc := range services {
		items = append(items, serviceItem{
			ServiceID:       svc.ID,
			Name:            svc.Name,
			Description:     svc.Description,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *StaffHandler) createService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.DurationMinutes <= 0 || req.Price < 0 {
		http.Error(w, "name, positive duration_minutes and non-negative price are required", http.StatusBadRequest)
		return
	}

	id, err := h.services.Create(r.Context(), &model.Service{
		Name:            req.Name,
		Description:     strings.TrimSpace(req.Description),
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	})
	if err != nil {
		http.Error(w, "failed to create service", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"service_id": id})
}

type createRuleRequest struct {
	ServiceID    string `json:"service_id"`
	Weekday      int    `json:"weekday"`
	SlotsPerHour int    `json:"slots_per_hour"`
	StartHour    string `json:"start_hour"`
	EndHour      string `json:"end_hour"`
}

type ruleItem struct {
	RuleID       string `json:"rule_id"`
	ServiceID    string `json:"service_id"`
	Weekday      int    `json:"weekday"`
	SlotsPerHour int    `json:"slots_per_hour"`
	StartHour    string `json:"start_hour"`
	EndHour      string `json:"end_hour"`
}

func (h *StaffHandler) Rules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listRules(w, r)
	case http.MethodPost:
		h.createRule(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *StaffHandler) listRules(w http.ResponseWriter, r *http.Request) {
	serviceID := strings.TrimSpace(r.URL.Query().Get("service_id"))
	if serviceID == "" {
		http.Error(w, "service_id required", http.StatusBadRequest)
		return
	}
	rules, err := h.rules.ListForService(r.Context(), serviceID)
	if err != nil {
		http.Error(w, "failed to list rules", http.StatusInternalServerError)
		return
	}

	items := make([]ruleItem, 0, len(rules))
	for _, rule := range rules {
		items = append(items, ruleItem{
			RuleID:       rule.ID,
			ServiceID:    rule.ServiceID,
			Weekday:      int(rule.Weekday),
			SlotsPerHour: rule.SlotsPerHour,
			StartHour:    rule.StartHour,
			EndHour:      rule.EndHour,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// createRule validates the rule up front: malformed configuration is
// rejected here, never discovered during slot generation.
func (h *StaffHandler) createRule(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	if req.ServiceID == "" {
		http.Error(w, "service_id required", http.StatusBadRequest)
		return
	}

	rule := model.AvailabilityRule{
		ServiceID:    req.ServiceID,
		Weekday:      time.Weekday(req.Weekday),
		SlotsPerHour: req.SlotsPerHour,
		StartHour:    strings.TrimSpace(req.StartHour),
		EndHour:      strings.TrimSpace(req.EndHour),
	}
	if err := availability.ValidateRule(rule); err != nil {
		if errors.Is(err, availability.ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}
	// Stored clocks are zero-padded so generation and occupancy can compare
	// them as plain strings.
	rule.StartHour, _ = availability.CanonicalClock(rule.StartHour)
	rule.EndHour, _ = availability.CanonicalClock(rule.EndHour)

	ctx := r.Context()
	if _, err := h.services.Get(ctx, rule.ServiceID); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "service not found", http.StatusNotFound)
			return
		}
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	id, err := h.rules.Create(ctx, &rule)
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "a rule already governs this weekday for the service", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create rule", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"rule_id": id})
}

type deleteRuleRequest struct {
	RuleID string `json:"rule_id"`
}

func (h *StaffHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req deleteRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.RuleID = strings.TrimSpace(req.RuleID)
	if req.RuleID == "" {
		http.Error(w, "rule_id required", http.StatusBadRequest)
		return
	}

	if err := h.rules.Delete(r.Context(), req.RuleID); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
