package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nahuel-dev/turnero/internal/availability"
	"github.com/nahuel-dev/turnero/internal/booking"
	"github.com/nahuel-dev/turnero/internal/model"
	"github.com/nahuel-dev/turnero/internal/outbox"
	"github.com/nahuel-dev/turnero/internal/storage"
)

const dateLayout = "2006-01-02"

// ruleSource is the availability lookup the public slots endpoint reads.
// IsNotFound(err) means the weekday has no governing rule.
type ruleSource interface {
	GetForServiceWeekday(ctx context.Context, serviceID string, weekday time.Weekday) (model.AvailabilityRule, error)
}

type BookingHandler struct {
	appts      *storage.AppointmentRepository
	clients    *storage.ClientRepository
	rules      ruleSource
	services   *storage.ServiceRepository
	outboxRepo *outbox.Repository
	guard      *booking.Guard
	logger     *slog.Logger
}

func NewBookingHandler(
	appts *storage.AppointmentRepository,
	clients *storage.ClientRepository,
	rules ruleSource,
	services *storage.ServiceRepository,
	outboxRepo *outbox.Repository,
	guard *booking.Guard,
	logger *slog.Logger,
) *BookingHandler {
	return &BookingHandler{
		appts:      appts,
		clients:    clients,
		rules:      rules,
		services:   services,
		outboxRepo: outboxRepo,
		guard:      guard,
		logger:     logger,
	}
}

type bookRequest struct {
	Phone     string `json:"phone"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

type bookResponse struct {
	AppointmentID string `json:"appointment_id"`
}

type cancelRequest struct {
	AppointmentID string `json:"appointment_id"`
}

type cancelResponse struct {
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
}

// Slots returns the offered start times for a service on a date. A weekday
// without a governing rule yields an empty list, not an error.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	serviceID := strings.TrimSpace(r.URL.Query().Get("service_id"))
	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if serviceID == "" || dateStr == "" {
		http.Error(w, "service_id and date are required", http.StatusBadRequest)
		return
	}
	date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
	if err != nil {
		http.Error(w, "invalid date (want YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	rule, err := h.rules.GetForServiceWeekday(ctx, serviceID, date.Weekday())
	if err != nil {
		if storage.IsNotFound(err) {
			writeJSON(w, http.StatusOK, []string{})
			return
		}
		http.Error(w, "failed to load availability", http.StatusInternalServerError)
		return
	}

	booked, err := h.appts.ListForServiceDay(ctx, serviceID, date)
	if err != nil {
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}

	slots := availability.Slots(rule, booked)
	if slots == nil {
		slots = []string{}
	}
	writeJSON(w, http.StatusOK, slots)
}

// Book resolves the client by phone, evaluates the booking guard, and
// inserts the appointment, all in one transaction. The partial unique index
// on the slot converts a lost race into a slot-taken rejection instead of a
// double-booking.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Phone = strings.TrimSpace(req.Phone)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.StartTime = strings.TrimSpace(req.StartTime)

	if req.Phone == "" || req.Name == "" || req.ServiceID == "" || req.Date == "" || req.StartTime == "" {
		http.Error(w, "phone, name, service_id, date and start_time are required", http.StatusBadRequest)
		return
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		http.Error(w, "invalid date (want YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	startTime, ok := availability.CanonicalClock(req.StartTime)
	if !ok {
		http.Error(w, "invalid start_time (want HH:MM)", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	svc, err := h.services.Get(ctx, req.ServiceID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "service not found", http.StatusNotFound)
			return
		}
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	tx, err := h.appts.Begin(ctx)
	if err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	client, err := h.clients.UpsertByPhone(ctx, tx, req.Name, req.Phone, req.Email)
	if err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	decision, err := h.guard.Evaluate(ctx, client.ID, svc.ID, date, startTime)
	if err != nil {
		h.logger.Error("booking guard failed", "err", err)
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}
	if !decision.Accepted {
		writeReject(w, decision.Reason)
		return
	}

	appt := &model.Appointment{
		ClientID:  client.ID,
		ServiceID: svc.ID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTimeFor(startTime, svc.DurationMinutes),
		Status:    model.StatusScheduled,
	}
	id, err := h.appts.Create(ctx, tx, appt)
	if err != nil {
		if storage.IsConflict(err) {
			// Lost the race: another booking for the same slot committed
			// between the occupancy check and this insert.
			writeReject(w, booking.ReasonSlotTaken)
			return
		}
		h.logger.Error("appointment insert failed", "err", err)
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": id,
		"client_id":      client.ID,
		"service_id":     svc.ID,
		"date":           date.Format(dateLayout),
		"start_time":     appt.StartTime,
		"end_time":       appt.EndTime,
		"status":         string(appt.Status),
	})
	if err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   id,
		EventType:     outbox.EventAppointmentBooked,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		if storage.IsConflict(err) {
			writeReject(w, booking.ReasonSlotTaken)
			return
		}
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, bookResponse{AppointmentID: id})
}

// Cancel marks an appointment CANCELED. The row stays; the slot frees up
// because occupancy queries filter out canceled appointments. The endpoint
// is unauthenticated: the appointment id is disclosed only in the booking
// response and serves as the cancellation token.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id required", http.StatusBadRequest)
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

	if appt.Status == model.StatusCanceled {
		writeJSON(w, http.StatusOK, cancelResponse{AppointmentID: appt.ID, Status: string(appt.Status)})
		return
	}
	if !booking.CanCancel(appt.Status) {
		http.Error(w, "appointment cannot be cancelled", http.StatusConflict)
		return
	}

	if err := h.appts.UpdateStatus(ctx, tx, appt.ID, model.StatusCanceled); err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"client_id":      appt.ClientID,
		"service_id":     appt.ServiceID,
		"date":           appt.Date.Format(dateLayout),
		"start_time":     appt.StartTime,
	})
	if err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventAppointmentCancelled,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "operation failed, retry later", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, cancelResponse{AppointmentID: appt.ID, Status: string(model.StatusCanceled)})
}

// endTimeFor derives the informational end time from the service duration;
// it plays no part in slot occupancy, which matches start times exactly.
func endTimeFor(start string, durationMinutes int) string {
	t, err := time.Parse("15:04", start)
	if err != nil || durationMinutes <= 0 {
		return start
	}
	return t.Add(time.Duration(durationMinutes) * time.Minute).Format("15:04")
}

func writeReject(w http.ResponseWriter, reason booking.RejectReason) {
	status := http.StatusUnprocessableEntity
	if reason == booking.ReasonSlotTaken {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": string(reason)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
