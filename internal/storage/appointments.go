package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nahuel-dev/turnero/internal/booking"
	"github.com/nahuel-dev/turnero/internal/model"
	"github.com/nahuel-dev/turnero/libs/db"
)

const appointmentColumns = `
	id, client_id, service_id, date, start_time, end_time, status, created_at, updated_at`

type AppointmentRepository struct {
	pool *db.Pool
}

var _ booking.SlotStore = (*AppointmentRepository)(nil)

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *AppointmentRepository) Create(ctx context.Context, tx pgx.Tx, appt *model.Appointment) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO appointments (client_id, service_id, date, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, appt.ClientID, appt.ServiceID, appt.Date, appt.StartTime, appt.EndTime, appt.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListForServiceDay returns every appointment for the service on the
// calendar day, canceled rows included; the slot generator decides which of
// them block candidates.
func (r *AppointmentRepository) ListForServiceDay(ctx context.Context, serviceID string, day time.Time) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE service_id = $1 AND date = $2
		ORDER BY start_time ASC
	`, serviceID, startOfDay(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// CountUpcoming counts a client's non-canceled appointments dated within
// [from, to] inclusive, regardless of service.
func (r *AppointmentRepository) CountUpcoming(ctx context.Context, clientID string, from, to time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM appointments
		WHERE client_id = $1
			AND status <> 'CANCELED'
			AND date >= $2
			AND date <= $3
	`, clientID, from, to).Scan(&count)
	return count, err
}

func (r *AppointmentRepository) SlotTaken(ctx context.Context, serviceID string, date time.Time, startTime string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM appointments
			WHERE service_id = $1
				AND date = $2
				AND start_time = $3
				AND status <> 'CANCELED'
		)
	`, serviceID, startOfDay(date), startTime).Scan(&taken)
	return taken, err
}

func (r *AppointmentRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (model.Appointment, error) {
	row := tx.QueryRow(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id)
	return scanAppointment(row)
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (model.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status model.Status) error {
	_, err := tx.Exec(ctx, `
		UPDATE appointments
		SET status = $2, updated_at = now()
		WHERE id = $1
	`, id, status)
	return err
}

// ListForDay returns the day's appointments across all services, for the
// staff dashboard.
func (r *AppointmentRepository) ListForDay(ctx context.Context, day time.Time) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE date = $1
		ORDER BY start_time ASC
	`, startOfDay(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *AppointmentRepository) ListForClient(ctx context.Context, clientID string, limit int) ([]model.Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE client_id = $1
		ORDER BY date DESC, start_time DESC
		LIMIT $2
	`, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// Delete is the administrative hard-delete escape hatch; normal flow cancels
// instead.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var appt model.Appointment
	var status string
	err := row.Scan(
		&appt.ID,
		&appt.ClientID,
		&appt.ServiceID,
		&appt.Date,
		&appt.StartTime,
		&appt.EndTime,
		&status,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return model.Appointment{}, err
	}
	appt.Status = model.Status(status)
	return appt, nil
}

func scanAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	var appts []model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
