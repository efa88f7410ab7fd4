package model

import "time"

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCanceled  Status = "CANCELED"
	StatusCompleted Status = "COMPLETED"
)

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return s == StatusCanceled || s == StatusCompleted
}

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusScheduled, StatusConfirmed, StatusCanceled, StatusCompleted:
		return Status(raw), true
	}
	return "", false
}

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleClient Role = "CLIENT"
)

type Service struct {
	ID          string
	Name        string
	Description string
	// DurationMinutes is informational only; it does not size slots.
	DurationMinutes int
	Price           float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AvailabilityRule is one recurring window for a service on a single weekday.
// Exactly one rule may govern a (service, weekday) pair.
type AvailabilityRule struct {
	ID           string
	ServiceID    string
	Weekday      time.Weekday // Sunday = 0
	SlotsPerHour int
	StartHour    string // HH:MM, 24h
	EndHour      string // HH:MM, 24h
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Appointment times are day-granular dates plus HH:MM times of day;
// seconds are not modeled.
type Appointment struct {
	ID        string
	ClientID  string
	ServiceID string
	Date      time.Time // calendar date, midnight UTC
	StartTime string    // HH:MM
	EndTime   string    // HH:MM
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Client struct {
	ID        string
	Name      string
	Phone     string // natural key for lookup and login
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
