package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const (
	EventAppointmentBooked        = "turnero.appointment.booked.v1"
	EventAppointmentCancelled     = "turnero.appointment.cancelled.v1"
	EventAppointmentStatusChanged = "turnero.appointment.status_changed.v1"
)
