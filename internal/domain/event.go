package domain

import "time"

// BookingEventType represents the type of a booking event
type BookingEventType string

const (
	BookingEventCreated      BookingEventType = "booking.created"
	BookingEventConfirmed    BookingEventType = "booking.confirmed"
	BookingEventReminderSent BookingEventType = "reminder.sent"
)

// BookingEvent is published when a booking changes or a reminder is generated
type BookingEvent struct {
	EventID          string           `json:"event_id"`
	EventType        BookingEventType `json:"event_type"`
	OccurredAt       time.Time        `json:"occurred_at"`
	BookingID        string           `json:"booking_id"`
	WorkshopSlug     string           `json:"workshop_slug"`
	SessionID        string           `json:"session_id"`
	CustomerEmail    string           `json:"customer_email"`
	Seats            int              `json:"seats"`
	Amount           float64          `json:"amount"`
	Currency         string           `json:"currency"`
	Status           BookingStatus    `json:"status"`
	PaymentReference string           `json:"payment_reference,omitempty"`
}

// NewBookingEvent creates an event snapshot of a booking
func NewBookingEvent(eventType BookingEventType, b *Booking, eventID string) *BookingEvent {
	return &BookingEvent{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       time.Now().UTC(),
		BookingID:        b.ID,
		WorkshopSlug:     b.WorkshopSlug,
		SessionID:        b.SessionID,
		CustomerEmail:    b.CustomerEmail,
		Seats:            b.Seats,
		Amount:           b.Amount,
		Currency:         Currency,
		Status:           b.Status,
		PaymentReference: b.PaymentReference,
	}
}

// Key returns the partition key; events of one session stay ordered
func (e *BookingEvent) Key() string {
	return e.SessionID
}
