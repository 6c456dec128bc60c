package domain

import "time"

// EmailType tags what an email log entry stands in for
type EmailType string

const (
	EmailTypeBookingCreated   EmailType = "booking_created"
	EmailTypeBookingConfirmed EmailType = "booking_confirmed"
	EmailTypeAdminNewBooking  EmailType = "admin_new_booking"
	EmailTypeReminder         EmailType = "reminder"
)

// Email subjects
const (
	SubjectBookingCreated   = "Your HANDIQ booking is almost complete"
	SubjectBookingConfirmed = "HANDIQ Booking Confirmed"
	SubjectAdminNewBooking  = "New HANDIQ Booking"
	SubjectReminder         = "Reminder: Your HANDIQ workshop is in 24 hours"
)

// DefaultAdminEmail receives the admin_new_booking notifications
const DefaultAdminEmail = "admin@handiq.example"

// EmailLog is a persisted record standing in for a sent email
type EmailLog struct {
	ID               string    `json:"id"`
	Type             EmailType `json:"type"`
	To               string    `json:"to"`
	Subject          string    `json:"subject"`
	BookingID        string    `json:"booking_id"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewBookingCreatedEmail builds the log entry sent when a booking is placed
func NewBookingCreatedEmail(b *Booking) *EmailLog {
	return &EmailLog{
		Type:      EmailTypeBookingCreated,
		To:        b.CustomerEmail,
		Subject:   SubjectBookingCreated,
		BookingID: b.ID,
	}
}

// NewBookingConfirmedEmail builds the customer confirmation entry
func NewBookingConfirmedEmail(b *Booking) *EmailLog {
	return &EmailLog{
		Type:             EmailTypeBookingConfirmed,
		To:               b.CustomerEmail,
		Subject:          SubjectBookingConfirmed,
		BookingID:        b.ID,
		PaymentReference: b.PaymentReference,
	}
}

// NewAdminBookingEmail builds the admin notification entry
func NewAdminBookingEmail(b *Booking, adminEmail string) *EmailLog {
	return &EmailLog{
		Type:      EmailTypeAdminNewBooking,
		To:        adminEmail,
		Subject:   SubjectAdminNewBooking,
		BookingID: b.ID,
	}
}

// NewReminderEmail builds the 24h reminder entry
func NewReminderEmail(b *Booking) *EmailLog {
	return &EmailLog{
		Type:      EmailTypeReminder,
		To:        b.CustomerEmail,
		Subject:   SubjectReminder,
		BookingID: b.ID,
	}
}
