package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate applies the same tag rules gin uses when binding requests
var validate = validator.New()

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusFailed         BookingStatus = "failed"
)

// Seat limits per booking
const (
	MinSeatsPerBooking = 1
	MaxSeatsPerBooking = 10
)

// Currency is the only currency the studio charges in
const Currency = "INR"

// ActiveBookingStatuses are the statuses whose seats count against session capacity
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPendingPayment,
	BookingStatusConfirmed,
}

// Booking represents a customer's claim on seats in a session
type Booking struct {
	ID               string        `json:"id"`
	WorkshopSlug     string        `json:"workshop_slug"`
	SessionID        string        `json:"session_id"`
	CustomerName     string        `json:"customer_name"`
	CustomerEmail    string        `json:"customer_email"`
	CustomerPhone    string        `json:"customer_phone,omitempty"`
	Seats            int           `json:"seats"`
	Amount           float64       `json:"amount"`
	Status           BookingStatus `json:"status"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Customer holds the contact details supplied with a booking
type Customer struct {
	Name  string
	Email string
	Phone string
}

// NewBooking creates a pending booking priced from the workshop
func NewBooking(w *Workshop, s *Session, seats int, customer Customer) *Booking {
	now := time.Now().UTC()
	return &Booking{
		WorkshopSlug:  w.Slug,
		SessionID:     s.ID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		Seats:         seats,
		Amount:        w.Price * float64(seats),
		Status:        BookingStatusPendingPayment,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// HoldsSeats reports whether the booking's seats count against capacity
func (b *Booking) HoldsSeats() bool {
	return b.Status.HoldsSeats()
}

// IsConfirmed checks if the booking has been paid
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// Confirm marks the booking as paid regardless of its previous status
func (b *Booking) Confirm(paymentReference string, at time.Time) {
	b.Status = BookingStatusConfirmed
	b.PaymentReference = paymentReference
	b.UpdatedAt = at.UTC()
}

// Validate validates the booking
func (b *Booking) Validate() error {
	if b.WorkshopSlug == "" {
		return ErrWorkshopNotFound
	}
	if b.SessionID == "" {
		return ErrInvalidSession
	}
	if err := ValidateSeats(b.Seats); err != nil {
		return err
	}
	if strings.TrimSpace(b.CustomerName) == "" || validate.Var(b.CustomerEmail, "required,email") != nil {
		return ErrInvalidCustomer
	}
	if b.Amount < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// ValidateSeats checks a requested seat count against the per-booking limits
func ValidateSeats(seats int) error {
	if seats < MinSeatsPerBooking || seats > MaxSeatsPerBooking {
		return ErrInvalidSeats
	}
	return nil
}

// HoldsSeats reports whether bookings in this status count against capacity
func (s BookingStatus) HoldsSeats() bool {
	return s == BookingStatusPendingPayment || s == BookingStatusConfirmed
}

// ActiveBookingStatusStrings returns ActiveBookingStatuses as plain strings for store filters
func ActiveBookingStatusStrings() []string {
	out := make([]string, len(ActiveBookingStatuses))
	for i, s := range ActiveBookingStatuses {
		out[i] = string(s)
	}
	return out
}
