package dto

import (
	"github.com/prohmpiriya/handiq-workshops/internal/domain"
)

// CreateBookingRequest represents a request to book seats in a session
type CreateBookingRequest struct {
	WorkshopSlug  string `json:"workshop_slug" binding:"required"`
	SessionID     string `json:"session_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Seats         *int   `json:"seats" binding:"omitempty,min=1,max=10"`
}

// SeatsOrDefault returns the requested seats, one when the field is absent.
// An explicit zero is returned as is and rejected by validation.
func (r *CreateBookingRequest) SeatsOrDefault() int {
	if r.Seats == nil {
		return 1
	}
	return *r.Seats
}

// Customer returns the contact details of the request
func (r *CreateBookingRequest) Customer() domain.Customer {
	return domain.Customer{
		Name:  r.CustomerName,
		Email: r.CustomerEmail,
		Phone: r.CustomerPhone,
	}
}

// CreateBookingResponse represents response after creating a booking
type CreateBookingResponse struct {
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// BookingDetailResponse is a booking with its session and workshop attached
type BookingDetailResponse struct {
	*domain.Booking
	Session  *domain.Session  `json:"session"`
	Workshop *domain.Workshop `json:"workshop"`
}

// CheckoutResponse is the mock payment token, or already_paid for confirmed bookings
type CheckoutResponse struct {
	Status       string   `json:"status,omitempty"`
	PaymentToken string   `json:"payment_token,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`
	Currency     string   `json:"currency,omitempty"`
}

// ConfirmPaymentRequest represents a payment confirmation from the client
type ConfirmPaymentRequest struct {
	BookingID        string `json:"booking_id" binding:"required"`
	PaymentReference string `json:"payment_reference" binding:"required"`
}

// ConfirmPaymentResponse represents response after confirming a payment
type ConfirmPaymentResponse struct {
	Status string `json:"status"`
}

// SendRemindersResponse reports how many reminder entries were written
type SendRemindersResponse struct {
	RemindersCreated int `json:"reminders_created"`
}
