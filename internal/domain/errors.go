package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Not found errors
	ErrInvalidID        = errors.New("invalid id")
	ErrWorkshopNotFound = errors.New("workshop not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrBookingNotFound  = errors.New("booking not found")

	// Validation errors
	ErrInvalidSession  = errors.New("invalid session")
	ErrInvalidRating   = errors.New("rating must be 1-5")
	ErrInvalidSeats    = errors.New("seats must be between 1 and 10")
	ErrInvalidCustomer = errors.New("customer name and a valid email are required")
	ErrInvalidWorkshop = errors.New("workshop title and slug are required")
	ErrInvalidPrice    = errors.New("price cannot be negative")
	ErrInvalidDuration = errors.New("workshop must run for at least 30 minutes")
	ErrInvalidCapacity = errors.New("session capacity must be at least 1")

	// Availability errors
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// Conflict errors
	ErrDuplicateSlug = errors.New("workshop slug already exists")
)

// CapacityExceededError reports how many seats were left when a booking was refused
type CapacityExceededError struct {
	Available int
}

// NewCapacityExceededError creates a capacity error for the given raw availability
func NewCapacityExceededError(available int) *CapacityExceededError {
	return &CapacityExceededError{Available: available}
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("Only %d seats left", e.Available)
}

// Is lets errors.Is match ErrCapacityExceeded
func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrWorkshopNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrBookingNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidSeats) ||
		errors.Is(err, ErrInvalidCustomer) ||
		errors.Is(err, ErrInvalidWorkshop) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidCapacity)
}

// IsCapacityError checks if the error is a capacity error
func IsCapacityError(err error) bool {
	return errors.Is(err, ErrCapacityExceeded)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrDuplicateSlug)
}
