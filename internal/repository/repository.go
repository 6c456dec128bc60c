package repository

import (
	"context"
	"time"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
)

// WorkshopRepository defines persistence for the workshop catalog
type WorkshopRepository interface {
	// Create inserts a workshop, assigning its ID
	Create(ctx context.Context, workshop *domain.Workshop) error

	// List returns every workshop
	List(ctx context.Context) ([]*domain.Workshop, error)

	// GetBySlug returns domain.ErrWorkshopNotFound when the slug is unknown
	GetBySlug(ctx context.Context, slug string) (*domain.Workshop, error)

	// Count returns the number of workshops
	Count(ctx context.Context) (int64, error)
}

// SessionRepository defines persistence for scheduled sessions
type SessionRepository interface {
	// Create inserts a session, assigning its ID
	Create(ctx context.Context, session *domain.Session) error

	// GetByID returns domain.ErrSessionNotFound when the id is unknown
	GetByID(ctx context.Context, id string) (*domain.Session, error)

	// ListUpcoming returns sessions starting at or after from, earliest first.
	// An empty workshopSlug matches every workshop, limit <= 0 means no limit.
	ListUpcoming(ctx context.Context, workshopSlug string, from time.Time, limit int) ([]*domain.Session, error)

	// ListStartingBetween returns sessions with from <= start_time <= to
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Session, error)
}

// BookingRepository defines persistence for bookings
type BookingRepository interface {
	// Create inserts a booking, assigning its ID
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID returns domain.ErrBookingNotFound when the id is unknown
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// SumActiveSeats sums seats of pending_payment and confirmed bookings of a session
	SumActiveSeats(ctx context.Context, sessionID string) (int, error)

	// Confirm sets status=confirmed and the payment reference whatever the current status,
	// returning the updated booking or domain.ErrBookingNotFound
	Confirm(ctx context.Context, id, paymentReference string) (*domain.Booking, error)

	// ListConfirmedBySession returns the confirmed bookings of a session
	ListConfirmedBySession(ctx context.Context, sessionID string) ([]*domain.Booking, error)
}

// EmailLogRepository defines the append-only notification log
type EmailLogRepository interface {
	Create(ctx context.Context, entry *domain.EmailLog) error
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.EmailLog, error)
}

// ReviewRepository defines persistence for reviews
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error

	// List returns newest reviews first; an empty workshopSlug matches every workshop
	List(ctx context.Context, workshopSlug string, limit int) ([]*domain.Review, error)
}

// StoreInfo reports the state of the backing store
type StoreInfo interface {
	Driver() string
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
}

// Store bundles the repositories of one backend
type Store struct {
	IDs       IDScheme
	Workshops WorkshopRepository
	Sessions  SessionRepository
	Bookings  BookingRepository
	Emails    EmailLogRepository
	Reviews   ReviewRepository
	Info      StoreInfo
}

// Collection and table names
const (
	CollectionWorkshops = "workshop"
	CollectionSessions  = "session"
	CollectionBookings  = "booking"
	CollectionEmails    = "email"
	CollectionReviews   = "review"
)
