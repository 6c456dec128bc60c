package service

import (
	"context"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/repository"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// AvailabilityCalculator computes remaining seats of a session
type AvailabilityCalculator interface {
	// Available returns capacity minus the seats held by pending_payment and confirmed
	// bookings. The value can be negative when the session has been overbooked.
	Available(ctx context.Context, sessionID string) (int, error)

	// AvailableFor is Available for an already loaded session
	AvailableFor(ctx context.Context, session *domain.Session) (int, error)
}

type availabilityCalculator struct {
	sessionRepo repository.SessionRepository
	bookingRepo repository.BookingRepository
}

// NewAvailabilityCalculator creates a new availability calculator
func NewAvailabilityCalculator(sessionRepo repository.SessionRepository, bookingRepo repository.BookingRepository) AvailabilityCalculator {
	return &availabilityCalculator{
		sessionRepo: sessionRepo,
		bookingRepo: bookingRepo,
	}
}

func (a *availabilityCalculator) Available(ctx context.Context, sessionID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.availability.available")
	defer span.End()

	session, err := a.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return a.AvailableFor(ctx, session)
}

func (a *availabilityCalculator) AvailableFor(ctx context.Context, session *domain.Session) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.availability.available_for")
	defer span.End()

	booked, err := a.bookingRepo.SumActiveSeats(ctx, session.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	available := session.Capacity - booked
	span.SetAttributes(
		attribute.String("session_id", session.ID),
		attribute.Int("capacity", session.Capacity),
		attribute.Int("booked", booked),
		attribute.Int("available", available),
	)
	span.SetStatus(codes.Ok, "")
	return available, nil
}

// DisplayAvailable floors a raw availability at zero for read paths
func DisplayAvailable(raw int) int {
	if raw < 0 {
		return 0
	}
	return raw
}
