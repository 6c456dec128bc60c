package service

import (
	"context"
	"errors"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/dto"
	"github.com/prohmpiriya/handiq-workshops/internal/metrics"
	"github.com/prohmpiriya/handiq-workshops/internal/repository"
	"github.com/prohmpiriya/handiq-workshops/pkg/logger"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// BookingService defines the interface for booking business logic
type BookingService interface {
	// CreateBooking claims seats in a session and leaves the booking pending payment
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error)

	// GetBooking retrieves a booking with its session and workshop
	GetBooking(ctx context.Context, bookingID string) (*dto.BookingDetailResponse, error)
}

// bookingService implements BookingService
type bookingService struct {
	ids            repository.IDScheme
	workshopRepo   repository.WorkshopRepository
	sessionRepo    repository.SessionRepository
	bookingRepo    repository.BookingRepository
	availability   AvailabilityCalculator
	notifier       NotificationLogger
	eventPublisher EventPublisher
	guard          CapacityGuard
}

// BookingServiceConfig contains configuration for booking service
type BookingServiceConfig struct {
	// Guard serialises check and insert per session; nil keeps the unguarded behaviour
	Guard CapacityGuard
}

// NewBookingService creates a new booking service
func NewBookingService(
	store *repository.Store,
	availability AvailabilityCalculator,
	notifier NotificationLogger,
	eventPublisher EventPublisher,
	cfg *BookingServiceConfig,
) BookingService {
	var guard CapacityGuard = UnguardedCapacity{}
	if cfg != nil && cfg.Guard != nil {
		guard = cfg.Guard
	}
	if availability == nil {
		availability = NewAvailabilityCalculator(store.Sessions, store.Bookings)
	}
	if notifier == nil {
		notifier = NewNotificationLogger(store.Emails, nil)
	}
	// Use NoOpEventPublisher if none provided
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &bookingService{
		ids:            store.IDs,
		workshopRepo:   store.Workshops,
		sessionRepo:    store.Sessions,
		bookingRepo:    store.Bookings,
		availability:   availability,
		notifier:       notifier,
		eventPublisher: eventPublisher,
		guard:          guard,
	}
}

// CreateBooking validates the request against the catalog and session capacity, then
// stores a pending_payment booking. In unguarded mode nothing re-checks capacity between
// the availability read and the insert.
func (s *bookingService) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.create_booking")
	defer span.End()

	if req == nil {
		span.SetStatus(codes.Error, "invalid session")
		return nil, domain.ErrInvalidSession
	}

	// Malformed ids can never match a session
	if !s.ids.Valid(req.SessionID) {
		span.SetStatus(codes.Error, "invalid id")
		return nil, domain.ErrInvalidID
	}

	seats := req.SeatsOrDefault()
	span.SetAttributes(
		attribute.String("workshop_slug", req.WorkshopSlug),
		attribute.String("session_id", req.SessionID),
		attribute.Int("seats", seats),
	)

	workshop, err := s.workshopRepo.GetBySlug(ctx, req.WorkshopSlug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			span.SetStatus(codes.Error, "invalid session")
			return nil, domain.ErrInvalidSession
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !session.BelongsTo(workshop.Slug) {
		span.SetStatus(codes.Error, "invalid session")
		return nil, domain.ErrInvalidSession
	}

	booking := domain.NewBooking(workshop, session, seats, req.Customer())
	if err := booking.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	unlock, err := s.guard.Lock(ctx, session.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer unlock()

	available, err := s.availability.AvailableFor(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if seats > available {
		metrics.RecordCapacityRejection(ctx, session.ID, seats, available)
		span.SetStatus(codes.Error, "capacity exceeded")
		return nil, domain.NewCapacityExceededError(available)
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.notifier.Log(ctx, domain.NewBookingCreatedEmail(booking))

	if err := s.eventPublisher.PublishBookingCreated(ctx, booking); err != nil {
		logger.Get().Warn("failed to publish booking created event",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}

	metrics.RecordBookingCreated(ctx, workshop.Slug, seats, booking.Amount)

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return &dto.CreateBookingResponse{
		BookingID: booking.ID,
		Amount:    booking.Amount,
		Currency:  domain.Currency,
	}, nil
}

// GetBooking retrieves a booking with its session and workshop; either may be nil
// when the referenced record no longer exists
func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*dto.BookingDetailResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get_booking")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	if !s.ids.Valid(bookingID) {
		span.SetStatus(codes.Error, "invalid id")
		return nil, domain.ErrInvalidID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := &dto.BookingDetailResponse{Booking: booking}

	session, err := s.sessionRepo.GetByID(ctx, booking.SessionID)
	switch {
	case err == nil:
		resp.Session = session
	case !errors.Is(err, domain.ErrSessionNotFound):
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	workshop, err := s.workshopRepo.GetBySlug(ctx, booking.WorkshopSlug)
	switch {
	case err == nil:
		resp.Workshop = workshop
	case !errors.Is(err, domain.ErrWorkshopNotFound):
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return resp, nil
}
