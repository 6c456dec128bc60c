package service

import (
	"context"
	"time"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/metrics"
	"github.com/prohmpiriya/handiq-workshops/internal/repository"
	"github.com/prohmpiriya/handiq-workshops/pkg/logger"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// DefaultReminderWindow is how far ahead sessions get reminders
const DefaultReminderWindow = 24 * time.Hour

// ReminderService generates reminder log entries on demand
type ReminderService interface {
	// SendReminders writes one reminder per confirmed booking of every session starting
	// within the window and returns how many were written. Repeated runs write again.
	SendReminders(ctx context.Context) (int, error)
}

type reminderService struct {
	sessionRepo    repository.SessionRepository
	bookingRepo    repository.BookingRepository
	notifier       NotificationLogger
	eventPublisher EventPublisher
	window         time.Duration
	now            func() time.Time
}

// ReminderServiceConfig contains configuration for reminder service
type ReminderServiceConfig struct {
	Window time.Duration
	Now    func() time.Time
}

// NewReminderService creates a new reminder service
func NewReminderService(
	store *repository.Store,
	notifier NotificationLogger,
	eventPublisher EventPublisher,
	cfg *ReminderServiceConfig,
) ReminderService {
	window := DefaultReminderWindow
	now := time.Now
	if cfg != nil {
		if cfg.Window > 0 {
			window = cfg.Window
		}
		if cfg.Now != nil {
			now = cfg.Now
		}
	}
	if notifier == nil {
		notifier = NewNotificationLogger(store.Emails, nil)
	}
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &reminderService{
		sessionRepo:    store.Sessions,
		bookingRepo:    store.Bookings,
		notifier:       notifier,
		eventPublisher: eventPublisher,
		window:         window,
		now:            now,
	}
}

func (s *reminderService) SendReminders(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reminder.send_reminders")
	defer span.End()

	from := s.now().UTC()
	to := from.Add(s.window)

	sessions, err := s.sessionRepo.ListStartingBetween(ctx, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	count := 0
	for _, session := range sessions {
		bookings, err := s.bookingRepo.ListConfirmedBySession(ctx, session.ID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return count, err
		}

		for _, booking := range bookings {
			s.notifier.Log(ctx, domain.NewReminderEmail(booking))
			if err := s.eventPublisher.PublishReminderSent(ctx, booking); err != nil {
				logger.Get().Warn("failed to publish reminder event",
					zap.String("booking_id", booking.ID),
					zap.Error(err),
				)
			}
			count++
		}
	}

	metrics.RecordReminders(ctx, count)
	logger.Get().Info("reminders generated",
		zap.Int("sessions", len(sessions)),
		zap.Int("reminders", count),
	)

	span.SetAttributes(
		attribute.Int("sessions", len(sessions)),
		attribute.Int("reminders", count),
	)
	span.SetStatus(codes.Ok, "")
	return count, nil
}
