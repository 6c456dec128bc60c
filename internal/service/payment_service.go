package service

import (
	"context"

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

// Checkout statuses
const (
	CheckoutStatusAlreadyPaid = "already_paid"
	paymentTokenPrefix        = "PAY_"
	paymentTokenSuffixLen     = 6
)

// PaymentService defines the mock payment flow
type PaymentService interface {
	// Checkout returns a dummy payment token for a booking
	Checkout(ctx context.Context, bookingID string) (*dto.CheckoutResponse, error)

	// ConfirmPayment marks a booking confirmed with the client supplied reference
	ConfirmPayment(ctx context.Context, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error)
}

type paymentService struct {
	ids            repository.IDScheme
	bookingRepo    repository.BookingRepository
	notifier       NotificationLogger
	eventPublisher EventPublisher
	adminEmail     string
}

// PaymentServiceConfig contains configuration for payment service
type PaymentServiceConfig struct {
	AdminEmail string
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	store *repository.Store,
	notifier NotificationLogger,
	eventPublisher EventPublisher,
	cfg *PaymentServiceConfig,
) PaymentService {
	adminEmail := domain.DefaultAdminEmail
	if cfg != nil && cfg.AdminEmail != "" {
		adminEmail = cfg.AdminEmail
	}
	if notifier == nil {
		notifier = NewNotificationLogger(store.Emails, nil)
	}
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &paymentService{
		ids:            store.IDs,
		bookingRepo:    store.Bookings,
		notifier:       notifier,
		eventPublisher: eventPublisher,
		adminEmail:     adminEmail,
	}
}

func (s *paymentService) Checkout(ctx context.Context, bookingID string) (*dto.CheckoutResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.payment.checkout")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	if !s.ids.Valid(bookingID) {
		span.SetStatus(codes.Error, "not found")
		return nil, domain.ErrBookingNotFound
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if booking.IsConfirmed() {
		span.SetStatus(codes.Ok, "already paid")
		return &dto.CheckoutResponse{Status: CheckoutStatusAlreadyPaid}, nil
	}

	amount := booking.Amount
	span.SetStatus(codes.Ok, "")
	return &dto.CheckoutResponse{
		PaymentToken: paymentToken(booking.ID),
		Amount:       &amount,
		Currency:     domain.Currency,
	}, nil
}

// paymentToken derives the mock token from the last characters of the booking id
func paymentToken(bookingID string) string {
	suffix := bookingID
	if len(suffix) > paymentTokenSuffixLen {
		suffix = suffix[len(suffix)-paymentTokenSuffixLen:]
	}
	return paymentTokenPrefix + suffix
}

// ConfirmPayment confirms whatever the current status is; a second confirmation
// overwrites the payment reference and logs the emails again
func (s *paymentService) ConfirmPayment(ctx context.Context, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.payment.confirm_payment")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", req.BookingID))

	if !s.ids.Valid(req.BookingID) {
		span.SetStatus(codes.Error, "not found")
		return nil, domain.ErrBookingNotFound
	}

	booking, err := s.bookingRepo.Confirm(ctx, req.BookingID, req.PaymentReference)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.notifier.Log(ctx, domain.NewBookingConfirmedEmail(booking))
	s.notifier.Log(ctx, domain.NewAdminBookingEmail(booking, s.adminEmail))

	if err := s.eventPublisher.PublishBookingConfirmed(ctx, booking); err != nil {
		logger.Get().Warn("failed to publish booking confirmed event",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}

	metrics.RecordConfirmation(ctx, booking.WorkshopSlug)

	span.SetStatus(codes.Ok, "")
	return &dto.ConfirmPaymentResponse{Status: string(domain.BookingStatusConfirmed)}, nil
}
