package metrics

import (
	"context"
	"sync"

	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Booking counters
	BookingsCreated     *telemetry.Counter
	BookingsConfirmed   *telemetry.Counter
	CapacityRejections  *telemetry.Counter
	SeatsBooked         *telemetry.Counter
	RemindersCreated    *telemetry.Counter
	NotificationsFailed *telemetry.Counter
	ReviewsCreated      *telemetry.Counter

	// Error tracking counters
	ErrorsTotal       *telemetry.Counter
	SlowRequestsTotal *telemetry.Counter

	// Histograms
	BookingAmount   *telemetry.Histogram
	RequestDuration *telemetry.Histogram

	// Gauges
	PendingPayments *telemetry.UpDownCounter

	initOnce sync.Once
	initErr  error
)

// Init initializes all booking metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	counters := []struct {
		target **telemetry.Counter
		opts   telemetry.MetricOpts
	}{
		{&BookingsCreated, telemetry.MetricOpts{Name: "workshop_bookings_created_total", Description: "Total number of bookings created", Unit: "1"}},
		{&BookingsConfirmed, telemetry.MetricOpts{Name: "workshop_bookings_confirmed_total", Description: "Total number of payment confirmations", Unit: "1"}},
		{&CapacityRejections, telemetry.MetricOpts{Name: "workshop_capacity_rejections_total", Description: "Bookings refused because the session was full", Unit: "1"}},
		{&SeatsBooked, telemetry.MetricOpts{Name: "workshop_seats_booked_total", Description: "Seats claimed by created bookings", Unit: "1"}},
		{&RemindersCreated, telemetry.MetricOpts{Name: "workshop_reminders_created_total", Description: "Reminder log entries written", Unit: "1"}},
		{&NotificationsFailed, telemetry.MetricOpts{Name: "workshop_notification_failures_total", Description: "Email log entries that could not be written", Unit: "1"}},
		{&ReviewsCreated, telemetry.MetricOpts{Name: "workshop_reviews_created_total", Description: "Total number of reviews", Unit: "1"}},
		{&ErrorsTotal, telemetry.MetricOpts{Name: "workshop_errors_total", Description: "Total number of errors by type", Unit: "1"}},
		{&SlowRequestsTotal, telemetry.MetricOpts{Name: "workshop_slow_requests_total", Description: "Total number of slow requests (>1s)", Unit: "1"}},
	}
	for _, c := range counters {
		*c.target, err = telemetry.NewCounter(c.opts)
		if err != nil {
			return err
		}
	}

	BookingAmount, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "workshop_booking_amount_inr",
		Description: "Amount of created bookings",
		Unit:        "INR",
	}, []float64{1000, 2500, 5000, 10000, 20000, 30000})
	if err != nil {
		return err
	}

	// 5ms to 10s
	RequestDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "workshop_request_duration_seconds",
		Description: "HTTP request duration in seconds",
		Unit:        "s",
	}, []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10})
	if err != nil {
		return err
	}

	PendingPayments, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "workshop_pending_payments",
		Description: "Bookings created and not yet confirmed by this process",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	return nil
}

// RecordBookingCreated records a created booking
func RecordBookingCreated(ctx context.Context, workshopSlug string, seats int, amount float64) {
	if BookingsCreated != nil {
		BookingsCreated.Inc(ctx, attribute.String("workshop_slug", workshopSlug))
	}
	if SeatsBooked != nil {
		SeatsBooked.Add(ctx, int64(seats), attribute.String("workshop_slug", workshopSlug))
	}
	if BookingAmount != nil {
		BookingAmount.Record(ctx, amount, attribute.String("workshop_slug", workshopSlug))
	}
	if PendingPayments != nil {
		PendingPayments.Inc(ctx)
	}
}

// RecordConfirmation records a payment confirmation
func RecordConfirmation(ctx context.Context, workshopSlug string) {
	if BookingsConfirmed != nil {
		BookingsConfirmed.Inc(ctx, attribute.String("workshop_slug", workshopSlug))
	}
	if PendingPayments != nil {
		PendingPayments.Dec(ctx)
	}
}

// RecordCapacityRejection records a booking refused for lack of seats
func RecordCapacityRejection(ctx context.Context, sessionID string, requested, available int) {
	if CapacityRejections != nil {
		CapacityRejections.Inc(ctx,
			attribute.String("session_id", sessionID),
			attribute.Int("requested", requested),
			attribute.Int("available", available),
		)
	}
}

// RecordReminders records a reminder run
func RecordReminders(ctx context.Context, count int) {
	if RemindersCreated != nil {
		RemindersCreated.Add(ctx, int64(count))
	}
}

// RecordNotificationFailure records an email log entry that was dropped
func RecordNotificationFailure(ctx context.Context, emailType string) {
	if NotificationsFailed != nil {
		NotificationsFailed.Inc(ctx, attribute.String("email_type", emailType))
	}
}

// RecordReview records a created review
func RecordReview(ctx context.Context, workshopSlug string, rating int) {
	if ReviewsCreated != nil {
		ReviewsCreated.Inc(ctx,
			attribute.String("workshop_slug", workshopSlug),
			attribute.Int("rating", rating),
		)
	}
}

// RecordError records an error by type and operation
func RecordError(ctx context.Context, errorType, operation string) {
	if ErrorsTotal != nil {
		ErrorsTotal.Inc(ctx,
			attribute.String("error_type", errorType),
			attribute.String("operation", operation),
		)
	}
}

// RecordRequestDuration records HTTP request duration and tracks slow requests
func RecordRequestDuration(ctx context.Context, operation string, durationSeconds float64) {
	if RequestDuration != nil {
		RequestDuration.Record(ctx, durationSeconds,
			attribute.String("operation", operation),
		)
	}
	if durationSeconds > 1.0 && SlowRequestsTotal != nil {
		SlowRequestsTotal.Inc(ctx,
			attribute.String("operation", operation),
		)
	}
}
