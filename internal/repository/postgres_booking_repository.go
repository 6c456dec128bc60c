package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const bookingColumns = `
	id, workshop_slug, session_id, customer_name, customer_email, customer_phone,
	seats, amount, status, payment_reference, created_at, updated_at`

// PostgresBookingRepository implements BookingRepository using PostgreSQL with pgxpool
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
	ids  IDScheme
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool, ids IDScheme) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool, ids: ids}
}

// Create creates a new booking record in the database
func (r *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create")
	defer span.End()

	if booking.ID == "" {
		booking.ID = r.ids.NewID()
	}

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("session_id", booking.SessionID),
		attribute.Int("seats", booking.Seats),
	)

	query := `
		INSERT INTO booking (` + bookingColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12
		)
	`

	_, err := r.pool.Exec(ctx, query,
		booking.ID,
		booking.WorkshopSlug,
		booking.SessionID,
		booking.CustomerName,
		booking.CustomerEmail,
		nullString(booking.CustomerPhone),
		booking.Seats,
		booking.Amount,
		string(booking.Status),
		nullString(booking.PaymentReference),
		utcOrNow(booking.CreatedAt),
		utcOrNow(booking.UpdatedAt),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a booking by its ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	if !r.ids.Valid(id) {
		span.SetStatus(codes.Error, "not found")
		return nil, domain.ErrBookingNotFound
	}

	query := `SELECT ` + bookingColumns + ` FROM booking WHERE id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// SumActiveSeats sums the seats of pending_payment and confirmed bookings for a session
func (r *PostgresBookingRepository) SumActiveSeats(ctx context.Context, sessionID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.sum_active_seats")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", sessionID))

	query := `
		SELECT COALESCE(SUM(seats), 0)
		FROM booking
		WHERE session_id = $1 AND status = ANY($2)
	`

	var total int
	err := r.pool.QueryRow(ctx, query, sessionID, domain.ActiveBookingStatusStrings()).Scan(&total)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to sum booked seats: %w", err)
	}

	span.SetAttributes(attribute.Int("seats", total))
	span.SetStatus(codes.Ok, "")
	return total, nil
}

// Confirm sets the booking to confirmed with the payment reference, whatever its status
func (r *PostgresBookingRepository) Confirm(ctx context.Context, id, paymentReference string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.confirm")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	if !r.ids.Valid(id) {
		span.SetStatus(codes.Error, "not found")
		return nil, domain.ErrBookingNotFound
	}

	query := `
		UPDATE booking
		SET status = $2, payment_reference = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.pool.QueryRow(ctx, query,
		id,
		string(domain.BookingStatusConfirmed),
		nullString(paymentReference),
		time.Now().UTC(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// ListConfirmedBySession retrieves the confirmed bookings of a session
func (r *PostgresBookingRepository) ListConfirmedBySession(ctx context.Context, sessionID string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_confirmed_by_session")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", sessionID))

	query := `
		SELECT ` + bookingColumns + `
		FROM booking
		WHERE session_id = $1 AND status = $2
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, sessionID, string(domain.BookingStatusConfirmed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

// scanBooking scans a single row into a booking
func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var (
		status           string
		customerPhone    *string
		paymentReference *string
	)

	err := row.Scan(
		&booking.ID,
		&booking.WorkshopSlug,
		&booking.SessionID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&customerPhone,
		&booking.Seats,
		&booking.Amount,
		&status,
		&paymentReference,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	booking.CustomerPhone = derefString(customerPhone)
	booking.PaymentReference = derefString(paymentReference)
	booking.CreatedAt = booking.CreatedAt.UTC()
	booking.UpdatedAt = booking.UpdatedAt.UTC()
	return booking, nil
}

var _ BookingRepository = (*PostgresBookingRepository)(nil)
