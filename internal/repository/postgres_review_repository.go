package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresEmailLogRepository implements EmailLogRepository using PostgreSQL
type PostgresEmailLogRepository struct {
	pool *pgxpool.Pool
	ids  IDScheme
}

// NewPostgresEmailLogRepository creates a new PostgresEmailLogRepository
func NewPostgresEmailLogRepository(pool *pgxpool.Pool, ids IDScheme) *PostgresEmailLogRepository {
	return &PostgresEmailLogRepository{pool: pool, ids: ids}
}

// Create appends an email log entry
func (r *PostgresEmailLogRepository) Create(ctx context.Context, entry *domain.EmailLog) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.email.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("email_type", string(entry.Type)),
		attribute.String("booking_id", entry.BookingID),
	)

	if entry.ID == "" {
		entry.ID = r.ids.NewID()
	}
	entry.CreatedAt = utcOrNow(entry.CreatedAt)

	query := `
		INSERT INTO email (id, type, recipient, subject, booking_id, payment_reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		string(entry.Type),
		entry.To,
		entry.Subject,
		entry.BookingID,
		nullString(entry.PaymentReference),
		entry.CreatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create email log: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListByBooking returns the log entries of a booking in write order
func (r *PostgresEmailLogRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.EmailLog, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.email.list_by_booking")
	defer span.End()

	query := `
		SELECT id, type, recipient, subject, booking_id, payment_reference, created_at
		FROM email
		WHERE booking_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list email logs: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.EmailLog, error) {
		e := &domain.EmailLog{}
		var emailType string
		var paymentReference *string
		if err := row.Scan(&e.ID, &emailType, &e.To, &e.Subject, &e.BookingID, &paymentReference, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Type = domain.EmailType(emailType)
		e.PaymentReference = derefString(paymentReference)
		e.CreatedAt = e.CreatedAt.UTC()
		return e, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to scan email logs: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return entries, nil
}

// PostgresReviewRepository implements ReviewRepository using PostgreSQL
type PostgresReviewRepository struct {
	pool *pgxpool.Pool
	ids  IDScheme
}

// NewPostgresReviewRepository creates a new PostgresReviewRepository
func NewPostgresReviewRepository(pool *pgxpool.Pool, ids IDScheme) *PostgresReviewRepository {
	return &PostgresReviewRepository{pool: pool, ids: ids}
}

// Create inserts a review
func (r *PostgresReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.review.create")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_slug", review.WorkshopSlug))

	if review.ID == "" {
		review.ID = r.ids.NewID()
	}
	review.CreatedAt = utcOrNow(review.CreatedAt)

	query := `
		INSERT INTO review (id, workshop_slug, name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.WorkshopSlug,
		review.Name,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create review: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// List returns reviews newest first
func (r *PostgresReviewRepository) List(ctx context.Context, workshopSlug string, limit int) ([]*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.review.list")
	defer span.End()

	span.SetAttributes(
		attribute.String("workshop_slug", workshopSlug),
		attribute.Int("limit", limit),
	)

	if limit < 0 {
		limit = 0
	}

	query := `
		SELECT id, workshop_slug, name, rating, comment, created_at
		FROM review
		WHERE ($1 = '' OR workshop_slug = $1)
		ORDER BY created_at DESC
		LIMIT NULLIF($2, 0)
	`
	rows, err := r.pool.Query(ctx, query, workshopSlug, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Review, error) {
		rv := &domain.Review{}
		if err := row.Scan(&rv.ID, &rv.WorkshopSlug, &rv.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		rv.CreatedAt = rv.CreatedAt.UTC()
		return rv, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to scan reviews: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return reviews, nil
}

var (
	_ EmailLogRepository = (*PostgresEmailLogRepository)(nil)
	_ ReviewRepository   = (*PostgresReviewRepository)(nil)
)
