package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const uniqueViolation = "23505"

const workshopColumns = `
	id, title, slug, description, price, duration_minutes, location, instructor,
	includes, images, what_you_learn, materials_provided, accent_color, created_at`

// PostgresWorkshopRepository implements WorkshopRepository using PostgreSQL
type PostgresWorkshopRepository struct {
	pool *pgxpool.Pool
	ids  IDScheme
}

// NewPostgresWorkshopRepository creates a new PostgresWorkshopRepository
func NewPostgresWorkshopRepository(pool *pgxpool.Pool, ids IDScheme) *PostgresWorkshopRepository {
	return &PostgresWorkshopRepository{pool: pool, ids: ids}
}

// Create inserts a workshop
func (r *PostgresWorkshopRepository) Create(ctx context.Context, workshop *domain.Workshop) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.create")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_slug", workshop.Slug))

	if workshop.ID == "" {
		workshop.ID = r.ids.NewID()
	}
	workshop.CreatedAt = utcOrNow(workshop.CreatedAt)

	query := `
		INSERT INTO workshop (` + workshopColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		workshop.ID,
		workshop.Title,
		workshop.Slug,
		workshop.Description,
		workshop.Price,
		workshop.DurationMinutes,
		workshop.Location,
		workshop.Instructor,
		nonNilStrings(workshop.Includes),
		nonNilStrings(workshop.Images),
		nonNilStrings(workshop.WhatYouLearn),
		nonNilStrings(workshop.MaterialsProvided),
		nullString(workshop.AccentColor),
		workshop.CreatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create workshop: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// List returns every workshop
func (r *PostgresWorkshopRepository) List(ctx context.Context) ([]*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.list")
	defer span.End()

	rows, err := r.pool.Query(ctx, `SELECT `+workshopColumns+` FROM workshop ORDER BY created_at ASC, id ASC`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list workshops: %w", err)
	}
	defer rows.Close()

	var workshops []*domain.Workshop
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan workshop: %w", err)
		}
		workshops = append(workshops, w)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating workshops: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return workshops, nil
}

// GetBySlug retrieves a workshop by slug
func (r *PostgresWorkshopRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.get_by_slug")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_slug", slug))

	w, err := scanWorkshop(r.pool.QueryRow(ctx, `SELECT `+workshopColumns+` FROM workshop WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrWorkshopNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get workshop: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return w, nil
}

// Count returns the number of workshops
func (r *PostgresWorkshopRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.count")
	defer span.End()

	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM workshop`).Scan(&n); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to count workshops: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return n, nil
}

func scanWorkshop(row pgx.Row) (*domain.Workshop, error) {
	w := &domain.Workshop{}
	var accentColor *string

	err := row.Scan(
		&w.ID,
		&w.Title,
		&w.Slug,
		&w.Description,
		&w.Price,
		&w.DurationMinutes,
		&w.Location,
		&w.Instructor,
		&w.Includes,
		&w.Images,
		&w.WhatYouLearn,
		&w.MaterialsProvided,
		&accentColor,
		&w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.AccentColor = derefString(accentColor)
	w.CreatedAt = w.CreatedAt.UTC()
	return w, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

const sessionColumns = `id, workshop_slug, start_time, end_time, capacity, created_at`

// PostgresSessionRepository implements SessionRepository using PostgreSQL
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
	ids  IDScheme
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository
func NewPostgresSessionRepository(pool *pgxpool.Pool, ids IDScheme) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool, ids: ids}
}

// Create inserts a session
func (r *PostgresSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.create")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_slug", session.WorkshopSlug))

	if session.ID == "" {
		session.ID = r.ids.NewID()
	}
	session.CreatedAt = utcOrNow(session.CreatedAt)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO session (`+sessionColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		session.ID,
		session.WorkshopSlug,
		session.StartTime.UTC(),
		session.EndTime.UTC(),
		session.Capacity,
		session.CreatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create session: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a session by its ID
func (r *PostgresSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", id))

	if !r.ids.Valid(id) {
		span.SetStatus(codes.Error, "not found")
		return nil, domain.ErrSessionNotFound
	}

	s, err := scanSession(r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM session WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrSessionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return s, nil
}

// ListUpcoming returns sessions starting at or after from, earliest first
func (r *PostgresSessionRepository) ListUpcoming(ctx context.Context, workshopSlug string, from time.Time, limit int) ([]*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.list_upcoming")
	defer span.End()

	span.SetAttributes(
		attribute.String("workshop_slug", workshopSlug),
		attribute.Int("limit", limit),
	)

	// NULLIF turns an empty slug into "any workshop"; LIMIT NULL means no limit
	query := `
		SELECT ` + sessionColumns + `
		FROM session
		WHERE start_time >= $1 AND ($2 = '' OR workshop_slug = $2)
		ORDER BY start_time ASC, id ASC
		LIMIT NULLIF($3, 0)
	`
	if limit < 0 {
		limit = 0
	}

	sessions, err := r.query(ctx, query, from.UTC(), workshopSlug, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(sessions)))
	span.SetStatus(codes.Ok, "")
	return sessions, nil
}

// ListStartingBetween returns sessions with from <= start_time <= to
func (r *PostgresSessionRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.list_starting_between")
	defer span.End()

	query := `
		SELECT ` + sessionColumns + `
		FROM session
		WHERE start_time BETWEEN $1 AND $2
		ORDER BY start_time ASC
	`

	sessions, err := r.query(ctx, query, from.UTC(), to.UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(sessions)))
	span.SetStatus(codes.Ok, "")
	return sessions, nil
}

func (r *PostgresSessionRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	s := &domain.Session{}
	if err := row.Scan(&s.ID, &s.WorkshopSlug, &s.StartTime, &s.EndTime, &s.Capacity, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.StartTime = s.StartTime.UTC()
	s.EndTime = s.EndTime.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

var (
	_ WorkshopRepository = (*PostgresWorkshopRepository)(nil)
	_ SessionRepository  = (*PostgresSessionRepository)(nil)
)
