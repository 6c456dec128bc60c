package repository

import (
	"context"

	"github.com/prohmpiriya/handiq-workshops/pkg/config"
	"github.com/prohmpiriya/handiq-workshops/pkg/database"
)

// PostgresSchema creates the tables of the relational store
var PostgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS workshop (
		id                 TEXT PRIMARY KEY,
		title              TEXT NOT NULL,
		slug               TEXT NOT NULL UNIQUE,
		description        TEXT NOT NULL DEFAULT '',
		price              DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		duration_minutes   INTEGER NOT NULL,
		location           TEXT NOT NULL DEFAULT '',
		instructor         TEXT NOT NULL DEFAULT '',
		includes           TEXT[] NOT NULL DEFAULT '{}',
		images             TEXT[] NOT NULL DEFAULT '{}',
		what_you_learn     TEXT[] NOT NULL DEFAULT '{}',
		materials_provided TEXT[] NOT NULL DEFAULT '{}',
		accent_color       TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS session (
		id            TEXT PRIMARY KEY,
		workshop_slug TEXT NOT NULL,
		start_time    TIMESTAMPTZ NOT NULL,
		end_time      TIMESTAMPTZ NOT NULL,
		capacity      INTEGER NOT NULL CHECK (capacity >= 1),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_workshop_start ON session (workshop_slug, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_session_start ON session (start_time)`,
	`CREATE TABLE IF NOT EXISTS booking (
		id                TEXT PRIMARY KEY,
		workshop_slug     TEXT NOT NULL,
		session_id        TEXT NOT NULL,
		customer_name     TEXT NOT NULL,
		customer_email    TEXT NOT NULL,
		customer_phone    TEXT,
		seats             INTEGER NOT NULL CHECK (seats BETWEEN 1 AND 10),
		amount            DOUBLE PRECISION NOT NULL,
		status            TEXT NOT NULL,
		payment_reference TEXT,
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_session_status ON booking (session_id, status)`,
	`CREATE TABLE IF NOT EXISTS email (
		id                TEXT PRIMARY KEY,
		type              TEXT NOT NULL,
		recipient         TEXT NOT NULL,
		subject           TEXT NOT NULL,
		booking_id        TEXT NOT NULL,
		payment_reference TEXT,
		created_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_email_booking ON email (booking_id)`,
	`CREATE TABLE IF NOT EXISTS review (
		id            TEXT PRIMARY KEY,
		workshop_slug TEXT NOT NULL,
		name          TEXT NOT NULL,
		rating        INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment       TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_workshop_created ON review (workshop_slug, created_at DESC)`,
}

// NewPostgresStore creates a Store backed by PostgreSQL tables. Ids are UUIDs.
func NewPostgresStore(db *database.PostgresDB) *Store {
	pool := db.Pool()
	ids := UUIDScheme{}
	return &Store{
		IDs:       ids,
		Workshops: NewPostgresWorkshopRepository(pool, ids),
		Sessions:  NewPostgresSessionRepository(pool, ids),
		Bookings:  NewPostgresBookingRepository(pool, ids),
		Emails:    NewPostgresEmailLogRepository(pool, ids),
		Reviews:   NewPostgresReviewRepository(pool, ids),
		Info:      &postgresInfo{db: db},
	}
}

type postgresInfo struct {
	db *database.PostgresDB
}

func (i *postgresInfo) Driver() string { return config.StoreDriverPostgres }

func (i *postgresInfo) Ping(ctx context.Context) error { return i.db.Ping(ctx) }

func (i *postgresInfo) Collections(ctx context.Context) ([]string, error) {
	return i.db.TableNames(ctx)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
