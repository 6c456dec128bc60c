package repository

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/pkg/database"
)

// skipIfNoIntegration skips the test if INTEGRATION_TEST env var is not set
func skipIfNoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getPostgresStore connects to the test database, applies the schema and clears it
func getPostgresStore(t *testing.T) *Store {
	skipIfNoIntegration(t)

	port, _ := strconv.Atoi(envOr("TEST_POSTGRES_PORT", "5432"))
	cfg := database.DefaultPostgresConfig()
	cfg.Host = envOr("TEST_POSTGRES_HOST", "localhost")
	cfg.Port = port
	cfg.User = envOr("TEST_POSTGRES_USER", "postgres")
	cfg.Password = envOr("TEST_POSTGRES_PASSWORD", "postgres")
	cfg.Database = envOr("TEST_POSTGRES_DB", "handiq_test")
	cfg.MaxRetries = 1

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg)
	require.NoError(t, err, "failed to connect to PostgreSQL")
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx, PostgresSchema...))
	cleanupTestData(t, db)

	return NewPostgresStore(db)
}

func cleanupTestData(t *testing.T, db *database.PostgresDB) {
	ctx := context.Background()
	for _, table := range []string{"email", "review", "booking", "session", "workshop"} {
		if _, err := db.Pool().Exec(ctx, "DELETE FROM "+table); err != nil {
			t.Logf("Warning: failed to clean up %s: %v", table, err)
		}
	}
}

func createTestCatalog(t *testing.T, store *Store) (*domain.Workshop, *domain.Session) {
	t.Helper()
	ctx := context.Background()

	w := &domain.Workshop{
		Title:           "Pottery Wheel Basics",
		Slug:            fmt.Sprintf("pottery-%d", time.Now().UnixNano()),
		Price:           2499.0,
		DurationMinutes: 150,
		Includes:        []string{"Clay", "Glazing"},
	}
	require.NoError(t, store.Workshops.Create(ctx, w))

	s := domain.NewSession(w, time.Now().Add(12*time.Hour), 10)
	require.NoError(t, store.Sessions.Create(ctx, s))
	return w, s
}

func TestPostgresBookingRepository_CreateAndGet(t *testing.T) {
	store := getPostgresStore(t)
	ctx := context.Background()
	w, s := createTestCatalog(t, store)

	booking := domain.NewBooking(w, s, 2, domain.Customer{Name: "Asha", Email: "asha@example.com"})
	require.NoError(t, store.Bookings.Create(ctx, booking))
	assert.True(t, store.IDs.Valid(booking.ID))

	retrieved, err := store.Bookings.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.Seats, retrieved.Seats)
	assert.Equal(t, 4998.0, retrieved.Amount)
	assert.Equal(t, domain.BookingStatusPendingPayment, retrieved.Status)
	assert.Empty(t, retrieved.CustomerPhone)
}

func TestPostgresBookingRepository_GetByID_NotFound(t *testing.T) {
	store := getPostgresStore(t)
	ctx := context.Background()

	_, err := store.Bookings.GetByID(ctx, store.IDs.NewID())
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	_, err = store.Bookings.GetByID(ctx, "malformed")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestPostgresBookingRepository_SumActiveSeats(t *testing.T) {
	store := getPostgresStore(t)
	ctx := context.Background()
	w, s := createTestCatalog(t, store)
	customer := domain.Customer{Name: "Ravi", Email: "ravi@example.com"}

	for _, seats := range []int{3, 4} {
		require.NoError(t, store.Bookings.Create(ctx, domain.NewBooking(w, s, seats, customer)))
	}
	cancelled := domain.NewBooking(w, s, 2, customer)
	cancelled.Status = domain.BookingStatusCancelled
	require.NoError(t, store.Bookings.Create(ctx, cancelled))

	total, err := store.Bookings.SumActiveSeats(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	empty, err := store.Bookings.SumActiveSeats(ctx, store.IDs.NewID())
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestPostgresBookingRepository_Confirm(t *testing.T) {
	store := getPostgresStore(t)
	ctx := context.Background()
	w, s := createTestCatalog(t, store)

	booking := domain.NewBooking(w, s, 1, domain.Customer{Name: "Meera", Email: "meera@example.com"})
	booking.Status = domain.BookingStatusFailed
	require.NoError(t, store.Bookings.Create(ctx, booking))

	confirmed, err := store.Bookings.Confirm(ctx, booking.ID, "pay_abc")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)
	assert.Equal(t, "pay_abc", confirmed.PaymentReference)

	list, err := store.Bookings.ListConfirmedBySession(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = store.Bookings.Confirm(ctx, store.IDs.NewID(), "pay_abc")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestPostgresSessionRepository_ListUpcoming(t *testing.T) {
	store := getPostgresStore(t)
	ctx := context.Background()
	w, first := createTestCatalog(t, store)

	later := domain.NewSession(w, first.StartTime.Add(24*time.Hour), 10)
	require.NoError(t, store.Sessions.Create(ctx, later))

	sessions, err := store.Sessions.ListUpcoming(ctx, w.Slug, time.Now(), 0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID)

	limited, err := store.Sessions.ListUpcoming(ctx, "", time.Now(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	window, err := store.Sessions.ListStartingBetween(ctx, time.Now(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, window, 1)
}

func TestPostgresWorkshopRepository_DuplicateSlug(t *testing.T) {
	store := getPostgresStore(t)
	ctx := context.Background()
	w, _ := createTestCatalog(t, store)

	err := store.Workshops.Create(ctx, &domain.Workshop{Title: "Copy", Slug: w.Slug, DurationMinutes: 60})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)

	got, err := store.Workshops.GetBySlug(ctx, w.Slug)
	require.NoError(t, err)
	assert.Equal(t, []string{"Clay", "Glazing"}, got.Includes)
}

func TestPostgresReviewRepository_List(t *testing.T) {
	store := getPostgresStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		rv := &domain.Review{WorkshopSlug: "pottery", Name: "n", Rating: i + 3, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.Reviews.Create(ctx, rv))
	}

	reviews, err := store.Reviews.List(ctx, "pottery", 2)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 5, reviews[0].Rating)
}
