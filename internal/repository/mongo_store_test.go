package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/pkg/mongodb"
)

// getMongoStore connects to TEST_MONGODB_URI using a throwaway database
func getMongoStore(t *testing.T) *Store {
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("Skipping MongoDB integration test. Set TEST_MONGODB_URI to run")
	}

	ctx := context.Background()
	cfg := mongodb.DefaultConfig()
	cfg.URI = uri
	cfg.Database = fmt.Sprintf("handiq_test_%d", time.Now().UnixNano())
	cfg.MaxRetries = 1

	client, err := mongodb.NewClient(ctx, cfg)
	require.NoError(t, err, "failed to connect to MongoDB")
	t.Cleanup(func() {
		_ = client.Database().Drop(context.Background())
		_ = client.Close(context.Background())
	})

	require.NoError(t, EnsureMongoIndexes(ctx, client))
	return NewMongoStore(client)
}

func TestMongoStore_BookingLifecycle(t *testing.T) {
	store := getMongoStore(t)
	ctx := context.Background()

	w := &domain.Workshop{Title: "Resin Art", Slug: "resin-art", Price: 2899.0, DurationMinutes: 150}
	require.NoError(t, store.Workshops.Create(ctx, w))
	assert.ErrorIs(t, store.Workshops.Create(ctx, &domain.Workshop{Title: "x", Slug: "resin-art"}), domain.ErrDuplicateSlug)

	s := domain.NewSession(w, time.Now().Add(6*time.Hour), 10)
	require.NoError(t, store.Sessions.Create(ctx, s))

	got, err := store.Sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "resin-art", got.WorkshopSlug)

	_, err = store.Sessions.GetByID(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	customer := domain.Customer{Name: "Kiran", Email: "kiran@example.com"}
	first := domain.NewBooking(w, s, 4, customer)
	require.NoError(t, store.Bookings.Create(ctx, first))
	second := domain.NewBooking(w, s, 3, customer)
	require.NoError(t, store.Bookings.Create(ctx, second))

	seats, err := store.Bookings.SumActiveSeats(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, seats)

	confirmed, err := store.Bookings.Confirm(ctx, first.ID, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)

	list, err := store.Bookings.ListConfirmedBySession(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	window, err := store.Sessions.ListStartingBetween(ctx, time.Now(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, window, 1)

	names, err := store.Info.Collections(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, CollectionBookings)
}

func TestMongoStore_EmailsAndReviews(t *testing.T) {
	store := getMongoStore(t)
	ctx := context.Background()

	bookingID := store.IDs.NewID()
	require.NoError(t, store.Emails.Create(ctx, &domain.EmailLog{Type: domain.EmailTypeBookingCreated, To: "a@example.com", BookingID: bookingID}))
	require.NoError(t, store.Emails.Create(ctx, &domain.EmailLog{Type: domain.EmailTypeBookingConfirmed, To: "a@example.com", BookingID: bookingID}))

	entries, err := store.Emails.ListByBooking(ctx, bookingID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EmailTypeBookingCreated, entries[0].Type)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		rv := &domain.Review{WorkshopSlug: "pottery", Name: "n", Rating: i + 1, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.Reviews.Create(ctx, rv))
	}
	reviews, err := store.Reviews.List(ctx, "pottery", 2)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 3, reviews[0].Rating)
}
