package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/repository"
)

func seededStore(t *testing.T, now time.Time) *repository.Store {
	t.Helper()
	store := repository.NewMemoryStore()
	_, err := NewSeeder(store, func() time.Time { return now }).Seed(context.Background())
	require.NoError(t, err)
	return store
}

func TestCatalogService_ListWorkshops(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty list", func(t *testing.T) {
		svc := NewCatalogService(repository.NewMemoryStore(), nil, nil)
		workshops, err := svc.ListWorkshops(ctx)
		require.NoError(t, err)
		assert.NotNil(t, workshops)
		assert.Empty(t, workshops)
	})

	t.Run("seeded catalog", func(t *testing.T) {
		svc := NewCatalogService(seededStore(t, time.Now()), nil, nil)
		workshops, err := svc.ListWorkshops(ctx)
		require.NoError(t, err)
		assert.Len(t, workshops, 4)
	})

	t.Run("shared query ignores caller cancellation", func(t *testing.T) {
		store := seededStore(t, time.Now())
		store.Workshops = cancelAwareWorkshops{store.Workshops}
		svc := NewCatalogService(store, nil, nil)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		workshops, err := svc.ListWorkshops(cancelled)
		require.NoError(t, err)
		assert.Len(t, workshops, 4)
	})
}

// cancelAwareWorkshops fails List when its context is done
type cancelAwareWorkshops struct {
	repository.WorkshopRepository
}

func (r cancelAwareWorkshops) List(ctx context.Context) ([]*domain.Workshop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.WorkshopRepository.List(ctx)
}

func TestCatalogService_GetWorkshop(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	store := seededStore(t, now)

	t.Run("upcoming sessions earliest first and limited", func(t *testing.T) {
		svc := NewCatalogService(store, nil, &CatalogServiceConfig{
			UpcomingLimit: 5,
			Now:           func() time.Time { return now },
		})
		resp, err := svc.GetWorkshop(ctx, "pottery")
		require.NoError(t, err)
		assert.Equal(t, "Pottery Workshop", resp.Workshop.Title)
		require.Len(t, resp.Sessions, 5)
		for i := 1; i < len(resp.Sessions); i++ {
			assert.True(t, resp.Sessions[i-1].StartTime.Before(resp.Sessions[i].StartTime))
		}
		for _, s := range resp.Sessions {
			assert.Equal(t, "pottery", s.WorkshopSlug)
		}
	})

	t.Run("default limit", func(t *testing.T) {
		svc := NewCatalogService(store, nil, &CatalogServiceConfig{Now: func() time.Time { return now }})
		resp, err := svc.GetWorkshop(ctx, "embroidery")
		require.NoError(t, err)
		assert.Len(t, resp.Sessions, 9)
	})

	t.Run("past sessions are hidden", func(t *testing.T) {
		svc := NewCatalogService(store, nil, &CatalogServiceConfig{
			Now: func() time.Time { return now.Add(5 * 24 * time.Hour) },
		})
		resp, err := svc.GetWorkshop(ctx, "pottery")
		require.NoError(t, err)
		assert.Len(t, resp.Sessions, 5)
	})

	t.Run("unknown workshop", func(t *testing.T) {
		svc := NewCatalogService(store, nil, nil)
		_, err := svc.GetWorkshop(ctx, "knitting")
		assert.ErrorIs(t, err, domain.ErrWorkshopNotFound)
	})
}

func TestCatalogService_ListSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	svc := NewCatalogService(seededStore(t, now), nil, &CatalogServiceConfig{Now: func() time.Time { return now }})

	sessions, err := svc.ListSessions(ctx, "resin-art")
	require.NoError(t, err)
	assert.Len(t, sessions, 9)

	sessions, err = svc.ListSessions(ctx, "knitting")
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestCatalogService_NextSession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("none", func(t *testing.T) {
		svc := NewCatalogService(repository.NewMemoryStore(), nil, nil)
		next, err := svc.NextSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("title and floored availability", func(t *testing.T) {
		store := repository.NewMemoryStore()
		w := &domain.Workshop{Title: "Scrapbooking Workshop", Slug: "scrapbooking", Price: 1999.0, DurationMinutes: 120}
		require.NoError(t, store.Workshops.Create(ctx, w))
		first := domain.NewSession(w, now.Add(2*time.Hour), 2)
		require.NoError(t, store.Sessions.Create(ctx, first))
		require.NoError(t, store.Sessions.Create(ctx, domain.NewSession(w, now.Add(26*time.Hour), 10)))

		// overbooked rows as left behind by an unguarded race
		for i := 0; i < 3; i++ {
			b := domain.NewBooking(w, first, 1, domain.Customer{Name: "x", Email: "x@example.com"})
			require.NoError(t, store.Bookings.Create(ctx, b))
		}

		svc := NewCatalogService(store, nil, &CatalogServiceConfig{Now: func() time.Time { return now }})
		next, err := svc.NextSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, first.ID, next.ID)
		assert.Equal(t, "Scrapbooking Workshop", next.WorkshopTitle)
		assert.Equal(t, 0, next.AvailableSeats)
	})

	t.Run("title falls back to slug", func(t *testing.T) {
		store := repository.NewMemoryStore()
		orphan := &domain.Workshop{Slug: "ghost", DurationMinutes: 60}
		require.NoError(t, store.Sessions.Create(ctx, domain.NewSession(orphan, now.Add(time.Hour), 4)))

		svc := NewCatalogService(store, nil, &CatalogServiceConfig{Now: func() time.Time { return now }})
		next, err := svc.NextSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, "ghost", next.WorkshopTitle)
		assert.Equal(t, 4, next.AvailableSeats)
	})
}
