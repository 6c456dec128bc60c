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

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 6, 30, 0, 0, time.UTC)
	store := repository.NewMemoryStore()
	seeder := NewSeeder(store, func() time.Time { return now })

	result, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Workshops)
	assert.Equal(t, 36, result.Sessions)

	pottery, err := store.Workshops.GetBySlug(ctx, "pottery")
	require.NoError(t, err)
	assert.Equal(t, 2499.0, pottery.Price)
	assert.Equal(t, "HANDIQ Studio, Indiranagar", pottery.Location)

	sessions, err := store.Sessions.ListUpcoming(ctx, "pottery", now, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 9)
	first := sessions[0]
	assert.Equal(t, now.Add(24*time.Hour+10*time.Hour), first.StartTime)
	assert.Equal(t, first.StartTime.Add(pottery.Duration()), first.EndTime)
	assert.Equal(t, 10, first.Capacity)

	t.Run("second run writes nothing", func(t *testing.T) {
		result, err := seeder.Seed(ctx)
		require.NoError(t, err)
		assert.Zero(t, result.Workshops)
		assert.Zero(t, result.Sessions)

		count, err := store.Workshops.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}

func TestSeeder_RejectsInvalidWorkshops(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seeder := NewSeeder(store, nil)
	seeder.workshops = append(DefaultWorkshops(), &domain.Workshop{
		Title:           "Quick Sketching",
		Slug:            "quick-sketching",
		Price:           499.0,
		DurationMinutes: 20,
	})

	_, err := seeder.Seed(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	count, err := store.Workshops.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDefaultWorkshops(t *testing.T) {
	prices := map[string]float64{}
	for _, w := range DefaultWorkshops() {
		require.NoError(t, w.Validate())
		prices[w.Slug] = w.Price
	}
	assert.Equal(t, map[string]float64{
		"scrapbooking": 1999.0,
		"pottery":      2499.0,
		"resin-art":    2899.0,
		"embroidery":   1799.0,
	}, prices)
}
