package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/repository"
	"github.com/prohmpiriya/handiq-workshops/pkg/logger"
	"go.uber.org/zap"
)

const (
	studioLocation  = "HANDIQ Studio, Indiranagar"
	seedSessionDays = 9
	seedStartOffset = 10 * time.Hour
)

// DefaultWorkshops is the catalog written into an empty store
func DefaultWorkshops() []*domain.Workshop {
	return []*domain.Workshop{
		{
			Title:             "Scrapbooking Workshop",
			Slug:              "scrapbooking",
			Description:       "Create calming, memory-filled pages with premium papers and embellishments.",
			Price:             1999.0,
			DurationMinutes:   120,
			Location:          studioLocation,
			Instructor:        "Aisha Kapoor",
			Includes:          []string{"All materials", "Tea & snacks", "Take-home kit"},
			Images:            []string{"https://images.unsplash.com/photo-1519681393784-d120267933ba"},
			WhatYouLearn:      []string{"Layering", "Composition", "Binding"},
			MaterialsProvided: []string{"Papers", "Stickers", "Glue", "Cutters"},
			AccentColor:       "#B58E6D",
		},
		{
			Title:             "Pottery Workshop",
			Slug:              "pottery",
			Description:       "Mindful clay play: hand-building, wheel basics, glazing.",
			Price:             2499.0,
			DurationMinutes:   150,
			Location:          studioLocation,
			Instructor:        "Raghav Menon",
			Includes:          []string{"Clay & tools", "Firing & glazing", "Refreshments"},
			Images:            []string{"https://images.unsplash.com/photo-1513342791620-8d83f05df3fc"},
			WhatYouLearn:      []string{"Coiling", "Pinching", "Wheel basics"},
			MaterialsProvided: []string{"Clay", "Tools", "Apron"},
			AccentColor:       "#3F6E73",
		},
		{
			Title:             "Resin Art Workshop",
			Slug:              "resin-art",
			Description:       "Create glossy, ocean-like pours with resin and pigments.",
			Price:             2899.0,
			DurationMinutes:   120,
			Location:          studioLocation,
			Instructor:        "Naina Shah",
			Includes:          []string{"Resin & pigments", "Safety gear", "Coasters to take home"},
			Images:            []string{"https://images.unsplash.com/photo-1604076936065-c6e5f0505f01"},
			WhatYouLearn:      []string{"Mixing", "Pouring", "Finishing"},
			MaterialsProvided: []string{"Resin", "Pigments", "Gloves", "Masks"},
			AccentColor:       "#F5B21A",
		},
		{
			Title:             "Embroidery Workshop",
			Slug:              "embroidery",
			Description:       "Slow-stitch your calm with modern embroidery techniques.",
			Price:             1799.0,
			DurationMinutes:   120,
			Location:          studioLocation,
			Instructor:        "Meera Iyer",
			Includes:          []string{"Hoop, needles, threads", "Design templates", "Snacks"},
			Images:            []string{"https://images.unsplash.com/photo-1600431521340-491eca880813"},
			WhatYouLearn:      []string{"Backstitch", "Satin stitch", "French knots"},
			MaterialsProvided: []string{"Hoop", "Fabric", "Threads", "Needles"},
			AccentColor:       "#E8DCCF",
		},
	}
}

// SeedResult reports what a seed run wrote
type SeedResult struct {
	Workshops int
	Sessions  int
}

// Seeder fills an empty store with the default catalog and rolling sessions
type Seeder struct {
	store     *repository.Store
	now       func() time.Time
	workshops []*domain.Workshop
}

// NewSeeder creates a seeder; a nil clock uses time.Now
func NewSeeder(store *repository.Store, now func() time.Time) *Seeder {
	if now == nil {
		now = time.Now
	}
	return &Seeder{store: store, now: now, workshops: DefaultWorkshops()}
}

// Seed writes workshops when none exist and sessions on days 1..9 at +10h when no
// session exists. Each part is skipped independently.
func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}
	workshops := s.workshops

	for _, w := range workshops {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("invalid seed workshop %s: %w", w.Slug, err)
		}
	}

	count, err := s.store.Workshops.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count workshops: %w", err)
	}
	if count == 0 {
		for _, w := range workshops {
			if err := s.store.Workshops.Create(ctx, w); err != nil {
				return nil, fmt.Errorf("failed to seed workshop %s: %w", w.Slug, err)
			}
			result.Workshops++
		}
	}

	existing, err := s.store.Sessions.ListUpcoming(ctx, "", time.Time{}, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to check sessions: %w", err)
	}
	if len(existing) == 0 {
		now := s.now().UTC()
		for _, w := range workshops {
			for d := 1; d <= seedSessionDays; d++ {
				start := now.Add(time.Duration(d)*24*time.Hour + seedStartOffset)
				session := domain.NewSession(w, start, domain.DefaultSessionCapacity)
				if err := session.Validate(); err != nil {
					return nil, fmt.Errorf("invalid seed session for %s: %w", w.Slug, err)
				}
				if err := s.store.Sessions.Create(ctx, session); err != nil {
					return nil, fmt.Errorf("failed to seed session for %s: %w", w.Slug, err)
				}
				result.Sessions++
			}
		}
	}

	logger.Get().Info("seed completed",
		zap.Int("workshops", result.Workshops),
		zap.Int("sessions", result.Sessions),
	)
	return result, nil
}
