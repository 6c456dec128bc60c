package service

import (
	"context"
	"errors"
	"time"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/dto"
	"github.com/prohmpiriya/handiq-workshops/internal/repository"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
)

// CatalogService defines read access to workshops and their sessions
type CatalogService interface {
	ListWorkshops(ctx context.Context) ([]*domain.Workshop, error)

	// GetWorkshop returns a workshop with its next sessions
	GetWorkshop(ctx context.Context, slug string) (*dto.WorkshopDetailResponse, error)

	// ListSessions returns every upcoming session of a workshop
	ListSessions(ctx context.Context, workshopSlug string) ([]*domain.Session, error)

	// NextSession returns the next upcoming session of any workshop, nil when none
	NextSession(ctx context.Context) (*dto.NextSessionResponse, error)
}

type catalogService struct {
	workshopRepo  repository.WorkshopRepository
	sessionRepo   repository.SessionRepository
	availability  AvailabilityCalculator
	upcomingLimit int
	now           func() time.Time

	// group collapses concurrent identical catalog reads into one store query
	group singleflight.Group
}

// CatalogServiceConfig contains configuration for catalog service
type CatalogServiceConfig struct {
	// UpcomingLimit caps the sessions embedded in a workshop detail
	UpcomingLimit int
	Now           func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *repository.Store, availability AvailabilityCalculator, cfg *CatalogServiceConfig) CatalogService {
	limit := 10
	now := time.Now
	if cfg != nil {
		if cfg.UpcomingLimit > 0 {
			limit = cfg.UpcomingLimit
		}
		if cfg.Now != nil {
			now = cfg.Now
		}
	}
	if availability == nil {
		availability = NewAvailabilityCalculator(store.Sessions, store.Bookings)
	}
	return &catalogService{
		workshopRepo:  store.Workshops,
		sessionRepo:   store.Sessions,
		availability:  availability,
		upcomingLimit: limit,
		now:           now,
	}
}

func (s *catalogService) ListWorkshops(ctx context.Context) ([]*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.list_workshops")
	defer span.End()

	// the shared query must outlive a caller that gives up
	queryCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do("workshops", func() (interface{}, error) {
		return s.workshopRepo.List(queryCtx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	workshops := v.([]*domain.Workshop)
	if workshops == nil {
		workshops = []*domain.Workshop{}
	}
	span.SetAttributes(attribute.Bool("shared", shared))
	span.SetStatus(codes.Ok, "")
	return workshops, nil
}

func (s *catalogService) GetWorkshop(ctx context.Context, slug string) (*dto.WorkshopDetailResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.get_workshop")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_slug", slug))

	workshop, err := s.workshopRepo.GetBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sessions, err := s.sessionRepo.ListUpcoming(ctx, slug, s.now(), s.upcomingLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.WorkshopDetailResponse{
		Workshop: workshop,
		Sessions: nonNilSessions(sessions),
	}, nil
}

func (s *catalogService) ListSessions(ctx context.Context, workshopSlug string) ([]*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.list_sessions")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_slug", workshopSlug))

	sessions, err := s.sessionRepo.ListUpcoming(ctx, workshopSlug, s.now(), 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return nonNilSessions(sessions), nil
}

func (s *catalogService) NextSession(ctx context.Context) (*dto.NextSessionResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.next_session")
	defer span.End()

	sessions, err := s.sessionRepo.ListUpcoming(ctx, "", s.now(), 1)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(sessions) == 0 {
		span.SetStatus(codes.Ok, "none")
		return nil, nil
	}
	session := sessions[0]

	title := session.WorkshopSlug
	workshop, err := s.workshopRepo.GetBySlug(ctx, session.WorkshopSlug)
	switch {
	case err == nil:
		title = workshop.Title
	case !errors.Is(err, domain.ErrWorkshopNotFound):
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	available, err := s.availability.AvailableFor(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("session_id", session.ID))
	span.SetStatus(codes.Ok, "")
	return &dto.NextSessionResponse{
		Session:        session,
		WorkshopTitle:  title,
		AvailableSeats: DisplayAvailable(available),
	}, nil
}

func nonNilSessions(sessions []*domain.Session) []*domain.Session {
	if sessions == nil {
		return []*domain.Session{}
	}
	return sessions
}
