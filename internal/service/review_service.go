package service

import (
	"context"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/dto"
	"github.com/prohmpiriya/handiq-workshops/internal/metrics"
	"github.com/prohmpiriya/handiq-workshops/internal/repository"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultReviewLimit is the number of reviews returned when no limit is given
const DefaultReviewLimit = 10

// ReviewService defines workshop reviews
type ReviewService interface {
	CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error)

	// ListReviews returns newest reviews first; an empty slug lists every workshop
	ListReviews(ctx context.Context, workshopSlug string, limit int) ([]*domain.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
}

// NewReviewService creates a new review service
func NewReviewService(reviewRepo repository.ReviewRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo}
}

func (s *reviewService) CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.create_review")
	defer span.End()

	span.SetAttributes(
		attribute.String("workshop_slug", req.WorkshopSlug),
		attribute.Int("rating", req.Rating),
	)

	review := &domain.Review{
		WorkshopSlug: req.WorkshopSlug,
		Name:         req.Name,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := review.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.RecordReview(ctx, review.WorkshopSlug, review.Rating)

	span.SetStatus(codes.Ok, "")
	return &dto.CreateReviewResponse{ID: review.ID}, nil
}

func (s *reviewService) ListReviews(ctx context.Context, workshopSlug string, limit int) ([]*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.list_reviews")
	defer span.End()

	if limit <= 0 {
		limit = DefaultReviewLimit
	}

	reviews, err := s.reviewRepo.List(ctx, workshopSlug, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if reviews == nil {
		reviews = []*domain.Review{}
	}
	span.SetStatus(codes.Ok, "")
	return reviews, nil
}
