package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/handiq-workshops/internal/dto"
	"github.com/prohmpiriya/handiq-workshops/internal/service"
	"github.com/prohmpiriya/handiq-workshops/pkg/response"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ReviewHandler handles workshop reviews
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ListReviews handles GET /api/reviews?workshop_slug=&limit=
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.review.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var query dto.ListReviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		bindError(c, err)
		return
	}

	reviews, err := h.reviewService.ListReviews(ctx, query.WorkshopSlug, query.LimitOrDefault())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("count", len(reviews)))
	span.SetStatus(codes.Ok, "")
	response.Items(c, reviews)
}

// CreateReview handles POST /api/reviews
// Fields are read from a JSON body, or from form/query parameters otherwise
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.review.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		bindError(c, err)
		return
	}
	span.SetAttributes(attribute.String("workshop_slug", req.WorkshopSlug))

	result, err := h.reviewService.CreateReview(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}
