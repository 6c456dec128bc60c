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

// CatalogHandler serves workshops and sessions
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListWorkshops handles GET /api/workshops
func (h *CatalogHandler) ListWorkshops(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.catalog.list_workshops")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	workshops, err := h.catalogService.ListWorkshops(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("count", len(workshops)))
	span.SetStatus(codes.Ok, "")
	response.Items(c, workshops)
}

// GetWorkshop handles GET /api/workshops/:slug
func (h *CatalogHandler) GetWorkshop(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.catalog.get_workshop")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	slug := c.Param("slug")
	span.SetAttributes(attribute.String("workshop_slug", slug))

	result, err := h.catalogService.GetWorkshop(ctx, slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.OK(c, result)
}

// NextSession handles GET /api/sessions/next
func (h *CatalogHandler) NextSession(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.catalog.next_session")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	next, err := h.catalogService.NextSession(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Bool("found", next != nil))
	span.SetStatus(codes.Ok, "")
	response.Item(c, next)
}

// ListSessions handles GET /api/sessions?workshop=
func (h *CatalogHandler) ListSessions(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.catalog.list_sessions")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var query dto.SessionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		bindError(c, err)
		return
	}
	span.SetAttributes(attribute.String("workshop_slug", query.Workshop))

	sessions, err := h.catalogService.ListSessions(ctx, query.Workshop)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Items(c, sessions)
}
