package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/metrics"
	"github.com/prohmpiriya/handiq-workshops/pkg/middleware"
	"github.com/prohmpiriya/handiq-workshops/pkg/response"
	"go.uber.org/zap"
)

// handleError converts domain errors to HTTP responses
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		response.Error(c, http.StatusNotFound, "INVALID_ID", "Invalid id", "")
	case errors.Is(err, domain.ErrWorkshopNotFound):
		response.Error(c, http.StatusNotFound, "WORKSHOP_NOT_FOUND", "Workshop not found", "")
	case errors.Is(err, domain.ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found", "")
	case errors.Is(err, domain.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found", "")
	case errors.Is(err, domain.ErrInvalidSession):
		response.Error(c, http.StatusBadRequest, "INVALID_SESSION", "Invalid session", "")
	case errors.Is(err, domain.ErrInvalidRating):
		response.Error(c, http.StatusBadRequest, "INVALID_RATING", "Rating must be 1-5", "")
	case domain.IsCapacityError(err):
		response.Error(c, http.StatusBadRequest, "CAPACITY_EXCEEDED", err.Error(), "")
	case domain.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "")
	case domain.IsConflictError(err):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error(), "")
	default:
		metrics.RecordError(c.Request.Context(), "internal", c.FullPath())
		middleware.RequestLogger(c).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		response.InternalError(c, err)
	}
}

// bindError answers a request whose body or query failed binding
func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request", err.Error())
}
