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

// AdminHandler handles admin HTTP requests
type AdminHandler struct {
	reminderService service.ReminderService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reminderService service.ReminderService) *AdminHandler {
	return &AdminHandler{reminderService: reminderService}
}

// SendReminders handles POST /admin/send-reminders
// Every call writes the reminders again
func (h *AdminHandler) SendReminders(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.send_reminders")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	count, err := h.reminderService.SendReminders(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("reminders_created", count))
	span.SetStatus(codes.Ok, "")
	response.OK(c, dto.SendRemindersResponse{RemindersCreated: count})
}
