package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/wayfare/wayfare-backend/internal/service"
)

// AdminHandler handles admin dashboard HTTP requests
type AdminHandler struct {
	eventService *service.EventService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(eventService *service.EventService) *AdminHandler {
	return &AdminHandler{eventService: eventService}
}

// GetStatistics returns platform-wide aggregate counters
// @Summary Get statistics
// @Tags admin
// @Produce json
// @Success 200 {object} domain.Statistics
// @Failure 500 {object} ProblemDetails
// @Router /admin/statistics [get]
func (h *AdminHandler) GetStatistics(c echo.Context) error {
	stats, err := h.eventService.GetStatistics()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute statistics")
		return NewInternalError(c, "Failed to compute statistics")
	}
	return c.JSON(http.StatusOK, stats)
}
