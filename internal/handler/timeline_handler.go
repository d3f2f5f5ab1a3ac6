package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/middleware"
	"github.com/wayfare/wayfare-backend/internal/service"
)

// TimelineHandler handles timeline HTTP requests
type TimelineHandler struct {
	timelineService *service.TimelineService
}

// NewTimelineHandler creates a new TimelineHandler
func NewTimelineHandler(timelineService *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{timelineService: timelineService}
}

// CreateItemRequest represents the JSON request for creating a timeline item
type CreateItemRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Order       *int32     `json:"order,omitempty"`
	Color       *string    `json:"color,omitempty"`
}

// ReorderItemsRequest represents the JSON request for reordering timeline items
type ReorderItemsRequest struct {
	Items []domain.ItemOrder `json:"items"`
}

// GetTimeline retrieves an event's timeline, creating it on first access
// @Summary Get event timeline
// @Tags timeline
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} domain.Timeline
// @Failure 403 {object} ProblemDetails
// @Router /events/{id}/timeline [get]
func (h *TimelineHandler) GetTimeline(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	timeline, err := h.timelineService.GetTimeline(eventID, userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, timeline)
}

// CreateItem adds an item to an event's timeline
// @Summary Create timeline item
// @Tags timeline
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body CreateItemRequest true "Item details"
// @Success 201 {object} domain.TimelineItem
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /events/{id}/timeline/items [post]
func (h *TimelineHandler) CreateItem(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Title == "" {
		return NewValidationError(c, "Title is required", []ValidationError{
			{Field: "title", Message: "required"},
		})
	}

	item, err := h.timelineService.CreateItem(eventID, userID, service.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Order:       req.Order,
		Color:       req.Color,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem updates a timeline item
// @Summary Update timeline item
// @Tags timeline
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param itemId path string true "Item ID"
// @Param request body domain.TimelineItemUpdate true "Fields to update"
// @Success 200 {object} domain.TimelineItem
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /events/{id}/timeline/items/{itemId} [put]
func (h *TimelineHandler) UpdateItem(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	var update domain.TimelineItemUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	// An explicit null endTime clears it
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		if v, ok := raw["endTime"]; ok && string(v) == "null" {
			update.ClearEndTime = true
		}
	}

	item, err := h.timelineService.UpdateItem(eventID, itemID, userID, &update)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem deletes a timeline item
// @Summary Delete timeline item
// @Tags timeline
// @Param id path string true "Event ID"
// @Param itemId path string true "Item ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /events/{id}/timeline/items/{itemId} [delete]
func (h *TimelineHandler) DeleteItem(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	if err := h.timelineService.DeleteItem(eventID, itemID, userID); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReorderItems applies new order values to an event's timeline items
// @Summary Reorder timeline items
// @Tags timeline
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body ReorderItemsRequest true "New ordering"
// @Success 200 {object} domain.Timeline
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /events/{id}/timeline/reorder [put]
func (h *TimelineHandler) ReorderItems(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	var req ReorderItemsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	timeline, err := h.timelineService.ReorderItems(eventID, userID, req.Items)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, timeline)
}

// handleServiceError maps domain errors to appropriate HTTP responses
func (h *TimelineHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return NewNotFoundError(c, "Event not found")
	case errors.Is(err, domain.ErrTimelineNotFound):
		return NewNotFoundError(c, "Timeline not found")
	case errors.Is(err, domain.ErrTimelineItemNotFound):
		return NewNotFoundError(c, "Timeline item not found")
	case errors.Is(err, domain.ErrNotMember):
		return NewForbiddenError(c, "You are not a member of this event")
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Invalid timeline item details", nil)
	default:
		log.Error().Err(err).Msg("Timeline operation failed")
		return NewInternalError(c, "Timeline operation failed")
	}
}
