package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/middleware"
	"github.com/wayfare/wayfare-backend/internal/service"
)

// EventHandler handles event and membership HTTP requests
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest represents the JSON request for creating an event
type CreateEventRequest struct {
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Currency    string    `json:"currency,omitempty"`
}

// InviteMemberRequest represents the JSON request for inviting a member
type InviteMemberRequest struct {
	Email string `json:"email"`
}

// CreateEvent creates a new event owned by the caller
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event details"
// @Success 201 {object} domain.Event
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}

	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Name == "" {
		return NewValidationError(c, "Event name is required", []ValidationError{
			{Field: "name", Message: "required"},
		})
	}

	event, err := h.eventService.CreateEvent(userID, service.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Currency:    req.Currency,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}

// GetEvents lists the caller's events
// @Summary List events
// @Tags events
// @Produce json
// @Success 200 {array} domain.Event
// @Failure 401 {object} ProblemDetails
// @Router /events [get]
func (h *EventHandler) GetEvents(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}

	events, err := h.eventService.GetUserEvents(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list events")
		return NewInternalError(c, "Failed to list events")
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent retrieves one event with its members
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 401 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	event, err := h.eventService.GetEvent(eventID, userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// UpdateEvent updates an event's details
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body domain.EventUpdate true "Fields to update"
// @Success 200 {object} domain.Event
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	var update domain.EventUpdate
	if err := c.Bind(&update); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	event, err := h.eventService.UpdateEvent(eventID, userID, &update)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent deletes an event
// @Summary Delete event
// @Tags events
// @Param id path string true "Event ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	if err := h.eventService.DeleteEvent(eventID, userID); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMembers lists an event's members
// @Summary List event members
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} domain.EventMember
// @Failure 403 {object} ProblemDetails
// @Router /events/{id}/members [get]
func (h *EventHandler) GetMembers(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	members, err := h.eventService.GetMembers(eventID, userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

// InviteMember invites a user to an event by email
// @Summary Invite member
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body InviteMemberRequest true "Invitee email"
// @Success 201 {object} domain.EventMember
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /events/{id}/invite [post]
func (h *EventHandler) InviteMember(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	var req InviteMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Email == "" {
		return NewValidationError(c, "Email is required", []ValidationError{
			{Field: "email", Message: "required"},
		})
	}

	member, err := h.eventService.InviteMember(eventID, userID, req.Email)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, member)
}

// AcceptInvite joins the caller to an event
// @Summary Accept invite
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 201 {object} domain.EventMember
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /events/{id}/accept-invite [post]
func (h *EventHandler) AcceptInvite(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	member, err := h.eventService.AcceptInvite(eventID, userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, member)
}

// LeaveEvent removes the caller from an event
// @Summary Leave event
// @Tags events
// @Param id path string true "Event ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /events/{id}/leave [post]
func (h *EventHandler) LeaveEvent(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}

	if err := h.eventService.LeaveEvent(eventID, userID); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveMember removes another member from an event
// @Summary Remove member
// @Tags events
// @Param id path string true "Event ID"
// @Param userId path string true "User ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /events/{id}/members/{userId} [delete]
func (h *EventHandler) RemoveMember(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid event ID", nil)
	}
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return NewValidationError(c, "Invalid user ID", nil)
	}

	if err := h.eventService.RemoveMember(eventID, userID, targetID); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleServiceError maps domain errors to appropriate HTTP responses
func (h *EventHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return NewNotFoundError(c, "Event not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return NewNotFoundError(c, "User not found")
	case errors.Is(err, domain.ErrNotMember):
		return NewForbiddenError(c, "You are not a member of this event")
	case errors.Is(err, domain.ErrAlreadyMember):
		return NewConflictError(c, "User is already a member of this event")
	case errors.Is(err, domain.ErrOwnerCannotLeave):
		return NewConflictError(c, "The event owner cannot leave or be removed")
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Invalid event details", nil)
	default:
		log.Error().Err(err).Msg("Event operation failed")
		return NewInternalError(c, "Event operation failed")
	}
}
