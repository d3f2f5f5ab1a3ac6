package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/middleware"
	"github.com/wayfare/wayfare-backend/internal/service"
)

// NoteHandler handles note HTTP requests
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// CreateNoteRequest represents the JSON request for creating a note.
// Exactly one of eventId, expenseId, timelineItemId must be set.
type CreateNoteRequest struct {
	Content        string     `json:"content"`
	EventID        *uuid.UUID `json:"eventId,omitempty"`
	ExpenseID      *uuid.UUID `json:"expenseId,omitempty"`
	TimelineItemID *uuid.UUID `json:"timelineItemId,omitempty"`
}

// UpdateNoteRequest represents the JSON request for updating a note
type UpdateNoteRequest struct {
	Content string `json:"content"`
}

// CreateNote creates a note authored by the caller
// @Summary Create note
// @Tags notes
// @Accept json
// @Produce json
// @Param request body CreateNoteRequest true "Note details"
// @Success 201 {object} domain.Note
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}

	var req CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	note, err := h.noteService.CreateNote(userID, service.CreateNoteInput{
		Content:        req.Content,
		EventID:        req.EventID,
		ExpenseID:      req.ExpenseID,
		TimelineItemID: req.TimelineItemID,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, note)
}

// GetNotes lists notes for a parent given as a query parameter
// @Summary List notes
// @Description Lists notes for one parent. Pass exactly one of eventId, expenseId, timelineItemId.
// @Tags notes
// @Produce json
// @Param eventId query string false "Event ID"
// @Param expenseId query string false "Expense ID"
// @Param timelineItemId query string false "Timeline item ID"
// @Success 200 {array} domain.Note
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /notes [get]
func (h *NoteHandler) GetNotes(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}

	if v := c.QueryParam("eventId"); v != "" {
		eventID, err := uuid.Parse(v)
		if err != nil {
			return NewValidationError(c, "Invalid event ID", nil)
		}
		notes, err := h.noteService.GetEventNotes(eventID, userID)
		if err != nil {
			return h.handleServiceError(c, err)
		}
		return c.JSON(http.StatusOK, notes)
	}
	if v := c.QueryParam("expenseId"); v != "" {
		expenseID, err := uuid.Parse(v)
		if err != nil {
			return NewValidationError(c, "Invalid expense ID", nil)
		}
		notes, err := h.noteService.GetExpenseNotes(expenseID, userID)
		if err != nil {
			return h.handleServiceError(c, err)
		}
		return c.JSON(http.StatusOK, notes)
	}
	if v := c.QueryParam("timelineItemId"); v != "" {
		itemID, err := uuid.Parse(v)
		if err != nil {
			return NewValidationError(c, "Invalid timeline item ID", nil)
		}
		notes, err := h.noteService.GetTimelineItemNotes(itemID, userID)
		if err != nil {
			return h.handleServiceError(c, err)
		}
		return c.JSON(http.StatusOK, notes)
	}

	return NewValidationError(c, "One of eventId, expenseId, timelineItemId is required", nil)
}

// UpdateNote updates a note's content
// @Summary Update note
// @Tags notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param request body UpdateNoteRequest true "New content"
// @Success 200 {object} domain.Note
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /notes/{id} [put]
func (h *NoteHandler) UpdateNote(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid note ID", nil)
	}

	var req UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	note, err := h.noteService.UpdateNote(noteID, userID, req.Content)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

// DeleteNote deletes a note
// @Summary Delete note
// @Tags notes
// @Param id path string true "Note ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid note ID", nil)
	}

	if err := h.noteService.DeleteNote(noteID, userID); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleServiceError maps domain errors to appropriate HTTP responses
func (h *NoteHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		return NewNotFoundError(c, "Note not found")
	case errors.Is(err, domain.ErrEventNotFound):
		return NewNotFoundError(c, "Event not found")
	case errors.Is(err, domain.ErrExpenseNotFound):
		return NewNotFoundError(c, "Expense not found")
	case errors.Is(err, domain.ErrTimelineItemNotFound):
		return NewNotFoundError(c, "Timeline item not found")
	case errors.Is(err, domain.ErrNoteParentRequired):
		return NewValidationError(c, "A note requires exactly one parent", nil)
	case errors.Is(err, domain.ErrNotMember):
		return NewForbiddenError(c, "You do not have access to this note")
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Invalid note details", nil)
	default:
		log.Error().Err(err).Msg("Note operation failed")
		return NewInternalError(c, "Note operation failed")
	}
}
