package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/ledger"
	"github.com/wayfare/wayfare-backend/internal/middleware"
	"github.com/wayfare/wayfare-backend/internal/service"
)

// ExpenseHandler handles expense, split, and settlement HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// SplitRequest is one split of a new expense
type SplitRequest struct {
	UserID uuid.UUID       `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateExpenseRequest represents the JSON request for creating an expense
type CreateExpenseRequest struct {
	EventID     uuid.UUID       `json:"eventId"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
	Splits      []SplitRequest  `json:"splits"`
}

// SetSplitSettledRequest represents the JSON request for settling a split
type SetSplitSettledRequest struct {
	Settled bool `json:"settled"`
}

// CreateExpense creates an expense paid by the caller
// @Summary Create expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "Expense details"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.EventID == uuid.Nil {
		return NewValidationError(c, "Event ID is required", []ValidationError{
			{Field: "eventId", Message: "required"},
		})
	}
	if len(req.Splits) == 0 {
		return NewValidationError(c, "At least one split is required", []ValidationError{
			{Field: "splits", Message: "required"},
		})
	}

	splits := make([]service.SplitInput, 0, len(req.Splits))
	for _, s := range req.Splits {
		splits = append(splits, service.SplitInput{UserID: s.UserID, Amount: s.Amount})
	}

	expense, err := h.expenseService.CreateExpense(userID, service.CreateExpenseInput{
		EventID:     req.EventID,
		Title:       req.Title,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Date:        req.Date,
		Splits:      splits,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, expense)
}

// GetExpense retrieves one expense with its splits
// @Summary Get expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetExpense(expenseID, userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// GetEventExpenses lists all expenses for an event
// @Summary List event expenses
// @Tags expenses
// @Produce json
// @Param eventId query string true "Event ID"
// @Success 200 {array} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /expenses [get]
func (h *ExpenseHandler) GetEventExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.QueryParam("eventId"))
	if err != nil {
		return NewValidationError(c, "eventId query parameter is required", nil)
	}

	expenses, err := h.expenseService.GetEventExpenses(eventID, userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, expenses)
}

// UpdateExpense updates an expense's details
// @Summary Update expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body domain.ExpenseUpdate true "Fields to update"
// @Success 200 {object} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var update domain.ExpenseUpdate
	if err := c.Bind(&update); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	expense, err := h.expenseService.UpdateExpense(expenseID, userID, &update)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense deletes an expense and its splits
// @Summary Delete expense
// @Tags expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteExpense(expenseID, userID); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetSplitSettled marks a split settled or unsettled
// @Summary Settle split
// @Description Marks a split settled or unsettled. Only the expense payer or the split's debtor may do this.
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Split ID"
// @Param request body SetSplitSettledRequest true "Settled flag"
// @Success 200 {object} domain.ExpenseSplit
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /splits/{id}/settled [patch]
func (h *ExpenseHandler) SetSplitSettled(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	splitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid split ID", nil)
	}

	var req SetSplitSettledRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	split, err := h.expenseService.SetSplitSettled(splitID, userID, req.Settled)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, split)
}

// GetSettlements computes the settlement plan for an event
// @Summary Compute settlements
// @Description Runs the settlement engine over the event's roster and expenses, returning per-member balances and a minimal transfer plan
// @Tags expenses
// @Produce json
// @Param eventId query string true "Event ID"
// @Success 200 {object} domain.SettlementSummary
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 422 {object} ProblemDetails
// @Router /expenses/settlements [get]
func (h *ExpenseHandler) GetSettlements(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}
	eventID, err := uuid.Parse(c.QueryParam("eventId"))
	if err != nil {
		return NewValidationError(c, "eventId query parameter is required", nil)
	}

	summary, err := h.expenseService.CalculateSettlements(eventID, userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// handleServiceError maps domain and engine errors to appropriate HTTP responses
func (h *ExpenseHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrExpenseNotFound):
		return NewNotFoundError(c, "Expense not found")
	case errors.Is(err, domain.ErrSplitNotFound):
		return NewNotFoundError(c, "Split not found")
	case errors.Is(err, domain.ErrEventNotFound):
		return NewNotFoundError(c, "Event not found")
	case errors.Is(err, domain.ErrNotMember):
		return NewForbiddenError(c, "You are not a member of this event")
	case errors.Is(err, domain.ErrNotSplitParty):
		return NewForbiddenError(c, "Only the payer or the debtor can settle a split")
	case errors.Is(err, domain.ErrSplitSumMismatch), errors.Is(err, ledger.ErrSplitSumMismatch):
		return NewValidationError(c, "Split amounts must sum to the expense amount", nil)
	case errors.Is(err, ledger.ErrUnknownMember):
		return NewConflictError(c, "An expense references a user who is no longer a member")
	case errors.Is(err, ledger.ErrNonPositiveAmount), errors.Is(err, ledger.ErrNoSplits):
		return NewConflictError(c, "Event contains an expense the settlement engine cannot process")
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Invalid expense details", nil)
	default:
		log.Error().Err(err).Msg("Expense operation failed")
		return NewInternalError(c, "Expense operation failed")
	}
}
