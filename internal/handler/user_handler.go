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

// UserHandler handles user HTTP requests
type UserHandler struct {
	userService    *service.UserService
	expenseService *service.ExpenseService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, expenseService *service.ExpenseService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		expenseService: expenseService,
	}
}

// CreateUserRequest represents the JSON request for registering a user
type CreateUserRequest struct {
	Email  string  `json:"email"`
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// UpdateUserRequest represents the JSON request for updating a profile
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// CreateUser registers a new user
// @Summary Register user
// @Description Creates a user account keyed by email
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User details"
// @Success 201 {object} domain.User
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Email == "" {
		return NewValidationError(c, "Email is required", []ValidationError{
			{Field: "email", Message: "required"},
		})
	}

	user, err := h.userService.CreateUser(service.CreateUserInput{
		Email:  req.Email,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// GetMe returns the caller's profile
// @Summary Get current user
// @Tags users
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /users/me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUser retrieves a user's public profile
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} ProblemDetails
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid user ID", nil)
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe updates the caller's profile
// @Summary Update current user
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateUserRequest true "Profile fields"
// @Success 200 {object} domain.User
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.userService.UpdateUser(userID, service.UpdateUserInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetMyUnsettledSplits returns the caller's outstanding splits across all events
// @Summary List unsettled splits
// @Tags users
// @Produce json
// @Success 200 {array} domain.ExpenseSplit
// @Failure 401 {object} ProblemDetails
// @Router /users/me/unsettled-splits [get]
func (h *UserHandler) GetMyUnsettledSplits(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User identity required")
	}

	splits, err := h.expenseService.GetUserUnsettledSplits(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list unsettled splits")
		return NewInternalError(c, "Failed to list unsettled splits")
	}
	return c.JSON(http.StatusOK, splits)
}

// handleServiceError maps domain errors to appropriate HTTP responses
func (h *UserHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return NewNotFoundError(c, "User not found")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return NewConflictError(c, "A user with this email already exists")
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Invalid user details", nil)
	default:
		log.Error().Err(err).Msg("User operation failed")
		return NewInternalError(c, "User operation failed")
	}
}
