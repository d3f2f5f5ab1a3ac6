package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderUserID carries the caller's identity. The API runs behind a gateway
// that authenticates the user and forwards their id in this header; the
// backend itself performs no session handling.
const HeaderUserID = "X-User-ID"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// UserIDKey is the context key for the authenticated user's ID
const UserIDKey contextKey = "user_id"

// Identity returns a middleware that extracts the caller's user ID from the
// X-User-ID header into the request context. Requests without a valid header
// pass through with uuid.Nil; handlers decide whether identity is required.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(HeaderUserID)
			if header == "" {
				return next(c)
			}

			userID, err := uuid.Parse(header)
			if err != nil {
				return next(c)
			}

			ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetUserID extracts the caller's user ID from the context, uuid.Nil when absent
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
