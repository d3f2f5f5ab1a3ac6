package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestIdentity_ValidHeader(t *testing.T) {
	e := echo.New()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set(HeaderUserID, userID.String())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got uuid.UUID
	handler := func(c echo.Context) error {
		got = GetUserID(c)
		return c.String(http.StatusOK, "OK")
	}

	err := Identity()(handler)(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != userID {
		t.Errorf("Expected user ID %s in context, got %s", userID, got)
	}
}

func TestIdentity_MissingHeader(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerCalled := false
	handler := func(c echo.Context) error {
		handlerCalled = true
		if id := GetUserID(c); id != uuid.Nil {
			t.Errorf("Expected uuid.Nil, got %s", id)
		}
		return c.String(http.StatusOK, "OK")
	}

	err := Identity()(handler)(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !handlerCalled {
		t.Error("Handler should be called without identity header")
	}
}

func TestIdentity_MalformedHeader(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set(HeaderUserID, "not-a-uuid")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if id := GetUserID(c); id != uuid.Nil {
			t.Errorf("Expected uuid.Nil for malformed header, got %s", id)
		}
		return c.String(http.StatusOK, "OK")
	}

	err := Identity()(handler)(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestGetUserID_NoContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if id := GetUserID(c); id != uuid.Nil {
		t.Errorf("Expected uuid.Nil, got %s", id)
	}
}
