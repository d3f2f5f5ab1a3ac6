package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/service"
	"github.com/wayfare/wayfare-backend/internal/testutil"
)

func newUserHandlerForTest() (*UserHandler, *testutil.MockUserRepository) {
	userRepo := testutil.NewMockUserRepository()
	userService := service.NewUserService(userRepo)
	expenseService := service.NewExpenseService(testutil.NewMockExpenseRepository(), testutil.NewMockEventRepository(), userRepo, "USD")
	return NewUserHandler(userService, expenseService), userRepo
}

func TestUserHandler_CreateUser(t *testing.T) {
	h, _ := newUserHandlerForTest()

	name := "Alice"
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/users", CreateUserRequest{Email: "  Alice@Example.COM ", Name: &name}, uuid.Nil)

	if err := h.CreateUser(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("failed to unmarshal user: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %s", user.Email)
	}
}

func TestUserHandler_CreateUser_Duplicate(t *testing.T) {
	h, userRepo := newUserHandlerForTest()
	userRepo.AddUser(&domain.User{ID: uuid.New(), Email: "alice@example.com"})

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/users", CreateUserRequest{Email: "alice@example.com"}, uuid.Nil)

	if err := h.CreateUser(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestUserHandler_GetMe(t *testing.T) {
	h, userRepo := newUserHandlerForTest()
	user := &domain.User{ID: uuid.New(), Email: "alice@example.com"}
	userRepo.AddUser(user)

	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/users/me", nil, user.ID)

	if err := h.GetMe(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal user: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestUserHandler_GetMe_MissingIdentity(t *testing.T) {
	h, _ := newUserHandlerForTest()

	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/users/me", nil, uuid.Nil)

	if err := h.GetMe(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}
