package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/testutil"
)

func TestUserService_CreateUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewUserService(userRepo)

	name := "Alice"
	user, err := service.CreateUser(CreateUserInput{
		Email: "  Alice@Example.com ",
		Name:  &name,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.Name == nil || *user.Name != "Alice" {
		t.Errorf("expected name Alice, got %v", user.Name)
	}
}

func TestUserService_CreateUser_InvalidEmail(t *testing.T) {
	service := NewUserService(testutil.NewMockUserRepository())

	for _, email := range []string{"", "   ", "not-an-email"} {
		_, err := service.CreateUser(CreateUserInput{Email: email})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("email %q: expected ErrInvalidInput, got %v", email, err)
		}
	}
}

func TestUserService_CreateUser_Duplicate(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewUserService(userRepo)

	if _, err := service.CreateUser(CreateUserInput{Email: "bob@example.com"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err := service.CreateUser(CreateUserInput{Email: "BOB@example.com"})
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewUserService(userRepo)

	user := &domain.User{ID: uuid.New(), Email: "carol@example.com"}
	userRepo.AddUser(user)

	name := "Carol"
	updated, err := service.UpdateUser(user.ID, UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Name == nil || *updated.Name != "Carol" {
		t.Errorf("expected name Carol, got %v", updated.Name)
	}

	// Blank name clears it
	blank := "  "
	updated, err = service.UpdateUser(user.ID, UpdateUserInput{Name: &blank})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Name != nil {
		t.Errorf("expected cleared name, got %v", *updated.Name)
	}
}

func TestUserService_UpdateUser_NotFound(t *testing.T) {
	service := NewUserService(testutil.NewMockUserRepository())

	_, err := service.UpdateUser(uuid.New(), UpdateUserInput{})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
