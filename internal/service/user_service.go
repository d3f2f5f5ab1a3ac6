package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/wayfare/wayfare-backend/internal/domain"
)

// UserService handles user-related business logic
type UserService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput holds the input for creating a user
type CreateUserInput struct {
	Email  string
	Name   *string
	Avatar *string
}

// CreateUser creates a new user with validation
func (s *UserService) CreateUser(input CreateUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}

	var name *string
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed != "" {
			name = &trimmed
		}
	}

	user := &domain.User{
		Email:  email,
		Name:   name,
		Avatar: input.Avatar,
	}
	return s.userRepo.Create(user)
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByEmail retrieves a user by email
func (s *UserService) GetUserByEmail(email string) (*domain.User, error) {
	return s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
}

// UpdateUserInput holds the optional fields of a profile update
type UpdateUserInput struct {
	Name   *string
	Avatar *string
}

// UpdateUser updates a user's profile
func (s *UserService) UpdateUser(id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			user.Name = nil
		} else {
			user.Name = &trimmed
		}
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}

	return s.userRepo.Update(user)
}
