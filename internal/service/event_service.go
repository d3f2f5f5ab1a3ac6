package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/websocket"
)

// EventService handles event and membership business logic
type EventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
}

// NewEventService creates a new EventService
func NewEventService(eventRepo domain.EventRepository, userRepo domain.UserRepository, expenseRepo domain.ExpenseRepository) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		expenseRepo: expenseRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *EventService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *EventService) publishEvent(eventID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(eventID, event)
	}
}

// CreateEventInput holds the input for creating an event
type CreateEventInput struct {
	Name        string
	Description *string
	StartAt     time.Time
	EndAt       time.Time
	Currency    string
}

// CreateEvent creates a new event with the caller as owner
func (s *EventService) CreateEvent(ownerID uuid.UUID, input CreateEventInput) (*domain.Event, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > domain.MaxEventNameLength {
		return nil, domain.ErrInvalidInput
	}
	if input.EndAt.Before(input.StartAt) {
		return nil, domain.ErrInvalidInput
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != domain.CurrencyCodeLength {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.userRepo.GetByID(ownerID); err != nil {
		return nil, err
	}

	event := &domain.Event{
		Name:        name,
		Description: input.Description,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		Currency:    currency,
	}
	return s.eventRepo.Create(event, ownerID)
}

// GetEvent retrieves an event, requiring the caller to be a member
func (s *EventService) GetEvent(eventID, userID uuid.UUID) (*domain.Event, error) {
	if err := s.requireMember(eventID, userID); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	members, err := s.eventRepo.GetMembers(eventID)
	if err != nil {
		return nil, err
	}
	event.Members = members
	return event, nil
}

// GetUserEvents retrieves all events the caller is a member of
func (s *EventService) GetUserEvents(userID uuid.UUID) ([]*domain.Event, error) {
	return s.eventRepo.GetByUserID(userID)
}

// UpdateEvent updates an event's details
func (s *EventService) UpdateEvent(eventID, userID uuid.UUID, update *domain.EventUpdate) (*domain.Event, error) {
	if err := s.requireMember(eventID, userID); err != nil {
		return nil, err
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" || len(name) > domain.MaxEventNameLength {
			return nil, domain.ErrInvalidInput
		}
		update.Name = &name
	}
	if update.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*update.Currency))
		if len(currency) != domain.CurrencyCodeLength {
			return nil, domain.ErrInvalidInput
		}
		update.Currency = &currency
	}
	return s.eventRepo.Update(eventID, update)
}

// DeleteEvent deletes an event and everything attached to it
func (s *EventService) DeleteEvent(eventID, userID uuid.UUID) error {
	if err := s.requireMember(eventID, userID); err != nil {
		return err
	}
	return s.eventRepo.Delete(eventID)
}

// GetMembers retrieves the members of an event
func (s *EventService) GetMembers(eventID, userID uuid.UUID) ([]*domain.EventMember, error) {
	if err := s.requireMember(eventID, userID); err != nil {
		return nil, err
	}
	return s.eventRepo.GetMembers(eventID)
}

// InviteMember adds an existing user to an event by email
func (s *EventService) InviteMember(eventID, inviterID uuid.UUID, email string) (*domain.EventMember, error) {
	if err := s.requireMember(eventID, inviterID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	member, err := s.eventRepo.AddMember(eventID, user.ID, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	member.User = user

	s.publishEvent(eventID, websocket.MemberJoined(member))
	return member, nil
}

// AcceptInvite joins the caller to an event
func (s *EventService) AcceptInvite(eventID, userID uuid.UUID) (*domain.EventMember, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(eventID); err != nil {
		return nil, err
	}
	member, err := s.eventRepo.AddMember(eventID, userID, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	member.User = user

	s.publishEvent(eventID, websocket.MemberJoined(member))
	return member, nil
}

// LeaveEvent removes the caller from an event. The owner cannot leave.
func (s *EventService) LeaveEvent(eventID, userID uuid.UUID) error {
	role, err := s.eventRepo.GetMemberRole(eventID, userID)
	if err != nil {
		return err
	}
	if role == domain.RoleOwner {
		return domain.ErrOwnerCannotLeave
	}
	if err := s.eventRepo.RemoveMember(eventID, userID); err != nil {
		return err
	}

	s.publishEvent(eventID, websocket.MemberLeft(map[string]interface{}{
		"eventId": eventID,
		"userId":  userID,
	}))
	return nil
}

// RemoveMember removes another member from an event. The owner cannot be removed.
func (s *EventService) RemoveMember(eventID, callerID, userID uuid.UUID) error {
	if err := s.requireMember(eventID, callerID); err != nil {
		return err
	}
	role, err := s.eventRepo.GetMemberRole(eventID, userID)
	if err != nil {
		return err
	}
	if role == domain.RoleOwner {
		return domain.ErrOwnerCannotLeave
	}
	if err := s.eventRepo.RemoveMember(eventID, userID); err != nil {
		return err
	}

	s.publishEvent(eventID, websocket.MemberLeft(map[string]interface{}{
		"eventId": eventID,
		"userId":  userID,
	}))
	return nil
}

// GetStatistics aggregates the counters for the admin dashboard
func (s *EventService) GetStatistics() (*domain.Statistics, error) {
	totalEvents, err := s.eventRepo.CountEvents()
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.userRepo.CountUsers()
	if err != nil {
		return nil, err
	}
	totalExpenses, err := s.expenseRepo.CountExpenses()
	if err != nil {
		return nil, err
	}
	totalMembers, err := s.eventRepo.CountMembers()
	if err != nil {
		return nil, err
	}
	totalAmount, err := s.expenseRepo.SumExpenses()
	if err != nil {
		return nil, err
	}
	recent, err := s.eventRepo.GetRecentEvents(5)
	if err != nil {
		return nil, err
	}

	return &domain.Statistics{
		TotalEvents:   totalEvents,
		TotalUsers:    totalUsers,
		TotalExpenses: totalExpenses,
		TotalMembers:  totalMembers,
		TotalAmount:   totalAmount,
		RecentEvents:  recent,
	}, nil
}

func (s *EventService) requireMember(eventID, userID uuid.UUID) error {
	ok, err := s.eventRepo.IsMember(eventID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotMember
	}
	return nil
}
