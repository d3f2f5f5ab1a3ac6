package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/testutil"
)

func newEventServiceForTest() (*EventService, *testutil.MockEventRepository, *testutil.MockUserRepository, *testutil.MockExpenseRepository) {
	eventRepo := testutil.NewMockEventRepository()
	userRepo := testutil.NewMockUserRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	return NewEventService(eventRepo, userRepo, expenseRepo), eventRepo, userRepo, expenseRepo
}

func addTestUser(userRepo *testutil.MockUserRepository, email string) *domain.User {
	user := &domain.User{ID: uuid.New(), Email: email}
	userRepo.AddUser(user)
	return user
}

func TestEventService_CreateEvent(t *testing.T) {
	service, eventRepo, userRepo, _ := newEventServiceForTest()
	owner := addTestUser(userRepo, "owner@example.com")

	start := time.Now()
	event, err := service.CreateEvent(owner.ID, CreateEventInput{
		Name:     "Lisbon Trip",
		StartAt:  start,
		EndAt:    start.Add(72 * time.Hour),
		Currency: "eur",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if event.Currency != "EUR" {
		t.Errorf("expected uppercased currency, got %q", event.Currency)
	}

	role, err := eventRepo.GetMemberRole(event.ID, owner.ID)
	if err != nil {
		t.Fatalf("expected owner membership, got %v", err)
	}
	if role != domain.RoleOwner {
		t.Errorf("expected OWNER role, got %s", role)
	}
}

func TestEventService_CreateEvent_Validation(t *testing.T) {
	service, _, userRepo, _ := newEventServiceForTest()
	owner := addTestUser(userRepo, "owner@example.com")
	start := time.Now()

	cases := []struct {
		name  string
		input CreateEventInput
	}{
		{"empty name", CreateEventInput{Name: "  ", StartAt: start, EndAt: start}},
		{"end before start", CreateEventInput{Name: "Trip", StartAt: start, EndAt: start.Add(-time.Hour)}},
		{"bad currency", CreateEventInput{Name: "Trip", StartAt: start, EndAt: start, Currency: "EURO"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateEvent(owner.ID, tc.input)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestEventService_GetEvent_RequiresMembership(t *testing.T) {
	service, _, userRepo, _ := newEventServiceForTest()
	owner := addTestUser(userRepo, "owner@example.com")
	outsider := addTestUser(userRepo, "outsider@example.com")

	event, err := service.CreateEvent(owner.ID, CreateEventInput{
		Name: "Trip", StartAt: time.Now(), EndAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := service.GetEvent(event.ID, owner.ID); err != nil {
		t.Errorf("member access: expected no error, got %v", err)
	}
	if _, err := service.GetEvent(event.ID, outsider.ID); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("outsider access: expected ErrNotMember, got %v", err)
	}
}

func TestEventService_InviteMember(t *testing.T) {
	service, _, userRepo, _ := newEventServiceForTest()
	owner := addTestUser(userRepo, "owner@example.com")
	invitee := addTestUser(userRepo, "invitee@example.com")

	event, err := service.CreateEvent(owner.ID, CreateEventInput{
		Name: "Trip", StartAt: time.Now(), EndAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	member, err := service.InviteMember(event.ID, owner.ID, "Invitee@Example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if member.UserID != invitee.ID {
		t.Errorf("expected member %s, got %s", invitee.ID, member.UserID)
	}
	if member.Role != domain.RoleMember {
		t.Errorf("expected MEMBER role, got %s", member.Role)
	}

	// Inviting again is a conflict
	if _, err := service.InviteMember(event.ID, owner.ID, invitee.Email); !errors.Is(err, domain.ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}

	// Unknown email
	if _, err := service.InviteMember(event.ID, owner.ID, "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestEventService_InviteMember_RequiresInviterMembership(t *testing.T) {
	service, _, userRepo, _ := newEventServiceForTest()
	owner := addTestUser(userRepo, "owner@example.com")
	outsider := addTestUser(userRepo, "outsider@example.com")
	invitee := addTestUser(userRepo, "invitee@example.com")

	event, err := service.CreateEvent(owner.ID, CreateEventInput{
		Name: "Trip", StartAt: time.Now(), EndAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := service.InviteMember(event.ID, outsider.ID, invitee.Email); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestEventService_AcceptInvite(t *testing.T) {
	service, _, userRepo, _ := newEventServiceForTest()
	owner := addTestUser(userRepo, "owner@example.com")
	joiner := addTestUser(userRepo, "joiner@example.com")

	event, err := service.CreateEvent(owner.ID, CreateEventInput{
		Name: "Trip", StartAt: time.Now(), EndAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	member, err := service.AcceptInvite(event.ID, joiner.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if member.Role != domain.RoleMember {
		t.Errorf("expected MEMBER role, got %s", member.Role)
	}

	if _, err := service.AcceptInvite(uuid.New(), joiner.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventService_LeaveEvent(t *testing.T) {
	service, _, userRepo, _ := newEventServiceForTest()
	owner := addTestUser(userRepo, "owner@example.com")
	member := addTestUser(userRepo, "member@example.com")

	event, err := service.CreateEvent(owner.ID, CreateEventInput{
		Name: "Trip", StartAt: time.Now(), EndAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := service.AcceptInvite(event.ID, member.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Owner cannot leave their own event
	if err := service.LeaveEvent(event.ID, owner.ID); !errors.Is(err, domain.ErrOwnerCannotLeave) {
		t.Errorf("expected ErrOwnerCannotLeave, got %v", err)
	}

	// Plain member can
	if err := service.LeaveEvent(event.ID, member.ID); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := service.LeaveEvent(event.ID, member.ID); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("expected ErrNotMember after leaving, got %v", err)
	}
}

func TestEventService_GetStatistics(t *testing.T) {
	service, eventRepo, userRepo, expenseRepo := newEventServiceForTest()
	owner := addTestUser(userRepo, "owner@example.com")

	event, err := service.CreateEvent(owner.ID, CreateEventInput{
		Name: "Trip", StartAt: time.Now(), EndAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	expenseRepo.AddExpense(&domain.Expense{
		ID:      uuid.New(),
		EventID: event.ID,
		Amount:  decimal.NewFromInt(120),
	})
	eventRepo.Recent = []*domain.RecentEvent{{ID: event.ID, Name: event.Name}}

	stats, err := service.GetStatistics()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.TotalEvents != 1 || stats.TotalUsers != 1 || stats.TotalExpenses != 1 || stats.TotalMembers != 1 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if !stats.TotalAmount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("expected total amount 120, got %s", stats.TotalAmount)
	}
	if len(stats.RecentEvents) != 1 {
		t.Errorf("expected 1 recent event, got %d", len(stats.RecentEvents))
	}
}
