package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/service"
	"github.com/wayfare/wayfare-backend/internal/testutil"
)

type eventHandlerFixture struct {
	handler   *EventHandler
	eventRepo *testutil.MockEventRepository
	userRepo  *testutil.MockUserRepository
	owner     *domain.User
}

func newEventHandlerFixture(t *testing.T) *eventHandlerFixture {
	t.Helper()
	eventRepo := testutil.NewMockEventRepository()
	userRepo := testutil.NewMockUserRepository()
	expenseRepo := testutil.NewMockExpenseRepository()

	owner := &domain.User{ID: uuid.New(), Email: "owner@example.com"}
	userRepo.AddUser(owner)

	eventService := service.NewEventService(eventRepo, userRepo, expenseRepo)
	return &eventHandlerFixture{
		handler:   NewEventHandler(eventService),
		eventRepo: eventRepo,
		userRepo:  userRepo,
		owner:     owner,
	}
}

func TestEventHandler_CreateEvent_Success(t *testing.T) {
	f := newEventHandlerFixture(t)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	reqBody := CreateEventRequest{
		Name:     "Summer Trip",
		StartAt:  start,
		EndAt:    start.AddDate(0, 0, 7),
		Currency: "eur",
	}
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/events", reqBody, f.owner.ID)

	if err := f.handler.CreateEvent(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var event domain.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &event); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}
	if event.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", event.Currency)
	}
	role, err := f.eventRepo.GetMemberRole(event.ID, f.owner.ID)
	if err != nil {
		t.Fatalf("expected creator to be a member, got %v", err)
	}
	if role != domain.RoleOwner {
		t.Errorf("expected role %s, got %s", domain.RoleOwner, role)
	}
}

func TestEventHandler_CreateEvent_InvalidDates(t *testing.T) {
	f := newEventHandlerFixture(t)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	reqBody := CreateEventRequest{
		Name:    "Backwards Trip",
		StartAt: start,
		EndAt:   start.AddDate(0, 0, -1),
	}
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/events", reqBody, f.owner.ID)

	if err := f.handler.CreateEvent(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestEventHandler_CreateEvent_MissingIdentity(t *testing.T) {
	f := newEventHandlerFixture(t)

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/events", CreateEventRequest{Name: "Trip"}, uuid.Nil)

	if err := f.handler.CreateEvent(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestEventHandler_InviteMember(t *testing.T) {
	f := newEventHandlerFixture(t)

	guest := &domain.User{ID: uuid.New(), Email: "guest@example.com"}
	f.userRepo.AddUser(guest)

	event := &domain.Event{ID: uuid.New(), Name: "Trip", Currency: "USD"}
	f.eventRepo.AddEvent(event)
	f.eventRepo.AddEventMember(&domain.EventMember{
		ID: uuid.New(), EventID: event.ID, UserID: f.owner.ID, Role: domain.RoleOwner, User: f.owner,
	})

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/invite", InviteMemberRequest{Email: "guest@example.com"}, f.owner.ID)
	c.SetParamNames("id")
	c.SetParamValues(event.ID.String())

	if err := f.handler.InviteMember(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var member domain.EventMember
	if err := json.Unmarshal(rec.Body.Bytes(), &member); err != nil {
		t.Fatalf("failed to unmarshal member: %v", err)
	}
	if member.UserID != guest.ID {
		t.Errorf("expected member %s, got %s", guest.ID, member.UserID)
	}

	// Inviting the same user again conflicts
	c, rec = newRequestContext(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/invite", InviteMemberRequest{Email: "guest@example.com"}, f.owner.ID)
	c.SetParamNames("id")
	c.SetParamValues(event.ID.String())

	if err := f.handler.InviteMember(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestEventHandler_InviteMember_UnknownEmail(t *testing.T) {
	f := newEventHandlerFixture(t)

	event := &domain.Event{ID: uuid.New(), Name: "Trip", Currency: "USD"}
	f.eventRepo.AddEvent(event)
	f.eventRepo.AddEventMember(&domain.EventMember{
		ID: uuid.New(), EventID: event.ID, UserID: f.owner.ID, Role: domain.RoleOwner, User: f.owner,
	})

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/invite", InviteMemberRequest{Email: "nobody@example.com"}, f.owner.ID)
	c.SetParamNames("id")
	c.SetParamValues(event.ID.String())

	if err := f.handler.InviteMember(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestEventHandler_LeaveEvent_OwnerBlocked(t *testing.T) {
	f := newEventHandlerFixture(t)

	event := &domain.Event{ID: uuid.New(), Name: "Trip", Currency: "USD"}
	f.eventRepo.AddEvent(event)
	f.eventRepo.AddEventMember(&domain.EventMember{
		ID: uuid.New(), EventID: event.ID, UserID: f.owner.ID, Role: domain.RoleOwner, User: f.owner,
	})

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/leave", nil, f.owner.ID)
	c.SetParamNames("id")
	c.SetParamValues(event.ID.String())

	if err := f.handler.LeaveEvent(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestEventHandler_GetEvent_NotMember(t *testing.T) {
	f := newEventHandlerFixture(t)

	event := &domain.Event{ID: uuid.New(), Name: "Trip", Currency: "USD"}
	f.eventRepo.AddEvent(event)

	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/events/"+event.ID.String(), nil, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(event.ID.String())

	if err := f.handler.GetEvent(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}
