package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/testutil"
)

type timelineFixture struct {
	service   *TimelineService
	eventRepo *testutil.MockEventRepository
	repo      *testutil.MockTimelineRepository
	event     *domain.Event
	member    *domain.User
}

func newTimelineFixture(t *testing.T) *timelineFixture {
	t.Helper()
	eventRepo := testutil.NewMockEventRepository()
	timelineRepo := testutil.NewMockTimelineRepository()

	member := &domain.User{ID: uuid.New(), Email: "member@example.com"}
	event := &domain.Event{ID: uuid.New(), Name: "Trip"}
	eventRepo.AddEvent(event)
	eventRepo.AddEventMember(&domain.EventMember{
		ID:      uuid.New(),
		EventID: event.ID,
		UserID:  member.ID,
		Role:    domain.RoleOwner,
	})

	return &timelineFixture{
		service:   NewTimelineService(timelineRepo, eventRepo),
		eventRepo: eventRepo,
		repo:      timelineRepo,
		event:     event,
		member:    member,
	}
}

func TestTimelineService_GetTimeline_CreatesOnFirstAccess(t *testing.T) {
	f := newTimelineFixture(t)

	timeline, err := f.service.GetTimeline(f.event.ID, f.member.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if timeline.EventID != f.event.ID {
		t.Errorf("expected timeline for event %s, got %s", f.event.ID, timeline.EventID)
	}

	// Second access returns the same timeline
	again, err := f.service.GetTimeline(f.event.ID, f.member.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if again.ID != timeline.ID {
		t.Errorf("expected same timeline %s, got %s", timeline.ID, again.ID)
	}
}

func TestTimelineService_GetTimeline_RequiresMembership(t *testing.T) {
	f := newTimelineFixture(t)

	_, err := f.service.GetTimeline(f.event.ID, uuid.New())
	if !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestTimelineService_CreateItem(t *testing.T) {
	f := newTimelineFixture(t)
	start := time.Now()

	item, err := f.service.CreateItem(f.event.ID, f.member.ID, CreateItemInput{
		Title:     "Check in",
		StartTime: start,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Title != "Check in" {
		t.Errorf("expected title preserved, got %q", item.Title)
	}
	if item.Order != 0 {
		t.Errorf("expected default order 0, got %d", item.Order)
	}

	// Next item gets the next order slot
	second, err := f.service.CreateItem(f.event.ID, f.member.ID, CreateItemInput{
		Title:     "Dinner",
		StartTime: start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.Order != 1 {
		t.Errorf("expected order 1, got %d", second.Order)
	}
}

func TestTimelineService_CreateItem_Validation(t *testing.T) {
	f := newTimelineFixture(t)
	start := time.Now()
	before := start.Add(-time.Hour)

	if _, err := f.service.CreateItem(f.event.ID, f.member.ID, CreateItemInput{
		Title: "  ", StartTime: start,
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("empty title: expected ErrInvalidInput, got %v", err)
	}

	if _, err := f.service.CreateItem(f.event.ID, f.member.ID, CreateItemInput{
		Title: "Flight", StartTime: start, EndTime: &before,
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("end before start: expected ErrInvalidInput, got %v", err)
	}
}

func TestTimelineService_UpdateItem(t *testing.T) {
	f := newTimelineFixture(t)
	start := time.Now()
	end := start.Add(time.Hour)

	item, err := f.service.CreateItem(f.event.ID, f.member.ID, CreateItemInput{
		Title: "Hike", StartTime: start, EndTime: &end,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	completed := true
	updated, err := f.service.UpdateItem(f.event.ID, item.ID, f.member.ID, &domain.TimelineItemUpdate{
		Completed:    &completed,
		ClearEndTime: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !updated.Completed {
		t.Error("expected item marked completed")
	}
	if updated.EndTime != nil {
		t.Error("expected end time cleared")
	}
}

func TestTimelineService_UpdateItem_WrongEvent(t *testing.T) {
	f := newTimelineFixture(t)

	other := &domain.Event{ID: uuid.New(), Name: "Other"}
	f.eventRepo.AddEvent(other)
	f.eventRepo.AddEventMember(&domain.EventMember{
		ID: uuid.New(), EventID: other.ID, UserID: f.member.ID, Role: domain.RoleOwner,
	})

	item, err := f.service.CreateItem(f.event.ID, f.member.ID, CreateItemInput{
		Title: "Hike", StartTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Item belongs to f.event, not other
	_, err = f.service.UpdateItem(other.ID, item.ID, f.member.ID, &domain.TimelineItemUpdate{})
	if !errors.Is(err, domain.ErrTimelineItemNotFound) {
		t.Errorf("expected ErrTimelineItemNotFound, got %v", err)
	}
}

func TestTimelineService_DeleteItem(t *testing.T) {
	f := newTimelineFixture(t)

	item, err := f.service.CreateItem(f.event.ID, f.member.ID, CreateItemInput{
		Title: "Hike", StartTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := f.service.DeleteItem(f.event.ID, item.ID, f.member.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := f.service.DeleteItem(f.event.ID, item.ID, f.member.ID); !errors.Is(err, domain.ErrTimelineItemNotFound) {
		t.Errorf("expected ErrTimelineItemNotFound, got %v", err)
	}
}

func TestTimelineService_ReorderItems(t *testing.T) {
	f := newTimelineFixture(t)
	start := time.Now()

	first, err := f.service.CreateItem(f.event.ID, f.member.ID, CreateItemInput{Title: "A", StartTime: start})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := f.service.CreateItem(f.event.ID, f.member.ID, CreateItemInput{Title: "B", StartTime: start})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = f.service.ReorderItems(f.event.ID, f.member.ID, []domain.ItemOrder{
		{ID: first.ID, Order: 1},
		{ID: second.ID, Order: 0},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	updatedFirst, _ := f.repo.GetItemByID(first.ID)
	updatedSecond, _ := f.repo.GetItemByID(second.ID)
	if updatedFirst.Order != 1 || updatedSecond.Order != 0 {
		t.Errorf("expected swapped orders, got %d and %d", updatedFirst.Order, updatedSecond.Order)
	}

	// Foreign item id is rejected
	_, err = f.service.ReorderItems(f.event.ID, f.member.ID, []domain.ItemOrder{
		{ID: uuid.New(), Order: 5},
	})
	if !errors.Is(err, domain.ErrTimelineItemNotFound) {
		t.Errorf("expected ErrTimelineItemNotFound, got %v", err)
	}
}
