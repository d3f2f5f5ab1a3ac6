package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/websocket"
)

// TimelineService handles event timeline business logic
type TimelineService struct {
	timelineRepo   domain.TimelineRepository
	eventRepo      domain.EventRepository
	eventPublisher websocket.EventPublisher
}

// NewTimelineService creates a new TimelineService
func NewTimelineService(timelineRepo domain.TimelineRepository, eventRepo domain.EventRepository) *TimelineService {
	return &TimelineService{
		timelineRepo: timelineRepo,
		eventRepo:    eventRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TimelineService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TimelineService) publishEvent(eventID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(eventID, event)
	}
}

// GetTimeline retrieves the timeline for an event, creating it on first
// access. Each event has exactly one timeline.
func (s *TimelineService) GetTimeline(eventID, userID uuid.UUID) (*domain.Timeline, error) {
	if err := s.requireMember(eventID, userID); err != nil {
		return nil, err
	}

	timeline, err := s.timelineRepo.GetByEventID(eventID)
	if err == nil {
		return timeline, nil
	}
	if !errors.Is(err, domain.ErrTimelineNotFound) {
		return nil, err
	}

	timeline, err = s.timelineRepo.Create(eventID)
	if errors.Is(err, domain.ErrTimelineExists) {
		// Lost a create race, fetch the winner's timeline
		return s.timelineRepo.GetByEventID(eventID)
	}
	return timeline, err
}

// CreateItemInput holds the input for creating a timeline item
type CreateItemInput struct {
	Title       string
	Description *string
	Location    *string
	StartTime   time.Time
	EndTime     *time.Time
	Order       *int32
	Color       *string
}

// CreateItem adds an item to an event's timeline
func (s *TimelineService) CreateItem(eventID, userID uuid.UUID, input CreateItemInput) (*domain.TimelineItem, error) {
	timeline, err := s.GetTimeline(eventID, userID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.EndTime != nil && input.EndTime.Before(input.StartTime) {
		return nil, domain.ErrInvalidInput
	}

	order := int32(len(timeline.Items))
	if input.Order != nil {
		order = *input.Order
	}

	item := &domain.TimelineItem{
		TimelineID:  timeline.ID,
		Title:       title,
		Description: input.Description,
		Location:    input.Location,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Order:       order,
		Color:       input.Color,
	}
	created, err := s.timelineRepo.CreateItem(item)
	if err != nil {
		return nil, err
	}

	s.publishEvent(eventID, websocket.TimelineItemCreated(created))
	return created, nil
}

// UpdateItem updates a timeline item
func (s *TimelineService) UpdateItem(eventID, itemID, userID uuid.UUID, update *domain.TimelineItemUpdate) (*domain.TimelineItem, error) {
	if err := s.requireItemInEvent(eventID, itemID, userID); err != nil {
		return nil, err
	}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, domain.ErrInvalidInput
		}
		update.Title = &title
	}

	updated, err := s.timelineRepo.UpdateItem(itemID, update)
	if err != nil {
		return nil, err
	}

	s.publishEvent(eventID, websocket.TimelineItemUpdated(updated))
	return updated, nil
}

// DeleteItem deletes a timeline item
func (s *TimelineService) DeleteItem(eventID, itemID, userID uuid.UUID) error {
	if err := s.requireItemInEvent(eventID, itemID, userID); err != nil {
		return err
	}
	if err := s.timelineRepo.DeleteItem(itemID); err != nil {
		return err
	}

	s.publishEvent(eventID, websocket.TimelineItemDeleted(map[string]interface{}{
		"id":      itemID,
		"eventId": eventID,
	}))
	return nil
}

// ReorderItems applies new order values to an event's timeline items
func (s *TimelineService) ReorderItems(eventID, userID uuid.UUID, orders []domain.ItemOrder) (*domain.Timeline, error) {
	timeline, err := s.GetTimeline(eventID, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return timeline, nil
	}

	// Reject entries pointing at other timelines
	known := make(map[uuid.UUID]bool, len(timeline.Items))
	for _, item := range timeline.Items {
		known[item.ID] = true
	}
	for _, order := range orders {
		if !known[order.ID] {
			return nil, domain.ErrTimelineItemNotFound
		}
	}

	if err := s.timelineRepo.ReorderItems(orders); err != nil {
		return nil, err
	}
	timeline, err = s.timelineRepo.GetByEventID(eventID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(eventID, websocket.TimelineItemUpdated(timeline))
	return timeline, nil
}

func (s *TimelineService) requireItemInEvent(eventID, itemID, userID uuid.UUID) error {
	timeline, err := s.GetTimeline(eventID, userID)
	if err != nil {
		return err
	}
	item, err := s.timelineRepo.GetItemByID(itemID)
	if err != nil {
		return err
	}
	if item.TimelineID != timeline.ID {
		return domain.ErrTimelineItemNotFound
	}
	return nil
}

func (s *TimelineService) requireMember(eventID, userID uuid.UUID) error {
	ok, err := s.eventRepo.IsMember(eventID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotMember
	}
	return nil
}
