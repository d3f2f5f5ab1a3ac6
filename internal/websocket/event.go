package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeDeleted  EventType = "deleted"
	EventTypeSettled  EventType = "settled"
	EventTypeComputed EventType = "computed"
	EventTypeJoined   EventType = "joined"
	EventTypeLeft     EventType = "left"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeExpense      EntityType = "expense"
	EntityTypeSplit        EntityType = "split"
	EntityTypeSettlement   EntityType = "settlement"
	EntityTypeMember       EntityType = "member"
	EntityTypeTimelineItem EntityType = "timeline_item"
	EntityTypeNote         EntityType = "note"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "expense"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// SplitSettled creates a split.settled event
func SplitSettled(payload interface{}) Event {
	return NewEvent(EventTypeSettled, EntityTypeSplit, payload)
}

// SettlementComputed creates a settlement.computed event
func SettlementComputed(payload interface{}) Event {
	return NewEvent(EventTypeComputed, EntityTypeSettlement, payload)
}

// MemberJoined creates a member.joined event
func MemberJoined(payload interface{}) Event {
	return NewEvent(EventTypeJoined, EntityTypeMember, payload)
}

// MemberLeft creates a member.left event
func MemberLeft(payload interface{}) Event {
	return NewEvent(EventTypeLeft, EntityTypeMember, payload)
}

// TimelineItemCreated creates a timeline_item.created event
func TimelineItemCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTimelineItem, payload)
}

// TimelineItemUpdated creates a timeline_item.updated event
func TimelineItemUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTimelineItem, payload)
}

// TimelineItemDeleted creates a timeline_item.deleted event
func TimelineItemDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTimelineItem, payload)
}

// NoteCreated creates a note.created event
func NoteCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeNote, payload)
}

// NoteDeleted creates a note.deleted event
func NoteDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeNote, payload)
}
