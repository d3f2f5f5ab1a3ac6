package domain

import (
	"time"

	"github.com/google/uuid"
)

type Timeline struct {
	ID        uuid.UUID       `json:"id"`
	EventID   uuid.UUID       `json:"eventId"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Items     []*TimelineItem `json:"items,omitempty"`
}

type TimelineItem struct {
	ID          uuid.UUID  `json:"id"`
	TimelineID  uuid.UUID  `json:"timelineId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Order       int32      `json:"order"`
	Color       *string    `json:"color,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TimelineItemUpdate carries the optional fields of an item update. Nil
// fields are left untouched. ClearEndTime distinguishes "unset the end time"
// from "leave it alone".
type TimelineItemUpdate struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Location     *string    `json:"location,omitempty"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	ClearEndTime bool       `json:"-"`
	Order        *int32     `json:"order,omitempty"`
	Color        *string    `json:"color,omitempty"`
	Completed    *bool      `json:"completed,omitempty"`
}

// ItemOrder is one entry of a reorder request.
type ItemOrder struct {
	ID    uuid.UUID `json:"id"`
	Order int32     `json:"order"`
}

type TimelineRepository interface {
	Create(eventID uuid.UUID) (*Timeline, error)
	GetByID(id uuid.UUID) (*Timeline, error)
	GetByEventID(eventID uuid.UUID) (*Timeline, error)
	CreateItem(item *TimelineItem) (*TimelineItem, error)
	GetItemByID(id uuid.UUID) (*TimelineItem, error)
	UpdateItem(id uuid.UUID, update *TimelineItemUpdate) (*TimelineItem, error)
	DeleteItem(id uuid.UUID) error
	ReorderItems(orders []ItemOrder) error
}
