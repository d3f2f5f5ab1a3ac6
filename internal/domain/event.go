package domain

import (
	"time"

	"github.com/google/uuid"
)

type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleAdmin  MemberRole = "ADMIN"
	RoleMember MemberRole = "MEMBER"
)

type Event struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	StartAt     time.Time      `json:"startAt"`
	EndAt       time.Time      `json:"endAt"`
	CoverImage  *string        `json:"coverImage,omitempty"`
	Currency    string         `json:"currency"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Members     []*EventMember `json:"members,omitempty"`
}

type EventMember struct {
	ID       uuid.UUID  `json:"id"`
	EventID  uuid.UUID  `json:"eventId"`
	UserID   uuid.UUID  `json:"userId"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
	User     *User      `json:"user,omitempty"`
}

// EventUpdate carries the optional fields of an event update. Nil fields are
// left untouched.
type EventUpdate struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartAt     *time.Time `json:"startAt,omitempty"`
	EndAt       *time.Time `json:"endAt,omitempty"`
	CoverImage  *string    `json:"coverImage,omitempty"`
	Currency    *string    `json:"currency,omitempty"`
}

// RecentEvent is an event row in the admin statistics response.
type RecentEvent struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	MemberCount  int64     `json:"memberCount"`
	ExpenseCount int64     `json:"expenseCount"`
}

type EventRepository interface {
	Create(event *Event, ownerID uuid.UUID) (*Event, error)
	GetByID(id uuid.UUID) (*Event, error)
	GetByUserID(userID uuid.UUID) ([]*Event, error)
	Update(id uuid.UUID, update *EventUpdate) (*Event, error)
	Delete(id uuid.UUID) error
	AddMember(eventID, userID uuid.UUID, role MemberRole) (*EventMember, error)
	RemoveMember(eventID, userID uuid.UUID) error
	GetMembers(eventID uuid.UUID) ([]*EventMember, error)
	GetMemberRole(eventID, userID uuid.UUID) (MemberRole, error)
	IsMember(eventID, userID uuid.UUID) (bool, error)
	CountEvents() (int64, error)
	CountMembers() (int64, error)
	GetRecentEvents(limit int32) ([]*RecentEvent, error)
}
