package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is attached to exactly one parent: an event, an expense, or a
// timeline item.
type Note struct {
	ID             uuid.UUID  `json:"id"`
	Content        string     `json:"content"`
	AuthorID       uuid.UUID  `json:"authorId"`
	EventID        *uuid.UUID `json:"eventId,omitempty"`
	ExpenseID      *uuid.UUID `json:"expenseId,omitempty"`
	TimelineItemID *uuid.UUID `json:"timelineItemId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Author         *User      `json:"author,omitempty"`
}

// ValidateParent checks that exactly one parent reference is set.
func (n *Note) ValidateParent() error {
	count := 0
	if n.EventID != nil {
		count++
	}
	if n.ExpenseID != nil {
		count++
	}
	if n.TimelineItemID != nil {
		count++
	}
	if count != 1 {
		return ErrNoteParentRequired
	}
	return nil
}

type NoteRepository interface {
	Create(note *Note) (*Note, error)
	GetByID(id uuid.UUID) (*Note, error)
	GetByEventID(eventID uuid.UUID) ([]*Note, error)
	GetByExpenseID(expenseID uuid.UUID) ([]*Note, error)
	GetByTimelineItemID(itemID uuid.UUID) ([]*Note, error)
	Update(id uuid.UUID, content string) (*Note, error)
	Delete(id uuid.UUID) error
}
