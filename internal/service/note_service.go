package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/websocket"
)

// NoteService handles note business logic. A note hangs off exactly one
// parent: an event, an expense, or a timeline item.
type NoteService struct {
	noteRepo       domain.NoteRepository
	eventRepo      domain.EventRepository
	expenseRepo    domain.ExpenseRepository
	timelineRepo   domain.TimelineRepository
	eventPublisher websocket.EventPublisher
}

// NewNoteService creates a new NoteService
func NewNoteService(noteRepo domain.NoteRepository, eventRepo domain.EventRepository, expenseRepo domain.ExpenseRepository, timelineRepo domain.TimelineRepository) *NoteService {
	return &NoteService{
		noteRepo:     noteRepo,
		eventRepo:    eventRepo,
		expenseRepo:  expenseRepo,
		timelineRepo: timelineRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *NoteService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *NoteService) publishEvent(eventID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(eventID, event)
	}
}

// CreateNoteInput holds the input for creating a note. Exactly one parent
// reference must be set.
type CreateNoteInput struct {
	Content        string
	EventID        *uuid.UUID
	ExpenseID      *uuid.UUID
	TimelineItemID *uuid.UUID
}

// CreateNote creates a note authored by the caller
func (s *NoteService) CreateNote(userID uuid.UUID, input CreateNoteInput) (*domain.Note, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domain.ErrInvalidInput
	}

	note := &domain.Note{
		Content:        content,
		AuthorID:       userID,
		EventID:        input.EventID,
		ExpenseID:      input.ExpenseID,
		TimelineItemID: input.TimelineItemID,
	}
	if err := note.ValidateParent(); err != nil {
		return nil, err
	}

	eventID, err := s.resolveEvent(note)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(eventID, userID); err != nil {
		return nil, err
	}

	created, err := s.noteRepo.Create(note)
	if err != nil {
		return nil, err
	}

	s.publishEvent(eventID, websocket.NoteCreated(created))
	return created, nil
}

// GetEventNotes retrieves all notes attached directly to an event
func (s *NoteService) GetEventNotes(eventID, userID uuid.UUID) ([]*domain.Note, error) {
	if err := s.requireMember(eventID, userID); err != nil {
		return nil, err
	}
	return s.noteRepo.GetByEventID(eventID)
}

// GetExpenseNotes retrieves all notes attached to an expense
func (s *NoteService) GetExpenseNotes(expenseID, userID uuid.UUID) ([]*domain.Note, error) {
	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(expense.EventID, userID); err != nil {
		return nil, err
	}
	return s.noteRepo.GetByExpenseID(expenseID)
}

// GetTimelineItemNotes retrieves all notes attached to a timeline item
func (s *NoteService) GetTimelineItemNotes(itemID, userID uuid.UUID) ([]*domain.Note, error) {
	item, err := s.timelineRepo.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	timeline, err := s.timelineRepo.GetByID(item.TimelineID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(timeline.EventID, userID); err != nil {
		return nil, err
	}
	return s.noteRepo.GetByTimelineItemID(itemID)
}

// UpdateNote updates a note's content. Only the author may update.
func (s *NoteService) UpdateNote(noteID, userID uuid.UUID, content string) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != userID {
		return nil, domain.ErrNotMember
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.noteRepo.Update(noteID, content)
}

// DeleteNote deletes a note. Only the author may delete.
func (s *NoteService) DeleteNote(noteID, userID uuid.UUID) error {
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		return err
	}
	if note.AuthorID != userID {
		return domain.ErrNotMember
	}
	if err := s.noteRepo.Delete(noteID); err != nil {
		return err
	}

	if eventID, err := s.resolveEvent(note); err == nil {
		s.publishEvent(eventID, websocket.NoteDeleted(map[string]interface{}{
			"id": noteID,
		}))
	}
	return nil
}

// resolveEvent walks a note's parent reference back to its event
func (s *NoteService) resolveEvent(note *domain.Note) (uuid.UUID, error) {
	switch {
	case note.EventID != nil:
		if _, err := s.eventRepo.GetByID(*note.EventID); err != nil {
			return uuid.Nil, err
		}
		return *note.EventID, nil
	case note.ExpenseID != nil:
		expense, err := s.expenseRepo.GetByID(*note.ExpenseID)
		if err != nil {
			return uuid.Nil, err
		}
		return expense.EventID, nil
	case note.TimelineItemID != nil:
		item, err := s.timelineRepo.GetItemByID(*note.TimelineItemID)
		if err != nil {
			return uuid.Nil, err
		}
		timeline, err := s.timelineRepo.GetByID(item.TimelineID)
		if err != nil {
			return uuid.Nil, err
		}
		return timeline.EventID, nil
	}
	return uuid.Nil, domain.ErrNoteParentRequired
}

func (s *NoteService) requireMember(eventID, userID uuid.UUID) error {
	ok, err := s.eventRepo.IsMember(eventID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotMember
	}
	return nil
}
