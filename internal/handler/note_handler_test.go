package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/service"
	"github.com/wayfare/wayfare-backend/internal/testutil"
)

type noteHandlerFixture struct {
	handler  *NoteHandler
	noteRepo *testutil.MockNoteRepository
	event    *domain.Event
	member   *domain.User
}

func newNoteHandlerFixture(t *testing.T) *noteHandlerFixture {
	t.Helper()
	eventRepo := testutil.NewMockEventRepository()
	noteRepo := testutil.NewMockNoteRepository()

	member := &domain.User{ID: uuid.New(), Email: "alice@example.com"}
	event := &domain.Event{ID: uuid.New(), Name: "Trip", Currency: "USD"}
	eventRepo.AddEvent(event)
	eventRepo.AddEventMember(&domain.EventMember{
		ID: uuid.New(), EventID: event.ID, UserID: member.ID, Role: domain.RoleMember, User: member,
	})

	noteService := service.NewNoteService(noteRepo, eventRepo, testutil.NewMockExpenseRepository(), testutil.NewMockTimelineRepository())
	return &noteHandlerFixture{
		handler:  NewNoteHandler(noteService),
		noteRepo: noteRepo,
		event:    event,
		member:   member,
	}
}

func TestNoteHandler_CreateNote(t *testing.T) {
	f := newNoteHandlerFixture(t)

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/notes", CreateNoteRequest{
		Content: "Don't forget sunscreen",
		EventID: &f.event.ID,
	}, f.member.ID)

	if err := f.handler.CreateNote(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var note domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &note); err != nil {
		t.Fatalf("failed to unmarshal note: %v", err)
	}
	if note.AuthorID != f.member.ID {
		t.Errorf("expected author %s, got %s", f.member.ID, note.AuthorID)
	}
}

func TestNoteHandler_CreateNote_NoParent(t *testing.T) {
	f := newNoteHandlerFixture(t)

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/notes", CreateNoteRequest{Content: "orphan"}, f.member.ID)

	if err := f.handler.CreateNote(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestNoteHandler_GetNotes_ByEvent(t *testing.T) {
	f := newNoteHandlerFixture(t)
	f.noteRepo.AddNote(&domain.Note{
		ID: uuid.New(), Content: "packing list", AuthorID: f.member.ID, EventID: &f.event.ID,
	})

	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/notes?eventId="+f.event.ID.String(), nil, f.member.ID)

	if err := f.handler.GetNotes(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var notes []*domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &notes); err != nil {
		t.Fatalf("failed to unmarshal notes: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("expected 1 note, got %d", len(notes))
	}
}

func TestNoteHandler_GetNotes_MissingParent(t *testing.T) {
	f := newNoteHandlerFixture(t)

	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/notes", nil, f.member.ID)

	if err := f.handler.GetNotes(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestNoteHandler_UpdateNote_AuthorOnly(t *testing.T) {
	f := newNoteHandlerFixture(t)

	note := &domain.Note{ID: uuid.New(), Content: "draft", AuthorID: f.member.ID, EventID: &f.event.ID}
	f.noteRepo.AddNote(note)

	c, rec := newRequestContext(t, http.MethodPut, "/api/v1/notes/"+note.ID.String(), UpdateNoteRequest{Content: "final"}, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(note.ID.String())

	if err := f.handler.UpdateNote(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}
