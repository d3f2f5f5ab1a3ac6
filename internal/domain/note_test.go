package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNote_ValidateParent(t *testing.T) {
	eventID := uuid.New()
	expenseID := uuid.New()

	tests := []struct {
		name    string
		note    Note
		wantErr error
	}{
		{"event parent", Note{EventID: &eventID}, nil},
		{"expense parent", Note{ExpenseID: &expenseID}, nil},
		{"no parent", Note{}, ErrNoteParentRequired},
		{"two parents", Note{EventID: &eventID, ExpenseID: &expenseID}, ErrNoteParentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.note.ValidateParent(); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateParent() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUser_DisplayName(t *testing.T) {
	name := "Alice"
	empty := ""

	tests := []struct {
		name string
		user User
		want string
	}{
		{"with name", User{Email: "alice@example.com", Name: &name}, "Alice"},
		{"empty name falls back to email", User{Email: "alice@example.com", Name: &empty}, "alice@example.com"},
		{"nil name falls back to email", User{Email: "alice@example.com"}, "alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %s, want %s", got, tt.want)
			}
		})
	}
}
