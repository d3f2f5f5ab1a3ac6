package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfare/wayfare-backend/internal/domain"
)

// NoteRepository implements domain.NoteRepository using PostgreSQL
type NoteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

const noteColumns = "n.id, n.content, n.author_id, n.event_id, n.expense_id, n.timeline_item_id, n.created_at, n.updated_at"

func scanNote(row pgx.Row) (*domain.Note, error) {
	var n domain.Note
	var u domain.User
	err := row.Scan(&n.ID, &n.Content, &n.AuthorID, &n.EventID, &n.ExpenseID, &n.TimelineItemID,
		&n.CreatedAt, &n.UpdatedAt,
		&u.ID, &u.Email, &u.Name, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.Author = &u
	return &n, nil
}

// Create inserts a note
func (r *NoteRepository) Create(note *domain.Note) (*domain.Note, error) {
	ctx := context.Background()

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notes (content, author_id, event_id, expense_id, timeline_item_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		note.Content, note.AuthorID, note.EventID, note.ExpenseID, note.TimelineItemID).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a note with its author
func (r *NoteRepository) GetByID(id uuid.UUID) (*domain.Note, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+noteColumns+`, u.id, u.email, u.name, u.avatar, u.created_at, u.updated_at
		FROM notes n
		JOIN users u ON u.id = n.author_id
		WHERE n.id = $1`, id)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

func (r *NoteRepository) getByParent(column string, parentID uuid.UUID) ([]*domain.Note, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+noteColumns+`, u.id, u.email, u.name, u.avatar, u.created_at, u.updated_at
		FROM notes n
		JOIN users u ON u.id = n.author_id
		WHERE n.%s = $1
		ORDER BY n.created_at DESC`, column), parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// GetByEventID lists notes attached to an event, newest first
func (r *NoteRepository) GetByEventID(eventID uuid.UUID) ([]*domain.Note, error) {
	return r.getByParent("event_id", eventID)
}

// GetByExpenseID lists notes attached to an expense, newest first
func (r *NoteRepository) GetByExpenseID(expenseID uuid.UUID) ([]*domain.Note, error) {
	return r.getByParent("expense_id", expenseID)
}

// GetByTimelineItemID lists notes attached to a timeline item, newest first
func (r *NoteRepository) GetByTimelineItemID(itemID uuid.UUID) ([]*domain.Note, error) {
	return r.getByParent("timeline_item_id", itemID)
}

// Update replaces a note's content
func (r *NoteRepository) Update(id uuid.UUID, content string) (*domain.Note, error) {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE notes SET content = $2, updated_at = now() WHERE id = $1`, id, content)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNoteNotFound
	}
	return r.GetByID(id)
}

// Delete removes a note
func (r *NoteRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}
