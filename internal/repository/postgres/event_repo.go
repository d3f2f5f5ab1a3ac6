package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfare/wayfare-backend/internal/domain"
)

// EventRepository implements domain.EventRepository using PostgreSQL
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = "id, name, description, start_at, end_at, cover_image, currency, created_at, updated_at"

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.StartAt, &e.EndAt, &e.CoverImage, &e.Currency, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event and adds the creator as its owner, atomically.
func (r *EventRepository) Create(event *domain.Event, ownerID uuid.UUID) (*domain.Event, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO events (name, description, start_at, end_at, cover_image, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+eventColumns,
		event.Name, event.Description, event.StartAt, event.EndAt, event.CoverImage, event.Currency)

	created, err := scanEvent(row)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO event_members (event_id, user_id, role)
		VALUES ($1, $2, $3)`,
		created.ID, ownerID, domain.RoleOwner)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	created.Members, err = r.GetMembers(created.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves an event with its members
func (r *EventRepository) GetByID(id uuid.UUID) (*domain.Event, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	event.Members, err = r.GetMembers(id)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// GetByUserID retrieves all events the user is a member of, newest first
func (r *EventRepository) GetByUserID(userID uuid.UUID) ([]*domain.Event, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.name, e.description, e.start_at, e.end_at, e.cover_image, e.currency, e.created_at, e.updated_at
		FROM events e
		JOIN event_members m ON m.event_id = e.id
		WHERE m.user_id = $1
		ORDER BY e.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Update applies the non-nil fields of the update
func (r *EventRepository) Update(id uuid.UUID, update *domain.EventUpdate) (*domain.Event, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE events
		SET name        = COALESCE($2, name),
		    description = COALESCE($3, description),
		    start_at    = COALESCE($4, start_at),
		    end_at      = COALESCE($5, end_at),
		    cover_image = COALESCE($6, cover_image),
		    currency    = COALESCE($7, currency),
		    updated_at  = now()
		WHERE id = $1
		RETURNING `+eventColumns,
		id, update.Name, update.Description, update.StartAt, update.EndAt, update.CoverImage, update.Currency)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	event.Members, err = r.GetMembers(id)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event; members, expenses, timeline and notes cascade
func (r *EventRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// AddMember adds a user to an event
func (r *EventRepository) AddMember(eventID, userID uuid.UUID, role domain.MemberRole) (*domain.EventMember, error) {
	ctx := context.Background()

	var m domain.EventMember
	err := r.pool.QueryRow(ctx, `
		INSERT INTO event_members (event_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, event_id, user_id, role, joined_at`,
		eventID, userID, role).Scan(&m.ID, &m.EventID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domain.ErrAlreadyMember
			case "23503":
				return nil, domain.ErrEventNotFound
			}
		}
		return nil, err
	}
	return &m, nil
}

// RemoveMember removes a user from an event
func (r *EventRepository) RemoveMember(eventID, userID uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM event_members WHERE event_id = $1 AND user_id = $2`,
		eventID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotMember
	}
	return nil
}

// GetMembers lists an event's members with their users, in join order
func (r *EventRepository) GetMembers(eventID uuid.UUID) ([]*domain.EventMember, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.event_id, m.user_id, m.role, m.joined_at,
		       u.id, u.email, u.name, u.avatar, u.created_at, u.updated_at
		FROM event_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.event_id = $1
		ORDER BY m.joined_at, m.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.EventMember
	for rows.Next() {
		var m domain.EventMember
		var u domain.User
		err := rows.Scan(&m.ID, &m.EventID, &m.UserID, &m.Role, &m.JoinedAt,
			&u.ID, &u.Email, &u.Name, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, err
		}
		m.User = &u
		members = append(members, &m)
	}
	return members, rows.Err()
}

// GetMemberRole returns the user's role in the event
func (r *EventRepository) GetMemberRole(eventID, userID uuid.UUID) (domain.MemberRole, error) {
	ctx := context.Background()

	var role domain.MemberRole
	err := r.pool.QueryRow(ctx, `
		SELECT role FROM event_members WHERE event_id = $1 AND user_id = $2`,
		eventID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotMember
		}
		return "", err
	}
	return role, nil
}

// IsMember reports whether the user belongs to the event
func (r *EventRepository) IsMember(eventID, userID uuid.UUID) (bool, error) {
	ctx := context.Background()

	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM event_members WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CountEvents returns the total number of events
func (r *EventRepository) CountEvents() (int64, error) {
	ctx := context.Background()

	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountMembers returns the total number of event memberships
func (r *EventRepository) CountMembers() (int64, error) {
	ctx := context.Background()

	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM event_members`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetRecentEvents returns the most recently created events with their
// member and expense counts
func (r *EventRepository) GetRecentEvents(limit int32) ([]*domain.RecentEvent, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.name, e.created_at,
		       (SELECT COUNT(*) FROM event_members m WHERE m.event_id = e.id),
		       (SELECT COUNT(*) FROM expenses x WHERE x.event_id = e.id)
		FROM events e
		ORDER BY e.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.RecentEvent
	for rows.Next() {
		var e domain.RecentEvent
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt, &e.MemberCount, &e.ExpenseCount); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
