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

// TimelineRepository implements domain.TimelineRepository using PostgreSQL
type TimelineRepository struct {
	pool *pgxpool.Pool
}

// NewTimelineRepository creates a new TimelineRepository
func NewTimelineRepository(pool *pgxpool.Pool) *TimelineRepository {
	return &TimelineRepository{pool: pool}
}

const itemColumns = "id, timeline_id, title, description, location, start_time, end_time, item_order, color, completed, created_at, updated_at"

func scanItem(row pgx.Row) (*domain.TimelineItem, error) {
	var it domain.TimelineItem
	err := row.Scan(&it.ID, &it.TimelineID, &it.Title, &it.Description, &it.Location,
		&it.StartTime, &it.EndTime, &it.Order, &it.Color, &it.Completed, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserts a timeline for an event; one timeline per event
func (r *TimelineRepository) Create(eventID uuid.UUID) (*domain.Timeline, error) {
	ctx := context.Background()

	var t domain.Timeline
	err := r.pool.QueryRow(ctx, `
		INSERT INTO timelines (event_id)
		VALUES ($1)
		RETURNING id, event_id, created_at, updated_at`, eventID).
		Scan(&t.ID, &t.EventID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domain.ErrTimelineExists
			case "23503":
				return nil, domain.ErrEventNotFound
			}
		}
		return nil, err
	}
	return &t, nil
}

// GetByID retrieves a timeline with its items ordered for display
func (r *TimelineRepository) GetByID(id uuid.UUID) (*domain.Timeline, error) {
	ctx := context.Background()

	var t domain.Timeline
	err := r.pool.QueryRow(ctx, `
		SELECT id, event_id, created_at, updated_at FROM timelines WHERE id = $1`, id).
		Scan(&t.ID, &t.EventID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTimelineNotFound
		}
		return nil, err
	}

	t.Items, err = r.getItems(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByEventID retrieves the event's timeline with its items
func (r *TimelineRepository) GetByEventID(eventID uuid.UUID) (*domain.Timeline, error) {
	ctx := context.Background()

	var t domain.Timeline
	err := r.pool.QueryRow(ctx, `
		SELECT id, event_id, created_at, updated_at FROM timelines WHERE event_id = $1`, eventID).
		Scan(&t.ID, &t.EventID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTimelineNotFound
		}
		return nil, err
	}

	t.Items, err = r.getItems(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TimelineRepository) getItems(ctx context.Context, timelineID uuid.UUID) ([]*domain.TimelineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+` FROM timeline_items
		WHERE timeline_id = $1
		ORDER BY start_time, item_order, id`, timelineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.TimelineItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateItem inserts a timeline item
func (r *TimelineRepository) CreateItem(item *domain.TimelineItem) (*domain.TimelineItem, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO timeline_items (timeline_id, title, description, location, start_time, end_time, item_order, color, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+itemColumns,
		item.TimelineID, item.Title, item.Description, item.Location,
		item.StartTime, item.EndTime, item.Order, item.Color, item.Completed)

	created, err := scanItem(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domain.ErrTimelineNotFound
		}
		return nil, err
	}
	return created, nil
}

// GetItemByID retrieves a timeline item
func (r *TimelineRepository) GetItemByID(id uuid.UUID) (*domain.TimelineItem, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM timeline_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTimelineItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// UpdateItem applies the non-nil fields of the update. ClearEndTime unsets
// the end time explicitly, since a nil EndTime means "leave unchanged".
func (r *TimelineRepository) UpdateItem(id uuid.UUID, update *domain.TimelineItemUpdate) (*domain.TimelineItem, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE timeline_items
		SET title       = COALESCE($2, title),
		    description = COALESCE($3, description),
		    location    = COALESCE($4, location),
		    start_time  = COALESCE($5, start_time),
		    end_time    = CASE WHEN $6 THEN NULL ELSE COALESCE($7, end_time) END,
		    item_order  = COALESCE($8, item_order),
		    color       = COALESCE($9, color),
		    completed   = COALESCE($10, completed),
		    updated_at  = now()
		WHERE id = $1
		RETURNING `+itemColumns,
		id, update.Title, update.Description, update.Location, update.StartTime,
		update.ClearEndTime, update.EndTime, update.Order, update.Color, update.Completed)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTimelineItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a timeline item
func (r *TimelineRepository) DeleteItem(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM timeline_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTimelineItemNotFound
	}
	return nil
}

// ReorderItems updates item ordering in one transaction
func (r *TimelineRepository) ReorderItems(orders []domain.ItemOrder) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, o := range orders {
		tag, err := tx.Exec(ctx, `
			UPDATE timeline_items SET item_order = $2, updated_at = now() WHERE id = $1`,
			o.ID, o.Order)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrTimelineItemNotFound
		}
	}

	return tx.Commit(ctx)
}
