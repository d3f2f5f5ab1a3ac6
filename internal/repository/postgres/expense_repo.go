package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wayfare/wayfare-backend/internal/domain"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = "id, event_id, paid_by_user_id, amount, currency, title, description, category, date, location, created_at, updated_at"

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var amount pgtype.Numeric
	err := row.Scan(&e.ID, &e.EventID, &e.PaidByUserID, &amount, &e.Currency, &e.Title,
		&e.Description, &e.Category, &e.Date, &e.Location, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	return &e, nil
}

// Create inserts an expense and all of its splits in one transaction
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO expenses (event_id, paid_by_user_id, amount, currency, title, description, category, date, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+expenseColumns,
		expense.EventID, expense.PaidByUserID, amount, expense.Currency, expense.Title,
		expense.Description, expense.Category, expense.Date, expense.Location)

	created, err := scanExpense(row)
	if err != nil {
		return nil, err
	}

	for _, split := range expense.Splits {
		splitAmount, err := decimalToPgNumeric(split.Amount)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO expense_splits (expense_id, user_id, amount)
			VALUES ($1, $2, $3)`,
			created.ID, split.UserID, splitAmount)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByID(created.ID)
}

// GetByID retrieves an expense with its splits and payer
func (r *ExpenseRepository) GetByID(id uuid.UUID) (*domain.Expense, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	if err := r.attachRelations(ctx, []*domain.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// GetByEventID retrieves all expenses for an event with splits, newest first
func (r *ExpenseRepository) GetByEventID(eventID uuid.UUID) ([]*domain.Expense, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+` FROM expenses WHERE event_id = $1 ORDER BY date DESC, created_at DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachRelations(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// attachRelations loads splits and payers for the given expenses
func (r *ExpenseRepository) attachRelations(ctx context.Context, expenses []*domain.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Expense, len(expenses))
	ids := make([]uuid.UUID, 0, len(expenses))
	for _, e := range expenses {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.expense_id, s.user_id, s.amount, s.settled, s.settled_at,
		       u.id, u.email, u.name, u.avatar, u.created_at, u.updated_at
		FROM expense_splits s
		JOIN users u ON u.id = s.user_id
		WHERE s.expense_id = ANY($1)
		ORDER BY s.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.ExpenseSplit
		var u domain.User
		var amount pgtype.Numeric
		err := rows.Scan(&s.ID, &s.ExpenseID, &s.UserID, &amount, &s.Settled, &s.SettledAt,
			&u.ID, &u.Email, &u.Name, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return err
		}
		s.Amount = pgNumericToDecimal(amount)
		s.User = &u
		byID[s.ExpenseID].Splits = append(byID[s.ExpenseID].Splits, &s)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	payerRows, err := r.pool.Query(ctx, `
		SELECT e.id, u.id, u.email, u.name, u.avatar, u.created_at, u.updated_at
		FROM expenses e
		JOIN users u ON u.id = e.paid_by_user_id
		WHERE e.id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer payerRows.Close()

	for payerRows.Next() {
		var expenseID uuid.UUID
		var u domain.User
		err := payerRows.Scan(&expenseID, &u.ID, &u.Email, &u.Name, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return err
		}
		byID[expenseID].PaidBy = &u
	}
	return payerRows.Err()
}

// Update applies the non-nil fields of the update
func (r *ExpenseRepository) Update(id uuid.UUID, update *domain.ExpenseUpdate) (*domain.Expense, error) {
	ctx := context.Background()

	var amount *pgtype.Numeric
	if update.Amount != nil {
		num, err := decimalToPgNumeric(*update.Amount)
		if err != nil {
			return nil, err
		}
		amount = &num
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET amount      = COALESCE($2, amount),
		    title       = COALESCE($3, title),
		    description = COALESCE($4, description),
		    category    = COALESCE($5, category),
		    date        = COALESCE($6, date),
		    location    = COALESCE($7, location),
		    updated_at  = now()
		WHERE id = $1
		RETURNING `+expenseColumns,
		id, amount, update.Title, update.Description, update.Category, update.Date, update.Location)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	if err := r.attachRelations(ctx, []*domain.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete removes an expense; its splits cascade
func (r *ExpenseRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// GetSplitByID retrieves a single split
func (r *ExpenseRepository) GetSplitByID(id uuid.UUID) (*domain.ExpenseSplit, error) {
	ctx := context.Background()

	var s domain.ExpenseSplit
	var amount pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT id, expense_id, user_id, amount, settled, settled_at
		FROM expense_splits WHERE id = $1`, id).
		Scan(&s.ID, &s.ExpenseID, &s.UserID, &amount, &s.Settled, &s.SettledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSplitNotFound
		}
		return nil, err
	}
	s.Amount = pgNumericToDecimal(amount)
	return &s, nil
}

// MarkSplitSettled sets or clears the settled flag, stamping settled_at
func (r *ExpenseRepository) MarkSplitSettled(id uuid.UUID, settled bool) (*domain.ExpenseSplit, error) {
	ctx := context.Background()

	var s domain.ExpenseSplit
	var amount pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		UPDATE expense_splits
		SET settled = $2,
		    settled_at = CASE WHEN $2 THEN now() ELSE NULL END
		WHERE id = $1
		RETURNING id, expense_id, user_id, amount, settled, settled_at`,
		id, settled).
		Scan(&s.ID, &s.ExpenseID, &s.UserID, &amount, &s.Settled, &s.SettledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSplitNotFound
		}
		return nil, err
	}
	s.Amount = pgNumericToDecimal(amount)
	return &s, nil
}

// GetUnsettledSplitsByUser lists a user's open debts across all events
func (r *ExpenseRepository) GetUnsettledSplitsByUser(userID uuid.UUID) ([]*domain.ExpenseSplit, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.expense_id, s.user_id, s.amount, s.settled, s.settled_at
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE s.user_id = $1 AND s.settled = FALSE
		ORDER BY e.date DESC, s.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var splits []*domain.ExpenseSplit
	for rows.Next() {
		var s domain.ExpenseSplit
		var amount pgtype.Numeric
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.UserID, &amount, &s.Settled, &s.SettledAt); err != nil {
			return nil, err
		}
		s.Amount = pgNumericToDecimal(amount)
		splits = append(splits, &s)
	}
	return splits, rows.Err()
}

// CountExpenses returns the total number of expenses
func (r *ExpenseRepository) CountExpenses() (int64, error) {
	ctx := context.Background()

	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SumExpenses returns the sum of all expense amounts
func (r *ExpenseRepository) SumExpenses() (decimal.Decimal, error) {
	ctx := context.Background()

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM expenses`).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(sum), nil
}
