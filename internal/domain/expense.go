package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitTolerance is the maximum allowed difference between an expense amount
// and the sum of its split amounts, in currency units.
var SplitTolerance = decimal.New(1, -2) // 0.01

type Expense struct {
	ID           uuid.UUID       `json:"id"`
	EventID      uuid.UUID       `json:"eventId"`
	PaidByUserID uuid.UUID       `json:"paidByUserId"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Title        string          `json:"title"`
	Description  *string         `json:"description,omitempty"`
	Category     *string         `json:"category,omitempty"`
	Date         time.Time       `json:"date"`
	Location     *string         `json:"location,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Splits       []*ExpenseSplit `json:"splits,omitempty"`
	PaidBy       *User           `json:"paidBy,omitempty"`
}

type ExpenseSplit struct {
	ID        uuid.UUID       `json:"id"`
	ExpenseID uuid.UUID       `json:"expenseId"`
	UserID    uuid.UUID       `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	Settled   bool            `json:"settled"`
	SettledAt *time.Time      `json:"settledAt,omitempty"`
	User      *User           `json:"user,omitempty"`
}

// SplitsTotal returns the sum of all split amounts.
func (e *Expense) SplitsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Splits {
		total = total.Add(s.Amount)
	}
	return total
}

// ValidateSplits checks that the expense's splits reconcile to its amount
// within SplitTolerance.
func (e *Expense) ValidateSplits() error {
	if len(e.Splits) == 0 {
		return ErrInvalidInput
	}
	diff := e.SplitsTotal().Sub(e.Amount).Abs()
	if diff.GreaterThan(SplitTolerance) {
		return ErrSplitSumMismatch
	}
	return nil
}

// ExpenseUpdate carries the optional fields of an expense update. Nil fields
// are left untouched. Splits are managed through their own operations.
type ExpenseUpdate struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	Location    *string          `json:"location,omitempty"`
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(id uuid.UUID) (*Expense, error)
	GetByEventID(eventID uuid.UUID) ([]*Expense, error)
	Update(id uuid.UUID, update *ExpenseUpdate) (*Expense, error)
	Delete(id uuid.UUID) error
	GetSplitByID(id uuid.UUID) (*ExpenseSplit, error)
	MarkSplitSettled(id uuid.UUID, settled bool) (*ExpenseSplit, error)
	GetUnsettledSplitsByUser(userID uuid.UUID) ([]*ExpenseSplit, error)
	CountExpenses() (int64, error)
	SumExpenses() (decimal.Decimal, error)
}
