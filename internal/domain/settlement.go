package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement is a recommended payment from one member to another.
type Settlement struct {
	From     uuid.UUID       `json:"from"`
	To       uuid.UUID       `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// UserBalance is one member's net position after all expenses. Positive means
// the group owes them, negative means they owe the group.
type UserBalance struct {
	UserID     uuid.UUID       `json:"userId"`
	UserName   string          `json:"userName"`
	UserAvatar *string         `json:"userAvatar,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
	Currency   string          `json:"currency"`
}

// SettlementSummary is the result of one settlement computation for an event.
type SettlementSummary struct {
	Settlements   []Settlement    `json:"settlements"`
	Balances      []UserBalance   `json:"balances"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Currency      string          `json:"currency"`
}
