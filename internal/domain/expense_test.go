package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestExpense_ValidateSplits(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		splits  []decimal.Decimal
		wantErr error
	}{
		{"exact match", decimal.NewFromInt(100), []decimal.Decimal{decimal.NewFromInt(60), decimal.NewFromInt(40)}, nil},
		{"within tolerance", decimal.NewFromInt(100), []decimal.Decimal{decimal.NewFromFloat(33.33), decimal.NewFromFloat(33.33), decimal.NewFromFloat(33.33)}, nil},
		{"beyond tolerance", decimal.NewFromInt(100), []decimal.Decimal{decimal.NewFromInt(60), decimal.NewFromInt(30)}, ErrSplitSumMismatch},
		{"no splits", decimal.NewFromInt(100), nil, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expense := &Expense{Amount: tt.amount}
			for _, amount := range tt.splits {
				expense.Splits = append(expense.Splits, &ExpenseSplit{ID: uuid.New(), Amount: amount})
			}
			err := expense.ValidateSplits()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSplits() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpense_SplitsTotal(t *testing.T) {
	expense := &Expense{
		Splits: []*ExpenseSplit{
			{Amount: decimal.NewFromFloat(12.50)},
			{Amount: decimal.NewFromFloat(7.25)},
		},
	}
	if !expense.SplitsTotal().Equal(decimal.NewFromFloat(19.75)) {
		t.Errorf("SplitsTotal() = %s, want 19.75", expense.SplitsTotal())
	}
}
