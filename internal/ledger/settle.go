// Package ledger computes settlement plans for shared expenses. It is a pure
// library: no I/O, no shared state, safe for concurrent use. Callers load an
// event's roster and expenses, map them onto the value types here, and get
// back per-member balances plus a minimal list of transfers that discharges
// all outstanding debts.
package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Input errors. All of them fail the whole computation; the engine never
// returns a partial settlement plan.
var (
	ErrSplitSumMismatch  = errors.New("ledger: split amounts do not sum to expense amount")
	ErrUnknownMember     = errors.New("ledger: expense references member outside the roster")
	ErrNonPositiveAmount = errors.New("ledger: amounts must be strictly positive")
	ErrNoSplits          = errors.New("ledger: expense has no splits")
)

// tolerance absorbs rounding noise from repeated decimal arithmetic.
// Balances within tolerance of zero are treated as settled.
var tolerance = decimal.New(1, -2) // 0.01

// Member is a roster entry. Every member gets a balance, even with no
// expenses or splits.
type Member struct {
	ID uuid.UUID
}

// Expense is a single cost fronted by one member on behalf of the group.
type Expense struct {
	ID       uuid.UUID
	Amount   decimal.Decimal
	Currency string
	PaidBy   uuid.UUID
	Splits   []Split
}

// Split is the portion of an expense attributed to one member. Settled
// splits were paid back out-of-band and never contribute to balances.
type Split struct {
	MemberID uuid.UUID
	Amount   decimal.Decimal
	Settled  bool
}

// Balance is one member's net position. Positive means the group owes them.
type Balance struct {
	MemberID uuid.UUID
	Amount   decimal.Decimal
}

// Transfer is a recommended payment from a debtor to a creditor.
type Transfer struct {
	From     uuid.UUID
	To       uuid.UUID
	Amount   decimal.Decimal
	Currency string
}

// Summary is the result of one settlement run. Balances appear in roster
// order, one per member, rounded to 2 decimal places.
type Summary struct {
	Transfers     []Transfer
	Balances      []Balance
	TotalExpenses decimal.Decimal
	Currency      string
}

// Settle computes net balances and a minimal transfer plan for the given
// roster and expenses. The currency is taken from the first expense, falling
// back to defaultCurrency when there are none; a single settlement run is
// assumed to be single-currency.
//
// The run is deterministic for a fixed input order: balances keep roster
// order, and the greedy matching pairs creditors and debtors in the order
// they appear there.
func Settle(members []Member, expenses []Expense, defaultCurrency string) (*Summary, error) {
	if err := validate(members, expenses); err != nil {
		return nil, err
	}

	currency := defaultCurrency
	if len(expenses) > 0 {
		currency = expenses[0].Currency
	}

	// Accumulate at full precision, keyed by member with roster order kept
	// alongside so output ordering never depends on map iteration.
	order := make([]uuid.UUID, 0, len(members))
	balances := make(map[uuid.UUID]decimal.Decimal, len(members))
	for _, m := range members {
		if _, ok := balances[m.ID]; ok {
			continue
		}
		order = append(order, m.ID)
		balances[m.ID] = decimal.Zero
	}

	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Amount)
		balances[exp.PaidBy] = balances[exp.PaidBy].Add(exp.Amount)
		for _, split := range exp.Splits {
			if split.Settled {
				continue
			}
			balances[split.MemberID] = balances[split.MemberID].Sub(split.Amount)
		}
	}

	// Partition into creditors and debtors, preserving roster order.
	type party struct {
		id        uuid.UUID
		remaining decimal.Decimal
	}
	var creditors, debtors []party
	for _, id := range order {
		b := balances[id]
		switch {
		case b.GreaterThan(tolerance):
			creditors = append(creditors, party{id: id, remaining: b})
		case b.LessThan(tolerance.Neg()):
			debtors = append(debtors, party{id: id, remaining: b.Neg()})
		}
	}

	// Two-cursor greedy match. Each step extinguishes at least one side, so
	// at most creditors+debtors-1 transfers are emitted.
	var transfers []Transfer
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := decimal.Min(creditor.remaining, debtor.remaining)
		transfers = append(transfers, Transfer{
			From:     debtor.id,
			To:       creditor.id,
			Amount:   amount.Round(2),
			Currency: currency,
		})

		creditor.remaining = creditor.remaining.Sub(amount)
		debtor.remaining = debtor.remaining.Sub(amount)

		if creditor.remaining.LessThan(tolerance) {
			i++
		}
		if debtor.remaining.LessThan(tolerance) {
			j++
		}
	}

	out := make([]Balance, 0, len(order))
	for _, id := range order {
		out = append(out, Balance{MemberID: id, Amount: balances[id].Round(2)})
	}

	return &Summary{
		Transfers:     transfers,
		Balances:      out,
		TotalExpenses: total.Round(2),
		Currency:      currency,
	}, nil
}

// validate rejects malformed input before any accumulation happens.
func validate(members []Member, expenses []Expense) error {
	roster := make(map[uuid.UUID]struct{}, len(members))
	for _, m := range members {
		roster[m.ID] = struct{}{}
	}

	for _, exp := range expenses {
		if !exp.Amount.IsPositive() {
			return fmt.Errorf("expense %s: amount %s: %w", exp.ID, exp.Amount, ErrNonPositiveAmount)
		}
		if len(exp.Splits) == 0 {
			return fmt.Errorf("expense %s: %w", exp.ID, ErrNoSplits)
		}
		if _, ok := roster[exp.PaidBy]; !ok {
			return fmt.Errorf("expense %s: payer %s: %w", exp.ID, exp.PaidBy, ErrUnknownMember)
		}

		splitTotal := decimal.Zero
		for _, split := range exp.Splits {
			if !split.Amount.IsPositive() {
				return fmt.Errorf("expense %s: split for %s: amount %s: %w", exp.ID, split.MemberID, split.Amount, ErrNonPositiveAmount)
			}
			if _, ok := roster[split.MemberID]; !ok {
				return fmt.Errorf("expense %s: split member %s: %w", exp.ID, split.MemberID, ErrUnknownMember)
			}
			splitTotal = splitTotal.Add(split.Amount)
		}

		if splitTotal.Sub(exp.Amount).Abs().GreaterThan(tolerance) {
			return fmt.Errorf("expense %s: splits total %s against amount %s: %w", exp.ID, splitTotal, exp.Amount, ErrSplitSumMismatch)
		}
	}
	return nil
}
