package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/ledger"
	"github.com/wayfare/wayfare-backend/internal/websocket"
)

// ExpenseService handles expense, split, and settlement business logic
type ExpenseService struct {
	expenseRepo     domain.ExpenseRepository
	eventRepo       domain.EventRepository
	userRepo        domain.UserRepository
	defaultCurrency string
	eventPublisher  websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, eventRepo domain.EventRepository, userRepo domain.UserRepository, defaultCurrency string) *ExpenseService {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &ExpenseService{
		expenseRepo:     expenseRepo,
		eventRepo:       eventRepo,
		userRepo:        userRepo,
		defaultCurrency: defaultCurrency,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ExpenseService) publishEvent(eventID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(eventID, event)
	}
}

// SplitInput is one split of a new expense
type SplitInput struct {
	UserID uuid.UUID
	Amount decimal.Decimal
}

// CreateExpenseInput holds the input for creating an expense
type CreateExpenseInput struct {
	EventID     uuid.UUID
	Title       string
	Amount      decimal.Decimal
	Currency    string
	Description *string
	Category    *string
	Location    *string
	Date        *time.Time
	Splits      []SplitInput
}

// CreateExpense creates an expense paid by the caller, with its splits
func (s *ExpenseService) CreateExpense(userID uuid.UUID, input CreateExpenseInput) (*domain.Expense, error) {
	if err := s.requireMember(input.EventID, userID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > domain.MaxExpenseTitleLength {
		return nil, domain.ErrInvalidInput
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}
	if len(currency) != domain.CurrencyCodeLength {
		return nil, domain.ErrInvalidInput
	}

	date := time.Now().UTC()
	if input.Date != nil {
		date = *input.Date
	}

	// Every split party must belong to the event
	for _, split := range input.Splits {
		if split.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if err := s.requireMember(input.EventID, split.UserID); err != nil {
			return nil, err
		}
	}

	expense := &domain.Expense{
		EventID:      input.EventID,
		PaidByUserID: userID,
		Amount:       input.Amount,
		Currency:     currency,
		Title:        title,
		Description:  input.Description,
		Category:     input.Category,
		Location:     input.Location,
		Date:         date,
	}
	for _, split := range input.Splits {
		expense.Splits = append(expense.Splits, &domain.ExpenseSplit{
			UserID: split.UserID,
			Amount: split.Amount,
		})
	}
	if err := expense.ValidateSplits(); err != nil {
		return nil, err
	}

	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(created.EventID, websocket.ExpenseCreated(created))
	return created, nil
}

// GetExpense retrieves an expense, requiring the caller to be an event member
func (s *ExpenseService) GetExpense(expenseID, userID uuid.UUID) (*domain.Expense, error) {
	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(expense.EventID, userID); err != nil {
		return nil, err
	}
	return expense, nil
}

// GetEventExpenses retrieves all expenses for an event
func (s *ExpenseService) GetEventExpenses(eventID, userID uuid.UUID) ([]*domain.Expense, error) {
	if err := s.requireMember(eventID, userID); err != nil {
		return nil, err
	}
	return s.expenseRepo.GetByEventID(eventID)
}

// UpdateExpense updates an expense's details. Splits are immutable; when the
// amount changes the existing splits must still reconcile against it.
func (s *ExpenseService) UpdateExpense(expenseID, userID uuid.UUID, update *domain.ExpenseUpdate) (*domain.Expense, error) {
	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(expense.EventID, userID); err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" || len(title) > domain.MaxExpenseTitleLength {
			return nil, domain.ErrInvalidInput
		}
		update.Title = &title
	}
	if update.Amount != nil {
		if update.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		check := *expense
		check.Amount = *update.Amount
		if err := check.ValidateSplits(); err != nil {
			return nil, err
		}
	}

	updated, err := s.expenseRepo.Update(expenseID, update)
	if err != nil {
		return nil, err
	}

	s.publishEvent(updated.EventID, websocket.ExpenseUpdated(updated))
	return updated, nil
}

// DeleteExpense deletes an expense and its splits
func (s *ExpenseService) DeleteExpense(expenseID, userID uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return err
	}
	if err := s.requireMember(expense.EventID, userID); err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(expenseID); err != nil {
		return err
	}

	s.publishEvent(expense.EventID, websocket.ExpenseDeleted(map[string]interface{}{
		"id":      expenseID,
		"eventId": expense.EventID,
	}))
	return nil
}

// SetSplitSettled marks a split settled or unsettled. Only the expense payer
// or the split's debtor may do this.
func (s *ExpenseService) SetSplitSettled(splitID, userID uuid.UUID, settled bool) (*domain.ExpenseSplit, error) {
	split, err := s.expenseRepo.GetSplitByID(splitID)
	if err != nil {
		return nil, err
	}
	expense, err := s.expenseRepo.GetByID(split.ExpenseID)
	if err != nil {
		return nil, err
	}
	if userID != split.UserID && userID != expense.PaidByUserID {
		return nil, domain.ErrNotSplitParty
	}

	updated, err := s.expenseRepo.MarkSplitSettled(splitID, settled)
	if err != nil {
		return nil, err
	}

	s.publishEvent(expense.EventID, websocket.SplitSettled(updated))
	return updated, nil
}

// GetUserUnsettledSplits retrieves the caller's outstanding splits across
// all events
func (s *ExpenseService) GetUserUnsettledSplits(userID uuid.UUID) ([]*domain.ExpenseSplit, error) {
	return s.expenseRepo.GetUnsettledSplitsByUser(userID)
}

// CalculateSettlements runs the settlement engine over an event's roster and
// expenses and resolves member identities for display.
func (s *ExpenseService) CalculateSettlements(eventID, userID uuid.UUID) (*domain.SettlementSummary, error) {
	if err := s.requireMember(eventID, userID); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	members, err := s.eventRepo.GetMembers(eventID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.GetByEventID(eventID)
	if err != nil {
		return nil, err
	}

	// The event currency backs the run when there are no expenses to take
	// it from.
	fallbackCurrency := event.Currency
	if fallbackCurrency == "" {
		fallbackCurrency = s.defaultCurrency
	}

	roster := make([]ledger.Member, 0, len(members))
	users := make(map[uuid.UUID]*domain.User, len(members))
	for _, m := range members {
		roster = append(roster, ledger.Member{ID: m.UserID})
		if m.User != nil {
			users[m.UserID] = m.User
		}
	}

	ledgerExpenses := make([]ledger.Expense, 0, len(expenses))
	for _, exp := range expenses {
		le := ledger.Expense{
			ID:       exp.ID,
			Amount:   exp.Amount,
			Currency: exp.Currency,
			PaidBy:   exp.PaidByUserID,
		}
		for _, split := range exp.Splits {
			le.Splits = append(le.Splits, ledger.Split{
				MemberID: split.UserID,
				Amount:   split.Amount,
				Settled:  split.Settled,
			})
		}
		ledgerExpenses = append(ledgerExpenses, le)
	}

	result, err := ledger.Settle(roster, ledgerExpenses, fallbackCurrency)
	if err != nil {
		return nil, err
	}

	summary := &domain.SettlementSummary{
		Settlements:   make([]domain.Settlement, 0, len(result.Transfers)),
		Balances:      make([]domain.UserBalance, 0, len(result.Balances)),
		TotalExpenses: result.TotalExpenses,
		Currency:      result.Currency,
	}
	for _, t := range result.Transfers {
		summary.Settlements = append(summary.Settlements, domain.Settlement{
			From:     t.From,
			To:       t.To,
			Amount:   t.Amount,
			Currency: t.Currency,
		})
	}
	for _, b := range result.Balances {
		ub := domain.UserBalance{
			UserID:   b.MemberID,
			Balance:  b.Amount,
			Currency: result.Currency,
		}
		if user, ok := users[b.MemberID]; ok {
			ub.UserName = user.DisplayName()
			ub.UserAvatar = user.Avatar
		}
		summary.Balances = append(summary.Balances, ub)
	}

	s.publishEvent(eventID, websocket.SettlementComputed(summary))
	return summary, nil
}

func (s *ExpenseService) requireMember(eventID, userID uuid.UUID) error {
	ok, err := s.eventRepo.IsMember(eventID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotMember
	}
	return nil
}
