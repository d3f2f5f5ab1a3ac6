package domain

import "errors"

// Domain errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrEventNotFound        = errors.New("event not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrSplitNotFound        = errors.New("expense split not found")
	ErrTimelineNotFound     = errors.New("timeline not found")
	ErrTimelineExists       = errors.New("timeline already exists for this event")
	ErrTimelineItemNotFound = errors.New("timeline item not found")
	ErrNoteNotFound         = errors.New("note not found")
	ErrNoteParentRequired   = errors.New("note requires exactly one parent")
	ErrNotMember            = errors.New("user is not a member of this event")
	ErrAlreadyMember        = errors.New("user is already a member of this event")
	ErrOwnerCannotLeave     = errors.New("owner cannot leave the event")
	ErrNotSplitParty        = errors.New("only the payer or the debtor can settle a split")
	ErrSplitSumMismatch     = errors.New("split amounts must sum to expense amount")
	ErrInvalidInput         = errors.New("invalid input")
)

// Validation constants
const (
	MaxEventNameLength    = 255
	MaxExpenseTitleLength = 255
	CurrencyCodeLength    = 3
)
