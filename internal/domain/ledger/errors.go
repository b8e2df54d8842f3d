package ledger

import "errors"

var (
	ErrWeekNotFound        = errors.New("week not found")
	ErrWeekLocked          = errors.New("cannot mutate a locked week")
	ErrAlreadyLocked       = errors.New("week is already locked")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrBankAccountNotFound = errors.New("bank account not found")
	ErrBankAccountInactive = errors.New("bank account has been removed")
	ErrBankAccountRequired = errors.New("a bank account is required for bank expenses")
	ErrInvalidAmount       = errors.New("amount must be a positive number")
	ErrInvalidBankType     = errors.New("bank account type must be checking, savings, credit, cash or other")
	ErrInvalidLastFour     = errors.New("last four digits must be at most 4 digits")
	ErrInvalidSource       = errors.New("payment source must be cash or bank")
	ErrInvalidDateRange    = errors.New("week end date must not be before its start date")
	ErrImmutableAmount     = errors.New("amount and payment source cannot be changed, delete and recreate the expense")
	ErrOnlyOwnerDeletes    = errors.New("only the account owner can delete a week")

	// Balance preconditions. The messages are part of the API surface.
	ErrInsufficientBank = errors.New("Insufficient bank account balance")
	ErrInsufficientCash = errors.New("Insufficient cash balance")
)
