package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"cashbook-go/internal/domain/membership"
)

// ExpenseFilter narrows account-wide expense listings.
type ExpenseFilter struct {
	WeekID     string
	CategoryID string
	From       *time.Time
	To         *time.Time
}

// Repository persists weeks, bank accounts and expenses. Balance mutations
// are single conditional statements so two concurrent debits can never
// overdraw, regardless of interleaving.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetMembership(ctx context.Context, accountID, userID string) (*membership.Membership, error)

	CreateWeek(ctx context.Context, w *Week) error
	GetWeek(ctx context.Context, accountID, weekID string) (*Week, error)
	ListWeeks(ctx context.Context, accountID string) ([]Week, error)
	UpdateWeek(ctx context.Context, w *Week) error
	// DeleteWeekCascade removes the week with its expenses and cash
	// transactions. Balances are left untouched on purpose.
	DeleteWeekCascade(ctx context.Context, weekID string) error

	// CreditCashBox unconditionally increments the week's cash box.
	CreditCashBox(ctx context.Context, weekID string, amount decimal.Decimal) error
	// DebitCashBox decrements only when the balance covers the amount,
	// returning ErrInsufficientCash otherwise.
	DebitCashBox(ctx context.Context, weekID string, amount decimal.Decimal) error
	CreateCashTransaction(ctx context.Context, tx *CashTransaction) error
	ListCashTransactions(ctx context.Context, weekID string) ([]CashTransaction, error)

	CreateBankAccount(ctx context.Context, b *BankAccount) error
	GetBankAccount(ctx context.Context, accountID, id string) (*BankAccount, error)
	ListBankAccounts(ctx context.Context, accountID string) ([]BankAccount, error)
	UpdateBankAccount(ctx context.Context, b *BankAccount) error
	DeactivateBankAccount(ctx context.Context, id string) error
	CreditBankBalance(ctx context.Context, id string, amount decimal.Decimal) error
	// DebitBankBalance decrements only when the balance covers the amount,
	// returning ErrInsufficientBank otherwise.
	DebitBankBalance(ctx context.Context, id string, amount decimal.Decimal) error

	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, accountID, id string) (*Expense, error)
	ListExpenses(ctx context.Context, accountID string, filter ExpenseFilter) ([]Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, id string) error
}
