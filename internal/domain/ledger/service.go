package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cashbook-go/internal/domain/activity"
	"cashbook-go/internal/domain/membership"
	"cashbook-go/internal/domain/permission"
)

type Service struct {
	repo  Repository
	audit activity.Sink
}

func NewService(repo Repository, audit activity.Sink) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) member(ctx context.Context, accountID, userID string) (*membership.Membership, error) {
	return s.repo.GetMembership(ctx, accountID, userID)
}

func (s *Service) memberWith(ctx context.Context, accountID, userID string, cap permission.Capability) (*membership.Membership, error) {
	m, err := s.repo.GetMembership(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if !m.HasCapability(cap) {
		return nil, membership.ErrNoPermission
	}
	return m, nil
}

type WeekInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

func (s *Service) CreateWeek(ctx context.Context, callerUserID, accountID string, input WeekInput) (*Week, error) {
	caller, err := s.memberWith(ctx, accountID, callerUserID, permission.CalculateCash)
	if err != nil {
		return nil, err
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	week := &Week{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		Name:           strings.TrimSpace(input.Name),
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		CashBoxBalance: decimal.Zero,
	}
	if err := s.repo.CreateWeek(ctx, week); err != nil {
		return nil, err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		ActorDisplayName:  caller.DisplayName,
		Action:            activity.ActionWeekCreated,
		TargetDescription: week.Name,
	})
	return week, nil
}

func (s *Service) ListWeeks(ctx context.Context, callerUserID, accountID string) ([]Week, error) {
	if _, err := s.member(ctx, accountID, callerUserID); err != nil {
		return nil, err
	}
	return s.repo.ListWeeks(ctx, accountID)
}

func (s *Service) GetWeek(ctx context.Context, callerUserID, accountID, weekID string) (*Week, error) {
	if _, err := s.member(ctx, accountID, callerUserID); err != nil {
		return nil, err
	}
	return s.repo.GetWeek(ctx, accountID, weekID)
}

func (s *Service) ListCashTransactions(ctx context.Context, callerUserID, accountID, weekID string) ([]CashTransaction, error) {
	if _, err := s.member(ctx, accountID, callerUserID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetWeek(ctx, accountID, weekID); err != nil {
		return nil, err
	}
	return s.repo.ListCashTransactions(ctx, weekID)
}

type WeekUpdateInput struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) UpdateWeek(ctx context.Context, callerUserID, accountID, weekID string, input WeekUpdateInput) (*Week, error) {
	if _, err := s.memberWith(ctx, accountID, callerUserID, permission.CalculateCash); err != nil {
		return nil, err
	}
	week, err := s.repo.GetWeek(ctx, accountID, weekID)
	if err != nil {
		return nil, err
	}
	if week.Locked() {
		return nil, ErrWeekLocked
	}

	if input.Name != nil {
		week.Name = strings.TrimSpace(*input.Name)
	}
	if input.StartDate != nil {
		week.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		week.EndDate = *input.EndDate
	}
	if week.EndDate.Before(week.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if err := s.repo.UpdateWeek(ctx, week); err != nil {
		return nil, err
	}
	return week, nil
}

// LockWeek is a one-way transition. There is no unlock.
func (s *Service) LockWeek(ctx context.Context, callerUserID, accountID, weekID string) (*Week, error) {
	caller, err := s.memberWith(ctx, accountID, callerUserID, permission.CalculateCash)
	if err != nil {
		return nil, err
	}
	week, err := s.repo.GetWeek(ctx, accountID, weekID)
	if err != nil {
		return nil, err
	}
	if week.Locked() {
		return nil, ErrAlreadyLocked
	}

	now := time.Now().UTC()
	week.IsLocked = true
	week.LockedAt = &now
	if err := s.repo.UpdateWeek(ctx, week); err != nil {
		return nil, err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		ActorDisplayName:  caller.DisplayName,
		Action:            activity.ActionWeekLocked,
		TargetDescription: week.Name,
	})
	return week, nil
}

// DeleteWeek is a hard administrative purge. Expenses go with the week and
// their debits are NOT credited back to bank or cash balances.
func (s *Service) DeleteWeek(ctx context.Context, callerUserID, accountID, weekID string) error {
	caller, err := s.member(ctx, accountID, callerUserID)
	if err != nil {
		return err
	}
	if !caller.IsOwner() {
		return ErrOnlyOwnerDeletes
	}
	week, err := s.repo.GetWeek(ctx, accountID, weekID)
	if err != nil {
		return err
	}
	if week.Locked() {
		return ErrWeekLocked
	}
	return s.repo.DeleteWeekCascade(ctx, weekID)
}

func (s *Service) AddCashToBox(ctx context.Context, callerUserID, accountID, weekID string, amount decimal.Decimal, note string) (*Week, error) {
	caller, err := s.member(ctx, accountID, callerUserID)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	week, err := s.repo.GetWeek(ctx, accountID, weekID)
	if err != nil {
		return nil, err
	}
	if week.Locked() {
		return nil, ErrWeekLocked
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreditCashBox(ctx, weekID, amount); err != nil {
			return err
		}
		return tx.CreateCashTransaction(ctx, &CashTransaction{
			ID:              uuid.NewString(),
			WeekID:          weekID,
			Kind:            CashDeposit,
			Amount:          amount,
			Note:            note,
			CreatedByUserID: caller.UserID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetWeek(ctx, accountID, weekID)
}

func (s *Service) TransferBankToCash(ctx context.Context, callerUserID, accountID, weekID, bankAccountID string, amount decimal.Decimal) (*Week, error) {
	caller, err := s.memberWith(ctx, accountID, callerUserID, permission.CalculateCash)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	week, err := s.repo.GetWeek(ctx, accountID, weekID)
	if err != nil {
		return nil, err
	}
	if week.Locked() {
		return nil, ErrWeekLocked
	}
	bank, err := s.repo.GetBankAccount(ctx, accountID, bankAccountID)
	if err != nil {
		return nil, err
	}
	if !bank.IsActive {
		return nil, ErrBankAccountInactive
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DebitBankBalance(ctx, bankAccountID, amount); err != nil {
			return err
		}
		if err := tx.CreditCashBox(ctx, weekID, amount); err != nil {
			return err
		}
		return tx.CreateCashTransaction(ctx, &CashTransaction{
			ID:              uuid.NewString(),
			WeekID:          weekID,
			Kind:            CashTransferIn,
			Amount:          amount,
			Note:            "transfer from " + bank.Name,
			CreatedByUserID: caller.UserID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetWeek(ctx, accountID, weekID)
}

type ExpenseInput struct {
	WeekID        string
	Date          time.Time
	Amount        decimal.Decimal
	PaymentSource PaymentSource
	BankAccountID *string
	CategoryID    *string
	Person        string
	Note          string
}

// CreateExpense debits the funding source and writes the expense row as one
// unit. An insufficient balance rejects the whole operation before any write.
func (s *Service) CreateExpense(ctx context.Context, callerUserID, accountID string, input ExpenseInput) (*Expense, error) {
	caller, err := s.memberWith(ctx, accountID, callerUserID, permission.MakeExpense)
	if err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !input.PaymentSource.Valid() {
		return nil, ErrInvalidSource
	}
	week, err := s.repo.GetWeek(ctx, accountID, input.WeekID)
	if err != nil {
		return nil, err
	}
	if week.Locked() {
		return nil, ErrWeekLocked
	}

	expense := &Expense{
		ID:              uuid.NewString(),
		AccountID:       accountID,
		WeekID:          input.WeekID,
		Date:            input.Date,
		Amount:          input.Amount,
		PaymentSource:   input.PaymentSource,
		BankAccountID:   input.BankAccountID,
		CategoryID:      input.CategoryID,
		Person:          strings.TrimSpace(input.Person),
		Note:            input.Note,
		CreatedByUserID: callerUserID,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		switch input.PaymentSource {
		case SourceBank:
			if input.BankAccountID == nil {
				return ErrBankAccountRequired
			}
			bank, err := tx.GetBankAccount(ctx, accountID, *input.BankAccountID)
			if err != nil {
				return err
			}
			if !bank.IsActive {
				return ErrBankAccountInactive
			}
			if err := tx.DebitBankBalance(ctx, bank.ID, input.Amount); err != nil {
				return err
			}
		case SourceCash:
			if err := tx.DebitCashBox(ctx, input.WeekID, input.Amount); err != nil {
				return err
			}
			if err := tx.CreateCashTransaction(ctx, &CashTransaction{
				ID:              uuid.NewString(),
				WeekID:          input.WeekID,
				Kind:            CashExpense,
				Amount:          input.Amount.Neg(),
				Note:            expense.Note,
				CreatedByUserID: callerUserID,
			}); err != nil {
				return err
			}
		}
		return tx.CreateExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		ActorDisplayName:  caller.DisplayName,
		Action:            activity.ActionExpenseCreated,
		TargetDescription: expense.Person,
		Metadata:          activity.Metadata{"amount": input.Amount.String(), "source": string(input.PaymentSource)},
	})
	return expense, nil
}

func (s *Service) GetExpense(ctx context.Context, callerUserID, accountID, expenseID string) (*Expense, error) {
	if _, err := s.member(ctx, accountID, callerUserID); err != nil {
		return nil, err
	}
	return s.repo.GetExpense(ctx, accountID, expenseID)
}

func (s *Service) ListExpenses(ctx context.Context, callerUserID, accountID string, filter ExpenseFilter) ([]Expense, error) {
	if _, err := s.member(ctx, accountID, callerUserID); err != nil {
		return nil, err
	}
	return s.repo.ListExpenses(ctx, accountID, filter)
}

type ExpenseUpdateInput struct {
	Date          *time.Time
	Amount        *decimal.Decimal
	PaymentSource *PaymentSource
	CategoryID    *string
	Person        *string
	Note          *string
}

// UpdateExpense edits descriptive fields only. Amount and payment source are
// frozen once the debit has happened, money corrections go through delete
// and recreate so the compensating pair stays exact.
func (s *Service) UpdateExpense(ctx context.Context, callerUserID, accountID, expenseID string, input ExpenseUpdateInput) (*Expense, error) {
	caller, err := s.memberWith(ctx, accountID, callerUserID, permission.MakeExpense)
	if err != nil {
		return nil, err
	}
	expense, err := s.repo.GetExpense(ctx, accountID, expenseID)
	if err != nil {
		return nil, err
	}
	week, err := s.repo.GetWeek(ctx, accountID, expense.WeekID)
	if err != nil {
		return nil, err
	}
	if week.Locked() {
		return nil, ErrWeekLocked
	}
	if input.Amount != nil && !input.Amount.Equal(expense.Amount) {
		return nil, ErrImmutableAmount
	}
	if input.PaymentSource != nil && *input.PaymentSource != expense.PaymentSource {
		return nil, ErrImmutableAmount
	}

	if input.Date != nil {
		expense.Date = *input.Date
	}
	if input.CategoryID != nil {
		expense.CategoryID = input.CategoryID
	}
	if input.Person != nil {
		expense.Person = strings.TrimSpace(*input.Person)
	}
	if input.Note != nil {
		expense.Note = *input.Note
	}
	if err := s.repo.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		ActorDisplayName:  caller.DisplayName,
		Action:            activity.ActionExpenseUpdated,
		TargetDescription: expense.Person,
	})
	return expense, nil
}

// DeleteExpense credits the amount back to the source recorded on the
// expense row, not whatever the caller claims now.
func (s *Service) DeleteExpense(ctx context.Context, callerUserID, accountID, expenseID string) error {
	caller, err := s.memberWith(ctx, accountID, callerUserID, permission.MakeExpense)
	if err != nil {
		return err
	}
	expense, err := s.repo.GetExpense(ctx, accountID, expenseID)
	if err != nil {
		return err
	}
	week, err := s.repo.GetWeek(ctx, accountID, expense.WeekID)
	if err != nil {
		return err
	}
	if week.Locked() {
		return ErrWeekLocked
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		switch expense.PaymentSource {
		case SourceBank:
			if expense.BankAccountID != nil {
				if err := tx.CreditBankBalance(ctx, *expense.BankAccountID, expense.Amount); err != nil {
					return err
				}
			}
		case SourceCash:
			if err := tx.CreditCashBox(ctx, expense.WeekID, expense.Amount); err != nil {
				return err
			}
			if err := tx.CreateCashTransaction(ctx, &CashTransaction{
				ID:              uuid.NewString(),
				WeekID:          expense.WeekID,
				Kind:            CashRefund,
				Amount:          expense.Amount,
				Note:            expense.Note,
				CreatedByUserID: callerUserID,
			}); err != nil {
				return err
			}
		}
		return tx.DeleteExpense(ctx, expense.ID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		ActorDisplayName:  caller.DisplayName,
		Action:            activity.ActionExpenseDeleted,
		TargetDescription: expense.Person,
		Metadata:          activity.Metadata{"amount": expense.Amount.String(), "source": string(expense.PaymentSource)},
	})
	return nil
}

type BankAccountInput struct {
	Name           string
	BankName       string
	AccountType    BankAccountType
	LastFourDigits string
	Currency       string
	Balance        decimal.Decimal
}

func validLastFour(digits string) bool {
	if len(digits) > 4 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *Service) AddBankAccount(ctx context.Context, callerUserID, accountID string, input BankAccountInput) (*BankAccount, error) {
	caller, err := s.memberWith(ctx, accountID, callerUserID, permission.AddBankAccount)
	if err != nil {
		return nil, err
	}
	if input.Balance.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if input.AccountType == "" {
		input.AccountType = BankTypeChecking
	}
	if !input.AccountType.Valid() {
		return nil, ErrInvalidBankType
	}
	input.LastFourDigits = strings.TrimSpace(input.LastFourDigits)
	if !validLastFour(input.LastFourDigits) {
		return nil, ErrInvalidLastFour
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "EUR"
	}

	bank := &BankAccount{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		UserID:         callerUserID,
		Name:           strings.TrimSpace(input.Name),
		BankName:       strings.TrimSpace(input.BankName),
		AccountType:    input.AccountType,
		LastFourDigits: input.LastFourDigits,
		Currency:       currency,
		Balance:        input.Balance,
		IsActive:       true,
	}
	if err := s.repo.CreateBankAccount(ctx, bank); err != nil {
		return nil, err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		ActorDisplayName:  caller.DisplayName,
		Action:            activity.ActionBankAccountAdded,
		TargetDescription: bank.Name,
	})
	return bank, nil
}

func (s *Service) ListBankAccounts(ctx context.Context, callerUserID, accountID string) ([]BankAccount, error) {
	if _, err := s.member(ctx, accountID, callerUserID); err != nil {
		return nil, err
	}
	return s.repo.ListBankAccounts(ctx, accountID)
}

type BankAccountUpdateInput struct {
	Name           *string
	BankName       *string
	AccountType    *BankAccountType
	LastFourDigits *string
	Currency       *string
}

// UpdateBankAccount edits descriptive fields. The balance is ledger-controlled
// and only moves through expenses, refunds and transfers.
func (s *Service) UpdateBankAccount(ctx context.Context, callerUserID, accountID, bankAccountID string, input BankAccountUpdateInput) (*BankAccount, error) {
	if _, err := s.memberWith(ctx, accountID, callerUserID, permission.AddBankAccount); err != nil {
		return nil, err
	}
	bank, err := s.repo.GetBankAccount(ctx, accountID, bankAccountID)
	if err != nil {
		return nil, err
	}
	if !bank.IsActive {
		return nil, ErrBankAccountInactive
	}
	if input.Name != nil {
		bank.Name = strings.TrimSpace(*input.Name)
	}
	if input.BankName != nil {
		bank.BankName = strings.TrimSpace(*input.BankName)
	}
	if input.AccountType != nil {
		if !input.AccountType.Valid() {
			return nil, ErrInvalidBankType
		}
		bank.AccountType = *input.AccountType
	}
	if input.LastFourDigits != nil {
		digits := strings.TrimSpace(*input.LastFourDigits)
		if !validLastFour(digits) {
			return nil, ErrInvalidLastFour
		}
		bank.LastFourDigits = digits
	}
	if input.Currency != nil {
		bank.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if err := s.repo.UpdateBankAccount(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// RemoveBankAccount soft-deletes. Expenses that referenced it keep their
// recorded source so later deletion can still refund correctly.
func (s *Service) RemoveBankAccount(ctx context.Context, callerUserID, accountID, bankAccountID string) error {
	caller, err := s.memberWith(ctx, accountID, callerUserID, permission.AddBankAccount)
	if err != nil {
		return err
	}
	bank, err := s.repo.GetBankAccount(ctx, accountID, bankAccountID)
	if err != nil {
		return err
	}
	if err := s.repo.DeactivateBankAccount(ctx, bank.ID); err != nil {
		return err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		ActorDisplayName:  caller.DisplayName,
		Action:            activity.ActionBankAccountRemoved,
		TargetDescription: bank.Name,
	})
	return nil
}
