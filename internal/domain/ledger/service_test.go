package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cashbook-go/internal/domain/activity"
	"cashbook-go/internal/domain/membership"
	"cashbook-go/internal/domain/permission"
)

type fakeLedgerRepo struct {
	members  map[string]*membership.Membership
	weeks    map[string]*Week
	banks    map[string]*BankAccount
	expenses map[string]*Expense
	cashTxs  []CashTransaction
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		members:  make(map[string]*membership.Membership),
		weeks:    make(map[string]*Week),
		banks:    make(map[string]*BankAccount),
		expenses: make(map[string]*Expense),
	}
}

func (r *fakeLedgerRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeLedgerRepo) GetMembership(ctx context.Context, accountID, userID string) (*membership.Membership, error) {
	for _, m := range r.members {
		if m.AccountID == accountID && m.UserID == userID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, membership.ErrNotMember
}

func (r *fakeLedgerRepo) CreateWeek(ctx context.Context, w *Week) error {
	copied := *w
	r.weeks[w.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) GetWeek(ctx context.Context, accountID, weekID string) (*Week, error) {
	w, ok := r.weeks[weekID]
	if !ok || w.AccountID != accountID {
		return nil, ErrWeekNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *fakeLedgerRepo) ListWeeks(ctx context.Context, accountID string) ([]Week, error) {
	result := make([]Week, 0)
	for _, w := range r.weeks {
		if w.AccountID == accountID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (r *fakeLedgerRepo) UpdateWeek(ctx context.Context, w *Week) error {
	if _, ok := r.weeks[w.ID]; !ok {
		return ErrWeekNotFound
	}
	copied := *w
	r.weeks[w.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) DeleteWeekCascade(ctx context.Context, weekID string) error {
	delete(r.weeks, weekID)
	for id, e := range r.expenses {
		if e.WeekID == weekID {
			delete(r.expenses, id)
		}
	}
	kept := r.cashTxs[:0]
	for _, tx := range r.cashTxs {
		if tx.WeekID != weekID {
			kept = append(kept, tx)
		}
	}
	r.cashTxs = kept
	return nil
}

func (r *fakeLedgerRepo) CreditCashBox(ctx context.Context, weekID string, amount decimal.Decimal) error {
	w, ok := r.weeks[weekID]
	if !ok {
		return ErrWeekNotFound
	}
	w.CashBoxBalance = w.CashBoxBalance.Add(amount)
	return nil
}

func (r *fakeLedgerRepo) DebitCashBox(ctx context.Context, weekID string, amount decimal.Decimal) error {
	w, ok := r.weeks[weekID]
	if !ok {
		return ErrWeekNotFound
	}
	if w.CashBoxBalance.LessThan(amount) {
		return ErrInsufficientCash
	}
	w.CashBoxBalance = w.CashBoxBalance.Sub(amount)
	return nil
}

func (r *fakeLedgerRepo) CreateCashTransaction(ctx context.Context, tx *CashTransaction) error {
	r.cashTxs = append(r.cashTxs, *tx)
	return nil
}

func (r *fakeLedgerRepo) ListCashTransactions(ctx context.Context, weekID string) ([]CashTransaction, error) {
	result := make([]CashTransaction, 0)
	for _, tx := range r.cashTxs {
		if tx.WeekID == weekID {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (r *fakeLedgerRepo) CreateBankAccount(ctx context.Context, b *BankAccount) error {
	copied := *b
	r.banks[b.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) GetBankAccount(ctx context.Context, accountID, id string) (*BankAccount, error) {
	b, ok := r.banks[id]
	if !ok || b.AccountID != accountID {
		return nil, ErrBankAccountNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeLedgerRepo) ListBankAccounts(ctx context.Context, accountID string) ([]BankAccount, error) {
	result := make([]BankAccount, 0)
	for _, b := range r.banks {
		if b.AccountID == accountID && b.IsActive {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *fakeLedgerRepo) UpdateBankAccount(ctx context.Context, b *BankAccount) error {
	if _, ok := r.banks[b.ID]; !ok {
		return ErrBankAccountNotFound
	}
	copied := *b
	r.banks[b.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) DeactivateBankAccount(ctx context.Context, id string) error {
	b, ok := r.banks[id]
	if !ok {
		return ErrBankAccountNotFound
	}
	b.IsActive = false
	return nil
}

func (r *fakeLedgerRepo) CreditBankBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	b, ok := r.banks[id]
	if !ok {
		return ErrBankAccountNotFound
	}
	b.Balance = b.Balance.Add(amount)
	return nil
}

func (r *fakeLedgerRepo) DebitBankBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	b, ok := r.banks[id]
	if !ok {
		return ErrBankAccountNotFound
	}
	if b.Balance.LessThan(amount) {
		return ErrInsufficientBank
	}
	b.Balance = b.Balance.Sub(amount)
	return nil
}

func (r *fakeLedgerRepo) CreateExpense(ctx context.Context, e *Expense) error {
	copied := *e
	r.expenses[e.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) GetExpense(ctx context.Context, accountID, id string) (*Expense, error) {
	e, ok := r.expenses[id]
	if !ok || e.AccountID != accountID {
		return nil, ErrExpenseNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeLedgerRepo) ListExpenses(ctx context.Context, accountID string, filter ExpenseFilter) ([]Expense, error) {
	result := make([]Expense, 0)
	for _, e := range r.expenses {
		if e.AccountID != accountID {
			continue
		}
		if filter.WeekID != "" && e.WeekID != filter.WeekID {
			continue
		}
		if filter.CategoryID != "" && (e.CategoryID == nil || *e.CategoryID != filter.CategoryID) {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (r *fakeLedgerRepo) UpdateExpense(ctx context.Context, e *Expense) error {
	if _, ok := r.expenses[e.ID]; !ok {
		return ErrExpenseNotFound
	}
	copied := *e
	r.expenses[e.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) DeleteExpense(ctx context.Context, id string) error {
	delete(r.expenses, id)
	return nil
}

func (r *fakeLedgerRepo) seedOwner(accountID, userID string) *membership.Membership {
	m := &membership.Membership{
		ID:          "m-" + userID,
		AccountID:   accountID,
		UserID:      userID,
		DisplayName: "Owner",
		Role:        membership.RoleOwner,
		Permissions: permission.All(),
	}
	r.members[m.ID] = m
	return m
}

func (r *fakeLedgerRepo) seedMember(accountID, userID string, perms permission.Set) *membership.Membership {
	m := &membership.Membership{
		ID:          "m-" + userID,
		AccountID:   accountID,
		UserID:      userID,
		DisplayName: "Member " + userID,
		Role:        membership.RoleMember,
		Permissions: perms,
	}
	r.members[m.ID] = m
	return m
}

func (r *fakeLedgerRepo) seedWeek(accountID string, cash decimal.Decimal) *Week {
	w := &Week{
		ID:             "week-1",
		AccountID:      accountID,
		Name:           "Week 1",
		StartDate:      time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		CashBoxBalance: cash,
	}
	r.weeks[w.ID] = w
	return w
}

func (r *fakeLedgerRepo) seedBank(accountID string, balance decimal.Decimal) *BankAccount {
	b := &BankAccount{
		ID:          "bank-1",
		AccountID:   accountID,
		UserID:      "owner",
		Name:        "Checking",
		AccountType: BankTypeChecking,
		Currency:    "EUR",
		Balance:     balance,
		IsActive:    true,
	}
	r.banks[b.ID] = b
	return b
}

type noopSink struct{}

func (noopSink) Record(activity.Entry) {}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCreateExpenseInsufficientBankBalance(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	repo.seedWeek("acc-1", decimal.Zero)
	bank := repo.seedBank("acc-1", dec(100))
	svc := NewService(repo, noopSink{})

	_, err := svc.CreateExpense(context.Background(), "owner", "acc-1", ExpenseInput{
		WeekID:        "week-1",
		Amount:        dec(150),
		PaymentSource: SourceBank,
		BankAccountID: &bank.ID,
	})
	if !errors.Is(err, ErrInsufficientBank) {
		t.Fatalf("expected ErrInsufficientBank, got %v", err)
	}
	if !repo.banks[bank.ID].Balance.Equal(dec(100)) {
		t.Errorf("balance must stay 100, got %s", repo.banks[bank.ID].Balance)
	}
	if len(repo.expenses) != 0 {
		t.Error("no expense row may be created on a failed debit")
	}
}

func TestCashExpenseDebitsAndRefunds(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	repo.seedWeek("acc-1", dec(100))
	svc := NewService(repo, noopSink{})

	expense, err := svc.CreateExpense(context.Background(), "owner", "acc-1", ExpenseInput{
		WeekID:        "week-1",
		Amount:        dec(40),
		PaymentSource: SourceCash,
		Person:        "Ana",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !repo.weeks["week-1"].CashBoxBalance.Equal(dec(60)) {
		t.Fatalf("expected cash box 60, got %s", repo.weeks["week-1"].CashBoxBalance)
	}

	if err := svc.DeleteExpense(context.Background(), "owner", "acc-1", expense.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !repo.weeks["week-1"].CashBoxBalance.Equal(dec(100)) {
		t.Fatalf("expected cash box restored to 100, got %s", repo.weeks["week-1"].CashBoxBalance)
	}
	if len(repo.expenses) != 0 {
		t.Error("expected expense row deleted")
	}
}

func TestBankExpenseRefundsRecordedSource(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	repo.seedWeek("acc-1", dec(500))
	bank := repo.seedBank("acc-1", dec(200))
	svc := NewService(repo, noopSink{})

	expense, err := svc.CreateExpense(context.Background(), "owner", "acc-1", ExpenseInput{
		WeekID:        "week-1",
		Amount:        dec(75),
		PaymentSource: SourceBank,
		BankAccountID: &bank.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !repo.banks[bank.ID].Balance.Equal(dec(125)) {
		t.Fatalf("expected bank 125, got %s", repo.banks[bank.ID].Balance)
	}

	// Deactivating the bank account must not redirect the refund.
	if err := svc.RemoveBankAccount(context.Background(), "owner", "acc-1", bank.ID); err != nil {
		t.Fatalf("remove bank: %v", err)
	}
	if err := svc.DeleteExpense(context.Background(), "owner", "acc-1", expense.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !repo.banks[bank.ID].Balance.Equal(dec(200)) {
		t.Fatalf("expected bank restored to 200, got %s", repo.banks[bank.ID].Balance)
	}
	if !repo.weeks["week-1"].CashBoxBalance.Equal(dec(500)) {
		t.Error("cash box must be untouched by a bank refund")
	}
}

func TestCreateExpenseInsufficientCash(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	repo.seedWeek("acc-1", dec(10))
	svc := NewService(repo, noopSink{})

	_, err := svc.CreateExpense(context.Background(), "owner", "acc-1", ExpenseInput{
		WeekID:        "week-1",
		Amount:        dec(40),
		PaymentSource: SourceCash,
	})
	if !errors.Is(err, ErrInsufficientCash) {
		t.Fatalf("expected ErrInsufficientCash, got %v", err)
	}
	if !repo.weeks["week-1"].CashBoxBalance.Equal(dec(10)) {
		t.Error("cash box must be unchanged")
	}
}

func TestCreateExpenseRequiresMakeExpense(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	repo.seedMember("acc-1", "viewer", permission.Set{})
	repo.seedWeek("acc-1", dec(100))
	svc := NewService(repo, noopSink{})

	_, err := svc.CreateExpense(context.Background(), "viewer", "acc-1", ExpenseInput{
		WeekID:        "week-1",
		Amount:        dec(5),
		PaymentSource: SourceCash,
	})
	if !errors.Is(err, membership.ErrNoPermission) {
		t.Fatalf("expected ErrNoPermission, got %v", err)
	}
}

func TestLockedWeekRejectsMutations(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	week := repo.seedWeek("acc-1", dec(100))
	bank := repo.seedBank("acc-1", dec(100))
	svc := NewService(repo, noopSink{})

	expense, err := svc.CreateExpense(context.Background(), "owner", "acc-1", ExpenseInput{
		WeekID:        week.ID,
		Amount:        dec(10),
		PaymentSource: SourceCash,
	})
	if err != nil {
		t.Fatalf("create before lock: %v", err)
	}

	if _, err := svc.LockWeek(context.Background(), "owner", "acc-1", week.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}

	if _, err := svc.AddCashToBox(context.Background(), "owner", "acc-1", week.ID, dec(5), ""); !errors.Is(err, ErrWeekLocked) {
		t.Fatalf("addCash on locked week: expected ErrWeekLocked, got %v", err)
	}
	if !repo.weeks[week.ID].CashBoxBalance.Equal(dec(90)) {
		t.Error("cash box must be unchanged by the rejected deposit")
	}
	if _, err := svc.CreateExpense(context.Background(), "owner", "acc-1", ExpenseInput{
		WeekID: week.ID, Amount: dec(5), PaymentSource: SourceCash,
	}); !errors.Is(err, ErrWeekLocked) {
		t.Fatalf("createExpense on locked week: expected ErrWeekLocked, got %v", err)
	}
	if err := svc.DeleteExpense(context.Background(), "owner", "acc-1", expense.ID); !errors.Is(err, ErrWeekLocked) {
		t.Fatalf("deleteExpense on locked week: expected ErrWeekLocked, got %v", err)
	}
	if _, err := svc.TransferBankToCash(context.Background(), "owner", "acc-1", week.ID, bank.ID, dec(5)); !errors.Is(err, ErrWeekLocked) {
		t.Fatalf("transfer on locked week: expected ErrWeekLocked, got %v", err)
	}
	if err := svc.DeleteWeek(context.Background(), "owner", "acc-1", week.ID); !errors.Is(err, ErrWeekLocked) {
		t.Fatalf("deleteWeek on locked week: expected ErrWeekLocked, got %v", err)
	}
	if _, err := svc.LockWeek(context.Background(), "owner", "acc-1", week.ID); !errors.Is(err, ErrAlreadyLocked) {
		t.Fatalf("second lock: expected ErrAlreadyLocked, got %v", err)
	}
	if !repo.weeks[week.ID].IsLocked {
		t.Error("lock must be terminal")
	}
}

func TestLockWeekRequiresCalculateCash(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	repo.seedMember("acc-1", "member", permission.Default())
	week := repo.seedWeek("acc-1", decimal.Zero)
	svc := NewService(repo, noopSink{})

	_, err := svc.LockWeek(context.Background(), "member", "acc-1", week.ID)
	if !errors.Is(err, membership.ErrNoPermission) {
		t.Fatalf("expected ErrNoPermission, got %v", err)
	}
}

func TestTransferBankToCash(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	week := repo.seedWeek("acc-1", dec(20))
	bank := repo.seedBank("acc-1", dec(100))
	svc := NewService(repo, noopSink{})

	updated, err := svc.TransferBankToCash(context.Background(), "owner", "acc-1", week.ID, bank.ID, dec(30))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !updated.CashBoxBalance.Equal(dec(50)) {
		t.Errorf("expected cash box 50, got %s", updated.CashBoxBalance)
	}
	if !repo.banks[bank.ID].Balance.Equal(dec(70)) {
		t.Errorf("expected bank 70, got %s", repo.banks[bank.ID].Balance)
	}

	_, err = svc.TransferBankToCash(context.Background(), "owner", "acc-1", week.ID, bank.ID, dec(500))
	if !errors.Is(err, ErrInsufficientBank) {
		t.Fatalf("expected ErrInsufficientBank, got %v", err)
	}
}

func TestAddCashToBoxAppendsTransaction(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	repo.seedMember("acc-1", "member", permission.Set{})
	week := repo.seedWeek("acc-1", decimal.Zero)
	svc := NewService(repo, noopSink{})

	// Any member may feed the cash box, no capability needed.
	updated, err := svc.AddCashToBox(context.Background(), "member", "acc-1", week.ID, dec(25), "float")
	if err != nil {
		t.Fatalf("addCash: %v", err)
	}
	if !updated.CashBoxBalance.Equal(dec(25)) {
		t.Errorf("expected 25, got %s", updated.CashBoxBalance)
	}
	txs, err := svc.ListCashTransactions(context.Background(), "member", "acc-1", week.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].Kind != CashDeposit {
		t.Fatalf("expected one deposit entry, got %+v", txs)
	}

	if _, err := svc.AddCashToBox(context.Background(), "member", "acc-1", week.ID, dec(0), ""); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := svc.AddCashToBox(context.Background(), "member", "acc-1", week.ID, dec(-5), ""); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
}

func TestUpdateExpenseFreezesMoneyFields(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	repo.seedWeek("acc-1", dec(100))
	svc := NewService(repo, noopSink{})

	expense, err := svc.CreateExpense(context.Background(), "owner", "acc-1", ExpenseInput{
		WeekID:        "week-1",
		Amount:        dec(30),
		PaymentSource: SourceCash,
		Person:        "Ana",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bigger := dec(60)
	_, err = svc.UpdateExpense(context.Background(), "owner", "acc-1", expense.ID, ExpenseUpdateInput{Amount: &bigger})
	if !errors.Is(err, ErrImmutableAmount) {
		t.Fatalf("expected ErrImmutableAmount, got %v", err)
	}

	bank := SourceBank
	_, err = svc.UpdateExpense(context.Background(), "owner", "acc-1", expense.ID, ExpenseUpdateInput{PaymentSource: &bank})
	if !errors.Is(err, ErrImmutableAmount) {
		t.Fatalf("expected ErrImmutableAmount for source change, got %v", err)
	}

	person := "Bea"
	updated, err := svc.UpdateExpense(context.Background(), "owner", "acc-1", expense.ID, ExpenseUpdateInput{Person: &person})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Person != "Bea" {
		t.Errorf("expected person updated, got %q", updated.Person)
	}
	if !repo.weeks["week-1"].CashBoxBalance.Equal(dec(70)) {
		t.Error("descriptive updates must not touch the cash box")
	}
}

func TestDeleteWeekPurgesWithoutReversal(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	repo.seedMember("acc-1", "member", permission.All())
	week := repo.seedWeek("acc-1", dec(100))
	bank := repo.seedBank("acc-1", dec(100))
	svc := NewService(repo, noopSink{})

	if _, err := svc.CreateExpense(context.Background(), "owner", "acc-1", ExpenseInput{
		WeekID: week.ID, Amount: dec(40), PaymentSource: SourceBank, BankAccountID: &bank.ID,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteWeek(context.Background(), "member", "acc-1", week.ID); !errors.Is(err, ErrOnlyOwnerDeletes) {
		t.Fatalf("expected ErrOnlyOwnerDeletes, got %v", err)
	}

	if err := svc.DeleteWeek(context.Background(), "owner", "acc-1", week.ID); err != nil {
		t.Fatalf("delete week: %v", err)
	}
	if len(repo.expenses) != 0 {
		t.Error("expected expenses purged with the week")
	}
	// A purge is not ledger-correct on purpose, the debit stays applied.
	if !repo.banks[bank.ID].Balance.Equal(dec(60)) {
		t.Errorf("bank balance must not be credited back, got %s", repo.banks[bank.ID].Balance)
	}
}

func TestCreateWeekValidatesRange(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	svc := NewService(repo, noopSink{})

	_, err := svc.CreateWeek(context.Background(), "owner", "acc-1", WeekInput{
		StartDate: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestAddBankAccountRequiresCapability(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	repo.seedMember("acc-1", "member", permission.Default())
	svc := NewService(repo, noopSink{})

	_, err := svc.AddBankAccount(context.Background(), "member", "acc-1", BankAccountInput{Name: "Checking"})
	if !errors.Is(err, membership.ErrNoPermission) {
		t.Fatalf("expected ErrNoPermission, got %v", err)
	}

	bank, err := svc.AddBankAccount(context.Background(), "owner", "acc-1", BankAccountInput{Name: "Checking", Balance: dec(100)})
	if err != nil {
		t.Fatalf("owner add: %v", err)
	}
	if !bank.IsActive {
		t.Error("new bank accounts start active")
	}
}

func TestAddBankAccountDefaultsAndValidation(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	svc := NewService(repo, noopSink{})

	bank, err := svc.AddBankAccount(context.Background(), "owner", "acc-1", BankAccountInput{
		Name:           "Everyday",
		BankName:       "First National",
		LastFourDigits: "1234",
		Currency:       "usd",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if bank.AccountType != BankTypeChecking {
		t.Errorf("expected checking default, got %q", bank.AccountType)
	}
	if bank.Currency != "USD" {
		t.Errorf("expected currency uppercased, got %q", bank.Currency)
	}
	if bank.UserID != "owner" {
		t.Errorf("expected creator recorded, got %q", bank.UserID)
	}

	_, err = svc.AddBankAccount(context.Background(), "owner", "acc-1", BankAccountInput{Name: "X", AccountType: "offshore"})
	if !errors.Is(err, ErrInvalidBankType) {
		t.Fatalf("expected ErrInvalidBankType, got %v", err)
	}
	_, err = svc.AddBankAccount(context.Background(), "owner", "acc-1", BankAccountInput{Name: "X", LastFourDigits: "12345"})
	if !errors.Is(err, ErrInvalidLastFour) {
		t.Fatalf("expected ErrInvalidLastFour, got %v", err)
	}
}

func TestUpdateBankAccountLeavesBalanceAlone(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.seedOwner("acc-1", "owner")
	bank := repo.seedBank("acc-1", dec(80))
	svc := NewService(repo, noopSink{})

	name := "Household"
	bankType := BankTypeSavings
	digits := "9876"
	updated, err := svc.UpdateBankAccount(context.Background(), "owner", "acc-1", bank.ID, BankAccountUpdateInput{
		Name:           &name,
		AccountType:    &bankType,
		LastFourDigits: &digits,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Household" || updated.AccountType != BankTypeSavings || updated.LastFourDigits != "9876" {
		t.Errorf("unexpected result %+v", updated)
	}
	if !updated.Balance.Equal(dec(80)) {
		t.Errorf("expected balance untouched, got %s", updated.Balance)
	}

	bad := BankAccountType("offshore")
	_, err = svc.UpdateBankAccount(context.Background(), "owner", "acc-1", bank.ID, BankAccountUpdateInput{AccountType: &bad})
	if !errors.Is(err, ErrInvalidBankType) {
		t.Fatalf("expected ErrInvalidBankType, got %v", err)
	}

	repo.banks[bank.ID].IsActive = false
	_, err = svc.UpdateBankAccount(context.Background(), "owner", "acc-1", bank.ID, BankAccountUpdateInput{Name: &name})
	if !errors.Is(err, ErrBankAccountInactive) {
		t.Fatalf("expected ErrBankAccountInactive, got %v", err)
	}
}
