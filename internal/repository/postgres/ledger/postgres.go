package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	ledgerdomain "cashbook-go/internal/domain/ledger"
	membershipdomain "cashbook-go/internal/domain/membership"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(ledgerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetMembership(ctx context.Context, accountID, userID string) (*membershipdomain.Membership, error) {
	var member membershipdomain.Membership
	if err := r.db.WithContext(ctx).Where("account_id = ? AND user_id = ?", accountID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membershipdomain.ErrNotMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) CreateWeek(ctx context.Context, w *ledgerdomain.Week) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *PostgresRepository) GetWeek(ctx context.Context, accountID, weekID string) (*ledgerdomain.Week, error) {
	var week ledgerdomain.Week
	if err := r.db.WithContext(ctx).Where("account_id = ? AND id = ?", accountID, weekID).First(&week).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrWeekNotFound
		}
		return nil, err
	}
	return &week, nil
}

func (r *PostgresRepository) ListWeeks(ctx context.Context, accountID string) ([]ledgerdomain.Week, error) {
	var weeks []ledgerdomain.Week
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("start_date desc").
		Find(&weeks).Error; err != nil {
		return nil, err
	}
	return weeks, nil
}

func (r *PostgresRepository) UpdateWeek(ctx context.Context, w *ledgerdomain.Week) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *PostgresRepository) DeleteWeekCascade(ctx context.Context, weekID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("week_id = ?", weekID).Delete(&ledgerdomain.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("week_id = ?", weekID).Delete(&ledgerdomain.CashTransaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", weekID).Delete(&ledgerdomain.Week{}).Error
	})
}

func (r *PostgresRepository) CreditCashBox(ctx context.Context, weekID string, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.Week{}).
		Where("id = ?", weekID).
		Update("cash_box_balance", gorm.Expr("cash_box_balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledgerdomain.ErrWeekNotFound
	}
	return nil
}

// DebitCashBox is a single conditional statement so concurrent debits can
// never drive the balance negative.
func (r *PostgresRepository) DebitCashBox(ctx context.Context, weekID string, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.Week{}).
		Where("id = ? AND cash_box_balance >= ?", weekID, amount).
		Update("cash_box_balance", gorm.Expr("cash_box_balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&ledgerdomain.Week{}).Where("id = ?", weekID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ledgerdomain.ErrWeekNotFound
		}
		return ledgerdomain.ErrInsufficientCash
	}
	return nil
}

func (r *PostgresRepository) CreateCashTransaction(ctx context.Context, tx *ledgerdomain.CashTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *PostgresRepository) ListCashTransactions(ctx context.Context, weekID string) ([]ledgerdomain.CashTransaction, error) {
	var txs []ledgerdomain.CashTransaction
	if err := r.db.WithContext(ctx).
		Where("week_id = ?", weekID).
		Order("created_at asc").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *PostgresRepository) CreateBankAccount(ctx context.Context, b *ledgerdomain.BankAccount) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *PostgresRepository) GetBankAccount(ctx context.Context, accountID, id string) (*ledgerdomain.BankAccount, error) {
	var bank ledgerdomain.BankAccount
	if err := r.db.WithContext(ctx).Where("account_id = ? AND id = ?", accountID, id).First(&bank).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrBankAccountNotFound
		}
		return nil, err
	}
	return &bank, nil
}

func (r *PostgresRepository) ListBankAccounts(ctx context.Context, accountID string) ([]ledgerdomain.BankAccount, error) {
	var banks []ledgerdomain.BankAccount
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND is_active = ?", accountID, true).
		Order("created_at asc").
		Find(&banks).Error; err != nil {
		return nil, err
	}
	return banks, nil
}

func (r *PostgresRepository) UpdateBankAccount(ctx context.Context, b *ledgerdomain.BankAccount) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *PostgresRepository) DeactivateBankAccount(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.BankAccount{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledgerdomain.ErrBankAccountNotFound
	}
	return nil
}

func (r *PostgresRepository) CreditBankBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.BankAccount{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledgerdomain.ErrBankAccountNotFound
	}
	return nil
}

// DebitBankBalance decrements only when the balance covers the amount, in
// one statement, to rule out overdrafts under concurrent expense creation.
func (r *PostgresRepository) DebitBankBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.BankAccount{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&ledgerdomain.BankAccount{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ledgerdomain.ErrBankAccountNotFound
		}
		return ledgerdomain.ErrInsufficientBank
	}
	return nil
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, e *ledgerdomain.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *PostgresRepository) GetExpense(ctx context.Context, accountID, id string) (*ledgerdomain.Expense, error) {
	var expense ledgerdomain.Expense
	if err := r.db.WithContext(ctx).Where("account_id = ? AND id = ?", accountID, id).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrExpenseNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *PostgresRepository) ListExpenses(ctx context.Context, accountID string, filter ledgerdomain.ExpenseFilter) ([]ledgerdomain.Expense, error) {
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	if filter.WeekID != "" {
		query = query.Where("week_id = ?", filter.WeekID)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var expenses []ledgerdomain.Expense
	if err := query.Order("date desc").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *PostgresRepository) UpdateExpense(ctx context.Context, e *ledgerdomain.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *PostgresRepository) DeleteExpense(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&ledgerdomain.Expense{}).Error
}
