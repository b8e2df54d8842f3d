package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Week struct {
	ID             string `gorm:"primaryKey"`
	AccountID      string `gorm:"index;not null"`
	Name           string
	StartDate      time.Time `gorm:"not null"`
	EndDate        time.Time `gorm:"not null"`
	CashBoxBalance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	IsLocked       bool       `gorm:"not null;default:false"`
	LockedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Week) TableName() string {
	return "weeks"
}

func (w *Week) Locked() bool {
	return w.IsLocked
}

type CashTransactionKind string

const (
	CashDeposit    CashTransactionKind = "deposit"
	CashTransferIn CashTransactionKind = "bank_transfer"
	CashExpense    CashTransactionKind = "expense"
	CashRefund     CashTransactionKind = "refund"
)

// CashTransaction is an append-only entry in a week's cash box sub-ledger.
// Entries are never updated or deleted, the running balance lives on the week.
type CashTransaction struct {
	ID              string `gorm:"primaryKey"`
	WeekID          string `gorm:"index;not null"`
	Kind            CashTransactionKind `gorm:"not null"`
	Amount          decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	Note            string
	CreatedByUserID string
	CreatedAt       time.Time
}

func (CashTransaction) TableName() string {
	return "cash_transactions"
}

type BankAccountType string

const (
	BankTypeChecking BankAccountType = "checking"
	BankTypeSavings  BankAccountType = "savings"
	BankTypeCredit   BankAccountType = "credit"
	BankTypeCash     BankAccountType = "cash"
	BankTypeOther    BankAccountType = "other"
)

func (t BankAccountType) Valid() bool {
	switch t {
	case BankTypeChecking, BankTypeSavings, BankTypeCredit, BankTypeCash, BankTypeOther:
		return true
	}
	return false
}

type BankAccount struct {
	ID             string `gorm:"primaryKey"`
	AccountID      string `gorm:"index;not null"`
	UserID         string `gorm:"not null"`
	Name           string `gorm:"not null"`
	BankName       string
	AccountType    BankAccountType `gorm:"type:varchar(16);not null;default:checking"`
	LastFourDigits string          `gorm:"type:varchar(4)"`
	Balance        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Currency       string          `gorm:"not null;default:EUR"`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (BankAccount) TableName() string {
	return "bank_accounts"
}

type PaymentSource string

const (
	SourceCash PaymentSource = "cash"
	SourceBank PaymentSource = "bank"
)

func (p PaymentSource) Valid() bool {
	return p == SourceCash || p == SourceBank
}

type Expense struct {
	ID              string `gorm:"primaryKey"`
	AccountID       string `gorm:"index;not null"`
	WeekID          string `gorm:"index;not null"`
	Date            time.Time
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaymentSource   PaymentSource   `gorm:"not null"`
	BankAccountID   *string
	CategoryID      *string
	Person          string
	Note            string
	CreatedByUserID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Expense) TableName() string {
	return "expenses"
}
