package db

import (
	"fmt"

	accountdomain "cashbook-go/internal/domain/account"
	activitydomain "cashbook-go/internal/domain/activity"
	invitationdomain "cashbook-go/internal/domain/invitation"
	ledgerdomain "cashbook-go/internal/domain/ledger"
	membershipdomain "cashbook-go/internal/domain/membership"
	userdomain "cashbook-go/internal/domain/user"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date for every domain model.
func Migrate(db *gorm.DB) error {
	models := []any{
		&userdomain.User{},
		&accountdomain.Account{},
		&accountdomain.Category{},
		&accountdomain.Person{},
		&accountdomain.Relationship{},
		&membershipdomain.Membership{},
		&invitationdomain.Invitation{},
		&invitationdomain.OwnershipTransferRequest{},
		&ledgerdomain.Week{},
		&ledgerdomain.CashTransaction{},
		&ledgerdomain.BankAccount{},
		&ledgerdomain.Expense{},
		&activitydomain.Entry{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
