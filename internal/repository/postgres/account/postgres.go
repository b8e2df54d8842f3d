package account

import (
	"context"
	"errors"

	"gorm.io/gorm"

	accountdomain "cashbook-go/internal/domain/account"
	invitationdomain "cashbook-go/internal/domain/invitation"
	ledgerdomain "cashbook-go/internal/domain/ledger"
	membershipdomain "cashbook-go/internal/domain/membership"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(accountdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateAccount(ctx context.Context, a *accountdomain.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *PostgresRepository) GetAccount(ctx context.Context, id string) (*accountdomain.Account, error) {
	var acc accountdomain.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *PostgresRepository) ListAccountsByUser(ctx context.Context, userID string) ([]accountdomain.Account, error) {
	var accounts []accountdomain.Account
	err := r.db.WithContext(ctx).
		Table("accounts").
		Joins("join memberships on memberships.account_id = accounts.id").
		Where("memberships.user_id = ?", userID).
		Order("accounts.created_at asc").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, a *accountdomain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *PostgresRepository) DeleteAccountCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var weekIDs []string
		if err := tx.Model(&ledgerdomain.Week{}).Where("account_id = ?", id).Pluck("id", &weekIDs).Error; err != nil {
			return err
		}
		if len(weekIDs) > 0 {
			if err := tx.Where("week_id in ?", weekIDs).Delete(&ledgerdomain.CashTransaction{}).Error; err != nil {
				return err
			}
		}
		for _, model := range []any{
			&ledgerdomain.Expense{},
			&ledgerdomain.Week{},
			&ledgerdomain.BankAccount{},
			&accountdomain.Category{},
			&accountdomain.Person{},
			&membershipdomain.Membership{},
			&invitationdomain.Invitation{},
			&invitationdomain.OwnershipTransferRequest{},
		} {
			if err := tx.Where("account_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("parent_account_id = ? OR child_account_id = ?", id, id).Delete(&accountdomain.Relationship{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&accountdomain.Account{}).Error
	})
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, c *accountdomain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *PostgresRepository) ListCategories(ctx context.Context, accountID string) ([]accountdomain.Category, error) {
	var categories []accountdomain.Category
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) GetCategory(ctx context.Context, accountID, id string) (*accountdomain.Category, error) {
	var category accountdomain.Category
	if err := r.db.WithContext(ctx).Where("account_id = ? AND id = ?", accountID, id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) FindCategoryByName(ctx context.Context, accountID, name string) (*accountdomain.Category, error) {
	var category accountdomain.Category
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND lower(name) = lower(?)", accountID, name).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, accountdomain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&accountdomain.Category{}).Error
}

func (r *PostgresRepository) CreatePerson(ctx context.Context, p *accountdomain.Person) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PostgresRepository) ListPeople(ctx context.Context, accountID string) ([]accountdomain.Person, error) {
	var people []accountdomain.Person
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("name asc").
		Find(&people).Error; err != nil {
		return nil, err
	}
	return people, nil
}

func (r *PostgresRepository) GetPerson(ctx context.Context, accountID, id string) (*accountdomain.Person, error) {
	var person accountdomain.Person
	if err := r.db.WithContext(ctx).Where("account_id = ? AND id = ?", accountID, id).First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrPersonNotFound
		}
		return nil, err
	}
	return &person, nil
}

func (r *PostgresRepository) FindPersonByName(ctx context.Context, accountID, name string) (*accountdomain.Person, error) {
	var person accountdomain.Person
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND lower(name) = lower(?)", accountID, name).
		First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, accountdomain.ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *PostgresRepository) DeletePerson(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&accountdomain.Person{}).Error
}

func (r *PostgresRepository) CreateRelationship(ctx context.Context, rel *accountdomain.Relationship) error {
	return r.db.WithContext(ctx).Create(rel).Error
}

func (r *PostgresRepository) FindRelationship(ctx context.Context, parentID, childID string) (*accountdomain.Relationship, error) {
	var rel accountdomain.Relationship
	err := r.db.WithContext(ctx).
		Where("parent_account_id = ? AND child_account_id = ?", parentID, childID).
		First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, accountdomain.ErrRelationshipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *PostgresRepository) GetRelationship(ctx context.Context, accountID, id string) (*accountdomain.Relationship, error) {
	var rel accountdomain.Relationship
	err := r.db.WithContext(ctx).
		Where("id = ? AND (parent_account_id = ? OR child_account_id = ?)", id, accountID, accountID).
		First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, accountdomain.ErrRelationshipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *PostgresRepository) ListRelationships(ctx context.Context, accountID string) ([]accountdomain.Relationship, error) {
	var rels []accountdomain.Relationship
	if err := r.db.WithContext(ctx).
		Where("parent_account_id = ? OR child_account_id = ?", accountID, accountID).
		Order("created_at asc").
		Find(&rels).Error; err != nil {
		return nil, err
	}
	return rels, nil
}

func (r *PostgresRepository) DeleteRelationship(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&accountdomain.Relationship{}).Error
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

func (r *PostgresRepository) CreateMembership(ctx context.Context, member *membershipdomain.Membership) error {
	return r.db.WithContext(ctx).Create(member).Error
}
