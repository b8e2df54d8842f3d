package membership

import (
	"context"
	"errors"

	"gorm.io/gorm"

	membershipdomain "cashbook-go/internal/domain/membership"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(membershipdomain.Repository) error) error {
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

func (r *PostgresRepository) GetMembershipByID(ctx context.Context, accountID, memberID string) (*membershipdomain.Membership, error) {
	var member membershipdomain.Membership
	if err := r.db.WithContext(ctx).Where("account_id = ? AND id = ?", accountID, memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membershipdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, accountID string) ([]membershipdomain.Membership, error) {
	var members []membershipdomain.Membership
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) CreateMembership(ctx context.Context, member *membershipdomain.Membership) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) UpdateMembership(ctx context.Context, member *membershipdomain.Membership) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *PostgresRepository) DeleteMembership(ctx context.Context, memberID string) error {
	return r.db.WithContext(ctx).Where("id = ?", memberID).Delete(&membershipdomain.Membership{}).Error
}

func (r *PostgresRepository) GetAccountOwnership(ctx context.Context, accountID string) (string, *string, error) {
	var row struct {
		CreatedByUserID string  `gorm:"column:created_by_user_id"`
		OwnerID         *string `gorm:"column:owner_id"`
	}
	err := r.db.WithContext(ctx).
		Table("accounts").
		Select("created_by_user_id, owner_id").
		Where("id = ?", accountID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, membershipdomain.ErrAccountNotFound
	}
	if err != nil {
		return "", nil, err
	}
	return row.CreatedByUserID, row.OwnerID, nil
}

func (r *PostgresRepository) SetAccountOwner(ctx context.Context, accountID, userID string) error {
	result := r.db.WithContext(ctx).
		Table("accounts").
		Where("id = ?", accountID).
		Update("owner_id", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return membershipdomain.ErrAccountNotFound
	}
	return nil
}
