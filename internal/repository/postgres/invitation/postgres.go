package invitation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	invitationdomain "cashbook-go/internal/domain/invitation"
	membershipdomain "cashbook-go/internal/domain/membership"
	userdomain "cashbook-go/internal/domain/user"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(invitationdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateInvitation(ctx context.Context, inv *invitationdomain.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *PostgresRepository) GetInvitationByToken(ctx context.Context, token string) (*invitationdomain.Invitation, error) {
	var inv invitationdomain.Invitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitationdomain.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) GetInvitationByID(ctx context.Context, accountID, id string) (*invitationdomain.Invitation, error) {
	var inv invitationdomain.Invitation
	if err := r.db.WithContext(ctx).Where("account_id = ? AND id = ?", accountID, id).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitationdomain.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) FindPendingInvitation(ctx context.Context, accountID, email string) (*invitationdomain.Invitation, error) {
	var inv invitationdomain.Invitation
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND email = ? AND status = ?", accountID, email, invitationdomain.StatusPending).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invitationdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) ListInvitationsByAccount(ctx context.Context, accountID string) ([]invitationdomain.Invitation, error) {
	var invitations []invitationdomain.Invitation
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *PostgresRepository) UpdateInvitation(ctx context.Context, inv *invitationdomain.Invitation) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// PurgeExpired removes invitations past their expiry together with any
// transfer requests hanging off them. Pending rows read before the sweep
// already surface as expired via the lazy check.
func (r *PostgresRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&invitationdomain.Invitation{}).
			Where("status IN ? AND expires_at < ?",
				[]invitationdomain.Status{invitationdomain.StatusPending, invitationdomain.StatusExpired}, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("invitation_id IN ?", ids).
			Delete(&invitationdomain.OwnershipTransferRequest{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&invitationdomain.Invitation{})
		purged = result.RowsAffected
		return result.Error
	})
	return purged, err
}

func (r *PostgresRepository) CreateTransferRequest(ctx context.Context, req *invitationdomain.OwnershipTransferRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *PostgresRepository) GetTransferRequestByInvitation(ctx context.Context, invitationID string) (*invitationdomain.OwnershipTransferRequest, error) {
	var req invitationdomain.OwnershipTransferRequest
	if err := r.db.WithContext(ctx).Where("invitation_id = ?", invitationID).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitationdomain.ErrTransferNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *PostgresRepository) GetTransferRequest(ctx context.Context, accountID, id string) (*invitationdomain.OwnershipTransferRequest, error) {
	var req invitationdomain.OwnershipTransferRequest
	if err := r.db.WithContext(ctx).Where("account_id = ? AND id = ?", accountID, id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitationdomain.ErrTransferNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *PostgresRepository) GetLatestTransferRequest(ctx context.Context, accountID string) (*invitationdomain.OwnershipTransferRequest, error) {
	var req invitationdomain.OwnershipTransferRequest
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at desc").
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invitationdomain.ErrTransferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PostgresRepository) UpdateTransferRequest(ctx context.Context, req *invitationdomain.OwnershipTransferRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *PostgresRepository) GetAccountName(ctx context.Context, accountID string) (string, error) {
	var row struct {
		Name string `gorm:"column:name"`
	}
	err := r.db.WithContext(ctx).
		Table("accounts").
		Select("name").
		Where("id = ?", accountID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", membershipdomain.ErrAccountNotFound
	}
	if err != nil {
		return "", err
	}
	return row.Name, nil
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

func (r *PostgresRepository) GetOwnerMembership(ctx context.Context, accountID string) (*membershipdomain.Membership, error) {
	var member membershipdomain.Membership
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND role = ?", accountID, membershipdomain.RoleOwner).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, membershipdomain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) CreateMembership(ctx context.Context, member *membershipdomain.Membership) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) UpdateMembership(ctx context.Context, member *membershipdomain.Membership) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	var u userdomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u *userdomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}
