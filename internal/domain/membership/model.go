package membership

import (
	"time"

	"cashbook-go/internal/domain/permission"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Membership binds one user to one account with a role and a capability set.
// The (account, user) pair is unique; exactly one owner row exists per account.
type Membership struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID   string         `gorm:"type:uuid;not null;uniqueIndex:idx_membership_account_user" json:"account_id"`
	UserID      string         `gorm:"type:uuid;not null;uniqueIndex:idx_membership_account_user" json:"user_id"`
	DisplayName string         `gorm:"not null" json:"display_name"`
	Role        Role           `gorm:"type:varchar(16);not null" json:"role"`
	Permissions permission.Set `gorm:"type:jsonb" json:"permissions"`
	ViewOnly    bool           `gorm:"not null;default:false" json:"view_only"`
	InvitedBy   *string        `gorm:"type:uuid" json:"invited_by"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Membership) IsOwner() bool {
	return m.Role == RoleOwner
}

// HasCapability applies the owner bypass: the owner role alone is
// authoritative and is never stored as individual flags.
func (m *Membership) HasCapability(c permission.Capability) bool {
	return m.Role == RoleOwner || m.Permissions.Has(c)
}
