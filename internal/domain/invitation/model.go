package invitation

import (
	"time"

	"cashbook-go/internal/domain/permission"
)

type Type string

const (
	TypeInvitation        Type = "invitation"
	TypeOwnershipTransfer Type = "ownershipTransfer"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// TTL is how long an invitation token stays redeemable.
const TTL = 7 * 24 * time.Hour

type Invitation struct {
	ID              string `gorm:"primaryKey"`
	AccountID       string `gorm:"index;not null"`
	InvitedByUserID string `gorm:"not null"`
	Email           string `gorm:"index;not null"`
	DisplayName     string
	Permissions     permission.Set `gorm:"type:jsonb"`
	ViewOnly        bool
	Type            Type   `gorm:"not null;default:invitation"`
	Token           string `gorm:"uniqueIndex;not null"`
	Status          Status `gorm:"index;not null;default:pending"`
	ExpiresAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Invitation) TableName() string {
	return "invitations"
}

func (i *Invitation) IsExpired(now time.Time) bool {
	return i.Status == StatusPending && now.After(i.ExpiresAt)
}

// Link builds the URL the invitee follows to redeem the token.
func (i *Invitation) Link(baseURL string) string {
	return baseURL + "/join/" + i.Token
}

type TransferStatus string

const (
	TransferPending             TransferStatus = "pending"
	TransferAccepted            TransferStatus = "accepted"
	TransferCancelled           TransferStatus = "cancelled"
	TransferCorrectionRequested TransferStatus = "correctionRequested"
)

// OwnershipTransferRequest tracks the lifecycle of an ownership handover
// separately from the invitation token that delivers it.
type OwnershipTransferRequest struct {
	ID                    string `gorm:"primaryKey"`
	AccountID             string `gorm:"index;not null"`
	InvitationID          string `gorm:"uniqueIndex;not null"`
	FromUserID            string `gorm:"not null"`
	ToEmail               string `gorm:"not null"`
	Status                TransferStatus `gorm:"not null;default:pending"`
	CorrectionTargetEmail string
	CorrectionRequestedAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (OwnershipTransferRequest) TableName() string {
	return "ownership_transfer_requests"
}
