package invitation

import (
	"context"
	"time"

	"cashbook-go/internal/domain/membership"
	"cashbook-go/internal/domain/user"
)

// Repository spans invitations, transfer requests and the membership and
// user rows an acceptance has to touch in the same transaction.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateInvitation(ctx context.Context, inv *Invitation) error
	GetInvitationByToken(ctx context.Context, token string) (*Invitation, error)
	GetInvitationByID(ctx context.Context, accountID, id string) (*Invitation, error)
	FindPendingInvitation(ctx context.Context, accountID, email string) (*Invitation, error)
	ListInvitationsByAccount(ctx context.Context, accountID string) ([]Invitation, error)
	UpdateInvitation(ctx context.Context, inv *Invitation) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)

	CreateTransferRequest(ctx context.Context, req *OwnershipTransferRequest) error
	GetTransferRequestByInvitation(ctx context.Context, invitationID string) (*OwnershipTransferRequest, error)
	GetTransferRequest(ctx context.Context, accountID, id string) (*OwnershipTransferRequest, error)
	GetLatestTransferRequest(ctx context.Context, accountID string) (*OwnershipTransferRequest, error)
	UpdateTransferRequest(ctx context.Context, req *OwnershipTransferRequest) error

	GetAccountName(ctx context.Context, accountID string) (string, error)
	SetAccountOwner(ctx context.Context, accountID, userID string) error

	GetMembership(ctx context.Context, accountID, userID string) (*membership.Membership, error)
	GetOwnerMembership(ctx context.Context, accountID string) (*membership.Membership, error)
	CreateMembership(ctx context.Context, m *membership.Membership) error
	UpdateMembership(ctx context.Context, m *membership.Membership) error

	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	CreateUser(ctx context.Context, u *user.User) error
}
