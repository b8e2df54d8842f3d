package membership

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetMembership(ctx context.Context, accountID, userID string) (*Membership, error)
	GetMembershipByID(ctx context.Context, accountID, memberID string) (*Membership, error)
	ListMembers(ctx context.Context, accountID string) ([]Membership, error)
	CreateMembership(ctx context.Context, member *Membership) error
	UpdateMembership(ctx context.Context, member *Membership) error
	DeleteMembership(ctx context.Context, memberID string) error
	// GetAccountOwnership returns the account's creator and current owner ids.
	GetAccountOwnership(ctx context.Context, accountID string) (creatorID string, ownerID *string, err error)
	SetAccountOwner(ctx context.Context, accountID, userID string) error
}
