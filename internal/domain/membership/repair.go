package membership

import (
	"context"
	"errors"
)

// GetMembershipWithRepair is the legacy-migration affordance: accounts created
// before the membership model existed have no owner row for their creator.
// When the lookup misses but the account's recorded creator or owner matches
// the caller, an owner membership is bootstrapped on the spot. Safe to delete
// once all legacy data carries membership rows.
func (s *Service) GetMembershipWithRepair(ctx context.Context, accountID, userID, fallbackDisplayName string) (*Membership, error) {
	member, err := s.repo.GetMembership(ctx, accountID, userID)
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, ErrNotMember) {
		return nil, err
	}

	creatorID, ownerID, err := s.repo.GetAccountOwnership(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if creatorID != userID && (ownerID == nil || *ownerID != userID) {
		return nil, ErrNotMember
	}

	return s.BootstrapOwner(ctx, accountID, userID, fallbackDisplayName)
}
