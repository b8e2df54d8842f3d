package membership

import (
	"context"
	"errors"
	"strings"

	"cashbook-go/internal/domain/activity"
	"cashbook-go/internal/domain/permission"
	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	audit activity.Sink
}

func NewService(repo Repository, audit activity.Sink) *Service {
	return &Service{repo: repo, audit: audit}
}

// BootstrapOwner creates the owner membership for an account. Idempotent: an
// existing row for the pair is returned untouched. Sets the account's owner
// reference when it is still unset.
func (s *Service) BootstrapOwner(ctx context.Context, accountID, userID, displayName string) (*Membership, error) {
	var result *Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetMembership(ctx, accountID, userID)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, ErrNotMember) {
			return err
		}

		member := Membership{
			ID:          uuid.NewString(),
			AccountID:   accountID,
			UserID:      userID,
			DisplayName: strings.TrimSpace(displayName),
			Role:        RoleOwner,
			Permissions: permission.All(),
		}
		if err := tx.CreateMembership(ctx, &member); err != nil {
			return err
		}

		_, ownerID, err := tx.GetAccountOwnership(ctx, accountID)
		if err != nil {
			return err
		}
		if ownerID == nil {
			if err := tx.SetAccountOwner(ctx, accountID, userID); err != nil {
				return err
			}
		}

		result = &member
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) GetMembership(ctx context.Context, accountID, userID string) (*Membership, error) {
	return s.repo.GetMembership(ctx, accountID, userID)
}

// IsMember implements the membership check other domains gate on.
func (s *Service) IsMember(ctx context.Context, accountID, userID string) (bool, error) {
	_, err := s.repo.GetMembership(ctx, accountID, userID)
	if errors.Is(err, ErrNotMember) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ListMembers(ctx context.Context, callerUserID, accountID string) ([]Membership, error) {
	if _, err := s.repo.GetMembership(ctx, accountID, callerUserID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, accountID)
}

type UpdateMemberInput struct {
	DisplayName *string
	// Permissions merges into the target's set: true values pass the cascade
	// rule, false values always revoke. Nil leaves permissions untouched.
	Permissions permission.Set
}

func (s *Service) UpdateMember(ctx context.Context, callerUserID, accountID, memberID string, input UpdateMemberInput) (*Membership, error) {
	caller, err := s.repo.GetMembership(ctx, accountID, callerUserID)
	if err != nil {
		return nil, err
	}
	if !caller.HasCapability(permission.AddUser) {
		return nil, ErrNoPermission
	}

	target, err := s.repo.GetMembershipByID(ctx, accountID, memberID)
	if err != nil {
		return nil, err
	}
	if target.IsOwner() {
		return nil, ErrOwnerImmutable
	}

	if input.DisplayName != nil && strings.TrimSpace(*input.DisplayName) != "" {
		target.DisplayName = strings.TrimSpace(*input.DisplayName)
	}

	var granted, revoked []string
	if input.Permissions != nil {
		if target.Permissions == nil {
			target.Permissions = permission.None()
		}
		for key, want := range input.Permissions {
			if !key.Valid() {
				continue
			}
			switch {
			case want && (caller.IsOwner() || caller.Permissions.Has(key)):
				if !target.Permissions.Has(key) {
					granted = append(granted, string(key))
				}
				target.Permissions[key] = true
			case !want:
				if target.Permissions.Has(key) {
					revoked = append(revoked, string(key))
				}
				target.Permissions[key] = false
			}
		}
	}

	if err := s.repo.UpdateMembership(ctx, target); err != nil {
		return nil, err
	}

	if len(granted) > 0 {
		s.audit.Record(activity.Entry{
			AccountID:         accountID,
			ActorUserID:       callerUserID,
			ActorDisplayName:  caller.DisplayName,
			Action:            activity.ActionPermissionGranted,
			TargetDescription: "Permissions granted to " + target.DisplayName,
			Metadata:          activity.Metadata{"member_id": target.ID, "granted": granted},
		})
	}
	if len(revoked) > 0 {
		s.audit.Record(activity.Entry{
			AccountID:         accountID,
			ActorUserID:       callerUserID,
			ActorDisplayName:  caller.DisplayName,
			Action:            activity.ActionPermissionRevoked,
			TargetDescription: "Permissions revoked from " + target.DisplayName,
			Metadata:          activity.Metadata{"member_id": target.ID, "revoked": revoked},
		})
	}

	return target, nil
}

func (s *Service) RemoveMember(ctx context.Context, callerUserID, accountID, memberID string) error {
	target, err := s.repo.GetMembershipByID(ctx, accountID, memberID)
	if err != nil {
		return err
	}
	if target.IsOwner() {
		return ErrOwnerNotRemovable
	}

	isSelf := target.UserID == callerUserID
	var actorName string
	if isSelf {
		actorName = target.DisplayName
	} else {
		caller, err := s.repo.GetMembership(ctx, accountID, callerUserID)
		if err != nil || !caller.IsOwner() {
			return ErrOnlyOwnerRemoves
		}
		actorName = caller.DisplayName
	}

	if err := s.repo.DeleteMembership(ctx, target.ID); err != nil {
		return err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		ActorDisplayName:  actorName,
		Action:            activity.ActionMemberRemoved,
		TargetDescription: "Member removed: " + target.DisplayName,
		Metadata:          activity.Metadata{"member_id": target.ID, "user_id": target.UserID},
	})
	return nil
}
