package invitation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"cashbook-go/internal/domain/activity"
	"cashbook-go/internal/domain/membership"
	"cashbook-go/internal/domain/permission"
	"cashbook-go/internal/domain/user"
)

type Service struct {
	repo    Repository
	tokens  user.TokenIssuer
	audit   activity.Sink
	baseURL string
}

func NewService(repo Repository, tokens user.TokenIssuer, audit activity.Sink, baseURL string) *Service {
	return &Service{repo: repo, tokens: tokens, audit: audit, baseURL: baseURL}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

type CreateInput struct {
	Email       string
	DisplayName string
	Permissions permission.Set
	ViewOnly    bool
}

// Invite is the creation result including the redeemable link.
type Invite struct {
	Invitation *Invitation
	Link       string
}

func (s *Service) CreateInvitation(ctx context.Context, callerUserID, accountID string, input CreateInput) (*Invite, error) {
	caller, err := s.repo.GetMembership(ctx, accountID, callerUserID)
	if err != nil {
		return nil, err
	}
	if !caller.HasCapability(permission.AddUser) {
		return nil, ErrNoPermission
	}

	email := user.NormalizeEmail(input.Email)
	if err := s.checkNotAlreadyInvolved(ctx, s.repo, accountID, email); err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	inv := &Invitation{
		ID:              uuid.NewString(),
		AccountID:       accountID,
		InvitedByUserID: callerUserID,
		Email:           email,
		DisplayName:     strings.TrimSpace(input.DisplayName),
		Permissions:     permission.CascadeGrant(caller.IsOwner(), caller.Permissions, input.Permissions),
		ViewOnly:        input.ViewOnly,
		Type:            TypeInvitation,
		Token:           token,
		Status:          StatusPending,
		ExpiresAt:       time.Now().UTC().Add(TTL),
	}
	if err := s.repo.CreateInvitation(ctx, inv); err != nil {
		return nil, err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		ActorDisplayName:  caller.DisplayName,
		Action:            activity.ActionMemberInvited,
		TargetDescription: email,
	})
	return &Invite{Invitation: inv, Link: inv.Link(s.baseURL)}, nil
}

func (s *Service) InitiateOwnershipTransfer(ctx context.Context, callerUserID, accountID, email, displayName string) (*Invite, error) {
	caller, err := s.repo.GetMembership(ctx, accountID, callerUserID)
	if err != nil {
		return nil, err
	}
	if !caller.IsOwner() {
		return nil, ErrOnlyOwnerTransfers
	}

	email = user.NormalizeEmail(email)
	if existing, err := s.repo.GetUserByEmail(ctx, email); err == nil && existing.ID == callerUserID {
		return nil, ErrSelfTransfer
	}
	if latest, err := s.repo.GetLatestTransferRequest(ctx, accountID); err == nil {
		if latest.Status == TransferPending || latest.Status == TransferCorrectionRequested {
			return nil, ErrTransferInProgress
		}
	}
	if err := s.checkNotAlreadyInvolved(ctx, s.repo, accountID, email); err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	inv := &Invitation{
		ID:              uuid.NewString(),
		AccountID:       accountID,
		InvitedByUserID: callerUserID,
		Email:           email,
		DisplayName:     strings.TrimSpace(displayName),
		Permissions:     permission.All(),
		ViewOnly:        false,
		Type:            TypeOwnershipTransfer,
		Token:           token,
		Status:          StatusPending,
		ExpiresAt:       time.Now().UTC().Add(TTL),
	}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateInvitation(ctx, inv); err != nil {
			return err
		}
		return tx.CreateTransferRequest(ctx, &OwnershipTransferRequest{
			ID:           uuid.NewString(),
			AccountID:    accountID,
			InvitationID: inv.ID,
			FromUserID:   callerUserID,
			ToEmail:      email,
			Status:       TransferPending,
		})
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		ActorDisplayName:  caller.DisplayName,
		Action:            activity.ActionOwnershipTransferInitiated,
		TargetDescription: email,
	})
	return &Invite{Invitation: inv, Link: inv.Link(s.baseURL)}, nil
}

// checkNotAlreadyInvolved rejects an email that already maps to a member of
// the account or to an open invitation for it.
func (s *Service) checkNotAlreadyInvolved(ctx context.Context, repo Repository, accountID, email string) error {
	if existing, err := repo.GetUserByEmail(ctx, email); err == nil {
		if _, err := repo.GetMembership(ctx, accountID, existing.ID); err == nil {
			return ErrAlreadyMember
		}
	}
	if _, err := repo.FindPendingInvitation(ctx, accountID, email); err == nil {
		return ErrDuplicatePending
	}
	return nil
}

// Preview is what an invitee sees before redeeming the token.
type Preview struct {
	Invitation  *Invitation
	AccountName string
}

func (s *Service) GetByToken(ctx context.Context, token string) (*Preview, error) {
	inv, err := s.repo.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case StatusAccepted:
		return nil, ErrAlreadyAccepted
	case StatusExpired:
		return nil, ErrExpired
	case StatusCancelled:
		return nil, ErrNotFound
	}
	if inv.IsExpired(time.Now().UTC()) {
		inv.Status = StatusExpired
		if err := s.repo.UpdateInvitation(ctx, inv); err != nil {
			return nil, err
		}
		return nil, ErrExpired
	}
	name, err := s.repo.GetAccountName(ctx, inv.AccountID)
	if err != nil {
		return nil, err
	}
	return &Preview{Invitation: inv, AccountName: name}, nil
}

type AcceptInput struct {
	Name     string
	Password string
}

// Acceptance carries the session the invitee continues with.
type Acceptance struct {
	User       *user.User
	Membership *membership.Membership
	AccountID  string
	Token      string
}

// AcceptInvitation redeems a token. For an ownership transfer the role swap,
// the owner pointer and the transfer request all move in one transaction.
func (s *Service) AcceptInvitation(ctx context.Context, token string, input AcceptInput) (*Acceptance, error) {
	var (
		acceptor *user.User
		member   *membership.Membership
		inv      *Invitation
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		inv, err = tx.GetInvitationByToken(ctx, token)
		if err != nil {
			return err
		}
		switch inv.Status {
		case StatusAccepted:
			return ErrAlreadyAccepted
		case StatusExpired:
			return ErrExpired
		case StatusCancelled:
			return ErrNotFound
		}
		if inv.IsExpired(time.Now().UTC()) {
			inv.Status = StatusExpired
			if uerr := tx.UpdateInvitation(ctx, inv); uerr != nil {
				return uerr
			}
			return ErrExpired
		}

		acceptor, err = s.resolveAcceptor(ctx, tx, inv, input)
		if err != nil {
			return err
		}

		member, err = tx.GetMembership(ctx, inv.AccountID, acceptor.ID)
		if errors.Is(err, membership.ErrNotMember) {
			member = &membership.Membership{
				ID:          uuid.NewString(),
				AccountID:   inv.AccountID,
				UserID:      acceptor.ID,
				DisplayName: displayNameFor(inv, acceptor),
				Role:        membership.RoleMember,
				Permissions: inv.Permissions.Clone(),
				ViewOnly:    inv.ViewOnly,
				InvitedBy:   &inv.InvitedByUserID,
			}
			if err := tx.CreateMembership(ctx, member); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if inv.Type == TypeOwnershipTransfer {
			if err := s.swapOwnership(ctx, tx, inv, member); err != nil {
				return err
			}
		}

		inv.Status = StatusAccepted
		return tx.UpdateInvitation(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	action := activity.ActionMemberJoined
	if inv.Type == TypeOwnershipTransfer {
		action = activity.ActionOwnershipTransferred
	}
	s.audit.Record(activity.Entry{
		AccountID:         inv.AccountID,
		ActorUserID:       acceptor.ID,
		ActorDisplayName:  member.DisplayName,
		Action:            action,
		TargetDescription: inv.Email,
	})

	session, err := s.tokens.Generate(acceptor.ID)
	if err != nil {
		return nil, err
	}
	return &Acceptance{User: acceptor, Membership: member, AccountID: inv.AccountID, Token: session}, nil
}

func (s *Service) resolveAcceptor(ctx context.Context, tx Repository, inv *Invitation, input AcceptInput) (*user.User, error) {
	existing, err := tx.GetUserByEmail(ctx, inv.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}
	if len(input.Password) < 8 {
		return nil, user.ErrWeakPassword
	}
	hash, err := user.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = inv.DisplayName
	}
	created := &user.User{
		ID:           uuid.NewString(),
		Email:        inv.Email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := tx.CreateUser(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// swapOwnership promotes the acceptor, demotes the previous owner to a
// view-only member with no capabilities, and repoints the account.
func (s *Service) swapOwnership(ctx context.Context, tx Repository, inv *Invitation, member *membership.Membership) error {
	previous, err := tx.GetOwnerMembership(ctx, inv.AccountID)
	if err != nil {
		return err
	}
	previous.Role = membership.RoleMember
	previous.Permissions = permission.None()
	previous.ViewOnly = true
	if err := tx.UpdateMembership(ctx, previous); err != nil {
		return err
	}

	member.Role = membership.RoleOwner
	member.Permissions = permission.All()
	member.ViewOnly = false
	if err := tx.UpdateMembership(ctx, member); err != nil {
		return err
	}
	if err := tx.SetAccountOwner(ctx, inv.AccountID, member.UserID); err != nil {
		return err
	}

	req, err := tx.GetTransferRequestByInvitation(ctx, inv.ID)
	if err != nil {
		return err
	}
	req.Status = TransferAccepted
	return tx.UpdateTransferRequest(ctx, req)
}

func displayNameFor(inv *Invitation, u *user.User) string {
	if inv.DisplayName != "" {
		return inv.DisplayName
	}
	return u.Name
}

func (s *Service) RequestCorrection(ctx context.Context, callerUserID, accountID, transferID, correctEmail string) (*OwnershipTransferRequest, error) {
	req, err := s.repo.GetTransferRequest(ctx, accountID, transferID)
	if err != nil {
		return nil, err
	}
	// Callable by the initiator (the demoted previous owner once the
	// transfer is accepted) or whoever currently owns the account.
	if req.FromUserID != callerUserID {
		caller, err := s.repo.GetMembership(ctx, accountID, callerUserID)
		if err != nil {
			return nil, err
		}
		if !caller.IsOwner() {
			return nil, ErrNotInitiator
		}
	}
	switch req.Status {
	case TransferCorrectionRequested:
		return nil, ErrCorrectionRequested
	case TransferCancelled:
		return nil, ErrCorrectionClosed
	}

	now := time.Now().UTC()
	req.Status = TransferCorrectionRequested
	req.CorrectionTargetEmail = user.NormalizeEmail(correctEmail)
	req.CorrectionRequestedAt = &now
	if err := s.repo.UpdateTransferRequest(ctx, req); err != nil {
		return nil, err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       callerUserID,
		Action:            activity.ActionOwnershipCorrectionRequested,
		TargetDescription: req.CorrectionTargetEmail,
	})
	return req, nil
}

func (s *Service) GetTransferStatus(ctx context.Context, callerUserID, accountID string) (*OwnershipTransferRequest, error) {
	if _, err := s.repo.GetMembership(ctx, accountID, callerUserID); err != nil {
		return nil, err
	}
	return s.repo.GetLatestTransferRequest(ctx, accountID)
}

func (s *Service) ListInvitations(ctx context.Context, callerUserID, accountID string) ([]Invitation, error) {
	caller, err := s.repo.GetMembership(ctx, accountID, callerUserID)
	if err != nil {
		return nil, err
	}
	if !caller.HasCapability(permission.AddUser) {
		return nil, ErrNoPermission
	}
	invitations, err := s.repo.ListInvitationsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range invitations {
		if invitations[i].IsExpired(now) {
			invitations[i].Status = StatusExpired
			if err := s.repo.UpdateInvitation(ctx, &invitations[i]); err != nil {
				return nil, err
			}
		}
	}
	return invitations, nil
}

func (s *Service) CancelInvitation(ctx context.Context, callerUserID, accountID, invitationID string) error {
	caller, err := s.repo.GetMembership(ctx, accountID, callerUserID)
	if err != nil {
		return err
	}
	inv, err := s.repo.GetInvitationByID(ctx, accountID, invitationID)
	if err != nil {
		return err
	}
	if inv.InvitedByUserID != callerUserID && !caller.IsOwner() {
		return ErrNoPermission
	}
	if inv.Status != StatusPending {
		return ErrNotPending
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		inv.Status = StatusCancelled
		if err := tx.UpdateInvitation(ctx, inv); err != nil {
			return err
		}
		if inv.Type != TypeOwnershipTransfer {
			return nil
		}
		req, err := tx.GetTransferRequestByInvitation(ctx, inv.ID)
		if err != nil {
			return err
		}
		req.Status = TransferCancelled
		return tx.UpdateTransferRequest(ctx, req)
	})
}

func (s *Service) ResendInvitation(ctx context.Context, callerUserID, accountID, invitationID string) (*Invite, error) {
	caller, err := s.repo.GetMembership(ctx, accountID, callerUserID)
	if err != nil {
		return nil, err
	}
	inv, err := s.repo.GetInvitationByID(ctx, accountID, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.InvitedByUserID != callerUserID && !caller.IsOwner() {
		return nil, ErrNoPermission
	}
	if inv.Status != StatusPending && inv.Status != StatusExpired {
		return nil, ErrNotPending
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	inv.Token = token
	inv.Status = StatusPending
	inv.ExpiresAt = time.Now().UTC().Add(TTL)
	if err := s.repo.UpdateInvitation(ctx, inv); err != nil {
		return nil, err
	}
	return &Invite{Invitation: inv, Link: inv.Link(s.baseURL)}, nil
}

// PurgeExpired deletes invitations past their expiry, transfer requests
// included. Redeem paths expire lazily on read, the sweep reclaims storage.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.PurgeExpired(ctx, time.Now().UTC())
}
