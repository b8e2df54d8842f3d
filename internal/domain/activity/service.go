package activity

import (
	"context"
	"errors"
)

var ErrNotMember = errors.New("not a member of this account")

// MemberChecker answers whether a user belongs to an account. Implemented by
// the membership registry; declared here to keep this package a leaf.
type MemberChecker interface {
	IsMember(ctx context.Context, accountID, userID string) (bool, error)
}

type Service struct {
	repo    Repository
	members MemberChecker
}

func NewService(repo Repository, members MemberChecker) *Service {
	return &Service{repo: repo, members: members}
}

func (s *Service) ListByAccount(ctx context.Context, callerUserID, accountID string, limit, offset int) ([]Entry, int64, error) {
	ok, err := s.members.IsMember(ctx, accountID, callerUserID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, ErrNotMember
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByAccount(ctx, accountID, limit, offset)
}
