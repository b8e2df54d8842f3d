package membership

import "errors"

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrNotMember         = errors.New("not a member of this account")
	ErrMemberNotFound    = errors.New("member not found")
	ErrNoPermission      = errors.New("missing permission for this action")
	ErrOwnerImmutable    = errors.New("cannot edit the account owner")
	ErrOwnerNotRemovable = errors.New("cannot remove the account owner, transfer ownership first")
	ErrOnlyOwnerRemoves  = errors.New("only the owner can remove other members")
)
