package invitation

import "errors"

var (
	ErrNotFound            = errors.New("invitation not found")
	ErrExpired             = errors.New("invitation has expired")
	ErrAlreadyAccepted     = errors.New("invitation has already been accepted")
	ErrNotPending          = errors.New("invitation is no longer pending")
	ErrDuplicatePending    = errors.New("a pending invitation for this email already exists")
	ErrAlreadyMember       = errors.New("this user is already a member of the account")
	ErrNoPermission        = errors.New("insufficient permissions to manage invitations")
	ErrOnlyOwnerTransfers  = errors.New("only the account owner can transfer ownership")
	ErrSelfTransfer        = errors.New("cannot transfer ownership to yourself")
	ErrTransferNotFound    = errors.New("ownership transfer request not found")
	ErrTransferInProgress  = errors.New("an ownership transfer is already in progress for this account")
	ErrCorrectionRequested = errors.New("a correction has already been requested for this transfer")
	ErrCorrectionClosed    = errors.New("this transfer can no longer be corrected")
	ErrNotInitiator        = errors.New("only the current or previous owner can request a correction")
)
