package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	accountdomain "cashbook-go/internal/domain/account"
	activitydomain "cashbook-go/internal/domain/activity"
	invitationdomain "cashbook-go/internal/domain/invitation"
	ledgerdomain "cashbook-go/internal/domain/ledger"
	membershipdomain "cashbook-go/internal/domain/membership"
	userdomain "cashbook-go/internal/domain/user"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, status int, data interface{}, count int) {
	writeJSON(w, status, envelope{Success: true, Data: data, Count: &count})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// statusFor classifies a domain error into an HTTP status. Unknown errors
// are internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, membershipdomain.ErrNotMember),
		errors.Is(err, membershipdomain.ErrNoPermission),
		errors.Is(err, membershipdomain.ErrOwnerImmutable),
		errors.Is(err, membershipdomain.ErrOwnerNotRemovable),
		errors.Is(err, membershipdomain.ErrOnlyOwnerRemoves),
		errors.Is(err, invitationdomain.ErrNoPermission),
		errors.Is(err, invitationdomain.ErrOnlyOwnerTransfers),
		errors.Is(err, invitationdomain.ErrNotInitiator),
		errors.Is(err, accountdomain.ErrOnlyOwnerDeletes),
		errors.Is(err, accountdomain.ErrOnlyOwnerUnlinks),
		errors.Is(err, ledgerdomain.ErrOnlyOwnerDeletes),
		errors.Is(err, activitydomain.ErrNotMember):
		return http.StatusForbidden

	case errors.Is(err, membershipdomain.ErrAccountNotFound),
		errors.Is(err, membershipdomain.ErrMemberNotFound),
		errors.Is(err, invitationdomain.ErrNotFound),
		errors.Is(err, invitationdomain.ErrAlreadyAccepted),
		errors.Is(err, invitationdomain.ErrTransferNotFound),
		errors.Is(err, accountdomain.ErrNotFound),
		errors.Is(err, accountdomain.ErrCategoryNotFound),
		errors.Is(err, accountdomain.ErrPersonNotFound),
		errors.Is(err, accountdomain.ErrRelationshipNotFound),
		errors.Is(err, ledgerdomain.ErrWeekNotFound),
		errors.Is(err, ledgerdomain.ErrExpenseNotFound),
		errors.Is(err, ledgerdomain.ErrBankAccountNotFound),
		errors.Is(err, userdomain.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, invitationdomain.ErrDuplicatePending),
		errors.Is(err, invitationdomain.ErrAlreadyMember),
		errors.Is(err, invitationdomain.ErrTransferInProgress),
		errors.Is(err, accountdomain.ErrDuplicateCategory),
		errors.Is(err, accountdomain.ErrDuplicatePerson),
		errors.Is(err, accountdomain.ErrDuplicateRelationship),
		errors.Is(err, userdomain.ErrEmailTaken):
		return http.StatusConflict

	// 410 is reserved for expiry; a consumed token reads as unknown.
	case errors.Is(err, invitationdomain.ErrExpired):
		return http.StatusGone

	case errors.Is(err, userdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, invitationdomain.ErrSelfTransfer),
		errors.Is(err, invitationdomain.ErrNotPending),
		errors.Is(err, invitationdomain.ErrCorrectionRequested),
		errors.Is(err, invitationdomain.ErrCorrectionClosed),
		errors.Is(err, accountdomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidType),
		errors.Is(err, accountdomain.ErrCategoryRequired),
		errors.Is(err, accountdomain.ErrDescriptionRequired),
		errors.Is(err, accountdomain.ErrSelfRelationship),
		errors.Is(err, ledgerdomain.ErrWeekLocked),
		errors.Is(err, ledgerdomain.ErrAlreadyLocked),
		errors.Is(err, ledgerdomain.ErrInvalidAmount),
		errors.Is(err, ledgerdomain.ErrInvalidSource),
		errors.Is(err, ledgerdomain.ErrInvalidDateRange),
		errors.Is(err, ledgerdomain.ErrInvalidBankType),
		errors.Is(err, ledgerdomain.ErrInvalidLastFour),
		errors.Is(err, ledgerdomain.ErrImmutableAmount),
		errors.Is(err, ledgerdomain.ErrBankAccountRequired),
		errors.Is(err, ledgerdomain.ErrBankAccountInactive),
		errors.Is(err, ledgerdomain.ErrInsufficientBank),
		errors.Is(err, ledgerdomain.ErrInsufficientCash),
		errors.Is(err, userdomain.ErrWeakPassword):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes the classified error. Internal errors get a generic
// message so store details never leak to clients.
func (h *Handlers) respondError(w http.ResponseWriter, op string, err error, args ...interface{}) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.InternalError(op, err, args...)
		writeError(w, status, "internal error")
		return
	}
	h.log.BusinessError(op, err, args...)
	writeError(w, status, err.Error())
}
