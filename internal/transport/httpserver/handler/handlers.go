package handler

import (
	"net/http"

	accountdomain "cashbook-go/internal/domain/account"
	activitydomain "cashbook-go/internal/domain/activity"
	invitationdomain "cashbook-go/internal/domain/invitation"
	ledgerdomain "cashbook-go/internal/domain/ledger"
	membershipdomain "cashbook-go/internal/domain/membership"
	userdomain "cashbook-go/internal/domain/user"
	"cashbook-go/pkg/logger"
)

type Handlers struct {
	Users       *userdomain.Service
	Accounts    *accountdomain.Service
	Members     *membershipdomain.Service
	Invitations *invitationdomain.Service
	Ledger      *ledgerdomain.Service
	Activity    *activitydomain.Service
	log         logger.Logger
}

func New(
	users *userdomain.Service,
	accounts *accountdomain.Service,
	members *membershipdomain.Service,
	invitations *invitationdomain.Service,
	ledger *ledgerdomain.Service,
	activity *activitydomain.Service,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Users:       users,
		Accounts:    accounts,
		Members:     members,
		Invitations: invitations,
		Ledger:      ledger,
		Activity:    activity,
		log:         log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
