package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	membershipdomain "cashbook-go/internal/domain/membership"
	"cashbook-go/internal/domain/permission"
)

type memberResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Role        string          `json:"role"`
	Permissions map[string]bool `json:"permissions"`
	ViewOnly    bool            `json:"view_only"`
	InvitedBy   *string         `json:"invited_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toMemberResponse(m *membershipdomain.Membership) memberResponse {
	perms := make(map[string]bool, len(permission.Capabilities))
	for _, c := range permission.Capabilities {
		perms[string(c)] = m.HasCapability(c)
	}
	return memberResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Role:        string(m.Role),
		Permissions: perms,
		ViewOnly:    m.ViewOnly,
		InvitedBy:   m.InvitedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// MyMembership returns the caller's own membership row, permissions included,
// so clients can gate their UI without listing everyone. The lookup runs
// through the legacy repair path so pre-membership accounts heal on first read.
func (h *Handlers) MyMembership(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	u, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		h.respondError(w, "members.me failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	member, err := h.Members.GetMembershipWithRepair(r.Context(), accountID, userID, u.Name)
	if err != nil {
		h.respondError(w, "members.me failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toMemberResponse(member))
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	members, err := h.Members.ListMembers(r.Context(), userID, accountID)
	if err != nil {
		h.respondError(w, "members.list failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	response := make([]memberResponse, 0, len(members))
	for i := range members {
		response = append(response, toMemberResponse(&members[i]))
	}
	writeList(w, http.StatusOK, response, len(response))
}

type updateMemberRequest struct {
	DisplayName *string         `json:"display_name"`
	Permissions map[string]bool `json:"permissions"`
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	memberID := chi.URLParam(r, "member_id")
	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.Members.UpdateMember(r.Context(), userID, accountID, memberID, membershipdomain.UpdateMemberInput{
		DisplayName: req.DisplayName,
		Permissions: permissionSetFrom(req.Permissions),
	})
	if err != nil {
		h.respondError(w, "members.update failed", err, "user_id", userID, "account_id", accountID, "member_id", memberID)
		return
	}
	writeData(w, http.StatusOK, toMemberResponse(member))
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	memberID := chi.URLParam(r, "member_id")

	if err := h.Members.RemoveMember(r.Context(), userID, accountID, memberID); err != nil {
		h.respondError(w, "members.remove failed", err, "user_id", userID, "account_id", accountID, "member_id", memberID)
		return
	}
	writeMessage(w, http.StatusOK, "member removed")
}
