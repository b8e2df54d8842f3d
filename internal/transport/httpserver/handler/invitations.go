package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	invitationdomain "cashbook-go/internal/domain/invitation"
	"cashbook-go/internal/domain/permission"
)

type createInvitationRequest struct {
	Email       string          `json:"email"`
	DisplayName string          `json:"display_name"`
	Permissions map[string]bool `json:"permissions"`
	ViewOnly    bool            `json:"view_only"`
}

type invitationResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	DisplayName string          `json:"display_name,omitempty"`
	Permissions map[string]bool `json:"permissions"`
	ViewOnly    bool            `json:"view_only"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Link        string          `json:"link,omitempty"`
	ExpiresAt   time.Time       `json:"expires_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toInvitationResponse(inv *invitationdomain.Invitation, link string) invitationResponse {
	perms := make(map[string]bool, len(permission.Capabilities))
	for _, c := range permission.Capabilities {
		perms[string(c)] = inv.Permissions.Has(c)
	}
	return invitationResponse{
		ID:          inv.ID,
		Email:       inv.Email,
		DisplayName: inv.DisplayName,
		Permissions: perms,
		ViewOnly:    inv.ViewOnly,
		Type:        string(inv.Type),
		Status:      string(inv.Status),
		Link:        link,
		ExpiresAt:   inv.ExpiresAt,
		CreatedAt:   inv.CreatedAt,
	}
}

func permissionSetFrom(raw map[string]bool) permission.Set {
	if raw == nil {
		return nil
	}
	set := make(permission.Set, len(raw))
	for key, value := range raw {
		set[permission.Capability(key)] = value
	}
	return set
}

func (h *Handlers) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	var req createInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	invite, err := h.Invitations.CreateInvitation(r.Context(), userID, accountID, invitationdomain.CreateInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Permissions: permissionSetFrom(req.Permissions),
		ViewOnly:    req.ViewOnly,
	})
	if err != nil {
		h.respondError(w, "invitations.create failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusCreated, toInvitationResponse(invite.Invitation, invite.Link))
}

func (h *Handlers) ListInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	invitations, err := h.Invitations.ListInvitations(r.Context(), userID, accountID)
	if err != nil {
		h.respondError(w, "invitations.list failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	response := make([]invitationResponse, 0, len(invitations))
	for i := range invitations {
		response = append(response, toInvitationResponse(&invitations[i], ""))
	}
	writeList(w, http.StatusOK, response, len(response))
}

func (h *Handlers) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	invitationID := chi.URLParam(r, "invitation_id")

	if err := h.Invitations.CancelInvitation(r.Context(), userID, accountID, invitationID); err != nil {
		h.respondError(w, "invitations.cancel failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeMessage(w, http.StatusOK, "invitation cancelled")
}

func (h *Handlers) ResendInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	invitationID := chi.URLParam(r, "invitation_id")

	invite, err := h.Invitations.ResendInvitation(r.Context(), userID, accountID, invitationID)
	if err != nil {
		h.respondError(w, "invitations.resend failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toInvitationResponse(invite.Invitation, invite.Link))
}

type invitationPreviewResponse struct {
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	AccountName string    `json:"account_name"`
	Type        string    `json:"type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// GetInvitationByToken is a public endpoint, the invitee has no session yet.
func (h *Handlers) GetInvitationByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	preview, err := h.Invitations.GetByToken(r.Context(), token)
	if err != nil {
		h.respondError(w, "invitations.preview failed", err)
		return
	}
	writeData(w, http.StatusOK, invitationPreviewResponse{
		Email:       preview.Invitation.Email,
		DisplayName: preview.Invitation.DisplayName,
		AccountName: preview.AccountName,
		Type:        string(preview.Invitation.Type),
		ExpiresAt:   preview.Invitation.ExpiresAt,
	})
}

type acceptInvitationRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type acceptInvitationResponse struct {
	Token     string         `json:"token"`
	User      userResponse   `json:"user"`
	AccountID string         `json:"account_id"`
	Member    memberResponse `json:"member"`
}

func (h *Handlers) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var req acceptInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Invitations.AcceptInvitation(r.Context(), token, invitationdomain.AcceptInput{
		Name:     joinName(req.FirstName, req.LastName),
		Password: req.Password,
	})
	if err != nil {
		h.respondError(w, "invitations.accept failed", err)
		return
	}
	writeData(w, http.StatusOK, acceptInvitationResponse{
		Token:     result.Token,
		User:      toUserResponse(result.User),
		AccountID: result.AccountID,
		Member:    toMemberResponse(result.Membership),
	})
}

type transferRequestBody struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type transferResponse struct {
	ID                    string     `json:"id"`
	ToEmail               string     `json:"to_email"`
	Status                string     `json:"status"`
	CorrectionTargetEmail string     `json:"correction_target_email,omitempty"`
	CorrectionRequestedAt *time.Time `json:"correction_requested_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

func toTransferResponse(req *invitationdomain.OwnershipTransferRequest) transferResponse {
	return transferResponse{
		ID:                    req.ID,
		ToEmail:               req.ToEmail,
		Status:                string(req.Status),
		CorrectionTargetEmail: req.CorrectionTargetEmail,
		CorrectionRequestedAt: req.CorrectionRequestedAt,
		CreatedAt:             req.CreatedAt,
	}
}

func (h *Handlers) InitiateOwnershipTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	var req transferRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	invite, err := h.Invitations.InitiateOwnershipTransfer(r.Context(), userID, accountID, req.Email, req.DisplayName)
	if err != nil {
		h.respondError(w, "transfer.initiate failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusCreated, toInvitationResponse(invite.Invitation, invite.Link))
}

func (h *Handlers) GetTransferStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	req, err := h.Invitations.GetTransferStatus(r.Context(), userID, accountID)
	if err != nil {
		h.respondError(w, "transfer.status failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toTransferResponse(req))
}

type correctionRequest struct {
	Email string `json:"email"`
}

func (h *Handlers) RequestOwnershipCorrection(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	transferID := chi.URLParam(r, "transfer_id")
	var req correctionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	updated, err := h.Invitations.RequestCorrection(r.Context(), userID, accountID, transferID, req.Email)
	if err != nil {
		h.respondError(w, "transfer.correction failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toTransferResponse(updated))
}
