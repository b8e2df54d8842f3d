package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	accountdomain "cashbook-go/internal/domain/account"
)

type relationshipResponse struct {
	ID               string    `json:"id"`
	ParentAccountID  string    `json:"parent_account_id"`
	ChildAccountID   string    `json:"child_account_id"`
	RelationshipType string    `json:"relationship_type"`
	AccessLevel      string    `json:"access_level"`
	CreatedAt        time.Time `json:"created_at"`
}

func toRelationshipResponse(rel *accountdomain.Relationship) relationshipResponse {
	return relationshipResponse{
		ID:               rel.ID,
		ParentAccountID:  rel.ParentAccountID,
		ChildAccountID:   rel.ChildAccountID,
		RelationshipType: string(rel.RelationshipType),
		AccessLevel:      string(rel.AccessLevel),
		CreatedAt:        rel.CreatedAt,
	}
}

func accessLevelFrom(raw string) accountdomain.AccessLevel {
	if raw == string(accountdomain.AccessFull) {
		return accountdomain.AccessFull
	}
	return accountdomain.AccessView
}

// CreateDownwardAccount creates a child account under the current one; the
// caller becomes the child's owner.
func (h *Handlers) CreateDownwardAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	parentID := chi.URLParam(r, "account_id")
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	child, err := h.Accounts.CreateDownwardAccount(r.Context(), userID, parentID, accountdomain.CreateInput{
		Name:              req.Name,
		Type:              accountdomain.Type(req.Type),
		Category:          req.Category,
		Subcategory:       req.Subcategory,
		CustomDescription: req.CustomDescription,
		Currency:          req.Currency,
		Timezone:          req.Timezone,
		OvertimeRatio:     req.OvertimeRatio,
	})
	if err != nil {
		h.respondError(w, "relationships.downward failed", err, "user_id", userID, "parent_account_id", parentID)
		return
	}
	writeData(w, http.StatusCreated, toAccountResponse(child))
}

type linkUpwardRequest struct {
	ParentAccountID string `json:"parent_account_id"`
	AccessLevel     string `json:"access_level"`
}

func (h *Handlers) LinkUpwardAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	childID := chi.URLParam(r, "account_id")
	var req linkUpwardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ParentAccountID == "" {
		writeError(w, http.StatusBadRequest, "parent_account_id is required")
		return
	}

	rel, err := h.Accounts.LinkUpwardAccount(r.Context(), userID, childID, req.ParentAccountID, accessLevelFrom(req.AccessLevel))
	if err != nil {
		h.respondError(w, "relationships.upward failed", err, "user_id", userID, "account_id", childID)
		return
	}
	writeData(w, http.StatusCreated, toRelationshipResponse(rel))
}

type linkSidewaysRequest struct {
	PeerAccountID string `json:"peer_account_id"`
	AccessLevel   string `json:"access_level"`
}

func (h *Handlers) LinkSidewaysAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	var req linkSidewaysRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PeerAccountID == "" {
		writeError(w, http.StatusBadRequest, "peer_account_id is required")
		return
	}

	rel, err := h.Accounts.LinkSidewaysAccount(r.Context(), userID, accountID, req.PeerAccountID, accessLevelFrom(req.AccessLevel))
	if err != nil {
		h.respondError(w, "relationships.sideways failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusCreated, toRelationshipResponse(rel))
}

func (h *Handlers) ListRelationships(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	relationships, err := h.Accounts.ListRelationships(r.Context(), userID, accountID)
	if err != nil {
		h.respondError(w, "relationships.list failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	response := make([]relationshipResponse, 0, len(relationships))
	for i := range relationships {
		response = append(response, toRelationshipResponse(&relationships[i]))
	}
	writeList(w, http.StatusOK, response, len(response))
}

func (h *Handlers) RemoveRelationship(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	relationshipID := chi.URLParam(r, "relationship_id")

	if err := h.Accounts.RemoveRelationship(r.Context(), userID, accountID, relationshipID); err != nil {
		h.respondError(w, "relationships.remove failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeMessage(w, http.StatusOK, "relationship removed")
}
