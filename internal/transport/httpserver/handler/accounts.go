package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	accountdomain "cashbook-go/internal/domain/account"
	"cashbook-go/internal/transport/httpserver/middleware"
)

type createAccountRequest struct {
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	Category          string  `json:"category"`
	Subcategory       string  `json:"subcategory"`
	CustomDescription string  `json:"custom_description"`
	Currency          string  `json:"currency"`
	Timezone          string  `json:"timezone"`
	DisplayName       string  `json:"display_name"`
	OvertimeRatio     float64 `json:"overtime_ratio"`
}

type updateAccountRequest struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Subcategory   *string  `json:"subcategory"`
	Currency      *string  `json:"currency"`
	Timezone      *string  `json:"timezone"`
	OvertimeRatio *float64 `json:"overtime_ratio"`
}

type accountResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Category          string  `json:"category,omitempty"`
	Subcategory       string  `json:"subcategory,omitempty"`
	CustomDescription string  `json:"custom_description,omitempty"`
	Currency          string  `json:"currency"`
	Timezone        string    `json:"timezone"`
	OvertimeRatio   float64   `json:"overtime_ratio"`
	OwnerID         *string   `json:"owner_id"`
	ParentAccountID *string   `json:"parent_account_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toAccountResponse(a *accountdomain.Account) accountResponse {
	return accountResponse{
		ID:                a.ID,
		Name:              a.Name,
		Type:              string(a.Type),
		Category:          a.Category,
		Subcategory:       a.Subcategory,
		CustomDescription: a.CustomDescription,
		Currency:          a.Currency,
		Timezone:        a.Timezone,
		OvertimeRatio:   a.OvertimeRatio,
		OwnerID:         a.OwnerID,
		ParentAccountID: a.ParentAccountID,
		CreatedAt:       a.CreatedAt,
	}
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or missing token")
	}
	return userID, ok
}

func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.Accounts.CreateAccount(r.Context(), userID, accountdomain.CreateInput{
		Name:              req.Name,
		Type:              accountdomain.Type(req.Type),
		Category:          req.Category,
		Subcategory:       req.Subcategory,
		CustomDescription: req.CustomDescription,
		Currency:          req.Currency,
		Timezone:          req.Timezone,
		DisplayName:       req.DisplayName,
		OvertimeRatio:     req.OvertimeRatio,
	})
	if err != nil {
		h.respondError(w, "accounts.create failed", err, "user_id", userID)
		return
	}
	writeData(w, http.StatusCreated, toAccountResponse(acc))
}

func (h *Handlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	accounts, err := h.Accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		h.respondError(w, "accounts.list failed", err, "user_id", userID)
		return
	}
	response := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		response = append(response, toAccountResponse(&accounts[i]))
	}
	writeList(w, http.StatusOK, response, len(response))
}

func (h *Handlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	acc, err := h.Accounts.GetAccount(r.Context(), userID, accountID)
	if err != nil {
		h.respondError(w, "accounts.get failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toAccountResponse(acc))
}

func (h *Handlers) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.Accounts.UpdateAccount(r.Context(), userID, accountID, accountdomain.UpdateInput{
		Name:          req.Name,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Currency:      req.Currency,
		Timezone:      req.Timezone,
		OvertimeRatio: req.OvertimeRatio,
	})
	if err != nil {
		h.respondError(w, "accounts.update failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toAccountResponse(acc))
}

func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	if err := h.Accounts.DeleteAccount(r.Context(), userID, accountID); err != nil {
		h.respondError(w, "accounts.delete failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeMessage(w, http.StatusOK, "account deleted")
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	categories, err := h.Accounts.ListCategories(r.Context(), userID, accountID)
	if err != nil {
		h.respondError(w, "categories.list failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	response := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, categoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	writeList(w, http.StatusOK, response, len(response))
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) AddCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.Accounts.AddCategory(r.Context(), userID, accountID, req.Name)
	if err != nil {
		h.respondError(w, "categories.add failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusCreated, categoryResponse{ID: category.ID, Name: category.Name, CreatedAt: category.CreatedAt})
}

func (h *Handlers) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	categoryID := chi.URLParam(r, "category_id")

	if err := h.Accounts.RemoveCategory(r.Context(), userID, accountID, categoryID); err != nil {
		h.respondError(w, "categories.remove failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeMessage(w, http.StatusOK, "category removed")
}

type personResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handlers) ListPeople(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	people, err := h.Accounts.ListPeople(r.Context(), userID, accountID)
	if err != nil {
		h.respondError(w, "people.list failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	response := make([]personResponse, 0, len(people))
	for _, p := range people {
		response = append(response, personResponse{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt})
	}
	writeList(w, http.StatusOK, response, len(response))
}

func (h *Handlers) AddPerson(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	person, err := h.Accounts.AddPerson(r.Context(), userID, accountID, req.Name)
	if err != nil {
		h.respondError(w, "people.add failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusCreated, personResponse{ID: person.ID, Name: person.Name, CreatedAt: person.CreatedAt})
}

func (h *Handlers) RemovePerson(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	personID := chi.URLParam(r, "person_id")

	if err := h.Accounts.RemovePerson(r.Context(), userID, accountID, personID); err != nil {
		h.respondError(w, "people.remove failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeMessage(w, http.StatusOK, "person removed")
}
