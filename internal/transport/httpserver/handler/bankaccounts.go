package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"cashbook-go/internal/domain/ledger"
)

type bankAccountRequest struct {
	Name           string          `json:"name"`
	BankName       string          `json:"bank_name"`
	AccountType    string          `json:"account_type"`
	LastFourDigits string          `json:"last_four_digits"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
}

type bankAccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	BankName       string          `json:"bank_name,omitempty"`
	AccountType    string          `json:"account_type"`
	LastFourDigits string          `json:"last_four_digits,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toBankAccountResponse(b *ledger.BankAccount) bankAccountResponse {
	return bankAccountResponse{
		ID:             b.ID,
		Name:           b.Name,
		BankName:       b.BankName,
		AccountType:    string(b.AccountType),
		LastFourDigits: b.LastFourDigits,
		Balance:        b.Balance,
		Currency:       b.Currency,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
	}
}

func (h *Handlers) AddBankAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	var req bankAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	bank, err := h.Ledger.AddBankAccount(r.Context(), userID, accountID, ledger.BankAccountInput{
		Name:           req.Name,
		BankName:       req.BankName,
		AccountType:    ledger.BankAccountType(req.AccountType),
		LastFourDigits: req.LastFourDigits,
		Currency:       req.Currency,
		Balance:        req.Balance,
	})
	if err != nil {
		h.respondError(w, "bankAccounts.add failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusCreated, toBankAccountResponse(bank))
}

func (h *Handlers) ListBankAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	banks, err := h.Ledger.ListBankAccounts(r.Context(), userID, accountID)
	if err != nil {
		h.respondError(w, "bankAccounts.list failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	response := make([]bankAccountResponse, 0, len(banks))
	for i := range banks {
		response = append(response, toBankAccountResponse(&banks[i]))
	}
	writeList(w, http.StatusOK, response, len(response))
}

type bankAccountUpdateRequest struct {
	Name           *string `json:"name"`
	BankName       *string `json:"bank_name"`
	AccountType    *string `json:"account_type"`
	LastFourDigits *string `json:"last_four_digits"`
	Currency       *string `json:"currency"`
}

func (h *Handlers) UpdateBankAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	bankAccountID := chi.URLParam(r, "bank_account_id")
	var req bankAccountUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input := ledger.BankAccountUpdateInput{
		Name:           req.Name,
		BankName:       req.BankName,
		LastFourDigits: req.LastFourDigits,
		Currency:       req.Currency,
	}
	if req.AccountType != nil {
		bankType := ledger.BankAccountType(*req.AccountType)
		input.AccountType = &bankType
	}

	bank, err := h.Ledger.UpdateBankAccount(r.Context(), userID, accountID, bankAccountID, input)
	if err != nil {
		h.respondError(w, "bankAccounts.update failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toBankAccountResponse(bank))
}

func (h *Handlers) RemoveBankAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	bankAccountID := chi.URLParam(r, "bank_account_id")

	if err := h.Ledger.RemoveBankAccount(r.Context(), userID, accountID, bankAccountID); err != nil {
		h.respondError(w, "bankAccounts.remove failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeMessage(w, http.StatusOK, "bank account removed")
}
