package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"cashbook-go/internal/domain/ledger"
)

type weekRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type weekResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	CashBoxBalance decimal.Decimal `json:"cash_box_balance"`
	IsLocked       bool            `json:"is_locked"`
	LockedAt       *time.Time      `json:"locked_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toWeekResponse(w *ledger.Week) weekResponse {
	return weekResponse{
		ID:             w.ID,
		Name:           w.Name,
		StartDate:      w.StartDate.Format("2006-01-02"),
		EndDate:        w.EndDate.Format("2006-01-02"),
		CashBoxBalance: w.CashBoxBalance,
		IsLocked:       w.IsLocked,
		LockedAt:       w.LockedAt,
		CreatedAt:      w.CreatedAt,
	}
}

func (h *Handlers) CreateWeek(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	var req weekRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := parseDateRequired(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	end, err := parseDateRequired(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date")
		return
	}

	week, err := h.Ledger.CreateWeek(r.Context(), userID, accountID, ledger.WeekInput{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		h.respondError(w, "weeks.create failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusCreated, toWeekResponse(week))
}

func (h *Handlers) ListWeeks(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	weeks, err := h.Ledger.ListWeeks(r.Context(), userID, accountID)
	if err != nil {
		h.respondError(w, "weeks.list failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	response := make([]weekResponse, 0, len(weeks))
	for i := range weeks {
		response = append(response, toWeekResponse(&weeks[i]))
	}
	writeList(w, http.StatusOK, response, len(response))
}

func (h *Handlers) GetWeek(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	weekID := chi.URLParam(r, "week_id")

	week, err := h.Ledger.GetWeek(r.Context(), userID, accountID, weekID)
	if err != nil {
		h.respondError(w, "weeks.get failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toWeekResponse(week))
}

type weekUpdateRequest struct {
	Name      *string `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

func (h *Handlers) UpdateWeek(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	weekID := chi.URLParam(r, "week_id")
	var req weekUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input := ledger.WeekUpdateInput{Name: req.Name}
	if req.StartDate != nil {
		start, err := parseDateRequired(*req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		input.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDateRequired(*req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		input.EndDate = &end
	}

	week, err := h.Ledger.UpdateWeek(r.Context(), userID, accountID, weekID, input)
	if err != nil {
		h.respondError(w, "weeks.update failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toWeekResponse(week))
}

func (h *Handlers) LockWeek(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	weekID := chi.URLParam(r, "week_id")

	week, err := h.Ledger.LockWeek(r.Context(), userID, accountID, weekID)
	if err != nil {
		h.respondError(w, "weeks.lock failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toWeekResponse(week))
}

func (h *Handlers) DeleteWeek(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	weekID := chi.URLParam(r, "week_id")

	if err := h.Ledger.DeleteWeek(r.Context(), userID, accountID, weekID); err != nil {
		h.respondError(w, "weeks.delete failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeMessage(w, http.StatusOK, "week deleted")
}

type addCashRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

func (h *Handlers) AddCashToBox(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	weekID := chi.URLParam(r, "week_id")
	var req addCashRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	week, err := h.Ledger.AddCashToBox(r.Context(), userID, accountID, weekID, req.Amount, req.Note)
	if err != nil {
		h.respondError(w, "weeks.addCash failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toWeekResponse(week))
}

type bankTransferRequest struct {
	BankAccountID string          `json:"bank_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

func (h *Handlers) TransferBankToCash(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	weekID := chi.URLParam(r, "week_id")
	var req bankTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BankAccountID == "" {
		writeError(w, http.StatusBadRequest, "bank_account_id is required")
		return
	}

	week, err := h.Ledger.TransferBankToCash(r.Context(), userID, accountID, weekID, req.BankAccountID, req.Amount)
	if err != nil {
		h.respondError(w, "weeks.bankTransfer failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toWeekResponse(week))
}

type cashTransactionResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedBy string          `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (h *Handlers) ListCashTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	weekID := chi.URLParam(r, "week_id")

	entries, err := h.Ledger.ListCashTransactions(r.Context(), userID, accountID, weekID)
	if err != nil {
		h.respondError(w, "weeks.cashTransactions failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	response := make([]cashTransactionResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, cashTransactionResponse{
			ID:        entry.ID,
			Kind:      string(entry.Kind),
			Amount:    entry.Amount,
			Note:      entry.Note,
			CreatedBy: entry.CreatedByUserID,
			CreatedAt: entry.CreatedAt,
		})
	}
	writeList(w, http.StatusOK, response, len(response))
}
