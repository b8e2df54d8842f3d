package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"cashbook-go/internal/domain/ledger"
)

type expenseRequest struct {
	WeekID        string          `json:"week_id"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentSource string          `json:"payment_source"`
	BankAccountID *string         `json:"bank_account_id"`
	CategoryID    *string         `json:"category_id"`
	Person        string          `json:"person"`
	Note          string          `json:"note"`
}

type expenseResponse struct {
	ID            string          `json:"id"`
	WeekID        string          `json:"week_id"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentSource string          `json:"payment_source"`
	BankAccountID *string         `json:"bank_account_id,omitempty"`
	CategoryID    *string         `json:"category_id,omitempty"`
	Person        string          `json:"person,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toExpenseResponse(e *ledger.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		WeekID:        e.WeekID,
		Date:          e.Date.Format("2006-01-02"),
		Amount:        e.Amount,
		PaymentSource: string(e.PaymentSource),
		BankAccountID: e.BankAccountID,
		CategoryID:    e.CategoryID,
		Person:        e.Person,
		Note:          e.Note,
		CreatedBy:     e.CreatedByUserID,
		CreatedAt:     e.CreatedAt,
	}
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WeekID == "" {
		writeError(w, http.StatusBadRequest, "week_id is required")
		return
	}
	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	expense, err := h.Ledger.CreateExpense(r.Context(), userID, accountID, ledger.ExpenseInput{
		WeekID:        req.WeekID,
		Date:          date,
		Amount:        req.Amount,
		PaymentSource: ledger.PaymentSource(req.PaymentSource),
		BankAccountID: req.BankAccountID,
		CategoryID:    req.CategoryID,
		Person:        req.Person,
		Note:          req.Note,
	})
	if err != nil {
		h.respondError(w, "expenses.create failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusCreated, toExpenseResponse(expense))
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date")
		return
	}
	filter := ledger.ExpenseFilter{
		WeekID:     query.Get("week_id"),
		CategoryID: query.Get("category_id"),
		From:       from,
		To:         to,
	}

	expenses, err := h.Ledger.ListExpenses(r.Context(), userID, accountID, filter)
	if err != nil {
		h.respondError(w, "expenses.list failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	response := make([]expenseResponse, 0, len(expenses))
	for i := range expenses {
		response = append(response, toExpenseResponse(&expenses[i]))
	}
	writeList(w, http.StatusOK, response, len(response))
}

func (h *Handlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	expenseID := chi.URLParam(r, "expense_id")

	expense, err := h.Ledger.GetExpense(r.Context(), userID, accountID, expenseID)
	if err != nil {
		h.respondError(w, "expenses.get failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toExpenseResponse(expense))
}

type expenseUpdateRequest struct {
	Date          *string          `json:"date"`
	Amount        *decimal.Decimal `json:"amount"`
	PaymentSource *string          `json:"payment_source"`
	CategoryID    *string          `json:"category_id"`
	Person        *string          `json:"person"`
	Note          *string          `json:"note"`
}

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	expenseID := chi.URLParam(r, "expense_id")
	var req expenseUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input := ledger.ExpenseUpdateInput{
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
		Person:     req.Person,
		Note:       req.Note,
	}
	if req.Date != nil {
		date, err := parseDateRequired(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		input.Date = &date
	}
	if req.PaymentSource != nil {
		source := ledger.PaymentSource(*req.PaymentSource)
		input.PaymentSource = &source
	}

	expense, err := h.Ledger.UpdateExpense(r.Context(), userID, accountID, expenseID, input)
	if err != nil {
		h.respondError(w, "expenses.update failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeData(w, http.StatusOK, toExpenseResponse(expense))
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")
	expenseID := chi.URLParam(r, "expense_id")

	if err := h.Ledger.DeleteExpense(r.Context(), userID, accountID, expenseID); err != nil {
		h.respondError(w, "expenses.delete failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeMessage(w, http.StatusOK, "expense deleted")
}
