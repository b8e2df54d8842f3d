package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

func (h *Handlers) ListActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "account_id")

	query := r.URL.Query()
	limit, err := parseIntParam(query.Get("limit"), defaultActivityLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if limit == 0 || limit > maxActivityLimit {
		limit = defaultActivityLimit
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	entries, total, err := h.Activity.ListByAccount(r.Context(), userID, accountID, limit, offset)
	if err != nil {
		h.respondError(w, "activity.list failed", err, "user_id", userID, "account_id", accountID)
		return
	}
	writeList(w, http.StatusOK, entries, int(total))
}
