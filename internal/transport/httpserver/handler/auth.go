package handler

import (
	"net/http"
	"strings"
	"time"

	userdomain "cashbook-go/internal/domain/user"
	"cashbook-go/internal/transport/httpserver/middleware"
)

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// joinName collapses the split name fields into the single display name the
// user record stores.
func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *userdomain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	session, err := h.Users.Register(r.Context(), req.Email, joinName(req.FirstName, req.LastName), req.Password)
	if err != nil {
		h.respondError(w, "auth.register failed", err)
		return
	}
	writeData(w, http.StatusCreated, sessionResponse{Token: session.Token, User: toUserResponse(session.User)})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, "auth.login failed", err)
		return
	}
	writeData(w, http.StatusOK, sessionResponse{Token: session.Token, User: toUserResponse(session.User)})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	u, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		h.respondError(w, "auth.me failed", err, "user_id", userID)
		return
	}
	writeData(w, http.StatusOK, toUserResponse(u))
}
