package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/willowmere/hearth/internal/auth"
	"github.com/willowmere/hearth/internal/model"
	"github.com/willowmere/hearth/internal/store"
)

type AuthHandler struct {
	users  *store.UserStore
	issuer *auth.TokenIssuer
	logger *slog.Logger
}

func NewAuthHandler(users *store.UserStore, issuer *auth.TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	user, err := h.users.Create(uuid.NewString(), req.Email, strings.TrimSpace(req.Name), hash)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			writeError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := h.users.PasswordHash(req.Email)
	if err != nil {
		h.logger.Error("lookup password hash", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if hash == "" || !auth.CheckPassword(hash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil || user == nil {
		h.logger.Error("lookup user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
