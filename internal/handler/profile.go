package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/willowmere/hearth/internal/auth"
	"github.com/willowmere/hearth/internal/storage"
	"github.com/willowmere/hearth/internal/store"
)

type ProfileHandler struct {
	users  *store.UserStore
	photos *storage.Store
	logger *slog.Logger
}

func NewProfileHandler(users *store.UserStore, photos *storage.Store, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, photos: photos, logger: logger}
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

// Update handles PUT /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := h.users.GetByID(userID)
	if err != nil || existing == nil {
		h.logger.Error("get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	user, err := h.users.UpdateProfile(userID, req.Name, req.Phone, existing.PhotoURL)
	if err != nil {
		h.logger.Error("update profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateEmailRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateEmail handles PUT /api/profile/email. The current password is
// required to confirm the change.
func (h *ProfileHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req updateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	existing, err := h.users.GetByID(userID)
	if err != nil || existing == nil {
		h.logger.Error("get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update email")
		return
	}

	hash, err := h.users.PasswordHash(existing.Email)
	if err != nil {
		h.logger.Error("lookup password hash", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update email")
		return
	}
	if !auth.CheckPassword(hash, req.Password) {
		writeError(w, http.StatusUnauthorized, "incorrect password")
		return
	}

	user, err := h.users.UpdateEmail(userID, req.Email)
	if err != nil {
		h.logger.Error("update email", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update email")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword handles PUT /api/profile/password.
func (h *ProfileHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	existing, err := h.users.GetByID(userID)
	if err != nil || existing == nil {
		h.logger.Error("get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update password")
		return
	}

	hash, err := h.users.PasswordHash(existing.Email)
	if err != nil {
		h.logger.Error("lookup password hash", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update password")
		return
	}
	if !auth.CheckPassword(hash, req.CurrentPassword) {
		writeError(w, http.StatusUnauthorized, "incorrect password")
		return
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update password")
		return
	}
	if err := h.users.UpdatePassword(userID, newHash); err != nil {
		h.logger.Error("update password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto handles POST /api/profile/photo with a multipart photo field.
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	if h.photos == nil || !h.photos.Enabled() {
		writeError(w, http.StatusBadRequest, "photo storage is not configured")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo field is required")
		return
	}
	defer file.Close()

	url, err := h.photos.UploadPhoto(r.Context(), "profiles", userID, file, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("upload photo", "error", err)
		writeError(w, http.StatusBadRequest, "failed to upload photo")
		return
	}

	existing, err := h.users.GetByID(userID)
	if err != nil || existing == nil {
		h.logger.Error("get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	user, err := h.users.UpdateProfile(userID, existing.Name, existing.Phone, &url)
	if err != nil {
		h.logger.Error("save photo url", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
