package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/willowmere/hearth/internal/auth"
	"github.com/willowmere/hearth/internal/chore"
	"github.com/willowmere/hearth/internal/model"
	"github.com/willowmere/hearth/internal/schedule"
	"github.com/willowmere/hearth/internal/storage"
	"github.com/willowmere/hearth/internal/store"
	"github.com/willowmere/hearth/internal/websocket"
)

type ChoreHandler struct {
	service *chore.Service
	houses  *store.HouseStore
	chores  *store.ChoreStore
	photos  *storage.Store
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewChoreHandler(service *chore.Service, houses *store.HouseStore, chores *store.ChoreStore, photos *storage.Store, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{service: service, houses: houses, chores: chores, photos: photos, hub: hub, logger: logger}
}

// broadcast pushes the house's current chore list to its websocket room.
func (h *ChoreHandler) broadcast(houseID string) {
	if h.hub == nil {
		return
	}
	chores, err := h.chores.ListByHouse(houseID)
	if err != nil {
		h.logger.Error("broadcast snapshot", "house", houseID, "error", err)
		return
	}
	h.hub.Broadcast(houseID, chores)
}

type choreRequest struct {
	Title     string `json:"title"`
	Frequency string `json:"frequency"`
	Count     int    `json:"count"`
}

func (r choreRequest) schedule() (schedule.Schedule, error) {
	freq := schedule.Daily
	if r.Frequency != "" {
		f, err := schedule.ParseFrequency(r.Frequency)
		if err != nil {
			return schedule.Schedule{}, err
		}
		freq = f
	}
	return schedule.New(freq, r.Count), nil
}

// Create handles POST /api/houses/{code}/chores
func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	houseID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sched, err := req.schedule()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.service.Add(r.Context(), houseID, req.Title, auth.UserID(r.Context()), sched)
	if err != nil {
		if errors.Is(err, chore.ErrEmptyTitle) {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		h.logger.Error("create chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create chore")
		return
	}

	h.broadcast(houseID)
	writeJSON(w, http.StatusCreated, c)
}

// List handles GET /api/houses/{code}/chores
func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	houseID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}

	chores, err := h.service.List(r.Context(), houseID)
	if err != nil {
		h.logger.Error("list chores", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list chores")
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

type choreUpdateRequest struct {
	Title     *string `json:"title"`
	Frequency *string `json:"frequency"`
	Count     *int    `json:"count"`
	// AssignedTo distinguishes absent from explicit null: null clears the
	// assignee, a string sets it, absent leaves it alone.
	AssignedTo json.RawMessage `json:"assigned_to"`
}

// Update handles PATCH /api/houses/{code}/chores/{id}. Absent fields keep
// their current values.
func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	houseID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}
	choreID := r.PathValue("id")

	existing, err := h.chores.GetByID(houseID, choreID)
	if err != nil {
		h.logger.Error("get chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	var req choreUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	title := existing.Title
	if req.Title != nil {
		title = *req.Title
	}
	freqName := existing.Frequency
	if req.Frequency != nil {
		freqName = *req.Frequency
	}
	count := existing.Count
	if req.Count != nil {
		count = *req.Count
	}

	freq, err := schedule.ParseFrequency(freqName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.service.Edit(r.Context(), houseID, choreID, title, schedule.New(freq, count))
	if err != nil {
		switch {
		case errors.Is(err, chore.ErrEmptyTitle):
			writeError(w, http.StatusBadRequest, "title is required")
		case errors.Is(err, chore.ErrNotFound):
			writeError(w, http.StatusNotFound, "chore not found")
		default:
			h.logger.Error("update chore", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update chore")
		}
		return
	}

	if len(req.AssignedTo) > 0 {
		var assignee *string
		if string(req.AssignedTo) != "null" {
			var id string
			if err := json.Unmarshal(req.AssignedTo, &id); err != nil {
				writeError(w, http.StatusBadRequest, "assigned_to must be a user id or null")
				return
			}
			member, err := h.houses.IsMember(houseID, id)
			if err != nil {
				h.logger.Error("membership check", "error", err)
				writeError(w, http.StatusInternalServerError, "failed to update chore")
				return
			}
			if !member {
				writeError(w, http.StatusBadRequest, "assignee is not a member of this house")
				return
			}
			assignee = &id
		}
		if err := h.service.Assign(r.Context(), houseID, choreID, assignee); err != nil {
			h.logger.Error("update assignee", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update chore")
			return
		}
		c, err = h.chores.GetByID(houseID, choreID)
		if err != nil || c == nil {
			h.logger.Error("reload chore", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update chore")
			return
		}
	}

	h.broadcast(houseID)
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/houses/{code}/chores/{id}
func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	houseID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), houseID, r.PathValue("id")); err != nil {
		h.logger.Error("delete chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete chore")
		return
	}

	h.broadcast(houseID)
	w.WriteHeader(http.StatusNoContent)
}

type assignRequest struct {
	UserID *string `json:"user_id"`
}

// Assign handles PUT /api/houses/{code}/chores/{id}/assignee
func (h *ChoreHandler) Assign(w http.ResponseWriter, r *http.Request) {
	houseID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.UserID != nil {
		member, err := h.houses.IsMember(houseID, *req.UserID)
		if err != nil {
			h.logger.Error("membership check", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to assign chore")
			return
		}
		if !member {
			writeError(w, http.StatusBadRequest, "assignee is not a member of this house")
			return
		}
	}

	if err := h.service.Assign(r.Context(), houseID, r.PathValue("id"), req.UserID); err != nil {
		if errors.Is(err, chore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "chore not found")
			return
		}
		h.logger.Error("assign chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to assign chore")
		return
	}

	h.broadcast(houseID)
	w.WriteHeader(http.StatusNoContent)
}

// AutoAssign handles POST /api/houses/{code}/chores/auto-assign
func (h *ChoreHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	houseID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}

	memberIDs, err := h.houses.ListMemberIDs(houseID)
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to assign chores")
		return
	}

	assignments, err := h.service.AutoAssign(r.Context(), houseID, memberIDs)
	if err != nil {
		if errors.Is(err, chore.ErrNoMembers) {
			writeError(w, http.StatusConflict, "house has no members to assign")
			return
		}
		h.logger.Error("auto assign", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to assign chores")
		return
	}

	h.broadcast(houseID)
	writeJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

// UnassignAll handles POST /api/houses/{code}/chores/unassign-all
func (h *ChoreHandler) UnassignAll(w http.ResponseWriter, r *http.Request) {
	houseID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}

	if err := h.service.UnassignAll(r.Context(), houseID); err != nil {
		h.logger.Error("unassign all", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to unassign chores")
		return
	}

	h.broadcast(houseID)
	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /api/houses/{code}/chores/{id}/complete with an
// optional multipart photo.
func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	houseID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}
	choreID := r.PathValue("id")
	userID := auth.UserID(r.Context())

	var photoURL *string
	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		if h.photos == nil || !h.photos.Enabled() {
			writeError(w, http.StatusBadRequest, "photo storage is not configured")
			return
		}
		url, uerr := h.photos.UploadPhoto(r.Context(), "chores", choreID, file, header.Header.Get("Content-Type"))
		if uerr != nil {
			h.logger.Error("upload photo", "error", uerr)
			writeError(w, http.StatusBadRequest, "failed to upload photo")
			return
		}
		photoURL = &url
	}

	completion, err := h.service.Complete(r.Context(), houseID, choreID, userID, photoURL)
	if err != nil {
		if errors.Is(err, chore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "chore not found")
			return
		}
		h.logger.Error("complete chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to complete chore")
		return
	}

	h.broadcast(houseID)
	writeJSON(w, http.StatusCreated, completion)
}

// Completions handles GET /api/houses/{code}/chores/{id}/completions
func (h *ChoreHandler) Completions(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireMembership(w, r); !ok {
		return
	}

	completions, err := h.chores.ListCompletionsByChore(r.PathValue("id"))
	if err != nil {
		h.logger.Error("list completions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list completions")
		return
	}
	if completions == nil {
		completions = []model.ChoreCompletion{}
	}
	writeJSON(w, http.StatusOK, completions)
}

// requireMembership resolves {code} and checks the caller belongs to it.
func (h *ChoreHandler) requireMembership(w http.ResponseWriter, r *http.Request) (string, bool) {
	houseID, ok := houseParam(w, r)
	if !ok {
		return "", false
	}

	member, err := h.houses.IsMember(houseID, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("membership check", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check membership")
		return "", false
	}
	if !member {
		writeError(w, http.StatusForbidden, "not a member of this house")
		return "", false
	}
	return houseID, true
}
