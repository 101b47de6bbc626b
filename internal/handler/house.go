package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/willowmere/hearth/internal/auth"
	"github.com/willowmere/hearth/internal/house"
	"github.com/willowmere/hearth/internal/model"
	"github.com/willowmere/hearth/internal/store"
)

type HouseHandler struct {
	registry *house.Registry
	houses   *store.HouseStore
	users    *store.UserStore
	logger   *slog.Logger
}

func NewHouseHandler(registry *house.Registry, houses *store.HouseStore, users *store.UserStore, logger *slog.Logger) *HouseHandler {
	return &HouseHandler{registry: registry, houses: houses, users: users, logger: logger}
}

type createHouseRequest struct {
	Name string `json:"name"`
}

type joinHouseRequest struct {
	Code string `json:"code"`
}

// Create handles POST /api/houses
func (h *HouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req createHouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	hse, err := h.registry.Create(r.Context(), req.Name, userID)
	if err != nil {
		h.logger.Error("create house", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create house")
		return
	}

	writeJSON(w, http.StatusCreated, hse)
}

// Join handles POST /api/houses/join
func (h *HouseHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req joinHouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	hse, err := h.registry.Join(r.Context(), req.Code, userID)
	if err != nil {
		switch {
		case errors.Is(err, house.ErrInvalidCode):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, house.ErrNotFound):
			writeError(w, http.StatusNotFound, "house not found")
		default:
			h.logger.Error("join house", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to join house")
		}
		return
	}

	writeJSON(w, http.StatusOK, hse)
}

// List handles GET /api/houses and returns the caller's houses.
func (h *HouseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	houses, err := h.houses.ListForUser(userID)
	if err != nil {
		h.logger.Error("list houses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list houses")
		return
	}
	if houses == nil {
		houses = []model.House{}
	}
	writeJSON(w, http.StatusOK, houses)
}

// Get handles GET /api/houses/{code}
func (h *HouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	houseID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}

	hse, err := h.houses.GetByID(houseID)
	if err != nil {
		h.logger.Error("get house", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get house")
		return
	}
	if hse == nil {
		writeError(w, http.StatusNotFound, "house not found")
		return
	}
	writeJSON(w, http.StatusOK, hse)
}

// Members handles GET /api/houses/{code}/members and returns member profiles.
func (h *HouseHandler) Members(w http.ResponseWriter, r *http.Request) {
	houseID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}

	ids, err := h.houses.ListMemberIDs(houseID)
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}

	members := make([]model.User, 0, len(ids))
	for _, id := range ids {
		u, err := h.users.GetByID(id)
		if err != nil {
			h.logger.Error("get member", "user", id, "error", err)
			continue
		}
		if u != nil {
			members = append(members, *u)
		}
	}
	writeJSON(w, http.StatusOK, members)
}

// Leave handles DELETE /api/houses/{code}/members/me
func (h *HouseHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	houseID, ok := houseParam(w, r)
	if !ok {
		return
	}

	if err := h.registry.Leave(r.Context(), houseID, userID); err != nil {
		h.logger.Error("leave house", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to leave house")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireMembership resolves the {code} path parameter and verifies the
// caller belongs to the house.
func (h *HouseHandler) requireMembership(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := auth.UserID(r.Context())
	houseID, ok := houseParam(w, r)
	if !ok {
		return "", false
	}

	member, err := h.houses.IsMember(houseID, userID)
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
