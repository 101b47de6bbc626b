package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/willowmere/hearth/internal/auth"
	"github.com/willowmere/hearth/internal/code"
	"github.com/willowmere/hearth/internal/model"
	"github.com/willowmere/hearth/internal/store"
)

// Handler upgrades HTTP requests to WebSocket connections scoped to a house
// room. Callers must already be authenticated; membership in the requested
// house is checked here.
type Handler struct {
	hub    *Hub
	houses *store.HouseStore
	chores *store.ChoreStore
	logger *slog.Logger
}

func NewHandler(hub *Hub, houses *store.HouseStore, chores *store.ChoreStore, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		houses: houses,
		chores: chores,
		logger: logger.With("component", "websocket"),
	}
}

// ServeHTTP handles GET /ws?house={code}.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	houseID := code.Normalize(r.URL.Query().Get("house"))
	if !code.Valid(houseID) {
		http.Error(w, "invalid house code", http.StatusBadRequest)
		return
	}

	member, err := h.houses.IsMember(houseID, userID)
	if err != nil {
		h.logger.Error("membership check", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !member {
		http.Error(w, "not a member of this house", http.StatusForbidden)
		return
	}

	conn, err := ws.Accept(w, r, &ws.AcceptOptions{
		InsecureSkipVerify: true, // App clients connect from native webviews.
	})
	if err != nil {
		h.logger.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, houseID)

	// Seed the connection with the current chore list so the client renders
	// immediately instead of waiting for the next change.
	if chores, err := h.chores.ListByHouse(houseID); err == nil {
		if chores == nil {
			chores = []model.Chore{}
		}
		if data, merr := json.Marshal(Snapshot{Type: "chores", HouseID: houseID, Chores: chores}); merr == nil {
			client.send <- data
		}
	} else {
		h.logger.Error("initial snapshot", "house", houseID, "error", err)
	}

	client.Run(r.Context())
}
