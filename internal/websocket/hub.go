// Package websocket streams live chore snapshots to connected household
// members, one room per house.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/willowmere/hearth/internal/model"
)

// Snapshot is the message broadcast to a house room whenever its chore list
// changes. Clients replace their local list wholesale rather than applying
// deltas.
type Snapshot struct {
	Type    string        `json:"type"`
	HouseID string        `json:"house_id"`
	Chores  []model.Chore `json:"chores"`
}

// Hub tracks connected clients grouped by house and fans snapshots out to
// each room.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

// Register adds a client to its house's room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.houseID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.houseID] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel. Empty rooms are
// dropped.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[c.houseID]; ok {
		if _, ok := room[c]; ok {
			delete(room, c)
			close(c.send)
		}
		if len(room) == 0 {
			delete(h.rooms, c.houseID)
		}
	}
	h.mu.Unlock()
}

// Broadcast sends the house's current chore list to every client in its room.
func (h *Hub) Broadcast(houseID string, chores []model.Chore) {
	if chores == nil {
		chores = []model.Chore{}
	}
	data, err := json.Marshal(Snapshot{Type: "chores", HouseID: houseID, Chores: chores})
	if err != nil {
		h.logger.Error("marshal snapshot", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[houseID] {
		select {
		case c.send <- data:
		default:
			// Client buffer full, drop rather than block the broadcast.
		}
	}
}

// RoomSize returns the number of clients connected for a house.
func (h *Hub) RoomSize(houseID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[houseID])
}
