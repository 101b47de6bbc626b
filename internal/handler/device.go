package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/willowmere/hearth/internal/auth"
	"github.com/willowmere/hearth/internal/model"
	"github.com/willowmere/hearth/internal/push"
	"github.com/willowmere/hearth/internal/store"
)

type DeviceHandler struct {
	devices *store.DeviceStore
	push    *push.Service
	logger  *slog.Logger
}

func NewDeviceHandler(devices *store.DeviceStore, pushSvc *push.Service, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{devices: devices, push: pushSvc, logger: logger}
}

type subscribeRequest struct {
	Endpoint   string `json:"endpoint"`
	P256dh     string `json:"p256dh"`
	Auth       string `json:"auth"`
	DeviceName string `json:"device_name"`
}

// Subscribe handles POST /api/push/subscribe. Registering an endpoint that
// already exists replaces its keys, which covers browser key rotation.
func (h *DeviceHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Endpoint == "" || req.P256dh == "" || req.Auth == "" {
		writeError(w, http.StatusBadRequest, "endpoint, p256dh, and auth are required")
		return
	}

	sub, err := h.devices.Upsert(userID, req.Endpoint, req.P256dh, req.Auth, req.DeviceName)
	if err != nil {
		h.logger.Error("save subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// List handles GET /api/push/subscriptions
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.devices.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}
	if subs == nil {
		subs = []model.DeviceSubscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

// Unsubscribe handles DELETE /api/push/subscriptions
func (h *DeviceHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "endpoint is required")
		return
	}

	if err := h.devices.DeleteByEndpoint(req.Endpoint); err != nil {
		h.logger.Error("delete subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete subscription")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VAPIDKey handles GET /api/push/vapid-key so clients can subscribe.
func (h *DeviceHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"publicKey": h.push.VAPIDPublicKey()})
}
