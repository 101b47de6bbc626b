// Package server wires the stores, services, and handlers into an HTTP API.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/willowmere/hearth/internal/auth"
	"github.com/willowmere/hearth/internal/chore"
	"github.com/willowmere/hearth/internal/config"
	"github.com/willowmere/hearth/internal/handler"
	"github.com/willowmere/hearth/internal/house"
	"github.com/willowmere/hearth/internal/middleware"
	"github.com/willowmere/hearth/internal/notify"
	"github.com/willowmere/hearth/internal/push"
	"github.com/willowmere/hearth/internal/storage"
	"github.com/willowmere/hearth/internal/store"
	ws "github.com/willowmere/hearth/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	authH       *handler.AuthHandler
	houseH      *handler.HouseHandler
	choreH      *handler.ChoreHandler
	profileH    *handler.ProfileHandler
	deviceH     *handler.DeviceHandler
	wsH         *ws.Handler
	issuer      *auth.TokenIssuer
	rateLimiter *middleware.RateLimiter
	notifier    *notify.Notifier
	logger      *slog.Logger
}

// New builds the full server graph from configuration and an open database.
func New(db *sql.DB, cfg config.Config, loc *time.Location, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	houseStore := store.NewHouseStore(db)
	choreStore := store.NewChoreStore(db)
	deviceStore := store.NewDeviceStore(db)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	registry := house.NewRegistry(houseStore)
	choreSvc := chore.NewService(choreStore)

	photos := storage.NewStore(storage.Config{
		Endpoint:      cfg.S3Endpoint,
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})

	pushSvc := push.NewService(push.Config{
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		Subscriber:      cfg.PushSubscriber,
	})
	pushLogger := logger.With("component", "push")
	notifier := notify.NewNotifier(choreStore, deviceStore, pushSvc, loc, pushLogger)

	return &Server{
		db:          db,
		hub:         hub,
		authH:       handler.NewAuthHandler(userStore, issuer, logger.With("component", "auth")),
		houseH:      handler.NewHouseHandler(registry, houseStore, userStore, logger.With("component", "house")),
		choreH:      handler.NewChoreHandler(choreSvc, houseStore, choreStore, photos, hub, logger.With("component", "chore")),
		profileH:    handler.NewProfileHandler(userStore, photos, logger.With("component", "profile")),
		deviceH:     handler.NewDeviceHandler(deviceStore, pushSvc, pushLogger),
		wsH:         ws.NewHandler(hub, houseStore, choreStore, logger),
		issuer:      issuer,
		rateLimiter: middleware.NewRateLimiter(),
		notifier:    notifier,
		logger:      logger,
	}
}

// Notifier returns the reminder scheduler for lifecycle management.
func (s *Server) Notifier() *notify.Notifier {
	return s.notifier
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.issuer)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(h).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// House routes
	mux.HandleFunc("POST /api/houses", s.houseH.Create)
	mux.HandleFunc("GET /api/houses", s.houseH.List)
	mux.HandleFunc("POST /api/houses/join", s.houseH.Join)
	mux.HandleFunc("GET /api/houses/{code}", s.houseH.Get)
	mux.HandleFunc("GET /api/houses/{code}/members", s.houseH.Members)
	mux.HandleFunc("DELETE /api/houses/{code}/members/me", s.houseH.Leave)

	// Chore routes
	mux.HandleFunc("POST /api/houses/{code}/chores", s.choreH.Create)
	mux.HandleFunc("GET /api/houses/{code}/chores", s.choreH.List)
	mux.HandleFunc("PATCH /api/houses/{code}/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/houses/{code}/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("PUT /api/houses/{code}/chores/{id}/assignee", s.choreH.Assign)
	mux.HandleFunc("POST /api/houses/{code}/chores/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("GET /api/houses/{code}/chores/{id}/completions", s.choreH.Completions)
	mux.HandleFunc("POST /api/houses/{code}/chores/auto-assign", s.choreH.AutoAssign)
	mux.HandleFunc("POST /api/houses/{code}/chores/unassign-all", s.choreH.UnassignAll)

	// Profile routes
	mux.HandleFunc("GET /api/profile", s.profileH.Get)
	mux.HandleFunc("PUT /api/profile", s.profileH.Update)
	mux.HandleFunc("PUT /api/profile/email", s.profileH.UpdateEmail)
	mux.HandleFunc("PUT /api/profile/password", s.profileH.UpdatePassword)
	mux.HandleFunc("POST /api/profile/photo", s.profileH.UploadPhoto)

	// Push routes
	mux.HandleFunc("POST /api/push/subscribe", s.deviceH.Subscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.deviceH.List)
	mux.HandleFunc("DELETE /api/push/subscriptions", s.deviceH.Unsubscribe)
	mux.HandleFunc("GET /api/push/vapid-key", s.deviceH.VAPIDKey)

	// Live chore snapshots
	mux.Handle("GET /ws", s.wsH)
}
