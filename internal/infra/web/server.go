package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"subtrack/internal/config"
	"subtrack/internal/infra/redis"
	"subtrack/internal/usecase"
)

// Server wires the ledger API onto a chi router. All domain routes sit
// behind session-or-key auth; only the session endpoints and the health
// probe are open.
type Server struct {
	ledger *usecase.LedgerUseCase
	stats  *usecase.StatsUseCase
	ent    *usecase.EntitlementUseCase
	notif  *usecase.NotificationUseCase

	auth    *AuthManager
	limiter *redis.RateLimiter
	cfg     config.HTTPConfig
	log     *zerolog.Logger
}

func NewServer(
	ledger *usecase.LedgerUseCase,
	stats *usecase.StatsUseCase,
	ent *usecase.EntitlementUseCase,
	notif *usecase.NotificationUseCase,
	cfg config.HTTPConfig,
	limiter *redis.RateLimiter,
	logger *zerolog.Logger,
) *Server {
	webLog := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		ledger:  ledger,
		stats:   stats,
		ent:     ent,
		notif:   notif,
		auth:    NewAuthManager(cfg.APIKey, cfg.SessionSecret, false, cfg.SessionTTL),
		limiter: limiter,
		cfg:     cfg,
		log:     &webLog,
	}
}

// Routes builds the router. Middleware order matters: the request id
// must exist before the access log reads it.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestID())
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))
	r.Use(Timeout(30 * time.Second))
	r.Use(RateLimit(s.limiter, s.cfg.RateLimit, s.cfg.RateWindow, s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Post("/api/v1/session", s.handleLogin)
	r.Delete("/api/v1/session", s.handleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth)

		pr.Get("/api/v1/subscriptions", s.handleListSubscriptions)
		pr.Post("/api/v1/subscriptions", s.handleCreateSubscription)
		pr.Get("/api/v1/subscriptions/{id}", s.handleGetSubscription)
		pr.Put("/api/v1/subscriptions/{id}", s.handleUpdateSubscription)
		pr.Delete("/api/v1/subscriptions/{id}", s.handleDeleteSubscription)

		pr.Get("/api/v1/summary", s.handleSummary)

		pr.Get("/api/v1/reminders", s.handleReminders)
		pr.Post("/api/v1/reminders/dismiss", s.handleDismissReminders)

		pr.Get("/api/v1/entitlement", s.handleEntitlement)
		pr.Post("/api/v1/entitlement/grant", s.handleGrantEntitlement)
	})

	return r
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Authenticate(r); err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
