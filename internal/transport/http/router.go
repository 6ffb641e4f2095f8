// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"badbaado/internal/admin"
	"badbaado/internal/auth"
	"badbaado/internal/donation"
	"badbaado/internal/hospital"
	"badbaado/internal/notify"
	"badbaado/internal/platform/metrics"
	"badbaado/internal/platform/middleware"
	"badbaado/internal/request"
	"badbaado/internal/settings"
	"badbaado/internal/user"
)

const requestTimeout = 30 * time.Second

// Handler bundles the domain services behind the HTTP surface.
type Handler struct {
	users     *user.Service
	admins    *admin.Service
	requests  *request.Service
	donations *donation.Service
	hospitals *hospital.Service
	settings  *settings.Service
	inbox     notify.Store
	tokens    *auth.TokenService
	metrics   *metrics.Metrics
	logger    *slog.Logger
	health    func(ctx context.Context) error
}

type Config struct {
	Users     *user.Service
	Admins    *admin.Service
	Requests  *request.Service
	Donations *donation.Service
	Hospitals *hospital.Service
	Settings  *settings.Service
	Inbox     notify.Store
	Tokens    *auth.TokenService
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	// Health reports backing-store readiness; nil means always ready.
	Health func(ctx context.Context) error
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		users:     cfg.Users,
		admins:    cfg.Admins,
		requests:  cfg.Requests,
		donations: cfg.Donations,
		hospitals: cfg.Hospitals,
		settings:  cfg.Settings,
		inbox:     cfg.Inbox,
		tokens:    cfg.Tokens,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		health:    cfg.Health,
	}
}

// NewRouter wires every endpoint. Public routes mirror the original surface;
// everything else sits behind the user or admin token gate.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(h.observeLatency)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public.
		r.Post("/auth/register/user", h.handleRegisterUser)
		r.Post("/auth/register/admin", h.handleRegisterAdmin)
		r.Post("/auth/login/user", h.handleLoginUser)
		r.Post("/auth/login/admin", h.handleLoginAdmin)
		r.Post("/users/find-by-phone", h.handleFindByPhone)
		r.Get("/users/count", h.handleUserCount)
		r.Get("/requests/stats", h.handleRequestStats)
		r.Get("/requests/pending", h.handlePendingRequests)

		// Donor token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.tokens, h.logger))

			r.Get("/users/profile", h.handleGetProfile)
			r.Put("/users/profile", h.handleUpdateProfile)
			r.Get("/users/eligibility", h.handleEligibility)
			r.Put("/users/deactivate-account", h.handleDeactivate)
			r.Get("/users/{id}/donations", h.handleUserDonations)
			r.Get("/users/{id}/last-donation", h.handleUserLastDonation)

			r.Post("/requests", h.handleCreateRequest)
			r.Get("/requests", h.handleListRequests)
			r.Get("/requests/approved", h.handleApprovedRequests)
			r.Get("/requests/mine", h.handleMyRequests)
			r.Get("/requests/{id}", h.handleGetRequest)
			r.Delete("/requests/{id}", h.handleCancelRequest)
			r.Get("/requests/{id}/donations", h.handleRequestDonations)

			r.Post("/donations", h.handleRecordDonation)
			r.Get("/donations", h.handleMyDonations)
			r.Put("/donations/{id}/status", h.handleAdvanceDonation)

			r.Get("/notifications", h.handleListNotifications)
			r.Put("/notifications/{id}/read", h.handleMarkNotificationRead)

			r.Get("/hospitals", h.handleListHospitals)
		})

		// Admin token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.tokens, h.logger))

			r.Put("/requests/{id}/approve", h.handleApproveRequest)
			r.Put("/requests/{id}/reject", h.handleRejectRequest)
			r.Put("/requests/{id}/complete", h.handleCompleteRequest)
			r.Get("/requests/{id}/eligible-donors", h.handleEligibleDonors)

			r.Get("/admin/dashboard", h.handleDashboard)
			r.Get("/admin/users", h.handleAdminListUsers)
			r.Put("/admin/users/{id}/status", h.handleAdminSetUserStatus)
			r.Get("/admin/requests", h.handleAdminListRequests)
			r.Get("/admin/settings", h.handleListSettings)
			r.Put("/admin/settings/{key}", h.handleUpdateSetting)

			r.Post("/hospitals", h.handleRegisterHospital)
			r.Put("/hospitals/{id}", h.handleUpdateHospital)
			r.Delete("/hospitals/{id}", h.handleDeleteHospital)
		})
	})
	return r
}

// observeLatency records per-route request duration once routing resolved.
func (h *Handler) observeLatency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		h.metrics.RequestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
