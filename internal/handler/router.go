package handler

import (
	"net/http"
	"time"

	"github.com/tmarins/onboarding-api/internal/infra/observability"
	"github.com/tmarins/onboarding-api/internal/port"
	"github.com/tmarins/onboarding-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Options carries the request-handling knobs the router needs beyond the
// services themselves.
type Options struct {
	UploadDir      string
	MaxAttachments int
}

// NewRouter creates the HTTP router with all routes and middleware.
// Paths match the original frontend contract: /auth/* is public, every
// /customers route requires a bearer token, role gating happens in the
// services through the policy table.
func NewRouter(
	authSvc *service.AuthService,
	custSvc *service.CustomerService,
	userSvc *service.UserService,
	files port.FileStore,
	store port.IdentityStore,
	opts Options,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(store, metrics))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- Static attachment serving ---
	uploadsFS := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir)))
	r.Get("/uploads/*", uploadsFS.ServeHTTP)

	// --- Auth (public) ---
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", withMetrics("auth.register", metrics, authRegisterHandler(authSvc, logger)))
		r.Post("/login", withMetrics("auth.login", metrics, authLoginHandler(authSvc, logger)))
	})

	// --- Customers (bearer token required) ---
	r.Route("/customers", func(r chi.Router) {
		r.Use(JWTAuthMiddleware(authSvc, logger))

		r.Post("/", withMetrics("customers.submit", metrics,
			submitCustomerHandler(custSvc, files, opts.MaxAttachments, logger)))
		r.Get("/", withMetrics("customers.list", metrics,
			listCustomersHandler(custSvc, logger)))
		r.Get("/me", withMetrics("customers.view_own", metrics,
			getOwnCustomerHandler(custSvc, logger)))
		r.Patch("/{id}/status", withMetrics("customers.set_status", metrics,
			setCustomerStatusHandler(custSvc, logger)))

		// Admin-only user management lives under the same prefix as the
		// original contract.
		r.Get("/admin/users", withMetrics("users.list", metrics,
			listUsersHandler(userSvc, logger)))
		r.Patch("/admin/users/{id}/role", withMetrics("users.set_role", metrics,
			setUserRoleHandler(userSvc, logger)))
	})

	return r
}

// ============================================================
// Operational handlers
// ============================================================

type serviceHealth struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
}

type healthResponse struct {
	Status            string          `json:"status"`
	Services          []serviceHealth `json:"services"`
	RequestsProcessed int64           `json:"requestsProcessed"`
	Timestamp         string          `json:"timestamp"`
}

func healthzHandler(store port.IdentityStore, metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := []serviceHealth{
			{Name: "onboarding-api", Status: "healthy"},
		}

		overall := "healthy"
		if store != nil {
			start := time.Now()
			// Probe address never matches a real identity; only reachability matters.
			_, err := store.GetIdentityByEmail(r.Context(), "healthz@probe.invalid")
			status := "healthy"
			if err != nil {
				status = "degraded"
				overall = "degraded"
			}
			services = append(services, serviceHealth{
				Name:      "supabase",
				Status:    status,
				LatencyMs: time.Since(start).Milliseconds(),
			})
		}

		writeJSON(w, http.StatusOK, healthResponse{
			Status:            overall,
			Services:          services,
			RequestsProcessed: metrics.RequestsProcessed(),
			Timestamp:         time.Now().Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
