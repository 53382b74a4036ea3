// @title LexDesk API
// @version 1.0.0
// @description Multi-tenant practice management for law firms
// @termsOfService http://swagger.io/terms/

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggo/swag"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lexdesk/lexdesk/internal/audit"
	"github.com/lexdesk/lexdesk/internal/auth"
	"github.com/lexdesk/lexdesk/internal/tenant"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Handler holds HTTP handlers and dependencies
type Handler struct {
	tenantService *tenant.Service
	verifier      *auth.Verifier
	issuer        *auth.Issuer
	auditLogger   audit.Logger
	resources     []ResourceRoutes
}

// NewHandler creates a new HTTP handler
func NewHandler(
	tenantService *tenant.Service,
	verifier *auth.Verifier,
	issuer *auth.Issuer,
	auditLogger audit.Logger,
	resources ...ResourceRoutes,
) *Handler {
	if auditLogger == nil {
		auditLogger = audit.NewSlogLogger()
	}
	return &Handler{
		tenantService: tenantService,
		verifier:      verifier,
		issuer:        issuer,
		auditLogger:   auditLogger,
		resources:     resources,
	}
}

// RouterConfig holds router-level settings
type RouterConfig struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter, cfg RouterConfig) *chi.Mux {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/docs/swagger.json", h.SwaggerDoc)

		// Public endpoints, limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(rateLimiter))
			r.Post("/register", h.Register)
		})

		// Authenticated endpoints, limited per tenant
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Use(RateLimitMiddleware(rateLimiter))

			r.Group(func(r chi.Router) {
				r.Use(RequireTenant)
				for _, res := range h.resources {
					r.Route("/"+res.Path(), res.Routes)
				}
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequirePlatformAdmin)
				r.Route("/tenants", func(r chi.Router) {
					r.Post("/", h.CreateTenant)
					r.Get("/", h.ListTenants)
					r.Get("/{tenantID}", h.GetTenant)
					r.Post("/{tenantID}/suspend", h.SuspendTenant)
				})
				r.Route("/registration-keys", func(r chi.Router) {
					r.Post("/", h.IssueRegistrationKey)
					r.Get("/", h.ListRegistrationKeys)
					r.Delete("/{keyID}", h.RevokeRegistrationKey)
				})
			})
		})
	})

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "lexdesk",
	})
}

// SwaggerDoc serves the registered OpenAPI document
// @Summary API Documentation
// @Tags System
// @Produce json
// @Success 200 {object} map[string]any
// @Router /docs/swagger.json [get]
func (h *Handler) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		respondError(w, http.StatusNotFound, "api documentation is not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
