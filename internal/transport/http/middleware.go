// Copyright 2026 The LexDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/lexdesk/lexdesk/internal/audit"
	"github.com/lexdesk/lexdesk/internal/observability/logger"
	"github.com/lexdesk/lexdesk/internal/tenant"
)

// Tenant context is derived exclusively from verified token claims. A caller
// supplied X-Tenant-ID header is rejected, never honored.

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.UserAgent(r.UserAgent()),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// CORSMiddleware answers preflight requests and echoes allowed origins. An
// empty allowlist disables CORS headers entirely.
func CORSMiddleware(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !(slices.Contains(allowed, origin) || slices.Contains(allowed, "*")) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTenant enforces that a tenant context is present.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetTenantID(r.Context()) == "" {
			respondError(w, http.StatusForbidden, "tenant-scoped token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePlatformAdmin restricts a route to platform operators.
func RequirePlatformAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRole(r.Context()) != tenant.RolePlatformAdmin {
			respondError(w, http.StatusForbidden, "platform admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware verifies the bearer token and injects its claims into the
// request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		claims, err := h.verifier.Verify(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if r.Header.Get("X-Tenant-ID") != "" {
			slog.WarnContext(r.Context(), "tenant header spoofing attempt detected on authenticated route",
				logger.UserID(claims.UserID()),
				logger.TenantID(claims.TenantID),
			)
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeAccessDenied,
				TenantID:  claims.TenantID,
				ActorID:   claims.UserID(),
				Resource:  "tenant_header",
				IPAddress: getIPAddress(r),
				UserAgent: r.UserAgent(),
			})
			respondError(w, http.StatusBadRequest, "X-Tenant-ID header is not allowed; tenant is derived from the token")
			return
		}

		if !claims.IsPlatformAdmin() {
			if err := h.tenantService.EnsureActive(r.Context(), claims.TenantID); err != nil {
				switch {
				case errors.Is(err, tenant.ErrTenantSuspended):
					respondError(w, http.StatusForbidden, "tenant is suspended")
				case errors.Is(err, tenant.ErrTenantNotFound), errors.Is(err, tenant.ErrInvalidTenantID):
					respondError(w, http.StatusUnauthorized, "invalid or expired token")
				default:
					respondServiceError(w, r, err, "verify tenant")
				}
				return
			}
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID())
		ctx = context.WithValue(ctx, roleKey, claims.Role)
		ctx = context.WithValue(ctx, tenantIDKey, claims.TenantID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
