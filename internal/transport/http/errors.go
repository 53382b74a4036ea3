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
	"errors"
	"log/slog"
	"net/http"

	"github.com/lexdesk/lexdesk/internal/observability/logger"
	"github.com/lexdesk/lexdesk/internal/practice"
	"github.com/lexdesk/lexdesk/internal/tenant"
)

// respondServiceError maps domain errors to status codes. Unmapped errors are
// logged and answered with a generic message naming the failed action.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var ve *ValidationError

	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, practice.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tenant.ErrInvalidTenantID):
		respondError(w, http.StatusBadRequest, "invalid tenant id")
	case errors.Is(err, practice.ErrNoFieldsToUpdate):
		respondError(w, http.StatusBadRequest, "no fields to update")
	case errors.Is(err, practice.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, tenant.ErrTenantNotFound):
		respondError(w, http.StatusNotFound, "tenant not found")
	case errors.Is(err, tenant.ErrTenantExists):
		respondError(w, http.StatusConflict, "tenant already exists")
	case errors.Is(err, tenant.ErrTenantSuspended):
		respondError(w, http.StatusForbidden, "tenant is suspended")
	case errors.Is(err, tenant.ErrKeyNotFound), errors.Is(err, tenant.ErrKeyRevoked):
		respondError(w, http.StatusForbidden, "invalid registration key")
	case errors.Is(err, tenant.ErrKeyExpired), errors.Is(err, tenant.ErrKeyExhausted):
		respondError(w, http.StatusGone, "registration key is no longer valid")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			logger.Operation(action),
			logger.TenantID(GetTenantID(r.Context())),
			logger.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "failed to "+action)
	}
}
