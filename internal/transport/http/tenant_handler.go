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
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lexdesk/lexdesk/internal/tenant"
)

// CreateTenantRequest represents tenant creation data
type CreateTenantRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200" example:"Roe & Partners LLP"`
}

// CreateTenant handles tenant creation
// @Summary Create Tenant
// @Description Create a tenant and provision its schema (Platform Admin Only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTenantRequest true "Tenant Data"
// @Success 201 {object} tenant.Tenant
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/tenants [post]
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondServiceError(w, r, err, "create tenant")
		return
	}

	t, err := h.tenantService.CreateTenant(r.Context(), req.Name, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err, "create tenant")
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

// ListTenants handles listing all tenants
// @Summary List Tenants
// @Description List all platform tenants (Platform Admin Only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset"
// @Success 200 {array} tenant.Tenant
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/tenants [get]
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	tenants, err := h.tenantService.ListTenants(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err, "list tenants")
		return
	}
	if tenants == nil {
		tenants = []*tenant.Tenant{}
	}

	respondJSON(w, http.StatusOK, tenants)
}

// GetTenant returns one tenant
// @Summary Get Tenant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} tenant.Tenant
// @Failure 404 {object} map[string]string
// @Router /admin/tenants/{tenantID} [get]
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.tenantService.GetTenant(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		respondServiceError(w, r, err, "get tenant")
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// SuspendTenant blocks all access to a tenant
// @Summary Suspend Tenant
// @Tags Admin
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/tenants/{tenantID}/suspend [post]
func (h *Handler) SuspendTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.tenantService.SuspendTenant(r.Context(), chi.URLParam(r, "tenantID"), GetUserID(r.Context())); err != nil {
		respondServiceError(w, r, err, "suspend tenant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IssueKeyRequest represents registration key issuance data
type IssueKeyRequest struct {
	Label      string `json:"label" validate:"max=200" example:"Spring onboarding"`
	MaxUses    int    `json:"max_uses" validate:"gte=0" example:"1"`
	TTLSeconds int64  `json:"ttl_seconds" validate:"gte=0" example:"604800"`
}

// IssueKeyResponse carries the only copy of the plaintext key
type IssueKeyResponse struct {
	Key          string                  `json:"key"`
	Registration *tenant.RegistrationKey `json:"registration_key"`
}

// IssueRegistrationKey creates a registration key
// @Summary Issue Registration Key
// @Description The plaintext key is returned once and never stored
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IssueKeyRequest true "Key Data"
// @Success 201 {object} IssueKeyResponse
// @Failure 400 {object} map[string]string
// @Router /admin/registration-keys [post]
func (h *Handler) IssueRegistrationKey(w http.ResponseWriter, r *http.Request) {
	var req IssueKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondServiceError(w, r, err, "issue registration key")
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	plaintext, key, err := h.tenantService.IssueRegistrationKey(r.Context(), req.Label, req.MaxUses, ttl, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err, "issue registration key")
		return
	}

	respondJSON(w, http.StatusCreated, IssueKeyResponse{Key: plaintext, Registration: key})
}

// ListRegistrationKeys lists registration keys without their secrets
// @Summary List Registration Keys
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} tenant.RegistrationKey
// @Router /admin/registration-keys [get]
func (h *Handler) ListRegistrationKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.tenantService.ListRegistrationKeys(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "list registration keys")
		return
	}
	if keys == nil {
		keys = []*tenant.RegistrationKey{}
	}
	respondJSON(w, http.StatusOK, keys)
}

// RevokeRegistrationKey revokes a registration key
// @Summary Revoke Registration Key
// @Tags Admin
// @Security BearerAuth
// @Param keyID path string true "Key ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Router /admin/registration-keys/{keyID} [delete]
func (h *Handler) RevokeRegistrationKey(w http.ResponseWriter, r *http.Request) {
	if err := h.tenantService.RevokeRegistrationKey(r.Context(), chi.URLParam(r, "keyID"), GetUserID(r.Context())); err != nil {
		respondServiceError(w, r, err, "revoke registration key")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRequest represents self-service organization signup
type RegisterRequest struct {
	Key              string `json:"key" validate:"required" example:"0192f5c4-....secret"`
	OrganizationName string `json:"organization_name" validate:"required,max=200" example:"Roe & Partners LLP"`
	Email            string `json:"email" validate:"required,email" example:"jane@roe.law"`
}

// RegisterResponse returns the new tenant and an owner token
type RegisterResponse struct {
	Tenant *tenant.Tenant `json:"tenant"`
	Token  string         `json:"token"`
}

// Register redeems a registration key
// @Summary Register Organization
// @Description Redeem a registration key to create a tenant and receive an owner token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration Data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondServiceError(w, r, err, "register")
		return
	}

	t, err := h.tenantService.Register(r.Context(), req.Key, req.OrganizationName)
	if err != nil {
		respondServiceError(w, r, err, "register")
		return
	}

	token, err := h.issuer.Issue(req.Email, t.ID, tenant.RoleOwner)
	if err != nil {
		respondServiceError(w, r, err, "issue token")
		return
	}

	respondJSON(w, http.StatusCreated, RegisterResponse{Tenant: t, Token: token})
}
