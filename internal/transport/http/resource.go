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
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lexdesk/lexdesk/internal/practice"
)

// ResourceRoutes mounts the REST routes of one resource collection.
type ResourceRoutes interface {
	Path() string
	Routes(r chi.Router)
}

// Resource serves the CRUD routes of a practice resource.
type Resource[T any] struct {
	path     string
	svc      *practice.Service[T]
	newInput func() practice.Input
	refs     []string
	// extra mounts additional routes under /{id}.
	extra func(r chi.Router)
}

// NewResource serves svc under path. refs names the query parameters passed
// through as equality filters.
func NewResource[T any](path string, svc *practice.Service[T], newInput func() practice.Input, refs ...string) *Resource[T] {
	return &Resource[T]{
		path:     path,
		svc:      svc,
		newInput: newInput,
		refs:     refs,
	}
}

func (res *Resource[T]) Path() string {
	return res.path
}

func (res *Resource[T]) Routes(r chi.Router) {
	r.Get("/", res.List)
	r.Get("/stats", res.Stats)
	r.Post("/", res.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", res.Get)
		r.Patch("/", res.Update)
		r.Put("/", res.Update)
		r.Delete("/", res.Delete)
		if res.extra != nil {
			res.extra(r)
		}
	})
}

// parseFilter reads list filters from the query string.
func (res *Resource[T]) parseFilter(r *http.Request) (practice.ListFilter, error) {
	q := r.URL.Query()
	f := practice.ListFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	}

	var err error
	if f.Page, err = queryInt(q.Get("page")); err != nil {
		return f, &ValidationError{Fields: []string{"page must be an integer"}}
	}
	if f.Limit, err = queryInt(q.Get("limit")); err != nil {
		return f, &ValidationError{Fields: []string{"limit must be an integer"}}
	}
	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}
	if f.From, err = queryTime(q.Get("from")); err != nil {
		return f, &ValidationError{Fields: []string{"from must be a date"}}
	}
	if f.To, err = queryTime(q.Get("to")); err != nil {
		return f, &ValidationError{Fields: []string{"to must be a date"}}
	}
	for _, ref := range res.refs {
		if v := q.Get(ref); v != "" {
			if f.Refs == nil {
				f.Refs = make(map[string]string)
			}
			f.Refs[ref] = v
		}
	}
	return f, nil
}

func queryInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// queryTime accepts RFC 3339 timestamps and plain dates.
func queryTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, &time.ParseError{Layout: time.DateOnly, Value: s}
}

// List returns a page of records
// @Summary List records
// @Description List active records of a resource collection, newest first
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Collection" Enums(clients, projects, tasks, transactions, invoices, notifications)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20) maximum(100)
// @Param status query string false "Status filter"
// @Param search query string false "Case-insensitive substring search"
// @Param tags query string false "Comma separated tags, any match"
// @Param from query string false "Lower date bound"
// @Param to query string false "Upper date bound"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /{resource} [get]
func (res *Resource[T]) List(w http.ResponseWriter, r *http.Request) {
	f, err := res.parseFilter(r)
	if err != nil {
		respondServiceError(w, r, err, "list "+res.path)
		return
	}

	page, err := res.svc.List(r.Context(), GetTenantID(r.Context()), f)
	if err != nil {
		respondServiceError(w, r, err, "list "+res.path)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// Stats returns aggregates over the collection
// @Summary Collection statistics
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Collection"
// @Success 200 {object} map[string]number
// @Router /{resource}/stats [get]
func (res *Resource[T]) Stats(w http.ResponseWriter, r *http.Request) {
	f, err := res.parseFilter(r)
	if err != nil {
		respondServiceError(w, r, err, "compute "+res.path+" stats")
		return
	}

	stats, err := res.svc.Stats(r.Context(), GetTenantID(r.Context()), f)
	if err != nil {
		respondServiceError(w, r, err, "compute "+res.path+" stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Get returns one record
// @Summary Get record
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Collection"
// @Param id path string true "Record ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /{resource}/{id} [get]
func (res *Resource[T]) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := res.svc.Get(r.Context(), GetTenantID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "get "+res.svc.Kind())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// decodeInput reads and validates a partial payload.
func (res *Resource[T]) decodeInput(w http.ResponseWriter, r *http.Request) (practice.Input, bool) {
	in := res.newInput()
	if !decodeJSON(w, r, in) {
		return nil, false
	}
	if err := validate.Struct(in); err != nil {
		respondServiceError(w, r, err, "validate "+res.svc.Kind())
		return nil, false
	}
	return in, true
}

// Create stores a new record
// @Summary Create record
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Collection"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /{resource} [post]
func (res *Resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := res.decodeInput(w, r)
	if !ok {
		return
	}

	rec, err := res.svc.Create(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), in)
	if err != nil {
		respondServiceError(w, r, err, "create "+res.svc.Kind())
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

// Update applies a partial update
// @Summary Update record
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Collection"
// @Param id path string true "Record ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /{resource}/{id} [patch]
func (res *Resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := res.decodeInput(w, r)
	if !ok {
		return
	}

	rec, err := res.svc.Update(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err, "update "+res.svc.Kind())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// Delete soft-deletes a record
// @Summary Delete record
// @Tags Resources
// @Security BearerAuth
// @Param resource path string true "Collection"
// @Param id path string true "Record ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /{resource}/{id} [delete]
func (res *Resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := res.svc.Delete(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err, "delete "+res.svc.Kind())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
