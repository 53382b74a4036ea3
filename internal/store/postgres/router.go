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

package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"

	"github.com/lexdesk/lexdesk/internal/observability/logger"
	"github.com/lexdesk/lexdesk/internal/observability/metrics"
	"github.com/lexdesk/lexdesk/internal/observability/tracing"
	"github.com/lexdesk/lexdesk/internal/tenant"
)

// SchemaPlaceholder marks where a statement template names the tenant schema.
const SchemaPlaceholder = "${schema}"

// ErrSchemaPlaceholder is returned for templates that do not reference the
// tenant schema through SchemaPlaceholder.
var ErrSchemaPlaceholder = errors.New("statement must reference ${schema}")

// QueryError wraps a driver failure of a routed statement.
type QueryError struct {
	TenantID string
	Schema   string
	Query    string
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query in schema %s failed: %v", e.Schema, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Expand validates tenantID and substitutes its schema into template.
func Expand(tenantID, template string) (query, schema string, err error) {
	schema, err = tenant.SchemaName(tenantID)
	if err != nil {
		return "", "", err
	}
	if !strings.Contains(template, SchemaPlaceholder) {
		return "", "", ErrSchemaPlaceholder
	}
	query = strings.ReplaceAll(template, SchemaPlaceholder, schema)
	if strings.Contains(query, "${") {
		return "", "", ErrSchemaPlaceholder
	}
	return query, schema, nil
}

// Router executes statement templates inside the schema of a tenant.
type Router struct {
	registry    *Registry
	tracer      *tracing.Tracer
	instruments *metrics.StoreInstruments
	logger      *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTracer records a span per routed statement.
func WithTracer(t *tracing.Tracer) RouterOption {
	return func(r *Router) { r.tracer = t }
}

// WithInstruments records query counters and latency.
func WithInstruments(i *metrics.StoreInstruments) RouterOption {
	return func(r *Router) { r.instruments = i }
}

// WithLogger sets the logger used for failed statements.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) { r.logger = l }
}

// NewRouter creates a router over registry.
func NewRouter(registry *Registry, opts ...RouterOption) *Router {
	r := &Router{
		registry: registry,
		tracer:   tracing.Noop(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the handle registry the router draws from.
func (r *Router) Registry() *Registry {
	return r.registry
}

type routed struct {
	router   *Router
	ctx      context.Context
	tenantID string
	schema   string
	query    string
	args     int
	start    time.Time
	span     trace.Span
}

func (r *Router) begin(ctx context.Context, tenantID, template string, nargs int) (*routed, Handle, error) {
	query, schema, err := Expand(tenantID, template)
	if err != nil {
		return nil, nil, err
	}

	handle, err := r.registry.GetOrCreate(ctx, tenantID)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to acquire tenant handle",
			logger.Component("tenant_router"),
			logger.TenantID(tenantID),
			logger.Schema(schema),
			logger.Error(err),
		)
		return nil, nil, &QueryError{TenantID: tenantID, Schema: schema, Query: query, Err: err}
	}

	spanCtx, span := r.tracer.StartQuery(ctx, schema, query)
	rt := &routed{
		router:   r,
		ctx:      spanCtx,
		tenantID: tenantID,
		schema:   schema,
		query:    query,
		args:     nargs,
		start:    time.Now(),
		span:     span,
	}
	return rt, handle, nil
}

// end records the outcome and converts driver failures into *QueryError.
func (rt *routed) end(err error) error {
	failed := err != nil && !errors.Is(err, pgx.ErrNoRows)
	elapsed := float64(time.Since(rt.start).Microseconds()) / 1000
	rt.router.instruments.RecordQuery(rt.ctx, rt.schema, elapsed, failed)

	if !failed {
		tracing.EndQuery(rt.span, nil)
		return err
	}
	tracing.EndQuery(rt.span, err)

	rt.router.logger.ErrorContext(rt.ctx, "tenant query failed",
		logger.Component("tenant_router"),
		logger.TenantID(rt.tenantID),
		logger.Schema(rt.schema),
		logger.Query(rt.query),
		logger.Args(rt.args),
		logger.Error(err),
	)
	return &QueryError{TenantID: rt.tenantID, Schema: rt.schema, Query: rt.query, Err: err}
}

// Exec runs a statement that returns no rows.
func (r *Router) Exec(ctx context.Context, tenantID, template string, args ...any) (pgconn.CommandTag, error) {
	rt, handle, err := r.begin(ctx, tenantID, template, len(args))
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	tag, err := handle.Exec(rt.ctx, rt.query, args...)
	return tag, rt.end(err)
}

// QueryRow runs a statement expected to return at most one row. pgx.ErrNoRows
// from Scan is passed through unwrapped.
func (r *Router) QueryRow(ctx context.Context, tenantID, template string, args ...any) pgx.Row {
	rt, handle, err := r.begin(ctx, tenantID, template, len(args))
	if err != nil {
		return errRow{err}
	}
	return &routedRow{row: handle.QueryRow(rt.ctx, rt.query, args...), rt: rt}
}

// ExecuteInSchema runs template inside the schema of tenantID and collects the
// rows into T by column name.
func ExecuteInSchema[T any](ctx context.Context, r *Router, tenantID, template string, args ...any) ([]T, error) {
	rt, handle, err := r.begin(ctx, tenantID, template, len(args))
	if err != nil {
		return nil, err
	}

	rows, err := handle.Query(rt.ctx, rt.query, args...)
	if err != nil {
		return nil, rt.end(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, rt.end(err)
	}
	rt.end(nil)
	return items, nil
}

type routedRow struct {
	row pgx.Row
	rt  *routed
}

func (r *routedRow) Scan(dest ...any) error {
	return r.rt.end(r.row.Scan(dest...))
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
