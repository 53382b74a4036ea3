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
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexdesk/lexdesk/internal/observability/metrics"
	"github.com/lexdesk/lexdesk/internal/tenant"
)

// ErrRegistryClosed is returned by GetOrCreate after DisposeAll.
var ErrRegistryClosed = errors.New("tenant registry is closed")

// Querier is the subset of *pgxpool.Pool used to run routed statements.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Handle is a tenant-bound database client.
type Handle interface {
	Querier
	Close()
}

// Factory opens the handle for one tenant. schema is the validated schema name.
type Factory func(ctx context.Context, tenantID, schema string) (Handle, error)

// PoolPerTenant returns a Factory that opens a dedicated pool per tenant with
// search_path pinned to the tenant schema.
func PoolPerTenant(base *pgxpool.Config, maxConns int32) Factory {
	return func(ctx context.Context, tenantID, schema string) (Handle, error) {
		pool, err := pgxpool.NewWithConfig(ctx, tenantPoolConfig(base, schema, maxConns))
		if err != nil {
			return nil, fmt.Errorf("failed to create pool for tenant %s: %w", tenantID, err)
		}
		return pool, nil
	}
}

// tenantPoolConfig copies base with search_path set to schema. MinConns never
// exceeds MaxConns.
func tenantPoolConfig(base *pgxpool.Config, schema string, maxConns int32) *pgxpool.Config {
	cfg := base.Copy()
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = cfg.MaxConns
	}
	return cfg
}

// SharedPool returns a Factory whose handles all share pool. Closing such a
// handle leaves the pool open.
func SharedPool(pool *pgxpool.Pool) Factory {
	return func(context.Context, string, string) (Handle, error) {
		return sharedHandle{pool}, nil
	}
}

type sharedHandle struct {
	*pgxpool.Pool
}

func (sharedHandle) Close() {}

type registryEntry struct {
	ready  chan struct{}
	handle Handle
	err    error
}

// Registry caches one handle per tenant ID. Handles are created on first use
// and live until DisposeAll.
type Registry struct {
	factory     Factory
	instruments *metrics.StoreInstruments

	mu      sync.Mutex
	entries map[string]*registryEntry
	closed  bool
}

// NewRegistry creates a registry that opens handles with factory.
func NewRegistry(factory Factory, instruments *metrics.StoreInstruments) *Registry {
	return &Registry{
		factory:     factory,
		instruments: instruments,
		entries:     make(map[string]*registryEntry),
	}
}

// GetOrCreate returns the handle for tenantID, creating it on first use.
// Concurrent first calls for the same tenant share a single creation. A failed
// creation is not cached.
func (r *Registry) GetOrCreate(ctx context.Context, tenantID string) (Handle, error) {
	schema, err := tenant.SchemaName(tenantID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	if e, ok := r.entries[tenantID]; ok {
		r.mu.Unlock()
		select {
		case <-e.ready:
			return e.handle, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	e := &registryEntry{ready: make(chan struct{})}
	r.entries[tenantID] = e
	r.mu.Unlock()

	e.handle, e.err = r.factory(ctx, tenantID, schema)
	if e.err != nil {
		r.mu.Lock()
		if r.entries[tenantID] == e {
			delete(r.entries, tenantID)
		}
		r.mu.Unlock()
	} else {
		r.instruments.HandleOpened(ctx)
	}
	close(e.ready)

	return e.handle, e.err
}

// Len returns the number of cached handles, including ones being created.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// DisposeAll closes every cached handle and empties the registry. It is safe
// to call more than once.
func (r *Registry) DisposeAll(ctx context.Context) {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.closed = true
	r.mu.Unlock()

	for _, e := range entries {
		<-e.ready
		if e.err != nil || e.handle == nil {
			continue
		}
		e.handle.Close()
		r.instruments.HandleClosed(ctx)
	}
}
