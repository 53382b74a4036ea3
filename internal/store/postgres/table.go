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
	"sort"
	"strings"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/lexdesk/lexdesk/internal/practice"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const listOrder = "created_at DESC, id DESC"

// Table implements practice.Repository for one entity.
type Table[T any] struct {
	router   *Router
	entity   Entity
	writable map[string]struct{}
	ensured  sync.Map
}

// NewTable creates a repository for entity whose rows scan into T.
func NewTable[T any](router *Router, entity Entity) *Table[T] {
	writable := make(map[string]struct{}, len(entity.Writable))
	for _, c := range entity.Writable {
		writable[c] = struct{}{}
	}
	return &Table[T]{
		router:   router,
		entity:   entity,
		writable: writable,
	}
}

// Entity returns the table descriptor.
func (t *Table[T]) Entity() Entity {
	return t.entity
}

func (t *Table[T]) from() string {
	return SchemaPlaceholder + "." + t.entity.Table
}

// ensureScript creates the schema and table under a transaction-scoped
// advisory lock. Sent as one simple-protocol message, the statements share an
// implicit transaction.
func (t *Table[T]) ensureScript() string {
	stmts := make([]string, 0, len(t.entity.DDL)+2)
	stmts = append(stmts,
		"SELECT pg_advisory_xact_lock(hashtext('"+SchemaPlaceholder+"'))",
		"CREATE SCHEMA IF NOT EXISTS "+SchemaPlaceholder,
	)
	stmts = append(stmts, t.entity.DDL...)
	return strings.Join(stmts, ";\n")
}

// EnsureSchema creates the tenant schema and this table if missing. Success is
// remembered per tenant for the life of the process, so a schema dropped from
// outside is not recreated until restart.
func (t *Table[T]) EnsureSchema(ctx context.Context, tenantID string) error {
	if _, ok := t.ensured.Load(tenantID); ok {
		return nil
	}
	if _, err := t.router.Exec(ctx, tenantID, t.ensureScript()); err != nil {
		return fmt.Errorf("failed to ensure %s table: %w", t.entity.Table, err)
	}
	t.ensured.Store(tenantID, struct{}{})
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// predicate builds the WHERE clause for filter over active rows.
func (t *Table[T]) predicate(f practice.ListFilter) sq.And {
	where := sq.And{sq.Eq{"is_active": true}}
	e := t.entity

	if f.Status != "" && e.Status != "" {
		where = append(where, sq.Eq{e.Status: f.Status})
	}
	if s := strings.TrimSpace(f.Search); s != "" && len(e.Search) > 0 {
		pattern := "%" + escapeLike(s) + "%"
		or := sq.Or{}
		for _, c := range e.Search {
			or = append(or, sq.Expr(c+" ILIKE ?", pattern))
		}
		where = append(where, or)
	}
	if len(f.Tags) > 0 && e.Tags != "" {
		where = append(where, sq.Expr(e.Tags+" ??| ?", f.Tags))
	}
	if e.Date != "" {
		if f.From != nil {
			where = append(where, sq.GtOrEq{e.Date: *f.From})
		}
		if f.To != nil {
			where = append(where, sq.LtOrEq{e.Date: *f.To})
		}
	}
	for _, ref := range e.Refs {
		if v, ok := f.Refs[ref]; ok && v != "" {
			where = append(where, sq.Eq{ref: v})
		}
	}
	return where
}

func (t *Table[T]) listQueries(f practice.ListFilter) (sq.SelectBuilder, sq.SelectBuilder) {
	_, limit := f.Window()
	where := t.predicate(f)

	items := psql.Select(t.entity.Columns...).
		From(t.from()).
		Where(where).
		OrderBy(listOrder).
		Limit(uint64(limit)).
		Offset(uint64(f.Offset()))
	total := psql.Select("COUNT(*)").
		From(t.from()).
		Where(where)
	return items, total
}

// List returns one page of active rows, newest first.
func (t *Table[T]) List(ctx context.Context, tenantID string, f practice.ListFilter) (*practice.Page[T], error) {
	if err := t.EnsureSchema(ctx, tenantID); err != nil {
		return nil, err
	}

	itemsQ, totalQ := t.listQueries(f)
	itemsSQL, itemsArgs, err := itemsQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s list query: %w", t.entity.Table, err)
	}
	totalSQL, totalArgs, err := totalQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s count query: %w", t.entity.Table, err)
	}

	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = ExecuteInSchema[T](gctx, t.router, tenantID, itemsSQL, itemsArgs...)
		return err
	})
	g.Go(func() error {
		return t.router.QueryRow(gctx, tenantID, totalSQL, totalArgs...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.entity.Table, err)
	}

	return practice.NewPage(items, int(total), f), nil
}

func (t *Table[T]) byID(id string) sq.And {
	return sq.And{sq.Eq{"id": id}, sq.Eq{"is_active": true}}
}

func (t *Table[T]) one(ctx context.Context, tenantID string, b sq.Sqlizer) (*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", t.entity.Table, err)
	}
	items, err := ExecuteInSchema[T](ctx, t.router, tenantID, query, args...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, practice.ErrNotFound
	}
	return &items[0], nil
}

// GetByID returns an active row.
func (t *Table[T]) GetByID(ctx context.Context, tenantID, id string) (*T, error) {
	if err := t.EnsureSchema(ctx, tenantID); err != nil {
		return nil, err
	}
	return t.one(ctx, tenantID, psql.Select(t.entity.Columns...).From(t.from()).Where(t.byID(id)).Limit(1))
}

// columnsOf returns the writable keys of values in sorted order.
func (t *Table[T]) columnsOf(values practice.Values) []string {
	cols := make([]string, 0, len(values))
	for c := range values {
		if _, ok := t.writable[c]; ok {
			cols = append(cols, c)
		}
	}
	sort.Strings(cols)
	return cols
}

func (t *Table[T]) returning() string {
	return "RETURNING " + strings.Join(t.entity.Columns, ", ")
}

func (t *Table[T]) insertQuery(id, createdBy string, values practice.Values) sq.InsertBuilder {
	cols := t.columnsOf(values)
	vals := make([]any, 0, len(cols)+2)
	vals = append(vals, id, createdBy)
	for _, c := range cols {
		vals = append(vals, values[c])
	}
	return psql.Insert(t.from()).
		Columns(append([]string{"id", "created_by"}, cols...)...).
		Values(vals...).
		Suffix(t.returning())
}

// Create inserts a row and returns it as stored.
func (t *Table[T]) Create(ctx context.Context, tenantID, id, createdBy string, values practice.Values) (*T, error) {
	if err := t.EnsureSchema(ctx, tenantID); err != nil {
		return nil, err
	}
	return t.one(ctx, tenantID, t.insertQuery(id, createdBy, values))
}

func (t *Table[T]) updateQuery(id string, values practice.Values) (sq.UpdateBuilder, error) {
	cols := t.columnsOf(values)
	if len(cols) == 0 {
		return sq.UpdateBuilder{}, practice.ErrNoFieldsToUpdate
	}
	b := psql.Update(t.from())
	for _, c := range cols {
		b = b.Set(c, values[c])
	}
	return b.Set("updated_at", sq.Expr("NOW()")).
		Where(t.byID(id)).
		Suffix(t.returning()), nil
}

// Update applies the writable keys of values to an active row.
func (t *Table[T]) Update(ctx context.Context, tenantID, id string, values practice.Values) (*T, error) {
	b, err := t.updateQuery(id, values)
	if err != nil {
		return nil, err
	}
	if err := t.EnsureSchema(ctx, tenantID); err != nil {
		return nil, err
	}
	return t.one(ctx, tenantID, b)
}

// SoftDelete marks an active row inactive.
func (t *Table[T]) SoftDelete(ctx context.Context, tenantID, id string) error {
	if err := t.EnsureSchema(ctx, tenantID); err != nil {
		return err
	}
	query, args, err := psql.Update(t.from()).
		Set("is_active", false).
		Set("updated_at", sq.Expr("NOW()")).
		Where(t.byID(id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s delete query: %w", t.entity.Table, err)
	}

	tag, err := t.router.Exec(ctx, tenantID, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return practice.ErrNotFound
	}
	return nil
}

func (t *Table[T]) statsQuery(f practice.ListFilter) sq.SelectBuilder {
	exprs := make([]string, len(t.entity.Stats))
	for i, s := range t.entity.Stats {
		exprs[i] = fmt.Sprintf("COALESCE(%s, 0)::float8 AS %s", s.Expr, s.Name)
	}
	return psql.Select(exprs...).From(t.from()).Where(t.predicate(f))
}

// Stats evaluates the entity aggregates over active rows matching f.
func (t *Table[T]) Stats(ctx context.Context, tenantID string, f practice.ListFilter) (practice.Stats, error) {
	if err := t.EnsureSchema(ctx, tenantID); err != nil {
		return nil, err
	}
	query, args, err := t.statsQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s stats query: %w", t.entity.Table, err)
	}

	vals := make([]float64, len(t.entity.Stats))
	dest := make([]any, len(vals))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := t.router.QueryRow(ctx, tenantID, query, args...).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return practice.Stats{}, nil
		}
		return nil, fmt.Errorf("failed to compute %s stats: %w", t.entity.Table, err)
	}

	stats := make(practice.Stats, len(vals))
	for i, s := range t.entity.Stats {
		stats[s.Name] = vals[i]
	}
	return stats, nil
}
