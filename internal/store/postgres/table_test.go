package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexdesk/lexdesk/internal/practice"
)

func newTestTable(f *staticFactory) *Table[practice.Client] {
	return NewTable[practice.Client](NewRouter(NewRegistry(f.Factory(), nil)), Clients)
}

func TestTable_ListQueries(t *testing.T) {
	table := newTestTable(newStaticFactory())
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	items, total := table.listQueries(practice.ListFilter{
		Page:   3,
		Limit:  2,
		Status: "active",
		Search: "50%_off",
		Tags:   []string{"vip", "retainer"},
		From:   &from,
	})

	sql, args, err := items.ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, "SELECT id, created_by, created_at, updated_at, is_active, name,"))
	assert.Contains(t, sql, "FROM ${schema}.clients WHERE")
	assert.Contains(t, sql, "is_active = $1")
	assert.Contains(t, sql, "status = $2")
	assert.Contains(t, sql, "name ILIKE $3 OR email ILIKE $4 OR company ILIKE $5")
	assert.Contains(t, sql, "tags ?| $6")
	assert.Contains(t, sql, "created_at >= $7")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC LIMIT 2 OFFSET 4")
	assert.Equal(t, `%50\%\_off%`, args[2])
	assert.Equal(t, []string{"vip", "retainer"}, args[5])

	countSQL, countArgs, err := total.ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(countSQL, "SELECT COUNT(*) FROM ${schema}.clients WHERE"))
	assert.NotContains(t, countSQL, "LIMIT")
	assert.Equal(t, args, countArgs)
}

func TestTable_IgnoresUnknownRefs(t *testing.T) {
	table := NewTable[practice.Project](NewRouter(NewRegistry(newStaticFactory().Factory(), nil)), Projects)

	raw, args, err := table.predicate(practice.ListFilter{
		Refs: map[string]string{"client_id": "client_1", "1=1; --": "x"},
	}).ToSql()
	require.NoError(t, err)
	sql, err := sq.Dollar.ReplacePlaceholders(raw)
	require.NoError(t, err)
	assert.Equal(t, "(is_active = $1 AND client_id = $2)", sql)
	assert.Equal(t, []any{true, "client_1"}, args)
}

func TestTable_InsertQueryKeepsOnlyWritableColumns(t *testing.T) {
	table := newTestTable(newStaticFactory())

	sql, args, err := table.insertQuery("client_1", "user-1", practice.Values{
		"status":    "active",
		"name":      "Jane",
		"is_active": false,
		"id":        "forged",
	}).ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, "INSERT INTO ${schema}.clients (id,created_by,name,status) VALUES ($1,$2,$3,$4) RETURNING id,"))
	assert.Equal(t, []any{"client_1", "user-1", "Jane", "active"}, args)
}

func TestInvoices_TotalIsGenerated(t *testing.T) {
	assert.NotContains(t, Invoices.Writable, "total")
	assert.Contains(t, Invoices.Columns, "total")
	assert.Contains(t, strings.Join(Invoices.DDL, "\n"), "total      NUMERIC(14,2) GENERATED ALWAYS AS (subtotal + tax) STORED")

	table := NewTable[practice.Invoice](NewRouter(NewRegistry(newStaticFactory().Factory(), nil)), Invoices)
	b, err := table.updateQuery("invoice_1", practice.Values{"tax": 10.0, "total": 999.0})
	require.NoError(t, err)
	sql, args, err := b.ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, "UPDATE ${schema}.invoices SET tax = $1, updated_at = NOW() WHERE"))
	assert.Equal(t, []any{10.0, "invoice_1", true}, args)
	assert.Contains(t, sql, "RETURNING")
	assert.True(t, strings.HasSuffix(sql, "notes, total"))
}

func TestTable_UpdateQuery(t *testing.T) {
	table := newTestTable(newStaticFactory())

	b, err := table.updateQuery("client_1", practice.Values{"notes": "n", "email": "e@example.com"})
	require.NoError(t, err)
	sql, args, err := b.ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, "UPDATE ${schema}.clients SET email = $1, notes = $2, updated_at = NOW() WHERE (id = $3 AND is_active = $4) RETURNING"))
	assert.Equal(t, []any{"e@example.com", "n", "client_1", true}, args)

	_, err = table.updateQuery("client_1", practice.Values{"created_by": "mallory"})
	assert.ErrorIs(t, err, practice.ErrNoFieldsToUpdate)
}

func TestTable_EnsureSchemaRunsOncePerTenant(t *testing.T) {
	f := newStaticFactory()
	table := newTestTable(f)
	ctx := context.Background()

	require.NoError(t, table.EnsureSchema(ctx, "acme"))
	require.NoError(t, table.EnsureSchema(ctx, "acme"))

	h := f.handle("acme")
	require.NotNil(t, h)
	require.Len(t, h.Queries(), 1)
	script := h.Queries()[0]
	assert.Contains(t, script, "pg_advisory_xact_lock(hashtext('tenant_acme'))")
	assert.Contains(t, script, "CREATE SCHEMA IF NOT EXISTS tenant_acme")
	assert.Contains(t, script, "CREATE TABLE IF NOT EXISTS tenant_acme.clients")
	assert.NotContains(t, script, "${")
}

func TestTable_SoftDeleteMissingRow(t *testing.T) {
	f := newStaticFactory()
	f.newFn = func() *fakeHandle {
		return &fakeHandle{tagFor: func(sql string) string {
			if strings.HasPrefix(sql, "UPDATE") {
				return "UPDATE 0"
			}
			return "CREATE TABLE"
		}}
	}
	table := newTestTable(f)

	err := table.SoftDelete(context.Background(), "acme", "client_404")
	assert.ErrorIs(t, err, practice.ErrNotFound)
	assert.Equal(t, 1, f.handle("acme").count("UPDATE tenant_acme.clients SET is_active = $1"))
}

func TestTable_Stats(t *testing.T) {
	f := newStaticFactory()
	f.newFn = func() *fakeHandle {
		return &fakeHandle{row: []float64{5, 3, 1, 1, 2, 3}}
	}
	table := newTestTable(f)

	stats, err := table.Stats(context.Background(), "acme", practice.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, practice.Stats{
		"total": 5, "active": 3, "inactive": 1, "prospect": 1, "business": 2, "individual": 3,
	}, stats)

	queries := f.handle("acme").Queries()
	last := queries[len(queries)-1]
	assert.Contains(t, last, "COALESCE(COUNT(*) FILTER (WHERE status = 'active'), 0)::float8 AS active")
	assert.Contains(t, last, "FROM tenant_acme.clients")
}

func TestEntities_ColumnsAreWritableOrRecord(t *testing.T) {
	for _, e := range Entities {
		t.Run(e.Table, func(t *testing.T) {
			assert.Equal(t, len(recordColumns)+len(e.Writable), len(e.Columns))
			for _, ddl := range e.DDL {
				assert.Contains(t, ddl, "${schema}.")
			}
			for _, s := range e.Stats {
				assert.NotEmpty(t, s.Name)
			}
		})
	}
}
