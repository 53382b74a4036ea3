package postgres

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeHandle struct {
	mu      sync.Mutex
	queries []string
	execErr error
	tagFor  func(sql string) string
	row     []float64
	rowErr  error
	closed  int
}

func (h *fakeHandle) record(sql string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queries = append(h.queries, sql)
}

func (h *fakeHandle) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	h.record(sql)
	return nil, errors.New("fake handle does not return rows")
}

func (h *fakeHandle) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	h.record(sql)
	return fakeRow{values: h.row, err: h.rowErr}
}

func (h *fakeHandle) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	h.record(sql)
	if h.execErr != nil {
		return pgconn.CommandTag{}, h.execErr
	}
	tag := "OK"
	if h.tagFor != nil {
		tag = h.tagFor(sql)
	}
	return pgconn.NewCommandTag(tag), nil
}

func (h *fakeHandle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
}

func (h *fakeHandle) Queries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.queries...)
}

func (h *fakeHandle) count(prefix string) int {
	n := 0
	for _, q := range h.Queries() {
		if strings.HasPrefix(q, prefix) {
			n++
		}
	}
	return n
}

type fakeRow struct {
	values []float64
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		if p, ok := d.(*float64); ok && i < len(r.values) {
			*p = r.values[i]
		}
	}
	return nil
}

// staticFactory hands out one fake handle per tenant and counts creations.
type staticFactory struct {
	mu      sync.Mutex
	handles map[string]*fakeHandle
	calls   int
	fail    error
	newFn   func() *fakeHandle
}

func newStaticFactory() *staticFactory {
	return &staticFactory{handles: make(map[string]*fakeHandle)}
}

func (f *staticFactory) Factory() Factory {
	return func(_ context.Context, tenantID, _ string) (Handle, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls++
		if f.fail != nil {
			return nil, f.fail
		}
		h := &fakeHandle{}
		if f.newFn != nil {
			h = f.newFn()
		}
		f.handles[tenantID] = h
		return h, nil
	}
}

func (f *staticFactory) handle(tenantID string) *fakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handles[tenantID]
}

func (f *staticFactory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
