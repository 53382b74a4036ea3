package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lexdesk/lexdesk/internal/audit"
	"github.com/lexdesk/lexdesk/internal/auth"
	"github.com/lexdesk/lexdesk/internal/practice"
	"github.com/lexdesk/lexdesk/internal/tenant"
)

const testSecret = "http-test-secret-0123456789abcdef"

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) Create(ctx context.Context, t *tenant.Tenant) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*tenant.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTenantRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockTenantRepo) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if t := args.Get(0); t != nil {
		return t.([]*tenant.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTenantRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockKeyRepo struct {
	mock.Mock
}

func (m *mockKeyRepo) Create(ctx context.Context, key *tenant.RegistrationKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockKeyRepo) GetByID(ctx context.Context, id string) (*tenant.RegistrationKey, error) {
	args := m.Called(ctx, id)
	if k := args.Get(0); k != nil {
		return k.(*tenant.RegistrationKey), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockKeyRepo) List(ctx context.Context) ([]*tenant.RegistrationKey, error) {
	args := m.Called(ctx)
	if k := args.Get(0); k != nil {
		return k.([]*tenant.RegistrationKey), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockKeyRepo) Consume(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockKeyRepo) Release(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockKeyRepo) Revoke(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type noopProvisioner struct{}

func (noopProvisioner) Provision(context.Context, string) error { return nil }

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) EnsureSchema(ctx context.Context, tenantID string) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *mockClientRepo) List(ctx context.Context, tenantID string, f practice.ListFilter) (*practice.Page[practice.Client], error) {
	args := m.Called(ctx, tenantID, f)
	if p := args.Get(0); p != nil {
		return p.(*practice.Page[practice.Client]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) GetByID(ctx context.Context, tenantID, id string) (*practice.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if c := args.Get(0); c != nil {
		return c.(*practice.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) Create(ctx context.Context, tenantID, id, createdBy string, values practice.Values) (*practice.Client, error) {
	args := m.Called(ctx, tenantID, id, createdBy, values)
	if c := args.Get(0); c != nil {
		return c.(*practice.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) Update(ctx context.Context, tenantID, id string, values practice.Values) (*practice.Client, error) {
	args := m.Called(ctx, tenantID, id, values)
	if c := args.Get(0); c != nil {
		return c.(*practice.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) SoftDelete(ctx context.Context, tenantID, id string) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockClientRepo) Stats(ctx context.Context, tenantID string, f practice.ListFilter) (practice.Stats, error) {
	args := m.Called(ctx, tenantID, f)
	if s := args.Get(0); s != nil {
		return s.(practice.Stats), args.Error(1)
	}
	return nil, args.Error(1)
}

type testEnv struct {
	router  *chi.Mux
	issuer  *auth.Issuer
	tenants *mockTenantRepo
	keys    *mockKeyRepo
	clients *mockClientRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	issuer, err := auth.NewIssuer(testSecret, "lexdesk", time.Hour)
	require.NoError(t, err)
	verifier, err := auth.NewVerifier(testSecret, "lexdesk")
	require.NoError(t, err)

	env := &testEnv{
		issuer:  issuer,
		tenants: new(mockTenantRepo),
		keys:    new(mockKeyRepo),
		clients: new(mockClientRepo),
	}
	env.tenants.On("GetByID", mock.Anything, "acme").
		Return(&tenant.Tenant{ID: "acme", Status: tenant.StatusActive}, nil).Maybe()
	env.tenants.On("GetByID", mock.Anything, "frozen").
		Return(&tenant.Tenant{ID: "frozen", Status: tenant.StatusSuspended}, nil).Maybe()

	auditLogger := audit.NewSlogLogger()
	hasher := tenant.NewKeyHasher(1024, 1, 1, 8, 16)
	tenantService := tenant.NewService(env.tenants, env.keys, hasher, noopProvisioner{}, auditLogger)

	services := PracticeServices{
		Clients: practice.NewService[practice.Client](practice.KindClient, env.clients, auditLogger),
	}
	h := NewHandler(tenantService, verifier, issuer, auditLogger, services.Resources()...)

	rl := NewRateLimiter(1000, 1000)
	t.Cleanup(rl.Close)
	env.router = NewRouter(h, rl, RouterConfig{AllowedOrigins: []string{"https://app.lexdesk.test"}})
	return env
}

func (e *testEnv) token(t *testing.T, userID, tenantID, role string) string {
	t.Helper()
	tok, err := e.issuer.Issue(userID, tenantID, role)
	require.NoError(t, err)
	return tok
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
