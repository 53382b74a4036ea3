package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, t *Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tenant), args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Tenant, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*Tenant), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockKeyRepo struct {
	mock.Mock
}

func (m *mockKeyRepo) Create(ctx context.Context, key *RegistrationKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockKeyRepo) GetByID(ctx context.Context, id string) (*RegistrationKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RegistrationKey), args.Error(1)
}

func (m *mockKeyRepo) List(ctx context.Context) ([]*RegistrationKey, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*RegistrationKey), args.Error(1)
}

func (m *mockKeyRepo) Consume(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockKeyRepo) Release(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockKeyRepo) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProvisioner struct {
	mock.Mock
}

func (m *mockProvisioner) Provision(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

// Cheap parameters keep the tests fast.
func testHasher() *KeyHasher {
	return NewKeyHasher(1024, 1, 1, 8, 16)
}

func newTestService() (*Service, *mockRepo, *mockKeyRepo, *mockProvisioner, *mockAudit) {
	repo := new(mockRepo)
	keys := new(mockKeyRepo)
	prov := new(mockProvisioner)
	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Return()
	return NewService(repo, keys, testHasher(), prov, auditLogger), repo, keys, prov, auditLogger
}

func TestService_CreateTenant_ProvisionsSchema(t *testing.T) {
	svc, repo, _, prov, _ := newTestService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(t *Tenant) bool {
		uid, err := uuid.Parse(t.ID)
		if err != nil || uid.Version() != 7 {
			return false
		}
		schema, _ := SchemaName(t.ID)
		return t.Schema == schema && t.Status == StatusActive && t.Name == "Hale & Partners"
	})).Return(nil)
	prov.On("Provision", ctx, mock.AnythingOfType("string")).Return(nil)

	got, err := svc.CreateTenant(ctx, "Hale & Partners", "admin-1")
	require.NoError(t, err)
	assert.Regexp(t, `^tenant_[0-9a-f]{32}$`, got.Schema)

	repo.AssertExpectations(t)
	prov.AssertCalled(t, "Provision", ctx, got.ID)
}

func TestService_CreateTenant_RequiresName(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	_, err := svc.CreateTenant(context.Background(), "", "admin-1")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateTenant_ProvisionFailure(t *testing.T) {
	svc, repo, _, prov, _ := newTestService()
	ctx := context.Background()

	var created string
	repo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*Tenant).ID
	}).Return(nil)
	prov.On("Provision", ctx, mock.Anything).Return(errors.New("connection refused"))
	repo.On("Delete", ctx, mock.Anything).Return(nil)

	_, err := svc.CreateTenant(ctx, "Acme", "admin-1")
	assert.ErrorContains(t, err, "failed to provision tenant schema")
	repo.AssertCalled(t, "Delete", ctx, created)
}

// TestPurpose: Validates that a failed signup does not burn a registration key use.
// Scope: Unit Test
// Security: Resource exhaustion of single-use keys
// Expected: The consumed use is released and the creation error is returned.
func TestService_Register_ReleasesKeyWhenCreationFails(t *testing.T) {
	svc, repo, keys, prov, _ := newTestService()
	ctx := context.Background()

	hash, err := testHasher().Hash("right-secret")
	require.NoError(t, err)
	keys.On("GetByID", ctx, "k1").Return(&RegistrationKey{ID: "k1", SecretHash: hash, MaxUses: 1}, nil)
	keys.On("Consume", ctx, "k1").Return(nil)
	keys.On("Release", ctx, "k1").Return(nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)
	repo.On("Delete", ctx, mock.Anything).Return(nil)
	prov.On("Provision", ctx, mock.Anything).Return(errors.New("disk full"))

	_, err = svc.Register(ctx, "k1.right-secret", "Firm")
	assert.ErrorContains(t, err, "failed to provision tenant schema")
	keys.AssertCalled(t, "Release", ctx, "k1")
}

func TestService_Register_KeepsUseOnSuccess(t *testing.T) {
	svc, repo, keys, prov, _ := newTestService()
	ctx := context.Background()

	hash, err := testHasher().Hash("right-secret")
	require.NoError(t, err)
	keys.On("GetByID", ctx, "k1").Return(&RegistrationKey{ID: "k1", SecretHash: hash}, nil)
	keys.On("Consume", ctx, "k1").Return(nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)
	prov.On("Provision", ctx, mock.Anything).Return(nil)

	_, err = svc.Register(ctx, "k1.right-secret", "Firm")
	require.NoError(t, err)
	keys.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_GetTenant_InvalidIDNeverReachesRepository(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	_, err := svc.GetTenant(context.Background(), "x'; DROP SCHEMA public; --")
	assert.ErrorIs(t, err, ErrInvalidTenantID)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestService_EnsureActive(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "active-1").Return(&Tenant{ID: "active-1", Status: StatusActive}, nil)
	repo.On("GetByID", ctx, "frozen-1").Return(&Tenant{ID: "frozen-1", Status: StatusSuspended}, nil)
	repo.On("GetByID", ctx, "missing-1").Return(nil, ErrTenantNotFound)

	assert.NoError(t, svc.EnsureActive(ctx, "active-1"))
	assert.ErrorIs(t, svc.EnsureActive(ctx, "frozen-1"), ErrTenantSuspended)
	assert.ErrorIs(t, svc.EnsureActive(ctx, "missing-1"), ErrTenantNotFound)
}

func TestService_ListTenants_ClampsLimit(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	ctx := context.Background()

	repo.On("List", ctx, defaultListLimit, 0).Return([]*Tenant{}, nil).Once()
	repo.On("List", ctx, maxListLimit, 10).Return([]*Tenant{}, nil).Once()

	_, err := svc.ListTenants(ctx, 0, -5)
	require.NoError(t, err)
	_, err = svc.ListTenants(ctx, 10000, 10)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_RegistrationKey_IssueAndRedeem(t *testing.T) {
	svc, repo, keys, prov, _ := newTestService()
	ctx := context.Background()

	var stored *RegistrationKey
	keys.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*RegistrationKey)
	}).Return(nil)

	plaintext, key, err := svc.IssueRegistrationKey(ctx, "spring onboarding", 3, 24*time.Hour, "admin-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, key.ID, stored.ID)
	assert.NotContains(t, stored.SecretHash, plaintext)
	require.NotNil(t, key.ExpiresAt)

	keys.On("GetByID", ctx, key.ID).Return(stored, nil)
	keys.On("Consume", ctx, key.ID).Return(nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)
	prov.On("Provision", ctx, mock.Anything).Return(nil)

	created, err := svc.Register(ctx, plaintext, "New Firm")
	require.NoError(t, err)
	assert.Equal(t, "New Firm", created.Name)
	keys.AssertCalled(t, "Consume", ctx, key.ID)
}

func TestService_Register_RejectsBadKeys(t *testing.T) {
	svc, _, keys, _, _ := newTestService()
	ctx := context.Background()

	hash, err := testHasher().Hash("right-secret")
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	revoked := time.Now().Add(-time.Minute)
	keys.On("GetByID", ctx, "k-good").Return(&RegistrationKey{ID: "k-good", SecretHash: hash}, nil)
	keys.On("GetByID", ctx, "k-expired").Return(&RegistrationKey{ID: "k-expired", SecretHash: hash, ExpiresAt: &past}, nil)
	keys.On("GetByID", ctx, "k-used").Return(&RegistrationKey{ID: "k-used", SecretHash: hash, MaxUses: 1, Uses: 1}, nil)
	keys.On("GetByID", ctx, "k-revoked").Return(&RegistrationKey{ID: "k-revoked", SecretHash: hash, RevokedAt: &revoked}, nil)
	keys.On("GetByID", ctx, "k-missing").Return(nil, ErrKeyNotFound)

	tests := []struct {
		name      string
		plaintext string
		want      error
	}{
		{"malformed", "no-separator", ErrKeyNotFound},
		{"wrong secret", "k-good.wrong-secret", ErrKeyNotFound},
		{"unknown", "k-missing.right-secret", ErrKeyNotFound},
		{"expired", "k-expired.right-secret", ErrKeyExpired},
		{"exhausted", "k-used.right-secret", ErrKeyExhausted},
		{"revoked", "k-revoked.right-secret", ErrKeyRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.plaintext, "Firm")
			assert.ErrorIs(t, err, tt.want)
		})
	}
	keys.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
}

func TestKeyHasher_VerifyRoundTrip(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash("s3cret")
	require.NoError(t, err)

	ok, err := h.Verify("s3cret", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("other", encoded)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("s3cret", "not-a-hash")
	assert.Error(t, err)
}
