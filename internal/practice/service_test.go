package practice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lexdesk/lexdesk/internal/audit"
)

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) EnsureSchema(ctx context.Context, tenantID string) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *mockClientRepo) List(ctx context.Context, tenantID string, filter ListFilter) (*Page[Client], error) {
	args := m.Called(ctx, tenantID, filter)
	if p := args.Get(0); p != nil {
		return p.(*Page[Client]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) GetByID(ctx context.Context, tenantID, id string) (*Client, error) {
	args := m.Called(ctx, tenantID, id)
	if c := args.Get(0); c != nil {
		return c.(*Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) Create(ctx context.Context, tenantID, id, createdBy string, values Values) (*Client, error) {
	args := m.Called(ctx, tenantID, id, createdBy, values)
	if c := args.Get(0); c != nil {
		return c.(*Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) Update(ctx context.Context, tenantID, id string, values Values) (*Client, error) {
	args := m.Called(ctx, tenantID, id, values)
	if c := args.Get(0); c != nil {
		return c.(*Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) SoftDelete(ctx context.Context, tenantID, id string) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockClientRepo) Stats(ctx context.Context, tenantID string, filter ListFilter) (Stats, error) {
	args := m.Called(ctx, tenantID, filter)
	if s := args.Get(0); s != nil {
		return s.(Stats), args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingAudit struct {
	events []audit.Event
}

func (r *recordingAudit) Log(_ context.Context, e audit.Event) {
	r.events = append(r.events, e)
}

func strPtr(s string) *string { return &s }

func TestService_CreateAssignsPrefixedID(t *testing.T) {
	ctx := context.Background()
	repo := new(mockClientRepo)
	rec := &recordingAudit{}
	svc := NewService[Client](KindClient, repo, rec)

	in := &ClientInput{Name: strPtr("Jane Roe"), Email: strPtr("jane@example.com")}
	repo.On("Create", ctx, "acme", mock.MatchedBy(func(id string) bool {
		return strings.HasPrefix(id, "client_")
	}), "user-1", Values{"name": "Jane Roe", "email": "jane@example.com"}).
		Return(&Client{Name: "Jane Roe"}, nil)

	c, err := svc.Create(ctx, "acme", "user-1", in)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", c.Name)
	require.Len(t, rec.events, 1)
	assert.Equal(t, audit.TypeRecordCreated, rec.events[0].Type)
	assert.Equal(t, "acme", rec.events[0].TenantID)
	assert.Equal(t, KindClient, rec.events[0].Resource)
	assert.True(t, strings.HasPrefix(rec.events[0].RecordID, "client_"))
	repo.AssertExpectations(t)
}

func TestService_CreateRequiresFields(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewService[Client](KindClient, repo, nil)

	_, err := svc.Create(context.Background(), "acme", "user-1", &ClientInput{Email: strPtr("x@example.com")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateWithNoFields(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewService[Client](KindClient, repo, nil)

	_, err := svc.Update(context.Background(), "acme", "user-1", "client_1", &ClientInput{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdatePassesOnlyPresentFields(t *testing.T) {
	ctx := context.Background()
	repo := new(mockClientRepo)
	svc := NewService[Client](KindClient, repo, nil)

	repo.On("Update", ctx, "acme", "client_1", Values{"status": "inactive"}).
		Return(&Client{Status: "inactive"}, nil)

	c, err := svc.Update(ctx, "acme", "user-1", "client_1", &ClientInput{Status: strPtr("inactive")})
	require.NoError(t, err)
	assert.Equal(t, "inactive", c.Status)
	repo.AssertExpectations(t)
}

func TestService_DeleteNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mockClientRepo)
	rec := &recordingAudit{}
	svc := NewService[Client](KindClient, repo, rec)

	repo.On("SoftDelete", ctx, "acme", "client_404").Return(ErrNotFound)

	err := svc.Delete(ctx, "acme", "user-1", "client_404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, rec.events)
}

func TestService_CreateWrapsRepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(mockClientRepo)
	svc := NewService[Client](KindClient, repo, nil)
	boom := errors.New("boom")

	repo.On("Create", ctx, "acme", mock.Anything, "user-1", mock.Anything).Return(nil, boom)

	_, err := svc.Create(ctx, "acme", "user-1", &ClientInput{Name: strPtr("A")})
	assert.ErrorIs(t, err, boom)
}
