package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexdesk/lexdesk/internal/tenant"
)

const testSecret = "test-secret-with-enough-entropy"

func newPair(t *testing.T) (*Issuer, *Verifier) {
	t.Helper()
	iss, err := NewIssuer(testSecret, "lexdesk", time.Hour)
	require.NoError(t, err)
	ver, err := NewVerifier(testSecret, "lexdesk")
	require.NoError(t, err)
	return iss, ver
}

func TestIssueAndVerify(t *testing.T) {
	iss, ver := newPair(t)

	token, err := iss.Issue("user-1", "acme", tenant.RoleOwner)
	require.NoError(t, err)

	claims, err := ver.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "acme", claims.TenantID)
	assert.Equal(t, tenant.RoleOwner, claims.Role)
	assert.False(t, claims.IsPlatformAdmin())
}

func TestIssue_RejectsBadInput(t *testing.T) {
	iss, _ := newPair(t)

	_, err := iss.Issue("user-1", "acme", "superuser")
	assert.Error(t, err)

	_, err = iss.Issue("user-1", "bad tenant", tenant.RoleMember)
	assert.ErrorIs(t, err, tenant.ErrInvalidTenantID)

	_, err = iss.Issue("admin", "", tenant.RolePlatformAdmin)
	assert.NoError(t, err)
}

func TestVerify_Rejects(t *testing.T) {
	iss, ver := newPair(t)
	valid, err := iss.Issue("user-1", "acme", tenant.RoleMember)
	require.NoError(t, err)

	other, err := NewIssuer("another-secret", "lexdesk", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue("user-1", "acme", tenant.RoleMember)
	require.NoError(t, err)

	expiredIssuer, err := NewIssuer(testSecret, "lexdesk", time.Hour)
	require.NoError(t, err)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue("user-1", "acme", tenant.RoleMember)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		TenantID: "acme",
		Role:     tenant.RoleMember,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "lexdesk",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":   "not-a-token",
		"wrong key": forged,
		"expired":   expired,
		"alg none":  unsigned,
		"truncated": valid[:len(valid)-4],
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ver.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("", "lexdesk", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
	_, err = NewVerifier("", "lexdesk")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
