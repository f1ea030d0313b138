package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/api/internal/models"
)

func newTestIssuer() *Issuer {
	return &Issuer{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func testUser() *models.User {
	return &models.User{
		ID:    uuid.NewString(),
		Email: "a@x.com",
		Role:  models.RoleUser,
	}
}

func TestIssueAccess_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	u := testUser()

	token, err := iss.IssueAccess(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ClaimsFromToken(token, iss.AccessSecret)
	require.NoError(t, err)

	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, u.Role, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(iss.AccessTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssuePair_KindsDoNotCrossValidate(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	access, refresh, err := iss.IssuePair(testUser())
	require.NoError(t, err)

	_, err = ClaimsFromToken(access, iss.RefreshSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ClaimsFromToken(refresh, iss.AccessSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ClaimsFromToken(refresh, iss.RefreshSecret)
	assert.NoError(t, err)
}

func TestIssueRefresh_UniquePerIssuance(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	u := testUser()

	// back-to-back issuance lands in the same second; the jti must
	// still make the tokens distinct
	first, err := iss.IssueRefresh(u)
	require.NoError(t, err)
	second, err := iss.IssueRefresh(u)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	claims, err := ClaimsFromToken(second, iss.RefreshSecret)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

func TestClaimsFromToken_Expired(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	iss.AccessTTL = -time.Minute

	token, err := iss.IssueAccess(testUser())
	require.NoError(t, err)

	_, err = ClaimsFromToken(token, iss.AccessSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsFromToken_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "garbage", raw: "not-a-jwt"},
		{name: "truncated", raw: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ClaimsFromToken(tt.raw, []byte("secret"))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSubjectUnverified(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	u := testUser()
	refresh, err := iss.IssueRefresh(u)
	require.NoError(t, err)

	sub, err := SubjectUnverified(refresh)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sub)

	// expired tokens still decode
	iss.RefreshTTL = -time.Hour
	expired, err := iss.IssueRefresh(u)
	require.NoError(t, err)
	sub, err = SubjectUnverified(expired)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sub)

	_, err = SubjectUnverified("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
