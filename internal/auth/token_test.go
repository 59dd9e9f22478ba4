package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labtasks-backend/internal/model"
)

func testUser() model.User {
	return model.User{ID: 42, Username: "alice", Email: "alice@x.com", IsAdmin: true}
}

func TestIssueAccess_RoundTrip(t *testing.T) {
	i := NewIssuer("secret", 15*time.Minute, 24*time.Hour)

	raw, err := i.IssueAccess(testUser())
	require.NoError(t, err)

	claims, err := i.ParseAccess(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, TypeAccess, claims.TokenType)
}

func TestIssueRefresh_RoundTrip(t *testing.T) {
	i := NewIssuer("secret", 15*time.Minute, 24*time.Hour)

	raw, jti, exp, err := i.IssueRefresh(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)

	claims, err := i.ParseRefresh(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, TypeRefresh, claims.TokenType)
}

func TestParse_ExpiredToken(t *testing.T) {
	i := NewIssuer("secret", -time.Minute, -time.Minute)

	raw, err := i.IssueAccess(testUser())
	require.NoError(t, err)
	_, err = i.ParseAccess(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	rawRefresh, _, _, err := i.IssueRefresh(testUser())
	require.NoError(t, err)
	_, err = i.ParseRefresh(rawRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongSecret(t *testing.T) {
	signer := NewIssuer("right", 15*time.Minute, 24*time.Hour)
	verifier := NewIssuer("wrong", 15*time.Minute, 24*time.Hour)

	raw, err := signer.IssueAccess(testUser())
	require.NoError(t, err)

	_, err = verifier.ParseAccess(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Malformed(t *testing.T) {
	i := NewIssuer("secret", 15*time.Minute, 24*time.Hour)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := i.ParseAccess(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

// A token of one kind must never validate as the other, even though both
// are signed with the same secret.
func TestParse_TypeConfusion(t *testing.T) {
	i := NewIssuer("secret", 15*time.Minute, 24*time.Hour)

	access, err := i.IssueAccess(testUser())
	require.NoError(t, err)
	_, err = i.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	refresh, _, _, err := i.IssueRefresh(testUser())
	require.NoError(t, err)
	_, err = i.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRefresh_UniqueIdentifiers(t *testing.T) {
	i := NewIssuer("secret", 15*time.Minute, 24*time.Hour)

	seen := make(map[string]bool)
	for n := 0; n < 100; n++ {
		_, jti, _, err := i.IssueRefresh(testUser())
		require.NoError(t, err)
		require.False(t, seen[jti], "jti issued twice: %s", jti)
		seen[jti] = true
	}
}
