package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("test-secret", time.Hour)

	tok, err := a.IssueJWT("u1", "alice", "student")
	require.NoError(t, err)

	claims, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "student", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestParse_WrongSecret(t *testing.T) {
	a := NewAuthService("secret-one", time.Hour)
	b := NewAuthService("secret-two", time.Hour)

	tok, err := a.IssueJWT("u1", "alice", "student")
	require.NoError(t, err)

	_, err = b.Parse(tok)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	a := NewAuthService("test-secret", -time.Minute)

	tok, err := a.IssueJWT("u1", "alice", "student")
	require.NoError(t, err)

	_, err = a.Parse(tok)
	assert.Error(t, err)
}

func TestRevoke(t *testing.T) {
	a := NewAuthService("test-secret", time.Hour)

	tok, err := a.IssueJWT("u1", "alice", "student")
	require.NoError(t, err)
	claims, err := a.Parse(tok)
	require.NoError(t, err)

	a.Revoke(claims)

	_, err = a.Parse(tok)
	assert.Error(t, err, "revoked token must stop parsing")

	// Other tokens are unaffected.
	tok2, err := a.IssueJWT("u1", "alice", "student")
	require.NoError(t, err)
	_, err = a.Parse(tok2)
	assert.NoError(t, err)
}
