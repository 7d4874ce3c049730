package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewJwtIssuer("test-secret", "projectify-test", "projectify-test")

	teamMemberID := uuid.New()
	adminID := uuid.New()

	credential, err := issuer.Issue(teamMemberID, adminID, 48*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, credential)

	claims, err := issuer.Parse(credential)
	require.NoError(t, err)
	assert.Equal(t, teamMemberID.String(), claims.TeamMemberID)
	assert.Equal(t, adminID.String(), claims.AdminID)
	assert.Equal(t, teamMemberID.String(), claims.Subject)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 47*time.Hour)
	assert.LessOrEqual(t, remaining, 48*time.Hour)
}

func TestIssueDefaultExpiry(t *testing.T) {
	issuer := NewJwtIssuer("test-secret", "projectify-test", "projectify-test")

	credential, err := issuer.Issue(uuid.New(), uuid.New(), 0)
	require.NoError(t, err)

	claims, err := issuer.Parse(credential)
	require.NoError(t, err)
	assert.Greater(t, time.Until(claims.ExpiresAt.Time), 47*time.Hour)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewJwtIssuer("test-secret", "projectify-test", "projectify-test")
	other := NewJwtIssuer("other-secret", "projectify-test", "projectify-test")

	credential, err := issuer.Issue(uuid.New(), uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = other.Parse(credential)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewJwtIssuer("test-secret", "projectify-test", "projectify-test")

	credential, err := issuer.Issue(uuid.New(), uuid.New(), -time.Hour)
	require.NoError(t, err)

	_, err = issuer.Parse(credential)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewJwtIssuer("test-secret", "projectify-test", "projectify-test")

	_, err := issuer.Parse("not-a-credential")
	assert.Error(t, err)
}
