package invitetoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	svc := NewService()

	token, err := svc.Generate()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	other, err := svc.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestGenerateTokenLength(t *testing.T) {
	svc := NewService(WithTokenLength(16))

	token, err := svc.Generate()
	require.NoError(t, err)
	// 16 bytes base64url encoded
	assert.Len(t, token, 24)
}

func TestHashIsDeterministic(t *testing.T) {
	svc := NewService()

	token, err := svc.Generate()
	require.NoError(t, err)

	assert.Equal(t, svc.Hash(token), svc.Hash(token))
	assert.NotEqual(t, svc.Hash(token), svc.Hash(token+"x"))
	// hex-encoded SHA-256
	assert.Len(t, svc.Hash(token), 64)
}
