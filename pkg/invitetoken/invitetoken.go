package invitetoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// TokenService generates single-use invite tokens and computes the
// deterministic digest stored in place of the plaintext. Only the digest is
// ever persisted; the plaintext is delivered to the invited user out of band.
type TokenService interface {
	// Generate returns a new random plaintext token
	Generate() (string, error)

	// Hash returns the deterministic digest of a plaintext token
	Hash(token string) string
}

// Service implements TokenService with crypto/rand tokens and SHA-256 digests
type Service struct {
	tokenLength int
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithTokenLength sets the number of random bytes per token
func WithTokenLength(length int) ServiceOption {
	return func(s *Service) {
		s.tokenLength = length
	}
}

// NewService creates a new invite token service
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		tokenLength: 32,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate returns a cryptographically secure random token
func (s *Service) Generate() (string, error) {
	b := make([]byte, s.tokenLength)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Hash returns the hex-encoded SHA-256 digest of a token
func (s *Service) Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
