package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionExpiry is how long an issued session credential stays valid
const DefaultSessionExpiry = 48 * time.Hour

// Claims is the JWT claim set for a team member session. A credential binds
// the team member to its owning admin for the lifetime of the session.
type Claims struct {
	TeamMemberID string `json:"teamMember"`
	AdminID      string `json:"adminId"`
	jwt.RegisteredClaims
}

// Issuer mints signed, time-bound session credentials
type Issuer interface {
	// Issue creates a credential binding a team member to its owning admin
	Issue(teamMemberID, adminID uuid.UUID, ttl time.Duration) (string, error)

	// Parse validates a credential and returns its claims
	Parse(tokenStr string) (*Claims, error)
}

// JwtIssuer implements Issuer using HS256-signed JWTs
type JwtIssuer struct {
	Secret   string
	IssuerID string
	Audience string
}

// NewJwtIssuer creates a new JWT session issuer
func NewJwtIssuer(secret, issuer, audience string) *JwtIssuer {
	return &JwtIssuer{
		Secret:   secret,
		IssuerID: issuer,
		Audience: audience,
	}
}

// Issue creates a signed session credential
func (g *JwtIssuer) Issue(teamMemberID, adminID uuid.UUID, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = DefaultSessionExpiry
	}

	now := time.Now().UTC()
	claims := Claims{
		TeamMemberID: teamMemberID.String(),
		AdminID:      adminID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
			Issuer:    g.IssuerID,
			Subject:   teamMemberID.String(),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{g.Audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(g.Secret))
	if err != nil {
		slog.Error("Failed to sign session credential", "err", err)
		return "", err
	}
	return ss, nil
}

// Parse validates a session credential string
func (g *JwtIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(g.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session credential")
	}
	return claims, nil
}
