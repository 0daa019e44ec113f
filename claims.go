package tokenauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType is the purpose a token was minted for. Every consumer of
// Validate states which type it expects; a token of one type is never
// accepted where another is required.
type TokenType string

const (
	// TokenTypeAccess is the short-lived API credential, carries the role
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh is the long-lived cookie credential, subject only
	TokenTypeRefresh TokenType = "refresh"
	// TokenTypeReset proves email ownership for password reset, nothing else
	TokenTypeReset TokenType = "reset"
)

// IsValid checks the type is one of the three issued kinds
func (t TokenType) IsValid() bool {
	switch t {
	case TokenTypeAccess, TokenTypeRefresh, TokenTypeReset:
		return true
	default:
		return false
	}
}

// AuthClaims represents verified token claims
type AuthClaims interface {
	Subject() string
	Role() Role
	Type() TokenType
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. The subject is the
// user email; the role travels only on access tokens.
type JWTClaims struct {
	jwt.RegisteredClaims
	UserRole  Role      `json:"role,omitempty"`
	TokenType TokenType `json:"type"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Role returns the role claim, empty for refresh and reset tokens
func (c *JWTClaims) Role() Role {
	return c.UserRole
}

// Type returns the purpose the token was minted for
func (c *JWTClaims) Type() TokenType {
	return c.TokenType
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issuance time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
