package tokenauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey    []byte
	signingMethod string
	issuer        string
	audience      jwt.ClaimStrings
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
	logger        Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg Config, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:    []byte(cfg.GetSigningKey()),
		signingMethod: cfg.GetSigningMethod(),
		issuer:        cfg.GetIssuer(),
		audience:      cfg.GetAudience(),
		accessTTL:     cfg.GetAccessTokenTTL(),
		refreshTTL:    cfg.GetRefreshTokenTTL(),
		resetTTL:      cfg.GetResetTokenTTL(),
		logger:        logger,
	}
}

// IssueAccess mints a short-lived access token carrying subject and role
func (ts *TokenServiceImpl) IssueAccess(identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity must not be nil", errors.CategoryInternal)
	}

	claims := ts.newClaims(identity.Email(), TokenTypeAccess, ts.accessTTL)
	claims.UserRole = identity.Role()

	return ts.SignClaims(claims)
}

// IssueRefresh mints a long-lived refresh token carrying only the subject
func (ts *TokenServiceImpl) IssueRefresh(subject string) (string, error) {
	return ts.SignClaims(ts.newClaims(subject, TokenTypeRefresh, ts.refreshTTL))
}

// IssueReset mints a single-purpose password reset token
func (ts *TokenServiceImpl) IssueReset(subject string) (string, error) {
	return ts.SignClaims(ts.newClaims(subject, TokenTypeReset, ts.resetTTL))
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.GetSigningMethod(ts.signingMethod), claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and verifies a token string, then enforces the expected
// type claim. Verification failures normalize to ErrTokenExpired or
// ErrTokenMalformed; no signing-library error escapes.
func (ts *TokenServiceImpl) Validate(tokenString string, want TokenType) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{ts.signingMethod}),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode claims")
		return nil, ErrTokenMalformed
	}

	if claims.TokenType != want {
		return nil, errors.Wrap(ErrWrongTokenType, ErrWrongTokenType.Category, ErrWrongTokenType.Message).
			WithTextCode(ErrWrongTokenType.TextCode).
			WithMetadata(map[string]any{
				"want": string(want),
				"got":  string(claims.TokenType),
			})
	}

	return claims, nil
}

func (ts *TokenServiceImpl) newClaims(subject string, kind TokenType, ttl time.Duration) *JWTClaims {
	now := time.Now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: kind,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

// ensureTokenID gives every token a unique jti. Two otherwise identical
// tokens issued in the same second would share a raw string, and the
// revocation ledger keys on that string.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
