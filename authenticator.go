package tokenauth

import (
	"context"
	"reflect"

	"github.com/goliatone/go-repository-bun"
)

// Auther runs the session lifecycle: credential login, refresh rotation of
// access tokens, and logout through the revocation ledger.
type Auther struct {
	provider IdentityProvider
	repo     RepositoryManager
	tokens   TokenService
	logger   Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, repo RepositoryManager, cfg Config) *Auther {
	return &Auther{
		provider: provider,
		repo:     repo,
		tokens:   NewTokenService(cfg, defLogger{}),
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service built from the config.
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies credentials and mints a fresh access and refresh pair.
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, ErrIdentityNotFound
	}

	access, err := s.tokens.IssueAccess(identity)
	if err != nil {
		return nil, err
	}

	refresh, err := s.tokens.IssueRefresh(identity.Email())
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The role
// claim comes from the current user record, not from the refresh token, so a
// promotion shows up on the next refresh.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrMissingRefreshToken
	}

	claims, err := s.tokens.Validate(refreshToken, TokenTypeRefresh)
	if err != nil {
		s.logger.Error("Refresh token validation failed", "error", err)
		return "", err
	}

	identity, err := s.provider.FindIdentityByEmail(ctx, claims.Subject())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.logger.Warn("Refresh subject no longer exists", "subject", claims.Subject())
			return "", ErrUnknownSubject
		}
		s.logger.Error("Refresh subject lookup failed", "subject", claims.Subject(), "error", err)
		return "", err
	}

	return s.tokens.IssueAccess(identity)
}

// Logout revokes the presented access token. Revoking a token that was
// already revoked reports ErrTokenRevoked, matching what every later use of
// that token would see.
func (s *Auther) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrMissingToken
	}

	revoked, err := s.repo.RevokedTokens().IsRevoked(ctx, accessToken)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}

	if _, err := s.tokens.Validate(accessToken, TokenTypeAccess); err != nil {
		s.logger.Error("Logout token validation failed", "error", err)
		return err
	}

	return s.repo.RevokedTokens().Revoke(ctx, accessToken)
}
