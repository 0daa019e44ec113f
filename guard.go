package tokenauth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// Principal is the authenticated caller behind a verified access token,
// backed by the current user record rather than token claims alone.
type Principal struct {
	ID     uuid.UUID
	Email  string
	Role   Role
	Active bool
}

// Guard turns bearer tokens into principals for protected routes. Order
// matters: ledger first, then signature and type, then subject lookup, so a
// revoked token never reaches claim parsing.
type Guard struct {
	repo   RepositoryManager
	tokens TokenService
	logger Logger
}

func NewGuard(repo RepositoryManager, tokens TokenService) *Guard {
	return &Guard{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (g *Guard) WithLogger(l Logger) *Guard {
	if l != nil {
		g.logger = l
	}
	return g
}

// ResolvePrincipal verifies an access token and loads the live user record
// behind its subject.
func (g *Guard) ResolvePrincipal(ctx context.Context, accessToken string) (*Principal, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	revoked, err := g.repo.RevokedTokens().IsRevoked(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims, err := g.tokens.Validate(accessToken, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := g.repo.Users().GetByEmail(ctx, claims.Subject())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			g.logger.Warn("access token subject no longer exists", "subject", claims.Subject())
			return nil, ErrUnknownSubject
		}
		return nil, err
	}

	return &Principal{
		ID:     user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Active: user.IsActive,
	}, nil
}

// RequireAdmin gates admin-only operations on the principal's stored role
func (g *Guard) RequireAdmin(principal *Principal) error {
	if principal == nil {
		return ErrMissingToken
	}

	switch principal.Role {
	case RoleAdmin:
		return nil
	case RoleUser:
		return ErrAdminRequired
	default:
		return ErrAdminRequired
	}
}
