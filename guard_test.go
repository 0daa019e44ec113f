package tokenauth_test

import (
	"context"
	"testing"

	tokenauth "github.com/goliatone/go-tokenauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrincipal(t *testing.T) {
	db := setupTestDB(t)
	repo := tokenauth.NewRepositoryManager(db)
	hasher := tokenauth.NewPasswordHasher(newTestConfig())
	provider := tokenauth.NewUserProvider(repo.Users(), hasher)
	auther := tokenauth.NewAuthenticator(provider, repo, newTestConfig())
	guard := tokenauth.NewGuard(repo, auther.TokenService())
	ctx := context.Background()

	seeded := seedUser(t, repo, "guard@example.com", "password123", tokenauth.RoleUser)

	pair, err := auther.Login(ctx, "guard@example.com", "password123")
	require.NoError(t, err)

	t.Run("valid token resolves principal", func(t *testing.T) {
		principal, err := guard.ResolvePrincipal(ctx, pair.Access)
		require.NoError(t, err)

		assert.Equal(t, seeded.ID, principal.ID)
		assert.Equal(t, "guard@example.com", principal.Email)
		assert.Equal(t, tokenauth.RoleUser, principal.Role)
		assert.True(t, principal.Active)
	})

	t.Run("principal role reflects the store, not the claim", func(t *testing.T) {
		_, err := repo.Users().UpdateRole(ctx, seeded.ID, tokenauth.RoleAdmin)
		require.NoError(t, err)

		principal, err := guard.ResolvePrincipal(ctx, pair.Access)
		require.NoError(t, err)
		assert.Equal(t, tokenauth.RoleAdmin, principal.Role)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := guard.ResolvePrincipal(ctx, "")
		assert.ErrorIs(t, err, tokenauth.ErrMissingToken)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		_, err := guard.ResolvePrincipal(ctx, pair.Refresh)
		assert.ErrorIs(t, err, tokenauth.ErrWrongTokenType)
	})

	t.Run("revoked token rejected", func(t *testing.T) {
		require.NoError(t, auther.Logout(ctx, pair.Access))

		_, err := guard.ResolvePrincipal(ctx, pair.Access)
		assert.ErrorIs(t, err, tokenauth.ErrTokenRevoked)
	})
}

func TestRequireAdmin(t *testing.T) {
	db := setupTestDB(t)
	repo := tokenauth.NewRepositoryManager(db)
	auther := tokenauth.NewAuthenticator(
		tokenauth.NewUserProvider(repo.Users(), tokenauth.NewPasswordHasher(newTestConfig())),
		repo,
		newTestConfig(),
	)
	guard := tokenauth.NewGuard(repo, auther.TokenService())

	tests := []struct {
		name      string
		principal *tokenauth.Principal
		wantErr   error
	}{
		{"admin allowed", &tokenauth.Principal{Role: tokenauth.RoleAdmin}, nil},
		{"user forbidden", &tokenauth.Principal{Role: tokenauth.RoleUser}, tokenauth.ErrAdminRequired},
		{"unknown role forbidden", &tokenauth.Principal{Role: tokenauth.Role("owner")}, tokenauth.ErrAdminRequired},
		{"nil principal", nil, tokenauth.ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.RequireAdmin(tt.principal)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
