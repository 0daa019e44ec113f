package tokenauth_test

import (
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	tokenauth "github.com/goliatone/go-tokenauth"
	"github.com/stretchr/testify/assert"
)

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"rich expired error", tokenauth.ErrTokenExpired, true},
		{"wrapped expired error", goerrors.Wrap(tokenauth.ErrTokenExpired, goerrors.CategoryBadInput, "reset failed"), true},
		{"plain message match", fmt.Errorf("token is expired"), true},
		{"unrelated error", errors.New("boom"), false},
		{"malformed error", tokenauth.ErrTokenMalformed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenauth.IsTokenExpiredError(tt.err))
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"rich malformed error", tokenauth.ErrTokenMalformed, true},
		{"plain message match", fmt.Errorf("token is malformed"), true},
		{"fiber jwt message", fmt.Errorf("missing or malformed JWT"), true},
		{"expired error", tokenauth.ErrTokenExpired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenauth.IsMalformedError(tt.err))
		})
	}
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("invalid credentials", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, tokenauth.ErrMismatchedHashAndPassword.Category)
		assert.Equal(t, "INVALID_CREDENTIALS", tokenauth.ErrMismatchedHashAndPassword.TextCode)
	})

	t.Run("token revoked", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, tokenauth.ErrTokenRevoked.Category)
		assert.Equal(t, "TOKEN_REVOKED", tokenauth.ErrTokenRevoked.TextCode)
	})

	t.Run("wrong token type", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, tokenauth.ErrWrongTokenType.Category)
		assert.Equal(t, "WRONG_TOKEN_TYPE", tokenauth.ErrWrongTokenType.TextCode)
	})

	t.Run("email taken", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryConflict, tokenauth.ErrEmailTaken.Category)
		assert.Equal(t, "EMAIL_TAKEN", tokenauth.ErrEmailTaken.TextCode)
	})

	t.Run("identity not found", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryNotFound, tokenauth.ErrIdentityNotFound.Category)
		assert.Equal(t, "IDENTITY_NOT_FOUND", tokenauth.ErrIdentityNotFound.TextCode)
	})

	t.Run("admin required", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuthz, tokenauth.ErrAdminRequired.Category)
		assert.Equal(t, "ADMIN_REQUIRED", tokenauth.ErrAdminRequired.TextCode)
	})
}
