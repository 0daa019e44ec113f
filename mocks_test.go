package tokenauth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	tokenauth "github.com/goliatone/go-tokenauth"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// TestIdentity implements tokenauth.Identity
type TestIdentity struct {
	id    string
	email string
	role  tokenauth.Role
}

func (t TestIdentity) ID() string           { return t.id }
func (t TestIdentity) Email() string        { return t.email }
func (t TestIdentity) Role() tokenauth.Role { return t.role }

// MockIdentityProvider implements tokenauth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (tokenauth.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(tokenauth.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByEmail(ctx context.Context, email string) (tokenauth.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(tokenauth.Identity), args.Error(1)
}

// MockNotifier implements tokenauth.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

// newTestConfig keeps bcrypt cheap and tokens short lived so suites stay fast
func newTestConfig() *tokenauth.BaseConfig {
	return &tokenauth.BaseConfig{
		SigningKey:      "test-signing-key",
		Issuer:          "tokenauth-test",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		ResetTokenTTL:   time.Minute,
		BcryptCost:      4,
	}
}

// setupTestDB opens an in-memory sqlite database with the package schema
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()

	_, err = db.NewCreateTable().
		Model((*tokenauth.User)(nil)).
		Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewCreateTable().
		Model((*tokenauth.RevokedToken)(nil)).
		Exec(ctx)
	require.NoError(t, err)

	return db
}

// seedUser registers a user directly through the repository
func seedUser(t *testing.T, repo tokenauth.RepositoryManager, email, password string, role tokenauth.Role) *tokenauth.User {
	t.Helper()

	hasher := tokenauth.NewPasswordHasher(newTestConfig())
	hash, err := hasher.HashPassword(password)
	require.NoError(t, err)

	user, err := repo.Users().Register(context.Background(), &tokenauth.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	require.NoError(t, err)

	return user
}
