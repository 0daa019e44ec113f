package tokenauth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RevokedTokens is the revocation ledger: exact-string membership over raw
// token strings. The ledger only grows; pruning expired entries is left to
// operational tooling outside this package.
type RevokedTokens interface {
	repository.Repository[*RevokedToken]

	IsRevoked(ctx context.Context, token string) (bool, error)
	IsRevokedTx(ctx context.Context, tx bun.IDB, token string) (bool, error)

	Revoke(ctx context.Context, token string) error
	RevokeTx(ctx context.Context, tx bun.IDB, token string) error
}

type revokedTokens struct {
	repository.Repository[*RevokedToken]
	db *bun.DB
}

var (
	_ RevokedTokens                        = (*revokedTokens)(nil)
	_ repository.Repository[*RevokedToken] = (*revokedTokens)(nil)
)

func NewRevokedTokensRepository(db *bun.DB) RevokedTokens {
	repo := repository.NewRepository[*RevokedToken](db, repository.ModelHandlers[*RevokedToken]{
		NewRecord: func() *RevokedToken { return &RevokedToken{} },
		GetID: func(r *RevokedToken) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *RevokedToken, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &revokedTokens{
		Repository: repo,
		db:         db,
	}
}

func (a *revokedTokens) IsRevoked(ctx context.Context, token string) (bool, error) {
	return a.IsRevokedTx(ctx, a.db, token)
}

func (a *revokedTokens) IsRevokedTx(ctx context.Context, tx bun.IDB, token string) (bool, error) {
	exists, err := tx.NewSelect().
		Model((*RevokedToken)(nil)).
		Where("?TableAlias.token = ?", token).
		Exists(ctx)

	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check revocation ledger")
	}

	return exists, nil
}

func (a *revokedTokens) Revoke(ctx context.Context, token string) error {
	return a.RevokeTx(ctx, a.db, token)
}

// RevokeTx appends to the ledger. Revoking an already revoked token is a
// no-op, not an error.
func (a *revokedTokens) RevokeTx(ctx context.Context, tx bun.IDB, token string) error {
	if token == "" {
		return goerrors.New("cannot revoke an empty token", goerrors.CategoryBadInput)
	}

	record := &RevokedToken{
		ID:    uuid.New(),
		Token: token,
	}

	_, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (token) DO NOTHING").
		Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to append to revocation ledger")
	}

	return nil
}
