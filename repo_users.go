package tokenauth

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var resetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = current_timestamp
WHERE
	"usr"."id" = ?;`

var promoteUserRoleSQL = `UPDATE "users" AS "usr"
SET
	"user_role" = ?,
	"updated_at" = current_timestamp
WHERE
	"usr"."id" = ?;`

// Users is the store for user records
type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)

	UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*User, error)
	UpdateRoleTx(ctx context.Context, tx bun.IDB, id uuid.UUID, role Role) (*User, error)

	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

// RegisterTx inserts a new user record. The duplicate-email pre-check keeps
// the common case friendly; the unique constraint still decides races, so a
// constraint violation surfaces as the same conflict error.
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	if _, err := a.GetByEmailTx(ctx, tx, user.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	prepareUserDefaults(user)

	if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryConflict, ErrEmailTaken.Message).
				WithTextCode(ErrEmailTaken.TextCode)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert user")
	}

	return user, nil
}

// isUniqueViolation matches the constraint error text of the sqlite and
// postgres drivers, neither exposes a typed error for it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.FindByIDTx(ctx, a.db, id)
}

func (a *users) FindByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*User, error) {
	return a.UpdateRoleTx(ctx, a.db, id, role)
}

func (a *users) UpdateRoleTx(ctx context.Context, tx bun.IDB, id uuid.UUID, role Role) (*User, error) {
	if !role.IsValid() {
		return nil, goerrors.New("invalid role", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"role": string(role)})
	}

	user, err := a.FindByIDTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if _, err := tx.NewRaw(promoteUserRoleSQL, string(role), user.ID).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user role")
	}

	user.Role = role
	return user, nil
}

func (a *users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.ResetPasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := tx.NewRaw(resetUserPasswordSQL, passwordHash, id).Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password hash")
	}

	if res != nil {
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
	}

	return nil
}
