package tokenauth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserStore is the slice of Users the provider needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// UserProvider resolves identities against the user store
type UserProvider struct {
	store  UserStore
	hasher PasswordAuthenticator
	logger Logger
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore, hasher PasswordAuthenticator) *UserProvider {
	return &UserProvider{
		store:  store,
		hasher: hasher,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare to the password, and return identity.
// An unknown email and a wrong password both report ErrMismatchedHashAndPassword
// so callers cannot tell which accounts exist.
func (u *UserProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := u.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return identityFromUser(user), nil
}

// FindIdentityByEmail resolves an identity without checking credentials
func (u *UserProvider) FindIdentityByEmail(ctx context.Context, email string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return identityFromUser(user), nil
}

type authIdentity struct {
	id    string
	email string
	role  Role
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) Role() Role {
	if !a.role.IsValid() {
		return RoleUser
	}
	return a.role
}

var _ Identity = authIdentity{}

func identityFromUser(user *User) authIdentity {
	return authIdentity{
		id:    user.ID.String(),
		email: user.Email,
		role:  user.Role,
	}
}
