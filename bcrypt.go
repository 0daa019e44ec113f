package tokenauth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently truncates input past 72 bytes; anything longer is
// collapsed to a sha256 hex digest first so the whole password counts.
const passwordByteLimit = 72

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed,
// injected cost.
type PasswordHasher struct {
	cost int
}

var _ PasswordAuthenticator = (*PasswordHasher)(nil)

// NewPasswordHasher creates a hasher with the configured cost factor
func NewPasswordHasher(cfg Config) *PasswordHasher {
	return &PasswordHasher{cost: cfg.GetBcryptCost()}
}

// HashPassword will generate a password hash
func (p *PasswordHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword(normalizePassword(password), p.cost)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	return string(h), nil
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. Malformed hashes report a mismatch, they never panic.
func (p *PasswordHasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), normalizePassword(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// normalizePassword must apply identically on hash and verify or long
// passwords stop matching their stored hashes.
func normalizePassword(password string) []byte {
	if len(password) > passwordByteLimit {
		sum := sha256.Sum256([]byte(password))
		return []byte(hex.EncodeToString(sum[:]))
	}
	return []byte(password)
}
