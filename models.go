package tokenauth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. Email matching is case sensitive, exactly as
// stored; the unique constraint is what arbitrates concurrent registration.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	IsActive      bool       `bun:"is_active,notnull" json:"is_active"`
	Role          Role       `bun:"user_role,notnull" json:"user_role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// RevokedToken is an append-only ledger entry keyed by the raw token string.
// Entries are never updated and never expire; a revoked token stays revoked
// after its own exp passes.
type RevokedToken struct {
	bun.BaseModel `bun:"table:revoked_tokens,alias:rtk"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Token         string    `bun:"token,notnull,unique" json:"token,omitempty"`
	RevokedAt     time.Time `bun:"revoked_at,notnull,nullzero,default:current_timestamp" json:"revoked_at,omitempty"`
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if !record.Role.IsValid() {
		record.Role = RoleUser
	}

	// new accounts start active
	record.IsActive = true
}
