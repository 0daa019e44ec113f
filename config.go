package tokenauth

import "time"

// Defaults applied by BaseConfig when a field is left zero.
const (
	DefaultSigningMethod     = "HS256"
	DefaultAccessTokenTTL    = 15 * time.Minute
	DefaultRefreshTokenTTL   = 7 * 24 * time.Hour
	DefaultResetTokenTTL     = 30 * time.Minute
	DefaultBcryptCost        = 14
	DefaultRefreshCookieName = "refresh_token"
)

// MinPasswordLength applies to new passwords set through the reset flow
const MinPasswordLength = 8

// BaseConfig is a plain value implementation of Config. Construct it once at
// process start and hand it to NewAuthenticator, NewTokenService, and
// NewPasswordHasher.
type BaseConfig struct {
	SigningKey        string
	SigningMethod     string
	Issuer            string
	Audience          []string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	ResetTokenTTL     time.Duration
	BcryptCost        int
	RefreshCookieName string
	CookieSecure      bool
}

var _ Config = (*BaseConfig)(nil)

func (c *BaseConfig) GetSigningKey() string { return c.SigningKey }

func (c *BaseConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return DefaultSigningMethod
	}
	return c.SigningMethod
}

func (c *BaseConfig) GetIssuer() string { return c.Issuer }

func (c *BaseConfig) GetAudience() []string { return c.Audience }

func (c *BaseConfig) GetAccessTokenTTL() time.Duration {
	if c.AccessTokenTTL <= 0 {
		return DefaultAccessTokenTTL
	}
	return c.AccessTokenTTL
}

func (c *BaseConfig) GetRefreshTokenTTL() time.Duration {
	if c.RefreshTokenTTL <= 0 {
		return DefaultRefreshTokenTTL
	}
	return c.RefreshTokenTTL
}

// GetResetTokenTTL defaults to 30 minutes; reset links are single purpose
// and should not outlive the email that carries them.
func (c *BaseConfig) GetResetTokenTTL() time.Duration {
	if c.ResetTokenTTL <= 0 {
		return DefaultResetTokenTTL
	}
	return c.ResetTokenTTL
}

func (c *BaseConfig) GetBcryptCost() int {
	if c.BcryptCost <= 0 {
		return DefaultBcryptCost
	}
	return c.BcryptCost
}

func (c *BaseConfig) GetRefreshCookieName() string {
	if c.RefreshCookieName == "" {
		return DefaultRefreshCookieName
	}
	return c.RefreshCookieName
}

func (c *BaseConfig) GetCookieSecure() bool { return c.CookieSecure }
