package tokenauth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes give clients a stable, machine readable discriminator that
// survives message rewording.
const (
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
	TextCodeEmptyPassword     = "EMPTY_PASSWORD"
	TextCodeWeakPassword      = "WEAK_PASSWORD"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeTokenRevoked      = "TOKEN_REVOKED"
	TextCodeWrongTokenType    = "WRONG_TOKEN_TYPE"
	TextCodeMissingToken      = "MISSING_TOKEN"
	TextCodeMissingRefresh    = "MISSING_REFRESH_TOKEN"
	TextCodeUnknownSubject    = "UNKNOWN_SUBJECT"
	TextCodeEmailTaken        = "EMAIL_TAKEN"
	TextCodeIdentityNotFound  = "IDENTITY_NOT_FOUND"
	TextCodeAdminRequired     = "ADMIN_REQUIRED"
	TextCodeInvalidResetToken = "INVALID_RESET_TOKEN"
)

// ErrMismatchedHashAndPassword is returned for any credential failure during
// login. The same error covers unknown emails so callers cannot probe which
// addresses are registered.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrPasswordTooShort enforces the minimum password length on reset
var ErrPasswordTooShort = errors.New("password must be at least 8 characters", errors.CategoryValidation).
	WithTextCode(TextCodeWeakPassword)

// ErrTokenExpired is a well formed token evaluated after its expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers malformed, mis-signed, and wrong-algorithm tokens
var ErrTokenMalformed = errors.New("token is malformed or invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenRevoked is a token present in the revocation ledger. A revoked
// token stays revoked even after its own expiry.
var ErrTokenRevoked = errors.New("token has been revoked", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenRevoked)

// ErrWrongTokenType is a valid signature carrying the wrong type claim.
// Signature validity alone is never authorization.
var ErrWrongTokenType = errors.New("token type not valid for this operation", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeWrongTokenType)

// ErrMissingToken is a request with no bearer token at all
var ErrMissingToken = errors.New("missing authentication token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeMissingToken)

// ErrMissingRefreshToken is a refresh call without the cookie
var ErrMissingRefreshToken = errors.New("refresh token missing", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeMissingRefresh)

// ErrUnknownSubject is a verified token whose subject no longer exists in
// the user store
var ErrUnknownSubject = errors.New("token subject no longer exists", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeUnknownSubject)

// ErrEmailTaken is a registration against an already registered email
var ErrEmailTaken = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeIdentityNotFound)

// ErrAdminRequired is an authenticated principal without the admin role
var ErrAdminRequired = errors.New("admin privileges required", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeAdminRequired)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
