// Package common defines the sentinel errors shared across the service
// layers. Callers match them with errors.Is.
//
// The split matters for the external contract: every credential or identity
// failure must surface to callers as ErrorUnauthorized, while the concrete
// cause (one of the token sentinels, a missing user, a password mismatch)
// stays in the internal logs. The transport layer owns the mapping from
// these sentinels to status codes and must cover all of them.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level outcomes.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("authentication failed")

	// Request-shape errors, reportable as a bad request before any
	// identity material is evaluated.
	ErrorValidation = errors.New("validation error")

	// Token decode causes. Internal diagnostics only; callers observe
	// ErrorUnauthorized regardless of which one fired.
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenIssuerInvalid    = errors.New("token issuer invalid")
	ErrTokenTypeInvalid      = errors.New("token type invalid")
	ErrTokenMalformed        = errors.New("token malformed")
)
