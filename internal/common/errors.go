// Package common defines shared constants and sentinel errors used across
// Demeter components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorForbidden means the credential is valid but the identity is not
	// allowed to perform the operation (readonly user attempting a write).
	ErrorForbidden = errors.New("forbidden")

	// Validation / registration errors.
	ErrorValidation    = errors.New("validation error")
	ErrorUsernameTaken = errors.New("username already exists")
)
