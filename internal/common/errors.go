// Package common defines shared constants and sentinel errors used across
// the store, services and CLI layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorNoSession    = errors.New("no active session")

	// Validation errors. Wrap with the offending field, e.g.
	// fmt.Errorf("%w: amount must be positive", ErrorValidation).
	ErrorValidation = errors.New("validation error")

	// ErrorReferenced is returned when a record cannot be removed because
	// other records still point at it.
	ErrorReferenced = errors.New("record is referenced")
)
