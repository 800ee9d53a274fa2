// Package services implements the domain operations behind the HTTP handlers:
// organigramme lifecycle, delegations, signalements, and academic year
// management. Services translate the repositories' (nil, nil) not-found
// convention into sentinel errors the handlers map to HTTP statuses.
package services

import "errors"

var (
	// ErrNotFound marks a missing target. A malformed id string is treated
	// the same way: both name a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks a payload that fails domain validation.
	ErrInvalidInput = errors.New("invalid input")
)
