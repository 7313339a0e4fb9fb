// Package apperr defines the sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrParse       = errors.New("parse failure")
	ErrInvalidSlug = errors.New("invalid slug")
)
