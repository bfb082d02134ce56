// Package common defines shared constants and sentinel errors used across
// the journal client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrOperationFailed  = errors.New("store operation failed")

	// Key lifecycle errors.
	ErrKeyUnavailable = errors.New("encryption key unavailable")
	ErrKeyCorrupt     = errors.New("encryption key corrupt")

	// Input errors.
	ErrValidation          = errors.New("validation failed")
	ErrInvalidBackupFormat = errors.New("invalid or incomplete backup file structure")
)
