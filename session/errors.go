package session

import "github.com/scrubdeck/scrubdeck/pkg/errors"

// Session-specific error codes
var (
	ErrNotLoaded     = errors.MustNewCode("session.not_loaded")
	ErrModeConflict  = errors.MustNewCode("session.mode_conflict")
	ErrInvalidFilter = errors.MustNewCode("session.invalid_filter")
	ErrUnknownColumn = errors.MustNewCode("session.unknown_column")
	ErrLoadFailed    = errors.MustNewCode("session.load_failed")
	ErrExportFailed  = errors.MustNewCode("session.export_failed")
)
