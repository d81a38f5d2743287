package config

import "github.com/scrubdeck/scrubdeck/pkg/errors"

// Config-specific error codes
var (
	ErrFileReadFailed       = errors.MustNewCode("config.file_read_failed")
	ErrFileParseFailed      = errors.MustNewCode("config.file_parse_failed")
	ErrValidationFailed     = errors.MustNewCode("config.validation_failed")
	ErrInvalidPort          = errors.MustNewCode("config.invalid_port")
	ErrInvalidThreshold     = errors.MustNewCode("config.invalid_threshold")
	ErrKeyColumnRequired    = errors.MustNewCode("config.key_column_required")
	ErrLogDirCreationFailed = errors.MustNewCode("config.log_dir_creation_failed")
	ErrLogFileOpenFailed    = errors.MustNewCode("config.log_file_open_failed")
)
