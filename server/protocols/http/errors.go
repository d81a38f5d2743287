package http

import "github.com/scrubdeck/scrubdeck/pkg/errors"

// HTTP-specific error codes
var (
	ErrStartFailed    = errors.MustNewCode("http.start_failed")
	ErrMissingUpload  = errors.MustNewCode("http.missing_upload")
	ErrBadRequestBody = errors.MustNewCode("http.bad_request_body")
)
