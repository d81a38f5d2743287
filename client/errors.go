package client

import "github.com/scrubdeck/scrubdeck/pkg/errors"

var (
	ErrRequestFailed = errors.MustNewCode("client.request_failed")
	ErrBadStatus     = errors.MustNewCode("client.bad_status")
	ErrDecodeFailed  = errors.MustNewCode("client.decode_failed")
)
