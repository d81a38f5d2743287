package table

import "github.com/scrubdeck/scrubdeck/pkg/errors"

// Table-specific error codes
var (
	ErrEmptySchema    = errors.MustNewCode("table.empty_schema")
	ErrColumnNotFound = errors.MustNewCode("table.column_not_found")
	ErrRowNotFound    = errors.MustNewCode("table.row_not_found")
	ErrCSVReadFailed  = errors.MustNewCode("table.csv_read_failed")
	ErrCSVWriteFailed = errors.MustNewCode("table.csv_write_failed")
)
