package core

import (
	"errors"
	"fmt"
)

// The four upload errors below are terminal for the current attempt. None of
// them is retried; the user has to pick another file.

// UnsupportedFormatError is returned for file extensions no parser handles.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return "unsupported format: file has no extension (expected .csv, .xlsx, .xls or .json)"
	}
	return fmt.Sprintf("unsupported format %q (expected .csv, .xlsx, .xls or .json)", e.Ext)
}

// EmptyFileError is returned when parsing yields zero data rows.
type EmptyFileError struct {
	Name string
}

func (e *EmptyFileError) Error() string {
	return fmt.Sprintf("empty file: %s contains no data rows", e.Name)
}

// ParseError wraps a format-specific decode failure.
type ParseError struct {
	Format string // "csv", "xlsx" or "json"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse error: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FileTooLargeError is returned by the pre-flight size check, before any
// bytes are parsed.
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	if e.Size <= 0 {
		return fmt.Sprintf("file too large: exceeds limit of %d bytes", e.Limit)
	}
	return fmt.Sprintf("file too large: %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
}

var (
	// ErrNoDataset is returned when an operation needs an uploaded dataset.
	ErrNoDataset = errors.New("no dataset uploaded")

	// ErrInsufficientMappings is returned by analysis views when fewer than
	// AnalysisMinMapped columns are mapped.
	ErrInsufficientMappings = errors.New("insufficient mapped columns for analysis")

	// ErrUnknownColumn is returned by overrides naming a column not in the dataset.
	ErrUnknownColumn = errors.New("column not found in dataset")

	// ErrUnknownField is returned by overrides naming a field not in the catalog.
	ErrUnknownField = errors.New("business field not found in catalog")

	// ErrUnknownSeries is returned for chart kinds GenerateSeries does not know.
	ErrUnknownSeries = errors.New("unknown chart series")
)

// IsUploadError reports whether err is one of the terminal upload errors.
func IsUploadError(err error) bool {
	var (
		unsupported *UnsupportedFormatError
		empty       *EmptyFileError
		parse       *ParseError
		tooLarge    *FileTooLargeError
	)
	return errors.As(err, &unsupported) ||
		errors.As(err, &empty) ||
		errors.As(err, &parse) ||
		errors.As(err, &tooLarge)
}
