// # Error Codes Reference
//
// This file maps pipeline errors to user-facing messages with a code that
// users can quote to support.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the 10 MB upload limit
//	          Action: Remove unused columns or rows, or split the file
//	          Matches: *FileTooLargeError, "request body too large"
//
//	FILE002 - Parse error: The file could not be read
//	          Action: Check the file is a valid CSV, Excel or JSON export
//	          Matches: *ParseError (the decoder message is appended)
//
//	FILE004 - No file: No file was selected
//	          Action: Choose a file to upload
//	          Matches: "no file provided"
//
//	FILE005 - Empty file: The file contains no data rows
//	          Action: Upload a file with a header row and at least one data row
//	          Matches: *EmptyFileError
//
//	FILE006 - Unsupported format: This file type is not supported
//	          Action: Upload a .csv, .tsv, .xlsx, .xls or .json file
//	          Matches: *UnsupportedFormatError
//
// # Mapping Errors (MAP001-MAP099)
//
//	MAP001 - Not enough mapped columns for analysis
//	         Action: Map at least 5 columns before opening the dashboard
//	         Matches: ErrInsufficientMappings
//
//	MAP002 - Column not found in the uploaded data
//	         Matches: ErrUnknownColumn
//
//	MAP003 - Business field not found in the catalog
//	         Matches: ErrUnknownField
//
//	MAP004 - No data uploaded yet
//	         Matches: ErrNoDataset
//
//	MAP005 - Unknown chart
//	         Matches: ErrUnknownSeries
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: another upload is in progress
//	         Matches: ErrTooManyUploads
//
//	UPL004 - Request cancelled
//	         Matches: context.Canceled
//
//	UPL005 - Request timeout
//	         Matches: context.DeadlineExceeded
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid request: The request body or parameters are malformed
//	         Action: Check the request format and try again
//	         Matches: "invalid request"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Too many requests
//	          Matches: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - An unexpected error occurred
//	         Action: Check the server logs for the technical error
//
// # Matching
//
// Typed and sentinel errors are matched first with errors.As / errors.Is, so
// wrapping with fmt.Errorf("...: %w") keeps the code. Errors from outside the
// pipeline fall back to case-insensitive substring patterns; the first
// matching pattern wins.

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

// errorClass matches a typed or sentinel error.
type errorClass struct {
	match func(error) bool
	msg   UserMessage
}

func isType[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

var (
	msgTooLarge = UserMessage{
		Message: "File exceeds the 10 MB upload limit",
		Action:  "Remove unused columns or rows, or split the file",
		Code:    "FILE001",
	}
	msgParse = UserMessage{
		Message: "The file could not be read",
		Action:  "Check the file is a valid CSV, Excel or JSON export",
		Code:    "FILE002",
	}
	msgRateLimit = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// errorClasses is checked in order before errorPatterns.
var errorClasses = []errorClass{
	{match: isType[*FileTooLargeError], msg: msgTooLarge},
	{match: isType[*UnsupportedFormatError], msg: UserMessage{
		Message: "This file type is not supported",
		Action:  "Upload a .csv, .tsv, .xlsx, .xls or .json file",
		Code:    "FILE006",
	}},
	{match: isType[*EmptyFileError], msg: UserMessage{
		Message: "The file contains no data rows",
		Action:  "Upload a file with a header row and at least one data row",
		Code:    "FILE005",
	}},
	{match: isType[*ParseError], msg: msgParse},
	{match: is(ErrInsufficientMappings), msg: UserMessage{
		Message: "Not enough mapped columns for analysis",
		Action:  fmt.Sprintf("Map at least %d columns before opening the dashboard", AnalysisMinMapped),
		Code:    "MAP001",
	}},
	{match: is(ErrUnknownColumn), msg: UserMessage{
		Message: "Column not found in the uploaded data",
		Action:  "Refresh the page and pick a column from the current upload",
		Code:    "MAP002",
	}},
	{match: is(ErrUnknownField), msg: UserMessage{
		Message: "Business field not found in the catalog",
		Action:  "Choose a field from the catalog list",
		Code:    "MAP003",
	}},
	{match: is(ErrNoDataset), msg: UserMessage{
		Message: "No data uploaded yet",
		Action:  "Upload a file first",
		Code:    "MAP004",
	}},
	{match: is(ErrUnknownSeries), msg: UserMessage{
		Message: "Unknown chart",
		Action:  "Use revenue-by-date, revenue-by-category or customer-segments",
		Code:    "MAP005",
	}},
	{match: is(ErrTooManyUploads), msg: UserMessage{
		Message: "Another upload is being processed",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
	{match: is(context.DeadlineExceeded), msg: UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}},
	{match: is(context.Canceled), msg: UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
}

// errorPattern defines a substring to match and its user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers errors raised outside the pipeline (net/http, the
// rate limiter). Patterns are lowercase.
var errorPatterns = []errorPattern{
	{pattern: "request body too large", msg: msgTooLarge},
	{pattern: "no file provided", msg: UserMessage{
		Message: "No file was selected",
		Action:  "Choose a file to upload",
		Code:    "FILE004",
	}},
	{pattern: "no such file", msg: UserMessage{
		Message: "No file was selected",
		Action:  "Choose a file to upload",
		Code:    "FILE004",
	}},
	{pattern: "invalid request", msg: UserMessage{
		Message: "The request could not be understood",
		Action:  "Check the request format and try again",
		Code:    "REQ001",
	}},
	{pattern: "rate limit", msg: msgRateLimit},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-facing message. Parse errors carry
// the decoder's message in Action so users can find the broken line.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, c := range errorClasses {
		if c.match(err) {
			msg := c.msg
			var pe *ParseError
			if msg.Code == msgParse.Code && errors.As(err, &pe) {
				msg.Action = fmt.Sprintf("%s (%v)", msg.Action, pe.Err)
			}
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error, kept for logging, with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
