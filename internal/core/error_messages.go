// error_messages.go maps errors to user-facing messages.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Patterns: "file too large"
//	FILE002 - Malformed file: File could not be parsed as delimited text
//	          Patterns: "malformed"
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//	FILE005 - Empty file: The uploaded file has no content
//	          Patterns: "empty file"
//	FILE006 - Unsupported type: Only .csv, .tsv, .txt and .xlsx are accepted
//	          Patterns: "unsupported file type"
//	FILE007 - No header: The first row holds no column names
//	          Patterns: "no header", ErrNoColumns
//	FILE008 - Too many rows: The table exceeds the row limit
//	          Patterns: ErrTooManyRows
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: The dataset is no longer loaded
//	         Patterns: ErrSessionNotFound
//
// # Sort Errors (SORT001-SORT099)
//
//	SORT001 - Unknown column: The column does not exist in this dataset
//	          Patterns: ErrUnknownColumn
//	SORT002 - Invalid direction: Direction must be asc, desc or none
//	          Patterns: ErrInvalidDirection
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded"
//	REQ003 - Invalid request: Missing or malformed parameters
//	         Patterns: "invalid request"
//	REQ004 - Not found: No page at this address
//	         Patterns: "page not found"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//	RATE002 - Upload slots busy: Too many files are being parsed
//	          Patterns: "too many concurrent uploads"
//
// # Default Error (ERR000)
//
// Fallback when no sentinel or pattern matches.
//
// # Matching
//
// Sentinel errors from this package are matched with errors.Is first, so
// wrapping keeps the mapping intact. Everything else is matched
// case-insensitively with strings.Contains; the first matching pattern wins.

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages maps this package's sentinel errors to user messages.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrSessionNotFound, UserMessage{
		Message: "This dataset is no longer loaded",
		Action:  "Upload the file again",
		Code:    "SES001",
	}},
	{ErrUnknownColumn, UserMessage{
		Message: "The column does not exist in this dataset",
		Action:  "Pick one of the table's column headers",
		Code:    "SORT001",
	}},
	{ErrInvalidDirection, UserMessage{
		Message: "Unknown sort direction",
		Action:  "Use asc, desc or none",
		Code:    "SORT002",
	}},
	{ErrNoColumns, UserMessage{
		Message: "The file has no column headers",
		Action:  "Make sure the first row holds the column names",
		Code:    "FILE007",
	}},
	{ErrTooManyRows, UserMessage{
		Message: "The file has too many rows",
		Action:  "Split the file into smaller parts",
		Code:    "FILE008",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "REQ002",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE007)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload a .csv, .tsv, .txt or .xlsx file",
			Code:    "FILE006",
		},
	},
	{
		pattern: "malformed",
		msg: UserMessage{
			Message: "File could not be read as a table",
			Action:  "Check quoting and delimiters near the reported line",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no header",
		msg: UserMessage{
			Message: "The file has no column headers",
			Action:  "Make sure the first row holds the column names",
			Code:    "FILE007",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ004)
	// =========================================================================
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request is missing a parameter or has an invalid one",
			Action:  "Check the column and direction parameters",
			Code:    "REQ003",
		},
	},
	{
		pattern: "page not found",
		msg: UserMessage{
			Message: "There is nothing at this address",
			Action:  "Go back to the upload page",
			Code:    "REQ004",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001-RATE002)
	// =========================================================================
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "The server is busy processing other uploads",
			Action:  "Please try again in a few seconds",
			Code:    "RATE002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no sentinel or pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Returns an empty UserMessage for nil errors.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a known message rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
