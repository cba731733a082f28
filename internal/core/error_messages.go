package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. API clients receive the code in every error body.
//
// # Source Errors (SRC001-SRC099)
//
// Errors raised while building the dataset:
//
//	SRC001 - Source missing: A mandatory data file is not present
//	         Action: Check DATA_SPREADSHEET_PATH and the deployed data directory
//	         Patterns: "not found: file"
//
//	SRC002 - No year columns: A wide source has no year headers
//	         Action: Check that the file has one column per year (e.g. 2020)
//	         Patterns: "no year columns"
//
//	SRC003 - Missing column: A required identity column is absent
//	         Action: Compare the header against the expected layout
//	         Patterns: "missing required columns"
//
//	SRC004 - Unreadable file: File is not valid CSV or spreadsheet
//	         Action: Re-export the file as CSV or XLSX
//	         Patterns: "invalid csv", "invalid spreadsheet"
//
//	SRC005 - Empty file: The file has no header row
//	         Action: Re-export the file with its header
//	         Patterns: "empty file"
//
//	SRC006 - No data: No source produced any observation
//	         Action: Check the source paths and the load report
//	         Patterns: "no usable sources"
//
//	SRC007 - Load failed: The dataset could not be built
//	         Action: Check the server logs for the failing source
//	         Patterns: "dataset load failed"
//
// # Query Errors (QRY001-QRY099)
//
//	QRY001 - Bad limit: limit is not a positive integer
//	         Patterns: "limit:"
//
//	QRY002 - Bad year: start_year or end_year is not an integer
//	         Patterns: "integer year"
//
//	QRY003 - Unknown provider: The provider has no observations
//	         Patterns: "not found: provider"
//
//	QRY004 - Unknown field: Listing requested for an unsupported field
//	         Patterns: "unknown field"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled, Patterns: "context canceled"
//	REQ002 - Request timeout, Patterns: "context deadline exceeded", "timeout"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused, Patterns: "connection refused"
//	DB002 - Missing table, Patterns: "does not exist"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests, Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns come first.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Source Errors (SRC001-SRC007)
	// =========================================================================
	{
		pattern: "not found: file",
		msg: UserMessage{
			Message: "A mandatory data source is missing",
			Action:  "Check DATA_SPREADSHEET_PATH and the deployed data directory",
			Code:    "SRC001",
		},
	},
	{
		pattern: "no year columns",
		msg: UserMessage{
			Message: "A wide data source has no year columns",
			Action:  "Check that the file has one column per year (e.g. 2020)",
			Code:    "SRC002",
		},
	},
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "A data source is missing a required column",
			Action:  "Compare the header against the expected layout",
			Code:    "SRC003",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "A data file could not be parsed",
			Action:  "Re-export the file as CSV or XLSX",
			Code:    "SRC004",
		},
	},
	{
		pattern: "invalid spreadsheet",
		msg: UserMessage{
			Message: "A data file could not be parsed",
			Action:  "Re-export the file as CSV or XLSX",
			Code:    "SRC004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "A data file is empty",
			Action:  "Re-export the file with its header",
			Code:    "SRC005",
		},
	},
	{
		pattern: "no usable sources",
		msg: UserMessage{
			Message: "No data source produced any observations",
			Action:  "Check the source paths and the load report",
			Code:    "SRC006",
		},
	},

	// =========================================================================
	// Query Errors (QRY001-QRY004)
	// =========================================================================
	{
		pattern: "limit:",
		msg: UserMessage{
			Message: "limit must be a positive integer",
			Action:  "Pass a whole number of at least 1",
			Code:    "QRY001",
		},
	},
	{
		pattern: "integer year",
		msg: UserMessage{
			Message: "Year bounds must be whole numbers",
			Action:  "Use a four-digit year such as 2050",
			Code:    "QRY002",
		},
	},
	{
		pattern: "not found: provider",
		msg: UserMessage{
			Message: "No data for this provider",
			Action:  "List available providers at /providers",
			Code:    "QRY003",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "Values cannot be listed for this field",
			Action:  "Use provider, variable, region or scenario",
			Code:    "QRY004",
		},
	},

	// =========================================================================
	// Request and Database Errors
	// =========================================================================
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
			Action:  "Please try again; the first request after startup loads the dataset",
			Code:    "REQ002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "The configured observations table does not exist",
			Action:  "Check DB_TABLE",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},

	// =========================================================================
	// Generic load failure (SRC007) and Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "dataset load failed",
		msg: UserMessage{
			Message: "The dataset could not be loaded",
			Action:  "Check the server logs for the failing source",
			Code:    "SRC007",
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

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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

// IsUserFacing checks if an error matches a known pattern.
// Returns false for nil and for the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
