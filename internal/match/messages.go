package match

// messages.go maps technical errors to user-friendly messages with support
// codes. Operators quote the code when reporting a problem, which is faster
// to diagnose than a pasted stack of wrapped errors.
//
// Codes by category:
//
//	SCH001 - required column not found by keyword resolution
//	REQ001 - no requirement rows for the requested client
//	MAT001 - aggregation succeeded but no stocklot rows matched
//	FILE001 - unsupported upload file type
//	FILE002 - empty upload (no header row)
//	FILE003 - workbook or csv could not be parsed
//	FILE004 - no file provided in the request
//	FILE005 - upload exceeds the size limit
//	UPL001 - match requested before both tables were uploaded
//	REQ002 - match requested without a client name
//	ERR000 - fallback for anything unrecognized
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so more specific patterns come first.

import (
	"fmt"
	"strings"
)

// UserMessage is the operator-facing rendering of a failure.
type UserMessage struct {
	Message string // what happened
	Action  string // what to do about it
	Code    string // support reference code
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "required column not found",
		msg: UserMessage{
			Message: "A required column is missing from the uploaded file",
			Action:  "Check the file's headers: client, item family, weight, width, and priority columns are found by name",
			Code:    "SCH001",
		},
	},
	{
		pattern: "no requirements found",
		msg: UserMessage{
			Message: "No requirement rows exist for this client",
			Action:  "Check the spelling of the client name; the lookup is exact",
			Code:    "REQ001",
		},
	},
	{
		pattern: "no matching stocklot",
		msg: UserMessage{
			Message: "No stocklot rows fall inside this client's tolerance ranges",
			Action:  "Nothing to export for this client with the current stocklot file",
			Code:    "MAT001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "The uploaded file type is not supported",
			Action:  "Upload an .xlsx workbook or a .csv export",
			Code:    "FILE001",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file has no header row",
			Action:  "Upload a file with a header row followed by data rows",
			Code:    "FILE002",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The uploaded workbook could not be read",
			Action:  "Re-save the file as .xlsx and try again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The uploaded file is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent quoting",
			Code:    "FILE003",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The uploaded file exceeds the size limit",
			Action:  "Split the export into smaller files",
			Code:    "FILE005",
		},
	},
	{
		pattern: "upload both files",
		msg: UserMessage{
			Message: "Both tables must be uploaded before matching",
			Action:  "Upload the stocklot file and the client needs file first",
			Code:    "UPL001",
		},
	},
	{
		pattern: "missing client name",
		msg: UserMessage{
			Message: "No client name was given",
			Action:  "Enter the client name exactly as it appears in the needs file",
			Code:    "REQ002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a file to upload",
			Code:    "FILE004",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to its operator-facing message.
// Unrecognized errors map to the ERR000 fallback.
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

// FormatUserError renders an error as "Message (Code: XXX). Action" for
// direct display.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
