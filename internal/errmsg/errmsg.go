// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain. Playback failures arrive as
// free-form op strings on error events and are formatted as-is.
const (
	// Library operations
	OpLibraryScan Op = "scan library"
	OpLibraryLoad Op = "load library"

	// Title operations
	OpTitleReset     Op = "reset title progress"
	OpTitleFinish    Op = "mark title finished"
	OpFavoriteToggle Op = "update favorites"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
