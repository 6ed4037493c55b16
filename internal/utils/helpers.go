// Package utils provides utility functions and helpers for common operations
// used throughout the application: error types, response writing, request
// decoding and validation, and logging.
package utils

// TruncateString truncates a string to the given maximum length and adds ellipsis if necessary.
// This is useful for logging purposes where long strings need to be shortened.
//
// Parameters:
//   - s: the string to truncate
//   - maxLen: the maximum length of the resulting string (including ellipsis if added)
//
// Returns:
//   - the truncated string, with ellipsis appended if truncation occurred
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
