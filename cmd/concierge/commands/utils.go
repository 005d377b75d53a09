// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Text shortening and flag validation used by the output formatters
package commands

import (
	"fmt"
	"strings"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// oneLine collapses all whitespace runs to single spaces
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
