// Package shared provides common utility functions used across
// multiple packages in the collection-sessions codebase.
package shared

import (
	"fmt"
	"strings"
	"unicode"
)

// IsCollectionPart reports whether value is a valid collection
// namespace or name: a nonempty identifier of letters, digits, and
// underscores not starting with a digit.
func IsCollectionPart(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if unicode.IsDigit(r) && i > 0 {
			continue
		}
		return false
	}
	return true
}

// SplitFullName splits a dotted collection full name into namespace
// and name.  The reported ok is false when the value is not of the
// form "namespace.name" with both parts valid.
func SplitFullName(value string) (namespace string, name string, ok bool) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 || !IsCollectionPart(parts[0]) || !IsCollectionPart(parts[1]) {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}
