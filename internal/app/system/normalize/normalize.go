// Package normalize canonicalizes user-supplied identity fields before
// they are stored or compared.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role value (provider/collector).
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Category lowercases and trims an enumerated category value
// (organization type, waste type).
func Category(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
