package utils

import "strings"

// NormalizeEmail lowercases and trims an address so the unique index on
// email behaves case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
