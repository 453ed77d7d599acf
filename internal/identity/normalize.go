package identity

import "strings"

// NormalizeKey performs case-insensitive canonicalization of an identity key
// (an email-like string). For now we only trim + lower-case; additional rules
// (unicode confusables) can be added later behind a versioned policy.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
