// Package util provides common utility functions used across the linkedin-oauth library.
// These utilities handle string manipulation for diagnostic logging and other shared
// operations that don't fit into domain-specific packages.
package util

// secretPrefixLen is how much of a secret survives masking
const secretPrefixLen = 8

// SafeTruncate safely truncates a string to maxLen characters without panicking.
// Returns the original string if it's shorter than maxLen, otherwise returns
// the first maxLen characters. This prevents index out of bounds errors when
// logging sensitive data like tokens, where only a prefix should be shown.
//
// If maxLen is negative, it's treated as 0 and returns an empty string.
//
// Example:
//
//	SafeTruncate("very-long-token-abc123", 8) // Returns: "very-lon"
//	SafeTruncate("short", 10)                  // Returns: "short"
//	SafeTruncate("test", -1)                   // Returns: ""
func SafeTruncate(s string, maxLen int) string {
	if maxLen < 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// MaskSecret returns a log-safe rendering of a secret: a short prefix followed by "...".
// Secrets no longer than the prefix are fully masked.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= secretPrefixLen {
		return "***"
	}
	return SafeTruncate(s, secretPrefixLen) + "..."
}

// RedactFields returns a shallow copy of m with the string values under keys masked.
// The input map is not modified.
func RedactFields(m map[string]any, keys ...string) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		if s, ok := out[k].(string); ok {
			out[k] = MaskSecret(s)
		}
	}
	return out
}
