package auth

import (
	"strings"
	"unicode"
)

const apiKeyPrefix = "moltbook_"

// BearerHeader returns the Authorization header value for apiKey, or "" when
// there is no key.
func BearerHeader(apiKey string) string {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return ""
	}
	return "Bearer " + apiKey
}

// LooksValid reports whether apiKey has the shape of a key issued by the API.
func LooksValid(apiKey string) bool {
	if !strings.HasPrefix(apiKey, apiKeyPrefix) || len(apiKey) <= len(apiKeyPrefix)+8 {
		return false
	}
	for _, r := range apiKey {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Mask hides all but the first and last four characters of apiKey.
func Mask(apiKey string) string {
	if len(apiKey) <= 12 {
		return strings.Repeat("*", len(apiKey))
	}
	return apiKey[:4] + strings.Repeat("*", len(apiKey)-8) + apiKey[len(apiKey)-4:]
}

// Redact replaces every occurrence of apiKey in s with its masked form.
func Redact(s, apiKey string) string {
	if apiKey == "" {
		return s
	}
	return strings.ReplaceAll(s, apiKey, Mask(apiKey))
}
