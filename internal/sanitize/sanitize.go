// Package sanitize normalizes untrusted free-form input before it reaches
// business logic or an upstream call. Structural validation (wrong shape,
// out-of-range quantities) happens earlier, at schema binding.
package sanitize

import (
	"strings"
	"unicode"
)

const (
	maxDiscountCodeLen = 50
	maxAttrKeyLen      = 64
	maxAttrValueLen    = 256
)

// StoreID trims and lowercases a store/site identifier. Existence against
// the registry is a separate check; this only normalizes.
func StoreID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Email normalizes case and whitespace. An empty result means
// "not provided", which is valid.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DiscountCode trims, uppercases and truncates to 50 runes. Empty is valid.
func DiscountCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return truncate(s, maxDiscountCodeLen)
}

// Attributes sanitizes each key/value pair: trims, strips control
// characters and caps lengths. Pairs whose key sanitizes to empty are
// dropped. A nil map passes through.
func Attributes(attrs map[string]string) map[string]string {
	if attrs == nil {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		k = truncate(clean(k), maxAttrKeyLen)
		if k == "" {
			continue
		}
		out[k] = truncate(clean(v), maxAttrValueLen)
	}
	return out
}

func clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
