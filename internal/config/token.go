// SPDX-License-Identifier: MIT

package config

import "regexp"

// tokenPattern matches ${VAR_NAME} placeholders inside scalar values.
// Malformed forms such as "${}", "${1X}" or an unterminated "${ABC" do not
// match and pass through as literal text.
var tokenPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// HasPlaceholder reports whether s contains at least one ${VAR_NAME} token.
func HasPlaceholder(s string) bool {
	return tokenPattern.MatchString(s)
}

// IsPlaceholder reports whether s is exactly one unresolved ${VAR_NAME} token.
// Downstream consumers must treat such a value as "not configured" rather than
// using the placeholder text as a credential.
func IsPlaceholder(s string) bool {
	m := tokenPattern.FindString(s)
	return m == s && m != ""
}

// Placeholders returns the variable names referenced by s, in order of
// occurrence. Duplicates are preserved.
func Placeholders(s string) []string {
	matches := tokenPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}
