package metrics

import "strings"

// norm lowercases label values so 'Completed' and 'completed' land in the
// same series.
func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
