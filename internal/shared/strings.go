package shared

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeEmail trims and case-folds the address so lookups match no matter
// how the user typed it. Unicode folding, not ASCII lowering: local parts are
// not guaranteed to be ASCII.
func NormalizeEmail(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
