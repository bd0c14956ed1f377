package fixer

import (
	"regexp"
)

// RenameMethods renames method declarations. names maps the declared name to the
// new one. Call sites are left alone.
func RenameMethods(src []byte, names map[string]string) ([]byte, int) {
	count := 0
	for from, to := range names {
		if from == to || to == "" {
			continue
		}
		expr := regexp.MustCompile(`\bfunction(\s+)` + regexp.QuoteMeta(from) + `(\s*)\(`)
		src = expr.ReplaceAllFunc(src, func(match []byte) []byte {
			count++
			m := expr.FindSubmatch(match)
			return []byte("function" + string(m[1]) + to + string(m[2]) + "(")
		})
	}
	return src, count
}
