package dialect

import (
	"strings"
)

// DefaultNormalizeType is a default implementation for type normalization (lowercase,
// length and modifiers stripped).
func DefaultNormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimSuffix(t, " unsigned")
	return t
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// IsNullable reads the YES/NO style nullability flag the column queries return.
func IsNullable(flag string) bool {
	switch strings.ToUpper(strings.TrimSpace(flag)) {
	case "YES", "Y", "1", "TRUE":
		return true
	}
	return false
}
