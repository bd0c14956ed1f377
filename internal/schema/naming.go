package schema

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Studly converts snake, kebab or spaced words to StudlyCase: "user_profile"
// becomes "UserProfile".
func Studly(value string) string {
	var b strings.Builder
	upper := true
	for _, r := range value {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			upper = true
		case upper:
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Camel converts a name to camelCase: "user_profile" becomes "userProfile".
func Camel(value string) string {
	studly := Studly(value)
	if studly == "" {
		return studly
	}
	runes := []rune(studly)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// Snake converts a name to snake_case: "userProfile" becomes "user_profile".
// Every upper case letter after the first character starts a new word, so
// acronyms are split letter by letter.
func Snake(value string) string {
	if strings.ToLower(value) == value {
		return value
	}
	words := strings.Fields(value)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	value = strings.Join(words, "")
	var b strings.Builder
	for i, r := range value {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// TableName returns the table an Eloquent model uses by default: the snake case
// plural of the class basename, or the singular for pivot models.
func TableName(class string, pivot bool) string {
	base := class
	if i := strings.LastIndex(base, `\`); i >= 0 {
		base = base[i+1:]
	}
	snake := Snake(base)
	if pivot {
		return inflectLast(snake, inflection.Singular)
	}
	return inflectLast(snake, inflection.Plural)
}

func inflectLast(snake string, inflect func(string) string) string {
	i := strings.LastIndex(snake, "_")
	return snake[:i+1] + inflect(snake[i+1:])
}
