// Package phpdoc parses the @property and @return tags of PHP doc comments.
package phpdoc

import (
	"regexp"
	"strings"
)

// Property tags.
const (
	TagProperty      = "property"
	TagPropertyRead  = "property-read"
	TagPropertyWrite = "property-write"
)

var (
	propertyExpr = regexp.MustCompile(`@(property(?:-read|-write)?)\s+(.+?)\s+\$([a-zA-Z0-9_]+)`)
	returnExpr   = regexp.MustCompile(`@return\s+(.+)`)
	linePrefix   = regexp.MustCompile(`^\s*\*\s*`)
)

// Line is one property tag. Offsets are relative to the line it was parsed from.
type Line struct {
	Tag       string
	Type      string
	Name      string
	TypeStart int
	TypeEnd   int
	NameStart int
	NameEnd   int
}

// IsRead reports whether the tag is @property-read.
func (l *Line) IsRead() bool { return l.Tag == TagPropertyRead }

// ParseLine matches a single doc comment line against the property grammar.
func ParseLine(line string) (*Line, bool) {
	m := propertyExpr.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, false
	}
	return &Line{
		Tag:       line[m[2]:m[3]],
		Type:      line[m[4]:m[5]],
		Name:      line[m[6]:m[7]],
		TypeStart: m[4],
		TypeEnd:   m[5],
		NameStart: m[6],
		NameEnd:   m[7],
	}, true
}

// Properties returns every property tag of a doc comment in order.
func Properties(doc string) []*Line {
	var result []*Line
	for _, line := range strings.Split(doc, "\n") {
		if l, ok := ParseLine(line); ok {
			result = append(result, l)
		}
	}
	return result
}

// ReturnType returns the type of the first @return tag, or "mixed".
func ReturnType(doc string) string {
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(linePrefix.ReplaceAllString(line, ""))
		line = strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(line, "*/")), "*")
		if m := returnExpr.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return "mixed"
}

// PropertyLine renders a doc comment line for a property.
func PropertyLine(tag, typ, name string) string {
	return " * @" + tag + " " + typ + " $" + name
}

// FormatType renders a type for a doc comment. Qualified class names get a
// leading separator and nullable types use the union form.
func FormatType(typ string, nullable bool) string {
	if strings.Contains(typ, `\`) && !strings.HasPrefix(typ, `\`) && !strings.ContainsAny(typ, "<|") {
		typ = `\` + typ
	}
	if nullable {
		typ += "|null"
	}
	return typ
}
