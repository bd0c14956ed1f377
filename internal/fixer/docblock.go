package fixer

import (
	"regexp"
	"strings"

	"resource-checker/internal/phpdoc"
)

var camelName = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)

// AddProperties inserts property lines into the doc comment of the first class
// in src. New lines go after the last existing property tag, or before the
// closing line when there is none. A class without a doc comment gets a new one
// right above its declaration. Lines naming a property that is already
// documented, under any property tag, are dropped, so applying the same lines
// twice is a no-op. It returns the number of lines inserted.
func AddProperties(src []byte, lines []string) ([]byte, int, error) {
	tree, err := parse(src)
	if err != nil {
		return nil, 0, err
	}
	class, err := firstClass(tree)
	if err != nil {
		return nil, 0, err
	}
	existing := ""
	if class.Doc != nil {
		existing = class.Doc.Text
	}
	lines = missingLines(existing, lines)
	if len(lines) == 0 {
		return src, 0, nil
	}

	if class.Doc == nil {
		indent, clean := indentAt(src, class.Start)
		at := class.Start
		if clean {
			at = lineStart(src, class.Start)
		}
		var b strings.Builder
		b.WriteString(indent + "/**\n")
		for _, line := range lines {
			b.WriteString(indent + line + "\n")
		}
		b.WriteString(indent + " */\n")
		if !clean {
			b.WriteString(indent)
		}
		return splice(src, at, at, b.String()), len(lines), nil
	}

	indent, _ := indentAt(src, class.Doc.Start)
	doc := insertLines(class.Doc.Text, lines, indent)
	return splice(src, class.Doc.Start, class.Doc.End, doc), len(lines), nil
}

// missingLines drops lines documenting a name that doc, or an earlier line,
// already documents.
func missingLines(doc string, lines []string) []string {
	seen := map[string]bool{}
	for _, l := range phpdoc.Properties(doc) {
		seen[l.Name] = true
	}
	var result []string
	for _, line := range lines {
		l, ok := phpdoc.ParseLine(line)
		if !ok || seen[l.Name] {
			continue
		}
		seen[l.Name] = true
		result = append(result, line)
	}
	return result
}

func insertLines(doc string, lines []string, indent string) string {
	docLines := strings.Split(doc, "\n")
	if len(docLines) == 1 {
		inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(doc, "/**"), "*/"))
		docLines = []string{"/**"}
		if inner != "" {
			docLines = append(docLines, indent+" * "+inner)
		}
		docLines = append(docLines, indent+" */")
	}
	at := len(docLines) - 1
	for i, line := range docLines {
		if strings.Contains(line, "@property") {
			at = i + 1
		}
	}
	added := make([]string, 0, len(lines))
	for _, line := range lines {
		added = append(added, indent+line)
	}
	result := make([]string, 0, len(docLines)+len(added))
	result = append(result, docLines[:at]...)
	result = append(result, added...)
	result = append(result, docLines[at:]...)
	return strings.Join(result, "\n")
}

// RetypeProperties rewrites the type of @property tags in the class doc comment.
// types maps a property name to its rendered type. Only the type token changes.
func RetypeProperties(src []byte, types map[string]string) ([]byte, int, error) {
	return editDocLines(src, func(l *phpdoc.Line) (start, end int, text string, ok bool) {
		if l.Tag != phpdoc.TagProperty {
			return 0, 0, "", false
		}
		want, found := types[l.Name]
		if !found || want == l.Type {
			return 0, 0, "", false
		}
		return l.TypeStart, l.TypeEnd, want, true
	})
}

// RenameReadProperties renames @property-read tags whose name is not camel case.
// rename returns the correct name for a wrong one.
func RenameReadProperties(src []byte, rename func(name string) (string, bool)) ([]byte, int, error) {
	return editDocLines(src, func(l *phpdoc.Line) (start, end int, text string, ok bool) {
		if !l.IsRead() || camelName.MatchString(l.Name) {
			return 0, 0, "", false
		}
		name, found := rename(l.Name)
		if !found || name == l.Name {
			return 0, 0, "", false
		}
		return l.NameStart, l.NameEnd, name, true
	})
}

// editDocLines applies one replacement per property line of the class doc comment.
func editDocLines(src []byte, change func(l *phpdoc.Line) (int, int, string, bool)) ([]byte, int, error) {
	tree, err := parse(src)
	if err != nil {
		return nil, 0, err
	}
	class, err := firstClass(tree)
	if err != nil {
		return nil, 0, err
	}
	if class.Doc == nil {
		return src, 0, nil
	}
	var edits []edit
	offset := class.Doc.Start
	for _, line := range strings.SplitAfter(class.Doc.Text, "\n") {
		if l, ok := phpdoc.ParseLine(line); ok {
			if start, end, text, ok := change(l); ok {
				edits = append(edits, edit{start: offset + start, end: offset + end, text: text})
			}
		}
		offset += len(line)
	}
	return applyEdits(src, edits), len(edits), nil
}
