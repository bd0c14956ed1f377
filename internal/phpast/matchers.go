package phpast

import (
	"bytes"

	"github.com/viant/parsly"
)

// operators are tried longest first.
var operators = []string{
	"<<=", ">>=", "**=", "...", "<=>", "===", "!==", "??=", "?->",
	"->", "=>", "::", "==", "!=", "<>", "<=", ">=", "&&", "||", "??",
	"++", "--", "+=", "-=", "*=", "/=", ".=", "%=", "|=", "&=", "^=", "**", "<<", ">>",
}

type operator struct{}

func (o *operator) Match(cursor *parsly.Cursor) int {
	rest := cursor.Input[cursor.Pos:]
	for _, op := range operators {
		if bytes.HasPrefix(rest, []byte(op)) {
			return len(op)
		}
	}
	return 0
}

type lineComment struct{}

func (l *lineComment) Match(cursor *parsly.Cursor) int {
	rest := cursor.Input[cursor.Pos:]
	switch {
	case bytes.HasPrefix(rest, []byte("//")):
	case len(rest) > 0 && rest[0] == '#' && !bytes.HasPrefix(rest, []byte("#[")):
	default:
		return 0
	}
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		return i
	}
	return len(rest)
}

// attribute matches a balanced #[...] group.
type attribute struct{}

func (a *attribute) Match(cursor *parsly.Cursor) int {
	rest := cursor.Input[cursor.Pos:]
	if !bytes.HasPrefix(rest, []byte("#[")) {
		return 0
	}
	depth := 0
	var quote byte
	for i := 1; i < len(rest); i++ {
		c := rest[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return 0
}

// heredoc matches <<<LABEL, <<<"LABEL" and <<<'LABEL' up to the closing label.
type heredoc struct{}

func (h *heredoc) Match(cursor *parsly.Cursor) int {
	rest := cursor.Input[cursor.Pos:]
	if !bytes.HasPrefix(rest, []byte("<<<")) {
		return 0
	}
	i := 3
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	quoted := i < len(rest) && (rest[i] == '"' || rest[i] == '\'')
	if quoted {
		i++
	}
	labelStart := i
	for i < len(rest) && isNamePart(rest[i]) {
		i++
	}
	label := rest[labelStart:i]
	if len(label) == 0 {
		return 0
	}
	if quoted {
		i++
	}
	nl := bytes.IndexByte(rest[i:], '\n')
	if nl < 0 {
		return 0
	}
	i += nl + 1
	for i < len(rest) {
		lineEnd := bytes.IndexByte(rest[i:], '\n')
		line := rest[i:]
		if lineEnd >= 0 {
			line = rest[i : i+lineEnd]
		}
		trimmed := bytes.TrimLeft(line, " \t")
		if bytes.HasPrefix(trimmed, label) {
			after := len(label)
			if after >= len(trimmed) || !isNamePart(trimmed[after]) {
				return i + (len(line) - len(trimmed)) + len(label)
			}
		}
		if lineEnd < 0 {
			break
		}
		i += lineEnd + 1
	}
	return 0
}

type variable struct{}

func (v *variable) Match(cursor *parsly.Cursor) int {
	rest := cursor.Input[cursor.Pos:]
	if len(rest) < 2 || rest[0] != '$' || !isNameStart(rest[1]) {
		return 0
	}
	i := 2
	for i < len(rest) && isNamePart(rest[i]) {
		i++
	}
	return i
}

// name matches identifiers and qualified names, including a leading separator and
// the trailing separator of a group use prefix.
type name struct{}

func (n *name) Match(cursor *parsly.Cursor) int {
	rest := cursor.Input[cursor.Pos:]
	i := 0
	if i < len(rest) && rest[i] == '\\' {
		i++
	}
	if i >= len(rest) || !isNameStart(rest[i]) {
		return 0
	}
	for {
		for i < len(rest) && isNamePart(rest[i]) {
			i++
		}
		if i+1 < len(rest) && rest[i] == '\\' && isNameStart(rest[i+1]) {
			i++
			continue
		}
		if i+1 < len(rest) && rest[i] == '\\' && rest[i+1] == '{' {
			i++
		}
		return i
	}
}

type number struct{}

func (n *number) Match(cursor *parsly.Cursor) int {
	rest := cursor.Input[cursor.Pos:]
	if len(rest) == 0 {
		return 0
	}
	if !isDigit(rest[0]) && !(rest[0] == '.' && len(rest) > 1 && isDigit(rest[1])) {
		return 0
	}
	i := 1
	for i < len(rest) {
		c := rest[i]
		switch {
		case isDigit(c), c == '_', c == '.', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			i++
		case (c == '+' || c == '-') && (rest[i-1] == 'e' || rest[i-1] == 'E'):
			i++
		default:
			return i
		}
	}
	return i
}

type anyByte struct{}

func (a *anyByte) Match(cursor *parsly.Cursor) int {
	if cursor.Pos < cursor.InputSize {
		return 1
	}
	return 0
}

func isNameStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b >= 0x80
}

func isNamePart(b byte) bool {
	return isNameStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
