package phpast

import (
	"bytes"
	"fmt"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceCode int = iota
	blockCommentCode
	lineCommentCode
	attributeCode
	heredocCode
	singleQuotedCode
	doubleQuotedCode
	variableCode
	closeTagCode
	operatorCode
	numberCode
	nameCode
	anyCode
)

var (
	whitespaceMatcher   = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	blockCommentMatcher = parsly.NewToken(blockCommentCode, "Comment", matcher.NewSeqBlock("/*", "*/"))
	lineCommentMatcher  = parsly.NewToken(lineCommentCode, "LineComment", &lineComment{})
	attributeMatcher    = parsly.NewToken(attributeCode, "Attribute", &attribute{})
	heredocMatcher      = parsly.NewToken(heredocCode, "Heredoc", &heredoc{})
	singleQuotedMatcher = parsly.NewToken(singleQuotedCode, "SingleQuoted", matcher.NewBlock('\'', '\'', '\\'))
	doubleQuotedMatcher = parsly.NewToken(doubleQuotedCode, "DoubleQuoted", matcher.NewBlock('"', '"', '\\'))
	variableMatcher     = parsly.NewToken(variableCode, "Variable", &variable{})
	closeTagMatcher     = parsly.NewToken(closeTagCode, "CloseTag", matcher.NewFragment("?>"))
	operatorMatcher     = parsly.NewToken(operatorCode, "Operator", &operator{})
	numberMatcher       = parsly.NewToken(numberCode, "Number", &number{})
	nameMatcher         = parsly.NewToken(nameCode, "Name", &name{})
	anyMatcher          = parsly.NewToken(anyCode, "Any", &anyByte{})
)

var candidates = []*parsly.Token{
	blockCommentMatcher,
	lineCommentMatcher,
	attributeMatcher,
	heredocMatcher,
	singleQuotedMatcher,
	doubleQuotedMatcher,
	variableMatcher,
	closeTagMatcher,
	operatorMatcher,
	numberMatcher,
	nameMatcher,
	anyMatcher,
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokName
	tokVariable
	tokString
	tokNumber
	tokOp
	tokAttribute
)

type token struct {
	kind  tokenKind
	text  string
	value string
	start int
	end   int
	doc   *Comment
}

// lex splits PHP source into significant tokens. Comments are dropped except doc
// comments, which are attached to the next significant token.
func lex(src []byte) ([]token, error) {
	var tokens []token
	pos, ok := openTag(src, 0)
	if !ok {
		return []token{{kind: tokEOF, start: len(src), end: len(src)}}, nil
	}
	cursor := parsly.NewCursor("", src, 0)
	cursor.Pos = pos
	var pending *Comment
	emit := func(t token) {
		t.doc = pending
		pending = nil
		tokens = append(tokens, t)
	}
	for cursor.Pos < cursor.InputSize {
		matched := cursor.MatchAfterOptional(whitespaceMatcher, candidates...)
		if matched.Code == parsly.EOF {
			break
		}
		if matched.Code == parsly.Invalid {
			return nil, fmt.Errorf("unexpected input at offset %d", cursor.Pos)
		}
		text := matched.Text(cursor)
		start := matched.Offset
		end := start + len(text)
		switch matched.Code {
		case blockCommentCode:
			if len(text) > 4 && text[:3] == "/**" {
				pending = &Comment{Text: text, Start: start, End: end}
			}
		case lineCommentCode:
		case attributeCode:
			emit(token{kind: tokAttribute, text: text, start: start, end: end})
		case heredocCode:
			emit(token{kind: tokString, text: text, value: heredocBody(text), start: start, end: end})
		case singleQuotedCode:
			emit(token{kind: tokString, text: text, value: unquoteSingle(text), start: start, end: end})
		case doubleQuotedCode:
			emit(token{kind: tokString, text: text, value: unquoteDouble(text), start: start, end: end})
		case variableCode:
			emit(token{kind: tokVariable, text: text, value: text[1:], start: start, end: end})
		case closeTagCode:
			emit(token{kind: tokOp, text: ";", start: start, end: end})
			next, found := openTag(src, end)
			if !found {
				cursor.Pos = cursor.InputSize
				continue
			}
			cursor.Pos = next
		case numberCode:
			emit(token{kind: tokNumber, text: text, value: text, start: start, end: end})
		case nameCode:
			emit(token{kind: tokName, text: text, value: text, start: start, end: end})
		default:
			emit(token{kind: tokOp, text: text, start: start, end: end})
		}
	}
	tokens = append(tokens, token{kind: tokEOF, start: len(src), end: len(src), doc: pending})
	return tokens, nil
}

// openTag returns the offset right after the next <?php or <?= tag.
func openTag(src []byte, from int) (int, bool) {
	for i := from; i < len(src); i++ {
		idx := bytes.Index(src[i:], []byte("<?"))
		if idx < 0 {
			return 0, false
		}
		i += idx
		rest := src[i+2:]
		if len(rest) >= 3 && bytes.EqualFold(rest[:3], []byte("php")) {
			return i + 5, true
		}
		if len(rest) >= 1 && rest[0] == '=' {
			return i + 2, true
		}
	}
	return 0, false
}

func unquoteSingle(text string) string {
	if len(text) < 2 {
		return text
	}
	body := text[1 : len(text)-1]
	var b bytes.Buffer
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && (body[i+1] == '\'' || body[i+1] == '\\') {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

func unquoteDouble(text string) string {
	if len(text) < 2 {
		return text
	}
	body := text[1 : len(text)-1]
	var b bytes.Buffer
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '"', '$':
				b.WriteByte(body[i])
			default:
				b.WriteByte('\\')
				b.WriteByte(body[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func heredocBody(text string) string {
	nl := bytes.IndexByte([]byte(text), '\n')
	if nl < 0 {
		return ""
	}
	body := text[nl+1:]
	if last := bytes.LastIndexByte([]byte(body), '\n'); last >= 0 {
		return body[:last]
	}
	return ""
}
