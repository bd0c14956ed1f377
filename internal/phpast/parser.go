package phpast

import (
	"fmt"
	"strings"
)

// SyntaxError reports the first construct the parser could not understand.
type SyntaxError struct {
	Offset int
	Line   int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Msg)
}

type bailout struct{}

type parser struct {
	toks []token
	pos  int
	tree *Tree
	err  *SyntaxError
}

// Parse builds the syntax tree of a PHP source file.
func Parse(src []byte) (tree *Tree, err error) {
	toks, err := lex(src)
	if err != nil {
		return nil, &SyntaxError{Msg: err.Error()}
	}
	p := &parser{toks: toks, tree: newTree(src)}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			tree, err = nil, p.err
		}
	}()
	root := p.add(Node{Kind: KindFile, Start: 0, End: len(src)})
	children := p.statements(func() bool { return false })
	p.tree.Nodes[root].Children = children
	return p.tree, nil
}

func (p *parser) fail(format string, args ...interface{}) {
	t := p.peek()
	p.err = &SyntaxError{Offset: t.start, Line: p.tree.Line(t.start), Msg: fmt.Sprintf(format, args...)}
	panic(bailout{})
}

func (p *parser) add(n Node) NodeID {
	p.tree.Nodes = append(p.tree.Nodes, n)
	return NodeID(len(p.tree.Nodes) - 1)
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].end
}

func (p *parser) startOf(id NodeID) int { return p.tree.Nodes[id].Start }

func (t token) isOp(s string) bool { return t.kind == tokOp && t.text == s }

func (t token) isKeyword(kw string) bool { return t.kind == tokName && strings.EqualFold(t.text, kw) }

func (p *parser) at(kind tokenKind) bool { return p.peek().kind == kind }

func (p *parser) isOp(s string) bool { return p.peek().isOp(s) }

func (p *parser) isKeyword(kw string) bool { return p.peek().isKeyword(kw) }

func (p *parser) acceptOp(s string) bool {
	if p.isOp(s) {
		p.next()
		return true
	}
	return false
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectOp(s string) token {
	if !p.isOp(s) {
		p.fail("expected %q, found %q", s, p.peek().text)
	}
	return p.next()
}

func (p *parser) expectKeyword(kw string) token {
	if !p.isKeyword(kw) {
		p.fail("expected %q, found %q", kw, p.peek().text)
	}
	return p.next()
}

func (p *parser) expectName() token {
	if !p.at(tokName) {
		p.fail("expected identifier, found %q", p.peek().text)
	}
	return p.next()
}

func (p *parser) skipBalanced(open, close string) {
	p.expectOp(open)
	depth := 1
	for depth > 0 {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			p.fail("unbalanced %q", open)
		case t.isOp(open):
			depth++
		case t.isOp(close):
			depth--
		}
	}
}

func (p *parser) endStatement() {
	if p.acceptOp(";") || p.at(tokEOF) {
		return
	}
	p.fail("expected \";\", found %q", p.peek().text)
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (p *parser) statements(done func() bool) []NodeID {
	var list []NodeID
	for !p.at(tokEOF) && !done() {
		if id := p.statement(); id != NoNode {
			list = append(list, id)
		}
	}
	return list
}

func (p *parser) block() []NodeID {
	p.expectOp("{")
	list := p.statements(func() bool { return p.isOp("}") })
	p.expectOp("}")
	return list
}

func (p *parser) bodyStatement() []NodeID {
	if id := p.statement(); id != NoNode {
		return []NodeID{id}
	}
	return nil
}

func (p *parser) statement() NodeID {
	t := p.peek()
	switch t.kind {
	case tokOp:
		switch t.text {
		case ";":
			p.next()
			return NoNode
		case "{":
			list := p.block()
			return p.add(Node{Kind: KindBlock, Children: list, Start: t.start, End: p.prevEnd()})
		}
	case tokAttribute:
		return p.declaration()
	case tokName:
		if id, ok := p.keywordStatement(t); ok {
			return id
		}
	}
	return p.expressionStatement()
}

func (p *parser) keywordStatement(t token) (NodeID, bool) {
	next := p.peekAt(1)
	switch strings.ToLower(t.text) {
	case "namespace":
		if next.kind == tokName || next.isOp("{") {
			return p.namespace(), true
		}
	case "use":
		return p.useStatement(), true
	case "class":
		if next.kind == tokName {
			return p.declaration(), true
		}
	case "abstract", "final", "interface", "trait":
		return p.declaration(), true
	case "readonly":
		if next.isKeyword("class") || next.isKeyword("final") || next.isKeyword("abstract") {
			return p.declaration(), true
		}
	case "enum":
		if next.kind == tokName && !next.isKeyword("extends") {
			return p.declaration(), true
		}
	case "function":
		if next.kind == tokName || (next.isOp("&") && p.peekAt(2).kind == tokName) {
			return p.declaration(), true
		}
	case "const":
		return p.constStatement(), true
	case "return":
		p.next()
		var kids []NodeID
		if !p.isOp(";") && !p.at(tokEOF) {
			kids = append(kids, p.expr())
		}
		p.endStatement()
		return p.add(Node{Kind: KindReturn, Children: kids, Start: t.start, End: p.prevEnd()}), true
	case "if":
		return p.ifStatement(), true
	case "while":
		return p.whileStatement(), true
	case "for":
		return p.forStatement(), true
	case "foreach":
		return p.foreachStatement(), true
	case "switch":
		return p.switchStatement(), true
	case "do":
		return p.doStatement(), true
	case "try":
		return p.tryStatement(), true
	case "declare":
		return p.declareStatement(), true
	case "echo", "global":
		p.next()
		var kids []NodeID
		for {
			kids = append(kids, p.expr())
			if !p.acceptOp(",") {
				break
			}
		}
		p.endStatement()
		return p.add(Node{Kind: KindBlock, Value: strings.ToLower(t.text), Children: kids, Start: t.start, End: p.prevEnd()}), true
	case "static":
		if next.kind == tokVariable {
			p.next()
			var kids []NodeID
			for {
				kids = append(kids, p.expr())
				if !p.acceptOp(",") {
					break
				}
			}
			p.endStatement()
			return p.add(Node{Kind: KindBlock, Value: "static", Children: kids, Start: t.start, End: p.prevEnd()}), true
		}
	case "break", "continue":
		p.next()
		if p.at(tokNumber) {
			p.next()
		}
		p.endStatement()
		return NoNode, true
	case "goto":
		p.next()
		p.expectName()
		p.endStatement()
		return NoNode, true
	case "__halt_compiler":
		p.pos = len(p.toks) - 1
		return NoNode, true
	}
	if next.isOp(":") && !isReserved(t.text) {
		p.next()
		p.next()
		return NoNode, true
	}
	return NoNode, false
}

func isReserved(word string) bool {
	switch strings.ToLower(word) {
	case "default", "case", "else", "parent", "self", "static":
		return true
	}
	return false
}

func (p *parser) expressionStatement() NodeID {
	start := p.peek().start
	e := p.expr()
	p.endStatement()
	return p.add(Node{Kind: KindExprStmt, Children: []NodeID{e}, Start: start, End: p.prevEnd()})
}

func (p *parser) namespace() NodeID {
	start := p.next().start
	name := ""
	if p.at(tokName) {
		name = strings.TrimPrefix(p.next().text, `\`)
	}
	id := p.add(Node{Kind: KindNamespace, Name: name, Start: start})
	var body []NodeID
	if p.isOp("{") {
		body = p.block()
	} else {
		p.endStatement()
	}
	n := &p.tree.Nodes[id]
	n.Children = body
	n.End = p.prevEnd()
	return id
}

func (p *parser) useStatement() NodeID {
	start := p.next().start
	var flags Flags
	if p.isKeyword("function") && p.peekAt(1).kind == tokName {
		p.next()
		flags = FlagUseFunction
	} else if p.isKeyword("const") && p.peekAt(1).kind == tokName {
		p.next()
		flags = FlagUseConst
	}
	var ids []NodeID
	for {
		nameTok := p.expectName()
		name := strings.TrimPrefix(nameTok.text, `\`)
		if strings.HasSuffix(name, `\`) && p.isOp("{") {
			p.next()
			for !p.isOp("}") {
				itemFlags := flags
				if p.acceptKeyword("function") {
					itemFlags = FlagUseFunction
				} else if p.acceptKeyword("const") {
					itemFlags = FlagUseConst
				}
				item := p.expectName()
				alias := ""
				if p.acceptKeyword("as") {
					alias = p.expectName().text
				}
				ids = append(ids, p.useNode(name+strings.TrimPrefix(item.text, `\`), alias, itemFlags, item.start, p.prevEnd()))
				if !p.acceptOp(",") {
					break
				}
			}
			p.expectOp("}")
		} else {
			alias := ""
			if p.acceptKeyword("as") {
				alias = p.expectName().text
			}
			ids = append(ids, p.useNode(name, alias, flags, nameTok.start, p.prevEnd()))
		}
		if !p.acceptOp(",") {
			break
		}
	}
	p.endStatement()
	if len(ids) == 1 {
		return ids[0]
	}
	return p.add(Node{Kind: KindBlock, Value: "use", Children: ids, Start: start, End: p.prevEnd()})
}

func (p *parser) useNode(name, alias string, flags Flags, start, end int) NodeID {
	if alias == "" {
		alias = name
		if i := strings.LastIndex(name, `\`); i >= 0 {
			alias = name[i+1:]
		}
	}
	return p.add(Node{Kind: KindUse, Name: name, Alias: alias, Flags: flags, Start: start, End: end})
}

func (p *parser) constStatement() NodeID {
	start := p.next().start
	var ids []NodeID
	for {
		nameTok := p.expectName()
		p.expectOp("=")
		v := p.expr()
		ids = append(ids, p.add(Node{Kind: KindConst, Name: nameTok.text, Children: []NodeID{v}, Start: nameTok.start, End: p.prevEnd()}))
		if !p.acceptOp(",") {
			break
		}
	}
	p.endStatement()
	return p.add(Node{Kind: KindBlock, Value: "const", Children: ids, Start: start, End: p.prevEnd()})
}

// declaration parses attributes and modifiers followed by a class-like or a
// function declaration. Attributes in front of anything else are skipped.
func (p *parser) declaration() NodeID {
	first := p.peek()
	doc := first.doc
	for p.at(tokAttribute) {
		p.next()
		if doc == nil {
			doc = p.peek().doc
		}
	}
	var flags Flags
modifiers:
	for {
		switch {
		case p.isKeyword("abstract"):
			flags |= FlagAbstract
		case p.isKeyword("final"):
			flags |= FlagFinal
		case p.isKeyword("readonly") && !p.peekAt(1).isOp("("):
			flags |= FlagReadonly
		default:
			break modifiers
		}
		p.next()
		if doc == nil {
			doc = p.peek().doc
		}
	}
	switch {
	case p.isKeyword("class"), p.isKeyword("interface"), p.isKeyword("trait"),
		p.isKeyword("enum") && p.peekAt(1).kind == tokName:
		return p.classDecl(first.start, doc, flags)
	case p.isKeyword("function") && (p.peekAt(1).kind == tokName || p.peekAt(1).isOp("&")):
		return p.function(KindFunction, first.start, doc, flags)
	}
	if flags != 0 {
		p.fail("unexpected %q after modifiers", p.peek().text)
	}
	return p.expressionStatement()
}

func (p *parser) classDecl(start int, doc *Comment, flags Flags) NodeID {
	kw := p.next()
	if doc == nil {
		doc = kw.doc
	}
	switch strings.ToLower(kw.text) {
	case "interface":
		flags |= FlagInterface
	case "trait":
		flags |= FlagTrait
	case "enum":
		flags |= FlagEnum
	}
	nameTok := p.expectName()
	if flags.Has(FlagEnum) && p.acceptOp(":") {
		p.typeText()
	}
	id := p.add(Node{Kind: KindClass, Name: nameTok.text, Flags: flags, Doc: doc, Start: start})
	extends := p.inheritance()
	members := p.classBody()
	n := &p.tree.Nodes[id]
	n.Extends = extends
	n.Children = members
	n.End = p.prevEnd()
	return id
}

func (p *parser) inheritance() string {
	extends := ""
	if p.acceptKeyword("extends") {
		extends = p.expectName().text
		for p.acceptOp(",") {
			p.expectName()
		}
	}
	if p.acceptKeyword("implements") {
		p.expectName()
		for p.acceptOp(",") {
			p.expectName()
		}
	}
	return extends
}

func (p *parser) classBody() []NodeID {
	p.expectOp("{")
	var members []NodeID
	for !p.isOp("}") {
		if p.at(tokEOF) {
			p.fail("unexpected end of file in class body")
		}
		members = append(members, p.member()...)
	}
	p.expectOp("}")
	return members
}

func (p *parser) member() []NodeID {
	first := p.peek()
	doc := first.doc
	for p.at(tokAttribute) {
		p.next()
		if doc == nil {
			doc = p.peek().doc
		}
	}
	if p.acceptOp(";") {
		return nil
	}
	if p.isKeyword("use") {
		return []NodeID{p.traitUse()}
	}
	if p.isKeyword("case") {
		p.next()
		nameTok := p.expectName()
		var kids []NodeID
		if p.acceptOp("=") {
			kids = append(kids, p.expr())
		}
		p.endStatement()
		return []NodeID{p.add(Node{Kind: KindEnumCase, Name: nameTok.text, Doc: doc, Children: kids, Start: first.start, End: p.prevEnd()})}
	}
	var flags Flags
	for {
		t := p.peek()
		var f Flags
		switch strings.ToLower(t.text) {
		case "public":
			f = FlagPublic
		case "protected":
			f = FlagProtected
		case "private":
			f = FlagPrivate
		case "static":
			f = FlagStatic
		case "abstract":
			f = FlagAbstract
		case "final":
			f = FlagFinal
		case "readonly":
			f = FlagReadonly
		case "var":
			f = FlagPublic
		}
		if f == 0 || t.kind != tokName {
			break
		}
		flags |= f
		p.next()
		if doc == nil {
			doc = p.peek().doc
		}
	}
	if p.isKeyword("const") {
		p.next()
		if p.at(tokName) && p.peekAt(1).kind == tokName {
			p.next()
		}
		var ids []NodeID
		for {
			nameTok := p.expectName()
			p.expectOp("=")
			v := p.expr()
			ids = append(ids, p.add(Node{Kind: KindConst, Name: nameTok.text, Flags: flags, Doc: doc, Children: []NodeID{v}, Start: first.start, End: p.prevEnd()}))
			if !p.acceptOp(",") {
				break
			}
		}
		p.endStatement()
		return ids
	}
	if p.isKeyword("function") {
		return []NodeID{p.function(KindMethod, first.start, doc, flags)}
	}
	typ := ""
	if !p.at(tokVariable) {
		typ = p.typeText()
	}
	var ids []NodeID
	hooked := false
	for {
		v := p.peek()
		if v.kind != tokVariable {
			p.fail("expected property, found %q", v.text)
		}
		p.next()
		var kids []NodeID
		if p.acceptOp("=") {
			kids = append(kids, p.expr())
		}
		if p.isOp("{") {
			p.skipBalanced("{", "}")
			hooked = true
		}
		ids = append(ids, p.add(Node{Kind: KindProperty, Name: v.value, Type: typ, Flags: flags, Doc: doc, Children: kids, Start: first.start, End: p.prevEnd()}))
		if !p.acceptOp(",") {
			break
		}
	}
	if !hooked {
		p.endStatement()
	}
	return ids
}

func (p *parser) traitUse() NodeID {
	start := p.next().start
	var kids []NodeID
	for {
		n := p.expectName()
		kids = append(kids, p.add(Node{Kind: KindName, Name: n.text, Start: n.start, End: n.end}))
		if !p.acceptOp(",") {
			break
		}
	}
	if p.isOp("{") {
		p.skipBalanced("{", "}")
	} else {
		p.endStatement()
	}
	return p.add(Node{Kind: KindTraitUse, Children: kids, Start: start, End: p.prevEnd()})
}

func (p *parser) function(kind Kind, start int, doc *Comment, flags Flags) NodeID {
	kw := p.next()
	if doc == nil {
		doc = kw.doc
	}
	p.acceptOp("&")
	nameTok := p.expectName()
	params := p.params()
	typ := ""
	if p.acceptOp(":") {
		typ = p.typeText()
	}
	id := p.add(Node{Kind: kind, Name: nameTok.text, Flags: flags, Doc: doc, Params: params, Type: typ, Start: start})
	var body []NodeID
	if p.isOp("{") {
		body = p.block()
	} else {
		p.endStatement()
	}
	n := &p.tree.Nodes[id]
	n.Children = body
	n.End = p.prevEnd()
	return id
}

func (p *parser) params() []Param {
	p.expectOp("(")
	var params []Param
	for !p.isOp(")") {
		for p.at(tokAttribute) {
			p.next()
		}
		for p.isKeyword("public") || p.isKeyword("protected") || p.isKeyword("private") || p.isKeyword("readonly") {
			p.next()
		}
		typ := ""
		if !p.at(tokVariable) && !p.isOp("&") && !p.isOp("...") {
			typ = p.typeText()
		}
		p.acceptOp("&")
		p.acceptOp("...")
		v := p.peek()
		if v.kind != tokVariable {
			p.fail("expected parameter, found %q", v.text)
		}
		p.next()
		if p.acceptOp("=") {
			p.expr()
		}
		if p.isOp("{") {
			p.skipBalanced("{", "}")
		}
		params = append(params, Param{Name: v.value, Type: typ})
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(")")
	return params
}

// typeText consumes a type declaration and returns it as written.
func (p *parser) typeText() string {
	var b strings.Builder
	depth := 0
	for {
		t := p.peek()
		switch {
		case t.kind == tokName, t.isOp("?"), t.isOp("|"):
			b.WriteString(t.text)
		case t.isOp("("):
			depth++
			b.WriteString(t.text)
		case t.isOp(")") && depth > 0:
			depth--
			b.WriteString(t.text)
		case t.isOp("&") && p.peekAt(1).kind == tokName:
			b.WriteString(t.text)
		default:
			return b.String()
		}
		p.next()
	}
}

func (p *parser) parenExpr() NodeID {
	p.expectOp("(")
	e := p.expr()
	p.expectOp(")")
	return e
}

func (p *parser) ifStatement() NodeID {
	start := p.next().start
	kids := []NodeID{p.parenExpr()}
	if p.acceptOp(":") {
		until := func() bool { return p.isKeyword("elseif") || p.isKeyword("else") || p.isKeyword("endif") }
		kids = append(kids, p.statements(until)...)
		for {
			if p.acceptKeyword("elseif") {
				kids = append(kids, p.parenExpr())
				p.expectOp(":")
				kids = append(kids, p.statements(until)...)
				continue
			}
			if p.acceptKeyword("else") {
				p.expectOp(":")
				kids = append(kids, p.statements(func() bool { return p.isKeyword("endif") })...)
			}
			break
		}
		p.expectKeyword("endif")
		p.endStatement()
	} else {
		kids = append(kids, p.bodyStatement()...)
		for {
			if p.acceptKeyword("elseif") {
				kids = append(kids, p.parenExpr())
				kids = append(kids, p.bodyStatement()...)
				continue
			}
			if p.acceptKeyword("else") {
				kids = append(kids, p.bodyStatement()...)
			}
			break
		}
	}
	return p.add(Node{Kind: KindBlock, Value: "if", Children: kids, Start: start, End: p.prevEnd()})
}

// loopBody parses a loop body in either brace or alternative syntax.
func (p *parser) loopBody(end string) []NodeID {
	if p.acceptOp(":") {
		list := p.statements(func() bool { return p.isKeyword(end) })
		p.expectKeyword(end)
		p.endStatement()
		return list
	}
	return p.bodyStatement()
}

func (p *parser) whileStatement() NodeID {
	start := p.next().start
	kids := []NodeID{p.parenExpr()}
	kids = append(kids, p.loopBody("endwhile")...)
	return p.add(Node{Kind: KindBlock, Value: "while", Children: kids, Start: start, End: p.prevEnd()})
}

func (p *parser) forStatement() NodeID {
	start := p.next().start
	p.expectOp("(")
	var kids []NodeID
	for i := 0; i < 3; i++ {
		end := ";"
		if i == 2 {
			end = ")"
		}
		for !p.isOp(end) {
			kids = append(kids, p.expr())
			if !p.acceptOp(",") {
				break
			}
		}
		p.expectOp(end)
	}
	kids = append(kids, p.loopBody("endfor")...)
	return p.add(Node{Kind: KindBlock, Value: "for", Children: kids, Start: start, End: p.prevEnd()})
}

func (p *parser) foreachStatement() NodeID {
	start := p.next().start
	p.expectOp("(")
	kids := []NodeID{p.expr()}
	p.expectKeyword("as")
	kids = append(kids, p.expr())
	if p.acceptOp("=>") {
		kids = append(kids, p.expr())
	}
	p.expectOp(")")
	kids = append(kids, p.loopBody("endforeach")...)
	return p.add(Node{Kind: KindBlock, Value: "foreach", Children: kids, Start: start, End: p.prevEnd()})
}

func (p *parser) switchStatement() NodeID {
	start := p.next().start
	kids := []NodeID{p.parenExpr()}
	alt := p.acceptOp(":")
	if !alt {
		p.expectOp("{")
	}
	for !p.isOp("}") && !p.isKeyword("endswitch") {
		if p.at(tokEOF) {
			p.fail("unexpected end of file in switch")
		}
		if p.acceptKeyword("case") {
			kids = append(kids, p.expr())
			if !p.acceptOp(":") {
				p.expectOp(";")
			}
			continue
		}
		if p.acceptKeyword("default") {
			if !p.acceptOp(":") {
				p.expectOp(";")
			}
			continue
		}
		if id := p.statement(); id != NoNode {
			kids = append(kids, id)
		}
	}
	if alt {
		p.expectKeyword("endswitch")
		p.endStatement()
	} else {
		p.expectOp("}")
	}
	return p.add(Node{Kind: KindBlock, Value: "switch", Children: kids, Start: start, End: p.prevEnd()})
}

func (p *parser) doStatement() NodeID {
	start := p.next().start
	kids := p.bodyStatement()
	p.expectKeyword("while")
	kids = append(kids, p.parenExpr())
	p.endStatement()
	return p.add(Node{Kind: KindBlock, Value: "do", Children: kids, Start: start, End: p.prevEnd()})
}

func (p *parser) tryStatement() NodeID {
	start := p.next().start
	kids := p.block()
	for p.acceptKeyword("catch") {
		p.expectOp("(")
		p.expectName()
		for p.acceptOp("|") {
			p.expectName()
		}
		if p.at(tokVariable) {
			p.next()
		}
		p.expectOp(")")
		kids = append(kids, p.block()...)
	}
	if p.acceptKeyword("finally") {
		kids = append(kids, p.block()...)
	}
	return p.add(Node{Kind: KindBlock, Value: "try", Children: kids, Start: start, End: p.prevEnd()})
}

func (p *parser) declareStatement() NodeID {
	start := p.next().start
	p.skipBalanced("(", ")")
	var kids []NodeID
	switch {
	case p.acceptOp(";"), p.at(tokEOF):
	case p.isOp(":"):
		kids = p.loopBody("enddeclare")
	default:
		kids = p.bodyStatement()
	}
	return p.add(Node{Kind: KindBlock, Value: "declare", Children: kids, Start: start, End: p.prevEnd()})
}
