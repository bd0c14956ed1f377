package phpast

import "strings"

var binaryOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, ".=": true, "%=": true, "**=": true,
	"??=": true, "|=": true, "&=": true, "^=": true, "<<=": true, ">>=": true,
	"||": true, "&&": true, "??": true, "|": true, "^": true, "&": true,
	"==": true, "!=": true, "===": true, "!==": true, "<>": true, "<": true, ">": true,
	"<=": true, ">=": true, "<=>": true, "<<": true, ">>": true,
	"+": true, "-": true, "*": true, "/": true, "%": true, ".": true, "**": true,
}

var binaryKeywords = map[string]bool{"and": true, "or": true, "xor": true, "instanceof": true}

var castNames = map[string]bool{
	"int": true, "integer": true, "bool": true, "boolean": true, "float": true, "double": true,
	"real": true, "string": true, "array": true, "object": true, "unset": true, "binary": true,
}

// expr parses an expression. Operator precedence is not modelled; the tree keeps
// calls, arrays and literals intact, which is all the extractors look at.
func (p *parser) expr() NodeID {
	left := p.unary()
	for {
		t := p.peek()
		if (t.kind == tokOp && binaryOps[t.text]) || (t.kind == tokName && binaryKeywords[strings.ToLower(t.text)]) {
			p.next()
			right := p.unary()
			left = p.add(Node{Kind: KindExpr, Value: t.text, Children: []NodeID{left, right}, Start: p.startOf(left), End: p.prevEnd()})
			continue
		}
		if t.isOp("?") {
			p.next()
			kids := []NodeID{left}
			if !p.isOp(":") {
				kids = append(kids, p.expr())
			}
			p.expectOp(":")
			kids = append(kids, p.expr())
			left = p.add(Node{Kind: KindExpr, Value: "?:", Children: kids, Start: p.startOf(left), End: p.prevEnd()})
			continue
		}
		return left
	}
}

func (p *parser) exprEnds() bool {
	t := p.peek()
	return t.kind == tokEOF || t.isOp(";") || t.isOp(")") || t.isOp(",") || t.isOp("]") || t.isOp("}")
}

func (p *parser) unary() NodeID {
	t := p.peek()
	switch t.kind {
	case tokOp:
		switch t.text {
		case "!", "-", "+", "~", "@", "&", "++", "--":
			p.next()
			operand := p.unary()
			return p.add(Node{Kind: KindExpr, Value: t.text, Children: []NodeID{operand}, Start: t.start, End: p.prevEnd()})
		case "(":
			if cast := p.cast(); cast != "" {
				p.next()
				p.next()
				p.next()
				operand := p.unary()
				return p.add(Node{Kind: KindExpr, Value: "(" + cast + ")", Children: []NodeID{operand}, Start: t.start, End: p.prevEnd()})
			}
		}
	case tokName:
		switch kw := strings.ToLower(t.text); kw {
		case "new":
			return p.postfix(p.newExpr())
		case "clone", "print", "yield", "throw", "include", "include_once", "require", "require_once":
			if p.peekAt(1).isOp("::") || p.peekAt(1).isOp("(") && kw != "print" && kw != "yield" && kw != "clone" {
				break
			}
			p.next()
			if kw == "yield" && p.isKeyword("from") {
				p.next()
			}
			var kids []NodeID
			if !p.exprEnds() {
				kids = append(kids, p.expr())
				if kw == "yield" && p.acceptOp("=>") {
					kids = append(kids, p.expr())
				}
			}
			return p.add(Node{Kind: KindExpr, Value: kw, Children: kids, Start: t.start, End: p.prevEnd()})
		}
	}
	return p.postfix(p.primary())
}

func (p *parser) cast() string {
	name := p.peekAt(1)
	if name.kind != tokName || !p.peekAt(2).isOp(")") {
		return ""
	}
	lower := strings.ToLower(name.text)
	if castNames[lower] {
		return lower
	}
	return ""
}

func (p *parser) primary() NodeID {
	t := p.peek()
	switch t.kind {
	case tokVariable:
		p.next()
		return p.add(Node{Kind: KindVariable, Name: t.value, Start: t.start, End: t.end})
	case tokString:
		p.next()
		return p.add(Node{Kind: KindString, Value: t.value, Start: t.start, End: t.end})
	case tokNumber:
		p.next()
		return p.add(Node{Kind: KindNumber, Value: t.value, Start: t.start, End: t.end})
	case tokAttribute:
		p.next()
		return p.primary()
	case tokOp:
		switch t.text {
		case "[":
			return p.arrayLiteral(t.start, "[", "]")
		case "(":
			p.next()
			e := p.expr()
			p.expectOp(")")
			return e
		case "$":
			p.next()
			var inner NodeID
			if p.isOp("{") {
				p.next()
				inner = p.expr()
				p.expectOp("}")
			} else {
				inner = p.primary()
			}
			return p.add(Node{Kind: KindExpr, Value: "$", Children: []NodeID{inner}, Start: t.start, End: p.prevEnd()})
		}
	case tokName:
		lower := strings.ToLower(t.text)
		next := p.peekAt(1)
		switch {
		case (lower == "array" || lower == "list") && next.isOp("("):
			p.next()
			return p.arrayLiteral(t.start, "(", ")")
		case lower == "function" || lower == "fn":
			return p.closure(t.start, false)
		case lower == "static" && (next.isKeyword("function") || next.isKeyword("fn")):
			p.next()
			return p.closure(t.start, true)
		case lower == "match" && next.isOp("("):
			return p.matchExpr()
		case lower == "new":
			return p.newExpr()
		}
		p.next()
		nameID := p.add(Node{Kind: KindName, Name: t.text, Start: t.start, End: t.end})
		if p.isOp("(") {
			args := p.args()
			return p.add(Node{Kind: KindFuncCall, Name: t.text, Children: append([]NodeID{nameID}, args...), Start: t.start, End: p.prevEnd()})
		}
		return nameID
	}
	p.fail("unexpected %q", t.text)
	return NoNode
}

func (p *parser) postfix(left NodeID) NodeID {
	for {
		t := p.peek()
		switch {
		case t.isOp("->"), t.isOp("?->"):
			p.next()
			member := p.memberName()
			var flags Flags
			if t.text == "?->" {
				flags = FlagNullsafe
			}
			if p.isOp("(") {
				args := p.args()
				left = p.add(Node{Kind: KindMethodCall, Name: member, Flags: flags, Children: append([]NodeID{left}, args...), Start: p.startOf(left), End: p.prevEnd()})
			} else {
				left = p.add(Node{Kind: KindPropertyFetch, Name: member, Flags: flags, Children: []NodeID{left}, Start: p.startOf(left), End: p.prevEnd()})
			}
		case t.isOp("::"):
			p.next()
			m := p.peek()
			switch {
			case m.kind == tokVariable:
				p.next()
				left = p.add(Node{Kind: KindStaticPropertyFetch, Name: m.value, Children: []NodeID{left}, Start: p.startOf(left), End: p.prevEnd()})
			case m.kind == tokName:
				p.next()
				if p.isOp("(") {
					args := p.args()
					left = p.add(Node{Kind: KindStaticCall, Name: m.text, Children: append([]NodeID{left}, args...), Start: p.startOf(left), End: p.prevEnd()})
				} else {
					left = p.add(Node{Kind: KindClassConstFetch, Name: m.text, Children: []NodeID{left}, Start: p.startOf(left), End: p.prevEnd()})
				}
			case m.isOp("{"):
				p.skipBalanced("{", "}")
			default:
				p.fail("unexpected %q after \"::\"", m.text)
			}
		case t.isOp("("):
			args := p.args()
			left = p.add(Node{Kind: KindFuncCall, Children: append([]NodeID{left}, args...), Start: p.startOf(left), End: p.prevEnd()})
		case t.isOp("["):
			p.next()
			kids := []NodeID{left}
			if !p.isOp("]") {
				kids = append(kids, p.expr())
			}
			p.expectOp("]")
			left = p.add(Node{Kind: KindExpr, Value: "[]", Children: kids, Start: p.startOf(left), End: p.prevEnd()})
		case t.isOp("++"), t.isOp("--"):
			p.next()
			left = p.add(Node{Kind: KindExpr, Value: "post" + t.text, Children: []NodeID{left}, Start: p.startOf(left), End: p.prevEnd()})
		default:
			return left
		}
	}
}

func (p *parser) memberName() string {
	t := p.peek()
	switch {
	case t.kind == tokName:
		p.next()
		return t.text
	case t.kind == tokVariable:
		p.next()
		return t.text
	case t.isOp("{"):
		p.skipBalanced("{", "}")
		return "{}"
	}
	p.fail("expected member name, found %q", t.text)
	return ""
}

func (p *parser) args() []NodeID {
	p.expectOp("(")
	var args []NodeID
	for !p.isOp(")") {
		if p.isOp("...") && p.peekAt(1).isOp(")") {
			p.next()
			break
		}
		switch {
		case p.isOp("..."):
			t := p.next()
			e := p.expr()
			args = append(args, p.add(Node{Kind: KindExpr, Value: "...", Flags: FlagSpread, Children: []NodeID{e}, Start: t.start, End: p.prevEnd()}))
		case p.at(tokName) && p.peekAt(1).isOp(":"):
			nameTok := p.next()
			p.next()
			e := p.expr()
			args = append(args, p.add(Node{Kind: KindNamedArg, Name: nameTok.text, Children: []NodeID{e}, Start: nameTok.start, End: p.prevEnd()}))
		default:
			args = append(args, p.expr())
		}
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(")")
	return args
}

func (p *parser) arrayLiteral(start int, open, close string) NodeID {
	p.expectOp(open)
	var items []NodeID
	for !p.isOp(close) {
		if p.acceptOp(",") {
			continue
		}
		itemStart := p.peek().start
		var flags Flags
		if p.acceptOp("...") {
			flags |= FlagSpread
		}
		if p.acceptOp("&") {
			flags |= FlagByRef
		}
		kids := []NodeID{p.expr()}
		if p.acceptOp("=>") {
			flags |= FlagHasKey
			p.acceptOp("&")
			kids = append(kids, p.expr())
		}
		items = append(items, p.add(Node{Kind: KindArrayItem, Flags: flags, Children: kids, Start: itemStart, End: p.prevEnd()}))
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(close)
	return p.add(Node{Kind: KindArray, Children: items, Start: start, End: p.prevEnd()})
}

func (p *parser) closure(start int, static bool) NodeID {
	kw := strings.ToLower(p.next().text)
	var flags Flags
	if static {
		flags = FlagStatic
	}
	p.acceptOp("&")
	params := p.params()
	if kw == "fn" {
		if p.acceptOp(":") {
			p.typeText()
		}
		p.expectOp("=>")
		body := p.expr()
		return p.add(Node{Kind: KindArrowFunction, Flags: flags, Params: params, Children: []NodeID{body}, Start: start, End: p.prevEnd()})
	}
	if p.acceptKeyword("use") {
		p.expectOp("(")
		for !p.isOp(")") {
			p.acceptOp("&")
			if !p.at(tokVariable) {
				p.fail("expected variable in closure use, found %q", p.peek().text)
			}
			p.next()
			if !p.acceptOp(",") {
				break
			}
		}
		p.expectOp(")")
	}
	typ := ""
	if p.acceptOp(":") {
		typ = p.typeText()
	}
	body := p.block()
	return p.add(Node{Kind: KindClosure, Flags: flags, Params: params, Type: typ, Children: body, Start: start, End: p.prevEnd()})
}

func (p *parser) newExpr() NodeID {
	start := p.next().start
	if p.isKeyword("class") {
		classStart := p.next().start
		var args []NodeID
		if p.isOp("(") {
			args = p.args()
		}
		class := p.add(Node{Kind: KindClass, Start: classStart})
		extends := p.inheritance()
		members := p.classBody()
		n := &p.tree.Nodes[class]
		n.Extends = extends
		n.Children = members
		n.End = p.prevEnd()
		return p.add(Node{Kind: KindNew, Children: append([]NodeID{class}, args...), Start: start, End: p.prevEnd()})
	}
	var class NodeID
	name := ""
	t := p.peek()
	switch {
	case t.kind == tokName:
		p.next()
		name = t.text
		class = p.add(Node{Kind: KindName, Name: t.text, Start: t.start, End: t.end})
	case t.kind == tokVariable:
		p.next()
		class = p.add(Node{Kind: KindVariable, Name: t.value, Start: t.start, End: t.end})
		for p.isOp("->") || p.isOp("::") {
			p.next()
			member := p.memberName()
			class = p.add(Node{Kind: KindPropertyFetch, Name: member, Children: []NodeID{class}, Start: t.start, End: p.prevEnd()})
		}
	case t.isOp("("):
		class = p.parenExpr()
	default:
		p.fail("unexpected %q after new", t.text)
	}
	var args []NodeID
	if p.isOp("(") {
		args = p.args()
	}
	return p.add(Node{Kind: KindNew, Name: name, Children: append([]NodeID{class}, args...), Start: start, End: p.prevEnd()})
}

func (p *parser) matchExpr() NodeID {
	start := p.next().start
	kids := []NodeID{p.parenExpr()}
	p.expectOp("{")
	for !p.isOp("}") {
		if !p.acceptKeyword("default") {
			for {
				kids = append(kids, p.expr())
				if !p.acceptOp(",") || p.isOp("=>") {
					break
				}
			}
		}
		p.expectOp("=>")
		kids = append(kids, p.expr())
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp("}")
	return p.add(Node{Kind: KindExpr, Value: "match", Children: kids, Start: start, End: p.prevEnd()})
}
