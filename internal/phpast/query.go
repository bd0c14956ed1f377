package phpast

import "strings"

// Receiver returns the object, class or callee of a call or fetch node.
func (t *Tree) Receiver(id NodeID) NodeID {
	n := t.Nodes[id]
	switch n.Kind {
	case KindMethodCall, KindStaticCall, KindFuncCall, KindNew,
		KindPropertyFetch, KindClassConstFetch, KindStaticPropertyFetch:
		if len(n.Children) > 0 {
			return n.Children[0]
		}
	}
	return NoNode
}

// Args returns the arguments of a call node. Named arguments are unwrapped.
func (t *Tree) Args(id NodeID) []NodeID {
	n := t.Nodes[id]
	switch n.Kind {
	case KindMethodCall, KindStaticCall, KindFuncCall, KindNew:
	default:
		return nil
	}
	if len(n.Children) < 2 {
		return nil
	}
	args := make([]NodeID, 0, len(n.Children)-1)
	for _, arg := range n.Children[1:] {
		if t.Nodes[arg].Kind == KindNamedArg && len(t.Nodes[arg].Children) == 1 {
			arg = t.Nodes[arg].Children[0]
		}
		args = append(args, arg)
	}
	return args
}

// StringValue returns the value of a string literal node.
func (t *Tree) StringValue(id NodeID) (string, bool) {
	if id == NoNode || t.Nodes[id].Kind != KindString {
		return "", false
	}
	return t.Nodes[id].Value, true
}

// StringArg returns the i-th call argument when it is a string literal.
func (t *Tree) StringArg(id NodeID, i int) (string, bool) {
	args := t.Args(id)
	if i >= len(args) {
		return "", false
	}
	return t.StringValue(args[i])
}

// ClassRef returns the class name written in a Foo::class expression, or a bare
// name node.
func (t *Tree) ClassRef(id NodeID) (string, bool) {
	if id == NoNode {
		return "", false
	}
	n := t.Nodes[id]
	switch n.Kind {
	case KindClassConstFetch:
		if !strings.EqualFold(n.Name, "class") {
			return "", false
		}
		recv := t.Nodes[n.Children[0]]
		if recv.Kind == KindName {
			return recv.Name, true
		}
	case KindString:
		return n.Value, n.Value != ""
	}
	return "", false
}

// ChainRoot follows receivers of a method call chain down to its first object.
func (t *Tree) ChainRoot(id NodeID) NodeID {
	for {
		n := t.Nodes[id]
		if n.Kind != KindMethodCall && n.Kind != KindPropertyFetch {
			return id
		}
		id = n.Children[0]
	}
}

// Chain returns the method calls of a chain from the innermost to id itself.
func (t *Tree) Chain(id NodeID) []NodeID {
	var calls []NodeID
	for t.Nodes[id].Kind == KindMethodCall {
		calls = append(calls, id)
		id = t.Nodes[id].Children[0]
	}
	for i, j := 0, len(calls)-1; i < j; i, j = i+1, j-1 {
		calls[i], calls[j] = calls[j], calls[i]
	}
	return calls
}

// IsThisCall reports whether id is a method call whose chain starts at $this.
func (t *Tree) IsThisCall(id NodeID) bool {
	if t.Nodes[id].Kind != KindMethodCall {
		return false
	}
	root := t.Nodes[t.ChainRoot(id)]
	return root.Kind == KindVariable && root.Name == "this"
}

// FirstClass returns the first class-like declaration, optionally by name.
func (t *Tree) FirstClass(name string) NodeID {
	result := NoNode
	t.Walk(t.Root(), func(id NodeID, n *Node) bool {
		if result != NoNode {
			return false
		}
		if n.Kind == KindClass && n.Name != "" && (name == "" || strings.EqualFold(n.Name, name)) {
			result = id
			return false
		}
		return n.Kind == KindFile || n.Kind == KindNamespace || n.Kind == KindBlock
	})
	return result
}

// Namespace returns the namespace enclosing id, or the first one in the file
// when id is the root.
func (t *Tree) Namespace(id NodeID) string {
	for cur := id; cur != NoNode; cur = t.Parent(cur) {
		if t.Nodes[cur].Kind == KindNamespace {
			return t.Nodes[cur].Name
		}
	}
	name := ""
	for i, ns := range t.Find(KindNamespace) {
		if i == 0 && id == t.Root() {
			return t.Nodes[ns].Name
		}
		if t.Nodes[ns].Start <= t.Nodes[id].Start {
			name = t.Nodes[ns].Name
		}
	}
	return name
}

// Imports returns the class imports of the file keyed by alias as written.
func (t *Tree) Imports() map[string]string {
	imports := map[string]string{}
	for _, id := range t.Find(KindUse) {
		n := t.Nodes[id]
		if n.Flags.Has(FlagUseFunction) || n.Flags.Has(FlagUseConst) {
			continue
		}
		imports[n.Alias] = n.Name
	}
	return imports
}

// ArrayStrings returns the string literal values of an array, skipping others.
func (t *Tree) ArrayStrings(id NodeID) []string {
	if id == NoNode || t.Nodes[id].Kind != KindArray {
		return nil
	}
	var values []string
	for _, item := range t.Nodes[id].Children {
		it := t.Nodes[item]
		if it.Flags.Has(FlagHasKey) {
			continue
		}
		if v, ok := t.StringValue(it.Children[0]); ok {
			values = append(values, v)
		}
	}
	return values
}

// Pair is a keyed array entry.
type Pair struct {
	Key   string
	Value NodeID
}

// ArrayPairs returns the entries of an array whose keys are string literals.
func (t *Tree) ArrayPairs(id NodeID) []Pair {
	if id == NoNode || t.Nodes[id].Kind != KindArray {
		return nil
	}
	var pairs []Pair
	for _, item := range t.Nodes[id].Children {
		it := t.Nodes[item]
		if !it.Flags.Has(FlagHasKey) || len(it.Children) != 2 {
			continue
		}
		if key, ok := t.StringValue(it.Children[0]); ok {
			pairs = append(pairs, Pair{Key: key, Value: it.Children[1]})
		}
	}
	return pairs
}

// Members returns the direct members of a class of the given kind.
func (t *Tree) Members(class NodeID, kind Kind) []NodeID {
	var members []NodeID
	for _, id := range t.Nodes[class].Children {
		if t.Nodes[id].Kind == kind {
			members = append(members, id)
		}
	}
	return members
}

// Method returns the method of a class by case-insensitive name.
func (t *Tree) Method(class NodeID, name string) NodeID {
	for _, id := range t.Members(class, KindMethod) {
		if strings.EqualFold(t.Nodes[id].Name, name) {
			return id
		}
	}
	return NoNode
}

// Property returns the property of a class by name.
func (t *Tree) Property(class NodeID, name string) NodeID {
	for _, id := range t.Members(class, KindProperty) {
		if t.Nodes[id].Name == name {
			return id
		}
	}
	return NoNode
}

// Returns lists the return statements of a function body, without descending
// into nested closures or classes.
func (t *Tree) Returns(fn NodeID) []NodeID {
	var found []NodeID
	for _, child := range t.Nodes[fn].Children {
		t.Walk(child, func(id NodeID, n *Node) bool {
			switch n.Kind {
			case KindClosure, KindArrowFunction, KindClass, KindFunction:
				return false
			case KindReturn:
				found = append(found, id)
			}
			return true
		})
	}
	return found
}

// IsPublic reports whether a member is public, explicitly or by default.
func (n *Node) IsPublic() bool {
	return !n.Flags.Has(FlagPrivate) && !n.Flags.Has(FlagProtected)
}

// TraitNames returns the names of traits used by a class as written.
func (t *Tree) TraitNames(class NodeID) []string {
	var names []string
	for _, use := range t.Members(class, KindTraitUse) {
		for _, child := range t.Nodes[use].Children {
			names = append(names, t.Nodes[child].Name)
		}
	}
	return names
}
