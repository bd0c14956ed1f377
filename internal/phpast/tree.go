package phpast

import "sort"

// Tree is an arena of nodes parsed from one source file. Node 0 is the file.
type Tree struct {
	Source  []byte
	Nodes   []Node
	parents []NodeID
	lines   []int
}

func newTree(src []byte) *Tree {
	lines := []int{0}
	for i, c := range src {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Tree{Source: src, lines: lines}
}

// Root returns the file node id.
func (t *Tree) Root() NodeID { return 0 }

// Node returns the node for id.
func (t *Tree) Node(id NodeID) *Node { return &t.Nodes[id] }

// Line returns the 1-based line of a byte offset.
func (t *Tree) Line(offset int) int {
	return sort.Search(len(t.lines), func(i int) bool { return t.lines[i] > offset })
}

// Text returns the source text spanned by a node.
func (t *Tree) Text(id NodeID) string {
	n := t.Nodes[id]
	return string(t.Source[n.Start:n.End])
}

// Parent returns the enclosing node, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if t.parents == nil {
		t.attachParents()
	}
	return t.parents[id]
}

func (t *Tree) attachParents() {
	t.parents = make([]NodeID, len(t.Nodes))
	for i := range t.parents {
		t.parents[i] = NoNode
	}
	for i, n := range t.Nodes {
		for _, child := range n.Children {
			t.parents[child] = NodeID(i)
		}
	}
}

// Walk visits id and its descendants in source order. Returning false from
// visit skips the children of that node.
func (t *Tree) Walk(id NodeID, visit func(id NodeID, n *Node) bool) {
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.Nodes[cur]
		if !visit(cur, n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// FindIn returns every node of kind under id, in source order.
func (t *Tree) FindIn(id NodeID, kind Kind) []NodeID {
	return t.FindFunc(id, func(n *Node) bool { return n.Kind == kind })
}

// Find returns every node of kind in the file.
func (t *Tree) Find(kind Kind) []NodeID {
	return t.FindIn(t.Root(), kind)
}

// FindFunc returns every node under id that satisfies match.
func (t *Tree) FindFunc(id NodeID, match func(n *Node) bool) []NodeID {
	var found []NodeID
	t.Walk(id, func(cur NodeID, n *Node) bool {
		if match(n) {
			found = append(found, cur)
		}
		return true
	})
	return found
}

// First returns the first node of kind under id.
func (t *Tree) First(id NodeID, kind Kind) NodeID {
	result := NoNode
	t.Walk(id, func(cur NodeID, n *Node) bool {
		if result != NoNode {
			return false
		}
		if n.Kind == kind {
			result = cur
			return false
		}
		return true
	})
	return result
}
