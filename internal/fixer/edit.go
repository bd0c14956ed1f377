package fixer

import (
	"fmt"
	"sort"
	"strings"

	"resource-checker/internal/phpast"
	"resource-checker/internal/schema"
)

// edit replaces src[start:end] with text.
type edit struct {
	start int
	end   int
	text  string
}

// applyEdits applies non-overlapping edits. Offsets refer to the original source.
func applyEdits(src []byte, edits []edit) []byte {
	if len(edits) == 0 {
		return src
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	out := src
	for _, e := range edits {
		out = splice(out, e.start, e.end, e.text)
	}
	return out
}

func splice(src []byte, start, end int, text string) []byte {
	out := make([]byte, 0, len(src)-(end-start)+len(text))
	out = append(out, src[:start]...)
	out = append(out, text...)
	return append(out, src[end:]...)
}

// lineStart returns the offset of the first byte of the line holding offset.
func lineStart(src []byte, offset int) int {
	for i := offset - 1; i >= 0; i-- {
		if src[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// indentAt returns the leading whitespace of the line holding offset, and whether
// only whitespace precedes offset on that line.
func indentAt(src []byte, offset int) (string, bool) {
	start := lineStart(src, offset)
	prefix := string(src[start:offset])
	trimmed := strings.TrimLeft(prefix, " \t")
	return prefix[:len(prefix)-len(trimmed)], trimmed == ""
}

func parse(src []byte) (*phpast.Tree, error) {
	tree, err := phpast.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrParse, err)
	}
	return tree, nil
}

func firstClass(tree *phpast.Tree) (*phpast.Node, error) {
	id := tree.FirstClass("")
	if id == phpast.NoNode {
		return nil, fmt.Errorf("%w: no class declaration", schema.ErrResolution)
	}
	return tree.Node(id), nil
}
