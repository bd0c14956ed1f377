package fixer

import (
	"fmt"
	"regexp"
	"strings"

	"resource-checker/internal/config"
	"resource-checker/internal/phpast"
	"resource-checker/internal/schema"
)

const defaultIndent = "            "

var (
	arrayIndent   = regexp.MustCompile(`^(?i:array)?\s*[\[(]\s*\n([ \t]+)`)
	trailingNotes = regexp.MustCompile(`(?:\n[ \t]*//[^\n]*)+\s*$`)
)

// ComponentCall renders the form component call added for a missing field.
// scope decides whether the component class can be written by its imported alias.
func ComponentCall(field schema.Field, scope *phpast.Scope, cfg *config.Config) string {
	class := cfg.Component(field.Type)
	ref := `\` + class
	if alias, ok := scope.AliasOf(class); ok {
		ref = alias
	}
	call := ref + "::make('" + field.Name + "')"
	if cfg.IsNumeric(field.Type) {
		call += "->numeric()"
	}
	if !field.Nullable {
		call += "->required()"
	}
	if cfg.IsReadonlyField(field.Name) {
		call += "->disabled()"
	}
	return call
}

// AddFormFields appends component calls for fields to the components array of a
// form schema: the first argument of the components call returned by the file.
// Fields the array already holds are skipped. Existing formatting is kept: items
// are written at the indentation of the array's first line, before a trailing
// comment block when there is one, otherwise right before the closing bracket.
func AddFormFields(src []byte, fields []schema.Field, cfg *config.Config) ([]byte, int, error) {
	tree, err := parse(src)
	if err != nil {
		return nil, 0, err
	}
	array := componentsArray(tree, cfg)
	if array == phpast.NoNode {
		return nil, 0, fmt.Errorf("%w: no components array", schema.ErrResolution)
	}
	existing := map[string]bool{}
	items := tree.Node(array).Children
	for _, item := range items {
		if name, ok := componentName(tree, item); ok {
			existing[name] = true
		}
	}
	scope := phpast.NewScope(tree)
	var calls []string
	for _, field := range fields {
		if existing[field.Name] {
			continue
		}
		existing[field.Name] = true
		calls = append(calls, ComponentCall(field, scope, cfg))
	}
	if len(calls) == 0 {
		return src, 0, nil
	}
	return applyEdits(src, arrayEdits(src, tree, array, calls)), len(calls), nil
}

func componentsArray(tree *phpast.Tree, cfg *config.Config) phpast.NodeID {
	for _, id := range tree.Find(phpast.KindReturn) {
		ret := tree.Node(id)
		if len(ret.Children) == 0 {
			continue
		}
		call := tree.Node(ret.Children[0])
		if call.Kind != phpast.KindMethodCall || !cfg.IsFormArrayMethod(call.Name) {
			continue
		}
		args := tree.Args(ret.Children[0])
		if len(args) > 0 && tree.Node(args[0]).Kind == phpast.KindArray {
			return args[0]
		}
	}
	return phpast.NoNode
}

// componentName returns the field name of an array item shaped like
// Component::make('name')->...
func componentName(tree *phpast.Tree, item phpast.NodeID) (string, bool) {
	kids := tree.Node(item).Children
	if len(kids) == 0 {
		return "", false
	}
	root := tree.ChainRoot(kids[len(kids)-1])
	n := tree.Node(root)
	if n.Kind != phpast.KindStaticCall || !strings.EqualFold(n.Name, "make") {
		return "", false
	}
	return tree.StringArg(root, 0)
}

func arrayEdits(src []byte, tree *phpast.Tree, array phpast.NodeID, calls []string) []edit {
	n := tree.Node(array)
	closeAt := n.End - 1
	segment := string(src[n.Start:n.End])

	var last *phpast.Node
	if len(n.Children) > 0 {
		last = tree.Node(n.Children[len(n.Children)-1])
	}
	commaAt := -1
	if last != nil {
		rest := strings.TrimLeft(string(src[last.End:closeAt]), " \t\r\n")
		if strings.HasPrefix(rest, ",") {
			commaAt = strings.Index(string(src[last.End:closeAt]), ",") + last.End
		}
	}

	if !strings.Contains(segment, "\n") {
		joined := strings.Join(calls, ", ")
		switch {
		case last == nil:
			return []edit{{start: closeAt, end: closeAt, text: joined}}
		case commaAt >= 0:
			return []edit{{start: commaAt + 1, end: commaAt + 1, text: " " + joined}}
		default:
			return []edit{{start: last.End, end: last.End, text: ", " + joined}}
		}
	}

	indent := defaultIndent
	if m := arrayIndent.FindStringSubmatch(segment); m != nil {
		indent = m[1]
	}
	if last == nil {
		closing, _ := indentAt(src, closeAt)
		indent = closing + "    "
	}
	var b strings.Builder
	for _, call := range calls {
		b.WriteString("\n" + indent + call + ",")
	}

	before := src[:closeAt]
	insertAt := closeAt
	if loc := trailingNotes.FindIndex(before); loc != nil && (last == nil || loc[0] >= last.End) {
		insertAt = loc[0]
	} else if i := strings.LastIndex(string(before), "\n"); i >= 0 && (last == nil || i >= last.End) {
		insertAt = i
	}

	edits := []edit{{start: insertAt, end: insertAt, text: b.String()}}
	if last != nil && commaAt < 0 {
		edits = append(edits, edit{start: last.End, end: last.End, text: ","})
	}
	return edits
}
