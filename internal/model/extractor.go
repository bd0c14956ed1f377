package model

import (
	"fmt"
	"regexp"
	"strings"

	"resource-checker/internal/config"
	"resource-checker/internal/phpast"
	"resource-checker/internal/phpdoc"
	"resource-checker/internal/schema"
)

var genericReturn = regexp.MustCompile(`^([A-Z][a-zA-Z]+)<([^,>]+)(.*)$`)

// Extractor turns a parsed model file into model facts.
type Extractor struct {
	cfg       *config.Config
	inspector ClassInspector
}

func NewExtractor(cfg *config.Config, inspector ClassInspector) *Extractor {
	return &Extractor{cfg: cfg, inspector: inspector}
}

// Extract reads the first class of a model file. The table comes from the
// inspector, never from the file name.
func (e *Extractor) Extract(path string, tree *phpast.Tree) (*schema.ModelFacts, error) {
	class := tree.FirstClass("")
	if class == phpast.NoNode {
		return nil, fmt.Errorf("%w: no class declaration", schema.ErrResolution)
	}
	scope := phpast.NewScopeWith(tree.Namespace(class), tree.Imports())
	name := scope.Resolve(tree.Node(class).Name)

	meta, err := e.inspector.Inspect(name)
	if err != nil {
		return nil, err
	}
	facts := &schema.ModelFacts{Table: meta.Table, Class: meta.Name, File: path}
	Fields(meta, &facts.Fields)

	if doc := tree.Node(class).Doc; doc != nil {
		for _, line := range phpdoc.Properties(doc.Text) {
			field := DocField(line, scope)
			if line.IsRead() {
				facts.DocReadFields.Put(field.Name, field)
			} else {
				facts.DocFields.Put(field.Name, field)
			}
		}
	}
	for _, rel := range Relationships(tree, class, scope) {
		facts.Relationships.Put(rel.Name, rel)
	}
	return facts, nil
}

// Fields merges the fillable, hidden and cast lists into one set.
func Fields(meta *Class, fields *schema.Collection[schema.ModelField]) {
	for _, name := range meta.Fillable {
		fields.Put(name, schema.ModelField{Name: name, Fillable: true})
	}
	for _, name := range meta.Hidden {
		field, _ := fields.Get(name)
		field.Name = name
		field.Hidden = true
		fields.Put(name, field)
	}
	for name, cast := range meta.Casts.All() {
		field, _ := fields.Get(name)
		field.Name = name
		field.Cast = cast
		fields.Put(name, field)
	}
}

// DocField decodes one property tag, resolving class types in scope.
func DocField(line *phpdoc.Line, scope *phpast.Scope) schema.DocField {
	typ := phpdoc.ParseType(line.Type, scope.Resolve)
	return schema.DocField{
		Name:          line.Name,
		Type:          typ.Name,
		Nullable:      typ.Nullable,
		Container:     typ.Container,
		ContainerType: typ.ContainerType,
		KeyType:       typ.KeyType,
	}
}

// Relationships finds the public methods returning a relation built on $this.
func Relationships(tree *phpast.Tree, class phpast.NodeID, scope *phpast.Scope) []schema.Relationship {
	var result []schema.Relationship
	for _, method := range tree.Members(class, phpast.KindMethod) {
		m := tree.Node(method)
		if !m.IsPublic() || m.Flags.Has(phpast.FlagStatic) {
			continue
		}
		switch strings.ToLower(m.Name) {
		case "__construct", "__destruct":
			continue
		}
		returnType := "mixed"
		if m.Doc != nil {
			returnType = phpdoc.ReturnType(m.Doc.Text)
		}
		for _, stmt := range m.Children {
			if tree.Node(stmt).Kind != phpast.KindReturn || len(tree.Node(stmt).Children) == 0 {
				continue
			}
			rel, ok := relationship(tree, tree.Node(stmt).Children[0], scope)
			if !ok {
				continue
			}
			rel.Name = m.Name
			rel.Type = relationLabel(rel.Kind, returnType, rel.Related)
			result = append(result, rel)
		}
	}
	return result
}

// relationship unwinds a call chain rooted at $this to the outermost relation call.
func relationship(tree *phpast.Tree, expr phpast.NodeID, scope *phpast.Scope) (schema.Relationship, bool) {
	if !tree.IsThisCall(expr) {
		return schema.Relationship{}, false
	}
	chain := tree.Chain(expr)
	for i := len(chain) - 1; i >= 0; i-- {
		call := tree.Node(chain[i])
		if !schema.IsRelationKind(call.Name) {
			continue
		}
		args := tree.Args(chain[i])
		if len(args) == 0 {
			return schema.Relationship{}, false
		}
		class, ok := tree.ClassRef(args[0])
		if !ok {
			return schema.Relationship{}, false
		}
		return schema.Relationship{Kind: call.Name, Related: scope.Resolve(class)}, true
	}
	return schema.Relationship{}, false
}

// relationLabel prefers the documented return type, with the related class made
// fully qualified in its first generic slot.
func relationLabel(kind, returnType, related string) string {
	if m := genericReturn.FindStringSubmatch(returnType); m != nil {
		if strings.TrimPrefix(m[2], `\`) == config.ShortName(related) {
			return m[1] + "<" + related + m[3]
		}
		return returnType
	}
	if returnType != "" && returnType != "mixed" {
		return returnType
	}
	return schema.Studly(kind)
}
