// Package model extracts fields, documentation and relationships from Eloquent
// model classes.
package model

import (
	"fmt"
	"strings"

	"resource-checker/internal/config"
	"resource-checker/internal/phpast"
	"resource-checker/internal/schema"
)

// Class is what the framework reports for an instantiated model.
type Class struct {
	Name     string
	Table    string
	Fillable []string
	Hidden   []string
	Casts    schema.Collection[string]
}

// ClassInspector answers runtime questions about model classes.
type ClassInspector interface {
	// Inspect fails with schema.ErrResolution when class is unknown, abstract or
	// not a model.
	Inspect(class string) (*Class, error)
}

// declaration is one class as written in source, with names resolved.
type declaration struct {
	name     string
	extends  string
	abstract bool
	traits   []string
	props    map[string]phpast.NodeID
	consts   map[string]phpast.NodeID
	casts    []castEntry
	hasCasts bool
	tree     *phpast.Tree
	scope    *phpast.Scope
}

type castEntry struct {
	field string
	cast  string
}

// StaticInspector emulates the Eloquent runtime from parsed class declarations.
type StaticInspector struct {
	cfg     *config.Config
	classes map[string]*declaration
}

var _ ClassInspector = (*StaticInspector)(nil)

func NewStaticInspector(cfg *config.Config) *StaticInspector {
	return &StaticInspector{cfg: cfg, classes: map[string]*declaration{}}
}

// Index registers every named class of a parsed file.
func (s *StaticInspector) Index(tree *phpast.Tree) {
	for _, id := range tree.Find(phpast.KindClass) {
		n := tree.Node(id)
		if n.Name == "" || n.Flags.Has(phpast.FlagInterface) || n.Flags.Has(phpast.FlagTrait) || n.Flags.Has(phpast.FlagEnum) {
			continue
		}
		scope := phpast.NewScopeWith(tree.Namespace(id), tree.Imports())
		decl := &declaration{
			name:     scope.Resolve(n.Name),
			abstract: n.Flags.Has(phpast.FlagAbstract),
			props:    map[string]phpast.NodeID{},
			consts:   map[string]phpast.NodeID{},
			tree:     tree,
			scope:    scope,
		}
		if n.Extends != "" {
			decl.extends = scope.Resolve(n.Extends)
		}
		for _, trait := range tree.TraitNames(id) {
			decl.traits = append(decl.traits, scope.Resolve(trait))
		}
		for _, prop := range tree.Members(id, phpast.KindProperty) {
			p := tree.Node(prop)
			if p.Flags.Has(phpast.FlagStatic) || len(p.Children) == 0 {
				continue
			}
			decl.props[p.Name] = p.Children[0]
		}
		for _, c := range tree.Members(id, phpast.KindConst) {
			if len(tree.Node(c).Children) > 0 {
				decl.consts[tree.Node(c).Name] = tree.Node(c).Children[0]
			}
		}
		if method := tree.Method(id, "casts"); method != phpast.NoNode {
			decl.hasCasts = true
			for _, ret := range tree.Returns(method) {
				if r := tree.Node(ret); len(r.Children) > 0 && tree.Node(r.Children[0]).Kind == phpast.KindArray {
					decl.casts = decl.castMap(r.Children[0])
					break
				}
			}
		}
		s.classes[strings.ToLower(decl.name)] = decl
	}
}

// castMap reads ['field' => 'cast'] and ['field' => Foo::class] entries.
func (d *declaration) castMap(array phpast.NodeID) []castEntry {
	var entries []castEntry
	for _, pair := range d.tree.ArrayPairs(array) {
		cast, ok := d.tree.StringValue(pair.Value)
		if !ok {
			class, ok := d.tree.ClassRef(pair.Value)
			if !ok {
				continue
			}
			cast = d.scope.Resolve(class)
		}
		entries = append(entries, castEntry{field: pair.Key, cast: cast})
	}
	return entries
}

// lineage returns the class followed by its indexed ancestors and whether the
// chain reaches a framework model base class.
func (s *StaticInspector) lineage(class string) ([]*declaration, string, bool) {
	var chain []*declaration
	seen := map[string]bool{}
	name := strings.TrimPrefix(class, `\`)
	for name != "" && !seen[strings.ToLower(name)] {
		seen[strings.ToLower(name)] = true
		if s.cfg.IsModelBase(name) {
			return chain, name, true
		}
		decl, ok := s.classes[strings.ToLower(name)]
		if !ok {
			return chain, "", false
		}
		chain = append(chain, decl)
		name = decl.extends
	}
	return chain, "", false
}

// IsModel reports whether class extends a framework model base class.
func (s *StaticInspector) IsModel(class string) bool {
	chain, _, ok := s.lineage(class)
	return ok && len(chain) > 0
}

func (s *StaticInspector) Inspect(class string) (*Class, error) {
	chain, base, ok := s.lineage(class)
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: class %s not found", schema.ErrResolution, class)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model", schema.ErrResolution, class)
	}
	if chain[0].abstract {
		return nil, fmt.Errorf("%w: %s is abstract", schema.ErrResolution, class)
	}
	result := &Class{Name: chain[0].name}

	pivot := strings.HasSuffix(strings.ToLower(base), `\pivot`) || strings.HasSuffix(strings.ToLower(base), `\morphpivot`)
	if v, ok := s.stringProp(chain, "table"); ok && v != "" {
		result.Table = v
	} else {
		result.Table = schema.TableName(chain[0].name, pivot)
	}
	result.Fillable = s.listProp(chain, "fillable")
	result.Hidden = s.listProp(chain, "hidden")

	keyName := "id"
	if v, ok := s.stringProp(chain, "primaryKey"); ok {
		keyName = v
	}
	keyType := "int"
	if v, ok := s.stringProp(chain, "keyType"); ok {
		keyType = v
	}
	incrementing := !pivot
	if v, ok := s.boolProp(chain, "incrementing"); ok {
		incrementing = v
	}
	if s.usesTrait(chain, "HasUuids") || s.usesTrait(chain, "HasUlids") {
		incrementing = false
	}
	if incrementing {
		result.Casts.Put(keyName, keyType)
	}
	for _, entry := range s.castsProp(chain) {
		result.Casts.Put(entry.field, entry.cast)
	}
	for _, decl := range chain {
		if decl.hasCasts {
			for _, entry := range decl.casts {
				result.Casts.Put(entry.field, entry.cast)
			}
			break
		}
	}
	if s.usesTrait(chain, "SoftDeletes") {
		column := "deleted_at"
		if v, ok := s.constant(chain, "DELETED_AT"); ok {
			column = v
		}
		if !result.Casts.Has(column) {
			result.Casts.Put(column, "datetime")
		}
	}
	return result, nil
}

// prop returns the nearest declaration of a property along the chain.
func (s *StaticInspector) prop(chain []*declaration, name string) (*declaration, phpast.NodeID) {
	for _, decl := range chain {
		if value, ok := decl.props[name]; ok {
			return decl, value
		}
	}
	return nil, phpast.NoNode
}

func (s *StaticInspector) stringProp(chain []*declaration, name string) (string, bool) {
	decl, value := s.prop(chain, name)
	if decl == nil {
		return "", false
	}
	return decl.tree.StringValue(value)
}

func (s *StaticInspector) listProp(chain []*declaration, name string) []string {
	decl, value := s.prop(chain, name)
	if decl == nil {
		return nil
	}
	return decl.tree.ArrayStrings(value)
}

func (s *StaticInspector) boolProp(chain []*declaration, name string) (bool, bool) {
	decl, value := s.prop(chain, name)
	if decl == nil || decl.tree.Node(value).Kind != phpast.KindName {
		return false, false
	}
	switch strings.ToLower(decl.tree.Node(value).Name) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func (s *StaticInspector) castsProp(chain []*declaration) []castEntry {
	decl, value := s.prop(chain, "casts")
	if decl == nil {
		return nil
	}
	return decl.castMap(value)
}

func (s *StaticInspector) constant(chain []*declaration, name string) (string, bool) {
	for _, decl := range chain {
		if value, ok := decl.consts[name]; ok {
			return decl.tree.StringValue(value)
		}
	}
	return "", false
}

func (s *StaticInspector) usesTrait(chain []*declaration, short string) bool {
	for _, decl := range chain {
		for _, trait := range decl.traits {
			if strings.EqualFold(config.ShortName(trait), short) {
				return true
			}
		}
	}
	return false
}
