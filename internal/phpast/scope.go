package phpast

import "strings"

// Scope resolves class names the way PHP does inside one file: import aliases
// first, then the current namespace.
type Scope struct {
	Namespace string
	imports   map[string]string
	aliases   map[string]string
}

// NewScope builds the scope of the first namespace of a parsed file.
func NewScope(tree *Tree) *Scope {
	return NewScopeWith(tree.Namespace(tree.Root()), tree.Imports())
}

// NewScopeWith builds a scope from an explicit alias table keyed by alias.
func NewScopeWith(namespace string, imports map[string]string) *Scope {
	s := &Scope{
		Namespace: strings.Trim(namespace, `\`),
		imports:   make(map[string]string, len(imports)),
		aliases:   make(map[string]string, len(imports)),
	}
	for alias, name := range imports {
		s.imports[strings.ToLower(alias)] = strings.TrimPrefix(name, `\`)
		s.aliases[strings.ToLower(alias)] = alias
	}
	return s
}

// Resolve returns the fully qualified form of name without a leading separator.
// Qualified names are returned as written.
func (s *Scope) Resolve(name string) string {
	name = strings.TrimPrefix(name, `\`)
	if name == "" || strings.Contains(name, `\`) {
		return name
	}
	if s == nil {
		return name
	}
	if full, ok := s.imports[strings.ToLower(name)]; ok {
		return full
	}
	switch strings.ToLower(name) {
	case "self", "static", "parent":
		return name
	}
	if s.Namespace == "" {
		return name
	}
	return s.Namespace + `\` + name
}

// AliasOf returns the local alias under which a fully qualified class is
// imported.
func (s *Scope) AliasOf(fqn string) (string, bool) {
	if s == nil {
		return "", false
	}
	fqn = strings.TrimPrefix(fqn, `\`)
	for alias, full := range s.imports {
		if strings.EqualFold(full, fqn) {
			return s.aliases[alias], true
		}
	}
	return "", false
}
