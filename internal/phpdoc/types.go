package phpdoc

import (
	"strings"
)

// Container kinds of a documented type.
const (
	ContainerNone     = "none"
	ContainerList     = "list"
	ContainerKeyedMap = "keyed-map"
)

// Type is a decoded documentation type. For containers Name holds the element
// type and Container the kind of container.
type Type struct {
	Name          string
	Nullable      bool
	Container     string
	ContainerType string
	KeyType       string
}

var builtins = map[string]bool{
	"string": true, "bool": true, "boolean": true, "int": true, "integer": true, "float": true,
	"double": true, "mixed": true, "object": true, "array": true, "callable": true, "iterable": true,
	"void": true, "null": true, "resource": true, "true": true, "false": true, "self": true,
	"static": true, "$this": true, "list": true, "non-empty-array": true, "non-empty-list": true,
	"non-empty-string": true, "positive-int": true, "class-string": true, "array-key": true, "scalar": true,
}

var arrayLike = map[string]bool{
	"array": true, "list": true, "iterable": true, "non-empty-array": true, "non-empty-list": true,
}

// IsClassType reports whether a documented type names a class: qualified names
// and capitalised identifiers that are not builtin types.
func IsClassType(typ string) bool {
	if typ == "" || builtins[strings.ToLower(typ)] {
		return false
	}
	if strings.Contains(typ, `\`) {
		return true
	}
	return typ[0] >= 'A' && typ[0] <= 'Z'
}

// ParseType decodes nullability, containers and class names of a documented
// type. resolve maps a class name as written to its canonical form.
func ParseType(raw string, resolve func(string) string) Type {
	if resolve == nil {
		resolve = func(name string) string { return strings.TrimPrefix(name, `\`) }
	}
	result := Type{Container: ContainerNone}
	var members []string
	for _, member := range splitTop(strings.TrimSpace(raw), '|') {
		member = strings.TrimSpace(member)
		if strings.HasPrefix(member, "?") {
			result.Nullable = true
			member = strings.TrimSpace(member[1:])
		}
		if strings.EqualFold(member, "null") {
			result.Nullable = true
			continue
		}
		if member != "" {
			members = append(members, member)
		}
	}
	if len(members) == 0 {
		result.Name = "null"
		return result
	}
	if len(members) == 1 {
		return decodeContainer(result, members[0], resolve)
	}
	for i, member := range members {
		members[i] = resolveClass(member, resolve)
	}
	result.Name = strings.Join(members, "|")
	return result
}

func decodeContainer(result Type, typ string, resolve func(string) string) Type {
	switch {
	case strings.HasSuffix(typ, "[]"):
		result.Container = ContainerList
		result.ContainerType = "array"
		result.Name = resolveClass(strings.TrimSuffix(typ, "[]"), resolve)
		return result
	case strings.HasSuffix(typ, ">") && strings.Contains(typ, "<"):
		open := strings.Index(typ, "<")
		outer := strings.TrimSpace(typ[:open])
		args := splitTop(typ[open+1:len(typ)-1], ',')
		if arrayLike[strings.ToLower(outer)] {
			result.ContainerType = "array"
		} else {
			result.ContainerType = resolveClass(outer, resolve)
		}
		if len(args) >= 2 {
			result.Container = ContainerKeyedMap
			result.KeyType = strings.TrimSpace(args[0])
			result.Name = resolveClass(strings.TrimSpace(args[1]), resolve)
		} else {
			result.Container = ContainerList
			result.Name = resolveClass(strings.TrimSpace(args[0]), resolve)
		}
		return result
	}
	result.Name = resolveClass(typ, resolve)
	return result
}

func resolveClass(typ string, resolve func(string) string) string {
	if !IsClassType(strings.TrimPrefix(typ, `\`)) {
		return typ
	}
	return resolve(typ)
}

// splitTop splits s on sep outside of angle brackets, braces and parentheses.
func splitTop(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '{', '(':
			depth++
		case '>', '}', ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
