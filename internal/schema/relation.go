package schema

import "strings"

// Relation builder methods.
var (
	singularRelations = map[string]bool{
		"belongsto":     true,
		"hasone":        true,
		"morphto":       true,
		"morphone":      true,
		"hasonethrough": true,
	}
	pluralRelations = map[string]bool{
		"hasmany":        true,
		"belongstomany":  true,
		"morphmany":      true,
		"morphtomany":    true,
		"morphedbymany":  true,
		"hasmanythrough": true,
	}
)

// IsRelationKind reports whether method builds a relationship.
func IsRelationKind(method string) bool {
	m := strings.ToLower(method)
	return singularRelations[m] || pluralRelations[m]
}

// ReadType returns the @property-read type documenting a relationship: an optional
// reference for singular relations, a collection for plural ones, mixed otherwise.
func (r Relationship) ReadType(collection string) string {
	related := `\` + strings.TrimPrefix(r.Related, `\`)
	kind := strings.ToLower(r.Kind)
	switch {
	case r.Related == "":
		return "mixed"
	case singularRelations[kind]:
		return "?" + related
	case pluralRelations[kind]:
		return `\` + strings.TrimPrefix(collection, `\`) + "<int, " + related + ">"
	}
	return "mixed"
}
