package config

import "strings"

// ColumnType returns the type tag for a blueprint column method.
func (c *Config) ColumnType(method string) (string, bool) {
	if c == nil {
		return "", false
	}
	return lookup(c.ColumnTypeMappings, method)
}

// IsColumnMethod reports whether method declares a named column.
func (c *Config) IsColumnMethod(method string) bool {
	_, ok := c.ColumnType(method)
	return ok
}

// NativeType maps a database native type onto a type tag, defaulting to mixed.
func (c *Config) NativeType(native string) string {
	if c == nil {
		return TypeMixed
	}
	if v, ok := lookup(c.NativeTypeMappings, native); ok {
		return v
	}
	return TypeMixed
}

// NormalizeType maps a schema type tag onto the documented type expected for it.
func (c *Config) NormalizeType(schemaType string) string {
	if c == nil {
		return schemaType
	}
	if v, ok := lookup(c.TypeNormalizations, schemaType); ok {
		return v
	}
	return schemaType
}

// CastType maps a model cast onto the documented type expected for it. Parameterised
// casts such as decimal:2 fall back to their prefix.
func (c *Config) CastType(cast string) string {
	if c == nil {
		return cast
	}
	if v, ok := lookup(c.CastTypeMappings, cast); ok {
		return v
	}
	if i := strings.Index(cast, ":"); i > 0 {
		if v, ok := lookup(c.CastTypeMappings, cast[:i]); ok {
			return v
		}
	}
	return strings.TrimPrefix(cast, `\`)
}

// DocTypeAlias rewrites a type tag for use in a documentation line.
func (c *Config) DocTypeAlias(typ string) string {
	if c == nil {
		return typ
	}
	if v, ok := lookup(c.DocTypeAliases, typ); ok {
		return v
	}
	return typ
}

// IsFormComponent reports whether a class, given raw or resolved, is a recognised
// form component. Short names match the trailing segment of a configured class.
func (c *Config) IsFormComponent(raw, resolved string) bool {
	if c == nil {
		return false
	}
	short := ShortName(raw)
	for _, class := range c.FormComponentClasses {
		class = strings.TrimPrefix(class, `\`)
		if strings.EqualFold(class, strings.TrimPrefix(raw, `\`)) || strings.EqualFold(class, resolved) {
			return true
		}
		if strings.EqualFold(ShortName(class), short) {
			return true
		}
	}
	return false
}

// ComponentType infers the field type for a form component. The fully qualified name
// wins, then the short name, then string.
func (c *Config) ComponentType(resolved string) string {
	if c != nil {
		if v, ok := lookup(c.ComponentTypeMap, resolved); ok {
			return v
		}
		if v, ok := lookup(c.ComponentTypeMap, ShortName(resolved)); ok {
			return v
		}
		short := ShortName(resolved)
		for k, v := range c.ComponentTypeMap {
			if strings.EqualFold(ShortName(k), short) {
				return v
			}
		}
	}
	return "string"
}

// IsRequiredMethod reports whether a chained call marks a component as required.
func (c *Config) IsRequiredMethod(method string) bool {
	return c != nil && contains(c.RequiredMethods, method)
}

// Component returns the fully qualified form component used for a field type.
func (c *Config) Component(typ string) string {
	if c == nil {
		return `Filament\Forms\Components\TextInput`
	}
	if v, ok := lookup(c.ComponentMappings, typ); ok {
		return strings.TrimPrefix(v, `\`)
	}
	if c.ComponentDefault != "" {
		return strings.TrimPrefix(c.ComponentDefault, `\`)
	}
	return `Filament\Forms\Components\TextInput`
}

// IsNumeric reports whether a field type gets a numeric form component.
func (c *Config) IsNumeric(typ string) bool {
	return c != nil && contains(c.NumericTypes, typ)
}

// IsFormArrayMethod reports whether method receives the list of form components.
func (c *Config) IsFormArrayMethod(method string) bool {
	if c == nil || len(c.FormArrayMethods) == 0 {
		return strings.EqualFold(method, "components")
	}
	return contains(c.FormArrayMethods, method)
}

// IsReadonlyField reports whether a field is managed by the framework.
func (c *Config) IsReadonlyField(name string) bool {
	return c != nil && contains(c.ReadonlyFields, name)
}

// IgnoredTable reports whether a table is excluded from a component's checks.
func (c *Config) IgnoredTable(table, component string) bool {
	if c == nil {
		return false
	}
	return contains(c.IgnoredTables[strings.ToLower(table)], component)
}

// IgnoredField reports whether a field is excluded from a component's checks.
func (c *Config) IgnoredField(field, component string) bool {
	if c == nil {
		return false
	}
	return contains(c.IgnoredFields[strings.ToLower(field)], component)
}

// IsModelBase reports whether class is one of the framework model base classes.
func (c *Config) IsModelBase(class string) bool {
	return c != nil && contains(c.ModelBaseClasses, class)
}

// Collection returns the collection class used for plural relationships.
func (c *Config) Collection() string {
	if c == nil || c.CollectionClass == "" {
		return `Illuminate\Database\Eloquent\Collection`
	}
	return strings.TrimPrefix(c.CollectionClass, `\`)
}

// ShortName returns the trailing segment of a namespaced class name.
func ShortName(class string) string {
	if i := strings.LastIndex(class, `\`); i >= 0 {
		return class[i+1:]
	}
	return class
}
