package config

import (
	"strings"
)

// Components that can be named in ignore lists.
const (
	ComponentResources = "resources"
	ComponentModels    = "models"
	ComponentPhpDoc    = "phpdoc"
)

// TypeMixed is the neutral type tag used whenever a lookup misses.
const TypeMixed = "mixed"

// Config holds every mapping table the extractors, the report and the fixers consult.
// Map keys are matched case-insensitively; viper lower-cases keys on load and PHP
// method and class names are case-insensitive anyway.
type Config struct {
	ModelsPath     string `mapstructure:"models_path" yaml:"models_path"`
	MigrationsPath string `mapstructure:"migrations_path" yaml:"migrations_path"`
	ResourcesPath  string `mapstructure:"resources_path" yaml:"resources_path"`

	// ColumnTypeMappings maps a blueprint column method to a type tag.
	ColumnTypeMappings map[string]string `mapstructure:"column_type_mappings" yaml:"column_type_mappings"`
	// NativeTypeMappings maps a database native type to a type tag.
	NativeTypeMappings map[string]string `mapstructure:"native_type_mappings" yaml:"native_type_mappings"`
	// TypeNormalizations maps a schema type tag to the expected documented type.
	TypeNormalizations map[string]string `mapstructure:"type_normalizations" yaml:"type_normalizations"`
	// CastTypeMappings maps a model cast to the expected documented type.
	CastTypeMappings map[string]string `mapstructure:"cast_type_mappings" yaml:"cast_type_mappings"`
	// DocTypeAliases rewrites type tags when they are written into documentation.
	DocTypeAliases map[string]string `mapstructure:"doc_type_aliases" yaml:"doc_type_aliases"`

	FormComponentClasses []string          `mapstructure:"form_component_classes" yaml:"form_component_classes"`
	ComponentTypeMap     map[string]string `mapstructure:"resource_component_type_map" yaml:"resource_component_type_map"`
	RequiredMethods      []string          `mapstructure:"resource_component_required_methods" yaml:"resource_component_required_methods"`
	ComponentDefault     string            `mapstructure:"resource_component_default" yaml:"resource_component_default"`
	ComponentMappings    map[string]string `mapstructure:"resource_component_mappings" yaml:"resource_component_mappings"`
	NumericTypes         []string          `mapstructure:"resource_numeric_types" yaml:"resource_numeric_types"`
	FormArrayMethods     []string          `mapstructure:"form_array_methods" yaml:"form_array_methods"`
	ReadonlyFields       []string          `mapstructure:"readonly_fields" yaml:"readonly_fields"`

	IgnoredTables map[string][]string `mapstructure:"ignored_tables" yaml:"ignored_tables"`
	IgnoredFields map[string][]string `mapstructure:"ignored_fields" yaml:"ignored_fields"`

	ModelBaseClasses []string `mapstructure:"model_base_classes" yaml:"model_base_classes"`
	CollectionClass  string   `mapstructure:"collection_class" yaml:"collection_class"`
}

// Default returns the Laravel / Filament conventions.
func Default() *Config {
	cfg := &Config{
		ModelsPath:     "app/Models",
		MigrationsPath: "database/migrations",
		ResourcesPath:  "app/Filament/Resources",
		ColumnTypeMappings: map[string]string{
			"id":                   "int",
			"increments":           "int",
			"bigIncrements":        "int",
			"integer":              "int",
			"bigInteger":           "int",
			"mediumInteger":        "int",
			"smallInteger":         "int",
			"tinyInteger":          "int",
			"unsignedInteger":      "int",
			"unsignedBigInteger":   "int",
			"unsignedSmallInteger": "int",
			"unsignedTinyInteger":  "int",
			"foreignId":            "int",
			"year":                 "int",
			"boolean":              "bool",
			"string":               "string",
			"char":                 "string",
			"text":                 "string",
			"mediumText":           "string",
			"longText":             "string",
			"tinyText":             "string",
			"enum":                 "string",
			"uuid":                 "string",
			"foreignUuid":          "string",
			"ulid":                 "string",
			"foreignUlid":          "string",
			"ipAddress":            "string",
			"macAddress":           "string",
			"binary":               "string",
			"time":                 "string",
			"timeTz":               "string",
			"decimal":              "float",
			"float":                "float",
			"double":               "float",
			"json":                 "array",
			"jsonb":                "array",
			"date":                 "Carbon",
			"dateTime":             "Carbon",
			"dateTimeTz":           "Carbon",
			"timestamp":            "Carbon",
			"timestampTz":          "Carbon",
		},
		NativeTypeMappings: map[string]string{
			"string":    "string",
			"varchar":   "string",
			"char":      "string",
			"text":      "string",
			"uuid":      "string",
			"integer":   "int",
			"int":       "int",
			"bigint":    "int",
			"smallint":  "int",
			"tinyint":   "int",
			"boolean":   "bool",
			"bool":      "bool",
			"decimal":   "float",
			"numeric":   "float",
			"float":     "float",
			"double":    "float",
			"datetime":  "Carbon",
			"timestamp": "Carbon",
			"date":      "Carbon",
			"time":      "string",
			"json":      "array",
			"jsonb":     "array",
			"binary":    "string",
			"blob":      "string",
		},
		TypeNormalizations: map[string]string{
			"Carbon": `Illuminate\Support\Carbon`,
		},
		CastTypeMappings: map[string]string{
			"int":                `int`,
			"integer":            `int`,
			"bool":               `bool`,
			"boolean":            `bool`,
			"float":              `float`,
			"double":             `float`,
			"real":               `float`,
			"decimal":            `string`,
			"string":             `string`,
			"hashed":             `string`,
			"encrypted":          `string`,
			"array":              `array`,
			"json":               `array`,
			"object":             `object`,
			"collection":         `Illuminate\Support\Collection`,
			"date":               `Illuminate\Support\Carbon`,
			"datetime":           `Illuminate\Support\Carbon`,
			"timestamp":          `int`,
			"immutable_date":     `Carbon\CarbonImmutable`,
			"immutable_datetime": `Carbon\CarbonImmutable`,
		},
		DocTypeAliases: map[string]string{
			"Carbon": `Illuminate\Support\Carbon`,
		},
		FormComponentClasses: []string{
			`Filament\Forms\Components\TextInput`,
			`Filament\Forms\Components\Textarea`,
			`Filament\Forms\Components\Select`,
			`Filament\Forms\Components\Toggle`,
			`Filament\Forms\Components\Checkbox`,
			`Filament\Forms\Components\DatePicker`,
			`Filament\Forms\Components\DateTimePicker`,
			`Filament\Forms\Components\TimePicker`,
			`Filament\Forms\Components\FileUpload`,
			`Filament\Forms\Components\RichEditor`,
			`Filament\Forms\Components\MarkdownEditor`,
			`Filament\Forms\Components\KeyValue`,
			`Filament\Forms\Components\TagsInput`,
			`Filament\Forms\Components\ColorPicker`,
			`Filament\Forms\Components\Radio`,
			`Filament\Forms\Components\Hidden`,
		},
		ComponentTypeMap: map[string]string{
			`Filament\Forms\Components\Toggle`:         "bool",
			`Filament\Forms\Components\Checkbox`:       "bool",
			`Filament\Forms\Components\DatePicker`:     "Carbon",
			`Filament\Forms\Components\DateTimePicker`: "Carbon",
			`Filament\Forms\Components\KeyValue`:       "array",
			`Filament\Forms\Components\TagsInput`:      "array",
		},
		RequiredMethods:  []string{"required"},
		ComponentDefault: `Filament\Forms\Components\TextInput`,
		ComponentMappings: map[string]string{
			"bool":  `Filament\Forms\Components\Toggle`,
			"array": `Filament\Forms\Components\KeyValue`,
		},
		NumericTypes:     []string{"int", "integer"},
		FormArrayMethods: []string{"components", "schema"},
		ReadonlyFields:   []string{"id", "created_at", "updated_at", "deleted_at"},
		IgnoredTables: map[string][]string{
			"migrations":             {ComponentResources, ComponentModels, ComponentPhpDoc},
			"password_reset_tokens":  {ComponentResources, ComponentModels, ComponentPhpDoc},
			"sessions":               {ComponentResources, ComponentModels, ComponentPhpDoc},
			"cache":                  {ComponentResources, ComponentModels, ComponentPhpDoc},
			"cache_locks":            {ComponentResources, ComponentModels, ComponentPhpDoc},
			"jobs":                   {ComponentResources, ComponentModels, ComponentPhpDoc},
			"job_batches":            {ComponentResources, ComponentModels, ComponentPhpDoc},
			"failed_jobs":            {ComponentResources, ComponentModels, ComponentPhpDoc},
			"personal_access_tokens": {ComponentResources, ComponentModels, ComponentPhpDoc},
		},
		IgnoredFields: map[string][]string{
			"id":             {ComponentModels},
			"created_at":     {ComponentModels},
			"updated_at":     {ComponentModels},
			"deleted_at":     {ComponentModels},
			"remember_token": {ComponentResources},
		},
		ModelBaseClasses: []string{
			`Illuminate\Database\Eloquent\Model`,
			`Illuminate\Foundation\Auth\User`,
			`Illuminate\Database\Eloquent\Relations\Pivot`,
			`Illuminate\Database\Eloquent\Relations\MorphPivot`,
		},
		CollectionClass: `Illuminate\Database\Eloquent\Collection`,
	}
	cfg.Normalize()
	return cfg
}

// Normalize lower-cases every lookup key so that lookups do not depend on how the
// configuration was loaded.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.ColumnTypeMappings = lowerKeys(c.ColumnTypeMappings)
	c.NativeTypeMappings = lowerKeys(c.NativeTypeMappings)
	c.TypeNormalizations = lowerKeys(c.TypeNormalizations)
	c.CastTypeMappings = lowerKeys(c.CastTypeMappings)
	c.DocTypeAliases = lowerKeys(c.DocTypeAliases)
	c.ComponentTypeMap = lowerKeys(c.ComponentTypeMap)
	c.ComponentMappings = lowerKeys(c.ComponentMappings)
	c.IgnoredTables = lowerListKeys(c.IgnoredTables)
	c.IgnoredFields = lowerListKeys(c.IgnoredFields)
}

func lowerKeys(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(strings.TrimPrefix(k, `\`))] = v
	}
	return out
}

func lowerListKeys(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func lookup(m map[string]string, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[strings.ToLower(strings.TrimPrefix(key, `\`))]
	return v, ok
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimPrefix(item, `\`), strings.TrimPrefix(value, `\`)) {
			return true
		}
	}
	return false
}
