package schema

// Field is a column as seen by the schema or by a form.
type Field struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Nullable bool   `json:"nullable" yaml:"nullable"`
}

// ModelField is an attribute declared on a model class. Cast is empty when the
// attribute has no cast.
type ModelField struct {
	Name     string `json:"name" yaml:"name"`
	Cast     string `json:"cast,omitempty" yaml:"cast,omitempty"`
	Fillable bool   `json:"fillable" yaml:"fillable"`
	Hidden   bool   `json:"hidden" yaml:"hidden"`
}

// DocField is a documented @property. For container types Type holds the
// element type.
type DocField struct {
	Name          string `json:"name" yaml:"name"`
	Type          string `json:"type" yaml:"type"`
	Nullable      bool   `json:"nullable" yaml:"nullable"`
	Container     string `json:"container" yaml:"container"`
	ContainerType string `json:"container_type,omitempty" yaml:"container_type,omitempty"`
	KeyType       string `json:"key_type,omitempty" yaml:"key_type,omitempty"`
}

// Relationship is a relation method of a model.
type Relationship struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Type    string `json:"type" yaml:"type"`
	Related string `json:"related" yaml:"related"`
}

// Table is the schema of one table.
type Table struct {
	Name    string
	Columns Collection[Field]
}

// Column is one row of live introspection output.
type Column struct {
	Name       string
	DataType   string
	IsNullable bool
}

// TableRecord joins everything known about one table.
type TableRecord struct {
	Table         string                   `json:"-" yaml:"-"`
	SchemaFields  Collection[Field]        `json:"schema_fields" yaml:"schema_fields"`
	ModelFields   Collection[ModelField]   `json:"model_fields" yaml:"model_fields"`
	FormFields    Collection[Field]        `json:"form_fields" yaml:"form_fields"`
	DocFields     Collection[DocField]     `json:"doc_fields" yaml:"doc_fields"`
	DocReadFields Collection[DocField]     `json:"doc_read_fields" yaml:"doc_read_fields"`
	Relationships Collection[Relationship] `json:"relationships" yaml:"relationships"`
	ModelClass    string                   `json:"model_class,omitempty" yaml:"model_class,omitempty"`
	ModelFile     string                   `json:"model_file,omitempty" yaml:"model_file,omitempty"`
	ResourceFile  string                   `json:"resource_file,omitempty" yaml:"resource_file,omitempty"`
	FormFiles     []string                 `json:"form_files,omitempty" yaml:"form_files,omitempty"`
}

// ModelFacts is what the model extractor learns from one model file.
type ModelFacts struct {
	Table         string
	Class         string
	File          string
	Fields        Collection[ModelField]
	DocFields     Collection[DocField]
	DocReadFields Collection[DocField]
	Relationships Collection[Relationship]
}

// FormFacts is what the form extractor learns from one resource.
type FormFacts struct {
	Table        string
	ResourceFile string
	FormFiles    []string
	Fields       Collection[Field]
}
