// Package report computes the drift between the schema and the models, their
// documentation and the resource forms.
package report

import (
	"strings"

	"resource-checker/internal/config"
	"resource-checker/internal/phpdoc"
	"resource-checker/internal/schema"
)

// Fields is a set of fields keyed by name.
type Fields = schema.Collection[schema.Field]

// TableFields maps a table to the fields affected in it.
type TableFields = schema.Collection[Fields]

// WrongType is a documented property whose type disagrees with the schema.
type WrongType struct {
	FieldName        string `json:"field_name" yaml:"field_name"`
	ExpectedType     string `json:"expected_type" yaml:"expected_type"`
	ActualType       string `json:"actual_type" yaml:"actual_type"`
	ExpectedNullable bool   `json:"expected_nullable" yaml:"expected_nullable"`
	ActualNullable   bool   `json:"actual_nullable" yaml:"actual_nullable"`
}

// WrongName is a relationship method that is not camel case.
type WrongName struct {
	RelationshipName string `json:"relationship_name" yaml:"relationship_name"`
	ExpectedName     string `json:"expected_name" yaml:"expected_name"`
}

// Report lists every drift category. Tables appear in record order and only
// when they have at least one entry.
type Report struct {
	AddFieldsToFilamentForm         TableFields                                    `json:"add_fields_to_filament_form" yaml:"add_fields_to_filament_form"`
	RemoveFieldsFromFilamentForm    TableFields                                    `json:"remove_fields_from_filament_form" yaml:"remove_fields_from_filament_form"`
	AddFilamentResources            []string                                       `json:"add_filament_resources" yaml:"add_filament_resources"`
	RemoveFilamentResources         []string                                       `json:"remove_filament_resources" yaml:"remove_filament_resources"`
	AddFieldsToModels               TableFields                                    `json:"add_fields_to_models" yaml:"add_fields_to_models"`
	RemoveFieldsFromModels          TableFields                                    `json:"remove_fields_from_models" yaml:"remove_fields_from_models"`
	AddModels                       []string                                       `json:"add_models" yaml:"add_models"`
	RemoveModels                    []string                                       `json:"remove_models" yaml:"remove_models"`
	AddFieldsToModelDocs            TableFields                                    `json:"add_fields_to_model_docs" yaml:"add_fields_to_model_docs"`
	RemoveFieldsFromModelDocs       TableFields                                    `json:"remove_fields_from_model_docs" yaml:"remove_fields_from_model_docs"`
	WrongModelDocTypes              schema.Collection[schema.Collection[WrongType]] `json:"wrong_model_doc_types" yaml:"wrong_model_doc_types"`
	ShouldBeCamelCasePhpdocProperty TableFields                                    `json:"should_be_camel_case_phpdoc_property" yaml:"should_be_camel_case_phpdoc_property"`
	ShouldBeCamelCaseRelationship   schema.Collection[schema.Collection[WrongName]] `json:"should_be_camel_case_relationship" yaml:"should_be_camel_case_relationship"`
	AddPropertyRead                 TableFields                                    `json:"add_property_read" yaml:"add_property_read"`
}

// Generate computes the report from aggregated records alone.
func Generate(records []*schema.TableRecord, cfg *config.Config) *Report {
	r := &Report{
		AddFilamentResources:    []string{},
		RemoveFilamentResources: []string{},
		AddModels:               []string{},
		RemoveModels:            []string{},
	}
	for _, record := range records {
		table := record.Table
		if !cfg.IgnoredTable(table, config.ComponentResources) {
			r.resources(record, cfg)
		}
		if !cfg.IgnoredTable(table, config.ComponentModels) {
			r.models(record, cfg)
		}
		if !cfg.IgnoredTable(table, config.ComponentPhpDoc) {
			r.docs(record, cfg)
		}
	}
	return r
}

func (r *Report) resources(record *schema.TableRecord, cfg *config.Config) {
	var add, remove Fields
	for name, field := range record.SchemaFields.All() {
		if !record.FormFields.Has(name) && !cfg.IgnoredField(name, config.ComponentResources) {
			add.Put(name, field)
		}
	}
	for name, field := range record.FormFields.All() {
		if !record.SchemaFields.Has(name) && !cfg.IgnoredField(name, config.ComponentResources) {
			remove.Put(name, field)
		}
	}
	put(&r.AddFieldsToFilamentForm, record.Table, add)
	put(&r.RemoveFieldsFromFilamentForm, record.Table, remove)
	if record.FormFields.IsEmpty() {
		r.AddFilamentResources = append(r.AddFilamentResources, record.Table)
	}
}

func (r *Report) models(record *schema.TableRecord, cfg *config.Config) {
	var add, remove Fields
	for name, field := range record.SchemaFields.All() {
		if !record.ModelFields.Has(name) && !cfg.IgnoredField(name, config.ComponentModels) {
			add.Put(name, field)
		}
	}
	for name, field := range record.ModelFields.All() {
		if record.SchemaFields.Has(name) || cfg.IgnoredField(name, config.ComponentModels) {
			continue
		}
		typ := field.Cast
		if typ == "" {
			typ = config.TypeMixed
		}
		remove.Put(name, schema.Field{Name: name, Type: typ})
	}
	put(&r.AddFieldsToModels, record.Table, add)
	put(&r.RemoveFieldsFromModels, record.Table, remove)
	if record.ModelFields.IsEmpty() {
		r.AddModels = append(r.AddModels, record.Table)
	}
}

func (r *Report) docs(record *schema.TableRecord, cfg *config.Config) {
	var add, remove, camel, read Fields
	var wrong schema.Collection[WrongType]
	var names schema.Collection[WrongName]

	for name, field := range record.SchemaFields.All() {
		if !record.DocFields.Has(name) && !cfg.IgnoredField(name, config.ComponentPhpDoc) {
			add.Put(name, field)
		}
	}
	for name, doc := range record.DocFields.All() {
		if cfg.IgnoredField(name, config.ComponentPhpDoc) {
			continue
		}
		field, ok := record.SchemaFields.Get(name)
		if !ok {
			remove.Put(name, schema.Field{Name: name, Type: doc.Type, Nullable: doc.Nullable})
			continue
		}
		if w, ok := wrongType(record, field, doc, cfg); ok {
			wrong.Put(name, w)
		}
	}
	for name, doc := range record.DocReadFields.All() {
		rel, ok := record.Relationships.Get(name)
		if ok && doc.Type != rel.Related {
			camel.Put(name, schema.Field{Name: name, Type: doc.Type, Nullable: doc.Nullable})
		}
	}
	for name, rel := range record.Relationships.All() {
		if strings.Contains(name, "_") {
			if expected := schema.Camel(name); expected != name {
				names.Put(name, WrongName{RelationshipName: name, ExpectedName: expected})
			}
		}
		if !record.DocReadFields.Has(name) {
			read.Put(name, schema.Field{Name: name, Type: rel.ReadType(cfg.Collection())})
		}
	}
	put(&r.AddFieldsToModelDocs, record.Table, add)
	put(&r.RemoveFieldsFromModelDocs, record.Table, remove)
	put(&r.WrongModelDocTypes, record.Table, wrong)
	put(&r.ShouldBeCamelCasePhpdocProperty, record.Table, camel)
	put(&r.ShouldBeCamelCaseRelationship, record.Table, names)
	put(&r.AddPropertyRead, record.Table, read)
}

// wrongType compares a documented property with the type its cast, or else its
// schema column, implies.
func wrongType(record *schema.TableRecord, field schema.Field, doc schema.DocField, cfg *config.Config) (WrongType, bool) {
	var cast string
	if mf, ok := record.ModelFields.Get(field.Name); ok {
		cast = mf.Cast
	}
	expected := cfg.NormalizeType(field.Type)
	if cast != "" {
		expected = cfg.CastType(cast)
	}
	actual := doc.Type
	if doc.Container != "" && doc.Container != phpdoc.ContainerNone {
		actual = doc.ContainerType
	}
	if actual == config.TypeMixed && cast == "array" {
		actual = "array"
	}
	if actual == expected && doc.Nullable == field.Nullable {
		return WrongType{}, false
	}
	return WrongType{
		FieldName:        field.Name,
		ExpectedType:     expected,
		ActualType:       actual,
		ExpectedNullable: field.Nullable,
		ActualNullable:   doc.Nullable,
	}, true
}

func put[T any](c *schema.Collection[schema.Collection[T]], table string, items schema.Collection[T]) {
	if !items.IsEmpty() {
		c.Put(table, items)
	}
}

// Count is the number of entries of one category.
type Count struct {
	Category string
	Tables   int
	Entries  int
}

// Summary counts every category in report order.
func (r *Report) Summary() []Count {
	return []Count{
		tableCount("add_fields_to_filament_form", &r.AddFieldsToFilamentForm),
		tableCount("remove_fields_from_filament_form", &r.RemoveFieldsFromFilamentForm),
		{Category: "add_filament_resources", Tables: len(r.AddFilamentResources), Entries: len(r.AddFilamentResources)},
		{Category: "remove_filament_resources", Tables: len(r.RemoveFilamentResources), Entries: len(r.RemoveFilamentResources)},
		tableCount("add_fields_to_models", &r.AddFieldsToModels),
		tableCount("remove_fields_from_models", &r.RemoveFieldsFromModels),
		{Category: "add_models", Tables: len(r.AddModels), Entries: len(r.AddModels)},
		{Category: "remove_models", Tables: len(r.RemoveModels), Entries: len(r.RemoveModels)},
		tableCount("add_fields_to_model_docs", &r.AddFieldsToModelDocs),
		tableCount("remove_fields_from_model_docs", &r.RemoveFieldsFromModelDocs),
		tableCount("wrong_model_doc_types", &r.WrongModelDocTypes),
		tableCount("should_be_camel_case_phpdoc_property", &r.ShouldBeCamelCasePhpdocProperty),
		tableCount("should_be_camel_case_relationship", &r.ShouldBeCamelCaseRelationship),
		tableCount("add_property_read", &r.AddPropertyRead),
	}
}

func tableCount[T any](category string, c *schema.Collection[schema.Collection[T]]) Count {
	count := Count{Category: category, Tables: c.Len()}
	for _, items := range c.All() {
		count.Entries += items.Len()
	}
	return count
}
