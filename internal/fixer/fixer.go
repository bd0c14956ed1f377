// Package fixer rewrites model and form sources to resolve report entries. Every
// fixer reads a file once, edits it in memory and writes it back only when
// something changed. Failures are reported per file and never stop other files.
package fixer

import (
	"context"
	"fmt"
	"log"

	"resource-checker/internal/config"
	"resource-checker/internal/form"
	"resource-checker/internal/phpdoc"
	"resource-checker/internal/report"
	"resource-checker/internal/schema"
)

// Fix names, matching the check command flags without their prefix.
const (
	MissingProperties    = "missing-properties"
	MissingPropertyRead  = "missing-property-read"
	WrongPropertyRead    = "wrong-property-read"
	WrongModelDocTypes   = "wrong-model-doc-types"
	WrongRelationships   = "wrong-relationship-names"
	AddFieldsToResources = "add-fields-to-resources"
)

// Order is the order in which enabled fixes run.
var Order = []string{
	MissingProperties,
	MissingPropertyRead,
	WrongPropertyRead,
	WrongModelDocTypes,
	WrongRelationships,
	AddFieldsToResources,
}

// Store reads and writes source files.
type Store interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}

// Result is one rewritten file.
type Result struct {
	Fix     string `json:"fix" yaml:"fix"`
	File    string `json:"file" yaml:"file"`
	Changes int    `json:"changes" yaml:"changes"`
}

type Fixer struct {
	cfg     *config.Config
	store   Store
	records []*schema.TableRecord
	byTable map[string]*schema.TableRecord

	Results  []Result
	Warnings []schema.Warning
}

func New(cfg *config.Config, store Store, records []*schema.TableRecord) *Fixer {
	byTable := make(map[string]*schema.TableRecord, len(records))
	for _, r := range records {
		byTable[r.Table] = r
	}
	return &Fixer{cfg: cfg, store: store, records: records, byTable: byTable}
}

// Run applies the named fixes in Order.
func (f *Fixer) Run(ctx context.Context, rep *report.Report, fixes map[string]bool) {
	for _, name := range Order {
		if !fixes[name] {
			continue
		}
		switch name {
		case MissingProperties:
			f.MissingProperties(ctx, rep)
		case MissingPropertyRead:
			f.MissingPropertyRead(ctx, rep)
		case WrongPropertyRead:
			f.WrongPropertyRead(ctx)
		case WrongModelDocTypes:
			f.WrongModelDocTypes(ctx, rep)
		case WrongRelationships:
			f.WrongRelationshipNames(ctx, rep)
		case AddFieldsToResources:
			f.AddFieldsToResources(ctx, rep)
		}
	}
}

// MissingProperties documents the schema fields a model doc comment lacks.
func (f *Fixer) MissingProperties(ctx context.Context, rep *report.Report) {
	for table, fields := range rep.AddFieldsToModelDocs.All() {
		path, ok := f.modelFile(table)
		if !ok {
			continue
		}
		var lines []string
		for _, field := range fields.Values() {
			typ := phpdoc.FormatType(f.cfg.DocTypeAlias(field.Type), field.Nullable)
			lines = append(lines, phpdoc.PropertyLine(phpdoc.TagProperty, typ, field.Name))
		}
		f.apply(ctx, MissingProperties, path, func(src []byte) ([]byte, int, error) {
			return AddProperties(src, lines)
		})
	}
}

// MissingPropertyRead documents relationships as read-only properties.
func (f *Fixer) MissingPropertyRead(ctx context.Context, rep *report.Report) {
	for table, fields := range rep.AddPropertyRead.All() {
		path, ok := f.modelFile(table)
		if !ok {
			continue
		}
		var lines []string
		for _, field := range fields.Values() {
			lines = append(lines, phpdoc.PropertyLine(phpdoc.TagPropertyRead, field.Type, field.Name))
		}
		f.apply(ctx, MissingPropertyRead, path, func(src []byte) ([]byte, int, error) {
			return AddProperties(src, lines)
		})
	}
}

// WrongPropertyRead renames read-only properties that are not camel case to the
// relationship they document. Every model with relationships is visited.
func (f *Fixer) WrongPropertyRead(ctx context.Context) {
	for _, record := range f.records {
		if record.ModelFile == "" || record.Relationships.IsEmpty() {
			continue
		}
		rels := &record.Relationships
		f.apply(ctx, WrongPropertyRead, record.ModelFile, func(src []byte) ([]byte, int, error) {
			return RenameReadProperties(src, func(name string) (string, bool) {
				for rel := range rels.All() {
					if schema.Camel(name) == rel || schema.Snake(name) == rel {
						return rel, true
					}
				}
				return "", false
			})
		})
	}
}

// WrongModelDocTypes rewrites documented types to the expected ones.
func (f *Fixer) WrongModelDocTypes(ctx context.Context, rep *report.Report) {
	for table, wrong := range rep.WrongModelDocTypes.All() {
		path, ok := f.modelFile(table)
		if !ok {
			continue
		}
		types := make(map[string]string, wrong.Len())
		for name, w := range wrong.All() {
			types[name] = phpdoc.FormatType(f.cfg.DocTypeAlias(w.ExpectedType), w.ExpectedNullable)
		}
		f.apply(ctx, WrongModelDocTypes, path, func(src []byte) ([]byte, int, error) {
			return RetypeProperties(src, types)
		})
	}
}

// WrongRelationshipNames renames relationship methods to camel case.
func (f *Fixer) WrongRelationshipNames(ctx context.Context, rep *report.Report) {
	for table, wrong := range rep.ShouldBeCamelCaseRelationship.All() {
		path, ok := f.modelFile(table)
		if !ok {
			continue
		}
		names := make(map[string]string, wrong.Len())
		for _, w := range wrong.Values() {
			names[w.RelationshipName] = w.ExpectedName
		}
		f.apply(ctx, WrongRelationships, path, func(src []byte) ([]byte, int, error) {
			out, n := RenameMethods(src, names)
			return out, n, nil
		})
	}
}

// AddFieldsToResources adds missing fields, and the readonly fields the schema
// has, to the form schema of each resource.
func (f *Fixer) AddFieldsToResources(ctx context.Context, rep *report.Report) {
	for _, record := range f.records {
		if record.ResourceFile == "" {
			continue
		}
		var fields []schema.Field
		if add, ok := rep.AddFieldsToFilamentForm.Get(record.Table); ok {
			fields = append(fields, add.Values()...)
		}
		for _, name := range f.cfg.ReadonlyFields {
			if field, ok := record.SchemaFields.Get(name); ok {
				fields = append(fields, field)
			}
		}
		if len(fields) == 0 {
			continue
		}
		target := form.FormPath(record.ResourceFile)
		if len(record.FormFiles) > 0 {
			target = record.FormFiles[0]
		}
		f.apply(ctx, AddFieldsToResources, target, func(src []byte) ([]byte, int, error) {
			return AddFormFields(src, fields, f.cfg)
		})
	}
}

func (f *Fixer) modelFile(table string) (string, bool) {
	record, ok := f.byTable[table]
	if !ok || record.ModelFile == "" {
		log.Printf("Warning: model file for table %s not found", table)
		f.Warnings = append(f.Warnings, schema.Warning{
			Kind:    schema.WarningResolution,
			Message: fmt.Sprintf("model file for table %s not found", table),
		})
		return "", false
	}
	return record.ModelFile, true
}

// apply reads path, runs change and writes the result when it changed anything.
func (f *Fixer) apply(ctx context.Context, fix, path string, change func(src []byte) ([]byte, int, error)) {
	src, err := f.store.Read(ctx, path)
	if err != nil {
		f.warn(path, fmt.Errorf("%w: failed to read: %v", schema.ErrIO, err))
		return
	}
	out, n, err := change(src)
	if err != nil {
		f.warn(path, err)
		return
	}
	if n == 0 {
		return
	}
	if err := f.store.Write(ctx, path, out); err != nil {
		f.warn(path, fmt.Errorf("%w: failed to write: %v", schema.ErrIO, err))
		return
	}
	log.Printf("Fixed %d %s entries in %s", n, fix, path)
	f.Results = append(f.Results, Result{Fix: fix, File: path, Changes: n})
}

func (f *Fixer) warn(path string, err error) {
	log.Printf("Warning: failed to fix %s: %v", path, err)
	f.Warnings = append(f.Warnings, schema.NewWarning(path, err))
}
