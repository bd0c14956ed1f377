// Package engine runs the checker pipeline: schema, models and forms are
// extracted, joined by table and diffed into a report.
package engine

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"resource-checker/internal/config"
	"resource-checker/internal/form"
	"resource-checker/internal/model"
	"resource-checker/internal/phpast"
	"resource-checker/internal/report"
	"resource-checker/internal/schema"
)

// Schema sources.
const (
	SourceDatabase   = "database"
	SourceMigrations = "migrations"
)

// Files lists and reads project sources.
type Files interface {
	List(ctx context.Context, dir, suffix string) ([]string, error)
	Read(ctx context.Context, path string) ([]byte, error)
}

// Discovery holds the files a run parses, each list sorted by path.
type Discovery struct {
	Migrations []string
	Models     []string
	Resources  []string
	Forms      []string
}

// Steps returns the number of progress ticks a run reports.
func (d *Discovery) Steps(withMigrations bool) int {
	n := len(d.Models) + len(d.Resources)
	if withMigrations {
		n += len(d.Migrations)
	}
	return n
}

// Result is everything a run learned.
type Result struct {
	Records      []*schema.TableRecord
	Report       *report.Report
	Warnings     []schema.Warning
	SchemaSource string
}

type Engine struct {
	cfg   *config.Config
	files Files
	root  string

	// Tables restricts records, and so the report, to the named tables.
	Tables []string

	warnings []schema.Warning
}

func New(cfg *config.Config, files Files, root string) *Engine {
	return &Engine{cfg: cfg, files: files, root: root}
}

func (e *Engine) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(e.root, filepath.FromSlash(rel))
}

// Discover finds migration, model, resource and form files.
func (e *Engine) Discover(ctx context.Context) (*Discovery, error) {
	var d Discovery
	var err error
	if d.Migrations, err = e.files.List(ctx, e.path(e.cfg.MigrationsPath), ".php"); err != nil {
		return nil, err
	}
	if d.Models, err = e.files.List(ctx, e.path(e.cfg.ModelsPath), ".php"); err != nil {
		return nil, err
	}
	resources, err := e.files.List(ctx, e.path(e.cfg.ResourcesPath), ".php")
	if err != nil {
		return nil, err
	}
	for _, p := range resources {
		slashed := filepath.ToSlash(p)
		switch {
		case form.IsResourceFile(slashed):
			d.Resources = append(d.Resources, p)
		case form.IsFormFile(slashed):
			d.Forms = append(d.Forms, p)
		}
	}
	return &d, nil
}

// Run executes the pipeline. The schema comes from in when it is not nil,
// otherwise from the migration files. onProgress is called once per processed
// file and may be nil.
func (e *Engine) Run(ctx context.Context, d *Discovery, in schema.Introspector, onProgress func()) (*Result, error) {
	if onProgress == nil {
		onProgress = func() {}
	}
	e.warnings = nil
	result := &Result{SchemaSource: SourceDatabase}

	var tables *schema.Collection[*schema.Table]
	if in != nil {
		var err error
		if tables, err = schema.ReadDatabase(ctx, in, e.cfg); err != nil {
			return nil, err
		}
	} else {
		result.SchemaSource = SourceMigrations
		tables = e.migrations(ctx, d.Migrations, onProgress)
	}

	agg := schema.NewAggregator()
	agg.AddSchema(tables)

	inspector := model.NewStaticInspector(e.cfg)
	trees := e.parseAll(ctx, d.Models)
	for _, p := range d.Models {
		if tree, ok := trees[p]; ok {
			inspector.Index(tree)
		}
	}

	forms := form.NewExtractor(e.cfg, inspector)
	for _, resource := range d.Resources {
		if facts, ok := e.form(ctx, forms, resource, d.Forms); ok {
			agg.AddForm(*facts)
		}
		onProgress()
	}

	models := model.NewExtractor(e.cfg, inspector)
	for _, p := range d.Models {
		if tree, ok := trees[p]; ok {
			if facts, ok := e.model(models, inspector, p, tree); ok {
				agg.AddModel(*facts)
			}
		}
		onProgress()
	}

	result.Records = e.filter(agg.Records())
	result.Report = report.Generate(result.Records, e.cfg)
	result.Warnings = e.warnings
	return result, nil
}

func (e *Engine) warn(file string, err error) {
	log.Printf("Warning: skipping %s: %v", file, err)
	e.warnings = append(e.warnings, schema.NewWarning(file, err))
}

func (e *Engine) parse(ctx context.Context, file string) (*phpast.Tree, bool) {
	src, err := e.files.Read(ctx, file)
	if err != nil {
		e.warn(file, err)
		return nil, false
	}
	tree, err := phpast.Parse(src)
	if err != nil {
		e.warn(file, fmt.Errorf("%w: %v", schema.ErrParse, err))
		return nil, false
	}
	return tree, true
}

func (e *Engine) parseAll(ctx context.Context, files []string) map[string]*phpast.Tree {
	trees := make(map[string]*phpast.Tree, len(files))
	for _, p := range files {
		if tree, ok := e.parse(ctx, p); ok {
			trees[p] = tree
		}
	}
	return trees
}

func (e *Engine) migrations(ctx context.Context, files []string, onProgress func()) *schema.Collection[*schema.Table] {
	m := schema.NewMigrations(e.cfg)
	for _, p := range files {
		if tree, ok := e.parse(ctx, p); ok {
			m.Add(tree)
		}
		onProgress()
	}
	return m.Tables()
}

// form extracts one resource. Its fields come from the form files under the
// resource's Schemas directory, or from the resource itself when there are none.
func (e *Engine) form(ctx context.Context, forms *form.Extractor, resource string, formFiles []string) (*schema.FormFacts, bool) {
	tree, ok := e.parse(ctx, resource)
	if !ok {
		return nil, false
	}
	table, err := forms.Table(tree)
	if err != nil {
		e.warn(resource, err)
		return nil, false
	}
	facts := &schema.FormFacts{Table: table, ResourceFile: resource}
	dir := filepath.ToSlash(form.SchemasDir(filepath.ToSlash(resource))) + "/"
	for _, p := range formFiles {
		if strings.HasPrefix(filepath.ToSlash(p), dir) {
			facts.FormFiles = append(facts.FormFiles, p)
		}
	}
	if len(facts.FormFiles) == 0 {
		forms.Fields(tree, &facts.Fields)
		return facts, true
	}
	for _, p := range facts.FormFiles {
		if formTree, ok := e.parse(ctx, p); ok {
			forms.Fields(formTree, &facts.Fields)
		}
	}
	return facts, true
}

// model extracts one model file. Files holding no concrete model class are
// skipped without a warning.
func (e *Engine) model(models *model.Extractor, inspector *model.StaticInspector, file string, tree *phpast.Tree) (*schema.ModelFacts, bool) {
	class := tree.FirstClass("")
	if class == phpast.NoNode {
		return nil, false
	}
	n := tree.Node(class)
	name := phpast.NewScopeWith(tree.Namespace(class), tree.Imports()).Resolve(n.Name)
	if !inspector.IsModel(name) || n.Flags.Has(phpast.FlagAbstract) {
		return nil, false
	}
	facts, err := models.Extract(file, tree)
	if err != nil {
		e.warn(file, err)
		return nil, false
	}
	return facts, true
}

func (e *Engine) filter(records []*schema.TableRecord) []*schema.TableRecord {
	if len(e.Tables) == 0 {
		return records
	}
	wanted := make(map[string]bool, len(e.Tables))
	for _, t := range e.Tables {
		wanted[strings.ToLower(t)] = true
	}
	var result []*schema.TableRecord
	for _, r := range records {
		if wanted[strings.ToLower(r.Table)] {
			result = append(result, r)
		}
	}
	return result
}
