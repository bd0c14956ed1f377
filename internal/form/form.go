// Package form extracts the fields edited by Filament resource forms.
package form

import (
	"fmt"
	"path"
	"strings"

	"resource-checker/internal/config"
	"resource-checker/internal/model"
	"resource-checker/internal/phpast"
	"resource-checker/internal/schema"
)

const (
	resourceSuffix   = "Resource.php"
	formSuffix       = "Form.php"
	relationManagers = "RelationManagers"
	schemasDir       = "Schemas"
)

// IsResourceFile reports whether path is a resource class outside a relation
// manager directory.
func IsResourceFile(p string) bool {
	return strings.HasSuffix(path.Base(p), resourceSuffix) && !strings.Contains(p, relationManagers)
}

// IsFormFile reports whether path is a form schema class.
func IsFormFile(p string) bool {
	return strings.HasSuffix(path.Base(p), formSuffix)
}

// SchemasDir returns the directory holding the form schemas of a resource.
func SchemasDir(resource string) string {
	return path.Join(path.Dir(resource), schemasDir)
}

// FormPath returns the conventional form file of a resource: PostResource.php has
// its form in Schemas/PostForm.php.
func FormPath(resource string) string {
	base := strings.TrimSuffix(path.Base(resource), resourceSuffix)
	return path.Join(SchemasDir(resource), base+formSuffix)
}

type Extractor struct {
	cfg       *config.Config
	inspector model.ClassInspector
}

func NewExtractor(cfg *config.Config, inspector model.ClassInspector) *Extractor {
	return &Extractor{cfg: cfg, inspector: inspector}
}

// Table returns the table of the model a resource declares in its $model property.
func (e *Extractor) Table(tree *phpast.Tree) (string, error) {
	for _, id := range tree.Find(phpast.KindProperty) {
		n := tree.Node(id)
		if n.Name != "model" || len(n.Children) == 0 {
			continue
		}
		class, ok := tree.ClassRef(n.Children[0])
		if !ok {
			continue
		}
		if tree.Node(n.Children[0]).Kind == phpast.KindClassConstFetch {
			class = phpast.NewScopeWith(tree.Namespace(id), tree.Imports()).Resolve(class)
		}
		meta, err := e.inspector.Inspect(strings.TrimPrefix(class, `\`))
		if err != nil {
			return "", err
		}
		return meta.Table, nil
	}
	return "", fmt.Errorf("%w: no $model property", schema.ErrResolution)
}

// Fields adds every recognised component of a form file to fields.
func (e *Extractor) Fields(tree *phpast.Tree, fields *schema.Collection[schema.Field]) {
	scope := phpast.NewScope(tree)
	for _, id := range tree.Find(phpast.KindStaticCall) {
		n := tree.Node(id)
		if n.Name != "make" {
			continue
		}
		class := tree.Node(tree.Receiver(id))
		if class.Kind != phpast.KindName {
			continue
		}
		resolved := scope.Resolve(class.Name)
		if !e.cfg.IsFormComponent(class.Name, resolved) {
			continue
		}
		name, ok := tree.StringArg(id, 0)
		if !ok {
			continue
		}
		fields.Put(name, schema.Field{
			Name:     name,
			Type:     e.cfg.ComponentType(resolved),
			Nullable: !e.required(tree, id),
		})
	}
}

// required walks up the method chain wrapped around a component constructor.
func (e *Extractor) required(tree *phpast.Tree, id phpast.NodeID) bool {
	for cur := id; ; {
		parent := tree.Parent(cur)
		if parent == phpast.NoNode {
			return false
		}
		p := tree.Node(parent)
		if p.Kind != phpast.KindMethodCall || p.Children[0] != cur {
			return false
		}
		if e.cfg.IsRequiredMethod(p.Name) {
			return true
		}
		cur = parent
	}
}
