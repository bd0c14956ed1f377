package schema

import (
	"strings"

	"resource-checker/internal/config"
	"resource-checker/internal/phpast"
)

// Types of the columns added by compound blueprint helpers.
const (
	typeInt    = "int"
	typeString = "string"
	typeCarbon = "Carbon"
)

// Migrations accumulates the tables declared by migration files. Files must be added
// in filename order: a later Schema::table call on the same table adds columns and
// a redeclared column takes the latest type and nullability.
type Migrations struct {
	cfg    *config.Config
	tables *Collection[*Table]
}

// NewMigrations returns an empty accumulator.
func NewMigrations(cfg *config.Config) *Migrations {
	return &Migrations{cfg: cfg, tables: NewCollection[*Table]()}
}

// Tables returns the tables seen so far.
func (m *Migrations) Tables() *Collection[*Table] {
	return m.tables
}

// Add extracts every Schema::create and Schema::table call of a parsed file.
func (m *Migrations) Add(tree *phpast.Tree) {
	for _, id := range tree.Find(phpast.KindStaticCall) {
		n := tree.Node(id)
		if !strings.EqualFold(n.Name, "create") && !strings.EqualFold(n.Name, "table") {
			continue
		}
		if !isSchemaFacade(tree, tree.Receiver(id)) {
			continue
		}
		name, ok := tree.StringArg(id, 0)
		if !ok {
			continue
		}
		table := m.table(name)
		args := tree.Args(id)
		if len(args) < 2 {
			continue
		}
		m.blueprint(tree, args[1], table)
	}
}

func (m *Migrations) table(name string) *Table {
	if t, ok := m.tables.Get(name); ok {
		return t
	}
	t := &Table{Name: name}
	m.tables.Put(name, t)
	return t
}

func isSchemaFacade(tree *phpast.Tree, id phpast.NodeID) bool {
	if id == phpast.NoNode || tree.Node(id).Kind != phpast.KindName {
		return false
	}
	return strings.EqualFold(config.ShortName(tree.Node(id).Name), "Schema")
}

// blueprint reads the direct statements of the closure passed to Schema::create.
func (m *Migrations) blueprint(tree *phpast.Tree, closure phpast.NodeID, table *Table) {
	fn := tree.Node(closure)
	if fn.Kind != phpast.KindClosure {
		return
	}
	variable := "table"
	if len(fn.Params) > 0 {
		variable = fn.Params[0].Name
	}
	for _, stmt := range fn.Children {
		if tree.Node(stmt).Kind != phpast.KindExprStmt {
			continue
		}
		call := tree.Node(stmt).Children[0]
		if tree.Node(call).Kind != phpast.KindMethodCall {
			continue
		}
		root := tree.Node(tree.ChainRoot(call))
		if root.Kind != phpast.KindVariable || root.Name != variable {
			continue
		}
		for _, field := range m.columns(tree, tree.Chain(call)) {
			table.Columns.Put(field.Name, field)
		}
	}
}

// columns turns one blueprint chain into the fields it declares.
func (m *Migrations) columns(tree *phpast.Tree, chain []phpast.NodeID) []Field {
	nullable := false
	for _, call := range chain {
		if strings.EqualFold(tree.Node(call).Name, "nullable") {
			nullable = true
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if !m.cfg.IsColumnMethod(tree.Node(chain[i]).Name) {
			continue
		}
		if name, ok := tree.StringArg(chain[i], 0); ok {
			typ, ok := m.cfg.ColumnType(tree.Node(chain[0]).Name)
			if !ok {
				typ = config.TypeMixed
			}
			return []Field{{Name: name, Type: typ, Nullable: nullable}}
		}
	}
	first := chain[0]
	arg, hasArg := tree.StringArg(first, 0)
	switch strings.ToLower(tree.Node(first).Name) {
	case "id":
		return []Field{{Name: "id", Type: typeInt}}
	case "timestamps", "timestampstz", "nullabletimestamps":
		return []Field{
			{Name: "created_at", Type: typeCarbon, Nullable: true},
			{Name: "updated_at", Type: typeCarbon, Nullable: true},
		}
	case "softdeletes", "softdeletestz":
		name := "deleted_at"
		if hasArg {
			name = arg
		}
		return []Field{{Name: name, Type: typeCarbon, Nullable: true}}
	case "remembertoken":
		return []Field{{Name: "remember_token", Type: typeString, Nullable: true}}
	case "morphs", "nullablemorphs":
		if !hasArg {
			return nil
		}
		n := nullable || strings.EqualFold(tree.Node(first).Name, "nullableMorphs")
		return []Field{
			{Name: arg + "_type", Type: typeString, Nullable: n},
			{Name: arg + "_id", Type: typeInt, Nullable: n},
		}
	case "uuidmorphs", "nullableuuidmorphs", "ulidmorphs", "nullableulidmorphs":
		if !hasArg {
			return nil
		}
		n := nullable || strings.HasPrefix(strings.ToLower(tree.Node(first).Name), "nullable")
		return []Field{
			{Name: arg + "_type", Type: typeString, Nullable: n},
			{Name: arg + "_id", Type: typeString, Nullable: n},
		}
	}
	return nil
}
