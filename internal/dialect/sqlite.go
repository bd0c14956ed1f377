package dialect

import (
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite Driver
)

type SqliteDialect struct{}

func (d *SqliteDialect) GetTablesQuery(schema string) (string, []interface{}) {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`, nil
}

func (d *SqliteDialect) GetColumnsQuery(schema, table string) (string, []interface{}) {
	return `SELECT name, type, CASE WHEN "notnull" = 0 AND pk = 0 THEN 'YES' ELSE 'NO' END FROM pragma_table_info(?) ORDER BY cid`, []interface{}{table}
}

// NormalizeType applies the SQLite affinity rules to declared types.
func (d *SqliteDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch {
	case t == "":
		return "blob"
	case strings.Contains(t, "bool"):
		return "boolean"
	case strings.Contains(t, "int"):
		return "integer"
	case t == "datetime" || t == "date" || t == "timestamp" || t == "time" || t == "json":
		return t
	case strings.Contains(t, "char") || strings.Contains(t, "clob") || strings.Contains(t, "text"):
		return "varchar"
	case strings.Contains(t, "blob"):
		return "blob"
	case strings.Contains(t, "real") || strings.Contains(t, "floa") || strings.Contains(t, "doub"):
		return "float"
	}
	return "numeric"
}

func (d *SqliteDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
