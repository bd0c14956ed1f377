package dialect

import "strings"

type OracleDialect struct{}

func (d *OracleDialect) GetTablesQuery(schema string) (string, []interface{}) {
	// USER_TABLES lists tables owned by the current user; ALL_TABLES when an owner is given.
	if schema == "" {
		return `SELECT TABLE_NAME FROM USER_TABLES ORDER BY TABLE_NAME`, nil
	}
	return `SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME`, []interface{}{strings.ToUpper(schema)}
}

func (d *OracleDialect) GetColumnsQuery(schema, table string) (string, []interface{}) {
	if schema == "" {
		return `SELECT COLUMN_NAME, DATA_TYPE, CASE WHEN NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END FROM USER_TAB_COLUMNS WHERE TABLE_NAME = :1 ORDER BY COLUMN_ID`, []interface{}{table}
	}
	return `SELECT COLUMN_NAME, DATA_TYPE, CASE WHEN NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END FROM ALL_TAB_COLUMNS WHERE OWNER = :1 AND TABLE_NAME = :2 ORDER BY COLUMN_ID`, []interface{}{strings.ToUpper(schema), table}
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := DefaultNormalizeType(sqlType)
	switch {
	case strings.Contains(s, "char") || strings.Contains(s, "clob"):
		return "varchar"
	case s == "number" || strings.Contains(s, "int"):
		return "integer"
	case strings.Contains(s, "float") || s == "binary_double" || s == "binary_float":
		return "float"
	case strings.HasPrefix(s, "timestamp") || s == "date":
		return "datetime"
	case strings.Contains(s, "blob") || s == "raw":
		return "blob"
	}
	return s
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return input
}
