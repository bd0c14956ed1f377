package dialect

import "strings"

type PostgresDialect struct{}

func (d *PostgresDialect) GetTablesQuery(schema string) (string, []interface{}) {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`, []interface{}{schema}
}

func (d *PostgresDialect) GetColumnsQuery(schema, table string) (string, []interface{}) {
	return `SELECT column_name, udt_name, is_nullable FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`, []interface{}{schema, table}
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch {
	case t == "int4" || t == "int2" || t == "serial" || t == "smallserial":
		return "int"
	case t == "int8" || t == "bigserial":
		return "bigint"
	case t == "float4":
		return "float"
	case t == "float8" || t == "double precision":
		return "double"
	case t == "bpchar" || t == "character":
		return "char"
	case t == "character varying":
		return "varchar"
	case t == "bool":
		return "boolean"
	case t == "bytea":
		return "blob"
	case strings.HasPrefix(t, "timestamp"):
		return "timestamp"
	case strings.HasPrefix(t, "time"):
		return "time"
	}
	return t
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
