package dialect

// Dialect abstracts the read-only introspection queries of one database.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	// GetTablesQuery selects one column: the table name.
	GetTablesQuery(schema string) (string, []interface{})
	// GetColumnsQuery selects column name, data type and a YES/NO nullability flag
	// in ordinal order.
	GetColumnsQuery(schema, table string) (string, []interface{})

	// Helpers
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
}
