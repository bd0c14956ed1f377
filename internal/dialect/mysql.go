package dialect

type MysqlDialect struct{}

func (d *MysqlDialect) GetTablesQuery(schema string) (string, []interface{}) {
	if schema == "" {
		return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`, nil
	}
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`, []interface{}{schema}
}

func (d *MysqlDialect) GetColumnsQuery(schema, table string) (string, []interface{}) {
	if schema == "" {
		return `SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, []interface{}{table}
	}
	return `SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, []interface{}{schema, table}
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch t {
	case "tinytext", "mediumtext", "longtext":
		return "text"
	case "mediumint":
		return "int"
	case "tinyblob", "mediumblob", "longblob", "varbinary":
		return "blob"
	}
	return t
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
