package dialect

import "strings"

// Factory returns the appropriate Dialect implementation based on driver name.
func GetDialect(driver string) Dialect {
	switch strings.ToLower(driver) {
	case "postgres", "pgsql", "pgx":
		return &PostgresDialect{}
	case "sqlserver", "mssql", "sqlsrv":
		return &MSSQLDialect{}
	case "oracle":
		return &OracleDialect{}
	case "sqlite3", "sqlite":
		return &SqliteDialect{}
	default: // mysql, mariadb
		return &MysqlDialect{}
	}
}

// SQLDriver returns the database/sql driver name registered for a connection name.
// Laravel connection names (pgsql, sqlsrv, sqlite) are accepted as well.
func SQLDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "pgsql", "postgresql":
		return "postgres"
	case "sqlsrv", "mssql":
		return "sqlserver"
	case "sqlite":
		return "sqlite3"
	case "mariadb", "":
		return "mysql"
	default:
		return strings.ToLower(driver)
	}
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*SqliteDialect)(nil)
