package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"resource-checker/internal/config"
	"resource-checker/internal/dialect"
)

// ---------------------------------------------------------------------
// Live schema introspection
// ---------------------------------------------------------------------

// Introspector lists the tables and columns of a live database.
type Introspector interface {
	ListTables(ctx context.Context) ([]string, error)
	ListColumns(ctx context.Context, table string) ([]Column, error)
}

// DBIntrospector reads information_schema style catalogs through a dialect.
type DBIntrospector struct {
	DB      *sql.DB
	Dialect dialect.Dialect
	Schema  string
}

// NewDBIntrospector returns an introspector for the given driver name.
func NewDBIntrospector(db *sql.DB, driver, schemaName string) *DBIntrospector {
	d := dialect.GetDialect(driver)
	return &DBIntrospector{DB: db, Dialect: d, Schema: d.GetSchemaName(schemaName)}
}

func (i *DBIntrospector) ListTables(ctx context.Context) ([]string, error) {
	query, args := i.Dialect.GetTablesQuery(i.Schema)
	rows, err := i.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

func (i *DBIntrospector) ListColumns(ctx context.Context, table string) ([]Column, error) {
	query, args := i.Dialect.GetColumnsQuery(i.Schema, table)
	rows, err := i.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns (table: %s): %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var cName, dType, isNull sql.NullString
		if err := rows.Scan(&cName, &dType, &isNull); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", table, err)
		}
		if !cName.Valid {
			continue // Skip invalid rows
		}
		columns = append(columns, Column{
			Name:       cName.String,
			DataType:   i.Dialect.NormalizeType(dType.String),
			IsNullable: dialect.IsNullable(isNull.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return columns, nil
}

// ReadDatabase builds the schema of every table the introspector reports. Native
// types are mapped through the configuration, unknown ones become mixed. Qualified
// table names keep their last segment.
func ReadDatabase(ctx context.Context, in Introspector, cfg *config.Config) (*Collection[*Table], error) {
	names, err := in.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	tables := NewCollection[*Table]()
	for _, name := range names {
		columns, err := in.ListColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		table, ok := tables.Get(name)
		if !ok {
			table = &Table{Name: name}
			tables.Put(name, table)
		}
		for _, c := range columns {
			table.Columns.Put(c.Name, Field{Name: c.Name, Type: cfg.NativeType(c.DataType), Nullable: c.IsNullable})
		}
	}
	return tables, nil
}
