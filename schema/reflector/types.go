package reflector

import "context"

// ColumnInfo represents a single column's metadata
type ColumnInfo struct {
	Name         string
	DBType       string // normalized PostgreSQL type, e.g. "varchar(255)"
	IsNullable   bool
	HasDefault   bool
	DefaultValue string
	MaxLength    int // For varchar(n)
	Precision    int // For numeric(p,s)
	Scale        int
}

// ForeignKeyInfo represents a foreign key relationship
type ForeignKeyInfo struct {
	ColumnName string
	RefTable   string
	RefSchema  string
	RefColumn  string
}

// IndexInfo represents a non-primary index
type IndexInfo struct {
	Name    string
	Columns []string
	Unique  bool
}

// Store is the interface that database stores must implement for reflection.
type Store interface {
	// Tables returns all base table names in the schema.
	Tables(ctx context.Context, schemaName string) ([]string, error)

	// Columns returns column metadata for a table in ordinal order.
	Columns(ctx context.Context, schemaName, tableName string) ([]ColumnInfo, error)

	// PrimaryKey returns the first primary key column, or "" when the table
	// has none.
	PrimaryKey(ctx context.Context, schemaName, tableName string) (string, error)

	// ForeignKeys returns foreign key relationships.
	ForeignKeys(ctx context.Context, schemaName, tableName string) ([]ForeignKeyInfo, error)

	// Indexes returns non-primary index information.
	Indexes(ctx context.Context, schemaName, tableName string) ([]IndexInfo, error)
}
