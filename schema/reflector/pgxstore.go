package reflector

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store for PostgreSQL using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store from an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Tables implements the Store interface
func (s *PostgresStore) Tables(ctx context.Context, schemaName string) ([]string, error) {
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := s.pool.Query(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

type columnRow struct {
	Name       string
	UDTName    string
	IsNullable string
	Default    *string
	MaxLength  *int64
	Precision  *int64
	Scale      *int64
}

// Columns implements the Store interface
func (s *PostgresStore) Columns(ctx context.Context, schemaName, tableName string) ([]ColumnInfo, error) {
	const query = `
		SELECT
			column_name,
			udt_name,
			is_nullable,
			column_default,
			character_maximum_length,
			numeric_precision,
			numeric_scale
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := s.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowToStructByPos[columnRow])
	if err != nil {
		return nil, fmt.Errorf("scan columns: %w", err)
	}

	columns := make([]ColumnInfo, 0, len(raw))
	for _, r := range raw {
		col := ColumnInfo{
			Name:       r.Name,
			DBType:     normalizePostgresType(r.UDTName, r.MaxLength, r.Precision, r.Scale),
			IsNullable: r.IsNullable == "YES",
			MaxLength:  intOrZero(r.MaxLength),
			Precision:  intOrZero(r.Precision),
			Scale:      intOrZero(r.Scale),
		}
		if r.Default != nil {
			col.HasDefault = true
			col.DefaultValue = cleanDefaultValue(*r.Default)
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// PrimaryKey implements the Store interface
func (s *PostgresStore) PrimaryKey(ctx context.Context, schemaName, tableName string) (string, error) {
	const query = `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
		LIMIT 1
	`

	var column string
	err := s.pool.QueryRow(ctx, query, schemaName, tableName).Scan(&column)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query primary key: %w", err)
	}
	return column, nil
}

// ForeignKeys implements the Store interface
func (s *PostgresStore) ForeignKeys(ctx context.Context, schemaName, tableName string) ([]ForeignKeyInfo, error) {
	const query = `
		SELECT
			kcu.column_name,
			ccu.table_name,
			ccu.table_schema,
			ccu.column_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := s.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[ForeignKeyInfo])
}

// Indexes implements the Store interface
func (s *PostgresStore) Indexes(ctx context.Context, schemaName, tableName string) ([]IndexInfo, error) {
	const query = `
		SELECT
			i.relname AS index_name,
			ARRAY_AGG(a.attname ORDER BY array_position(ix.indkey, a.attnum)) AS column_names,
			ix.indisunique AS is_unique
		FROM pg_class t
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE n.nspname = $1
		  AND t.relname = $2
		  AND NOT ix.indisprimary
		GROUP BY i.relname, ix.indisunique
		ORDER BY i.relname
	`

	rows, err := s.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query indexes: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[IndexInfo])
}

func intOrZero(v *int64) int {
	if v == nil {
		return 0
	}
	return int(*v)
}

func normalizePostgresType(udtName string, maxLength, precision, scale *int64) string {
	switch udtName {
	case "varchar":
		if n := intOrZero(maxLength); n > 0 {
			return fmt.Sprintf("varchar(%d)", n)
		}
		return "varchar"
	case "bpchar":
		if n := intOrZero(maxLength); n > 0 {
			return fmt.Sprintf("char(%d)", n)
		}
		return "char"
	case "numeric":
		p, s := intOrZero(precision), intOrZero(scale)
		switch {
		case p > 0 && s > 0:
			return fmt.Sprintf("numeric(%d,%d)", p, s)
		case p > 0:
			return fmt.Sprintf("numeric(%d)", p)
		}
		return "numeric"
	}
	if strings.HasPrefix(udtName, "_") {
		return strings.TrimPrefix(udtName, "_") + "[]"
	}
	return udtName
}

var castSuffix = regexp.MustCompile(`::[\w\s]+(\[\])?`)

func cleanDefaultValue(v string) string {
	v = castSuffix.ReplaceAllString(v, "")
	return strings.Trim(strings.TrimSpace(v), "'")
}
