// Package reflector reads live PostgreSQL table metadata and turns it into
// entity definitions the generator can load.
package reflector

import (
	"context"
	"fmt"

	"github.com/jrazmi/crudgen/app/generators/naming"
	"github.com/jrazmi/crudgen/app/generators/schema"
	"github.com/jrazmi/crudgen/sdk/logger"
)

// Column names handled by descriptor flags instead of fields.
const (
	createdAtColumn = "created_at"
	updatedAtColumn = "updated_at"
	deletedColumn   = "deleted"
)

// Reflector builds definitions from a Store.
type Reflector struct {
	store Store
	log   *logger.Logger
}

// NewReflector creates a new Reflector with the given store
func NewReflector(store Store, log *logger.Logger) *Reflector {
	return &Reflector{
		store: store,
		log:   log,
	}
}

// ReflectTable converts one table into a definition. An empty canonical name
// is derived from the singular PascalCase form of the table name.
func (r *Reflector) ReflectTable(ctx context.Context, schemaName, table, canonical string) (schema.Definition, error) {
	columns, err := r.store.Columns(ctx, schemaName, table)
	if err != nil {
		return schema.Definition{}, fmt.Errorf("get columns for %s.%s: %w", schemaName, table, err)
	}
	if len(columns) == 0 {
		return schema.Definition{}, fmt.Errorf("table %s.%s not found or has no columns", schemaName, table)
	}

	pk, err := r.store.PrimaryKey(ctx, schemaName, table)
	if err != nil {
		return schema.Definition{}, fmt.Errorf("get primary key for %s.%s: %w", schemaName, table, err)
	}
	if pk == "" {
		r.log.WarnContext(ctx, "table has no primary key", "table", table)
	}

	fks, err := r.store.ForeignKeys(ctx, schemaName, table)
	if err != nil {
		return schema.Definition{}, fmt.Errorf("get foreign keys for %s.%s: %w", schemaName, table, err)
	}

	indexes, err := r.store.Indexes(ctx, schemaName, table)
	if err != nil {
		return schema.Definition{}, fmt.Errorf("get indexes for %s.%s: %w", schemaName, table, err)
	}

	if canonical == "" {
		canonical = EntityName(table)
	}

	return buildDefinition(canonical, table, pk, columns, fks, indexes, func(msg string, args ...any) {
		r.log.DebugContext(ctx, msg, args...)
	}), nil
}

// ReflectSchema converts every base table of a schema, in name order.
func (r *Reflector) ReflectSchema(ctx context.Context, schemaName string) ([]schema.Definition, error) {
	tables, err := r.store.Tables(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("get tables: %w", err)
	}

	defs := make([]schema.Definition, 0, len(tables))
	for _, table := range tables {
		def, err := r.ReflectTable(ctx, schemaName, table, "")
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// EntityName derives a canonical entity name from a table name:
// "order_items" -> "OrderItem".
func EntityName(table string) string {
	return naming.ToPascalCase(naming.Singularize(table))
}

func buildDefinition(canonical, table, pk string, columns []ColumnInfo, fks []ForeignKeyInfo, indexes []IndexInfo, debug func(string, ...any)) schema.Definition {
	def := schema.Definition{
		Name:  canonical,
		Table: table,
	}

	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col.Name] = true
	}
	auditing := present[createdAtColumn] && present[updatedAtColumn]
	def.Flags.HasAuditingBase = auditing
	def.Flags.SoftDeleteEnabled = present[deletedColumn]

	foreign := make(map[string]ForeignKeyInfo, len(fks))
	for _, fk := range fks {
		foreign[fk.ColumnName] = fk
	}

	for _, col := range columns {
		switch {
		case col.Name == pk:
			continue
		case auditing && (col.Name == createdAtColumn || col.Name == updatedAtColumn):
			continue
		case col.Name == deletedColumn:
			continue
		}

		if fk, ok := foreign[col.Name]; ok {
			def.Relations = append(def.Relations, schema.RelationSpec{
				Kind:             schema.RelationToOneOwning,
				TargetEntityName: EntityName(fk.RefTable),
				ForeignKeyColumn: col.Name,
				LoadingStrategy:  schema.LoadingLazy,
			})
			continue
		}

		fieldName := naming.LowerFirst(naming.ToPascalCase(col.Name))
		fieldType := javaType(col.DBType)
		def.Fields = append(def.Fields, schema.FieldSpec{
			Name:            fieldName,
			Type:            fieldType,
			ValidationRules: validationRules(col, fieldType),
			ColumnOptions:   columnOptions(col, fieldName),
		})
	}

	for _, idx := range indexes {
		if len(idx.Columns) != 1 {
			debug("skipping multi-column index", "index", idx.Name, "columns", idx.Columns)
			continue
		}
		if idx.Columns[0] == pk {
			continue
		}
		def.Indexes = append(def.Indexes, schema.IndexSpec{
			ColumnName: idx.Columns[0],
			Unique:     idx.Unique,
		})
	}

	return def
}
