package reflector

import (
	"fmt"
	"strings"

	"github.com/jrazmi/crudgen/app/generators/naming"
	"github.com/jrazmi/crudgen/app/generators/schema"
)

// javaType maps a normalized PostgreSQL type to the field type written into
// the descriptor. Numeric and boolean types are always boxed; unknown types
// map to Object.
func javaType(dbType string) string {
	switch baseType(dbType) {
	case "uuid":
		return "UUID"
	case "text", "varchar", "char", "citext", "inet":
		return "String"
	case "int4", "integer", "serial":
		return "Integer"
	case "int2", "smallint":
		return "Short"
	case "int8", "bigint", "bigserial":
		return "Long"
	case "float4", "real":
		return "Float"
	case "float8", "double precision":
		return "Double"
	case "numeric", "decimal", "money":
		return "BigDecimal"
	case "bool", "boolean":
		return "Boolean"
	case "timestamp", "timestamptz":
		return "LocalDateTime"
	case "date":
		return "LocalDate"
	case "time", "timetz":
		return "LocalTime"
	case "json", "jsonb":
		return "String"
	case "bytea":
		return "byte[]"
	case "text[]", "varchar[]":
		return "List<String>"
	case "int4[]":
		return "List<Integer>"
	default:
		return "Object"
	}
}

func baseType(dbType string) string {
	if idx := strings.Index(dbType, "("); idx != -1 {
		return strings.TrimSpace(dbType[:idx])
	}
	return dbType
}

// validationRules derives constraint tags from column metadata.
func validationRules(col ColumnInfo, fieldType string) []string {
	var rules []string

	if !col.IsNullable && !col.HasDefault {
		if fieldType == "String" {
			rules = append(rules, "NotBlank")
		} else {
			rules = append(rules, "NotNull")
		}
	}

	if fieldType == "String" && col.MaxLength > 0 {
		rules = append(rules, fmt.Sprintf("Size(max = %d)", col.MaxLength))
	}

	if fieldType == "String" && strings.Contains(strings.ToLower(col.Name), "email") {
		rules = append(rules, "Email")
	}

	return rules
}

// columnOptions derives the column mapping attributes in a fixed order.
func columnOptions(col ColumnInfo, fieldName string) schema.ColumnOptions {
	var opts schema.ColumnOptions

	// Names equal to the derived snake_case form are implied.
	if col.Name != naming.ToSnakeCase(fieldName) {
		opts = append(opts, schema.ColumnOption{Key: "name", Value: col.Name})
	}
	if !col.IsNullable {
		opts = append(opts, schema.ColumnOption{Key: "nullable", Value: false})
	}
	if col.MaxLength > 0 {
		opts = append(opts, schema.ColumnOption{Key: "length", Value: col.MaxLength})
	}
	if col.Precision > 0 && baseType(col.DBType) == "numeric" {
		opts = append(opts, schema.ColumnOption{Key: "precision", Value: col.Precision})
		if col.Scale > 0 {
			opts = append(opts, schema.ColumnOption{Key: "scale", Value: col.Scale})
		}
	}
	return opts
}
