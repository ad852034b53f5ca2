package schema

import (
	"strings"

	"github.com/jrazmi/crudgen/app/generators/naming"
	"github.com/jrazmi/crudgen/app/generators/stencil"
)

// BuildContext projects a descriptor into the render context every template
// and path pattern is evaluated against. A fresh context is returned on each
// call; callers must not share one between renders.
func BuildContext(d *EntityDescriptor, basePackage string) stencil.Context {
	names := d.Names()

	fields := copyFields(d.Fields)
	create := d.Subset(SubsetCreate)
	update := d.Subset(SubsetUpdate)
	response := d.Subset(SubsetResponse)

	relations := relationContexts(d)

	return stencil.Context{
		"basePackage":      basePackage,
		"basePackagePath":  strings.ReplaceAll(basePackage, ".", "/"),
		"EntityName":       names.Pascal,
		"entityName":       names.Camel,
		"domainNameLower":  names.Lower,
		"resourceName":     names.Plural,
		"tableName":        d.TableName,
		"EntityNamePlural": names.PluralPascal,
		"entityNamePlural": names.PluralCamel,
		"names": map[string]any{
			"pascal":       names.Pascal,
			"camel":        names.Camel,
			"lower":        names.Lower,
			"plural":       names.Plural,
			"snake":        names.Snake,
			"kebab":        names.Kebab,
			"pluralPascal": names.PluralPascal,
			"pluralCamel":  names.PluralCamel,
		},

		"hasBaseEntity": d.Flags.HasAuditingBase,
		"softDelete":    d.Flags.SoftDeleteEnabled,

		"fields":            fieldContexts(fields),
		"createFields":      fieldContexts(create),
		"updateFields":      fieldContexts(update),
		"responseFields":    fieldContexts(response),
		"hasFields":         len(fields) > 0,
		"hasCreateFields":   len(create) > 0,
		"hasUpdateFields":   len(update) > 0,
		"hasResponseFields": len(response) > 0,
		"constructorParams": paramContexts(create),
		"updateParams":      paramContexts(update),

		"relations":    relations,
		"hasRelations": len(relations) > 0,
		"hasToMany":    hasToMany(d.Relations),

		"indexes":    indexContexts(d),
		"hasIndexes": len(d.Indexes) > 0,

		"queryMethods":    queryContexts(d.QueryMethods),
		"hasQueryMethods": len(d.QueryMethods) > 0,

		"createFieldValues":   sampleContexts(create, SampleCreate),
		"updateFieldValues":   sampleContexts(update, SampleUpdate),
		"responseFieldValues": sampleContexts(response, SampleCreate),
		"invalidFieldValues":  sampleContexts(create, SampleInvalid),
	}
}

// ColumnName returns the persisted column for a field: the "name" column
// option when present, otherwise the snake_case field name.
func ColumnName(f FieldSpec) string {
	if v, ok := f.ColumnOptions.Get("name"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return naming.ToSnakeCase(f.Name)
}

func fieldContexts(fields []FieldSpec) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		validations := make([]any, len(f.ValidationRules))
		for j, rule := range f.ValidationRules {
			validations[j] = rule
		}

		// Rules are joined so that "@{{validation}} " yields one annotation
		// per rule; nil keeps a section over it from rendering.
		var validation any
		if len(f.ValidationRules) > 0 {
			validation = strings.Join(f.ValidationRules, " @")
		}

		out[i] = map[string]any{
			"name":             f.Name,
			"type":             f.Type,
			"NameCapital":      naming.UpperFirst(f.Name),
			"getter":           "get" + naming.UpperFirst(f.Name),
			"columnName":       ColumnName(f),
			"columnAnnotation": columnAnnotation(f),
			"validation":       validation,
			"validations":      validations,
			"hasValidation":    len(f.ValidationRules) > 0,
			"isLast":           f.IsLast,
		}
	}
	return out
}

// columnAnnotation renders the column options, leading with the column name
// when the options do not set one.
func columnAnnotation(f FieldSpec) string {
	if _, ok := f.ColumnOptions.Get("name"); ok {
		return f.ColumnOptions.Annotation()
	}
	named := append(ColumnOptions{{Key: "name", Value: ColumnName(f)}}, f.ColumnOptions...)
	return named.Annotation()
}

func paramContexts(fields []FieldSpec) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = map[string]any{"type": f.Type, "name": f.Name}
	}
	return out
}

var relationAnnotations = map[RelationKind]string{
	RelationToOneOwning:    "ManyToOne",
	RelationToOneNonOwning: "OneToOne",
	RelationToMany:         "OneToMany",
}

func relationContexts(d *EntityDescriptor) []any {
	owner := d.Names().Camel

	out := make([]any, len(d.Relations))
	for i, r := range d.Relations {
		toMany := r.Kind == RelationToMany

		targetType := r.TargetEntityName
		targetName := naming.LowerFirst(r.TargetEntityName)
		if toMany {
			targetType = "List<" + r.TargetEntityName + ">"
			targetName = naming.Pluralize(targetName)
		}

		joinColumn := r.ForeignKeyColumn
		if joinColumn == "" {
			joinColumn = naming.ToSnakeCase(r.TargetEntityName) + "_id"
		}

		strategy := r.LoadingStrategy
		if strategy == "" {
			strategy = LoadingLazy
		}

		out[i] = map[string]any{
			"kind":             string(r.Kind),
			"relationType":     relationAnnotations[r.Kind],
			"fetchType":        strings.ToUpper(string(strategy)),
			"joinColumnName":   joinColumn,
			"targetEntityName": r.TargetEntityName,
			"targetType":       targetType,
			"targetName":       targetName,
			"owning":           r.Kind == RelationToOneOwning,
			"toMany":           toMany,
			"mappedBy":         owner,
		}
	}
	return out
}

func hasToMany(relations []RelationSpec) bool {
	for _, r := range relations {
		if r.Kind == RelationToMany {
			return true
		}
	}
	return false
}

func indexContexts(d *EntityDescriptor) []any {
	out := make([]any, len(d.Indexes))
	for i, idx := range d.Indexes {
		out[i] = map[string]any{
			"columnName": idx.ColumnName,
			"indexName":  "idx_" + d.TableName + "_" + idx.ColumnName,
			"unique":     idx.Unique,
		}
	}
	return out
}

func queryContexts(queries []QuerySpec) []any {
	out := make([]any, len(queries))
	for i, q := range queries {
		params := make([]any, len(q.Params))
		for j, p := range q.Params {
			params[j] = map[string]any{"type": p.Type, "name": p.Name}
		}
		out[i] = map[string]any{
			"methodName": q.Name,
			"returnType": q.ReturnType,
			"params":     params,
			"hasParams":  len(params) > 0,
		}
	}
	return out
}

func sampleContexts(fields []FieldSpec, variant SampleVariant) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = map[string]any{
			"name":  f.Name,
			"type":  f.Type,
			"value": SampleValue(f, variant),
		}
	}
	return out
}
