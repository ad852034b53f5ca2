package schema

import (
	"fmt"
	"sort"

	"github.com/jrazmi/crudgen/app/generators/naming"
)

// NewEntityDescriptor validates the canonical name, derives every name form
// and copies def into a read-only descriptor with IsLast flags computed.
//
// Cross-field consistency (subset references, relation targets, reserved
// names) is not checked here; the orchestrator validates it before rendering.
func NewEntityDescriptor(def Definition) (*EntityDescriptor, error) {
	overrides, err := parseOverrides(def.Names)
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", def.Name, err)
	}

	names, err := naming.Derive(def.Name, overrides)
	if err != nil {
		return nil, err
	}

	for i, rel := range def.Relations {
		if !rel.Kind.Valid() {
			return nil, fmt.Errorf("entity %s: relation %d: unknown relation kind %q", def.Name, i, rel.Kind)
		}
		if !rel.LoadingStrategy.Valid() {
			return nil, fmt.Errorf("entity %s: relation %d: unknown loading strategy %q", def.Name, i, rel.LoadingStrategy)
		}
	}

	table := def.Table
	if table == "" {
		table = naming.Pluralize(names.Snake)
	}

	return &EntityDescriptor{
		CanonicalName: def.Name,
		TableName:     table,
		Fields:        copyFields(def.Fields),
		Relations:     copyRelations(def.Relations),
		Indexes:       copyIndexes(def.Indexes),
		Flags:         def.Flags,
		QueryMethods:  copyQueries(def.Queries),
		FieldSubsets: FieldSubsets{
			Create:   cloneNames(def.Subsets.Create),
			Update:   cloneNames(def.Subsets.Update),
			Response: cloneNames(def.Subsets.Response),
		},
		names: names,
	}, nil
}

// parseOverrides converts the descriptor's name overrides into naming forms.
func parseOverrides(in map[string]string) (map[naming.Form]string, error) {
	if len(in) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[naming.Form]string, len(in))
	for _, k := range keys {
		form, err := naming.ParseForm(k)
		if err != nil {
			return nil, err
		}
		out[form] = in[k]
	}
	return out, nil
}

// Subset resolves a field projection into ordered copies of the referenced
// fields. IsLast is relative to the returned view. Names that do not resolve
// are skipped; Validate in the orchestrator reports them.
func (d *EntityDescriptor) Subset(kind SubsetKind) []FieldSpec {
	names := d.FieldSubsets.Names(kind)
	if names == nil {
		return copyFields(d.Fields)
	}

	view := make([]FieldSpec, 0, len(names))
	for _, name := range names {
		if f, ok := d.Field(name); ok {
			view = append(view, f)
		}
	}
	return copyFields(view)
}

// Field returns the field with the given name.
func (d *EntityDescriptor) Field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func copyFields(in []FieldSpec) []FieldSpec {
	out := make([]FieldSpec, len(in))
	for i, f := range in {
		f.ValidationRules = cloneNames(f.ValidationRules)
		f.ColumnOptions = append(ColumnOptions(nil), f.ColumnOptions...)
		out[i] = f
	}
	markLastFields(out)
	return out
}

func markLastFields(fields []FieldSpec) {
	for i := range fields {
		fields[i].IsLast = i == len(fields)-1
	}
}

func copyRelations(in []RelationSpec) []RelationSpec {
	out := make([]RelationSpec, len(in))
	for i, r := range in {
		if r.LoadingStrategy == "" {
			r.LoadingStrategy = LoadingLazy
		}
		r.IsLast = i == len(in)-1
		out[i] = r
	}
	return out
}

func copyIndexes(in []IndexSpec) []IndexSpec {
	out := make([]IndexSpec, len(in))
	for i, idx := range in {
		idx.IsLast = i == len(in)-1
		out[i] = idx
	}
	return out
}

func copyQueries(in []QuerySpec) []QuerySpec {
	out := make([]QuerySpec, len(in))
	for i, q := range in {
		params := make([]QueryParam, len(q.Params))
		for j, p := range q.Params {
			p.IsLast = j == len(q.Params)-1
			params[j] = p
		}
		q.Params = params
		q.IsLast = i == len(in)-1
		out[i] = q
	}
	return out
}

// cloneNames copies a string list, keeping nil and empty distinct.
func cloneNames(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}
