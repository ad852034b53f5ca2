package orchestrator

import (
	"fmt"
	"strings"

	"github.com/jrazmi/crudgen/app/generators/naming"
	"github.com/jrazmi/crudgen/app/generators/schema"
)

// Violation codes reported by Validate.
const (
	CodeUnknownSubsetField    = "unknown-subset-field"
	CodeInvalidRelationTarget = "invalid-relation-target"
	CodeReservedField         = "reserved-field"
	CodeDuplicateField        = "duplicate-field"
	CodeInvalidQueryMethod    = "invalid-query-method"
)

// softDeleteField is the field name the soft-delete flag provides.
const softDeleteField = "deleted"

// Violation is one consistency problem found in a descriptor.
type Violation struct {
	Code    string
	Message string
}

func (v Violation) String() string {
	return v.Code + ": " + v.Message
}

// DescriptorConflictError aggregates every violation found in one
// descriptor.
type DescriptorConflictError struct {
	Entity     string
	Violations []Violation
}

func (e *DescriptorConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "descriptor %s has %d conflict", e.Entity, len(e.Violations))
	if len(e.Violations) != 1 {
		b.WriteString("s")
	}
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Has reports whether a violation with the given code was recorded.
func (e *DescriptorConflictError) Has(code string) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Validate checks desc for cross-field consistency and returns every
// violation found, in a stable order. A nil result means desc can be
// rendered.
func Validate(desc *schema.EntityDescriptor) []Violation {
	var out []Violation
	add := func(code, format string, args ...any) {
		out = append(out, Violation{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	known := make(map[string]bool, len(desc.Fields))
	for _, f := range desc.Fields {
		if known[f.Name] {
			add(CodeDuplicateField, "field %q is declared more than once", f.Name)
		}
		known[f.Name] = true

		if desc.Flags.SoftDeleteEnabled && f.Name == softDeleteField {
			add(CodeReservedField, "field %q is reserved when soft delete is enabled", f.Name)
		}
	}

	for _, kind := range schema.SubsetKinds {
		for _, name := range desc.FieldSubsets.Names(kind) {
			if !known[name] {
				add(CodeUnknownSubsetField, "%s references unknown field %q", kind, name)
			}
		}
	}

	for i, rel := range desc.Relations {
		if err := naming.ValidateIdentifier(rel.TargetEntityName); err != nil {
			add(CodeInvalidRelationTarget, "relation %d: %v", i, err)
		}
	}

	for i, q := range desc.QueryMethods {
		if q.Name == "" {
			add(CodeInvalidQueryMethod, "query %d has no method name", i)
			continue
		}
		if !naming.IsIdentifier(q.Name) {
			add(CodeInvalidQueryMethod, "query %q is not a valid method name", q.Name)
		}
		for j, p := range q.Params {
			if p.Name == "" || p.Type == "" {
				add(CodeInvalidQueryMethod, "query %q parameter %d needs a name and a type", q.Name, j)
			}
		}
	}

	return out
}
