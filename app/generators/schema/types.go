package schema

import (
	"fmt"
	"strings"

	"github.com/jrazmi/crudgen/app/generators/naming"
)

// Definition is the plain input describing one entity, as written in a
// descriptor file or produced by the database reflector. It carries no
// derived data; NewEntityDescriptor turns it into an EntityDescriptor.
type Definition struct {
	Name      string            `yaml:"name,omitempty" json:"name,omitempty"`
	Table     string            `yaml:"table,omitempty" json:"table,omitempty"`
	Names     map[string]string `yaml:"names,omitempty" json:"names,omitempty"`
	Flags     Flags             `yaml:"flags,omitempty" json:"flags,omitempty"`
	Fields    []FieldSpec       `yaml:"fields,omitempty" json:"fields,omitempty"`
	Relations []RelationSpec    `yaml:"relations,omitempty" json:"relations,omitempty"`
	Indexes   []IndexSpec       `yaml:"indexes,omitempty" json:"indexes,omitempty"`
	Queries   []QuerySpec       `yaml:"queries,omitempty" json:"queries,omitempty"`
	Subsets   FieldSubsets      `yaml:"subsets,omitempty" json:"subsets,omitempty"`
}

// EntityDescriptor is the validated, read-only description of one entity.
// Derived names are computed once at construction and exposed through Names.
type EntityDescriptor struct {
	CanonicalName string
	TableName     string
	Fields        []FieldSpec
	Relations     []RelationSpec
	Indexes       []IndexSpec
	Flags         Flags
	QueryMethods  []QuerySpec
	FieldSubsets  FieldSubsets

	names naming.NameSet
}

// Names returns the derived identifier forms for the entity.
func (d *EntityDescriptor) Names() naming.NameSet {
	return d.names
}

// FieldSpec describes one persisted attribute.
type FieldSpec struct {
	Name            string        `yaml:"name" json:"name"`
	Type            string        `yaml:"type" json:"type"`
	ValidationRules []string      `yaml:"validation,omitempty" json:"validation,omitempty"`
	ColumnOptions   ColumnOptions `yaml:"column,omitempty" json:"column,omitempty"`
	IsLast          bool          `yaml:"-" json:"-"`
}

// RelationKind is the cardinality and ownership of a relation.
type RelationKind string

const (
	RelationToOneOwning    RelationKind = "to-one-owning"
	RelationToOneNonOwning RelationKind = "to-one-non-owning"
	RelationToMany         RelationKind = "to-many"
)

// Valid reports whether k is a known relation kind.
func (k RelationKind) Valid() bool {
	switch k {
	case RelationToOneOwning, RelationToOneNonOwning, RelationToMany:
		return true
	}
	return false
}

// UnmarshalText rejects unknown relation kinds at decode time.
func (k *RelationKind) UnmarshalText(text []byte) error {
	v := RelationKind(strings.TrimSpace(string(text)))
	if !v.Valid() {
		return fmt.Errorf("unknown relation kind %q (want %s, %s or %s)",
			string(text), RelationToOneOwning, RelationToOneNonOwning, RelationToMany)
	}
	*k = v
	return nil
}

// LoadingStrategy controls when related entities are fetched.
type LoadingStrategy string

const (
	LoadingLazy  LoadingStrategy = "lazy"
	LoadingEager LoadingStrategy = "eager"
)

// Valid reports whether s is a known loading strategy. The empty strategy is
// valid and means lazy.
func (s LoadingStrategy) Valid() bool {
	switch s {
	case "", LoadingLazy, LoadingEager:
		return true
	}
	return false
}

// UnmarshalText rejects unknown loading strategies at decode time.
func (s *LoadingStrategy) UnmarshalText(text []byte) error {
	v := LoadingStrategy(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("unknown loading strategy %q (want %s or %s)", string(text), LoadingLazy, LoadingEager)
	}
	*s = v
	return nil
}

// RelationSpec describes an association to another entity.
type RelationSpec struct {
	Kind             RelationKind    `yaml:"kind" json:"kind"`
	TargetEntityName string          `yaml:"target" json:"target"`
	ForeignKeyColumn string          `yaml:"foreignKey,omitempty" json:"foreignKey,omitempty"`
	LoadingStrategy  LoadingStrategy `yaml:"fetch,omitempty" json:"fetch,omitempty"`
	IsLast           bool            `yaml:"-" json:"-"`
}

// IndexSpec describes a single-column index.
type IndexSpec struct {
	ColumnName string `yaml:"column" json:"column"`
	Unique     bool   `yaml:"unique,omitempty" json:"unique,omitempty"`
	IsLast     bool   `yaml:"-" json:"-"`
}

// Flags toggles behavior shared by every generated artifact.
type Flags struct {
	HasAuditingBase   bool `yaml:"auditing,omitempty" json:"auditing,omitempty"`
	SoftDeleteEnabled bool `yaml:"softDelete,omitempty" json:"softDelete,omitempty"`
}

// QuerySpec describes a derived finder method on the repository.
type QuerySpec struct {
	Name       string       `yaml:"name" json:"name"`
	ReturnType string       `yaml:"returns" json:"returns"`
	Params     []QueryParam `yaml:"params,omitempty" json:"params,omitempty"`
	IsLast     bool         `yaml:"-" json:"-"`
}

// QueryParam is one parameter of a query method.
type QueryParam struct {
	Type   string `yaml:"type" json:"type"`
	Name   string `yaml:"name" json:"name"`
	IsLast bool   `yaml:"-" json:"-"`
}

// FieldSubsets holds the named field projections used by request and
// response carriers. A nil subset selects every field in master order; an
// empty, non-nil subset selects none.
type FieldSubsets struct {
	Create   []string `yaml:"create,omitempty" json:"create,omitempty"`
	Update   []string `yaml:"update,omitempty" json:"update,omitempty"`
	Response []string `yaml:"response,omitempty" json:"response,omitempty"`
}

// SubsetKind names one of the field projections.
type SubsetKind string

const (
	SubsetCreate   SubsetKind = "createFields"
	SubsetUpdate   SubsetKind = "updateFields"
	SubsetResponse SubsetKind = "responseFields"
)

// SubsetKinds lists every projection in a fixed order.
var SubsetKinds = []SubsetKind{SubsetCreate, SubsetUpdate, SubsetResponse}

// Names returns the raw name list of one projection.
func (s FieldSubsets) Names(kind SubsetKind) []string {
	switch kind {
	case SubsetCreate:
		return s.Create
	case SubsetUpdate:
		return s.Update
	case SubsetResponse:
		return s.Response
	}
	return nil
}
