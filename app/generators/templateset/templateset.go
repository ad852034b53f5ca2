// Package templateset binds artifact kinds to compiled body templates and
// output path patterns. The default set is embedded in the binary; a user
// directory can override bodies, paths and partials per kind.
package templateset

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jrazmi/crudgen/app/generators/stencil"
)

//go:embed templates
var embedded embed.FS

// Kind is a logical category of generated file.
type Kind string

const (
	KindEntity          Kind = "entity"
	KindDTOCreate       Kind = "dto-create"
	KindDTOUpdate       Kind = "dto-update"
	KindDTOResponse     Kind = "dto-response"
	KindRepository      Kind = "repository"
	KindService         Kind = "service"
	KindController      Kind = "controller"
	KindException       Kind = "exception"
	KindTestUnit        Kind = "test-unit"
	KindTestIntegration Kind = "test-integration"
	KindTestController  Kind = "test-controller"
	KindBaseEntity      Kind = "base-entity"
	KindConfig          Kind = "config"
)

// Order is the fixed output order of the built-in kinds. Kinds outside this
// list are rendered after them in name order.
var Order = []Kind{
	KindEntity,
	KindDTOCreate,
	KindDTOUpdate,
	KindDTOResponse,
	KindRepository,
	KindService,
	KindController,
	KindException,
	KindTestUnit,
	KindTestIntegration,
	KindTestController,
	KindBaseEntity,
	KindConfig,
}

// Entry is one artifact kind's body template and output path pattern.
type Entry struct {
	Kind        Kind
	Body        *stencil.Template
	Path        *stencil.Template
	PathPattern string

	// Condition names a context key that must be truthy for the artifact to
	// be rendered. Empty means always.
	Condition string
}

// Set is an immutable-after-load mapping from kind to Entry plus the
// partials every body can reference.
type Set struct {
	entries  map[Kind]Entry
	partials stencil.Partials
}

// New returns an empty set.
func New() *Set {
	return &Set{
		entries:  make(map[Kind]Entry),
		partials: make(stencil.Partials),
	}
}

// Add registers or replaces an entry.
func (s *Set) Add(e Entry) error {
	if e.Kind == "" {
		return errors.New("template entry has no kind")
	}
	if e.Body == nil {
		return fmt.Errorf("template entry %s has no body", e.Kind)
	}
	if e.Path == nil {
		return fmt.Errorf("template entry %s has no path pattern", e.Kind)
	}
	s.entries[e.Kind] = e
	return nil
}

// AddPartial registers a partial under name.
func (s *Set) AddPartial(name string, t *stencil.Template) {
	s.partials[name] = t
}

// Entry returns the entry for kind.
func (s *Set) Entry(kind Kind) (Entry, bool) {
	e, ok := s.entries[kind]
	return e, ok
}

// Entries returns every entry: built-in kinds in Order, then any other kinds
// sorted by name.
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	builtin := make(map[Kind]bool, len(Order))
	for _, kind := range Order {
		builtin[kind] = true
		if e, ok := s.entries[kind]; ok {
			out = append(out, e)
		}
	}

	var extra []string
	for kind := range s.entries {
		if !builtin[kind] {
			extra = append(extra, string(kind))
		}
	}
	sort.Strings(extra)
	for _, kind := range extra {
		out = append(out, s.entries[Kind(kind)])
	}
	return out
}

// Partials returns the partials available to every body.
func (s *Set) Partials() stencil.Partials {
	return s.partials
}

// Default builds the embedded template set.
func Default(cache *stencil.Cache) (*Set, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("open embedded templates: %w", err)
	}

	set := New()
	if err := set.merge(sub, cache); err != nil {
		return nil, fmt.Errorf("load embedded templates: %w", err)
	}
	return set, nil
}

// FromFS builds the default set and overlays fsys on top of it. A file
// "<kind>.tmpl" replaces or adds a body, "paths.yaml" replaces path patterns
// and conditions, and "partials/<name>.tmpl" replaces or adds a partial.
func FromFS(fsys fs.FS, cache *stencil.Cache) (*Set, error) {
	set, err := Default(cache)
	if err != nil {
		return nil, err
	}
	if err := set.merge(fsys, cache); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return set, nil
}

// pathSpec is one entry of paths.yaml.
type pathSpec struct {
	Path string `yaml:"path"`
	When string `yaml:"when"`
}

const pathsFile = "paths.yaml"

func (s *Set) merge(fsys fs.FS, cache *stencil.Cache) error {
	specs, err := readPathSpecs(fsys)
	if err != nil {
		return err
	}

	bodies, err := fs.Glob(fsys, "*.tmpl")
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}
	sort.Strings(bodies)

	pending := make(map[Kind]Entry, len(s.entries))
	for kind, e := range s.entries {
		pending[kind] = e
	}

	for _, file := range bodies {
		kind := Kind(strings.TrimSuffix(file, ".tmpl"))
		body, err := compileFile(fsys, file, string(kind), cache)
		if err != nil {
			return err
		}
		e := pending[kind]
		e.Kind = kind
		e.Body = body
		pending[kind] = e
	}

	kinds := make([]string, 0, len(specs))
	for kind := range specs {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, name := range kinds {
		kind, spec := Kind(name), specs[name]
		e, ok := pending[kind]
		if !ok {
			return fmt.Errorf("%s: kind %q has no %s.tmpl template", pathsFile, kind, kind)
		}
		if spec.Path != "" {
			p, err := compile(cache, string(kind)+".path", spec.Path)
			if err != nil {
				return err
			}
			e.Path = p
			e.PathPattern = spec.Path
		}
		if spec.When != "" {
			e.Condition = spec.When
		}
		pending[kind] = e
	}

	for _, e := range pending {
		if err := s.Add(e); err != nil {
			return err
		}
	}

	partials, err := fs.Glob(fsys, "partials/*.tmpl")
	if err != nil {
		return fmt.Errorf("list partials: %w", err)
	}
	for _, file := range partials {
		name := strings.TrimSuffix(path.Base(file), ".tmpl")
		t, err := compileFile(fsys, file, name, cache)
		if err != nil {
			return err
		}
		s.AddPartial(name, t)
	}

	return nil
}

func readPathSpecs(fsys fs.FS) (map[string]pathSpec, error) {
	data, err := fs.ReadFile(fsys, pathsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pathsFile, err)
	}

	var specs map[string]pathSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", pathsFile, err)
	}
	return specs, nil
}

func compileFile(fsys fs.FS, file, name string, cache *stencil.Cache) (*stencil.Template, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", file, err)
	}
	return compile(cache, name, string(data))
}

func compile(cache *stencil.Cache, name, text string) (*stencil.Template, error) {
	if cache == nil {
		return stencil.Compile(name, text)
	}
	return cache.Compile(name, text)
}
