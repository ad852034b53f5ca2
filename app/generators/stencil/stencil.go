// Package stencil implements the logic-less template language used for code
// generation: variables, sections, inverted sections, comments and partials,
// with a synthetic "last" flag injected into every list iteration.
//
// Templates are compiled once and can be rendered concurrently against any
// number of contexts. Rendering never fails and never consults external state.
package stencil

import "fmt"

// Default delimiters.
const (
	DefaultLeftDelim  = "{{"
	DefaultRightDelim = "}}"
)

type nodeKind uint8

const (
	textNode nodeKind = iota
	variableNode
	sectionNode
	invertedNode
	partialNode
)

// node is one element of a compiled tree. The kind selects which fields are
// meaningful: text for textNode, name/path for the others, children for
// sections.
type node struct {
	kind     nodeKind
	text     string
	name     string
	path     []string // nil for the implicit iterator "."
	children []node
}

// Template is a compiled template. It holds no descriptor data and is safe for
// concurrent use.
type Template struct {
	name  string
	left  string
	right string
	nodes []node
}

// Name returns the name the template was compiled under.
func (t *Template) Name() string {
	return t.name
}

// Context is the root data a template renders against. Nested values may be
// Context, map[string]any, slices, or scalars.
type Context map[string]any

// Partials resolves partial references by name at render time.
type Partials map[string]*Template

// Pos is a location in template source. Line and Column are 1-based.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SyntaxError is returned by Compile when a template is malformed.
type SyntaxError struct {
	Template string
	Pos      Pos
	Reason   string
}

func (e *SyntaxError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("template syntax error at %s: %s", e.Pos, e.Reason)
	}
	return fmt.Sprintf("template %s: syntax error at %s: %s", e.Template, e.Pos, e.Reason)
}

type options struct {
	left  string
	right string
}

// Option configures compilation.
type Option func(*options)

// WithDelimiters replaces the default "{{" and "}}" tag delimiters.
func WithDelimiters(left, right string) Option {
	return func(o *options) {
		o.left = left
		o.right = right
	}
}
