package stencil

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// maxPartialDepth bounds recursive partial expansion.
const maxPartialDepth = 32

// Render renders t against ctx without partials.
func Render(t *Template, ctx Context) string {
	return t.Execute(ctx, nil)
}

// Execute renders t against ctx. Partial references are resolved from
// partials; an unknown partial renders as the empty string.
//
// Execute never fails and never mutates ctx. Output depends only on the
// template and the context.
func (t *Template) Execute(ctx Context, partials Partials) string {
	r := &renderer{partials: partials}
	r.scopes = append(r.scopes, ctx)
	r.walk(t.nodes)
	return r.out.String()
}

// loopState is pushed beneath every list element so that "last", "first"
// and "index" resolve to the position of the innermost enclosing iteration.
type loopState struct {
	index int
	last  bool
}

func (l loopState) lookup(name string) (any, bool) {
	switch name {
	case "last":
		return l.last, true
	case "first":
		return l.index == 0, true
	case "index":
		return l.index, true
	}
	return nil, false
}

type renderer struct {
	out      strings.Builder
	partials Partials
	scopes   []any
	depth    int
}

func (r *renderer) walk(nodes []node) {
	for i := range nodes {
		n := &nodes[i]
		switch n.kind {
		case textNode:
			r.out.WriteString(n.text)
		case variableNode:
			if v, ok := r.resolve(n.path); ok {
				r.out.WriteString(stringify(v))
			}
		case sectionNode:
			r.section(n)
		case invertedNode:
			v, ok := r.resolve(n.path)
			if !ok || !truthy(v) {
				r.walk(n.children)
			}
		case partialNode:
			r.partial(n.name)
		}
	}
}

func (r *renderer) section(n *node) {
	v, ok := r.resolve(n.path)
	if !ok || isNull(v) {
		return
	}

	if b, isBool := v.(bool); isBool {
		if b {
			r.walk(n.children)
		}
		return
	}

	if items, isList := listOf(v); isList {
		for i, item := range items {
			r.scopes = append(r.scopes, loopState{index: i, last: i == len(items)-1}, item)
			r.walk(n.children)
			r.scopes = r.scopes[:len(r.scopes)-2]
		}
		return
	}

	r.scopes = append(r.scopes, v)
	r.walk(n.children)
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *renderer) partial(name string) {
	t, ok := r.partials[name]
	if !ok || t == nil || r.depth >= maxPartialDepth {
		return
	}
	r.depth++
	r.walk(t.nodes)
	r.depth--
}

// resolve looks a dotted path up through the scope chain. The first segment
// is searched from the innermost scope outwards, skipping scopes that are not
// maps; the remaining segments descend into the value found.
func (r *renderer) resolve(path []string) (any, bool) {
	if path == nil {
		return r.scopes[len(r.scopes)-1], true
	}

	var (
		v     any
		found bool
	)
	for i := len(r.scopes) - 1; i >= 0 && !found; i-- {
		v, found = lookupKey(r.scopes[i], path[0])
	}
	if !found {
		return nil, false
	}

	for _, key := range path[1:] {
		v, found = lookupKey(v, key)
		if !found {
			return nil, false
		}
	}
	return v, true
}

func lookupKey(scope any, key string) (any, bool) {
	switch s := scope.(type) {
	case Context:
		v, ok := s[key]
		return v, ok
	case map[string]any:
		v, ok := s[key]
		return v, ok
	case map[string]string:
		v, ok := s[key]
		return v, ok
	case loopState:
		return s.lookup(key)
	}
	return nil, false
}

// listOf returns the elements of v when v is a slice or array. A []byte is
// a scalar.
func listOf(v any) ([]any, bool) {
	switch l := v.(type) {
	case []byte:
		return nil, false
	case []any:
		return l, true
	case []Context:
		items := make([]any, len(l))
		for i := range l {
			items[i] = l[i]
		}
		return items, true
	case []map[string]any:
		items := make([]any, len(l))
		for i := range l {
			items[i] = l[i]
		}
		return items, true
	case []string:
		items := make([]any, len(l))
		for i := range l {
			items[i] = l[i]
		}
		return items, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// Truthy reports whether a section named key would render against c.
func (c Context) Truthy(key string) bool {
	v, ok := c[key]
	return ok && truthy(v)
}

// truthy reports whether a section bound to v renders at least once.
func truthy(v any) bool {
	if isNull(v) {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	if items, ok := listOf(v); ok {
		return len(items) > 0
	}
	return true
}

// isNull reports whether v is nil or a nil pointer, map, slice, interface,
// channel or func.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func stringify(v any) string {
	if isNull(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
