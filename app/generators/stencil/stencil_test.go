package stencil

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, text string, ctx Context) string {
	t.Helper()
	tmpl, err := Compile("test", text)
	require.NoError(t, err)
	return Render(tmpl, ctx)
}

func TestRenderVariables(t *testing.T) {
	tests := []struct {
		name string
		text string
		ctx  Context
		want string
	}{
		{"string", "Hello {{name}}!", Context{"name": "World"}, "Hello World!"},
		{"missing", "Hello {{name}}!", Context{}, "Hello !"},
		{"nil value", "[{{v}}]", Context{"v": nil}, "[]"},
		{"int", "{{n}}", Context{"n": 42}, "42"},
		{"float", "{{n}}", Context{"n": 1.5}, "1.5"},
		{"bool", "{{b}}", Context{"b": true}, "true"},
		{"raw", "{{&code}}", Context{"code": "a < b"}, "a < b"},
		{"triple braces", "{{{code}}};", Context{"code": "a < b"}, "a < b;"},
		{"padded triple braces", "[{{{ code }}}]", Context{"code": "x"}, "[x]"},
		{"nil pointer", "[{{v}}]", Context{"v": (*int)(nil)}, "[]"},
		{"bytes", "{{v}}", Context{"v": []byte("hi")}, "hi"},
		{"padded tag", "{{ name }}", Context{"name": "x"}, "x"},
		{"dotted", "{{names.plural}}", Context{"names": map[string]any{"plural": "orders"}}, "orders"},
		{"dotted missing", "[{{names.snake}}]", Context{"names": map[string]any{"plural": "orders"}}, "[]"},
		{"dotted through scalar", "[{{title.length}}]", Context{"title": "abc"}, "[]"},
		{"no tags", "plain text\n", Context{}, "plain text\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.text, tt.ctx))
		})
	}
}

func TestSectionLastFlag(t *testing.T) {
	text := "{{#items}}{{name}}{{^last}}, {{/last}}{{/items}}"

	tests := []struct {
		name  string
		items []any
		want  string
	}{
		{"empty", []any{}, ""},
		{"one", []any{map[string]any{"name": "a"}}, "a"},
		{"two", []any{map[string]any{"name": "a"}, map[string]any{"name": "b"}}, "a, b"},
		{"three", []any{
			map[string]any{"name": "a"},
			map[string]any{"name": "b"},
			map[string]any{"name": "c"},
		}, "a, b, c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, text, Context{"items": tt.items}))
		})
	}
}

func TestSectionLastFlagNested(t *testing.T) {
	ctx := Context{
		"outer": []any{
			map[string]any{"inner": []any{1, 2}},
			map[string]any{"inner": []any{3}},
		},
	}
	text := "{{#outer}}[{{#inner}}{{.}}{{^last}} {{/last}}{{/inner}}]{{^last}};{{/last}}{{/outer}}"

	assert.Equal(t, "[1 2];[3]", render(t, text, ctx))
}

func TestSectionFirstAndIndex(t *testing.T) {
	ctx := Context{"items": []string{"x", "y", "z"}}
	text := "{{#items}}{{#first}}>{{/first}}{{index}}{{.}}{{/items}}"

	assert.Equal(t, ">0x1y2z", render(t, text, ctx))
}

func TestSectionDoesNotMutateContext(t *testing.T) {
	item := map[string]any{"name": "a"}
	ctx := Context{"items": []any{item}}

	render(t, "{{#items}}{{name}}{{^last}},{{/last}}{{/items}}", ctx)

	assert.Equal(t, map[string]any{"name": "a"}, item)
	assert.Len(t, ctx, 1)
}

func TestInversionLaw(t *testing.T) {
	text := "{{#v}}S{{/v}}{{^v}}I{{/v}}"

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "I"},
		{"false", false, "I"},
		{"true", true, "S"},
		{"empty list", []any{}, "I"},
		{"empty typed list", []string{}, "I"},
		{"one element", []any{1}, "S"},
		{"string", "x", "S"},
		{"empty string", "", "S"},
		{"zero", 0, "S"},
		{"map", map[string]any{}, "S"},
		{"nil pointer", (*struct{ ID int })(nil), "I"},
		{"nil map", map[string]any(nil), "I"},
		{"nil slice", []string(nil), "I"},
		{"bytes", []byte("hi"), "S"},
		{"nil bytes", []byte(nil), "I"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, text, Context{"v": tt.value}))
		})
	}

	t.Run("absent", func(t *testing.T) {
		assert.Equal(t, "I", render(t, text, Context{}))
	})
}

func TestNullAndBytesSections(t *testing.T) {
	assert.Equal(t, "[hi]", render(t, "{{#v}}[{{.}}]{{/v}}{{^v}}none{{/v}}", Context{"v": []byte("hi")}))
	assert.Equal(t, "none", render(t, "{{#v}}[{{.}}]{{/v}}{{^v}}none{{/v}}", Context{"v": (*int)(nil)}))
	assert.Equal(t, "none", render(t, "{{#v}}[{{.}}]{{/v}}{{^v}}none{{/v}}", Context{"v": map[string]any(nil)}))
}

func TestSectionRepeatsPerElement(t *testing.T) {
	ctx := Context{"v": []any{1, 2, 3}}
	assert.Equal(t, "SSS", render(t, "{{#v}}S{{/v}}{{^v}}I{{/v}}", ctx))
}

func TestScopeChain(t *testing.T) {
	ctx := Context{
		"entityName": "product",
		"fields": []any{
			map[string]any{"NameCapital": "Title"},
			map[string]any{"NameCapital": "Price"},
		},
	}
	text := "{{#fields}}{{entityName}}.get{{NameCapital}}(){{^last}},{{/last}}{{/fields}}"

	assert.Equal(t, "product.getTitle(),product.getPrice()", render(t, text, ctx))
}

func TestScopeChainInnerShadowsOuter(t *testing.T) {
	ctx := Context{
		"name":  "outer",
		"owner": map[string]any{"name": "inner"},
	}
	assert.Equal(t, "inner/outer", render(t, "{{#owner}}{{name}}{{/owner}}/{{name}}", ctx))
}

func TestScalarSectionSkipsToEnclosingScope(t *testing.T) {
	text := "{{#fields}}{{#validation}}@{{validation}} {{/validation}}{{type}} {{name}}{{^last}}, {{/last}}{{/fields}}"
	ctx := Context{
		"fields": []any{
			map[string]any{"name": "title", "type": "String", "validation": "NotBlank"},
			map[string]any{"name": "price", "type": "BigDecimal", "validation": nil},
		},
	}

	assert.Equal(t, "@NotBlank String title, BigDecimal price", render(t, text, ctx))
}

func TestStandaloneLines(t *testing.T) {
	text := "public record R(\n" +
		"{{#fields}}\n" +
		"    {{type}} {{name}}{{^last}},{{/last}}\n" +
		"{{/fields}}\n" +
		") {}\n"
	ctx := Context{
		"fields": []any{
			map[string]any{"type": "String", "name": "title"},
			map[string]any{"type": "BigDecimal", "name": "price"},
		},
	}

	want := "public record R(\n" +
		"    String title,\n" +
		"    BigDecimal price\n" +
		") {}\n"
	assert.Equal(t, want, render(t, text, ctx))
}

func TestStandaloneLineVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
		ctx  Context
		want string
	}{
		{"indented", "a\n  {{#s}}\nb\n  {{/s}}\nc\n", Context{"s": true}, "a\nb\nc\n"},
		{"comment", "x\n{{! note }}\ny", Context{}, "x\ny"},
		{"inline comment", "x{{! note }}y", Context{}, "xy"},
		{"crlf", "a\r\n{{#s}}\r\nb\r\n{{/s}}\r\n", Context{"s": true}, "a\r\nb\r\n"},
		{"final line without newline", "a\n{{#s}}\nb\n{{/s}}", Context{"s": true}, "a\nb\n"},
		{"not standalone", "a {{#s}}b{{/s}}\n", Context{"s": true}, "a b\n"},
		{"variable never standalone", "{{v}}\n", Context{"v": "x"}, "x\n"},
		{"false section line removed", "a\n{{#s}}\nb\n{{/s}}\nc", Context{"s": false}, "a\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.text, tt.ctx))
		})
	}
}

func TestDelimiters(t *testing.T) {
	tmpl, err := Compile("alt", "<%name%> {{name}}", WithDelimiters("<%", "%>"))
	require.NoError(t, err)
	assert.Equal(t, "Bob {{name}}", Render(tmpl, Context{"name": "Bob"}))

	_, err = Compile("bad", "x", WithDelimiters("", "}}"))
	var syntaxErr *SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		line   int
		column int
	}{
		{"unclosed section", "{{#a}}x", 1, 1},
		{"close without open", "text {{/a}}", 1, 6},
		{"mismatched close", "{{#a}}{{/b}}", 1, 7},
		{"unterminated tag", "hello\n  {{name", 2, 3},
		{"empty label", "{{}}", 1, 1},
		{"empty section label", "{{#}}", 1, 1},
		{"empty path segment", "x\n{{a..b}}", 2, 1},
		{"whitespace in label", "{{#a b}}{{/a b}}", 1, 1},
		{"unterminated triple braces", "x {{{name}}", 1, 3},
		{"brace in label", "x\n{{a}b}}", 2, 1},
		{"empty triple braces", "{{{ }}}", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("broken", tt.text)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "expected SyntaxError, got %T", err)
			assert.Equal(t, tt.line, syntaxErr.Pos.Line)
			assert.Equal(t, tt.column, syntaxErr.Pos.Column)
			assert.Equal(t, "broken", syntaxErr.Template)
			assert.NotEmpty(t, syntaxErr.Reason)
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("x", "{{#open}}") })
	assert.NotPanics(t, func() { MustCompile("x", "{{ok}}") })
}

func TestPartials(t *testing.T) {
	main := MustCompile("main", "<{{> item}}>")
	item := MustCompile("item", "{{name}}")

	assert.Equal(t, "<x>", main.Execute(Context{"name": "x"}, Partials{"item": item}))
	assert.Equal(t, "<>", main.Execute(Context{"name": "x"}, nil), "missing partial renders empty")
}

func TestPartialInheritsScope(t *testing.T) {
	main := MustCompile("main", "{{#fields}}{{> field}}{{^last}},{{/last}}{{/fields}}")
	field := MustCompile("field", "{{entity}}.{{name}}")

	ctx := Context{
		"entity": "p",
		"fields": []any{map[string]any{"name": "a"}, map[string]any{"name": "b"}},
	}
	assert.Equal(t, "p.a,p.b", main.Execute(ctx, Partials{"field": field}))
}

func TestRecursivePartialIsBounded(t *testing.T) {
	rec := MustCompile("r", "a{{> r}}")
	out := rec.Execute(Context{}, Partials{"r": rec})
	assert.Equal(t, strings.Repeat("a", maxPartialDepth+1), out)
}

func TestRenderIsDeterministic(t *testing.T) {
	tmpl := MustCompile("det", "{{#items}}{{k}}={{v}}{{^last}};{{/last}}{{/items}}|{{meta}}")
	items := make([]any, 0, 50)
	for i := 0; i < 50; i++ {
		items = append(items, map[string]any{"k": i, "v": float64(i) / 4})
	}
	ctx := Context{"items": items, "meta": map[string]any{"b": 2, "a": 1, "c": 3}}

	want := Render(tmpl, ctx)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Render(tmpl, ctx)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestCache(t *testing.T) {
	cache, err := NewCache(2)
	require.NoError(t, err)

	first, err := cache.Compile("a", "{{x}}")
	require.NoError(t, err)
	second, err := cache.Compile("a", "{{x}}")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())

	alt, err := cache.Compile("a", "{{x}}", WithDelimiters("<%", "%>"))
	require.NoError(t, err)
	assert.NotSame(t, first, alt)
	assert.Equal(t, 2, cache.Len())

	_, err = cache.Compile("b", "{{#broken}}")
	require.Error(t, err)
	assert.Equal(t, 2, cache.Len(), "failed compiles are not cached")

	_, err = cache.Compile("c", "{{y}}")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len(), "least recently used entry is evicted")

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestNewCacheDefaultSize(t *testing.T) {
	cache, err := NewCache(0)
	require.NoError(t, err)
	assert.NotNil(t, cache)
}

func TestContextTruthy(t *testing.T) {
	ctx := Context{
		"on":    true,
		"off":   false,
		"empty": []any{},
		"items": []string{"a"},
		"text":  "",
	}

	assert.True(t, ctx.Truthy("on"))
	assert.False(t, ctx.Truthy("off"))
	assert.False(t, ctx.Truthy("empty"))
	assert.True(t, ctx.Truthy("items"))
	assert.True(t, ctx.Truthy("text"))
	assert.False(t, ctx.Truthy("missing"))

	var none *Context
	assert.False(t, Context{"ptr": none}.Truthy("ptr"))
}
