package stencil

import (
	"fmt"
	"strings"
)

// Compile parses text into a Template. A malformed template yields a
// *SyntaxError carrying the offending position.
func Compile(name, text string, opts ...Option) (*Template, error) {
	o := options{left: DefaultLeftDelim, right: DefaultRightDelim}
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkDelimiters(o.left, o.right); err != nil {
		return nil, &SyntaxError{Template: name, Pos: Pos{Line: 1, Column: 1}, Reason: err.Error()}
	}

	p := &parser{name: name, src: text, left: o.left, right: o.right}
	nodes, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &Template{name: name, left: o.left, right: o.right, nodes: nodes}, nil
}

// MustCompile is like Compile but panics on error. It is intended for
// templates that ship with the binary.
func MustCompile(name, text string, opts ...Option) *Template {
	t, err := Compile(name, text, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func checkDelimiters(left, right string) error {
	if left == "" || right == "" {
		return fmt.Errorf("delimiters must not be empty")
	}
	if strings.ContainsAny(left, " \t\r\n") || strings.ContainsAny(right, " \t\r\n") {
		return fmt.Errorf("delimiters must not contain whitespace")
	}
	return nil
}

// tag sigils
const (
	sigilSection  = '#'
	sigilInverted = '^'
	sigilClose    = '/'
	sigilComment  = '!'
	sigilPartial  = '>'
	sigilRaw      = '&'
)

type frame struct {
	kind   nodeKind
	name   string
	path   []string
	offset int
	nodes  []node
}

type parser struct {
	name  string
	src   string
	left  string
	right string
	stack []frame
}

func (p *parser) parse() ([]node, error) {
	p.stack = []frame{{}}
	cursor := 0

	for {
		rel := strings.Index(p.src[cursor:], p.left)
		if rel < 0 {
			p.emitText(p.src[cursor:])
			break
		}
		start := cursor + rel
		contentStart := start + len(p.left)
		end, content, err := p.tag(start, contentStart)
		if err != nil {
			return nil, err
		}

		sigil := byte(0)
		if content != "" && strings.IndexByte("#^/!>&", content[0]) >= 0 {
			sigil = content[0]
			content = strings.TrimSpace(content[1:])
		}

		textEnd, next := start, end
		if sigil != 0 && sigil != sigilRaw {
			if ls, le, ok := p.standalone(start, end); ok {
				textEnd, next = ls, le
			}
		}
		p.emitText(p.src[cursor:textEnd])
		cursor = next

		if sigil == sigilComment {
			continue
		}
		if err := p.checkLabel(start, content); err != nil {
			return nil, err
		}

		switch sigil {
		case sigilSection, sigilInverted:
			kind := sectionNode
			if sigil == sigilInverted {
				kind = invertedNode
			}
			path, err := p.splitPath(start, content)
			if err != nil {
				return nil, err
			}
			p.stack = append(p.stack, frame{kind: kind, name: content, path: path, offset: start})

		case sigilClose:
			if len(p.stack) == 1 {
				return nil, p.errorf(start, "close tag %q has no open section", content)
			}
			top := p.stack[len(p.stack)-1]
			if top.name != content {
				open := p.position(top.offset)
				return nil, p.errorf(start, "close tag %q does not match open section %q at %s", content, top.name, open)
			}
			p.stack = p.stack[:len(p.stack)-1]
			p.emit(node{kind: top.kind, name: top.name, path: top.path, children: top.nodes})

		case sigilPartial:
			p.emit(node{kind: partialNode, name: content})

		default:
			path, err := p.splitPath(start, content)
			if err != nil {
				return nil, err
			}
			p.emit(node{kind: variableNode, name: content, path: path})
		}
	}

	if len(p.stack) > 1 {
		top := p.stack[len(p.stack)-1]
		return nil, p.errorf(top.offset, "section %q is never closed", top.name)
	}
	return p.stack[0].nodes, nil
}

// tag scans the tag opened at start and returns the offset just past it and
// its trimmed content. With the default delimiters "{{{name}}}" is read as
// the raw variable "&name".
func (p *parser) tag(start, contentStart int) (int, string, error) {
	if p.left == DefaultLeftDelim && p.right == DefaultRightDelim &&
		strings.HasPrefix(p.src[contentStart:], "{") {
		closeRel := strings.Index(p.src[contentStart+1:], "}"+p.right)
		if closeRel < 0 {
			return 0, "", p.errorf(start, "unterminated triple tag, missing %q", "}"+p.right)
		}
		inner := p.src[contentStart+1 : contentStart+1+closeRel]
		return contentStart + 1 + closeRel + 1 + len(p.right), "&" + strings.TrimSpace(inner), nil
	}

	closeRel := strings.Index(p.src[contentStart:], p.right)
	if closeRel < 0 {
		return 0, "", p.errorf(start, "unterminated tag, missing %q", p.right)
	}
	return contentStart + closeRel + len(p.right), strings.TrimSpace(p.src[contentStart : contentStart+closeRel]), nil
}

func (p *parser) emit(n node) {
	top := &p.stack[len(p.stack)-1]
	top.nodes = append(top.nodes, n)
}

func (p *parser) emitText(s string) {
	if s == "" {
		return
	}
	p.emit(node{kind: textNode, text: s})
}

// standalone reports whether the tag spanning [start,end) is the only
// non-whitespace content on its line. If so it returns the span of the whole
// line including its terminating newline, which the tag then consumes.
func (p *parser) standalone(start, end int) (lineStart, lineEnd int, ok bool) {
	lineStart = strings.LastIndexByte(p.src[:start], '\n') + 1
	if !isBlank(p.src[lineStart:start]) {
		return 0, 0, false
	}
	nl := strings.IndexByte(p.src[end:], '\n')
	if nl < 0 {
		lineEnd = len(p.src)
	} else {
		lineEnd = end + nl
	}
	if !isBlank(p.src[end:lineEnd]) {
		return 0, 0, false
	}
	if nl >= 0 {
		lineEnd++
	}
	return lineStart, lineEnd, true
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

func (p *parser) checkLabel(offset int, label string) error {
	if label == "" {
		return p.errorf(offset, "empty tag label")
	}
	if strings.ContainsAny(label, " \t\r\n") {
		return p.errorf(offset, "tag label %q contains whitespace", label)
	}
	if strings.ContainsAny(label, "{}") {
		return p.errorf(offset, "tag label %q contains a brace", label)
	}
	return nil
}

func (p *parser) splitPath(offset int, label string) ([]string, error) {
	if label == "." {
		return nil, nil
	}
	parts := strings.Split(label, ".")
	for _, part := range parts {
		if part == "" {
			return nil, p.errorf(offset, "tag label %q has an empty segment", label)
		}
	}
	return parts, nil
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{
		Template: p.name,
		Pos:      p.position(offset),
		Reason:   fmt.Sprintf(format, args...),
	}
}

func (p *parser) position(offset int) Pos {
	before := p.src[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - (strings.LastIndexByte(before, '\n') + 1) + 1
	return Pos{Offset: offset, Line: line, Column: col}
}
