package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ColumnOption is one persistence attribute of a field, e.g. nullable=false.
type ColumnOption struct {
	Key   string
	Value any
}

// ColumnOptions is an ordered set of column attributes. Input order is kept
// so that generated annotations are stable.
type ColumnOptions []ColumnOption

// Get returns the value stored under key.
func (c ColumnOptions) Get(key string) (any, bool) {
	for _, opt := range c {
		if opt.Key == key {
			return opt.Value, true
		}
	}
	return nil, false
}

// Annotation renders the options as "key = value" pairs joined by ", ".
// String values are quoted; numbers and booleans are written bare.
func (c ColumnOptions) Annotation() string {
	parts := make([]string, 0, len(c))
	for _, opt := range c {
		parts = append(parts, opt.Key+" = "+formatOptionValue(opt.Value))
	}
	return strings.Join(parts, ", ")
}

func formatOptionValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// UnmarshalYAML decodes a mapping node, keeping key order.
func (c *ColumnOptions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: column options must be a mapping", node.Line)
	}

	opts := make(ColumnOptions, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("line %d: column option key: %w", keyNode.Line, err)
		}
		if seen[key] {
			return fmt.Errorf("line %d: duplicate column option %q", keyNode.Line, key)
		}
		seen[key] = true

		var value any
		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("line %d: column option %q: %w", valueNode.Line, key, err)
		}
		opts = append(opts, ColumnOption{Key: key, Value: value})
	}

	*c = opts
	return nil
}

// MarshalYAML encodes the options as a mapping in stored order.
func (c ColumnOptions) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, opt := range c {
		var value yaml.Node
		if err := value.Encode(opt.Value); err != nil {
			return nil, fmt.Errorf("column option %q: %w", opt.Key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: opt.Key},
			&value,
		)
	}
	return node, nil
}

// UnmarshalJSON decodes an object, keeping key order.
func (c *ColumnOptions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("column options: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("column options must be an object")
	}

	var opts ColumnOptions
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("column options: %w", err)
		}
		key := tok.(string)
		if seen[key] {
			return fmt.Errorf("duplicate column option %q", key)
		}
		seen[key] = true

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("column option %q: %w", key, err)
		}
		opts = append(opts, ColumnOption{Key: key, Value: normalizeJSONNumber(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("column options: %w", err)
	}

	*c = opts
	return nil
}

// MarshalJSON encodes the options as an object in stored order.
func (c ColumnOptions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(opt.Value)
		if err != nil {
			return nil, fmt.Errorf("column option %q: %w", opt.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func normalizeJSONNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
