package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a descriptor file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported descriptor extension %q (want .yaml, .yml or .json)", filepath.Ext(path))
}

// document is the top-level shape of a descriptor file: either a single
// entity inline or a list under "entities".
type document struct {
	Definition `yaml:",inline"`
	Entities   []Definition `yaml:"entities,omitempty" json:"entities,omitempty"`
}

// LoadFile reads a descriptor file and returns its entity definitions in
// file order.
func LoadFile(path string) ([]Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor file: %w", err)
	}

	defs, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return defs, nil
}

// Decode parses one descriptor document. Unknown keys are rejected so that
// typos surface instead of silently dropping configuration.
func Decode(r io.Reader, format Format) ([]Definition, error) {
	var doc document

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("descriptor is empty")
			}
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("descriptor is empty")
			}
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported descriptor format %q", format)
	}

	switch {
	case len(doc.Entities) > 0 && doc.Name != "":
		return nil, fmt.Errorf("descriptor declares both a top-level entity %q and an entities list", doc.Name)
	case len(doc.Entities) > 0:
		return doc.Entities, nil
	case doc.Name != "":
		return []Definition{doc.Definition}, nil
	}
	return nil, fmt.Errorf("descriptor declares no entities")
}

// Build constructs descriptors for every definition, stopping at the first
// invalid canonical name.
func Build(defs []Definition) ([]*EntityDescriptor, error) {
	out := make([]*EntityDescriptor, 0, len(defs))
	for _, def := range defs {
		desc, err := NewEntityDescriptor(def)
		if err != nil {
			return nil, err
		}
		out = append(out, desc)
	}
	return out, nil
}

// Encode writes definitions in the given format. A single definition is
// written inline; several are written under "entities".
func Encode(w io.Writer, format Format, defs ...Definition) error {
	var doc document
	if len(defs) == 1 {
		doc.Definition = defs[0]
	} else {
		doc.Entities = defs
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported descriptor format %q", format)
}
