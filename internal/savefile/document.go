package savefile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Section selects one of the two documents of a save stream.
type Section string

const (
	SectionGame Section = "game"
	SectionMeta Section = "meta"
)

// Key returns the top-level key that identifies the section's document.
func (s Section) Key() string {
	switch s {
	case SectionGame:
		return "difficulty"
	case SectionMeta:
		return "name"
	default:
		return ""
	}
}

// ParseSection converts a selector string into a Section.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionGame, SectionMeta:
		return Section(s), nil
	default:
		return "", fmt.Errorf("unknown section %q (want %q or %q)", s, SectionGame, SectionMeta)
	}
}

// Document is one parsed mapping of a save stream.
type Document struct {
	Section Section
	root    *yaml.Node
}

// Has reports whether the document has the given top-level key.
func (d *Document) Has(key string) bool {
	return d.Value(key) != nil
}

// Value returns the node stored under a top-level key, or nil.
func (d *Document) Value(key string) *yaml.Node {
	if d == nil || d.root == nil {
		return nil
	}
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == key {
			return d.root.Content[i+1]
		}
	}
	return nil
}

// Decode unmarshals the whole document into v.
func (d *Document) Decode(v any) error {
	if err := d.root.Decode(v); err != nil {
		return fmt.Errorf("error decoding %s document: %w", d.Section, err)
	}
	return nil
}

// Map returns the document as generic JSON-compatible values.
func (d *Document) Map() (map[string]any, error) {
	var raw map[string]any
	if err := d.Decode(&raw); err != nil {
		return nil, err
	}
	return normalize(raw).(map[string]any), nil
}

// normalize converts mappings with non-string keys (injury lists keyed by
// soldier id) into string-keyed maps so the result can be JSON encoded.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
