package models

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FieldKind discriminates FieldValue variants. Tagged variants replace
// dynamic type inspection so traversal code switches on one enum.
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldNumber
	FieldBool
	FieldMap
	FieldList
)

// FieldEntry is one key/value pair of a map node. Entries keep their
// source order so extraction output is deterministic.
type FieldEntry struct {
	Key   string
	Value FieldValue
}

// FieldValue is a node of a structured field tree: a leaf scalar, an
// ordered map, or a list. Builder layouts and custom-field stores both
// decode into this shape.
type FieldValue struct {
	Kind FieldKind
	Str  string
	Num  float64
	Bool bool
	Map  []FieldEntry
	List []FieldValue
}

// Text returns the string form of a leaf node, or "" for containers.
func (v FieldValue) Text() string {
	switch v.Kind {
	case FieldString:
		return v.Str
	case FieldNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case FieldBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

// Lookup returns the value for key in a map node.
func (v FieldValue) Lookup(key string) (FieldValue, bool) {
	if v.Kind != FieldMap {
		return FieldValue{}, false
	}
	for _, e := range v.Map {
		if e.Key == key {
			return e.Value, true
		}
	}
	return FieldValue{}, false
}

// StringVal constructs a string leaf.
func StringVal(s string) FieldValue { return FieldValue{Kind: FieldString, Str: s} }

// NumberVal constructs a numeric leaf.
func NumberVal(n float64) FieldValue { return FieldValue{Kind: FieldNumber, Num: n} }

// MapVal constructs an ordered map node.
func MapVal(entries ...FieldEntry) FieldValue { return FieldValue{Kind: FieldMap, Map: entries} }

// ListVal constructs a list node.
func ListVal(items ...FieldValue) FieldValue { return FieldValue{Kind: FieldList, List: items} }

// Entry constructs a map entry.
func Entry(key string, value FieldValue) FieldEntry { return FieldEntry{Key: key, Value: value} }

// UnmarshalYAML decodes a YAML node into a FieldValue, preserving the
// key order of mappings. Snapshot fixtures rely on this for stable
// extraction order.
func (v *FieldValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!int", "!!float":
			n, err := strconv.ParseFloat(node.Value, 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", node.Value, err)
			}
			*v = NumberVal(n)
		case "!!bool":
			b, err := strconv.ParseBool(node.Value)
			if err != nil {
				return fmt.Errorf("invalid bool %q: %w", node.Value, err)
			}
			*v = FieldValue{Kind: FieldBool, Bool: b}
		default:
			*v = StringVal(node.Value)
		}
	case yaml.MappingNode:
		entries := make([]FieldEntry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var child FieldValue
			if err := child.UnmarshalYAML(node.Content[i+1]); err != nil {
				return err
			}
			entries = append(entries, FieldEntry{Key: node.Content[i].Value, Value: child})
		}
		*v = FieldValue{Kind: FieldMap, Map: entries}
	case yaml.SequenceNode:
		items := make([]FieldValue, 0, len(node.Content))
		for _, c := range node.Content {
			var child FieldValue
			if err := child.UnmarshalYAML(c); err != nil {
				return err
			}
			items = append(items, child)
		}
		*v = FieldValue{Kind: FieldList, List: items}
	case yaml.AliasNode:
		return v.UnmarshalYAML(node.Alias)
	default:
		return fmt.Errorf("unsupported YAML node kind %d", node.Kind)
	}
	return nil
}

// MarshalYAML encodes the tree back to YAML with map order intact, so a
// stored snapshot round-trips byte-identically.
func (v FieldValue) MarshalYAML() (interface{}, error) {
	return v.yamlNode(), nil
}

func (v FieldValue) yamlNode() *yaml.Node {
	switch v.Kind {
	case FieldNumber:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v.Num, 'f', -1, 64)}
	case FieldBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}
	case FieldMap:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range v.Map {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				e.Value.yamlNode())
		}
		return n
	case FieldList:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v.List {
			n.Content = append(n.Content, item.yamlNode())
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}
	}
}

// EncodeFieldTree serializes a field tree for storage. Returns "" for nil.
func EncodeFieldTree(v *FieldValue) (string, error) {
	if v == nil {
		return "", nil
	}
	out, err := yaml.Marshal(*v)
	if err != nil {
		return "", fmt.Errorf("failed to encode field tree: %w", err)
	}
	return string(out), nil
}

// DecodeFieldTree parses a stored field tree. Returns nil for "".
func DecodeFieldTree(raw string) (*FieldValue, error) {
	if raw == "" {
		return nil, nil
	}
	var v FieldValue
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("failed to decode field tree: %w", err)
	}
	return &v, nil
}
