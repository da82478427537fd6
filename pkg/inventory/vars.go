package inventory

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// Vars is a variable mapping. Values are scalars, sequences or nested
// map[string]any mappings as decoded from YAML.
type Vars map[string]any

// Set assigns a single variable, replacing any previous value.
func (v Vars) Set(key string, value any) {
	v[key] = value
}

// Apply sets every variable of the list in declaration order; later entries
// for the same key win.
func (v Vars) Apply(list VarList) {
	for _, kv := range list {
		v.Set(kv.Key, kv.Value)
	}
}

// Merge applies src onto v. Scalar values replace. A mapping value is merged
// key-wise into an existing mapping under the same key, one level deep; the
// existing mapping is copied, never mutated.
func (v Vars) Merge(src Vars) {
	for key, value := range src {
		incoming, ok := value.(map[string]any)
		if !ok {
			v[key] = value
			continue
		}

		current, ok := v[key].(map[string]any)
		if !ok {
			v[key] = maps.Clone(incoming)
			continue
		}

		merged := make(map[string]any, len(current)+len(incoming))
		maps.Copy(merged, current)
		maps.Copy(merged, incoming)
		v[key] = merged
	}
}

// Var is one key/value pair of a variable list.
type Var struct {
	Key   string
	Value any
}

// VarList is an ordered variable declaration. In YAML it is written either as
// a mapping or as a sequence of single-key mappings.
type VarList []Var

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *VarList) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)

	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		return fmt.Errorf("line %d: vars must be a mapping or a list of mappings", value.Line)

	case yaml.MappingNode:
		vars, err := decodePairs(value)
		if err != nil {
			return err
		}
		*l = vars
		return nil

	case yaml.SequenceNode:
		var vars VarList
		for _, item := range value.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: vars list entries must be mappings", item.Line)
			}
			pairs, err := decodePairs(item)
			if err != nil {
				return err
			}
			vars = append(vars, pairs...)
		}
		*l = vars
		return nil

	default:
		return fmt.Errorf("line %d: vars must be a mapping or a list of mappings", value.Line)
	}
}

// decodePairs reads a mapping node in document order. Merge keys ("<<") are
// expanded ahead of the explicit keys, so explicit keys always win.
func decodePairs(node *yaml.Node) (VarList, error) {
	var merged VarList
	vars := make(VarList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := resolveAlias(node.Content[i])
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: variable names must be scalars", keyNode.Line)
		}

		if keyNode.ShortTag() == "!!merge" {
			pairs, err := decodeMerge(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			merged = append(merged, pairs...)
			continue
		}

		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode variable %q: %w", keyNode.Line, keyNode.Value, err)
		}
		vars = append(vars, Var{Key: keyNode.Value, Value: normalize(value)})
	}
	if len(merged) == 0 {
		return vars, nil
	}
	return append(merged, vars...), nil
}

// decodeMerge expands the value of a merge key: one mapping or a sequence of
// mappings. In a sequence the earlier mappings take precedence, so they are
// emitted last.
func decodeMerge(value *yaml.Node) (VarList, error) {
	value = resolveAlias(value)

	switch value.Kind {
	case yaml.MappingNode:
		return decodePairs(value)
	case yaml.SequenceNode:
		var vars VarList
		for i := len(value.Content) - 1; i >= 0; i-- {
			item := resolveAlias(value.Content[i])
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: merge key entries must be mappings", item.Line)
			}
			pairs, err := decodePairs(item)
			if err != nil {
				return nil, err
			}
			vars = append(vars, pairs...)
		}
		return vars, nil
	default:
		return nil, fmt.Errorf("line %d: merge key value must be a mapping or a list of mappings", value.Line)
	}
}

// normalize turns mappings with non-string keys into map[string]any so every
// value can be encoded as JSON.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	default:
		return value
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
