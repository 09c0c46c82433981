package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML tags used by schema documents. Untagged scalars are literals.
const (
	TagType = "!type"
	TagPred = "!pred"
)

// PredicateLookup resolves predicate names used in schema documents.
type PredicateLookup interface {
	Lookup(name string) (*Predicate, bool)
}

// ParseYAML reads a schema document. Mappings become Fields (in document
// order), sequences become List patterns, "!type name" scalars become type
// tags, "!pred name" scalars are resolved through preds, and any other
// scalar is a Literal.
func ParseYAML(data []byte, preds PredicateLookup) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("schema document is empty")
	}
	return fromYAML(doc.Content[0], preds)
}

func fromYAML(n *yaml.Node, preds PredicateLookup) (Node, error) {
	if (n.Tag == TagType || n.Tag == TagPred) && n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: tag %s only applies to scalars", n.Line, n.Tag)
	}

	switch n.Kind {
	case yaml.MappingNode:
		defs := make([]FieldDef, 0, len(n.Content)/2)
		seen := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode || key.ShortTag() != "!!str" {
				return nil, fmt.Errorf("line %d: field names must be strings", key.Line)
			}
			if seen[key.Value] {
				return nil, fmt.Errorf("line %d: duplicate field %q", key.Line, key.Value)
			}
			seen[key.Value] = true

			child, err := fromYAML(value, preds)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key.Value, err)
			}
			defs = append(defs, FieldDef{Name: key.Value, Node: child})
		}
		return &Fields{defs: defs}, nil

	case yaml.SequenceNode:
		elems := make([]Node, 0, len(n.Content))
		for i, item := range n.Content {
			child, err := fromYAML(item, preds)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, child)
		}
		return &List{elems: elems}, nil

	case yaml.ScalarNode:
		return scalarFromYAML(n, preds)

	case yaml.AliasNode:
		return nil, fmt.Errorf("line %d: aliases are not supported in schemas", n.Line)

	default:
		return nil, fmt.Errorf("line %d: unexpected YAML node", n.Line)
	}
}

func scalarFromYAML(n *yaml.Node, preds PredicateLookup) (Node, error) {
	switch {
	case n.Tag == TagType:
		t, err := ParseType(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return t, nil

	case n.Tag == TagPred:
		if preds == nil {
			return nil, fmt.Errorf("line %d: predicate %q used but no predicates are available", n.Line, n.Value)
		}
		p, ok := preds.Lookup(n.Value)
		if !ok {
			return nil, fmt.Errorf("line %d: unknown predicate %q", n.Line, n.Value)
		}
		return p, nil

	case strings.HasPrefix(n.Tag, "!") && !strings.HasPrefix(n.Tag, "!!"):
		return nil, fmt.Errorf("line %d: unknown tag %s", n.Line, n.Tag)
	}

	var value any
	if err := n.Decode(&value); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return Lit(value), nil
}

// MarshalYAML renders node in the format read by ParseYAML.
func MarshalYAML(node Node) ([]byte, error) {
	yn, err := toYAML(node)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(yn)
}

func toYAML(node Node) (*yaml.Node, error) {
	switch n := node.(type) {
	case *Fields:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, def := range n.defs {
			child, err := toYAML(def.Node)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", def.Name, err)
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: def.Name}
			out.Content = append(out.Content, key, child)
		}
		return out, nil

	case *List:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, elem := range n.elems {
			child, err := toYAML(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Content = append(out.Content, child)
		}
		return out, nil

	case Type:
		if _, ok := typeNames[n]; !ok {
			return nil, fmt.Errorf("unsupported type tag %d", uint8(n))
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagType, Value: n.Name()}, nil

	case *Predicate:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagPred, Value: n.name}, nil

	case *Literal:
		if num, ok := n.value.(json.Number); ok {
			tag := "!!float"
			if isIntegral(num) {
				tag = "!!int"
			}
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: num.String()}, nil
		}
		out := &yaml.Node{}
		if err := out.Encode(n.value); err != nil {
			return nil, fmt.Errorf("literal %s: %w", formatValue(n.value), err)
		}
		if out.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("literal %s is not a scalar", formatValue(n.value))
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported schema node %T", node)
	}
}
