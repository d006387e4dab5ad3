package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selector names one HTML tag to extract, optionally restricted to elements
// carrying a class.
type Selector struct {
	// Tag is the element name to match (e.g. "h1", "p").
	Tag string

	// Class, when non-empty, additionally requires exact class membership
	// (the element's class attribute contains this class).
	Class string
}

// String renders the selector in CSS form ("p.intro" or "h1").
func (s Selector) String() string {
	if s.Class == "" {
		return s.Tag
	}
	return s.Tag + "." + s.Class
}

// Selectors is the ordered selector specification for one crawl.
// Order matters: output page objects list fields in this order.
type Selectors []Selector

// Tags returns the selector tag names in order.
func (s Selectors) Tags() []string {
	tags := make([]string, 0, len(s))
	for _, sel := range s {
		tags = append(tags, sel.Tag)
	}
	return tags
}

// ParseSelector parses the CLI selector syntax: "tag" or "tag.class".
// Only the first dot splits; class names containing dots are not supported.
func ParseSelector(spec string) (Selector, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}

	tag, class, _ := strings.Cut(spec, ".")
	if tag == "" {
		return Selector{}, fmt.Errorf("invalid selector %q: missing tag name", spec)
	}
	if strings.ContainsAny(tag, " \t") || strings.ContainsAny(class, " \t.") {
		return Selector{}, fmt.Errorf("invalid selector %q", spec)
	}

	return Selector{Tag: tag, Class: class}, nil
}

// ParseSelectors parses a list of CLI selector specs, preserving order.
func ParseSelectors(specs []string) (Selectors, error) {
	selectors := make(Selectors, 0, len(specs))
	for _, spec := range specs {
		sel, err := ParseSelector(spec)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}

// UnmarshalYAML decodes a YAML mapping of tag to optional class name,
// preserving the mapping's order:
//
//	selectors:
//	  h1:
//	  p: intro
//
// Design decision: We decode via yaml.Node rather than map[string]string
// because Go maps would lose the author's field order, and the order
// determines the output page layout.
func (s *Selectors) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("selectors: expected a mapping, got %s", nodeKind(node))
	}

	selectors := make(Selectors, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		var class string
		if valNode.Tag != "!!null" {
			if err := valNode.Decode(&class); err != nil {
				return fmt.Errorf("selectors: class for %q: %w", keyNode.Value, err)
			}
		}

		sel := Selector{Tag: strings.TrimSpace(keyNode.Value), Class: strings.TrimSpace(class)}
		if sel.Tag == "" {
			return fmt.Errorf("selectors: empty tag name")
		}
		selectors = append(selectors, sel)
	}

	*s = selectors
	return nil
}

// MarshalYAML encodes the selectors back to an ordered mapping.
func (s Selectors) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, sel := range s {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: sel.Tag}
		val := &yaml.Node{Kind: yaml.ScalarNode, Value: sel.Class}
		if sel.Class == "" {
			val.Tag = "!!null"
			val.Value = ""
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// nodeKind describes a yaml node kind for error messages.
func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "unknown node"
	}
}
