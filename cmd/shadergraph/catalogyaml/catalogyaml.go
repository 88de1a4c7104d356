// Package catalogyaml reads and writes the YAML form of a template catalog.
package catalogyaml

import (
	"bytes"
	"fmt"

	"shadergraph/cmd/shadergraph/catalog"

	"gopkg.in/yaml.v3"
)

// Two YAML forms are accepted:
//   - Mapping form (preferred): a mapping with a "sections" key.
//   - Shorthand form: a bare sequence of sections.
//
// Each section has an opcode, an optional arity and status, and a body of
// single-key directive mappings:
//
//	sections:
//	  - opcode: add
//	    body:
//	      - new: {local: §name, kind: ShaderNodeMath}
//	      - set: {local: §name, field: operation, value: ADD}
//	      - input: {local: §name, index: 0, source: §p0}
//	      - result: {target: §var, source: "§name.outputs[0]"}
type yamlDocument struct {
	Sections []yamlSection `yaml:"sections"`
}

type yamlSection struct {
	Opcode string `yaml:"opcode"`
	Arity  *int   `yaml:"arity,omitempty"`
	Status string `yaml:"status,omitempty"`
	// Body items are decoded one by one so their line numbers survive.
	Body []yaml.Node `yaml:"body,omitempty"`
}

type yamlDirective struct {
	New    *yamlNew    `yaml:"new,omitempty"`
	Set    *yamlSet    `yaml:"set,omitempty"`
	Input  *yamlInput  `yaml:"input,omitempty"`
	Result *yamlResult `yaml:"result,omitempty"`
}

type yamlNew struct {
	Local string `yaml:"local"`
	Kind  string `yaml:"kind"`
}

type yamlSet struct {
	Local string `yaml:"local"`
	Field string `yaml:"field"`
	Value string `yaml:"value"`
}

type yamlInput struct {
	Local  string `yaml:"local"`
	Index  int    `yaml:"index"`
	Source string `yaml:"source"`
}

type yamlResult struct {
	Target string `yaml:"target"`
	Source string `yaml:"source"`
}

func parseErr(line int, format string, args ...any) error {
	return fmt.Errorf("phase=catalog path=<yaml>:%d: %w: %s", line, catalog.ErrMalformedTemplate, fmt.Sprintf(format, args...))
}

// ParseSections decodes a YAML catalog into raw sections.
func ParseSections(in []byte) ([]catalog.RawSection, error) {
	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		return nil, fmt.Errorf("phase=catalog path=<yaml>: %w: %v", catalog.ErrMalformedTemplate, err)
	}
	if len(docNode.Content) == 0 {
		return nil, parseErr(0, "empty YAML")
	}
	root := docNode.Content[0]

	var items []yaml.Node
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&items); err != nil {
			return nil, parseErr(root.Line, "%v", err)
		}
	case yaml.MappingNode:
		var doc struct {
			Sections []yaml.Node `yaml:"sections"`
		}
		if err := root.Decode(&doc); err != nil {
			return nil, parseErr(root.Line, "%v", err)
		}
		items = doc.Sections
	default:
		return nil, parseErr(root.Line, "unexpected YAML root kind: %d", root.Kind)
	}

	out := make([]catalog.RawSection, 0, len(items))
	for i := range items {
		s, err := convertSection(&items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Parse decodes a YAML catalog and builds it.
func Parse(in []byte) (*catalog.Catalog, error) {
	sections, err := ParseSections(in)
	if err != nil {
		return nil, err
	}
	return catalog.Build(sections)
}

func convertSection(node *yaml.Node) (catalog.RawSection, error) {
	var ys yamlSection
	if err := node.Decode(&ys); err != nil {
		return catalog.RawSection{}, parseErr(node.Line, "%v", err)
	}
	if ys.Opcode == "" {
		return catalog.RawSection{}, parseErr(node.Line, "section is missing 'opcode'")
	}
	s := catalog.RawSection{Opcode: ys.Opcode, Arity: ys.Arity, Line: node.Line}

	for i := range ys.Body {
		d, err := convertDirective(&ys.Body[i])
		if err != nil {
			return catalog.RawSection{}, fmt.Errorf("%s: %w", ys.Opcode, err)
		}
		s.Directives = append(s.Directives, d)
	}

	switch {
	case ys.Status != "":
		st, err := catalog.ParseStatus(ys.Status)
		if err != nil {
			return catalog.RawSection{}, parseErr(node.Line, "%v", err)
		}
		s.Status = st
	case len(s.Directives) > 0:
		s.Status = catalog.StatusExplicit
	default:
		s.Status = catalog.StatusUnimplemented
	}
	return s, nil
}

func convertDirective(node *yaml.Node) (catalog.RawDirective, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return catalog.RawDirective{}, parseErr(node.Line, "body item must be a single-key mapping")
	}
	var yd yamlDirective
	if err := node.Decode(&yd); err != nil {
		return catalog.RawDirective{}, parseErr(node.Line, "%v", err)
	}
	d := catalog.RawDirective{Line: node.Line}
	switch {
	case yd.New != nil:
		d.Op, d.Local, d.Kind = catalog.RawCreate, yd.New.Local, yd.New.Kind
	case yd.Set != nil:
		d.Op, d.Local, d.Field, d.Value = catalog.RawAttribute, yd.Set.Local, yd.Set.Field, yd.Set.Value
	case yd.Input != nil:
		d.Op, d.Local, d.Input, d.Source = catalog.RawInput, yd.Input.Local, yd.Input.Index, yd.Input.Source
	case yd.Result != nil:
		d.Op, d.Target, d.Source = catalog.RawResult, yd.Result.Target, yd.Result.Source
	default:
		return catalog.RawDirective{}, parseErr(node.Line, "unknown directive %q", node.Content[0].Value)
	}
	return d, nil
}

// Marshal encodes c in mapping form. Parse(Marshal(c)) yields a catalog with
// the same templates, statuses and order.
func Marshal(c *catalog.Catalog) ([]byte, error) {
	doc := yamlDocument{Sections: make([]yamlSection, 0, c.Len())}
	for _, t := range c.Templates() {
		raw := t.Raw()
		ys := yamlSection{Opcode: raw.Opcode, Arity: raw.Arity, Status: raw.Status.String()}
		for _, d := range raw.Directives {
			var n yaml.Node
			if err := n.Encode(encodeDirective(d)); err != nil {
				return nil, err
			}
			for _, v := range n.Content {
				if v.Kind == yaml.MappingNode {
					// One directive per line.
					v.Style = yaml.FlowStyle
				}
			}
			ys.Body = append(ys.Body, n)
		}
		doc.Sections = append(doc.Sections, ys)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeDirective(d catalog.RawDirective) yamlDirective {
	switch d.Op {
	case catalog.RawCreate:
		return yamlDirective{New: &yamlNew{Local: d.Local, Kind: d.Kind}}
	case catalog.RawAttribute:
		return yamlDirective{Set: &yamlSet{Local: d.Local, Field: d.Field, Value: d.Value}}
	case catalog.RawInput:
		return yamlDirective{Input: &yamlInput{Local: d.Local, Index: d.Input, Source: d.Source}}
	default:
		return yamlDirective{Result: &yamlResult{Target: d.Target, Source: d.Source}}
	}
}
