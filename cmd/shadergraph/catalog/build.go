package catalog

import (
	"fmt"
	"strings"

	"shadergraph/cmd/shadergraph/graph"
)

// Build compiles raw sections into a Catalog. Any invalid section makes the
// whole catalog unusable: the first error is returned.
func Build(sections []RawSection) (*Catalog, error) {
	c := newCatalog()
	for _, s := range sections {
		t, err := compile(s)
		if err != nil {
			return nil, err
		}
		if err := c.add(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func malformed(opcode string, line int, format string, args ...any) error {
	path := opcode
	if path == "" {
		path = "<missing>"
	}
	if line > 0 {
		path = fmt.Sprintf("%s:%d", path, line)
	}
	return fmt.Errorf("phase=catalog path=%s: %w: %s", path, ErrMalformedTemplate, fmt.Sprintf(format, args...))
}

// compile resolves the placeholders of one section and checks that the body
// only references what it has already declared.
func compile(s RawSection) (*Template, error) {
	op := s.Opcode
	if strings.TrimSpace(op) == "" || strings.ContainsAny(op, " \t") {
		return nil, malformed(op, s.Line, "invalid opcode name %q", op)
	}

	t := &Template{
		Opcode: op,
		Status: s.Status,
		Line:   s.Line,
	}
	if s.Arity != nil {
		if *s.Arity < 0 {
			return nil, malformed(op, s.Line, "negative arity %d", *s.Arity)
		}
		t.Arity = *s.Arity
		t.ArityDeclared = true
	}

	switch s.Status {
	case StatusUnimplemented, StatusNoOp:
		if len(s.Directives) > 0 {
			return nil, malformed(op, s.Line, "%s section must not have directives", s.Status)
		}
		return t, nil
	case StatusExplicit:
		if len(s.Directives) == 0 {
			return nil, malformed(op, s.Line, "explicit section has no directives")
		}
	default:
		return nil, malformed(op, s.Line, "unknown status %d", s.Status)
	}

	b := &builder{
		t:      t,
		index:  map[string]int{},
		bound:  map[[2]int]bool{},
		maxOp:  -1,
		hasVar: false,
	}
	for _, d := range s.Directives {
		if err := b.add(d); err != nil {
			return nil, malformed(op, d.Line, "%v", err)
		}
	}
	if !b.hasVar {
		return nil, malformed(op, s.Line, "no §var result binding")
	}

	if t.ArityDeclared {
		if b.maxOp >= t.Arity {
			return nil, malformed(op, s.Line, "operand §p%d exceeds declared arity %d", b.maxOp, t.Arity)
		}
	} else {
		t.Arity = b.maxOp + 1
	}
	return t, nil
}

type builder struct {
	t      *Template
	index  map[string]int
	kinds  []graph.KindSpec
	bound  map[[2]int]bool
	maxOp  int
	hasVar bool
}

func (b *builder) lookup(name string) (int, bool) {
	i, ok := b.index[name]
	return i, ok
}

func (b *builder) local(placeholder string) (int, error) {
	name, ok := parseLocal(placeholder)
	if !ok {
		return 0, fmt.Errorf("invalid local %q", placeholder)
	}
	i, ok := b.index[name]
	if !ok {
		return 0, fmt.Errorf("local %s%s used before it is created", sigil, name)
	}
	return i, nil
}

func (b *builder) source(raw string, into int) (Source, error) {
	src, err := parseSource(raw, b.lookup)
	if err != nil {
		return nil, err
	}
	switch s := src.(type) {
	case OperandSource:
		b.noteOperand(s.Index)
	case LocalSource:
		if s.Local == into {
			return nil, fmt.Errorf("%s%s feeds its own input", sigil, b.t.Locals[s.Local])
		}
		if !b.kinds[s.Local].HasOutput(s.Output) {
			return nil, fmt.Errorf("%s%s has no output %d", sigil, b.t.Locals[s.Local], s.Output)
		}
	}
	return src, nil
}

func (b *builder) noteOperand(i int) {
	if i > b.maxOp {
		b.maxOp = i
	}
}

func (b *builder) add(d RawDirective) error {
	switch d.Op {
	case RawCreate:
		name, ok := parseLocal(d.Local)
		if !ok {
			return fmt.Errorf("invalid local %q", d.Local)
		}
		if _, exists := b.index[name]; exists {
			return fmt.Errorf("local %s%s created twice", sigil, name)
		}
		kind := graph.NodeKind(d.Kind)
		spec, ok := graph.Spec(kind)
		if !ok || !spec.Template {
			return fmt.Errorf("unknown node kind %q", d.Kind)
		}
		b.index[name] = len(b.t.Locals)
		b.t.Locals = append(b.t.Locals, name)
		b.kinds = append(b.kinds, spec)
		b.t.Directives = append(b.t.Directives, NodeCreate{Local: b.index[name], Kind: kind, Line: d.Line})

	case RawAttribute:
		i, err := b.local(d.Local)
		if err != nil {
			return err
		}
		value := graph.EnumValue(d.Value)
		if !b.kinds[i].Accepts(d.Field, value) {
			return fmt.Errorf("attribute %s = %q is not valid for %s%s", d.Field, d.Value, sigil, b.t.Locals[i])
		}
		b.t.Directives = append(b.t.Directives, AttributeSet{Local: i, Field: d.Field, Value: value, Line: d.Line})

	case RawInput:
		i, err := b.local(d.Local)
		if err != nil {
			return err
		}
		if d.Input < 0 || d.Input >= b.kinds[i].Inputs {
			return fmt.Errorf("%s%s has no input %d", sigil, b.t.Locals[i], d.Input)
		}
		key := [2]int{i, d.Input}
		if b.bound[key] {
			return fmt.Errorf("%s%s.inputs[%d] bound twice", sigil, b.t.Locals[i], d.Input)
		}
		src, err := b.source(d.Source, i)
		if err != nil {
			return err
		}
		b.bound[key] = true
		b.t.Directives = append(b.t.Directives, SocketBind{Local: i, Input: d.Input, Source: src, Line: d.Line})

	case RawResult:
		target, err := parseTarget(d.Target)
		if err != nil {
			return err
		}
		if target.IsVar() {
			if b.hasVar {
				return fmt.Errorf("§var bound twice")
			}
			b.hasVar = true
		} else {
			b.noteOperand(target.Operand)
		}
		src, err := b.source(d.Source, -1)
		if err != nil {
			return err
		}
		b.t.Directives = append(b.t.Directives, ResultBind{Target: target, Source: src, Line: d.Line})

	default:
		return fmt.Errorf("unknown directive %d", d.Op)
	}
	return nil
}
