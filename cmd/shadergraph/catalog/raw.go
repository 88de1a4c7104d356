package catalog

// RawSection is one opcode section as read from an external source (the
// mapping table or YAML). It is format-agnostic: placeholders are kept in
// their sigil form and resolved by Build.
type RawSection struct {
	Opcode string
	// Arity is the declared operand count; nil when the source declares none.
	Arity      *int
	Status     Status
	Directives []RawDirective
	Line       int
}

// RawOp tells which directive a RawDirective carries.
type RawOp uint8

const (
	RawCreate RawOp = iota + 1
	RawAttribute
	RawInput
	RawResult
)

func (o RawOp) String() string {
	switch o {
	case RawCreate:
		return "create"
	case RawAttribute:
		return "attribute"
	case RawInput:
		return "input"
	case RawResult:
		return "result"
	}
	return "unknown"
}

// RawDirective is one unresolved directive.
//
//   - RawCreate:    Local, Kind
//   - RawAttribute: Local, Field, Value
//   - RawInput:     Local, Input, Source
//   - RawResult:    Target, Source
//
// Local is a local placeholder ("§name", "§name_cmp"); Target is "§var" or
// "§p<n>"; Source is "§p<n>", a number, "§name_x" or "§name_x.outputs[<j>]".
type RawDirective struct {
	Op     RawOp
	Local  string
	Kind   string
	Field  string
	Value  string
	Input  int
	Target string
	Source string
	Line   int
}

// Raw converts t back to its unresolved form. Build(Raw()) yields an
// equivalent template.
func (t *Template) Raw() RawSection {
	s := RawSection{Opcode: t.Opcode, Status: t.Status, Line: t.Line}
	if t.ArityDeclared {
		n := t.Arity
		s.Arity = &n
	}
	local := func(i int) string { return sigil + t.Locals[i] }
	for _, d := range t.Directives {
		var r RawDirective
		switch d := d.(type) {
		case NodeCreate:
			r = RawDirective{Op: RawCreate, Local: local(d.Local), Kind: string(d.Kind)}
		case AttributeSet:
			r = RawDirective{Op: RawAttribute, Local: local(d.Local), Field: d.Field, Value: string(d.Value)}
		case SocketBind:
			r = RawDirective{Op: RawInput, Local: local(d.Local), Input: d.Input, Source: formatSource(d.Source, t.Locals)}
		case ResultBind:
			r = RawDirective{Op: RawResult, Target: d.Target.String(), Source: formatSource(d.Source, t.Locals)}
		}
		r.Line = d.SourceLine()
		s.Directives = append(s.Directives, r)
	}
	return s
}
