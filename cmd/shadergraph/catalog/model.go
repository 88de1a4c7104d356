package catalog

import (
	"fmt"
	"strconv"

	"shadergraph/cmd/shadergraph/graph"
)

// Status classifies an opcode in the catalog.
type Status uint8

const (
	// StatusUnimplemented: the opcode has no section, or its section is an empty stub.
	StatusUnimplemented Status = iota
	// StatusNoOp: the section is declared with no directives (only comments).
	StatusNoOp
	// StatusExplicit: the section has a directive body.
	StatusExplicit
)

func (s Status) String() string {
	switch s {
	case StatusNoOp:
		return "noop"
	case StatusExplicit:
		return "explicit"
	default:
		return "unimplemented"
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "unimplemented":
		return StatusUnimplemented, nil
	case "noop":
		return StatusNoOp, nil
	case "explicit":
		return StatusExplicit, nil
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Template is the compiled, immutable body of one opcode.
// Templates are shared read-only by every instantiation.
type Template struct {
	Opcode string
	Status Status
	// Arity is the number of operands the body references (or the declared arity).
	Arity         int
	ArityDeclared bool
	// Locals holds the local node identifiers without the sigil, in creation
	// order. Directives address them by index.
	Locals     []string
	Directives []Directive
	// Line is the section marker line in the source, 0 when unknown.
	Line int
}

// Directive is the sealed interface of template directives.
// Only NodeCreate, AttributeSet, SocketBind and ResultBind implement it.
type Directive interface {
	isDirective()
	SourceLine() int
}

// NodeCreate creates local node Local of the given kind.
type NodeCreate struct {
	Local int
	Kind  graph.NodeKind
	Line  int
}

// AttributeSet sets an enumerated attribute on a local node.
type AttributeSet struct {
	Local int
	Field string
	Value graph.EnumValue
	Line  int
}

// SocketBind sets input socket Input of a local node.
type SocketBind struct {
	Local  int
	Input  int
	Source Source
	Line   int
}

// ResultBind stages Source as the value written to Target once the
// instantiation completes.
type ResultBind struct {
	Target Target
	Source Source
	Line   int
}

func (NodeCreate) isDirective()   {}
func (AttributeSet) isDirective() {}
func (SocketBind) isDirective()   {}
func (ResultBind) isDirective()   {}

func (d NodeCreate) SourceLine() int   { return d.Line }
func (d AttributeSet) SourceLine() int { return d.Line }
func (d SocketBind) SourceLine() int   { return d.Line }
func (d ResultBind) SourceLine() int   { return d.Line }

// Source is the right-hand side of a SocketBind or ResultBind.
// Only OperandSource, LiteralSource and LocalSource implement it.
type Source interface {
	isSource()
}

// OperandSource is §p<Index>.
type OperandSource struct{ Index int }

// LiteralSource is a constant.
type LiteralSource struct{ Value float64 }

// LocalSource is output Output of local node Local.
type LocalSource struct {
	Local  int
	Output int
}

func (OperandSource) isSource() {}
func (LiteralSource) isSource() {}
func (LocalSource) isSource()   {}

// Target is where a ResultBind publishes: the destination register (§var)
// or the register named by an operand (§p<n>).
type Target struct {
	// Operand is -1 for §var.
	Operand int
}

// VarTarget is the §var target.
var VarTarget = Target{Operand: -1}

// IsVar reports whether t is §var.
func (t Target) IsVar() bool { return t.Operand < 0 }

func (t Target) String() string {
	if t.IsVar() {
		return "§var"
	}
	return "§p" + strconv.Itoa(t.Operand)
}

// NodeName returns the graph node name of local i for one instantiation:
// "<opcode>_<instance>" for §name, "<opcode>_<instance>_<suffix>" for §name_<suffix>.
func (t *Template) NodeName(local int, instance uint64) string {
	base := fmt.Sprintf("%s_%d", t.Opcode, instance)
	if suffix := localSuffix(t.Locals[local]); suffix != "" {
		return base + "_" + suffix
	}
	return base
}

// NodeCount returns the number of nodes one instantiation creates.
func (t *Template) NodeCount() int {
	return len(t.Locals)
}

// OperandRoles splits the operand indexes the body references into those
// read as values and those written as result targets. An index may be both.
func (t *Template) OperandRoles() (sources, targets map[int]bool) {
	sources, targets = map[int]bool{}, map[int]bool{}
	note := func(src Source) {
		if op, ok := src.(OperandSource); ok {
			sources[op.Index] = true
		}
	}
	for _, d := range t.Directives {
		switch d := d.(type) {
		case SocketBind:
			note(d.Source)
		case ResultBind:
			note(d.Source)
			if !d.Target.IsVar() {
				targets[d.Target.Operand] = true
			}
		}
	}
	return sources, targets
}

// OperandIndexes returns the distinct operand indexes referenced by the
// body, in ascending order.
func (t *Template) OperandIndexes() []int {
	sources, targets := t.OperandRoles()
	var out []int
	for i := 0; i < t.Arity; i++ {
		if sources[i] || targets[i] {
			out = append(out, i)
		}
	}
	return out
}
