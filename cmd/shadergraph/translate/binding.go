package translate

import (
	"fmt"

	"shadergraph/cmd/shadergraph/asm"
	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/graph"
)

// binding is the per-instantiation context: resolved operands, the
// destination and the arena of local node handles.
type binding struct {
	tpl      *catalog.Template
	instance uint64
	dst      asm.RegisterID

	// values holds resolved source operands, targets the registers named by
	// result-target operands. Both are indexed by operand position.
	values  []graph.Value
	targets []asm.RegisterID

	handles []graph.NodeHandle
	created []bool
}

// bind resolves every operand the template references before any port call
// is made, so that index and register errors never leave a partial graph.
func bind(tpl *catalog.Template, operands []asm.Operand, dst asm.RegisterID, instance uint64, env *Environment) (*binding, error) {
	b := &binding{
		tpl:      tpl,
		instance: instance,
		dst:      dst,
		values:   make([]graph.Value, len(operands)),
		targets:  make([]asm.RegisterID, len(operands)),
		handles:  make([]graph.NodeHandle, len(tpl.Locals)),
		created:  make([]bool, len(tpl.Locals)),
	}

	sources, targets := tpl.OperandRoles()
	for _, i := range tpl.OperandIndexes() {
		if i >= len(operands) {
			return nil, fmt.Errorf("%w: §p%d of %s with %d operands", ErrOperandIndexOutOfRange, i, tpl.Opcode, len(operands))
		}
		if targets[i] {
			ref, ok := operands[i].(asm.RegisterRef)
			if !ok {
				return nil, fmt.Errorf("§p%d must name a register, got %s", i, operands[i])
			}
			b.targets[i] = ref.Register
		}
		if sources[i] {
			v, err := resolveOperand(operands[i], env)
			if err != nil {
				return nil, err
			}
			b.values[i] = v
		}
	}
	return b, nil
}

// resolveOperand maps an instruction operand to a graph value.
func resolveOperand(op asm.Operand, env *Environment) (graph.Value, error) {
	switch op := op.(type) {
	case asm.Literal:
		return graph.Literal(op), nil
	case asm.Resource:
		return graph.Resource(op), nil
	case asm.RegisterRef:
		if op.Register == "" {
			return nil, fmt.Errorf("%w: null register read", ErrUnboundRegister)
		}
		return env.Read(op.Register)
	}
	return nil, fmt.Errorf("unknown operand %T", op)
}

// node returns the handle of a local; the catalog guarantees creation
// precedes use.
func (b *binding) node(local int) (graph.NodeHandle, error) {
	if !b.created[local] {
		return 0, fmt.Errorf("local %s used before creation", b.tpl.Locals[local])
	}
	return b.handles[local], nil
}

// value resolves the right-hand side of a SocketBind or ResultBind.
func (b *binding) value(src catalog.Source, port graph.Port) (graph.Value, error) {
	switch s := src.(type) {
	case catalog.OperandSource:
		return b.values[s.Index], nil
	case catalog.LiteralSource:
		return graph.Literal(s.Value), nil
	case catalog.LocalSource:
		h, err := b.node(s.Local)
		if err != nil {
			return nil, err
		}
		return port.OutputRef(h, s.Output)
	}
	return nil, fmt.Errorf("unknown source %T", src)
}

// target returns the register a ResultBind publishes to.
func (b *binding) target(t catalog.Target) asm.RegisterID {
	if t.IsVar() {
		return b.dst
	}
	return b.targets[t.Operand]
}
