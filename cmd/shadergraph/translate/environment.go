package translate

import (
	"fmt"
	"sort"

	"shadergraph/cmd/shadergraph/asm"
	"shadergraph/cmd/shadergraph/graph"
)

// Environment maps registers to the value last written to them.
// It belongs to one program translation and is not safe for concurrent use.
type Environment struct {
	regs map[asm.RegisterID]graph.Value
}

// NewEnvironment returns an empty Environment.
func NewEnvironment() *Environment {
	return &Environment{regs: make(map[asm.RegisterID]graph.Value)}
}

// Write binds reg to v, replacing any earlier binding.
func (e *Environment) Write(reg asm.RegisterID, v graph.Value) {
	e.regs[reg] = v
}

// Read returns the value bound to reg. Reading a register that was never
// written is an error, never a zero value.
func (e *Environment) Read(reg asm.RegisterID) (graph.Value, error) {
	v, ok := e.regs[reg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnboundRegister, reg)
	}
	return v, nil
}

// Clear drops every binding.
func (e *Environment) Clear() {
	clear(e.regs)
}

func (e *Environment) Len() int { return len(e.regs) }

// Registers returns the bound registers in lexical order.
func (e *Environment) Registers() []asm.RegisterID {
	out := make([]asm.RegisterID, 0, len(e.regs))
	for r := range e.regs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type pendingWrite struct {
	reg   asm.RegisterID
	value graph.Value
}

// publish applies staged writes in order. Writes to the null register are
// dropped.
func (e *Environment) publish(writes []pendingWrite) {
	for _, w := range writes {
		if w.reg == "" {
			continue
		}
		e.regs[w.reg] = w.value
	}
}
