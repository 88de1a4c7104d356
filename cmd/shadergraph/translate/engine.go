package translate

import (
	"fmt"
	"log/slog"

	"shadergraph/cmd/shadergraph/asm"
	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/graph"
)

// Engine expands catalog templates into port calls for one graph. It owns
// the graph's register environment; one Engine serves one program at a time
// and must not be shared between goroutines.
type Engine struct {
	cat  *catalog.Catalog
	port graph.Port
	env  *Environment
	log  *slog.Logger

	used map[instanceKey]struct{}
}

type instanceKey struct {
	opcode   string
	instance uint64
}

// NewEngine returns an Engine driving port. A nil env starts empty; a nil
// logger uses slog.Default().
func NewEngine(cat *catalog.Catalog, port graph.Port, env *Environment, log *slog.Logger) *Engine {
	if env == nil {
		env = NewEnvironment()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cat:  cat,
		port: port,
		env:  env,
		log:  log,
		used: make(map[instanceKey]struct{}),
	}
}

// Environment returns the engine's register environment.
func (e *Engine) Environment() *Environment { return e.env }

// Port returns the port the engine drives.
func (e *Engine) Port() graph.Port { return e.port }

// Instantiate realizes one instruction. Node names are scoped by
// (opcode, instance), so instance must not repeat for an opcode within
// one graph.
//
// The register environment changes only when every directive succeeded:
// staged result writes are published together at the end. Operand errors
// are detected before the first port call.
func (e *Engine) Instantiate(opcode string, operands []asm.Operand, dst asm.RegisterID, instance uint64) error {
	tpl, status := e.cat.Lookup(opcode)
	switch status {
	case catalog.StatusUnimplemented:
		return fmt.Errorf("phase=instantiate path=%s#%d: %w: %s", opcode, instance, ErrUnsupportedOpcode, opcode)
	case catalog.StatusNoOp:
		e.log.Debug("instantiate", "opcode", opcode, "instance", instance, "noop", true)
		return nil
	}

	key := instanceKey{opcode: opcode, instance: instance}
	if _, dup := e.used[key]; dup {
		return fmt.Errorf("phase=instantiate path=%s#%d: %w", opcode, instance, ErrInstanceReused)
	}

	b, err := bind(tpl, operands, dst, instance, e.env)
	if err != nil {
		return &InstantiationError{Opcode: opcode, Instance: instance, Err: err}
	}
	e.used[key] = struct{}{}

	writes, err := e.execute(b)
	if err != nil {
		return &InstantiationError{Opcode: opcode, Instance: instance, Err: err}
	}
	e.env.publish(writes)

	e.log.Debug("instantiate", "opcode", opcode, "instance", instance, "dst", string(dst), "nodes", tpl.NodeCount())
	return nil
}

// Run instantiates in using its own opcode, operands and destination.
func (e *Engine) Run(in asm.Instruction, instance uint64) error {
	return e.Instantiate(in.Opcode, in.Operands, in.Dst, instance)
}

func (e *Engine) execute(b *binding) ([]pendingWrite, error) {
	var writes []pendingWrite
	for _, d := range b.tpl.Directives {
		switch d := d.(type) {
		case catalog.NodeCreate:
			name := b.tpl.NodeName(d.Local, b.instance)
			h, err := e.port.CreateNode(name, d.Kind)
			if err != nil {
				return nil, fmt.Errorf("create %s: %w", name, err)
			}
			b.handles[d.Local], b.created[d.Local] = h, true

		case catalog.AttributeSet:
			h, err := b.node(d.Local)
			if err != nil {
				return nil, err
			}
			if err := e.port.SetAttribute(h, d.Field, d.Value); err != nil {
				return nil, fmt.Errorf("set %s.%s: %w", b.tpl.NodeName(d.Local, b.instance), d.Field, err)
			}

		case catalog.SocketBind:
			h, err := b.node(d.Local)
			if err != nil {
				return nil, err
			}
			v, err := b.value(d.Source, e.port)
			if err != nil {
				return nil, err
			}
			if err := e.port.SetInput(h, d.Input, v); err != nil {
				return nil, fmt.Errorf("set %s.inputs[%d]: %w", b.tpl.NodeName(d.Local, b.instance), d.Input, err)
			}

		case catalog.ResultBind:
			v, err := b.value(d.Source, e.port)
			if err != nil {
				return nil, err
			}
			writes = append(writes, pendingWrite{reg: b.target(d.Target), value: v})
		}
	}
	return writes, nil
}
