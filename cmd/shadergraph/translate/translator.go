package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"shadergraph/cmd/shadergraph/asm"
	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/graph"

	"golang.org/x/sync/errgroup"
)

// Policy decides what Run does with an unsupported opcode.
type Policy int

const (
	// Abort stops the program at the first unsupported opcode.
	Abort Policy = iota
	// Skip records the instruction in the report and moves on; its
	// destination keeps whatever it held before.
	Skip
)

func (p Policy) String() string {
	if p == Skip {
		return "skip"
	}
	return "abort"
}

// ParsePolicy is the inverse of Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "abort", "":
		return Abort, nil
	case "skip":
		return Skip, nil
	}
	return Abort, fmt.Errorf("unknown policy %q (want abort or skip)", s)
}

// GroupInputName is the name of the node exposing program inputs.
const GroupInputName = "group_input"

// Output is the final value of one declared output register.
type Output struct {
	Register asm.RegisterID
	Value    graph.Value
}

// Report summarises one program translation.
type Report struct {
	Program      string
	Instructions int
	Instantiated int
	NoOps        int
	// Skipped lists the unsupported opcodes passed over under Skip, in order.
	Skipped []string
	// Opcodes counts the instantiated instructions per opcode.
	Opcodes map[string]int
	// Nodes is the number of nodes created, the group input node included.
	Nodes int
	// Inputs lists the registers exposed on the group input node, by socket.
	Inputs  []asm.RegisterID
	Outputs []Output
}

// SortedOpcodes returns the report's opcodes, most used first.
func (r *Report) SortedOpcodes() []string {
	ops := make([]string, 0, len(r.Opcodes))
	for op := range r.Opcodes {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		if r.Opcodes[ops[i]] != r.Opcodes[ops[j]] {
			return r.Opcodes[ops[i]] > r.Opcodes[ops[j]]
		}
		return ops[i] < ops[j]
	})
	return ops
}

// Translator turns whole programs into graphs.
type Translator struct {
	Catalog       *catalog.Catalog
	OnUnsupported Policy
	Logger        *slog.Logger
}

func (t *Translator) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// Run translates prog into port with a fresh environment. Instructions run
// in program order with increasing instance ids; the first failure stops
// the program. The report covers what was done up to that point.
func (t *Translator) Run(ctx context.Context, prog *asm.Program, port graph.Port) (*Report, error) {
	log := t.logger().With("program", prog.Name)
	eng := NewEngine(t.Catalog, port, NewEnvironment(), log)
	rep := &Report{Program: prog.Name, Opcodes: map[string]int{}}

	if err := t.bindInputs(prog, eng, rep); err != nil {
		return rep, err
	}

	for i, in := range prog.Instructions {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Instructions++

		err := eng.Run(in, uint64(i))
		switch {
		case err == nil:
		case errors.Is(err, ErrUnsupportedOpcode) && t.OnUnsupported == Skip:
			log.Warn("skipping unsupported opcode", "opcode", in.Opcode, "line", in.Line)
			rep.Skipped = append(rep.Skipped, in.Opcode)
			continue
		default:
			return rep, fmt.Errorf("phase=translate path=%s:%d: %w", prog.Name, in.Line, err)
		}

		tpl, status := t.Catalog.Lookup(in.Opcode)
		if status == catalog.StatusNoOp {
			rep.NoOps++
			continue
		}
		rep.Instantiated++
		rep.Opcodes[in.Opcode]++
		rep.Nodes += tpl.NodeCount()
	}

	for _, reg := range prog.Outputs {
		if v, err := eng.Environment().Read(reg); err == nil {
			rep.Outputs = append(rep.Outputs, Output{Register: reg, Value: v})
		}
	}
	log.Info("translated", "instructions", rep.Instructions, "nodes", rep.Nodes, "skipped", len(rep.Skipped))
	return rep, nil
}

// bindInputs exposes declared inputs and referenced constants as output
// sockets of one group input node.
func (t *Translator) bindInputs(prog *asm.Program, eng *Engine, rep *Report) error {
	regs := append(append([]asm.RegisterID(nil), prog.Inputs...), prog.Constants...)
	if len(regs) == 0 {
		return nil
	}
	port := eng.Port()
	h, err := port.CreateNode(GroupInputName, graph.KindGroupInput)
	if err != nil {
		return fmt.Errorf("phase=translate path=%s: create %s: %w", prog.Name, GroupInputName, err)
	}
	rep.Nodes++
	for i, reg := range regs {
		ref, err := port.OutputRef(h, i)
		if err != nil {
			return fmt.Errorf("phase=translate path=%s: bind %s: %w", prog.Name, reg, err)
		}
		eng.Environment().Write(reg, ref)
	}
	rep.Inputs = regs
	return nil
}

// Result is the outcome of one program in TranslateAll.
type Result struct {
	Program *asm.Program
	Port    graph.Port
	Report  *Report
	Err     error
}

// TranslateAll translates independent programs on at most workers
// goroutines (GOMAXPROCS when workers <= 0). Each program gets its own port
// from newPort and its own environment. A program failure is recorded in
// its Result and does not stop the others; only cancellation of ctx makes
// TranslateAll return an error.
func (t *Translator) TranslateAll(ctx context.Context, programs []*asm.Program, newPort func(*asm.Program) graph.Port, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(programs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, prog := range programs {
		g.Go(func() error {
			port := newPort(prog)
			rep, err := t.Run(ctx, prog, port)
			results[i] = Result{Program: prog, Port: port, Report: rep, Err: err}
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
