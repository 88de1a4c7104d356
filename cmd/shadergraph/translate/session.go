package translate

import (
	"fmt"
	"log/slog"

	"shadergraph/cmd/shadergraph/asm"
	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/graph"
)

// Session translates a program while it is being read, one source line at
// a time. Input and constant registers are exposed on the group input node
// as soon as the reader first sees them.
type Session struct {
	reader *asm.Reader
	eng    *Engine

	input    graph.NodeHandle
	hasInput bool
	bound    map[asm.RegisterID]bool
	sockets  int

	next uint64
}

// NewSession starts an empty program called name that drives port.
func NewSession(name string, cat *catalog.Catalog, port graph.Port, log *slog.Logger) *Session {
	return &Session{
		reader: asm.NewReader(name),
		eng:    NewEngine(cat, port, NewEnvironment(), log),
		bound:  map[asm.RegisterID]bool{},
	}
}

// Engine returns the engine the session feeds.
func (s *Session) Engine() *Engine { return s.eng }

// Program returns the program read so far.
func (s *Session) Program() *asm.Program { return s.reader.Program() }

// Done reports whether "ret" was read.
func (s *Session) Done() bool { return s.reader.Done() }

// Feed reads one line and instantiates the instructions it yields. On
// failure it returns the instructions instantiated before the failing one.
func (s *Session) Feed(lineNo int, text string) ([]asm.Instruction, error) {
	ins, err := s.reader.Line(lineNo, text)
	if err != nil {
		return nil, err
	}
	if err := s.bindNew(); err != nil {
		return nil, err
	}
	name := s.reader.Program().Name
	for i, in := range ins {
		id := s.next
		s.next++
		if err := s.eng.Run(in, id); err != nil {
			return ins[:i], fmt.Errorf("phase=translate path=%s:%d: %w", name, in.Line, err)
		}
	}
	return ins, nil
}

func (s *Session) bindNew() error {
	prog := s.reader.Program()
	regs := append(append([]asm.RegisterID(nil), prog.Inputs...), prog.Constants...)
	port := s.eng.Port()
	for _, reg := range regs {
		if s.bound[reg] {
			continue
		}
		if !s.hasInput {
			h, err := port.CreateNode(GroupInputName, graph.KindGroupInput)
			if err != nil {
				return fmt.Errorf("phase=translate path=%s: create %s: %w", prog.Name, GroupInputName, err)
			}
			s.input, s.hasInput = h, true
		}
		ref, err := port.OutputRef(s.input, s.sockets)
		if err != nil {
			return fmt.Errorf("phase=translate path=%s: bind %s: %w", prog.Name, reg, err)
		}
		s.sockets++
		s.bound[reg] = true
		s.eng.Environment().Write(reg, ref)
	}
	return nil
}
