package asm

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ErrSyntax reports a disassembly line the reader cannot interpret.
var ErrSyntax = errors.New("syntax error")

var (
	versionRe  = regexp.MustCompile(`^(ps|vs|gs|hs|ds|cs)_\d+_\d+$`)
	registerRe = regexp.MustCompile(`^(r\d+|v\d+|o\d+|cb\d+\[\d+\]|[ov][A-Z]\w*)(?:\.([xyzw]{1,4}))?$`)
	resourceRe = regexp.MustCompile(`^([tsug]\d+|cb\d+\[[^\]]+\]|icb\[[^\]]+\]|x\d+\[[^\]]+\])(?:\.([xyzw]{1,4}))?$`)
	literalRe  = regexp.MustCompile(`^l\((.*)\)$`)
)

const slots = "xyzw"

// Reader turns disassembly lines into scalar instructions. It keeps the
// program being built and the state shared between lines, so one Reader
// must read one program.
type Reader struct {
	prog  Program
	temps int
	seen  map[RegisterID]bool
	done  bool
}

// NewReader returns a Reader for a program called name.
func NewReader(name string) *Reader {
	return &Reader{prog: Program{Name: name}, seen: map[RegisterID]bool{}}
}

// Parse reads a whole disassembly listing.
func Parse(name string, src []byte) (*Program, error) {
	r := NewReader(name)
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if _, err := r.Line(lineNo, sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("phase=asm path=%s: %w", name, err)
	}
	return r.Program(), nil
}

// Program returns the program read so far.
func (r *Reader) Program() *Program {
	p := r.prog
	return &p
}

// Done reports whether the reader has seen "ret".
func (r *Reader) Done() bool { return r.done }

func (r *Reader) syntax(line int, format string, args ...any) error {
	return fmt.Errorf("phase=asm path=%s:%d: %w: %s", r.prog.Name, line, ErrSyntax, fmt.Sprintf(format, args...))
}

// Line reads one line and returns the instructions it appended.
// Comments, declarations and everything after "ret" yield none.
func (r *Reader) Line(lineNo int, text string) ([]Instruction, error) {
	text = strings.TrimSpace(strings.TrimRight(text, "\r"))
	if text == "" || strings.HasPrefix(text, "//") || r.done {
		return nil, nil
	}
	if i := strings.Index(text, "//"); i > 0 {
		text = strings.TrimSpace(text[:i])
	}

	switch {
	case versionRe.MatchString(text):
		r.prog.Stage = text[:2]
		return nil, nil
	case strings.HasPrefix(text, "dcl_"):
		return nil, r.declaration(lineNo, text)
	case text == "ret" || strings.HasPrefix(text, "ret "):
		r.done = true
		return nil, nil
	}

	ins, err := r.instruction(lineNo, text)
	if err != nil {
		return nil, err
	}
	r.prog.Instructions = append(r.prog.Instructions, ins...)
	return ins, nil
}

func (r *Reader) declaration(lineNo int, text string) error {
	keyword, rest := splitOpcode(text)
	var into *[]RegisterID
	switch {
	case strings.HasPrefix(keyword, "dcl_input"):
		into = &r.prog.Inputs
	case strings.HasPrefix(keyword, "dcl_output"):
		into = &r.prog.Outputs
	default:
		// Temps, samplers, resources and constant buffers need no binding.
		return nil
	}
	for _, tok := range strings.FieldsFunc(rest, func(c rune) bool { return c == ' ' || c == ',' }) {
		m := registerRe.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		if m[2] == "" {
			*into = append(*into, RegisterID(m[1]))
			return nil
		}
		for _, c := range m[2] {
			*into = append(*into, RegisterID(m[1]+"."+string(c)))
		}
		return nil
	}
	return r.syntax(lineNo, "declaration %q names no register", text)
}

// operand is one parsed, still vector-valued operand token.
type operand struct {
	null     bool
	neg      bool
	literals []float64
	base     string
	swizzle  string
	resource bool
}

// component returns the scalar operand for destination position pos, which
// writes component slot.
func (o operand) component(pos, slot int) (Operand, error) {
	if o.literals != nil {
		switch n := len(o.literals); {
		case n == 1:
			return Literal(o.literals[0]), nil
		case n == 4:
			return Literal(o.literals[slot]), nil
		case pos < n:
			return Literal(o.literals[pos]), nil
		}
		return nil, fmt.Errorf("literal vector of %d values has no component for position %d", len(o.literals), pos)
	}
	if o.null {
		return RegisterRef{}, nil
	}
	name := o.base
	if o.swizzle != "" {
		c, err := pick(o.swizzle, pos, slot)
		if err != nil {
			return nil, err
		}
		name += "." + string(c)
	}
	if o.resource {
		return Resource(name), nil
	}
	return RegisterRef{Register: RegisterID(name)}, nil
}

func pick(swizzle string, pos, slot int) (byte, error) {
	switch n := len(swizzle); {
	case n == 1:
		return swizzle[0], nil
	case n == 4:
		return swizzle[slot], nil
	case pos < n:
		return swizzle[pos], nil
	}
	return 0, fmt.Errorf("swizzle .%s has no component for position %d", swizzle, pos)
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return float64(n), nil
}

func parseOperandToken(tok string) (operand, error) {
	var o operand
	if strings.Contains(tok, "|") {
		return o, fmt.Errorf("absolute value modifier in %q is not supported", tok)
	}
	if tok == "null" {
		o.null = true
		return o, nil
	}
	if m := literalRe.FindStringSubmatch(tok); m != nil {
		for _, part := range strings.Split(m[1], ",") {
			f, err := parseNumber(part)
			if err != nil {
				return o, err
			}
			o.literals = append(o.literals, f)
		}
		return o, nil
	}
	if f, err := parseNumber(tok); err == nil {
		o.literals = []float64{f}
		return o, nil
	}
	if strings.HasPrefix(tok, "-") {
		o.neg = true
		tok = strings.TrimSpace(tok[1:])
	}
	if m := registerRe.FindStringSubmatch(tok); m != nil {
		o.base, o.swizzle = m[1], m[2]
		return o, nil
	}
	if m := resourceRe.FindStringSubmatch(tok); m != nil {
		if o.neg {
			return o, fmt.Errorf("negated resource %q", tok)
		}
		o.base, o.swizzle, o.resource = m[1], m[2], true
		return o, nil
	}
	return o, fmt.Errorf("unrecognised operand %q", tok)
}

func (r *Reader) instruction(lineNo int, text string) ([]Instruction, error) {
	op, rest := splitOpcode(text)
	op = normalizeOpcode(op)
	params := splitParams(rest)
	if len(params) == 0 {
		return []Instruction{{Opcode: op, Line: lineNo}}, nil
	}

	ops := make([]operand, len(params))
	for i, p := range params {
		o, err := parseOperandToken(p)
		if err != nil {
			return nil, r.syntax(lineNo, "%v", err)
		}
		ops[i] = o
	}
	dst, srcs := ops[0], ops[1:]
	if dst.literals != nil || dst.neg {
		return nil, r.syntax(lineNo, "invalid destination %q", params[0])
	}

	mask := dst.swizzle
	if dst.null {
		// A null destination takes its write mask from the next destination.
		if len(srcs) > 0 && !srcs[0].resource && srcs[0].literals == nil {
			mask = srcs[0].swizzle
		}
		if mask == "" {
			mask = "x"
		}
	}

	if mask == "" {
		// Unmasked scalar destination such as oDepth.
		return r.expand(lineNo, op, []RegisterID{RegisterID(dst.base)}, "x", srcs)
	}
	dsts := make([]RegisterID, len(mask))
	if !dst.null {
		for pos := range mask {
			dsts[pos] = RegisterID(dst.base + "." + string(mask[pos]))
		}
	}
	return r.expand(lineNo, op, dsts, mask, srcs)
}

// expand emits one scalar instruction per destination component. All
// sources are read before any component is written: a source naming a
// component written earlier in the same instruction is first copied to a
// temporary. Reader state changes only when the whole line succeeds.
func (r *Reader) expand(lineNo int, op string, dsts []RegisterID, mask string, srcs []operand) ([]Instruction, error) {
	comps := make([][]Operand, len(dsts))
	for pos := range dsts {
		slot := strings.IndexByte(slots, mask[pos])
		for _, s := range srcs {
			v, err := s.component(pos, slot)
			if err != nil {
				return nil, r.syntax(lineNo, "%v", err)
			}
			comps[pos] = append(comps[pos], v)
		}
	}

	temps := r.temps
	temp := func(prefix string) RegisterID {
		id := RegisterID(fmt.Sprintf("%s%d", prefix, temps))
		temps++
		return id
	}
	var consts []RegisterID
	note := func(v Operand) {
		ref, ok := v.(RegisterRef)
		if !ok || !strings.HasPrefix(string(ref.Register), "cb") || r.seen[ref.Register] || slices.Contains(consts, ref.Register) {
			return
		}
		consts = append(consts, ref.Register)
	}

	var out []Instruction
	written := map[RegisterID]bool{}
	copies := map[RegisterID]RegisterID{}
	for pos, ops := range comps {
		for i, v := range ops {
			note(v)
			ref, ok := v.(RegisterRef)
			if !ok || !written[ref.Register] {
				continue
			}
			tmp, ok := copies[ref.Register]
			if !ok {
				tmp = temp("_tmp")
				copies[ref.Register] = tmp
				out = append(out, Instruction{Opcode: "mov", Dst: tmp, Operands: []Operand{v}, Line: lineNo})
			}
			ops[i] = RegisterRef{Register: tmp}
		}
		if dsts[pos] != "" {
			written[dsts[pos]] = true
		}
	}

	for pos, ops := range comps {
		in := Instruction{Opcode: op, Dst: dsts[pos], Line: lineNo}
		for i, v := range ops {
			if srcs[i].neg {
				tmp := temp("_neg")
				out = append(out, Instruction{Opcode: "mul", Dst: tmp, Operands: []Operand{v, Literal(-1)}, Line: lineNo})
				v = RegisterRef{Register: tmp}
			}
			in.Operands = append(in.Operands, v)
		}
		out = append(out, in)
	}

	r.temps = temps
	for _, c := range consts {
		r.seen[c] = true
		r.prog.Constants = append(r.prog.Constants, c)
	}
	return out, nil
}

// splitOpcode splits at the first space outside parentheses.
func splitOpcode(text string) (string, string) {
	depth := 0
	for i, c := range text {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ' ', '\t':
			if depth == 0 {
				return text[:i], strings.TrimSpace(text[i+1:])
			}
		}
	}
	return text, ""
}

// normalizeOpcode drops resource-type suffixes:
// "sample_indexable(texture2d)(float,float,float,float)" becomes "sample".
func normalizeOpcode(op string) string {
	if i := strings.IndexByte(op, '('); i >= 0 {
		op = op[:i]
	}
	return strings.TrimSuffix(op, "_indexable")
}

// splitParams splits an operand list on commas outside parentheses and
// brackets.
func splitParams(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, c := range s {
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" || len(out) > 0 {
		out = append(out, tail)
	}
	return out
}
