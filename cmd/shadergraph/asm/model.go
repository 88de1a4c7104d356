package asm

import (
	"strconv"
	"strings"
)

// RegisterID names one scalar register component, e.g. "r0.x" or "cb0[3].w".
// The empty RegisterID is the null register: writes to it are discarded.
type RegisterID string

// Operand is one source operand of an instruction.
// Only Literal, RegisterRef and Resource implement it.
type Operand interface {
	isOperand()
	String() string
}

// Literal is a constant operand.
type Literal float64

// RegisterRef reads (or, for multi-destination opcodes, names) a register.
type RegisterRef struct {
	Register RegisterID
}

// Resource is an opaque texture, sampler or buffer handle.
type Resource string

func (Literal) isOperand()     {}
func (RegisterRef) isOperand() {}
func (Resource) isOperand()    {}

func (l Literal) String() string { return strconv.FormatFloat(float64(l), 'g', -1, 64) }
func (r RegisterRef) String() string {
	if r.Register == "" {
		return "null"
	}
	return string(r.Register)
}
func (r Resource) String() string { return string(r) }

// Instruction is one scalar instruction.
type Instruction struct {
	Opcode   string
	Operands []Operand
	Dst      RegisterID
	// Line is the source line the instruction was read from.
	Line int
}

func (in Instruction) String() string {
	var b strings.Builder
	b.WriteString(in.Opcode)
	if in.Dst != "" || len(in.Operands) > 0 {
		b.WriteString(" ")
		b.WriteString(RegisterRef{Register: in.Dst}.String())
	}
	for _, op := range in.Operands {
		b.WriteString(", ")
		b.WriteString(op.String())
	}
	return b.String()
}

// Program is a disassembled shader body.
type Program struct {
	// Name identifies the program in reports, usually the file name.
	Name  string
	Stage string
	// Inputs are the declared input registers, in declaration order.
	Inputs []RegisterID
	// Constants are the constant-buffer registers read by the body, in
	// order of first use.
	Constants []RegisterID
	// Outputs are the declared output registers.
	Outputs      []RegisterID
	Instructions []Instruction
}
