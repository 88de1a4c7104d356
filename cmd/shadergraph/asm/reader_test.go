package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listing = `//
// Generated by Microsoft (R) HLSL Shader Compiler
//
ps_5_0
dcl_globalFlags refactoringAllowed
dcl_constantbuffer CB0[4], immediateIndexed
dcl_sampler s0, mode_default
dcl_resource_texture2d (float,float,float,float) t0
dcl_input_ps linear v0.xy
dcl_input_ps_siv linear noperspective v1.z, position
dcl_output o0.xyzw
dcl_temps 2
mul r0.xy, v0.xyxx, cb0[2].xyxx
sample_indexable(texture2d)(float,float,float,float) r1.xyzw, r0.xyxx, t0.xyzw, s0
add r0.x, -r1.x, l(1.000000)
mov o0.xyzw, l(0.5, 1, 2.5, 0x10)
ret
// Approximately 5 instruction slots used
`

func TestParse_Listing(t *testing.T) {
	p, err := Parse("ps.asm", []byte(listing))
	require.NoError(t, err)

	assert.Equal(t, "ps", p.Stage)
	assert.Equal(t, []RegisterID{"v0.x", "v0.y", "v1.z"}, p.Inputs)
	assert.Equal(t, []RegisterID{"o0.x", "o0.y", "o0.z", "o0.w"}, p.Outputs)
	assert.Equal(t, []RegisterID{"cb0[2].x", "cb0[2].y"}, p.Constants)

	var got []string
	for _, in := range p.Instructions {
		got = append(got, in.String())
	}
	assert.Equal(t, []string{
		"mul r0.x, v0.x, cb0[2].x",
		"mul r0.y, v0.y, cb0[2].y",
		"sample r1.x, r0.x, t0.x, s0",
		"sample r1.y, r0.y, t0.y, s0",
		"sample r1.z, r0.x, t0.z, s0",
		"sample r1.w, r0.x, t0.w, s0",
		"mul _neg0, r1.x, -1",
		"add r0.x, _neg0, 1",
		"mov o0.x, 0.5",
		"mov o0.y, 1",
		"mov o0.z, 2.5",
		"mov o0.w, 16",
	}, got)
	assert.Equal(t, 13, p.Instructions[0].Line)
}

func TestParse_OperandKinds(t *testing.T) {
	p, err := Parse("x", []byte("mul r0.x, cb1[r2.x + 3].y, t3.x\n"))
	require.NoError(t, err)
	require.Len(t, p.Instructions, 1)
	in := p.Instructions[0]
	assert.Equal(t, RegisterID("r0.x"), in.Dst)
	assert.Equal(t, []Operand{Resource("cb1[r2.x + 3].y"), Resource("t3.x")}, in.Operands)
	assert.Empty(t, p.Constants)
}

func TestParse_MultipleDestinations(t *testing.T) {
	p, err := Parse("x", []byte("sincos null, r1.xy, r0.xyxx\n"))
	require.NoError(t, err)
	require.Len(t, p.Instructions, 2)
	assert.Equal(t, RegisterID(""), p.Instructions[0].Dst)
	assert.Equal(t, []Operand{RegisterRef{Register: "r1.x"}, RegisterRef{Register: "r0.x"}}, p.Instructions[0].Operands)
	assert.Equal(t, []Operand{RegisterRef{Register: "r1.y"}, RegisterRef{Register: "r0.y"}}, p.Instructions[1].Operands)
	assert.Equal(t, "sincos null, r1.x, r0.x", p.Instructions[0].String())
}

func TestParse_SwizzleByPosition(t *testing.T) {
	p, err := Parse("x", []byte("add r0.yz, r1.xy, l(2.0, 3.0)\n"))
	require.NoError(t, err)
	require.Len(t, p.Instructions, 2)
	assert.Equal(t, []Operand{RegisterRef{Register: "r1.x"}, Literal(2)}, p.Instructions[0].Operands)
	assert.Equal(t, []Operand{RegisterRef{Register: "r1.y"}, Literal(3)}, p.Instructions[1].Operands)
}

func TestParse_ReadsSourcesBeforeWriting(t *testing.T) {
	cases := map[string][]string{
		"mov r0.xy, r0.yxxx\n": {
			"mov _tmp0, r0.x",
			"mov r0.x, r0.y",
			"mov r0.y, _tmp0",
		},
		"add r0.xy, -r0.yxxx, l(1.0)\n": {
			"mov _tmp0, r0.x",
			"mul _neg1, r0.y, -1",
			"add r0.x, _neg1, 1",
			"mul _neg2, _tmp0, -1",
			"add r0.y, _neg2, 1",
		},
		"mad r0.yzw, r0.xxyz, r0.yyyy, r1.xyzw\n": {
			"mov _tmp0, r0.y",
			"mov _tmp1, r0.z",
			"mad r0.y, r0.x, r0.y, r1.y",
			"mad r0.z, _tmp0, _tmp0, r1.z",
			"mad r0.w, _tmp1, _tmp0, r1.w",
		},
		// Components read before they are written need no copy.
		"mov r0.xy, r0.xxxx\n": {
			"mov r0.x, r0.x",
			"mov r0.y, r0.x",
		},
	}
	for src, want := range cases {
		p, err := Parse("x", []byte(src))
		require.NoError(t, err, src)
		var got []string
		for _, in := range p.Instructions {
			got = append(got, in.String())
		}
		assert.Equal(t, want, got, src)
	}
}

func TestReader_FailedLineLeavesState(t *testing.T) {
	r := NewReader("repl")
	_, err := r.Line(1, "add r0.xyz, -r1.xyzw, cb0[1].xy")
	require.ErrorIs(t, err, ErrSyntax)
	assert.Empty(t, r.Program().Constants)
	assert.Empty(t, r.Program().Instructions)

	ins, err := r.Line(2, "add r0.x, -r1.x, cb0[1].x")
	require.NoError(t, err)
	assert.Equal(t, []string{"mul _neg0, r1.x, -1", "add r0.x, _neg0, cb0[1].x"},
		[]string{ins[0].String(), ins[1].String()})
	assert.Equal(t, []RegisterID{"cb0[1].x"}, r.Program().Constants)
}

func TestParse_FlowControlAndScalarDestinations(t *testing.T) {
	p, err := Parse("x", []byte("if_nz r0.x\nmov oDepth, r0.x\nendif\n"))
	require.NoError(t, err)
	require.Len(t, p.Instructions, 3)
	assert.Equal(t, "if_nz", p.Instructions[0].Opcode)
	assert.Equal(t, RegisterID("oDepth"), p.Instructions[1].Dst)
	assert.Equal(t, Instruction{Opcode: "endif", Line: 3}, p.Instructions[2])
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"mov r0.x, |r1.x|\n":        "absolute value modifier",
		"mov r0.x, ???\n":           "unrecognised operand",
		"mov l(1.0), r0.x\n":        "invalid destination",
		"add r0.xyz, r1.xy, r2.x\n": "has no component for position 2",
		"mov r0.xyz, l(1, 2)\n":     "literal vector of 2 values",
		"mov r0.x, -t0.x\n":         "negated resource",
		"dcl_input_ps linear foo\n": "names no register",
	}
	for src, want := range cases {
		_, err := Parse("bad.asm", []byte(src))
		require.Error(t, err, src)
		assert.True(t, errors.Is(err, ErrSyntax), src)
		assert.True(t, strings.Contains(err.Error(), want), "%q: %v", src, err)
		assert.Contains(t, err.Error(), "phase=asm path=bad.asm:1")
	}
}

func TestReader_LineByLine(t *testing.T) {
	r := NewReader("repl")
	ins, err := r.Line(1, "mov r0.xy, l(1.0, 2.0)")
	require.NoError(t, err)
	assert.Len(t, ins, 2)

	ins, err = r.Line(2, "// comment")
	require.NoError(t, err)
	assert.Empty(t, ins)

	_, err = r.Line(3, "ret")
	require.NoError(t, err)
	assert.True(t, r.Done())

	ins, err = r.Line(4, "mov r1.x, r0.x")
	require.NoError(t, err)
	assert.Empty(t, ins)
	assert.Len(t, r.Program().Instructions, 2)
}

func TestSplitParams(t *testing.T) {
	assert.Equal(t, []string{"r0.x", "l(1.0, 2.0)", "cb0[r1.x + 2].y"}, splitParams("r0.x, l(1.0, 2.0), cb0[r1.x + 2].y"))
	assert.Nil(t, splitParams(""))
	assert.Equal(t, "ld_structured", normalizeOpcode("ld_structured_indexable(structured_buffer, stride=16)(mixed,mixed,mixed,mixed)"))
	op, rest := splitOpcode("ld_structured_indexable(structured_buffer, stride=16)(mixed,mixed,mixed,mixed) r0.x, v0.x")
	assert.Equal(t, "ld_structured_indexable(structured_buffer, stride=16)(mixed,mixed,mixed,mixed)", op)
	assert.Equal(t, "r0.x, v0.x", rest)
}
