package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func TestWriteScript(t *testing.T) {
	r := NewRecorder()
	in, err := r.CreateNode("group_in", KindGroupInput)
	require.NoError(t, err)
	v0, err := r.OutputRef(in, 0)
	require.NoError(t, err)

	m, err := r.CreateNode("mul_3", KindMath)
	require.NoError(t, err)
	require.NoError(t, r.SetAttribute(m, FieldOperation, OpMultiply))
	require.NoError(t, r.SetInput(m, 0, v0))
	require.NoError(t, r.SetInput(m, 1, Literal(2)))
	out, err := r.OutputRef(m, 0)
	require.NoError(t, err)

	var b strings.Builder
	err = WriteScript(&b, r, ScriptOptions{
		GroupName:  "PS_1234",
		InputNames: []string{"v0.x"},
		Outputs: []ScriptOutput{
			{Name: "o0.x", Value: out},
			{Name: "o0.y", Value: Literal(0.5)},
		},
	})
	require.NoError(t, err)

	mustContain(t, b.String(),
		`bpy.data.node_groups.new("PS_1234", 'ShaderNodeTree')`,
		"group_in = newNode('NodeGroupInput')",
		`SC_shadergroup.inputs.new('NodeSocketFloat', "v0.x")`,
		"mul_3 = newNode('ShaderNodeMath')",
		"mul_3.operation = 'MULTIPLY'",
		"link(group_in.outputs[0], mul_3.inputs[0])",
		"mul_3.inputs[1].default_value = 2.0",
		"link(mul_3.outputs[0], SC_group_out.inputs[0])",
		"SC_group_out.inputs[1].default_value = 0.5",
	)
}

func TestPyIdent(t *testing.T) {
	cases := map[string]string{
		"ge_3_cmp": "ge_3_cmp",
		"3d":       "n_3d",
		"a.b[1]":   "a_b_1_",
	}
	for in, want := range cases {
		if got := pyIdent(in); got != want {
			t.Errorf("pyIdent(%q) = %q, want %q", in, got, want)
		}
	}
}
