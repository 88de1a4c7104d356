package graph

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// ScriptOutput is one socket of the group output node and the value feeding it.
type ScriptOutput struct {
	Name  string
	Value Value
}

// ScriptOptions configures WriteScript.
type ScriptOptions struct {
	// GroupName is the name of the generated node group.
	GroupName string
	// InputNames names the group input sockets, by output index.
	InputNames []string
	Outputs    []ScriptOutput
}

var identRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// pyIdent turns a node name into a Python identifier.
func pyIdent(name string) string {
	s := identRe.ReplaceAllString(name, "_")
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		s = "n_" + s
	}
	return s
}

// WriteScript writes a Blender Python script that rebuilds the recorded graph
// as a shader node group.
func WriteScript(w io.Writer, r *Recorder, opts ScriptOptions) error {
	var b strings.Builder
	group := opts.GroupName
	if group == "" {
		group = "shadergraph"
	}

	b.WriteString("import bpy\n\n")
	fmt.Fprintf(&b, "SC_shadergroup = bpy.data.node_groups.new(%q, 'ShaderNodeTree')\n", group)
	b.WriteString("link = SC_shadergroup.links.new\n")
	b.WriteString("newNode = SC_shadergroup.nodes.new\n")

	for _, n := range r.nodes {
		v := pyIdent(n.Name)
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s = newNode('%s')\n", v, n.Kind)
		fmt.Fprintf(&b, "%s.name = %q\n", v, n.Name)

		if n.Kind == KindGroupInput {
			for i := 0; i < n.Outputs; i++ {
				name := fmt.Sprintf("input_%d", i)
				if i < len(opts.InputNames) {
					name = opts.InputNames[i]
				}
				fmt.Fprintf(&b, "SC_shadergroup.inputs.new('NodeSocketFloat', %q)\n", name)
			}
			continue
		}

		fields := make([]string, 0, len(n.Attributes))
		for f := range n.Attributes {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(&b, "%s.%s = '%s'\n", v, f, n.Attributes[f])
		}

		for _, idx := range sortedInputs(n.Inputs) {
			switch val := n.Inputs[idx].(type) {
			case Literal:
				fmt.Fprintf(&b, "%s.inputs[%d].default_value = %s\n", v, idx, pyFloat(val))
			case OutputRef:
				src := r.nodes[val.Node]
				fmt.Fprintf(&b, "link(%s.outputs[%d], %s.inputs[%d])\n", pyIdent(src.Name), val.Index, v, idx)
			}
		}
	}

	if len(opts.Outputs) > 0 {
		b.WriteString("\nSC_group_out = newNode('NodeGroupOutput')\n")
		for i, out := range opts.Outputs {
			fmt.Fprintf(&b, "SC_shadergroup.outputs.new('NodeSocketFloat', %q)\n", out.Name)
			switch val := out.Value.(type) {
			case Literal:
				fmt.Fprintf(&b, "SC_group_out.inputs[%d].default_value = %s\n", i, pyFloat(val))
			case OutputRef:
				src := r.nodes[val.Node]
				fmt.Fprintf(&b, "link(%s.outputs[%d], SC_group_out.inputs[%d])\n", pyIdent(src.Name), val.Index, i)
			default:
				fmt.Fprintf(&b, "# %s: %s has no socket form\n", out.Name, out.Value)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func pyFloat(l Literal) string {
	s := l.String()
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func sortedInputs(m map[int]Value) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
