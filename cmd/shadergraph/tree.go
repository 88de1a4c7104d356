package main

import (
	"fmt"

	"shadergraph/cmd/shadergraph/catalog"

	"github.com/xlab/treeprint"
)

// templateTree renders a template as a tree: one branch per local node
// with its attribute and inputs, then the result bindings.
func templateTree(t *catalog.Template) string {
	root := treeprint.New()
	root.SetValue(fmt.Sprintf("%s [%s]", t.Opcode, t.Status))
	raw := t.Raw()
	if len(raw.Directives) == 0 {
		root.AddNode("(no directives)")
		return root.String()
	}

	nodes := map[string]treeprint.Tree{}
	var results treeprint.Tree
	for _, d := range raw.Directives {
		switch d.Op {
		case catalog.RawCreate:
			nodes[d.Local] = root.AddBranch(fmt.Sprintf("%s %s", d.Local, d.Kind))
		case catalog.RawAttribute:
			nodes[d.Local].AddNode(fmt.Sprintf("%s = %s", d.Field, d.Value))
		case catalog.RawInput:
			nodes[d.Local].AddNode(fmt.Sprintf("inputs[%d] = %s", d.Input, d.Source))
		case catalog.RawResult:
			if results == nil {
				results = root.AddBranch("results")
			}
			results.AddNode(fmt.Sprintf("%s = %s", d.Target, d.Source))
		}
	}
	return root.String()
}
