package main

import (
	"fmt"
	"io"
	"strings"

	"shadergraph/cmd/shadergraph/asm"
	"shadergraph/cmd/shadergraph/graph"
	"shadergraph/cmd/shadergraph/translate"
)

// dryRunProgram prints the node-graph calls a translation made, in order.
func dryRunProgram(w io.Writer, res translate.Result, rec *graph.Recorder) {
	fmt.Fprintf(w, "[dry-run] program %q\n", res.Program.Name)
	if res.Program.Stage != "" {
		fmt.Fprintf(w, "  stage:   %s\n", res.Program.Stage)
	}
	if rep := res.Report; rep != nil && len(rep.Inputs) > 0 {
		fmt.Fprintf(w, "  inputs:  %s\n", joinRegisters(rep.Inputs))
	}

	calls := rec.Calls()
	if len(calls) > 0 {
		fmt.Fprintln(w, "  calls:")
		for i, c := range calls {
			fmt.Fprintf(w, "    [%d] %s\n", i, c)
		}
	}

	if rep := res.Report; rep != nil {
		if len(rep.Outputs) > 0 {
			fmt.Fprintln(w, "  outputs:")
			for _, o := range rep.Outputs {
				fmt.Fprintf(w, "    %s = %s\n", o.Register, rec.Describe(o.Value))
			}
		}
		if len(rep.Skipped) > 0 {
			fmt.Fprintf(w, "  skipped: %s\n", strings.Join(rep.Skipped, ", "))
		}
	}
	if res.Err != nil {
		fmt.Fprintf(w, "  error:   %v\n", res.Err)
	}
	fmt.Fprintln(w)
}

func joinRegisters(regs []asm.RegisterID) string {
	s := make([]string, len(regs))
	for i, r := range regs {
		s[i] = string(r)
	}
	return strings.Join(s, ", ")
}
