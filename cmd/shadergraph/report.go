package main

import (
	"fmt"
	"io"
	"strings"

	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/translate"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	styleWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// statusStyle colours a catalog status.
func statusStyle(s catalog.Status) lipgloss.Style {
	switch s {
	case catalog.StatusExplicit:
		return styleOK
	case catalog.StatusNoOp:
		return styleHelp
	}
	return styleWarn
}

// topOpcodes is how many opcodes a program summary lists.
const topOpcodes = 5

// printSummary prints one line per program and a total.
func printSummary(w io.Writer, results []translate.Result) {
	if len(results) == 0 {
		return
	}
	width := 0
	for _, res := range results {
		width = max(width, len(res.Program.Name))
	}

	failed := 0
	for _, res := range results {
		name := fmt.Sprintf("%-*s", width, res.Program.Name)
		rep := res.Report
		if res.Err != nil {
			failed++
			fmt.Fprintf(w, "%s %s  %s\n", styleErr.Render("✗"), name, styleErr.Render(res.Err.Error()))
			continue
		}
		line := fmt.Sprintf("%s %s  %d instructions, %d nodes", styleOK.Render("✓"), name, rep.Instructions, rep.Nodes)
		if ops := opcodeHistogram(rep); ops != "" {
			line += "  " + styleHelp.Render(ops)
		}
		if len(rep.Skipped) > 0 {
			line += "  " + styleWarn.Render(fmt.Sprintf("skipped %d: %s", len(rep.Skipped), strings.Join(rep.Skipped, ", ")))
		}
		fmt.Fprintln(w, line)
	}

	total := fmt.Sprintf("%d programs, %d failed", len(results), failed)
	if failed == 0 {
		fmt.Fprintln(w, styleTitle.Render(total))
	} else {
		fmt.Fprintln(w, styleErr.Bold(true).Render(total))
	}
}

// opcodeHistogram renders the most used opcodes as "mul×3 add×1".
func opcodeHistogram(rep *translate.Report) string {
	ops := rep.SortedOpcodes()
	if len(ops) > topOpcodes {
		ops = ops[:topOpcodes]
	}
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%s×%d", op, rep.Opcodes[op])
	}
	return strings.Join(parts, " ")
}
