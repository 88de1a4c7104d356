package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/catalogyaml"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect, export and validate template catalogs",
	Long: "Commands working on the active catalog (--catalog, the config file, or the\n" +
		"built-in table) or on a catalog file given as argument.",
}

var (
	flagTree   bool
	flagStatus string
	flagFormat = formatTable
	flagExport string
)

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the opcodes of the catalog with their status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := activeCatalog(cmd)
		if err != nil {
			return err
		}
		var only *catalog.Status
		if flagStatus != "" {
			s, err := catalog.ParseStatus(flagStatus)
			if err != nil {
				return err
			}
			only = &s
		}
		printCatalog(cmd.OutOrStdout(), cat, only)
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [opcode]",
	Short: "Print the template of an opcode (pick one interactively if omitted)",
	Args:  cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cat, err := activeCatalog(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return cat.Sorted(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := activeCatalog(cmd)
		if err != nil {
			return err
		}
		var op string
		if len(args) == 1 {
			op = args[0]
		} else if op, err = pickOpcode(cat); err != nil {
			return err
		}
		t, err := cat.Get(op)
		if err != nil {
			return err
		}
		if flagTree {
			fmt.Fprint(cmd.OutOrStdout(), templateTree(t))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), catalog.FormatTemplate(t))
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog in table or YAML form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := activeCatalog(cmd)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := exportCatalog(&buf, cat, flagFormat); err != nil {
			return err
		}
		if flagExport == "" {
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(flagExport, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", flagExport, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d sections)\n", flagExport, cat.Len())
		return nil
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate catalog files (.tbl or .yml)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		bad := 0
		for _, path := range args {
			cat, err := loadCatalog(path)
			if err != nil {
				bad++
				fmt.Fprintf(out, "%s %s\n", styleErr.Render("✗"), err)
				continue
			}
			c := cat.Counts()
			fmt.Fprintf(out, "%s %s: %d sections (%d explicit, %d noop, %d unimplemented)\n",
				styleOK.Render("✓"), path, cat.Len(),
				c[catalog.StatusExplicit], c[catalog.StatusNoOp], c[catalog.StatusUnimplemented])
		}
		if bad > 0 {
			return fmt.Errorf("%d of %d catalog files are invalid", bad, len(args))
		}
		return nil
	},
}

func init() {
	catalogShowCmd.Flags().BoolVar(&flagTree, "tree", false, "print the template as a node tree")
	catalogListCmd.Flags().StringVar(&flagStatus, "status", "", "only list explicit, noop or unimplemented opcodes")
	catalogExportCmd.Flags().Var(&flagFormat, "format", "output form")
	catalogExportCmd.Flags().StringVarP(&flagExport, "out", "o", "", "write to a file instead of stdout")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogCheckCmd)
}

func activeCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	cfg, _, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	return loadCatalog(cfg.Catalog)
}

func exportCatalog(w io.Writer, cat *catalog.Catalog, format exportFormat) error {
	if format == formatYAML {
		doc, err := catalogyaml.Marshal(cat)
		if err != nil {
			return err
		}
		_, err = w.Write(doc)
		return err
	}
	return catalog.WriteTable(w, cat)
}

// pickOpcode lets the user choose an opcode with a fuzzy finder, previewing
// each template.
func pickOpcode(cat *catalog.Catalog) (string, error) {
	ops := cat.Sorted()
	idx, err := fuzzyfinder.Find(
		ops,
		func(i int) string {
			return ops[i]
		},
		fuzzyfinder.WithPromptString("Select opcode: "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 {
				return ""
			}
			t, _ := cat.Get(ops[i])
			return catalog.FormatTemplate(t)
		}),
	)
	if err != nil {
		return "", err
	}
	return ops[idx], nil
}

// printCatalog prints every opcode aligned with its status and node count,
// then the totals per status.
func printCatalog(w io.Writer, cat *catalog.Catalog, only *catalog.Status) {
	templates := cat.Templates()
	if len(templates) == 0 {
		fmt.Fprintln(w, "no opcodes in catalog")
		return
	}

	maxLen := 0
	for _, t := range templates {
		maxLen = max(maxLen, len(t.Opcode))
	}

	for _, t := range templates {
		if only != nil && t.Status != *only {
			continue
		}
		tag := statusStyle(t.Status).Render(fmt.Sprintf("[%s]", t.Status))
		line := fmt.Sprintf("%-*s  %s", maxLen, t.Opcode, tag)
		if n := t.NodeCount(); n > 0 {
			line += styleHelp.Render(fmt.Sprintf("  %d nodes", n))
		}
		fmt.Fprintln(w, line)
	}

	c := cat.Counts()
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("%d opcodes: %d explicit, %d noop, %d unimplemented",
		cat.Len(), c[catalog.StatusExplicit], c[catalog.StatusNoOp], c[catalog.StatusUnimplemented])))
}
