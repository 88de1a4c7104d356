package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shadergraph/cmd/shadergraph/asm"
	"shadergraph/cmd/shadergraph/graph"
	"shadergraph/cmd/shadergraph/translate"

	"github.com/spf13/cobra"
)

var (
	flagDryRun  bool
	flagOut     string
	flagWorkers int
	flagPolicy  translate.Policy
)

var translateCmd = &cobra.Command{
	Use:   "translate <file|dir>...",
	Short: "Translate disassembled programs into node graphs",
	Long: "Translate each program into a node group and write it as a Blender Python\n" +
		"script. Directories are scanned for *.asm and *.txt files. Programs are\n" +
		"independent and translated in parallel.\n\n" +
		"Without --out the scripts are written to stdout; with --dry-run only the\n" +
		"node-graph calls are printed.",
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the node-graph calls instead of writing scripts")
	translateCmd.Flags().StringVarP(&flagOut, "out", "o", "", "directory to write one <program>.py script per program")
	translateCmd.Flags().IntVarP(&flagWorkers, "workers", "j", 0, "programs translated at once (default: config, then logical CPUs)")
	translateCmd.Flags().Var(policyValue{&flagPolicy}, "on-unsupported", "what to do with an opcode the catalog lacks")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	policy := flagPolicy
	if !cmd.Flags().Changed("on-unsupported") {
		if policy, err = translate.ParsePolicy(cfg.OnUnsupported); err != nil {
			return fmt.Errorf("config on_unsupported: %w", err)
		}
	}

	files, err := expandInputs(args)
	if err != nil {
		return err
	}
	progs, err := readPrograms(files)
	if err != nil {
		return err
	}

	tr := &translate.Translator{Catalog: cat, OnUnsupported: policy, Logger: log}
	workers := resolveWorkers(cmd.Flags(), flagWorkers, cfg.Workers)
	log.Debug("translating", "programs", len(progs), "workers", workers, "policy", policy.String())
	results, err := tr.TranslateAll(cmd.Context(), progs, func(*asm.Program) graph.Port {
		return graph.NewRecorder()
	}, workers)
	if err != nil {
		return err
	}

	if flagOut != "" && !flagDryRun {
		if err := os.MkdirAll(flagOut, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", flagOut, err)
		}
	}

	out := cmd.OutOrStdout()
	var failed []error
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res.Err)
		}
		rec := res.Port.(*graph.Recorder)
		switch {
		case flagDryRun:
			dryRunProgram(out, res, rec)
		case res.Err != nil:
		case flagOut != "":
			path := filepath.Join(flagOut, scriptName(res.Program.Name)+".py")
			if err := writeScriptFile(path, res, rec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		default:
			if err := graph.WriteScript(out, rec, scriptOptions(res)); err != nil {
				return err
			}
		}
	}

	printSummary(cmd.ErrOrStderr(), results)
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d programs failed: %w", len(failed), len(results), errors.Join(failed...))
	}
	return nil
}

// readPrograms parses every file. The first syntax error stops the batch.
func readPrograms(files []string) ([]*asm.Program, error) {
	progs := make([]*asm.Program, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("program file %s: %w", f, err)
		}
		p, err := asm.Parse(f, data)
		if err != nil {
			return nil, err
		}
		progs = append(progs, p)
	}
	return progs, nil
}

// scriptName derives the node group name from a program file name.
func scriptName(program string) string {
	base := filepath.Base(program)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func scriptOptions(res translate.Result) graph.ScriptOptions {
	opts := graph.ScriptOptions{GroupName: scriptName(res.Program.Name)}
	if res.Report == nil {
		return opts
	}
	for _, reg := range res.Report.Inputs {
		opts.InputNames = append(opts.InputNames, string(reg))
	}
	for _, o := range res.Report.Outputs {
		opts.Outputs = append(opts.Outputs, graph.ScriptOutput{Name: string(o.Register), Value: o.Value})
	}
	return opts
}

func writeScriptFile(path string, res translate.Result, rec *graph.Recorder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return graph.WriteScript(f, rec, scriptOptions(res))
}
