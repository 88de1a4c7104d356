package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/graph"
	"shadergraph/cmd/shadergraph/translate"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const replHelp = `Type disassembly lines; each instruction is translated as soon as it is read.
Declarations (dcl_input ...) expose registers on the group input node.

  :calls    print every node-graph call so far
  :env      print the register environment
  :script   print the Blender script of the graph so far
  :reset    start a new, empty graph
  :help     show this help
  :quit     leave (also exit, Ctrl-D)
`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Translate disassembly interactively, line by line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg.Catalog)
		if err != nil {
			return err
		}

		rlCfg := &readline.Config{
			Prompt:          appName + "> ",
			InterruptPrompt: "^C",
			EOFPrompt:       ":quit",
		}
		if dir, err := configDir(); err == nil {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				rlCfg.HistoryFile = filepath.Join(dir, "repl_history")
			}
		}
		rl, err := readline.NewEx(rlCfg)
		if err != nil {
			return fmt.Errorf("starting readline: %w", err)
		}
		defer rl.Close()

		r := newRepl(cat, log)
		out := rl.Stdout()
		fmt.Fprint(out, replHelp)
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if err != nil {
				// io.EOF on Ctrl-D.
				return nil
			}
			if r.handle(out, line) {
				return nil
			}
		}
	},
}

// repl holds one interactive translation. It is reset by ":reset".
type repl struct {
	cat *catalog.Catalog
	log *slog.Logger

	rec   *graph.Recorder
	sess  *translate.Session
	line  int
	shown int
}

func newRepl(cat *catalog.Catalog, log *slog.Logger) *repl {
	r := &repl{cat: cat, log: log}
	r.reset()
	return r
}

func (r *repl) reset() {
	r.rec = graph.NewRecorder()
	r.sess = translate.NewSession("repl", r.cat, r.rec, r.log)
	r.line, r.shown = 0, 0
}

// handle runs one input line and reports whether the session should end.
func (r *repl) handle(w io.Writer, text string) bool {
	text = strings.TrimSpace(text)
	switch text {
	case "":
		return false
	case ":quit", ":q", "exit":
		return true
	case ":help":
		fmt.Fprint(w, replHelp)
		return false
	case ":reset":
		r.reset()
		fmt.Fprintln(w, styleHelp.Render("new graph"))
		return false
	case ":calls":
		for i, c := range r.rec.Calls() {
			fmt.Fprintf(w, "[%d] %s\n", i, c)
		}
		return false
	case ":env":
		env := r.sess.Engine().Environment()
		for _, reg := range env.Registers() {
			v, _ := env.Read(reg)
			fmt.Fprintf(w, "%-10s %s\n", reg, r.rec.Describe(v))
		}
		return false
	case ":script":
		if err := graph.WriteScript(w, r.rec, graph.ScriptOptions{GroupName: "repl"}); err != nil {
			fmt.Fprintln(w, styleErr.Render(err.Error()))
		}
		return false
	}
	if strings.HasPrefix(text, ":") {
		fmt.Fprintln(w, styleErr.Render("unknown command "+text+" (try :help)"))
		return false
	}

	r.line++
	ins, err := r.sess.Feed(r.line, text)
	for _, in := range ins {
		fmt.Fprintln(w, styleHelp.Render("; "+in.String()))
	}
	calls := r.rec.Calls()
	for _, c := range calls[r.shown:] {
		fmt.Fprintln(w, "  "+c.String())
	}
	r.shown = len(calls)
	if err != nil {
		fmt.Fprintln(w, styleErr.Render(err.Error()))
	}
	if r.sess.Done() {
		fmt.Fprintln(w, styleHelp.Render("program ended at ret; :reset to start over"))
	}
	return false
}
