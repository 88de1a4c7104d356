package lib

import (
	"fmt"
	"io"
	"os"

	"github.com/tebeka/atexit"
)

var stderr io.Writer = os.Stderr

// OnExit registers fn to run when Exit is called.
func OnExit(fn func()) {
	atexit.Register(fn)
}

// Exit prints the error, then each hint on its own line, runs the OnExit
// handlers and exits the program with code 1.
func Exit(err error, hints ...string) {
	report(stderr, err, hints)
	atexit.Exit(1)
}

func report(w io.Writer, err error, hints []string) {
	fmt.Fprintln(w, "Error:", err)
	if len(hints) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, h := range hints {
		fmt.Fprintln(w, "hint:", h)
	}
}
