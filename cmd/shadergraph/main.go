package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/translate"
	"shadergraph/pkg/lib"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	lib.OnExit(stop)

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		lib.Exit(err, hints(err)...)
	}
}

// hints suggests a next step for the errors users hit most.
func hints(err error) []string {
	switch {
	case errors.Is(err, translate.ErrUnsupportedOpcode):
		return []string{
			"use --on-unsupported skip to translate the rest of the program",
			"run `" + appName + " catalog list --status explicit` to see what is supported",
		}
	case errors.Is(err, catalog.ErrMalformedTemplate):
		return []string{"run `" + appName + " catalog check <file>` to validate a catalog on its own"}
	case strings.Contains(err.Error(), "unknown flag:"):
		return []string{"run `" + appName + " help` for the flags of each command"}
	}
	return nil
}
