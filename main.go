// Package main is the entry point for the glissues CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/danielolaszy/glissues/cmd"
	"github.com/danielolaszy/glissues/internal/logging"
)

// main executes the root command and exits non-zero on any failure.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logging.Debug("starting glissues", "version", cmd.Version)

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
