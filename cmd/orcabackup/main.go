// Package main is the entry point for the orcabackup CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/thoreinstein/orcabackup/cmd/orcabackup/commands"
	"github.com/thoreinstein/orcabackup/internal/errors"
	"github.com/thoreinstein/orcabackup/internal/logging"
)

func main() {
	// Replaced once flags are parsed
	slog.SetDefault(logging.Default())

	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(errors.CodeOf(err))
	}
}
