// Package cmd provides the command-line interface for glissues.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/glissues/internal/apperr"
	"github.com/danielolaszy/glissues/internal/config"
	"github.com/danielolaszy/glissues/internal/logging"
)

// Version is overridden at build time with -ldflags "-X ...cmd.Version=...".
var Version = "dev"

// newRootCmd builds the command tree. A fresh tree per call keeps flag state
// from leaking between executions.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "glissues",
		Short: "Glissues exports GitLab issues to a spreadsheet",
		Long: `Glissues is a CLI tool that reads every issue of a GitLab project, optionally
limited to a creation-date range, and writes them to an .xlsx spreadsheet with a
fixed set of columns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			name, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return err
			}
			level, levelErr := logging.ParseLevel(name)
			logLevel = level

			logFile, err := cmd.Flags().GetString("log-file")
			if err != nil {
				return err
			}
			if logFile == "" {
				logging.SetupLogger(cmd.ErrOrStderr(), level)
			} else {
				w, f, err := logging.OpenLogFile(logFile, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				openLogFile = f
				logging.SetupLogger(w, level)
			}

			if levelErr != nil {
				logging.Warn("falling back to info logging", "error", levelErr)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLogFile()
		},
	}

	// Add persistent flags that will be available to all commands
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigFile, "Path to the JSON configuration file")
	rootCmd.PersistentFlags().String("env-file", config.DefaultEnvFile, "Path to an optional .env file")
	rootCmd.PersistentFlags().String("log-level", os.Getenv("LOG_LEVEL"), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Also append logs to this file")

	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

var (
	// openLogFile is the --log-file target of the running command, if any.
	openLogFile *os.File
	logLevel    = logging.LevelInfo
)

// closeLogFile closes the --log-file target and points the logger back at
// stderr alone.
func closeLogFile() {
	if openLogFile == nil {
		return
	}
	logging.SetupLogger(os.Stderr, logLevel)
	openLogFile.Close()
	openLogFile = nil
}

// Execute runs the root command with ctx, which cancels in-flight requests
// when it is done.
func Execute(ctx context.Context) error {
	return executeRoot(ctx, newRootCmd())
}

// executeRoot runs root and logs a failure while the log file is still open.
func executeRoot(ctx context.Context, root *cobra.Command) error {
	defer closeLogFile()

	err := root.ExecuteContext(ctx)
	if err != nil {
		logging.Error("command execution failed", "kind", apperr.KindOf(err), "error", err)
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the glissues version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(Version)
		},
	}
}
