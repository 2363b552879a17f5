// Command nasal-ls is a language server and indexing tool for Nasal sources.
package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Tungsten-180/nasal-ls/internal/config"
	"github.com/Tungsten-180/nasal-ls/internal/log"
)

var version = "0.1.0"

var (
	configFlag  string
	verboseFlag bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nasal-ls",
		Short: "Nasal language server",
		Long: `nasal-ls indexes Nasal sources: it recovers the brace scopes of every
document and keeps a registry of identifier definitions and references
for go-to-definition.

Without a subcommand it serves the Language Server Protocol on stdio.`,
		SilenceUsage: true,
		Version:      version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd)
		},
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to a YAML config file (default $"+config.EnvPath+")")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log to stderr in addition to the configured log file")

	cmd.AddCommand(newLSPCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newScopesCmd())
	cmd.AddCommand(newDefsCmd())

	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and points the logger at its destinations.
// The returned cleanup detaches the logger and releases the log file.
func setup(cmd *cobra.Command) (*config.Config, func(), error) {
	cfg, err := config.Load(config.Resolve(configFlag))
	if err != nil {
		return nil, nil, err
	}

	var (
		writers []io.Writer
		file    *os.File
	)
	if cfg.LogFile != "" {
		file, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "open log file %s", cfg.LogFile)
		}
		writers = append(writers, file)
	}
	if verboseFlag {
		writers = append(writers, cmd.ErrOrStderr())
	}

	if len(writers) > 0 {
		log.SetOutput(io.MultiWriter(writers...))
	} else {
		log.SetOutput(nil)
	}

	cleanup := func() {
		log.SetOutput(nil)
		if file != nil {
			_ = file.Close()
		}
	}
	return cfg, cleanup, nil
}
