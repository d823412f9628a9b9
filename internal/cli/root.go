// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information, set by main from build flags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	ConfigPath string
	Host       string
	LogLevel   string
	NoColor    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "profchat",
		Short: "Chat with professor personas",
		Long: `profchat is a terminal client for a professor persona chat service.

Pick a professor from the directory, ask questions and read the streamed
answers. Without a subcommand the full-screen interface starts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.NoColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "configuration file (default ~/.profchat/config.toml)")
	pf.StringVar(&opts.Host, "host", "", "backend base URL")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newTUICmd(opts),
		newChatCmd(opts),
		newAskCmd(opts),
		newProfessorsCmd(opts),
		newAddCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			printError(root.ErrOrStderr(), err)
		}
		return 1
	}
	return 0
}

// errReported marks an error that was already printed.
var errReported = errors.New("error already reported")
