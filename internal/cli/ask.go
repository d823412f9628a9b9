// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/profchat/internal/logging"
)

func newAskCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask NAME QUESTION...",
		Short: "Ask a professor one question and print the answer",
		Long: `Selects NAME, sends QUESTION and streams the reply to stdout.

On a terminal the reply is rendered as markdown once complete; when piped
it is written as it arrives.`,
		Example: `  profchat ask Turing "What is a universal machine?"
  profchat ask Lovelace explain the analytical engine | less`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, logging.ModeLine)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.selectProfessor(ctx, args[0]); err != nil {
				return err
			}

			a.ctrl.SetDraft(strings.Join(args[1:], " "))
			out := newStreamPrinter(cmd.OutOrStdout(), a.cfg.UI.GlamourStyle)
			final, err := a.ctrl.Send(ctx, out.snapshot)
			out.finish(final)
			return err
		},
	}
}
