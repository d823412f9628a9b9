// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/profchat/internal/logging"
	"github.com/jeranaias/profchat/internal/session"
)

func newAddCmd(opts *globalOptions) *cobra.Command {
	var college string

	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Ask the service to ingest a professor",
		Long: `Requests that the service scrape and upload a professor so that they
appear in the directory. The college defaults to persona.default_college.`,
		Example: `  profchat add Isaac Newton --college "Trinity College"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, logging.ModeLine)
			if err != nil {
				return err
			}
			defer a.Close()

			name := strings.Join(args, " ")
			a.ctrl.SetIngestName(name)
			if college != "" {
				a.ctrl.SetIngestCollege(college)
			}
			_, inst := a.ctrl.IngestForm()

			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			out := cmd.OutOrStdout()
			if err := a.ctrl.SubmitIngest(ctx); err != nil {
				if errors.Is(err, session.ErrIncompleteForm) {
					return err
				}
				printError(cmd.ErrOrStderr(), err)
				return errReported
			}

			printSuccess(out, "Requested %s (%s)", name, inst)
			if a.dir.Contains(name) {
				printInfo(out, "%s is now in the directory", name)
			} else {
				printWarning(out, "%s is not listed yet; ingestion may still be running", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&college, "college", "c", "", "college or university of the professor")
	return cmd
}
