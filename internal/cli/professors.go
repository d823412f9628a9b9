// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/profchat/internal/logging"
)

func newProfessorsCmd(opts *globalOptions) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "professors",
		Aliases: []string{"ls", "list"},
		Short:   "List available professors",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, logging.ModeLine)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			if err := a.dir.Refresh(ctx); err != nil {
				return fmt.Errorf("load professors: %w", err)
			}

			names := a.dir.Names()
			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Professors []string `json:"professors"`
				}{Professors: names})
			}

			if len(names) == 0 {
				printWarning(out, "No professors available")
				return nil
			}
			for i, n := range names {
				fmt.Fprintf(out, "%3d  %s\n", i+1, n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")
	return cmd
}
