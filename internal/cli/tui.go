// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/profchat/internal/config"
	"github.com/jeranaias/profchat/internal/logging"
	"github.com/jeranaias/profchat/internal/ui/chat"
)

func newTUICmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen chat interface (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

// runTUI runs the Bubble Tea program until the user quits. Edits to the
// config file are applied live.
func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	a, err := newApp(opts, logging.ModeTUI)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	updates := make(chan chat.ConfigReloadedMsg, 1)
	err = config.Watch(ctx, a.cfgPath, config.DefaultWatchDebounce, func(cfg *config.Config, err error) {
		if cfg != nil {
			if opts.Host != "" {
				cfg.Backend.Host = opts.Host
			}
		}
		select {
		case updates <- chat.ConfigReloadedMsg{Config: cfg, Err: err}:
		case <-ctx.Done():
		}
	})
	if err != nil {
		a.log.Warn().Err(err).Str("path", a.cfgPath).Msg("config changes will not be picked up")
	}

	model := chat.New(chat.Options{
		Controller:     a.ctrl,
		Directory:      a.dir,
		Layout:         chat.LayoutFromConfig(a.cfg.UI),
		GlamourStyle:   a.cfg.UI.GlamourStyle,
		WordWrap:       a.cfg.UI.WordWrap,
		Host:           a.client.BaseURL(),
		ExportDir:      ".",
		Context:        ctx,
		RequestTimeout: a.cfg.Backend.RequestTimeout(),
		Logger:         a.base,
		ConfigUpdates:  updates,
		OnConfigReload: func(cfg *config.Config) {
			a.client.SetBaseURL(cfg.Backend.Host)
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
