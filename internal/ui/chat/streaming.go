// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/profchat/internal/session"
)

// =============================================================================
// STREAM RUN
// =============================================================================

// streamRun ties one exchange to the Bubble Tea loop. updates holds at most
// one pending signal so a burst of snapshots yields one redraw.
type streamRun struct {
	updates chan struct{}
	done    chan struct{}
}

func newStreamRun() *streamRun {
	return &streamRun{
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// notify is the controller's snapshot callback.
func (r *streamRun) notify(string) {
	select {
	case r.updates <- struct{}{}:
	default:
	}
}

// start streams ex to completion and reports the outcome.
func (r *streamRun) start(ctx context.Context, ctrl *session.Controller, ex *session.Exchange) tea.Cmd {
	return func() tea.Msg {
		final, err := ctrl.Stream(ctx, ex, r.notify)
		close(r.done)
		return StreamDoneMsg{Persona: ex.Persona, Final: final, Err: err, run: r}
	}
}

// wait delivers the next update signal. It returns nil once the run has
// finished, which ends the re-arm cycle.
func (r *streamRun) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-r.updates:
			return StreamUpdateMsg{run: r}
		case <-r.done:
			return nil
		}
	}
}
