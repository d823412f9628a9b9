// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/profchat/internal/config"
	"github.com/jeranaias/profchat/internal/export"
	"github.com/jeranaias/profchat/internal/logging"
	"github.com/jeranaias/profchat/internal/model"
	"github.com/jeranaias/profchat/internal/session"
	"github.com/jeranaias/profchat/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// HistoryFileName is the REPL history file in the config directory.
const HistoryFileName = "chat_history"

// lineReader is the part of liner the REPL uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// ChatCLI provides input history and line editing for the REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(dir, HistoryFileName)}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

// Prompt reads a line, adding non-blank input to the history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// AppendHistory adds an entry to the history.
func (c *ChatCLI) AppendHistory(item string) {
	c.line.AppendHistory(item)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCmd(opts *globalOptions) *cobra.Command {
	var professor string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a professor in line mode",
		Long: `Starts an interactive line-mode chat with a professor.

Interactive commands:
  /help               show commands
  /professors         list professors
  /switch NAME        talk to another professor
  /clear              restart the conversation
  /add NAME           request ingestion of a professor
  /export [md|json]   save the conversation to the current directory
  /quit               exit (also Ctrl+D)

Ctrl+C stops a reply that is still streaming.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, logging.ModeLine)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if professor != "" {
				if err := a.selectProfessor(ctx, professor); err != nil {
					return err
				}
			}

			input := NewChatCLI()
			defer input.Close()

			r := &repl{app: a, in: input, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			return r.run(ctx)
		},
	}

	cmd.Flags().StringVarP(&professor, "professor", "p", "", "professor to talk to")
	return cmd
}

// =============================================================================
// REPL
// =============================================================================

// repl is the line-mode conversation loop.
type repl struct {
	app       *app
	in        lineReader
	out       io.Writer
	errOut    io.Writer
	exportDir string
}

var errQuit = errors.New("quit")

// run reads commands until /quit or EOF. Ctrl+C is owned by send: the root
// context is cancelled by the same SIGINT, so the loop runs detached from it.
func (r *repl) run(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	fmt.Fprintln(r.out, welcomeStyle.Render("profchat")+infoStyle.Render("  type /help for commands"))
	r.printTranscript()

	for {
		line, err := r.in.Prompt(r.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if err := r.command(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				printError(r.errOut, err)
			}
			continue
		}
		r.send(ctx, line)
	}
}

func (r *repl) prompt() string {
	if p := r.app.ctrl.Persona(); p != "" {
		return promptStyle.Render(p+" >") + " "
	}
	return promptStyle.Render(">") + " "
}

// send streams one reply. Ctrl+C while streaming cancels only the reply.
func (r *repl) send(ctx context.Context, text string) {
	r.app.ctrl.SetDraft(text)
	ex, err := r.app.ctrl.BeginSend()
	if err != nil {
		if !session.IsNoOp(err) {
			printError(r.errOut, err)
		}
		return
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	done := make(chan struct{})
	go func() {
		select {
		case <-interrupt:
			r.app.ctrl.Cancel()
		case <-done:
		}
	}()

	out := newStreamPrinter(r.out, r.app.cfg.UI.GlamourStyle)
	final, err := r.app.ctrl.Stream(ctx, ex, out.snapshot)
	close(done)
	signal.Stop(interrupt)

	out.finish(final)
	if err != nil {
		printError(r.errOut, err)
	}
}

func (r *repl) command(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	name, arg := fields[0], strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch name {
	case "/quit", "/q", "/exit":
		return errQuit

	case "/help", "/h":
		fmt.Fprintln(r.out, infoStyle.Render(`/professors  /switch NAME  /clear  /add NAME  /export [md|json]  /quit`))
		return nil

	case "/professors", "/ls":
		rctx, cancel := r.app.requestContext(ctx)
		defer cancel()
		if err := r.app.dir.Refresh(rctx); err != nil {
			return err
		}
		names := r.app.dir.Names()
		if len(names) == 0 {
			printWarning(r.out, "No professors available")
		}
		current := r.app.ctrl.Persona()
		for _, n := range names {
			marker := "  "
			if n == current {
				marker = "* "
			}
			fmt.Fprintln(r.out, marker+n)
		}
		return nil

	case "/switch", "/s":
		if arg == "" {
			return fmt.Errorf("usage: /switch NAME")
		}
		if err := r.app.selectProfessor(ctx, arg); err != nil {
			return err
		}
		r.printTranscript()
		return nil

	case "/clear", "/c":
		if p := r.app.ctrl.Persona(); p != "" {
			r.app.ctrl.Select(p)
			r.app.ctrl.Select(p)
		}
		r.printTranscript()
		return nil

	case "/add":
		if arg == "" {
			return fmt.Errorf("usage: /add NAME")
		}
		r.app.ctrl.SetIngestName(arg)
		rctx, cancel := r.app.requestContext(ctx)
		defer cancel()
		if err := r.app.ctrl.SubmitIngest(rctx); err != nil {
			return err
		}
		_, college := r.app.ctrl.IngestForm()
		printSuccess(r.out, "Requested %s (%s)", arg, college)
		return nil

	case "/export":
		exporter, err := export.ForFormat(arg)
		if err != nil {
			return err
		}
		conv := export.NewConversation(r.app.ctrl.Persona(), r.app.client.BaseURL(), r.app.ctrl.Transcript())
		path, err := export.ToFile(conv, exporter, r.exportDir)
		if err != nil {
			return err
		}
		printSuccess(r.out, "Saved %s", path)
		return nil
	}

	return fmt.Errorf("unknown command %s (try /help)", name)
}

// printTranscript prints the current conversation, usually the greeting.
func (r *repl) printTranscript() {
	for _, t := range r.app.ctrl.Transcript() {
		label := t.Role.DisplayName()
		if t.Role == model.RoleAssistant && r.app.ctrl.Persona() != "" {
			label = r.app.ctrl.Persona()
		}
		fmt.Fprintf(r.out, "%s %s\n", infoStyle.Render(label+":"), t.Content)
	}
}
