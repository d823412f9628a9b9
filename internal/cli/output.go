// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/jeranaias/profchat/internal/backend"
)

// =============================================================================
// STATUS LINES
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString("!"), fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.CyanString(format, args...))
}

// printError prints err with a hint for the common backend failures.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.RedString("✗"), err)
	switch {
	case backend.IsConnection(err):
		fmt.Fprintln(w, color.HiBlackString("  is the professor service running? set --host or PROFCHAT_HOST"))
	case backend.IsTimeout(err):
		fmt.Fprintln(w, color.HiBlackString("  the service did not answer in time; raise backend.request_timeout_secs"))
	case backend.IsNoBody(err):
		fmt.Fprintln(w, color.HiBlackString("  the service accepted the question but sent no reply; try again"))
	}
}

// =============================================================================
// TERMINAL
// =============================================================================

// DefaultTerminalWidth is used when the width cannot be determined.
const DefaultTerminalWidth = 80

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or DefaultTerminalWidth.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return width
}

// =============================================================================
// MARKDOWN
// =============================================================================

// renderMarkdown renders content for a terminal, falling back to the plain
// text when glamour fails.
func renderMarkdown(content, style string, width int) string {
	opt := glamour.WithStandardStyle(style)
	if style == "" || style == "auto" {
		opt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(width))
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// =============================================================================
// STREAM PRINTER
// =============================================================================

// streamPrinter writes snapshots of a growing reply. On a terminal the reply
// is collected and rendered as markdown at the end; otherwise each new
// suffix is written as it arrives.
type streamPrinter struct {
	w        io.Writer
	markdown bool
	style    string
	printed  int
}

func newStreamPrinter(w io.Writer, style string) *streamPrinter {
	return &streamPrinter{w: w, markdown: isTerminal(w), style: style}
}

// snapshot receives the accumulated reply so far.
func (p *streamPrinter) snapshot(text string) {
	if p.markdown || len(text) <= p.printed {
		return
	}
	io.WriteString(p.w, text[p.printed:])
	p.printed = len(text)
}

// finish completes the output with the final text.
func (p *streamPrinter) finish(final string) {
	if p.markdown {
		if final != "" {
			io.WriteString(p.w, renderMarkdown(final, p.style, terminalWidth(p.w)))
		}
		return
	}
	p.snapshot(final)
	if p.printed > 0 {
		io.WriteString(p.w, "\n")
	}
}
