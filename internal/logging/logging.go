// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zerolog logger shared by all components.
//
// The full-screen TUI owns the terminal, so it always logs to a file. The
// line-mode commands log to stderr: human-readable when stderr is a
// terminal, JSON otherwise.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/jeranaias/profchat/internal/config"
)

// Mode selects where logs go when no file is configured.
type Mode int

const (
	// ModeTUI logs to ~/.profchat/profchat.log.
	ModeTUI Mode = iota
	// ModeLine logs to stderr.
	ModeLine
)

// DefaultFileName is the log file created in the config directory.
const DefaultFileName = "profchat.log"

// Component names used in the "component" field.
const (
	App       = "app"
	Backend   = "backend"
	Session   = "session"
	Directory = "directory"
	UI        = "ui"
)

// Setup builds a logger from cfg. The returned closer releases the log
// file, if any, and is never nil.
func Setup(cfg config.LogConfig, mode Mode) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	path := cfg.File
	if path == "" && mode == ModeTUI {
		dir, err := config.ConfigDir()
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		path = filepath.Join(dir, DefaultFileName)
	}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
		}
		return New(f, level, false), f, nil
	}

	return New(os.Stderr, level, isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())), nopCloser{}, nil
}

// New builds a timestamped logger writing to w, using a console writer when
// pretty is set.
func New(w io.Writer, level zerolog.Level, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel parses a level name; empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// For returns a sub-logger tagged with a component name.
func For(log zerolog.Logger, component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
