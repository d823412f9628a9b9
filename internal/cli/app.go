// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/jeranaias/profchat/internal/backend"
	"github.com/jeranaias/profchat/internal/config"
	"github.com/jeranaias/profchat/internal/directory"
	"github.com/jeranaias/profchat/internal/logging"
	"github.com/jeranaias/profchat/internal/session"
)

// app is the stack every command runs on.
type app struct {
	cfg     *config.Config
	cfgPath string
	base    zerolog.Logger
	log     zerolog.Logger
	closer  io.Closer

	client *backend.Client
	dir    *directory.Directory
	ctrl   *session.Controller
}

// loadConfig resolves the configuration for opts. Without --config the
// standard search order applies. A missing explicit file yields the defaults
// so that `config set` can create it.
func loadConfig(opts *globalOptions) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path = opts.ConfigPath
		err  error
	)
	switch {
	case path == "":
		if path, err = config.ActivePath(); err != nil {
			return nil, "", err
		}
		if cfg, err = config.Load(); err != nil {
			return nil, path, err
		}
	case fileExists(path):
		if cfg, err = config.LoadFromPath(path); err != nil {
			return nil, path, err
		}
	default:
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
	}

	if opts.Host != "" {
		cfg.Backend.Host = opts.Host
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, path, nil
}

// newApp builds the stack. Close must be called when done.
func newApp(opts *globalOptions, mode logging.Mode) (*app, error) {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	base, closer, err := logging.Setup(cfg.Log, mode)
	if err != nil {
		return nil, err
	}
	log := logging.For(base, logging.App)

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:   cfg.Backend.Host,
		Timeout:   cfg.Backend.RequestTimeout(),
		RateLimit: cfg.Backend.RateLimitRPS,
		Logger:    &base,
	})
	dir := directory.New(client, base)
	ctrl := session.New(client, dir, session.Config{
		Greeting:       cfg.Persona.Greeting,
		DefaultCollege: cfg.Persona.DefaultCollege,
	}, base)

	log.Debug().Str("config", path).Str("host", client.BaseURL()).Msg("starting")

	return &app{
		cfg:     cfg,
		cfgPath: path,
		base:    base,
		log:     log,
		closer:  closer,
		client:  client,
		dir:     dir,
		ctrl:    ctrl,
	}, nil
}

// Close releases the log file.
func (a *app) Close() error {
	return a.closer.Close()
}

// requestContext bounds a directory or ingestion call.
func (a *app) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.Backend.RequestTimeout())
}

// errUnknownProfessor is returned when a name is not in the directory.
var errUnknownProfessor = errors.New("unknown professor")

// selectProfessor refreshes the directory and selects name.
func (a *app) selectProfessor(ctx context.Context, name string) error {
	rctx, cancel := a.requestContext(ctx)
	defer cancel()
	if err := a.dir.Refresh(rctx); err != nil {
		return fmt.Errorf("load professors: %w", err)
	}
	if !a.dir.Contains(name) {
		return fmt.Errorf("%w: %q", errUnknownProfessor, name)
	}
	if a.ctrl.Persona() != name {
		a.ctrl.Select(name)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
