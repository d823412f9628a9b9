// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory holds the list of professor personas offered by the
// backend and keeps it in sync after ingestion requests.
package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jeranaias/profchat/internal/backend"
	"github.com/jeranaias/profchat/internal/logging"
)

// Backend is the subset of the backend client the directory needs.
type Backend interface {
	Professors(ctx context.Context) ([]string, error)
	Ingest(ctx context.Context, in backend.IngestRequest) (*backend.IngestResult, error)
}

// Directory is the cached persona list.
//
// It is safe for concurrent use.
type Directory struct {
	mu      sync.RWMutex
	names   []string
	version uint64
	loaded  bool

	backend Backend
	log     zerolog.Logger
}

// New creates an empty directory backed by b.
func New(b Backend, log zerolog.Logger) *Directory {
	return &Directory{
		backend: b,
		log:     logging.For(log, logging.Directory),
	}
}

// Refresh re-fetches the persona list. On failure the previous list is kept.
func (d *Directory) Refresh(ctx context.Context) error {
	names, err := d.backend.Professors(ctx)
	if err != nil {
		d.log.Error().Err(err).Msg("failed to fetch professors")
		return fmt.Errorf("refresh directory: %w", err)
	}

	d.mu.Lock()
	d.names = names
	d.version++
	d.loaded = true
	d.mu.Unlock()

	d.log.Debug().Int("count", len(names)).Msg("directory refreshed")
	return nil
}

// Add asks the backend to ingest a new professor. Once the HTTP exchange
// has completed, whatever its status, the directory is refreshed. A
// transport failure skips the refresh. The returned bool reports whether
// the exchange completed.
func (d *Directory) Add(ctx context.Context, name, institution string) (bool, error) {
	_, err := d.backend.Ingest(ctx, backend.IngestRequest{
		Professor: name,
		College:   institution,
	})
	if !backend.Completed(err) {
		d.log.Error().Err(err).Str("professor", name).Msg("ingest request failed")
		return false, fmt.Errorf("add professor %q: %w", name, err)
	}
	if err != nil {
		d.log.Warn().Err(err).Str("professor", name).Msg("ingest returned error status")
	}

	if rerr := d.Refresh(ctx); rerr != nil && err == nil {
		return true, rerr
	}
	if err != nil {
		return true, fmt.Errorf("add professor %q: %w", name, err)
	}
	return true, nil
}

// Names returns a copy of the persona list in server order.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Contains reports whether name is in the directory.
func (d *Directory) Contains(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, n := range d.names {
		if n == name {
			return true
		}
	}
	return false
}

// Loaded reports whether at least one refresh has succeeded.
func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Version increments on every successful refresh.
func (d *Directory) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}
