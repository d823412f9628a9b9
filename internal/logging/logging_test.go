// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/profchat/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"chatty", zerolog.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := For(New(&buf, zerolog.DebugLevel, false), Session)
	log.Info().Str("persona", "Turing").Msg("persona selected")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "Turing", entry["persona"])
	assert.Equal(t, "persona selected", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel, false)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel, true)
	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, strings.HasPrefix(buf.String(), "{"))
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "profchat.log")
	log, closer, err := Setup(config.LogConfig{Level: "info", File: path}, ModeLine)
	require.NoError(t, err)

	log.Error().Msg("ingestion failed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ingestion failed")
}

func TestSetup_TUIDefaultsToConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	log, closer, err := Setup(config.LogConfig{Level: "debug"}, ModeTUI)
	require.NoError(t, err)
	log.Debug().Msg("started")
	require.NoError(t, closer.Close())

	_, err = os.Stat(filepath.Join(home, ".profchat", DefaultFileName))
	assert.NoError(t, err)
}

func TestSetup_BadLevel(t *testing.T) {
	_, closer, err := Setup(config.LogConfig{Level: "chatty"}, ModeLine)
	assert.Error(t, err)
	assert.NotNil(t, closer)
}
