// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for profchat.
//
// Supports TOML, YAML and JSON configuration files, with sensible defaults,
// environment variable overrides, validation and live reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Service host, timeouts and client rate limit
//   - PersonaConfig: Greeting template and ingestion defaults
//   - UIConfig: Layout and rendering options
//   - LogConfig: Log level and destination
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PROFCHAT_*, REACT_API_URL)
//   - ~/.profchat/config.toml
//   - ~/.profchat/config.yaml
//   - ~/.profchat/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := backend.NewClientWithConfig(&backend.ClientConfig{
//	    BaseURL: cfg.Backend.Host,
//	    Timeout: cfg.Backend.RequestTimeout(),
//	})
package config
