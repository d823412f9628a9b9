// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the profchat command line.

# Commands

	profchat [tui]                     full-screen chat (default)
	profchat chat --professor NAME     line-mode chat with history
	profchat ask NAME QUESTION...      one-shot streamed answer
	profchat professors [--json]       list available professors
	profchat add NAME [--college C]    request ingestion of a professor
	profchat config show|path|get|set  inspect or edit configuration
	profchat version                   print build information

# Global flags

	--config PATH      configuration file (default ~/.profchat/config.toml)
	--host URL         backend base URL, overrides configuration
	--log-level LEVEL  zerolog level name
	--no-color         disable colored status lines

Every command builds the same stack: config, zerolog logger, backend
client, professor directory and session controller.
*/
package cli
