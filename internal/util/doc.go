// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the config and UI packages.
//
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - TruncateWidth, StringWidth: display-width aware text helpers
package util
