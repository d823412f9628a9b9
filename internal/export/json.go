// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
)

// JSONExporter writes the full conversation, turn IDs and timestamps
// included.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export renders conv as indented JSON.
func (e *JSONExporter) Export(conv *Conversation) ([]byte, error) {
	if err := conv.validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(conv, "", "  ")
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
