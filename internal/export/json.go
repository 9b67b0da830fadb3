// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"

	"github.com/jeranaias/typemorph/internal/playground"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter writes the snapshot's font map in the download format
// {"<char>": {"path": ..., "width": ...}}. It can be loaded back with
// glyph.Load.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	return &JSONExporter{options: opts.orDefault()}
}

// Export encodes the font map as indented JSON.
func (e *JSONExporter) Export(snap *playground.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	var buf bytes.Buffer
	if err := snap.FontMap.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
