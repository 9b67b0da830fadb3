// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - The --json envelope shared by every command.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jeranaias/typemorph/internal/fontmap"
	"github.com/jeranaias/typemorph/internal/glyph"
	"github.com/jeranaias/typemorph/internal/storage"
)

// JSONResponse is the response format for all CLI commands in --json mode.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the RFC3339 time the response was generated
	Timestamp string `json:"timestamp"`

	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// OutputJSON runs handler and, in JSON mode, wraps its result or error in
// the envelope. Outside JSON mode the handler prints for itself.
func OutputJSON(w io.Writer, jsonMode bool, command string, handler func() (interface{}, error)) error {
	if !jsonMode {
		_, err := handler()
		return err
	}

	data, err := handler()
	if err != nil {
		NewJSONErrorResponse(command, err).Print(w)
		return &reportedError{err}
	}
	return NewJSONResponse(command, data).Print(w)
}

// reportedError marks an error already written as a JSON envelope so it is
// not printed a second time.
type reportedError struct{ error }

func (e *reportedError) Unwrap() error { return e.error }

// =============================================================================
// COMMAND DATA
// =============================================================================

// GenerateData is returned by the generate command.
type GenerateData struct {
	Text      string         `json:"text"`
	Styles    []string       `json:"styles"`
	Status    fontmap.Status `json:"status"`
	Cached    int            `json:"cached"`
	Generated int            `json:"generated"`
	Rejected  int            `json:"rejected"`
	Missing   []string       `json:"missing,omitempty"`
	SavedTo   string         `json:"saved_to,omitempty"`
	FontMap   glyph.FontMap  `json:"font_map"`
	Duration  int64          `json:"duration_ms"`
}

// ExportData is returned by the export command.
type ExportData struct {
	Format   string   `json:"format"`
	Path     string   `json:"path,omitempty"`
	Bytes    int      `json:"bytes"`
	MimeType string   `json:"mime_type"`
	Glyphs   int      `json:"glyphs"`
	Fonts    []string `json:"fonts"`
}

// FontsData is returned by the fonts command.
type FontsData struct {
	Fonts   []string `json:"fonts"`
	Colors  []string `json:"colors"`
	Weights []int    `json:"weights"`
}

// CacheStatsData is returned by cache stats.
type CacheStatsData struct {
	Enabled       bool           `json:"enabled"`
	SchemaVersion int            `json:"schema_version,omitempty"`
	Stats         *storage.Stats `json:"stats,omitempty"`
}

// CacheShowData is returned by cache show.
type CacheShowData struct {
	StyleKey string        `json:"style_key"`
	Glyphs   int           `json:"glyphs"`
	Path     string        `json:"path,omitempty"`
	FontMap  glyph.FontMap `json:"font_map,omitempty"`
}

// CacheRemovedData is returned by cache clear and cache prune.
type CacheRemovedData struct {
	Removed int64 `json:"removed"`
}

// ConfigValueData is returned by config get and config set.
type ConfigValueData struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

// UpdateData is returned by the update command.
type UpdateData struct {
	Current   string `json:"current"`
	Latest    string `json:"latest,omitempty"`
	Available bool   `json:"available"`
	Updated   bool   `json:"updated"`
}
