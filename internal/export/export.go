// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jeranaias/typemorph/internal/config"
	"github.com/jeranaias/typemorph/internal/playground"
	"github.com/jeranaias/typemorph/internal/util"
)

// Export errors.
var (
	ErrNilSnapshot   = errors.New("snapshot is nil")
	ErrUnknownFormat = errors.New("unsupported export format")
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders a playground snapshot into one output format.
type Exporter interface {
	// Export renders the snapshot and returns the file content.
	Export(snap *playground.Snapshot) ([]byte, error)

	// FileExtension returns the extension including the dot (e.g. ".png").
	FileExtension() string

	// MimeType returns the MIME type of the output.
	MimeType() string
}

// FilePrefix is the file name prefix for image exports.
const FilePrefix = "kinzas-typewriter"

// prefixed is implemented by exporters whose files use a prefix other than
// FilePrefix.
type prefixed interface {
	FilePrefix() string
}

// =============================================================================
// FORMATS
// =============================================================================

// Format names an export format.
type Format string

// Supported formats.
const (
	FormatPNG     Format = "png"
	FormatSVG     Format = "svg"
	FormatSnippet Format = "code"
	FormatJSON    Format = "json"
)

// Formats lists the formats in menu order.
var Formats = []Format{FormatPNG, FormatSVG, FormatSnippet, FormatJSON}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "image", "raster":
		return FormatPNG, nil
	case "svg", "vector":
		return FormatSVG, nil
	case "code", "snippet", "css", "html", "txt":
		return FormatSnippet, nil
	case "json", "fontmap":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// New returns the exporter for a format.
func New(format Format, opts *Options) (Exporter, error) {
	switch format {
	case FormatPNG:
		return NewPNGExporter(opts), nil
	case FormatSVG:
		return NewSVGExporter(opts), nil
	case FormatSnippet:
		return NewSnippetExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files are saved.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// Padding around the text in image exports, in pixels.
	Padding float64

	// Background is the hex color behind image exports. Empty means
	// transparent for SVG and white for PNG.
	Background string

	// PlainSnippet reproduces the classic snippet with every letter in Inter
	// instead of its current style.
	PlainSnippet bool

	// Name replaces the file name prefix of ExportToFile.
	Name string
}

// DefaultPadding is the margin around image exports.
const DefaultPadding = 40

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir: ".",
		Padding:   DefaultPadding,
	}
}

// OptionsFromConfig converts the export section of the config file.
func OptionsFromConfig(c config.ExportConfig) *Options {
	opts := DefaultOptions()
	if c.OutputDir != "" {
		opts.OutputDir = c.OutputDir
	}
	opts.Padding = float64(c.Padding)
	opts.Background = c.Background
	opts.PlainSnippet = c.PlainSnippet
	opts.OpenAfterExport = c.OpenAfterExport
	return opts
}

func (o *Options) orDefault() *Options {
	if o == nil {
		return DefaultOptions()
	}
	return o
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// FileName returns the download name for a snapshot, stamped with the
// snapshot time in Unix milliseconds.
func FileName(snap *playground.Snapshot, exporter Exporter) string {
	prefix := FilePrefix
	if p, ok := exporter.(prefixed); ok {
		prefix = p.FilePrefix()
	}
	return fmt.Sprintf("%s-%d%s", prefix, snap.Timestamp(), exporter.FileExtension())
}

// ExportToFile exports a snapshot with the given exporter and writes it to
// opts.OutputDir. It returns the written path.
func ExportToFile(snap *playground.Snapshot, exporter Exporter, opts *Options) (string, error) {
	if snap == nil {
		return "", ErrNilSnapshot
	}
	opts = opts.orDefault()

	content, err := exporter.Export(snap)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	dir = util.ExpandHome(dir)
	name := FileName(snap, exporter)
	if opts.Name != "" {
		name = fmt.Sprintf("%s-%d%s", util.SanitizeFilename(opts.Name, 64), snap.Timestamp(), exporter.FileExtension())
	}
	outputPath := filepath.Join(dir, name)
	if err := util.AtomicWriteFileWithDir(outputPath, content, 0644, 0755); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal, the file was still written.
			return outputPath, fmt.Errorf("open %s: %w", outputPath, err)
		}
	}
	return outputPath, nil
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
