// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package glyph defines the FontMap data model shared by the requester,
// the playground session, the cache and the exporters.
package glyph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/jeranaias/typemorph/internal/util"
)

// DefaultWidth is the advance used when the service omits a width.
const DefaultWidth = 70.0

// MaxWidth caps the advance width of a glyph, ten design boxes wide.
const MaxWidth = 1000.0

// CoordinateSpace is the side length of the square glyph design space.
const CoordinateSpace = 100.0

// ErrEmptyPath is returned by Validate for a descriptor without path data.
var ErrEmptyPath = errors.New("glyph has empty path")

// =============================================================================
// DESCRIPTOR
// =============================================================================

// Descriptor describes how one character is drawn: SVG path data in the
// 100x100 design space plus a relative advance width.
type Descriptor struct {
	Path  string  `json:"path"`
	Width float64 `json:"width"`
}

// NewDescriptor creates a descriptor with its width passed through
// ClampWidth.
func NewDescriptor(path string, width float64) Descriptor {
	return Descriptor{Path: path, Width: ClampWidth(width)}
}

// ClampWidth maps a zero, negative or non-finite width to DefaultWidth and
// caps the rest at MaxWidth.
func ClampWidth(width float64) float64 {
	switch {
	case math.IsNaN(width), math.IsInf(width, 0), width <= 0:
		return DefaultWidth
	case width > MaxWidth:
		return MaxWidth
	}
	return width
}

// Advance returns the horizontal advance of the glyph at the given font size.
func (d Descriptor) Advance(fontSize float64) float64 {
	return ClampWidth(d.Width) / CoordinateSpace * fontSize
}

// =============================================================================
// FONT MAP
// =============================================================================

// FontMap maps a single character to its glyph descriptor.
type FontMap map[string]Descriptor

// Len returns the number of glyphs in the map.
func (m FontMap) Len() int {
	return len(m)
}

// Has reports whether the map has a glyph for char.
func (m FontMap) Has(char string) bool {
	_, ok := m[char]
	return ok
}

// Keys returns the characters of the map in sorted order.
func (m FontMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy. Descriptors are values so the copy is
// independent of the original.
func (m FontMap) Clone() FontMap {
	out := make(FontMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Validate checks that every character maps to a non-empty path.
func (m FontMap) Validate() error {
	for _, k := range m.Keys() {
		if m[k].Path == "" {
			return fmt.Errorf("%w: %q", ErrEmptyPath, k)
		}
	}
	return nil
}

// Merge returns a new map holding prev overlaid with next. Glyphs in next
// replace glyphs in prev for the same character.
func Merge(prev, next FontMap) FontMap {
	out := make(FontMap, len(prev)+len(next))
	for k, v := range prev {
		out[k] = v
	}
	for k, v := range next {
		out[k] = v
	}
	return out
}

// Missing returns the characters of chars that have no glyph in m, keeping
// their order.
func (m FontMap) Missing(chars []string) []string {
	var missing []string
	for _, c := range chars {
		if !m.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Encode writes the map as indented JSON.
func (m FontMap) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if m == nil {
		m = FontMap{}
	}
	return enc.Encode(map[string]Descriptor(m))
}

// Decode reads a JSON FontMap. Widths go through ClampWidth; use Validate
// to check the path invariant.
func Decode(r io.Reader) (FontMap, error) {
	var m FontMap
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode font map: %w", err)
	}
	if m == nil {
		m = FontMap{}
	}
	for k, d := range m {
		m[k] = NewDescriptor(d.Path, d.Width)
	}
	return m, nil
}

// Save writes the map to path as JSON.
func (m FontMap) Save(path string) error {
	if m == nil {
		m = FontMap{}
	}
	data, err := json.MarshalIndent(map[string]Descriptor(m), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode font map: %w", err)
	}
	return util.AtomicWriteFile(path, data, 0644)
}

// Load reads a FontMap previously written by Save and validates it.
func Load(path string) (FontMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
