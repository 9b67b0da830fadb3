// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fontmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jeranaias/typemorph/internal/glyph"
)

// ErrNotArray is returned by Decode when the body is valid JSON but not an
// array.
var ErrNotArray = errors.New("response is not a JSON array")

// Rejection records why one element of the response was dropped.
type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// String implements fmt.Stringer.
func (r Rejection) String() string {
	return fmt.Sprintf("element %d: %s", r.Index, r.Reason)
}

// Decode parses a response body into a FontMap. An element is accepted when
// char and path are non-empty JSON strings; width is used when it is a
// non-zero JSON number and defaults to glyph.DefaultWidth otherwise.
// Rejected elements are reported, not fatal. Later duplicates of a char
// replace earlier ones.
func Decode(body []byte) (glyph.FontMap, []Rejection, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return glyph.FontMap{}, nil, ErrNotArray
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return glyph.FontMap{}, nil, fmt.Errorf("%w: got %s", ErrNotArray, typeErr.Value)
		}
		return glyph.FontMap{}, nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if elems == nil {
		// Literal null.
		return glyph.FontMap{}, nil, ErrNotArray
	}

	fm := make(glyph.FontMap, len(elems))
	var rejected []Rejection
	for i, raw := range elems {
		char, d, reason := decodeElement(raw)
		if reason != "" {
			rejected = append(rejected, Rejection{Index: i, Reason: reason})
			continue
		}
		fm[char] = d
	}
	return fm, rejected, nil
}

func decodeElement(raw json.RawMessage) (string, glyph.Descriptor, string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return "", glyph.Descriptor{}, "not an object"
	}

	char, ok := stringField(fields, "char")
	if !ok {
		return "", glyph.Descriptor{}, "char missing or not a string"
	}
	if char == "" {
		return "", glyph.Descriptor{}, "char is empty"
	}

	path, ok := stringField(fields, "path")
	if !ok {
		return "", glyph.Descriptor{}, "path missing or not a string"
	}
	if path == "" {
		return "", glyph.Descriptor{}, "path is empty"
	}

	var width float64
	if w, ok := fields["width"]; ok {
		if err := json.Unmarshal(w, &width); err != nil {
			width = 0
		}
	}
	return char, glyph.NewDescriptor(path, width), ""
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
