// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fontmap

import (
	"fmt"
	"strings"

	"github.com/jeranaias/typemorph/internal/gemini"
	"github.com/jeranaias/typemorph/internal/glyph"
)

// BuildPrompt writes the instruction sent to the service for blending
// styleNames into one experimental face covering chars.
func BuildPrompt(styleNames, chars []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Invent an experimental \"mushed\" typeface that blends these styles: %s.\n\n",
		strings.Join(styleNames, ", "))
	fmt.Fprintf(&sb, "Draw one glyph for each of these characters: %s\n\n", strings.Join(chars, ""))
	sb.WriteString("Rules:\n")
	fmt.Fprintf(&sb, "- Coordinates live in a %gx%g box, origin at the top left.\n",
		glyph.CoordinateSpace, glyph.CoordinateSpace)
	sb.WriteString("- Exactly one SVG path per character.\n")
	sb.WriteString("- Make it a hybrid: mix serifs, heavy strokes and jittery lines.\n")
	sb.WriteString("- width is the advance of the glyph in the same units.\n")
	sb.WriteString("- Answer with a JSON array of objects and nothing else.\n\n")
	sb.WriteString("Example element:\n")
	sb.WriteString(`{ "char": "A", "path": "M10 80 L50 20 L90 80", "width": 80 }`)
	sb.WriteString("\n")
	return sb.String()
}

// Schema returns the structured-output schema: an array of objects with a
// required char, path and width.
func Schema() *gemini.Schema {
	return &gemini.Schema{
		Type: gemini.TypeArray,
		Items: &gemini.Schema{
			Type: gemini.TypeObject,
			Properties: map[string]*gemini.Schema{
				"char":  {Type: gemini.TypeString},
				"path":  {Type: gemini.TypeString},
				"width": {Type: gemini.TypeNumber},
			},
			Required: []string{"char", "path", "width"},
		},
	}
}
