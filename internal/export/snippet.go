// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/typemorph/internal/playground"
)

// SnippetPrefix is the file name prefix of code snippet exports.
const SnippetPrefix = "type-morph-snippet"

// classicFamilies is the Google Fonts import of the classic snippet.
var classicFamilies = []string{
	"Abril Fatface", "Coral Pixels", "DM Mono", "EB Garamond", "Handjet",
	"Jacquard 12", "New Amsterdam", "Raleway Dots", "Inter", "Playfair Display",
	"Space Grotesk", "JetBrains Mono", "Anton", "Libre Baskerville",
	"Cormorant Garamond", "Montserrat", "Bebas Neue", "Unbounded",
}

// =============================================================================
// SNIPPET EXPORTER
// =============================================================================

// SnippetExporter writes an HTML snippet with inline styles followed by the
// Google Fonts import for the families it uses.
type SnippetExporter struct {
	options *Options
}

// NewSnippetExporter creates a new snippet exporter.
func NewSnippetExporter(opts *Options) *SnippetExporter {
	return &SnippetExporter{options: opts.orDefault()}
}

// Export renders the snippet text.
func (e *SnippetExporter) Export(snap *playground.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	return []byte(e.Render(snap)), nil
}

// Render returns the snippet as a string.
func (e *SnippetExporter) Render(snap *playground.Snapshot) string {
	var b strings.Builder
	b.WriteString("/* kinza's typewriter Export */\n")
	fmt.Fprintf(&b, `<div style="font-size: %dpx; letter-spacing: %sem; text-align: center; white-space: nowrap;">`+"\n",
		snap.FontSize, strconv.FormatFloat(snap.Kerning, 'f', -1, 64))
	b.WriteString("  ")
	for _, l := range snap.Letters {
		ch := html.EscapeString(l.Char)
		if e.options.PlainSnippet {
			fmt.Fprintf(&b, `<span style="font-family: 'Inter';">%s</span>`, ch)
			continue
		}
		fmt.Fprintf(&b, `<span style="font-family: '%s'; color: %s; font-weight: %d;">%s</span>`,
			html.EscapeString(l.Style.Font), html.EscapeString(l.Style.Color), l.Style.Weight, ch)
	}
	b.WriteString("\n</div>\n\n")

	families := classicFamilies
	if !e.options.PlainSnippet {
		families = snap.UsedFonts()
	}
	b.WriteString("/* Note: You will need to import the fonts used in your project. */\n")
	if len(families) > 0 {
		fmt.Fprintf(&b, "@import url('%s');\n", GoogleFontsURL(families))
	}
	return b.String()
}

// FileExtension returns the file extension for snippets.
func (e *SnippetExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the MIME type for snippets.
func (e *SnippetExporter) MimeType() string {
	return "text/plain"
}

// FilePrefix names snippet files type-morph-snippet-<ms>.txt.
func (e *SnippetExporter) FilePrefix() string {
	return SnippetPrefix
}

// GoogleFontsURL builds a css2 import URL for the given families.
func GoogleFontsURL(families []string) string {
	var b strings.Builder
	b.WriteString("https://fonts.googleapis.com/css2?")
	for _, f := range families {
		b.WriteString("family=")
		b.WriteString(strings.ReplaceAll(strings.TrimSpace(f), " ", "+"))
		b.WriteString("&")
	}
	b.WriteString("display=swap")
	return b.String()
}

// =============================================================================
// PREVIEW
// =============================================================================

// Preview returns the snippet of snap highlighted for a 256-color terminal.
// It falls back to the plain snippet if highlighting fails.
func Preview(snap *playground.Snapshot, opts *Options) string {
	return Highlight(NewSnippetExporter(opts).Render(snap), "html")
}

// Highlight applies chroma syntax highlighting for terminal output.
func Highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
