// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// generate_cmd.go - The generate command.
//
// Command: generate [text]
// Short:   Generate a blended font map
// Aliases: gen
//
// Examples:
//   typemorph generate "Hello" --styles "Anton,Handjet"
//   typemorph generate --text "Hi!" --save hi.json --json
//
// Flags:
//   --text TEXT     Text (or pass it as arguments)
//   --styles A,B    Style names to blend
//   --save FILE     Save the font map as JSON
//   --no-cache      Skip the glyph cache

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/typemorph/internal/fontmap"
	"github.com/jeranaias/typemorph/internal/morph"
	"github.com/jeranaias/typemorph/internal/playground"
	"github.com/jeranaias/typemorph/internal/util"
)

// HandleGenerate handles "typemorph generate".
func HandleGenerate(ctx context.Context, args Args) error {
	p := NewArgParser(args.Raw)
	w := args.out()

	return OutputJSON(w, args.JSON, "generate", func() (interface{}, error) {
		cfg, err := LoadConfig(args)
		if err != nil {
			return nil, err
		}
		if p.BoolFlag("no-cache") {
			cfg.Cache.Enabled = false
		}

		text := p.Flag("text")
		if text == "" {
			text = JoinPositionalArgs(p, 0)
		}
		if text == "" {
			text = cfg.Playground.Text
		}

		styles := p.FlagList("styles")
		warnUnknownFonts(args, styles)

		rt, err := OpenRuntime(ctx, cfg, RuntimeOptions{Logger: NewLogger(args)})
		if err != nil {
			return nil, err
		}
		defer rt.Close()

		rt.Session.SetText(text)
		rep := rt.Session.Generate(ctx, styles)
		if err := generateError(rep); err != nil {
			return nil, err
		}

		data := GenerateData{
			Text:      text,
			Styles:    rep.Styles,
			Status:    rep.Status,
			Cached:    rep.Cached,
			Generated: rep.Generated,
			Rejected:  rep.Rejected,
			Missing:   rep.Missing,
			FontMap:   rt.Session.FontMap(),
			Duration:  rep.Duration.Milliseconds(),
		}

		if path := p.Flag("save"); path != "" {
			path = util.ExpandHome(path)
			if err := data.FontMap.Save(path); err != nil {
				return nil, NewCommandError("generate", "save", "could not write font map", err)
			}
			data.SavedTo = path
		}

		if !args.JSON {
			printGenerate(w, data)
		}
		return data, nil
	})
}

// generateError turns a report with nothing usable into an error. A report
// with cached glyphs but a failed request is still a success.
func generateError(rep *playground.GenerateReport) error {
	if !rep.Fallback() {
		return nil
	}
	switch rep.Status {
	case fontmap.StatusNoCredential:
		return NewCommandError("generate", "request", "no API key; set GEMINI_API_KEY or gemini.api_key", nil)
	case fontmap.StatusNoCharacters:
		return NewValidationError("text", "", "has no characters to generate")
	case fontmap.StatusNoStyles:
		return NewValidationErrorWithExample("styles", "", "no style names", `--styles "Inter,Anton"`)
	default:
		return NewCommandError("generate", "request", rep.Status.String(), rep.Err)
	}
}

func warnUnknownFonts(args Args, styles []string) {
	if args.Quiet {
		return
	}
	for _, s := range styles {
		if morph.IsKnownFont(s) {
			continue
		}
		msg := fmt.Sprintf("%q is not a playground font", s)
		if hint := SuggestFont(s); hint != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", hint)
		}
		fmt.Fprintf(args.errOut(), "%s %s\n", RenderConditional(WarningStyle, "Warning:"), msg)
	}
}

func printGenerate(w io.Writer, data GenerateData) {
	fmt.Fprintln(w, RenderConditional(TitleStyle, "Generated font map"))
	fmt.Fprintln(w, RenderKV("Text", data.Text))
	fmt.Fprintln(w, RenderKV("Styles", strings.Join(data.Styles, " + ")))
	fmt.Fprintln(w, RenderLabel("Status")+RenderStatus(statusTag(data.Status))+" "+data.Status.String())
	fmt.Fprintln(w, RenderKV("Glyphs", fmt.Sprintf("%d cached, %d generated, %d rejected",
		data.Cached, data.Generated, data.Rejected)))
	fmt.Fprintln(w, RenderKV("Time", formatDurationShort(msDuration(data.Duration))))
	if len(data.Missing) > 0 {
		fmt.Fprintln(w, RenderKV("Missing", strings.Join(data.Missing, " ")))
	}
	if data.SavedTo != "" {
		fmt.Fprintln(w, RenderKV("Saved", data.SavedTo))
	}

	fmt.Fprintln(w, RenderConditional(SectionStyle, "Glyphs"))
	for _, ch := range data.FontMap.Keys() {
		d := data.FontMap[ch]
		fmt.Fprintf(w, "  %s  %s  %s\n",
			RenderConditional(HighlightStyle, ch),
			DimStyle.Render(fmt.Sprintf("width %5.1f", d.Width)),
			truncatePath(d.Path, 48))
	}
}

func statusTag(s fontmap.Status) string {
	if s == fontmap.StatusOK {
		return "ok"
	}
	return "partial"
}

func truncatePath(path string, n int) string {
	r := []rune(path)
	if len(r) <= n {
		return path
	}
	return string(r[:n-1]) + "…"
}
