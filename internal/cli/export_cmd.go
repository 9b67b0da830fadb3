// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - The export command.
//
// Command: export [text]
// Short:   Export text as png, svg, code or json
//
// Glyphs come from --fontmap, or are generated when --styles or --generate
// is given. Letters without a glyph fall back to their style.

package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jeranaias/typemorph/internal/export"
	"github.com/jeranaias/typemorph/internal/glyph"
	"github.com/jeranaias/typemorph/internal/morph"
	"github.com/jeranaias/typemorph/internal/util"
)

// HandleExport handles "typemorph export".
func HandleExport(ctx context.Context, args Args) error {
	p := NewArgParser(args.Raw)
	w := args.out()

	if p.BoolFlag("stdout") && args.JSON {
		return NewValidationError("flags", "--stdout --json", "cannot be combined")
	}

	return OutputJSON(w, args.JSON, "export", func() (interface{}, error) {
		cfg, err := LoadConfig(args)
		if err != nil {
			return nil, err
		}
		if p.BoolFlag("no-cache") {
			cfg.Cache.Enabled = false
		}
		if dir := p.FlagAny("out", "o"); dir != "" {
			cfg.Export.OutputDir = dir
		}
		if bg := p.Flag("background"); bg != "" {
			cfg.Export.Background = bg
		}
		if p.HasFlag("padding") {
			n, err := strconv.Atoi(p.Flag("padding"))
			if err != nil {
				return nil, NewValidationErrorWithExample("padding", p.Flag("padding"), "not an integer", "--padding 40")
			}
			cfg.Export.Padding = n
		}
		if p.BoolFlag("plain") {
			cfg.Export.PlainSnippet = true
		}
		if p.BoolFlag("open") {
			cfg.Export.OpenAfterExport = true
		}

		format, err := export.ParseFormat(p.FlagOrDefault("format", cfg.Export.Format))
		if err != nil {
			return nil, err
		}

		ro := RuntimeOptions{Logger: NewLogger(args)}
		if p.HasFlag("seed") {
			seed, err := strconv.ParseUint(p.Flag("seed"), 10, 64)
			if err != nil {
				return nil, NewValidationErrorWithExample("seed", p.Flag("seed"), "not an unsigned integer", "--seed 42")
			}
			ro.Rand = morph.NewSeededRand(seed)
		}

		rt, err := OpenRuntime(ctx, cfg, ro)
		if err != nil {
			return nil, err
		}
		defer rt.Close()
		sess := rt.Session

		text := p.Flag("text")
		if text == "" {
			text = JoinPositionalArgs(p, 0)
		}
		if text != "" {
			sess.SetText(text)
		}
		if p.HasFlag("size") {
			px, err := ParseIntWithValidation(p.Flag("size"), "size")
			if err != nil {
				return nil, NewValidationErrorWithExample("size", p.Flag("size"), err.Error(), "--size 96")
			}
			sess.SetFontSize(px)
		}
		if k, ok, err := p.FlagFloat("kerning"); err != nil {
			return nil, err
		} else if ok {
			sess.SetKerning(k)
		}
		if p.BoolFlag("shuffle") {
			sess.Shuffle()
		}

		if path := p.Flag("fontmap"); path != "" {
			fm, err := glyph.Load(util.ExpandHome(path))
			if err != nil {
				return nil, NewCommandError("export", "load", "could not read font map "+path, err)
			}
			sess.SetFontMap(fm)
		}
		styles := p.FlagList("styles")
		if len(styles) > 0 || p.BoolFlag("generate") {
			warnUnknownFonts(args, styles)
			rep := sess.Generate(ctx, styles)
			if err := generateError(rep); err != nil {
				return nil, err
			}
		}

		opts := rt.ExportOptions()
		opts.Name = p.Flag("name")
		exp, err := export.New(format, opts)
		if err != nil {
			return nil, err
		}
		snap := sess.Snapshot()

		if p.BoolFlag("preview") && format == export.FormatSnippet && !args.JSON {
			fmt.Fprintln(w, export.Preview(snap, opts))
		}

		data := ExportData{
			Format:   string(format),
			MimeType: exp.MimeType(),
			Glyphs:   snap.FontMap.Len(),
			Fonts:    snap.UsedFonts(),
		}

		if p.BoolFlag("stdout") {
			content, err := exp.Export(snap)
			if err != nil {
				return nil, err
			}
			data.Bytes = len(content)
			_, err = w.Write(content)
			return data, err
		}

		path, err := export.ExportToFile(snap, exp, opts)
		if err != nil && path == "" {
			return nil, NewCommandError("export", "write", "could not export "+string(format), err)
		}
		if err != nil {
			// Written but not opened.
			fmt.Fprintf(args.errOut(), "%s %v\n", RenderConditional(WarningStyle, "Warning:"), err)
		}
		data.Path = path
		if info, statErr := os.Stat(path); statErr == nil {
			data.Bytes = int(info.Size())
		}

		if !args.JSON && !args.Quiet {
			fmt.Fprintln(w, RenderLetters(snap.Letters))
			fmt.Fprintf(w, "%s Exported %s to %s\n", RenderStatus("ok"), format, path)
		} else if args.Quiet && !args.JSON {
			fmt.Fprintln(w, path)
		}
		return data, nil
	})
}
