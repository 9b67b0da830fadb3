// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/typemorph/internal/morph"
)

// HandleFonts lists the morph vocabulary.
func HandleFonts(args Args) error {
	w := args.out()
	return OutputJSON(w, args.JSON, "fonts", func() (interface{}, error) {
		data := FontsData{Fonts: morph.Fonts, Colors: morph.Colors, Weights: morph.Weights}
		if args.JSON {
			return data, nil
		}

		fmt.Fprintln(w, RenderConditional(TitleStyle, "Fonts"))
		for i, f := range data.Fonts {
			fmt.Fprintf(w, "  %2d  %s\n", i+1, f)
		}

		fmt.Fprintln(w, RenderConditional(SectionStyle, "Colors"))
		for _, c := range data.Colors {
			swatch := RenderConditional(lipgloss.NewStyle().Foreground(lipgloss.Color(c)), "■■")
			fmt.Fprintf(w, "  %s  %s\n", swatch, c)
		}

		fmt.Fprintln(w, RenderConditional(SectionStyle, "Weights"))
		for _, wt := range data.Weights {
			sample := RenderConditional(LetterStyle(morph.Style{Color: "#FFFFFF", Weight: wt}), "Aa")
			fmt.Fprintf(w, "  %s  %s\n", strconv.Itoa(wt), sample)
		}
		return data, nil
	})
}
