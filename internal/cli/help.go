// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// help.go - Markdown help rendered with glamour.

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
)

const usageText = `# typemorph

A type playground for the terminal. Hover letters to morph them through
display fonts, then blend the fonts you like into a brand new glyph set
generated by Gemini.

## Usage

    typemorph                      Start the playground (default)
    typemorph generate [text]      Generate a blended font map
    typemorph export [text]        Export the text as png, svg, code or json
    typemorph fonts                List fonts, colors and weights
    typemorph config [show|path|get|set|keys|init]
    typemorph cache [stats|show|clear|prune]
    typemorph update               Update to the latest release
    typemorph version              Show version information
    typemorph help [command]       Show help

## Global flags

    -v, --verbose      Debug logging on stderr
    -q, --quiet        Minimal output
    --json             JSON output
    --no-color         Disable colors
    --config PATH      Use a specific config file

## Environment

    GEMINI_API_KEY          API key for glyph generation
    TYPEMORPH_MODEL         Model override
    TYPEMORPH_GEMINI_URL    API base URL override
    TYPEMORPH_OUTPUT_DIR    Export directory override
    TYPEMORPH_NO_CACHE      Disable the glyph cache
    NO_COLOR                Disable colors

Version: %s
`

var commandHelp = map[string]string{
	"tui": `# typemorph

Start the playground.

## Keys

    ←/→             Move the hover between letters
    esc             Stop hovering
    tab / enter     Edit the text (enter or esc to finish)
    ctrl+g          Generate a blended font from the fonts on screen
    ctrl+r          Reset text, size, kerning and glyphs
    ctrl+e          Export menu (png, svg, code, json)
    ctrl+s          Save the font map as JSON
    ctrl+x          Shuffle every letter
    + / -           Font size
    [ / ]           Kerning
    ?               Toggle help
    q, ctrl+c       Quit
`,
	"generate": `# typemorph generate

Generate a font map for the unique characters of a text, blended from a set
of style names. Cached glyphs for the same style set are reused.

## Flags

    --text TEXT         Text (or pass it as arguments)
    --styles A,B        Style names to blend (default: config blend_styles)
    --save FILE         Save the font map as JSON
    --no-cache          Skip the glyph cache

## Examples

    typemorph generate "Hello" --styles "Anton,Handjet"
    typemorph generate --text "Hi!" --save hi.json --json
`,
	"export": `# typemorph export

Export text in the current styling.

## Flags

    --format png|svg|code|json   Export format (default: config export.format)
    --text TEXT                  Text (or pass it as arguments)
    --size PX                    Font size, 20 to 300
    --kerning EM                 Letter spacing, -0.1 to 1
    --styles A,B                 Generate glyphs blended from these styles
    --fontmap FILE               Use a saved font map instead of generating
    --shuffle                    Give every letter a random style
    --seed N                     Seed for --shuffle
    --out DIR                    Output directory
    --name NAME                  File name prefix instead of kinzas-typewriter
    --stdout                     Write to stdout instead of a file
    --preview                    Print a highlighted preview of the code export

## Examples

    typemorph export "Type Morph" --format svg --out ~/Desktop
    typemorph export --fontmap hi.json --text "Hi!" --format png
`,
	"fonts": `# typemorph fonts

List the fonts, colors and weights letters morph between.
`,
	"config": `# typemorph config

    typemorph config show          Show the configuration (key redacted)
    typemorph config path          Print the config file path
    typemorph config get KEY       Print one value
    typemorph config set KEY VAL   Set and save one value
    typemorph config keys          List every key
    typemorph config init          Write a default config file

Keys use dotted names such as playground.font_size or gemini.api_key.
`,
	"cache": `# typemorph cache

    typemorph cache stats          Glyph counts per style set
    typemorph cache show --styles Inter,Anton [--out FILE]
    typemorph cache clear          Delete every cached glyph
    typemorph cache prune --older-than 72h
`,
	"update": `# typemorph update

Check GitHub for a newer release and install it.

    --check      Only report whether an update is available
`,
}

// helpTopic maps aliases onto their help topic.
func helpTopic(command string) string {
	command = strings.ToLower(command)
	switch command {
	case "gen":
		return "generate"
	case "play", "":
		return "tui"
	}
	return command
}

// HelpText returns the markdown help for a command, or the general usage.
func HelpText(command string) string {
	if command != "" {
		if text, ok := commandHelp[helpTopic(command)]; ok {
			return text
		}
	}
	return fmt.Sprintf(usageText, Version)
}

// HandleHelp prints help, rendered as markdown on a color terminal.
func HandleHelp(args Args) error {
	topic := args.Subcommand
	if _, ok := commandHelp[helpTopic(topic)]; topic != "" && !ok {
		topic = SuggestCommand(topic)
	}
	text := HelpText(topic)

	if args.JSON {
		topics := make([]string, 0, len(commandHelp))
		for k := range commandHelp {
			topics = append(topics, k)
		}
		sort.Strings(topics)
		return NewJSONResponse("help", map[string]interface{}{"topics": topics, "markdown": text}).Print(args.out())
	}

	if ColorsEnabled() && IsStdoutTTY() {
		text = renderMarkdown(text, GetTerminalWidth())
	}
	_, err := fmt.Fprint(args.out(), text)
	return err
}

// renderMarkdown renders markdown for the terminal, returning the input
// unchanged if glamour fails.
func renderMarkdown(content string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(width, 100)),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}
