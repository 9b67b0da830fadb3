// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// commands of typemorph.
//
// # Key Types
//
//   - Command: the commands typemorph understands
//   - Args: global flags plus the raw arguments after the command
//   - ArgParser: flag and positional parsing for one command
//   - Runtime: requester, glyph cache and session wired from one config
//   - JSONResponse: the envelope every command prints under --json
//
// # Usage
//
//	cmd, args := cli.Parse()
//	if cmd == cli.CmdTUI {
//	    // start the playground
//	}
//	if err := cli.Run(ctx, cmd, args); err != nil {
//	    cli.DisplayError(os.Stderr, err, args.JSON)
//	    os.Exit(cli.GetExitCode(err))
//	}
//
// # Commands Overview
//
//   - (none), tui, play: the interactive playground
//   - generate, gen: request a blended font map from Gemini
//   - export: write text as png, svg, code or json
//   - fonts: list fonts, colors and weights
//   - config: show and edit ~/.typemorph/config.toml
//   - cache: inspect and maintain the glyph cache
//   - update: install the latest release
//   - version, help
//
// # Exit Codes
//
//	0  success
//	1  general error
//	2  usage or validation error
//	3  configuration error
//	5  network or API error
//	7  not found
package cli
