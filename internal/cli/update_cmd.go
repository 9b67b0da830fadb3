// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update_cmd.go - The update command.
//
// Command: update
// Short:   Update typemorph from GitHub releases
//
// Flags:
//   --check    Only report whether a newer release exists
//   --force    Install the latest release even from a development build
//
// Releases are verified against checksums.txt before the binary is replaced.

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
)

// ReleaseRepo is the GitHub repository releases are fetched from.
const ReleaseRepo = "jeranaias/typemorph"

const updateTimeout = 60 * time.Second

// HandleUpdate handles "typemorph update".
func HandleUpdate(ctx context.Context, args Args) error {
	p := NewArgParser(args.Raw)
	w := args.out()
	checkOnly := p.BoolFlag("check")
	force := p.BoolFlag("force")

	return OutputJSON(w, args.JSON, "update", func() (interface{}, error) {
		data := UpdateData{Current: Version}

		// Development builds have no release to compare against.
		released := isReleaseVersion(Version)
		if !released && !force && !checkOnly {
			return nil, NewValidationErrorWithExample("version", Version,
				"development build; refusing to replace it", "typemorph update --force")
		}

		ctx, cancel := context.WithTimeout(ctx, updateTimeout)
		defer cancel()

		updater, err := selfupdate.NewUpdater(selfupdate.Config{
			Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
		})
		if err != nil {
			return nil, NewCommandError("update", "init", "could not create updater", err)
		}

		if !args.JSON && !args.Quiet {
			fmt.Fprintf(w, "Current version: %s\n", Version)
			fmt.Fprintln(w, DimStyle.Render("Checking for updates..."))
		}
		latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(ReleaseRepo))
		if err != nil {
			return nil, NewCommandError("update", "check", "could not check for updates", err)
		}
		if !found {
			if !args.JSON {
				fmt.Fprintln(w, "No releases found.")
			}
			return data, nil
		}
		data.Latest = latest.Version()
		data.Available = !released || !latest.LessOrEqual(Version)

		if !data.Available {
			if !args.JSON {
				fmt.Fprintf(w, "%s Already up to date (latest: %s)\n", RenderStatus("ok"), data.Latest)
			}
			return data, nil
		}
		if checkOnly {
			if !args.JSON {
				fmt.Fprintf(w, "%s New version available: %s -> %s\n", RenderStatus("warn"), Version, data.Latest)
				fmt.Fprintln(w, "Run `typemorph update` to install it.")
			}
			return data, nil
		}

		exe, err := selfupdate.ExecutablePath()
		if err != nil {
			return nil, NewCommandError("update", "locate", "could not locate the executable", err)
		}
		if !args.JSON && !args.Quiet {
			fmt.Fprintf(w, "Installing %s...\n", data.Latest)
		}
		if err := updater.UpdateTo(ctx, latest, exe); err != nil {
			return nil, NewCommandError("update", "install", "update failed", err)
		}
		data.Updated = true
		if !args.JSON {
			fmt.Fprintf(w, "%s Updated to %s\n", RenderStatus("ok"), data.Latest)
		}
		return data, nil
	})
}

// isReleaseVersion reports whether v is a semantic version without a
// prerelease tag.
func isReleaseVersion(v string) bool {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return false
	}
	return sv.Prerelease() == ""
}
