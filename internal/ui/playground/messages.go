// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playground

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/typemorph/internal/config"
	"github.com/jeranaias/typemorph/internal/export"
	"github.com/jeranaias/typemorph/internal/morph"
	play "github.com/jeranaias/typemorph/internal/playground"
)

// =============================================================================
// MESSAGES
// =============================================================================

// morphMsg carries one style change from the cycler of hover cycle id.
type morphMsg struct {
	cycle  int
	update morph.Update
	ok     bool
}

// GeneratedMsg reports a finished generation.
type GeneratedMsg struct {
	Report *play.GenerateReport
}

// ExportedMsg reports a finished export. Err with a non-empty Path means
// the file was written but could not be opened.
type ExportedMsg struct {
	Format export.Format
	Path   string
	Err    error
	Saved  bool
}

// ConfigReloadedMsg carries a config file change.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// waitForMorph reads the next update of a hover cycle.
func waitForMorph(cycle int, ch <-chan morph.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		return morphMsg{cycle: cycle, update: u, ok: ok}
	}
}

// generateCmd blends the fonts currently shown. The session merges the
// result unless it was reset in the meantime.
func generateCmd(ctx context.Context, s *play.Session) tea.Cmd {
	return func() tea.Msg {
		return GeneratedMsg{Report: s.Generate(ctx, nil)}
	}
}

// exportCmd renders snap in format and writes it under opts.OutputDir.
func exportCmd(snap *play.Snapshot, format export.Format, opts *export.Options, saved bool) tea.Cmd {
	return func() tea.Msg {
		msg := ExportedMsg{Format: format, Saved: saved}
		exp, err := export.New(format, opts)
		if err != nil {
			msg.Err = err
			return msg
		}
		msg.Path, msg.Err = export.ExportToFile(snap, exp, opts)
		return msg
	}
}

// waitForReload reads the next config change.
func waitForReload(ch <-chan ConfigReloadedMsg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
