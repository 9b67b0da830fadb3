// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playground

import "github.com/charmbracelet/bubbles/key"

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap holds the bindings of play mode plus the ones shared by the edit
// and export modes.
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Leave     key.Binding
	Edit      key.Binding
	Generate  key.Binding
	Reset     key.Binding
	Export    key.Binding
	Save      key.Binding
	Shuffle   key.Binding
	Bigger    key.Binding
	Smaller   key.Binding
	Looser    key.Binding
	Tighter   key.Binding
	Help      key.Binding
	Quit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	MenuUp    key.Binding
	MenuDown  key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "hover left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "hover right"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop hovering"),
		),
		Edit: key.NewBinding(
			key.WithKeys("tab", "enter"),
			key.WithHelp("tab", "edit text"),
		),
		Generate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "generate font"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "reset"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save font map"),
		),
		Shuffle: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "shuffle"),
		),
		Bigger: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "bigger"),
		),
		Smaller: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "smaller"),
		),
		Looser: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "looser"),
		),
		Tighter: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "tighter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		MenuUp: key.NewBinding(
			key.WithKeys("up", "k", "shift+tab"),
			key.WithHelp("↑/k", "up"),
		),
		MenuDown: key.NewBinding(
			key.WithKeys("down", "j", "tab"),
			key.WithHelp("↓/j", "down"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns the bindings of the one-line help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Generate, k.Export, k.Help, k.Quit}
}

// FullHelp returns the bindings of the expanded help, grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Leave, k.Edit},
		{k.Generate, k.Shuffle, k.Reset},
		{k.Export, k.Save},
		{k.Bigger, k.Smaller, k.Looser, k.Tighter},
		{k.Help, k.Quit},
	}
}

// modeKeys adapts the help to the edit and export modes.
type modeKeys []key.Binding

func (m modeKeys) ShortHelp() []key.Binding  { return m }
func (m modeKeys) FullHelp() [][]key.Binding { return [][]key.Binding{m} }

func (k KeyMap) editHelp() modeKeys {
	return modeKeys{k.Confirm, k.Cancel, k.ForceQuit}
}

func (k KeyMap) menuHelp() modeKeys {
	return modeKeys{k.MenuUp, k.MenuDown, k.Confirm, k.Cancel}
}
