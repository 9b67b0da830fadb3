// typemorph - a terminal playground for letters that morph between fonts.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/jeranaias/typemorph/internal/cli"
	"github.com/jeranaias/typemorph/internal/config"
	"github.com/jeranaias/typemorph/internal/logging"
	"github.com/jeranaias/typemorph/internal/ui/playground"
	"github.com/jeranaias/typemorph/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := cli.Parse()

	var err error
	if cmd == cli.CmdTUI {
		err = runTUI(ctx, args)
	} else {
		err = cli.Run(ctx, cmd, args)
	}
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}

// runTUI starts the playground. Logs go to a file because the screen owns
// the terminal.
func runTUI(ctx context.Context, args cli.Args) error {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}

	logger, closeLog := tuiLogger(args.Verbose)
	defer closeLog()
	logging.SetLogger(logger)

	rt, err := cli.OpenRuntime(ctx, cfg, cli.RuntimeOptions{Logger: logger})
	if err != nil {
		return err
	}
	defer rt.Close()

	configPath := args.ConfigPath
	if configPath == "" {
		if p, err := config.ActivePath(); err == nil {
			configPath = p
		}
	}

	theme := styles.NewTheme()
	if cfg.UI.NoColor {
		theme = styles.NewThemeForProfile(termenv.Ascii)
	}

	m := playground.New(playground.Options{
		Session:      rt.Session,
		Config:       cfg,
		ConfigPath:   configPath,
		Model:        cfg.Gemini.Model,
		CacheEnabled: rt.Cache != nil,
		Theme:        theme,
		Logger:       logger,
		Context:      ctx,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("playground: %w", err)
	}
	return nil
}

// tuiLogger writes debug records to ~/.typemorph/typemorph.log with
// --verbose and discards them otherwise.
func tuiLogger(verbose bool) (*slog.Logger, func()) {
	if !verbose {
		return logging.Nop(), func() {}
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return logging.Nop(), func() {}
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return logging.Nop(), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "typemorph.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return logging.Nop(), func() {}
	}
	return logging.NewText(f, true), func() { f.Close() }
}
