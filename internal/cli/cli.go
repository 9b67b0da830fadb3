// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and dispatch for typemorph.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/jeranaias/typemorph/internal/config"
	"github.com/jeranaias/typemorph/internal/logging"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdGenerate
	CmdExport
	CmdFonts
	CmdConfig
	CmdCache
	CmdUpdate
	CmdVersion
	CmdHelp
	CmdUnknown
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose    bool
	Quiet      bool
	JSON       bool
	NoColor    bool
	ConfigPath string

	// Name is the command word as typed.
	Name string

	// Subcommand is the first argument after the command, if any.
	Subcommand string

	// Raw holds the arguments after the command name, global flags removed.
	Raw []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (a Args) in() io.Reader {
	if a.Stdin != nil {
		return a.Stdin
	}
	return os.Stdin
}

func (a Args) out() io.Writer {
	if a.Stdout != nil {
		return a.Stdout
	}
	return os.Stdout
}

func (a Args) errOut() io.Writer {
	if a.Stderr != nil {
		return a.Stderr
	}
	return os.Stderr
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses a command line without the program name. Global flags
// may appear anywhere.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if parsedArgs.showHelp && len(remaining) == 0 {
		return CmdHelp, parsedArgs.Args
	}
	if parsedArgs.showVersion {
		return CmdVersion, parsedArgs.Args
	}
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs.Args
	}

	args := parsedArgs.Args
	args.Name = remaining[0]
	args.Raw = remaining[1:]
	if len(args.Raw) > 0 {
		args.Subcommand = args.Raw[0]
	}
	if parsedArgs.showHelp {
		args.Subcommand = args.Name
		return CmdHelp, args
	}

	switch strings.ToLower(args.Name) {
	case "tui", "play":
		return CmdTUI, args
	case "generate", "gen":
		return CmdGenerate, args
	case "export":
		return CmdExport, args
	case "fonts":
		return CmdFonts, args
	case "config":
		return CmdConfig, args
	case "cache":
		return CmdCache, args
	case "update":
		return CmdUpdate, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		return CmdUnknown, args
	}
}

type globalFlags struct {
	Args
	showHelp    bool
	showVersion bool
}

// parseGlobalFlags strips the flags every command accepts.
func parseGlobalFlags(args []string) ([]string, globalFlags) {
	var remaining []string
	var parsed globalFlags

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--no-color":
			parsed.NoColor = true
		case "-h", "--help":
			parsed.showHelp = true
		case "--version":
			parsed.showVersion = true
		case "--config":
			if i+1 < len(args) {
				i++
				parsed.ConfigPath = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--config=") {
				parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
			} else {
				remaining = append(remaining, arg)
			}
		}
	}
	return remaining, parsed
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// LoadConfig loads the config named by --config, or the default file. A
// broken default file is reported and defaults are used; a broken explicit
// file is an error.
func LoadConfig(args Args) (*config.Config, error) {
	var cfg *config.Config
	if args.ConfigPath != "" {
		loaded, err := config.LoadFromPath(args.ConfigPath)
		if err != nil {
			return nil, WrapError(err, "load config "+args.ConfigPath)
		}
		cfg = loaded
	} else {
		loaded, err := config.Load()
		if err != nil && !args.Quiet {
			fmt.Fprintf(args.errOut(), "%s %v (using defaults)\n", RenderConditional(WarningStyle, "Warning:"), err)
		}
		cfg = loaded
	}
	if args.NoColor {
		cfg.UI.NoColor = true
	}
	if cfg.UI.NoColor {
		ForceColorsEnabled(false)
	}
	return cfg, nil
}

// NewLogger returns the logger for a CLI run: debug records with --verbose,
// nothing with --quiet, warnings otherwise.
func NewLogger(args Args) *slog.Logger {
	switch {
	case args.Verbose:
		return logging.NewText(args.errOut(), true)
	case args.Quiet:
		return logging.Nop()
	default:
		return logging.NewText(args.errOut(), false)
	}
}

// Run executes every command except the TUI, which main starts itself.
func Run(ctx context.Context, cmd Command, args Args) error {
	switch cmd {
	case CmdGenerate:
		return HandleGenerate(ctx, args)
	case CmdExport:
		return HandleExport(ctx, args)
	case CmdFonts:
		return HandleFonts(args)
	case CmdConfig:
		return HandleConfig(args)
	case CmdCache:
		return HandleCache(ctx, args)
	case CmdUpdate:
		return HandleUpdate(ctx, args)
	case CmdVersion:
		return HandleVersion(args)
	case CmdHelp:
		return HandleHelp(args)
	case CmdUnknown:
		err := NewValidationError("command", args.Name, "unknown command")
		if s := SuggestCommand(args.Name); s != "" {
			err = NewValidationErrorWithExample("command", args.Name, "unknown command", "did you mean 'typemorph "+s+"'?")
		}
		return err
	default:
		return fmt.Errorf("command %d has no handler", cmd)
	}
}

// =============================================================================
// VERSION
// =============================================================================

// HandleVersion prints version information.
func HandleVersion(args Args) error {
	w := args.out()
	return OutputJSON(w, args.JSON, "version", func() (interface{}, error) {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		if !args.JSON {
			fmt.Fprintf(w, "typemorph version %s\n", data.Version)
			fmt.Fprintf(w, "  Git commit: %s\n", data.GitCommit)
			fmt.Fprintf(w, "  Build date: %s\n", data.BuildDate)
			fmt.Fprintf(w, "  Go:         %s\n", data.GoVersion)
		}
		return data, nil
	})
}
