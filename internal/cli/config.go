// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The config command.
//
// Command: config [subcommand]
// Short:   Show and edit ~/.typemorph/config.toml
//
// Subcommands:
//   show (default)    Print the effective configuration
//   path              Print the config file path
//   get KEY           Print one value
//   set KEY VALUE     Change one value and save
//   keys              List every key
//   init              Write a default config file if none exists
//
// Examples:
//   typemorph config set gemini.api_key AIza...
//   typemorph config set playground.blend_styles "Anton,Handjet"
//   typemorph config get export.format --json

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/typemorph/internal/config"
)

var configSubcommands = []string{"show", "path", "get", "set", "keys", "init"}

// HandleConfig handles "typemorph config".
func HandleConfig(args Args) error {
	p := NewArgParser(args.Raw)
	w := args.out()
	sub := p.Subcommand()
	if sub == "" {
		sub = "show"
	}

	return OutputJSON(w, args.JSON, "config "+sub, func() (interface{}, error) {
		switch sub {
		case "show":
			cfg, err := LoadConfig(args)
			if err != nil {
				return nil, err
			}
			if !args.JSON {
				fmt.Fprintln(w, cfg.String())
				return nil, nil
			}
			safe := cfg.Clone()
			safe.Gemini.APIKey = maskKey(safe.Gemini.APIKey)
			return safe, nil

		case "path":
			path, err := configPath(args)
			if err != nil {
				return nil, err
			}
			if !args.JSON {
				fmt.Fprintln(w, path)
			}
			return ConfigValueData{Key: "path", Value: path}, nil

		case "get":
			key := p.Positional(1)
			if key == "" {
				return nil, ErrMissingArgument("KEY", "typemorph config get gemini.model")
			}
			cfg, err := LoadConfig(args)
			if err != nil {
				return nil, err
			}
			v, err := cfg.Get(key)
			if err != nil {
				return nil, unknownKeyError(key, err)
			}
			if key == "gemini.api_key" {
				v = maskKey(fmt.Sprint(v))
			}
			if !args.JSON {
				fmt.Fprintln(w, v)
			}
			return ConfigValueData{Key: key, Value: v}, nil

		case "set":
			key, value := p.Positional(1), JoinPositionalArgs(p, 2)
			if key == "" || p.PositionalCount() < 3 {
				return nil, ErrMissingArgument("KEY VALUE", "typemorph config set export.format svg")
			}
			path, err := configPath(args)
			if err != nil {
				return nil, err
			}
			cfg, err := config.LoadForEdit(path)
			if err != nil {
				return nil, err
			}
			if err := cfg.Set(key, value); err != nil {
				if _, getErr := cfg.Get(key); getErr != nil {
					return nil, unknownKeyError(key, getErr)
				}
				return nil, NewValidationError(key, value, err.Error())
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			if err := config.SaveToPath(cfg, path); err != nil {
				return nil, NewCommandError("config set", "save", "could not write "+path, err)
			}
			stored, _ := cfg.Get(key)
			if key == "gemini.api_key" {
				stored = maskKey(value)
			}
			if !args.JSON && !args.Quiet {
				fmt.Fprintf(w, "%s %s = %v\n", RenderStatus("ok"), key, stored)
			}
			return ConfigValueData{Key: key, Value: stored}, nil

		case "keys":
			keys := config.GetAllKeys()
			if !args.JSON {
				for _, k := range keys {
					fmt.Fprintln(w, k)
				}
			}
			return keys, nil

		case "init":
			path, err := configPath(args)
			if err != nil {
				return nil, err
			}
			if _, err := os.Stat(path); err == nil {
				if !args.JSON {
					fmt.Fprintf(w, "%s %s already exists\n", RenderStatus("warn"), path)
				}
				return ConfigValueData{Key: "path", Value: path}, nil
			}
			if err := config.SaveToPath(config.Default(), path); err != nil {
				return nil, NewCommandError("config init", "save", "could not write "+path, err)
			}
			if !args.JSON {
				fmt.Fprintf(w, "%s Wrote %s\n", RenderStatus("ok"), path)
			}
			return ConfigValueData{Key: "path", Value: path}, nil
		}
		return nil, ErrUnknownSubcommand("config", sub, configSubcommands)
	})
}

// configPath is --config when given, otherwise the file Load reads.
func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	path, err := config.ActivePath()
	if err != nil {
		return "", NewCommandError("config", "locate", "no home directory", err)
	}
	return path, nil
}

func unknownKeyError(key string, err error) error {
	example := "typemorph config keys"
	if hint := closest(key, config.GetAllKeys()); hint != "" {
		example = "typemorph config get " + hint
	}
	return NewValidationErrorWithExample("key", key, err.Error(), example)
}
