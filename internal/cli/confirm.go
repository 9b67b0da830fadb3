// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for destructive commands.
//
// One rule for every command:
//   1. --yes proceeds without prompting
//   2. --json requires --yes
//   3. A non-terminal stdin requires --yes, unless Args.Stdin was supplied
//   4. Otherwise ask, defaulting to no

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfirmed is returned when the user declines.
var ErrNotConfirmed = errors.New("cancelled")

// RequireConfirmation asks before a destructive action. details are printed
// above the prompt in order.
func RequireConfirmation(args Args, yes bool, action string, details ...string) error {
	if yes {
		return nil
	}
	if args.JSON {
		return NewValidationErrorWithExample("yes", "", "confirmation required in JSON mode", "--yes")
	}
	if args.Stdin == nil && !IsTTY() {
		return &TTYRequiredError{Operation: "confirm " + action}
	}

	w := args.errOut()
	for _, d := range details {
		fmt.Fprintln(w, "  "+d)
	}
	fmt.Fprintf(w, "Are you sure you want to %s? [y/N]: ", action)

	line, err := bufio.NewReader(args.in()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	}
	return ErrNotConfirmed
}
