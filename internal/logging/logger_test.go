// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNop_Disabled(t *testing.T) {
	l := Nop()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestSetLogger_NilRestoresNop(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewText(&buf, true))
	Logger().Info("hello")
	assert.Contains(t, buf.String(), "hello")

	SetLogger(nil)
	buf.Reset()
	Logger().Error("dropped")
	assert.Empty(t, buf.String())
}

func TestNewText_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewText(&buf, false)
	l.Info("quiet")
	assert.Empty(t, buf.String())
	l.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestOrDefault(t *testing.T) {
	custom := Nop()
	assert.Same(t, custom, OrDefault(custom))
	assert.Same(t, Logger(), OrDefault(nil))
}
