// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playground

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/typemorph/internal/fontmap"
	"github.com/jeranaias/typemorph/internal/glyph"
	"github.com/jeranaias/typemorph/internal/morph"
	"github.com/jeranaias/typemorph/internal/storage"
)

// stubRequester returns a glyph for every requested char.
type stubRequester struct {
	mu      sync.Mutex
	calls   [][]string
	styles  [][]string
	status  fontmap.Status
	entered chan struct{}
	block   chan struct{}
}

func (s *stubRequester) RequestChars(_ context.Context, styles, chars []string) fontmap.Result {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.calls = append(s.calls, chars)
	s.styles = append(s.styles, styles)
	s.mu.Unlock()

	if s.status != fontmap.StatusOK {
		return fontmap.Result{Status: s.status, FontMap: glyph.FontMap{}, Err: errors.New("boom")}
	}
	fm := glyph.FontMap{}
	for _, c := range chars {
		fm[c] = glyph.Descriptor{Path: "M0 0 L" + c, Width: 60}
	}
	return fontmap.Result{Status: fontmap.StatusOK, FontMap: fm, Chars: chars}
}

func (s *stubRequester) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestSession(req Requester, cache Cache) *Session {
	return NewSession(Options{
		Requester:     req,
		Cache:         cache,
		DefaultStyles: []string{"Inter", "Anton"},
		Rand:          morph.NewSeededRand(1),
		Now:           func() time.Time { return time.UnixMilli(1700000000000) },
	})
}

func TestNewSession_Defaults(t *testing.T) {
	s := newTestSession(nil, nil)
	assert.Equal(t, "Type Morph", s.Text())
	assert.Equal(t, 120, s.FontSize())
	assert.Equal(t, 0.0, s.Kerning())
	assert.Empty(t, s.FontMap())
	assert.Equal(t, -1, s.Hovered())
}

func TestSetFontSize_Clamps(t *testing.T) {
	s := newTestSession(nil, nil)
	assert.Equal(t, 20, s.SetFontSize(5))
	assert.Equal(t, 300, s.SetFontSize(1000))
	assert.Equal(t, 144, s.SetFontSize(144))
}

func TestSetKerning_ClampsAndRounds(t *testing.T) {
	s := newTestSession(nil, nil)
	assert.Equal(t, -0.1, s.SetKerning(-5))
	assert.Equal(t, 1.0, s.SetKerning(3))
	assert.Equal(t, 0.3, s.SetKerning(0.1+0.2))
	assert.Equal(t, 0.12, s.SetKerning(0.123))
	assert.Equal(t, 0.0, s.SetKerning(-0.001))
}

func TestReset(t *testing.T) {
	s := newTestSession(&stubRequester{}, nil)
	s.SetText("hello")
	s.SetFontSize(200)
	s.SetKerning(0.5)
	s.Hover(1)
	s.Generate(context.Background(), nil)
	require.NotEmpty(t, s.FontMap())

	s.Reset()

	assert.Equal(t, DefaultText, s.Text())
	assert.Equal(t, DefaultFontSize, s.FontSize())
	assert.Equal(t, DefaultKerning, s.Kerning())
	assert.Empty(t, s.FontMap())
	assert.Equal(t, 1, s.ResetKey())
	for _, l := range s.Letters() {
		assert.Equal(t, morph.DefaultStyle, l.Style)
	}
}

func TestApply_DropsStaleUpdates(t *testing.T) {
	s := newTestSession(nil, nil)
	key := s.ResetKey()
	st := morph.Style{Font: "Anton", Color: "#FF6600", Weight: 900}

	assert.True(t, s.Apply(key, morph.Update{Index: 0, Style: st}))
	assert.Equal(t, st, s.Letters()[0].Style)

	s.Reset()
	assert.False(t, s.Apply(key, morph.Update{Index: 0, Style: st}))
	assert.Equal(t, morph.DefaultStyle, s.Letters()[0].Style)
}

func TestBlendFonts(t *testing.T) {
	s := newTestSession(nil, nil)
	assert.Equal(t, []string{"Inter", "Anton"}, s.BlendFonts())

	s.Apply(s.ResetKey(), morph.Update{Index: 0, Style: morph.Style{Font: "Bonbon", Color: "#000000", Weight: 100}})
	assert.Equal(t, []string{"Bonbon", "Inter"}, s.BlendFonts())
}

func TestShuffle(t *testing.T) {
	s := newTestSession(nil, nil)
	s.Shuffle()
	for _, l := range s.Letters() {
		if l.IsSpace() {
			assert.Equal(t, morph.DefaultStyle, l.Style)
			continue
		}
		assert.Contains(t, morph.Fonts, l.Style.Font)
	}
}

// =============================================================================
// GENERATE
// =============================================================================

func TestGenerate_MergesIntoSession(t *testing.T) {
	req := &stubRequester{}
	s := newTestSession(req, nil)
	s.SetText("Hi!")

	rep := s.Generate(context.Background(), []string{"Inter", "Anton"})

	assert.Equal(t, fontmap.StatusOK, rep.Status)
	assert.Equal(t, 3, rep.Generated)
	assert.False(t, rep.Fallback())
	assert.Equal(t, []string{"!", "H", "i"}, s.FontMap().Keys())
	assert.Equal(t, [][]string{{"H", "i", "!"}}, req.calls)
}

func TestGenerate_RegenerateOverwritesPerChar(t *testing.T) {
	s := newTestSession(&stubRequester{}, nil)
	s.SetFontMap(glyph.FontMap{"H": {Path: "M9 9", Width: 1}, "z": {Path: "M5 5", Width: 2}})
	s.SetText("H")

	s.Generate(context.Background(), nil)

	fm := s.FontMap()
	assert.Equal(t, "M0 0 LH", fm["H"].Path)
	assert.Equal(t, "M5 5", fm["z"].Path)
}

func TestGenerate_UsesBlendFontsWhenNoStylesGiven(t *testing.T) {
	req := &stubRequester{}
	s := newTestSession(req, nil)
	s.Generate(context.Background(), nil)
	require.Len(t, req.styles, 1)
	assert.Equal(t, []string{"Inter", "Anton"}, req.styles[0])
}

func TestGenerate_WhitespaceTextMakesNoRequest(t *testing.T) {
	req := &stubRequester{}
	s := newTestSession(req, nil)
	s.SetText("   ")

	rep := s.Generate(context.Background(), nil)

	assert.Equal(t, fontmap.StatusNoCharacters, rep.Status)
	assert.True(t, rep.Fallback())
	assert.Zero(t, req.callCount())
}

func TestGenerate_FailureLeavesMapUntouched(t *testing.T) {
	req := &stubRequester{status: fontmap.StatusTransportError}
	s := newTestSession(req, nil)
	s.SetFontMap(glyph.FontMap{"q": {Path: "M0 0", Width: 1}})

	rep := s.Generate(context.Background(), nil)

	assert.Equal(t, fontmap.StatusTransportError, rep.Status)
	assert.Error(t, rep.Err)
	assert.True(t, rep.Fallback())
	assert.Equal(t, []string{"q"}, s.FontMap().Keys())
}

func TestGenerate_NoRequesterIsNoCredential(t *testing.T) {
	s := newTestSession(nil, nil)
	rep := s.Generate(context.Background(), nil)
	assert.Equal(t, fontmap.StatusNoCredential, rep.Status)
}

func TestGenerate_CacheReuse(t *testing.T) {
	cache, err := storage.Open(&storage.Config{DatabasePath: filepath.Join(t.TempDir(), "glyphs.db")})
	require.NoError(t, err)
	defer cache.Close()

	req := &stubRequester{}
	s := newTestSession(req, cache)
	s.SetText("Hi")

	first := s.Generate(context.Background(), []string{"Inter", "Anton"})
	assert.Equal(t, 2, first.Generated)
	assert.Equal(t, 0, first.Cached)
	require.Equal(t, 1, req.callCount())

	// Same style set in another order, same characters: served from cache.
	s2 := newTestSession(req, cache)
	s2.SetText("iH")
	second := s2.Generate(context.Background(), []string{"anton", "INTER"})
	assert.Equal(t, fontmap.StatusOK, second.Status)
	assert.Equal(t, 2, second.Cached)
	assert.Equal(t, 0, second.Generated)
	assert.Equal(t, 1, req.callCount())
	assert.Equal(t, 2, s2.FontMap().Len())

	// Only the new character is requested.
	s2.SetText("Hi!")
	third := s2.Generate(context.Background(), []string{"Inter", "Anton"})
	assert.Equal(t, 2, third.Cached)
	assert.Equal(t, 1, third.Generated)
	require.Equal(t, 2, req.callCount())
	assert.Equal(t, []string{"!"}, req.calls[1])
}

func TestGenerate_ResetDuringRequestDiscards(t *testing.T) {
	req := &stubRequester{entered: make(chan struct{}), block: make(chan struct{})}
	s := newTestSession(req, nil)

	done := make(chan *GenerateReport)
	go func() { done <- s.Generate(context.Background(), nil) }()

	<-req.entered
	s.Reset()
	close(req.block)

	rep := <-done
	assert.True(t, rep.Discarded)
	assert.Empty(t, s.FontMap())
}

// =============================================================================
// SNAPSHOT
// =============================================================================

func TestSnapshot_IsIndependent(t *testing.T) {
	s := newTestSession(nil, nil)
	s.SetFontMap(glyph.FontMap{"T": {Path: "M0 0", Width: 50}})
	snap := s.Snapshot()

	s.SetText("changed")
	s.SetFontMap(glyph.FontMap{})

	assert.Equal(t, "Type Morph", snap.Text)
	assert.Len(t, snap.Letters, 10)
	assert.Equal(t, 1, snap.FontMap.Len())
	assert.Equal(t, int64(1700000000000), snap.Timestamp())
}

func TestSnapshot_Advance(t *testing.T) {
	snap := &Snapshot{
		FontSize: 100,
		Kerning:  0.1,
		FontMap:  glyph.FontMap{"A": {Path: "M0 0", Width: 50}},
		Letters: []morph.Letter{
			{Char: "A", Index: 0},
			{Char: " ", Index: 1},
			{Char: "B", Index: 2},
		},
	}
	assert.InDelta(t, 60, snap.Advance(snap.Letters[0]), 1e-9)
	assert.InDelta(t, 40, snap.Advance(snap.Letters[1]), 1e-9)
	assert.InDelta(t, 80, snap.Advance(snap.Letters[2]), 1e-9)
	assert.InDelta(t, 180, snap.LineWidth(), 1e-9)
}
