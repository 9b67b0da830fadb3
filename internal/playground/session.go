// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package playground holds the state of one styling session: the text, its
// size and letter spacing, the per-letter styles and the generated font map.
// The TUI and the CLI drive a Session; exporters read a Snapshot of it.
package playground

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jeranaias/typemorph/internal/fontmap"
	"github.com/jeranaias/typemorph/internal/glyph"
	"github.com/jeranaias/typemorph/internal/logging"
	"github.com/jeranaias/typemorph/internal/morph"
	"github.com/jeranaias/typemorph/internal/storage"
)

// Session defaults and limits.
const (
	DefaultText     = "Type Morph"
	DefaultFontSize = 120
	MinFontSize     = 20
	MaxFontSize     = 300
	DefaultKerning  = 0.0
	MinKerning      = -0.1
	MaxKerning      = 1.0
	KerningStep     = 0.01
)

// Requester produces glyphs for characters. *fontmap.Requester satisfies it.
type Requester interface {
	RequestChars(ctx context.Context, styleNames []string, chars []string) fontmap.Result
}

// Cache persists glyphs between sessions. *storage.GlyphCache satisfies it.
type Cache interface {
	Lookup(ctx context.Context, styleKey string, chars []string) (glyph.FontMap, error)
	Store(ctx context.Context, styleKey string, fm glyph.FontMap) (string, error)
}

// Options configures a Session.
type Options struct {
	Requester Requester

	// Cache is optional.
	Cache Cache

	// DefaultStyles are blended when no letter has been morphed yet.
	DefaultStyles []string

	Rand   *rand.Rand
	Logger *slog.Logger
	Now    func() time.Time
}

// Session is safe for concurrent use. Generate releases the lock while the
// request is in flight, so hover and edits continue meanwhile.
type Session struct {
	mu       sync.Mutex
	fontSize int
	kerning  float64
	fontMap  glyph.FontMap
	line     *morph.Line
	resetKey int

	req           Requester
	cache         Cache
	defaultStyles []string
	rng           *rand.Rand
	logger        *slog.Logger
	now           func() time.Time
}

// NewSession creates a session with the default text, size and kerning.
func NewSession(opts Options) *Session {
	rng := opts.Rand
	if rng == nil {
		rng = morph.NewRand()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	styles := opts.DefaultStyles
	if len(styles) == 0 {
		styles = []string{morph.DefaultStyle.Font}
	}
	return &Session{
		fontSize:      DefaultFontSize,
		kerning:       DefaultKerning,
		fontMap:       glyph.FontMap{},
		line:          morph.NewLine(DefaultText),
		req:           opts.Requester,
		cache:         opts.Cache,
		defaultStyles: append([]string(nil), styles...),
		rng:           rng,
		logger:        opts.Logger,
		now:           now,
	}
}

func (s *Session) log() *slog.Logger {
	return logging.OrDefault(s.logger)
}

// =============================================================================
// TEXT, SIZE, KERNING
// =============================================================================

// SetText replaces the text. Letters whose position and character did not
// change keep their style.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.line.SetText(text)
}

// Text returns the current text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line.Text()
}

// SetFontSize sets the size in pixels, clamped to [MinFontSize, MaxFontSize],
// and returns the value applied.
func (s *Session) SetFontSize(px int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fontSize = min(max(px, MinFontSize), MaxFontSize)
	return s.fontSize
}

// FontSize returns the size in pixels.
func (s *Session) FontSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fontSize
}

// SetKerning sets the letter spacing in em, clamped to [MinKerning,
// MaxKerning] and rounded to KerningStep, and returns the value applied.
func (s *Session) SetKerning(em float64) float64 {
	if math.IsNaN(em) {
		em = DefaultKerning
	}
	em = math.Max(MinKerning, math.Min(MaxKerning, em))
	// Snap to hundredths; the assignment below also turns -0 into 0.
	em = math.Round(em*100) / 100
	if em == 0 {
		em = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.kerning = em
	return s.kerning
}

// Kerning returns the letter spacing in em.
func (s *Session) Kerning() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kerning
}

// ResetKey changes every time Reset is called.
func (s *Session) ResetKey() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetKey
}

// Reset restores the default text, size and kerning, returns every letter to
// the default style and drops the font map.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fontSize = DefaultFontSize
	s.kerning = DefaultKerning
	s.fontMap = glyph.FontMap{}
	s.resetKey++
	s.line.Reset(DefaultText)
}

// =============================================================================
// LETTERS
// =============================================================================

// Letters returns a copy of the letter row.
func (s *Session) Letters() []morph.Letter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line.Letters()
}

// Hover moves the hover to letter i and morphs it once.
func (s *Session) Hover(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line.Hover(i, s.rng)
}

// Hovered returns the hovered letter index or -1.
func (s *Session) Hovered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line.Hovered()
}

// Leave clears the hover.
func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.line.Leave()
}

// Apply sets the style of letter i if resetKey is still current. Updates
// from a cycler started before a Reset are dropped.
func (s *Session) Apply(resetKey int, u morph.Update) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resetKey != s.resetKey {
		return false
	}
	return s.line.Apply(u.Index, u.Style)
}

// Shuffle gives every letter a random style.
func (s *Session) Shuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, st := range morph.Assign(s.line.Text(), s.rng) {
		s.line.Apply(i, st)
	}
}

// BlendFonts returns the style names to blend: the distinct fonts currently
// shown, or the configured defaults when every letter is still at the
// default style.
func (s *Session) BlendFonts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blendFontsLocked()
}

func (s *Session) blendFontsLocked() []string {
	morphed := false
	for _, l := range s.line.Letters() {
		if !l.IsSpace() && !l.Style.IsDefault() {
			morphed = true
			break
		}
	}
	if !morphed {
		return append([]string(nil), s.defaultStyles...)
	}
	return s.line.UsedFonts()
}

// =============================================================================
// FONT MAP
// =============================================================================

// FontMap returns a copy of the generated glyphs.
func (s *Session) FontMap() glyph.FontMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fontMap.Clone()
}

// SetFontMap replaces the generated glyphs, for example with a map loaded
// from disk.
func (s *Session) SetFontMap(fm glyph.FontMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fontMap = fm.Clone()
}

// GenerateReport describes one Generate call.
type GenerateReport struct {
	Styles    []string        `json:"styles"`
	Chars     []string        `json:"chars"`
	Cached    int             `json:"cached"`
	Generated int             `json:"generated"`
	Rejected  int             `json:"rejected"`
	Status    fontmap.Status  `json:"status"`
	Discarded bool            `json:"discarded,omitempty"`
	Err       error           `json:"-"`
	Duration  time.Duration   `json:"duration"`
	FontMap   glyph.FontMap   `json:"-"`
	Missing   []string        `json:"missing,omitempty"`
	Result    *fontmap.Result `json:"-"`
}

// Fallback reports whether the caller should use local random styling
// because nothing usable came back.
func (r *GenerateReport) Fallback() bool {
	return r.Cached+r.Generated == 0
}

// Generate fetches glyphs for the unique characters of the current text,
// blended from styleNames (BlendFonts when empty). Glyphs cached for the
// same style set are reused and only the rest are requested. The result is
// merged into the session font map, newer glyphs replacing older ones. If
// the session is reset while the request is in flight the result is cached
// but not merged.
func (s *Session) Generate(ctx context.Context, styleNames []string) *GenerateReport {
	start := s.now()

	s.mu.Lock()
	text := s.line.Text()
	key := s.resetKey
	if len(styleNames) == 0 {
		styleNames = s.blendFontsLocked()
	}
	s.mu.Unlock()

	chars := fontmap.UniqueChars(text)
	rep := &GenerateReport{Styles: styleNames, Chars: chars, FontMap: glyph.FontMap{}}
	defer func() { rep.Duration = s.now().Sub(start) }()

	if len(chars) == 0 {
		rep.Status = fontmap.StatusNoCharacters
		return rep
	}

	styleKey := storage.StyleKey(styleNames)
	cached := glyph.FontMap{}
	if s.cache != nil && styleKey != "" {
		hit, err := s.cache.Lookup(ctx, styleKey, chars)
		if err != nil {
			s.log().Warn("glyph cache lookup failed", "error", err)
		} else {
			cached = hit
		}
	}
	rep.Cached = cached.Len()
	missing := cached.Missing(chars)

	fresh := glyph.FontMap{}
	rep.Status = fontmap.StatusOK
	if len(missing) > 0 {
		if s.req == nil {
			rep.Status = fontmap.StatusNoCredential
		} else {
			res := s.req.RequestChars(ctx, styleNames, missing)
			rep.Result = &res
			rep.Status = res.Status
			rep.Err = res.Err
			rep.Rejected = len(res.Rejected)
			fresh = res.FontMap
		}
		if rep.Status == fontmap.StatusOK && s.cache != nil && styleKey != "" {
			if _, err := s.cache.Store(ctx, styleKey, fresh); err != nil {
				s.log().Warn("glyph cache store failed", "error", err)
			}
		}
	}
	rep.Generated = fresh.Len()

	got := glyph.Merge(cached, fresh)
	rep.FontMap = got
	rep.Missing = got.Missing(chars)
	if rep.Cached > 0 && rep.Status != fontmap.StatusOK {
		// Cached glyphs are still usable; report the partial outcome.
		s.log().Info("using cached glyphs only", "status", rep.Status, "cached", rep.Cached)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if key != s.resetKey {
		rep.Discarded = true
		return rep
	}
	s.fontMap = glyph.Merge(s.fontMap, got)
	return rep
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot copies the session for export.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Snapshot{
		Text:     s.line.Text(),
		FontSize: s.fontSize,
		Kerning:  s.kerning,
		Letters:  s.line.Letters(),
		FontMap:  s.fontMap.Clone(),
		ResetKey: s.resetKey,
		TakenAt:  s.now(),
	}
}
