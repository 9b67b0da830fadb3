// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package svgpath

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Sink that logs calls as text.
type recorder struct {
	calls []string
}

func (r *recorder) MoveTo(x, y float64) { r.calls = append(r.calls, fmt.Sprintf("M %g %g", x, y)) }
func (r *recorder) LineTo(x, y float64) { r.calls = append(r.calls, fmt.Sprintf("L %g %g", x, y)) }
func (r *recorder) QuadraticTo(cx, cy, x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("Q %g %g %g %g", cx, cy, x, y))
}
func (r *recorder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("C %g %g %g %g %g %g", c1x, c1y, c2x, c2y, x, y))
}
func (r *recorder) ClosePath() { r.calls = append(r.calls, "Z") }

func mustParse(t *testing.T, d string) Path {
	t.Helper()
	p, err := Parse(d)
	require.NoError(t, err, d)
	return p
}

// =============================================================================
// BASIC COMMANDS
// =============================================================================

func TestParse_Lines(t *testing.T) {
	p := mustParse(t, "M10 80 L50 20 L90 80 Z")
	assert.Equal(t, "M 10 80 L 50 20 L 90 80 Z", p.String())
}

func TestParse_ImplicitLinetoAfterMoveto(t *testing.T) {
	assert.Equal(t, "M 0 0 L 10 10 L 20 0", mustParse(t, "M0 0 10 10 20 0").String())
	assert.Equal(t, "M 5 5 L 15 15 L 25 5", mustParse(t, "m5 5 10 10 10-10").String())
}

func TestParse_HorizontalVertical(t *testing.T) {
	assert.Equal(t, "M 10 10 L 50 10 L 50 60 L 40 60 L 40 50", mustParse(t, "M10 10 H50 V60 h-10 v-10").String())
}

func TestParse_CompactNumbers(t *testing.T) {
	p := mustParse(t, "M.5.5L-1-1,1e1 2E-1")
	assert.Equal(t, "M 0.5 0.5 L -1 -1 L 10 0.2", p.String())
}

func TestParse_RelativeMatchesAbsolute(t *testing.T) {
	tests := []struct {
		abs, rel string
	}{
		{"M10 10 L20 20 L30 10 Z", "m10 10 l10 10 l10-10 z"},
		{"M0 0 C10 0 20 10 20 20", "M0 0 c10 0 20 10 20 20"},
		{"M0 0 Q10 10 20 0 T40 0", "M0 0 q10 10 20 0 t20 0"},
		{"M0 0 C0 10 10 10 10 0 S20 -10 20 0", "M0 0 c0 10 10 10 10 0 s10-10 10 0"},
		{"M10 10 A5 5 0 0 1 20 10", "M10 10 a5 5 0 0 1 10 0"},
		{"M0 0 H10 V10 H0 Z M20 20 L30 30", "m0 0 h10 v10 h-10 z m20 20 l10 10"},
	}
	for _, tt := range tests {
		abs := mustParse(t, tt.abs)
		rel := mustParse(t, tt.rel)
		assert.Equal(t, abs.String(), rel.String(), "%s vs %s", tt.abs, tt.rel)
	}
}

func TestParse_SmoothCubicReflects(t *testing.T) {
	p := mustParse(t, "M0 0 C0 10 10 10 10 0 S20 -10 20 0")
	require.Len(t, p, 3)
	assert.Equal(t, []Point{{10, -10}, {20, -10}, {20, 0}}, p[2].Pts)
}

func TestParse_SmoothWithoutPredecessorUsesCurrentPoint(t *testing.T) {
	p := mustParse(t, "M5 5 S10 10 20 5")
	assert.Equal(t, Point{5, 5}, p[1].Pts[0])

	p = mustParse(t, "M5 5 L10 10 T20 5")
	assert.Equal(t, Point{10, 10}, p[2].Pts[0])
}

func TestParse_SmoothQuadChain(t *testing.T) {
	p := mustParse(t, "M0 0 Q10 10 20 0 T40 0 T60 0")
	require.Len(t, p, 4)
	assert.Equal(t, Point{30, -10}, p[2].Pts[0])
	assert.Equal(t, Point{50, 10}, p[3].Pts[0])
}

func TestParse_CloseReturnsToSubpathStart(t *testing.T) {
	p := mustParse(t, "M10 10 L20 10 Z l5 5")
	assert.Equal(t, "M 10 10 L 20 10 Z L 15 15", p.String())
}

// =============================================================================
// ARCS
// =============================================================================

func TestParse_ArcBecomesCubicsOnCircle(t *testing.T) {
	p := mustParse(t, "M0 0 A10 10 0 0 1 20 0")
	require.Greater(t, len(p), 1)

	last, _ := p[len(p)-1].End()
	assert.Equal(t, Point{20, 0}, last)

	prev := Point{0, 0}
	for _, seg := range p[1:] {
		require.Equal(t, OpCubicTo, seg.Op)
		mid := cubicAt(prev, seg.Pts[0], seg.Pts[1], seg.Pts[2], 0.5)
		r := math.Hypot(mid.X-10, mid.Y)
		assert.InDelta(t, 10, r, 0.01)
		prev = seg.Pts[2]
	}
}

func TestParse_ArcCompactFlags(t *testing.T) {
	a := mustParse(t, "M0 0 A10 10 0 1 0 20 0")
	b := mustParse(t, "M0 0 A10 10 0 1020 0")
	assert.Equal(t, a.String(), b.String())
}

func TestParse_ArcSweepChoosesSide(t *testing.T) {
	// y grows downward, so a positive sweep passes over the top.
	up := mustParse(t, "M0 0 A10 10 0 0 1 20 0")
	down := mustParse(t, "M0 0 A10 10 0 0 0 20 0")
	ub, _ := up.Bounds()
	db, _ := down.Bounds()
	assert.Less(t, ub.MinY, -5.0)
	assert.Greater(t, db.MaxY, 5.0)
}

func TestParse_ArcZeroRadiusIsLine(t *testing.T) {
	p := mustParse(t, "M0 0 A0 5 0 0 1 10 10")
	require.Len(t, p, 2)
	end, _ := p[1].End()
	assert.Equal(t, Point{10, 10}, end)
}

func TestParse_ArcSamePointIsDropped(t *testing.T) {
	p := mustParse(t, "M5 5 A10 10 0 0 1 5 5")
	assert.Len(t, p, 1)
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return Point{
		a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// =============================================================================
// ERRORS AND REPLAY
// =============================================================================

func TestParse_Errors(t *testing.T) {
	for _, d := range []string{
		"10 10",
		"L10 10",
		"M10",
		"M10 10 L",
		"M0 0 A10 10 0 2 0 5 5",
		"M0 0 Z 5 5",
		"M0 0 X5 5",
	} {
		_, err := Parse(d)
		var se *SyntaxError
		assert.ErrorAs(t, err, &se, d)
	}
}

func TestParse_Empty(t *testing.T) {
	p, err := Parse("   ")
	require.NoError(t, err)
	assert.Empty(t, p)
	_, ok := p.Bounds()
	assert.False(t, ok)
}

func TestDraw_ReplaysIntoSink(t *testing.T) {
	var rec recorder
	require.NoError(t, Draw("M1 2 L3 4 Q5 6 7 8 C1 1 2 2 3 3 Z", &rec))
	assert.Equal(t, []string{
		"M 1 2",
		"L 3 4",
		"Q 5 6 7 8",
		"C 1 1 2 2 3 3",
		"Z",
	}, rec.calls)
}

func TestDraw_ErrorLeavesSinkUntouched(t *testing.T) {
	var rec recorder
	err := Draw("M1 2 L", &rec)
	require.Error(t, err)
	assert.Empty(t, rec.calls)
	assert.True(t, strings.Contains(err.Error(), "offset"))
}

func TestBounds(t *testing.T) {
	r, ok := mustParse(t, "M10 80 L50 20 L90 80").Bounds()
	require.True(t, ok)
	assert.Equal(t, Rect{MinX: 10, MinY: 20, MaxX: 90, MaxY: 80}, r)
	assert.Equal(t, 80.0, r.Width())
	assert.Equal(t, 60.0, r.Height())
}
