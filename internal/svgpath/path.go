// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package svgpath parses SVG path data into absolute drawing operations.
//
// Every command of the path grammar is supported (M L H V C S Q T A Z in both
// absolute and relative form, with implicit repeats). The result is reduced
// to move, line, quadratic, cubic and close operations; arcs become cubics.
// A *gg.Context satisfies Sink, so a parsed path can be replayed straight
// into the rasterizer.
package svgpath

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sink receives absolute drawing operations.
type Sink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticTo(cx, cy, x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
}

// Op is a normalized drawing operation.
type Op uint8

const (
	OpMoveTo Op = iota
	OpLineTo
	OpQuadTo
	OpCubicTo
	OpClose
)

func (o Op) String() string {
	switch o {
	case OpMoveTo:
		return "M"
	case OpLineTo:
		return "L"
	case OpQuadTo:
		return "Q"
	case OpCubicTo:
		return "C"
	case OpClose:
		return "Z"
	}
	return "?"
}

// Point is an absolute coordinate.
type Point struct {
	X, Y float64
}

// Segment is one operation with its points. Pts holds 1 (M, L), 2 (Q) or
// 3 (C) points; Z has none.
type Segment struct {
	Op  Op
	Pts []Point
}

// End returns the last point of the segment.
func (s Segment) End() (Point, bool) {
	if len(s.Pts) == 0 {
		return Point{}, false
	}
	return s.Pts[len(s.Pts)-1], true
}

// Path is a parsed path in absolute operations.
type Path []Segment

// SyntaxError reports malformed path data.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("svg path: %s at offset %d", e.Msg, e.Offset)
}

// Draw parses d and replays it into s.
func Draw(d string, s Sink) error {
	p, err := Parse(d)
	if err != nil {
		return err
	}
	p.Replay(s)
	return nil
}

// Replay sends every segment to s.
func (p Path) Replay(s Sink) {
	for _, seg := range p {
		switch seg.Op {
		case OpMoveTo:
			s.MoveTo(seg.Pts[0].X, seg.Pts[0].Y)
		case OpLineTo:
			s.LineTo(seg.Pts[0].X, seg.Pts[0].Y)
		case OpQuadTo:
			s.QuadraticTo(seg.Pts[0].X, seg.Pts[0].Y, seg.Pts[1].X, seg.Pts[1].Y)
		case OpCubicTo:
			s.CubicTo(seg.Pts[0].X, seg.Pts[0].Y, seg.Pts[1].X, seg.Pts[1].Y, seg.Pts[2].X, seg.Pts[2].Y)
		case OpClose:
			s.ClosePath()
		}
	}
}

// String formats the path as absolute path data.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(seg.Op.String())
		for _, pt := range seg.Pts {
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(pt.X))
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(pt.Y))
		}
	}
	return sb.String()
}

// Rect is an axis-aligned box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Bounds returns the box around every point of the path, control points
// included, so it may be slightly larger than the drawn shape. The second
// result is false for a path with no points.
func (p Path) Bounds() (Rect, bool) {
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	found := false
	for _, seg := range p {
		for _, pt := range seg.Pts {
			found = true
			r.MinX = math.Min(r.MinX, pt.X)
			r.MinY = math.Min(r.MinY, pt.Y)
			r.MaxX = math.Max(r.MaxX, pt.X)
			r.MaxY = math.Max(r.MaxY, pt.Y)
		}
	}
	if !found {
		return Rect{}, false
	}
	return r, true
}

func formatFloat(f float64) string {
	// Round away float noise from arc conversion.
	f = math.Round(f*1e6) / 1e6
	if f == 0 {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
