// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package svgpath

import (
	"strconv"
)

// scanner walks path data byte by byte.
type scanner struct {
	s   string
	pos int
}

func (sc *scanner) skipSeparators() {
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *scanner) done() bool {
	sc.skipSeparators()
	return sc.pos >= len(sc.s)
}

// peekNumber reports whether a number starts at the next token.
func (sc *scanner) peekNumber() bool {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return false
	}
	c := sc.s[sc.pos]
	return c == '-' || c == '+' || c == '.' || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (sc *scanner) errorf(msg string) error {
	return &SyntaxError{Offset: sc.pos, Msg: msg}
}

// number reads one number: sign, digits, one dot, optional exponent.
// "1.5.5" is two numbers and "1-2" is two numbers.
func (sc *scanner) number() (float64, error) {
	sc.skipSeparators()
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '-' || sc.s[i] == '+') {
		i++
	}
	digits := 0
	for i < len(sc.s) && isDigit(sc.s[i]) {
		i++
		digits++
	}
	if i < len(sc.s) && sc.s[i] == '.' {
		i++
		for i < len(sc.s) && isDigit(sc.s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, sc.errorf("expected number")
	}
	if i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '-' || sc.s[j] == '+') {
			j++
		}
		if j < len(sc.s) && isDigit(sc.s[j]) {
			for j < len(sc.s) && isDigit(sc.s[j]) {
				j++
			}
			i = j
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:i], 64)
	if err != nil {
		return 0, sc.errorf("invalid number " + strconv.Quote(sc.s[start:i]))
	}
	sc.pos = i
	return v, nil
}

// flag reads an arc flag, which may be written without a separator.
func (sc *scanner) flag() (bool, error) {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return false, sc.errorf("expected flag")
	}
	switch sc.s[sc.pos] {
	case '0':
		sc.pos++
		return false, nil
	case '1':
		sc.pos++
		return true, nil
	}
	return false, sc.errorf("expected flag 0 or 1")
}

func (sc *scanner) numbers(out []float64) error {
	for i := range out {
		v, err := sc.number()
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}

// parser holds the pen state while building a Path.
type parser struct {
	sc      scanner
	path    Path
	cur     Point
	start   Point
	ctrl    Point // last control point of a cubic or quad
	lastOp  byte  // upper-case command of the previous segment
	started bool
}

// Parse converts path data into absolute operations. Empty data yields an
// empty path.
func Parse(d string) (Path, error) {
	p := &parser{sc: scanner{s: d}}
	var cmd byte
	for !p.sc.done() {
		c := p.sc.s[p.sc.pos]
		if isCommand(c) {
			cmd = c
			p.sc.pos++
		} else if cmd == 0 {
			return nil, p.sc.errorf("path must start with a command")
		} else if cmd == 'Z' || cmd == 'z' {
			return nil, p.sc.errorf("unexpected number after close")
		}
		if !p.started && cmd != 'M' && cmd != 'm' {
			return nil, p.sc.errorf("path must start with moveto")
		}
		if err := p.command(cmd); err != nil {
			return nil, err
		}
		// Coordinates following a moveto are implicit linetos.
		if cmd == 'M' {
			cmd = 'L'
		} else if cmd == 'm' {
			cmd = 'l'
		}
	}
	return p.path, nil
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

func (p *parser) abs(rel bool, x, y float64) Point {
	if rel {
		return Point{p.cur.X + x, p.cur.Y + y}
	}
	return Point{x, y}
}

func (p *parser) emit(op Op, pts ...Point) {
	p.path = append(p.path, Segment{Op: op, Pts: pts})
}

// command consumes the arguments of one command occurrence.
func (p *parser) command(cmd byte) error {
	rel := cmd >= 'a'
	upper := cmd
	if rel {
		upper -= 'a' - 'A'
	}

	var a [7]float64
	switch upper {
	case 'M':
		if err := p.sc.numbers(a[:2]); err != nil {
			return err
		}
		pt := p.abs(rel && p.started, a[0], a[1])
		p.emit(OpMoveTo, pt)
		p.cur, p.start = pt, pt
		p.started = true

	case 'L':
		if err := p.sc.numbers(a[:2]); err != nil {
			return err
		}
		p.cur = p.abs(rel, a[0], a[1])
		p.emit(OpLineTo, p.cur)

	case 'H':
		if err := p.sc.numbers(a[:1]); err != nil {
			return err
		}
		x := a[0]
		if rel {
			x += p.cur.X
		}
		p.cur = Point{x, p.cur.Y}
		p.emit(OpLineTo, p.cur)

	case 'V':
		if err := p.sc.numbers(a[:1]); err != nil {
			return err
		}
		y := a[0]
		if rel {
			y += p.cur.Y
		}
		p.cur = Point{p.cur.X, y}
		p.emit(OpLineTo, p.cur)

	case 'C':
		if err := p.sc.numbers(a[:6]); err != nil {
			return err
		}
		c1 := p.abs(rel, a[0], a[1])
		c2 := p.abs(rel, a[2], a[3])
		end := p.abs(rel, a[4], a[5])
		p.emit(OpCubicTo, c1, c2, end)
		p.cur, p.ctrl = end, c2

	case 'S':
		if err := p.sc.numbers(a[:4]); err != nil {
			return err
		}
		c1 := p.cur
		if p.lastOp == 'C' || p.lastOp == 'S' {
			c1 = reflect(p.ctrl, p.cur)
		}
		c2 := p.abs(rel, a[0], a[1])
		end := p.abs(rel, a[2], a[3])
		p.emit(OpCubicTo, c1, c2, end)
		p.cur, p.ctrl = end, c2

	case 'Q':
		if err := p.sc.numbers(a[:4]); err != nil {
			return err
		}
		c := p.abs(rel, a[0], a[1])
		end := p.abs(rel, a[2], a[3])
		p.emit(OpQuadTo, c, end)
		p.cur, p.ctrl = end, c

	case 'T':
		if err := p.sc.numbers(a[:2]); err != nil {
			return err
		}
		c := p.cur
		if p.lastOp == 'Q' || p.lastOp == 'T' {
			c = reflect(p.ctrl, p.cur)
		}
		end := p.abs(rel, a[0], a[1])
		p.emit(OpQuadTo, c, end)
		p.cur, p.ctrl = end, c

	case 'A':
		if err := p.sc.numbers(a[:3]); err != nil {
			return err
		}
		large, err := p.sc.flag()
		if err != nil {
			return err
		}
		sweep, err := p.sc.flag()
		if err != nil {
			return err
		}
		if err := p.sc.numbers(a[3:5]); err != nil {
			return err
		}
		end := p.abs(rel, a[3], a[4])
		for _, cub := range arcToCubics(p.cur, a[0], a[1], a[2], large, sweep, end) {
			p.emit(OpCubicTo, cub[0], cub[1], cub[2])
		}
		p.cur = end

	case 'Z':
		p.emit(OpClose)
		p.cur = p.start
	}

	p.lastOp = upper
	return nil
}

func reflect(ctrl, about Point) Point {
	return Point{2*about.X - ctrl.X, 2*about.Y - ctrl.Y}
}
