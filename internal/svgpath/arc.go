// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package svgpath

import "math"

// arcToCubics converts an elliptical arc from p0 to p1 into cubic Bézier
// segments of at most 90 degrees each, following the endpoint-to-center
// conversion of SVG 1.1 appendix F.6. A zero radius degrades to a line.
func arcToCubics(p0 Point, rx, ry, xRotDeg float64, large, sweep bool, p1 Point) [][3]Point {
	if p0 == p1 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return [][3]Point{{p0, p1, p1}}
	}

	phi := xRotDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	dx := (p0.X - p1.X) / 2
	dy := (p0.Y - p1.Y) / 2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	// Scale up radii that cannot span the endpoints.
	if lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	rx2, ry2 := rx*rx, ry*ry
	num := rx2*ry2 - rx2*y1p*y1p - ry2*x1p*x1p
	den := rx2*y1p*y1p + ry2*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (p0.X+p1.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p0.Y+p1.Y)/2

	theta1 := angle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := angle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	point := func(t float64) (Point, Point) {
		sinT, cosT := math.Sincos(t)
		// Position and derivative on the rotated ellipse.
		x := cx + rx*cosT*cosPhi - ry*sinT*sinPhi
		y := cy + rx*cosT*sinPhi + ry*sinT*cosPhi
		ddx := -rx*sinT*cosPhi - ry*cosT*sinPhi
		ddy := -rx*sinT*sinPhi + ry*cosT*cosPhi
		return Point{x, y}, Point{ddx, ddy}
	}

	out := make([][3]Point, 0, n)
	t := theta1
	_, d0 := point(t)
	start := p0
	for i := 0; i < n; i++ {
		t2 := t + step
		end, d1 := point(t2)
		if i == n-1 {
			end = p1
		}
		c1 := Point{start.X + k*d0.X, start.Y + k*d0.Y}
		c2 := Point{end.X - k*d1.X, end.Y - k*d1.Y}
		out = append(out, [3]Point{c1, c2, end})
		start, d0, t = end, d1, t2
	}
	return out
}

func angle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
