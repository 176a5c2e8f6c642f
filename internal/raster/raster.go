// Package raster draws shapes onto pixel buffers using integer grid
// algorithms. Every function bounds-checks before touching a cell.
package raster

import (
	"math"

	"github.com/ha1tch/pixelforge/internal/pixel"
)

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// FloodFill replaces the 4-connected region of (x, y)'s colour with c. It
// returns false, touching nothing, when the seed is out of range or already
// has colour c.
func FloodFill(buf *pixel.Buffer, x, y int, c pixel.Color) bool {
	if !buf.InBounds(x, y) {
		return false
	}
	target := buf.Get(x, y)
	if target == c {
		return false
	}

	stack := []Point{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !buf.InBounds(p.X, p.Y) || buf.Get(p.X, p.Y) != target {
			continue
		}
		buf.Set(p.X, p.Y, c)
		stack = append(stack,
			Point{p.X + 1, p.Y},
			Point{p.X - 1, p.Y},
			Point{p.X, p.Y + 1},
			Point{p.X, p.Y - 1},
		)
	}
	return true
}

// Line calls visit for every cell of the 8-connected Bresenham line from
// (x0, y0) to (x1, y1), endpoints included.
func Line(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// LinePoints returns the cells Line visits.
func LinePoints(x0, y0, x1, y1 int) []Point {
	var pts []Point
	Line(x0, y0, x1, y1, func(x, y int) {
		pts = append(pts, Point{x, y})
	})
	return pts
}

// DrawLine paints the line in c, skipping cells outside buf.
func DrawLine(buf *pixel.Buffer, x0, y0, x1, y1 int, c pixel.Color) {
	Line(x0, y0, x1, y1, func(x, y int) {
		if buf.InBounds(x, y) {
			buf.Set(x, y, c)
		}
	})
}

// Radius is the integer radius for a drag from the centre by (dx, dy):
// floor(sqrt(dx²+dy²)).
func Radius(dx, dy int) int {
	return int(math.Sqrt(float64(dx*dx + dy*dy)))
}

// InDisc reports whether (x, y) lies in the filled disc of radius r.
func InDisc(cx, cy, r, x, y int) bool {
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// DrawDisc fills every cell of buf within radius r of (cx, cy). The centre
// may lie outside the buffer.
func DrawDisc(buf *pixel.Buffer, cx, cy, r int, c pixel.Color) {
	if r < 0 {
		return
	}
	n := buf.Size()
	for y := max(0, cy-r); y <= min(n-1, cy+r); y++ {
		for x := max(0, cx-r); x <= min(n-1, cx+r); x++ {
			if InDisc(cx, cy, r, x, y) {
				buf.Set(x, y, c)
			}
		}
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
