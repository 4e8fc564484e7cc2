// Package raster implements integer Bresenham line rasterization for all
// eight octants plus a flat cell buffer that lines can be traced into.
package raster

import (
	"image"
	"image/color"
)

// Point is an integer pixel coordinate.
type Point = image.Point

// Pt is shorthand for image.Pt.
func Pt(x, y int) Point { return image.Pt(x, y) }

// Plotter receives pixels from Draw.
type Plotter interface {
	SetPixel(x, y int, c color.RGBA)
}

// Walk calls fn for every pixel from p1 to p2 inclusive.
//
// The stepping uses independent sign terms and a single error accumulator,
// so both endpoints are always emitted and consecutive points are
// 8-connected.
func Walk(p1, p2 Point, fn func(Point)) {
	x1, y1 := p1.X, p1.Y
	x2, y2 := p2.X, p2.Y

	dx := absInt(x2 - x1)
	sx := -1
	if x1 < x2 {
		sx = 1
	}
	dy := -absInt(y2 - y1)
	sy := -1
	if y1 < y2 {
		sy = 1
	}
	err := dx + dy
	for {
		fn(Point{X: x1, Y: y1})
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			if x1 == x2 {
				return
			}
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			if y1 == y2 {
				return
			}
			err += dx
			y1 += sy
		}
	}
}

// Line returns the pixels from p1 to p2 inclusive.
func Line(p1, p2 Point) []Point {
	n := max(absInt(p2.X-p1.X), absInt(p2.Y-p1.Y)) + 1
	pts := make([]Point, 0, n)
	Walk(p1, p2, func(p Point) { pts = append(pts, p) })
	return pts
}

// Draw traces the line from p1 to p2 onto dst in color c.
func Draw(dst Plotter, p1, p2 Point, c color.RGBA) {
	if dst == nil {
		return
	}
	Walk(p1, p2, func(p Point) { dst.SetPixel(p.X, p.Y, c) })
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
