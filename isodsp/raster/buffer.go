package raster

import (
	"errors"
	"fmt"
)

// Cell is one entry of a Buffer.
type Cell byte

const (
	Ink         Cell = '#'
	Blank       Cell = ' '
	Transparent Cell = 't'
)

var (
	ErrOutOfBounds = errors.New("raster: point out of bounds")
	ErrBadSize     = errors.New("raster: invalid buffer size")
)

// Buffer is a flat width*height cell grid addressed as y*width+x.
//
// Every access is bounds checked; nothing outside [0, width*height) is ever
// read or written.
type Buffer struct {
	w     int
	h     int
	cells []Cell
}

// NewBuffer returns a w*h buffer with every cell set to fill.
func NewBuffer(w, h int, fill Cell) (*Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, w, h)
	}
	b := &Buffer{w: w, h: h, cells: make([]Cell, w*h)}
	for i := range b.cells {
		b.cells[i] = fill
	}
	return b, nil
}

func (b *Buffer) Width() int  { return b.w }
func (b *Buffer) Height() int { return b.h }

// InBounds reports whether (x, y) addresses a cell.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.w && y < b.h
}

// At returns the cell at (x, y). ok is false outside the buffer.
func (b *Buffer) At(x, y int) (c Cell, ok bool) {
	if !b.InBounds(x, y) {
		return 0, false
	}
	return b.cells[y*b.w+x], true
}

// Set writes c at (x, y).
func (b *Buffer) Set(x, y int, c Cell) error {
	if !b.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.w, b.h)
	}
	b.cells[y*b.w+x] = c
	return nil
}

// Row returns a copy of row y.
func (b *Buffer) Row(y int) []Cell {
	if y < 0 || y >= b.h {
		return nil
	}
	row := make([]Cell, b.w)
	copy(row, b.cells[y*b.w:(y+1)*b.w])
	return row
}

// Line marks every pixel from p1 to p2 as Ink.
//
// Both endpoints must lie inside the buffer. Since every Bresenham point lies
// within the endpoints' bounding box, that is checked up front and a rejected
// line leaves the buffer untouched.
func (b *Buffer) Line(p1, p2 Point) error {
	for _, p := range [...]Point{p1, p2} {
		if !b.InBounds(p.X, p.Y) {
			return fmt.Errorf("line %v-%v: %w: (%d,%d) in %dx%d", p1, p2, ErrOutOfBounds, p.X, p.Y, b.w, b.h)
		}
	}
	Walk(p1, p2, func(p Point) { b.cells[p.Y*b.w+p.X] = Ink })
	return nil
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	cp := &Buffer{w: b.w, h: b.h, cells: make([]Cell, len(b.cells))}
	copy(cp.cells, b.cells)
	return cp
}
