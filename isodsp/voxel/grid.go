// Package voxel renders a layered voxel grid as an oblique grid of cube
// stamps, painting later layers and rows over earlier ones.
package voxel

// Filled is the cell value that places a cube.
const Filled = '#'

// Layer is one z slice, a list of rows; byte x of a row is column x.
type Layer []string

// Grid is an ordered list of z layers. Renderers only read it.
type Grid []Layer

// Dims returns the layer count and the largest row count and row length.
func (g Grid) Dims() (depth, rows, cols int) {
	depth = len(g)
	for _, l := range g {
		rows = max(rows, len(l))
		for _, r := range l {
			cols = max(cols, len(r))
		}
	}
	return depth, rows, cols
}

// Count returns the number of filled cells.
func (g Grid) Count() int {
	n := 0
	for _, l := range g {
		for _, r := range l {
			for i := 0; i < len(r); i++ {
				if r[i] == Filled {
					n++
				}
			}
		}
	}
	return n
}

// Has reports whether cell (x, y, z) holds a cube. y indexes rows as
// stored, before any render-time reordering.
func (g Grid) Has(x, y, z int) bool {
	if z < 0 || z >= len(g) || y < 0 || y >= len(g[z]) {
		return false
	}
	r := g[z][y]
	return x >= 0 && x < len(r) && r[x] == Filled
}

// Clone returns a copy that shares no slices with g.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, l := range g {
		out[i] = append(Layer(nil), l...)
	}
	return out
}
