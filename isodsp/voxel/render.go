package voxel

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"fxiso/isodsp/stamp"
)

var (
	DefaultFG = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	DefaultBG = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// DefaultOrigin is where the calculator demo anchors voxel (0, 0, 0).
var DefaultOrigin = Origin{X: 48, Y: 16}

// Origin is the screen anchor of voxel (0, 0, 0). Z is carried for callers
// that track it but does not move the projection.
type Origin struct {
	X, Y, Z int
}

// Placement is one stamp position produced by a render pass.
type Placement struct {
	X, Y       int // screen position of the stamp's top-left corner
	DX, DY, DZ int // column, row and layer counters
}

// Renderer stamps a cube tile for every filled voxel.
type Renderer struct {
	st    *stamp.Stamp
	stepX int
	stepY int
	fg    color.RGBA
	bg    color.RGBA
}

type Option func(*Renderer)

// WithColors sets the outline and face colors.
func WithColors(fg, bg color.RGBA) Option {
	return func(r *Renderer) {
		r.fg = fg
		r.bg = bg
	}
}

// NewRenderer returns a renderer for st. The projection steps derive from
// the stamp size: W/2-1 across and H/3-1 down.
func NewRenderer(st *stamp.Stamp, opts ...Option) *Renderer {
	g := stamp.Geometry{W: st.Width(), H: st.Height()}
	r := &Renderer{
		st:    st,
		stepX: g.StepX(),
		stepY: g.StepY(),
		fg:    DefaultFG,
		bg:    DefaultBG,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Stamp() *stamp.Stamp { return r.st }

// Walk calls fn for every filled voxel in paint order: layers first to
// last, rows of each layer last to first, columns left to right.
func (r *Renderer) Walk(g Grid, o Origin, fn func(Placement)) {
	for dz, layer := range g {
		dy := 0
		for y := len(layer) - 1; y >= 0; y-- {
			row := layer[y]
			for dx := 0; dx < len(row); dx++ {
				if row[dx] != Filled {
					continue
				}
				fn(Placement{
					X:  o.X + dx*r.stepX - dz*r.stepX,
					Y:  o.Y + (dx+dz)*r.stepY - dy*r.stepY,
					DX: dx,
					DY: dy,
					DZ: dz,
				})
			}
			dy++
		}
	}
}

// Placements returns every stamp position of a render pass in paint order.
func (r *Renderer) Placements(g Grid, o Origin) []Placement {
	var out []Placement
	r.Walk(g, o, func(p Placement) { out = append(out, p) })
	return out
}

// Render paints g onto dst. Later placements overwrite earlier ones.
func (r *Renderer) Render(dst stamp.Plotter, g Grid, o Origin) {
	if dst == nil {
		return
	}
	r.Walk(g, o, func(p Placement) {
		r.st.Draw(dst, p.X, p.Y, r.fg, r.bg)
	})
}

// Bounds returns the screen rectangle touched by Render, or an empty
// rectangle when the grid has no filled cells.
func (r *Renderer) Bounds(g Grid, o Origin) image.Rectangle {
	var b image.Rectangle
	w, h := r.st.Width(), r.st.Height()
	r.Walk(g, o, func(p Placement) {
		b = b.Union(image.Rect(p.X, p.Y, p.X+w, p.Y+h))
	})
	return b
}

// ParseOrigin parses "X,Y" or "X,Y,Z".
func ParseOrigin(s string) (Origin, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return Origin{}, fmt.Errorf("origin %q: want X,Y[,Z]", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Origin{}, fmt.Errorf("origin %q: %w", s, err)
		}
		v[i] = n
	}
	return Origin{X: v[0], Y: v[1], Z: v[2]}, nil
}

func (o Origin) String() string { return fmt.Sprintf("%d,%d,%d", o.X, o.Y, o.Z) }
