// Package stamp builds the isometric cube tile that the voxel renderer
// copies onto the screen once per filled voxel.
package stamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fxiso/isodsp/raster"
)

// Geometry is the tile size of one cube stamp in pixels.
type Geometry struct {
	W int
	H int
}

// DefaultGeometry is the 18x18 tile used by the calculator demo.
var DefaultGeometry = Geometry{W: 18, H: 18}

var ErrBadGeometry = errors.New("stamp: invalid geometry")

// Validate rejects tiles too small to hold the outline.
func (g Geometry) Validate() error {
	if g.W < 2 || g.H < 3 {
		return fmt.Errorf("%w: %dx%d", ErrBadGeometry, g.W, g.H)
	}
	return nil
}

// ParseGeometry parses "WxH" and validates the result.
func ParseGeometry(s string) (Geometry, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Geometry{}, fmt.Errorf("%w: %q, want WxH", ErrBadGeometry, s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: %q: %v", ErrBadGeometry, s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: %q: %v", ErrBadGeometry, s, err)
	}
	g := Geometry{W: w, H: h}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// Third is H/3, the height of the top face's upper half.
func (g Geometry) Third() int { return g.H / 3 }

// TwoThirds is 2*(H/3).
func (g Geometry) TwoThirds() int { return g.Third() * 2 }

// HalfW is W/2.
func (g Geometry) HalfW() int { return g.W / 2 }

// StepX is the horizontal screen offset between neighbouring voxels.
func (g Geometry) StepX() int { return g.HalfW() - 1 }

// StepY is the vertical screen offset between neighbouring voxels.
func (g Geometry) StepY() int { return g.Third() - 1 }

func (g Geometry) String() string { return fmt.Sprintf("%dx%d", g.W, g.H) }

// Segment is one wireframe edge.
type Segment struct {
	A raster.Point
	B raster.Point
}

// CubeWireframe returns the nine edges outlining the visible top, left and
// right faces of a cube inside a g.W x g.H tile.
func CubeWireframe(g Geometry) []Segment {
	t := g.Third() - 1
	tt := g.TwoThirds() - 1
	mid := g.HalfW() - 1
	r := g.W - 1
	b := g.H - 1

	seg := func(x1, y1, x2, y2 int) Segment {
		return Segment{A: raster.Pt(x1, y1), B: raster.Pt(x2, y2)}
	}
	return []Segment{
		seg(0, t, mid, 0),
		seg(0, t, mid, tt),
		seg(mid, 0, r, t),
		seg(mid, tt, r, t),
		seg(0, t, 0, tt),
		seg(mid, tt, mid, b),
		seg(r, t, r, tt),
		seg(0, tt, mid, b),
		seg(mid, b, r, tt),
	}
}
