package stamp

import (
	"fmt"
	"image/color"
	"strings"

	"fxiso/isodsp/raster"
)

// Plotter receives stamped pixels.
type Plotter = raster.Plotter

// PixelReader samples a drawn surface.
type PixelReader interface {
	Pixel(x, y int) color.RGBA
}

// Stamp is a finished cube tile. It is immutable after construction and safe
// to share between goroutines.
type Stamp struct {
	buf *raster.Buffer
}

// Build traces wf into a fresh w*h buffer and marks everything outside the
// outline as transparent.
func Build(wf []Segment, w, h int) (*Stamp, error) {
	buf, err := raster.NewBuffer(w, h, raster.Blank)
	if err != nil {
		return nil, fmt.Errorf("stamp: %w", err)
	}
	for i, s := range wf {
		if err := buf.Line(s.A, s.B); err != nil {
			return nil, fmt.Errorf("stamp: segment %d: %w", i, err)
		}
	}
	fillOutside(buf)
	return &Stamp{buf: buf}, nil
}

// BuildCube builds the cube stamp for g.
func BuildCube(g Geometry) (*Stamp, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return Build(CubeWireframe(g), g.W, g.H)
}

// FromReadback samples a w*h region of src, treating pixels equal to ink as
// outline, and fills it the same way Build does.
func FromReadback(src PixelReader, w, h int, ink color.RGBA) (*Stamp, error) {
	buf, err := raster.NewBuffer(w, h, raster.Blank)
	if err != nil {
		return nil, fmt.Errorf("stamp: %w", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.Pixel(x, y) == ink {
				_ = buf.Set(x, y, raster.Ink)
			}
		}
	}
	fillOutside(buf)
	return &Stamp{buf: buf}, nil
}

// fillOutside scans each row from the left and then from the right, turning
// blank cells into Transparent until the first non-blank cell. Blank cells
// between the two boundaries stay Blank and are drawn as background.
func fillOutside(buf *raster.Buffer) {
	w, h := buf.Width(), buf.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c, _ := buf.At(x, y); c != raster.Blank {
				break
			}
			_ = buf.Set(x, y, raster.Transparent)
		}
		for x := w - 1; x >= 0; x-- {
			if c, _ := buf.At(x, y); c != raster.Blank {
				break
			}
			_ = buf.Set(x, y, raster.Transparent)
		}
	}
}

func (s *Stamp) Width() int  { return s.buf.Width() }
func (s *Stamp) Height() int { return s.buf.Height() }

// At returns the cell at (x, y); cells outside the tile read as Transparent.
func (s *Stamp) At(x, y int) raster.Cell {
	c, ok := s.buf.At(x, y)
	if !ok {
		return raster.Transparent
	}
	return c
}

// Row returns a copy of row y.
func (s *Stamp) Row(y int) []raster.Cell { return s.buf.Row(y) }

// Equal reports whether both stamps have the same size and cells.
func (s *Stamp) Equal(o *Stamp) bool {
	if s.Width() != o.Width() || s.Height() != o.Height() {
		return false
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.At(x, y) != o.At(x, y) {
				return false
			}
		}
	}
	return true
}

// Draw copies the stamp onto dst with its top-left corner at (x, y).
// Ink cells use fg, Blank cells use bg, Transparent cells are skipped.
func (s *Stamp) Draw(dst Plotter, x, y int, fg, bg color.RGBA) {
	if dst == nil {
		return
	}
	w, h := s.Width(), s.Height()
	for yy := 0; yy < h; yy++ {
		for xx := 0; xx < w; xx++ {
			switch s.At(xx, yy) {
			case raster.Ink:
				dst.SetPixel(x+xx, y+yy, fg)
			case raster.Blank:
				dst.SetPixel(x+xx, y+yy, bg)
			}
		}
	}
}

// String renders the stamp as rows of '#', ' ' and 't'.
func (s *Stamp) String() string {
	var sb strings.Builder
	sb.Grow((s.Width() + 1) * s.Height())
	for y := 0; y < s.Height(); y++ {
		for _, c := range s.Row(y) {
			sb.WriteByte(byte(c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
