// Package gfx provides the drawing surfaces the renderer and scripts talk to:
// a framebuffer-backed screen for the device and an in-memory image screen.
package gfx

import (
	"image"
	"image/color"
)

// Screen is the calculator-style plotting surface.
//
// Out-of-range coordinates are clipped: SetPixel ignores them and Pixel
// returns the zero color.
type Screen interface {
	Size() (w, h int)
	SetPixel(x, y int, c color.RGBA)
	Pixel(x, y int) color.RGBA
	Clear(c color.RGBA)
	Show() error
}

var (
	Black = color.RGBA{A: 0xFF}
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Red   = color.RGBA{R: 0xFF, A: 0xFF}
	Green = color.RGBA{G: 0xFF, A: 0xFF}
	Blue  = color.RGBA{B: 0xFF, A: 0xFF}
)

// ImageScreen draws into an RGBA image. Show is a no-op.
type ImageScreen struct {
	img *image.RGBA
}

func NewImageScreen(w, h int) *ImageScreen {
	return &ImageScreen{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Image returns the backing image.
func (s *ImageScreen) Image() *image.RGBA { return s.img }

func (s *ImageScreen) Size() (w, h int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageScreen) SetPixel(x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}).In(s.img.Rect) {
		return
	}
	s.img.SetRGBA(x, y, c)
}

func (s *ImageScreen) Pixel(x, y int) color.RGBA {
	return s.img.RGBAAt(x, y)
}

func (s *ImageScreen) Clear(c color.RGBA) {
	p := s.img.Pix
	for i := 0; i+3 < len(p); i += 4 {
		p[i+0] = c.R
		p[i+1] = c.G
		p[i+2] = c.B
		p[i+3] = c.A
	}
}

func (s *ImageScreen) Show() error { return nil }
