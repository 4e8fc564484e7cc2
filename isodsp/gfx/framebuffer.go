package gfx

import (
	"errors"
	"image/color"
	"time"

	"fxiso/hal"

	"github.com/avast/retry-go/v4"
)

var ErrUnsupportedFormat = errors.New("gfx: unsupported pixel format")

// FramebufferScreen draws into an RGB565 hal.Framebuffer.
type FramebufferScreen struct {
	fb      hal.Framebuffer
	w       int
	h       int
	stride  int
	retries uint
}

// NewFramebufferScreen wraps fb. Only RGB565 framebuffers are supported.
func NewFramebufferScreen(fb hal.Framebuffer) (*FramebufferScreen, error) {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil, ErrUnsupportedFormat
	}
	return &FramebufferScreen{
		fb:      fb,
		w:       fb.Width(),
		h:       fb.Height(),
		stride:  fb.StrideBytes(),
		retries: 3,
	}, nil
}

func (s *FramebufferScreen) Size() (w, h int) { return s.w, s.h }

func (s *FramebufferScreen) offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return 0, false
	}
	off := y*s.stride + x*2
	if off < 0 || off+1 >= len(s.fb.Buffer()) {
		return 0, false
	}
	return off, true
}

func (s *FramebufferScreen) SetPixel(x, y int, c color.RGBA) {
	off, ok := s.offset(x, y)
	if !ok {
		return
	}
	buf := s.fb.Buffer()
	p := hal.RGB565(c.R, c.G, c.B)
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

func (s *FramebufferScreen) Pixel(x, y int) color.RGBA {
	off, ok := s.offset(x, y)
	if !ok {
		return color.RGBA{}
	}
	buf := s.fb.Buffer()
	r, g, b := hal.RGB888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func (s *FramebufferScreen) Clear(c color.RGBA) { s.fb.ClearRGB(c.R, c.G, c.B) }

// Show presents the framebuffer, retrying a few times since panel flushes
// over SPI can fail transiently.
func (s *FramebufferScreen) Show() error {
	return retry.Do(
		s.fb.Present,
		retry.Attempts(s.retries),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(2*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}
