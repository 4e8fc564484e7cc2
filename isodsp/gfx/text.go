package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Font is the HUD font.
var Font tinyfont.Fonter = &proggy.TinySZ8pt7b

// Displayer adapts s for tinyfont and other TinyGo drawing code.
func Displayer(s Screen) drivers.Displayer {
	return displayer{s: s}
}

type displayer struct {
	s Screen
}

func (d displayer) Size() (x, y int16) {
	w, h := d.s.Size()
	return int16(w), int16(h)
}

func (d displayer) SetPixel(x, y int16, c color.RGBA) { d.s.SetPixel(int(x), int(y), c) }

func (d displayer) Display() error { return d.s.Show() }

// Text draws str with its top-left corner near (x, y).
func Text(s Screen, x, y int, str string, c color.RGBA) {
	tinyfont.WriteLine(Displayer(s), Font, int16(x), int16(y)+int16(Font.GetYAdvance())-2, str, c)
}

// LineHeight returns the distance between two text lines.
func LineHeight() int { return int(Font.GetYAdvance()) }

// TextWidth returns the advance width of str in pixels.
func TextWidth(str string) int {
	_, w := tinyfont.LineWidth(Font, str)
	return int(w)
}
