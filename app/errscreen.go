package app

import (
	"strings"
	"unicode/utf8"

	"fxiso/isodsp/gfx"
)

// drawError fills s with a white page listing err, wrapped to the screen
// width. Lines past the bottom edge are dropped.
func drawError(s gfx.Screen, err error) {
	s.Clear(gfx.White)

	w, h := s.Size()
	lineH := gfx.LineHeight()
	charW := gfx.TextWidth("0")
	if lineH <= 0 || charW <= 0 {
		return
	}
	cols := w / charW
	if cols <= 0 {
		cols = 1
	}

	lines := []string{"fxiso error:"}
	lines = append(lines, strings.Split(err.Error(), ": ")...)

	y := 0
	for _, line := range lines {
		for len(line) > 0 {
			if y+lineH > h {
				return
			}
			chunk, rest := takeRunes(line, cols)
			gfx.Text(s, 0, y, chunk, gfx.Red)
			y += lineH
			line = strings.TrimLeft(rest, " ")
		}
	}
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
