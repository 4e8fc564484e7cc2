package script

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"fxiso/isodsp/gfx"
	"fxiso/isodsp/raster"
	"fxiso/isodsp/voxel"
)

type builtin func(args []zygo.Sexp) (zygo.Sexp, error)

func (h *Host) builtins() map[string]builtin {
	return map[string]builtin{
		"set_pixel":    h.setPixel,
		"get_pixel":    h.getPixel,
		"clear_screen": h.clearScreen,
		"show_screen":  h.showScreen,
		"draw_string":  h.drawString,
		"screen_size":  h.screenSize,
		"line":         h.line,
		"draw_cube":    h.drawCube,
		"render":       h.render,
	}
}

func (h *Host) register(env *zygo.Zlisp) {
	for name, fn := range h.builtins() {
		fn := fn
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			v, err := fn(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return v, nil
		})
	}
}

// (set_pixel x y [color])
func (h *Host) setPixel(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 2 {
		return zygo.SexpNull, fmt.Errorf("expected x y [color], got %d arguments", len(args))
	}
	xy, err := toInts(args[:2])
	if err != nil {
		return zygo.SexpNull, err
	}
	c, err := toColor(args[2:])
	if err != nil {
		return zygo.SexpNull, err
	}
	h.screen.SetPixel(xy[0], xy[1], c)
	return zygo.SexpNull, nil
}

// (get_pixel x y) returns [r g b], or nil off screen.
func (h *Host) getPixel(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("expected x y, got %d arguments", len(args))
	}
	xy, err := toInts(args)
	if err != nil {
		return zygo.SexpNull, err
	}
	w, hh := h.screen.Size()
	if xy[0] < 0 || xy[1] < 0 || xy[0] >= w || xy[1] >= hh {
		return zygo.SexpNull, nil
	}
	c := h.screen.Pixel(xy[0], xy[1])
	return intArray(int(c.R), int(c.G), int(c.B)), nil
}

// (clear_screen) paints the whole screen white.
func (h *Host) clearScreen(args []zygo.Sexp) (zygo.Sexp, error) {
	h.screen.Clear(gfx.White)
	return zygo.SexpNull, nil
}

func (h *Host) showScreen(args []zygo.Sexp) (zygo.Sexp, error) {
	return zygo.SexpNull, h.screen.Show()
}

// (draw_string x y text color [size]) draws text with its top-left corner
// at (x, y). size ("small", "medium", "large") is accepted and ignored.
func (h *Host) drawString(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 4 && len(args) != 5 {
		return zygo.SexpNull, fmt.Errorf("expected x y text color [size], got %d arguments", len(args))
	}
	xy, err := toInts(args[:2])
	if err != nil {
		return zygo.SexpNull, err
	}
	text, ok := args[2].(*zygo.SexpStr)
	if !ok {
		return zygo.SexpNull, fmt.Errorf("text: expected string, got %T", args[2])
	}
	c, err := toColor(args[3:4])
	if err != nil {
		return zygo.SexpNull, err
	}
	if len(args) == 5 {
		if _, ok := args[4].(*zygo.SexpStr); !ok {
			return zygo.SexpNull, fmt.Errorf("size: expected string, got %T", args[4])
		}
	}
	gfx.Text(h.screen, xy[0], xy[1], text.S, c)
	return zygo.SexpNull, nil
}

func (h *Host) screenSize(args []zygo.Sexp) (zygo.Sexp, error) {
	w, hh := h.screen.Size()
	return intArray(w, hh), nil
}

// (line x1 y1 x2 y2 [color])
func (h *Host) line(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 4 {
		return zygo.SexpNull, fmt.Errorf("expected x1 y1 x2 y2 [color], got %d arguments", len(args))
	}
	p, err := toInts(args[:4])
	if err != nil {
		return zygo.SexpNull, err
	}
	c, err := toColor(args[4:])
	if err != nil {
		return zygo.SexpNull, err
	}
	raster.Draw(h.screen, raster.Pt(p[0], p[1]), raster.Pt(p[2], p[3]), c)
	return zygo.SexpNull, nil
}

// (draw_cube x y)
func (h *Host) drawCube(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("expected x y, got %d arguments", len(args))
	}
	xy, err := toInts(args)
	if err != nil {
		return zygo.SexpNull, err
	}
	st, err := h.cache.Get(h.geom)
	if err != nil {
		return zygo.SexpNull, err
	}
	st.Draw(h.screen, xy[0], xy[1], voxel.DefaultFG, voxel.DefaultBG)
	return zygo.SexpNull, nil
}

// (render sx sy sz layer...) where each layer is a list of row strings.
func (h *Host) render(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 3 {
		return zygo.SexpNull, fmt.Errorf("expected sx sy sz layer..., got %d arguments", len(args))
	}
	o, err := toInts(args[:3])
	if err != nil {
		return zygo.SexpNull, err
	}
	g, err := toGrid(args[3:])
	if err != nil {
		return zygo.SexpNull, err
	}
	r, err := h.renderer()
	if err != nil {
		return zygo.SexpNull, err
	}
	r.Render(h.screen, g, voxel.Origin{X: o[0], Y: o[1], Z: o[2]})
	return zygo.SexpNull, nil
}
