package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"fxiso/hal"
	"fxiso/isodsp/gfx"
	"fxiso/isodsp/scene"
	"fxiso/isodsp/stamp"
	"fxiso/isodsp/voxel"
)

var errNoDisplay = errors.New("no display")

// singleCube is shown in place of the scene when toggled with 'g'.
var singleCube = voxel.Grid{{"#"}}

type viewer struct {
	log    hal.Logger
	screen *gfx.FramebufferScreen
	events <-chan hal.KeyEvent
	cache  *stamp.Cache

	name   string
	scene  voxel.Grid
	single bool

	geom   stamp.Geometry
	home   voxel.Origin
	origin voxel.Origin

	dirty  bool
	frames int
	err    error
}

func newViewer(h hal.HAL, cfg Config) (*viewer, error) {
	disp := h.Display()
	if disp == nil || disp.Framebuffer() == nil {
		return nil, errNoDisplay
	}
	scr, err := gfx.NewFramebufferScreen(disp.Framebuffer())
	if err != nil {
		return nil, err
	}

	v := &viewer{
		log:    h.Logger(),
		screen: scr,
		cache:  stamp.NewCache(),
		geom:   cfg.Geometry,
		home:   cfg.Origin,
		origin: cfg.Origin,
		dirty:  true,
	}
	if in := h.Input(); in != nil {
		if kbd := in.Keyboard(); kbd != nil {
			v.events = kbd.Events()
		}
	}
	if v.geom == (stamp.Geometry{}) {
		v.geom = stamp.DefaultGeometry
	}
	if err := v.geom.Validate(); err != nil {
		return v, err
	}

	v.name = "demo"
	if cfg.Scene != "" {
		v.name = filepath.Base(cfg.Scene)
	}
	g, err := scene.Load(cfg.Scene)
	if err != nil {
		return v, fmt.Errorf("load scene: %w", err)
	}
	v.scene = g
	depth, rows, cols := g.Dims()
	logf(v.log, "viewer: scene %s, %dx%dx%d, %d cubes", v.name, depth, rows, cols, g.Count())
	return v, nil
}

func (v *viewer) grid() voxel.Grid {
	if v.single {
		return singleCube
	}
	return v.scene
}

func (v *viewer) step() error {
loop:
	for v.events != nil {
		select {
		case ev, ok := <-v.events:
			if !ok {
				v.events = nil
				break loop
			}
			if v.handle(ev) {
				logf(v.log, "viewer: quit after %d frames", v.frames)
				return hal.ErrQuit
			}
		default:
			break loop
		}
	}

	if v.err != nil || !v.dirty {
		return nil
	}
	return v.draw()
}

// handle applies one key event and reports whether the viewer should quit.
func (v *viewer) handle(ev hal.KeyEvent) bool {
	if !ev.Press {
		return false
	}
	if ev.Code == hal.KeyEscape || ev.Rune == 'q' {
		return true
	}
	if v.err != nil {
		return false
	}

	switch ev.Code {
	case hal.KeyUp:
		v.origin.Y -= v.geom.StepY()
	case hal.KeyDown:
		v.origin.Y += v.geom.StepY()
	case hal.KeyLeft:
		v.origin.X -= v.geom.StepX()
	case hal.KeyRight:
		v.origin.X += v.geom.StepX()
	case hal.KeyEnter:
		v.origin = v.home
	case hal.KeyPageUp:
		v.resize(2, 3)
	case hal.KeyPageDown:
		v.resize(-2, -3)
	default:
		switch ev.Rune {
		case 'g', 'G':
			v.single = !v.single
		default:
			return false
		}
	}
	v.dirty = true
	return false
}

// resize changes the cube tile by (dw, dh) while it stays valid and fits
// on the screen.
func (v *viewer) resize(dw, dh int) {
	g := stamp.Geometry{W: v.geom.W + dw, H: v.geom.H + dh}
	w, h := v.screen.Size()
	if g.Validate() != nil || g.W > w || g.H > h {
		return
	}
	v.geom = g
}

func (v *viewer) draw() error {
	start := time.Now()
	st, err := v.cache.Get(v.geom)
	if err != nil {
		v.fail(err)
		return nil
	}

	g := v.grid()
	v.screen.Clear(gfx.White)
	voxel.NewRenderer(st).Render(v.screen, g, v.origin)
	v.drawHUD(g)

	if err := v.screen.Show(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	v.frames++
	v.dirty = false
	logf(v.log, "viewer: frame %d, %d cubes at (%d,%d) %s in %s",
		v.frames, g.Count(), v.origin.X, v.origin.Y, v.geom, time.Since(start).Round(time.Microsecond))
	return nil
}

func (v *viewer) drawHUD(g voxel.Grid) {
	name := v.name
	if v.single {
		name = "cube"
	}
	_, h := v.screen.Size()
	hud := fmt.Sprintf("%s %d (%d,%d) %s", name, g.Count(), v.origin.X, v.origin.Y, v.geom)
	gfx.Text(v.screen, 2, h-gfx.LineHeight(), hud, gfx.Blue)
}

// fail puts the viewer into its error state: the message stays on screen
// and only quit keys are handled.
func (v *viewer) fail(err error) {
	v.err = err
	logf(v.log, "viewer: %v", err)
	drawError(v.screen, err)
	if serr := v.screen.Show(); serr != nil {
		logf(v.log, "viewer: present: %v", serr)
	}
}
