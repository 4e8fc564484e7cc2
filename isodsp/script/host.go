// Package script runs sandboxed zygomys programs against a gfx.Screen with
// the calculator plotting builtins: set_pixel, get_pixel, clear_screen,
// show_screen, draw_string, line, draw_cube and render.
package script

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"fxiso/isodsp/gfx"
	"fxiso/isodsp/stamp"
	"fxiso/isodsp/voxel"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 2 * time.Second

var ErrTimeout = errors.New("script: timed out")

// Error is a script failure reported by the interpreter.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("script: line %d: %s", e.Line, e.Message)
	}
	return "script: " + e.Message
}

// Host binds the plotting builtins to one screen.
type Host struct {
	screen  gfx.Screen
	cache   *stamp.Cache
	geom    stamp.Geometry
	timeout time.Duration
}

type Option func(*Host)

// WithCache shares a stamp cache with other renderers.
func WithCache(c *stamp.Cache) Option { return func(h *Host) { h.cache = c } }

// WithGeometry sets the cube size used by draw_cube and render.
func WithGeometry(g stamp.Geometry) Option { return func(h *Host) { h.geom = g } }

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option { return func(h *Host) { h.timeout = d } }

func NewHost(s gfx.Screen, opts ...Option) *Host {
	h := &Host{
		screen:  s,
		geom:    stamp.DefaultGeometry,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.cache == nil {
		h.cache = stamp.NewCache()
	}
	return h
}

// Run evaluates src in a fresh sandbox. Script failures come back as *Error.
// A script still running at the deadline is abandoned, not interrupted.
func (h *Host) Run(ctx context.Context, src string) error {
	_, err := h.eval(ctx, src)
	return err
}

type evalResult struct {
	val zygo.Sexp
	err error
}

func (h *Host) eval(ctx context.Context, src string) (zygo.Sexp, error) {
	if strings.TrimSpace(src) == "" {
		return zygo.SexpNull, nil
	}

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("script: panic: %v", r)}
			}
		}()
		v, err := h.evaluate(src)
		ch <- evalResult{val: v, err: err}
	}()

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()
	select {
	case res := <-ch:
		return res.val, res.err
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrTimeout, h.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Host) evaluate(src string) (zygo.Sexp, error) {
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	h.register(env)

	if err := env.LoadString(src); err != nil {
		return nil, parseError(err)
	}
	v, err := env.Run()
	if err != nil {
		return nil, parseError(err)
	}
	return v, nil
}

var (
	linePattern      = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)
	linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)
)

func parseError(err error) *Error {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return &Error{Line: line, Message: strings.TrimSpace(m[2])}
		}
	}
	return &Error{Message: strings.TrimSpace(msg)}
}

func (h *Host) renderer() (*voxel.Renderer, error) {
	st, err := h.cache.Get(h.geom)
	if err != nil {
		return nil, err
	}
	return voxel.NewRenderer(st), nil
}

func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected number, got %T", s)
}

func toInts(args []zygo.Sexp) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := toInt(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func toSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toColor reads an optional trailing color: nothing, r g b, or [r g b].
func toColor(args []zygo.Sexp) (color.RGBA, error) {
	switch len(args) {
	case 0:
		return gfx.Black, nil
	case 1:
		parts, err := toSlice(args[0])
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color: %w", err)
		}
		return toColor3(parts)
	case 3:
		return toColor3(args)
	}
	return color.RGBA{}, fmt.Errorf("color: expected r g b, got %d values", len(args))
}

func toColor3(args []zygo.Sexp) (color.RGBA, error) {
	if len(args) != 3 {
		return color.RGBA{}, fmt.Errorf("color: expected 3 components, got %d", len(args))
	}
	v, err := toInts(args)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color: %w", err)
	}
	c := color.RGBA{A: 0xFF}
	for i, p := range []*uint8{&c.R, &c.G, &c.B} {
		if v[i] < 0 || v[i] > 255 {
			return color.RGBA{}, fmt.Errorf("color: component %d out of range: %d", i+1, v[i])
		}
		*p = uint8(v[i])
	}
	return c, nil
}

func intArray(vals ...int) *zygo.SexpArray {
	out := make([]zygo.Sexp, len(vals))
	for i, v := range vals {
		out[i] = &zygo.SexpInt{Val: int64(v)}
	}
	return &zygo.SexpArray{Val: out}
}

// toGrid reads render layers: each argument is a list or array of row strings.
func toGrid(args []zygo.Sexp) (voxel.Grid, error) {
	g := make(voxel.Grid, 0, len(args))
	for i, a := range args {
		rows, err := toSlice(a)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i+1, err)
		}
		l := make(voxel.Layer, len(rows))
		for j, r := range rows {
			s, ok := r.(*zygo.SexpStr)
			if !ok {
				return nil, fmt.Errorf("layer %d row %d: expected string, got %T", i+1, j+1, r)
			}
			l[j] = s.S
		}
		g = append(g, l)
	}
	return g, nil
}
