// Package app wires the isometric viewer to a hal.HAL.
package app

import (
	"errors"
	"fmt"

	"fxiso/hal"
	"fxiso/isodsp/stamp"
	"fxiso/isodsp/voxel"
)

type Config struct {
	// Scene is a text or packed scene path. Empty selects the demo scene.
	Scene    string
	Origin   voxel.Origin
	Geometry stamp.Geometry
}

// DefaultConfig returns the demo scene at voxel.DefaultOrigin with 18x18 cubes.
func DefaultConfig() Config {
	return Config{Origin: voxel.DefaultOrigin, Geometry: stamp.DefaultGeometry}
}

// New initializes the viewer with the default config and returns its step
// function.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, DefaultConfig())
}

// NewWithConfig initializes the viewer and returns its step function. Each
// call drains pending key events and redraws if the view changed.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	v, err := newViewer(h, cfg)
	if err != nil {
		if v == nil {
			logf(h.Logger(), "viewer: %v", err)
			return func() error { return err }
		}
		v.fail(err)
	}
	return v.step
}

// Run starts the viewer and steps it on every tick (TinyGo/native
// entrypoint). It returns when the viewer quits.
func Run(h hal.HAL) {
	RunWithConfig(h, DefaultConfig())
}

func RunWithConfig(h hal.HAL, cfg Config) {
	step := NewWithConfig(h, cfg)
	ht := h.Time()
	if ht == nil || ht.Ticks() == nil {
		_ = step()
		select {}
	}
	for range ht.Ticks() {
		if err := step(); err != nil {
			if !errors.Is(err, hal.ErrQuit) {
				logf(h.Logger(), "viewer: %v", err)
			}
			return
		}
	}
}

func logf(l hal.Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf(format, args...))
}
