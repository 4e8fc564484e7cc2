//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64

	// Snapshot, when set, receives the last presented frame as PNG once the
	// runner stops.
	Snapshot string
}

// RunHeadless runs the viewer without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := New().(*hostHAL)
	step := newApp(h)

	err := runTicks(ctx, h, step, cfg)
	if n := h.t.dropped; n > 0 {
		h.logger.WriteLineString(fmt.Sprintf("headless: %d ticks dropped", n))
	}
	if cfg.Snapshot != "" {
		if serr := writeSnapshot(h.fb, cfg.Snapshot); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

func runTicks(ctx context.Context, h *hostHAL, step func() error, cfg HeadlessConfig) error {
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.advance()
			if step != nil {
				if err := step(); err != nil {
					if err == ErrQuit {
						return nil
					}
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

func writeSnapshot(fb *hostFramebuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot %q: %w", path, err)
	}
	fb.mu.Lock()
	img := Snapshot(frontBuffer{fb})
	fb.mu.Unlock()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("snapshot %q: %w", path, err)
	}
	return f.Close()
}

// frontBuffer exposes the last presented frame as a Framebuffer.
type frontBuffer struct {
	*hostFramebuffer
}

func (f frontBuffer) Buffer() []byte { return f.front }
