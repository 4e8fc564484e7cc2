//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"fxiso/app"
	"fxiso/hal"
	"fxiso/isodsp/stamp"
	"fxiso/isodsp/voxel"
)

func main() {
	var cfg hal.HeadlessConfig
	var origin, block string
	appCfg := app.DefaultConfig()
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&cfg.Snapshot, "snapshot", "", "Write the last frame as PNG when headless mode stops.")
	flag.StringVar(&appCfg.Scene, "scene", "", "Scene file (.txt or .isos); empty shows the demo.")
	flag.StringVar(&origin, "origin", voxel.DefaultOrigin.String(), "Screen origin X,Y[,Z] of voxel (0,0,0).")
	flag.StringVar(&block, "block", stamp.DefaultGeometry.String(), "Cube tile size WxH.")
	flag.Parse()

	var err error
	if appCfg.Origin, err = voxel.ParseOrigin(origin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if appCfg.Geometry, err = stamp.ParseGeometry(block); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
