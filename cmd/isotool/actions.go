package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"fxiso/isodsp/gfx"
	"fxiso/isodsp/raster"
	"fxiso/isodsp/scene"
	"fxiso/isodsp/script"
	"fxiso/isodsp/stamp"
	"fxiso/isodsp/voxel"
)

func args(cmd *cli.Command, want int) ([]string, error) {
	a := cmd.Args().Slice()
	if len(a) != want {
		return nil, fmt.Errorf("%s: want %d arguments (%s), got %d", cmd.Name, want, cmd.ArgsUsage, len(a))
	}
	return a, nil
}

func lineAction(ctx context.Context, cmd *cli.Command) error {
	a, err := args(cmd, 4)
	if err != nil {
		return err
	}
	var v [4]int
	for i, s := range a {
		if v[i], err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("line: %w", err)
		}
	}
	w := cmd.Root().Writer
	for _, p := range raster.Line(raster.Pt(v[0], v[1]), raster.Pt(v[2], v[3])) {
		fmt.Fprintf(w, "%d,%d\n", p.X, p.Y)
	}
	return nil
}

func stampAction(ctx context.Context, cmd *cli.Command) error {
	g, err := stamp.ParseGeometry(cmd.String("block"))
	if err != nil {
		return err
	}
	var st *stamp.Stamp
	if cmd.Bool("readback") {
		st, err = readbackStamp(g)
	} else {
		st, err = stamp.BuildCube(g)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.Root().Writer, st.String())
	return err
}

// readbackStamp draws the wireframe on a scratch screen and reads it back,
// the way the calculator script built its tile.
func readbackStamp(g stamp.Geometry) (*stamp.Stamp, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	scr := gfx.NewImageScreen(g.W, g.H)
	scr.Clear(gfx.White)
	for _, s := range stamp.CubeWireframe(g) {
		raster.Draw(scr, s.A, s.B, gfx.Black)
	}
	return stamp.FromReadback(scr, g.W, g.H, gfx.Black)
}

func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if ok {
		if w, err = strconv.Atoi(ws); err == nil {
			h, err = strconv.Atoi(hs)
		}
	}
	if !ok || err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	return w, h, nil
}

type renderJob struct {
	in  string
	out string
}

func renderAction(ctx context.Context, cmd *cli.Command) error {
	geom, err := stamp.ParseGeometry(cmd.String("block"))
	if err != nil {
		return err
	}
	origin, err := voxel.ParseOrigin(cmd.String("origin"))
	if err != nil {
		return err
	}
	w, h, err := parseSize(cmd.String("size"))
	if err != nil {
		return err
	}
	scale := int(cmd.Int("scale"))
	if scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", scale)
	}
	outDir := cmd.String("out")

	var jobs []renderJob
	seen := make(map[string]string)
	for _, in := range cmd.Args().Slice() {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out := filepath.Join(outDir, base+".png")
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("render: %s and %s both write %s", prev, in, out)
		}
		seen[out] = in
		jobs = append(jobs, renderJob{in: in, out: out})
	}
	if len(jobs) == 0 {
		jobs = append(jobs, renderJob{out: filepath.Join(outDir, "demo.png")})
	}

	cache := stamp.NewCache()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for _, job := range jobs {
		job := job
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			g, err := scene.Load(job.in)
			if err != nil {
				return err
			}
			st, err := cache.Get(geom)
			if err != nil {
				return err
			}
			scr := gfx.NewImageScreen(w, h)
			scr.Clear(gfx.White)
			r := voxel.NewRenderer(st)
			if b := r.Bounds(g, origin); !b.Empty() && !b.In(scr.Image().Rect) {
				log.Printf("%s: scene covers %v, clipped to %dx%d", job.out, b, w, h)
			}
			r.Render(scr, g, origin)
			if err := writePNG(job.out, scr.Image(), scale); err != nil {
				return err
			}
			log.Printf("rendered %s: %d cubes in %s", job.out, g.Count(), time.Since(start).Round(time.Microsecond))
			return nil
		})
	}
	return eg.Wait()
}

// writePNG saves img upscaled by an integer factor with nearest-neighbour
// sampling so single pixels stay crisp.
func writePNG(path string, img image.Image, scale int) error {
	if scale > 1 {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// convert loads IN and writes OUT with enc.
func convert(cmd *cli.Command, enc func(io.Writer, voxel.Grid) error) error {
	a, err := args(cmd, 2)
	if err != nil {
		return err
	}
	g, err := scene.Load(a[0])
	if err != nil {
		return err
	}
	f, err := os.Create(a[1])
	if err != nil {
		return err
	}
	if err := enc(f, g); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", a[1], err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("%s: wrote %s (%d cubes)", cmd.Name, a[1], g.Count())
	return nil
}

func packAction(ctx context.Context, cmd *cli.Command) error {
	return convert(cmd, scene.Pack)
}

func unpackAction(ctx context.Context, cmd *cli.Command) error {
	return convert(cmd, scene.FormatText)
}

func glbAction(ctx context.Context, cmd *cli.Command) error {
	return convert(cmd, scene.ExportGLB)
}

func scriptAction(ctx context.Context, cmd *cli.Command) error {
	a, err := args(cmd, 1)
	if err != nil {
		return err
	}
	geom, err := stamp.ParseGeometry(cmd.String("block"))
	if err != nil {
		return err
	}
	w, h, err := parseSize(cmd.String("size"))
	if err != nil {
		return err
	}
	src, err := os.ReadFile(a[0])
	if err != nil {
		return err
	}

	scr := gfx.NewImageScreen(w, h)
	scr.Clear(gfx.White)
	opts := []script.Option{script.WithGeometry(geom)}
	if d := cmd.Duration("timeout"); d > 0 {
		opts = append(opts, script.WithTimeout(d))
	}
	if err := script.NewHost(scr, opts...).Run(ctx, string(src)); err != nil {
		return fmt.Errorf("%s: %w", a[0], err)
	}
	return writePNG(cmd.String("out"), scr.Image(), int(cmd.Int("scale")))
}
