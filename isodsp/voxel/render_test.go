package voxel

import (
	"image"
	"image/color"
	"testing"

	"fxiso/isodsp/raster"
	"fxiso/isodsp/stamp"

	"github.com/google/go-cmp/cmp"
)

func cube(t *testing.T) *stamp.Stamp {
	t.Helper()
	st, err := stamp.BuildCube(stamp.DefaultGeometry)
	if err != nil {
		t.Fatalf("BuildCube: %v", err)
	}
	return st
}

func TestSingleVoxelAtOrigin(t *testing.T) {
	r := NewRenderer(cube(t))
	g := Grid{{"#"}}
	got := r.Placements(g, Origin{X: 48, Y: 16, Z: 0})
	want := []Placement{{X: 48, Y: 16}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}

	img := image.NewRGBA(image.Rect(0, 0, 128, 64))
	r.Render(imagePlotter{img}, g, Origin{X: 48, Y: 16})

	st := r.Stamp()
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			var want color.RGBA
			switch st.At(x-48, y-16) {
			case raster.Ink:
				want = DefaultFG
			case raster.Blank:
				want = DefaultBG
			}
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestPlacementOrderAndProjection(t *testing.T) {
	r := NewRenderer(cube(t)) // step 8 across, 5 down
	g := Grid{
		{
			"#.",
			".#",
		},
		{
			"#",
		},
	}
	got := r.Placements(g, Origin{X: 100, Y: 50})
	want := []Placement{
		// layer 0, stored row 1 painted first (dy=0)
		{X: 108, Y: 55, DX: 1, DY: 0, DZ: 0},
		// layer 0, stored row 0 (dy=1)
		{X: 100, Y: 45, DX: 0, DY: 1, DZ: 0},
		// layer 1
		{X: 92, Y: 55, DX: 0, DY: 0, DZ: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDoesNotMutateGrid(t *testing.T) {
	r := NewRenderer(cube(t))
	g := Grid{{"#  ", " # ", "  #"}, {"##", "  "}}
	orig := g.Clone()

	a := image.NewRGBA(image.Rect(0, 0, 96, 96))
	b := image.NewRGBA(image.Rect(0, 0, 96, 96))
	r.Render(imagePlotter{a}, g, Origin{X: 30, Y: 30})
	r.Render(imagePlotter{b}, g, Origin{X: 30, Y: 30})

	if diff := cmp.Diff(orig, g); diff != "" {
		t.Fatalf("grid mutated (-want +got):\n%s", diff)
	}
	if !cmp.Equal(a.Pix, b.Pix) {
		t.Fatal("second render differs from first")
	}
}

func TestLaterPlacementsPaintOver(t *testing.T) {
	r := NewRenderer(cube(t))
	g := Grid{{"##"}}

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	r.Render(imagePlotter{img}, g, Origin{X: 0, Y: 0})

	// Second cube sits at (8,5); its cell (0,5) is ink and lands on the
	// first cube's interior at (8,10).
	if got := img.RGBAAt(8, 10); got != DefaultFG {
		t.Fatalf("overlap pixel = %v, want outline", got)
	}
}

func TestBoundsAndCounts(t *testing.T) {
	r := NewRenderer(cube(t))
	g := Grid{{"#", "#"}}
	b := r.Bounds(g, Origin{X: 10, Y: 20})
	if want := image.Rect(10, 15, 28, 38); b != want {
		t.Fatalf("Bounds = %v, want %v", b, want)
	}
	if !r.Bounds(Grid{{"  "}}, Origin{}).Empty() {
		t.Fatal("empty grid should have empty bounds")
	}

	d, rows, cols := Grid{{"#", "###"}, {"#"}}.Dims()
	if d != 2 || rows != 2 || cols != 3 {
		t.Fatalf("Dims = %d,%d,%d", d, rows, cols)
	}
	if n := (Grid{{"# #", "x#"}}).Count(); n != 3 {
		t.Fatalf("Count = %d, want 3", n)
	}
	if !g.Has(0, 1, 0) || g.Has(1, 0, 0) || g.Has(0, 0, 1) {
		t.Fatal("Has returned wrong values")
	}
}

func TestWithColors(t *testing.T) {
	fg := color.RGBA{R: 0xAA, A: 0xFF}
	bg := color.RGBA{B: 0xBB, A: 0xFF}
	r := NewRenderer(cube(t), WithColors(fg, bg))
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	r.Render(imagePlotter{img}, Grid{{"#"}}, Origin{})
	if got := img.RGBAAt(8, 0); got != fg {
		t.Fatalf("outline = %v, want %v", got, fg)
	}
	if got := img.RGBAAt(9, 3); got != bg {
		t.Fatalf("face = %v, want %v", got, bg)
	}
}

type imagePlotter struct{ img *image.RGBA }

func (p imagePlotter) SetPixel(x, y int, c color.RGBA) { p.img.SetRGBA(x, y, c) }

func TestParseOrigin(t *testing.T) {
	cases := []struct {
		in   string
		want Origin
		ok   bool
	}{
		{"48,16,0", Origin{X: 48, Y: 16}, true},
		{"-8, 4", Origin{X: -8, Y: 4}, true},
		{"1,2,3", Origin{X: 1, Y: 2, Z: 3}, true},
		{"1", Origin{}, false},
		{"1,2,3,4", Origin{}, false},
		{"x,2", Origin{}, false},
	}
	for _, tc := range cases {
		got, err := ParseOrigin(tc.in)
		if tc.ok != (err == nil) {
			t.Fatalf("ParseOrigin(%q): err=%v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseOrigin(%q)=%+v, want %+v", tc.in, got, tc.want)
		}
	}
	if s := (Origin{X: 48, Y: 16}).String(); s != "48,16,0" {
		t.Fatalf("String()=%q", s)
	}
}
