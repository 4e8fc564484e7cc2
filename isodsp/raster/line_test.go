package raster

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLineAxisAligned(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		want   []Point
	}{
		{
			name: "horizontal",
			p1:   Pt(0, 0), p2: Pt(4, 0),
			want: []Point{Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(3, 0), Pt(4, 0)},
		},
		{
			name: "vertical",
			p1:   Pt(0, 0), p2: Pt(0, 4),
			want: []Point{Pt(0, 0), Pt(0, 1), Pt(0, 2), Pt(0, 3), Pt(0, 4)},
		},
		{
			name: "diagonal",
			p1:   Pt(0, 0), p2: Pt(3, 3),
			want: []Point{Pt(0, 0), Pt(1, 1), Pt(2, 2), Pt(3, 3)},
		},
		{
			name: "single point",
			p1:   Pt(7, -2), p2: Pt(7, -2),
			want: []Point{Pt(7, -2)},
		},
		{
			name: "shallow",
			p1:   Pt(8, 0), p2: Pt(17, 5),
			want: []Point{
				Pt(8, 0), Pt(9, 1), Pt(10, 1), Pt(11, 2), Pt(12, 2),
				Pt(13, 3), Pt(14, 3), Pt(15, 4), Pt(16, 4), Pt(17, 5),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Line(tt.p1, tt.p2)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Line(%v, %v) mismatch (-want +got):\n%s", tt.p1, tt.p2, diff)
			}
		})
	}
}

func TestLineProperties(t *testing.T) {
	coords := []int{-7, -3, -1, 0, 1, 2, 5, 11}
	for _, x1 := range coords {
		for _, y1 := range coords {
			for _, x2 := range coords {
				for _, y2 := range coords {
					p1, p2 := Pt(x1, y1), Pt(x2, y2)
					pts := Line(p1, p2)

					if pts[0] != p1 || pts[len(pts)-1] != p2 {
						t.Fatalf("Line(%v, %v): endpoints %v..%v", p1, p2, pts[0], pts[len(pts)-1])
					}
					want := max(absInt(x2-x1), absInt(y2-y1)) + 1
					if len(pts) != want {
						t.Fatalf("Line(%v, %v): len %d, want %d", p1, p2, len(pts), want)
					}
					for i := 1; i < len(pts); i++ {
						d := pts[i].Sub(pts[i-1])
						if absInt(d.X) > 1 || absInt(d.Y) > 1 || d == (Point{}) {
							t.Fatalf("Line(%v, %v): step %v -> %v not 8-connected", p1, p2, pts[i-1], pts[i])
						}
					}

					back := Line(p2, p1)
					if len(back) != len(pts) || back[0] != p2 || back[len(back)-1] != p1 {
						t.Fatalf("Line(%v, %v) reverse has different shape", p1, p2)
					}
					if (x1 == x2 || y1 == y2 || absInt(x2-x1) == absInt(y2-y1)) && !samePointSet(pts, back) {
						t.Fatalf("Line(%v, %v) and reverse cover different pixels", p1, p2)
					}
				}
			}
		}
	}
}

// Ties on the error term round toward the direction of travel, so a line and
// its reverse may pick different pixels at half-pixel crossings.
func TestLineReverseTie(t *testing.T) {
	fwd := Line(Pt(0, 0), Pt(2, 1))
	rev := Line(Pt(2, 1), Pt(0, 0))
	if diff := cmp.Diff([]Point{Pt(0, 0), Pt(1, 1), Pt(2, 1)}, fwd); diff != "" {
		t.Fatalf("forward mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Point{Pt(2, 1), Pt(1, 0), Pt(0, 0)}, rev); diff != "" {
		t.Fatalf("reverse mismatch (-want +got):\n%s", diff)
	}
}

func samePointSet(a, b []Point) bool {
	set := make(map[Point]int, len(a))
	for _, p := range a {
		set[p]++
	}
	for _, p := range b {
		set[p]--
	}
	for _, n := range set {
		if n != 0 {
			return false
		}
	}
	return true
}

type recorder struct {
	pts []Point
	c   color.RGBA
}

func (r *recorder) SetPixel(x, y int, c color.RGBA) {
	r.pts = append(r.pts, Pt(x, y))
	r.c = c
}

func TestDrawMatchesBuffer(t *testing.T) {
	p1, p2 := Pt(1, 9), Pt(13, 2)

	rec := &recorder{}
	ink := color.RGBA{A: 0xFF}
	Draw(rec, p1, p2, ink)
	if diff := cmp.Diff(Line(p1, p2), rec.pts); diff != "" {
		t.Fatalf("Draw sequence mismatch (-want +got):\n%s", diff)
	}
	if rec.c != ink {
		t.Fatalf("Draw color = %v, want %v", rec.c, ink)
	}

	buf, err := NewBuffer(16, 12, Blank)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	if err := buf.Line(p1, p2); err != nil {
		t.Fatalf("Line: %v", err)
	}
	marked := map[Point]bool{}
	for _, p := range rec.pts {
		marked[p] = true
	}
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			c, _ := buf.At(x, y)
			if (c == Ink) != marked[Pt(x, y)] {
				t.Fatalf("cell (%d,%d) = %q, drawn = %v", x, y, c, marked[Pt(x, y)])
			}
		}
	}
}

func TestDrawNilPlotter(t *testing.T) {
	Draw(nil, Pt(0, 0), Pt(3, 3), color.RGBA{})
}
