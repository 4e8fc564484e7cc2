package scene

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/qmuntal/gltf"

	"fxiso/isodsp/stamp"
	"fxiso/isodsp/voxel"
)

func TestParseText(t *testing.T) {
	src := "; demo scene\r\n" +
		"#.#\r\n" +
		"###\n" +
		"---\n" +
		"; second layer\n" +
		".#.\n" +
		"\n" +
		"\n" +
		"#\n"

	g, err := ParseText(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	want := voxel.Grid{
		{"#.#", "###"},
		{".#."},
		{"#"},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTextEmpty(t *testing.T) {
	for _, src := range []string{"", "\n\n", "; only a comment\n---\n"} {
		if _, err := ParseText(strings.NewReader(src)); !errors.Is(err, ErrEmpty) {
			t.Fatalf("ParseText(%q): got %v, want ErrEmpty", src, err)
		}
	}
}

func TestFormatTextRoundTrip(t *testing.T) {
	g := voxel.Grid{{"# #", ""}, {"x#"}}
	var buf bytes.Buffer
	if err := FormatText(&buf, g); err != nil {
		t.Fatalf("FormatText: %v", err)
	}
	if got, want := buf.String(), "#.#\n.\n---\n.#\n"; got != want {
		t.Fatalf("FormatText=%q, want %q", got, want)
	}

	back, err := ParseText(&buf)
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if back.Count() != g.Count() {
		t.Fatalf("count=%d, want %d", back.Count(), g.Count())
	}
}

func TestFormatTextKeepsEmptyLayers(t *testing.T) {
	g := voxel.Grid{{"#"}, {}, {"#"}}
	var buf bytes.Buffer
	if err := FormatText(&buf, g); err != nil {
		t.Fatalf("FormatText: %v", err)
	}
	if got, want := buf.String(), "#\n---\n.\n---\n#\n"; got != want {
		t.Fatalf("FormatText=%q, want %q", got, want)
	}

	back, err := ParseText(&buf)
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if len(back) != 3 || !back.Has(0, 0, 2) || back.Has(0, 0, 1) {
		t.Fatalf("round trip=%q, want the last cube on layer 2", back)
	}
}

func TestNormalizePadsTop(t *testing.T) {
	g := voxel.Grid{
		{"#", "##", "#"},
		{"#"},
	}
	want := voxel.Grid{
		{"#.", "##", "#."},
		{"..", "..", "#."},
	}
	if diff := cmp.Diff(want, Normalize(g)); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeKeepsRender(t *testing.T) {
	st, err := stamp.BuildCube(stamp.DefaultGeometry)
	if err != nil {
		t.Fatalf("BuildCube: %v", err)
	}
	r := voxel.NewRenderer(st)
	g := voxel.Grid{{"#", "##", "#"}, {"#"}}
	plain := r.Placements(g, voxel.Origin{})
	norm := r.Placements(Normalize(g), voxel.Origin{})
	if diff := cmp.Diff(plain, norm); diff != "" {
		t.Fatalf("placements differ (-plain +normalized):\n%s", diff)
	}
}

func TestPackRoundTrip(t *testing.T) {
	cases := map[string]voxel.Grid{
		"demo":   Demo(),
		"single": {{"#"}},
		"ragged": {{"#", "##", "#..#"}, {"#"}, {".", "", "#"}},
		"hollow": {{"...."}, {".##."}},
	}
	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pack(&buf, g); err != nil {
				t.Fatalf("Pack: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("ISOS\x01")) {
				t.Fatalf("header=%q", buf.Bytes()[:5])
			}
			got, err := Unpack(&buf)
			if err != nil {
				t.Fatalf("Unpack: %v", err)
			}
			if diff := cmp.Diff(Normalize(g), got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func packed(t *testing.T, g voxel.Grid) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Pack(&buf, g); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	return buf.Bytes()
}

func TestUnpackRejects(t *testing.T) {
	good := packed(t, Demo())

	badMagic := append([]byte("ISOX"), good[4:]...)
	badVersion := append([]byte(nil), good...)
	badVersion[4] = 9
	badSum := append([]byte(nil), good...)
	badSum[len(badSum)-1] ^= 0xFF
	bigPayload := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(bigPayload[11:15], maxPayload+1)
	wrongDims := append([]byte(nil), good...)
	binary.LittleEndian.PutUint16(wrongDims[9:11], 9)
	hugeDims := append([]byte(nil), good...)
	for off := 5; off < 11; off += 2 {
		binary.LittleEndian.PutUint16(hugeDims[off:off+2], 0xFFFF)
	}

	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"magic", badMagic, ErrBadMagic},
		{"version", badVersion, ErrVersion},
		{"checksum", badSum, ErrChecksum},
		{"payload length", bigPayload, ErrTooLarge},
		{"dimensions", wrongDims, ErrCorrupted},
		{"huge dimensions", hugeDims, ErrTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Unpack(bytes.NewReader(tc.data)); !errors.Is(err, tc.want) {
				t.Fatalf("Unpack: got %v, want %v", err, tc.want)
			}
		})
	}

	if _, err := Unpack(bytes.NewReader(good[:len(good)-3])); err == nil || !strings.Contains(err.Error(), "checksum") {
		t.Fatalf("truncated: got %v", err)
	}
	if _, err := Unpack(bytes.NewReader(good[:8])); err == nil || !strings.Contains(err.Error(), "header") {
		t.Fatalf("short header: got %v", err)
	}
}

func TestPackEmpty(t *testing.T) {
	if err := Pack(&bytes.Buffer{}, nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Pack(nil): got %v", err)
	}
}

func TestExposedFaces(t *testing.T) {
	cases := []struct {
		name string
		g    voxel.Grid
		want int
	}{
		{"single", voxel.Grid{{"#"}}, 6},
		{"pair", voxel.Grid{{"##"}}, 10},
		{"stacked", voxel.Grid{{"#", "#"}}, 10},
		{"layers", voxel.Grid{{"#"}, {"#"}}, 10},
		{"diagonal", voxel.Grid{{".#", "#."}}, 12},
		{"empty", voxel.Grid{{"..."}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(exposedFaces(tc.g)); got != tc.want {
				t.Fatalf("faces=%d, want %d", got, tc.want)
			}
		})
	}
}

func TestExposedFacesHeight(t *testing.T) {
	// The last row of a layer sits on the ground.
	faces := exposedFaces(voxel.Grid{{"#", "."}})
	for _, f := range faces {
		for _, p := range f.quad {
			if p[1] < 1 || p[1] > 2 {
				t.Fatalf("vertex %v outside height 1..2", p)
			}
		}
	}
}

func TestExportGLB(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportGLB(&buf, voxel.Grid{{"##"}}); err != nil {
		t.Fatalf("ExportGLB: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
		t.Fatalf("not a GLB: %q", buf.Bytes()[:4])
	}

	var doc gltf.Document
	if err := gltf.NewDecoder(&buf).Decode(&doc); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	prim := doc.Meshes[0].Primitives[0]
	if got := doc.Accessors[prim.Attributes[gltf.POSITION]].Count; got != 40 {
		t.Fatalf("vertices=%d, want 40", got)
	}
	if got := doc.Accessors[*prim.Indices].Count; got != 60 {
		t.Fatalf("indices=%d, want 60", got)
	}

	if err := ExportGLB(&bytes.Buffer{}, voxel.Grid{{"."}}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty export: got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "tower.txt")
	if err := os.WriteFile(txt, []byte("#\n#\n---\n#\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := Load(txt)
	if err != nil {
		t.Fatalf("Load text: %v", err)
	}
	if g.Count() != 3 {
		t.Fatalf("count=%d, want 3", g.Count())
	}

	isos := filepath.Join(dir, "tower.ISOS")
	if err := os.WriteFile(isos, packed(t, g), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(isos)
	if err != nil {
		t.Fatalf("Load packed: %v", err)
	}
	if diff := cmp.Diff(Normalize(g), p); diff != "" {
		t.Fatalf("packed load mismatch (-want +got):\n%s", diff)
	}

	d, err := Load("")
	if err != nil || d.Count() != Demo().Count() {
		t.Fatalf("Load(\"\")=%d cubes, %v", d.Count(), err)
	}

	if err := os.WriteFile(txt, []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(txt); !errors.Is(err, ErrEmpty) || !strings.Contains(err.Error(), "tower.txt") {
		t.Fatalf("Load empty: got %v", err)
	}
}
