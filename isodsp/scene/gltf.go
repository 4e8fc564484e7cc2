package scene

import (
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"fxiso/isodsp/voxel"
)

type cell [3]int

type face struct {
	normal [3]int
	quad   [4][3]float32
}

var faceDirs = []struct {
	normal  [3]int
	corners [4][3]float32
}{
	{[3]int{1, 0, 0}, [4][3]float32{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
	{[3]int{-1, 0, 0}, [4][3]float32{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{[3]int{0, 1, 0}, [4][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{[3]int{0, -1, 0}, [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{[3]int{0, 0, 1}, [4][3]float32{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{[3]int{0, 0, -1}, [4][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
}

// cells maps g into world space: x is the column, y the height above the
// layer's last row, z the layer index.
func cells(g voxel.Grid) (map[cell]bool, []cell) {
	set := make(map[cell]bool)
	var order []cell
	for z, l := range g {
		for y, row := range l {
			for x := 0; x < len(row); x++ {
				if row[x] != voxel.Filled {
					continue
				}
				c := cell{x, len(l) - 1 - y, z}
				set[c] = true
				order = append(order, c)
			}
		}
	}
	return set, order
}

// exposedFaces returns the cube faces of g that do not touch another cube.
func exposedFaces(g voxel.Grid) []face {
	set, order := cells(g)
	var out []face
	for _, c := range order {
		for _, d := range faceDirs {
			n := cell{c[0] + d.normal[0], c[1] + d.normal[1], c[2] + d.normal[2]}
			if set[n] {
				continue
			}
			f := face{normal: d.normal}
			for i, p := range d.corners {
				f.quad[i] = [3]float32{p[0] + float32(c[0]), p[1] + float32(c[1]), p[2] + float32(c[2])}
			}
			out = append(out, f)
		}
	}
	return out
}

// ExportGLB writes g as a binary glTF with one unit cube per filled voxel.
// Faces shared by two cubes are left out.
func ExportGLB(w io.Writer, g voxel.Grid) error {
	faces := exposedFaces(g)
	if len(faces) == 0 {
		return ErrEmpty
	}

	positions := make([][3]float32, 0, len(faces)*4)
	normals := make([][3]float32, 0, len(faces)*4)
	indices := make([]uint32, 0, len(faces)*6)
	for _, f := range faces {
		base := uint32(len(positions))
		n := [3]float32{float32(f.normal[0]), float32(f.normal[1]), float32(f.normal[2])}
		for _, p := range f.quad {
			positions = append(positions, p)
			normals = append(normals, n)
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "fxiso"
	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	indicesAccessor := modeler.WriteIndices(doc, indices)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
			gltf.NORMAL:   uint32(normalAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}
	doc.Materials = []*gltf.Material{{
		Name:      "block",
		AlphaMode: gltf.AlphaOpaque,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{0.9, 0.9, 0.9, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
	}}
	doc.Meshes = []*gltf.Mesh{{Name: "Blocks", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "scene", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return enc.Encode(doc)
}
