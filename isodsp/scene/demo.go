package scene

import "fxiso/isodsp/voxel"

// Demo returns the built-in scene: a stair run climbing to a corner tower.
// Each call returns a fresh copy.
func Demo() voxel.Grid {
	return voxel.Grid{
		{
			"#...",
			"#...",
			"##..",
			"####",
		},
		{
			"....",
			"....",
			"....",
			"#..#",
		},
		{
			"....",
			"....",
			"....",
			"####",
		},
	}
}
