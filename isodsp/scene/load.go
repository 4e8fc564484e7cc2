package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fxiso/isodsp/voxel"
)

// PackedExt is the file extension of packed scenes.
const PackedExt = ".isos"

// Load reads the scene at path, packed or text by extension. An empty path
// returns Demo.
func Load(path string) (voxel.Grid, error) {
	if path == "" {
		return Demo(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var g voxel.Grid
	if strings.EqualFold(filepath.Ext(path), PackedExt) {
		g, err = Unpack(f)
	} else {
		g, err = ParseText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
