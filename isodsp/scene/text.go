// Package scene reads and writes voxel grids: a line-oriented text form, a
// compact packed form and a glTF export.
package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"fxiso/isodsp/voxel"
)

// Empty is the cell byte written for unfilled voxels.
const Empty = '.'

const layerSeparator = "---"

var ErrEmpty = errors.New("scene: no layers")

// ParseText reads a text scene. Each line is one row; a blank line or a
// "---" line ends the current layer; lines starting with ';' are comments.
func ParseText(r io.Reader) (voxel.Grid, error) {
	var (
		g     voxel.Grid
		layer voxel.Layer
	)
	flush := func() {
		if len(layer) > 0 {
			g = append(g, layer)
			layer = nil
		}
	}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.HasPrefix(s, ";"):
			continue
		case s == "" || strings.TrimSpace(s) == layerSeparator:
			flush()
		default:
			layer = append(layer, s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scene: line %d: %w", line, err)
	}
	flush()

	if len(g) == 0 {
		return nil, ErrEmpty
	}
	return g, nil
}

// FormatText writes g in the form ParseText reads. Cells are normalized to
// '#' and '.', so a zero-length row becomes a single empty cell and a layer
// without rows becomes one empty row, keeping later layers at their depth.
func FormatText(w io.Writer, g voxel.Grid) error {
	bw := bufio.NewWriter(w)
	for i, l := range g {
		if i > 0 {
			bw.WriteString(layerSeparator + "\n")
		}
		if len(l) == 0 {
			bw.WriteByte(Empty)
			bw.WriteByte('\n')
		}
		for _, row := range l {
			if row == "" {
				bw.WriteByte(Empty)
			}
			for j := 0; j < len(row); j++ {
				if row[j] == voxel.Filled {
					bw.WriteByte(voxel.Filled)
				} else {
					bw.WriteByte(Empty)
				}
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// Normalize returns g padded to a box: every row as wide as the widest row,
// every layer as tall as the tallest one, cells rewritten as '#' or '.'.
// Short layers gain empty rows at the top so each row keeps its height
// above the ground row.
func Normalize(g voxel.Grid) voxel.Grid {
	_, rows, cols := g.Dims()
	out := make(voxel.Grid, len(g))
	for z, l := range g {
		nl := make(voxel.Layer, rows)
		pad := rows - len(l)
		for y := range nl {
			b := make([]byte, cols)
			for x := range b {
				b[x] = Empty
				if y >= pad && x < len(l[y-pad]) && l[y-pad][x] == voxel.Filled {
					b[x] = voxel.Filled
				}
			}
			nl[y] = string(b)
		}
		out[z] = nl
	}
	return out
}
