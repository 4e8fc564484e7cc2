package scene

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"fxiso/isodsp/voxel"
)

const (
	packMagic   = "ISOS"
	packVersion = 1

	// maxPayload bounds the compressed section read from untrusted input.
	maxPayload = 16 << 20
	// maxBitset bounds the decoded occupancy bitset, 64Mi cells.
	maxBitset  = 8 << 20
)

var (
	ErrBadMagic  = errors.New("scene: not a packed scene")
	ErrVersion   = errors.New("scene: unsupported version")
	ErrTooLarge  = errors.New("scene: dimensions out of range")
	ErrChecksum  = errors.New("scene: checksum mismatch")
	ErrCorrupted = errors.New("scene: corrupted payload")
)

type packHeader struct {
	Version uint8
	Depth   uint16
	Rows    uint16
	Cols    uint16
	PLen    uint32
}

func (h packHeader) cells() int { return int(h.Depth) * int(h.Rows) * int(h.Cols) }

func bitsetLen(cells int) int { return (cells + 7) / 8 }

// Pack writes g as a packed scene: magic, header, zstd-compressed occupancy
// bitset, then the xxhash64 of the uncompressed bitset. Layers shorter than
// the tallest one are padded at the top, as Normalize does.
func Pack(w io.Writer, g voxel.Grid) error {
	if len(g) == 0 {
		return ErrEmpty
	}
	depth, rows, cols := g.Dims()
	if depth > math.MaxUint16 || rows > math.MaxUint16 || cols > math.MaxUint16 ||
		bitsetLen(depth*rows*cols) > maxBitset {
		return fmt.Errorf("%w: %dx%dx%d", ErrTooLarge, depth, rows, cols)
	}

	bits := make([]byte, bitsetLen(depth*rows*cols))
	for z, l := range g {
		pad := rows - len(l)
		for y, row := range l {
			for x := 0; x < len(row); x++ {
				if row[x] != voxel.Filled {
					continue
				}
				i := (z*rows+y+pad)*cols + x
				bits[i>>3] |= 1 << (i & 7)
			}
		}
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	payload := enc.EncodeAll(bits, nil)
	enc.Close()

	var buf bytes.Buffer
	buf.WriteString(packMagic)
	hdr := packHeader{
		Version: packVersion,
		Depth:   uint16(depth),
		Rows:    uint16(rows),
		Cols:    uint16(cols),
		PLen:    uint32(len(payload)),
	}
	_ = binary.Write(&buf, binary.LittleEndian, hdr)
	buf.Write(payload)
	_ = binary.Write(&buf, binary.LittleEndian, xxhash.Sum64(bits))

	_, err = w.Write(buf.Bytes())
	return err
}

// Unpack reads a packed scene. The result is in Normalize form.
func Unpack(r io.Reader) (voxel.Grid, error) {
	magic := make([]byte, len(packMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("scene: read magic: %w", err)
	}
	if string(magic) != packMagic {
		return nil, ErrBadMagic
	}

	var hdr packHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("scene: read header: %w", err)
	}
	if hdr.Version != packVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, hdr.Version)
	}
	if hdr.Depth == 0 {
		return nil, ErrEmpty
	}
	if hdr.PLen > maxPayload {
		return nil, fmt.Errorf("%w: payload length %d", ErrTooLarge, hdr.PLen)
	}
	want := bitsetLen(hdr.cells())
	if want > maxBitset {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrTooLarge, hdr.Depth, hdr.Rows, hdr.Cols)
	}

	payload := make([]byte, hdr.PLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("scene: read payload: %w", err)
	}
	var sum uint64
	if err := binary.Read(r, binary.LittleEndian, &sum); err != nil {
		return nil, fmt.Errorf("scene: read checksum: %w", err)
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(uint64(max(want, 1<<20))))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	bits, err := dec.DecodeAll(payload, make([]byte, 0, want))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if len(bits) != want {
		return nil, fmt.Errorf("%w: bitset is %d bytes, want %d", ErrCorrupted, len(bits), want)
	}
	if xxhash.Sum64(bits) != sum {
		return nil, ErrChecksum
	}

	depth, rows, cols := int(hdr.Depth), int(hdr.Rows), int(hdr.Cols)
	g := make(voxel.Grid, depth)
	row := make([]byte, cols)
	for z := range g {
		l := make(voxel.Layer, rows)
		for y := range l {
			for x := range row {
				i := (z*rows+y)*cols + x
				if bits[i>>3]&(1<<(i&7)) != 0 {
					row[x] = voxel.Filled
				} else {
					row[x] = Empty
				}
			}
			l[y] = string(row)
		}
		g[z] = l
	}
	return g, nil
}
