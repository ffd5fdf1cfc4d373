package ase

import "bytes"

// ColorProfileKind enumerates the color profile chunk's profile selector.
type ColorProfileKind uint16

const (
	ColorProfileNone ColorProfileKind = 0
	ColorProfileSRGB ColorProfileKind = 1
	ColorProfileICC  ColorProfileKind = 2
)

// ColorProfile is the color profile chunk (0x2007). The fixed-point gamma
// value is intentionally not decoded and always reads as 0; embedded ICC
// blobs are read past and discarded.
type ColorProfile struct {
	userDataHolder

	Kind  ColorProfileKind
	Flags uint16
	Gamma uint32
}

func (c *ColorProfile) ChunkType() ChunkType { return ChunkTypeColorProfile }

func (d *decoder) decodeColorProfile(payload []byte, off int) (*ColorProfile, error) {
	r := bytes.NewReader(payload)
	var w struct {
		Kind  uint16
		Flags uint16
	}
	if err := readWire(r, &w); err != nil {
		return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeColorProfile, Reason: err.Error()}
	}
	return &ColorProfile{Kind: ColorProfileKind(w.Kind), Flags: w.Flags}, nil
}
