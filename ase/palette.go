package ase

import (
	"bytes"
	"fmt"
	"image/color"
)

// OldPalette is the packet-based run-length palette chunk (0x0004).
type OldPalette struct {
	userDataHolder

	// Colors holds the emitted entries in packet order. Skipped entries are
	// not emitted; they only advance the palette index.
	Colors []color.RGBA
}

func (p *OldPalette) ChunkType() ChunkType { return ChunkTypeOldPalette }

func (d *decoder) decodeOldPalette(payload []byte, off int) (*OldPalette, error) {
	r := bytes.NewReader(payload)
	var packets uint16
	if err := readWire(r, &packets); err != nil {
		return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeOldPalette, Reason: err.Error()}
	}

	p := &OldPalette{}
	for i := 0; i < int(packets); i++ {
		var ph struct{ Skip, Count uint8 }
		if err := readWire(r, &ph); err != nil {
			return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeOldPalette, Reason: fmt.Sprintf("packet %d: %s", i, err)}
		}
		// A stored count of 0 is the legacy encoding for 256 entries.
		count := int(ph.Count)
		if count == 0 {
			count = 256
		}
		for j := 0; j < count; j++ {
			var rgb [3]uint8
			if err := readWire(r, &rgb); err != nil {
				return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeOldPalette, Reason: fmt.Sprintf("packet %d entry %d: %s", i, j, err)}
			}
			p.Colors = append(p.Colors, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF})
		}
	}
	return p, nil
}

// Palette is the modern palette chunk (0x2019) with per-entry flags and
// optional entry names.
type Palette struct {
	userDataHolder

	FirstIndex uint32
	LastIndex  uint32
	Colors     []color.RGBA
	Names      map[int]string // sparse; only named entries appear
}

func (p *Palette) ChunkType() ChunkType { return ChunkTypePalette }

func (d *decoder) decodePalette(payload []byte, off int) (*Palette, error) {
	r := bytes.NewReader(payload)
	var w struct {
		Size       uint32
		FirstIndex uint32
		LastIndex  uint32
		Reserved   [8]uint8
	}
	if err := readWire(r, &w); err != nil {
		return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypePalette, Reason: err.Error()}
	}

	p := &Palette{FirstIndex: w.FirstIndex, LastIndex: w.LastIndex, Names: map[int]string{}}
	for i := 0; i < int(w.Size); i++ {
		var e struct {
			Flags      uint16
			R, G, B, A uint8
		}
		if err := readWire(r, &e); err != nil {
			return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypePalette, Reason: fmt.Sprintf("entry %d: %s", i, err)}
		}
		if bit(uint32(e.Flags), 0) {
			name, err := readString(r)
			if err != nil {
				return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypePalette, Reason: fmt.Sprintf("entry %d name: %s", i, err)}
			}
			p.Names[i] = name
		}
		p.Colors = append(p.Colors, color.RGBA{R: e.R, G: e.G, B: e.B, A: e.A})
	}
	return p, nil
}
