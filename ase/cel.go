package ase

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// CelType selects the pixel representation of a cel chunk.
type CelType uint16

const (
	CelTypeRaw        CelType = 0
	CelTypeLinked     CelType = 1
	CelTypeCompressed CelType = 2
	CelTypeTilemap    CelType = 3
)

// Cel is the pixel content of one (frame, layer) pair.
//
// A linked cel borrows position, dimensions and pixel bytes from the cel on
// the same layer in an earlier frame; the decoder resolves the link by value
// so the borrowed bytes are the Cel's own by the time decoding returns.
type Cel struct {
	userDataHolder

	LayerIndex uint16
	X, Y       int16
	Opacity    uint8
	Type       CelType
	ZIndex     int16

	Width, Height uint16

	// Pixels is the RGBA8888 buffer, Width*Height*4 bytes. Nil for non-RGBA
	// color depths, whose payloads are read past and discarded.
	Pixels []byte

	// LinkedFrame is the borrowed-from frame index for CelTypeLinked cels.
	LinkedFrame uint16
}

func (c *Cel) ChunkType() ChunkType { return ChunkTypeCel }

// Empty reports whether the cel contributes no pixels.
func (c *Cel) Empty() bool {
	return c.Width == 0 || c.Height == 0 || len(c.Pixels) == 0
}

// celWire is the fixed 16-byte prefix of the cel chunk payload.
type celWire struct {
	LayerIndex uint16
	X          int16
	Y          int16
	Opacity    uint8
	Type       uint16
	ZIndex     int16
	Reserved   [5]uint8
}

func (d *decoder) decodeCel(payload []byte, off, frameIndex int) (*Cel, error) {
	r := bytes.NewReader(payload)
	var w celWire
	if err := readWire(r, &w); err != nil {
		return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeCel, Reason: err.Error()}
	}

	cel := &Cel{
		LayerIndex: w.LayerIndex,
		X:          w.X,
		Y:          w.Y,
		Opacity:    w.Opacity,
		Type:       CelType(w.Type),
		ZIndex:     w.ZIndex,
	}

	switch cel.Type {
	case CelTypeRaw:
		if err := d.decodeCelPixels(r, cel, off, false); err != nil {
			return nil, err
		}
	case CelTypeCompressed:
		if err := d.decodeCelPixels(r, cel, off, true); err != nil {
			return nil, err
		}
	case CelTypeLinked:
		var frame uint16
		if err := binary.Read(r, binary.LittleEndian, &frame); err != nil {
			return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeCel, Reason: fmt.Sprintf("could not read linked frame index: %s", err)}
		}
		cel.LinkedFrame = frame
		if err := d.resolveLinkedCel(cel, off, frameIndex); err != nil {
			return nil, err
		}
	default:
		// Tilemap cels and anything newer are not supported at all; unlike
		// unknown chunk types this is a terminal decode failure.
		return nil, &UnsupportedCelTypeError{Offset: int64(off), Type: cel.Type}
	}

	return cel, nil
}

// decodeCelPixels reads the width/height pair and the pixel body, inflating
// it first for compressed cels. Non-RGBA depths keep the declared geometry
// but drop the pixel bytes.
func (d *decoder) decodeCelPixels(r *bytes.Reader, cel *Cel, off int, compressed bool) error {
	var dims struct{ Width, Height uint16 }
	if err := readWire(r, &dims); err != nil {
		return &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeCel, Reason: err.Error()}
	}
	cel.Width, cel.Height = dims.Width, dims.Height

	if d.sprite.Header.ColorDepth != 32 {
		return nil
	}

	want := int(dims.Width) * int(dims.Height) * 4

	var body io.Reader = r
	if compressed {
		zr, err := zlib.NewReader(r)
		if err != nil {
			return &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeCel, Reason: fmt.Sprintf("could not open compressed pixel stream: %s", err)}
		}
		defer zr.Close()
		body = zr
	} else if r.Len() < want {
		return &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeCel, Reason: fmt.Sprintf("raw cel declares %dx%d pixels but only %d payload bytes remain", dims.Width, dims.Height, r.Len())}
	}

	pix := make([]byte, want)
	if _, err := io.ReadFull(body, pix); err != nil {
		return &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeCel, Reason: fmt.Sprintf("could not read %d pixel bytes: %s", want, err)}
	}
	cel.Pixels = pix
	return nil
}

// resolveLinkedCel copies geometry and pixels from the referenced cel. Only
// frames decoded before the current one are eligible.
func (d *decoder) resolveLinkedCel(cel *Cel, off, frameIndex int) error {
	fi := int(cel.LinkedFrame)
	if fi >= frameIndex || fi >= len(d.sprite.Frames) {
		return &DanglingLinkedCelError{Offset: int64(off), Frame: fi, Layer: int(cel.LayerIndex)}
	}
	origin := d.sprite.Frames[fi].Cel(int(cel.LayerIndex))
	if origin == nil {
		return &DanglingLinkedCelError{Offset: int64(off), Frame: fi, Layer: int(cel.LayerIndex)}
	}
	cel.X, cel.Y = origin.X, origin.Y
	cel.Width, cel.Height = origin.Width, origin.Height
	cel.Pixels = append([]byte(nil), origin.Pixels...)
	return nil
}
