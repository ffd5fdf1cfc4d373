package ase

import (
	"bytes"
	"fmt"
)

// layerNameOffset is where the display name actually starts within the layer
// chunk payload. Shipping files disagree with the documented record order
// here; the offset is pinned for compatibility and must not be "corrected".
const layerNameOffset = 16

// Layer describes one layer of the document. Layer chunks appear once per
// layer, in document order, inside frame 0.
type Layer struct {
	userDataHolder

	// Index is the layer's position in document order; cels refer to layers
	// by this index.
	Index int

	Visible          bool
	Editable         bool
	LockMovement     bool
	Background       bool
	PreferLinkedCels bool
	Collapsed        bool
	Reference        bool

	Type       uint16
	ChildLevel uint16
	BlendMode  uint16
	Opacity    uint8
	Name       string
}

func (l *Layer) ChunkType() ChunkType { return ChunkTypeLayer }

// TagText returns the free-text token field of the layer's first attached
// user-data record, or "" if the layer carries none.
func (l *Layer) TagText() string {
	for _, ud := range l.UserData {
		if ud.HasText {
			return ud.Text
		}
	}
	return ""
}

// layerWire is the fixed prefix of the layer chunk payload.
type layerWire struct {
	Flags         uint16
	Type          uint16
	ChildLevel    uint16
	DefaultWidth  uint16 // ignored
	DefaultHeight uint16 // ignored
	BlendMode     uint16
	Opacity       uint8
	Reserved      [3]uint8
}

func (d *decoder) decodeLayer(payload []byte, off int) (*Layer, error) {
	if len(payload) < layerNameOffset {
		return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeLayer, Reason: fmt.Sprintf("layer payload too short: %d bytes", len(payload))}
	}
	var w layerWire
	if err := readWire(bytes.NewReader(payload), &w); err != nil {
		return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeLayer, Reason: err.Error()}
	}

	name, err := readString(bytes.NewReader(payload[layerNameOffset:]))
	if err != nil {
		return nil, &MalformedFormatError{Offset: int64(off + layerNameOffset), Chunk: ChunkTypeLayer, Reason: fmt.Sprintf("could not read layer name: %s", err)}
	}

	flags := uint32(w.Flags)
	return &Layer{
		Visible:          bit(flags, 0),
		Editable:         bit(flags, 1),
		LockMovement:     bit(flags, 2),
		Background:       bit(flags, 3),
		PreferLinkedCels: bit(flags, 4),
		Collapsed:        bit(flags, 5),
		Reference:        bit(flags, 6),
		Type:             w.Type,
		ChildLevel:       w.ChildLevel,
		BlendMode:        w.BlendMode,
		Opacity:          w.Opacity,
		Name:             name,
	}, nil
}
