package ase

import "fmt"

// ChunkType tags the variant of a chunk within a frame.
type ChunkType uint16

const (
	ChunkTypeOldPalette   ChunkType = 0x0004
	ChunkTypeLayer        ChunkType = 0x2004
	ChunkTypeCel          ChunkType = 0x2005
	ChunkTypeColorProfile ChunkType = 0x2007
	ChunkTypeTags         ChunkType = 0x2018
	ChunkTypePalette      ChunkType = 0x2019
	ChunkTypeUserData     ChunkType = 0x2020
)

func (t ChunkType) String() string {
	switch t {
	case ChunkTypeOldPalette:
		return "OldPalette"
	case ChunkTypeLayer:
		return "Layer"
	case ChunkTypeCel:
		return "Cel"
	case ChunkTypeColorProfile:
		return "ColorProfile"
	case ChunkTypeTags:
		return "Tags"
	case ChunkTypePalette:
		return "Palette"
	case ChunkTypeUserData:
		return "UserData"
	default:
		return fmt.Sprintf("0x%04X", uint16(t))
	}
}

// Chunk is one self-delimited tagged record inside a frame. The concrete
// types form a closed set; anything the decoder does not recognize surfaces
// as an *Opaque.
type Chunk interface {
	ChunkType() ChunkType
}

// userDataOwner is implemented by content chunks that may have user-data
// records folded into them.
type userDataOwner interface {
	appendUserData(UserData)
}

// userDataHolder is embedded by every content chunk. Insertion order of the
// attached records is preserved.
type userDataHolder struct {
	UserData []UserData
}

func (h *userDataHolder) appendUserData(ud UserData) {
	h.UserData = append(h.UserData, ud)
}

// Opaque is an unrecognized or intentionally unparsed chunk. Its payload is
// retained verbatim; the decoder skips over it without failing.
type Opaque struct {
	Type ChunkType
	Data []byte
}

func (o *Opaque) ChunkType() ChunkType { return o.Type }
