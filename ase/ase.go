// Package ase decodes the Aseprite sprite file format into an in-memory
// document: a fixed header plus an ordered list of frames, each holding an
// ordered list of typed chunks.
//
// The decoder is a strict, forward-only, single pass over the full file
// contents. The only backward movement is the bounded lookup into
// already-decoded frames that linked cels require; that lookup copies values,
// it never keeps a live reference.
//
// Indexed (8bpp) and grayscale (16bpp) pixel payloads, tilemap cels, embedded
// ICC profile blobs and extended user-data property maps are read past and
// discarded; only RGBA (32bpp) pixel data is materialized.
package ase

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/glog"
)

// Sprite is a fully decoded document.
type Sprite struct {
	Header Header
	Frames []*Frame

	// Layers holds every Layer chunk of the document in declaration order.
	// The position in this slice is the layer index cels refer to.
	Layers []*Layer

	// Tags is the document's tag table chunk. At most one per document; if a
	// file carries several, the last one decoded wins.
	Tags *TagsChunk
}

// Frame is one animation frame: its display duration and the chunks that
// were declared inside it.
type Frame struct {
	Duration uint16 // milliseconds
	Chunks   []Chunk
}

// Cel returns the frame's cel for the given layer index, or nil if the
// frame carries no cel on that layer.
func (f *Frame) Cel(layerIndex int) *Cel {
	for _, c := range f.Chunks {
		if cel, ok := c.(*Cel); ok && int(cel.LayerIndex) == layerIndex {
			return cel
		}
	}
	return nil
}

// Decode reads a complete sprite document from r.
func Decode(r io.Reader) (*Sprite, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read sprite file: %s", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes a complete sprite document from the full file contents.
//
// Any structural violation terminates the decode; there is no partial
// document on error.
func DecodeBytes(data []byte) (*Sprite, error) {
	d := decoder{data: data, sprite: &Sprite{}}

	off, err := d.decodeHeader()
	if err != nil {
		return nil, err
	}

	for i := 0; i < int(d.sprite.Header.FrameCount); i++ {
		off, err = d.decodeFrame(off, i)
		if err != nil {
			return nil, err
		}
	}

	return d.sprite, nil
}

type decoder struct {
	data   []byte
	sprite *Sprite
}

func (d *decoder) decodeHeader() (int, error) {
	if len(d.data) < fileHeaderSize {
		return 0, &MalformedFormatError{Offset: 0, Reason: fmt.Sprintf("file too short for header: got %d bytes, want %d", len(d.data), fileHeaderSize)}
	}
	var fh fileHeader
	if err := binary.Read(bytes.NewReader(d.data[:fileHeaderSize]), binary.LittleEndian, &fh); err != nil {
		return 0, &MalformedFormatError{Offset: 0, Reason: fmt.Sprintf("could not read header: %s", err)}
	}
	if fh.Magic != headerMagic {
		return 0, &MalformedFormatError{Offset: 4, Reason: fmt.Sprintf("bad header magic: got %04x, want %04x", fh.Magic, headerMagic)}
	}
	d.sprite.Header = fh.header()
	return fileHeaderSize, nil
}

// decodeFrame decodes the frame starting at off and returns the offset of
// the next frame.
func (d *decoder) decodeFrame(off, index int) (int, error) {
	if off+frameHeaderSize > len(d.data) {
		return 0, &MalformedFormatError{Offset: int64(off), Reason: "truncated frame header"}
	}
	var fh frameHeader
	if err := binary.Read(bytes.NewReader(d.data[off:off+frameHeaderSize]), binary.LittleEndian, &fh); err != nil {
		return 0, &MalformedFormatError{Offset: int64(off), Reason: fmt.Sprintf("could not read frame header: %s", err)}
	}
	if fh.Magic != frameMagic {
		return 0, &MalformedFormatError{Offset: int64(off) + 4, Reason: fmt.Sprintf("bad frame magic: got %04x, want %04x", fh.Magic, frameMagic)}
	}

	// The 32-bit chunk count supersedes the legacy 16-bit field whenever it
	// is nonzero (this also covers the 0xFFFF legacy sentinel).
	chunks := int(fh.ChunkCountLegacy)
	if fh.ChunkCount != 0 {
		chunks = int(fh.ChunkCount)
	}

	glog.V(2).Infof("frame %d at offset %d: %d chunks, %d ms", index, off, chunks, fh.Duration)

	frame := &Frame{Duration: fh.Duration}
	d.sprite.Frames = append(d.sprite.Frames, frame)

	// Cursor for user-data folding. It points at the most recently decoded
	// content chunk of this frame and never crosses a frame boundary.
	var owner userDataOwner

	pos := off + frameHeaderSize
	for i := 0; i < chunks; i++ {
		next, err := d.decodeChunk(pos, index, frame, &owner)
		if err != nil {
			return 0, err
		}
		pos = next
	}

	return off + int(fh.Size), nil
}

// decodeChunk decodes one chunk at pos and returns the offset immediately
// after it. The cursor always advances by the chunk's declared size, whether
// or not the chunk type was recognized.
func (d *decoder) decodeChunk(pos, frameIndex int, frame *Frame, owner *userDataOwner) (int, error) {
	if pos+chunkHeaderSize > len(d.data) {
		return 0, &MalformedFormatError{Offset: int64(pos), Reason: "truncated chunk header"}
	}
	size := binary.LittleEndian.Uint32(d.data[pos:])
	typ := ChunkType(binary.LittleEndian.Uint16(d.data[pos+4:]))
	if size < chunkHeaderSize {
		return 0, &MalformedFormatError{Offset: int64(pos), Chunk: typ, Reason: fmt.Sprintf("declared chunk size %d below header size", size)}
	}
	if pos+int(size) > len(d.data) {
		return 0, &MalformedFormatError{Offset: int64(pos), Chunk: typ, Reason: fmt.Sprintf("declared chunk size %d exceeds remaining %d bytes", size, len(d.data)-pos)}
	}
	payload := d.data[pos+chunkHeaderSize : pos+int(size)]

	glog.V(3).Infof("frame %d chunk %s at offset %d, %d byte payload", frameIndex, typ, pos, len(payload))

	var (
		c   Chunk
		err error
	)
	switch typ {
	case ChunkTypeOldPalette:
		c, err = d.decodeOldPalette(payload, pos)
	case ChunkTypePalette:
		c, err = d.decodePalette(payload, pos)
	case ChunkTypeColorProfile:
		c, err = d.decodeColorProfile(payload, pos)
	case ChunkTypeLayer:
		c, err = d.decodeLayer(payload, pos)
	case ChunkTypeCel:
		c, err = d.decodeCel(payload, pos, frameIndex)
	case ChunkTypeTags:
		c, err = d.decodeTags(payload, pos)
	case ChunkTypeUserData:
		ud, uerr := d.decodeUserData(payload, pos)
		if uerr != nil {
			return 0, uerr
		}
		// User data never stands alone: it folds into the most recently
		// decoded content chunk of the same frame, or is dropped when no
		// such chunk exists yet.
		if *owner != nil {
			(*owner).appendUserData(ud)
		} else {
			glog.V(2).Infof("frame %d: user data at offset %d has no preceding content chunk; dropped", frameIndex, pos)
		}
		return pos + int(size), nil
	default:
		// Unknown chunk types are skip-parsed, never an error.
		c = &Opaque{Type: typ, Data: payload}
	}
	if err != nil {
		return 0, err
	}

	frame.Chunks = append(frame.Chunks, c)
	if o, ok := c.(userDataOwner); ok {
		*owner = o
	}

	if l, ok := c.(*Layer); ok {
		l.Index = len(d.sprite.Layers)
		d.sprite.Layers = append(d.sprite.Layers, l)
	}
	if t, ok := c.(*TagsChunk); ok {
		d.sprite.Tags = t
	}

	return pos + int(size), nil
}
