package ttesting

// In-memory builder for syntactically valid sprite documents, so that decoder
// and reducer tests do not depend on binary fixtures checked into the tree.

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zlib"
)

// FileBuilder assembles a sprite document byte by byte. Chunks are emitted in
// the order the test adds them, which also fixes user-data attachment.
type FileBuilder struct {
	width, height int
	colorDepth    int
	frames        []*FrameBuilder
}

func NewFileBuilder(width, height int) *FileBuilder {
	return &FileBuilder{width: width, height: height, colorDepth: 32}
}

// ColorDepth overrides the default 32bpp header field.
func (b *FileBuilder) ColorDepth(bits int) *FileBuilder {
	b.colorDepth = bits
	return b
}

// Frame starts a new frame with the given duration in milliseconds.
func (b *FileBuilder) Frame(durationMS int) *FrameBuilder {
	f := &FrameBuilder{duration: durationMS}
	b.frames = append(b.frames, f)
	return f
}

// FrameBuilder accumulates one frame's chunks.
type FrameBuilder struct {
	duration  int
	wideCount bool
	chunks    [][]byte
}

// WideChunkCount makes the frame header carry 0xFFFF in the legacy count field
// and the real count in the 32-bit field.
func (f *FrameBuilder) WideChunkCount() *FrameBuilder {
	f.wideCount = true
	return f
}

// Chunk appends a raw chunk with an arbitrary type and payload.
func (f *FrameBuilder) Chunk(typ uint16, payload []byte) *FrameBuilder {
	var buf bytes.Buffer
	le(&buf, uint32(6+len(payload)))
	le(&buf, typ)
	buf.Write(payload)
	f.chunks = append(f.chunks, buf.Bytes())
	return f
}

// Layer appends a layer chunk (0x2004).
func (f *FrameBuilder) Layer(name string, visible bool) *FrameBuilder {
	var p bytes.Buffer
	var flags uint16
	if visible {
		flags |= 1
	}
	le(&p, flags)
	le(&p, uint16(0)) // type
	le(&p, uint16(0)) // child level
	le(&p, uint16(0)) // default width
	le(&p, uint16(0)) // default height
	le(&p, uint16(0)) // blend mode
	p.WriteByte(255)  // opacity
	p.Write([]byte{0, 0, 0})
	wstr(&p, name)
	return f.Chunk(0x2004, p.Bytes())
}

// RawCel appends a raw-pixel cel chunk (0x2005). pixels must be w*h*4 bytes.
func (f *FrameBuilder) RawCel(layer, x, y, w, h int, pixels []byte) *FrameBuilder {
	var p bytes.Buffer
	celPrefix(&p, layer, x, y, 0)
	le(&p, uint16(w))
	le(&p, uint16(h))
	p.Write(pixels)
	return f.Chunk(0x2005, p.Bytes())
}

// CompressedCel appends a zlib-compressed cel chunk (0x2005, type 2).
func (f *FrameBuilder) CompressedCel(layer, x, y, w, h int, pixels []byte) *FrameBuilder {
	var p bytes.Buffer
	celPrefix(&p, layer, x, y, 2)
	le(&p, uint16(w))
	le(&p, uint16(h))
	zw := zlib.NewWriter(&p)
	zw.Write(pixels)
	zw.Close()
	return f.Chunk(0x2005, p.Bytes())
}

// LinkedCel appends a linked cel chunk (0x2005, type 1) pointing at frame.
func (f *FrameBuilder) LinkedCel(layer, frame int) *FrameBuilder {
	var p bytes.Buffer
	celPrefix(&p, layer, 0, 0, 1)
	le(&p, uint16(frame))
	return f.Chunk(0x2005, p.Bytes())
}

// UserDataText appends a user-data chunk (0x2020) carrying only a text field.
func (f *FrameBuilder) UserDataText(text string) *FrameBuilder {
	var p bytes.Buffer
	le(&p, uint32(1))
	wstr(&p, text)
	return f.Chunk(0x2020, p.Bytes())
}

// TagSpec is one entry for Tags.
type TagSpec struct {
	From, To int
	Name     string
}

// Tags appends a tags chunk (0x2018).
func (f *FrameBuilder) Tags(tags ...TagSpec) *FrameBuilder {
	var p bytes.Buffer
	le(&p, uint16(len(tags)))
	p.Write(make([]byte, 8))
	for _, t := range tags {
		le(&p, int16(t.From))
		le(&p, int16(t.To))
		p.WriteByte(0)     // loop direction
		le(&p, uint16(0))  // repeat
		p.Write(make([]byte, 6))
		p.Write([]byte{0, 0, 0}) // color
		p.WriteByte(0)
		wstr(&p, t.Name)
	}
	return f.Chunk(0x2018, p.Bytes())
}

// OldPalettePacket appends an old palette chunk (0x0004) with one packet.
// count is written verbatim; entries supplies the RGB triples actually
// emitted, so a test can declare count 0 with 256 entries.
func (f *FrameBuilder) OldPalettePacket(skip, count int, entries [][3]byte) *FrameBuilder {
	var p bytes.Buffer
	le(&p, uint16(1))
	p.WriteByte(byte(skip))
	p.WriteByte(byte(count))
	for _, e := range entries {
		p.Write(e[:])
	}
	return f.Chunk(0x0004, p.Bytes())
}

// Bytes serializes the document.
func (b *FileBuilder) Bytes() []byte {
	var body bytes.Buffer
	for _, f := range b.frames {
		size := 16
		for _, c := range f.chunks {
			size += len(c)
		}
		le(&body, uint32(size))
		le(&body, uint16(0xF1FA))
		if f.wideCount {
			le(&body, uint16(0xFFFF))
		} else {
			le(&body, uint16(len(f.chunks)))
		}
		le(&body, uint16(f.duration))
		body.Write([]byte{0, 0})
		if f.wideCount {
			le(&body, uint32(len(f.chunks)))
		} else {
			le(&body, uint32(0))
		}
		for _, c := range f.chunks {
			body.Write(c)
		}
	}

	var hdr bytes.Buffer
	le(&hdr, uint32(128+body.Len()))
	le(&hdr, uint16(0xA5E0))
	le(&hdr, uint16(len(b.frames)))
	le(&hdr, uint16(b.width))
	le(&hdr, uint16(b.height))
	le(&hdr, uint16(b.colorDepth))
	le(&hdr, uint32(0)) // flags
	le(&hdr, uint16(0)) // legacy speed
	le(&hdr, uint32(0))
	le(&hdr, uint32(0))
	hdr.WriteByte(0)              // transparent index
	hdr.Write([]byte{0, 0, 0})    // ignored
	le(&hdr, uint16(0))           // color count
	hdr.WriteByte(1)              // pixel width
	hdr.WriteByte(1)              // pixel height
	le(&hdr, int16(0))            // grid x
	le(&hdr, int16(0))            // grid y
	le(&hdr, uint16(0))           // grid width
	le(&hdr, uint16(0))           // grid height
	hdr.Write(make([]byte, 84))

	hdr.Write(body.Bytes())
	return hdr.Bytes()
}

func celPrefix(p *bytes.Buffer, layer, x, y int, typ uint16) {
	le(p, uint16(layer))
	le(p, int16(x))
	le(p, int16(y))
	p.WriteByte(255) // opacity
	le(p, typ)
	le(p, int16(0)) // z-index
	p.Write(make([]byte, 5))
}

func le(w *bytes.Buffer, v interface{}) {
	binary.Write(w, binary.LittleEndian, v)
}

func wstr(w *bytes.Buffer, s string) {
	le(w, uint16(len(s)))
	w.WriteString(s)
}
