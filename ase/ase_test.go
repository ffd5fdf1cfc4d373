package ase

import (
	"bytes"
	"testing"

	"badc0de.net/pkg/go-asepack/ttesting"
)

// fourPixels is a 2x2 RGBA block with distinct corner colors.
var fourPixels = []byte{
	255, 0, 0, 255, 0, 255, 0, 255,
	0, 0, 255, 255, 255, 255, 255, 255,
}

func TestDecodeBasicDocument(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f0 := b.Frame(100)
	f0.Layer("body", true)
	f0.Layer("hidden", false)
	f0.RawCel(0, 1, 2, 2, 2, fourPixels)
	f0.Tags(ttesting.TagSpec{From: 0, To: 1, Name: "walk"})
	f1 := b.Frame(200)
	f1.CompressedCel(0, 3, 4, 2, 2, fourPixels)

	s, err := DecodeBytes(b.Bytes())
	if err != nil {
		t.Fatalf("failed to decode document: %s", err)
	}

	ttesting.AssertEqualInt(t, "frame count", len(s.Frames), 2)
	ttesting.AssertEqualInt(t, "frame 0 duration", int(s.Frames[0].Duration), 100)
	ttesting.AssertEqualInt(t, "frame 1 duration", int(s.Frames[1].Duration), 200)
	ttesting.AssertEqualInt(t, "layer count", len(s.Layers), 2)
	ttesting.AssertEqualStr(t, "layer 0 name", s.Layers[0].Name, "body")
	ttesting.AssertEqualStr(t, "layer 1 name", s.Layers[1].Name, "hidden")
	if !s.Layers[0].Visible {
		t.Errorf("layer 0 should be visible")
	}
	if s.Layers[1].Visible {
		t.Errorf("layer 1 should not be visible")
	}

	c := s.Frames[0].Cel(0)
	if c == nil {
		t.Fatalf("frame 0 has no cel on layer 0")
	}
	ttesting.AssertEqualInt(t, "raw cel x", int(c.X), 1)
	ttesting.AssertEqualInt(t, "raw cel y", int(c.Y), 2)
	if !bytes.Equal(c.Pixels, fourPixels) {
		t.Errorf("raw cel pixels: got %v, want %v", c.Pixels, fourPixels)
	}

	c = s.Frames[1].Cel(0)
	if c == nil {
		t.Fatalf("frame 1 has no cel on layer 0")
	}
	if !bytes.Equal(c.Pixels, fourPixels) {
		t.Errorf("compressed cel pixels: got %v, want %v", c.Pixels, fourPixels)
	}

	if s.Tags == nil {
		t.Fatalf("document should carry a tag table")
	}
	tag, ok := s.Tags.Table()["walk"]
	if !ok {
		t.Fatalf("tag table should carry tag walk")
	}
	ttesting.AssertEqualInt(t, "tag from", int(tag.From), 0)
	ttesting.AssertEqualInt(t, "tag to", int(tag.To), 1)
}

func TestDecodeWideChunkCount(t *testing.T) {
	b := ttesting.NewFileBuilder(4, 4)
	f := b.Frame(50)
	f.WideChunkCount()
	f.Layer("only", true)

	s, err := DecodeBytes(b.Bytes())
	if err != nil {
		t.Fatalf("failed to decode document: %s", err)
	}
	ttesting.AssertEqualInt(t, "chunk count from wide field", len(s.Frames[0].Chunks), 1)
	ttesting.AssertEqualStr(t, "layer name", s.Layers[0].Name, "only")
}

func TestDecodeUnknownChunkSkipped(t *testing.T) {
	b := ttesting.NewFileBuilder(4, 4)
	f := b.Frame(50)
	f.Chunk(0x7777, []byte{1, 2, 3, 4})
	f.Layer("after", true)

	s, err := DecodeBytes(b.Bytes())
	if err != nil {
		t.Fatalf("unknown chunk should not fail the decode: %s", err)
	}
	ttesting.AssertEqualInt(t, "both chunks present", len(s.Frames[0].Chunks), 2)
	op, ok := s.Frames[0].Chunks[0].(*Opaque)
	if !ok {
		t.Fatalf("unknown chunk should decode as Opaque, got %T", s.Frames[0].Chunks[0])
	}
	ttesting.AssertEqualInt(t, "opaque type preserved", int(op.Type), 0x7777)
	ttesting.AssertEqualInt(t, "opaque payload length", len(op.Data), 4)
	ttesting.AssertEqualStr(t, "layer after the unknown chunk decodes", s.Layers[0].Name, "after")
}

func TestUserDataFolding(t *testing.T) {
	b := ttesting.NewFileBuilder(4, 4)
	f := b.Frame(50)
	f.UserDataText("dropped, nothing precedes it")
	f.Layer("torso", true)
	f.UserDataText("body & front")
	f.UserDataText("second annotation")

	s, err := DecodeBytes(b.Bytes())
	if err != nil {
		t.Fatalf("failed to decode document: %s", err)
	}
	l := s.Layers[0]
	ttesting.AssertEqualInt(t, "both records folded into the layer", len(l.UserData), 2)
	ttesting.AssertEqualStr(t, "first text wins for TagText", l.TagText(), "body & front")
}

func TestLinkedCel(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f0 := b.Frame(100)
	f0.Layer("body", true)
	f0.RawCel(0, 3, 4, 2, 2, fourPixels)
	f1 := b.Frame(100)
	f1.LinkedCel(0, 0)

	s, err := DecodeBytes(b.Bytes())
	if err != nil {
		t.Fatalf("failed to decode document: %s", err)
	}
	c := s.Frames[1].Cel(0)
	if c == nil {
		t.Fatalf("frame 1 has no cel on layer 0")
	}
	ttesting.AssertEqualInt(t, "linked cel x copied", int(c.X), 3)
	ttesting.AssertEqualInt(t, "linked cel y copied", int(c.Y), 4)
	ttesting.AssertEqualInt(t, "linked cel width copied", int(c.Width), 2)
	if !bytes.Equal(c.Pixels, fourPixels) {
		t.Errorf("linked cel pixels: got %v, want %v", c.Pixels, fourPixels)
	}

	// The copy must be by value: mutating the link's pixels must not reach
	// back into the origin cel.
	c.Pixels[0] = 7
	if s.Frames[0].Cel(0).Pixels[0] == 7 {
		t.Errorf("linked cel pixels alias the origin cel")
	}
}

func TestDanglingLinkedCel(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f0 := b.Frame(100)
	f0.Layer("body", true)
	f0.LinkedCel(0, 1) // forward reference

	_, err := DecodeBytes(b.Bytes())
	if _, ok := err.(*DanglingLinkedCelError); !ok {
		t.Fatalf("got %v, want DanglingLinkedCelError", err)
	}
}

func TestUnsupportedCelType(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f := b.Frame(100)
	f.Layer("body", true)
	// Hand-built tilemap cel: 16-byte prefix with type 3.
	payload := make([]byte, 16)
	payload[7] = 3
	f.Chunk(0x2005, payload)

	_, err := DecodeBytes(b.Bytes())
	e, ok := err.(*UnsupportedCelTypeError)
	if !ok {
		t.Fatalf("got %v, want UnsupportedCelTypeError", err)
	}
	ttesting.AssertEqualInt(t, "cel type in error", int(e.Type), 3)
}

func TestDecodeTruncatedAndCorrupt(t *testing.T) {
	good := func() []byte {
		b := ttesting.NewFileBuilder(4, 4)
		b.Frame(50).Layer("l", true)
		return b.Bytes()
	}()

	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"empty file", nil},
		{"short header", good[:64]},
		{"bad header magic", func() []byte {
			d := append([]byte(nil), good...)
			d[4] = 0x12
			return d
		}()},
		{"bad frame magic", func() []byte {
			d := append([]byte(nil), good...)
			d[128+4] = 0x12
			return d
		}()},
		{"truncated chunk", good[:len(good)-4]},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeBytes(tc.data); err == nil {
				t.Errorf("decode should have failed")
			} else if _, ok := err.(*MalformedFormatError); !ok {
				t.Errorf("got %T (%v), want MalformedFormatError", err, err)
			}
		})
	}
}

func TestOldPaletteImplicit256(t *testing.T) {
	entries := make([][3]byte, 256)
	for i := range entries {
		entries[i] = [3]byte{byte(i), byte(i), byte(i)}
	}
	b := ttesting.NewFileBuilder(4, 4)
	b.Frame(50).OldPalettePacket(0, 0, entries)

	s, err := DecodeBytes(b.Bytes())
	if err != nil {
		t.Fatalf("failed to decode document: %s", err)
	}
	p, ok := s.Frames[0].Chunks[0].(*OldPalette)
	if !ok {
		t.Fatalf("chunk 0 should be an OldPalette, got %T", s.Frames[0].Chunks[0])
	}
	ttesting.AssertEqualInt(t, "zero count means 256 entries", len(p.Colors), 256)
	ttesting.AssertEqualInt(t, "last entry red", int(p.Colors[255].R), 255)
}

func TestNonRGBAPixelsSkipped(t *testing.T) {
	b := ttesting.NewFileBuilder(4, 4).ColorDepth(8)
	f := b.Frame(50)
	f.Layer("l", true)
	f.RawCel(0, 0, 0, 2, 2, []byte{1, 2, 3, 4}) // 8bpp: one byte per pixel

	s, err := DecodeBytes(b.Bytes())
	if err != nil {
		t.Fatalf("failed to decode document: %s", err)
	}
	c := s.Frames[0].Cel(0)
	ttesting.AssertEqualInt(t, "geometry kept", int(c.Width), 2)
	if c.Pixels != nil {
		t.Errorf("non-RGBA pixels should not be materialized, got %d bytes", len(c.Pixels))
	}
}
