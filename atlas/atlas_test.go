package atlas

import (
	"bytes"
	"encoding/binary"
	"testing"

	"badc0de.net/pkg/go-asepack/ase"
	"badc0de.net/pkg/go-asepack/ttesting"
)

var fourPixels = []byte{
	255, 0, 0, 255, 0, 255, 0, 255,
	0, 0, 255, 255, 255, 255, 255, 255,
}

var otherPixels = []byte{
	9, 9, 9, 255, 8, 8, 8, 255,
	7, 7, 7, 255, 6, 6, 6, 255,
}

func decode(t *testing.T, b *ttesting.FileBuilder) *ase.Sprite {
	t.Helper()
	s, err := ase.DecodeBytes(b.Bytes())
	if err != nil {
		t.Fatalf("failed to decode document: %s", err)
	}
	return s
}

func TestReduceLinkedFrames(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f0 := b.Frame(100)
	f0.Layer("body", true).UserDataText("body & front")
	f0.RawCel(0, 1, 2, 2, 2, fourPixels)
	f0.Tags(ttesting.TagSpec{From: 0, To: 1, Name: "walk"})
	b.Frame(100).LinkedCel(0, 0)

	a, err := Reduce(decode(t, b))
	if err != nil {
		t.Fatalf("failed to reduce document: %s", err)
	}

	ttesting.AssertEqualInt(t, "one used layer", len(a.UsedLayers()), 1)
	ttesting.AssertEqualInt(t, "atlas width", a.Width, 2)
	ttesting.AssertEqualInt(t, "atlas height", a.Height, 2)

	// One layer, two frames: twelve values, and the linked frame's record is
	// identical to its origin's since the pixels deduplicate to one placement.
	ttesting.AssertEqualInt16s(t, "records", a.Records(),
		[]int16{1, 2, 2, 2, 0, 0, 1, 2, 2, 2, 0, 0})
}

func TestReduceDedupSharesPlacement(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f := b.Frame(100)
	f.Layer("near", true).UserDataText("near")
	f.Layer("far", true).UserDataText("far")
	f.RawCel(0, 0, 0, 2, 2, fourPixels)
	f.RawCel(1, 4, 4, 2, 2, fourPixels)
	f.Tags(ttesting.TagSpec{From: 0, To: 0, Name: "idle"})

	a, err := Reduce(decode(t, b))
	if err != nil {
		t.Fatalf("failed to reduce document: %s", err)
	}

	// Identical pixels on both layers: one placement, both records point at
	// it, and the atlas holds exactly one 2x2 block.
	ttesting.AssertEqualInt(t, "atlas width", a.Width, 2)
	ttesting.AssertEqualInt(t, "atlas height", a.Height, 2)
	ttesting.AssertEqualInt16s(t, "records", a.Records(),
		[]int16{0, 0, 2, 2, 0, 0, 4, 4, 2, 2, 0, 0})
}

func TestReduceDistinctPixelsPackSeparately(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f := b.Frame(100)
	f.Layer("a", true).UserDataText("a")
	f.Layer("b", true).UserDataText("b")
	f.RawCel(0, 0, 0, 2, 2, fourPixels)
	f.RawCel(1, 0, 0, 2, 2, otherPixels)
	f.Tags(ttesting.TagSpec{From: 0, To: 0, Name: "idle"})

	a, err := Reduce(decode(t, b))
	if err != nil {
		t.Fatalf("failed to reduce document: %s", err)
	}

	rec := a.Records()
	ttesting.AssertEqualInt(t, "record count", len(rec), 12)
	if rec[4] == rec[10] && rec[5] == rec[11] {
		t.Errorf("distinct pixels should not share an atlas placement: %v", rec)
	}
	if a.Width*a.Height < 8 {
		t.Errorf("atlas %dx%d too small for two 2x2 blocks", a.Width, a.Height)
	}
}

func TestReduceUnusedLayerExcluded(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f := b.Frame(100)
	f.Layer("decor", true) // no user data: not part of the output
	f.Layer("body", true).UserDataText("body")
	f.RawCel(0, 0, 0, 2, 2, otherPixels)
	f.RawCel(1, 1, 1, 2, 2, fourPixels)
	f.Tags(ttesting.TagSpec{From: 0, To: 0, Name: "idle"})

	a, err := Reduce(decode(t, b))
	if err != nil {
		t.Fatalf("failed to reduce document: %s", err)
	}

	ttesting.AssertEqualInt(t, "one used layer", len(a.UsedLayers()), 1)
	ttesting.AssertEqualStr(t, "used layer name", a.UsedLayers()[0].Name, "body")
	ttesting.AssertEqualInt16s(t, "records ignore the decor layer", a.Records(),
		[]int16{1, 1, 2, 2, 0, 0})
	ttesting.AssertEqualInt(t, "decor cel not packed", a.Width*a.Height, 4)
}

func TestReducePlaceholderCels(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f0 := b.Frame(100)
	f0.Layer("body", true).UserDataText("body")
	f0.RawCel(0, 1, 1, 2, 2, fourPixels)
	f0.Tags(ttesting.TagSpec{From: 0, To: 1, Name: "walk"})
	b.Frame(100) // no cel on the used layer

	a, err := Reduce(decode(t, b))
	if err != nil {
		t.Fatalf("failed to reduce document: %s", err)
	}

	ttesting.AssertEqualInt16s(t, "second frame is all zeros", a.Records(),
		[]int16{1, 1, 2, 2, 0, 0, 0, 0, 0, 0, 0, 0})
}

func TestReduceFlagVocabulary(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f := b.Frame(100)
	f.Layer("one", true).UserDataText(" alpha & beta ")
	f.Layer("two", true).UserDataText("beta&gamma")
	f.Tags(ttesting.TagSpec{From: 0, To: 0, Name: "idle"})

	a, err := Reduce(decode(t, b))
	if err != nil {
		t.Fatalf("failed to reduce document: %s", err)
	}

	flags := a.Flags()
	ttesting.AssertEqualInt(t, "three tokens", len(flags), 3)
	ttesting.AssertEqualInt(t, "alpha bit", flags["alpha"], 0)
	ttesting.AssertEqualInt(t, "beta bit", flags["beta"], 1)
	ttesting.AssertEqualInt(t, "gamma bit", flags["gamma"], 2)

	m := a.Metadata()
	ttesting.AssertEqualInt(t, "layer one mask", int(m.LayersProps[0]), 0b011)
	ttesting.AssertEqualInt(t, "layer two mask", int(m.LayersProps[1]), 0b110)
}

func TestReduceMissingTags(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f := b.Frame(100)
	f.Layer("body", true).UserDataText("body")
	f.RawCel(0, 0, 0, 2, 2, fourPixels)

	if _, err := Reduce(decode(t, b)); err != ErrMissingTags {
		t.Fatalf("got %v, want ErrMissingTags", err)
	}
}

func TestMetadata(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f0 := b.Frame(100)
	f0.Layer("body", true).UserDataText("body")
	f0.RawCel(0, 0, 0, 2, 2, fourPixels)
	f0.Tags(
		ttesting.TagSpec{From: 0, To: 1, Name: "walk"},
		ttesting.TagSpec{From: 1, To: 1, Name: "idle"},
	)
	b.Frame(250)

	a, err := Reduce(decode(t, b))
	if err != nil {
		t.Fatalf("failed to reduce document: %s", err)
	}

	m := a.Metadata()
	ttesting.AssertEqualInt(t, "extent width", m.Extent[0], a.Width)
	ttesting.AssertEqualInt(t, "frame count", m.FrameCount, 2)
	ttesting.AssertEqualInt(t, "two anims", len(m.Anims), 2)
	ttesting.AssertEqualInt(t, "walk from", m.Anims["walk"][0], 0)
	ttesting.AssertEqualInt(t, "walk to", m.Anims["walk"][1], 1)
	ttesting.AssertEqualInt(t, "duration 0", m.FrameDurations[0], 100)
	ttesting.AssertEqualInt(t, "duration 1", m.FrameDurations[1], 250)

	var buf bytes.Buffer
	if err := a.EncodeMetadata(&buf); err != nil {
		t.Fatalf("failed to encode metadata: %s", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"frame_count": 2`)) {
		t.Errorf("encoded metadata missing frame count: %s", buf.String())
	}
}

func TestAnimBytes(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f := b.Frame(100)
	f.Layer("body", true).UserDataText("body")
	f.RawCel(0, 3, 4, 2, 2, fourPixels)
	f.Tags(ttesting.TagSpec{From: 0, To: 0, Name: "idle"})

	a, err := Reduce(decode(t, b))
	if err != nil {
		t.Fatalf("failed to reduce document: %s", err)
	}

	raw := a.AnimBytes()
	ttesting.AssertEqualInt(t, "two bytes per value", len(raw), 2*len(a.Records()))
	for i, v := range a.Records() {
		if got := int16(binary.LittleEndian.Uint16(raw[2*i:])); got != v {
			t.Errorf("value %d: got %d, want %d", i, got, v)
		}
	}
}

func TestRaster(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f := b.Frame(100)
	f.Layer("body", true).UserDataText("body")
	f.RawCel(0, 5, 5, 2, 2, fourPixels)
	f.Tags(ttesting.TagSpec{From: 0, To: 0, Name: "idle"})

	a, err := Reduce(decode(t, b))
	if err != nil {
		t.Fatalf("failed to reduce document: %s", err)
	}

	img := a.Raster()
	ttesting.AssertEqualInt(t, "raster width", img.Bounds().Dx(), 2)
	ttesting.AssertEqualInt(t, "raster height", img.Bounds().Dy(), 2)
	// Placement is at the origin, so the atlas raster starts with the cel's
	// first pixel row, byte for byte.
	for i, want := range fourPixels[:8] {
		if img.Pix[i] != want {
			t.Errorf("pixel byte %d: got %d, want %d", i, img.Pix[i], want)
			break
		}
	}
}

func TestEncodeTagGIF(t *testing.T) {
	b := ttesting.NewFileBuilder(8, 8)
	f0 := b.Frame(100)
	f0.Layer("body", true).UserDataText("body")
	f0.RawCel(0, 1, 1, 2, 2, fourPixels)
	f0.Tags(ttesting.TagSpec{From: 0, To: 1, Name: "walk"})
	b.Frame(200).LinkedCel(0, 0)

	a, err := Reduce(decode(t, b))
	if err != nil {
		t.Fatalf("failed to reduce document: %s", err)
	}

	var buf bytes.Buffer
	if err := a.EncodeTagGIF(&buf, "walk"); err != nil {
		t.Fatalf("failed to encode gif: %s", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("GIF89a")) {
		t.Errorf("output does not look like a gif: %q", buf.Bytes()[:6])
	}

	if err := a.EncodeTagGIF(&buf, "no-such-tag"); err == nil {
		t.Errorf("unknown tag should fail")
	}
}
