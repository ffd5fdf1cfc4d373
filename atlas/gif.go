package atlas

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
)

// composeFrame renders one frame of the reduced document onto a canvas-sized
// raster, drawing each used layer's cel from its representative's atlas
// placement. This mirrors what a runtime consumer of the records would show.
func (a *Atlas) composeFrame(fi int, atlasImg *image.NRGBA) *image.NRGBA {
	canvas := image.NewNRGBA(a.sprite.Rect())
	for li := range a.usedLayers {
		c := a.cels[li][fi]
		if c.Empty() {
			continue
		}
		org := a.origin[a.repOf[c]]
		dst := image.Rect(int(c.X), int(c.Y), int(c.X)+int(c.Width), int(c.Y)+int(c.Height))
		draw.Draw(canvas, dst, atlasImg, org, draw.Over)
	}
	return canvas
}

// EncodeTagGIF writes one tag's frame span as an animated GIF, with per-frame
// delays taken from the document. Pixels are routed through the packed atlas
// on purpose: the export doubles as a visual check of the records.
func (a *Atlas) EncodeTagGIF(w io.Writer, tag string) error {
	t, ok := a.tags[tag]
	if !ok {
		return errors.Errorf("no tag %q in document", tag)
	}
	from, to := int(t.From), int(t.To)
	if from < 0 || to >= len(a.sprite.Frames) || from > to {
		return errors.Errorf("tag %q spans frames [%d,%d] outside document of %d frames", tag, from, to, len(a.sprite.Frames))
	}

	atlasImg := a.Raster()
	q := quantize.MedianCutQuantizer{}
	out := &gif.GIF{}
	for fi := from; fi <= to; fi++ {
		frame := a.composeFrame(fi, atlasImg)
		pal := q.Quantize(make(color.Palette, 0, 256), frame)
		p := image.NewPaletted(frame.Bounds(), pal)
		draw.Draw(p, frame.Bounds(), frame, image.Point{}, draw.Src)
		out.Image = append(out.Image, p)
		out.Delay = append(out.Delay, a.durations[fi]/10) // centiseconds
	}

	if err := gif.EncodeAll(w, out); err != nil {
		return errors.Wrapf(err, "could not encode gif for tag %q", tag)
	}
	return nil
}
