package ase

import (
	"fmt"
	"image"
	"image/draw"
)

// Rect returns the document canvas rectangle.
func (s *Sprite) Rect() image.Rectangle {
	return image.Rect(0, 0, int(s.Header.Width), int(s.Header.Height))
}

// RenderFrame composites one frame onto a canvas-sized raster: every
// non-empty cel of a visible layer is drawn at its position, in chunk order.
// This is a preview aid; the packed atlas is produced elsewhere and does not
// go through here.
func (s *Sprite) RenderFrame(i int) (*image.NRGBA, error) {
	if i < 0 || i >= len(s.Frames) {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", i, len(s.Frames))
	}
	canvas := image.NewNRGBA(s.Rect())
	for _, ch := range s.Frames[i].Chunks {
		cel, ok := ch.(*Cel)
		if !ok || cel.Empty() {
			continue
		}
		if li := int(cel.LayerIndex); li < len(s.Layers) && !s.Layers[li].Visible {
			continue
		}
		src := &image.NRGBA{
			Pix:    cel.Pixels,
			Stride: int(cel.Width) * 4,
			Rect:   image.Rect(0, 0, int(cel.Width), int(cel.Height)),
		}
		dst := image.Rect(int(cel.X), int(cel.Y), int(cel.X)+int(cel.Width), int(cel.Y)+int(cel.Height))
		draw.Draw(canvas, dst, src, image.Point{}, draw.Over)
	}
	return canvas, nil
}
