package ase

// This file hooks the decoder into the image package's registry, so that
// image.Decode recognizes sprite files by their header magic.

import (
	"image"
	"image/color"
	"io"
)

func init() {
	// The magic word 0xA5E0 sits at offset 4, after the file size.
	image.RegisterFormat("ase", "????\xe0\xa5", DecodeImage, DecodeConfig)
}

// DecodeConfig returns the canvas geometry and color model without decoding
// the frames.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data := make([]byte, fileHeaderSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return image.Config{}, &MalformedFormatError{Offset: 0, Reason: "file too short for header"}
	}
	d := decoder{data: data, sprite: &Sprite{}}
	if _, err := d.decodeHeader(); err != nil {
		return image.Config{}, err
	}
	h := d.sprite.Header

	var model color.Model
	switch h.ColorDepth {
	case 16:
		model = color.Gray16Model
	default:
		model = color.NRGBAModel
	}
	return image.Config{ColorModel: model, Width: int(h.Width), Height: int(h.Height)}, nil
}

// DecodeImage decodes the document and returns its first frame, composited.
func DecodeImage(r io.Reader) (image.Image, error) {
	s, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if len(s.Frames) == 0 {
		return nil, &MalformedFormatError{Offset: fileHeaderSize, Reason: "document declares no frames"}
	}
	return s.RenderFrame(0)
}
