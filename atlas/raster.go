package atlas

import (
	"image"
	"image/png"
	"io"

	"github.com/pkg/errors"
)

// Raster renders the packed atlas bitmap. Each representative's pixel rows
// are copied verbatim into the output at its placement; deduplicated cels
// contribute nothing of their own.
func (a *Atlas) Raster() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, a.Width, a.Height))
	for rep, org := range a.origin {
		w := int(rep.Width)
		for row := 0; row < int(rep.Height); row++ {
			src := rep.Pixels[row*w*4 : (row+1)*w*4]
			dst := img.PixOffset(org.X, org.Y+row)
			copy(img.Pix[dst:dst+w*4], src)
		}
	}
	return img
}

// EncodePNG writes the atlas bitmap as PNG.
func (a *Atlas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, a.Raster()); err != nil {
		return errors.Wrap(err, "could not encode atlas")
	}
	return nil
}
