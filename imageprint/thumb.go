package imageprint

import (
	"image"
	"os"

	"github.com/nfnt/resize"
	"golang.org/x/crypto/ssh/terminal"
)

// Thumbnail scales the image down to at most maxW pixels wide, preserving
// aspect ratio. Images already narrow enough pass through untouched; sprite
// art is never scaled up.
func Thumbnail(i image.Image, maxW int) image.Image {
	if maxW <= 0 || i.Bounds().Dx() <= maxW {
		return i
	}
	return resize.Resize(uint(maxW), 0, i, resize.NearestNeighbor)
}

// FitTerminal scales the image so the two-characters-per-pixel ascii
// printers fit the current terminal width. Without a terminal it assumes 80
// columns.
func FitTerminal(i image.Image) image.Image {
	cols, _, err := terminal.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 {
		cols = 80
	}
	return Thumbnail(i, cols/2)
}
