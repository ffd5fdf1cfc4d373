// Package imageprint renders sprite rasters on a terminal, for eyeballing
// atlases and frames without leaving the shell. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/draw"
	"image/png"

	"github.com/bradfitz/iter"
	"github.com/gookit/color"
)

type dumper interface {
	Printf(s string, arg ...interface{})
}
type fmtDumperT struct{}

func (fmtDumperT) Printf(s string, arg ...interface{}) {
	fmt.Printf(s, arg...)
}

var fmtDumper fmtDumperT

func shade(col ic.Color, escapesTrueColor, blanks, noColor bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		fmt.Printf("\x1b[0m  ")
		return
	}

	var d dumper
	if noColor {
		d = &fmtDumper
	} else if escapesTrueColor {
		fmt.Printf("\x1b[48;2;%d;%d;%dm", uint8(cR>>8), uint8(cG>>8), uint8(cB>>8))
		d = &fmtDumper
	} else {
		d = color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true)
	}
	if blanks {
		d.Printf("  ")
	} else {
		a := ((cR + cG + cB) / 3) >> 8
		switch {
		case a < 32:
			d.Printf("..")
		case a < 64:
			d.Printf("--")
		case a < 128:
			d.Printf("==")
		default:
			d.Printf("##")
		}
	}
	if escapesTrueColor {
		fmt.Printf("\x1b[0m")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(i.At(x, y), false, blanks, false)
		}
		fmt.Printf("\x1b[0m\n")
	}
}

// Print24bit draws an image using 24bit color escape sequences by changing
// the cell background.
func Print24bit(i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(i.At(x, y), true, blanks, false)
		}
		fmt.Printf("\x1b[0m\n")
	}
}

// PrintNoColor draws an image without color escape sequences. Only makes
// sense with blanks=false.
func PrintNoColor(i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(i.At(x, y), true, blanks, true)
		}
		fmt.Printf("\n")
	}
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(i image.Image, fn string) {
	if !isTermItermWez() {
		return
	}
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	png.Encode(bEnc, i)
	bEnc.Close()
	fmt.Printf("\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
}

// Checkerboard composites the image over a gray checkerboard with the given
// cell size, so fully transparent atlas regions read as such instead of
// blending into the terminal background.
func Checkerboard(i image.Image, cell int) *image.NRGBA {
	if cell < 1 {
		cell = 8
	}
	b := i.Bounds()
	out := image.NewNRGBA(b)
	light := ic.NRGBA{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF}
	dark := ic.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	for y := range iter.N(b.Dy()) {
		for x := range iter.N(b.Dx()) {
			c := light
			if (x/cell+y/cell)%2 == 1 {
				c = dark
			}
			out.SetNRGBA(b.Min.X+x, b.Min.Y+y, c)
		}
	}
	draw.Draw(out, b, i, b.Min, draw.Over)
	return out
}
