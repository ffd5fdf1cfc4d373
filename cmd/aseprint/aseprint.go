// Command aseprint prints a sprite document on the terminal: a composited
// frame, or the packed atlas the reducer would emit. UNSUPPORTED debug tool.
package main

import (
	"flag"
	"image"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-asepack/ase"
	"badc0de.net/pkg/go-asepack/atlas"
	"badc0de.net/pkg/go-asepack/imageprint"
	"badc0de.net/pkg/go-asepack/paths"
)

var (
	frame     = flag.Int("frame", 0, "frame to print")
	showAtlas = flag.Bool("atlas", false, "print the packed atlas instead of a frame")
	col256    = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm     = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm   = flag.Bool("rasterm", false, "whether to print with kitty/sixel escape codes instead of 24 bit")
	blanks    = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")

	filePath string
)

func out(img image.Image) {
	img = imageprint.Checkerboard(img, 8)
	switch {
	case *iterm:
		imageprint.PrintITerm(img, "sprite.png")
	case *rasterm:
		imageprint.PrintRasTerm(img)
	case *col256:
		imageprint.Print256Color(imageprint.FitTerminal(img), *blanks)
	default:
		imageprint.Print24bit(imageprint.FitTerminal(img), *blanks)
	}
}

func main() {
	paths.SetupFilePathFlag("sprite.aseprite", "file", &filePath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if filePath == "" {
		glog.Exit("pass -file with a sprite document")
	}

	f, err := paths.Open(filePath)
	if err != nil {
		glog.Exit(err)
	}
	defer f.Close()

	s, err := ase.Decode(f)
	if err != nil {
		glog.Exit(err)
	}

	if *showAtlas {
		a, err := atlas.Reduce(s)
		if err != nil {
			glog.Exit(err)
		}
		out(a.Raster())
		return
	}

	img, err := s.RenderFrame(*frame)
	if err != nil {
		glog.Exit(err)
	}
	out(img)
}
