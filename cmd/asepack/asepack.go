// Command asepack reduces sprite documents into packed runtime assets: an
// atlas PNG, an animation record blob and a JSON metadata sidecar per input
// document. Optionally previews the packed atlas on the terminal.
package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-asepack/ase"
	"badc0de.net/pkg/go-asepack/atlas"
	"badc0de.net/pkg/go-asepack/imageprint"
	"badc0de.net/pkg/go-asepack/paths"
)

var (
	in      = flag.String("in", "", "sprite document or directory of documents to reduce")
	outDir  = flag.String("out_dir", ".", "directory to write the reduced assets into")
	jobs    = flag.Int("jobs", 4, "how many documents to reduce in parallel")
	gifTags = flag.Bool("gif_tags", false, "whether to also export every tag as an animated gif")

	preview = flag.Bool("preview", false, "whether to print the packed atlas on the terminal")
	col256  = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm   = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm = flag.Bool("rasterm", false, "whether to print with kitty/sixel escape codes instead of 24 bit")
	blanks  = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
)

func reduceFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s, err := ase.DecodeBytes(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %s", path, err)
	}
	a, err := atlas.Reduce(s)
	if err != nil {
		return fmt.Errorf("reducing %s: %s", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base := filepath.Join(*outDir, name)

	if err := writeTo(base+".png", a.EncodePNG); err != nil {
		return err
	}
	if err := writeTo(base+".json", a.EncodeMetadata); err != nil {
		return err
	}
	if err := writeTo(base+".anim", a.EncodeAnim); err != nil {
		return err
	}
	if *gifTags {
		for _, tag := range a.SortedTagNames() {
			tag := tag
			if err := writeTo(base+"."+tag+".gif", func(w io.Writer) error {
				return a.EncodeTagGIF(w, tag)
			}); err != nil {
				return err
			}
		}
	}

	glog.Infof("%s: %d frames, %d used layers, %dx%d atlas", path, len(s.Frames), len(a.UsedLayers()), a.Width, a.Height)

	if *preview {
		out(a.Raster())
	}
	return nil
}

func writeTo(path string, enc func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := enc(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %s", path, err)
	}
	return f.Close()
}

func out(img image.Image) {
	img = imageprint.Checkerboard(img, 8)
	switch {
	case *iterm:
		imageprint.PrintITerm(img, "atlas.png")
	case *rasterm:
		imageprint.PrintRasTerm(img)
	case *col256:
		imageprint.Print256Color(imageprint.FitTerminal(img), *blanks)
	default:
		imageprint.Print24bit(imageprint.FitTerminal(img), *blanks)
	}
}

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if *in == "" {
		glog.Exit("pass -in with a sprite document or a directory")
	}

	st, err := os.Stat(*in)
	if err != nil {
		glog.Exit(err)
	}

	var inputs []string
	if st.IsDir() {
		files, err := paths.ListSpriteFiles(*in)
		if err != nil {
			glog.Exit(err)
		}
		for _, f := range files {
			inputs = append(inputs, filepath.Join(*in, f))
		}
	} else {
		inputs = []string{*in}
	}
	if len(inputs) == 0 {
		glog.Exit("no sprite documents found under ", *in)
	}

	var g errgroup.Group
	g.SetLimit(*jobs)
	for _, path := range inputs {
		path := path
		g.Go(func() error {
			return reduceFile(path)
		})
	}
	if err := g.Wait(); err != nil {
		glog.Exit(err)
	}
}
