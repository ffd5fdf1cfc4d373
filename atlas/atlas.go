// Package atlas reduces a decoded sprite document into a packed runtime
// asset: one raster holding each distinct cel bitmap once, a per-(layer,frame)
// animation record blob, and a JSON metadata sidecar.
package atlas

import (
	"image"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-asepack/ase"
)

// ErrMissingTags is returned when the document carries no tag table. The
// runtime consumer addresses animations by tag name, so a tagless document
// has no usable output.
var ErrMissingTags = errors.New("document carries no tag table")

// Atlas is the reduced form of a sprite document.
type Atlas struct {
	// Width and Height are the packed raster extent in pixels.
	Width, Height int

	sprite     *ase.Sprite
	usedLayers []*ase.Layer
	cels       [][]*ase.Cel // [used layer][frame], placeholders filled in
	repOf      map[*ase.Cel]*ase.Cel
	origin     map[*ase.Cel]image.Point
	flagBits   map[string]int
	layerProps []uint32
	records    []int16
	tags       map[string]ase.Tag
	durations  []int
}

// Reduce runs the whole pipeline over a decoded document.
func Reduce(s *ase.Sprite) (*Atlas, error) {
	if s.Tags == nil {
		return nil, ErrMissingTags
	}
	a := &Atlas{
		sprite: s,
		repOf:  map[*ase.Cel]*ase.Cel{},
		origin: map[*ase.Cel]image.Point{},
		tags:   s.Tags.Table(),
	}
	a.collectLayers()
	a.dedup()
	a.pack()
	a.buildFlags()
	if err := a.buildRecords(); err != nil {
		return nil, err
	}
	for _, f := range s.Frames {
		a.durations = append(a.durations, int(f.Duration))
	}
	glog.V(1).Infof("reduced %d frames, %d used layers into %dx%d atlas",
		len(s.Frames), len(a.usedLayers), a.Width, a.Height)
	return a, nil
}

// collectLayers picks the layers that participate in the output: a layer is
// used iff at least one user-data record is attached to it. For every used
// layer and every frame a cel is looked up by layer index; frames without one
// get a zero-extent placeholder so the grid stays rectangular.
func (a *Atlas) collectLayers() {
	for _, l := range a.sprite.Layers {
		if len(l.UserData) == 0 {
			continue
		}
		a.usedLayers = append(a.usedLayers, l)
		row := make([]*ase.Cel, len(a.sprite.Frames))
		for fi, f := range a.sprite.Frames {
			if c := f.Cel(l.Index); c != nil {
				row[fi] = c
			} else {
				row[fi] = &ase.Cel{LayerIndex: uint16(l.Index)}
			}
		}
		a.cels = append(a.cels, row)
	}
}

func fingerprint(pixels []byte) uint32 {
	return uint32(xxhash.Sum64(pixels))
}

// dedup maps every cel to its representative: the first cel, in frame-major
// order, with the same pixel fingerprint. Representatives map to themselves.
func (a *Atlas) dedup() {
	seen := map[uint32]*ase.Cel{}
	for fi := range a.sprite.Frames {
		for li := range a.usedLayers {
			c := a.cels[li][fi]
			h := fingerprint(c.Pixels)
			if rep, ok := seen[h]; ok {
				a.repOf[c] = rep
				continue
			}
			seen[h] = c
			a.repOf[c] = c
		}
	}
}

// pack places every non-empty representative into the output raster.
func (a *Atlas) pack() {
	var reps []*ase.Cel
	for fi := range a.sprite.Frames {
		for li := range a.usedLayers {
			c := a.cels[li][fi]
			if a.repOf[c] == c && !c.Empty() {
				reps = append(reps, c)
			}
		}
	}

	rects := make([]rect, len(reps))
	for i, c := range reps {
		rects[i] = rect{w: int(c.Width), h: int(c.Height)}
	}
	w, h, origins := packRects(rects)
	a.Width, a.Height = w, h
	for i, c := range reps {
		a.origin[c] = origins[i]
	}
}

// buildFlags assigns bit positions to flag tokens in layer order, then
// renders each used layer's token set as a bitmask. Tokens come from the
// first text field attached to the layer, split on "&" and trimmed; a token's
// bit is the order of its first appearance across layers.
func (a *Atlas) buildFlags() {
	a.flagBits = map[string]int{}
	for _, l := range a.usedLayers {
		for _, tok := range strings.Split(l.TagText(), "&") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if _, ok := a.flagBits[tok]; !ok {
				a.flagBits[tok] = len(a.flagBits)
			}
		}
	}
	for _, l := range a.usedLayers {
		var mask uint32
		for _, tok := range strings.Split(l.TagText(), "&") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			mask |= 1 << uint(a.flagBits[tok])
		}
		a.layerProps = append(a.layerProps, mask)
	}
}

// buildRecords emits six little-endian int16 values per (layer,frame) pair,
// layer-major: cel position and extent on the canvas, then the atlas origin
// of the cel's representative. Empty cels emit all zeros.
func (a *Atlas) buildRecords() error {
	for li := range a.usedLayers {
		for fi := range a.sprite.Frames {
			c := a.cels[li][fi]
			if c.Empty() {
				a.records = append(a.records, 0, 0, 0, 0, 0, 0)
				continue
			}
			rep := a.repOf[c]
			org, ok := a.origin[rep]
			if !ok {
				return errors.Errorf("internal: cel at layer %d frame %d has no atlas placement", c.LayerIndex, fi)
			}
			a.records = append(a.records,
				c.X, c.Y, int16(c.Width), int16(c.Height),
				int16(org.X), int16(org.Y))
		}
	}
	return nil
}

// UsedLayers returns the participating layers, in document order.
func (a *Atlas) UsedLayers() []*ase.Layer { return a.usedLayers }

// Records returns the animation record values, layer-major.
func (a *Atlas) Records() []int16 { return a.records }

// Flags returns the token-to-bit vocabulary.
func (a *Atlas) Flags() map[string]int {
	m := make(map[string]int, len(a.flagBits))
	for k, v := range a.flagBits {
		m[k] = v
	}
	return m
}

// TagNames returns the tag table's names, unordered.
func (a *Atlas) TagNames() []string {
	var names []string
	for name := range a.tags {
		names = append(names, name)
	}
	return names
}
