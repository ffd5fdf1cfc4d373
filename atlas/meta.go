package atlas

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Metadata is the JSON sidecar describing the reduced asset. A runtime
// consumer needs nothing but this, the atlas bitmap and the animation record
// blob.
type Metadata struct {
	// Extent is the atlas bitmap size, [width, height].
	Extent [2]int `json:"extent"`

	FrameCount int `json:"frame_count"`

	// Anims maps tag name to [from, to, loop direction, repeat count].
	Anims map[string][4]int `json:"anims"`

	// Flags maps flag token to its bit position in LayersProps masks.
	Flags map[string]int `json:"flags"`

	// LayersProps holds one flag bitmask per used layer, in document order.
	LayersProps []uint32 `json:"layers_props"`

	// FrameDurations holds per-frame display durations in milliseconds.
	FrameDurations []int `json:"frame_durations"`
}

// Metadata assembles the sidecar.
func (a *Atlas) Metadata() Metadata {
	anims := make(map[string][4]int, len(a.tags))
	for name, t := range a.tags {
		anims[name] = [4]int{int(t.From), int(t.To), int(t.Loop), int(t.Repeat)}
	}
	props := append([]uint32(nil), a.layerProps...)
	if props == nil {
		props = []uint32{}
	}
	durations := append([]int(nil), a.durations...)
	if durations == nil {
		durations = []int{}
	}
	return Metadata{
		Extent:         [2]int{a.Width, a.Height},
		FrameCount:     len(a.sprite.Frames),
		Anims:          anims,
		Flags:          a.Flags(),
		LayersProps:    props,
		FrameDurations: durations,
	}
}

// EncodeMetadata writes the sidecar as indented JSON. Map keys come out
// sorted, so the output is byte-stable for a given document.
func (a *Atlas) EncodeMetadata(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.Metadata()); err != nil {
		return errors.Wrap(err, "could not encode metadata")
	}
	return nil
}

// SortedTagNames returns the tag table's names in lexical order.
func (a *Atlas) SortedTagNames() []string {
	names := a.TagNames()
	sort.Strings(names)
	return names
}
