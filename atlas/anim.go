package atlas

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// AnimBytes serializes the animation records as little-endian int16 values,
// six per (layer,frame) pair, layer-major.
func (a *Atlas) AnimBytes() []byte {
	out := make([]byte, 2*len(a.records))
	for i, v := range a.records {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

// EncodeAnim writes the animation record blob.
func (a *Atlas) EncodeAnim(w io.Writer) error {
	if _, err := w.Write(a.AnimBytes()); err != nil {
		return errors.Wrap(err, "could not write animation records")
	}
	return nil
}
