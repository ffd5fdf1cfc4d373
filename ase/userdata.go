package ase

import (
	"bytes"
	"fmt"
)

// UserData is a free-form annotation folded into the content chunk decoded
// immediately before it. Extended key/value property maps are intentionally
// not decoded; their bytes are read past and discarded.
type UserData struct {
	Flags    uint32
	HasText  bool
	Text     string
	HasColor bool
	Color    [4]uint8
}

func (d *decoder) decodeUserData(payload []byte, off int) (UserData, error) {
	r := bytes.NewReader(payload)
	var flags uint32
	if err := readWire(r, &flags); err != nil {
		return UserData{}, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeUserData, Reason: err.Error()}
	}

	ud := UserData{Flags: flags}
	if bit(flags, 0) {
		text, err := readString(r)
		if err != nil {
			return UserData{}, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeUserData, Reason: fmt.Sprintf("could not read text: %s", err)}
		}
		ud.HasText = true
		ud.Text = text
	}
	if bit(flags, 1) {
		var col [4]uint8
		if err := readWire(r, &col); err != nil {
			return UserData{}, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeUserData, Reason: fmt.Sprintf("could not read color: %s", err)}
		}
		ud.HasColor = true
		ud.Color = col
	}
	return ud, nil
}
