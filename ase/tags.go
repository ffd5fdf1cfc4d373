package ase

import (
	"bytes"
	"fmt"
)

// LoopDirection is a tag's playback behavior.
type LoopDirection uint8

const (
	LoopForward         LoopDirection = 0
	LoopReverse         LoopDirection = 1
	LoopPingPong        LoopDirection = 2
	LoopPingPongReverse LoopDirection = 3
)

// Tag is a named span of frames.
type Tag struct {
	From, To int16
	Loop     LoopDirection
	Repeat   uint16
	Color    [3]uint8
	Name     string
}

// TagsChunk is the document's tag table (0x2018).
type TagsChunk struct {
	userDataHolder

	Tags []Tag
}

func (t *TagsChunk) ChunkType() ChunkType { return ChunkTypeTags }

// Table flattens the chunk into a name-keyed map. Duplicate names overwrite
// earlier entries.
func (t *TagsChunk) Table() map[string]Tag {
	m := make(map[string]Tag, len(t.Tags))
	for _, tag := range t.Tags {
		m[tag.Name] = tag
	}
	return m
}

func (d *decoder) decodeTags(payload []byte, off int) (*TagsChunk, error) {
	r := bytes.NewReader(payload)
	var w struct {
		Count    uint16
		Reserved [8]uint8
	}
	if err := readWire(r, &w); err != nil {
		return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeTags, Reason: err.Error()}
	}

	t := &TagsChunk{}
	for i := 0; i < int(w.Count); i++ {
		var tw struct {
			From     int16
			To       int16
			Loop     uint8
			Repeat   uint16
			Reserved [6]uint8
			Color    [3]uint8
			Extra    uint8
		}
		if err := readWire(r, &tw); err != nil {
			return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeTags, Reason: fmt.Sprintf("tag %d: %s", i, err)}
		}
		name, err := readString(r)
		if err != nil {
			return nil, &MalformedFormatError{Offset: int64(off), Chunk: ChunkTypeTags, Reason: fmt.Sprintf("tag %d name: %s", i, err)}
		}
		t.Tags = append(t.Tags, Tag{
			From:   tw.From,
			To:     tw.To,
			Loop:   LoopDirection(tw.Loop),
			Repeat: tw.Repeat,
			Color:  tw.Color,
			Name:   name,
		})
	}
	return t, nil
}
