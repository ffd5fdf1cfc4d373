package ase

import "fmt"

// MalformedFormatError reports a structural invariant violation: a declared
// size that exceeds the remaining buffer, a bad magic value, or a count field
// implying an out-of-range read. It cites the byte offset and, where known,
// the chunk type being interpreted when the violation was found.
type MalformedFormatError struct {
	Offset int64
	Chunk  ChunkType
	Reason string
}

func (e *MalformedFormatError) Error() string {
	if e.Chunk != 0 {
		return fmt.Sprintf("malformed sprite file at offset %d (chunk %s): %s", e.Offset, e.Chunk, e.Reason)
	}
	return fmt.Sprintf("malformed sprite file at offset %d: %s", e.Offset, e.Reason)
}

// UnsupportedCelTypeError reports a cel whose type selector names a pixel
// representation the decoder does not handle (tilemap cels, or any selector
// outside the known set).
type UnsupportedCelTypeError struct {
	Offset int64
	Type   CelType
}

func (e *UnsupportedCelTypeError) Error() string {
	return fmt.Sprintf("unsupported cel type %d at offset %d", e.Type, e.Offset)
}

// DanglingLinkedCelError reports a linked cel whose (frame, layer) reference
// does not resolve to an already-decoded cel.
type DanglingLinkedCelError struct {
	Offset int64
	Frame  int
	Layer  int
}

func (e *DanglingLinkedCelError) Error() string {
	return fmt.Sprintf("linked cel at offset %d references frame %d layer %d, which holds no decoded cel", e.Offset, e.Frame, e.Layer)
}
