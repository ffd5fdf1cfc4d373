package ase

const (
	headerMagic = 0xA5E0
	frameMagic  = 0xF1FA

	fileHeaderSize  = 128
	frameHeaderSize = 16
	chunkHeaderSize = 6
)

// fileHeader is the 128-byte fixed region at the start of the file, as laid
// out on the wire. The reserved fields must be read to keep the stream
// aligned even though they carry no meaning.
type fileHeader struct {
	FileSize         uint32
	Magic            uint16
	FrameCount       uint16
	Width            uint16
	Height           uint16
	ColorDepth       uint16
	Flags            uint32
	Speed            uint16 // deprecated; per-frame durations are authoritative
	Reserved1        uint32
	Reserved2        uint32
	TransparentIndex uint8
	Ignored          [3]uint8
	ColorCount       uint16
	PixelWidth       uint8
	PixelHeight      uint8
	GridX            int16
	GridY            int16
	GridWidth        uint16
	GridHeight       uint16
	Future           [84]uint8
}

// Header carries the decoded document-level geometry. It is immutable once
// decoded.
type Header struct {
	FrameCount       uint16
	Width            uint16
	Height           uint16
	ColorDepth       uint16 // bits per pixel: 32 RGBA, 16 grayscale, 8 indexed
	Flags            uint32
	TransparentIndex uint8
	ColorCount       uint16
	PixelWidth       uint8
	PixelHeight      uint8
	GridX            int16
	GridY            int16
	GridWidth        uint16
	GridHeight       uint16
}

func (fh fileHeader) header() Header {
	return Header{
		FrameCount:       fh.FrameCount,
		Width:            fh.Width,
		Height:           fh.Height,
		ColorDepth:       fh.ColorDepth,
		Flags:            fh.Flags,
		TransparentIndex: fh.TransparentIndex,
		ColorCount:       fh.ColorCount,
		PixelWidth:       fh.PixelWidth,
		PixelHeight:      fh.PixelHeight,
		GridX:            fh.GridX,
		GridY:            fh.GridY,
		GridWidth:        fh.GridWidth,
		GridHeight:       fh.GridHeight,
	}
}

// Colors returns the declared color count, resolving the legacy encoding in
// which a stored zero means 256.
func (h Header) Colors() int {
	if h.ColorCount == 0 {
		return 256
	}
	return int(h.ColorCount)
}

// frameHeader is the 16-byte record in front of every frame's chunks.
type frameHeader struct {
	Size             uint32
	Magic            uint16
	ChunkCountLegacy uint16
	Duration         uint16 // milliseconds
	Reserved         [2]uint8
	ChunkCount       uint32
}
