package ase

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// readString reads a length-prefixed string: a 16-bit little-endian byte
// count followed by that many UTF-8 bytes.
func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", fmt.Errorf("could not read string length: %s", err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("could not read %d string bytes: %s", n, err)
	}
	return string(buf), nil
}

// readCString reads a NUL-terminated string, consuming the terminator.
//
// The format mostly uses length-prefixed strings; this exists for the few
// legacy records that are C-style.
func readCString(r *bytes.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", fmt.Errorf("could not read c-string byte: %s", err)
		}
		if b == 0 {
			return buf.String(), nil
		}
		buf.WriteByte(b)
	}
}

// readWire fills a fixed-width little-endian record.
func readWire(r *bytes.Reader, v interface{}) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("could not read %T: %s", v, err)
	}
	return nil
}

// bit reports whether bit i of flags is set.
func bit(flags uint32, i uint) bool {
	return flags&(1<<i) != 0
}
