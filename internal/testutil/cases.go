package testutil

import (
	"bytes"
	"encoding/binary"
)

// HeaderBytes returns n bytes whose first byte is version. n below 17
// yields a truncated header.
func HeaderBytes(version byte, n int) []byte {
	b := make([]byte, n)
	if n > 0 {
		b[0] = version
	}
	return b
}

// MinimalCase returns a complete v1 case with no inputs and no labels.
func MinimalCase(seed uint64) []byte {
	var b bytes.Buffer
	b.WriteByte(1)
	_ = binary.Write(&b, binary.LittleEndian, seed)
	_ = binary.Write(&b, binary.LittleEndian, uint32(0))
	_ = binary.Write(&b, binary.LittleEndian, uint16(0))
	_ = binary.Write(&b, binary.LittleEndian, uint16(0))
	b.Write(bytes.Repeat([]byte{0x02}, 33))
	b.Write(bytes.Repeat([]byte{0x03}, 33))
	_ = binary.Write(&b, binary.LittleEndian, uint16(0))
	return b.Bytes()
}
