package ot

import (
	"fmt"
	"math"
)

// Reading bytes from a font's binary representation

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// binarySegm is a segment of byte data.
// We use it throughout this module to navigate the font's binary data. All
// accessors are bounds-checked and report ErrOutOfBounds instead of panicking.
type binarySegm []byte

// Size returns the length of the segment in bytes.
func (b binarySegm) Size() int {
	return len(b)
}

// Bytes returns the segment as a plain byte slice.
func (b binarySegm) Bytes() []byte {
	return b
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset > len(b) || n > len(b)-offset {
		return nil, outOfBounds(offset, n, len(b))
	}
	return b[offset : offset+n], nil
}

// from returns the tail of b, starting at offset.
func (b binarySegm) from(offset int) (binarySegm, error) {
	if offset < 0 || offset > len(b) {
		return nil, outOfBounds(offset, 0, len(b))
	}
	return b[offset:], nil
}

// u8 returns the byte in b at the relative offset i.
func (b binarySegm) u8(i int) (uint8, error) {
	buf, err := b.view(i, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// i16 returns the int16 in b at the relative offset i.
func (b binarySegm) i16(i int) (int16, error) {
	n, err := b.u16(i)
	return int16(n), err
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// pascalString reads a length-prefixed string at offset i. It returns the
// number of string bytes (not counting the length byte) and the string.
func (b binarySegm) pascalString(i int) (int, string, error) {
	n, err := b.u8(i)
	if err != nil {
		return 0, "", err
	}
	s, err := b.view(i+1, int(n))
	if err != nil {
		return 0, "", err
	}
	return int(n), string(s), nil
}

// fixedString reads a string of exactly n bytes at offset i.
func (b binarySegm) fixedString(i, n int) (string, error) {
	s, err := b.view(i, n)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// U16 is a convenience accessor returning 0 for out-of-bounds reads.
func (b binarySegm) U16(i int) uint16 {
	n, err := b.u16(i)
	if err != nil {
		return 0
	}
	return n
}

// U32 is a convenience accessor returning 0 for out-of-bounds reads.
func (b binarySegm) U32(i int) uint32 {
	n, err := b.u32(i)
	if err != nil {
		return 0
	}
	return n
}

// ---------------------------------------------------------------------------

// Checked arithmetic operations to prevent integer overflow

// checkedMulInt checks for overflow in multiplication of two non-negative integers
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a < 0 || b < 0 || a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddInt checks for overflow in addition of two integers
func checkedAddInt(a, b int) (int, error) {
	if b > 0 && a > math.MaxInt-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	if b < 0 && a < math.MinInt-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}
