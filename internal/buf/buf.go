// Package buf has bounds-checked helpers for picking big-endian fields
// out of mapped file buffers. Offsets and lengths come from the file
// itself, so every access is validated instead of trusted.
package buf

import (
	"encoding/binary"
	"math"
)

// U32BE reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32BE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// Add adds a and b, ok = false when the sum would overflow int.
func Add(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Mul multiplies non-negative a and b, ok = false when the product would
// overflow int. Sector offsets scale by the sector size before use, and
// a 24-bit offset times 4096 already exceeds a 32-bit int.
func Mul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// Slice returns the sub-slice [off:off+n] when it lies within b.
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 {
		return nil, false
	}
	end, ok := Add(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}
