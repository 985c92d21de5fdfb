// Package mutf8 implements the modified UTF-8 encoding used by NBT string
// payloads.
//
// Modified UTF-8 differs from standard UTF-8 in two ways: the NUL code point
// is written as the two-byte sequence 0xC0 0x80, and code points outside the
// Basic Multilingual Plane are written as a UTF-16 surrogate pair with each
// half encoded as an independent three-byte sequence. The package exposes the
// codec both as an x/text encoding.Encoding (for streaming through
// transform.Reader/Writer) and as Decode/Encode convenience functions for the
// short, length-prefixed strings NBT actually carries.
package mutf8

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// MUTF8 is the modified UTF-8 encoding.
var MUTF8 encoding.Encoding = codec{}

type codec struct{}

func (codec) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: mutf8Decoder{}}
}

func (codec) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: mutf8Encoder{}}
}

// Decode converts modified UTF-8 bytes to a standard UTF-8 string.
// Malformed sequences decode to utf8.RuneError rather than failing: NBT
// strings come from files this tool does not control, and a single mangled
// name must not abort a whole store scan.
func Decode(b []byte) (string, error) {
	out, _, err := transform.Bytes(mutf8Decoder{}, b)
	return string(out), err
}

// Encode converts a standard UTF-8 string to modified UTF-8 bytes.
func Encode(s string) ([]byte, error) {
	out, _, err := transform.Bytes(mutf8Encoder{}, []byte(s))
	return out, err
}

const (
	surrMin = 0xD800 // first high surrogate
	surrMid = 0xDC00 // first low surrogate
	surrMax = 0xE000 // one past the last low surrogate
)

// mutf8Decoder transforms modified UTF-8 into standard UTF-8.
type mutf8Decoder struct{}

func (mutf8Decoder) Reset() {}

func (mutf8Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b0 := src[nSrc]

		var (
			r    rune
			size int
		)
		switch {
		case b0 < 0x80:
			// Plain ASCII. A raw NUL never appears in well-formed
			// modified UTF-8 but decodes harmlessly.
			r, size = rune(b0), 1

		case b0&0xE0 == 0xC0:
			if nSrc+2 > len(src) {
				if !atEOF {
					return nDst, nSrc, transform.ErrShortSrc
				}
				r, size = utf8.RuneError, len(src)-nSrc
				break
			}
			b1 := src[nSrc+1]
			if b1&0xC0 != 0x80 {
				r, size = utf8.RuneError, 1
				break
			}
			// Covers the 0xC0 0x80 escape for NUL, which yields rune 0.
			r, size = rune(b0&0x1F)<<6|rune(b1&0x3F), 2

		case b0&0xF0 == 0xE0:
			if nSrc+3 > len(src) {
				if !atEOF {
					return nDst, nSrc, transform.ErrShortSrc
				}
				r, size = utf8.RuneError, len(src)-nSrc
				break
			}
			b1, b2 := src[nSrc+1], src[nSrc+2]
			if b1&0xC0 != 0x80 || b2&0xC0 != 0x80 {
				r, size = utf8.RuneError, 1
				break
			}
			r, size = rune(b0&0x0F)<<12|rune(b1&0x3F)<<6|rune(b2&0x3F), 3

			if r >= surrMin && r < surrMid {
				// High surrogate: a low surrogate in another three-byte
				// sequence must follow to form a supplementary code point.
				if nSrc+6 > len(src) {
					if !atEOF {
						return nDst, nSrc, transform.ErrShortSrc
					}
					r = utf8.RuneError
					break
				}
				lo, ok := decodeSurrogateHalf(src[nSrc+3:])
				if ok && lo >= surrMid && lo < surrMax {
					r = utf16.DecodeRune(r, lo)
					size = 6
				} else {
					r = utf8.RuneError
				}
			} else if r >= surrMid && r < surrMax {
				// Unpaired low surrogate.
				r = utf8.RuneError
			}

		default:
			// Four-byte UTF-8 leads and stray continuation bytes do not
			// occur in modified UTF-8.
			r, size = utf8.RuneError, 1
		}

		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}

// decodeSurrogateHalf decodes one three-byte sequence and reports whether it
// was structurally valid. The caller checks the surrogate range.
func decodeSurrogateHalf(b []byte) (rune, bool) {
	if len(b) < 3 || b[0]&0xF0 != 0xE0 || b[1]&0xC0 != 0x80 || b[2]&0xC0 != 0x80 {
		return 0, false
	}
	return rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F), true
}

// mutf8Encoder transforms standard UTF-8 into modified UTF-8.
type mutf8Encoder struct{}

func (mutf8Encoder) Reset() {}

func (mutf8Encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			// Invalid input byte: encode the replacement character.
		}

		var need int
		switch {
		case r == 0:
			need = 2
		case r < 0x80:
			need = 1
		case r < 0x800:
			need = 2
		case r <= 0xFFFF:
			need = 3
		default:
			need = 6
		}
		if nDst+need > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		switch {
		case r == 0:
			dst[nDst] = 0xC0
			dst[nDst+1] = 0x80
		case r < 0x80:
			dst[nDst] = byte(r)
		case r < 0x800:
			dst[nDst] = 0xC0 | byte(r>>6)
			dst[nDst+1] = 0x80 | byte(r)&0x3F
		case r <= 0xFFFF:
			putThreeByte(dst[nDst:], r)
		default:
			hi, lo := utf16.EncodeRune(r)
			putThreeByte(dst[nDst:], hi)
			putThreeByte(dst[nDst+3:], lo)
		}
		nDst += need
		nSrc += size
	}
	return nDst, nSrc, nil
}

func putThreeByte(dst []byte, r rune) {
	dst[0] = 0xE0 | byte(r>>12)
	dst[1] = 0x80 | byte(r>>6)&0x3F
	dst[2] = 0x80 | byte(r)&0x3F
}
