package nbt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/worldtools/mapkit/internal/mutf8"
)

// Encode writes tag to w as a named binary stream, the inverse of
// Decode. Compound children are written in sorted name order, so two
// equal trees always encode to identical bytes. Readers of the format do
// not depend on child order.
func Encode(w io.Writer, name string, tag Tag) error {
	if tag == nil {
		return fmt.Errorf("nbt: encoding nil tag")
	}
	e := &encoder{w: bufio.NewWriter(w)}
	if err := e.writeNamed(name, tag, 0); err != nil {
		return err
	}
	return e.w.Flush()
}

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) writeNamed(name string, tag Tag, depth int) error {
	if err := e.w.WriteByte(byte(tag.Type())); err != nil {
		return err
	}
	if err := e.writeString(name); err != nil {
		return err
	}
	return e.writePayload(tag, depth)
}

func (e *encoder) writeU16(v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := e.w.Write(buf[:])
	return err
}

func (e *encoder) writeU32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := e.w.Write(buf[:])
	return err
}

func (e *encoder) writeU64(v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := e.w.Write(buf[:])
	return err
}

func (e *encoder) writeString(s string) error {
	b, err := mutf8.Encode(s)
	if err != nil {
		return err
	}
	if len(b) > math.MaxUint16 {
		return fmt.Errorf("nbt: string too long (%d bytes)", len(b))
	}
	if err := e.writeU16(uint16(len(b))); err != nil {
		return err
	}
	_, err = e.w.Write(b)
	return err
}

func (e *encoder) writeLen(n int) error {
	if n > maxArray {
		return fmt.Errorf("nbt: array too long (%d)", n)
	}
	return e.writeU32(uint32(n))
}

func (e *encoder) writePayload(tag Tag, depth int) error {
	if depth > maxDepth {
		return ErrTooDeep
	}
	switch t := tag.(type) {
	case Byte:
		return e.w.WriteByte(byte(t))
	case Short:
		return e.writeU16(uint16(t))
	case Int:
		return e.writeU32(uint32(t))
	case Long:
		return e.writeU64(uint64(t))
	case Float:
		return e.writeU32(math.Float32bits(float32(t)))
	case Double:
		return e.writeU64(math.Float64bits(float64(t)))
	case ByteArray:
		if err := e.writeLen(len(t)); err != nil {
			return err
		}
		_, err := e.w.Write(t)
		return err
	case String:
		return e.writeString(string(t))
	case List:
		elem := t.elemType()
		if err := e.w.WriteByte(byte(elem)); err != nil {
			return err
		}
		if err := e.writeLen(len(t.Items)); err != nil {
			return err
		}
		for _, item := range t.Items {
			if item.Type() != elem {
				return fmt.Errorf("nbt: mixed list: %s element in a list of %s",
					item.Type(), elem)
			}
			if err := e.writePayload(item, depth+1); err != nil {
				return err
			}
		}
		return nil
	case Compound:
		for _, key := range sortedKeys(t) {
			if err := e.writeNamed(key, t[key], depth+1); err != nil {
				return err
			}
		}
		return e.w.WriteByte(byte(TypeEnd))
	case IntArray:
		if err := e.writeLen(len(t)); err != nil {
			return err
		}
		for _, v := range t {
			if err := e.writeU32(uint32(v)); err != nil {
				return err
			}
		}
		return nil
	case LongArray:
		if err := e.writeLen(len(t)); err != nil {
			return err
		}
		for _, v := range t {
			if err := e.writeU64(uint64(v)); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnknownType, tag)
}
