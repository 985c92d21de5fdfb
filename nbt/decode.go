package nbt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/worldtools/mapkit/internal/mutf8"
)

const (
	// maxDepth bounds nesting so corrupt input cannot recurse forever.
	maxDepth = 512
	// maxArray bounds a single declared array or list length, far above
	// anything a real record contains.
	maxArray = 1 << 24
)

// Decode reads one named tag from r. The stream starts with the tag type
// byte; record files and chunk payloads store a single named compound at
// the root. Decompression, if any, is the caller's job.
func Decode(r io.Reader) (string, Tag, error) {
	d := &decoder{r: bufio.NewReader(r)}
	typ, err := d.r.ReadByte()
	if err != nil {
		return "", nil, fmt.Errorf("nbt: reading root type: %w", err)
	}
	t := Type(typ)
	if t == TypeEnd || !t.Valid() {
		return "", nil, fmt.Errorf("%w: root tag type 0x%02x", ErrCorrupt, typ)
	}
	name, err := d.readString()
	if err != nil {
		return "", nil, fmt.Errorf("nbt: reading root name: %w", err)
	}
	tag, err := d.readPayload(t, 0)
	if err != nil {
		return "", nil, fmt.Errorf("nbt: decoding %s %q: %w", t, name, err)
	}
	return name, tag, nil
}

type decoder struct {
	r *bufio.Reader
}

func (d *decoder) read(buf []byte) error {
	_, err := io.ReadFull(d.r, buf)
	return err
}

func (d *decoder) readU16() (uint16, error) {
	var buf [2]byte
	if err := d.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (d *decoder) readU32() (uint32, error) {
	var buf [4]byte
	if err := d.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func (d *decoder) readU64() (uint64, error) {
	var buf [8]byte
	if err := d.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func (d *decoder) readString() (string, error) {
	n, err := d.readU16()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if err := d.read(buf); err != nil {
		return "", err
	}
	return mutf8.Decode(buf)
}

// readLen reads a signed 32-bit array or list length and rejects values
// outside the sane range.
func (d *decoder) readLen() (int, error) {
	v, err := d.readU32()
	if err != nil {
		return 0, err
	}
	n := int(int32(v))
	if n < 0 || n > maxArray {
		return 0, fmt.Errorf("%w: length %d out of range", ErrCorrupt, n)
	}
	return n, nil
}

func (d *decoder) readPayload(t Type, depth int) (Tag, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	switch t {
	case TypeByte:
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		return Byte(b), nil
	case TypeShort:
		v, err := d.readU16()
		if err != nil {
			return nil, err
		}
		return Short(int16(v)), nil
	case TypeInt:
		v, err := d.readU32()
		if err != nil {
			return nil, err
		}
		return Int(int32(v)), nil
	case TypeLong:
		v, err := d.readU64()
		if err != nil {
			return nil, err
		}
		return Long(int64(v)), nil
	case TypeFloat:
		v, err := d.readU32()
		if err != nil {
			return nil, err
		}
		return Float(math.Float32frombits(v)), nil
	case TypeDouble:
		v, err := d.readU64()
		if err != nil {
			return nil, err
		}
		return Double(math.Float64frombits(v)), nil
	case TypeByteArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if err := d.read(buf); err != nil {
			return nil, err
		}
		return ByteArray(buf), nil
	case TypeString:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case TypeList:
		return d.readList(depth)
	case TypeCompound:
		return d.readCompound(depth)
	case TypeIntArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		arr := make(IntArray, n)
		for i := range arr {
			v, err := d.readU32()
			if err != nil {
				return nil, err
			}
			arr[i] = int32(v)
		}
		return arr, nil
	case TypeLongArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		arr := make(LongArray, n)
		for i := range arr {
			v, err := d.readU64()
			if err != nil {
				return nil, err
			}
			arr[i] = int64(v)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownType, byte(t))
}

func (d *decoder) readList(depth int) (Tag, error) {
	elemByte, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	elem := Type(elemByte)
	if !elem.Valid() {
		return nil, fmt.Errorf("%w: list element type 0x%02x", ErrCorrupt, elemByte)
	}
	n, err := d.readLen()
	if err != nil {
		return nil, err
	}
	if n > 0 && elem == TypeEnd {
		return nil, fmt.Errorf("%w: non-empty list of End tags", ErrCorrupt)
	}
	items := make([]Tag, 0, min(n, 4096))
	for i := 0; i < n; i++ {
		item, err := d.readPayload(elem, depth+1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return List{Elem: elem, Items: items}, nil
}

func (d *decoder) readCompound(depth int) (Tag, error) {
	out := Compound{}
	for {
		tb, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		ct := Type(tb)
		if ct == TypeEnd {
			return out, nil
		}
		if !ct.Valid() {
			return nil, fmt.Errorf("%w: tag type 0x%02x", ErrCorrupt, tb)
		}
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		child, err := d.readPayload(ct, depth+1)
		if err != nil {
			return nil, err
		}
		out[name] = child
	}
}
