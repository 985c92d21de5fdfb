package nbt

import (
	"bytes"
	"fmt"
	"slices"
)

// Type identifies the payload layout of a tag. The constant values match
// the ids used on the wire.
type Type byte

const (
	TypeEnd Type = iota
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeByteArray
	TypeString
	TypeList
	TypeCompound
	TypeIntArray
	TypeLongArray
)

var typeNames = [...]string{
	"End", "Byte", "Short", "Int", "Long", "Float", "Double",
	"ByteArray", "String", "List", "Compound", "IntArray", "LongArray",
}

// String returns the conventional name of the tag type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(0x%02x)", byte(t))
}

// Valid reports whether t is one of the thirteen defined tag types.
func (t Type) Valid() bool { return t <= TypeLongArray }

// Tag is a single node of a decoded tree. The concrete types below are
// the only implementations, so a type switch over them is exhaustive.
type Tag interface {
	// Type returns the wire type of the tag.
	Type() Type

	tagNode()
}

type (
	// Byte is TAG_Byte. Also carries booleans, stored as 0 or 1.
	Byte int8
	// Short is TAG_Short.
	Short int16
	// Int is TAG_Int.
	Int int32
	// Long is TAG_Long.
	Long int64
	// Float is TAG_Float.
	Float float32
	// Double is TAG_Double.
	Double float64
	// ByteArray is TAG_Byte_Array, an opaque run of bytes.
	ByteArray []byte
	// String is TAG_String.
	String string
	// IntArray is TAG_Int_Array.
	IntArray []int32
	// LongArray is TAG_Long_Array.
	LongArray []int64
)

// List is TAG_List, a sequence of same-typed elements. Elem is
// authoritative when Items is empty; encoders write it as the element
// type byte, and empty lists commonly declare TypeEnd.
type List struct {
	Elem  Type
	Items []Tag
}

// elemType resolves the list's element type, trusting the items over a
// stale Elem when both are present.
func (t List) elemType() Type {
	if len(t.Items) > 0 {
		return t.Items[0].Type()
	}
	return t.Elem
}

// Compound is TAG_Compound, named child tags. Walks, diffs and encoding
// iterate it in sorted name order so output is deterministic regardless
// of map iteration order.
type Compound map[string]Tag

func (Byte) Type() Type      { return TypeByte }
func (Short) Type() Type     { return TypeShort }
func (Int) Type() Type       { return TypeInt }
func (Long) Type() Type      { return TypeLong }
func (Float) Type() Type     { return TypeFloat }
func (Double) Type() Type    { return TypeDouble }
func (ByteArray) Type() Type { return TypeByteArray }
func (String) Type() Type    { return TypeString }
func (List) Type() Type      { return TypeList }
func (Compound) Type() Type  { return TypeCompound }
func (IntArray) Type() Type  { return TypeIntArray }
func (LongArray) Type() Type { return TypeLongArray }

func (Byte) tagNode()      {}
func (Short) tagNode()     {}
func (Int) tagNode()       {}
func (Long) tagNode()      {}
func (Float) tagNode()     {}
func (Double) tagNode()    {}
func (ByteArray) tagNode() {}
func (String) tagNode()    {}
func (List) tagNode()      {}
func (Compound) tagNode()  {}
func (IntArray) tagNode()  {}
func (LongArray) tagNode() {}

// IsContainer reports whether a walk descends into tag: compounds
// always, lists only when their elements are themselves compounds or
// lists. A list of scalars is one opaque leaf, as are the array types.
func IsContainer(tag Tag) bool {
	switch t := tag.(type) {
	case Compound:
		return true
	case List:
		elem := t.elemType()
		return elem == TypeList || elem == TypeCompound
	}
	return false
}

// Len returns the child count of a container tag and 0 for leaves.
func Len(tag Tag) int {
	switch t := tag.(type) {
	case List:
		return len(t.Items)
	case Compound:
		return len(t)
	}
	return 0
}

// Equal reports whether a and b are deeply equal: same types, same child
// names, same payloads. Empty lists compare equal regardless of their
// declared element type.
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case ByteArray:
		return bytes.Equal(x, b.(ByteArray))
	case IntArray:
		return slices.Equal(x, b.(IntArray))
	case LongArray:
		return slices.Equal(x, b.(LongArray))
	case List:
		y := b.(List)
		if len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case Compound:
		y := b.(Compound)
		if len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	default:
		// Scalars of equal type compare directly.
		return a == b
	}
}

// Copy returns a deep copy of tag. Scalars are returned as-is; arrays,
// lists and compounds are duplicated all the way down, so mutating the
// copy never reaches the original.
func Copy(tag Tag) Tag {
	switch t := tag.(type) {
	case ByteArray:
		return ByteArray(bytes.Clone(t))
	case IntArray:
		return IntArray(slices.Clone(t))
	case LongArray:
		return LongArray(slices.Clone(t))
	case List:
		items := make([]Tag, len(t.Items))
		for i, item := range t.Items {
			items[i] = Copy(item)
		}
		return List{Elem: t.Elem, Items: items}
	case Compound:
		out := make(Compound, len(t))
		for k, v := range t {
			out[k] = Copy(v)
		}
		return out
	default:
		return tag
	}
}
