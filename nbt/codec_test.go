package nbt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// helloWorld is the canonical smallest named compound: a root compound
// called "hello world" holding a single string.
var helloWorld = []byte{
	0x0a, 0x00, 0x0b, 'h', 'e', 'l', 'l', 'o', ' ', 'w', 'o', 'r', 'l', 'd',
	0x08, 0x00, 0x04, 'n', 'a', 'm', 'e',
	0x00, 0x09, 'B', 'a', 'n', 'a', 'n', 'r', 'a', 'm', 'a',
	0x00,
}

func TestDecodeGolden(t *testing.T) {
	name, tag, err := Decode(bytes.NewReader(helloWorld))
	require.NoError(t, err)
	require.Equal(t, "hello world", name)
	require.True(t, Equal(Compound{"name": String("Bananrama")}, tag))
}

func TestEncodeGolden(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, "hello world", Compound{"name": String("Bananrama")})
	require.NoError(t, err)
	require.Equal(t, helloWorld, buf.Bytes())
}

func TestRoundTripAllTypes(t *testing.T) {
	tree := Compound{
		"byte":   Byte(-1),
		"short":  Short(-300),
		"int":    Int(1 << 20),
		"long":   Long(-1 << 40),
		"float":  Float(1.5),
		"double": Double(-2.25),
		"bytes":  ByteArray{0, 127, 255},
		"string": String("åéîøü"),
		"ints":   IntArray{-1, 0, 1},
		"longs":  LongArray{-1 << 40, 1 << 40},
		"list": List{Elem: TypeCompound, Items: []Tag{
			Compound{"x": Int(1)},
			Compound{"x": Int(2)},
		}},
		"empty":    List{Elem: TypeEnd},
		"compound": Compound{"nested": Compound{}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "", tree))

	name, got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, "", name)
	require.True(t, Equal(tree, got), "decoded tree differs:\n%s", Sprint(got))

	// Encoding is deterministic: same tree, same bytes.
	var again bytes.Buffer
	require.NoError(t, Encode(&again, "", got))
	require.Equal(t, buf.Bytes(), again.Bytes())
}

func TestCodecModifiedUTF8(t *testing.T) {
	tree := Compound{"s": String("a\x00b\U0001F5FA")}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "", tree))
	// Embedded NUL uses the two-byte form on the wire.
	require.True(t, bytes.Contains(buf.Bytes(), []byte{0xc0, 0x80}))
	require.False(t, bytes.Contains(buf.Bytes()[4:], []byte{0x00, 0x62}))

	_, got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.True(t, Equal(tree, got))
}

func TestDecodeCorrupt(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"root end tag", []byte{0x00}},
		{"root bad type", []byte{0x0d, 0x00, 0x00}},
		{"truncated name", []byte{0x0a, 0x00, 0x05, 'a'}},
		{"truncated payload", helloWorld[:len(helloWorld)-4]},
		{"negative array length", []byte{
			0x07, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff,
		}},
		{"bad child type", []byte{
			0x0a, 0x00, 0x00, 0x0d, 0x00, 0x01, 'x', 0x00,
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := Decode(bytes.NewReader(c.data))
			require.Error(t, err)
		})
	}
}

func TestDecodeTooDeep(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x0a, 0x00, 0x00})
	for i := 0; i < maxDepth+8; i++ {
		buf.Write([]byte{0x0a, 0x00, 0x01, 'a'})
	}
	_, _, err := Decode(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, ErrTooDeep)
}

func TestEncodeMixedListRejected(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, "", Compound{
		"bad": List{Elem: TypeInt, Items: []Tag{Int(1), String("x")}},
	})
	require.Error(t, err)
}
