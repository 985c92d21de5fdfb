package nbt

import (
	"fmt"
	"strconv"
)

// DiffKind classifies a single divergence between two trees.
type DiffKind int

const (
	DiffMissing DiffKind = iota // present in source, absent in target
	DiffType                    // tag types differ
	DiffLength                  // container child counts differ
	DiffValue                   // leaf payloads differ
)

var diffKindNames = [...]string{"missing", "type", "length", "value"}

// String returns the lower-case kind name used in diagnostics.
func (k DiffKind) String() string {
	if int(k) < len(diffKindNames) {
		return diffKindNames[k]
	}
	return "unknown"
}

// Divergence is one structural difference between a source and a target
// tree. Path and Name locate the diverging node on the source side. The
// payload fields depend on Kind: DiffType fills TypeA and TypeB,
// DiffLength fills LenA and LenB, DiffValue fills A and B. DiffMissing
// carries only the location.
type Divergence struct {
	Kind DiffKind
	Path string // full path of the node, Name included
	Name string // last path element

	TypeA, TypeB Type
	LenA, LenB   int
	A, B         Tag
}

// String renders the divergence for diagnostics, source side first.
func (d Divergence) String() string {
	path := d.Path
	if path == "" {
		path = "(root)"
	}
	switch d.Kind {
	case DiffMissing:
		return fmt.Sprintf("%s: missing from target", path)
	case DiffType:
		return fmt.Sprintf("%s: type %s != %s", path, d.TypeA, d.TypeB)
	case DiffLength:
		return fmt.Sprintf("%s: length %d != %d", path, d.LenA, d.LenB)
	case DiffValue:
		return fmt.Sprintf("%s: value %s != %s", path, Sprint(d.A), Sprint(d.B))
	default:
		return fmt.Sprintf("%s: %s", path, d.Kind)
	}
}

// Diff compares source against target and returns every divergence, in
// the order Walk visits the source tree. The comparison is asymmetric:
// only source-rooted paths are checked, so children present only in the
// target are never reported. A missing or type-mismatched node prunes
// its whole subtree; a length mismatch on a container is reported and
// the comparison continues through the children both sides have. Leaves
// compare whole, scalar lists and arrays included. Equal trees yield
// nil.
func Diff(source, target Tag) []Divergence {
	if Equal(source, target) {
		return nil
	}
	var out []Divergence
	diffTag("", "", source, target, &out)
	return out
}

func diffTag(parent, name string, a, b Tag, out *[]Divergence) {
	path := JoinPath(parent, name)
	if b == nil {
		*out = append(*out, Divergence{Kind: DiffMissing, Path: path, Name: name})
		return
	}
	if at, bt := a.Type(), b.Type(); at != bt {
		*out = append(*out, Divergence{
			Kind: DiffType, Path: path, Name: name, TypeA: at, TypeB: bt,
		})
		return
	}
	switch x := a.(type) {
	case Compound:
		y := b.(Compound)
		if len(x) != len(y) {
			*out = append(*out, Divergence{
				Kind: DiffLength, Path: path, Name: name, LenA: len(x), LenB: len(y),
			})
		}
		for _, key := range sortedKeys(x) {
			diffTag(path, key, x[key], y[key], out)
		}
	case List:
		if !IsContainer(x) {
			// A scalar list is one leaf; compare the payload whole.
			if !Equal(a, b) {
				*out = append(*out, Divergence{
					Kind: DiffValue, Path: path, Name: name, A: a, B: b,
				})
			}
			return
		}
		y := b.(List)
		if len(x.Items) != len(y.Items) {
			*out = append(*out, Divergence{
				Kind: DiffLength, Path: path, Name: name,
				LenA: len(x.Items), LenB: len(y.Items),
			})
		}
		for i, item := range x.Items {
			var other Tag
			if i < len(y.Items) {
				other = y.Items[i]
			}
			diffTag(path, "["+strconv.Itoa(i)+"]", item, other, out)
		}
	default:
		// Leaves, opaque arrays included. Arrays of unequal length are a
		// value divergence, not a length one; they are not containers.
		if !Equal(a, b) {
			*out = append(*out, Divergence{
				Kind: DiffValue, Path: path, Name: name, A: a, B: b,
			})
		}
	}
}
