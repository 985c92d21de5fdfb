package nbt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiffEqualTreesIsEmpty(t *testing.T) {
	tree := sampleTree()
	require.Empty(t, Diff(tree, tree))
	require.Empty(t, Diff(tree, Copy(tree)))
}

func TestDiffMissingPrunesSubtree(t *testing.T) {
	a := sampleTree()
	b := Copy(a).(Compound)
	delete(b["data"].(Compound), "banners")

	diffs := Diff(a, b)
	require.Len(t, diffs, 2)
	require.Equal(t, DiffLength, diffs[0].Kind)
	require.Equal(t, "data", diffs[0].Path)
	require.Equal(t, DiffMissing, diffs[1].Kind)
	require.Equal(t, "data.banners", diffs[1].Path)
	// Nothing below the missing subtree is reported.
	for _, d := range diffs {
		require.NotContains(t, d.Path, "banners[")
	}
}

func TestDiffTypeMismatchPrunes(t *testing.T) {
	a := sampleTree()
	b := Copy(a).(Compound)
	b["data"].(Compound)["banners"] = Int(7)

	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	d := diffs[0]
	require.Equal(t, DiffType, d.Kind)
	require.Equal(t, "data.banners", d.Path)
	require.Equal(t, TypeList, d.TypeA)
	require.Equal(t, TypeInt, d.TypeB)
}

func TestDiffLengthMismatchContinues(t *testing.T) {
	a := Compound{"banners": List{Elem: TypeCompound, Items: []Tag{
		Compound{"Color": String("white")},
		Compound{"Color": String("red")},
		Compound{"Color": String("blue")},
	}}}
	b := Compound{"banners": List{Elem: TypeCompound, Items: []Tag{
		Compound{"Color": String("white")},
		Compound{"Color": String("green")},
	}}}

	diffs := Diff(a, b)
	require.Len(t, diffs, 3)
	require.Equal(t, DiffLength, diffs[0].Kind)
	require.Equal(t, "banners", diffs[0].Path)
	require.Equal(t, 3, diffs[0].LenA)
	require.Equal(t, 2, diffs[0].LenB)
	require.Equal(t, DiffValue, diffs[1].Kind)
	require.Equal(t, "banners[1].Color", diffs[1].Path)
	require.Equal(t, DiffMissing, diffs[2].Kind)
	require.Equal(t, "banners[2]", diffs[2].Path)
}

func TestDiffScalarListIsOpaque(t *testing.T) {
	a := Compound{"pos": List{Elem: TypeInt, Items: []Tag{Int(1), Int(2), Int(3)}}}
	b := Compound{"pos": List{Elem: TypeInt, Items: []Tag{Int(1), Int(9)}}}

	// Element and length changes alike surface as one value divergence
	// on the list itself; scalar lists are never recursed into.
	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	d := diffs[0]
	require.Equal(t, DiffValue, d.Kind)
	require.Equal(t, "pos", d.Path)
	require.Equal(t, a["pos"], d.A)
	require.Equal(t, b["pos"], d.B)
}

func TestDiffIsAsymmetric(t *testing.T) {
	a := Compound{"x": Int(1)}
	b := Compound{"x": Int(1), "extra": Int(2)}

	// The target-only child is never reported; only the root length
	// divergence shows up.
	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	require.Equal(t, DiffLength, diffs[0].Kind)
	require.Equal(t, "", diffs[0].Path)
}

func TestDiffArraysAreOpaque(t *testing.T) {
	a := Compound{"colors": ByteArray{0, 1, 2}}
	b := Compound{"colors": ByteArray{0, 9, 2}}

	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	d := diffs[0]
	require.Equal(t, DiffValue, d.Kind)
	require.Equal(t, "colors", d.Path)
	require.Equal(t, ByteArray{0, 1, 2}, d.A)
	require.Equal(t, ByteArray{0, 9, 2}, d.B)

	// A length change on an array is still a value divergence since
	// arrays are leaves, not containers.
	diffs = Diff(a, Compound{"colors": ByteArray{0, 1}})
	require.Len(t, diffs, 1)
	require.Equal(t, DiffValue, diffs[0].Kind)
}

func TestDiffScalarValue(t *testing.T) {
	a := sampleTree()
	b := Copy(a).(Compound)
	b["data"].(Compound)["scale"] = Byte(3)

	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	d := diffs[0]
	require.Equal(t, DiffValue, d.Kind)
	require.Equal(t, "data.scale", d.Path)
	require.Equal(t, "scale", d.Name)
	require.Equal(t, Byte(0), d.A)
	require.Equal(t, Byte(3), d.B)
}

func TestDivergenceString(t *testing.T) {
	d := Divergence{Kind: DiffType, Path: "data.scale", TypeA: TypeByte, TypeB: TypeInt}
	require.Equal(t, "data.scale: type Byte != Int", d.String())

	d = Divergence{Kind: DiffMissing}
	require.Equal(t, "(root): missing from target", d.String())
}
