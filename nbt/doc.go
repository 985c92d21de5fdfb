// Package nbt decodes, encodes, walks and compares the named binary tag
// trees that the world store persists.
//
// A decoded tree is built from a closed set of Tag implementations: the
// scalar leaves (Byte through Double, String), the opaque array leaves
// (ByteArray, IntArray, LongArray) and the two containers (List,
// Compound). Only containers have children; arrays are treated as single
// leaf payloads no matter their size, so walking or diffing a tree never
// degenerates into a cell-by-cell traversal of raster data.
//
// Walk visits every tag depth first in a deterministic order: compound
// children sorted by name, list elements by index. Diff compares two
// trees in the same order and classifies each divergence as missing,
// type, length or value. Lookup and Set resolve dotted path expressions
// such as "data.banners[0].Pos" for targeted reads and in-place edits.
//
// The wire format is big-endian with strings in Java's modified UTF-8;
// string conversion is delegated to internal/mutf8. Compression is the
// caller's concern: Decode and Encode work on the raw tag stream.
package nbt
