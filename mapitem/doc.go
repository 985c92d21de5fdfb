// Package mapitem models map-item records and the policy that folds
// duplicates together.
//
// A Map wraps one decoded record tree and derives the fields the engine
// cares about: id, dataVersion, dimension, center, scale, category and
// the identity Key that marks two records as the same logical map.
// TryMerge evaluates whether one record can be folded into another and
// returns the pixel changes to apply; ApplyPixels writes them under
// copy-on-write. GroupDuplicates partitions a collection into duplicate
// groups with a deterministic merge target, and PlanDefrag computes the
// id moves that compact the id space after deletions.
//
// The merge policy is deliberately conservative: records may differ only
// in raster content, a source pixel never overwrites a non-blank target
// pixel, and dataVersion never moves backward. Anything else rejects
// with ErrStructuralMismatch rather than guessing.
package mapitem
