package mapitem

import (
	"fmt"

	"github.com/worldtools/mapkit/nbt"
)

// Tree paths the merge policy treats specially. Everything else in a
// record must already agree between merge partners.
const (
	dataVersionPath = "DataVersion"
	colorsPath      = "data.colors"
)

// RejectError explains why a merge was refused. It unwraps to
// ErrStructuralMismatch so callers can branch on the class while logging
// the specifics.
type RejectError struct {
	SourceID int
	TargetID int
	Path     string // tree path of the offending divergence, if any
	Reason   string
}

func (e *RejectError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("mapitem: cannot merge map %d into %d: %s at %s",
			e.SourceID, e.TargetID, e.Reason, e.Path)
	}
	return fmt.Sprintf("mapitem: cannot merge map %d into %d: %s",
		e.SourceID, e.TargetID, e.Reason)
}

func (e *RejectError) Unwrap() error { return ErrStructuralMismatch }

func reject(source, target *Map, path, reason string) error {
	return &RejectError{
		SourceID: source.ID(),
		TargetID: target.ID(),
		Path:     path,
		Reason:   reason,
	}
}

// MergeResult is the outcome of a merge evaluation that did not reject.
type MergeResult struct {
	// Identical marks records whose trees are deeply equal; callers can
	// skip applying anything and drop the source outright.
	Identical bool

	// Changes are the pixel writes that fold the source's content into
	// the target. Empty with Identical unset means every divergent cell
	// was blank on the source side: also a no-op, but the records were
	// not byte-for-byte the same.
	Changes []PixelChange
}

// TryMerge decides whether source can be folded into target and, if so,
// which pixels to copy over. The records must share an identity key and
// may differ only in dataVersion, never backward, and in raster cells
// where the source contributes to blank target cells. Every other
// divergence rejects with a *RejectError wrapping ErrStructuralMismatch;
// conflicting non-blank pixels are never auto-resolved.
func TryMerge(source, target *Map) (*MergeResult, error) {
	skey, sok := source.Key()
	tkey, tok := target.Key()
	if !sok || !tok || skey != tkey {
		return nil, reject(source, target, "", "identity keys differ")
	}

	diffs := nbt.Diff(source.Root(), target.Root())
	if len(diffs) == 0 {
		return &MergeResult{Identical: true}, nil
	}

	var changes []PixelChange
	for _, d := range diffs {
		if d.Kind != nbt.DiffValue {
			return nil, reject(source, target, d.Path,
				fmt.Sprintf("%s divergence", d.Kind))
		}
		switch d.Path {
		case dataVersionPath:
			if target.DataVersion() < source.DataVersion() {
				return nil, reject(source, target, d.Path, fmt.Sprintf(
					"target dataVersion %d older than source %d",
					target.DataVersion(), source.DataVersion()))
			}
		case colorsPath:
			cells, err := reconcilePixels(source, target, d)
			if err != nil {
				return nil, err
			}
			changes = append(changes, cells...)
		default:
			return nil, reject(source, target, d.Path, "metadata differs")
		}
	}
	return &MergeResult{Changes: changes}, nil
}

// reconcilePixels expands a raster divergence cell by cell. The diff
// engine treats the colors array as one opaque leaf, so a single value
// divergence carries both full rasters; each index therefore appears at
// most once in the output.
func reconcilePixels(source, target *Map, d nbt.Divergence) ([]PixelChange, error) {
	src, _ := d.A.(nbt.ByteArray)
	dst, _ := d.B.(nbt.ByteArray)
	if len(src) != len(dst) {
		return nil, reject(source, target, d.Path,
			fmt.Sprintf("raster length %d != %d", len(src), len(dst)))
	}
	var changes []PixelChange
	for i := range src {
		s, t := src[i], dst[i]
		switch {
		case s == t:
			continue
		case s == BlankPixel:
			// Nothing to contribute at this cell.
			continue
		case t != BlankPixel:
			return nil, reject(source, target,
				fmt.Sprintf("%s[%d]", d.Path, i),
				fmt.Sprintf("conflicting pixels %d != %d", s, t))
		default:
			changes = append(changes, PixelChange{Index: i, Value: s})
		}
	}
	return changes, nil
}
