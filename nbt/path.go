package nbt

import (
	"fmt"
	"strconv"
	"strings"
)

// pathSeg is one step of a parsed path expression: either a compound
// child name or a list index.
type pathSeg struct {
	name  string
	index int
	list  bool
}

// Lookup resolves a dotted path expression such as
// "data.banners[0].Pos" against root and returns the tag it names. Index
// segments apply to lists. The empty path names root itself.
func Lookup(root Tag, path string) (Tag, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	return lookupSegs(root, segs, path)
}

// Set replaces the tag at path beneath root with value. The path must
// already resolve; Set never creates intermediate nodes, and the root
// itself cannot be replaced. Replacing a list element requires value to
// match the list's element type.
func Set(root Tag, path string, value Tag) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return fmt.Errorf("%w: empty path", ErrBadPath)
	}
	parent, err := lookupSegs(root, segs[:len(segs)-1], path)
	if err != nil {
		return err
	}
	last := segs[len(segs)-1]
	switch t := parent.(type) {
	case Compound:
		if last.list {
			return fmt.Errorf("%w: %q indexes into a compound", ErrBadPath, path)
		}
		if _, ok := t[last.name]; !ok {
			return fmt.Errorf("%w: %q", ErrPathNotFound, path)
		}
		t[last.name] = value
	case List:
		if !last.list {
			return fmt.Errorf("%w: %q names a child of a list", ErrBadPath, path)
		}
		if last.index >= len(t.Items) {
			return fmt.Errorf("%w: %q", ErrPathNotFound, path)
		}
		if value.Type() != t.Items[last.index].Type() {
			return fmt.Errorf("nbt: set %q: %s element in a list of %s",
				path, value.Type(), t.Items[last.index].Type())
		}
		// Items shares its backing array with the tree's copy of the
		// list header, so this writes through.
		t.Items[last.index] = value
	default:
		return fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}
	return nil
}

func lookupSegs(root Tag, segs []pathSeg, path string) (Tag, error) {
	cur := root
	for _, seg := range segs {
		switch t := cur.(type) {
		case Compound:
			if seg.list {
				return nil, fmt.Errorf("%w: %q indexes into a compound", ErrBadPath, path)
			}
			next, ok := t[seg.name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path)
			}
			cur = next
		case List:
			if !seg.list {
				return nil, fmt.Errorf("%w: %q names a child of a list", ErrBadPath, path)
			}
			if seg.index >= len(t.Items) {
				return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path)
			}
			cur = t.Items[seg.index]
		default:
			return nil, fmt.Errorf("%w: %q descends into a leaf", ErrPathNotFound, path)
		}
	}
	return cur, nil
}

func splitPath(path string) ([]pathSeg, error) {
	var segs []pathSeg
	rest := path
	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			if rest == "" || rest[0] == '.' || rest[0] == '[' {
				return nil, fmt.Errorf("%w: %q", ErrBadPath, path)
			}
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: %q", ErrBadPath, path)
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("%w: %q", ErrBadPath, path)
			}
			segs = append(segs, pathSeg{index: idx, list: true})
			rest = rest[end+1:]
		default:
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			segs = append(segs, pathSeg{name: rest[:end]})
			rest = rest[end:]
		}
	}
	return segs, nil
}
