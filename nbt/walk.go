package nbt

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// SkipChildren may be returned by a WalkFunc to prune the subtree below
// the current tag. The walk resumes with the next sibling. Returning it
// from a leaf is a no-op.
var SkipChildren = errors.New("nbt: skip children")

// WalkFunc visits a single tag. parent is the dotted path of the tag's
// parent ("" for the root) and name the tag's own key: a compound child
// name, an "[i]" index for list elements, or "" for the root itself.
// JoinPath(parent, name) spells the tag's full path.
type WalkFunc func(parent, name string, tag Tag) error

// Walk calls fn for tag and every tag beneath it, depth first. Only
// containers are descended into (see IsContainer); the elements of a
// scalar list are payload, not children. Children of a compound are
// visited in sorted name order, list elements in index order, so the
// sequence is deterministic for equal trees. Returning SkipChildren
// from fn prunes the current subtree; any other error stops the walk
// and is returned.
func Walk(tag Tag, fn WalkFunc) error {
	return walk("", "", tag, fn)
}

func walk(parent, name string, tag Tag, fn WalkFunc) error {
	switch err := fn(parent, name, tag); {
	case errors.Is(err, SkipChildren):
		return nil
	case err != nil:
		return err
	}
	if !IsContainer(tag) {
		return nil
	}
	path := JoinPath(parent, name)
	switch t := tag.(type) {
	case Compound:
		for _, key := range sortedKeys(t) {
			if err := walk(path, key, t[key], fn); err != nil {
				return err
			}
		}
	case List:
		for i, item := range t.Items {
			if err := walk(path, "["+strconv.Itoa(i)+"]", item, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// JoinPath joins a parent path and a child name the way Walk spells
// them: names are dot-separated, "[i]" index segments attach bare.
func JoinPath(parent, name string) string {
	if parent == "" || name == "" || strings.HasPrefix(name, "[") {
		return parent + name
	}
	return parent + "." + name
}

func sortedKeys(c Compound) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
