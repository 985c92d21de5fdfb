package world

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/worldtools/mapkit/nbt"
)

// refTagName is the tag that carries a map id inside item data.
const refTagName = "map"

// Ref locates one reference to a map id somewhere in the world.
type Ref struct {
	// File is the slash-separated path of the holding file, relative to
	// the world root.
	File string `json:"file"`
	// Chunk is the chunk slot within a region file, or -1 when File is
	// a plain tag file.
	Chunk int `json:"chunk"`
	// Path is the tag path of the Int holding the id.
	Path string `json:"path"`
}

func (r Ref) String() string {
	if r.Chunk >= 0 {
		return fmt.Sprintf("%s[%d]:%s", r.File, r.Chunk, r.Path)
	}
	return r.File + ":" + r.Path
}

// RefIndex is the result of a reference scan.
type RefIndex struct {
	Refs map[int][]Ref `json:"refs"`
	// Partial is set when the scan was cancelled or skipped files it
	// could not read. Consumers must treat absence of an id as unknown
	// rather than unreferenced while set.
	Partial bool `json:"partial"`
}

// Has reports whether at least one reference to id was found.
func (ix *RefIndex) Has(id int) bool { return len(ix.Refs[id]) > 0 }

// Total counts all references across all ids.
func (ix *RefIndex) Total() int {
	n := 0
	for _, refs := range ix.Refs {
		n += len(refs)
	}
	return n
}

// regionDirs are the world subdirectories holding region files, one
// pair per dimension.
var regionDirs = []string{
	"region", "entities",
	"DIM-1/region", "DIM-1/entities",
	"DIM1/region", "DIM1/entities",
}

// WalkRefs scans the world for references to map ids: Int tags named
// "map" in level.dat, the playerdata and data tag files, and every
// chunk of every region file. Map records themselves and idcounts.dat
// are excluded so the scan never reads an id as a reference to itself.
//
// Cancelling ctx stops the walk between files or chunks and returns the
// index gathered so far with Partial set. Files the scan cannot read
// are logged, skipped and also leave the index partial.
func (s *Store) WalkRefs(ctx context.Context) (*RefIndex, error) {
	ix := &RefIndex{Refs: make(map[int][]Ref)}

	plain := []string{"level.dat"}
	for _, dir := range []string{"playerdata", "data"} {
		files, err := s.listFiles(dir, ".dat")
		if err != nil {
			s.log.Warn("skipping unreadable directory", "dir", dir, "err", err)
			ix.Partial = true
			continue
		}
		plain = append(plain, files...)
	}

	for _, rel := range plain {
		if ctx.Err() != nil {
			ix.Partial = true
			return ix, nil
		}
		if skipDataFile(rel) {
			continue
		}
		s.scanTagFile(rel, ix)
	}

	for _, dir := range regionDirs {
		files, err := s.listFiles(dir, ".mca")
		if err != nil {
			s.log.Warn("skipping unreadable directory", "dir", dir, "err", err)
			ix.Partial = true
			continue
		}
		for _, rel := range files {
			if ctx.Err() != nil {
				ix.Partial = true
				return ix, nil
			}
			if cancelled := s.scanRegionFile(ctx, rel, ix); cancelled {
				ix.Partial = true
				return ix, nil
			}
		}
	}
	return ix, nil
}

// skipDataFile filters the data directory entries that must never be
// scanned: the map records themselves and the id counter, whose
// data.map Int would read as a reference.
func skipDataFile(rel string) bool {
	dir, name := path.Split(rel)
	if dir != "data/" {
		return false
	}
	return name == "idcounts.dat" || mapFileRe.MatchString(name)
}

// listFiles returns the slash-separated world-relative paths of the
// regular files under dir carrying ext, in name order. A missing
// directory yields nothing.
func (s *Store) listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, filepath.FromSlash(dir)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		files = append(files, path.Join(dir, e.Name()))
	}
	return files, nil
}

func (s *Store) scanTagFile(rel string, ix *RefIndex) {
	_, root, _, err := readNBTFile(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		s.log.Warn("skipping unreadable file", "file", rel, "err", err)
		ix.Partial = true
		return
	}
	collectRefs(ix, rel, -1, root)
}

func (s *Store) scanRegionFile(ctx context.Context, rel string, ix *RefIndex) (cancelled bool) {
	r, err := openRegion(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil {
		s.log.Warn("skipping unreadable region", "file", rel, "err", err)
		ix.Partial = true
		return false
	}
	defer r.Close()
	for i := 0; i < maxChunks; i++ {
		if ctx.Err() != nil {
			return true
		}
		_, root, ok, err := r.chunkRoot(i)
		if err != nil {
			s.log.Warn("skipping unreadable chunk", "file", rel, "chunk", i, "err", err)
			ix.Partial = true
			continue
		}
		if !ok {
			continue
		}
		collectRefs(ix, rel, i, root)
	}
	return false
}

func collectRefs(ix *RefIndex, file string, chunk int, root nbt.Tag) {
	nbt.Walk(root, func(parent, name string, tag nbt.Tag) error {
		id, ok := tag.(nbt.Int)
		if !ok || name != refTagName {
			return nil
		}
		ix.Refs[int(id)] = append(ix.Refs[int(id)], Ref{
			File:  file,
			Chunk: chunk,
			Path:  nbt.JoinPath(parent, name),
		})
		return nil
	})
}

// RewriteRef points one previously scanned reference at a new id. Plain
// tag files are decoded, patched and rewritten in their original
// framing; region files are repacked with only the holding chunk
// re-encoded.
func (s *Store) RewriteRef(ref Ref, newID int) error {
	abs := filepath.Join(s.dir, filepath.FromSlash(ref.File))
	value := nbt.Int(int32(newID))
	if ref.Chunk >= 0 {
		if err := rewriteChunkTag(abs, ref.Chunk, ref.Path, value); err != nil {
			return fmt.Errorf("%s: %w", ref.File, err)
		}
		return nil
	}
	name, root, gzipped, err := readNBTFile(abs)
	if err != nil {
		return err
	}
	if err := nbt.Set(root, ref.Path, value); err != nil {
		return fmt.Errorf("%s: %w", ref.File, err)
	}
	return writeNBTFile(abs, name, root, gzipped)
}
