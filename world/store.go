package world

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"github.com/worldtools/mapkit/mapitem"
	"github.com/worldtools/mapkit/nbt"
)

// Store reads and writes the map records of one world directory.
type Store struct {
	dir string
	log *slog.Logger
}

// Options configures a Store.
type Options struct {
	// Logger receives scan progress and skipped-file notices. Defaults
	// to slog.Default().
	Logger *slog.Logger
}

// Open roots a store at a world directory. The directory must hold a
// level.dat; anything else is likely a wrong path, and failing early
// beats scattering map files somewhere unintended.
func Open(dir string, opts Options) (*Store, error) {
	if _, err := os.Stat(filepath.Join(dir, "level.dat")); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s has no level.dat", ErrNotWorld, dir)
		}
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the world directory the store is rooted at.
func (s *Store) Dir() string { return s.dir }

// MapPath returns the record file path for id.
func (s *Store) MapPath(id int) string {
	return filepath.Join(s.dir, "data", fmt.Sprintf("map_%d.dat", id))
}

func (s *Store) idCountsPath() string {
	return filepath.Join(s.dir, "data", "idcounts.dat")
}

// Load reads the record with the given id. A missing file reports
// ErrNotFound; processing of other ids can continue.
func (s *Store) Load(id int) (*mapitem.Map, error) {
	_, root, _, err := readNBTFile(s.MapPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	c, ok := root.(nbt.Compound)
	if !ok {
		return nil, fmt.Errorf("%w: map %d root is %s", mapitem.ErrMalformed, id, root.Type())
	}
	return mapitem.New(id, c)
}

var mapFileRe = regexp.MustCompile(`^map_(\d+)\.dat$`)

// LoadAll loads the map records under data/, ascending by id. A world
// without a data directory simply has no maps. Records that fail to
// decode are logged and skipped rather than failing the whole load;
// their files stay untouched on disk, which also blocks any later
// rename onto their ids.
func (s *Store) LoadAll(ctx context.Context) ([]*mapitem.Map, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "data"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, e := range entries {
		m := mapFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	maps := make([]*mapitem.Map, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := s.Load(id)
		if err != nil {
			s.log.Warn("skipping unreadable map record", "id", id, "err", err)
			continue
		}
		maps = append(maps, m)
	}
	return maps, nil
}

// Save writes the record back under its id, gzip-framed the way the
// game writes it.
func (s *Store) Save(m *mapitem.Map) error {
	return writeNBTFile(s.MapPath(m.ID()), "", m.Root(), true)
}

// Delete soft-deletes a record by renaming its file to a .bak suffix,
// so a mistaken merge can be undone by hand.
func (s *Store) Delete(m *mapitem.Map) error {
	path := s.MapPath(m.ID())
	return os.Rename(path, path+".bak")
}

// Rename moves a record file to a new id. The target id must be free.
func (s *Store) Rename(oldID, newID int) error {
	to := s.MapPath(newID)
	if _, err := os.Stat(to); err == nil {
		return fmt.Errorf("%w: map %d", ErrIDInUse, newID)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(s.MapPath(oldID), to)
}

// ReadIDCounter returns the highest allocated map id recorded in
// data/idcounts.dat. ok is false when the file does not exist, which is
// how a world that never created a map looks.
func (s *Store) ReadIDCounter() (int, bool, error) {
	_, root, _, err := readNBTFile(s.idCountsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	c, ok := root.(nbt.Compound)
	if !ok {
		return 0, false, fmt.Errorf("world: idcounts.dat: root is %s", root.Type())
	}
	// Modern worlds nest the counter under data; legacy ones store a
	// short at the root.
	if data, ok := c["data"].(nbt.Compound); ok {
		if v, ok := data["map"].(nbt.Int); ok {
			return int(v), true, nil
		}
	}
	if v, ok := c["map"].(nbt.Short); ok {
		return int(v), true, nil
	}
	return 0, false, fmt.Errorf("world: idcounts.dat: no map counter")
}

// WriteIDCounter records n as the highest allocated id, updating the
// counter in whichever format the file already uses. A missing file is
// created in the modern format.
func (s *Store) WriteIDCounter(n int) error {
	name, root, gzipped, err := readNBTFile(s.idCountsPath())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		name, gzipped = "", true
		root = nbt.Compound{"data": nbt.Compound{"map": nbt.Int(int32(n))}}
	case err != nil:
		return err
	default:
		c, ok := root.(nbt.Compound)
		if !ok {
			return fmt.Errorf("world: idcounts.dat: root is %s", root.Type())
		}
		if data, ok := c["data"].(nbt.Compound); ok {
			data["map"] = nbt.Int(int32(n))
		} else if _, ok := c["map"].(nbt.Short); ok {
			c["map"] = nbt.Short(int16(n))
		} else {
			c["data"] = nbt.Compound{"map": nbt.Int(int32(n))}
		}
	}
	return writeNBTFile(s.idCountsPath(), name, root, gzipped)
}

// readNBTFile loads a possibly gzip-framed tag file, reporting how it
// was stored so writers can preserve the framing.
func readNBTFile(path string) (name string, root nbt.Tag, gzipped bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, false, err
	}
	rd := io.Reader(bytes.NewReader(raw))
	if len(raw) >= 2 && raw[0] == 0x1f && raw[1] == 0x8b {
		gz, gerr := gzip.NewReader(rd)
		if gerr != nil {
			return "", nil, false, fmt.Errorf("%s: %w", filepath.Base(path), gerr)
		}
		defer gz.Close()
		gzipped = true
		rd = gz
	}
	name, root, err = nbt.Decode(rd)
	if err != nil {
		return "", nil, false, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return name, root, gzipped, nil
}

func writeNBTFile(path, name string, root nbt.Tag, gzipped bool) error {
	var buf bytes.Buffer
	if gzipped {
		gz := gzip.NewWriter(&buf)
		if err := nbt.Encode(gz, name, root); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}
	} else if err := nbt.Encode(&buf, name, root); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes(), 0o644)
}

// writeFileAtomic writes data beside path and renames it into place,
// syncing file contents first so a crash never leaves a torn file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := fdatasync(tmp); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
