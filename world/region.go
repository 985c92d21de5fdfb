package world

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/worldtools/mapkit/internal/buf"
	"github.com/worldtools/mapkit/internal/mmfile"
	"github.com/worldtools/mapkit/nbt"
)

const (
	sectorSize = 4096
	maxChunks  = 1024
	headerSize = 2 * sectorSize
)

// Chunk payload compression schemes, per the anvil format.
const (
	compressGZip = 1
	compressZlib = 2
	compressNone = 3
)

// region provides read access to one anvil region file through a
// shared mapping of its bytes.
type region struct {
	data    []byte
	cleanup func() error
}

// openRegion maps the region file at path. An empty file is a valid
// region with no chunks; anything shorter than the two header tables is
// corrupt.
func openRegion(path string) (*region, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}
	if len(data) != 0 && len(data) < headerSize {
		cleanup()
		return nil, fmt.Errorf("%w: %s: truncated header", ErrRegion, filepath.Base(path))
	}
	return &region{data: data, cleanup: cleanup}, nil
}

// Close releases the mapping. Chunk payloads returned by chunkRaw alias
// the mapping and must not be used afterwards.
func (r *region) Close() error { return r.cleanup() }

// chunkRaw returns the compression scheme and compressed payload of
// chunk slot i. ok is false for an empty slot.
func (r *region) chunkRaw(i int) (scheme byte, payload []byte, ok bool, err error) {
	if len(r.data) == 0 {
		return 0, nil, false, nil
	}
	entry := buf.U32BE(r.data[i*4:])
	off := int(entry >> 8)
	count := int(entry & 0xff)
	if off == 0 && count == 0 {
		return 0, nil, false, nil
	}
	start, mok := buf.Mul(off, sectorSize)
	header, hok := buf.Slice(r.data, start, 5)
	if off < 2 || !mok || !hok {
		return 0, nil, false, fmt.Errorf("%w: chunk %d: sector offset out of range", ErrRegion, i)
	}
	n := int(buf.U32BE(header))
	payload, pok := buf.Slice(r.data, start+5, n-1)
	if n < 1 || !pok {
		return 0, nil, false, fmt.Errorf("%w: chunk %d: bad payload length", ErrRegion, i)
	}
	return header[4], payload, true, nil
}

// chunkRoot decodes the root tag of chunk slot i. ok is false for an
// empty slot.
func (r *region) chunkRoot(i int) (name string, root nbt.Tag, ok bool, err error) {
	scheme, payload, ok, err := r.chunkRaw(i)
	if err != nil || !ok {
		return "", nil, ok, err
	}
	rd, err := decompressor(scheme, bytes.NewReader(payload))
	if err != nil {
		return "", nil, false, fmt.Errorf("%w: chunk %d: %v", ErrRegion, i, err)
	}
	defer rd.Close()
	name, root, err = nbt.Decode(rd)
	if err != nil {
		return "", nil, false, fmt.Errorf("chunk %d: %w", i, err)
	}
	return name, root, true, nil
}

func decompressor(scheme byte, r io.Reader) (io.ReadCloser, error) {
	switch scheme {
	case compressGZip:
		return gzip.NewReader(r)
	case compressZlib:
		return zlib.NewReader(r)
	case compressNone:
		return io.NopCloser(r), nil
	default:
		return nil, fmt.Errorf("unknown compression scheme %d", scheme)
	}
}

func compress(scheme byte, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch scheme {
	case compressGZip:
		w = gzip.NewWriter(&buf)
	case compressZlib:
		w = zlib.NewWriter(&buf)
	case compressNone:
		return data, nil
	default:
		return nil, fmt.Errorf("unknown compression scheme %d", scheme)
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rewriteChunkTag sets the tag at tagPath inside chunk slot index of
// the region file at path. The chunk keeps its compression scheme,
// every other chunk keeps its exact payload bytes, and timestamps are
// carried over. Chunks are repacked from sector 2 in slot order and the
// result lands atomically.
func rewriteChunkTag(path string, index int, tagPath string, value nbt.Tag) error {
	r, err := openRegion(path)
	if err != nil {
		return err
	}
	defer r.Close()

	type rawChunk struct {
		scheme  byte
		payload []byte
	}
	chunks := make([]*rawChunk, maxChunks)
	found := false
	for i := 0; i < maxChunks; i++ {
		scheme, payload, ok, err := r.chunkRaw(i)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if i == index {
			rd, err := decompressor(scheme, bytes.NewReader(payload))
			if err != nil {
				return fmt.Errorf("%w: chunk %d: %v", ErrRegion, i, err)
			}
			name, root, derr := nbt.Decode(rd)
			rd.Close()
			if derr != nil {
				return fmt.Errorf("chunk %d: %w", i, derr)
			}
			if err := nbt.Set(root, tagPath, value); err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			var buf bytes.Buffer
			if err := nbt.Encode(&buf, name, root); err != nil {
				return err
			}
			if payload, err = compress(scheme, buf.Bytes()); err != nil {
				return err
			}
			found = true
		}
		// Untouched payloads alias the mapping, which stays open until
		// rewriteChunkTag returns.
		chunks[i] = &rawChunk{scheme: scheme, payload: payload}
	}
	if !found {
		return fmt.Errorf("%w: chunk %d not present in %s", ErrRegion, index, filepath.Base(path))
	}

	header := make([]byte, headerSize)
	copy(header[sectorSize:], r.data[sectorSize:headerSize])
	var body bytes.Buffer
	sector := 2
	for i := 0; i < maxChunks; i++ {
		c := chunks[i]
		if c == nil {
			continue
		}
		n := len(c.payload) + 1
		total := 4 + n
		count := (total + sectorSize - 1) / sectorSize
		if count > 0xff || sector > 0xffffff {
			return fmt.Errorf("%w: chunk %d: rebuilt chunk too large", ErrRegion, i)
		}
		binary.BigEndian.PutUint32(header[i*4:], uint32(sector)<<8|uint32(count))
		var prefix [5]byte
		binary.BigEndian.PutUint32(prefix[:], uint32(n))
		prefix[4] = c.scheme
		body.Write(prefix[:])
		body.Write(c.payload)
		body.Write(make([]byte, count*sectorSize-total))
		sector += count
	}

	out := make([]byte, 0, headerSize+body.Len())
	out = append(out, header...)
	out = append(out, body.Bytes()...)
	return writeFileAtomic(path, out, 0o644)
}
