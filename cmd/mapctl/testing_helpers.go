package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/viper"

	"github.com/worldtools/mapkit/mapitem"
	"github.com/worldtools/mapkit/nbt"
	"github.com/worldtools/mapkit/world"
)

// newTestWorld builds a throwaway world directory whose level.dat
// references the given map ids from the player's inventory, points the
// world config at it and opens a store for seeding records.
func newTestWorld(t *testing.T, refIDs ...int) *world.Store {
	t.Helper()
	dir := t.TempDir()

	items := make([]nbt.Tag, 0, len(refIDs))
	for _, id := range refIDs {
		items = append(items, nbt.Compound{
			"id":  nbt.String("minecraft:filled_map"),
			"tag": nbt.Compound{"map": nbt.Int(int32(id))},
		})
	}
	root := nbt.Compound{"Data": nbt.Compound{"Player": nbt.Compound{
		"Inventory": nbt.List{Elem: nbt.TypeCompound, Items: items},
	}}}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := nbt.Encode(gz, "", root); err != nil {
		t.Fatalf("encode level.dat: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "level.dat"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write level.dat: %v", err)
	}

	s, err := world.Open(dir, world.Options{})
	if err != nil {
		t.Fatalf("open world: %v", err)
	}

	viper.Set("world", dir)
	t.Cleanup(func() { viper.Set("world", ".") })
	return s
}

// seedMap stores a record whose identity key follows from centerX, so
// records sharing a centerX are duplicate candidates.
func seedMap(t *testing.T, s *world.Store, id int, dataVersion, centerX int32, pixels map[int]byte) {
	t.Helper()
	colors := make([]byte, mapitem.RasterLen)
	for i, v := range pixels {
		colors[i] = v
	}
	root := nbt.Compound{
		"DataVersion": nbt.Int(dataVersion),
		"data": nbt.Compound{
			"scale":             nbt.Byte(0),
			"dimension":         nbt.String("minecraft:overworld"),
			"xCenter":           nbt.Int(centerX),
			"zCenter":           nbt.Int(-64),
			"unlimitedTracking": nbt.Byte(0),
			"colors":            nbt.ByteArray(colors),
		},
	}
	m, err := mapitem.New(id, root)
	if err != nil {
		t.Fatalf("build map %d: %v", id, err)
	}
	if err := s.Save(m); err != nil {
		t.Fatalf("save map %d: %v", id, err)
	}
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
