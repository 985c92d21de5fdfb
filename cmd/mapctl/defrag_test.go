package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"testing"
)

func TestDefragCommandLeavesDuplicatesAlone(t *testing.T) {
	// Reset flags
	quiet = false
	verbose = false
	jsonOut = false
	defragDryRun = false

	s := newTestWorld(t, 9)
	seedMap(t, s, 3, 2586, 64, nil)
	seedMap(t, s, 9, 2590, 64, nil)

	output, err := captureOutput(t, func() error {
		return runDefrag(context.Background())
	})
	if err != nil {
		t.Fatalf("runDefrag() error = %v", err)
	}

	assertContains(t, output, []string{
		"moved map 3 -> 0 (0 references)",
		"moved map 9 -> 1 (1 references)",
		"allocation counter set to 1",
		"2 maps scanned, 0 deleted",
	})
	assertNotContains(t, output, []string{"merged", "rejected", "skipped"})

	// Both records survive under their new ids, duplicates included.
	for _, id := range []int{0, 1} {
		if _, err := os.Stat(s.MapPath(id)); err != nil {
			t.Errorf("map %d missing after defrag: %v", id, err)
		}
	}
	for _, id := range []int{3, 9} {
		if _, err := os.Stat(s.MapPath(id)); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("map %d still at old id: %v", id, err)
		}
	}

	// The inventory reference followed its record.
	ix, err := s.WalkRefs(context.Background())
	if err != nil {
		t.Fatalf("WalkRefs() error = %v", err)
	}
	if !ix.Has(1) || ix.Has(9) {
		t.Errorf("reference not retargeted: %v", ix.Refs)
	}
}

func TestMergeCommandRejectsBadID(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false

	_, err := captureOutput(t, func() error {
		return runMerge(context.Background(), []string{"12", "x"})
	})
	if err == nil {
		t.Fatal("runMerge() accepted a non-numeric id")
	}
}
