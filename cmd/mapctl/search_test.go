package main

import (
	"context"
	"testing"
)

func TestSearchCommand(t *testing.T) {
	tests := []struct {
		name           string
		verboseOut     bool
		wantJSON       bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "counts per id",
			wantContain: []string{
				"map 3: 2 references",
				"map 5: 1 references",
				"3 references to 2 maps",
			},
			wantNotContain: []string{"level.dat", "scan incomplete"},
		},
		{
			name:       "verbose lists reference sites",
			verboseOut: true,
			wantContain: []string{
				"level.dat:Data.Player.Inventory[0].tag.map",
				"level.dat:Data.Player.Inventory[2].tag.map",
			},
		},
		{
			name:     "json index",
			wantJSON: true,
			wantContain: []string{
				`"partial": false`,
				`"file": "level.dat"`,
				`"chunk": -1`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = tt.verboseOut
			jsonOut = tt.wantJSON

			newTestWorld(t, 3, 3, 5)

			output, err := captureOutput(t, func() error {
				return runSearch(context.Background())
			})
			if err != nil {
				t.Fatalf("runSearch() error = %v", err)
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}
