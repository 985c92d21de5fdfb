package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/worldtools/mapkit/mapitem"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every map record in the world",
		Long: `The list command reads every map_<id>.dat record under the world's
data directory and prints a one-line summary per map. Records that fail
to decode are skipped with a warning.

Example:
  mapctl list --world ~/saves/main
  mapctl list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context())
		},
	}
	return cmd
}

// mapSummary is the JSON rendition of one record's metadata. Key is
// omitted when the identity fields cannot be read.
type mapSummary struct {
	ID          int          `json:"id"`
	Category    string       `json:"category"`
	Key         *mapitem.Key `json:"key,omitempty"`
	DataVersion int          `json:"dataVersion"`
}

func summarize(m *mapitem.Map) mapSummary {
	row := mapSummary{
		ID:          m.ID(),
		Category:    m.Category().String(),
		DataVersion: m.DataVersion(),
	}
	if key, ok := m.Key(); ok {
		row.Key = &key
	}
	return row
}

func runList(ctx context.Context) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	maps, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	if jsonOut {
		rows := make([]mapSummary, 0, len(maps))
		for _, m := range maps {
			rows = append(rows, summarize(m))
		}
		return printJSON(rows)
	}

	for _, m := range maps {
		printInfo("%s\n", m)
	}
	printInfo("\n%d maps\n", len(maps))
	return nil
}
