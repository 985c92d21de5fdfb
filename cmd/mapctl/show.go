package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldtools/mapkit/nbt"
	"github.com/worldtools/mapkit/world"
)

func init() {
	rootCmd.AddCommand(newShowCmd())
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>...",
		Short: "Print the decoded record tree of one or more maps",
		Long: `The show command loads the named map records and prints their full
decoded trees. Large arrays such as the pixel raster are summarized by
length. A missing id is reported without aborting the remaining ones.

Example:
  mapctl show 12
  mapctl show 12 13 14 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args)
		},
	}
	return cmd
}

func runShow(args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}

	type record struct {
		mapSummary
		Tree string `json:"tree"`
	}
	var out []record
	missing := 0
	for _, id := range ids {
		m, err := s.Load(id)
		if errors.Is(err, world.ErrNotFound) {
			printError("map %d not found\n", id)
			missing++
			continue
		}
		if err != nil {
			return err
		}
		if jsonOut {
			out = append(out, record{mapSummary: summarize(m), Tree: nbt.Sprint(m.Root())})
			continue
		}
		printInfo("%s\n", m)
		printInfo("%s\n", nbt.Sprint(m.Root()))
	}
	if jsonOut {
		if err := printJSON(out); err != nil {
			return err
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d maps not found", missing, len(ids))
	}
	return nil
}
