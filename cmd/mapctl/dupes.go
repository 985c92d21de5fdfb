package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/worldtools/mapkit/mapitem"
)

func init() {
	rootCmd.AddCommand(newDupesCmd())
}

func newDupesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dupes",
		Short: "Group map records that render the same logical map",
		Long: `The dupes command groups records by identity key, the dimension,
center, kind and scale a map renders. Records sharing a key are
candidate duplicates; the newest record of each group, marked with *,
is the one merges would keep.

Example:
  mapctl dupes
  mapctl dupes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDupes(cmd.Context())
		},
	}
	return cmd
}

func runDupes(ctx context.Context) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	maps, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	groups := mapitem.GroupDuplicates(maps)

	if jsonOut {
		type dupeGroup struct {
			Key     mapitem.Key `json:"key"`
			Target  int         `json:"target"`
			Members []int       `json:"members"`
		}
		rows := make([]dupeGroup, 0, len(groups))
		for _, g := range groups {
			row := dupeGroup{Key: g.Key, Target: g.Target().ID()}
			for _, m := range g.Maps {
				row.Members = append(row.Members, m.ID())
			}
			rows = append(rows, row)
		}
		return printJSON(rows)
	}

	for _, g := range groups {
		printInfo("%s\n", g.Key)
		target := g.Target()
		for _, m := range g.Maps {
			marker := " "
			if m == target {
				marker = "*"
			}
			printInfo(" %s %s\n", marker, m)
		}
	}
	printInfo("\n%d duplicate groups among %d maps\n", len(groups), len(maps))
	return nil
}
