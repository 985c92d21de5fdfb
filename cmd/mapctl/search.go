package main

import (
	"context"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSearchCmd())
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Scan the world for references to map items",
		Long: `The search command walks level.dat, the player data, the extra data
files and every region file looking for map item references, then
prints how many references point at each map id. With --verbose every
reference site is listed. An unreadable file degrades the scan to a
partial one instead of aborting it.

Example:
  mapctl search
  mapctl search --verbose
  mapctl search --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context())
		},
	}
	return cmd
}

func runSearch(ctx context.Context) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	ix, err := s.WalkRefs(ctx)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(ix)
	}

	ids := make([]int, 0, len(ix.Refs))
	for id := range ix.Refs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		refs := ix.Refs[id]
		printInfo("map %d: %d references\n", id, len(refs))
		for _, ref := range refs {
			printVerbose("  %s\n", ref)
		}
	}
	printInfo("\n%d references to %d maps\n", ix.Total(), len(ix.Refs))
	if ix.Partial {
		printInfo("scan incomplete: some files could not be read\n")
	}
	return nil
}
