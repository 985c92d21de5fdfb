package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/worldtools/mapkit/dedup"
)

var (
	dedupDryRun   bool
	dedupNoDefrag bool
)

func init() {
	cmd := newDedupCmd()
	cmd.Flags().BoolVar(&dedupDryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().BoolVar(&dedupNoDefrag, "no-defrag", false, "Merge duplicates but leave the id space as it is")
	rootCmd.AddCommand(cmd)
}

func newDedupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Merge every duplicate map and compact the id space",
		Long: `The dedup command runs the whole pipeline. It loads every record,
scans the world for references, merges unreferenced duplicates into the
newest record of each group, deletes the merged sources, renumbers the
survivors to close the gaps while rewriting every reference to follow
them, and finally lowers the allocation counter to match.

A partial reference scan downgrades deletion and renumbering to plans;
merged targets are still written.

Example:
  mapctl dedup
  mapctl dedup --dry-run
  mapctl dedup --no-defrag`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedup(cmd.Context())
		},
	}
	return cmd
}

func runDedup(ctx context.Context) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	report, err := dedup.New(s, dedup.Options{
		DryRun:     dedupDryRun,
		SkipDefrag: dedupNoDefrag,
		Logger:     newLogger(),
	}).Run(ctx)
	if report != nil {
		if perr := printReport(report); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}
