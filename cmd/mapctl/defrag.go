package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/worldtools/mapkit/dedup"
)

var defragDryRun bool

func init() {
	cmd := newDefragCmd()
	cmd.Flags().BoolVar(&defragDryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.AddCommand(cmd)
}

func newDefragCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defrag",
		Short: "Compact map ids without merging",
		Long: `The defrag command renumbers the existing records so ids run from 0
with no gaps, rewrites every reference to follow the moved records and
lowers the allocation counter. Duplicates are left alone.

Renumbering needs a complete reference scan; a partial one downgrades
the moves to plans.

Example:
  mapctl defrag
  mapctl defrag --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefrag(cmd.Context())
		},
	}
	return cmd
}

func runDefrag(ctx context.Context) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	report, err := dedup.New(s, dedup.Options{
		SkipMerge: true,
		DryRun:    defragDryRun,
		Logger:    newLogger(),
	}).Run(ctx)
	if report != nil {
		if perr := printReport(report); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}
