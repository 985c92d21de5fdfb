package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/worldtools/mapkit/dedup"
)

var mergeDryRun bool

func init() {
	cmd := newMergeCmd()
	cmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.AddCommand(cmd)
}

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <id> <id>...",
		Short: "Merge a chosen set of duplicate maps",
		Long: `The merge command restricts deduplication to the named ids. The
records are grouped by identity key, older records merge into the
newest of each group, and fully merged sources are deleted. The id
space is left alone; run dedup or defrag to compact it.

A source some item or frame still references is skipped, and a source
whose pixels conflict with the target is rejected. Neither case aborts
the rest.

Example:
  mapctl merge 114 115
  mapctl merge 114 115 --dry-run`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd.Context(), args)
		},
	}
	return cmd
}

func runMerge(ctx context.Context, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}

	report, err := dedup.New(s, dedup.Options{
		IDs:    ids,
		DryRun: mergeDryRun,
		Logger: newLogger(),
	}).Run(ctx)
	if report != nil {
		if perr := printReport(report); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}
