package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLostCmd())
}

func newLostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lost",
		Short: "List map records nothing in the world references",
		Long: `The lost command compares the stored map records against a full
reference scan and lists every record no item, frame or container
points at. Lost maps are safe dedup fodder; referenced ones are not.

When the scan is partial the listing is only a candidate set, since an
unreadable file may hold the missing reference.

Example:
  mapctl lost
  mapctl lost --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLost(cmd.Context())
		},
	}
	return cmd
}

func runLost(ctx context.Context) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	maps, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	ix, err := s.WalkRefs(ctx)
	if err != nil {
		return err
	}

	var lost []mapSummary
	for _, m := range maps {
		if !ix.Has(m.ID()) {
			lost = append(lost, summarize(m))
		}
	}

	if jsonOut {
		return printJSON(struct {
			Partial bool         `json:"partial"`
			Maps    []mapSummary `json:"maps"`
		}{Partial: ix.Partial, Maps: lost})
	}

	for _, m := range maps {
		if !ix.Has(m.ID()) {
			printInfo("%s\n", m)
		}
	}
	printInfo("\n%d of %d maps unreferenced\n", len(lost), len(maps))
	if ix.Partial {
		printInfo("scan incomplete: unreadable files may hide references\n")
	}
	return nil
}
