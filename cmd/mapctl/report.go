package main

import "github.com/worldtools/mapkit/dedup"

// printReport renders a dedup run for humans, or as JSON when requested.
func printReport(r *dedup.Report) error {
	if jsonOut {
		return printJSON(r)
	}

	if r.DryRun {
		printInfo("dry run: nothing was written\n")
	}
	if r.Partial {
		printInfo("reference scan incomplete: destructive steps were only planned\n")
	}
	for _, id := range r.Missing {
		printError("map %d not found\n", id)
	}

	for _, g := range r.Groups {
		printInfo("\n%s -> map %d\n", g.Key, g.TargetID)
		for _, m := range g.Merges {
			switch m.Outcome {
			case dedup.OutcomeMerged:
				printInfo("  map %d: merged %d pixels%s\n", m.SourceID, m.Changes, deletedSuffix(m))
			case dedup.OutcomeIdentical:
				printInfo("  map %d: identical%s\n", m.SourceID, deletedSuffix(m))
			case dedup.OutcomeNoop:
				printInfo("  map %d: nothing to contribute%s\n", m.SourceID, deletedSuffix(m))
			case dedup.OutcomeRejected:
				printInfo("  map %d: rejected: %s\n", m.SourceID, m.Reason)
			case dedup.OutcomeSkipped:
				printInfo("  map %d: skipped: %s\n", m.SourceID, m.Reason)
			}
		}
	}

	if len(r.Moves) > 0 {
		printInfo("\n")
	}
	for _, mv := range r.Moves {
		verb := "planned"
		if mv.Done {
			verb = "moved"
		}
		printInfo("%s map %d -> %d (%d references)\n", verb, mv.From, mv.To, mv.Refs)
	}

	if r.Counter != nil {
		if r.Counter.Written {
			printInfo("\nallocation counter set to %d\n", r.Counter.To)
		} else {
			printInfo("\nallocation counter would become %d\n", r.Counter.To)
		}
	}

	printInfo("\n%d maps scanned, %d deleted\n", r.Scanned, r.Deleted())
	return nil
}

func deletedSuffix(m dedup.MergeReport) string {
	if m.Deleted {
		return " (deleted)"
	}
	return ""
}
