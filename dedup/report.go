package dedup

import "github.com/worldtools/mapkit/mapitem"

// Outcome classifies what happened to one merge source.
type Outcome string

const (
	// OutcomeMerged means pixels were copied into the target.
	OutcomeMerged Outcome = "merged"
	// OutcomeIdentical means the records were deeply equal.
	OutcomeIdentical Outcome = "identical"
	// OutcomeNoop means the records diverged only in cells the source
	// left blank, so the target needed nothing.
	OutcomeNoop Outcome = "no-op"
	// OutcomeRejected means the records differ beyond what merge policy
	// allows.
	OutcomeRejected Outcome = "rejected"
	// OutcomeSkipped means the source still has live references.
	OutcomeSkipped Outcome = "skipped"
)

// Report summarizes one pipeline run.
type Report struct {
	// Scanned counts the records the run considered.
	Scanned int `json:"scanned"`
	// Partial is set when the reference scan was incomplete and the run
	// therefore only planned its destructive steps.
	Partial bool `json:"partial"`
	DryRun  bool `json:"dryRun"`
	// Missing lists requested ids with no record, for restricted runs.
	Missing []int `json:"missing,omitempty"`

	Groups  []GroupReport  `json:"groups,omitempty"`
	Moves   []MoveReport   `json:"moves,omitempty"`
	Counter *CounterReport `json:"counter,omitempty"`
}

// Deleted counts the sources physically removed during the run.
func (r *Report) Deleted() int {
	n := 0
	for _, g := range r.Groups {
		for _, m := range g.Merges {
			if m.Deleted {
				n++
			}
		}
	}
	return n
}

// GroupReport covers one duplicate group.
type GroupReport struct {
	Key      mapitem.Key   `json:"key"`
	TargetID int           `json:"target"`
	Merges   []MergeReport `json:"merges"`
}

// MergeReport covers one source folded toward its group target.
type MergeReport struct {
	SourceID int     `json:"source"`
	Outcome  Outcome `json:"outcome"`
	// Changes counts the pixel cells written into the target.
	Changes int    `json:"changes,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Deleted bool   `json:"deleted"`
}

// MoveReport covers one defragmentation move. Done stays false when the
// move was only planned.
type MoveReport struct {
	From int  `json:"from"`
	To   int  `json:"to"`
	Refs int  `json:"refs"`
	Done bool `json:"done"`
}

// CounterReport records the allocation-counter adjustment. From is -1
// when the store had no counter file yet.
type CounterReport struct {
	From    int  `json:"from"`
	To      int  `json:"to"`
	Written bool `json:"written"`
}
