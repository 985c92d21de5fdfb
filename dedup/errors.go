package dedup

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a violated safety guarantee. It aborts the whole
// run rather than the one merge, since it proves the validator and
// applier can disagree.
var ErrInvariant = errors.New("dedup: invariant violation")

// InvariantError carries the merge that exposed the violation.
type InvariantError struct {
	SourceID int
	TargetID int
	Detail   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("dedup: invariant violated merging map %d into %d: %s",
		e.SourceID, e.TargetID, e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
