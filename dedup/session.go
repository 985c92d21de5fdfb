package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/worldtools/mapkit/mapitem"
	"github.com/worldtools/mapkit/world"
)

// Store is the slice of the world layer the pipeline drives. It is
// satisfied by *world.Store.
type Store interface {
	LoadAll(ctx context.Context) ([]*mapitem.Map, error)
	Save(m *mapitem.Map) error
	Delete(m *mapitem.Map) error
	Rename(oldID, newID int) error
	WalkRefs(ctx context.Context) (*world.RefIndex, error)
	RewriteRef(ref world.Ref, newID int) error
	ReadIDCounter() (int, bool, error)
	WriteIDCounter(n int) error
}

var _ Store = (*world.Store)(nil)

// Options configures a Session.
type Options struct {
	// DryRun plans and reports without writing anything.
	DryRun bool

	// SkipDefrag leaves the id space as it is after merging.
	SkipDefrag bool

	// SkipMerge leaves duplicate groups alone and only compacts the id
	// space.
	SkipMerge bool

	// IDs restricts the run to the given records. A restricted run
	// never defragments or touches the allocation counter, since it
	// sees only a slice of the id space.
	IDs []int

	// Logger receives per-step diagnostics. nil discards.
	Logger *slog.Logger
}

// Session runs the duplicate-map pipeline against one store.
type Session struct {
	store Store
	opts  Options
	log   *slog.Logger
}

func New(store Store, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Session{store: store, opts: opts, log: log}
}

// Run executes the pipeline and reports what it did, or would have
// done under DryRun. Rejected and skipped merges are recorded in the
// report without failing the run; an InvariantError or a store failure
// aborts it, returning the partial report alongside the error.
func (s *Session) Run(ctx context.Context) (*Report, error) {
	maps, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{DryRun: s.opts.DryRun}
	if len(s.opts.IDs) > 0 {
		maps = s.restrict(maps, report)
	}
	report.Scanned = len(maps)

	refs, err := s.store.WalkRefs(ctx)
	if err != nil {
		return nil, err
	}
	report.Partial = refs.Partial
	if refs.Partial {
		s.log.Warn("reference scan incomplete, destructive steps downgraded to plans")
	}

	gone := make(map[int]bool)
	if !s.opts.SkipMerge {
		for _, g := range mapitem.GroupDuplicates(maps) {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			gr, err := s.mergeGroup(g, refs, gone)
			report.Groups = append(report.Groups, gr)
			if err != nil {
				return report, err
			}
		}
	}

	if s.opts.SkipDefrag || len(s.opts.IDs) > 0 {
		return report, nil
	}
	survivors := make([]*mapitem.Map, 0, len(maps))
	for _, m := range maps {
		if !gone[m.ID()] {
			survivors = append(survivors, m)
		}
	}
	if err := s.defrag(survivors, refs, report); err != nil {
		return report, err
	}
	return report, nil
}

// restrict drops every record not named in Options.IDs. Requested ids
// without a record are reported and logged, not fatal.
func (s *Session) restrict(maps []*mapitem.Map, report *Report) []*mapitem.Map {
	want := make(map[int]bool, len(s.opts.IDs))
	for _, id := range s.opts.IDs {
		want[id] = true
	}
	var kept []*mapitem.Map
	for _, m := range maps {
		if want[m.ID()] {
			kept = append(kept, m)
			delete(want, m.ID())
		}
	}
	for id := range want {
		s.log.Warn("map not found", "id", id)
		report.Missing = append(report.Missing, id)
	}
	sort.Ints(report.Missing)
	return kept
}

func (s *Session) mergeGroup(g mapitem.Group, refs *world.RefIndex, gone map[int]bool) (GroupReport, error) {
	target := g.Target()
	gr := GroupReport{Key: g.Key, TargetID: target.ID()}

	for _, src := range g.Sources() {
		mr := MergeReport{SourceID: src.ID()}
		if n := len(refs.Refs[src.ID()]); n > 0 {
			mr.Outcome = OutcomeSkipped
			mr.Reason = fmt.Sprintf("%d live references", n)
			s.log.Info("skipping referenced duplicate", "id", src.ID(), "refs", n)
			gr.Merges = append(gr.Merges, mr)
			continue
		}

		res, err := mapitem.TryMerge(src, target)
		if err != nil {
			mr.Outcome = OutcomeRejected
			mr.Reason = err.Error()
			s.log.Warn("merge rejected", "source", src.ID(), "target", target.ID(), "err", err)
			gr.Merges = append(gr.Merges, mr)
			continue
		}
		switch {
		case res.Identical:
			mr.Outcome = OutcomeIdentical
		case len(res.Changes) == 0:
			mr.Outcome = OutcomeNoop
		default:
			mr.Outcome = OutcomeMerged
			mr.Changes = len(res.Changes)
		}

		if len(res.Changes) > 0 && !s.opts.DryRun {
			if err := s.applyAndSave(src, target, res.Changes); err != nil {
				gr.Merges = append(gr.Merges, mr)
				return gr, err
			}
			s.log.Info("merged map", "source", src.ID(), "target", target.ID(), "pixels", len(res.Changes))
		}

		// The target now holds everything the source had. Saving before
		// deleting means a failure in between leaves the source behind;
		// a rerun finds it identical and retries the delete.
		switch {
		case refs.Partial:
			s.log.Info("deletion planned, reference scan incomplete", "id", src.ID())
		case s.opts.DryRun:
			s.log.Info("would delete map", "id", src.ID())
			gone[src.ID()] = true
		default:
			if err := s.store.Delete(src); err != nil {
				gr.Merges = append(gr.Merges, mr)
				return gr, fmt.Errorf("delete map %d: %w", src.ID(), err)
			}
			mr.Deleted = true
			gone[src.ID()] = true
			s.log.Info("deleted duplicate map", "id", src.ID(), "into", target.ID())
		}
		gr.Merges = append(gr.Merges, mr)
	}
	return gr, nil
}

// applyAndSave writes changes into the target raster, verifies the
// merge converged, and persists the target. Residual divergence after
// an apply means the validator and applier disagree; that voids the
// safety argument for every other merge, so it aborts the run.
func (s *Session) applyAndSave(src, target *mapitem.Map, changes []mapitem.PixelChange) error {
	if err := target.ApplyPixels(changes); err != nil {
		return &InvariantError{
			SourceID: src.ID(),
			TargetID: target.ID(),
			Detail:   fmt.Sprintf("apply failed: %v", err),
		}
	}
	res, err := mapitem.TryMerge(src, target)
	if err != nil {
		return &InvariantError{
			SourceID: src.ID(),
			TargetID: target.ID(),
			Detail:   fmt.Sprintf("post-merge check rejected: %v", err),
		}
	}
	if len(res.Changes) != 0 {
		return &InvariantError{
			SourceID: src.ID(),
			TargetID: target.ID(),
			Detail:   fmt.Sprintf("%d pixel changes remain after apply", len(res.Changes)),
		}
	}
	if err := s.store.Save(target); err != nil {
		return fmt.Errorf("save map %d: %w", target.ID(), err)
	}
	return nil
}

// defrag compacts the id space. Moves run in plan order, so each target
// id is free by the time it is needed. Every move renames the record
// file first and then retargets the references that pointed at the old
// id; a failed rewrite rolls the whole move back rather than leave a
// dangling reference.
func (s *Session) defrag(survivors []*mapitem.Map, refs *world.RefIndex, report *Report) error {
	moves := mapitem.PlanDefrag(survivors)
	execute := !s.opts.DryRun && !refs.Partial

	for _, mv := range moves {
		mr := MoveReport{From: mv.From, To: mv.To, Refs: len(refs.Refs[mv.From])}
		if !execute {
			s.log.Info("would move map", "from", mv.From, "to", mv.To, "refs", mr.Refs)
			report.Moves = append(report.Moves, mr)
			continue
		}
		if err := s.move(mv, refs.Refs[mv.From]); err != nil {
			report.Moves = append(report.Moves, mr)
			return err
		}
		mr.Done = true
		report.Moves = append(report.Moves, mr)
		s.log.Info("moved map", "from", mv.From, "to", mv.To, "refs", mr.Refs)
	}

	if len(survivors) == 0 {
		return nil
	}
	counter := len(survivors) - 1
	cur, ok, err := s.store.ReadIDCounter()
	if err != nil {
		return err
	}
	if ok && cur == counter {
		return nil
	}
	cr := &CounterReport{From: -1, To: counter}
	if ok {
		cr.From = cur
	}
	if execute {
		if err := s.store.WriteIDCounter(counter); err != nil {
			return err
		}
		cr.Written = true
		s.log.Info("updated allocation counter", "from", cr.From, "to", counter)
	} else {
		s.log.Info("would update allocation counter", "from", cr.From, "to", counter)
	}
	report.Counter = cr
	return nil
}

func (s *Session) move(mv mapitem.Move, refs []world.Ref) error {
	if err := s.store.Rename(mv.From, mv.To); err != nil {
		return fmt.Errorf("move map %d to %d: %w", mv.From, mv.To, err)
	}
	for i, ref := range refs {
		if err := s.store.RewriteRef(ref, mv.To); err != nil {
			s.rollbackMove(mv, refs[:i])
			return fmt.Errorf("move map %d to %d: rewrite %s: %w", mv.From, mv.To, ref, err)
		}
	}
	return nil
}

// rollbackMove undoes a half-finished move: references already
// rewritten go back to the old id, then the file itself. Failures here
// are logged and swallowed; the caller is already returning the root
// cause.
func (s *Session) rollbackMove(mv mapitem.Move, rewritten []world.Ref) {
	for _, ref := range rewritten {
		if err := s.store.RewriteRef(ref, mv.From); err != nil {
			s.log.Error("rollback: reference still points at new id",
				"ref", ref.String(), "id", mv.To, "err", err)
		}
	}
	if err := s.store.Rename(mv.To, mv.From); err != nil {
		s.log.Error("rollback: record left at new id",
			"from", mv.To, "to", mv.From, "err", err)
	}
}
