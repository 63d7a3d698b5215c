// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/courseplan/services/planner/catalog"
	"github.com/AleutianAI/courseplan/services/planner/graph"
	"github.com/AleutianAI/courseplan/services/planner/schedule"
	"github.com/AleutianAI/courseplan/services/planner/timetable"
)

// DefaultMaxTermScan bounds the forward scan over term indices for a
// single course. A well-formed catalog commits long before this bound (an
// empty term admits any course that is offered at all), so exhausting it
// means the instance is unsatisfiable and is reported as ErrPlacement.
const DefaultMaxTermScan = 512

// Options configures a Scheduler.
type Options struct {
	// StartTerm is the term type of term index 0. Default: fall.
	StartTerm catalog.TermType

	// MaxTermScan bounds the forward scan per course.
	// Default: DefaultMaxTermScan.
	MaxTermScan int

	// Logger receives structured progress and recovery logs.
	// Default: slog.Default().
	Logger *slog.Logger
}

// Option is a functional option for configuring the Scheduler.
type Option func(*Options)

// WithStartTerm sets the term type of term index 0.
func WithStartTerm(t catalog.TermType) Option {
	return func(o *Options) {
		o.StartTerm = t
	}
}

// WithMaxTermScan sets the forward-scan bound per course.
func WithMaxTermScan(n int) Option {
	return func(o *Options) {
		o.MaxTermScan = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Scheduler plans programs of study over a requisite graph.
//
// The scheduler reads the graph but never mutates it; the graph must not be
// mutated by others while BuildSchedule runs. Each BuildSchedule call uses
// a fresh timetable resolver and schedule, so a Scheduler may be reused
// across runs.
type Scheduler struct {
	graph *graph.Graph
	opts  Options
}

// New creates a Scheduler over g.
func New(g *graph.Graph, opts ...Option) *Scheduler {
	options := Options{
		StartTerm:   catalog.TermTypeFall,
		MaxTermScan: DefaultMaxTermScan,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxTermScan <= 0 {
		options.MaxTermScan = DefaultMaxTermScan
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Scheduler{graph: g, opts: options}
}

// run is the per-call state of one scheduling run.
type run struct {
	sched    *schedule.Schedule
	resolver *timetable.Resolver
	costs    graph.Costs
	target   int
}

// BuildSchedule produces a feasible schedule containing targetCredits
// courses drawn from the requisite chains of the named degree course,
// topped up with filler courses when the required chains alone do not
// reach the target.
//
// Errors follow the package taxonomy: ErrConfiguration before any work,
// ErrPlacement when the instance is unsatisfiable, ErrInternal for states
// that indicate a defect. The returned schedule is complete and read-only.
func (s *Scheduler) BuildSchedule(ctx context.Context, termCapacity, targetCredits int, degree string) (*schedule.Schedule, error) {
	ctx, span := tracer.Start(ctx, "Scheduler.BuildSchedule")
	defer span.End()
	span.SetAttributes(
		attribute.Int("plan.term_capacity", termCapacity),
		attribute.Int("plan.target_credits", targetCredits),
		attribute.String("plan.degree", degree),
	)
	start := time.Now()

	r, err := s.validate(termCapacity, targetCredits, degree)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordRun(time.Since(start), false)
		return nil, err
	}

	// Independent chain heads beyond the degree's reach only matter for
	// the filler phase; surface them for diagnosis.
	if heads := s.graph.Roots(degree); len(heads) > 0 {
		s.opts.Logger.Debug("independent chain heads present", "count", len(heads))
	}

	if err := s.placeRequired(ctx, r, degree); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordRun(time.Since(start), false)
		return nil, err
	}

	if r.sched.PlacedCount() < r.target {
		s.placeFillers(ctx, r)
	}

	if got := r.sched.PlacedCount(); got < r.target {
		err := fmt.Errorf("%w: placed %d of %d requested courses", ErrPlacement, got, r.target)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordRun(time.Since(start), false)
		return nil, err
	}

	span.SetAttributes(attribute.Int("plan.terms", r.sched.TermCount()))
	recordRun(time.Since(start), true)
	s.opts.Logger.Info("schedule built",
		"courses", r.sched.PlacedCount(),
		"terms", r.sched.TermCount(),
		"duration", time.Since(start),
	)
	return r.sched, nil
}

// validate applies the configuration checks that must pass before any
// placement work begins. On success it returns the initialized run state.
func (s *Scheduler) validate(termCapacity, targetCredits int, degree string) (*run, error) {
	if termCapacity <= 0 {
		return nil, fmt.Errorf("%w: term capacity %d", ErrConfiguration, termCapacity)
	}
	if targetCredits < 0 {
		return nil, fmt.Errorf("%w: target credit count %d", ErrConfiguration, targetCredits)
	}

	v, ok := s.graph.Vertex(degree)
	if !ok {
		return nil, fmt.Errorf("%w: degree course %q not in graph", ErrConfiguration, degree)
	}
	if !v.Course.IsRoot {
		return nil, fmt.Errorf("%w: course %q is not a degree root", ErrConfiguration, degree)
	}

	_, ordinary := s.graph.Partition()
	if targetCredits > len(ordinary) {
		return nil, fmt.Errorf("%w: target %d exceeds %d available courses",
			ErrConfiguration, targetCredits, len(ordinary))
	}

	costs, err := s.graph.ComputeCostHeuristic(degree)
	if err != nil {
		// The degree vertex was checked above.
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	sched, err := schedule.New(termCapacity, s.opts.StartTerm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return &run{
		sched:    sched,
		resolver: timetable.NewResolver(),
		costs:    costs,
		target:   targetCredits,
	}, nil
}

// placeRequired walks the degree's immediate dependencies as a priority
// stack (highest cost on top) and places each chain in dependency order.
// Any placement failure here is fatal.
func (s *Scheduler) placeRequired(ctx context.Context, r *run, degree string) error {
	v, _ := s.graph.Vertex(degree)

	chains := v.Outgoing()
	// Ascending by cost, consumed from the back: longest/most constrained
	// chains are attempted first. Name breaks ties deterministically.
	sort.Slice(chains, func(i, j int) bool {
		ci, cj := r.costs.Of(chains[i].Target), r.costs.Of(chains[j].Target)
		if ci != cj {
			return ci < cj
		}
		return chains[i].Target > chains[j].Target
	})

	for len(chains) > 0 && r.sched.PlacedCount() < r.target {
		head := chains[len(chains)-1].Target
		chains = chains[:len(chains)-1]
		if _, placed := r.sched.TermForCourse(head); placed {
			continue
		}
		if err := s.placeChain(ctx, r, head, "required"); err != nil {
			return err
		}
	}
	return nil
}

// placeFillers opportunistically places unrequired courses, highest cost
// first, until the target is reached or candidates run out. A chain that
// cannot be placed is abandoned and the next candidate is tried.
func (s *Scheduler) placeFillers(ctx context.Context, r *run) {
	_, ordinary := s.graph.Partition()
	sort.SliceStable(ordinary, func(i, j int) bool {
		return r.costs.Of(ordinary[i].Name) > r.costs.Of(ordinary[j].Name)
	})

	for _, c := range ordinary {
		if r.sched.PlacedCount() >= r.target {
			return
		}
		if _, placed := r.sched.TermForCourse(c.Name); placed {
			continue
		}
		if err := s.placeChain(ctx, r, c.Name, "filler"); err != nil {
			fillerAbandoned.Inc()
			s.opts.Logger.Warn("filler chain abandoned", "course", c.Name, "error", err)
		}
	}
}

// placeChain visits every vertex reachable from head in dependency order
// and places each one that is not yet scheduled. Placement per vertex is
// monotonic: once placed, a vertex is skipped silently by later walks.
func (s *Scheduler) placeChain(ctx context.Context, r *run, head, phase string) error {
	var failure error
	s.graph.TopoFrom(head)(func(v *graph.Vertex) bool {
		if v.Course.IsRoot {
			return true
		}
		if _, placed := r.sched.TermForCourse(v.Name()); placed {
			return true
		}
		if err := s.placeCourse(ctx, r, v, phase); err != nil {
			failure = err
			return false
		}
		return r.sched.PlacedCount() < r.target
	})
	return failure
}

// placeCourse commits one course to the earliest legal term.
//
// The earliest candidate index is strictly after every prerequisite and no
// earlier than every corequisite. From there the scan moves forward,
// skipping terms that are full, lack an offering of the term's type, or
// fail timetable resolution; the first term passing all three checks wins.
func (s *Scheduler) placeCourse(ctx context.Context, r *run, v *graph.Vertex, phase string) error {
	earliest := 0
	for _, e := range v.Outgoing() {
		depTerm, ok := r.sched.TermForCourse(e.Target)
		if !ok {
			// Topological order guarantees dependencies are placed first.
			return &PlacementError{Course: v.Name(), Phase: phase,
				Err: fmt.Errorf("%w: dependency %s unscheduled", ErrInternal, e.Target)}
		}
		switch e.Relation {
		case graph.RelationPrereq:
			if depTerm+1 > earliest {
				earliest = depTerm + 1
			}
		case graph.RelationCoreq:
			if depTerm > earliest {
				earliest = depTerm
			}
		}
	}

	for idx := earliest; idx < earliest+s.opts.MaxTermScan; idx++ {
		if r.sched.IsTermFull(idx) {
			continue
		}
		termType := r.sched.TermTypeAt(idx)
		offerings := v.Course.OfferingsFor(termType)
		if len(offerings) == 0 {
			continue
		}
		combo, ok := r.resolver.CanCourseJoinTerm(v.Course, offerings, s.termSlots(r, idx, termType))
		if !ok {
			continue
		}
		if err := s.commit(r, idx, v.Course, combo); err != nil {
			return &PlacementError{Course: v.Name(), Phase: phase,
				Err: fmt.Errorf("%w: %v", ErrInternal, err)}
		}
		placementsTotal.WithLabelValues(phase).Inc()
		termsScanned.Observe(float64(idx - earliest + 1))
		s.opts.Logger.Debug("course placed",
			"course", v.Name(),
			"term", idx,
			"term_type", termType.String(),
			"phase", phase,
		)
		return nil
	}

	return &PlacementError{Course: v.Name(), Phase: phase,
		Err: fmt.Errorf("%w: no legal term within %d terms after %d",
			ErrPlacement, s.opts.MaxTermScan, earliest)}
}

// termSlots rebuilds the resolver view of a term: each occupant with its
// candidate offerings for the term's type.
func (s *Scheduler) termSlots(r *run, idx int, termType catalog.TermType) []timetable.Slot {
	occupied := r.sched.Slots(idx)
	slots := make([]timetable.Slot, 0, len(occupied))
	for _, sl := range occupied {
		slots = append(slots, timetable.Slot{
			Course:    sl.Course,
			Offerings: sl.Course.OfferingsFor(termType),
		})
	}
	return slots
}

// commit applies a feasible combination: the new course is placed and the
// remaining assignments refresh the sections of the term's occupants (the
// resolver may re-pick them to make room).
func (s *Scheduler) commit(r *run, idx int, course catalog.Course, combo timetable.Combination) error {
	for _, a := range combo {
		if a.Course == course.Name {
			if err := r.sched.Place(idx, course, a.Section); err != nil {
				return err
			}
			continue
		}
		if err := r.sched.SetSection(idx, a.Course, a.Section); err != nil {
			return err
		}
	}
	return nil
}
