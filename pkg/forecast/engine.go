package forecast

import (
	"fmt"

	"github.com/weatherfordomb/street-condition-simulator/pkg/analytics"
	"github.com/weatherfordomb/street-condition-simulator/pkg/scenario"
	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
)

// Engine forecasts a segment collection under one scenario. It mutates the
// segments it is given; use a fresh collection for each independent run.
type Engine struct {
	segments []*segment.Segment
	scenario *scenario.Scenario
	rng      segment.Source
	basis    analytics.PercentBasis

	conditions []Snapshot
	summaries  []Summary
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the source used for randomized selection order.
// Maintenance draws use each segment's own source.
func WithRand(rng segment.Source) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithPercentBasis sets which segments count toward category percentages.
func WithPercentBasis(b analytics.PercentBasis) Option {
	return func(e *Engine) { e.basis = b }
}

// New builds an engine over segs and sc. Neither is copied.
func New(segs []*segment.Segment, sc *scenario.Scenario, opts ...Option) *Engine {
	e := &Engine{
		segments: segs,
		scenario: sc,
		rng:      segment.GlobalSource,
		basis:    analytics.BasisAllSegments,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Segments returns the collection the engine operates on.
func (e *Engine) Segments() []*segment.Segment {
	return e.segments
}

// Run simulates every configured year and returns the accumulated
// condition snapshots and summaries in year order.
func (e *Engine) Run() ([]Snapshot, []Summary, error) {
	for year := 1; year <= e.scenario.YearsToSimulate; year++ {
		if _, _, err := e.RunYear(year); err != nil {
			return e.conditions, e.summaries, err
		}
	}
	return e.conditions, e.summaries, nil
}

// RunYear funds preventive work, then rehab with the preventive remainder
// folded in, deteriorates every segment once and summarizes the result.
func (e *Engine) RunYear(year int) (Snapshot, Summary, error) {
	preventiveBudget, rehabBudget, err := e.scenario.Budgets(year)
	if err != nil {
		return Snapshot{}, Summary{}, fmt.Errorf("year %d: %w", year, err)
	}

	prev := allocate(
		e.eligible((*segment.Segment).PreventiveEligible),
		SelectorFor(e.scenario.PreventiveSelectionMethod, e.rng),
		preventiveBudget,
		(*segment.Segment).PreventiveCost,
		(*segment.Segment).ApplyPreventiveMaintenance,
	)

	rehab := allocate(
		e.eligible((*segment.Segment).RehabEligible),
		SelectorFor(e.scenario.RehabSelectionMethod, e.rng),
		rehabBudget+prev.Remaining,
		(*segment.Segment).RehabCost,
		(*segment.Segment).ApplyRehab,
	)

	snap := Snapshot{Year: year, Entries: make([]Entry, len(e.segments))}
	for i, s := range e.segments {
		s.ApplyOneYear()
		snap.Entries[i] = Entry{ID: s.ID, Condition: s.Condition()}
	}

	summary := newSummary(year, prev, rehab, rehabBudget, analytics.Aggregate(e.segments, e.basis))

	e.conditions = append(e.conditions, snap)
	e.summaries = append(e.summaries, summary)
	return snap, summary, nil
}

func (e *Engine) eligible(pred func(*segment.Segment) bool) []*segment.Segment {
	var out []*segment.Segment
	for _, s := range e.segments {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

// allocate offers budget to candidates in selector order. Candidates that
// cost more than what is left are skipped; later, cheaper ones may still
// be funded.
func allocate(candidates []*segment.Segment, sel Selector, budget float64,
	cost func(*segment.Segment) float64, apply func(*segment.Segment)) PassResult {
	res := PassResult{Budget: budget, Remaining: budget}
	sel.Order(candidates)
	for _, s := range candidates {
		c := cost(s)
		if res.Remaining < c {
			continue
		}
		res.Remaining -= c
		res.Spent += c
		res.Funded++
		apply(s)
	}
	return res
}
