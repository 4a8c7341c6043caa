package segment

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Maintenance thresholds and unit rates. These are treatment properties,
// not scenario assumptions.
const (
	PreventiveMinCondition = 70.0
	PreventiveMaxCondition = 80.0
	RehabMinCondition      = 0.0
	RehabMaxCondition      = 50.0

	PreventiveCostPerSqYd = 3
	RehabCostPerSqYd      = 8
	SqFtPerSqYd           = 9

	minHoldYears    = 4
	holdYearsSpread = 4 // hold lasts minHoldYears..minHoldYears+spread-1
	rehabCeiling    = 99
	rehabSpread     = 4 // post-rehab condition is 96..99
	holdDecrement   = 0.5
)

// Source supplies the random draws used by maintenance events and
// randomized selection. *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalSource struct{}

func (globalSource) IntN(n int) int                     { return rand.IntN(n) }
func (globalSource) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// GlobalSource draws from the math/rand/v2 top-level generator.
var GlobalSource Source = globalSource{}

// Record is the inventory row a segment is built from.
type Record struct {
	ID               int     `json:"id"`
	InitialCondition float64 `json:"initial_condition"`
	Length           int     `json:"length"`
	Width            int     `json:"width"`
	SurfaceType      string  `json:"surface_type"`
	StreetClass      string  `json:"street_class"`
}

type pendingRehab struct {
	value float64
	set   bool
}

// Segment is one street segment and its condition history. Index 0 of the
// history is the initial condition; index k is the condition at the end of
// simulated year k.
type Segment struct {
	ID          int
	Length      int
	Width       int
	Area        int // square yards
	SurfaceType string
	StreetClass string
	Surface     Surface
	Class       Class

	conditions []float64
	holdYears  int
	pending    pendingRehab
	rng        Source
}

// New builds a segment from an inventory record. Unrecognized surface or
// class values fall back to the concrete / local rows and are logged once
// per distinct value. A nil rng uses GlobalSource.
func New(r Record, rng Source) *Segment {
	if rng == nil {
		rng = GlobalSource
	}
	surface, ok := ParseSurface(r.SurfaceType)
	if !ok {
		warnOnce("surface type", r.SurfaceType, surface.String())
	}
	class, ok := ParseClass(r.StreetClass)
	if !ok {
		warnOnce("street class", r.StreetClass, class.String())
	}

	return &Segment{
		ID:          r.ID,
		Length:      r.Length,
		Width:       r.Width,
		Area:        int(math.Round(float64(r.Width*r.Length) / SqFtPerSqYd)),
		SurfaceType: r.SurfaceType,
		StreetClass: r.StreetClass,
		Surface:     surface,
		Class:       class,
		conditions:  []float64{r.InitialCondition},
		rng:         rng,
	}
}

// Condition returns the latest condition value.
func (s *Segment) Condition() float64 {
	return s.conditions[len(s.conditions)-1]
}

// ConditionAt returns the condition at the end of the given simulated year
// (0 = initial).
func (s *Segment) ConditionAt(year int) (float64, error) {
	if year < 0 || year >= len(s.conditions) {
		return 0, fmt.Errorf("segment %d: no condition for year %d (have %d)", s.ID, year, len(s.conditions)-1)
	}
	return s.conditions[year], nil
}

// History returns a copy of the condition history.
func (s *Segment) History() []float64 {
	out := make([]float64, len(s.conditions))
	copy(out, s.conditions)
	return out
}

// YearsSimulated is the number of deterioration steps applied so far.
func (s *Segment) YearsSimulated() int {
	return len(s.conditions) - 1
}

// HoldYearsRemaining is the number of years preventive treatment still
// suppresses normal deterioration.
func (s *Segment) HoldYearsRemaining() int {
	return s.holdYears
}

// PendingRehab returns the post-rehab condition awaiting the next
// deterioration step, if any.
func (s *Segment) PendingRehab() (float64, bool) {
	return s.pending.value, s.pending.set
}

// PreventiveCost is the cost of preventive treatment for the whole segment.
// Segments with non-positive area cost nothing.
func (s *Segment) PreventiveCost() float64 {
	return float64(max(s.Area, 0) * PreventiveCostPerSqYd)
}

// PreventiveEligible reports whether the segment has no active hold and its
// latest condition lies within the preventive range.
func (s *Segment) PreventiveEligible() bool {
	pci := s.Condition()
	return s.holdYears == 0 && pci >= PreventiveMinCondition && pci <= PreventiveMaxCondition
}

// ApplyPreventiveMaintenance starts a deterioration hold of 4 to 7 years.
func (s *Segment) ApplyPreventiveMaintenance() {
	s.holdYears = minHoldYears + s.rng.IntN(holdYearsSpread)
}

// RehabCost is the cost of full rehabilitation for the whole segment.
func (s *Segment) RehabCost() float64 {
	return float64(max(s.Area, 0) * RehabCostPerSqYd)
}

// RehabEligible reports whether the latest condition lies within the rehab range.
func (s *Segment) RehabEligible() bool {
	pci := s.Condition()
	return pci >= RehabMinCondition && pci <= RehabMaxCondition
}

// ApplyRehab records a post-rehab condition of 96 to 99, applied at the
// next deterioration step. A second call before then overwrites it.
func (s *Segment) ApplyRehab() {
	s.pending = pendingRehab{value: float64(rehabCeiling - s.rng.IntN(rehabSpread)), set: true}
}

// DeductionSlope returns the annual deterioration at the given condition
// for this segment's surface and class.
func (s *Segment) DeductionSlope(pci float64) float64 {
	return DeductSlope(s.Surface, s.Class, pci)
}

// ApplyOneYear appends one year of deterioration to the history. Under a
// preventive hold the loss is a flat half point. Otherwise the table slope
// applies, clamped at zero; a pending rehab replaces the starting value and
// only half the slope is taken.
func (s *Segment) ApplyOneYear() {
	current := s.Condition()

	if s.holdYears > 0 {
		s.conditions = append(s.conditions, current-holdDecrement)
		s.holdYears--
		return
	}

	slope := s.DeductionSlope(current)
	switch {
	case current-slope < 0:
		// The pending value, if any, survives to the next step.
		s.conditions = append(s.conditions, 0)
	case s.pending.set:
		s.conditions = append(s.conditions, s.pending.value-slope/2)
		s.pending = pendingRehab{}
	default:
		s.conditions = append(s.conditions, current-slope)
	}
}

// ProjectCondition estimates the condition after the given number of
// untreated years from the latest value. The history is not modified.
func (s *Segment) ProjectCondition(years int) float64 {
	pci := s.Condition()
	for i := 0; i < years; i++ {
		pci -= s.DeductionSlope(pci)
	}
	return pci
}

// Quality returns the condition category at the given year index.
func (s *Segment) Quality(year int) (Quality, error) {
	pci, err := s.ConditionAt(year)
	if err != nil {
		return Unacceptable, err
	}
	return QualityOf(pci), nil
}

// CurrentQuality returns the category of the latest condition.
func (s *Segment) CurrentQuality() Quality {
	return QualityOf(s.Condition())
}

// Describe returns a short human-readable summary of the segment.
func (s *Segment) Describe(full bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Segment %d\n", s.ID)
	if full {
		fmt.Fprintf(&b, "Dimensions: %d' x %d' (%d sq yd)\n", s.Length, s.Width, s.Area)
		fmt.Fprintf(&b, "Type: %s; Classification: %s\n", s.Surface, s.Class)
	}
	fmt.Fprintf(&b, "Most recent condition: %.2f for year %d\n", s.Condition(), s.YearsSimulated())
	if s.holdYears > 0 {
		fmt.Fprintf(&b, "Preventive hold in place for %d more year(s)\n", s.holdYears)
	}
	return b.String()
}
