package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
)

// PercentBasis selects which segments count toward category percentages.
type PercentBasis int

const (
	// BasisAllSegments divides by the total segment count.
	BasisAllSegments PercentBasis = iota
	// BasisMeasuredSegments ignores segments with non-positive area in both
	// the category counts and the denominator.
	BasisMeasuredSegments
)

func (b PercentBasis) String() string {
	if b == BasisMeasuredSegments {
		return "measured"
	}
	return "all"
}

// ParsePercentBasis accepts "all" or "measured".
func ParsePercentBasis(v string) (PercentBasis, error) {
	switch v {
	case "", "all":
		return BasisAllSegments, nil
	case "measured":
		return BasisMeasuredSegments, nil
	}
	return BasisAllSegments, fmt.Errorf("unknown percent basis %q", v)
}

// QualityDistribution holds per-category figures, indexed by segment.Quality.
type QualityDistribution struct {
	Counts      [segment.NumQualities]int     `json:"counts"`
	Lengths     [segment.NumQualities]int     `json:"lengths"`
	Percentages [segment.NumQualities]float64 `json:"percentages"`
}

// YearStats is the network-wide condition summary at one point in time.
type YearStats struct {
	Segments          int                 `json:"segments"`
	MeanCondition     float64             `json:"mean_condition"`
	StdDevCondition   float64             `json:"stddev_condition"`
	CurrentRepairCost float64             `json:"current_repair_cost"`
	Quality           QualityDistribution `json:"quality"`
}

// Aggregate summarizes the latest condition of every segment.
func Aggregate(segs []*segment.Segment, basis PercentBasis) YearStats {
	ys := YearStats{Segments: len(segs)}
	if len(segs) == 0 {
		return ys
	}

	values := make([]float64, len(segs))
	for i, s := range segs {
		values[i] = s.Condition()
	}
	ys.MeanCondition, ys.StdDevCondition = stat.PopMeanStdDev(values, nil)
	ys.Quality = Distribution(segs, basis)
	ys.CurrentRepairCost = CurrentRepairCost(segs)
	return ys
}

// Distribution counts segments and linear length per condition category.
func Distribution(segs []*segment.Segment, basis PercentBasis) QualityDistribution {
	var d QualityDistribution
	total := 0
	for _, s := range segs {
		if basis == BasisMeasuredSegments && s.Area <= 0 {
			continue
		}
		q := s.CurrentQuality()
		d.Counts[q]++
		d.Lengths[q] += s.Length
		total++
	}
	if total == 0 {
		return d
	}
	for q, n := range d.Counts {
		d.Percentages[q] = Percent(n, total)
	}
	return d
}

// Percent returns n/total as a percentage rounded half away from zero to
// two decimal places.
func Percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	p := decimal.NewFromInt(int64(n)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(total)))
	return p.Round(2).InexactFloat64()
}

// CurrentRepairCost is the cost to treat every currently eligible segment:
// preventive cost where preventive eligible, otherwise rehab cost where
// rehab eligible.
func CurrentRepairCost(segs []*segment.Segment) float64 {
	total := 0.0
	for _, s := range segs {
		switch {
		case s.PreventiveEligible():
			total += s.PreventiveCost()
		case s.RehabEligible():
			total += s.RehabCost()
		}
	}
	return total
}
