package forecast

import (
	"github.com/weatherfordomb/street-condition-simulator/pkg/analytics"
	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
)

// Entry is one segment's condition at the end of a year.
type Entry struct {
	ID        int     `json:"id"`
	Condition float64 `json:"condition"`
}

// Snapshot maps segment id to condition for one year, in segment order.
type Snapshot struct {
	Year    int     `json:"year"`
	Entries []Entry `json:"entries"`
}

// Map returns the snapshot as an unordered map.
func (s Snapshot) Map() map[int]float64 {
	m := make(map[int]float64, len(s.Entries))
	for _, e := range s.Entries {
		m[e.ID] = e.Condition
	}
	return m
}

// Get returns the condition recorded for a segment id.
func (s Snapshot) Get(id int) (float64, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e.Condition, true
		}
	}
	return 0, false
}

// PassResult is the outcome of one budget allocation pass.
type PassResult struct {
	Budget    float64 `json:"budget"`
	Funded    int     `json:"funded"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

// Summary is the network-wide result of one simulated year.
type Summary struct {
	Year              int     `json:"year"`
	PreventiveFunded  int     `json:"preventive_funded"`
	PreventiveBudget  float64 `json:"preventive_budget"`
	PreventiveSpent   float64 `json:"preventive_spent"`
	RehabFunded       int     `json:"rehab_funded"`
	RehabBudget       float64 `json:"rehab_budget"`
	RehabSpent        float64 `json:"rehab_spent"`
	MeanCondition     float64 `json:"mean_condition"`
	StdDevCondition   float64 `json:"stddev_condition"`
	TotalBudget       float64 `json:"total_budget"`
	TotalSpent        float64 `json:"total_spent"`
	CurrentRepairCost float64 `json:"current_repair_cost"`

	// Percentages, Counts and Lengths are indexed by segment.Quality.
	Percentages [segment.NumQualities]float64 `json:"percentages"`
	Counts      [segment.NumQualities]int     `json:"counts"`
	Lengths     [segment.NumQualities]int     `json:"lengths"`

	// RehabAvailable is the rehab budget plus unspent preventive budget.
	RehabAvailable float64 `json:"rehab_available"`
}

// SummaryHeaders names the columns returned by Summary.Values.
var SummaryHeaders = []string{
	"year", "prevented", "p_bud", "p_cost", "rehabbed", "r_bud", "r_cost",
	"average pci", "stdev", "total_budget", "total_spent", "current repair cost",
	"un", "p", "a", "f", "g", "vg",
}

// Values returns the summary as a row in SummaryHeaders order.
func (s Summary) Values() []float64 {
	row := []float64{
		float64(s.Year),
		float64(s.PreventiveFunded),
		s.PreventiveBudget,
		s.PreventiveSpent,
		float64(s.RehabFunded),
		s.RehabBudget,
		s.RehabSpent,
		s.MeanCondition,
		s.StdDevCondition,
		s.TotalBudget,
		s.TotalSpent,
		s.CurrentRepairCost,
	}
	return append(row, s.Percentages[:]...)
}

func newSummary(year int, prev, rehab PassResult, rehabBudget float64, ys analytics.YearStats) Summary {
	return Summary{
		Year:              year,
		PreventiveFunded:  prev.Funded,
		PreventiveBudget:  prev.Budget,
		PreventiveSpent:   prev.Spent,
		RehabFunded:       rehab.Funded,
		RehabBudget:       rehabBudget,
		RehabSpent:        rehab.Spent,
		MeanCondition:     ys.MeanCondition,
		StdDevCondition:   ys.StdDevCondition,
		TotalBudget:       prev.Budget + rehabBudget,
		TotalSpent:        prev.Spent + rehab.Spent,
		CurrentRepairCost: ys.CurrentRepairCost,
		Percentages:       ys.Quality.Percentages,
		Counts:            ys.Quality.Counts,
		Lengths:           ys.Quality.Lengths,
		RehabAvailable:    rehab.Budget,
	}
}
