package scenario

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingBudget is returned when a simulated year has no budget entry.
	ErrMissingBudget = errors.New("missing budget")
	// ErrInvalidBudget is returned for negative or non-finite budget entries.
	ErrInvalidBudget = errors.New("invalid budget")
)

const (
	DefaultIterations = 20
	DefaultYears      = 20
)

// Default returns an empty custom scenario with the standard run length,
// worst-first preventive selection and randomized rehab selection.
func Default() *Scenario {
	return &Scenario{
		Name:                      "custom scenario",
		Iterations:                DefaultIterations,
		YearsToSimulate:           DefaultYears,
		PreventiveSelectionMethod: Ordered,
		RehabSelectionMethod:      Randomized,
	}
}

// Parse decodes a YAML scenario. Fields missing from the document keep
// the values from Default.
func Parse(data []byte) (*Scenario, error) {
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	return s, nil
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

// Budgets returns the preventive and rehab budgets for a 1-based year.
func (s *Scenario) Budgets(year int) (preventive, rehab float64, err error) {
	preventive, err = budgetAt(s.PreventiveBudgets, year)
	if err != nil {
		return 0, 0, fmt.Errorf("preventive budget for year %d: %w", year, err)
	}
	rehab, err = budgetAt(s.RehabBudgets, year)
	if err != nil {
		return 0, 0, fmt.Errorf("rehab budget for year %d: %w", year, err)
	}
	return preventive, rehab, nil
}

func budgetAt(budgets []float64, year int) (float64, error) {
	if year < 1 || year > len(budgets) {
		return 0, fmt.Errorf("%w: have %d entries", ErrMissingBudget, len(budgets))
	}
	b := budgets[year-1]
	if b < 0 || math.IsNaN(b) || math.IsInf(b, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBudget, b)
	}
	return b, nil
}

// Clone returns a deep copy.
func (s *Scenario) Clone() *Scenario {
	c := *s
	c.PreventiveBudgets = append([]float64(nil), s.PreventiveBudgets...)
	c.RehabBudgets = append([]float64(nil), s.RehabBudgets...)
	return &c
}

// Describe returns a short description of the run shape.
func (s *Scenario) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<Scenario> %s\n", s.Name)
	fmt.Fprintf(&b, "%d year(s) in length, %d iteration(s)\n", s.YearsToSimulate, s.Iterations)
	fmt.Fprintf(&b, "Selection: preventive %s, rehab %s\n", s.PreventiveSelectionMethod, s.RehabSelectionMethod)
	return b.String()
}
