package scenario

import (
	"fmt"
	"strings"
)

// SelectionMethod decides the order in which eligible segments are offered
// funding.
type SelectionMethod int

const (
	// Ordered funds the worst condition first.
	Ordered SelectionMethod = iota
	// Randomized funds eligible segments in shuffled order.
	Randomized
)

func (m SelectionMethod) String() string {
	if m == Randomized {
		return "randomized"
	}
	return "ordered"
}

// ParseSelectionMethod accepts "ordered" or "randomized", and the older
// "sort" / "shuffle" spellings.
func ParseSelectionMethod(v string) (SelectionMethod, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "ordered", "sort", "sorted":
		return Ordered, nil
	case "randomized", "random", "shuffle":
		return Randomized, nil
	}
	return Ordered, fmt.Errorf("unknown selection method %q", v)
}

func (m SelectionMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *SelectionMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseSelectionMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scenario is a funding schedule to forecast. Budget slices are indexed
// from 0 for year 1.
type Scenario struct {
	Name                      string          `yaml:"name" json:"name"`
	Iterations                int             `yaml:"iterations" json:"iterations"`
	YearsToSimulate           int             `yaml:"years_to_simulate" json:"years_to_simulate"`
	PreventiveSelectionMethod SelectionMethod `yaml:"preventive_selection_method" json:"preventive_selection_method"`
	RehabSelectionMethod      SelectionMethod `yaml:"rehab_selection_method" json:"rehab_selection_method"`
	PreventiveBudgets         []float64       `yaml:"preventive_budgets" json:"preventive_budgets"`
	RehabBudgets              []float64       `yaml:"rehab_budgets" json:"rehab_budgets"`
}
