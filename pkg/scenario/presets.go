package scenario

import (
	"fmt"
	"math"
	"sort"
)

// presets builds the predefined funding scenarios by name.
var presets = map[string]func() *Scenario{
	"baseline": func() *Scenario {
		return constant("Baseline", 0, 0)
	},
	"scenario1": func() *Scenario {
		return constant("Scenario 1", 50000, 400000)
	},
	"scenario2": func() *Scenario {
		return constant("Scenario 2", 50000, 450000)
	},
	"scenario3": func() *Scenario {
		return constant("Scenario 3", 100000, 400000)
	},
	"scenario4": func() *Scenario {
		return constant("Scenario 4", 50000, 500000)
	},
	"scenario5": func() *Scenario {
		return constant("Scenario 5", 150000, 400000)
	},
	// add 25k to rehab every 2 years
	"scenario6": func() *Scenario {
		s := named("Scenario 6")
		for i := 0; i < 10; i++ {
			for j := 0; j < 2; j++ {
				s.PreventiveBudgets = append(s.PreventiveBudgets, 50000)
				s.RehabBudgets = append(s.RehabBudgets, 400000+25000*float64(i))
			}
		}
		return s
	},
	// add 50k every 5 years, 75% to rehab and 25% to preventive
	"scenario7": func() *Scenario {
		s := named("Scenario 7")
		for i := 0; i < 4; i++ {
			for j := 0; j < 5; j++ {
				s.PreventiveBudgets = append(s.PreventiveBudgets, 50000+12500*float64(i))
				s.RehabBudgets = append(s.RehabBudgets, 400000+37500*float64(i))
			}
		}
		return s
	},
	// add 25k to rehab every year after year 10
	"scenario8": func() *Scenario {
		s := named("Scenario 8")
		for i := 0; i < 10; i++ {
			s.PreventiveBudgets = append(s.PreventiveBudgets, 150000)
			s.RehabBudgets = append(s.RehabBudgets, 500000)
		}
		for i := 0; i < 10; i++ {
			s.PreventiveBudgets = append(s.PreventiveBudgets, 150000)
			s.RehabBudgets = append(s.RehabBudgets, 500000+25000*float64(i))
		}
		return s
	},
	// cosine-cycled split of a fixed 1.125M total over 80 years
	"scenario9": func() *Scenario {
		s := named("Scenario 9")
		s.YearsToSimulate = 80
		const spread, midpoint, total = 125000.0, 900000.0, 1125000.0
		for i := 0; i < s.YearsToSimulate; i++ {
			rehab := math.Round(spread*math.Cos(float64(i)/math.Pi) + midpoint)
			s.RehabBudgets = append(s.RehabBudgets, rehab)
			s.PreventiveBudgets = append(s.PreventiveBudgets, total-rehab)
		}
		return s
	},
}

func named(name string) *Scenario {
	s := Default()
	s.Name = name
	return s
}

func constant(name string, preventive, rehab float64) *Scenario {
	s := named(name)
	for i := 0; i < s.YearsToSimulate; i++ {
		s.PreventiveBudgets = append(s.PreventiveBudgets, preventive)
		s.RehabBudgets = append(s.RehabBudgets, rehab)
	}
	return s
}

// Names lists the predefined scenarios.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Predefined returns a fresh copy of the named predefined scenario.
func Predefined(name string) (*Scenario, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	return build(), nil
}
