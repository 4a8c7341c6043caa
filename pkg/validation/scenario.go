package validation

import (
	"fmt"
	"math"

	"github.com/weatherfordomb/street-condition-simulator/pkg/scenario"
)

// ValidateScenario checks that a scenario defines a usable budget for
// every simulated year.
func ValidateScenario(s *scenario.Scenario) *Report {
	r := NewReport()

	if s.YearsToSimulate <= 0 {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     "years_to_simulate must be greater than 0",
			Field:       "years_to_simulate",
			ActualValue: s.YearsToSimulate,
			Expected:    "> 0",
		})
	}
	if s.Iterations <= 0 {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     "iterations must be greater than 0",
			Field:       "iterations",
			ActualValue: s.Iterations,
			Expected:    "> 0",
		})
	}

	validateBudgets(r, "preventive_budgets", s.PreventiveBudgets, s.YearsToSimulate)
	validateBudgets(r, "rehab_budgets", s.RehabBudgets, s.YearsToSimulate)

	if s.YearsToSimulate > 0 && len(s.PreventiveBudgets) > s.YearsToSimulate {
		r.AddInfo(Result{
			Level:   LevelScenario,
			Message: fmt.Sprintf("preventive_budgets has %d entries; only the first %d are used", len(s.PreventiveBudgets), s.YearsToSimulate),
			Field:   "preventive_budgets",
		})
	}
	return r
}

func validateBudgets(r *Report, field string, budgets []float64, years int) {
	if years > 0 && len(budgets) < years {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     fmt.Sprintf("%s covers %d of %d simulated years", field, len(budgets), years),
			Field:       field,
			ActualValue: len(budgets),
			Expected:    fmt.Sprintf(">= %d entries", years),
			Suggestions: []string{"Add an entry for every simulated year, or reduce years_to_simulate"},
		})
	}
	for i, b := range budgets {
		if b < 0 || math.IsNaN(b) || math.IsInf(b, 0) {
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("%s[%d] (year %d) must be a non-negative number", field, i, i+1),
				Field:       fmt.Sprintf("%s[%d]", field, i),
				ActualValue: b,
				Expected:    ">= 0",
			})
		}
	}
}
