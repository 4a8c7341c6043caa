package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/weatherfordomb/street-condition-simulator/pkg/cost"
	"github.com/weatherfordomb/street-condition-simulator/pkg/forecast"
	"github.com/weatherfordomb/street-condition-simulator/pkg/scenario"
	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
	"github.com/weatherfordomb/street-condition-simulator/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.SegmentID != nil {
		fmt.Printf("    segment %d\n", *res.SegmentID)
	}
	if res.Field != "" && res.ActualValue != nil {
		fmt.Printf("    -> %s = %v\n", res.Field, res.ActualValue)
	}
	if res.Expected != "" {
		fmt.Printf("    expected: %s\n", res.Expected)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("    * %s\n", s)
	}
}

func printCostReport(r *cost.Report) {
	fmt.Println("Repair Backlog")
	fmt.Println("==============")
	fmt.Printf("%d segment(s), %d sq yd\n\n", r.Segments, r.AreaSqYd)

	fmt.Printf("%-18s %10s %14s %10s %14s\n", "", "Current", "", fmt.Sprintf("In %d yrs", r.Summary.OutlookYears), "")
	fmt.Printf("%-18s %10s %14s %10s %14s\n", "Treatment", "Segments", "Cost", "Segments", "Cost")
	fmt.Printf("%-18s %10s %14s %10s %14s\n",
		"------------------", "----------", "--------------", "----------", "--------------")

	rows := []struct {
		label string
		cur   int
		curV  float64
		out   int
		outV  float64
	}{
		{fmt.Sprintf("Preventive @ $%v", r.Summary.PreventiveUnitCost), r.Current.PreventiveSegments, r.Current.Preventive, r.Untreated.PreventiveSegments, r.Untreated.Preventive},
		{fmt.Sprintf("Rehab @ $%v", r.Summary.RehabUnitCost), r.Current.RehabSegments, r.Current.Rehab, r.Untreated.RehabSegments, r.Untreated.Rehab},
		{"TOTAL", r.Current.PreventiveSegments + r.Current.RehabSegments, r.Current.Total, r.Untreated.PreventiveSegments + r.Untreated.RehabSegments, r.Untreated.Total},
	}
	for _, row := range rows {
		fmt.Printf("%-18s %10d %14s %10d %14s\n", row.label, row.cur, formatMoney(row.curV), row.out, formatMoney(row.outV))
	}

	fmt.Println()
	fmt.Printf("  Backlog growth without treatment: $%s\n", formatMoney(r.Summary.BacklogGrowth))
}

// printRunSummary prints per-year figures averaged over all iterations.
func printRunSummary(sc *scenario.Scenario, results []forecast.Result) {
	if len(results) == 0 {
		fmt.Println("No iterations completed.")
		return
	}

	fmt.Printf("%s: averages over %d iteration(s)\n", sc.Name, len(results))
	fmt.Printf("%-5s %8s %10s %8s %10s %8s %7s", "Year", "Prev", "Prev $", "Rehab", "Rehab $", "PCI", "Stdev")
	for _, q := range segment.Qualities() {
		fmt.Printf(" %6.6s", q)
	}
	fmt.Println()

	n := decimal.NewFromInt(int64(len(results)))
	for y := range results[0].Summaries {
		var avg forecast.Summary
		for _, res := range results {
			s := res.Summaries[y]
			avg.PreventiveFunded += s.PreventiveFunded
			avg.PreventiveSpent += s.PreventiveSpent
			avg.RehabFunded += s.RehabFunded
			avg.RehabSpent += s.RehabSpent
			avg.MeanCondition += s.MeanCondition
			avg.StdDevCondition += s.StdDevCondition
			for i, p := range s.Percentages {
				avg.Percentages[i] += p
			}
		}
		mean := func(v float64) string { return decimal.NewFromFloat(v).Div(n).StringFixed(1) }

		fmt.Printf("%-5d %8s %10s %8s %10s %8s %7s",
			results[0].Summaries[y].Year,
			mean(float64(avg.PreventiveFunded)), formatMoney(avg.PreventiveSpent/float64(len(results))),
			mean(float64(avg.RehabFunded)), formatMoney(avg.RehabSpent/float64(len(results))),
			mean(avg.MeanCondition), mean(avg.StdDevCondition))
		for _, p := range avg.Percentages {
			fmt.Printf(" %5s%%", mean(p))
		}
		fmt.Println()
	}
}

func formatMoney(v float64) string {
	d := decimal.NewFromFloat(v)
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.New(1, 9)):
		return d.Shift(-9).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(decimal.New(1, 6)):
		return d.Shift(-6).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(decimal.New(1, 3)):
		return d.Shift(-3).StringFixed(0) + "K"
	}
	return d.StringFixed(0)
}
