package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/weatherfordomb/street-condition-simulator/internal/server"
	"github.com/weatherfordomb/street-condition-simulator/pkg/analytics"
	"github.com/weatherfordomb/street-condition-simulator/pkg/cost"
	"github.com/weatherfordomb/street-condition-simulator/pkg/export"
	"github.com/weatherfordomb/street-condition-simulator/pkg/forecast"
	"github.com/weatherfordomb/street-condition-simulator/pkg/inventory"
	"github.com/weatherfordomb/street-condition-simulator/pkg/scenario"
	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
	"github.com/weatherfordomb/street-condition-simulator/pkg/store"
	"github.com/weatherfordomb/street-condition-simulator/pkg/validation"
)

const (
	fallbackScenario = "scenario1"
	dbEnv            = "STREETCAST_DB"
)

type runOptions struct {
	scenarioName string
	scenarioFile string
	iterations   int
	years        int
	seed         uint64
	seeded       bool
	outDir       string
	conditions   bool
	dbPath       string
	basis        string
}

// resolveScenario loads a scenario file, or looks up a preset. An unknown
// preset name falls back to scenario1.
func resolveScenario(name, file string) (*scenario.Scenario, error) {
	if file != "" {
		return scenario.Load(file)
	}
	sc, err := scenario.Predefined(name)
	if err == nil {
		return sc, nil
	}
	fmt.Printf("Scenario %q not found, using %s.\n", name, fallbackScenario)
	return scenario.Predefined(fallbackScenario)
}

// loadAndValidate loads the inventory and scenario and validates both.
func loadAndValidate(inventoryPath, name, file string) ([]segment.Record, *scenario.Scenario, *validation.Report, error) {
	records, err := inventory.Load(inventoryPath, inventory.DefaultColumns)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading inventory: %w", err)
	}
	sc, err := resolveScenario(name, file)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading scenario: %w", err)
	}
	report := validation.ValidateInventory(records)
	report.Merge(validation.ValidateScenario(sc))
	return records, sc, report, nil
}

func dbPathOrEnv(path string) string {
	if path != "" {
		return path
	}
	return os.Getenv(dbEnv)
}

func runValidate(inventoryPath, name, file string) error {
	_, _, report, err := loadAndValidate(inventoryPath, name, file)
	if err != nil {
		return err
	}

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runCost(inventoryPath string) error {
	records, err := inventory.Load(inventoryPath, inventory.DefaultColumns)
	if err != nil {
		return fmt.Errorf("loading inventory: %w", err)
	}
	report := validation.ValidateInventory(records)
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("inventory has validation errors; fix before computing cost")
	}

	printCostReport(cost.Estimate(inventory.Segments(records, nil)))

	if len(report.Warnings) > 0 {
		fmt.Println()
		printValidationReport(report)
	}
	return nil
}

func runForecast(inventoryPath string, opts runOptions) error {
	records, sc, report, err := loadAndValidate(inventoryPath, opts.scenarioName, opts.scenarioFile)
	if err != nil {
		return err
	}
	if opts.iterations > 0 || opts.years > 0 {
		if opts.iterations > 0 {
			sc.Iterations = opts.iterations
		}
		if opts.years > 0 {
			sc.YearsToSimulate = opts.years
		}
		// Overrides can leave the budget schedule short.
		report = validation.ValidateInventory(records)
		report.Merge(validation.ValidateScenario(sc))
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("validation failed")
	}

	basis, err := analytics.ParsePercentBasis(opts.basis)
	if err != nil {
		return err
	}

	rng := segment.GlobalSource
	if opts.seeded {
		rng = rand.New(rand.NewPCG(opts.seed, opts.seed))
	}

	fmt.Print(sc.Describe())
	fmt.Printf("%d segment(s) from %s\n\n", len(records), inventoryPath)

	results, err := forecast.RunIterations(sc, inventory.Loader(records, rng),
		forecast.WithRand(rng), forecast.WithPercentBasis(basis))
	if err != nil {
		return fmt.Errorf("forecast: %w", err)
	}

	paths, err := export.WriteFiles(opts.outDir, sc.Name, results, opts.conditions, time.Now())
	if err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	if dbPath := dbPathOrEnv(opts.dbPath); dbPath != "" {
		if err := saveRuns(dbPath, sc, results); err != nil {
			return err
		}
	}

	printRunSummary(sc, results)
	fmt.Println()
	for _, p := range paths {
		fmt.Printf("Wrote %s\n", p)
	}
	return nil
}

func saveRuns(dbPath string, sc *scenario.Scenario, results []forecast.Result) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening run store: %w", err)
	}
	defer st.Close()

	for _, res := range results {
		rec, err := st.SaveRun(store.RunInput{Scenario: sc, Result: res})
		if err != nil {
			return fmt.Errorf("saving iteration %d: %w", res.Iteration, err)
		}
		fmt.Printf("Recorded iteration %d as run %s\n", res.Iteration, rec.RunID)
	}
	return nil
}

func listScenarios() {
	for _, name := range scenario.Names() {
		sc, _ := scenario.Predefined(name)
		fmt.Printf("%-10s %s (%d years, %d iterations)\n", name, sc.Name, sc.YearsToSimulate, sc.Iterations)
	}
}

func showScenario(name string) error {
	sc, err := scenario.Predefined(name)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(sc)
}

func runServe(inventoryPath string, port int, dbPath string) error {
	var runs server.RunStore
	if dbPath = dbPathOrEnv(dbPath); dbPath != "" {
		st, err := store.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("opening run store: %w", err)
		}
		defer st.Close()
		runs = st
	}
	return server.New(inventoryPath, port, runs).Start()
}
