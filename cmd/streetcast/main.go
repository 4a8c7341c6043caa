package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "streetcast",
		Short: "Street pavement condition forecasting under yearly maintenance budgets",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(costCmd())
	rootCmd.AddCommand(scenariosCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [inventory.csv]",
		Short: "Forecast street conditions for a scenario and write result CSVs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seeded = cmd.Flags().Changed("seed")
			return runForecast(args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.scenarioName, "scenario", "s", "scenario1", "predefined scenario name")
	f.StringVar(&opts.scenarioFile, "scenario-file", "", "YAML scenario file (overrides --scenario)")
	f.IntVarP(&opts.iterations, "iterations", "n", 0, "override the scenario's iteration count")
	f.IntVarP(&opts.years, "years", "y", 0, "override the scenario's years to simulate")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible runs")
	f.StringVarP(&opts.outDir, "out", "o", "results", "directory for result CSVs")
	f.BoolVar(&opts.conditions, "conditions", false, "also write per-segment condition CSV")
	f.StringVar(&opts.dbPath, "db", "", "SQLite database to record runs in (default $STREETCAST_DB)")
	f.StringVar(&opts.basis, "percent-basis", "all", "category percentage basis: all or measured")
	return cmd
}

func validateCmd() *cobra.Command {
	var scenarioName, scenarioFile string

	cmd := &cobra.Command{
		Use:   "validate [inventory.csv]",
		Short: "Validate an inventory and scenario without running a forecast",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], scenarioName, scenarioFile)
		},
	}

	cmd.Flags().StringVarP(&scenarioName, "scenario", "s", "scenario1", "predefined scenario name")
	cmd.Flags().StringVar(&scenarioFile, "scenario-file", "", "YAML scenario file (overrides --scenario)")
	return cmd
}

func costCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cost [inventory.csv]",
		Short: "Compute the current repair backlog and its untreated outlook",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCost(args[0])
		},
	}
}

func scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios [name]",
		Short: "List predefined scenarios, or show one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showScenario(args[0])
			}
			listScenarios()
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var port int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve [inventory.csv]",
		Short: "Start the forecast HTTP API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			inventoryPath := ""
			if len(args) == 1 {
				inventoryPath = args[0]
			}
			return runServe(inventoryPath, port, dbPath)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to record runs in (default $STREETCAST_DB)")
	return cmd
}
