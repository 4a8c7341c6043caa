package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/weatherfordomb/street-condition-simulator/pkg/forecast"
)

// WriteSummaries writes one row per simulated year of every repetition,
// prefixed with the repetition index.
func WriteSummaries(w io.Writer, results []forecast.Result) error {
	cw := csv.NewWriter(w)
	header := append([]string{"simulation"}, forecast.SummaryHeaders...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, res := range results {
		for _, sum := range res.Summaries {
			row := []string{strconv.Itoa(res.Iteration)}
			for _, v := range sum.Values() {
				row = append(row, formatFloat(v))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing summary row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteConditions writes every segment condition of every year of every
// repetition.
func WriteConditions(w io.Writer, results []forecast.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"simulation", "year", "segid", "condition"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, res := range results {
		for _, snap := range res.Conditions {
			for _, e := range snap.Entries {
				row := []string{
					strconv.Itoa(res.Iteration),
					strconv.Itoa(snap.Year),
					strconv.Itoa(e.ID),
					formatFloat(e.Condition),
				}
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("writing condition row: %w", err)
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FileName returns the conventional result file name, e.g.
// "summary - Scenario 1 - 2024-01-02T15-04-05.csv".
func FileName(kind, scenarioName string, at time.Time) string {
	return fmt.Sprintf("%s - %s - %s.csv", kind, scenarioName, at.Format("2006-01-02T15-04-05"))
}

// WriteFiles saves the summary CSV, and the conditions CSV when requested,
// into dir. It returns the paths written.
func WriteFiles(dir, scenarioName string, results []forecast.Result, conditions bool, at time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results dir: %w", err)
	}

	var paths []string
	summaryPath := filepath.Join(dir, FileName("summary", scenarioName, at))
	if err := writeFile(summaryPath, func(w io.Writer) error { return WriteSummaries(w, results) }); err != nil {
		return paths, err
	}
	paths = append(paths, summaryPath)

	if conditions {
		condPath := filepath.Join(dir, FileName("conditions", scenarioName, at))
		if err := writeFile(condPath, func(w io.Writer) error { return WriteConditions(w, results) }); err != nil {
			return paths, err
		}
		paths = append(paths, condPath)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
