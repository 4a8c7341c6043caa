package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/weatherfordomb/street-condition-simulator/pkg/forecast"
)

func sampleResults() []forecast.Result {
	sum := forecast.Summary{Year: 1, PreventiveFunded: 2, PreventiveBudget: 1000, PreventiveSpent: 600, MeanCondition: 76.67}
	sum.Percentages[0] = 50
	sum.Percentages[5] = 50
	return []forecast.Result{
		{
			Iteration: 0,
			Summaries: []forecast.Summary{sum},
			Conditions: []forecast.Snapshot{
				{Year: 1, Entries: []forecast.Entry{{ID: 9, Condition: 76.67}, {ID: 3, Condition: 0}}},
			},
		},
	}
}

func TestWriteSummaries(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaries(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteSummaries: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "simulation" || rows[0][1] != "year" || rows[0][18] != "vg" {
		t.Errorf("header = %v", rows[0])
	}
	want := []string{"0", "1", "2", "1000", "600"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Errorf("row[%d] = %q, want %q", i, rows[1][i], v)
		}
	}
	if rows[1][8] != "76.67" || rows[1][13] != "50" || rows[1][18] != "50" {
		t.Errorf("row = %v", rows[1])
	}
}

func TestWriteConditions(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteConditions(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteConditions: %v", err)
	}
	want := "simulation,year,segid,condition\n0,1,9,76.67\n0,1,3,0\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	paths, err := WriteFiles(dir, "Scenario 1", sampleResults(), true, at)
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %d", len(paths))
	}
	if !strings.HasSuffix(paths[0], "summary - Scenario 1 - 2024-03-01T09-30-00.csv") {
		t.Errorf("summary path = %s", paths[0])
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("stat %s: %v", p, err)
		}
	}
}
