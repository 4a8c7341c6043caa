package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/weatherfordomb/street-condition-simulator/pkg/forecast"
	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id         TEXT PRIMARY KEY,
	scenario_name  TEXT NOT NULL,
	iteration      INTEGER NOT NULL,
	years          INTEGER NOT NULL,
	segments       INTEGER NOT NULL,
	scenario_json  TEXT NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS year_summaries (
	run_id              TEXT NOT NULL,
	year                INTEGER NOT NULL,
	preventive_funded   INTEGER NOT NULL,
	preventive_budget   REAL NOT NULL,
	preventive_spent    REAL NOT NULL,
	rehab_funded        INTEGER NOT NULL,
	rehab_budget        REAL NOT NULL,
	rehab_spent         REAL NOT NULL,
	rehab_available     REAL NOT NULL,
	mean_condition      REAL NOT NULL,
	stddev_condition    REAL NOT NULL,
	total_budget        REAL NOT NULL,
	total_spent         REAL NOT NULL,
	current_repair_cost REAL NOT NULL,
	quality_json        TEXT NOT NULL,
	PRIMARY KEY (run_id, year),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS conditions (
	run_id      TEXT NOT NULL,
	year        INTEGER NOT NULL,
	position    INTEGER NOT NULL,
	segment_id  INTEGER NOT NULL,
	condition   REAL NOT NULL,
	PRIMARY KEY (run_id, year, position),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// quality is the JSON layout of per-category figures in year_summaries.
type quality struct {
	Percentages [segment.NumQualities]float64 `json:"percentages"`
	Counts      [segment.NumQualities]int     `json:"counts"`
	Lengths     [segment.NumQualities]int     `json:"lengths"`
}

// Store persists forecast runs in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores one repetition with its summaries and condition snapshots
// in a single transaction.
func (s *Store) SaveRun(in RunInput) (RunRecord, error) {
	scJSON, err := json.Marshal(in.Scenario)
	if err != nil {
		return RunRecord{}, fmt.Errorf("marshal scenario: %w", err)
	}

	rec := RunRecord{
		RunID:        uuid.New().String(),
		ScenarioName: in.Scenario.Name,
		Iteration:    in.Result.Iteration,
		Years:        len(in.Result.Summaries),
		ScenarioJSON: string(scJSON),
		CreatedAt:    time.Now().UTC(),
	}
	if len(in.Result.Conditions) > 0 {
		rec.Segments = len(in.Result.Conditions[0].Entries)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return RunRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, scenario_name, iteration, years, segments, scenario_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.ScenarioName, rec.Iteration, rec.Years, rec.Segments, rec.ScenarioJSON,
		rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("insert run: %w", err)
	}

	for _, sum := range in.Result.Summaries {
		q, err := json.Marshal(quality{Percentages: sum.Percentages, Counts: sum.Counts, Lengths: sum.Lengths})
		if err != nil {
			return RunRecord{}, fmt.Errorf("marshal quality: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO year_summaries (run_id, year, preventive_funded, preventive_budget, preventive_spent,
			 rehab_funded, rehab_budget, rehab_spent, rehab_available, mean_condition, stddev_condition,
			 total_budget, total_spent, current_repair_cost, quality_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, sum.Year, sum.PreventiveFunded, sum.PreventiveBudget, sum.PreventiveSpent,
			sum.RehabFunded, sum.RehabBudget, sum.RehabSpent, sum.RehabAvailable, sum.MeanCondition,
			sum.StdDevCondition, sum.TotalBudget, sum.TotalSpent, sum.CurrentRepairCost, string(q),
		)
		if err != nil {
			return RunRecord{}, fmt.Errorf("insert summary year %d: %w", sum.Year, err)
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO conditions (run_id, year, position, segment_id, condition) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return RunRecord{}, fmt.Errorf("prepare conditions: %w", err)
	}
	defer stmt.Close()
	for _, snap := range in.Result.Conditions {
		for pos, e := range snap.Entries {
			if _, err := stmt.Exec(rec.RunID, snap.Year, pos, e.ID, e.Condition); err != nil {
				return RunRecord{}, fmt.Errorf("insert condition: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return RunRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(id string) (RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT run_id, scenario_name, iteration, years, segments, scenario_json, created_at
		 FROM runs WHERE run_id = ?`, id,
	)
	rec, err := scanRun(row)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}

// ListRuns returns the most recent runs.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, scenario_name, iteration, years, segments, scenario_json, created_at
		 FROM runs ORDER BY created_at DESC, iteration DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var rec RunRecord
	var createdStr string
	if err := sc.Scan(&rec.RunID, &rec.ScenarioName, &rec.Iteration, &rec.Years, &rec.Segments,
		&rec.ScenarioJSON, &createdStr); err != nil {
		return RunRecord{}, err
	}
	rec.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	return rec, nil
}

// Summaries returns the stored year summaries of a run in year order.
func (s *Store) Summaries(runID string) ([]forecast.Summary, error) {
	rows, err := s.db.Query(
		`SELECT year, preventive_funded, preventive_budget, preventive_spent, rehab_funded, rehab_budget,
		 rehab_spent, rehab_available, mean_condition, stddev_condition, total_budget, total_spent,
		 current_repair_cost, quality_json
		 FROM year_summaries WHERE run_id = ? ORDER BY year`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []forecast.Summary
	for rows.Next() {
		var sum forecast.Summary
		var qJSON string
		if err := rows.Scan(&sum.Year, &sum.PreventiveFunded, &sum.PreventiveBudget, &sum.PreventiveSpent,
			&sum.RehabFunded, &sum.RehabBudget, &sum.RehabSpent, &sum.RehabAvailable, &sum.MeanCondition,
			&sum.StdDevCondition, &sum.TotalBudget, &sum.TotalSpent, &sum.CurrentRepairCost, &qJSON); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		var q quality
		if err := json.Unmarshal([]byte(qJSON), &q); err != nil {
			return nil, fmt.Errorf("unmarshal quality: %w", err)
		}
		sum.Percentages, sum.Counts, sum.Lengths = q.Percentages, q.Counts, q.Lengths
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Conditions returns the stored snapshot of one year of a run.
func (s *Store) Conditions(runID string, year int) (forecast.Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT segment_id, condition FROM conditions WHERE run_id = ? AND year = ? ORDER BY position`,
		runID, year,
	)
	if err != nil {
		return forecast.Snapshot{}, fmt.Errorf("query conditions: %w", err)
	}
	defer rows.Close()

	snap := forecast.Snapshot{Year: year}
	for rows.Next() {
		var e forecast.Entry
		if err := rows.Scan(&e.ID, &e.Condition); err != nil {
			return forecast.Snapshot{}, fmt.Errorf("scan condition: %w", err)
		}
		snap.Entries = append(snap.Entries, e)
	}
	return snap, rows.Err()
}
