package store

import (
	"time"

	"github.com/weatherfordomb/street-condition-simulator/pkg/forecast"
	"github.com/weatherfordomb/street-condition-simulator/pkg/scenario"
)

// RunRecord describes one persisted repetition of a scenario.
type RunRecord struct {
	RunID        string    `json:"run_id"`
	ScenarioName string    `json:"scenario_name"`
	Iteration    int       `json:"iteration"`
	Years        int       `json:"years"`
	Segments     int       `json:"segments"`
	ScenarioJSON string    `json:"scenario_json"`
	CreatedAt    time.Time `json:"created_at"`
}

// RunInput is what SaveRun persists.
type RunInput struct {
	Scenario *scenario.Scenario
	Result   forecast.Result
}
