package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/weatherfordomb/street-condition-simulator/pkg/store"
)

type fakeRuns struct {
	saved []store.RunInput
	err   error
}

func (f *fakeRuns) SaveRun(in store.RunInput) (store.RunRecord, error) {
	if f.err != nil {
		return store.RunRecord{}, f.err
	}
	f.saved = append(f.saved, in)
	return store.RunRecord{RunID: "run-" + string(rune('a'+len(f.saved)-1)), ScenarioName: in.Scenario.Name}, nil
}

func (f *fakeRuns) ListRuns(limit int) ([]store.RunRecord, error) {
	var out []store.RunRecord
	for i, in := range f.saved {
		if i == limit {
			break
		}
		out = append(out, store.RunRecord{ScenarioName: in.Scenario.Name, Iteration: in.Result.Iteration})
	}
	return out, nil
}

const segmentsJSON = `[
	{"id": 1, "initial_condition": 75, "length": 100, "width": 90, "surface_type": "AC", "street_class": "LOC"},
	{"id": 2, "initial_condition": 30, "length": 100, "width": 90, "surface_type": "PCC", "street_class": "ART"}
]`

const customJSON = `{"name": "tiny", "iterations": 2, "years_to_simulate": 2,
	"preventive_budgets": [3000, 3000], "rehab_budgets": [8000, 8000]}`

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestScenarios(t *testing.T) {
	h := New("", 0, nil).Handler()

	rec := do(t, h, "GET", "/api/scenarios", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list struct {
		Scenarios []string `json:"scenarios"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, n := range list.Scenarios {
		if n == "baseline" {
			found = true
		}
	}
	if !found {
		t.Errorf("baseline missing from %v", list.Scenarios)
	}

	rec = do(t, h, "GET", "/api/scenarios/scenario1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("scenario1 status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"rehab_budgets"`) {
		t.Errorf("scenario body missing budgets: %s", rec.Body.String())
	}

	rec = do(t, h, "GET", "/api/scenarios/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown scenario status = %d, want 404", rec.Code)
	}
}

func TestForecastInline(t *testing.T) {
	runs := &fakeRuns{}
	h := New("", 0, runs).Handler()

	body := `{"custom_scenario": ` + customJSON + `, "seed": 7, "segments": ` + segmentsJSON + `}`
	rec := do(t, h, "POST", "/api/forecast", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Scenario struct {
			Name string `json:"name"`
		} `json:"scenario"`
		Results []struct {
			Iteration  int               `json:"iteration"`
			Conditions []json.RawMessage `json:"conditions"`
			Summaries  []struct {
				Year             int     `json:"year"`
				PreventiveFunded int     `json:"preventive_funded"`
				RehabFunded      int     `json:"rehab_funded"`
				TotalBudget      float64 `json:"total_budget"`
			} `json:"summaries"`
		} `json:"results"`
		RunIDs []string `json:"run_ids"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Scenario.Name != "tiny" {
		t.Errorf("scenario name = %q", resp.Scenario.Name)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	first := resp.Results[0]
	if len(first.Summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(first.Summaries))
	}
	// Both segments are eligible and exactly affordable in year 1.
	if first.Summaries[0].PreventiveFunded != 1 || first.Summaries[0].RehabFunded != 1 {
		t.Errorf("year 1 funded = %d/%d, want 1/1", first.Summaries[0].PreventiveFunded, first.Summaries[0].RehabFunded)
	}
	if first.Summaries[0].TotalBudget != 11000 {
		t.Errorf("total budget = %v, want 11000", first.Summaries[0].TotalBudget)
	}
	if first.Conditions != nil {
		t.Error("conditions should be omitted unless requested")
	}
	if len(resp.RunIDs) != 2 || len(runs.saved) != 2 {
		t.Errorf("run ids = %v, saved = %d", resp.RunIDs, len(runs.saved))
	}
}

func TestForecastIncludesConditions(t *testing.T) {
	h := New("", 0, nil).Handler()
	body := `{"custom_scenario": ` + customJSON + `, "iterations": 1, "years": 1,
		"include_conditions": true, "segments": ` + segmentsJSON + `}`
	rec := do(t, h, "POST", "/api/forecast", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Results []struct {
			Conditions []struct {
				Year    int `json:"year"`
				Entries []struct {
					ID int `json:"id"`
				} `json:"entries"`
			} `json:"conditions"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 || len(resp.Results[0].Conditions) != 1 {
		t.Fatalf("unexpected shape: %s", rec.Body.String())
	}
	if n := len(resp.Results[0].Conditions[0].Entries); n != 2 {
		t.Errorf("got %d entries, want 2", n)
	}
}

func TestForecastRejects(t *testing.T) {
	h := New("", 0, nil).Handler()
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"no scenario", `{"segments": ` + segmentsJSON + `}`, http.StatusBadRequest},
		{"unknown preset", `{"scenario": "nope", "segments": ` + segmentsJSON + `}`, http.StatusBadRequest},
		{"bad json", `{"scenario": `, http.StatusBadRequest},
		{"no segments", `{"scenario": "baseline"}`, http.StatusBadRequest},
		{"too many iterations", `{"scenario": "baseline", "iterations": 1000, "segments": ` + segmentsJSON + `}`, http.StatusBadRequest},
		{"short budgets", `{"scenario": "baseline", "years": 40, "segments": ` + segmentsJSON + `}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, "POST", "/api/forecast", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestForecastStoreFailure(t *testing.T) {
	h := New("", 0, &fakeRuns{err: errors.New("disk full")}).Handler()
	body := `{"custom_scenario": ` + customJSON + `, "segments": ` + segmentsJSON + `}`
	rec := do(t, h, "POST", "/api/forecast", body)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestCost(t *testing.T) {
	h := New("", 0, nil).Handler()
	rec := do(t, h, "POST", "/api/cost", `{"segments": `+segmentsJSON+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var report struct {
		Segments int `json:"segments"`
		Current  struct {
			Total float64 `json:"total"`
		} `json:"current"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Segments != 2 {
		t.Errorf("segments = %d", report.Segments)
	}
	// 1000 sq yd preventive at $3 plus 1000 sq yd rehab at $8.
	if report.Current.Total != 11000 {
		t.Errorf("current total = %v, want 11000", report.Current.Total)
	}
}

func TestRuns(t *testing.T) {
	rec := do(t, New("", 0, nil).Handler(), "GET", "/api/runs", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("no store status = %d, want 404", rec.Code)
	}

	runs := &fakeRuns{}
	h := New("", 0, runs).Handler()
	rec = do(t, h, "GET", "/api/runs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"runs":[]`) {
		t.Errorf("expected empty run list, got %s", rec.Body.String())
	}

	rec = do(t, h, "GET", "/api/runs?limit=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	h := New("", 0, nil).Handler()
	do(t, h, "GET", "/api/scenarios", "")

	rec := do(t, h, "GET", "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "streetcast_http_requests_total") {
		t.Error("request counter not exported")
	}
}

func TestWriteJSONLogsEncodeError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"mean": math.NaN()})
	if !strings.Contains(buf.String(), "encoding response") {
		t.Errorf("encode failure not logged: %q", buf.String())
	}
}
