package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherfordomb/street-condition-simulator/pkg/cost"
	"github.com/weatherfordomb/street-condition-simulator/pkg/forecast"
	"github.com/weatherfordomb/street-condition-simulator/pkg/inventory"
	"github.com/weatherfordomb/street-condition-simulator/pkg/scenario"
	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
	"github.com/weatherfordomb/street-condition-simulator/pkg/store"
	"github.com/weatherfordomb/street-condition-simulator/pkg/validation"
)

const (
	maxIterations   = 100
	maxBodyBytes    = 16 << 20
	defaultRunLimit = 20
)

// RunStore persists forecast repetitions.
type RunStore interface {
	SaveRun(in store.RunInput) (store.RunRecord, error)
	ListRuns(limit int) ([]store.RunRecord, error)
}

// Server exposes forecasts over a JSON HTTP API.
type Server struct {
	inventoryPath string
	port          int
	runs          RunStore
}

// New creates a server. inventoryPath is the default segment inventory used
// when a request carries no segments; runs may be nil.
func New(inventoryPath string, port int, runs RunStore) *Server {
	return &Server{
		inventoryPath: inventoryPath,
		port:          port,
		runs:          runs,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/scenarios", instrument("/api/scenarios", s.handleScenarios))
	mux.HandleFunc("GET /api/scenarios/{name}", instrument("/api/scenarios/{name}", s.handleScenario))
	mux.HandleFunc("POST /api/forecast", instrument("/api/forecast", s.handleForecast))
	mux.HandleFunc("POST /api/cost", instrument("/api/cost", s.handleCost))
	mux.HandleFunc("GET /api/runs", instrument("/api/runs", s.handleRuns))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /", s.handleIndex)

	return mux
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("streetcast server starting on http://localhost%s", addr)
	if s.inventoryPath != "" {
		log.Printf("Inventory: %s", s.inventoryPath)
	}
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>streetcast</title></head>
<body style="font-family:system-ui;margin:2rem">
<h1>streetcast</h1>
<ul>
<li><code>GET /api/scenarios</code></li>
<li><code>GET /api/scenarios/{name}</code></li>
<li><code>POST /api/forecast</code></li>
<li><code>POST /api/cost</code></li>
<li><code>GET /api/runs</code></li>
<li><code>GET /metrics</code></li>
</ul>
</body></html>`)
}

func (s *Server) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": scenario.Names()})
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := scenario.Predefined(r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

type forecastRequest struct {
	Scenario          string           `json:"scenario"`
	CustomScenario    json.RawMessage  `json:"custom_scenario"`
	Iterations        int              `json:"iterations"`
	Years             int              `json:"years"`
	Seed              *uint64          `json:"seed"`
	Segments          []segment.Record `json:"segments"`
	IncludeConditions bool             `json:"include_conditions"`
}

type forecastResponse struct {
	Scenario   *scenario.Scenario `json:"scenario"`
	Results    []forecast.Result  `json:"results"`
	RunIDs     []string           `json:"run_ids,omitempty"`
	Validation *validation.Report `json:"validation"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sc, err := requestScenario(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if sc.Iterations > maxIterations {
		writeError(w, http.StatusBadRequest, fmt.Errorf("iterations %d exceeds limit of %d", sc.Iterations, maxIterations))
		return
	}

	records, err := s.records(req.Segments)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report := validation.ValidateScenario(sc)
	report.Merge(validation.ValidateInventory(records))
	if !report.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}

	rng := segment.GlobalSource
	if req.Seed != nil {
		rng = rand.New(rand.NewPCG(*req.Seed, *req.Seed))
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("scenario.name", sc.Name),
		attribute.Int("scenario.iterations", sc.Iterations),
		attribute.Int("scenario.years", sc.YearsToSimulate),
		attribute.Int("segments", len(records)),
	)
	forecastSegments.Observe(float64(len(records)))

	results, err := forecast.RunIterations(sc, inventory.Loader(records, rng), forecast.WithRand(rng))
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	forecastYears.Add(float64(len(results) * sc.YearsToSimulate))

	resp := forecastResponse{Scenario: sc, Validation: report}
	if s.runs != nil {
		for _, res := range results {
			rec, err := s.runs.SaveRun(store.RunInput{Scenario: sc, Result: res})
			if err != nil {
				span.RecordError(err)
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			resp.RunIDs = append(resp.RunIDs, rec.RunID)
		}
	}

	if !req.IncludeConditions {
		for i := range results {
			results[i].Conditions = nil
		}
	}
	resp.Results = results
	writeJSON(w, http.StatusOK, resp)
}

// requestScenario resolves the scenario named or embedded in a request and
// applies its overrides.
func requestScenario(req forecastRequest) (*scenario.Scenario, error) {
	var sc *scenario.Scenario
	var err error
	switch {
	case len(req.CustomScenario) > 0:
		sc, err = scenario.Parse(req.CustomScenario)
	case req.Scenario != "":
		sc, err = scenario.Predefined(req.Scenario)
	default:
		return nil, errors.New("request needs scenario or custom_scenario")
	}
	if err != nil {
		return nil, err
	}
	if req.Iterations > 0 {
		sc.Iterations = req.Iterations
	}
	if req.Years > 0 {
		sc.YearsToSimulate = req.Years
	}
	return sc, nil
}

type costRequest struct {
	Segments []segment.Record `json:"segments"`
}

func (s *Server) handleCost(w http.ResponseWriter, r *http.Request) {
	var req costRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	records, err := s.records(req.Segments)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, cost.Estimate(inventory.Segments(records, nil)))
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotFound, errors.New("run store not configured"))
		return
	}
	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}
	runs, err := s.runs.ListRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []store.RunRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// records returns the request's segments, or the server inventory when the
// request has none.
func (s *Server) records(inline []segment.Record) ([]segment.Record, error) {
	if len(inline) > 0 {
		return inline, nil
	}
	if s.inventoryPath == "" {
		return nil, errors.New("request has no segments and no inventory is configured")
	}
	return inventory.Load(s.inventoryPath, inventory.DefaultColumns)
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
