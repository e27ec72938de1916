package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/pipeline"
	"github.com/theirongolddev/fcast/internal/scenario"
	"github.com/theirongolddev/fcast/internal/store"
)

const maxBodyBytes = 1 << 20

// ForecastResponse is returned by every endpoint that produces a forecast.
type ForecastResponse struct {
	Model   model.FinancialModel `json:"model"`
	Records []model.PeriodRecord `json:"records"`
	Totals  forecast.Totals      `json:"totals"`
}

// ApplyRequest is the body of POST /v1/scenarios/apply.
type ApplyRequest struct {
	Baseline model.FinancialModel `json:"baseline"`
	Deltas   model.ScenarioDeltas `json:"deltas"`
}

// CompareRequest is the body of POST /v1/scenarios/compare. When Models is
// set the models are compared as given; otherwise Scenarios, and the presets
// when Presets is true, are applied to Baseline first.
type CompareRequest struct {
	Models    []model.FinancialModel `json:"models,omitempty"`
	Baseline  *model.FinancialModel  `json:"baseline,omitempty"`
	Scenarios []model.ScenarioDeltas `json:"scenarios,omitempty"`
	Presets   bool                   `json:"presets,omitempty"`
}

// Handler returns the service's routes.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(&s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)

		r.Post("/forecast", s.handleForecast)
		r.Post("/scenarios/apply", s.handleApply)
		r.Post("/scenarios/compare", s.handleCompare)

		r.Route("/models", func(r chi.Router) {
			r.Get("/", s.handleListModels)
			r.Get("/{id}", s.handleGetModel)
			r.Get("/{id}/forecast", s.handleModelForecast)
			r.Get("/{id}/compare", s.handleModelCompare)
		})
	})
	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	st := s.snapshotStatus()
	writeSSE(w, Event{
		Type:      "status",
		Timestamp: time.Now(),
		Data: map[string]any{
			"stored_models": st.StoredModels,
			"forecasts":     st.Forecasts,
		},
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func (s *Service) handleForecast(w http.ResponseWriter, r *http.Request) {
	var m model.FinancialModel
	if !decodeBody(w, r, &m) {
		return
	}
	s.respondForecast(w, r, m)
}

func (s *Service) handleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.respondForecast(w, r, scenario.Apply(req.Baseline, req.Deltas))
}

func (s *Service) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var models []model.FinancialModel
	switch {
	case len(req.Models) > 0:
		models = req.Models
	case req.Baseline != nil:
		deltas := req.Scenarios
		if req.Presets {
			deltas = append(scenario.Presets(), deltas...)
		}
		if len(deltas) == 0 {
			deltas = []model.ScenarioDeltas{{}}
		}
		models = scenario.ApplyAll(*req.Baseline, deltas...)
	default:
		writeError(w, http.StatusBadRequest, errors.New("either models or baseline is required"))
		return
	}

	s.respondCompare(w, r, models)
}

func (s *Service) handleListModels(w http.ResponseWriter, _ *http.Request) {
	if !s.requireStore(w) {
		return
	}
	summaries, err := s.store.ListModels()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if summaries == nil {
		summaries = []store.ModelSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Service) handleGetModel(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookupModel(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Service) handleModelForecast(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookupModel(w, r)
	if !ok {
		return
	}
	s.respondForecast(w, r, m)
}

// handleModelCompare compares a stored baseline against its saved scenarios.
// ?presets=true adds the standard presets.
func (s *Service) handleModelCompare(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookupModel(w, r)
	if !ok {
		return
	}
	saved, err := s.store.ListScenarios(m.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	// The realistic preset stands in for the baseline when presets are on.
	deltas := []model.ScenarioDeltas{{}}
	if presets, _ := strconv.ParseBool(r.URL.Query().Get("presets")); presets {
		deltas = scenario.Presets()
	}
	for _, sc := range saved {
		d := sc.Deltas
		if d.Name == "" {
			d.Name = sc.Name
		}
		deltas = append(deltas, d)
	}

	s.respondCompare(w, r, scenario.ApplyAll(m, deltas...))
}

func (s *Service) respondForecast(w http.ResponseWriter, r *http.Request, m model.FinancialModel) {
	start := time.Now()
	records, err := forecast.Try(m)
	s.metrics.forecastSeconds.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	s.forecasts++
	s.mu.Unlock()

	if err != nil {
		s.metrics.forecasts.WithLabelValues("invalid").Inc()
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("model", m.DisplayName()).Msg("forecast rejected")
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.metrics.forecasts.WithLabelValues("ok").Inc()

	totals := forecast.Summarize(records)
	s.emit("forecast", m.DisplayName(), map[string]any{
		"periods": totals.Periods,
		"revenue": totals.Revenue,
		"profit":  totals.Profit,
	})

	writeJSON(w, http.StatusOK, ForecastResponse{
		Model:   model.Resolve(m),
		Records: records,
		Totals:  totals,
	})
}

func (s *Service) respondCompare(w http.ResponseWriter, _ *http.Request, models []model.FinancialModel) {
	cmp := pipeline.Compare(models, s.cfg.Workers)
	s.metrics.comparisons.Inc()
	s.emit("comparison", cmp.Primary, map[string]any{
		"scenarios": len(cmp.Scenarios),
		"variance":  string(cmp.Variance),
	})
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Service) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no model store configured"))
		return false
	}
	return true
}

func (s *Service) lookupModel(w http.ResponseWriter, r *http.Request) (model.FinancialModel, bool) {
	if !s.requireStore(w) {
		return model.FinancialModel{}, false
	}
	id := chi.URLParam(r, "id")
	m, err := s.store.GetModel(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("model %q not found", id))
		return model.FinancialModel{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return model.FinancialModel{}, false
	}
	return m, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
