// ABOUTME: HTTP handlers for starting, inspecting, and cancelling analysis runs.
// ABOUTME: Runs execute in background goroutines with results persisted to the store.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/statemap-research/basin/boolnet"
	"github.com/statemap-research/basin/export"
	"github.com/statemap-research/basin/store"
)

type startAnalysisRequest struct {
	StateCap uint64 `json:"state_cap,omitempty"`
	StepCap  uint64 `json:"step_cap,omitempty"`
}

type analysisResponse struct {
	ID         string          `json:"id"`
	NetworkID  string          `json:"network_id"`
	Status     string          `json:"status"`
	StateCap   uint64          `json:"state_cap"`
	StepCap    uint64          `json:"step_cap"`
	Result     *boolnet.Result `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  string          `json:"created_at"`
	FinishedAt string          `json:"finished_at,omitempty"`
}

func analysisResponseFromRecord(rec *store.AnalysisRecord) (*analysisResponse, error) {
	resp := &analysisResponse{
		ID:        rec.AnalysisID,
		NetworkID: rec.NetworkID,
		Status:    rec.Status,
		StateCap:  rec.StateCap,
		StepCap:   rec.StepCap,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Error != nil {
		resp.Error = *rec.Error
	}
	if rec.FinishedAt != nil {
		resp.FinishedAt = *rec.FinishedAt
	}
	if rec.Result != nil {
		var result boolnet.Result
		if err := json.Unmarshal([]byte(*rec.Result), &result); err != nil {
			return nil, err
		}
		resp.Result = &result
	}
	return resp, nil
}

// handleListAnalyses handles GET /api/networks/{id}/analyses.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	networkID := chi.URLParam(r, "id")
	if _, err := s.store.GetNetwork(networkID); err != nil {
		writeStoreError(w, err)
		return
	}

	records, err := s.store.ListAnalyses(networkID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	out := make([]*analysisResponse, 0, len(records))
	for i := range records {
		resp, err := analysisResponseFromRecord(&records[i])
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": out})
}

// handleStartAnalysis handles POST /api/networks/{id}/analyses. The
// analysis runs in the background; the response reports the new run id
// immediately.
func (s *Server) handleStartAnalysis(w http.ResponseWriter, r *http.Request) {
	_, doc, ok := s.loadNetwork(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	net, err := doc.Compile()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var req startAnalysisRequest
	if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	opts := boolnet.Options{StateCap: req.StateCap, StepCap: req.StepCap}
	if opts.StateCap == 0 {
		opts.StateCap = boolnet.DefaultStateCap
	}
	if opts.StepCap == 0 {
		opts.StepCap = boolnet.DefaultStepCap
	}

	rec := &store.AnalysisRecord{
		AnalysisID: store.NewID(),
		NetworkID:  chi.URLParam(r, "id"),
		Status:     store.AnalysisPending,
		StateCap:   opts.StateCap,
		StepCap:    opts.StepCap,
	}
	if err := s.store.CreateAnalysis(rec); err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.store.SetAnalysisStatus(rec.AnalysisID, store.AnalysisRunning); err != nil {
		writeStoreError(w, err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.runs[rec.AnalysisID] = &analysisRun{cancel: cancel}
	s.mu.Unlock()

	go s.runAnalysis(ctx, cancel, rec.AnalysisID, net, opts)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     rec.AnalysisID,
		"status": store.AnalysisRunning,
	})
}

// runAnalysis executes one analysis to completion and records the
// outcome. It owns the runs-map entry for its id.
func (s *Server) runAnalysis(ctx context.Context, cancel context.CancelFunc, analysisID string, net *boolnet.Network, opts boolnet.Options) {
	defer cancel()
	started := time.Now()

	result, err := boolnet.Analyze(ctx, net, opts)

	s.mu.Lock()
	delete(s.runs, analysisID)
	s.mu.Unlock()

	elapsed := time.Since(started)

	if err != nil {
		status := store.AnalysisFailed
		if ctx.Err() != nil {
			status = store.AnalysisCancelled
		}
		msg := err.Error()
		if ferr := s.store.FinishAnalysis(analysisID, status, nil, &msg); ferr != nil {
			log.Printf("analysis %s: recording %s outcome: %v", analysisID, status, ferr)
		}
		s.metrics.AnalysisFinished(status, elapsed)
		log.Printf("analysis %s %s after %s: %v", analysisID, status, elapsed.Round(time.Millisecond), err)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		msg := "encode result: " + err.Error()
		if ferr := s.store.FinishAnalysis(analysisID, store.AnalysisFailed, nil, &msg); ferr != nil {
			log.Printf("analysis %s: recording failed outcome: %v", analysisID, ferr)
		}
		s.metrics.AnalysisFinished(store.AnalysisFailed, elapsed)
		return
	}

	payload := string(data)
	if ferr := s.store.FinishAnalysis(analysisID, store.AnalysisCompleted, &payload, nil); ferr != nil {
		log.Printf("analysis %s: recording completed outcome: %v", analysisID, ferr)
	}
	s.metrics.AnalysisFinished(store.AnalysisCompleted, elapsed)
	s.metrics.AttractorsFound(len(result.Attractors))
	log.Printf("analysis %s completed in %s: %d attractors, %d of %d states",
		analysisID, elapsed.Round(time.Millisecond), len(result.Attractors), result.ExploredStates, result.TotalStates)
}

// handleGetAnalysis handles GET /api/analyses/{id}.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetAnalysis(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	resp, err := analysisResponseFromRecord(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCancelAnalysis handles POST /api/analyses/{id}/cancel.
func (s *Server) handleCancelAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.store.GetAnalysis(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	switch rec.Status {
	case store.AnalysisCompleted, store.AnalysisFailed, store.AnalysisCancelled:
		writeError(w, http.StatusConflict, "analysis already "+rec.Status)
		return
	}

	s.mu.Lock()
	run, active := s.runs[id]
	s.mu.Unlock()

	if active {
		run.cancel()
		writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": "cancelling"})
		return
	}

	// No live goroutine for this run. The record is stale, most likely
	// from a previous process; mark it cancelled directly.
	if err := s.store.FinishAnalysis(id, store.AnalysisCancelled, nil, nil); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": store.AnalysisCancelled})
}

// stateGraphForAnalysis builds the annotated state-graph DOT for a
// completed analysis. Error responses are written here; the second
// return value tells the caller whether to continue.
func (s *Server) stateGraphForAnalysis(w http.ResponseWriter, analysisID string) (string, bool) {
	rec, err := s.store.GetAnalysis(analysisID)
	if err != nil {
		writeStoreError(w, err)
		return "", false
	}
	if rec.Status != store.AnalysisCompleted {
		writeError(w, http.StatusConflict, "analysis is "+rec.Status+", not completed")
		return "", false
	}

	_, doc, ok := s.loadNetwork(w, rec.NetworkID)
	if !ok {
		return "", false
	}
	net, err := doc.Compile()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return "", false
	}

	var result boolnet.Result
	if rec.Result != nil {
		if err := json.Unmarshal([]byte(*rec.Result), &result); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return "", false
		}
	}

	graph, err := export.StateGraphDOT(net, &result)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return "", false
	}
	return graph, true
}

// handleStateGraphDOT handles GET /api/analyses/{id}/stategraph.dot.
func (s *Server) handleStateGraphDOT(w http.ResponseWriter, r *http.Request) {
	graph, ok := s.stateGraphForAnalysis(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(graph))
}

// handleStateGraphSVG handles GET /api/analyses/{id}/stategraph.svg.
func (s *Server) handleStateGraphSVG(w http.ResponseWriter, r *http.Request) {
	graph, ok := s.stateGraphForAnalysis(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	data, err := s.renderDOT(r.Context(), graph, "svg")
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(data)
}
