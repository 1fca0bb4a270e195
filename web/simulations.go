// ABOUTME: HTTP handlers for interactive simulation sessions.
// ABOUTME: Sessions wrap a stepper per client and live only in memory.
package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/statemap-research/basin/boolnet"
)

// maxStepsPerRequest bounds how far a single step request may advance.
const maxStepsPerRequest = 1024

type createSimulationRequest struct {
	NetworkID string  `json:"network_id"`
	Start     *uint64 `json:"start,omitempty"`
}

type simulationResponse struct {
	ID        string   `json:"id"`
	NetworkID string   `json:"network_id"`
	Nodes     []string `json:"nodes"`
	State     uint64   `json:"state"`
	Bits      string   `json:"bits"`
	StepCount int      `json:"step_count"`
	Trace     []uint64 `json:"trace"`
	LoopAt    *int     `json:"loop_at,omitempty"`
}

// simulationResponseFrom snapshots a session for the API.
func simulationResponseFrom(sim *Simulation) *simulationResponse {
	resp := &simulationResponse{
		ID:        sim.ID,
		NetworkID: sim.NetworkID,
	}
	sim.WithStepper(func(st *boolnet.Stepper) {
		net := st.Network()
		for _, node := range net.Nodes() {
			resp.Nodes = append(resp.Nodes, node.ID)
		}
		cur := st.Current()
		resp.State = uint64(cur)
		resp.Bits = boolnet.BitString(cur, net.Size())
		resp.StepCount = st.StepCount()
		for _, s := range st.Trace() {
			resp.Trace = append(resp.Trace, uint64(s))
		}
		if at, ok := st.Loop(); ok {
			resp.LoopAt = &at
		}
	})
	return resp
}

// handleCreateSimulation handles POST /api/simulations.
func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	var req createSimulationRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.NetworkID) == "" {
		writeError(w, http.StatusUnprocessableEntity, "network_id is required")
		return
	}

	_, doc, ok := s.loadNetwork(w, req.NetworkID)
	if !ok {
		return
	}
	net, err := doc.Compile()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var start uint64
	if req.Start != nil {
		start = *req.Start
	}
	if start >= net.TotalStates() {
		writeError(w, http.StatusUnprocessableEntity,
			"start state is out of range for this network")
		return
	}

	sim := s.sessions.Create(req.NetworkID, boolnet.NewStepper(net, boolnet.State(start)))
	s.metrics.SetSimulationSessions(s.sessions.Len())

	writeJSON(w, http.StatusCreated, simulationResponseFrom(sim))
}

// handleGetSimulation handles GET /api/simulations/{id}.
func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	sim, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "simulation not found")
		return
	}
	writeJSON(w, http.StatusOK, simulationResponseFrom(sim))
}

// handleDeleteSimulation handles DELETE /api/simulations/{id}.
func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "simulation not found")
		return
	}
	s.metrics.SetSimulationSessions(s.sessions.Len())
	w.WriteHeader(http.StatusNoContent)
}

// handleSimulationStep handles POST /api/simulations/{id}/step. An
// empty body advances one step.
func (s *Server) handleSimulationStep(w http.ResponseWriter, r *http.Request) {
	sim, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "simulation not found")
		return
	}

	var req struct {
		Steps int `json:"steps,omitempty"`
	}
	if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Steps == 0 {
		req.Steps = 1
	}
	if req.Steps < 0 || req.Steps > maxStepsPerRequest {
		writeError(w, http.StatusUnprocessableEntity,
			"steps must be between 1 and 1024")
		return
	}

	sim.WithStepper(func(st *boolnet.Stepper) {
		for i := 0; i < req.Steps; i++ {
			st.Step()
		}
	})
	writeJSON(w, http.StatusOK, simulationResponseFrom(sim))
}

// handleSimulationReset handles POST /api/simulations/{id}/reset. An
// optional start field rewinds to a different state.
func (s *Server) handleSimulationReset(w http.ResponseWriter, r *http.Request) {
	sim, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "simulation not found")
		return
	}

	var req struct {
		Start *uint64 `json:"start,omitempty"`
	}
	if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	outOfRange := false
	sim.WithStepper(func(st *boolnet.Stepper) {
		start := st.Start()
		if req.Start != nil {
			if *req.Start >= st.Network().TotalStates() {
				outOfRange = true
				return
			}
			start = boolnet.State(*req.Start)
		}
		st.Reset(start)
	})
	if outOfRange {
		writeError(w, http.StatusUnprocessableEntity,
			"start state is out of range for this network")
		return
	}
	writeJSON(w, http.StatusOK, simulationResponseFrom(sim))
}

// handleSimulationToggle handles POST /api/simulations/{id}/toggle,
// flipping one node bit and restarting the trace from the new state.
func (s *Server) handleSimulationToggle(w http.ResponseWriter, r *http.Request) {
	sim, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "simulation not found")
		return
	}

	var req struct {
		Node string `json:"node"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	unknown := false
	sim.WithStepper(func(st *boolnet.Stepper) {
		node, ok := st.Network().NodeByID(req.Node)
		if !ok {
			unknown = true
			return
		}
		st.Toggle(node.Index)
	})
	if unknown {
		writeError(w, http.StatusUnprocessableEntity, "unknown node "+strconv.Quote(req.Node))
		return
	}
	writeJSON(w, http.StatusOK, simulationResponseFrom(sim))
}
