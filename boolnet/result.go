// ABOUTME: Result types produced by attractor analysis.
// ABOUTME: Attractors carry canonical state sequences plus basin counts and shares.
package boolnet

// AttractorType distinguishes fixed points from limit cycles.
type AttractorType string

const (
	// FixedPoint is an attractor of period 1: a state that maps to itself.
	FixedPoint AttractorType = "fixed-point"

	// LimitCycle is an attractor of period 2 or more.
	LimitCycle AttractorType = "limit-cycle"
)

// Attractor is one terminal cycle of the transition function.
//
// States lists the cycle in canonical order: it begins at the state where
// the detector's walk first closed the cycle and follows transition order
// exactly once around. Ids are assigned in discovery order, so they
// ascend with the smallest start state that reaches each attractor.
type Attractor struct {
	ID         int           `json:"id"`
	Type       AttractorType `json:"type"`
	Period     int           `json:"period"`
	States     []State       `json:"states"`
	BasinSize  uint64        `json:"basin_size"`
	BasinShare float64       `json:"basin_share"`
}

// Result is the complete outcome of one analysis run.
type Result struct {
	// NodeOrder maps node index to node id, fixing bit positions for
	// every state integer in the result.
	NodeOrder []string `json:"node_order"`

	// NodeLabels maps node id to display label.
	NodeLabels map[string]string `json:"node_labels"`

	Attractors []Attractor `json:"attractors"`

	// ExploredStates counts the distinct states classified during the
	// run. Equal to TotalStates only for a complete, uncapped analysis.
	ExploredStates uint64 `json:"explored_states"`

	// TotalStates is the full state space size, 2^N.
	TotalStates uint64 `json:"total_states"`

	// Truncated reports whether the start-state sweep was cut short by
	// the state cap.
	Truncated bool `json:"truncated"`

	Warnings []string `json:"warnings,omitempty"`
}

// FixedPoints returns the attractors of period 1, in id order.
func (r *Result) FixedPoints() []Attractor {
	var out []Attractor
	for _, a := range r.Attractors {
		if a.Type == FixedPoint {
			out = append(out, a)
		}
	}
	return out
}

// LimitCycles returns the attractors of period 2 or more, in id order.
func (r *Result) LimitCycles() []Attractor {
	var out []Attractor
	for _, a := range r.Attractors {
		if a.Type == LimitCycle {
			out = append(out, a)
		}
	}
	return out
}
