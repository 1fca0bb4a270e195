// ABOUTME: Exhaustive attractor detection over the synchronous transition function.
// ABOUTME: Walks trajectories from every start state, classifying states as attractor members or transients.
package boolnet

import (
	"context"
	"errors"
	"fmt"
)

// Default exploration caps. Both default to 2^20, large enough to cover
// every network of 20 or fewer nodes exhaustively.
const (
	DefaultStateCap = 1 << 20
	DefaultStepCap  = 1 << 20
)

// SizeWarningThreshold is the node count above which analysis warns that
// the exponential state space makes exhaustive exploration expensive.
const SizeWarningThreshold = 20

// ErrNilNetwork indicates an Analyze call without a compiled network.
var ErrNilNetwork = errors.New("analyze: nil network")

// Options bound the exploration performed by Analyze. Zero values select
// the defaults.
type Options struct {
	// StateCap limits how many start states are enumerated, counting up
	// from state 0. When it is below the total state space the result is
	// truncated and says so in its warnings.
	StateCap uint64

	// StepCap limits the length of a single trajectory walk. A walk that
	// exceeds it is abandoned with a warning and its states stay
	// unclassified.
	StepCap uint64
}

// stateMark packs one state's classification into an int32: zero means
// unvisited, mark v > 0 means member of attractor v-1, and mark v < 0
// means transient into attractor -v-1.
type stateMark int32

func memberMark(id int) stateMark    { return stateMark(id + 1) }
func transientMark(id int) stateMark { return stateMark(-(id + 1)) }

func (m stateMark) classified() bool { return m != 0 }

// attractor returns the attractor id encoded in a classified mark.
func (m stateMark) attractor() int {
	if m < 0 {
		return int(-m) - 1
	}
	return int(m) - 1
}

// denseTableLimit is the largest state space backed by a flat slice.
// Larger spaces, reachable only through truncated runs, fall back to a
// map keyed by the states actually touched.
const denseTableLimit = 1 << 26

// stateTable records the classification of every state in [0, total).
type stateTable struct {
	dense  []stateMark
	sparse map[State]stateMark
}

func newStateTable(total uint64) *stateTable {
	if total <= denseTableLimit {
		return &stateTable{dense: make([]stateMark, total)}
	}
	return &stateTable{sparse: make(map[State]stateMark)}
}

func (t *stateTable) get(s State) stateMark {
	if t.dense != nil {
		return t.dense[s]
	}
	return t.sparse[s]
}

func (t *stateTable) set(s State, m stateMark) {
	if t.dense != nil {
		t.dense[s] = m
		return
	}
	t.sparse[s] = m
}

// Analyze finds every attractor reachable from the enumerated start
// states and sizes their basins of attraction.
//
// Start states are swept in ascending order from 0. Each unclassified
// start is walked forward through the transition function until the walk
// either reaches an already classified state or closes a cycle within
// itself; the walk's states are then classified and counted into the
// owning attractor's basin. The sweep order makes the output fully
// deterministic: attractor ids ascend with the smallest start state that
// discovers them.
//
// ctx is checked between walks and between steps, so a cancelled context
// aborts promptly even inside a long trajectory.
func Analyze(ctx context.Context, net *Network, opts Options) (*Result, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}

	stateCap := opts.StateCap
	if stateCap == 0 {
		stateCap = DefaultStateCap
	}
	stepCap := opts.StepCap
	if stepCap == 0 {
		stepCap = DefaultStepCap
	}

	total := net.TotalStates()
	startLimit := total
	truncated := false
	if stateCap < total {
		startLimit = stateCap
		truncated = true
	}

	var warnings []string
	if net.Size() > SizeWarningThreshold {
		warnings = append(warnings, fmt.Sprintf(
			"network has %d nodes; exhaustive analysis covers %d states and may be expensive",
			net.Size(), total))
	}

	table := newStateTable(total)
	var attractors []Attractor
	var explored uint64

	path := make([]State, 0, 256)
	pathIndex := make(map[State]int, 256)

	for start := uint64(0); start < startLimit; start++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if table.get(State(start)).classified() {
			continue
		}

		path = path[:0]
		clear(pathIndex)

		cur := State(start)
		resolved := false

		for uint64(len(path)) < stepCap {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			path = append(path, cur)
			pathIndex[cur] = len(path) - 1

			next := net.Transition(cur)

			// Merging into territory classified by an earlier walk:
			// the whole path drains into that walk's attractor.
			if m := table.get(next); m.classified() {
				id := m.attractor()
				for _, s := range path {
					table.set(s, transientMark(id))
				}
				attractors[id].BasinSize += uint64(len(path))
				explored += uint64(len(path))
				resolved = true
				break
			}

			// Closing a cycle within this walk: the suffix from the
			// first occurrence of next is a new attractor.
			if at, ok := pathIndex[next]; ok {
				cycle := make([]State, len(path)-at)
				copy(cycle, path[at:])

				id := len(attractors)
				typ := LimitCycle
				if len(cycle) == 1 {
					typ = FixedPoint
				}
				attractors = append(attractors, Attractor{
					ID:        id,
					Type:      typ,
					Period:    len(cycle),
					States:    cycle,
					BasinSize: uint64(len(path)),
				})

				for _, s := range cycle {
					table.set(s, memberMark(id))
				}
				for _, s := range path[:at] {
					table.set(s, transientMark(id))
				}
				explored += uint64(len(path))
				resolved = true
				break
			}

			cur = next
		}

		if !resolved {
			// Nothing was marked during the walk, so the path's states
			// remain unvisited and a later walk may classify them.
			warnings = append(warnings, fmt.Sprintf(
				"trajectory from state %d exceeded the step cap of %d and was left unclassified",
				start, stepCap))
		}
	}

	if truncated {
		warnings = append(warnings, fmt.Sprintf(
			"state space truncated to %d of %d states", startLimit, total))
		warnings = append(warnings, fmt.Sprintf(
			"basin shares are relative to the %d explored states, not the full state space", explored))
	}

	denom := total
	if truncated {
		denom = explored
	}
	for i := range attractors {
		if denom > 0 {
			attractors[i].BasinShare = float64(attractors[i].BasinSize) / float64(denom)
		}
	}

	nodeOrder := make([]string, net.Size())
	nodeLabels := make(map[string]string, net.Size())
	for _, node := range net.Nodes() {
		nodeOrder[node.Index] = node.ID
		nodeLabels[node.ID] = node.Label
	}

	return &Result{
		NodeOrder:      nodeOrder,
		NodeLabels:     nodeLabels,
		Attractors:     attractors,
		ExploredStates: explored,
		TotalStates:    total,
		Truncated:      truncated,
		Warnings:       warnings,
	}, nil
}
