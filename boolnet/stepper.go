// ABOUTME: Stepper drives a network one synchronous update at a time for interactive use.
// ABOUTME: Tracks the visited trajectory and reports when it closes into a cycle.
package boolnet

// Stepper walks a single trajectory update by update, keeping the full
// trace so callers can display it and detect when the walk enters a
// cycle. It is a presentation helper: Analyze does not use it.
//
// A Stepper is not safe for concurrent use.
type Stepper struct {
	net    *Network
	start  State
	trace  []State
	seen   map[State]int
	loopAt int
}

// NewStepper starts a trajectory at the given state.
func NewStepper(net *Network, start State) *Stepper {
	st := &Stepper{net: net}
	st.Reset(start)
	return st
}

// Network returns the network being stepped.
func (st *Stepper) Network() *Network { return st.net }

// Current returns the state at the head of the trajectory.
func (st *Stepper) Current() State {
	return st.trace[len(st.trace)-1]
}

// Start returns the state the trajectory began at.
func (st *Stepper) Start() State { return st.start }

// StepCount returns how many updates have been applied since the last
// reset.
func (st *Stepper) StepCount() int { return len(st.trace) - 1 }

// Step applies one synchronous update and returns the new current state.
// Stepping past the point where the trajectory closes into a cycle keeps
// extending the trace around the cycle.
func (st *Stepper) Step() State {
	next := st.net.Transition(st.Current())

	if st.loopAt < 0 {
		if at, ok := st.seen[next]; ok {
			st.loopAt = at
		} else {
			st.seen[next] = len(st.trace)
		}
	}

	st.trace = append(st.trace, next)
	return next
}

// Reset restarts the trajectory at the given state, discarding the trace.
func (st *Stepper) Reset(start State) {
	st.start = start
	st.trace = append(st.trace[:0], start)
	st.seen = map[State]int{start: 0}
	st.loopAt = -1
}

// Toggle flips one node bit and restarts the trajectory from the
// modified state.
func (st *Stepper) Toggle(i int) State {
	next := st.Current().Toggle(i)
	st.Reset(next)
	return next
}

// Trace returns a copy of the visited states, start first. Consecutive
// entries are always one transition apart.
func (st *Stepper) Trace() []State {
	out := make([]State, len(st.trace))
	copy(out, st.trace)
	return out
}

// Loop reports whether the trajectory has closed into a cycle, and if so
// the trace index where the cycle begins.
func (st *Stepper) Loop() (int, bool) {
	if st.loopAt < 0 {
		return 0, false
	}
	return st.loopAt, true
}
