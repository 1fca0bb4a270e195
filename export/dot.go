// ABOUTME: Graphviz DOT exports: the node wiring diagram and the full state transition graph.
// ABOUTME: Output is deterministic so identical networks always serialize identically.
package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/statemap-research/basin/boolnet"
)

// StateGraphMaxNodes caps the network size for state graph export. Past
// this the 2^N graph stops being renderable in any useful way.
const StateGraphMaxNodes = 12

// ErrStateGraphTooLarge indicates a network too big for StateGraphDOT.
var ErrStateGraphTooLarge = errors.New("network too large for a state graph export")

// attractorPalette colors attractor members in the state graph, cycling
// when a network has more attractors than entries.
var attractorPalette = []string{
	"#90EE90", // light green
	"#87CEEB", // sky blue
	"#FFD700", // gold
	"#FFB6C1", // light pink
	"#DDA0DD", // plum
	"#F0E68C", // khaki
}

// polarity tracks how a rule reads an input: directly, through an odd
// number of negations, or both ways.
type polarity int

const (
	polPlain polarity = iota
	polNegated
	polBoth
)

func (p polarity) flip() polarity {
	switch p {
	case polPlain:
		return polNegated
	case polNegated:
		return polPlain
	default:
		return polBoth
	}
}

func (p polarity) merge(other polarity) polarity {
	if p == other {
		return p
	}
	return polBoth
}

// collectPolarities walks an expression and records the polarity of
// every referenced input. NAND and NOR negate their operands' effect;
// an XOR input swings both ways.
func collectPolarities(e boolnet.Expr, p polarity, out map[int]polarity) {
	switch x := e.(type) {
	case boolnet.Variable:
		if existing, ok := out[x.Index]; ok {
			out[x.Index] = existing.merge(p)
		} else {
			out[x.Index] = p
		}
	case boolnet.Not:
		collectPolarities(x.Operand, p.flip(), out)
	case boolnet.Binary:
		child := p
		switch x.Kind {
		case boolnet.OpNand, boolnet.OpNor:
			child = p.flip()
		case boolnet.OpXor:
			child = polBoth
		}
		collectPolarities(x.Left, child, out)
		collectPolarities(x.Right, child, out)
	}
}

// WiringDOT renders the network's dependency graph: an edge from j to i
// whenever node i's rule reads node j. Inputs that are only ever read
// through a negation get arrowhead=tee, the conventional inhibition
// marker.
func WiringDOT(net *boolnet.Network) string {
	var b strings.Builder

	fmt.Fprintf(&b, "digraph wiring {\n")
	fmt.Fprintf(&b, "  rankdir=LR;\n")
	fmt.Fprintf(&b, "  node [shape=box, style=rounded];\n\n")

	nodes := net.Nodes()
	for _, node := range nodes {
		fmt.Fprintf(&b, "  %s [label=%s, tooltip=%s];\n",
			quoteValue(node.ID), quoteValue(node.Label), quoteValue(net.Rule(node.Index).String()))
	}
	b.WriteString("\n")

	for _, node := range nodes {
		pols := make(map[int]polarity)
		collectPolarities(net.Rule(node.Index), polPlain, pols)

		sources := make([]int, 0, len(pols))
		for j := range pols {
			sources = append(sources, j)
		}
		sort.Ints(sources)

		for _, j := range sources {
			if pols[j] == polNegated {
				fmt.Fprintf(&b, "  %s -> %s [arrowhead=tee];\n", quoteValue(nodes[j].ID), quoteValue(node.ID))
			} else {
				fmt.Fprintf(&b, "  %s -> %s;\n", quoteValue(nodes[j].ID), quoteValue(node.ID))
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// StateGraphDOT renders the complete transition graph, one DOT node per
// state labeled with its bit pattern. When result is given, attractor
// members are filled with a per-attractor color and transients stay
// unfilled. Fails for networks above StateGraphMaxNodes.
func StateGraphDOT(net *boolnet.Network, result *boolnet.Result) (string, error) {
	if net.Size() > StateGraphMaxNodes {
		return "", fmt.Errorf("%w: %d nodes, limit is %d", ErrStateGraphTooLarge, net.Size(), StateGraphMaxNodes)
	}

	memberColor := make(map[boolnet.State]string)
	if result != nil {
		for _, a := range result.Attractors {
			color := attractorPalette[a.ID%len(attractorPalette)]
			for _, s := range a.States {
				memberColor[s] = color
			}
		}
	}

	var b strings.Builder

	fmt.Fprintf(&b, "digraph states {\n")
	fmt.Fprintf(&b, "  node [shape=circle, fontsize=10];\n\n")

	total := net.TotalStates()
	for s := uint64(0); s < total; s++ {
		state := boolnet.State(s)
		label := boolnet.BitString(state, net.Size())
		if color, ok := memberColor[state]; ok {
			fmt.Fprintf(&b, "  s%d [label=%s, style=filled, fillcolor=%s];\n",
				s, quoteValue(label), quoteValue(color))
		} else {
			fmt.Fprintf(&b, "  s%d [label=%s];\n", s, quoteValue(label))
		}
	}
	b.WriteString("\n")

	for s := uint64(0); s < total; s++ {
		next := net.Transition(boolnet.State(s))
		fmt.Fprintf(&b, "  s%d -> s%d;\n", s, uint64(next))
	}

	b.WriteString("}\n")
	return b.String(), nil
}

// isBareIdentifier reports whether a value can appear unquoted in DOT.
func isBareIdentifier(val string) bool {
	if val == "" {
		return false
	}
	for i, ch := range val {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch == '_':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// quoteValue returns a DOT-safe representation of a value: bare when it
// is already a plain identifier, double-quoted with escaping otherwise.
func quoteValue(val string) string {
	if isBareIdentifier(val) {
		return val
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, ch := range val {
		switch ch {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(ch)
		}
	}
	b.WriteByte('"')
	return b.String()
}
