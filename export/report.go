// ABOUTME: Plain-text analysis report for terminal output and persisted summaries.
// ABOUTME: Built entirely from the analysis result, so no recompiled network is needed.
package export

import (
	"fmt"
	"strings"

	"github.com/statemap-research/basin/boolnet"
)

// ReportText renders an analysis result as a readable plain-text report:
// node roster, exploration totals, one block per attractor, and any
// warnings at the end.
func ReportText(result *boolnet.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Nodes (%d): %s\n", len(result.NodeOrder), strings.Join(result.NodeOrder, ", "))
	fmt.Fprintf(&b, "States: %d total, %d explored\n", result.TotalStates, result.ExploredStates)
	b.WriteString("\n")

	if len(result.Attractors) == 0 {
		b.WriteString("Attractors: none found\n")
	} else {
		fmt.Fprintf(&b, "Attractors (%d):\n", len(result.Attractors))
		for _, a := range result.Attractors {
			fmt.Fprintf(&b, "  #%d  %s  period %d  basin %d (%.2f%%)\n",
				a.ID, a.Type, a.Period, a.BasinSize, a.BasinShare*100)
			for _, s := range a.States {
				fmt.Fprintf(&b, "      %d  %s\n", uint64(s), formatByOrder(s, result.NodeOrder))
			}
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	return b.String()
}

// formatByOrder renders a state as id=bit pairs using the result's node
// order, which fixes bit i to the node at position i.
func formatByOrder(s boolnet.State, order []string) string {
	parts := make([]string, len(order))
	for i, id := range order {
		bit := "0"
		if s.Bit(i) {
			bit = "1"
		}
		parts[i] = id + "=" + bit
	}
	return strings.Join(parts, " ")
}
