// ABOUTME: Tests for DOT exports of wiring diagrams and state graphs.
// ABOUTME: Covers edge direction, inhibition arrowheads, coloring, determinism, and the size limit.
package export

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/statemap-research/basin/boolnet"
)

func mustCompile(t *testing.T, rules []string) *boolnet.Network {
	t.Helper()
	net, err := boolnet.Compile(nil, rules)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	return net
}

func TestWiringDOTEdges(t *testing.T) {
	net := mustCompile(t, []string{"A = A", "B = A AND !C", "C = B OR A"})
	dot := WiringDOT(net)

	wantLines := []string{
		"digraph wiring {",
		"A -> A;",
		"A -> B;",
		"C -> B [arrowhead=tee];",
		"A -> C;",
		"B -> C;",
	}
	for _, line := range wantLines {
		if !strings.Contains(dot, line) {
			t.Errorf("wiring DOT missing %q:\n%s", line, dot)
		}
	}
}

func TestWiringDOTInhibition(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		wantTee  []string
		wantOpen []string
	}{
		{
			name:     "pure negation",
			rule:     "A = !B",
			wantTee:  []string{"B -> A"},
			wantOpen: nil,
		},
		{
			name:     "nand negates both inputs",
			rule:     "A = B NAND C",
			wantTee:  []string{"B -> A", "C -> A"},
			wantOpen: nil,
		},
		{
			name:     "double negation cancels",
			rule:     "A = !(B NOR C)",
			wantTee:  nil,
			wantOpen: []string{"B -> A", "C -> A"},
		},
		{
			name:     "mixed polarity stays open",
			rule:     "A = B OR !B",
			wantTee:  nil,
			wantOpen: []string{"B -> A"},
		},
		{
			name:     "xor input stays open",
			rule:     "A = B XOR C",
			wantTee:  nil,
			wantOpen: []string{"B -> A", "C -> A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := []string{tt.rule, "B = B", "C = C"}
			dot := WiringDOT(mustCompile(t, rules))

			for _, edge := range tt.wantTee {
				if !strings.Contains(dot, edge+" [arrowhead=tee];") {
					t.Errorf("edge %q should carry arrowhead=tee:\n%s", edge, dot)
				}
			}
			for _, edge := range tt.wantOpen {
				if !strings.Contains(dot, edge+";") || strings.Contains(dot, edge+" [arrowhead=tee];") {
					t.Errorf("edge %q should be a plain arrow:\n%s", edge, dot)
				}
			}
		})
	}
}

func TestWiringDOTDeterministic(t *testing.T) {
	rules := []string{"A = B OR C", "B = !A", "C = A XOR B"}
	first := WiringDOT(mustCompile(t, rules))
	second := WiringDOT(mustCompile(t, rules))
	if first != second {
		t.Error("identical networks produced different wiring DOT")
	}
}

func TestWiringDOTQuotesLabels(t *testing.T) {
	net, err := boolnet.Compile(
		[]boolnet.NodeSpec{{ID: "A", Label: "Alpha factor"}},
		[]string{"A = A"},
	)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	dot := WiringDOT(net)
	if !strings.Contains(dot, `label="Alpha factor"`) {
		t.Errorf("label with spaces should be quoted:\n%s", dot)
	}
}

func TestStateGraphDOT(t *testing.T) {
	net := mustCompile(t, []string{"A = !A"})

	result, err := boolnet.Analyze(context.Background(), net, boolnet.Options{})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	dot, err := StateGraphDOT(net, result)
	if err != nil {
		t.Fatalf("StateGraphDOT error: %v", err)
	}

	wantLines := []string{
		"digraph states {",
		`s0 [label="0", style=filled`,
		`s1 [label="1", style=filled`,
		"s0 -> s1;",
		"s1 -> s0;",
	}
	for _, line := range wantLines {
		if !strings.Contains(dot, line) {
			t.Errorf("state graph missing %q:\n%s", line, dot)
		}
	}
}

func TestStateGraphDOTTransientsUnfilled(t *testing.T) {
	// 2 -> 4 -> 0 -> 0: states 2 and 4 are transients into the fixed
	// point at 0.
	net := mustCompile(t, []string{"A = A", "B = A AND !C", "C = B OR A"})

	result, err := boolnet.Analyze(context.Background(), net, boolnet.Options{})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	dot, err := StateGraphDOT(net, result)
	if err != nil {
		t.Fatalf("StateGraphDOT error: %v", err)
	}

	if !strings.Contains(dot, `s0 [label="000", style=filled`) {
		t.Errorf("member state 0 should be filled:\n%s", dot)
	}
	if !strings.Contains(dot, `s2 [label="010"];`) {
		t.Errorf("transient state 2 should be unfilled:\n%s", dot)
	}
}

func TestStateGraphDOTWithoutResult(t *testing.T) {
	net := mustCompile(t, []string{"A = !A"})

	dot, err := StateGraphDOT(net, nil)
	if err != nil {
		t.Fatalf("StateGraphDOT error: %v", err)
	}
	if strings.Contains(dot, "style=filled") {
		t.Errorf("no result given, nothing should be filled:\n%s", dot)
	}
}

func TestStateGraphDOTSizeLimit(t *testing.T) {
	rules := make([]string, StateGraphMaxNodes+1)
	for i := range rules {
		id := nodeID(i)
		rules[i] = id + " = " + id
	}
	net := mustCompile(t, rules)

	_, err := StateGraphDOT(net, nil)
	if !errors.Is(err, ErrStateGraphTooLarge) {
		t.Errorf("error = %v, want ErrStateGraphTooLarge", err)
	}
}

func nodeID(i int) string {
	return "n" + string(rune('a'+i))
}

func TestQuoteValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", `"with space"`},
		{"", `""`},
		{"0101", `"0101"`},
		{`say "hi"`, `"say \"hi\""`},
		{"#90EE90", `"#90EE90"`},
	}

	for _, tt := range tests {
		if got := quoteValue(tt.input); got != tt.want {
			t.Errorf("quoteValue(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
