// ABOUTME: Tests for the rule parser.
// ABOUTME: Covers precedence, associativity, parentheses, round-tripping, and the full error taxonomy.
package boolnet

import (
	"errors"
	"strings"
	"testing"
)

func testKnown() map[string]int {
	return map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}
}

func TestParseRuleBasics(t *testing.T) {
	tests := []struct {
		name string
		rule string
		want string // expression re-rendered through String()
	}{
		{"variable", "A = B", "B"},
		{"self reference", "A = A", "A"},
		{"literal true", "A = true", "true"},
		{"literal false", "A = false", "false"},
		{"negation", "A = !B", "!B"},
		{"double negation", "A = !!B", "!!B"},
		{"and", "A = B AND C", "B AND C"},
		{"or", "A = B OR C", "B OR C"},
		{"xor", "A = B XOR C", "B XOR C"},
		{"nand", "A = B NAND C", "B NAND C"},
		{"nor", "A = B NOR C", "B NOR C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, expr, err := ParseRule(tt.rule, testKnown())
			if err != nil {
				t.Fatalf("ParseRule(%q) error: %v", tt.rule, err)
			}
			if target != "A" {
				t.Errorf("target = %q, want %q", target, "A")
			}
			if got := expr.String(); got != tt.want {
				t.Errorf("expr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	// Tightest to loosest: ! then AND/NAND then XOR then OR/NOR. The
	// rendered form parenthesizes nested binary nodes, exposing the tree.
	tests := []struct {
		name string
		rule string
		want string
	}{
		{"and binds tighter than or", "A = B OR C AND D", "B OR (C AND D)"},
		{"and binds tighter than xor", "A = B XOR C AND D", "B XOR (C AND D)"},
		{"xor binds tighter than or", "A = B OR C XOR D", "B OR (C XOR D)"},
		{"nand at and level", "A = B OR C NAND D", "B OR (C NAND D)"},
		{"nor at or level", "A = B NOR C AND D", "B NOR (C AND D)"},
		{"not binds tightest", "A = !B AND C", "!B AND C"},
		{"not before or", "A = !B OR !C", "!B OR !C"},
		{"parens override", "A = (B OR C) AND D", "(B OR C) AND D"},
		{"parens under not", "A = !(B OR C)", "!(B OR C)"},
		{"left associative and", "A = B AND C AND D", "(B AND C) AND D"},
		{"left associative or", "A = B OR C OR D", "(B OR C) OR D"},
		{"left associative xor", "A = B XOR C XOR D", "(B XOR C) XOR D"},
		{"mixed same level", "A = B AND C NAND D", "(B AND C) NAND D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, expr, err := ParseRule(tt.rule, testKnown())
			if err != nil {
				t.Fatalf("ParseRule(%q) error: %v", tt.rule, err)
			}
			if got := expr.String(); got != tt.want {
				t.Errorf("ParseRule(%q) = %q, want %q", tt.rule, got, tt.want)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	// Rendering and reparsing must reproduce the same tree.
	rules := []string{
		"A = B OR (C AND D)",
		"A = !(B XOR C) NAND !D",
		"A = ((B))",
		"A = true OR (B AND !false)",
		"A = (B NOR C) XOR (C NAND D)",
	}

	for _, rule := range rules {
		t.Run(rule, func(t *testing.T) {
			_, first, err := ParseRule(rule, testKnown())
			if err != nil {
				t.Fatalf("ParseRule(%q) error: %v", rule, err)
			}

			again := "A = " + first.String()
			_, second, err := ParseRule(again, testKnown())
			if err != nil {
				t.Fatalf("reparse of %q error: %v", again, err)
			}
			if first.String() != second.String() {
				t.Errorf("round trip changed tree: %q vs %q", first.String(), second.String())
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		rule       string
		wantReason string // substring of the ParseError reason
	}{
		{"missing separator", "A AND B", "missing '='"},
		{"double separator", "A = B = C", "more than one '='"},
		{"empty left side", "= B", "empty left-hand side"},
		{"compound left side", "A B = C", "single node id"},
		{"literal left side", "true = B", "single node id"},
		{"empty right side", "A =", "missing expression"},
		{"dangling operator", "A = B AND", "dangling operator"},
		{"leading operator", "A = AND B", "no left operand"},
		{"unclosed paren", "A = (B OR C", "expected ')'"},
		{"stray close paren", "A = B OR C)", "after expression"},
		{"adjacent operands", "A = B C", "after expression"},
		{"lowercase operator is not an operator", "A = B and C", "after expression"},
		{"bad character", "A = B && C", "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseRule(tt.rule, testKnown())
			if err == nil {
				t.Fatalf("ParseRule(%q) should have failed", tt.rule)
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("ParseRule(%q) error type = %T, want *ParseError", tt.rule, err)
			}
			if parseErr.Rule != tt.rule {
				t.Errorf("ParseError.Rule = %q, want %q", parseErr.Rule, tt.rule)
			}
			if !strings.Contains(parseErr.Reason, tt.wantReason) {
				t.Errorf("ParseError.Reason = %q, want it to contain %q", parseErr.Reason, tt.wantReason)
			}
		})
	}
}

func TestParseUnknownReference(t *testing.T) {
	tests := []struct {
		name   string
		rule   string
		wantID string
	}{
		{"unknown right side", "A = B AND Ghost", "Ghost"},
		{"unknown left side", "Ghost = A", "Ghost"},
		{"capitalized literal is an identifier", "A = True", "True"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseRule(tt.rule, testKnown())
			if err == nil {
				t.Fatalf("ParseRule(%q) should have failed", tt.rule)
			}

			var refErr *UnknownReferenceError
			if !errors.As(err, &refErr) {
				t.Fatalf("ParseRule(%q) error type = %T, want *UnknownReferenceError", tt.rule, err)
			}
			if refErr.NodeID != tt.wantID {
				t.Errorf("UnknownReferenceError.NodeID = %q, want %q", refErr.NodeID, tt.wantID)
			}
			if refErr.Rule != tt.rule {
				t.Errorf("UnknownReferenceError.Rule = %q, want %q", refErr.Rule, tt.rule)
			}
		})
	}
}

func TestParseEvalTruthTables(t *testing.T) {
	// Each operator against all four input combinations. Known indices:
	// A=0 B=1 C=2, so bit 1 is B and bit 2 is C.
	tests := []struct {
		op   string
		want [4]bool // B,C = 00 01 10 11 (B is the low input bit here)
	}{
		{"AND", [4]bool{false, false, false, true}},
		{"OR", [4]bool{false, true, true, true}},
		{"XOR", [4]bool{false, true, true, false}},
		{"NAND", [4]bool{true, true, true, false}},
		{"NOR", [4]bool{true, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			_, expr, err := ParseRule("A = B "+tt.op+" C", testKnown())
			if err != nil {
				t.Fatalf("ParseRule error: %v", err)
			}

			for combo := 0; combo < 4; combo++ {
				var s State
				s = s.SetBit(1, combo&1 == 1) // B
				s = s.SetBit(2, combo&2 == 2) // C
				if got := expr.Eval(s); got != tt.want[combo] {
					t.Errorf("%s with B=%v C=%v: got %v, want %v",
						tt.op, combo&1 == 1, combo&2 == 2, got, tt.want[combo])
				}
			}
		})
	}
}

func TestParseStackedNegation(t *testing.T) {
	_, expr, err := ParseRule("A = !!!B", testKnown())
	if err != nil {
		t.Fatalf("ParseRule error: %v", err)
	}

	var s State
	if got := expr.Eval(s.SetBit(1, true)); got != false {
		t.Errorf("!!!B with B=1: got %v, want false", got)
	}
	if got := expr.Eval(s); got != true {
		t.Errorf("!!!B with B=0: got %v, want true", got)
	}
}
