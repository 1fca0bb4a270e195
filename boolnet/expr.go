// ABOUTME: Immutable expression tree produced by the rule parser.
// ABOUTME: Expressions evaluate against a State and render back to rule syntax.
package boolnet

import (
	"fmt"
	"sort"
)

// Expr is a node in a compiled Boolean expression tree. Trees are built
// once by the parser and never mutated; evaluation is side-effect free.
type Expr interface {
	// Eval computes the expression's value, reading node bits from s.
	Eval(s State) bool

	// String renders the expression in rule syntax. Nested binary
	// operations are parenthesized so the output reparses to the same
	// tree.
	String() string
}

// Literal is a constant true or false.
type Literal struct {
	Value bool
}

func (l Literal) Eval(State) bool { return l.Value }

func (l Literal) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

// Variable reads the current value of one node.
type Variable struct {
	Index int
	ID    string
}

func (v Variable) Eval(s State) bool { return s.Bit(v.Index) }

func (v Variable) String() string { return v.ID }

// Not negates its operand.
type Not struct {
	Operand Expr
}

func (n Not) Eval(s State) bool { return !n.Operand.Eval(s) }

func (n Not) String() string {
	if _, ok := n.Operand.(Binary); ok {
		return fmt.Sprintf("!(%s)", n.Operand)
	}
	return fmt.Sprintf("!%s", n.Operand)
}

// BinaryKind selects the operator of a Binary expression.
type BinaryKind int

const (
	OpAnd BinaryKind = iota
	OpOr
	OpXor
	OpNand
	OpNor
)

// String returns the rule-syntax spelling of the operator.
func (k BinaryKind) String() string {
	switch k {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpXor:
		return "XOR"
	case OpNand:
		return "NAND"
	case OpNor:
		return "NOR"
	default:
		return fmt.Sprintf("OP(%d)", int(k))
	}
}

// Binary applies a two-operand Boolean operator.
type Binary struct {
	Kind        BinaryKind
	Left, Right Expr
}

func (b Binary) Eval(s State) bool {
	l := b.Left.Eval(s)
	r := b.Right.Eval(s)
	switch b.Kind {
	case OpAnd:
		return l && r
	case OpOr:
		return l || r
	case OpXor:
		return l != r
	case OpNand:
		return !(l && r)
	case OpNor:
		return !(l || r)
	default:
		return false
	}
}

func (b Binary) String() string {
	return fmt.Sprintf("%s %s %s", operandString(b.Left), b.Kind, operandString(b.Right))
}

// operandString parenthesizes binary operands so precedence survives a
// round trip through String and the parser.
func operandString(e Expr) string {
	if _, ok := e.(Binary); ok {
		return fmt.Sprintf("(%s)", e)
	}
	return e.String()
}

// exprVars walks e and records every referenced node index in set.
func exprVars(e Expr, set map[int]bool) {
	switch x := e.(type) {
	case Variable:
		set[x.Index] = true
	case Not:
		exprVars(x.Operand, set)
	case Binary:
		exprVars(x.Left, set)
		exprVars(x.Right, set)
	}
}

// variablesOf returns the sorted node indices referenced by e.
func variablesOf(e Expr) []int {
	set := make(map[int]bool)
	exprVars(e, set)

	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
