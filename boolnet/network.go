// ABOUTME: Network compilation from node declarations and rule strings.
// ABOUTME: Assigns stable node indices and applies the synchronous transition function.
package boolnet

import (
	"fmt"
)

// MaxNodes bounds network size so that every state of the network fits in
// a single State integer.
const MaxNodes = 62

// NodeSpec declares one node ahead of compilation. Label is optional
// display text; an empty Label falls back to the ID.
type NodeSpec struct {
	ID    string
	Label string
}

// Node is a compiled node with its fixed index into state bit vectors.
type Node struct {
	ID    string
	Label string
	Index int
}

// Network is a compiled synchronous Boolean network. It is immutable
// after Compile and safe for concurrent use.
type Network struct {
	nodes []Node
	exprs []Expr
	index map[string]int
}

// Compile builds a network from node declarations and rule strings.
//
// When nodes is empty, the node set is derived from rule left-hand sides
// in first-seen order. When nodes is given, it fixes both the membership
// and the index order of the node set, and rules may only reference those
// ids. A node with no rule keeps its current value on every update.
func Compile(nodes []NodeSpec, rules []string) (*Network, error) {
	specs := nodes
	if len(specs) == 0 {
		derived, err := deriveNodes(rules)
		if err != nil {
			return nil, err
		}
		specs = derived
	}

	if len(specs) == 0 {
		return nil, ErrNoNodes
	}
	if len(specs) > MaxNodes {
		return nil, fmt.Errorf("%w: %d nodes, limit is %d", ErrTooManyNodes, len(specs), MaxNodes)
	}

	n := &Network{
		nodes: make([]Node, len(specs)),
		exprs: make([]Expr, len(specs)),
		index: make(map[string]int, len(specs)),
	}

	for i, spec := range specs {
		if spec.ID == "" {
			return nil, fmt.Errorf("node %d has an empty id", i)
		}
		if _, exists := n.index[spec.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, spec.ID)
		}

		label := spec.Label
		if label == "" {
			label = spec.ID
		}
		n.nodes[i] = Node{ID: spec.ID, Label: label, Index: i}
		n.index[spec.ID] = i
	}

	ruled := make([]bool, len(specs))
	for _, rule := range rules {
		target, expr, err := ParseRule(rule, n.index)
		if err != nil {
			return nil, err
		}

		idx := n.index[target]
		if ruled[idx] {
			return nil, &ParseError{Rule: rule, Reason: fmt.Sprintf("duplicate rule for node %q", target)}
		}
		ruled[idx] = true
		n.exprs[idx] = expr
	}

	// Unruled nodes hold their value: the identity rule "X = X".
	for i := range n.exprs {
		if n.exprs[i] == nil {
			n.exprs[i] = Variable{Index: i, ID: n.nodes[i].ID}
		}
	}

	return n, nil
}

// deriveNodes extracts node declarations from rule left-hand sides,
// preserving first-seen order.
func deriveNodes(rules []string) ([]NodeSpec, error) {
	seen := make(map[string]bool)
	var specs []NodeSpec

	for _, rule := range rules {
		tokens, err := lexRule(rule)
		if err != nil {
			return nil, &ParseError{Rule: rule, Reason: err.Error()}
		}

		target, err := ruleTarget(rule, tokens)
		if err != nil {
			return nil, err
		}

		if !seen[target] {
			seen[target] = true
			specs = append(specs, NodeSpec{ID: target})
		}
	}

	return specs, nil
}

// Size returns the number of nodes in the network.
func (n *Network) Size() int { return len(n.nodes) }

// TotalStates returns the size of the network's state space, 2^Size.
func (n *Network) TotalStates() uint64 { return 1 << uint(len(n.nodes)) }

// Nodes returns the compiled nodes in index order.
func (n *Network) Nodes() []Node {
	out := make([]Node, len(n.nodes))
	copy(out, n.nodes)
	return out
}

// NodeByID looks up a node by id.
func (n *Network) NodeByID(id string) (Node, bool) {
	idx, ok := n.index[id]
	if !ok {
		return Node{}, false
	}
	return n.nodes[idx], true
}

// Rule returns the compiled expression for the node at index i.
func (n *Network) Rule(i int) Expr { return n.exprs[i] }

// RuleStrings renders every node's rule back to rule syntax, in index
// order.
func (n *Network) RuleStrings() []string {
	out := make([]string, len(n.nodes))
	for i, node := range n.nodes {
		out[i] = fmt.Sprintf("%s = %s", node.ID, n.exprs[i])
	}
	return out
}

// Dependencies returns the sorted indices of the nodes read by the rule
// of the node at index i.
func (n *Network) Dependencies(i int) []int {
	return variablesOf(n.exprs[i])
}

// Transition applies one synchronous update: every rule is evaluated
// against s, then all node values are replaced at once. The result is
// pure and deterministic; bits above the network size are ignored.
func (n *Network) Transition(s State) State {
	var next State
	for i, expr := range n.exprs {
		if expr.Eval(s) {
			next = next.SetBit(i, true)
		}
	}
	return next
}
