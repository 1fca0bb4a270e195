// ABOUTME: State integer type and the bijection between states and bit vectors.
// ABOUTME: Node index i maps to bit i, so state identity is stable across encode/decode round trips.
package boolnet

import (
	"fmt"
	"strings"
)

// State is a complete Boolean assignment over a network's nodes, packed
// one bit per node: bit i holds the value of the node with index i.
// For a network of N nodes the valid states are [0, 2^N).
type State uint64

// Bit reports the value of the node at index i.
func (s State) Bit(i int) bool {
	return s>>uint(i)&1 == 1
}

// SetBit returns a copy of s with the node at index i set to v.
func (s State) SetBit(i int, v bool) State {
	if v {
		return s | 1<<uint(i)
	}
	return s &^ (1 << uint(i))
}

// Toggle returns a copy of s with the node at index i flipped.
func (s State) Toggle(i int) State {
	return s ^ 1<<uint(i)
}

// BitString renders s as width binary digits, highest node index first,
// e.g. state 5 over 4 nodes is "0101".
func BitString(s State, width int) string {
	var sb strings.Builder
	for i := width - 1; i >= 0; i-- {
		if s.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Encode packs a bit vector into a State. The slice must hold exactly one
// value per network node, in node index order.
func (n *Network) Encode(bits []bool) (State, error) {
	if len(bits) != n.Size() {
		return 0, fmt.Errorf("encode state: got %d bits for a %d-node network", len(bits), n.Size())
	}

	var s State
	for i, v := range bits {
		if v {
			s = s.SetBit(i, true)
		}
	}
	return s, nil
}

// Decode unpacks a State into a bit vector with one value per node, in
// node index order. Bits above the network size are ignored.
func (n *Network) Decode(s State) []bool {
	bits := make([]bool, n.Size())
	for i := range bits {
		bits[i] = s.Bit(i)
	}
	return bits
}

// FormatState renders a state as id=bit pairs in node index order,
// e.g. "A=1 B=0 C=1".
func (n *Network) FormatState(s State) string {
	parts := make([]string, n.Size())
	for i, node := range n.nodes {
		bit := "0"
		if s.Bit(i) {
			bit = "1"
		}
		parts[i] = node.ID + "=" + bit
	}
	return strings.Join(parts, " ")
}
