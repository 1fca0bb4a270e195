// ABOUTME: Error types for rule parsing and network compilation.
// ABOUTME: ParseError carries the offending rule text; UnknownReferenceError names the missing node.
package boolnet

import (
	"errors"
	"fmt"
)

// Sentinel errors for network compilation.
var (
	// ErrNoNodes indicates a compile call with no nodes and no rules to
	// derive them from.
	ErrNoNodes = errors.New("network has no nodes")

	// ErrTooManyNodes indicates a network whose states do not fit in a
	// single State integer.
	ErrTooManyNodes = errors.New("network exceeds the maximum node count")

	// ErrDuplicateNode indicates two node declarations sharing one id.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// ParseError describes a malformed rule: a bad separator, an unbalanced
// parenthesis, a dangling operator, or any other syntax fault.
type ParseError struct {
	Rule   string // the full rule text as given
	Reason string
	Col    int // 1-based column of the fault, 0 when unknown
}

func (e *ParseError) Error() string {
	if e.Col > 0 {
		return fmt.Sprintf("parse rule %q: %s at column %d", e.Rule, e.Reason, e.Col)
	}
	return fmt.Sprintf("parse rule %q: %s", e.Rule, e.Reason)
}

// UnknownReferenceError describes a rule that names a node outside the
// declared node set, on either side of the = separator.
type UnknownReferenceError struct {
	Rule   string
	NodeID string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("rule %q references unknown node %q", e.Rule, e.NodeID)
}
