// ABOUTME: YAML network document format: named nodes plus one update rule per node.
// ABOUTME: Normalizes C-style operators to the word grammar before compilation.
package netdef

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/statemap-research/basin/boolnet"
)

// NodeDef declares one node in a network document.
type NodeDef struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`
}

// Document is the on-disk and over-the-wire description of a Boolean
// network. Nodes may be omitted, in which case rule left-hand sides
// define the node set and its order.
type Document struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Nodes       []NodeDef `yaml:"nodes,omitempty"`
	Rules       []string  `yaml:"rules"`
}

// Parse decodes a YAML network document. The document must carry a name
// and at least one node or rule. Rule syntax is not checked here; Compile
// reports rule errors with the offending text attached.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse network document: %w", err)
	}

	if strings.TrimSpace(doc.Name) == "" {
		return nil, fmt.Errorf("network document has no name")
	}
	if len(doc.Rules) == 0 && len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("network document declares no nodes and no rules")
	}

	return &doc, nil
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// Normalize rewrites the C-style operators && and || to the word
// operators AND and OR and collapses runs of whitespace. Rules already
// in word form pass through unchanged apart from spacing.
func Normalize(rule string) string {
	r := strings.ReplaceAll(rule, "&&", " AND ")
	r = strings.ReplaceAll(r, "||", " OR ")
	return strings.Join(strings.Fields(r), " ")
}

// Compile normalizes every rule and builds the network. Node order
// follows the document's node list, or rule left-hand sides when the
// list is empty.
func (d *Document) Compile() (*boolnet.Network, error) {
	var specs []boolnet.NodeSpec
	for _, n := range d.Nodes {
		specs = append(specs, boolnet.NodeSpec{ID: n.ID, Label: n.Label})
	}

	rules := make([]string, len(d.Rules))
	for i, r := range d.Rules {
		rules[i] = Normalize(r)
	}

	return boolnet.Compile(specs, rules)
}

// FromNetwork rebuilds a document from a compiled network, with rules
// rendered in normalized word-operator form.
func FromNetwork(name, description string, net *boolnet.Network) *Document {
	doc := &Document{
		Name:        name,
		Description: description,
		Rules:       net.RuleStrings(),
	}

	for _, node := range net.Nodes() {
		def := NodeDef{ID: node.ID}
		if node.Label != node.ID {
			def.Label = node.Label
		}
		doc.Nodes = append(doc.Nodes, def)
	}

	return doc
}
