// Package network implements the core data model for Boolean/weighted
// gene-regulatory networks: nodes, directed weighted edges, and symbolic
// update rules. Node declaration order is load-bearing — bit i of every
// encoded state corresponds to Order[i] for the whole analysis run.
package network

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrNoNodes       = errors.New("network: no nodes defined")
	ErrDuplicateNode = errors.New("network: duplicate node id")
	ErrUnknownNode   = errors.New("network: unknown node")
	ErrBadMatrix     = errors.New("network: weight matrix dimensions do not match node count")
)

// Node is a single gene/species in the network. Identity is ID; Label is a
// display alias that also participates in rule-identifier resolution.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// Edge is a directed weighted influence from Source onto Target.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Network is a complete model: ordered nodes, edges, and rule strings.
type Network struct {
	Order []string         // node ids in declaration order; fixes bit positions
	Nodes map[string]*Node // id -> node
	Edges []*Edge
	Rules []string // "TARGET = EXPRESSION" strings
}

// New creates an empty network.
func New() *Network {
	return &Network{
		Nodes: make(map[string]*Node),
	}
}

// AddNode appends a node in declaration order. The optional label is a
// display alias; pass "" to use the id alone.
func (n *Network) AddNode(id, label string) (*Node, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrUnknownNode)
	}
	if _, exists := n.Nodes[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, id)
	}
	node := &Node{ID: id, Label: label}
	n.Nodes[id] = node
	n.Order = append(n.Order, id)
	return node, nil
}

// AddEdge appends a directed edge. Both endpoints must already exist.
// Duplicate ordered pairs are kept as-is; matrix derivation is
// last-write-wins.
func (n *Network) AddEdge(source, target string, weight float64) (*Edge, error) {
	if _, ok := n.Nodes[source]; !ok {
		return nil, fmt.Errorf("%w: edge source %q", ErrUnknownNode, source)
	}
	if _, ok := n.Nodes[target]; !ok {
		return nil, fmt.Errorf("%w: edge target %q", ErrUnknownNode, target)
	}
	e := &Edge{Source: source, Target: target, Weight: weight}
	n.Edges = append(n.Edges, e)
	return e, nil
}

// AddRule appends a "TARGET = EXPRESSION" rule string. Validation happens
// at compile time inside the exploration engine so that one bad rule
// degrades to an identity update instead of rejecting the network.
func (n *Network) AddRule(rule string) {
	n.Rules = append(n.Rules, rule)
}

// Size returns the node count.
func (n *Network) Size() int {
	return len(n.Order)
}

// Index returns the bit position of a node id, or -1.
func (n *Network) Index(id string) int {
	for i, nid := range n.Order {
		if nid == id {
			return i
		}
	}
	return -1
}

// Resolve matches a name case-insensitively against node ids and labels
// and returns the node's bit index. Ids win over labels when both match.
func (n *Network) Resolve(name string) (int, bool) {
	folded := strings.ToLower(strings.TrimSpace(name))
	for i, id := range n.Order {
		if strings.ToLower(id) == folded {
			return i, true
		}
	}
	for i, id := range n.Order {
		if label := n.Nodes[id].Label; label != "" && strings.ToLower(label) == folded {
			return i, true
		}
	}
	return 0, false
}

// Labels returns id -> label for nodes whose label differs from the id.
func (n *Network) Labels() map[string]string {
	labels := make(map[string]string)
	for id, node := range n.Nodes {
		if node.Label != "" && node.Label != id {
			labels[id] = node.Label
		}
	}
	return labels
}

// Validate checks the minimum requirements for any analysis run.
func (n *Network) Validate() error {
	if len(n.Order) == 0 {
		return ErrNoNodes
	}
	return nil
}

// Clone returns a deep copy. Perturbation screens mutate the copy so the
// caller-owned network is never touched.
func (n *Network) Clone() *Network {
	out := New()
	out.Order = append([]string(nil), n.Order...)
	for id, node := range n.Nodes {
		cp := *node
		out.Nodes[id] = &cp
	}
	for _, e := range n.Edges {
		cp := *e
		out.Edges = append(out.Edges, &cp)
	}
	out.Rules = append([]string(nil), n.Rules...)
	return out
}

// Matrix is the derived N×N weight matrix: Weights[target][source], plus
// per-node biases filled in by the caller. Row/column order follows the
// network's declaration order.
type Matrix struct {
	N       int
	Weights [][]float64
}

// Matrix derives the weight matrix from the edge list, last-write-wins for
// duplicate ordered pairs. Zero-weight edges stay in the edge list but
// contribute nothing here.
func (n *Network) Matrix() (*Matrix, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	size := len(n.Order)
	index := make(map[string]int, size)
	for i, id := range n.Order {
		index[id] = i
	}
	m := &Matrix{N: size, Weights: make([][]float64, size)}
	for i := range m.Weights {
		m.Weights[i] = make([]float64, size)
	}
	for _, e := range n.Edges {
		s, ok := index[e.Source]
		if !ok {
			return nil, fmt.Errorf("%w: edge source %q", ErrUnknownNode, e.Source)
		}
		t, ok := index[e.Target]
		if !ok {
			return nil, fmt.Errorf("%w: edge target %q", ErrUnknownNode, e.Target)
		}
		w := e.Weight
		if math.IsNaN(w) || math.IsInf(w, 0) {
			w = 0
		}
		m.Weights[t][s] = w
	}
	return m, nil
}

// CheckMatrix validates a caller-supplied matrix against the node count.
func (n *Network) CheckMatrix(weights [][]float64) error {
	size := len(n.Order)
	if len(weights) != size {
		return fmt.Errorf("%w: got %d rows, want %d", ErrBadMatrix, len(weights), size)
	}
	for i, row := range weights {
		if len(row) != size {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrBadMatrix, i, len(row), size)
		}
	}
	return nil
}

// RowSumAbs returns the sum of |weight| over the sources feeding target t.
func (m *Matrix) RowSumAbs(t int) float64 {
	sum := 0.0
	for _, w := range m.Weights[t] {
		sum += math.Abs(w)
	}
	return sum
}
