package network

import (
	"errors"
	"math"
	"testing"
)

func TestAddNodeOrder(t *testing.T) {
	net := New()
	for _, id := range []string{"C", "A", "B"} {
		if _, err := net.AddNode(id, ""); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}

	want := []string{"C", "A", "B"}
	for i, id := range want {
		if net.Order[i] != id {
			t.Errorf("Order[%d] = %q, want %q", i, net.Order[i], id)
		}
	}
	if net.Index("A") != 1 {
		t.Errorf("Index(A) = %d, want 1", net.Index("A"))
	}
	if net.Index("missing") != -1 {
		t.Error("Index of unknown node should be -1")
	}
}

func TestAddNodeDuplicate(t *testing.T) {
	net := New()
	if _, err := net.AddNode("A", ""); err != nil {
		t.Fatal(err)
	}
	_, err := net.AddNode("A", "other label")
	if !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("expected ErrDuplicateNode, got %v", err)
	}
}

func TestAddEdgeUnknownEndpoint(t *testing.T) {
	net := New()
	net.AddNode("A", "")

	if _, err := net.AddEdge("A", "B", 1); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode for target, got %v", err)
	}
	if _, err := net.AddEdge("B", "A", 1); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode for source, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	net := Build().
		Node("p53").
		Node("mdm2", "MDM2 ligase").
		MustDone()

	cases := []struct {
		name string
		idx  int
		ok   bool
	}{
		{"p53", 0, true},
		{"P53", 0, true},
		{"  mdm2 ", 1, true},
		{"MDM2 LIGASE", 1, true},
		{"mdm3", 0, false},
	}
	for _, c := range cases {
		idx, ok := net.Resolve(c.name)
		if ok != c.ok || (ok && idx != c.idx) {
			t.Errorf("Resolve(%q) = (%d, %v), want (%d, %v)", c.name, idx, ok, c.idx, c.ok)
		}
	}
}

func TestResolveIDWinsOverLabel(t *testing.T) {
	// Node B's label collides with node A's id.
	net := Build().
		Node("A", "B").
		Node("B").
		MustDone()

	idx, ok := net.Resolve("B")
	if !ok || idx != 1 {
		t.Errorf("Resolve(B) = (%d, %v), want id match at index 1", idx, ok)
	}
}

func TestValidateEmpty(t *testing.T) {
	if err := New().Validate(); !errors.Is(err, ErrNoNodes) {
		t.Errorf("expected ErrNoNodes, got %v", err)
	}
}

func TestMatrixLastWriteWins(t *testing.T) {
	net := Build().
		Node("A").
		Node("B").
		Edge("A", "B", 1).
		Edge("A", "B", -2).
		MustDone()

	m, err := net.Matrix()
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Weights[1][0]; got != -2 {
		t.Errorf("Weights[B][A] = %v, want last-written -2", got)
	}
}

func TestMatrixNonFiniteWeight(t *testing.T) {
	net := Build().Node("A").Node("B").MustDone()
	net.AddEdge("A", "B", math.NaN())
	net.AddEdge("B", "A", math.Inf(1))

	m, err := net.Matrix()
	if err != nil {
		t.Fatal(err)
	}
	if m.Weights[1][0] != 0 || m.Weights[0][1] != 0 {
		t.Error("non-finite edge weights should derive as zero")
	}
}

func TestMatrixRowSumAbs(t *testing.T) {
	net := Build().
		Node("A").
		Node("B").
		Node("C").
		Edge("A", "C", 2).
		Edge("B", "C", -3).
		MustDone()

	m, err := net.Matrix()
	if err != nil {
		t.Fatal(err)
	}
	if got := m.RowSumAbs(2); got != 5 {
		t.Errorf("RowSumAbs(C) = %v, want 5", got)
	}
	if got := m.RowSumAbs(0); got != 0 {
		t.Errorf("RowSumAbs(A) = %v, want 0 for no inputs", got)
	}
}

func TestCheckMatrix(t *testing.T) {
	net := Build().Node("A").Node("B").MustDone()

	if err := net.CheckMatrix([][]float64{{0, 1}, {1, 0}}); err != nil {
		t.Errorf("square matrix should pass: %v", err)
	}
	if err := net.CheckMatrix([][]float64{{0, 1}}); !errors.Is(err, ErrBadMatrix) {
		t.Errorf("expected ErrBadMatrix for row count, got %v", err)
	}
	if err := net.CheckMatrix([][]float64{{0}, {1, 0}}); !errors.Is(err, ErrBadMatrix) {
		t.Errorf("expected ErrBadMatrix for ragged row, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	net := Build().
		Node("A", "alpha").
		Node("B").
		Edge("A", "B", 1).
		Rule("B = A").
		MustDone()

	cp := net.Clone()
	cp.Nodes["A"].Label = "changed"
	cp.Edges[0].Weight = 99
	cp.AddNode("C", "")
	cp.AddRule("C = A")

	if net.Nodes["A"].Label != "alpha" {
		t.Error("clone shares node storage with the original")
	}
	if net.Edges[0].Weight != 1 {
		t.Error("clone shares edge storage with the original")
	}
	if net.Size() != 2 || len(net.Rules) != 1 {
		t.Error("mutating the clone changed the original's shape")
	}
}

func TestBuilderCollectsFirstError(t *testing.T) {
	_, err := Build().
		Node("A").
		Edge("A", "missing", 1).
		Node("B").
		Done()
	if !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode from Done, got %v", err)
	}
}

func TestBuilderRing(t *testing.T) {
	net := Build().
		Node("A").
		Node("B").
		Node("C").
		Ring(1, "A", "B", "C").
		MustDone()

	if len(net.Edges) != 3 {
		t.Fatalf("ring of 3 should add 3 edges, got %d", len(net.Edges))
	}
	m, _ := net.Matrix()
	// A->B, B->C, C->A
	if m.Weights[1][0] != 1 || m.Weights[2][1] != 1 || m.Weights[0][2] != 1 {
		t.Error("ring edges not wired in cyclic order")
	}
}

func TestLabels(t *testing.T) {
	net := Build().
		Node("A", "alpha").
		Node("B", "B"). // label equal to id is not an alias
		Node("C").
		MustDone()

	labels := net.Labels()
	if len(labels) != 1 || labels["A"] != "alpha" {
		t.Errorf("Labels() = %v, want only A->alpha", labels)
	}
}
