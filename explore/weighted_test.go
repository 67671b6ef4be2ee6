package explore

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/boolnet-xyz/go-boolnet/network"
)

func isolatedNode(t *testing.T) *network.Network {
	t.Helper()
	return network.Build().Node("A").MustDone()
}

func TestWeightedTieBehaviors(t *testing.T) {
	// An isolated unbiased node sits exactly at its threshold, so the tie
	// policy alone decides its fate.
	cases := []struct {
		tie        TieBehavior
		attractors int
		fixed      []uint64
	}{
		{TieZero, 1, []uint64{0}},
		{TieOne, 1, []uint64{1}},
		{TieHold, 2, []uint64{0, 1}},
	}
	for _, c := range cases {
		t.Run(c.tie.String(), func(t *testing.T) {
			res, err := NewWeightedAnalyzer(isolatedNode(t)).WithTieBehavior(c.tie).Run()
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Attractors) != c.attractors {
				t.Fatalf("got %d attractors, want %d", len(res.Attractors), c.attractors)
			}
			for _, key := range c.fixed {
				a := res.Attractor(key)
				if a == nil || a.Type != FixedPoint {
					t.Errorf("state %d should be a fixed point under %s", key, c.tie)
				}
			}
		})
	}
}

func TestWeightedBiasShiftsFixedPoint(t *testing.T) {
	build := func() *network.Network {
		return network.Build().
			Node("A").
			Node("B").
			Edge("A", "B", 1).
			MustDone()
	}

	// Unbiased: A decays to 0 (tie at threshold 0), B follows.
	res, err := NewWeightedAnalyzer(build()).WithThresholdMultiplier(0.5).Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Attractors) != 1 || res.Attractors[0].StateKeys[0] != 0 {
		t.Fatalf("unbiased network should collapse to the zero state, got %+v", res.Attractors)
	}

	// Bias on B above its threshold keeps B on regardless of A.
	res, err = NewWeightedAnalyzer(build()).
		WithThresholdMultiplier(0.5).
		WithBiases(map[string]float64{"B": 1}).
		Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Attractors) != 1 {
		t.Fatalf("expected a single attractor, got %d", len(res.Attractors))
	}
	if got := res.Attractors[0].StateKeys[0]; got != 0b10 {
		t.Errorf("biased fixed point = %b, want A=0 B=1", got)
	}
}

func TestWeightedRingLimitCycles(t *testing.T) {
	net := network.Build().
		Node("A").
		Node("B").
		Node("C").
		Ring(1, "A", "B", "C").
		MustDone()

	res, err := NewWeightedAnalyzer(net).WithThresholdMultiplier(0.5).Run()
	if err != nil {
		t.Fatal(err)
	}

	// Bit rotation: two fixed points (000, 111) and two period-3 cycles.
	fixed := res.FixedPoints()
	if len(fixed) != 2 {
		t.Fatalf("expected 2 fixed points, got %d", len(fixed))
	}
	var cycles []*Attractor
	for _, a := range res.Attractors {
		if a.Type == LimitCycle {
			cycles = append(cycles, a)
		}
	}
	if len(cycles) != 2 {
		t.Fatalf("expected 2 limit cycles, got %d", len(cycles))
	}
	for _, c := range cycles {
		if c.Period != 3 {
			t.Errorf("cycle period = %d, want 3", c.Period)
		}
		seen := make(map[uint64]bool)
		for _, key := range c.StateKeys {
			if seen[key] {
				t.Error("cycle states must be pairwise distinct")
			}
			seen[key] = true
		}
	}

	total := 0.0
	for _, a := range res.Attractors {
		total += a.BasinShare
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("basin shares sum to %v, want 1", total)
	}
}

func TestWeightedInhibition(t *testing.T) {
	// B represses A: with A biased on and B off, A stays on; turning B on
	// drives A below threshold.
	net := network.Build().
		Node("A").
		Node("B").
		Edge("B", "A", -2).
		MustDone()

	res, err := NewWeightedAnalyzer(net).
		WithBiases(map[string]float64{"A": 1}).
		WithThresholdMultiplier(0). // threshold 0 for both
		WithTieBehavior(TieHold).
		Run()
	if err != nil {
		t.Fatal(err)
	}
	// B holds (tie); A = 1 if bias - 2*B > 0.
	if a := res.Attractor(0b01); a == nil || a.Type != FixedPoint {
		t.Error("A=1,B=0 should be fixed")
	}
	if a := res.Attractor(0b10); a == nil || a.Type != FixedPoint {
		t.Error("A=0,B=1 should be fixed")
	}
	if len(res.FixedPoints()) != 2 {
		t.Errorf("expected exactly 2 fixed points, got %d", len(res.FixedPoints()))
	}
}

func TestWeightedNonFiniteInputsDegrade(t *testing.T) {
	net := network.Build().Node("A").MustDone()

	res, err := NewWeightedAnalyzer(net).
		WithBiases(map[string]float64{"A": math.NaN()}).
		WithThresholdMultiplier(math.Inf(1)).
		Run()
	if err != nil {
		t.Fatalf("non-finite numeric inputs must degrade, not fail: %v", err)
	}
	if len(res.Warnings) < 2 {
		t.Errorf("expected warnings for bias and multiplier, got %v", res.Warnings)
	}
}

func TestWeightedUnknownBias(t *testing.T) {
	net := network.Build().Node("A").MustDone()
	_, err := NewWeightedAnalyzer(net).WithBiases(map[string]float64{"nope": 1}).Run()
	if !errors.Is(err, network.ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
}

func TestWeightedSamplingDeterminism(t *testing.T) {
	// 25 nodes exceeds the exhaustive ceiling, forcing stratified sampling.
	b := network.Build()
	ids := make([]string, 25)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%02d", i)
		b.Node(ids[i])
	}
	b.Ring(1, ids...)
	net := b.MustDone()

	run := func(seed int64) *Result {
		res, err := NewWeightedAnalyzer(net.Clone()).
			WithStateCap(2000).
			WithThresholdMultiplier(0.5).
			WithSeed(seed).
			Run()
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	first := run(7)
	second := run(7)

	if first.Mode != ModeStratifiedSample || !first.Truncated {
		t.Fatalf("expected sampled truncated run, got mode %s truncated %v", first.Mode, first.Truncated)
	}
	if first.Seed != 7 {
		t.Errorf("Seed = %d, want 7", first.Seed)
	}
	if len(first.Attractors) != len(second.Attractors) {
		t.Fatalf("same seed produced %d vs %d attractors", len(first.Attractors), len(second.Attractors))
	}
	for i := range first.Attractors {
		a, b := first.Attractors[i], second.Attractors[i]
		if a.BasinSize != b.BasinSize || a.Period != b.Period {
			t.Errorf("attractor %d differs across identical runs", i)
		}
		for j := range a.StateKeys {
			if a.StateKeys[j] != b.StateKeys[j] {
				t.Errorf("attractor %d state keys differ across identical runs", i)
			}
		}
	}
	if first.ExploredStateCount != second.ExploredStateCount {
		t.Error("explored count differs across identical runs")
	}
}

func TestWeightedTooManyNodes(t *testing.T) {
	b := network.Build()
	for i := 0; i < 53; i++ {
		b.Node(fmt.Sprintf("n%02d", i))
	}
	net := b.MustDone()

	_, err := NewWeightedAnalyzer(net).Run()
	if !errors.Is(err, ErrTooManyNodes) {
		t.Errorf("expected ErrTooManyNodes beyond the codec width, got %v", err)
	}
}
