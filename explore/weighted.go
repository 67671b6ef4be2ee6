package explore

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/boolnet-xyz/go-boolnet/network"
	"github.com/boolnet-xyz/go-boolnet/state"
)

// TieBehavior resolves an exact equality between a node's weighted input
// and its threshold.
type TieBehavior int

const (
	TieZero TieBehavior = iota // tie resolves to 0
	TieOne                     // tie resolves to 1
	TieHold                    // tie holds the current bit
)

func (t TieBehavior) String() string {
	switch t {
	case TieZero:
		return "zero-as-zero"
	case TieOne:
		return "zero-as-one"
	case TieHold:
		return "hold"
	default:
		return "unknown"
	}
}

// DefaultSeed makes sampled runs reproducible out of the box; callers vary
// it explicitly when they want independent samples.
const DefaultSeed int64 = 1

// WeightedAnalyzer runs synchronous exploration where each node's next bit
// is a weighted-sum-vs-threshold comparison over its predecessors. State
// spaces too large to enumerate are covered by stratified random sampling
// of initial states instead of a sequential prefix, which would bias the
// basin estimate toward structurally similar states.
type WeightedAnalyzer struct {
	net        *network.Network
	stateCap   uint64
	stepCap    int
	tie        TieBehavior
	biases     map[string]float64
	multiplier float64
	clamps     map[string]int
	seed       int64
	logger     zerolog.Logger
}

// NewWeightedAnalyzer creates an analyzer with default caps, tie-to-zero,
// threshold multiplier 1, and a fixed sampling seed.
func NewWeightedAnalyzer(net *network.Network) *WeightedAnalyzer {
	return &WeightedAnalyzer{
		net:        net,
		stateCap:   DefaultStateCap,
		stepCap:    DefaultStepCap,
		tie:        TieZero,
		multiplier: 1,
		seed:       DefaultSeed,
		logger:     zerolog.Nop(),
	}
}

// WithStateCap bounds how many initial states are explored or sampled.
func (a *WeightedAnalyzer) WithStateCap(cap uint64) *WeightedAnalyzer {
	a.stateCap = cap
	return a
}

// WithStepCap bounds trajectory length before a walk is abandoned.
func (a *WeightedAnalyzer) WithStepCap(cap int) *WeightedAnalyzer {
	a.stepCap = cap
	return a
}

// WithTieBehavior sets the policy for exact input==threshold ties.
func (a *WeightedAnalyzer) WithTieBehavior(tie TieBehavior) *WeightedAnalyzer {
	a.tie = tie
	return a
}

// WithBiases sets per-node additive input biases, keyed by id or label.
func (a *WeightedAnalyzer) WithBiases(biases map[string]float64) *WeightedAnalyzer {
	a.biases = biases
	return a
}

// WithThresholdMultiplier scales every node's activation threshold.
func (a *WeightedAnalyzer) WithThresholdMultiplier(m float64) *WeightedAnalyzer {
	a.multiplier = m
	return a
}

// WithClamps pins nodes to fixed values, overriding the threshold update.
func (a *WeightedAnalyzer) WithClamps(clamps map[string]int) *WeightedAnalyzer {
	a.clamps = clamps
	return a
}

// WithSeed sets the sampling seed. Identical seeds and caps reproduce
// bit-identical results.
func (a *WeightedAnalyzer) WithSeed(seed int64) *WeightedAnalyzer {
	a.seed = seed
	return a
}

// WithLogger attaches a logger for progress and truncation events.
func (a *WeightedAnalyzer) WithLogger(logger zerolog.Logger) *WeightedAnalyzer {
	a.logger = logger
	return a
}

// Run explores the state space and returns attractors with basin shares.
func (a *WeightedAnalyzer) Run() (*Result, error) {
	if err := a.net.Validate(); err != nil {
		return nil, err
	}
	n := a.net.Size()
	if n > state.MaxNodes {
		return nil, fmt.Errorf("%w: %d nodes exceed the %d-bit state ceiling", ErrTooManyNodes, n, state.MaxNodes)
	}

	res := &Result{
		NodeOrder:  append([]string(nil), a.net.Order...),
		NodeLabels: a.net.Labels(),
		Mode:       ModeExhaustive,
	}

	matrix, err := a.net.Matrix()
	if err != nil {
		return nil, err
	}
	biases, err := a.resolveBiases(res)
	if err != nil {
		return nil, err
	}
	clampVec, err := resolveClamps(a.net, a.clamps)
	if err != nil {
		return nil, err
	}

	multiplier := a.multiplier
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		res.warnf("non-finite threshold multiplier replaced with 1")
		multiplier = 1
	}
	thresholds := make([]float64, n)
	for j := 0; j < n; j++ {
		thresholds[j] = multiplier * matrix.RowSumAbs(j)
	}

	next := func(cur uint64) uint64 {
		var out uint64
		for j := 0; j < n; j++ {
			var bit uint64
			if clampVec[j] >= 0 {
				bit = uint64(clampVec[j])
			} else {
				input := biases[j]
				row := matrix.Weights[j]
				for i := 0; i < n; i++ {
					if (cur>>uint(i))&1 == 1 {
						input += row[i]
					}
				}
				switch {
				case input > thresholds[j]:
					bit = 1
				case input < thresholds[j]:
					bit = 0
				default:
					switch a.tie {
					case TieOne:
						bit = 1
					case TieHold:
						bit = (cur >> uint(j)) & 1
					default:
						bit = 0
					}
				}
			}
			out |= bit << uint(j)
		}
		return out
	}

	total := uint64(1) << uint(n)
	res.TotalStateSpace = total

	var seeds []uint64
	if a.stateCap >= total && n <= MaxExactNodes {
		seeds = nil // sequential enumeration below
	} else {
		count := a.stateCap
		if count > total {
			count = total
		}
		if count > DefaultStateCap {
			count = DefaultStateCap
			res.warnf("sample budget clamped to %d states", count)
		}
		res.Mode = ModeStratifiedSample
		res.Truncated = true
		res.Seed = a.seed
		res.warnf("state space %d exceeds cap: stratified sample of %d initial states (seed %d, tie %s)",
			total, count, a.seed, a.tie)
		seeds = stratifiedSample(n, count, a.seed)
	}

	acc := newAccumulator(newMembership(total))
	walker := newExplorer(acc, next, a.stepCap)

	if seeds == nil {
		a.logger.Debug().Int("nodes", n).Uint64("states", total).Msg("weighted exploration started")
		for s := uint64(0); s < total; s++ {
			walker.explore(s)
		}
	} else {
		a.logger.Debug().Int("nodes", n).Int("samples", len(seeds)).Msg("weighted sampling started")
		for _, s := range seeds {
			walker.explore(s)
		}
	}

	res.UnresolvedStates = len(walker.unresolved)
	if res.UnresolvedStates > 0 {
		res.warnf("step cap %d exhausted: %d states left unresolved", a.stepCap, res.UnresolvedStates)
		a.logger.Warn().Int("unresolved", res.UnresolvedStates).Msg("step cap exhausted")
	}

	acc.finalize(res)
	a.logger.Debug().
		Int("attractors", len(res.Attractors)).
		Int("explored", res.ExploredStateCount).
		Msg("weighted exploration finished")
	return res, nil
}

// resolveBiases turns name-keyed biases into a per-index vector. Unknown
// nodes are hard input errors; non-finite values degrade to zero with a
// warning per the input contract.
func (a *WeightedAnalyzer) resolveBiases(res *Result) ([]float64, error) {
	vec := make([]float64, a.net.Size())
	for name, v := range a.biases {
		idx, ok := a.net.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w: bias target %q", network.ErrUnknownNode, name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			res.warnf("non-finite bias for %q treated as zero", name)
			v = 0
		}
		vec[idx] = v
	}
	return vec, nil
}
