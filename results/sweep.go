package results

import (
	"fmt"
	"sort"

	"github.com/boolnet-xyz/go-boolnet/explore"
	"github.com/boolnet-xyz/go-boolnet/network"
)

// SweepResults contains results from a parameter sweep over the weighted
// engine: every combination of threshold multiplier and per-node bias is
// explored and scored.
type SweepResults struct {
	Version   string          `json:"version"`
	Network   string          `json:"network"`
	Objective string          `json:"objective"`
	Variants  []VariantResult `json:"variants"`
	Best      *VariantResult  `json:"best"`
	Worst     *VariantResult  `json:"worst"`
	Summary   SweepSummary    `json:"summary"`
}

// VariantResult contains results for one parameter combination
type VariantResult struct {
	ID         int                `json:"id"`
	Multiplier float64            `json:"multiplier"`
	Biases     map[string]float64 `json:"biases,omitempty"`
	Landscape  Summary            `json:"landscape"`
	Score      float64            `json:"score"`
	Rank       int                `json:"rank"`
}

// SweepSummary provides an overview of the sweep
type SweepSummary struct {
	TotalVariants int     `json:"totalVariants"`
	SuccessCount  int     `json:"successCount"`
	FailureCount  int     `json:"failureCount"`
	BestScore     float64 `json:"bestScore"`
	WorstScore    float64 `json:"worstScore"`
	ScoreRange    float64 `json:"scoreRange"`
}

// ObjectiveFunc evaluates how good a landscape is (lower is better)
type ObjectiveFunc func(*explore.Result) (float64, error)

// Objectives maps objective names to evaluation functions
var Objectives = map[string]ObjectiveFunc{
	"minimize_attractors": func(r *explore.Result) (float64, error) {
		return float64(len(r.Attractors)), nil
	},

	"maximize_attractors": func(r *explore.Result) (float64, error) {
		return -float64(len(r.Attractors)), nil
	},

	"maximize_fixed_point_share": func(r *explore.Result) (float64, error) {
		share := 0.0
		for _, a := range r.Attractors {
			if a.Type == explore.FixedPoint {
				share += a.BasinShare
			}
		}
		return -share, nil // Negate for maximization
	},

	"minimize_entropy": func(r *explore.Result) (float64, error) {
		return BasinEntropy(r), nil
	},

	"maximize_entropy": func(r *explore.Result) (float64, error) {
		return -BasinEntropy(r), nil
	},
}

// SweepOptions configures a threshold/bias sweep.
type SweepOptions struct {
	Multipliers []float64
	// BiasVariants enumerates bias assignments to cross with the
	// multipliers. A nil entry means no bias.
	BiasVariants []map[string]float64
	StateCap     uint64
	StepCap      int
	Tie          explore.TieBehavior
	Seed         int64
}

// Sweep runs the weighted engine for every multiplier/bias combination and
// ranks the variants under the named objective. Failed runs count toward
// FailureCount but do not abort the sweep.
func Sweep(net *network.Network, name, objective string, opts SweepOptions) (*SweepResults, error) {
	obj, ok := Objectives[objective]
	if !ok {
		return nil, fmt.Errorf("unknown objective %q", objective)
	}
	multipliers := opts.Multipliers
	if len(multipliers) == 0 {
		multipliers = []float64{1}
	}
	biasVariants := opts.BiasVariants
	if len(biasVariants) == 0 {
		biasVariants = []map[string]float64{nil}
	}
	stateCap := opts.StateCap
	if stateCap == 0 {
		stateCap = explore.DefaultStateCap
	}
	stepCap := opts.StepCap
	if stepCap == 0 {
		stepCap = explore.DefaultStepCap
	}
	seed := opts.Seed
	if seed == 0 {
		seed = explore.DefaultSeed
	}

	sweep := &SweepResults{
		Version:   SchemaVersion,
		Network:   name,
		Objective: objective,
	}

	id := 0
	for _, m := range multipliers {
		for _, biases := range biasVariants {
			id++
			sweep.Summary.TotalVariants++

			res, err := explore.NewWeightedAnalyzer(net.Clone()).
				WithStateCap(stateCap).
				WithStepCap(stepCap).
				WithTieBehavior(opts.Tie).
				WithThresholdMultiplier(m).
				WithBiases(biases).
				WithSeed(seed).
				Run()
			if err != nil {
				sweep.Summary.FailureCount++
				continue
			}
			score, err := obj(res)
			if err != nil {
				sweep.Summary.FailureCount++
				continue
			}
			sweep.Summary.SuccessCount++
			sweep.Variants = append(sweep.Variants, VariantResult{
				ID:         id,
				Multiplier: m,
				Biases:     biases,
				Landscape:  Summarize(res),
				Score:      score,
			})
		}
	}

	RankVariants(sweep.Variants)
	if len(sweep.Variants) > 0 {
		sweep.Best = &sweep.Variants[0]
		sweep.Worst = &sweep.Variants[len(sweep.Variants)-1]
		sweep.Summary.BestScore = sweep.Best.Score
		sweep.Summary.WorstScore = sweep.Worst.Score
		sweep.Summary.ScoreRange = sweep.Summary.WorstScore - sweep.Summary.BestScore
	}
	return sweep, nil
}

// RankVariants sorts variants by score and assigns ranks
func RankVariants(variants []VariantResult) {
	// Sort by score (ascending - lower is better)
	sort.Slice(variants, func(i, j int) bool {
		return variants[i].Score < variants[j].Score
	})

	for i := range variants {
		variants[i].Rank = i + 1
	}
}
