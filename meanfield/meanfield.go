// Package meanfield computes continuous steady states of a weighted
// network under a mean-field kinetic approximation. Instead of walking the
// discrete state space it iterates one activation probability per node
// until the largest per-node change in a synchronous sweep drops below
// tolerance. The result is a best-effort physical approximation: hitting
// the iteration budget is reported, never thrown.
package meanfield

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/boolnet-xyz/go-boolnet/network"
)

// Options configures the iteration.
type Options struct {
	// Noise scales the logistic response σ(net/Noise); smaller values
	// sharpen the activation toward a hard threshold.
	Noise float64
	// SelfDegradation in [0,1] controls how much of the previous
	// probability decays each sweep; persistence is 1 - SelfDegradation.
	SelfDegradation float64
	// Biases adds a constant drive per node, keyed by id or label.
	Biases map[string]float64
	// BasalActivity adds a constitutive activation term per node.
	BasalActivity map[string]float64
	// InitialProbability seeds every node; InitialProbabilities overrides
	// individual nodes.
	InitialProbability   float64
	InitialProbabilities map[string]float64
	MaxIterations        int
	Tolerance            float64
	// Logger, when non-nil, receives convergence diagnostics.
	Logger *zerolog.Logger
}

// DefaultOptions returns balanced settings suitable for most networks.
func DefaultOptions() *Options {
	return &Options{
		Noise:              0.5,
		SelfDegradation:    0.05,
		InitialProbability: 0.5,
		MaxIterations:      10000,
		Tolerance:          1e-6,
	}
}

// FastOptions trades precision for quick interactive estimates.
func FastOptions() *Options {
	return &Options{
		Noise:              0.5,
		SelfDegradation:    0.05,
		InitialProbability: 0.5,
		MaxIterations:      500,
		Tolerance:          1e-3,
	}
}

// AccurateOptions tightens tolerance for publication-grade steady states.
func AccurateOptions() *Options {
	return &Options{
		Noise:              0.5,
		SelfDegradation:    0.05,
		InitialProbability: 0.5,
		MaxIterations:      200000,
		Tolerance:          1e-9,
	}
}

// Result holds the steady-state estimate: plain data, safe to serialize.
type Result struct {
	NodeOrder         []string  `json:"nodeOrder"`
	Probabilities     []float64 `json:"probabilities"`
	PotentialEnergies []float64 `json:"potentialEnergies"`
	Iterations        int       `json:"iterations"`
	Converged         bool      `json:"converged"`
	Warnings          []string  `json:"warnings,omitempty"`
}

// Probability returns the steady-state probability for a node id, or -1.
func (r *Result) Probability(id string) float64 {
	for i, nid := range r.NodeOrder {
		if nid == id {
			return r.Probabilities[i]
		}
	}
	return -1
}

const (
	// netEpsilon is the driving-signal floor below which a node simply
	// decays: self-degradation dominates when nothing pushes the node.
	netEpsilon = 1e-9
	// expClamp bounds the logistic exponent against float overflow.
	expClamp = 60.0
	// probFloor keeps -ln(p) finite.
	probFloor = 1e-12
)

// Run iterates the mean-field update to convergence and returns the last
// iterate either way. The caller-owned network and options are never
// mutated.
func Run(net *network.Network, opts *Options) (*Result, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	n := net.Size()
	res := &Result{NodeOrder: append([]string(nil), net.Order...)}

	matrix, err := net.Matrix()
	if err != nil {
		return nil, err
	}
	biases, err := resolveTerms(net, opts.Biases, "bias", res)
	if err != nil {
		return nil, err
	}
	basal, err := resolveTerms(net, opts.BasalActivity, "basal activity", res)
	if err != nil {
		return nil, err
	}

	persistence := 1 - clamp01(opts.SelfDegradation)
	noise := opts.Noise
	if noise <= 0 || math.IsNaN(noise) {
		res.Warnings = append(res.Warnings, "non-positive noise treated as near-deterministic response")
		noise = netEpsilon
	}

	probs := make([]float64, n)
	for i := range probs {
		probs[i] = clamp01(opts.InitialProbability)
	}
	for name, p := range opts.InitialProbabilities {
		idx, ok := net.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w: initial probability for %q", network.ErrUnknownNode, name)
		}
		probs[idx] = clamp01(p)
	}

	scratch := make([]float64, n)
	iterations := 0
	converged := false

	for iterations < opts.MaxIterations {
		iterations++
		maxDelta := 0.0
		// One synchronous sweep: every net input reads the frozen probs.
		for j := 0; j < n; j++ {
			drive := biases[j] + basal[j]
			row := matrix.Weights[j]
			for i := 0; i < n; i++ {
				drive += row[i] * probs[i]
			}

			var next float64
			if math.Abs(drive) < netEpsilon {
				next = persistence * probs[j]
			} else {
				next = persistence*probs[j] + (1-persistence)*sigmoid(drive/noise)
			}

			if delta := math.Abs(next - probs[j]); delta > maxDelta {
				maxDelta = delta
			}
			scratch[j] = next
		}
		copy(probs, scratch)

		if maxDelta < opts.Tolerance {
			converged = true
			break
		}
	}

	if !converged {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("did not converge within %d iterations (tolerance %g); returning last iterate", opts.MaxIterations, opts.Tolerance))
		logger.Warn().Int("iterations", iterations).Msg("mean-field iteration did not converge")
	} else {
		logger.Debug().Int("iterations", iterations).Msg("mean-field iteration converged")
	}

	res.Probabilities = probs
	res.PotentialEnergies = make([]float64, n)
	for i, p := range probs {
		res.PotentialEnergies[i] = -math.Log(math.Max(p, probFloor))
	}
	res.Iterations = iterations
	res.Converged = converged
	return res, nil
}

// sigmoid is the logistic response with the exponent clamped to avoid
// float overflow for strongly driven nodes.
func sigmoid(x float64) float64 {
	if x > expClamp {
		x = expClamp
	} else if x < -expClamp {
		x = -expClamp
	}
	return 1 / (1 + math.Exp(-x))
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// resolveTerms maps name-keyed additive terms onto node indices. Unknown
// nodes are hard errors; non-finite values degrade to zero with a warning.
func resolveTerms(net *network.Network, terms map[string]float64, kind string, res *Result) ([]float64, error) {
	vec := make([]float64, net.Size())
	for name, v := range terms {
		idx, ok := net.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s target %q", network.ErrUnknownNode, kind, name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("non-finite %s for %q treated as zero", kind, name))
			v = 0
		}
		vec[idx] = v
	}
	return vec, nil
}
