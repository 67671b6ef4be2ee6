package explore

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/boolnet-xyz/go-boolnet/expr"
	"github.com/boolnet-xyz/go-boolnet/network"
)

// RuleAnalyzer runs exhaustive synchronous exploration over symbolic
// boolean update rules. Nodes without a rule (or with a rule that fails to
// compile) keep their previous value each step.
type RuleAnalyzer struct {
	net      *network.Network
	stateCap uint64
	stepCap  int
	clamps   map[string]int
	logger   zerolog.Logger
}

// NewRuleAnalyzer creates an analyzer with default caps and no logging.
func NewRuleAnalyzer(net *network.Network) *RuleAnalyzer {
	return &RuleAnalyzer{
		net:      net,
		stateCap: DefaultStateCap,
		stepCap:  DefaultStepCap,
		logger:   zerolog.Nop(),
	}
}

// WithStateCap bounds how many candidate initial states are enumerated.
func (a *RuleAnalyzer) WithStateCap(cap uint64) *RuleAnalyzer {
	a.stateCap = cap
	return a
}

// WithStepCap bounds trajectory length before a walk is abandoned.
func (a *RuleAnalyzer) WithStepCap(cap int) *RuleAnalyzer {
	a.stepCap = cap
	return a
}

// WithClamps pins nodes to fixed values (knock-out 0 / knock-in 1),
// overriding their update functions.
func (a *RuleAnalyzer) WithClamps(clamps map[string]int) *RuleAnalyzer {
	a.clamps = clamps
	return a
}

// WithLogger attaches a logger for progress and truncation events.
func (a *RuleAnalyzer) WithLogger(logger zerolog.Logger) *RuleAnalyzer {
	a.logger = logger
	return a
}

// Run explores the state space and returns attractors with basin shares.
// Rule compile failures degrade the affected node to an identity update
// and surface as warnings; only malformed input is a hard error.
func (a *RuleAnalyzer) Run() (*Result, error) {
	if err := a.net.Validate(); err != nil {
		return nil, err
	}
	n := a.net.Size()
	if n > MaxExactNodes {
		return nil, fmt.Errorf("%w: %d nodes exceed the exhaustive ceiling of %d", ErrTooManyNodes, n, MaxExactNodes)
	}

	res := &Result{
		NodeOrder:  append([]string(nil), a.net.Order...),
		NodeLabels: a.net.Labels(),
		Mode:       ModeExhaustive,
	}

	programs := a.compilePrograms(res)
	clampVec, err := resolveClamps(a.net, a.clamps)
	if err != nil {
		return nil, err
	}

	total := uint64(1) << uint(n)
	limit := total
	if a.stateCap < total {
		limit = a.stateCap
		res.Truncated = true
		res.warnf("state cap reached: exploring %d of %d states", limit, total)
	}
	res.TotalStateSpace = total

	next := func(cur uint64) uint64 {
		var out uint64
		for j := 0; j < n; j++ {
			var bit uint64
			switch {
			case clampVec[j] >= 0:
				bit = uint64(clampVec[j])
			case programs[j] != nil:
				bit = programs[j].Eval(cur)
			default:
				bit = (cur >> uint(j)) & 1
			}
			out |= bit << uint(j)
		}
		return out
	}

	acc := newAccumulator(newDenseMembership(total))
	walker := newExplorer(acc, next, a.stepCap)

	a.logger.Debug().Int("nodes", n).Uint64("states", limit).Msg("rule exploration started")
	for s := uint64(0); s < limit; s++ {
		walker.explore(s)
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
		Msg("rule exploration finished")
	return res, nil
}

// compilePrograms compiles one update program per node. A failed compile
// leaves the slot nil (identity update) and records a warning naming the
// rule and the cause. Duplicate targets are last-write-wins, matching the
// edge-matrix policy.
func (a *RuleAnalyzer) compilePrograms(res *Result) []*expr.Program {
	programs := make([]*expr.Program, a.net.Size())
	resolve := func(name string) (int, bool) { return a.net.Resolve(name) }
	for _, rule := range a.net.Rules {
		target, expression, err := expr.SplitRule(rule)
		if err != nil {
			res.warnf("rule %q skipped: %v", rule, err)
			continue
		}
		idx, ok := a.net.Resolve(target)
		if !ok {
			res.warnf("rule %q skipped: unknown target %q", rule, target)
			continue
		}
		prog, err := expr.Compile(expression, resolve)
		if err != nil {
			res.warnf("rule %q skipped: %v", rule, err)
			continue
		}
		programs[idx] = prog
	}
	return programs
}

// resolveClamps turns name-keyed clamp values into a per-index vector
// (-1 means unclamped). An unknown node is a hard input error.
func resolveClamps(net *network.Network, clamps map[string]int) ([]int8, error) {
	vec := make([]int8, net.Size())
	for i := range vec {
		vec[i] = -1
	}
	for name, v := range clamps {
		idx, ok := net.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w: clamp target %q", network.ErrUnknownNode, name)
		}
		if v != 0 {
			vec[idx] = 1
		} else {
			vec[idx] = 0
		}
	}
	return vec, nil
}
