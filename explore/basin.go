package explore

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/boolnet-xyz/go-boolnet/state"
)

// membership maps state keys to the attractor that owns them. Exhaustive
// runs over small state spaces use a dense bitset-backed table; sampled
// runs over wide state spaces fall back to a hash map. Both give O(1)
// lookup, which is what keeps the cyclic state-transition graph a matter
// of integer bookkeeping instead of an object graph.
type membership interface {
	lookup(key uint64) (int, bool)
	assign(key uint64, id int)
}

// denseLimit bounds the state-space size for which the dense table is used.
const denseLimit = uint64(1) << (MaxExactNodes + 2)

type denseMembership struct {
	classified *bitset.BitSet
	owner      []int32
}

func newDenseMembership(total uint64) *denseMembership {
	return &denseMembership{
		classified: bitset.New(uint(total)),
		owner:      make([]int32, total),
	}
}

func (m *denseMembership) lookup(key uint64) (int, bool) {
	if !m.classified.Test(uint(key)) {
		return 0, false
	}
	return int(m.owner[key]), true
}

func (m *denseMembership) assign(key uint64, id int) {
	m.classified.Set(uint(key))
	m.owner[key] = int32(id)
}

type sparseMembership struct {
	owner map[uint64]int
}

func newSparseMembership(hint int) *sparseMembership {
	return &sparseMembership{owner: make(map[uint64]int, hint)}
}

func (m *sparseMembership) lookup(key uint64) (int, bool) {
	id, ok := m.owner[key]
	return id, ok
}

func (m *sparseMembership) assign(key uint64, id int) {
	m.owner[key] = id
}

func newMembership(total uint64) membership {
	if total <= denseLimit {
		return newDenseMembership(total)
	}
	return newSparseMembership(1 << 16)
}

// accumulator tallies attractors and basin membership. Every state is
// credited to exactly one attractor the first time it is classified.
type accumulator struct {
	members    membership
	attractors []*Attractor
	explored   int
}

func newAccumulator(m membership) *accumulator {
	return &accumulator{members: m}
}

// addAttractor registers the cycle (in discovery order) as a new attractor
// and returns its id. Period 1 is a fixed point, anything longer a limit
// cycle.
func (a *accumulator) addAttractor(cycle []uint64) int {
	id := len(a.attractors)
	att := &Attractor{
		ID:        id,
		Period:    len(cycle),
		StateKeys: append([]uint64(nil), cycle...),
	}
	if att.Period == 1 {
		att.Type = FixedPoint
	} else {
		att.Type = LimitCycle
	}
	a.attractors = append(a.attractors, att)
	return id
}

// credit assigns every not-yet-classified state on the path to attractor
// id and grows its basin accordingly.
func (a *accumulator) credit(path []uint64, id int) {
	att := a.attractors[id]
	for _, s := range path {
		if _, ok := a.members.lookup(s); ok {
			continue
		}
		a.members.assign(s, id)
		att.BasinSize++
		a.explored++
	}
}

// finalize computes basin shares over the explored count and renders the
// cycle snapshots. Shares are fractions of the states actually classified,
// which is the full space only for non-truncated exhaustive runs.
func (a *accumulator) finalize(res *Result) {
	for _, att := range a.attractors {
		att.States = make([]state.Snapshot, len(att.StateKeys))
		for i, key := range att.StateKeys {
			att.States[i] = state.Format(key, res.NodeOrder, res.NodeLabels)
		}
		if a.explored > 0 {
			att.BasinShare = float64(att.BasinSize) / float64(a.explored)
		}
	}
	res.Attractors = a.attractors
	res.ExploredStateCount = a.explored
}

// explorer walks trajectories under a step budget, feeding the accumulator.
// The successor function must implement a synchronous update: every next
// bit computed from the frozen current state.
type explorer struct {
	acc        *accumulator
	next       func(uint64) uint64
	stepCap    int
	unresolved map[uint64]struct{}
}

func newExplorer(acc *accumulator, next func(uint64) uint64, stepCap int) *explorer {
	return &explorer{
		acc:        acc,
		next:       next,
		stepCap:    stepCap,
		unresolved: make(map[uint64]struct{}),
	}
}

// explore walks the trajectory from start until it reaches a classified
// state, closes a new cycle, or exhausts the step budget. Paths that hit
// the budget are remembered so later seeds do not re-walk them.
func (e *explorer) explore(start uint64) {
	if _, ok := e.acc.members.lookup(start); ok {
		return
	}
	if _, ok := e.unresolved[start]; ok {
		return
	}

	var path []uint64
	index := make(map[uint64]int)
	cur := start

	for {
		if id, ok := e.acc.members.lookup(cur); ok {
			e.reclaim(path)
			e.acc.credit(path, id)
			return
		}
		if at, ok := index[cur]; ok {
			id := e.acc.addAttractor(path[at:])
			e.reclaim(path)
			e.acc.credit(path, id)
			return
		}
		if len(path) >= e.stepCap {
			for _, s := range path {
				e.unresolved[s] = struct{}{}
			}
			return
		}
		index[cur] = len(path)
		path = append(path, cur)
		cur = e.next(cur)
	}
}

// reclaim drops path states from the unresolved set: a deeper walk from a
// different seed can resolve states an earlier walk gave up on.
func (e *explorer) reclaim(path []uint64) {
	for _, s := range path {
		delete(e.unresolved, s)
	}
}
