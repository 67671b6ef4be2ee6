package explore

import (
	"math"
	"math/rand"
	"sort"
)

// stratifiedSample draws count distinct initial states for an n-bit
// network, stratified by Hamming weight so every activation level is
// represented in proportion to its share of the state space. A sequential
// prefix would oversample low-index bit patterns and undercount rare
// attractors. The draw is fully determined by the seed.
func stratifiedSample(n int, count uint64, seed int64) []uint64 {
	rng := rand.New(rand.NewSource(seed))
	total := math.Exp2(float64(n))
	sizes := binomialRow(n)

	seen := make(map[uint64]struct{}, count)
	out := make([]uint64, 0, count)

	draw := func(k int, want uint64) {
		// Duplicate draws are rejected; the attempt budget keeps tiny
		// strata from stalling the sampler.
		attempts := want * 8
		for want > 0 && attempts > 0 {
			s := randomStateWithWeight(n, k, rng)
			attempts--
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
			want--
		}
	}

	for k := 0; k <= n && uint64(len(out)) < count; k++ {
		quota := uint64(math.Round(float64(count) * sizes[k] / total))
		if remaining := count - uint64(len(out)); quota > remaining {
			quota = remaining
		}
		if quota > 0 {
			draw(k, quota)
		}
	}

	// Top up rounding shortfall with uniform draws.
	mask := (uint64(1) << uint(n)) - 1
	for uint64(len(out)) < count && uint64(len(seen)) < uint64(total) {
		s := rng.Uint64() & mask
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	// Deterministic exploration order regardless of map behavior.
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// randomStateWithWeight returns a uniform random n-bit state with exactly
// k bits set.
func randomStateWithWeight(n, k int, rng *rand.Rand) uint64 {
	var s uint64
	for _, pos := range rng.Perm(n)[:k] {
		s |= 1 << uint(pos)
	}
	return s
}

// binomialRow returns C(n, k) for k = 0..n as float64.
func binomialRow(n int) []float64 {
	row := make([]float64, n+1)
	row[0] = 1
	for k := 1; k <= n; k++ {
		row[k] = row[k-1] * float64(n-k+1) / float64(k)
	}
	return row
}
