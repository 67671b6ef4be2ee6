package results

import (
	"math"
	"sort"
	"strconv"

	"github.com/boolnet-xyz/go-boolnet/explore"
)

// Summarize condenses an exploration result into landscape-level numbers.
func Summarize(res *explore.Result) Summary {
	s := Summary{
		DominantAttractor: -1,
		Truncated:         res.Truncated,
	}
	for _, a := range res.Attractors {
		s.AttractorCount++
		switch a.Type {
		case explore.FixedPoint:
			s.FixedPointCount++
		case explore.LimitCycle:
			s.LimitCycleCount++
		}
		if a.Period > s.LongestPeriod {
			s.LongestPeriod = a.Period
		}
		if a.BasinShare > s.DominantShare {
			s.DominantShare = a.BasinShare
			s.DominantAttractor = a.ID
		}
	}
	s.BasinEntropy = BasinEntropy(res)
	return s
}

// BasinEntropy returns the Shannon entropy (bits) of the basin-share
// distribution. Zero means a single attractor absorbs everything.
func BasinEntropy(res *explore.Result) float64 {
	entropy := 0.0
	for _, a := range res.Attractors {
		if a.BasinShare > 0 {
			entropy -= a.BasinShare * math.Log2(a.BasinShare)
		}
	}
	return entropy
}

// canonicalKey identifies an attractor independent of which state the
// exploration entered the cycle through.
func canonicalKey(a *explore.Attractor) string {
	if len(a.StateKeys) == 0 {
		return ""
	}
	min := a.StateKeys[0]
	for _, k := range a.StateKeys[1:] {
		if k < min {
			min = k
		}
	}
	return strconv.FormatUint(min, 10)
}

// Compare matches attractors between two landscapes by canonical key and
// reports shared attractors with their basin-share change, plus the keys
// unique to either side. Both results must come from the same node order.
func Compare(first, second *explore.Result) Comparison {
	firstShares := make(map[string]float64, len(first.Attractors))
	for _, a := range first.Attractors {
		firstShares[canonicalKey(a)] = a.BasinShare
	}
	secondShares := make(map[string]float64, len(second.Attractors))
	for _, a := range second.Attractors {
		secondShares[canonicalKey(a)] = a.BasinShare
	}

	var cmp Comparison
	for key, fs := range firstShares {
		if ss, ok := secondShares[key]; ok {
			cmp.Shared = append(cmp.Shared, SharedAttractor{
				Key:         key,
				FirstShare:  fs,
				SecondShare: ss,
				ShareDelta:  ss - fs,
			})
		} else {
			cmp.OnlyFirst = append(cmp.OnlyFirst, key)
		}
	}
	for key := range secondShares {
		if _, ok := firstShares[key]; !ok {
			cmp.OnlySecond = append(cmp.OnlySecond, key)
		}
	}

	sort.Slice(cmp.Shared, func(i, j int) bool { return cmp.Shared[i].Key < cmp.Shared[j].Key })
	sort.Strings(cmp.OnlyFirst)
	sort.Strings(cmp.OnlySecond)
	return cmp
}
