// Package explore performs exhaustive or sampled synchronous state-space
// exploration of Boolean and weighted-threshold networks. It discovers
// attractors (fixed points and limit cycles) and accounts basin membership
// under hard state and step budgets.
package explore

import (
	"errors"
	"fmt"

	"github.com/boolnet-xyz/go-boolnet/state"
)

var (
	// ErrTooManyNodes is returned when a network exceeds the engine's
	// exploration ceiling; failing fast beats hanging on 2^N states.
	ErrTooManyNodes = errors.New("explore: network too large for state-space exploration")
)

// MaxExactNodes bounds full exhaustive enumeration (2^20 states).
const MaxExactNodes = 20

// Default caps applied by the analyzers when the caller sets none.
const (
	DefaultStateCap uint64 = 1 << MaxExactNodes
	DefaultStepCap         = 1000
)

// AttractorType distinguishes fixed points from limit cycles. The type is
// fully determined by the period.
type AttractorType string

const (
	FixedPoint AttractorType = "fixed-point"
	LimitCycle AttractorType = "limit-cycle"
)

// Attractor is one discovered fixed point or limit cycle together with its
// basin accounting.
type Attractor struct {
	ID         int              `json:"id"`
	Type       AttractorType    `json:"type"`
	Period     int              `json:"period"`
	StateKeys  []uint64         `json:"stateKeys"`
	States     []state.Snapshot `json:"states"`
	BasinSize  int              `json:"basinSize"`
	BasinShare float64          `json:"basinShare"`
}

// ExplorationMode records how initial states were chosen. Sampled runs
// report basin shares as fractions of the sampled-and-reached set, not the
// full state space; callers must not confuse the two.
type ExplorationMode string

const (
	ModeExhaustive       ExplorationMode = "exhaustive"
	ModeStratifiedSample ExplorationMode = "stratified-sample"
)

// Result is the immutable outcome of one exploration run: plain data, safe
// to hand across a process boundary.
type Result struct {
	NodeOrder          []string          `json:"nodeOrder"`
	NodeLabels         map[string]string `json:"nodeLabels,omitempty"`
	Attractors         []*Attractor      `json:"attractors"`
	ExploredStateCount int               `json:"exploredStateCount"`
	TotalStateSpace    uint64            `json:"totalStateSpace"`
	Truncated          bool              `json:"truncated"`
	Mode               ExplorationMode   `json:"mode"`
	Seed               int64             `json:"seed,omitempty"`
	UnresolvedStates   int               `json:"unresolvedStates"`
	Warnings           []string          `json:"warnings,omitempty"`
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Attractor returns the attractor a state key was classified into, or nil.
func (r *Result) Attractor(key uint64) *Attractor {
	for _, a := range r.Attractors {
		for _, s := range a.StateKeys {
			if s == key {
				return a
			}
		}
	}
	return nil
}

// FixedPoints returns the subset of attractors with period 1.
func (r *Result) FixedPoints() []*Attractor {
	var out []*Attractor
	for _, a := range r.Attractors {
		if a.Type == FixedPoint {
			out = append(out, a)
		}
	}
	return out
}
