// Package results defines the structured output format for analyses
package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/boolnet-xyz/go-boolnet/explore"
	"github.com/boolnet-xyz/go-boolnet/meanfield"
)

const SchemaVersion = "1.0.0"

// Envelope contains complete analysis output
type Envelope struct {
	Version     string            `json:"version"`
	RunID       uuid.UUID         `json:"runId"`
	Metadata    Metadata          `json:"metadata"`
	Network     NetworkSummary    `json:"network"`
	Exploration *explore.Result   `json:"exploration,omitempty"`
	MeanField   *meanfield.Result `json:"meanField,omitempty"`
	Summary     *Summary          `json:"summary,omitempty"`
}

// Metadata contains execution information
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Engine      string    `json:"engine"` // rule, weighted, meanfield
	Status      string    `json:"status"` // success, error
	Error       string    `json:"error,omitempty"`
	ComputeTime float64   `json:"computeTime"` // seconds
}

// NetworkSummary captures the analyzed network's shape
type NetworkSummary struct {
	Name  string   `json:"name,omitempty"`
	Nodes []string `json:"nodes"`
	Edges int      `json:"edges"`
	Rules int      `json:"rules"`
}

// Summary provides a quick overview of the attractor landscape
type Summary struct {
	AttractorCount    int     `json:"attractorCount"`
	FixedPointCount   int     `json:"fixedPointCount"`
	LimitCycleCount   int     `json:"limitCycleCount"`
	LongestPeriod     int     `json:"longestPeriod"`
	DominantAttractor int     `json:"dominantAttractor"` // attractor ID, -1 if none
	DominantShare     float64 `json:"dominantShare"`
	BasinEntropy      float64 `json:"basinEntropy"` // bits
	Truncated         bool    `json:"truncated"`
}

// Comparison reports how two attractor landscapes differ. Attractors are
// matched by canonical key: the smallest state key in the cycle.
type Comparison struct {
	Shared     []SharedAttractor `json:"shared"`
	OnlyFirst  []string          `json:"onlyFirst,omitempty"`
	OnlySecond []string          `json:"onlySecond,omitempty"`
}

// SharedAttractor pairs an attractor present in both landscapes with the
// change in its basin share.
type SharedAttractor struct {
	Key         string  `json:"key"`
	FirstShare  float64 `json:"firstShare"`
	SecondShare float64 `json:"secondShare"`
	ShareDelta  float64 `json:"shareDelta"`
}
