package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/boolnet-xyz/go-boolnet/explore"
	"github.com/boolnet-xyz/go-boolnet/meanfield"
	"github.com/boolnet-xyz/go-boolnet/network"
)

// Builder helps construct an Envelope from analysis output
type Builder struct {
	envelope Envelope
}

// NewBuilder creates a new envelope builder with a fresh run id
func NewBuilder() *Builder {
	return &Builder{
		envelope: Envelope{
			Version: SchemaVersion,
			RunID:   uuid.New(),
			Metadata: Metadata{
				Timestamp: time.Now(),
			},
		},
	}
}

// WithNetwork sets network information
func (b *Builder) WithNetwork(net *network.Network, name string) *Builder {
	b.envelope.Network = NetworkSummary{
		Name:  name,
		Nodes: append([]string(nil), net.Order...),
		Edges: len(net.Edges),
		Rules: len(net.Rules),
	}
	return b
}

// WithExploration attaches an exploration result and its computed summary
func (b *Builder) WithExploration(res *explore.Result, engine string, computeTime float64) *Builder {
	b.envelope.Exploration = res
	b.envelope.Metadata.Engine = engine
	b.envelope.Metadata.Status = "success"
	b.envelope.Metadata.ComputeTime = computeTime
	summary := Summarize(res)
	b.envelope.Summary = &summary
	return b
}

// WithMeanField attaches a mean-field steady state
func (b *Builder) WithMeanField(res *meanfield.Result, computeTime float64) *Builder {
	b.envelope.MeanField = res
	if b.envelope.Metadata.Engine == "" {
		b.envelope.Metadata.Engine = "meanfield"
		b.envelope.Metadata.Status = "success"
		b.envelope.Metadata.ComputeTime = computeTime
	}
	return b
}

// WithError sets error status
func (b *Builder) WithError(engine string, err error) *Builder {
	b.envelope.Metadata.Engine = engine
	b.envelope.Metadata.Status = "error"
	b.envelope.Metadata.Error = err.Error()
	return b
}

// Build returns the constructed Envelope
func (b *Builder) Build() *Envelope {
	return &b.envelope
}
