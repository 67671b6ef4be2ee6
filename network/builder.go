package network

// Builder provides a fluent API for constructing networks.
// Errors from individual steps are collected and surfaced by Done, so a
// chain stays readable even when endpoints are computed.
//
// Example:
//
//	net, err := network.Build().
//	    Node("A").
//	    Node("B", "CyclinB").
//	    Edge("A", "B", 1).
//	    Rule("B = A AND NOT B").
//	    Done()
type Builder struct {
	net *Network
	err error
}

// Build creates a new Builder.
func Build() *Builder {
	return &Builder{net: New()}
}

// Node adds a node. The optional second argument is a display label.
func (b *Builder) Node(id string, label ...string) *Builder {
	if b.err != nil {
		return b
	}
	lbl := ""
	if len(label) > 0 {
		lbl = label[0]
	}
	_, b.err = b.net.AddNode(id, lbl)
	return b
}

// Edge adds a directed weighted edge.
func (b *Builder) Edge(source, target string, weight float64) *Builder {
	if b.err != nil {
		return b
	}
	_, b.err = b.net.AddEdge(source, target, weight)
	return b
}

// Ring connects the listed nodes in a directed cycle with the given weight.
// Convenience for the feedback-loop motifs common in regulatory circuits.
func (b *Builder) Ring(weight float64, ids ...string) *Builder {
	for i := range ids {
		b.Edge(ids[i], ids[(i+1)%len(ids)], weight)
	}
	return b
}

// Rule adds a "TARGET = EXPRESSION" rule string.
func (b *Builder) Rule(rule string) *Builder {
	if b.err != nil {
		return b
	}
	b.net.AddRule(rule)
	return b
}

// Done returns the completed network, or the first construction error.
func (b *Builder) Done() (*Network, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.net.Validate(); err != nil {
		return nil, err
	}
	return b.net, nil
}

// MustDone is Done for tests and literals where construction cannot fail.
func (b *Builder) MustDone() *Network {
	net, err := b.Done()
	if err != nil {
		panic(err)
	}
	return net
}
