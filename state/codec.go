// Package state encodes network states as dense unsigned integers.
// Bit i of an encoded state is the value of the i-th node in declaration
// order; every matrix, compiled rule, and snapshot in one analysis run
// shares that ordering.
package state

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// MaxNodes bounds the width of an encoded state. 52 bits keeps every state
// key exactly representable if a caller round-trips it through a float64
// serialization layer.
const MaxNodes = 52

// ErrTooWide is returned when a bit vector exceeds MaxNodes.
var ErrTooWide = fmt.Errorf("state: more than %d nodes cannot be encoded", MaxNodes)

// Encode packs a bit vector into an integer. bits[i] must be 0 or 1; any
// non-zero value counts as 1.
func Encode(bits []uint8) (uint64, error) {
	if len(bits) > MaxNodes {
		return 0, ErrTooWide
	}
	var x uint64
	for i, b := range bits {
		if b != 0 {
			x |= 1 << uint(i)
		}
	}
	return x, nil
}

// Decode unpacks an integer into the caller's bit buffer. The buffer length
// determines how many bits are read.
func Decode(x uint64, bits []uint8) {
	for i := range bits {
		bits[i] = uint8((x >> uint(i)) & 1)
	}
}

// Bit returns bit i of an encoded state.
func Bit(x uint64, i int) uint8 {
	return uint8((x >> uint(i)) & 1)
}

// WithBit returns x with bit i forced to b.
func WithBit(x uint64, i int, b uint8) uint64 {
	if b != 0 {
		return x | (1 << uint(i))
	}
	return x &^ (1 << uint(i))
}

// Snapshot is a human-readable view of one encoded state. Values is keyed
// by node id; when a node carries a label distinct from its id the same
// value appears under the label as a derived alias. The encoded integer
// remains the single source of truth.
type Snapshot struct {
	Key    uint64         `json:"key"`
	Binary string         `json:"binary"`
	Values map[string]int `json:"values"`
}

// Format renders an encoded state against a node order. labels maps node
// id to display label for nodes where the two differ; pass nil when ids
// and labels coincide. The binary string lists bit 0 leftmost, matching
// declaration order.
func Format(x uint64, order []string, labels map[string]string) Snapshot {
	var sb strings.Builder
	values := make(map[string]int, len(order))
	for i, id := range order {
		b := int(Bit(x, i))
		if b == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
		values[id] = b
		if label, ok := labels[id]; ok && label != id {
			values[label] = b
		}
	}
	return Snapshot{Key: x, Binary: sb.String(), Values: values}
}

// Fingerprint returns a short deterministic hash of a node order. Cache
// keys pair it with rule text so a compiled program is never reused across
// a reordered network.
func Fingerprint(order []string) string {
	h := sha256.New()
	for _, id := range order {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
