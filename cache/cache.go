// Package cache provides caller-owned memoization for repeated analyses.
// Compiled rule programs are keyed by rule text plus a node-order
// fingerprint, so a program is never reused against a reordered network.
// Nothing here is global: the engines stay reentrant and callers decide
// cache lifetime.
package cache

import (
	"crypto/sha256"
	"sync"

	"github.com/boolnet-xyz/go-boolnet/explore"
	"github.com/boolnet-xyz/go-boolnet/expr"
)

// Stats reports cache effectiveness.
type Stats struct {
	Size      int     `json:"size"`
	MaxSize   int     `json:"maxSize"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hitRate"`
}

// programKey binds a rule text to the node order it was compiled against.
func programKey(rule, fingerprint string) string {
	h := sha256.Sum256([]byte(rule + "\x00" + fingerprint))
	return string(h[:])
}

// ProgramCache memoizes compiled update programs.
type ProgramCache struct {
	mu        sync.Mutex
	cache     map[string]*expr.Program
	order     []string
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewProgramCache creates a cache with the specified maximum size.
// When the cache is full, the oldest entry is evicted (FIFO).
// Set maxSize to 0 for an unlimited cache.
func NewProgramCache(maxSize int) *ProgramCache {
	return &ProgramCache{
		cache:   make(map[string]*expr.Program),
		maxSize: maxSize,
	}
}

// Get retrieves a compiled program, or nil on a miss.
func (c *ProgramCache) Get(rule, fingerprint string) *expr.Program {
	key := programKey(rule, fingerprint)
	c.mu.Lock()
	defer c.mu.Unlock()
	if prog, ok := c.cache[key]; ok {
		c.hits++
		return prog
	}
	c.misses++
	return nil
}

// Put stores a compiled program, evicting the oldest entry if full.
func (c *ProgramCache) Put(rule, fingerprint string, prog *expr.Program) {
	key := programKey(rule, fingerprint)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, prog)
}

func (c *ProgramCache) put(key string, prog *expr.Program) {
	if _, ok := c.cache[key]; ok {
		c.cache[key] = prog
		return
	}
	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.cache, oldest)
		c.evictions++
	}
	c.cache[key] = prog
	c.order = append(c.order, key)
}

// GetOrCompile returns the cached program or compiles, caches, and returns
// a fresh one. Compile errors are not cached.
func (c *ProgramCache) GetOrCompile(rule, fingerprint string, compile func() (*expr.Program, error)) (*expr.Program, error) {
	key := programKey(rule, fingerprint)

	c.mu.Lock()
	if prog, ok := c.cache[key]; ok {
		c.hits++
		c.mu.Unlock()
		return prog, nil
	}
	c.misses++
	c.mu.Unlock()

	prog, err := compile()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.put(key, prog)
	c.mu.Unlock()
	return prog, nil
}

// Size returns the current number of cached programs.
func (c *ProgramCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Clear removes all entries and resets counters.
func (c *ProgramCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*expr.Program)
	c.order = nil
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}

// Stats returns a snapshot of cache statistics.
func (c *ProgramCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   rate,
	}
}

// ResultCache memoizes whole exploration results under caller-chosen keys,
// typically a network fingerprint combined with an options digest.
type ResultCache struct {
	mu        sync.Mutex
	cache     map[string]*explore.Result
	order     []string
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewResultCache creates a result cache. Set maxSize to 0 for unlimited.
func NewResultCache(maxSize int) *ResultCache {
	return &ResultCache{
		cache:   make(map[string]*explore.Result),
		maxSize: maxSize,
	}
}

// Get retrieves a cached result, or nil on a miss.
func (c *ResultCache) Get(key string) *explore.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res, ok := c.cache[key]; ok {
		c.hits++
		return res
	}
	c.misses++
	return nil
}

// Put stores a result, evicting the oldest entry if full.
func (c *ResultCache) Put(key string, res *explore.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache[key]; ok {
		c.cache[key] = res
		return
	}
	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.cache, oldest)
		c.evictions++
	}
	c.cache[key] = res
	c.order = append(c.order, key)
}

// GetOrCompute returns the cached result or computes, caches, and returns
// a fresh one. Errors are not cached.
func (c *ResultCache) GetOrCompute(key string, compute func() (*explore.Result, error)) (*explore.Result, error) {
	if res := c.Get(key); res != nil {
		return res, nil
	}
	res, err := compute()
	if err != nil {
		return nil, err
	}
	c.Put(key, res)
	return res, nil
}

// Size returns the current number of cached results.
func (c *ResultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Clear removes all entries and resets counters.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*explore.Result)
	c.order = nil
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}

// Stats returns a snapshot of cache statistics.
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   rate,
	}
}
