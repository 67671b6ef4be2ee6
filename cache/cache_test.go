package cache

import (
	"errors"
	"testing"

	"github.com/boolnet-xyz/go-boolnet/explore"
	"github.com/boolnet-xyz/go-boolnet/expr"
	"github.com/boolnet-xyz/go-boolnet/state"
)

func resolver(name string) (int, bool) {
	switch name {
	case "A":
		return 0, true
	case "B":
		return 1, true
	}
	return 0, false
}

func compileAB(t *testing.T, expression string) *expr.Program {
	t.Helper()
	prog, err := expr.Compile(expression, resolver)
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestNewProgramCache(t *testing.T) {
	c := NewProgramCache(100)
	if c.Size() != 0 {
		t.Error("new cache should be empty")
	}
}

func TestProgramCachePutGet(t *testing.T) {
	c := NewProgramCache(100)
	fp := state.Fingerprint([]string{"A", "B"})
	prog := compileAB(t, "A AND B")

	c.Put("A AND B", fp, prog)

	if got := c.Get("A AND B", fp); got != prog {
		t.Error("should retrieve the same program")
	}
	if c.Get("A OR B", fp) != nil {
		t.Error("different rule text should miss")
	}
	// Same rule against a different node order must miss.
	other := state.Fingerprint([]string{"B", "A"})
	if c.Get("A AND B", other) != nil {
		t.Error("different node order should miss")
	}
}

func TestProgramCacheEviction(t *testing.T) {
	c := NewProgramCache(2)
	fp := state.Fingerprint([]string{"A", "B"})
	prog := compileAB(t, "A")

	c.Put("r1", fp, prog)
	c.Put("r2", fp, prog)
	c.Put("r3", fp, prog)

	if c.Size() != 2 {
		t.Errorf("size = %d, want 2 after eviction", c.Size())
	}
	// FIFO: the first entry is gone, the newest survives.
	if c.Get("r1", fp) != nil {
		t.Error("oldest entry should have been evicted")
	}
	if c.Get("r3", fp) == nil {
		t.Error("newest entry should survive")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestProgramCacheGetOrCompile(t *testing.T) {
	c := NewProgramCache(100)
	fp := state.Fingerprint([]string{"A", "B"})

	compileCount := 0
	compile := func() (*expr.Program, error) {
		compileCount++
		return expr.Compile("A AND B", resolver)
	}

	p1, err := c.GetOrCompile("A AND B", fp, compile)
	if err != nil {
		t.Fatal(err)
	}
	if compileCount != 1 {
		t.Error("should compile on first call")
	}

	p2, err := c.GetOrCompile("A AND B", fp, compile)
	if err != nil {
		t.Fatal(err)
	}
	if compileCount != 1 {
		t.Error("should not compile on second call")
	}
	if p1 != p2 {
		t.Error("should return the cached program")
	}
}

func TestProgramCacheGetOrCompileError(t *testing.T) {
	c := NewProgramCache(100)
	fp := state.Fingerprint([]string{"A"})
	wantErr := errors.New("boom")

	_, err := c.GetOrCompile("bad", fp, func() (*expr.Program, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected compile error, got %v", err)
	}
	if c.Size() != 0 {
		t.Error("failed compiles must not be cached")
	}
}

func TestProgramCacheStats(t *testing.T) {
	c := NewProgramCache(100)
	fp := state.Fingerprint([]string{"A", "B"})
	c.Put("r", fp, compileAB(t, "A"))

	c.Get("r", fp)     // hit
	c.Get("other", fp) // miss

	stats := c.Stats()
	if stats.Hits != 1 {
		t.Errorf("hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1", stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("hit rate = %f, want 0.5", stats.HitRate)
	}
}

func TestProgramCacheClear(t *testing.T) {
	c := NewProgramCache(100)
	fp := state.Fingerprint([]string{"A", "B"})
	c.Put("r1", fp, compileAB(t, "A"))
	c.Put("r2", fp, compileAB(t, "B"))

	c.Clear()

	if c.Size() != 0 {
		t.Error("cache should be empty after clear")
	}
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.Evictions != 0 {
		t.Error("clear should reset counters")
	}
}

func TestResultCachePutGet(t *testing.T) {
	c := NewResultCache(100)
	res := &explore.Result{TotalStateSpace: 4}

	c.Put("key", res)
	if c.Get("key") != res {
		t.Error("should retrieve the same result")
	}
	if c.Get("other") != nil {
		t.Error("unknown key should miss")
	}
}

func TestResultCacheGetOrCompute(t *testing.T) {
	c := NewResultCache(100)

	computeCount := 0
	compute := func() (*explore.Result, error) {
		computeCount++
		return &explore.Result{}, nil
	}

	r1, err := c.GetOrCompute("k", compute)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := c.GetOrCompute("k", compute)
	if err != nil {
		t.Fatal(err)
	}
	if computeCount != 1 {
		t.Errorf("compute ran %d times, want 1", computeCount)
	}
	if r1 != r2 {
		t.Error("should return the cached result")
	}
}

func TestResultCacheEviction(t *testing.T) {
	c := NewResultCache(2)
	c.Put("a", &explore.Result{})
	c.Put("b", &explore.Result{})
	c.Put("c", &explore.Result{})

	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
	if c.Get("a") != nil {
		t.Error("oldest entry should have been evicted")
	}
}
