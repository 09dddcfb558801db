// Package pool provides a small bounded worker pool used to fan out
// independent per-item cryptographic work: Beaver-triple generation across
// distinct multiplication op-ids (pkg/mpc/ttp.Generator.Precompute, which
// runs the generations one at a time under its own mutex), and
// NIZK response computation across distinct attribute indices
// (pkg/creds/ps's issuance and showing proofs). It plays the same role as
// the *pool.Pool handle threaded through every protocol entry point in the
// teacher (pl *pool.Pool), built on golang.org/x/sync/errgroup (already a
// teacher dependency, used the same way in pkg/mpc/circuit.go's
// RunCircuit) rather than a hand-rolled channel/WaitGroup pair.
package pool

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs a bounded number of workers. A zero-value Pool created with
// NewPool(0) sizes itself to GOMAXPROCS, matching the teacher's convention
// that 0 means "use all available cores".
type Pool struct {
	workers int
}

// NewPool creates a Pool with the given worker count. n <= 0 selects
// runtime.GOMAXPROCS(0).
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: n}
}

// TearDown releases pool resources. The in-memory Pool holds none, but the
// method is kept so call sites mirror the teacher's defer pl.TearDown().
func (p *Pool) TearDown() {}

// Map applies fn to every index in [0,n) using up to p.workers goroutines
// concurrently, via an errgroup.Group capped with SetLimit, and returns once
// every call has completed. It is the workhorse behind
// ttp.Generator.Precompute and parallel NIZK response computation; fn must
// report its own errors through a side channel (e.g. writing into a
// caller-owned slice by index) since Map itself does not propagate one.
func (p *Pool) Map(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
