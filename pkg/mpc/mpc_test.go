package mpc_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dreyvor/ADVPETs-projects/internal/nettest"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/expr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/field"
	"github.com/Dreyvor/ADVPETs-projects/pkg/party"
)

// Scenario 1: sum of three parties' secrets.
func TestScenarioSumOfThree(t *testing.T) {
	parties := party.IDSlice{"alice", "bob", "carol"}.Sorted()
	a, b, c := expr.NewSecret(), expr.NewSecret(), expr.NewSecret()
	root := expr.Add(expr.Add(a, b), c)

	nonce := expr.NewRunNonce()
	expr.BindOpIDs(root, nonce)

	inputs := map[party.ID]map[expr.SecretID]field.Elem{
		"alice": {a.ID(): field.New(3)},
		"bob":   {b.ID(): field.New(14)},
		"carol": {c.ID(): field.New(2)},
	}

	net := nettest.New(parties)
	defer net.Close()

	results, err := mpc.RunCircuit(parties, inputs, root, net)
	require.NoError(t, err)
	for _, id := range parties {
		assert.Equal(t, field.New(19), results[id], "party %s", id)
	}
}

// Scenario 2: mixed expression with a public scalar.
// (a*5 + b - c) + 9 = (3*5+14-2)+9 = 36
func TestScenarioMixedWithScalar(t *testing.T) {
	parties := party.IDSlice{"alice", "bob", "carol"}.Sorted()
	a, b, c := expr.NewSecret(), expr.NewSecret(), expr.NewSecret()
	five := expr.NewScalar(field.New(5))
	nine := expr.NewScalar(field.New(9))
	root := expr.Add(expr.Sub(expr.Add(expr.Mul(a, five), b), c), nine)

	nonce := expr.NewRunNonce()
	expr.BindOpIDs(root, nonce)

	inputs := map[party.ID]map[expr.SecretID]field.Elem{
		"alice": {a.ID(): field.New(3)},
		"bob":   {b.ID(): field.New(14)},
		"carol": {c.ID(): field.New(2)},
	}

	net := nettest.New(parties)
	defer net.Close()

	results, err := mpc.RunCircuit(parties, inputs, root, net)
	require.NoError(t, err)
	for _, id := range parties {
		assert.Equal(t, field.New(36), results[id], "party %s", id)
	}
}

// Scenario 3: three pairwise products, each requiring a Beaver triple.
// a*b + b*c + c*a = 3*14 + 14*2 + 2*3 = 76
func TestScenarioThreePairwiseProducts(t *testing.T) {
	parties := party.IDSlice{"alice", "bob", "carol"}.Sorted()
	a, b, c := expr.NewSecret(), expr.NewSecret(), expr.NewSecret()
	root := expr.Add(expr.Add(expr.Mul(a, b), expr.Mul(b, c)), expr.Mul(c, a))

	nonce := expr.NewRunNonce()
	expr.BindOpIDs(root, nonce)

	inputs := map[party.ID]map[expr.SecretID]field.Elem{
		"alice": {a.ID(): field.New(3)},
		"bob":   {b.ID(): field.New(14)},
		"carol": {c.ID(): field.New(2)},
	}

	net := nettest.New(parties)
	defer net.Close()

	results, err := mpc.RunCircuit(parties, inputs, root, net)
	require.NoError(t, err)
	for _, id := range parties {
		assert.Equal(t, field.New(76), results[id], "party %s", id)
	}
}

// A2: the circuit result is correct for repeated independent runs, each
// drawing a fresh RunNonce, confirming that re-binding op-ids does not stale
// any per-run state held by the Network / Beaver-triple generator.
func TestRepeatedIndependentRuns(t *testing.T) {
	parties := party.IDSlice{"alice", "bob"}.Sorted()

	for i := 0; i < 5; i++ {
		a, b := expr.NewSecret(), expr.NewSecret()
		root := expr.Mul(a, b)
		expr.BindOpIDs(root, expr.NewRunNonce())

		inputs := map[party.ID]map[expr.SecretID]field.Elem{
			"alice": {a.ID(): field.New(6)},
			"bob":   {b.ID(): field.New(7)},
		}

		net := nettest.New(parties)
		results, err := mpc.RunCircuit(parties, inputs, root, net)
		net.Close()
		require.NoError(t, err)
		for _, id := range parties {
			assert.Equal(t, field.New(42), results[id])
		}
	}
}

// A3: concurrently running several unrelated circuits against independent
// Network instances does not cross-contaminate results.
func TestConcurrentCircuitsAreIndependent(t *testing.T) {
	parties := party.IDSlice{"alice", "bob"}.Sorted()

	const runs = 8
	var wg sync.WaitGroup
	wg.Add(runs)
	errs := make([]error, runs)
	oks := make([]bool, runs)

	for i := 0; i < runs; i++ {
		i := i
		go func() {
			defer wg.Done()
			a, b := expr.NewSecret(), expr.NewSecret()
			root := expr.Add(a, b)
			expr.BindOpIDs(root, expr.NewRunNonce())

			inputs := map[party.ID]map[expr.SecretID]field.Elem{
				"alice": {a.ID(): field.New(uint64(i))},
				"bob":   {b.ID(): field.New(uint64(i * 2))},
			}

			net := nettest.New(parties)
			defer net.Close()
			results, err := mpc.RunCircuit(parties, inputs, root, net)
			if err != nil {
				errs[i] = err
				return
			}
			oks[i] = results["alice"] == field.New(uint64(i+i*2)) && results["bob"] == field.New(uint64(i+i*2))
		}()
	}
	wg.Wait()

	for i := 0; i < runs; i++ {
		require.NoError(t, errs[i])
		assert.True(t, oks[i], "run %d produced an inconsistent result", i)
	}
}
