package ttp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/expr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/field"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/ttp"
	"github.com/Dreyvor/ADVPETs-projects/pkg/party"
)

func TestTripleConsistency(t *testing.T) {
	parties := party.IDSlice{"alice", "bob", "carol"}
	gen := ttp.New(parties)

	var opID expr.OpID
	opID[0] = 1

	var aSum, bSum, cSum field.Elem
	for _, p := range parties {
		tr, err := gen.Triple(p, opID)
		require.NoError(t, err)
		aSum = aSum.Add(tr.A)
		bSum = bSum.Add(tr.B)
		cSum = cSum.Add(tr.C)
	}

	assert.Equal(t, aSum.Mul(bSum), cSum, "sum of a-shares times sum of b-shares must equal sum of c-shares")
}

func TestTripleStableAcrossRequests(t *testing.T) {
	parties := party.IDSlice{"alice", "bob"}
	gen := ttp.New(parties)

	var opID expr.OpID
	opID[0] = 9

	first, err := gen.Triple("alice", opID)
	require.NoError(t, err)
	second, err := gen.Triple("alice", opID)
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeated requests for the same (party, op-id) must return the same triple")
}

func TestDistinctOpIDsGetDistinctTriples(t *testing.T) {
	parties := party.IDSlice{"alice", "bob"}
	gen := ttp.New(parties)

	var opA, opB expr.OpID
	opA[0], opB[0] = 1, 2

	a, err := gen.Triple("alice", opA)
	require.NoError(t, err)
	b, err := gen.Triple("alice", opB)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
