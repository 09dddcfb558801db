package field_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/field"
)

func TestWrappingArithmetic(t *testing.T) {
	a := field.New(field.Q - 1)
	b := field.New(2)
	assert.Equal(t, field.New(1), a.Add(b))
	assert.Equal(t, field.New(field.Q-3), field.New(0).Sub(field.New(3)))
	assert.Equal(t, field.New(6), field.New(3).Mul(field.New(2)))
}

// A1: for any secret and any split into n shares, the shares sum to the
// secret mod Q.
func TestSplitReconstructRoundTrip(t *testing.T) {
	secret := field.New(424242)
	for n := 1; n <= 8; n++ {
		shares, err := field.Split(secret, n, rand.Reader)
		require.NoError(t, err)
		require.Len(t, shares, n)
		assert.Equal(t, secret, field.Reconstruct(shares))
	}
}

// A4: any n-1 parties' view of another party's share is uniform over
// [0,Q). We can't test distributional uniformity directly, but we can
// confirm that two splits of the same secret produce different shares with
// overwhelming probability, i.e. the sharing is randomized per call.
func TestSplitIsRandomized(t *testing.T) {
	secret := field.New(7)
	first, err := field.Split(secret, 3, rand.Reader)
	require.NoError(t, err)
	second, err := field.Split(secret, 3, rand.Reader)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
