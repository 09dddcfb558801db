package ps

import (
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/util/random"

	"github.com/Dreyvor/ADVPETs-projects/pkg/apperr"
)

// Signature is a PS signature (h, s) ∈ G1×G1.
type Signature struct {
	H kyber.Point
	S kyber.Point
}

// Sign produces a fresh PS signature on msgs, per SPEC_FULL.md §4.5.
// It samples a new h on every call, matching the spec.md §5 requirement
// that Sign never reuses randomness across calls.
func Sign(suite Suite, sk *SecretKey, msgs AttributeMap) (*Signature, error) {
	if len(msgs) > len(sk.Y) {
		return nil, apperr.New(apperr.InvalidInput, fmt.Errorf("ps: %d attributes exceed the %d the key supports", len(msgs), len(sk.Y)))
	}

	rnd := random.New()
	null := suite.G1().Point().Null()
	h := suite.G1().Point().Pick(rnd)
	for h.Equal(null) {
		h = suite.G1().Point().Pick(rnd)
	}

	exponent := sk.X.Clone()
	for _, m := range msgs {
		yi, ok := sk.Y.Get(m.Index)
		if !ok {
			return nil, apperr.New(apperr.InvalidInput, fmt.Errorf("ps: key has no attribute index %d", m.Index))
		}
		term := suite.G1().Scalar().Mul(yi, m.Value)
		exponent = suite.G1().Scalar().Add(exponent, term)
	}

	s := suite.G1().Point().Mul(exponent, h)
	return &Signature{H: h, S: s}, nil
}

// Verify checks a PS signature against pk and msgs (SPEC_FULL.md §4.5),
// rejecting h = 1 as the spec's edge case requires.
func Verify(suite Suite, pk *PublicKey, sig *Signature, msgs AttributeMap) bool {
	if sig.H.Equal(suite.G1().Point().Null()) {
		return false
	}
	if len(msgs) > len(pk.Y2) {
		return false
	}

	acc := suite.G2().Point().Null()
	for _, m := range msgs {
		y2i, ok := pk.y2(m.Index)
		if !ok {
			return false
		}
		term := suite.G2().Point().Mul(m.Value, y2i)
		acc = suite.G2().Point().Add(acc, term)
	}
	rhsExp := suite.G2().Point().Add(pk.X2, acc)

	lhs := suite.Pair(sig.H, rhsExp)
	rhs := suite.Pair(sig.S, pk.G2)
	return lhs.Equal(rhs)
}
