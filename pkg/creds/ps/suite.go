// Package ps implements Pointcheval-Sanders signatures and the anonymous
// credential issuance/showing protocols built on top of them
// (SPEC_FULL.md §4.5-4.7), over the type-3 pairing exposed by
// go.dedis.ch/kyber/v4/pairing/bn254, the same pairing.Suite abstraction
// used in the retrieved kyber DKG example (G1()/G2()/GT()/Pair()).
package ps

import (
	"golang.org/x/crypto/sha3"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/pairing"
	"go.dedis.ch/kyber/v4/pairing/bn254"
)

// Suite is the pairing group family every PS operation is parameterized
// over. bn254 is the concrete curve; nothing in this package assumes more
// than the pairing.Suite contract, so swapping curves only touches NewSuite.
type Suite = pairing.Suite

// NewSuite returns the concrete pairing used by this service.
func NewSuite() Suite {
	return bn254.NewSuite()
}

// HashToScalar implements the HashToScalar primitive of SPEC_FULL.md §6:
// SHA3-512 over the concatenation of the given canonical encodings,
// interpreted big-endian and reduced mod p. kyber's Scalar.SetBytes performs
// the big-endian reduction for the target group's scalar field.
func HashToScalar(suite Suite, parts ...[]byte) kyber.Scalar {
	h := sha3.New512()
	for _, p := range parts {
		h.Write(p)
	}
	digest := h.Sum(nil)
	return suite.G1().Scalar().SetBytes(digest)
}

func marshalMany(items ...marshaler) []byte {
	var out []byte
	for _, item := range items {
		data, err := item.MarshalBinary()
		if err != nil {
			// Only invoked on kyber points/scalars just produced by this
			// package, whose MarshalBinary cannot fail.
			panic(err)
		}
		out = append(out, data...)
	}
	return out
}

// marshaler is satisfied by both kyber.Point and kyber.Scalar.
type marshaler interface {
	MarshalBinary() ([]byte, error)
}
