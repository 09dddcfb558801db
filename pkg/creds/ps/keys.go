package ps

import (
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/util/random"

	"github.com/Dreyvor/ADVPETs-projects/pkg/apperr"
)

// SecretKey is the issuer's private signing material, (x, g^x, {y_i}) per
// SPEC_FULL.md §4.5.
type SecretKey struct {
	X  kyber.Scalar
	X1 kyber.Point // g^x, in G1; used when blind-signing an issuance request
	Y  AttributeMap
}

// PublicKey is the issuer's verification material, (g, {Y_i}, ĝ, X̂, {Ŷ_i}).
type PublicKey struct {
	G  kyber.Point // G1 generator
	Y  []AttrPoint // G1, g^{y_i}
	G2 kyber.Point // G2 generator
	X2 kyber.Point // G2, ĝ^x
	Y2 []AttrPoint // G2, ĝ^{y_i}
}

func (pk *PublicKey) y1(i int) (kyber.Point, bool) {
	for _, a := range pk.Y {
		if a.Index == i {
			return a.Value, true
		}
	}
	return nil, false
}

func (pk *PublicKey) y2(i int) (kyber.Point, bool) {
	for _, a := range pk.Y2 {
		if a.Index == i {
			return a.Value, true
		}
	}
	return nil, false
}

// Bytes is the canonical encoding of pk used as Fiat-Shamir transcript
// material in every NIZK this package computes, per SPEC_FULL.md §6.
func (pk *PublicKey) Bytes() []byte {
	items := []marshaler{pk.G, pk.G2, pk.X2}
	for _, a := range sortedPoints(pk.Y) {
		items = append(items, a.Value)
	}
	for _, a := range sortedPoints(pk.Y2) {
		items = append(items, a.Value)
	}
	return marshalMany(items...)
}

func sortedPoints(pts []AttrPoint) []AttrPoint {
	out := make([]AttrPoint, len(pts))
	copy(out, pts)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Index < out[j-1].Index; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// KeyGen produces an issuer keypair supporting attribute indices
// (SPEC_FULL.md §4.5's KeyGen(L), generalized to an explicit index set so
// index 0 can be reserved for the user secret attribute per §4.8).
func KeyGen(suite Suite, attrIndices []int) (*SecretKey, *PublicKey, error) {
	if len(attrIndices) == 0 {
		return nil, nil, apperr.New(apperr.InvalidInput, fmt.Errorf("ps: KeyGen requires at least one attribute index"))
	}
	seen := make(map[int]bool, len(attrIndices))
	for _, i := range attrIndices {
		if seen[i] {
			return nil, nil, apperr.New(apperr.InvalidInput, fmt.Errorf("ps: duplicate attribute index %d", i))
		}
		seen[i] = true
	}

	rnd := random.New()
	g := suite.G1().Point().Base()
	g2 := suite.G2().Point().Base()

	x := suite.G1().Scalar().Pick(rnd)
	x1 := suite.G1().Point().Mul(x, g)
	x2 := suite.G2().Point().Mul(x, g2)

	y := make(AttributeMap, len(attrIndices))
	y1 := make([]AttrPoint, len(attrIndices))
	y2 := make([]AttrPoint, len(attrIndices))
	for idx, i := range attrIndices {
		yi := suite.G1().Scalar().Pick(rnd)
		y[idx] = AttrScalar{Index: i, Value: yi}
		y1[idx] = AttrPoint{Index: i, Value: suite.G1().Point().Mul(yi, g)}
		y2[idx] = AttrPoint{Index: i, Value: suite.G2().Point().Mul(yi, g2)}
	}

	sk := &SecretKey{X: x, X1: x1, Y: y}
	pk := &PublicKey{G: g, Y: y1, G2: g2, X2: x2, Y2: y2}
	return sk, pk, nil
}
