package ps

import (
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/util/random"

	"github.com/Dreyvor/ADVPETs-projects/pkg/apperr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/pool"
)

// DisclosureProof is a randomized showing of a credential, disclosing D and
// binding a request message M while proving knowledge of the hidden
// attributes H (including the user's own secret one), per SPEC_FULL.md §4.7.
type DisclosureProof struct {
	Sigma1 kyber.Point // σ'_1, in G1
	Sigma2 kyber.Point // σ'_2, in G1

	Disclosed AttributeMap // D
	Hidden    []int        // index set H

	Rt        kyber.Point  // ĝ^{t*}, in G2
	Ri        []AttrPoint  // σ'_1^{a_i*}, in G1, one per hidden index
	Challenge kyber.Scalar
	St        kyber.Scalar
	Si        AttributeMap // responses, one per hidden index

	Message []byte
}

// CreateDisclosureProof randomizes cred's signature and builds a NIZK
// proving knowledge of the hidden attributes while disclosing the rest,
// bound to message, per SPEC_FULL.md §4.7.
func CreateDisclosureProof(suite Suite, pk *PublicKey, cred *Credential, hidden []int, message []byte) (*DisclosureProof, error) {
	rnd := random.New()
	null := suite.G1().Point().Null()

	r := suite.G1().Scalar().Pick(rnd)
	sigma1 := suite.G1().Point().Mul(r, cred.Sig.H)
	for sigma1.Equal(null) {
		r = suite.G1().Scalar().Pick(rnd)
		sigma1 = suite.G1().Point().Mul(r, cred.Sig.H)
	}

	t := suite.G1().Scalar().Pick(rnd)
	inner := suite.G1().Point().Add(cred.Sig.S, suite.G1().Point().Mul(t, cred.Sig.H))
	sigma2 := suite.G1().Point().Mul(r, inner)

	disclosed := cred.Attrs.Without(hidden)
	hiddenAttrs := cred.Attrs.Only(hidden)
	for _, i := range hidden {
		if _, ok := hiddenAttrs.Get(i); !ok {
			return nil, apperr.New(apperr.InvalidInput, fmt.Errorf("ps: credential has no attribute index %d to hide", i))
		}
	}

	tStar := suite.G1().Scalar().Pick(rnd)
	rt := suite.G2().Point().Mul(tStar, pk.G2)

	aStar := make(AttributeMap, len(hiddenAttrs))
	ri := make([]AttrPoint, len(hiddenAttrs))
	for idx, a := range hiddenAttrs {
		star := suite.G1().Scalar().Pick(rnd)
		aStar[idx] = AttrScalar{Index: a.Index, Value: star}
		ri[idx] = AttrPoint{Index: a.Index, Value: suite.G1().Point().Mul(star, sigma1)}
	}

	challenge := showingChallenge(suite, rt, pk, ri, disclosed, sigma1, sigma2, message)

	st := suite.G1().Scalar().Add(tStar, suite.G1().Scalar().Mul(challenge, t))
	si := make(AttributeMap, len(hiddenAttrs))
	pool.NewPool(0).Map(len(hiddenAttrs), func(idx int) {
		a := hiddenAttrs[idx]
		term := suite.G1().Scalar().Mul(challenge, a.Value)
		si[idx] = AttrScalar{Index: a.Index, Value: suite.G1().Scalar().Add(aStar[idx].Value, term)}
	})

	return &DisclosureProof{
		Sigma1:    sigma1,
		Sigma2:    sigma2,
		Disclosed: disclosed,
		Hidden:    append([]int(nil), hidden...),
		Rt:        rt,
		Ri:        ri,
		Challenge: challenge,
		St:        st,
		Si:        si,
		Message:   append([]byte(nil), message...),
	}, nil
}

func showingChallenge(suite Suite, rt kyber.Point, pk *PublicKey, ri []AttrPoint, disclosed AttributeMap, sigma1, sigma2 kyber.Point, message []byte) kyber.Scalar {
	items := []marshaler{rt}
	for _, a := range sortedPoints(ri) {
		items = append(items, a.Value)
	}
	for _, a := range disclosed.Sorted() {
		items = append(items, a.Value)
	}
	items = append(items, sigma1, sigma2)
	parts := append([][]byte{pk.Bytes()}, flatten(items)...)
	parts = append(parts, message)
	return HashToScalar(suite, parts...)
}

// VerifyDisclosureProof checks a showing against pk. After recomputing the
// challenge c, it checks the pairing equation
//
//	e(σ'_2, ĝ)^c = e(σ'_1, ĝ^{s_t}/R̂_t) · (e(σ'_1, X̂) · Π_D e(σ'_1, Ŷ_i^{a_i}))^c · Π_H e(σ'_1^{s_i}/R̂_i, Ŷ_i)
//
// which holds for the responses s = nonce + c·secret that
// CreateDisclosureProof computes. It rejects σ'_1 = 1 and any tampering with
// the disclosed attributes, the bound message, or the randomized signature.
func VerifyDisclosureProof(suite Suite, pk *PublicKey, proof *DisclosureProof) bool {
	if proof.Sigma1.Equal(suite.G1().Point().Null()) {
		return false
	}

	c := showingChallenge(suite, proof.Rt, pk, proof.Ri, proof.Disclosed, proof.Sigma1, proof.Sigma2, proof.Message)
	if !c.Equal(proof.Challenge) {
		return false
	}

	lhs := suite.Pair(suite.G1().Point().Mul(c, proof.Sigma2), pk.G2)
	cSigma1 := suite.G1().Point().Mul(c, proof.Sigma1)

	stG2 := suite.G2().Point().Mul(proof.St, pk.G2)
	bracket := suite.G2().Point().Sub(stG2, proof.Rt)
	rhs := suite.Pair(proof.Sigma1, bracket)

	rhs = suite.GT().Point().Add(rhs, suite.Pair(cSigma1, pk.X2))

	for _, a := range proof.Disclosed {
		y2i, ok := pk.y2(a.Index)
		if !ok {
			return false
		}
		term := suite.G2().Point().Mul(a.Value, y2i)
		rhs = suite.GT().Point().Add(rhs, suite.Pair(cSigma1, term))
	}

	for _, s := range proof.Si {
		y2i, ok := pk.y2(s.Index)
		if !ok {
			return false
		}
		ri, ok := findAttrPoint(proof.Ri, s.Index)
		if !ok {
			return false
		}
		siSigma1 := suite.G1().Point().Mul(s.Value, proof.Sigma1)
		g1Term := suite.G1().Point().Sub(siSigma1, ri)
		rhs = suite.GT().Point().Add(rhs, suite.Pair(g1Term, y2i))
	}

	return lhs.Equal(rhs)
}

func findAttrPoint(pts []AttrPoint, index int) (kyber.Point, bool) {
	for _, p := range pts {
		if p.Index == index {
			return p.Value, true
		}
	}
	return nil, false
}
