package ps

import (
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/util/random"

	"github.com/Dreyvor/ADVPETs-projects/pkg/apperr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/pool"
)

// IssuanceProof is the Schnorr-style NIZK of knowledge of (t, {a_i}_U)
// accompanying a commitment, per SPEC_FULL.md §4.6.
type IssuanceProof struct {
	Rt        kyber.Point // g^{t*}
	Ri        []AttrPoint // Y_i^{a_i*}, one per user-held index
	Challenge kyber.Scalar
	St        kyber.Scalar
	Si        AttributeMap // responses, one per user-held index
}

// IssuanceRequest is the client's commitment plus its proof of knowledge.
type IssuanceRequest struct {
	Commitment kyber.Point
	Proof      IssuanceProof
}

// BlindSignature is the issuer's response before the client unblinds it.
type BlindSignature struct {
	Sigma1 kyber.Point
	Sigma2 kyber.Point
}

// Credential is a signature together with the full attribute vector it
// verifies on.
type Credential struct {
	Sig   Signature
	Attrs AttributeMap
}

// CreateIssuanceRequest builds the client's commitment to its own attributes
// (e.g. index 0, the user secret attribute) and a NIZK of knowledge of the
// opening, per SPEC_FULL.md §4.6's "Client commit" step. It returns the
// blinding factor t, which the caller must retain for ObtainCredential.
func CreateIssuanceRequest(suite Suite, pk *PublicKey, userAttrs AttributeMap) (*IssuanceRequest, kyber.Scalar, error) {
	rnd := random.New()
	userAttrs = userAttrs.Sorted()

	t := suite.G1().Scalar().Pick(rnd)
	commitment := suite.G1().Point().Mul(t, pk.G)
	for _, a := range userAttrs {
		yi, ok := pk.y1(a.Index)
		if !ok {
			return nil, nil, apperr.New(apperr.InvalidInput, fmt.Errorf("ps: key has no attribute index %d", a.Index))
		}
		term := suite.G1().Point().Mul(a.Value, yi)
		commitment = suite.G1().Point().Add(commitment, term)
	}

	tStar := suite.G1().Scalar().Pick(rnd)
	rt := suite.G1().Point().Mul(tStar, pk.G)

	riStar := make(AttributeMap, len(userAttrs))
	ri := make([]AttrPoint, len(userAttrs))
	for idx, a := range userAttrs {
		yi, _ := pk.y1(a.Index)
		star := suite.G1().Scalar().Pick(rnd)
		riStar[idx] = AttrScalar{Index: a.Index, Value: star}
		ri[idx] = AttrPoint{Index: a.Index, Value: suite.G1().Point().Mul(star, yi)}
	}

	challenge := issuanceChallenge(suite, rt, pk, ri, commitment)

	st := suite.G1().Scalar().Add(tStar, suite.G1().Scalar().Mul(challenge, t))
	si := make(AttributeMap, len(userAttrs))
	pool.NewPool(0).Map(len(userAttrs), func(idx int) {
		a := userAttrs[idx]
		term := suite.G1().Scalar().Mul(challenge, a.Value)
		si[idx] = AttrScalar{Index: a.Index, Value: suite.G1().Scalar().Add(riStar[idx].Value, term)}
	})

	req := &IssuanceRequest{
		Commitment: commitment,
		Proof: IssuanceProof{
			Rt:        rt,
			Ri:        ri,
			Challenge: challenge,
			St:        st,
			Si:        si,
		},
	}
	return req, t, nil
}

func issuanceChallenge(suite Suite, rt kyber.Point, pk *PublicKey, ri []AttrPoint, commitment kyber.Point) kyber.Scalar {
	items := []marshaler{rt}
	for _, a := range sortedPoints(ri) {
		items = append(items, a.Value)
	}
	items = append(items, commitment)
	return HashToScalar(suite, append([][]byte{pk.Bytes()}, flatten(items)...)...)
}

func flatten(items []marshaler) [][]byte {
	out := make([][]byte, len(items))
	for i, item := range items {
		data, err := item.MarshalBinary()
		if err != nil {
			panic(err)
		}
		out[i] = data
	}
	return out
}

// verifyIssuanceProof checks the NIZK of SPEC_FULL.md §4.6's "Issuer verify"
// step: recompute the challenge and check the Schnorr response equation.
func verifyIssuanceProof(suite Suite, pk *PublicKey, req *IssuanceRequest) bool {
	c := issuanceChallenge(suite, req.Proof.Rt, pk, req.Proof.Ri, req.Commitment)
	if !c.Equal(req.Proof.Challenge) {
		return false
	}

	lhs := suite.G1().Point().Mul(req.Proof.St, pk.G)
	for _, s := range req.Proof.Si {
		yi, ok := pk.y1(s.Index)
		if !ok {
			return false
		}
		term := suite.G1().Point().Mul(s.Value, yi)
		lhs = suite.G1().Point().Add(lhs, term)
	}

	rhs := suite.G1().Point().Mul(req.Proof.Challenge, req.Commitment)
	rhs = suite.G1().Point().Add(rhs, req.Proof.Rt)
	for _, r := range req.Proof.Ri {
		rhs = suite.G1().Point().Add(rhs, r.Value)
	}

	return lhs.Equal(rhs)
}

// SignIssuanceRequest verifies the client's proof and returns a blind
// signature over the client's committed attributes plus the issuer-supplied
// ones, per SPEC_FULL.md §4.6's "Issuer verify + blind sign" step.
func SignIssuanceRequest(suite Suite, sk *SecretKey, pk *PublicKey, req *IssuanceRequest, issuerAttrs AttributeMap) (*BlindSignature, error) {
	if !verifyIssuanceProof(suite, pk, req) {
		return nil, apperr.New(apperr.ProofRejected, fmt.Errorf("ps: issuance proof of knowledge failed to verify"))
	}

	rnd := random.New()
	u := suite.G1().Scalar().Pick(rnd)
	sigma1 := suite.G1().Point().Mul(u, pk.G)

	inner := suite.G1().Point().Add(sk.X1, req.Commitment)
	for _, a := range issuerAttrs {
		yi, ok := pk.y1(a.Index)
		if !ok {
			return nil, apperr.New(apperr.InvalidInput, fmt.Errorf("ps: key has no attribute index %d", a.Index))
		}
		term := suite.G1().Point().Mul(a.Value, yi)
		inner = suite.G1().Point().Add(inner, term)
	}
	sigma2 := suite.G1().Point().Mul(u, inner)

	return &BlindSignature{Sigma1: sigma1, Sigma2: sigma2}, nil
}

// ObtainCredential unblinds the issuer's response and checks that the
// resulting signature verifies on the full attribute vector, per
// SPEC_FULL.md §4.6's "Client unblind" step.
func ObtainCredential(suite Suite, pk *PublicKey, resp *BlindSignature, t kyber.Scalar, allAttrs AttributeMap) (*Credential, error) {
	if resp.Sigma1.Equal(suite.G1().Point().Null()) {
		return nil, apperr.New(apperr.SignatureInvalid, fmt.Errorf("ps: blind signature has sigma1 = 1"))
	}

	blinding := suite.G1().Point().Mul(t, resp.Sigma1)
	s := suite.G1().Point().Sub(resp.Sigma2, blinding)
	sig := &Signature{H: resp.Sigma1, S: s}

	if !Verify(suite, pk, sig, allAttrs) {
		return nil, apperr.New(apperr.SignatureInvalid, fmt.Errorf("ps: unblinded signature failed to verify on the claimed attributes"))
	}
	return &Credential{Sig: *sig, Attrs: allAttrs.Sorted()}, nil
}
