// Package wire CBOR-encodes Core B's kyber-backed types for transport
// between a credential service's client and server, the way
// pkg/mpc/wire.go encodes Core A's field elements and stroll.py passes
// jsonpickle-encoded bytes between Server and Client (SPEC_FULL.md §6).
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"go.dedis.ch/kyber/v4"

	"github.com/Dreyvor/ADVPETs-projects/pkg/apperr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/creds/ps"
)

// attrBytes is the wire form of ps.AttributeMap: an index keyed map of
// canonical scalar encodings, so the receiver can reassemble the attribute
// vector without depending on slice order.
type attrBytes map[int][]byte

func encodeAttrs(m ps.AttributeMap) (attrBytes, error) {
	out := make(attrBytes, len(m))
	for _, a := range m {
		data, err := a.Value.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out[a.Index] = data
	}
	return out, nil
}

func decodeAttrs(suite ps.Suite, raw attrBytes) (ps.AttributeMap, error) {
	out := make(ps.AttributeMap, 0, len(raw))
	for idx, data := range raw {
		v := suite.G1().Scalar()
		if err := v.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		out = append(out, ps.AttrScalar{Index: idx, Value: v})
	}
	return out.Sorted(), nil
}

// pointBytes is the wire form of an indexed group-element vector ({Y_i} or
// {Ŷ_i}), keyed by attribute index.
type pointBytes map[int][]byte

func encodePoints(pts []ps.AttrPoint) (pointBytes, error) {
	out := make(pointBytes, len(pts))
	for _, p := range pts {
		data, err := p.Value.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out[p.Index] = data
	}
	return out, nil
}

func decodePoints(group kyber.Group, raw pointBytes) ([]ps.AttrPoint, error) {
	out := make([]ps.AttrPoint, 0, len(raw))
	for idx, data := range raw {
		p := group.Point()
		if err := p.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		out = append(out, ps.AttrPoint{Index: idx, Value: p})
	}
	return out, nil
}

type publicKeyWire struct {
	G  []byte
	Y  pointBytes
	G2 []byte
	X2 []byte
	Y2 pointBytes
}

// EncodePublicKey CBOR-encodes pk's compressed group elements.
func EncodePublicKey(pk *ps.PublicKey) ([]byte, error) {
	g, err := pk.G.MarshalBinary()
	if err != nil {
		return nil, err
	}
	g2, err := pk.G2.MarshalBinary()
	if err != nil {
		return nil, err
	}
	x2, err := pk.X2.MarshalBinary()
	if err != nil {
		return nil, err
	}
	y, err := encodePoints(pk.Y)
	if err != nil {
		return nil, err
	}
	y2, err := encodePoints(pk.Y2)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(publicKeyWire{G: g, Y: y, G2: g2, X2: x2, Y2: y2})
}

// DecodePublicKey reverses EncodePublicKey.
func DecodePublicKey(suite ps.Suite, data []byte) (*ps.PublicKey, error) {
	var w publicKeyWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, apperr.New(apperr.InvalidInput, fmt.Errorf("wire: decode public key: %w", err))
	}
	g := suite.G1().Point()
	if err := g.UnmarshalBinary(w.G); err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	g2 := suite.G2().Point()
	if err := g2.UnmarshalBinary(w.G2); err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	x2 := suite.G2().Point()
	if err := x2.UnmarshalBinary(w.X2); err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	y, err := decodePoints(suite.G1(), w.Y)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	y2, err := decodePoints(suite.G2(), w.Y2)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	return &ps.PublicKey{G: g, Y: y, G2: g2, X2: x2, Y2: y2}, nil
}

type signatureWire struct {
	H []byte
	S []byte
}

func encodeSignature(sig ps.Signature) (signatureWire, error) {
	h, err := sig.H.MarshalBinary()
	if err != nil {
		return signatureWire{}, err
	}
	s, err := sig.S.MarshalBinary()
	if err != nil {
		return signatureWire{}, err
	}
	return signatureWire{H: h, S: s}, nil
}

func decodeSignature(suite ps.Suite, w signatureWire) (ps.Signature, error) {
	h := suite.G1().Point()
	if err := h.UnmarshalBinary(w.H); err != nil {
		return ps.Signature{}, err
	}
	s := suite.G1().Point()
	if err := s.UnmarshalBinary(w.S); err != nil {
		return ps.Signature{}, err
	}
	return ps.Signature{H: h, S: s}, nil
}

type credentialWire struct {
	Sig   signatureWire
	Attrs attrBytes
}

// EncodeCredential CBOR-encodes a credential for client-side storage.
func EncodeCredential(cred *ps.Credential) ([]byte, error) {
	sig, err := encodeSignature(cred.Sig)
	if err != nil {
		return nil, err
	}
	attrs, err := encodeAttrs(cred.Attrs)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(credentialWire{Sig: sig, Attrs: attrs})
}

// DecodeCredential reverses EncodeCredential.
func DecodeCredential(suite ps.Suite, data []byte) (*ps.Credential, error) {
	var w credentialWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, apperr.New(apperr.InvalidInput, fmt.Errorf("wire: decode credential: %w", err))
	}
	sig, err := decodeSignature(suite, w.Sig)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	attrs, err := decodeAttrs(suite, w.Attrs)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	return &ps.Credential{Sig: sig, Attrs: attrs}, nil
}

type disclosureProofWire struct {
	Sigma1    []byte
	Sigma2    []byte
	Disclosed attrBytes
	Hidden    []int
	Rt        []byte
	Ri        pointBytes
	Challenge []byte
	St        []byte
	Si        attrBytes
	Message   []byte
}

// EncodeDisclosureProof CBOR-encodes a showing for transport from client to
// server.
func EncodeDisclosureProof(proof *ps.DisclosureProof) ([]byte, error) {
	sigma1, err := proof.Sigma1.MarshalBinary()
	if err != nil {
		return nil, err
	}
	sigma2, err := proof.Sigma2.MarshalBinary()
	if err != nil {
		return nil, err
	}
	rt, err := proof.Rt.MarshalBinary()
	if err != nil {
		return nil, err
	}
	challenge, err := proof.Challenge.MarshalBinary()
	if err != nil {
		return nil, err
	}
	st, err := proof.St.MarshalBinary()
	if err != nil {
		return nil, err
	}
	disclosed, err := encodeAttrs(proof.Disclosed)
	if err != nil {
		return nil, err
	}
	ri, err := encodePoints(proof.Ri)
	if err != nil {
		return nil, err
	}
	si, err := encodeAttrs(proof.Si)
	if err != nil {
		return nil, err
	}

	return cbor.Marshal(disclosureProofWire{
		Sigma1:    sigma1,
		Sigma2:    sigma2,
		Disclosed: disclosed,
		Hidden:    proof.Hidden,
		Rt:        rt,
		Ri:        ri,
		Challenge: challenge,
		St:        st,
		Si:        si,
		Message:   proof.Message,
	})
}

// DecodeDisclosureProof reverses EncodeDisclosureProof.
func DecodeDisclosureProof(suite ps.Suite, data []byte) (*ps.DisclosureProof, error) {
	var w disclosureProofWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, apperr.New(apperr.InvalidInput, fmt.Errorf("wire: decode disclosure proof: %w", err))
	}

	sigma1 := suite.G1().Point()
	if err := sigma1.UnmarshalBinary(w.Sigma1); err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	sigma2 := suite.G1().Point()
	if err := sigma2.UnmarshalBinary(w.Sigma2); err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	rt := suite.G2().Point()
	if err := rt.UnmarshalBinary(w.Rt); err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	challenge := suite.G1().Scalar()
	if err := challenge.UnmarshalBinary(w.Challenge); err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	st := suite.G1().Scalar()
	if err := st.UnmarshalBinary(w.St); err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	disclosed, err := decodeAttrs(suite, w.Disclosed)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	ri, err := decodePoints(suite.G1(), w.Ri)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}
	si, err := decodeAttrs(suite, w.Si)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, err)
	}

	return &ps.DisclosureProof{
		Sigma1:    sigma1,
		Sigma2:    sigma2,
		Disclosed: disclosed,
		Hidden:    w.Hidden,
		Rt:        rt,
		Ri:        ri,
		Challenge: challenge,
		St:        st,
		Si:        si,
		Message:   w.Message,
	}, nil
}
