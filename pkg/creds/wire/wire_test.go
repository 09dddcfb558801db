package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dreyvor/ADVPETs-projects/pkg/creds/ps"
	"github.com/Dreyvor/ADVPETs-projects/pkg/creds/wire"
)

func attrs(suite ps.Suite, values ...uint64) ps.AttributeMap {
	out := make(ps.AttributeMap, len(values))
	for i, v := range values {
		out[i] = ps.AttrScalar{Index: i, Value: suite.G1().Scalar().SetInt64(int64(v))}
	}
	return out
}

func TestPublicKeyRoundTrip(t *testing.T) {
	suite := ps.NewSuite()
	_, pk, err := ps.KeyGen(suite, []int{0, 1, 2})
	require.NoError(t, err)

	data, err := wire.EncodePublicKey(pk)
	require.NoError(t, err)

	decoded, err := wire.DecodePublicKey(suite, data)
	require.NoError(t, err)

	assert.True(t, pk.G.Equal(decoded.G))
	assert.True(t, pk.G2.Equal(decoded.G2))
	assert.True(t, pk.X2.Equal(decoded.X2))
	assert.Equal(t, len(pk.Y), len(decoded.Y))
	assert.Equal(t, len(pk.Y2), len(decoded.Y2))
}

func TestCredentialRoundTrip(t *testing.T) {
	suite := ps.NewSuite()
	sk, pk, err := ps.KeyGen(suite, []int{0, 1})
	require.NoError(t, err)

	m := attrs(suite, 7, 8)
	sig, err := ps.Sign(suite, sk, m)
	require.NoError(t, err)
	cred := &ps.Credential{Sig: *sig, Attrs: m.Sorted()}

	data, err := wire.EncodeCredential(cred)
	require.NoError(t, err)

	decoded, err := wire.DecodeCredential(suite, data)
	require.NoError(t, err)

	assert.True(t, ps.Verify(suite, pk, &decoded.Sig, decoded.Attrs))
}

func TestDisclosureProofRoundTrip(t *testing.T) {
	suite := ps.NewSuite()
	sk, pk, err := ps.KeyGen(suite, []int{0, 1, 2})
	require.NoError(t, err)

	userAttrs := attrs(suite, 9)
	req, tBlind, err := ps.CreateIssuanceRequest(suite, pk, userAttrs)
	require.NoError(t, err)

	issuerAttrs := ps.AttributeMap{
		{Index: 1, Value: suite.G1().Scalar().SetInt64(10)},
		{Index: 2, Value: suite.G1().Scalar().SetInt64(11)},
	}
	blind, err := ps.SignIssuanceRequest(suite, sk, pk, req, issuerAttrs)
	require.NoError(t, err)

	all := ps.AttributeMap{{Index: 0, Value: userAttrs[0].Value}}.Merge(issuerAttrs)
	cred, err := ps.ObtainCredential(suite, pk, blind, tBlind, all)
	require.NoError(t, err)

	message := []byte("48.85,2.35")
	proof, err := ps.CreateDisclosureProof(suite, pk, cred, []int{0, 2}, message)
	require.NoError(t, err)

	data, err := wire.EncodeDisclosureProof(proof)
	require.NoError(t, err)

	decoded, err := wire.DecodeDisclosureProof(suite, data)
	require.NoError(t, err)

	assert.True(t, ps.VerifyDisclosureProof(suite, pk, decoded))
	assert.Equal(t, proof.Hidden, decoded.Hidden)
	assert.Equal(t, proof.Message, decoded.Message)
}
