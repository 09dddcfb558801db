package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dreyvor/ADVPETs-projects/pkg/creds/ps"
	"github.com/Dreyvor/ADVPETs-projects/pkg/creds/service"
)

func registerClient(t *testing.T, suite ps.Suite, srv *service.Server, pk *ps.PublicKey, username string, subs []string) *service.Client {
	t.Helper()
	client := service.NewClient(suite, username)

	req, state, err := client.PrepareRegistration(pk, subs)
	require.NoError(t, err)

	blind, issuerAttrs, err := srv.ProcessRegistration(req, username, subs)
	require.NoError(t, err)

	_, err = client.ObtainCredential(blind, issuerAttrs, state)
	require.NoError(t, err)

	return client
}

// Scenario 5: issuance followed by a showing that discloses every
// subscription the user registered for.
func TestScenarioIssuanceAndFullShowing(t *testing.T) {
	suite := ps.NewSuite()
	srv := service.NewServer(suite)

	keys, err := srv.GenerateCA([]string{"gym", "bar", "office"})
	require.NoError(t, err)

	alice := registerClient(t, suite, srv, keys.PK, "alice", []string{"gym", "bar"})

	proof, err := alice.RequestLocation(48.85, 2.35, []string{"gym", "bar"})
	require.NoError(t, err)

	ok, err := srv.CheckRequestSignature([]byte("48.85,2.35"), []string{"gym", "bar"}, proof)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ElementsMatch(t, []string{"gym", "bar"}, srv.Subscriptions("alice"))
}

// Re-registering with an overlapping but distinct subscription set unions
// rather than replaces the server's record of what the user has.
func TestReregistrationUnionsSubscriptions(t *testing.T) {
	suite := ps.NewSuite()
	srv := service.NewServer(suite)
	keys, err := srv.GenerateCA([]string{"gym", "bar", "office"})
	require.NoError(t, err)

	registerClient(t, suite, srv, keys.PK, "alice", []string{"gym"})
	registerClient(t, suite, srv, keys.PK, "alice", []string{"bar"})

	assert.ElementsMatch(t, []string{"gym", "bar"}, srv.Subscriptions("alice"))
}

// Registering with an unsupported subscription is rejected as InvalidInput.
func TestRegistrationRejectsUnsupportedSubscription(t *testing.T) {
	suite := ps.NewSuite()
	srv := service.NewServer(suite)
	keys, err := srv.GenerateCA([]string{"gym"})
	require.NoError(t, err)

	client := service.NewClient(suite, "alice")
	req, _, err := client.PrepareRegistration(keys.PK, []string{"villa"})
	require.NoError(t, err)

	_, _, err = srv.ProcessRegistration(req, "alice", []string{"villa"})
	require.Error(t, err)
}

// Scenario 6: a showing produced by one client cannot be replayed as if it
// had authenticated a second client's registration — the disclosure proof
// is bound to the credential it was created from, not to a username, so
// "theft" here means presenting alice's valid showing while claiming bob's
// subscriptions; the check must still only accept what alice's own server
// record supports.
func TestScenarioCrossClientProofTheftRejected(t *testing.T) {
	suite := ps.NewSuite()
	srv := service.NewServer(suite)
	keys, err := srv.GenerateCA([]string{"gym", "bar"})
	require.NoError(t, err)

	alice := registerClient(t, suite, srv, keys.PK, "alice", []string{"gym"})
	_ = registerClient(t, suite, srv, keys.PK, "bob", []string{"bar"})

	aliceProof, err := alice.RequestLocation(1.0, 2.0, []string{"gym"})
	require.NoError(t, err)

	// Bob (who never registered "gym") tries to pass off alice's proof as
	// authorizing a request for "bar": the disclosed attribute for "bar"
	// is absent from alice's showing, so the check must fail.
	ok, err := srv.CheckRequestSignature([]byte("1,2"), []string{"bar"}, aliceProof)
	assert.Error(t, err)
	assert.False(t, ok)

	// The message bound into the proof cannot be swapped out after the
	// fact either.
	ok, err = srv.CheckRequestSignature([]byte("9,9"), []string{"gym"}, aliceProof)
	assert.Error(t, err)
	assert.False(t, ok)

	// The original request, for what alice actually registered, still
	// succeeds.
	ok, err = srv.CheckRequestSignature([]byte("1,2"), []string{"gym"}, aliceProof)
	require.NoError(t, err)
	assert.True(t, ok)
}

// Scenario 6, as spec'd literally: client1 and client2 both hold valid
// credentials for the same subscription, so their disclosed attribute
// values and bound message match; an attacker splices client2's showing
// randomization (Sigma1, Sigma2) onto client1's NIZK portion (Rt, Ri,
// Challenge, St, Si, Disclosed, Message). The spliced proof must still be
// rejected, because the challenge was transcript-bound to client1's
// original Sigma1/Sigma2 and no longer matches once they're swapped out.
func TestScenarioProofSplicingRejected(t *testing.T) {
	suite := ps.NewSuite()
	srv := service.NewServer(suite)
	keys, err := srv.GenerateCA([]string{"gym", "bar"})
	require.NoError(t, err)

	client1 := registerClient(t, suite, srv, keys.PK, "client1", []string{"gym"})
	client2 := registerClient(t, suite, srv, keys.PK, "client2", []string{"gym"})

	proof1, err := client1.RequestLocation(1.0, 1.0, []string{"gym"})
	require.NoError(t, err)
	proof2, err := client2.RequestLocation(1.0, 1.0, []string{"gym"})
	require.NoError(t, err)

	spliced := *proof1
	spliced.Sigma1 = proof2.Sigma1
	spliced.Sigma2 = proof2.Sigma2

	ok, err := srv.CheckRequestSignature([]byte("1,1"), []string{"gym"}, &spliced)
	require.NoError(t, err)
	assert.False(t, ok)
}
