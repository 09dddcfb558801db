package service

import (
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/util/random"

	"github.com/Dreyvor/ADVPETs-projects/pkg/apperr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/creds/ps"
)

// ClientState carries the blinding factor and secret attribute value across
// the PrepareRegistration / ObtainCredential boundary, the way stroll.py
// threads its (t, x) "State" tuple between prepare_registration and
// process_registration_response.
type ClientState struct {
	T            kyber.Scalar
	SecretAttr   kyber.Scalar
	Subscriptions []string
}

// Client holds one user's registration and credential state.
type Client struct {
	suite    ps.Suite
	username string

	pk   *ps.PublicKey
	subs []string
	cred *ps.Credential
}

// NewClient creates a Client for username, who has not yet registered.
func NewClient(suite ps.Suite, username string) *Client {
	return &Client{suite: suite, username: username}
}

// PrepareRegistration samples the user's own secret attribute (index 0),
// commits to it, and builds the issuance request the server will blind-sign.
func (c *Client) PrepareRegistration(pk *ps.PublicKey, subscriptions []string) (*ps.IssuanceRequest, *ClientState, error) {
	c.pk = pk
	c.subs = mergeUnique(c.subs, subscriptions)

	x := c.suite.G1().Scalar().Pick(random.New())
	userAttrs := ps.AttributeMap{{Index: 0, Value: x}}

	req, t, err := ps.CreateIssuanceRequest(c.suite, pk, userAttrs)
	if err != nil {
		return nil, nil, err
	}
	return req, &ClientState{T: t, SecretAttr: x, Subscriptions: subscriptions}, nil
}

// ObtainCredential unblinds the server's response into a usable credential.
func (c *Client) ObtainCredential(resp *ps.BlindSignature, issuerAttrs ps.AttributeMap, state *ClientState) (*ps.Credential, error) {
	if c.pk == nil {
		return nil, apperr.New(apperr.Internal, fmt.Errorf("service: ObtainCredential called before PrepareRegistration"))
	}
	allAttrs := ps.AttributeMap{{Index: 0, Value: state.SecretAttr}}.Merge(issuerAttrs)

	cred, err := ps.ObtainCredential(c.suite, c.pk, resp, state.T, allAttrs)
	if err != nil {
		return nil, err
	}
	c.cred = cred
	return cred, nil
}

// RequestLocation builds a showing over "lat,lon" that discloses exactly
// the subscription types in disclose, always hiding the user's own secret
// attribute.
func (c *Client) RequestLocation(lat, lon float64, disclose []string) (*ps.DisclosureProof, error) {
	if c.cred == nil {
		return nil, apperr.New(apperr.Internal, fmt.Errorf("service: RequestLocation called before a credential was obtained"))
	}

	want := make(map[string]bool, len(disclose))
	for _, name := range disclose {
		want[name] = true
	}

	hidden := []int{0}
	for _, idx := range c.cred.Attrs.Indices() {
		if idx == 0 {
			continue
		}
		name, ok := attributeName(idx)
		if !ok || !want[name] {
			hidden = append(hidden, idx)
		}
	}

	message := []byte(fmt.Sprintf("%g,%g", lat, lon))
	return ps.CreateDisclosureProof(c.suite, c.pk, c.cred, hidden, message)
}

func mergeUnique(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
