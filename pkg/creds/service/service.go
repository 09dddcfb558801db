// Package service implements the Server/Client framing of SPEC_FULL.md
// §4.8, grounded on original_source/project2/stroll.py's Server and Client
// classes: a fixed subscription universe, issuance against a committed user
// secret attribute (index 0), and location requests authorized by a
// selective-disclosure showing.
package service

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/util/random"

	"github.com/Dreyvor/ADVPETs-projects/pkg/apperr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/creds/ps"
)

// AllSubscriptionTypes is the canonical, fixed universe of subscription
// flags a server may support, mirroring stroll.py's all_possible_subs. An
// attribute's index is always its position in this list plus one; index 0
// is reserved for the user's own secret attribute.
var AllSubscriptionTypes = []string{
	"appartment_block", "bar", "cafeteria", "club", "company", "dojo",
	"gym", "laboratory", "office", "restaurant", "supermarket", "villa",
}

// AttributeIndex returns the fixed attribute index for a canonical
// subscription name.
func AttributeIndex(name string) (int, bool) {
	for i, s := range AllSubscriptionTypes {
		if s == name {
			return i + 1, true
		}
	}
	return 0, false
}

func attributeName(index int) (string, bool) {
	if index <= 0 || index > len(AllSubscriptionTypes) {
		return "", false
	}
	return AllSubscriptionTypes[index-1], true
}

// ServerKeys is the issuer keypair produced once by GenerateCA.
type ServerKeys struct {
	SK *ps.SecretKey
	PK *ps.PublicKey
}

// Server issues credentials and authorizes location requests against them.
type Server struct {
	suite ps.Suite

	mu          sync.Mutex
	sk          *ps.SecretKey
	pk          *ps.PublicKey
	supported   map[string]bool
	subValue    map[string]kyber.Scalar
	subscribers map[string][]string
}

// NewServer creates a Server over suite; GenerateCA must be called once
// before any registration.
func NewServer(suite ps.Suite) *Server {
	return &Server{
		suite:       suite,
		supported:   make(map[string]bool),
		subValue:    make(map[string]kyber.Scalar),
		subscribers: make(map[string][]string),
	}
}

// GenerateCA performs the one-time setup of SPEC_FULL.md §4.8: it restricts
// the server to the given subset of AllSubscriptionTypes, draws a fixed
// secret attribute value per supported subscription, and issues the PS
// keypair over index 0 (user secret) plus one index per supported
// subscription.
func (s *Server) GenerateCA(subscriptions []string) (*ServerKeys, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rnd := random.New()
	indices := []int{0}
	for _, name := range subscriptions {
		idx, ok := AttributeIndex(name)
		if !ok {
			return nil, apperr.New(apperr.InvalidInput, fmt.Errorf("service: %q is not a supported subscription type", name))
		}
		s.supported[name] = true
		s.subValue[name] = s.suite.G1().Scalar().Pick(rnd)
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	sk, pk, err := ps.KeyGen(s.suite, indices)
	if err != nil {
		return nil, err
	}
	s.sk, s.pk = sk, pk
	return &ServerKeys{SK: sk, PK: pk}, nil
}

func (s *Server) validSubscriptions(subscriptions []string) error {
	for _, name := range subscriptions {
		if !s.supported[name] {
			return apperr.New(apperr.InvalidInput, fmt.Errorf("service: %q is not a subscription this server supports", name))
		}
	}
	return nil
}

// ProcessRegistration verifies the client's issuance request and blind-signs
// the union of its committed secret attribute and the requested (now
// issuer-known) subscription attributes.
func (s *Server) ProcessRegistration(req *ps.IssuanceRequest, username string, subscriptions []string) (*ps.BlindSignature, ps.AttributeMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validSubscriptions(subscriptions); err != nil {
		return nil, nil, err
	}

	issuerAttrs := make(ps.AttributeMap, 0, len(subscriptions))
	for _, name := range subscriptions {
		idx, _ := AttributeIndex(name)
		issuerAttrs = append(issuerAttrs, ps.AttrScalar{Index: idx, Value: s.subValue[name]})
	}

	blind, err := ps.SignIssuanceRequest(s.suite, s.sk, s.pk, req, issuerAttrs)
	if err != nil {
		return nil, nil, err
	}

	existing := s.subscribers[username]
	merged := make(map[string]bool, len(existing)+len(subscriptions))
	for _, name := range existing {
		merged[name] = true
	}
	for _, name := range subscriptions {
		merged[name] = true
	}
	union := make([]string, 0, len(merged))
	for name := range merged {
		union = append(union, name)
	}
	sort.Strings(union)
	s.subscribers[username] = union

	return blind, issuerAttrs.Sorted(), nil
}

// Subscriptions returns the subscriptions registered for username, the
// union across every registration call (stroll.py's union-on-reregistration
// behavior).
func (s *Server) Subscriptions(username string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.subscribers[username]))
	copy(out, s.subscribers[username])
	return out
}

// CheckRequestSignature authorizes a location request: the showing must
// verify, must have been computed over exactly message, and must disclose
// every attribute in requestedTypes at the value this server assigned it.
func (s *Server) CheckRequestSignature(message []byte, requestedTypes []string, proof *ps.DisclosureProof) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validSubscriptions(requestedTypes); err != nil {
		return false, err
	}
	if !bytes.Equal(proof.Message, message) {
		return false, apperr.New(apperr.ProofRejected, fmt.Errorf("service: showing was not computed over the claimed request message"))
	}

	for _, name := range requestedTypes {
		idx, _ := AttributeIndex(name)
		disclosedVal, ok := proof.Disclosed.Get(idx)
		if !ok {
			return false, apperr.New(apperr.ProofRejected, fmt.Errorf("service: requested type %q was not disclosed", name))
		}
		if !disclosedVal.Equal(s.subValue[name]) {
			return false, apperr.New(apperr.ProofRejected, fmt.Errorf("service: disclosed value for %q does not match this server's records", name))
		}
	}

	if !ps.VerifyDisclosureProof(s.suite, s.pk, proof) {
		return false, nil
	}
	return true, nil
}
