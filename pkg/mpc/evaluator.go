// Package mpc implements the party evaluator of SPEC_FULL.md §4.4: each
// party shares out its own inputs, recursively evaluates the shared
// circuit, publishes its final share, and reconstructs the result.
package mpc

import (
	"crypto/rand"
	"fmt"

	"github.com/Dreyvor/ADVPETs-projects/pkg/apperr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/comm"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/expr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/field"
	"github.com/Dreyvor/ADVPETs-projects/pkg/party"
)

// State is one stage of the per-party state machine of SPEC_FULL.md §5.
// Transitions are linear; cancellation at any point aborts the run.
type State int

const (
	Init State = iota
	SharedInputs
	Evaluating
	Published
	Reconstructed
)

func (s State) String() string {
	switch s {
	case Init:
		return "INIT"
	case SharedInputs:
		return "SHARED_INPUTS"
	case Evaluating:
		return "EVALUATING"
	case Published:
		return "PUBLISHED"
	case Reconstructed:
		return "RECONSTRUCTED"
	default:
		return "UNKNOWN"
	}
}

// Evaluator drives one party's side of a single circuit evaluation.
type Evaluator struct {
	self         party.ID
	participants party.IDSlice
	// isParty0 is true iff self is first in the sorted participant order;
	// it designates which party carries Scalar leaves outside a Mul
	// subtree, per SPEC_FULL.md §4.4 and the resolved Open Question in §9.
	isParty0 bool

	net comm.Communication

	// inputs maps this party's own secrets to their plaintext values.
	inputs map[expr.SecretID]field.Elem
	// localShares holds this party's share of every secret it has either
	// shared out itself or received a share of.
	localShares map[expr.SecretID]field.Elem

	state State
}

// NewEvaluator creates an evaluator for self, given the full (sorted)
// participant set, the network it will use, and this party's own secret
// inputs.
func NewEvaluator(self party.ID, participants party.IDSlice, net comm.Communication, inputs map[expr.SecretID]field.Elem) *Evaluator {
	sorted := participants.Sorted()
	return &Evaluator{
		self:         self,
		participants: sorted,
		isParty0:     len(sorted) > 0 && sorted[0] == self,
		net:          net,
		inputs:       inputs,
		localShares:  make(map[expr.SecretID]field.Elem),
		state:        Init,
	}
}

// State returns the evaluator's current stage.
func (e *Evaluator) State() State { return e.state }

// ShareInputs distributes an n-of-n sharing of every owned secret: the
// local share is kept, and every other share is sent as a private message
// keyed on the secret's id (SPEC_FULL.md §4.4, "Share distribution").
func (e *Evaluator) ShareInputs() error {
	if e.state != Init {
		return apperr.New(apperr.Internal, fmt.Errorf("mpc: ShareInputs called in state %s", e.state), e.self)
	}
	n := len(e.participants)
	for secretID, value := range e.inputs {
		shares, err := field.Split(value, n, rand.Reader)
		if err != nil {
			return apperr.New(apperr.Internal, err, e.self)
		}
		label := comm.ShareLabel(secretID)
		for i, id := range e.participants {
			if id == e.self {
				e.localShares[secretID] = shares[i]
				continue
			}
			if err := e.net.SendPrivateMessage(e.self, id, label, encodeElem(shares[i])); err != nil {
				return apperr.New(apperr.Internal, err, e.self)
			}
		}
	}
	e.state = SharedInputs
	return nil
}

// Evaluate recursively evaluates expr on shares, returning this party's
// share of the result (SPEC_FULL.md §4.4, "Recursive evaluation").
func (e *Evaluator) Evaluate(node expr.Expression) (field.Elem, error) {
	if e.state != SharedInputs && e.state != Evaluating {
		return 0, apperr.New(apperr.Internal, fmt.Errorf("mpc: Evaluate called in state %s", e.state), e.self)
	}
	e.state = Evaluating
	return e.eval(node, false)
}

// eval is the post-order evaluator. insideMul tracks whether the current
// node is nested under a Mul ancestor, which governs the Scalar convention
// resolved in SPEC_FULL.md §9: inside a Mul subtree every party carries the
// public Scalar value; outside, only party 0 does and everyone else
// contributes 0 (still a valid additive sharing of the constant).
func (e *Evaluator) eval(node expr.Expression, insideMul bool) (field.Elem, error) {
	switch n := node.(type) {
	case *expr.Secret:
		return e.evalSecret(n)
	case *expr.Scalar:
		return e.evalScalar(n, insideMul), nil
	case *expr.AddNode:
		l, err := e.eval(n.Left, insideMul)
		if err != nil {
			return 0, err
		}
		r, err := e.eval(n.Right, insideMul)
		if err != nil {
			return 0, err
		}
		return l.Add(r), nil
	case *expr.SubNode:
		l, err := e.eval(n.Left, insideMul)
		if err != nil {
			return 0, err
		}
		r, err := e.eval(n.Right, insideMul)
		if err != nil {
			return 0, err
		}
		return l.Sub(r), nil
	case *expr.MulNode:
		return e.evalMul(n)
	default:
		return 0, apperr.New(apperr.Internal, fmt.Errorf("mpc: unknown expression node %T", node), e.self)
	}
}

func (e *Evaluator) evalSecret(s *expr.Secret) (field.Elem, error) {
	share, ok := e.localShares[s.ID()]
	if ok {
		return share, nil
	}
	label := comm.ShareLabel(s.ID())
	data, err := e.net.RetrievePrivateMessage(e.self, label)
	if err != nil {
		return 0, err
	}
	v, err := decodeElem(data)
	if err != nil {
		return 0, apperr.New(apperr.Internal, err, e.self)
	}
	e.localShares[s.ID()] = v
	return v, nil
}

func (e *Evaluator) evalScalar(s *expr.Scalar, insideMul bool) field.Elem {
	if insideMul || e.isParty0 {
		return s.Value
	}
	return 0
}

// evalMul implements the three sub-cases of SPEC_FULL.md §4.4's Mul rule.
func (e *Evaluator) evalMul(n *expr.MulNode) (field.Elem, error) {
	leftSecret := n.Left.ContainsSecret()
	rightSecret := n.Right.ContainsSecret()

	switch {
	case !leftSecret && !rightSecret:
		// Both sides public: every party locally multiplies its (Scalar
		// convention) sharing of the two constants.
		l, err := e.eval(n.Left, true)
		if err != nil {
			return 0, err
		}
		r, err := e.eval(n.Right, true)
		if err != nil {
			return 0, err
		}
		return l.Mul(r), nil

	case leftSecret != rightSecret:
		// Exactly one side is secret: the public side is a cleartext
		// multiplier known to all parties; distributivity applies locally.
		secretSide, publicSide := n.Left, n.Right
		if rightSecret {
			secretSide, publicSide = n.Right, n.Left
		}
		share, err := e.eval(secretSide, true)
		if err != nil {
			return 0, err
		}
		k, err := e.eval(publicSide, true)
		if err != nil {
			return 0, err
		}
		return share.Mul(k), nil

	default:
		return e.evalBeaverMul(n)
	}
}

// evalBeaverMul implements the Beaver-triple multiplication of
// SPEC_FULL.md §4.4 for the case where both operands depend on secrets.
func (e *Evaluator) evalBeaverMul(n *expr.MulNode) (field.Elem, error) {
	x, err := e.eval(n.Left, true)
	if err != nil {
		return 0, err
	}
	y, err := e.eval(n.Right, true)
	if err != nil {
		return 0, err
	}

	opID := n.OpID()
	triple, err := e.net.RetrieveBeaverTriple(e.self, opID)
	if err != nil {
		return 0, err
	}

	d := x.Sub(triple.A)
	eShare := y.Sub(triple.B)

	if err := e.net.PublishMessage(e.self, comm.XALabel(e.self, opID), encodeElem(d)); err != nil {
		return 0, apperr.New(apperr.Internal, err, e.self)
	}
	if err := e.net.PublishMessage(e.self, comm.YBLabel(e.self, opID), encodeElem(eShare)); err != nil {
		return 0, apperr.New(apperr.Internal, err, e.self)
	}

	// Barrier: every party publishes before any continues past this point
	// (SPEC_FULL.md §5). Each party iterates the full participant list and
	// blocks on each peer's opening for this multiplication's op-id.
	var D, E field.Elem
	for _, id := range e.participants {
		dData, err := e.net.RetrievePublicMessage(id, comm.XALabel(id, opID))
		if err != nil {
			return 0, err
		}
		dVal, err := decodeElem(dData)
		if err != nil {
			return 0, apperr.New(apperr.Internal, err, e.self)
		}
		D = D.Add(dVal)

		eData, err := e.net.RetrievePublicMessage(id, comm.YBLabel(id, opID))
		if err != nil {
			return 0, err
		}
		eVal, err := decodeElem(eData)
		if err != nil {
			return 0, apperr.New(apperr.Internal, err, e.self)
		}
		E = E.Add(eVal)
	}

	z := triple.C.Add(x.Mul(E)).Add(y.Mul(D))
	if e.isParty0 {
		z = z.Sub(D.Mul(E))
	}
	return z, nil
}

// Reveal publishes this party's final share of the circuit result under the
// shared result label (SPEC_FULL.md §4.4, "Final reveal").
func (e *Evaluator) Reveal(result field.Elem) error {
	if e.state != Evaluating {
		return apperr.New(apperr.Internal, fmt.Errorf("mpc: Reveal called in state %s", e.state), e.self)
	}
	if err := e.net.PublishMessage(e.self, comm.ResultLabel, encodeElem(result)); err != nil {
		return apperr.New(apperr.Internal, err, e.self)
	}
	e.state = Published
	return nil
}

// Reconstruct retrieves every party's published final share and sums them
// mod Q to recover the circuit result.
func (e *Evaluator) Reconstruct() (field.Elem, error) {
	if e.state != Published {
		return 0, apperr.New(apperr.Internal, fmt.Errorf("mpc: Reconstruct called in state %s", e.state), e.self)
	}
	shares := make([]field.Elem, 0, len(e.participants))
	for _, id := range e.participants {
		data, err := e.net.RetrievePublicMessage(id, comm.ResultLabel)
		if err != nil {
			return 0, err
		}
		v, err := decodeElem(data)
		if err != nil {
			return 0, apperr.New(apperr.Internal, err, e.self)
		}
		shares = append(shares, v)
	}
	e.state = Reconstructed
	return field.Reconstruct(shares), nil
}
