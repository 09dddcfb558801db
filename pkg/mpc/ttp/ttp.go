// Package ttp implements the trusted parameter generator of SPEC_FULL.md
// §4.3: per-multiplication Beaver triples, sharded across participants,
// generated once per op-id and returned unchanged on every request for the
// same (party, op-id).
package ttp

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/Dreyvor/ADVPETs-projects/pkg/apperr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/expr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/field"
	"github.com/Dreyvor/ADVPETs-projects/pkg/party"
	"github.com/Dreyvor/ADVPETs-projects/pkg/pool"
)

// Triple is one party's share of a Beaver triple (a, b, c=a*b mod Q).
type Triple struct {
	A, B, C field.Elem
}

// Generator holds the participant set and the (party, op-id) -> triple map.
// It mutates only on first generation for a given op-id: the map entry is
// never overwritten afterward, so every request for the same key gets the
// same triple, never a regenerated one (SPEC_FULL.md §5).
type Generator struct {
	mu           sync.Mutex
	participants party.IDSlice
	byOp         map[expr.OpID]map[party.ID]Triple
}

// New creates a Generator for the given participant set.
func New(participants party.IDSlice) *Generator {
	return &Generator{
		participants: participants,
		byOp:         make(map[expr.OpID]map[party.ID]Triple),
	}
}

// Triple returns the triple shares belonging to requester for opID,
// generating a fresh triple batch on first request for that op-id.
func (g *Generator) Triple(requester party.ID, opID expr.OpID) (Triple, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	shares, ok := g.byOp[opID]
	if !ok {
		var err error
		shares, err = g.generateLocked(opID)
		if err != nil {
			return Triple{}, apperr.New(apperr.Internal, err)
		}
	}
	t, ok := shares[requester]
	if !ok {
		return Triple{}, apperr.New(apperr.Internal,
			fmt.Errorf("ttp: no triple share for party %s on op %x", requester, opID))
	}
	return t, nil
}

// Precompute generates triples for every op-id in opIDs up front, dispatching
// the op-ids through pl. Each generation holds g.mu, so the generations run
// one at a time. The lazy path in Triple is always correct on its own.
func (g *Generator) Precompute(opIDs []expr.OpID, pl *pool.Pool) error {
	errs := make([]error, len(opIDs))
	pl.Map(len(opIDs), func(i int) {
		g.mu.Lock()
		defer g.mu.Unlock()
		if _, ok := g.byOp[opIDs[i]]; ok {
			return
		}
		_, err := g.generateLocked(opIDs[i])
		errs[i] = err
	})
	for _, err := range errs {
		if err != nil {
			return apperr.New(apperr.Internal, err)
		}
	}
	return nil
}

// generateLocked samples a, b uniformly, computes c = a*b mod Q, splits each
// into n shares, and stores one triple per party. Caller must hold g.mu.
func (g *Generator) generateLocked(opID expr.OpID) (map[party.ID]Triple, error) {
	n := len(g.participants)
	a, err := field.Random(rand.Reader)
	if err != nil {
		return nil, err
	}
	b, err := field.Random(rand.Reader)
	if err != nil {
		return nil, err
	}
	c := a.Mul(b)

	aShares, err := field.Split(a, n, rand.Reader)
	if err != nil {
		return nil, err
	}
	bShares, err := field.Split(b, n, rand.Reader)
	if err != nil {
		return nil, err
	}
	cShares, err := field.Split(c, n, rand.Reader)
	if err != nil {
		return nil, err
	}

	sorted := g.participants.Sorted()
	shares := make(map[party.ID]Triple, n)
	for i, id := range sorted {
		shares[id] = Triple{A: aShares[i], B: bShares[i], C: cShares[i]}
	}
	g.byOp[opID] = shares
	return shares, nil
}
