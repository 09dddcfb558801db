// Package comm defines the communication interface that Core A's party
// evaluator consumes, per SPEC_FULL.md §6. It is abstracted away from any
// concrete transport: a networked broadcast/private-message relay is
// explicitly out of scope for this module (spec.md §1). A concrete
// in-process implementation, for this module's own tests and CLI demo
// only, lives in internal/nettest.
package comm

import (
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/expr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/ttp"
	"github.com/Dreyvor/ADVPETs-projects/pkg/party"
)

// Communication is the collaborator interface consumed by the party
// evaluator in pkg/mpc. Implementations must provide at-most-once, ordered
// delivery per (from, to, label) for private messages, and blocking
// retrieval that waits for the matching send/publish.
type Communication interface {
	// SendPrivateMessage delivers data to exactly one recipient, addressed
	// by label.
	SendPrivateMessage(from, to party.ID, label string, data []byte) error
	// RetrievePrivateMessage blocks until a private message addressed to
	// self under label has been sent, then returns it.
	RetrievePrivateMessage(self party.ID, label string) ([]byte, error)
	// PublishMessage broadcasts data under (from, label), readable by every
	// participant.
	PublishMessage(from party.ID, label string, data []byte) error
	// RetrievePublicMessage blocks until fromParty has published under
	// label, then returns it.
	RetrievePublicMessage(fromParty party.ID, label string) ([]byte, error)
	// RetrieveBeaverTriple blocks until the TTP can serve self's share of
	// the triple for opID.
	RetrieveBeaverTriple(self party.ID, opID expr.OpID) (ttp.Triple, error)
}

// XALabel formats the label under which publisher broadcasts its x-a opening
// for a Mul node, per SPEC_FULL.md §6: "{party}|{op}|x-a", with the op-id
// written in hex.
func XALabel(publisher party.ID, opID expr.OpID) string {
	return labelFor(publisher, opID, "x-a")
}

// YBLabel is the companion label to XALabel for the y-b opening.
func YBLabel(publisher party.ID, opID expr.OpID) string {
	return labelFor(publisher, opID, "y-b")
}

func labelFor(publisher party.ID, opID expr.OpID, suffix string) string {
	return string(publisher) + "|" + hexString(opID[:]) + "|" + suffix
}

func hexString(b []byte) string {
	const hexdigits = "0123456789abcdef"
	buf := make([]byte, len(b)*2)
	for i, c := range b {
		buf[i*2] = hexdigits[c>>4]
		buf[i*2+1] = hexdigits[c&0xf]
	}
	return string(buf)
}

// Precomputer is an optional capability a Communication implementation may
// provide: generating the Beaver triples for a whole batch of op-ids up
// front, rather than lazily one at a time as each party's
// evaluator reaches them. RunCircuit uses this when net implements it.
type Precomputer interface {
	PrecomputeTriples(opIDs []expr.OpID) error
}

// ResultLabel is the single label used for the final-reveal publication of
// one protocol run (SPEC_FULL.md §6).
const ResultLabel = "result"

// ShareLabel is the per-secret label used when a party shares out one of
// its own inputs, keyed on the secret's stable id.
func ShareLabel(id expr.SecretID) string {
	return "secret|" + hexString(id[:])
}
