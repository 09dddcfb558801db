// Package apperr defines the typed error kinds returned by every protocol
// entry point in this module, per the error handling design in SPEC_FULL.md
// §7. It is modeled on the protocol.Error{Culprits, Err} shape used by the
// teacher's handler abort path.
package apperr

import (
	"fmt"

	"github.com/Dreyvor/ADVPETs-projects/pkg/party"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// InvalidInput covers attribute index collisions, unknown subscription
	// types, and over-length signature input.
	InvalidInput Kind = iota
	// ProofRejected covers issuance NIZK failure and showing NIZK failure.
	ProofRejected
	// SignatureInvalid covers PS verification failure, including the h = 1
	// and sigma'_1 = 1 base cases.
	SignatureInvalid
	// ProtocolAbort covers a missing peer message past deadline in Core A.
	ProtocolAbort
	// Internal covers a field-arithmetic or group-operation invariant
	// violation; it should be unreachable in a correct implementation.
	Internal
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case ProofRejected:
		return "ProofRejected"
	case SignatureInvalid:
		return "SignatureInvalid"
	case ProtocolAbort:
		return "ProtocolAbort"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by protocol entry points.
type Error struct {
	Kind     Kind
	Culprits party.IDSlice
	Err      error
}

func (e *Error) Error() string {
	if len(e.Culprits) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s (culprits: %v)", e.Kind, e.Err, e.Culprits)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind wrapping err, optionally naming the
// parties responsible.
func New(kind Kind, err error, culprits ...party.ID) *Error {
	return &Error{Kind: kind, Culprits: culprits, Err: err}
}

// KindOf reports the Kind of err when err is itself an *Error. It does not
// unwrap: an *Error wrapped inside another error reports false.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if err == nil {
		return 0, false
	}
	if ae, ok := err.(*Error); ok {
		e = ae
	} else {
		return 0, false
	}
	return e.Kind, true
}
