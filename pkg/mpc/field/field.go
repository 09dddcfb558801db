// Package field implements the small power-of-two-modulus field arithmetic
// of SPEC_FULL.md §4.1: Q = 2^k residues with wrapping add/sub/mul, reduced
// by bitmask rather than division.
package field

import (
	"crypto/rand"
	"encoding/binary"
	"io"
)

// Bits is k in Q = 2^k. k = 20 keeps products of the scenario-sized
// circuits in SPEC_FULL.md §8 and the party count well clear of overflow
// into an unintended residue, per design note 9.3.
const Bits = 20

// Q is the field modulus, a power of two so reduction is a bitmask.
const Q uint64 = 1 << Bits

const mask uint64 = Q - 1

// Elem is a residue in [0, Q). It is a value type: share and scalar values
// are freely copied.
type Elem uint32

// New reduces x mod Q.
func New(x uint64) Elem {
	return Elem(x & mask)
}

// Add returns a+b mod Q.
func (a Elem) Add(b Elem) Elem {
	return Elem((uint64(a) + uint64(b)) & mask)
}

// Sub returns a-b mod Q.
func (a Elem) Sub(b Elem) Elem {
	return Elem((uint64(a) + Q - uint64(b)) & mask)
}

// Mul returns a*b mod Q.
func (a Elem) Mul(b Elem) Elem {
	return Elem((uint64(a) * uint64(b)) & mask)
}

// Neg returns -a mod Q.
func (a Elem) Neg() Elem {
	return Elem((Q - uint64(a)) & mask)
}

// Random draws a uniform residue in [0, Q) from rnd. rnd must be a
// cryptographically strong source in production (SPEC_FULL.md §5); tests may
// pass a deterministic source to reproduce a scenario.
func Random(rnd io.Reader) (Elem, error) {
	var buf [8]byte
	if _, err := io.ReadFull(rnd, buf[:]); err != nil {
		return 0, err
	}
	return New(binary.BigEndian.Uint64(buf[:])), nil
}

// MustRandom is Random using crypto/rand, for call sites that cannot
// propagate an error (e.g. inside a tight sampling loop already guarded by
// an outer error return).
func MustRandom() Elem {
	e, err := Random(rand.Reader)
	if err != nil {
		panic(err)
	}
	return e
}
