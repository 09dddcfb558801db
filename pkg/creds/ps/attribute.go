package ps

import (
	"sort"

	"go.dedis.ch/kyber/v4"
)

// AttrScalar is one indexed attribute value in Z_p, Core B's equivalent of
// the original skeleton's (i, a_i) tuples.
type AttrScalar struct {
	Index int
	Value kyber.Scalar
}

// AttrPoint is one indexed group element, used for both the Y_i (G1) and
// Ŷ_i (G2) halves of a PublicKey, and for proof commitments R_i.
type AttrPoint struct {
	Index int
	Value kyber.Point
}

// AttributeMap is an unordered collection of indexed attributes; index 0 is
// reserved by convention (SPEC_FULL.md §4.8) for the user's own secret
// attribute.
type AttributeMap []AttrScalar

// Sorted returns a copy ordered by index, the canonical order used whenever
// an AttributeMap is folded into a hash or a product of group elements.
func (m AttributeMap) Sorted() AttributeMap {
	out := make(AttributeMap, len(m))
	copy(out, m)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Indices returns the sorted list of indices present in m.
func (m AttributeMap) Indices() []int {
	idx := make([]int, len(m))
	for i, a := range m {
		idx[i] = a.Index
	}
	sort.Ints(idx)
	return idx
}

// Get returns the value at index i, if present.
func (m AttributeMap) Get(i int) (kyber.Scalar, bool) {
	for _, a := range m {
		if a.Index == i {
			return a.Value, true
		}
	}
	return nil, false
}

// Without returns the subset of m whose indices are not in excluded.
func (m AttributeMap) Without(excluded []int) AttributeMap {
	skip := make(map[int]bool, len(excluded))
	for _, i := range excluded {
		skip[i] = true
	}
	out := make(AttributeMap, 0, len(m))
	for _, a := range m {
		if !skip[a.Index] {
			out = append(out, a)
		}
	}
	return out.Sorted()
}

// Only returns the subset of m whose indices are in included.
func (m AttributeMap) Only(included []int) AttributeMap {
	keep := make(map[int]bool, len(included))
	for _, i := range included {
		keep[i] = true
	}
	out := make(AttributeMap, 0, len(included))
	for _, a := range m {
		if keep[a.Index] {
			out = append(out, a)
		}
	}
	return out.Sorted()
}

// Merge returns the union of m and other. Where both define the same index,
// m's value wins.
func (m AttributeMap) Merge(other AttributeMap) AttributeMap {
	have := make(map[int]bool, len(m))
	out := make(AttributeMap, 0, len(m)+len(other))
	for _, a := range m {
		have[a.Index] = true
		out = append(out, a)
	}
	for _, a := range other {
		if !have[a.Index] {
			out = append(out, a)
		}
	}
	return out.Sorted()
}
