// Package party defines the identity type shared by every protocol in this
// module: a stable, comparable, sortable label for a participant.
package party

import (
	"fmt"
	"sort"
)

// ID identifies a single participant. Participants are ordered by the
// natural ordering of their ID, and that ordering fixes which party is
// "party 0" for the conventions in the mpc package (see pkg/mpc).
type ID string

// IDSlice is a list of party IDs with set-like helpers.
type IDSlice []ID

// Contains reports whether id appears in the slice.
func (ids IDSlice) Contains(id ID) bool {
	for _, other := range ids {
		if other == id {
			return true
		}
	}
	return false
}

// Sorted returns a sorted copy of ids.
func (ids IDSlice) Sorted() IDSlice {
	out := make(IDSlice, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Index returns the position of id within the sorted party list, or -1 if
// id is not present. Index 0 in this ordering is the designated party for
// the Scalar convention in §4.4 of the spec.
func (ids IDSlice) Index(id ID) int {
	sorted := ids.Sorted()
	for i, other := range sorted {
		if other == id {
			return i
		}
	}
	return -1
}

// Others returns every id in the slice except self.
func (ids IDSlice) Others(self ID) IDSlice {
	out := make(IDSlice, 0, len(ids))
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}

// IDs produces n deterministic, distinct party identifiers, used by tests
// and the CLI demo to stand up a fresh participant set.
func IDs(n int) IDSlice {
	names := []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi"}
	out := make(IDSlice, n)
	for i := 0; i < n; i++ {
		if i < len(names) {
			out[i] = ID(names[i])
		} else {
			out[i] = ID(fmt.Sprintf("party%d", i))
		}
	}
	return out
}
