package field

import "io"

// Split draws an n-of-n additive sharing of secret: s_1..s_{n-1} uniform in
// [0,Q), and s_0 = secret - sum(s_1..s_{n-1}) mod Q, per SPEC_FULL.md §4.1.
// The secret equals the sum of the returned shares mod Q by construction.
func Split(secret Elem, n int, rnd io.Reader) ([]Elem, error) {
	shares := make([]Elem, n)
	if n == 0 {
		return shares, nil
	}
	sum := Elem(0)
	for i := 1; i < n; i++ {
		s, err := Random(rnd)
		if err != nil {
			return nil, err
		}
		shares[i] = s
		sum = sum.Add(s)
	}
	shares[0] = secret.Sub(sum)
	return shares, nil
}

// Reconstruct sums shares mod Q to recover the shared secret.
func Reconstruct(shares []Elem) Elem {
	var sum Elem
	for _, s := range shares {
		sum = sum.Add(s)
	}
	return sum
}
