// Package expr implements the algebraic expression AST of SPEC_FULL.md §4.2:
// a tagged variant over {Secret, Scalar, Add, Sub, Mul} leaves and nodes,
// consumed by a post-order evaluator (pkg/mpc). This favors a tagged
// variant with an arithmetic interpreter over class-based dispatch, per
// design note 9.1.
package expr

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/field"
)

// SecretID is the stable, globally-unique (within one circuit) identifier
// carried by a Secret leaf. It is minted from crypto/rand rather than a
// counter, per design note 9.2, so secrets built concurrently by different
// goroutines never collide.
type SecretID [16]byte

// OpID stably identifies one Mul node for the purpose of indexing Beaver
// triples. It is derived from a per-run nonce and the node's build-order
// index so that evaluating the same AST twice under a fresh RunNonce always
// draws a fresh triple batch, per design note 9.5.
type OpID [32]byte

// Expression is any node in the AST. Equality of Secret leaves is identity
// equality (by SecretID); everything else is structural.
type Expression interface {
	// ContainsSecret reports whether this subtree transitively contains a
	// Secret leaf. It drives the "both sides public?" predicate in the Mul
	// evaluation rule of SPEC_FULL.md §4.4.
	ContainsSecret() bool
}

// Secret is a leaf referring to one party's private input.
type Secret struct {
	id SecretID
}

// NewSecret mints a fresh, globally-unique secret leaf.
func NewSecret() *Secret {
	var id SecretID
	if _, err := rand.Read(id[:]); err != nil {
		panic(err)
	}
	return &Secret{id: id}
}

// ID returns the secret's stable identifier, used to route shares between
// parties and as map keys for a party's local share store.
func (s *Secret) ID() SecretID { return s.id }

func (s *Secret) ContainsSecret() bool { return true }

// Scalar is a leaf carrying a public constant, visible to every party.
type Scalar struct {
	Value field.Elem
}

// NewScalar wraps a public integer as a Scalar leaf.
func NewScalar(v field.Elem) *Scalar { return &Scalar{Value: v} }

func (s *Scalar) ContainsSecret() bool { return false }

// binOp is the shared shape of Add/Sub/Mul, with Left/Right associating the
// way the builder functions below left-associate a chain of operators.
type binOp struct {
	Left, Right Expression
}

func (b *binOp) ContainsSecret() bool {
	return b.Left.ContainsSecret() || b.Right.ContainsSecret()
}

// AddNode is L + R.
type AddNode struct{ binOp }

// SubNode is L - R.
type SubNode struct{ binOp }

// MulNode is L * R. Its OpID indexes the Beaver triple used to evaluate it
// when both sides are secret-dependent.
type MulNode struct {
	binOp
	opID     OpID
	opIDSet  bool
	buildIdx uint64
}

// Add builds L + R.
func Add(l, r Expression) *AddNode { return &AddNode{binOp{l, r}} }

// Sub builds L - R.
func Sub(l, r Expression) *SubNode { return &SubNode{binOp{l, r}} }

// mulCounter is process-local and only used to diversify the OpID derivation
// input across Mul nodes built within the same run; it is not itself the
// stable identifier (RunNonce + this index, hashed, is).
var mulCounter uint64

// Mul builds L * R.
func Mul(l, r Expression) *MulNode {
	mulCounter++
	return &MulNode{binOp: binOp{l, r}, buildIdx: mulCounter}
}

// RunNonce namespaces every Mul node's OpID to one protocol run, so that
// evaluating the same AST object twice (e.g. in two separate test cases)
// with two different RunNonce values draws two independent Beaver-triple
// batches from the TTP, per design note 9.5.
type RunNonce [16]byte

// NewRunNonce draws a fresh random run nonce.
func NewRunNonce() RunNonce {
	var n RunNonce
	if _, err := rand.Read(n[:]); err != nil {
		panic(err)
	}
	return n
}

// BindOpID derives and caches this node's OpID under the given run nonce.
// It is idempotent for a given nonce: calling it twice with the same nonce
// returns the same id, but calling it again with a different nonce rebinds
// the node to a fresh id (supporting re-evaluation of one AST under a new
// run).
func (m *MulNode) BindOpID(nonce RunNonce) OpID {
	h := blake3.New()
	h.Write(nonce[:])
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], m.buildIdx)
	h.Write(idx[:])
	sum := h.Sum(nil)
	copy(m.opID[:], sum)
	m.opIDSet = true
	return m.opID
}

// OpID returns the node's bound operator id. BindOpID must have been called
// for this node (directly, or via BindOpIDs over the whole tree) first.
func (m *MulNode) OpID() OpID {
	if !m.opIDSet {
		panic("expr: Mul node op-id not bound; call BindOpIDs before evaluating")
	}
	return m.opID
}

// BindOpIDs walks the AST and binds a stable OpID to every Mul node under
// the given run nonce. It must be called once per party before evaluation,
// with every party using the same nonce (distributed out-of-band along with
// the AST itself, since all parties hold the same tree by protocol setup).
func BindOpIDs(root Expression, nonce RunNonce) {
	switch n := root.(type) {
	case *Secret, *Scalar:
		return
	case *AddNode:
		BindOpIDs(n.Left, nonce)
		BindOpIDs(n.Right, nonce)
	case *SubNode:
		BindOpIDs(n.Left, nonce)
		BindOpIDs(n.Right, nonce)
	case *MulNode:
		BindOpIDs(n.Left, nonce)
		BindOpIDs(n.Right, nonce)
		n.BindOpID(nonce)
	default:
		panic("expr: unknown node type")
	}
}

// CollectOpIDs walks the AST and returns the bound OpID of every Mul node,
// in the order the tree is traversed. BindOpIDs must already have been
// called on root. The caller uses this to drive a trusted-party-generator
// Precompute pass before per-party evaluation begins, so the triples for
// every multiplication in the circuit are generated up front instead of
// lazily, one at a time, as each party's evaluator reaches them.
func CollectOpIDs(root Expression) []OpID {
	var out []OpID
	var walk func(Expression)
	walk = func(n Expression) {
		switch node := n.(type) {
		case *Secret, *Scalar:
			return
		case *AddNode:
			walk(node.Left)
			walk(node.Right)
		case *SubNode:
			walk(node.Left)
			walk(node.Right)
		case *MulNode:
			walk(node.Left)
			walk(node.Right)
			out = append(out, node.OpID())
		default:
			panic("expr: unknown node type")
		}
	}
	walk(root)
	return out
}
