// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package merkle implements MerkleVerifier: the two operations the
// catchup engine needs to extend a local tree and validate that the
// result is consistent with a trusted target root.
//
// The tree itself — append, root, audit-path storage — is an
// out-of-scope collaborator referenced only through the Tree interface;
// RangeTree is a reference implementation built on
// github.com/transparency-dev/merkle's compact-range and RFC6962 hasher.
package merkle

import (
	"github.com/transparency-dev/merkle/compact"
	"github.com/transparency-dev/merkle/proof"
	"github.com/transparency-dev/merkle/rfc6962"

	ierrors "github.com/indy-vdr/go-indy-vdr/errors"
)

// Tree is the out-of-scope Merkle-tree primitive CatchupEngine and
// MerkleVerifier are built against: an append-only leaf log that can
// report its current size and root.
type Tree interface {
	// Size returns the number of leaves currently in the tree.
	Size() uint64

	// Root returns the root hash of the current leaf sequence.
	Root() []byte

	// Append extends the leaf sequence by one leaf derived from the
	// given serialized transaction bytes.
	Append(txn []byte) error

	// Clone returns an independent copy of the tree, so a failed
	// catchup attempt never mutates the caller's original.
	Clone() Tree
}

// RangeTree is a reference Tree implementation backed by a
// transparency-dev/merkle compact.Range anchored at leaf 0.
type RangeTree struct {
	rng *compact.Range
}

var hasher = rfc6962.DefaultHasher
var rangeFactory = &compact.RangeFactory{Hash: hasher.HashChildren}

// NewRangeTree creates an empty RangeTree (leaf count 0).
func NewRangeTree() *RangeTree {
	rng := rangeFactory.NewEmptyRange(0)
	return &RangeTree{rng: rng}
}

func (t *RangeTree) Size() uint64 { return t.rng.End() }

func (t *RangeTree) Root() []byte {
	root, err := t.rng.GetRootHash(nil)
	if err != nil {
		return nil
	}
	return root
}

func (t *RangeTree) Append(txn []byte) error {
	leafHash := hasher.HashLeaf(txn)
	return t.rng.Append(leafHash, nil)
}

// Clone rebuilds the compact range from a copy of t's hash slice, so the
// clone appends without mutating t.
func (t *RangeTree) Clone() Tree {
	hashes := append([][]byte(nil), t.rng.Hashes()...)
	rng, err := rangeFactory.NewRange(t.rng.Begin(), t.rng.End(), hashes)
	if err != nil {
		panic(err)
	}
	return &RangeTree{rng: rng}
}

// Verifier implements the two MerkleVerifier operations: Append and
// VerifyConsistency.
type Verifier struct{}

// NewVerifier constructs a MerkleVerifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Append extends tree by one leaf derived from txn. A hashing failure
// surfaces as a CryptoError, per the error handling design.
func (v *Verifier) Append(tree Tree, txn []byte) error {
	if err := tree.Append(txn); err != nil {
		return ierrors.CryptoErr(err, "append leaf")
	}
	return nil
}

// VerifyConsistency checks that consProof, a consistency proof from
// tree's current size to targetSize, folds tree's current root into
// targetRoot. A mismatch is not fatal to the overall catchup operation:
// the caller discards the batch and retries against another peer.
func (v *Verifier) VerifyConsistency(tree Tree, consProof [][]byte, targetRoot []byte, targetSize uint64) error {
	err := proof.VerifyConsistency(hasher, tree.Size(), targetSize, consProof, tree.Root(), targetRoot)
	if err != nil {
		return ierrors.CryptoErr(err, "verify consistency proof")
	}
	return nil
}
