// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

// Package imt implements an Indexed Merkle Tree: a sparse Merkle tree with a
// sorted linked-list overlay that makes non-membership proofs constant-size.
// A Tree (the prover side) mutates its state and emits compact witnesses;
// InsertWitness and UpdateWitness verify independently of any Tree, against
// a prior root and a hasher factory alone.
package imt

import (
	"bytes"

	"github.com/indexed-merkle/imt-go/hasher"
)

// Key and Value are opaque, fixed-width byte strings. 32 bytes matches the
// worked examples throughout this package, but nothing below assumes that
// width beyond the array size itself.
type Key = [32]byte

// Value holds a node's mutable payload.
type Value = [32]byte

// ZeroKey is the reserved sentinel: the initial anchor node's key, and the
// end-of-list marker in NextKey.
var ZeroKey Key

// Node is an entry in the indexed linked list.
type Node struct {
	// Index is the 0-based insertion position. Assigned once, immutable,
	// and deliberately excluded from LeafHash.
	Index uint64
	// Key is this node's key. Immutable.
	Key Key
	// Value is this node's payload. Mutable via Update.
	Value Value
	// NextKey is the key of the next node in ascending key order, or
	// ZeroKey if this node currently holds the largest key.
	NextKey Key
}

// LeafHash returns the digest of Key || Value || NextKey. Index is never
// absorbed: the leaf hash depends only on logical content, so a verifier
// that knows nothing about physical slot placement can still recompute it.
func (n Node) LeafHash(factory func() hasher.Hasher) [32]byte {
	h := factory()
	h.Absorb(n.Key[:])
	h.Absorb(n.Value[:])
	h.Absorb(n.NextKey[:])
	return h.Finalize()
}

// IsLowNullifierOf reports whether n is the low-nullifier node for
// candidateKey: the unique existing node whose key sorts immediately before
// candidateKey in the linked list.
func (n Node) IsLowNullifierOf(candidateKey Key) bool {
	if bytes.Compare(n.Key[:], candidateKey[:]) >= 0 {
		return false
	}
	return bytes.Compare(n.NextKey[:], candidateKey[:]) > 0 || n.NextKey == ZeroKey
}
