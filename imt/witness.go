// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package imt

import "github.com/indexed-merkle/imt-go/hasher"

// Mutation is the tagged union of InsertWitness and UpdateWitness: a
// self-contained record that, together with the prior root and a hasher
// factory, deterministically yields the new root.
type Mutation interface {
	// Verify recomputes the new root from the mutation, failing if
	// expectedOldRoot does not match the witness's own claimed old root,
	// or if the witness's internal cross-checks do not hold.
	Verify(factory func() hasher.Hasher, expectedOldRoot [32]byte) ([32]byte, error)
}

// InsertWitness carries everything a verifier needs to recompute the root
// produced by an Insert.
type InsertWitness struct {
	OldRoot [32]byte
	OldSize uint64

	LnNode     Node
	LnSiblings []Sibling

	Node              Node
	NodeSiblings      []Sibling
	UpdatedLnSiblings []Sibling
}

var _ Mutation = (*InsertWitness)(nil)

// Verify implements the insert verification algebra:
//  1. reject a stale old root;
//  2. check the claimed low-nullifier both satisfies the ordering relation
//     against the new key and is provably part of the tree committed to by
//     old root;
//  3. relink the low-nullifier's NextKey to the new node's key;
//  4. recompute the root twice — once from the new node, once from the
//     relinked low-nullifier — and require the two to agree.
//
// The two-recomputation cross-check is the heart of soundness: an
// adversarial witness cannot produce identical roots from two different
// leaves unless the sibling vectors truly agree on one common tree, which in
// turn pins the leaf hash of every untouched node.
func (w *InsertWitness) Verify(factory func() hasher.Hasher, expectedOldRoot [32]byte) ([32]byte, error) {
	if expectedOldRoot != w.OldRoot {
		return [32]byte{}, verifyErr(ErrStaleOldRoot, "caller-supplied root does not match witness.OldRoot")
	}

	if !w.LnNode.IsLowNullifierOf(w.Node.Key) {
		return [32]byte{}, verifyErr(ErrInvalidLn, "ln_node does not satisfy the low-nullifier ordering relation")
	}
	if root(factory, w.OldSize, w.LnNode, w.LnSiblings) != w.OldRoot {
		return [32]byte{}, verifyErr(ErrInvalidLn, "ln_node and ln_siblings do not reconstruct old_root")
	}

	updatedLn := w.LnNode
	updatedLn.NextKey = w.Node.Key

	newSize := w.OldSize + 1
	r1 := root(factory, newSize, w.Node, w.NodeSiblings)
	r2 := root(factory, newSize, updatedLn, w.UpdatedLnSiblings)

	if r1 != r2 {
		return [32]byte{}, verifyErr(ErrInconsistentSiblings, "root(node) and root(updated_ln) disagree")
	}

	return r1, nil
}

// UpdateWitness carries everything a verifier needs to recompute the root
// produced by an Update.
type UpdateWitness struct {
	OldRoot      [32]byte
	Size         uint64
	Node         Node
	NodeSiblings []Sibling
	NewValue     Value
}

var _ Mutation = (*UpdateWitness)(nil)

// Verify implements the update verification algebra: reject a stale old
// root, confirm the pre-update node and siblings reconstruct old_root, then
// recompute the root from the node with its value replaced.
func (w *UpdateWitness) Verify(factory func() hasher.Hasher, expectedOldRoot [32]byte) ([32]byte, error) {
	if expectedOldRoot != w.OldRoot {
		return [32]byte{}, verifyErr(ErrStaleOldRoot, "caller-supplied root does not match witness.OldRoot")
	}

	if root(factory, w.Size, w.Node, w.NodeSiblings) != w.OldRoot {
		return [32]byte{}, verifyErr(ErrNodeNotInTree, "node and node_siblings do not reconstruct old_root")
	}

	updated := w.Node
	updated.Value = w.NewValue

	return root(factory, w.Size, updated, w.NodeSiblings), nil
}
