// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package imt

import (
	"encoding/binary"

	"github.com/indexed-merkle/imt-go/hasher"
)

// Sibling is one slot of a sibling vector: either a present 32-byte hash or
// an absent slot. Absent slots are never represented as a zero-filled hash
// (see root's one-child-single-absorb rule below) — that distinction is
// exactly what Present exists to preserve.
type Sibling struct {
	Hash    [32]byte
	Present bool
}

// PresentSibling wraps a known hash into a present Sibling.
func PresentSibling(h [32]byte) Sibling {
	return Sibling{Hash: h, Present: true}
}

// root is the pure function climbing from a node's leaf hash to the tree
// root, given the node's sibling vector and the tree's claimed size.
//
// Level L pairs the running hash with siblings[L] according to the parity
// of the node's index at that level (even index: running hash is the left
// child). When only one side of a pair is present, that single value is
// absorbed on its own rather than padded with a zero placeholder — so the
// all-absent combination can never legitimately occur in a well-formed
// witness, and indicates corruption in the caller's state.
//
// The final step binds size into the root as an 8-byte big-endian suffix,
// so that two trees with identical leaves but different claimed depths
// produce distinguishable roots.
func root(factory func() hasher.Hasher, size uint64, node Node, siblings []Sibling) [32]byte {
	h := node.LeafHash(factory)
	index := node.Index

	for _, sib := range siblings {
		var left, right *[32]byte
		if index%2 == 0 {
			left, right = &h, sibPtr(sib)
		} else {
			left, right = sibPtr(sib), &h
		}

		step := factory()
		switch {
		case left == nil && right == nil:
			panic("imt: root computation reached an all-absent sibling pair; witness is corrupt")
		case left == nil:
			step.Absorb(right[:])
		case right == nil:
			step.Absorb(left[:])
		default:
			step.Absorb(left[:])
			step.Absorb(right[:])
		}
		h = step.Finalize()

		index /= 2
	}

	var sizeBE [8]byte
	binary.BigEndian.PutUint64(sizeBE[:], size)

	final := factory()
	final.Absorb(h[:])
	final.Absorb(sizeBE[:])
	return final.Finalize()
}

func sibPtr(s Sibling) *[32]byte {
	if !s.Present {
		return nil
	}
	h := s.Hash
	return &h
}
