// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

// Package hasher implements the hasher capability consumed by the imt package: a
// stateful byte absorber that finalizes into a fixed 32-byte digest.
//
// A Hasher is obtained from a factory (a plain `func() Hasher`). Factories are
// cheap and pure: calling one twice must yield two hashers that behave
// identically. The tree engine and the verifier are both parameterized by a
// factory rather than a concrete hash function, so swapping SHA256Factory for
// Keccak256Factory changes the commitment scheme without touching any other
// package.
package hasher

import (
	"crypto/sha256"
	"hash"
)

// Hasher absorbs bytes and finalizes into a 32-byte digest. Absorb may be
// called any number of times before Finalize; Finalize consumes the
// accumulated input and is not expected to be called twice.
type Hasher interface {
	Absorb(data []byte)
	Finalize() [32]byte
}

// PairHashFn hashes exactly one 64-byte chunk (two concatenated 32-byte
// values) into a single 32-byte digest written to dst. It mirrors the bulk
// hashing primitive the pack's SSZ hasher uses internally (NativeHashWrapper
// / the cgo hashtree backend), narrowed to one pair because our callers only
// ever have a single pair to hash at a time (the tree engine refreshes one
// root-to-leaf path per mutation, not a full layer).
type PairHashFn func(dst []byte, chunks []byte) error

// NativeHashWrapper adapts a stdlib hash.Hash into a PairHashFn, exactly as
// the pack's SSZ hasher does for its inner merkleization loop.
func NativeHashWrapper(newHash func() hash.Hash) PairHashFn {
	return func(dst []byte, chunks []byte) error {
		h := newHash()
		h.Write(chunks[:32])
		h.Write(chunks[32:64])
		sum := h.Sum(dst[:0])
		copy(dst, sum)
		return nil
	}
}

// genericHasher is the default Hasher: it simply buffers every Absorb call
// and hashes the concatenation on Finalize. It has no constraint on the
// number or length of Absorb calls, which the leaf hash (3 fields), the
// single-child sibling step (1 field) and the size-mixin step (hash + 8
// bytes) all rely on.
type genericHasher struct {
	newHash func() hash.Hash
	buf     []byte
}

func (h *genericHasher) Absorb(data []byte) {
	h.buf = append(h.buf, data...)
}

func (h *genericHasher) Finalize() [32]byte {
	sum := h.newHash()
	sum.Write(h.buf)
	var out [32]byte
	copy(out[:], sum.Sum(nil))
	return out
}

// SHA256Factory returns a hasher factory backed by crypto/sha256.
func SHA256Factory() func() Hasher {
	return func() Hasher {
		return &genericHasher{newHash: sha256.New}
	}
}

// pairAcceleratedHasher behaves like genericHasher for every shape except the
// hot one: exactly two 32-byte absorbs (the common both-siblings-present
// case in refresh_tree), where it defers to a PairHashFn instead of the
// stdlib hash. This is the same "fast path for the shape that matters, plain
// fallback for everything else" structure the pack's own fast hasher uses.
type pairAcceleratedHasher struct {
	newHash  func() hash.Hash
	pairHash PairHashFn
	absorbs  [][]byte
}

func (h *pairAcceleratedHasher) Absorb(data []byte) {
	h.absorbs = append(h.absorbs, data)
}

func (h *pairAcceleratedHasher) Finalize() [32]byte {
	var out [32]byte
	if len(h.absorbs) == 2 && len(h.absorbs[0]) == 32 && len(h.absorbs[1]) == 32 {
		var chunks [64]byte
		copy(chunks[:32], h.absorbs[0])
		copy(chunks[32:], h.absorbs[1])

		dst := make([]byte, 32)
		if err := h.pairHash(dst, chunks[:]); err == nil {
			copy(out[:], dst)
			return out
		}
	}

	sum := h.newHash()
	for _, a := range h.absorbs {
		sum.Write(a)
	}
	copy(out[:], sum.Sum(nil))
	return out
}

// fastPairHash is the PairHashFn used by FastSHA256Factory. It defaults to
// the plain stdlib implementation and is swapped for a cgo-accelerated
// implementation by hasher_cgo.go when built with cgo, exactly as the pack's
// FastHasherPool.HashFn is swapped in its own hasher_cgo.go.
var fastPairHash PairHashFn = NativeHashWrapper(sha256.New)

// FastSHA256Factory returns a hasher factory that behaves identically to
// SHA256Factory but hashes the common both-siblings-present case through
// fastPairHash, which is SIMD-accelerated when this module is built with
// cgo (see hasher_cgo.go).
func FastSHA256Factory() func() Hasher {
	return func() Hasher {
		return &pairAcceleratedHasher{newHash: sha256.New, pairHash: fastPairHash}
	}
}
