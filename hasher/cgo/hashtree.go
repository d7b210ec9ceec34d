// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
//go:build cgo
// +build cgo

package cgo

import (
	"fmt"
	"unsafe"

	"github.com/OffchainLabs/hashtree"
)

// HashPair hashes exactly one 64-byte chunk (two concatenated 32-byte
// siblings) into dst using the SIMD-accelerated hashtree library. It is the
// single-pair specialization of the pack's batch HashtreeHashByteSlice: the
// tree engine only ever refreshes one root-to-leaf path at a time, so there
// is never a batch of sibling pairs to hash together.
func HashPair(dst []byte, chunks []byte) error {
	if len(chunks) != 64 {
		return fmt.Errorf("chunks must be exactly 64 bytes, got %d", len(chunks))
	}
	if len(dst) < 32 {
		return fmt.Errorf("dst must be at least 32 bytes, got %d", len(dst))
	}

	chunkedChunks := unsafe.Slice((*[32]byte)(unsafe.Pointer(&chunks[0])), 2)
	chunkedDigest := unsafe.Slice((*[32]byte)(unsafe.Pointer(&dst[0])), 1)

	hashtree.Hash(chunkedDigest, chunkedChunks)

	return nil
}
