// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package hasher

import "golang.org/x/crypto/sha3"

// Keccak256Factory returns a hasher factory backed by 256-bit Keccak, the
// instantiation used throughout the worked examples of this package's
// consumer (the imt package's end-to-end scenarios).
func Keccak256Factory() func() Hasher {
	return func() Hasher {
		return &genericHasher{newHash: sha3.NewLegacyKeccak256}
	}
}
