// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
//go:build cgo
// +build cgo

package hasher

import (
	"github.com/indexed-merkle/imt-go/hasher/cgo"
)

func init() {
	fastPairHash = cgo.HashPair
}
