// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package imt

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/indexed-merkle/imt-go/hasher"
)

// BatchItem pairs a Mutation with the root it is expected to be verified
// against.
type BatchItem struct {
	Mutation        Mutation
	ExpectedOldRoot [32]byte
}

// VerifyBatch verifies N independent mutations concurrently. Verify is a
// pure function with no shared state (see §5's concurrency model), so
// fanning it out across goroutines changes nothing about its semantics —
// only its wall-clock cost on multi-core hardware. On the first failure,
// the group context is canceled, verifications that have not begun yet are
// skipped, and the first error encountered is returned; on success,
// newRoots[i] corresponds to items[i].
func VerifyBatch(ctx context.Context, items []BatchItem, factory func() hasher.Hasher) ([][32]byte, error) {
	newRoots := make([][32]byte, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := item.Mutation.Verify(factory, item.ExpectedOldRoot)
			if err != nil {
				return err
			}
			newRoots[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newRoots, nil
}
