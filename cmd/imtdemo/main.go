// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

// Command imtdemo walks through a small sequence of inserts and an update
// against an indexed Merkle tree. Each insert's witness is independently
// verified before the next insert and the resulting root is printed; all
// witnesses, the update's included, are then verified together in a batch.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/indexed-merkle/imt-go/hasher"
	"github.com/indexed-merkle/imt-go/imt"
	"github.com/indexed-merkle/imt-go/telemetry"
)

func key(b byte) imt.Key {
	var k imt.Key
	k[31] = b
	return k
}

func value(b byte) imt.Value {
	var v imt.Value
	v[0] = b
	return v
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "imtdemo:", err)
		os.Exit(1)
	}
}

func run() error {
	factory := hasher.Keccak256Factory()
	tracer := telemetry.NewTracer(slog.LevelInfo)

	tree := imt.New(factory, imt.WithTracer(tracer), imt.WithCapacityHint(8))

	fmt.Printf("fresh tree: root=%x depth=%d size=%d\n", tree.Root(), tree.Depth(), tree.Size())

	var items []imt.BatchItem
	for i, k := range []byte{30, 10, 20, 5} {
		oldRoot := tree.Root()
		w, err := tree.Insert(key(k), value(byte(i+1)))
		if err != nil {
			return fmt.Errorf("insert %d: %w", k, err)
		}
		newRoot, err := w.Verify(factory, oldRoot)
		if err != nil {
			return fmt.Errorf("verify insert %d: %w", k, err)
		}
		fmt.Printf("insert key=%d -> root=%x\n", k, newRoot)
		items = append(items, imt.BatchItem{Mutation: w, ExpectedOldRoot: oldRoot})
	}

	oldRoot := tree.Root()
	uw, err := tree.Update(key(10), value(0xff))
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	items = append(items, imt.BatchItem{Mutation: uw, ExpectedOldRoot: oldRoot})

	roots, err := imt.VerifyBatch(context.Background(), items, factory)
	if err != nil {
		return fmt.Errorf("batch verify: %w", err)
	}
	fmt.Printf("batch-verified %d mutations, final root=%x\n", len(roots), tree.Root())

	return nil
}
