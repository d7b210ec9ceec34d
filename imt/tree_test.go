// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package imt

import (
	"testing"

	"github.com/indexed-merkle/imt-go/hasher"
)

func TestNewTreeIsInitialized(t *testing.T) {
	tree := New(hasher.Keccak256Factory())

	if tree.Size() != 1 {
		t.Errorf("Size() = %d, want 1", tree.Size())
	}
	if tree.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", tree.Depth())
	}

	zero, err := tree.LowNullifier(repeat(1))
	if err != nil {
		t.Fatalf("LowNullifier: %v", err)
	}
	if zero.Key != ZeroKey || zero.NextKey != ZeroKey || zero.Index != 0 {
		t.Errorf("unexpected zero node: %+v", zero)
	}
}

func TestInsertRejectsDuplicateKey(t *testing.T) {
	tree := New(hasher.Keccak256Factory())

	if _, err := tree.Insert(repeat(1), repeat(0x2a)); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := tree.Insert(repeat(1), repeat(0x2a)); err == nil {
		t.Fatal("expected error inserting an already-present key")
	}
}

func TestUpdateRejectsMissingKey(t *testing.T) {
	tree := New(hasher.Keccak256Factory())

	if _, err := tree.Update(repeat(9), repeat(1)); err == nil {
		t.Fatal("expected error updating an absent key")
	}
}

func TestInsertWitnessVerifiesAgainstEngineRoot(t *testing.T) {
	factory := hasher.Keccak256Factory()
	tree := New(factory)

	preRoot := tree.Root()
	witness, err := tree.Insert(repeat(1), repeat(0x2a))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if witness.LnNode.Key != ZeroKey || witness.LnNode.NextKey != ZeroKey {
		t.Errorf("unexpected ln_node: %+v", witness.LnNode)
	}
	if witness.Node.Index != 1 || witness.Node.NextKey != ZeroKey {
		t.Errorf("unexpected node: %+v", witness.Node)
	}
	if tree.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", tree.Depth())
	}

	gotRoot, err := witness.Verify(factory, preRoot)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if gotRoot != tree.Root() {
		t.Errorf("Verify() root = %x, want %x (I1)", gotRoot, tree.Root())
	}
}

func TestInsertOrdersByKeyNotByInsertionOrder(t *testing.T) {
	factory := hasher.Keccak256Factory()
	tree := New(factory)

	// Insert in an order that does not match key order; I8 requires the
	// linked list to end up sorted by key regardless.
	for _, k := range []byte{10, 30, 1, 20} {
		if _, err := tree.Insert(repeat(k), repeat(k)); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}

	// Querying the low-nullifier of a candidate strictly between two
	// consecutive present keys must return the lesser of the two, and its
	// NextKey must equal the greater — which is exactly the linked-list
	// invariant (§3 invariant 4).
	tests := []struct {
		candidate   byte
		wantLnKey   byte
		wantNextKey byte
	}{
		{candidate: 5, wantLnKey: 1, wantNextKey: 10},
		{candidate: 15, wantLnKey: 10, wantNextKey: 20},
		{candidate: 25, wantLnKey: 20, wantNextKey: 30},
		{candidate: 200, wantLnKey: 30, wantNextKey: 0},
	}

	for _, tt := range tests {
		ln, err := tree.LowNullifier(repeat(tt.candidate))
		if err != nil {
			t.Fatalf("LowNullifier(%d): %v", tt.candidate, err)
		}
		if ln.Key != repeat(tt.wantLnKey) {
			t.Errorf("LowNullifier(%d).Key = %x, want %x", tt.candidate, ln.Key, repeat(tt.wantLnKey))
		}
		if ln.NextKey != repeat(tt.wantNextKey) {
			t.Errorf("LowNullifier(%d).NextKey = %x, want %x", tt.candidate, ln.NextKey, repeat(tt.wantNextKey))
		}
	}
}

func TestUpdateRoundTripsToOriginalRoot(t *testing.T) {
	factory := hasher.Keccak256Factory()
	tree := New(factory)

	if _, err := tree.Insert(repeat(3), repeat(1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rootBeforeUpdate := tree.Root()

	preUpdateRoot := tree.Root()
	w1, err := tree.Update(repeat(3), repeat(0xff))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	newRoot, err := w1.Verify(factory, preUpdateRoot)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if newRoot == rootBeforeUpdate {
		t.Error("update to a different value must change the root")
	}

	w2, err := tree.Update(repeat(3), repeat(1))
	if err != nil {
		t.Fatalf("Update (restore): %v", err)
	}
	restoredRoot, err := w2.Verify(factory, w2.OldRoot)
	if err != nil {
		t.Fatalf("Verify (restore): %v", err)
	}
	if restoredRoot != rootBeforeUpdate {
		t.Errorf("restoring the original value should restore the original root (I1 composition): got %x, want %x", restoredRoot, rootBeforeUpdate)
	}
	if tree.Root() != rootBeforeUpdate {
		t.Errorf("tree root after restore = %x, want %x", tree.Root(), rootBeforeUpdate)
	}
}

func TestDepthGrowsByAtMostOnePerInsert(t *testing.T) {
	tree := New(hasher.Keccak256Factory())

	depths := make([]uint8, 0, 9)
	for i := byte(1); i <= 8; i++ {
		if _, err := tree.Insert(repeat(i), repeat(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
		depths = append(depths, tree.Depth())
	}

	// size after inserts: 2,3,4,5,6,7,8,9 -> depth: 1,2,2,3,3,3,3,4
	want := []uint8{1, 2, 2, 3, 3, 3, 3, 4}
	for i, d := range depths {
		if d != want[i] {
			t.Errorf("after insert %d: depth = %d, want %d", i+1, d, want[i])
		}
		if i > 0 && d > depths[i-1]+1 {
			t.Errorf("depth grew by more than 1 between inserts (I7)")
		}
	}
}

func TestDeterministicAcrossIndependentTrees(t *testing.T) {
	seq := []byte{1, 2, 3, 5, 4}

	build := func() *Tree {
		tree := New(hasher.Keccak256Factory())
		for _, k := range seq {
			if _, err := tree.Insert(repeat(k), repeat(k)); err != nil {
				t.Fatalf("Insert(%d): %v", k, err)
			}
		}
		return tree
	}

	t1 := build()
	t2 := build()

	if t1.Root() != t2.Root() {
		t.Error("identical mutation sequences must produce identical roots (I6)")
	}
}
