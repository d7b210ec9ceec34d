// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package imt

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/indexed-merkle/imt-go/hasher"
	"github.com/indexed-merkle/imt-go/telemetry"
)

// Tree is the prover-side Merkle maintenance engine. It owns every node and
// a lazily materialized per-level cache of internal hashes, and is not safe
// for concurrent use by multiple goroutines: mutations on a single instance
// are totally ordered, and each one observes the exact root produced by its
// immediate predecessor.
type Tree struct {
	hasherFactory func() hasher.Hasher

	root  [32]byte
	size  uint64
	depth uint8

	nodes  map[Key]Node
	hashes map[uint8]map[uint64][32]byte

	tracer *telemetry.Tracer
}

// New constructs a fresh tree containing only the zero-key anchor node.
func New(hasherFactory func() hasher.Hasher, opts ...Option) *Tree {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Tree{
		hasherFactory: hasherFactory,
		size:          1,
		nodes:         make(map[Key]Node, cfg.capacityHint),
		hashes:        make(map[uint8]map[uint64][32]byte),
		tracer:        cfg.tracer,
	}

	init := Node{Index: 0, Key: ZeroKey, Value: Value{}, NextKey: ZeroKey}
	t.nodes[ZeroKey] = init
	t.refreshTree(ZeroKey)

	return t
}

// Root returns the tree's current committed root.
func (t *Tree) Root() [32]byte { return t.root }

// Size returns the current number of nodes in the tree, including the
// zero-key anchor.
func (t *Tree) Size() uint64 { return t.size }

// Depth returns the current tree depth.
func (t *Tree) Depth() uint8 { return t.depth }

// Insert records a new (key, value) pair and returns the witness a verifier
// needs to recompute the new root from the root as of immediately before
// this call.
func (t *Tree) Insert(key, value Key) (*InsertWitness, error) {
	if _, exists := t.nodes[key]; exists {
		return nil, fmt.Errorf("imt: key already present")
	}

	oldRoot := t.root
	oldSize := t.size

	lnNode := t.lowNullifier(key)
	lnSiblings := t.siblings(lnNode.Key)

	ln := t.nodes[lnNode.Key]
	originalNextKey := ln.NextKey
	ln.NextKey = key
	t.nodes[ln.Key] = ln
	t.refreshTree(ln.Key)

	t.size++
	t.refreshDepth()

	node := Node{Index: oldSize, Key: key, Value: value, NextKey: originalNextKey}
	t.nodes[key] = node
	nodeSiblings := t.refreshTree(key)

	updatedLnSiblings := t.siblings(ln.Key)

	if t.tracer != nil {
		t.tracer.InsertApplied(key, oldSize+1, t.root)
	}

	return &InsertWitness{
		OldRoot:           oldRoot,
		OldSize:           oldSize,
		LnNode:            lnNode,
		LnSiblings:        lnSiblings,
		Node:              node,
		NodeSiblings:      nodeSiblings,
		UpdatedLnSiblings: updatedLnSiblings,
	}, nil
}

// Update overwrites the value of an existing key and returns the witness a
// verifier needs to recompute the new root.
func (t *Tree) Update(key, value Key) (*UpdateWitness, error) {
	node, exists := t.nodes[key]
	if !exists {
		return nil, fmt.Errorf("imt: key not present")
	}

	oldRoot := t.root
	oldNode := node

	node.Value = value
	t.nodes[key] = node
	nodeSiblings := t.refreshTree(key)

	if t.tracer != nil {
		t.tracer.UpdateApplied(key, t.root)
	}

	return &UpdateWitness{
		OldRoot:      oldRoot,
		Size:         t.size,
		Node:         oldNode,
		NodeSiblings: nodeSiblings,
		NewValue:     value,
	}, nil
}

// LowNullifier returns the low-nullifier node for candidateKey: the unique
// existing node n with n.Key < candidateKey and (n.NextKey > candidateKey or
// n.NextKey == ZeroKey).
func (t *Tree) LowNullifier(candidateKey Key) (Node, error) {
	for _, n := range t.nodes {
		if n.IsLowNullifierOf(candidateKey) {
			return n, nil
		}
	}
	return Node{}, fmt.Errorf("imt: no low-nullifier node found for candidate key")
}

func (t *Tree) lowNullifier(candidateKey Key) Node {
	n, err := t.LowNullifier(candidateKey)
	if err != nil {
		panic(err)
	}
	return n
}

// Siblings returns the sibling vector for key as of the tree's current
// state, without mutating anything.
func (t *Tree) Siblings(key Key) ([]Sibling, error) {
	if _, exists := t.nodes[key]; !exists {
		return nil, fmt.Errorf("imt: key not present")
	}
	return t.siblings(key), nil
}

func (t *Tree) siblings(key Key) []Sibling {
	node := t.nodes[key]
	index := node.Index

	out := make([]Sibling, 0, t.depth)
	for level := uint8(0); level < t.depth; level++ {
		siblingIndex := siblingIndexOf(index)
		out = append(out, t.cachedSibling(level, siblingIndex))
		index /= 2
	}
	return out
}

func (t *Tree) cachedSibling(level uint8, index uint64) Sibling {
	byIndex, ok := t.hashes[level]
	if !ok {
		return Sibling{}
	}
	h, ok := byIndex[index]
	if !ok {
		return Sibling{}
	}
	return PresentSibling(h)
}

// refreshTree walks key's leaf up to the root, recomputing and caching every
// ancestor hash along the way, and returns the sibling vector observed
// during the climb.
func (t *Tree) refreshTree(key Key) []Sibling {
	node := t.nodes[key]
	index := node.Index

	hash := node.LeafHash(t.hasherFactory)
	t.cacheHash(0, index, hash)

	siblings := make([]Sibling, 0, t.depth)
	for level := uint8(0); level < t.depth; level++ {
		siblingIndex := siblingIndexOf(index)
		sib := t.cachedSibling(level, siblingIndex)
		siblings = append(siblings, sib)

		var left, right *[32]byte
		if index%2 == 0 {
			left, right = &hash, sibPtr(sib)
		} else {
			left, right = sibPtr(sib), &hash
		}

		step := t.hasherFactory()
		switch {
		case left == nil && right == nil:
			panic("imt: refresh reached an all-absent sibling pair; tree state is corrupt")
		case left == nil:
			step.Absorb(right[:])
		case right == nil:
			step.Absorb(left[:])
		default:
			step.Absorb(left[:])
			step.Absorb(right[:])
		}
		hash = step.Finalize()

		index /= 2
		t.cacheHash(level+1, index, hash)
	}

	final := t.hasherFactory()
	final.Absorb(hash[:])
	var sizeBE [8]byte
	binary.BigEndian.PutUint64(sizeBE[:], t.size)
	final.Absorb(sizeBE[:])
	t.root = final.Finalize()

	return siblings
}

func (t *Tree) cacheHash(level uint8, index uint64, hash [32]byte) {
	byLevel, ok := t.hashes[level]
	if !ok {
		byLevel = make(map[uint64][32]byte)
		t.hashes[level] = byLevel
	}
	byLevel[index] = hash
}

// refreshDepth grows depth to the smallest value such that 2^depth >= size.
// Depth never shrinks and grows by at most one per insert.
func (t *Tree) refreshDepth() {
	b := uint8(bits.Len64(t.size) - 1)
	if t.size == uint64(1)<<b {
		t.depth = b
	} else {
		t.depth = b + 1
	}
}

func siblingIndexOf(index uint64) uint64 {
	if index%2 == 0 {
		return index + 1
	}
	return index - 1
}
