// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

// Package telemetry provides a narrow, structured logging wrapper around
// log/slog for the imt engine. Tracer exposes named, domain-specific events
// (InsertApplied, UpdateApplied, VerifyRejected) instead of generic Log
// calls, so call sites read as what happened rather than how it was
// formatted. A nil *Tracer is a valid, fully silent tracer: every method has
// a nil-receiver guard, so the core engine's hot path pays nothing when no
// tracer is attached.
package telemetry

import (
	"fmt"
	"log/slog"
	"os"
)

// Tracer wraps a *slog.Logger with IMT-specific event methods.
type Tracer struct {
	logger *slog.Logger
}

// NewTracer returns a Tracer that writes JSON-formatted events to os.Stderr
// at the given level.
func NewTracer(level slog.Level) *Tracer {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Tracer{logger: slog.New(handler)}
}

// With returns a derived Tracer that attaches args to every subsequent
// event, without mutating the receiver.
func (t *Tracer) With(args ...any) *Tracer {
	if t == nil {
		return nil
	}
	return &Tracer{logger: t.logger.With(args...)}
}

// InsertApplied records that the engine applied an insert and produced a
// new root.
func (t *Tracer) InsertApplied(key [32]byte, size uint64, newRoot [32]byte) {
	if t == nil {
		return
	}
	t.logger.Info("imt.insert",
		slog.String("key", fmt.Sprintf("%x", key)),
		slog.Uint64("size", size),
		slog.String("root", fmt.Sprintf("%x", newRoot)),
	)
}

// UpdateApplied records that the engine applied an update and produced a
// new root.
func (t *Tracer) UpdateApplied(key [32]byte, newRoot [32]byte) {
	if t == nil {
		return
	}
	t.logger.Info("imt.update",
		slog.String("key", fmt.Sprintf("%x", key)),
		slog.String("root", fmt.Sprintf("%x", newRoot)),
	)
}

// VerifyRejected records that a mutation witness failed verification.
func (t *Tracer) VerifyRejected(reason error) {
	if t == nil {
		return
	}
	t.logger.Warn("imt.verify_rejected", slog.String("reason", reason.Error()))
}
