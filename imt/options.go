// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package imt

import "github.com/indexed-merkle/imt-go/telemetry"

// Option configures a Tree at construction time, following the same
// functional-options shape as the pack's own DynSszOption.
type Option func(*config)

type config struct {
	tracer       *telemetry.Tracer
	capacityHint int
}

func defaultConfig() *config {
	return &config{}
}

// WithTracer attaches a structured-logging tracer. A Tree built without this
// option performs zero logging calls.
func WithTracer(t *telemetry.Tracer) Option {
	return func(c *config) {
		c.tracer = t
	}
}

// WithCapacityHint pre-sizes the internal node map for n expected leaves,
// avoiding repeated map growth on workloads whose size is known up front.
func WithCapacityHint(n int) Option {
	return func(c *config) {
		c.capacityHint = n
	}
}
