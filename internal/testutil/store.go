// Package testutil provides fixtures shared across core package tests: an
// in-memory store with a controllable clock, and random ed25519 signer
// generation for building WeightedSigners/Proof values.
package testutil

import "gatewaycore/core"

// Clock is a mutable logical clock tests advance explicitly, avoiding any
// dependency on wall-clock time (spec.md's flow-limiter bucketing is
// defined purely in terms of "current time").
type Clock struct {
	t uint64
}

func NewClock(start uint64) *Clock { return &Clock{t: start} }

func (c *Clock) Now() uint64 { return c.t }

func (c *Clock) Advance(delta uint64) { c.t += delta }

func (c *Clock) Set(t uint64) { c.t = t }

// NewStore builds an InMemoryStore ticking off the given clock, matching
// the bucket function the flow limiter uses.
func NewStore(clock *Clock) *core.InMemoryStore {
	return core.NewInMemoryStore(func() uint64 { return clock.Now() / core.EpochSeconds })
}
