// Copyright (c) 2025 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package gate provides a single-permit gate: a level-triggered flag that
// doubles as a blocking wait primitive.
//
//  0. The gate holds at most one permit.
//  1. Available reports the permit without consuming it, so any number of
//     probes observe the same level.
//  2. TryAcquire and Acquire consume the permit; Release restores it.
//     Releasing a gate whose permit is already present is a no-op, so the
//     permit count can never exceed one.
//  3. Waiting for the permit does not require polling, and a waiter that
//     acquires and immediately releases leaves the level unchanged for
//     every other waiter and prober.
package gate

import (
	"context"
	"time"
)

// Gate is a single-permit gate. Use New to construct one; the zero value is
// not usable.
type Gate struct {
	// permits holds at most one token. A token is present exactly when the
	// condition the gate represents is set.
	permits chan struct{}
}

// New returns a gate with no permit available.
func New() *Gate {
	return &Gate{permits: make(chan struct{}, 1)}
}

// Available reports whether the permit is present without consuming it.
func (g *Gate) Available() bool {
	return len(g.permits) == 1
}

// TryAcquire takes the permit if one is present. It never blocks.
func (g *Gate) TryAcquire() bool {
	select {
	case <-g.permits:
		return true
	default:
		return false
	}
}

// Acquire blocks until the permit is available and takes it, or returns the
// context's error if the context ends first. If the permit is already
// available, Acquire takes it even when the context has ended.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case <-g.permits:
		return nil
	default:
	}
	select {
	case <-g.permits:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AcquireTimeout behaves like Acquire but gives up after the timeout,
// reporting whether the permit was taken. Expiry of the timeout is not an
// error; cancellation of the context is.
func (g *Gate) AcquireTimeout(ctx context.Context, timeout time.Duration) (bool, error) {
	select {
	case <-g.permits:
		return true, nil
	default:
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-g.permits:
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Release makes the permit available and wakes one waiter, if any. The
// woken waiter is responsible for restoring the permit if the level should
// remain set. Release on a gate whose permit is already present is a no-op.
func (g *Gate) Release() {
	select {
	case g.permits <- struct{}{}:
	default:
	}
}
