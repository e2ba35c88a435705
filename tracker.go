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

package connstate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/connstate/executor"
	"go.uber.org/connstate/internal/clock"
	"go.uber.org/connstate/internal/gate"
	"go.uber.org/zap"
)

// ReasonCancelled is the disconnect reason reported when the client itself
// cancels the connection.
const ReasonCancelled = "Cancelled by client."

// Tracker tracks the status of one persistent connection.
//
//  0. The gate's permit is present exactly when the connection is
//     considered established; every query and wait derives from it.
//  1. Transition entry points are serialized by a mutex, so each
//     disconnected-to-connected edge notifies listeners exactly once, no
//     matter how many goroutines report it.
//  2. Queries are lock-free; waiters block on the gate and never take the
//     mutex, so slow listeners and blocked waiters cannot stall a
//     transition.
//
// Use New to construct a Tracker; the zero value is not usable.
type Tracker struct {
	// mu serializes transitions and guards the listener set. It is never
	// held while blocking.
	mu sync.Mutex

	gate *gate.Gate

	connecting atomic.Bool
	cancelled  atomic.Bool
	lastChange atomic.Time

	// listeners preserves registration order for dispatch.
	listeners []Listener

	executor Executor
	// ownExec is set when the tracker created its executor and therefore
	// owns stopping it.
	ownExec *executor.Serial

	clock   clock.Clock
	logger  *zap.Logger
	metrics trackerMetrics
}

// New creates a disconnected Tracker.
func New(opts ...Option) *Tracker {
	var options options
	for _, o := range opts {
		o.apply(&options)
	}

	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &Tracker{
		gate:     gate.New(),
		executor: options.executor,
		clock:    clock.NewReal(),
		logger:   logger,
		metrics:  newTrackerMetrics(options.meter, logger),
	}
	if t.executor == nil {
		own := executor.NewSerial(executor.Logger(logger))
		t.executor = own
		t.ownExec = own
	}
	return t
}

// Connecting reports that a connection attempt has started. It is a no-op
// if an attempt is already in progress. A held permit is dropped rather
// than restored: connecting implies not yet connected.
func (t *Tracker) Connecting() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connecting.Load() {
		return
	}
	t.cancelled.Store(false)
	t.connecting.Store(true)
	t.lastChange.Store(t.clock.Now())

	t.gate.TryAcquire()

	t.logger.Debug("Connection status changed to connecting.")
	t.metrics.connectAttempts.Inc()
	t.notify(func(l Listener) { l.Connecting() })
}

// Connected reports that the connection is established. Reporting connected
// while already connected is a no-op: the permit is restored and no
// notification fires, so listeners observe exactly one Connected callback
// per disconnected-to-connected edge.
func (t *Tracker) Connected() {
	t.mu.Lock()
	defer t.mu.Unlock()

	wasConnected := t.gate.TryAcquire()
	defer t.gate.Release()

	if wasConnected {
		t.metrics.duplicateConnects.Inc()
		return
	}
	t.cancelled.Store(false)
	t.connecting.Store(false)
	t.lastChange.Store(t.clock.Now())

	t.logger.Debug("Connection status changed to connected.")
	t.metrics.connects.Inc()
	t.notify(func(l Listener) { l.Connected() })
}

// Disconnected reports that the connection was lost or abandoned. It acts
// only if the tracker was connected or connecting; reporting disconnected
// while already disconnected is a no-op with no notification and no
// timestamp change.
func (t *Tracker) Disconnected(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disconnect(reason)
}

// Cancel reports a client-initiated disconnect. The cancelled flag persists
// until a new connection attempt begins, a connection is established, or
// ClearCancelled is called.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled.Store(true)
	t.disconnect(ReasonCancelled)
}

// disconnect must be called with t.mu held.
func (t *Tracker) disconnect(reason string) {
	if !t.gate.TryAcquire() && !t.connecting.Load() {
		return
	}
	t.connecting.Store(false)
	t.lastChange.Store(t.clock.Now())

	t.logger.Debug("Connection status changed to disconnected.", zap.String("reason", reason))
	t.metrics.disconnects.Inc()
	t.notify(func(l Listener) { l.Disconnected(reason) })
}

// ClearCancelled unsets the cancelled flag, allowing new connection
// attempts to proceed.
func (t *Tracker) ClearCancelled() {
	t.cancelled.Store(false)
}

// IsConnected reports whether the connection is currently established.
func (t *Tracker) IsConnected() bool {
	return t.gate.Available()
}

// IsConnecting reports whether a connection attempt is in progress.
func (t *Tracker) IsConnecting() bool {
	return t.connecting.Load()
}

// IsCancelled reports whether the most recent disconnect was a
// client-initiated cancellation that has not been cleared since.
func (t *Tracker) IsCancelled() bool {
	return t.cancelled.Load()
}

// LastChange returns the time of the most recent accepted transition, or
// the zero time if no transition has been accepted yet.
func (t *Tracker) LastChange() time.Time {
	return t.lastChange.Load()
}

// WaitForConnection blocks until the connection is established or the
// context ends. The permit is restored before returning, so concurrent
// waiters release each other and the connected level is unchanged.
func (t *Tracker) WaitForConnection(ctx context.Context) error {
	if err := t.gate.Acquire(ctx); err != nil {
		return err
	}
	t.gate.Release()
	return nil
}

// WaitForConnectionTimeout blocks until the connection is established, the
// timeout lapses, or the context ends. It reports whether the connection
// was observed within the timeout; lapse of the timeout is not an error.
func (t *Tracker) WaitForConnectionTimeout(ctx context.Context, timeout time.Duration) (bool, error) {
	acquired, err := t.gate.AcquireTimeout(ctx, timeout)
	if acquired {
		t.gate.Release()
	}
	return acquired, err
}

// AddListener registers a listener for subsequent transitions. Adding a
// listener that is already registered is a no-op.
func (t *Tracker) AddListener(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, existing := range t.listeners {
		if existing == l {
			return
		}
	}
	t.listeners = append(t.listeners, l)
}

// RemoveListener unregisters a listener. Removing a listener that is not
// registered is a no-op.
func (t *Tracker) RemoveListener(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, existing := range t.listeners {
		if existing == l {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

// notify must be called with t.mu held. It submits one task per listener,
// in registration order, and returns without waiting for execution.
func (t *Tracker) notify(fn func(Listener)) {
	for _, l := range t.listeners {
		l := l
		t.executor.Submit(func() { fn(l) })
	}
}

// Stop shuts down the executor the tracker created for itself, draining
// pending notifications, and returns any errors the executor retained from
// panicking listener callbacks. It is a no-op if an executor was supplied
// with WithExecutor.
func (t *Tracker) Stop(ctx context.Context) error {
	if t.ownExec == nil {
		return nil
	}
	return t.ownExec.Stop(ctx)
}
