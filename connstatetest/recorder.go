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

// Package connstatetest provides test doubles for connection status
// listeners.
package connstatetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/connstate"
)

// EventKind identifies the listener callback an event was recorded from.
type EventKind int

const (
	// EventConnecting records a Connecting callback.
	EventConnecting EventKind = iota

	// EventConnected records a Connected callback.
	EventConnected

	// EventDisconnected records a Disconnected callback.
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventConnecting:
		return "connecting"
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Event is one recorded listener callback.
type Event struct {
	Kind EventKind

	// Reason is set for EventDisconnected events only.
	Reason string
}

// Recorder is a connstate.Listener that records every callback on a
// buffered channel, in delivery order.
type Recorder struct {
	// C receives one Event per delivered callback.
	C chan Event
}

var _ connstate.Listener = (*Recorder)(nil)

// NewRecorder returns a Recorder with room for 128 buffered events.
func NewRecorder() *Recorder {
	return &Recorder{C: make(chan Event, 128)}
}

// Connecting records an EventConnecting event.
func (r *Recorder) Connecting() {
	r.C <- Event{Kind: EventConnecting}
}

// Connected records an EventConnected event.
func (r *Recorder) Connected() {
	r.C <- Event{Kind: EventConnected}
}

// Disconnected records an EventDisconnected event with the given reason.
func (r *Recorder) Disconnected(reason string) {
	r.C <- Event{Kind: EventDisconnected, Reason: reason}
}

// Next returns the next recorded event, waiting up to the given timeout. It
// reports false if no event arrived in time.
func (r *Recorder) Next(timeout time.Duration) (Event, bool) {
	select {
	case ev := <-r.C:
		return ev, true
	case <-time.After(timeout):
		return Event{}, false
	}
}

// RequireNext fails the test unless the next event arrives within the
// timeout and equals want.
func (r *Recorder) RequireNext(t testing.TB, want Event, timeout time.Duration) {
	t.Helper()
	ev, ok := r.Next(timeout)
	require.True(t, ok, "no %v event within %v", want.Kind, timeout)
	require.Equal(t, want, ev)
}

// RequireNone fails the test if any event arrives within the given window.
func (r *Recorder) RequireNone(t testing.TB, window time.Duration) {
	t.Helper()
	if ev, ok := r.Next(window); ok {
		t.Fatalf("unexpected %v event", ev.Kind)
	}
}
