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

// Listener receives connection status change notifications.
//
// Callbacks are delivered through the tracker's Executor, off the goroutine
// that reported the transition, one task per listener per event. Callbacks
// for the same listener arrive in transition order when the executor
// preserves submission order (the default executor does); no ordering holds
// relative to the reporting goroutine's subsequent code.
//
// Registration takes effect only for transitions accepted strictly after
// AddListener returns. A listener removed concurrently with a transition
// may still receive that transition's already-submitted callback.
type Listener interface {
	// Connecting indicates that a connection attempt has started.
	Connecting()

	// Connected indicates that the connection is established.
	Connected()

	// Disconnected indicates that the connection was lost or abandoned,
	// with a human-readable reason.
	Disconnected(reason string)
}
