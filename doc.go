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

// Package connstate tracks the status of a persistent, re-connectable
// client connection, for any number of concurrent callers.
//
// The Tracker answers two questions: whether the connection is established
// right now, and, synchronously or asynchronously, when that changes.
// Connection managers report lifecycle events through the transition entry
// points (Connecting, Connected, Disconnected, Cancel); independent callers
// probe the status with non-blocking queries, block until connected with
// WaitForConnection, or register Listeners for asynchronous notifications.
//
// The tracker performs no I/O and implements no reconnect policy. It is the
// synchronization core that socket handling, command dispatch, and
// reconnect loops coordinate through: work that needs a live connection
// waits on the tracker, and state changes fan out to listeners exactly once
// per edge, however many goroutines race to report them.
package connstate
