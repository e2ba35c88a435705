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

package connstate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/connstate"
	"go.uber.org/connstate/connstatetest"
	"go.uber.org/connstate/executor"
	"go.uber.org/connstate/internal/testtime"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func stop(t *testing.T, tracker *connstate.Tracker) {
	t.Helper()
	require.NoError(t, tracker.Stop(context.Background()))
}

// drained empties the recorder's channel after the tracker's executor has
// stopped, returning every event that was delivered.
func drained(r *connstatetest.Recorder) []connstatetest.Event {
	var evs []connstatetest.Event
	for {
		select {
		case ev := <-r.C:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func TestFreshTracker(t *testing.T) {
	tracker := connstate.New()
	defer stop(t, tracker)

	assert.False(t, tracker.IsConnected())
	assert.False(t, tracker.IsConnecting())
	assert.False(t, tracker.IsCancelled())
	assert.True(t, tracker.LastChange().IsZero(), "no transition yet, timestamp must be the zero sentinel")
}

func TestLifecycleRoundTrip(t *testing.T) {
	tracker := connstate.New()
	rec := connstatetest.NewRecorder()
	tracker.AddListener(rec)

	timeout := testtime.Scale(5 * time.Second)

	tracker.Connecting()
	assert.True(t, tracker.IsConnecting())
	assert.False(t, tracker.IsConnected())
	rec.RequireNext(t, connstatetest.Event{Kind: connstatetest.EventConnecting}, timeout)

	tracker.Connected()
	assert.True(t, tracker.IsConnected())
	assert.False(t, tracker.IsConnecting())
	rec.RequireNext(t, connstatetest.Event{Kind: connstatetest.EventConnected}, timeout)

	tracker.Disconnected("timeout")
	assert.False(t, tracker.IsConnected())
	rec.RequireNext(t, connstatetest.Event{Kind: connstatetest.EventDisconnected, Reason: "timeout"}, timeout)

	tracker.Connecting()
	tracker.Cancel()
	assert.True(t, tracker.IsCancelled())
	assert.False(t, tracker.IsConnected())
	rec.RequireNext(t, connstatetest.Event{Kind: connstatetest.EventConnecting}, timeout)
	rec.RequireNext(t, connstatetest.Event{
		Kind:   connstatetest.EventDisconnected,
		Reason: connstate.ReasonCancelled,
	}, timeout)

	tracker.ClearCancelled()
	assert.False(t, tracker.IsCancelled())

	stop(t, tracker)
	assert.Empty(t, drained(rec))
}

func TestConnectedTwiceNotifiesOnce(t *testing.T) {
	tracker := connstate.New()
	rec := connstatetest.NewRecorder()
	tracker.AddListener(rec)

	tracker.Connected()
	tracker.Connected()
	tracker.Connected()
	assert.True(t, tracker.IsConnected())

	stop(t, tracker)
	assert.Equal(t,
		[]connstatetest.Event{{Kind: connstatetest.EventConnected}},
		drained(rec),
		"duplicate connected reports must be suppressed")
}

func TestConcurrentConnectedNotifiesOnce(t *testing.T) {
	const callers = 32

	tracker := connstate.New()
	rec := connstatetest.NewRecorder()
	tracker.AddListener(rec)

	var group errgroup.Group
	for i := 0; i < callers; i++ {
		group.Go(func() error {
			tracker.Connected()
			return nil
		})
	}
	require.NoError(t, group.Wait())
	assert.True(t, tracker.IsConnected())

	stop(t, tracker)
	assert.Equal(t,
		[]connstatetest.Event{{Kind: connstatetest.EventConnected}},
		drained(rec),
		"racing connected reports must fire exactly one notification")
}

func TestDisconnectedWhileDisconnectedIsNoOp(t *testing.T) {
	tracker := connstate.New()
	rec := connstatetest.NewRecorder()
	tracker.AddListener(rec)

	tracker.Disconnected("nothing to do")
	assert.True(t, tracker.LastChange().IsZero())

	stop(t, tracker)
	assert.Empty(t, drained(rec))
}

func TestConnectingWhileConnectingIsNoOp(t *testing.T) {
	tracker := connstate.New()
	rec := connstatetest.NewRecorder()
	tracker.AddListener(rec)

	tracker.Connecting()
	tracker.Connecting()

	stop(t, tracker)
	assert.Equal(t,
		[]connstatetest.Event{{Kind: connstatetest.EventConnecting}},
		drained(rec))
}

func TestConnectingDropsConnectedPermit(t *testing.T) {
	tracker := connstate.New()
	defer stop(t, tracker)

	tracker.Connected()
	require.True(t, tracker.IsConnected())

	tracker.Connecting()
	assert.False(t, tracker.IsConnected(), "connecting implies not yet connected")
	assert.True(t, tracker.IsConnecting())
}

func TestConnectingClearsCancelled(t *testing.T) {
	tracker := connstate.New()
	defer stop(t, tracker)

	tracker.Connecting()
	tracker.Cancel()
	require.True(t, tracker.IsCancelled())

	tracker.Connecting()
	assert.False(t, tracker.IsCancelled())
}

func TestCancelWhileDisconnectedSetsFlagWithoutNotification(t *testing.T) {
	tracker := connstate.New()
	rec := connstatetest.NewRecorder()
	tracker.AddListener(rec)

	tracker.Cancel()
	assert.True(t, tracker.IsCancelled())

	stop(t, tracker)
	assert.Empty(t, drained(rec), "cancel of an idle connection must not notify")
}

func TestWaitForConnectionUnblocksEveryWaiter(t *testing.T) {
	const waiters = 32

	tracker := connstate.New()
	defer stop(t, tracker)

	var group errgroup.Group
	for i := 0; i < waiters; i++ {
		group.Go(func() error {
			return tracker.WaitForConnection(context.Background())
		})
	}

	time.Sleep(testtime.Scale(10 * time.Millisecond))
	tracker.Connected()

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(testtime.Scale(5 * time.Second)):
		t.Fatal("not every waiter unblocked")
	}
	assert.True(t, tracker.IsConnected(), "waiters must not steal the connected permit")
}

func TestWaitForConnectionAlreadyConnected(t *testing.T) {
	tracker := connstate.New()
	defer stop(t, tracker)

	tracker.Connected()
	require.NoError(t, tracker.WaitForConnection(context.Background()))
	assert.True(t, tracker.IsConnected())
}

func TestWaitForConnectionContextCancelled(t *testing.T) {
	tracker := connstate.New()
	defer stop(t, tracker)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(testtime.Scale(10 * time.Millisecond))
		cancel()
	}()
	err := tracker.WaitForConnection(ctx)
	assert.Equal(t, context.Canceled, err)
	assert.False(t, tracker.IsConnected())
}

func TestWaitForConnectionTimeoutLapses(t *testing.T) {
	tracker := connstate.New()
	defer stop(t, tracker)

	ok, err := tracker.WaitForConnectionTimeout(context.Background(), testtime.Scale(10*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, tracker.IsConnected())
}

func TestWaitForConnectionTimeoutObservesConnect(t *testing.T) {
	tracker := connstate.New()
	defer stop(t, tracker)

	go func() {
		time.Sleep(testtime.Scale(10 * time.Millisecond))
		tracker.Connected()
	}()
	ok, err := tracker.WaitForConnectionTimeout(context.Background(), testtime.Scale(5*time.Second))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, tracker.IsConnected())
}

func TestAddListenerTwiceIsNoOp(t *testing.T) {
	tracker := connstate.New()
	rec := connstatetest.NewRecorder()
	tracker.AddListener(rec)
	tracker.AddListener(rec)

	tracker.Connected()

	stop(t, tracker)
	assert.Len(t, drained(rec), 1, "a listener registered twice must be notified once")
}

func TestRemoveListener(t *testing.T) {
	tracker := connstate.New()
	kept := connstatetest.NewRecorder()
	removed := connstatetest.NewRecorder()
	tracker.AddListener(kept)
	tracker.AddListener(removed)
	tracker.RemoveListener(removed)
	tracker.RemoveListener(connstatetest.NewRecorder()) // absent, no-op

	tracker.Connected()

	stop(t, tracker)
	assert.Len(t, drained(kept), 1)
	assert.Empty(t, drained(removed))
}

func TestListenerAddedAfterTransitionMissesIt(t *testing.T) {
	tracker := connstate.New()

	tracker.Connected()

	late := connstatetest.NewRecorder()
	tracker.AddListener(late)
	tracker.Disconnected("link reset")

	stop(t, tracker)
	assert.Equal(t,
		[]connstatetest.Event{{Kind: connstatetest.EventDisconnected, Reason: "link reset"}},
		drained(late),
		"registration takes effect only for later transitions")
}

type namedListener struct {
	name string
	mu   *sync.Mutex
	log  *[]string
}

func (l *namedListener) Connecting() {}

func (l *namedListener) Connected() {
	l.mu.Lock()
	*l.log = append(*l.log, l.name)
	l.mu.Unlock()
}

func (l *namedListener) Disconnected(string) {}

func TestListenersNotifiedInRegistrationOrder(t *testing.T) {
	tracker := connstate.New()

	var (
		mu  sync.Mutex
		log []string
	)
	tracker.AddListener(&namedListener{name: "first", mu: &mu, log: &log})
	tracker.AddListener(&namedListener{name: "second", mu: &mu, log: &log})
	tracker.AddListener(&namedListener{name: "third", mu: &mu, log: &log})

	tracker.Connected()

	stop(t, tracker)
	assert.Equal(t, []string{"first", "second", "third"}, log)
}

func TestWithExecutor(t *testing.T) {
	exec := executor.NewSerial()
	tracker := connstate.New(connstate.WithExecutor(exec))
	rec := connstatetest.NewRecorder()
	tracker.AddListener(rec)

	tracker.Connected()

	// Stop on the tracker must not touch the supplied executor.
	require.NoError(t, tracker.Stop(context.Background()))
	require.NoError(t, exec.Stop(context.Background()))
	assert.Equal(t,
		[]connstatetest.Event{{Kind: connstatetest.EventConnected}},
		drained(rec))
}
