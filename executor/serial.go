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

// Package executor provides the default asynchronous callback facility for
// connection status notifications.
package executor

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Serial executes submitted tasks one at a time, in submission order, on a
// single worker goroutine. Submission never blocks on task execution; the
// queue is unbounded.
//
// Tasks that panic do not kill the worker. Each recovered panic is logged
// and retained, and Stop returns the retained errors combined.
type Serial struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool
	errs    []error

	done   chan struct{}
	logger *zap.Logger
}

type options struct {
	logger *zap.Logger
}

// Option customizes a Serial executor.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(options *options) { f(options) }

// Logger specifies a logger for recovered task panics.
func Logger(logger *zap.Logger) Option {
	return optionFunc(func(options *options) {
		options.logger = logger
	})
}

// NewSerial starts a serial executor. The caller must eventually call Stop
// to reclaim the worker goroutine.
func NewSerial(opts ...Option) *Serial {
	var options options
	for _, o := range opts {
		o.apply(&options)
	}

	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Serial{
		done:   make(chan struct{}),
		logger: logger,
	}
	e.cond = sync.NewCond(&e.mu)
	go e.run()
	return e
}

// Submit enqueues a task for execution on the worker goroutine. Tasks
// submitted after Stop are dropped.
func (e *Serial) Submit(task func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	e.queue = append(e.queue, task)
	e.cond.Signal()
}

// Stop drains the queue, stops the worker goroutine, and returns every
// error retained from panicking tasks, combined. If the context ends before
// the drain completes the context's error is returned instead and the
// worker keeps draining in the background. Stop is idempotent.
func (e *Serial) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.stopped {
		e.stopped = true
		e.cond.Signal()
	}
	e.mu.Unlock()

	select {
	case <-e.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return multierr.Combine(e.errs...)
}

func (e *Serial) run() {
	defer close(e.done)
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.stopped {
			e.cond.Wait()
		}
		if len(e.queue) == 0 && e.stopped {
			e.mu.Unlock()
			return
		}
		batch := e.queue
		e.queue = nil
		e.mu.Unlock()

		for _, task := range batch {
			e.execute(task)
		}
	}
}

func (e *Serial) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("task panicked: %v", r)
			e.logger.Error("Recovered panic from submitted task.", zap.Error(err))
			e.mu.Lock()
			e.errs = append(e.errs, err)
			e.mu.Unlock()
		}
	}()
	task()
}
