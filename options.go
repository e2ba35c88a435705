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
	"go.uber.org/net/metrics"
	"go.uber.org/zap"
)

type options struct {
	logger   *zap.Logger
	meter    *metrics.Scope
	executor Executor
}

// Option customizes the behavior of a Tracker.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(options *options) { f(options) }

// Logger specifies a logger. Transitions are logged at Debug level.
//
// Defaults to a no-op logger.
func Logger(logger *zap.Logger) Option {
	return optionFunc(func(options *options) {
		options.logger = logger
	})
}

// Meter specifies a metrics scope on which the tracker registers transition
// counters.
//
// Defaults to no metrics.
func Meter(meter *metrics.Scope) Option {
	return optionFunc(func(options *options) {
		options.meter = meter
	})
}

// WithExecutor specifies the facility that delivers listener callbacks. The
// caller retains ownership: Stop on the tracker does not stop an executor
// supplied through this option.
//
// Defaults to a "go.uber.org/connstate/executor".Serial owned and stopped
// by the tracker.
func WithExecutor(executor Executor) Option {
	return optionFunc(func(options *options) {
		options.executor = executor
	})
}
