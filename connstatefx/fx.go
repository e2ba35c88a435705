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

// Package connstatefx provides a connection status tracker to Fx
// applications.
package connstatefx

import (
	"context"

	"go.uber.org/connstate"
	"go.uber.org/fx"
	"go.uber.org/net/metrics"
	"go.uber.org/zap"
)

// Module produces a shared *connstate.Tracker, stopped with the
// application.
var Module = fx.Provide(New)

// Params are the dependencies of the tracker.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.Logger
	Scope     *metrics.Scope     `optional:"true"`
	Executor  connstate.Executor `optional:"true"`
}

// Results holds the constructed tracker.
type Results struct {
	fx.Out

	Tracker *connstate.Tracker
}

// New constructs a Tracker from the injected dependencies and ties its
// shutdown to the application lifecycle.
func New(p Params) (Results, error) {
	opts := []connstate.Option{connstate.Logger(p.Logger)}
	if p.Scope != nil {
		opts = append(opts, connstate.Meter(p.Scope))
	}
	if p.Executor != nil {
		opts = append(opts, connstate.WithExecutor(p.Executor))
	}

	tracker := connstate.New(opts...)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tracker.Stop(ctx)
		},
	})
	return Results{Tracker: tracker}, nil
}
