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

// trackerMetrics counts accepted transitions. All counters tolerate nil, so
// a tracker without a Meter option increments no-ops.
type trackerMetrics struct {
	connectAttempts   *metrics.Counter
	connects          *metrics.Counter
	duplicateConnects *metrics.Counter
	disconnects       *metrics.Counter
}

func newTrackerMetrics(meter *metrics.Scope, logger *zap.Logger) trackerMetrics {
	var m trackerMetrics
	if meter == nil {
		return m
	}

	var err error
	m.connectAttempts, err = meter.Counter(metrics.Spec{
		Name: "connection_attempts",
		Help: "Number of accepted transitions into the connecting state.",
	})
	if err != nil {
		logger.Error("Failed to create connection attempts counter.", zap.Error(err))
	}
	m.connects, err = meter.Counter(metrics.Spec{
		Name: "connects",
		Help: "Number of disconnected to connected edges.",
	})
	if err != nil {
		logger.Error("Failed to create connects counter.", zap.Error(err))
	}
	m.duplicateConnects, err = meter.Counter(metrics.Spec{
		Name: "duplicate_connects",
		Help: "Number of connected reports suppressed because the connection was already connected.",
	})
	if err != nil {
		logger.Error("Failed to create duplicate connects counter.", zap.Error(err))
	}
	m.disconnects, err = meter.Counter(metrics.Spec{
		Name: "disconnects",
		Help: "Number of connected or connecting to disconnected edges.",
	})
	if err != nil {
		logger.Error("Failed to create disconnects counter.", zap.Error(err))
	}
	return m
}
