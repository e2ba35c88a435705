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

// Package testtime scales test timeouts for CPU-starved CI systems via the
// TEST_TIME_SCALE environment variable.
package testtime

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

var scale = 1.0

func init() {
	v := os.Getenv("TEST_TIME_SCALE")
	if v == "" {
		return
	}
	fv, err := strconv.ParseFloat(v, 64)
	if err != nil {
		panic(fmt.Sprintf("invalid TEST_TIME_SCALE %q: %v", v, err))
	}
	scale = fv
	fmt.Fprintln(os.Stderr, "Scaling test time by factor", scale)
}

// Scale returns the duration multiplied by the configured scale factor.
func Scale(d time.Duration) time.Duration {
	return time.Duration(scale * float64(d))
}
