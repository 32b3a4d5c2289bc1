// Copyright 2026 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics defines the metric interfaces used throughout rifier, a
// prometheus backed factory to create them and fakes for tests.
//
// All helper functions accept nil metrics, in which case they are no-ops.
// This allows components to be constructed without metrics.
package metrics

import (
	"time"
)

// Counter describes a metric that accumulates values monotonically.
type Counter interface {
	Add(delta float64)
}

// Gauge describes a metric that takes specific values over time.
type Gauge interface {
	Set(value float64)
	Add(delta float64)
}

// CounterInc increases the passed in counter by 1.
func CounterInc(c Counter) {
	CounterAdd(c, 1)
}

// CounterAdd increases the passed in counter by the amount specified.
func CounterAdd(c Counter, v float64) {
	if c != nil {
		c.Add(v)
	}
}

// GaugeSet sets the passed in gauge to the value specified.
func GaugeSet(g Gauge, v float64) {
	if g != nil {
		g.Set(v)
	}
}

// GaugeSetCurrentTime sets the passed in gauge to the current unix time.
func GaugeSetCurrentTime(g Gauge) {
	GaugeSet(g, float64(time.Now().UnixNano())/1e9)
}
