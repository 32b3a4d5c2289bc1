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

package prefixsync

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/prom"
)

// NewMetrics creates the run metrics.
func NewMetrics(opts ...metrics.Option) Metrics {
	auto := metrics.ApplyOptions(opts...).Auto()
	runs := auto.NewCounterVec(prometheus.CounterOpts{
		Name: "runs_total",
		Help: "The number of sync runs, by result.",
	}, []string{prom.LabelResult})
	return Metrics{
		Runs: func(result string) metrics.Counter {
			return runs.With(prometheus.Labels{prom.LabelResult: result})
		},
		LastSuccess: auto.NewGauge(prometheus.GaugeOpts{
			Name: "last_success_timestamp_seconds",
			Help: "The unix time of the last successful sync run.",
		}),
		Duration: auto.NewGauge(prometheus.GaugeOpts{
			Name: "run_duration_seconds",
			Help: "The duration of the last sync run.",
		}),
	}
}
