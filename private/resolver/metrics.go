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

package resolver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rifier/rifier/pkg/metrics"
)

// Metrics are the metrics of a Builder. Nil fields are not reported.
type Metrics struct {
	ASNs     metrics.Gauge
	Prefixes metrics.Gauge
}

// NewMetrics creates the builder metrics.
func NewMetrics(opts ...metrics.Option) Metrics {
	auto := metrics.ApplyOptions(opts...).Auto()
	return Metrics{
		ASNs: auto.NewGauge(prometheus.GaugeOpts{
			Name: "resolver_asns",
			Help: "The number of AS numbers expanded by the last resolution.",
		}),
		Prefixes: auto.NewGauge(prometheus.GaugeOpts{
			Name: "resolver_prefixes",
			Help: "The number of prefixes resolved by the last resolution.",
		}),
	}
}
