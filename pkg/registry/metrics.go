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

package registry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/prom"
)

// Metrics contains the metrics of the registry client.
type Metrics struct {
	// Requests counts the HTTP attempts by result.
	Requests func(result string) metrics.Counter
	// Retries counts the attempts that were retried.
	Retries metrics.Counter
}

// NewMetrics creates the registry client metrics.
func NewMetrics(opts ...metrics.Option) Metrics {
	auto := metrics.ApplyOptions(opts...).Auto()
	requests := auto.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_requests_total",
		Help: "The number of HTTP requests sent to the registry, by result.",
	}, []string{prom.LabelResult})
	retries := auto.NewCounter(prometheus.CounterOpts{
		Name: "registry_retries_total",
		Help: "The number of registry requests that were retried.",
	})
	return Metrics{
		Requests: func(result string) metrics.Counter {
			return requests.With(prometheus.Labels{prom.LabelResult: result})
		},
		Retries: retries,
	}
}
