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

package prefixlist

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/prom"
)

// Metrics are the metrics of a Transaction.
type Metrics struct {
	// Loads counts load operations by result.
	Loads func(result string) metrics.Counter
	// Transactions counts transactions by terminal state.
	Transactions func(state string) metrics.Counter
}

// NewMetrics creates the transaction metrics.
func NewMetrics(opts ...metrics.Option) Metrics {
	auto := metrics.ApplyOptions(opts...).Auto()
	loads := auto.NewCounterVec(prometheus.CounterOpts{
		Name: "prefixlist_loads_total",
		Help: "The number of configuration statements loaded, by result.",
	}, []string{prom.LabelResult})
	transactions := auto.NewCounterVec(prometheus.CounterOpts{
		Name: "prefixlist_transactions_total",
		Help: "The number of configuration transactions, by terminal state.",
	}, []string{prom.LabelState})
	return Metrics{
		Loads: func(result string) metrics.Counter {
			return loads.With(prometheus.Labels{prom.LabelResult: result})
		},
		Transactions: func(state string) metrics.Counter {
			return transactions.With(prometheus.Labels{prom.LabelState: state})
		},
	}
}
