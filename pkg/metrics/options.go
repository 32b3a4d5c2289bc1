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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is the prometheus namespace of all rifier metrics.
const Namespace = "rifier"

type Option func(*Options)

// Options configures the metrics Factory, construct it using the ApplyOptions
// function.
type Options struct {
	registry prometheus.Registerer
}

func (o Options) registerer() prometheus.Registerer {
	if o.registry != nil {
		return o.registry
	}
	return prometheus.DefaultRegisterer
}

// WithRegistry registers all metrics with the given registry instead of the
// default one.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(o *Options) {
		o.registry = registry
	}
}

func ApplyOptions(options ...Option) Options {
	opts := Options{}
	for _, option := range options {
		option(&opts)
	}
	return opts
}

// Auto creates a Factory that uses the provided Options as registry. If no
// explicit registry is set the default registry is used.
func (o Options) Auto() Factory {
	return Factory{opts: o}
}

// Factory registers the metrics it creates. Metric names are prefixed with
// Namespace unless a namespace is set explicitly.
type Factory struct {
	opts Options
}

func (f Factory) NewCounterVec(
	opts prometheus.CounterOpts,
	labelNames []string,
) *prometheus.CounterVec {
	if opts.Namespace == "" {
		opts.Namespace = Namespace
	}
	c := prometheus.NewCounterVec(opts, labelNames)
	f.opts.registerer().MustRegister(c)
	return c
}

func (f Factory) NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	if opts.Namespace == "" {
		opts.Namespace = Namespace
	}
	c := prometheus.NewCounter(opts)
	f.opts.registerer().MustRegister(c)
	return c
}

func (f Factory) NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	if opts.Namespace == "" {
		opts.Namespace = Namespace
	}
	g := prometheus.NewGauge(opts)
	f.opts.registerer().MustRegister(g)
	return g
}

func (f Factory) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	if opts.Namespace == "" {
		opts.Namespace = Namespace
	}
	g := prometheus.NewGaugeVec(opts, labelNames)
	f.opts.registerer().MustRegister(g)
	return g
}
